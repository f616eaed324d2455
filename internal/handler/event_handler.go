package handler

import (
	"net/http"
	"strconv"

	"commflock/internal/service"

	"github.com/gin-gonic/gin"
)

type EventHandler struct {
	svc *service.EventService
}

func NewEventHandler(svc *service.EventService) *EventHandler {
	return &EventHandler{svc: svc}
}

type createEventRequest struct {
	Title     string `json:"title" binding:"required"`
	StartsAt  string `json:"starts_at" binding:"required"`
	EndsAt    string `json:"ends_at" binding:"required"`
	Capacity  int    `json:"capacity"`
	PriceSats int64  `json:"price_sats"`
	MinQuorum int    `json:"min_quorum"`
	Status    string `json:"status"`
}

func (h *EventHandler) Create(c *gin.Context) {
	var req createEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindErr(c, err)
		return
	}
	event, err := h.svc.Create(currentUserID(c), c.Param("slug"), service.CreateEventInput{
		Title:     req.Title,
		StartsAt:  req.StartsAt,
		EndsAt:    req.EndsAt,
		Capacity:  req.Capacity,
		PriceSats: req.PriceSats,
		MinQuorum: req.MinQuorum,
		Status:    req.Status,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"msg": "event created", "event": event})
}

func (h *EventHandler) Get(c *gin.Context) {
	eventID, err := strconv.ParseUint(c.Param("eventId"), 10, 64)
	if err != nil {
		bindErr(c, err)
		return
	}
	event, registered, err := h.svc.Get(c.Param("slug"), eventID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"event": event, "registered_count": registered})
}

func (h *EventHandler) List(c *gin.Context) {
	events, err := h.svc.List(c.Param("slug"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

func (h *EventHandler) Registrations(c *gin.Context) {
	eventID, err := strconv.ParseUint(c.Param("eventId"), 10, 64)
	if err != nil {
		bindErr(c, err)
		return
	}
	regs, err := h.svc.Registrations(currentUserID(c), c.Param("slug"), eventID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"registrations": regs})
}

type setEventStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *EventHandler) SetStatus(c *gin.Context) {
	eventID, err := strconv.ParseUint(c.Param("eventId"), 10, 64)
	if err != nil {
		bindErr(c, err)
		return
	}
	var req setEventStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindErr(c, err)
		return
	}
	event, err := h.svc.SetStatus(currentUserID(c), c.Param("slug"), eventID, req.Status)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "event status updated", "event": event})
}

func (h *EventHandler) Register(c *gin.Context) {
	eventID, err := strconv.ParseUint(c.Param("eventId"), 10, 64)
	if err != nil {
		bindErr(c, err)
		return
	}
	reg, err := h.svc.Register(c.Request.Context(), currentUserID(c), eventID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"msg": "registered", "registration": reg})
}
