package handler

import (
	"net/http"

	"commflock/internal/service"

	"github.com/gin-gonic/gin"
)

type BadgeHandler struct {
	svc *service.BadgeService
}

func NewBadgeHandler(svc *service.BadgeService) *BadgeHandler {
	return &BadgeHandler{svc: svc}
}

type createBadgeRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

func (h *BadgeHandler) Create(c *gin.Context) {
	var req createBadgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindErr(c, err)
		return
	}
	badge, err := h.svc.Create(currentUserID(c), c.Param("slug"), req.Name, req.Description, req.Icon)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"msg": "badge created", "badge": badge})
}

func (h *BadgeHandler) List(c *gin.Context) {
	badges, err := h.svc.List(c.Param("slug"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"badges": badges})
}
