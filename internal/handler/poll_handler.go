package handler

import (
	"net/http"
	"strconv"

	"commflock/internal/model"
	"commflock/internal/service"

	"github.com/gin-gonic/gin"
)

type PollHandler struct {
	svc *service.PollService
}

func NewPollHandler(svc *service.PollService) *PollHandler {
	return &PollHandler{svc: svc}
}

type createPollRequest struct {
	Question  string             `json:"question" binding:"required"`
	Options   []model.PollOption `json:"options" binding:"required"`
	EndsAt    string             `json:"ends_at"`
	ShowVotes bool               `json:"show_votes"`
}

func (h *PollHandler) Create(c *gin.Context) {
	var req createPollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindErr(c, err)
		return
	}
	poll, err := h.svc.Create(currentUserID(c), c.Param("slug"), service.CreatePollInput{
		Question:  req.Question,
		Options:   req.Options,
		EndsAt:    req.EndsAt,
		ShowVotes: req.ShowVotes,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"msg": "poll created", "poll": poll})
}

func (h *PollHandler) Get(c *gin.Context) {
	pollID, err := strconv.ParseUint(c.Param("pollId"), 10, 64)
	if err != nil {
		bindErr(c, err)
		return
	}
	poll, err := h.svc.Get(c.Param("slug"), pollID)
	if err != nil {
		fail(c, err)
		return
	}
	resp := gin.H{"poll": poll}
	if poll.ShowVotes {
		tally, err := h.svc.Tally(c.Request.Context(), pollID)
		if err != nil {
			fail(c, err)
			return
		}
		resp["tally"] = tally
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PollHandler) List(c *gin.Context) {
	polls, err := h.svc.List(c.Param("slug"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"polls": polls})
}

type voteRequest struct {
	OptionKey string `json:"option_key" binding:"required"`
}

func (h *PollHandler) Vote(c *gin.Context) {
	pollID, err := strconv.ParseUint(c.Param("pollId"), 10, 64)
	if err != nil {
		bindErr(c, err)
		return
	}
	var req voteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindErr(c, err)
		return
	}
	vote, err := h.svc.Vote(c.Request.Context(), currentUserID(c), pollID, req.OptionKey)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"msg": "vote recorded", "vote": vote})
}

func (h *PollHandler) Tally(c *gin.Context) {
	pollID, err := strconv.ParseUint(c.Param("pollId"), 10, 64)
	if err != nil {
		bindErr(c, err)
		return
	}
	if _, err := h.svc.Get(c.Param("slug"), pollID); err != nil {
		fail(c, err)
		return
	}
	tally, err := h.svc.Tally(c.Request.Context(), pollID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tally": tally})
}
