package handler

import (
	"net/http"
	"strconv"

	"commflock/internal/model"
	"commflock/internal/service"

	"github.com/gin-gonic/gin"
)

type MemberHandler struct {
	svc *service.MemberService
}

func NewMemberHandler(svc *service.MemberService) *MemberHandler {
	return &MemberHandler{svc: svc}
}

func (h *MemberHandler) Join(c *gin.Context) {
	member, err := h.svc.Join(currentUserID(c), c.Param("slug"))
	if err != nil {
		fail(c, err)
		return
	}
	msg := "joined"
	if member.Status == model.StatusPending {
		msg = "join request submitted"
	}
	c.JSON(http.StatusCreated, gin.H{"msg": msg, "membership": member})
}

func (h *MemberHandler) List(c *gin.Context) {
	members, err := h.svc.List(currentUserID(c), c.Param("slug"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"members": members})
}

type moderateRequest struct {
	Status *string `json:"status"`
	Points *int64  `json:"points"`
	Role   *string `json:"role"`
}

func (h *MemberHandler) Moderate(c *gin.Context) {
	targetID, err := strconv.ParseUint(c.Param("userId"), 10, 64)
	if err != nil {
		bindErr(c, err)
		return
	}
	var req moderateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindErr(c, err)
		return
	}
	member, err := h.svc.Moderate(c.Request.Context(), currentUserID(c), c.Param("slug"), targetID, service.ModerateInput{
		Status: req.Status,
		Points: req.Points,
		Role:   req.Role,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "member updated", "membership": member})
}

func (h *MemberHandler) Membership(c *gin.Context) {
	member, err := h.svc.Membership(currentUserID(c), c.Param("slug"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"membership": member})
}
