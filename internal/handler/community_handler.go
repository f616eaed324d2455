package handler

import (
	"net/http"
	"strconv"

	"commflock/internal/service"

	"github.com/gin-gonic/gin"
)

type CommunityHandler struct {
	svc *service.CommunityService
}

func NewCommunityHandler(svc *service.CommunityService) *CommunityHandler {
	return &CommunityHandler{svc: svc}
}

type createCommunityRequest struct {
	Name                     string `json:"name" binding:"required"`
	Slug                     string `json:"slug"`
	Description              string `json:"description"`
	IsPublic                 *bool  `json:"is_public"`
	JoinPolicy               string `json:"join_policy"`
	RequiresLightningAddress bool   `json:"requires_lightning_address"`
	RequiresNostrPubkey      bool   `json:"requires_nostr_pubkey"`
}

func (h *CommunityHandler) Create(c *gin.Context) {
	var req createCommunityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindErr(c, err)
		return
	}
	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}
	community, err := h.svc.Create(currentUserID(c), service.CreateCommunityInput{
		Name:                     req.Name,
		Slug:                     req.Slug,
		Description:              req.Description,
		IsPublic:                 isPublic,
		JoinPolicy:               req.JoinPolicy,
		RequiresLightningAddress: req.RequiresLightningAddress,
		RequiresNostrPubkey:      req.RequiresNostrPubkey,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"msg": "community created", "community": community})
}

func (h *CommunityHandler) Get(c *gin.Context) {
	community, memberCount, err := h.svc.GetBySlug(c.Param("slug"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"community": community, "member_count": memberCount})
}

type updateCommunityRequest struct {
	Name                     *string `json:"name"`
	Description              *string `json:"description"`
	IsPublic                 *bool   `json:"is_public"`
	JoinPolicy               *string `json:"join_policy"`
	RequiresLightningAddress *bool   `json:"requires_lightning_address"`
	RequiresNostrPubkey      *bool   `json:"requires_nostr_pubkey"`
}

func (h *CommunityHandler) Update(c *gin.Context) {
	var req updateCommunityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindErr(c, err)
		return
	}
	community, err := h.svc.Update(currentUserID(c), c.Param("slug"), service.UpdateCommunityInput{
		Name:                     req.Name,
		Description:              req.Description,
		IsPublic:                 req.IsPublic,
		JoinPolicy:               req.JoinPolicy,
		RequiresLightningAddress: req.RequiresLightningAddress,
		RequiresNostrPubkey:      req.RequiresNostrPubkey,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "community updated", "community": community})
}

// List accepts either offset/limit or page/size pagination.
func (h *CommunityHandler) List(c *gin.Context) {
	offset, limit := pagination(c, 10)
	communities, total, err := h.svc.List(c.Query("search"), offset, limit)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"communities": communities, "total": total})
}

func pagination(c *gin.Context, defaultSize int) (offset, limit int) {
	if p := c.Query("page"); p != "" {
		page, _ := strconv.Atoi(p)
		size, _ := strconv.Atoi(c.DefaultQuery("size", strconv.Itoa(defaultSize)))
		if page < 1 {
			page = 1
		}
		if size < 1 {
			size = defaultSize
		}
		return (page - 1) * size, size
	}
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultSize)))
	if offset < 0 {
		offset = 0
	}
	return offset, limit
}
