package handler

import (
	"net/http"

	"commflock/internal/service"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	svc *service.PaymentService
}

func NewPaymentHandler(svc *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{svc: svc}
}

type simulatePaymentRequest struct {
	AmountSats int64  `json:"amount_sats"`
	Type       string `json:"type"`
}

func (h *PaymentHandler) Simulate(c *gin.Context) {
	var req simulatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindErr(c, err)
		return
	}
	payment, err := h.svc.Simulate(currentUserID(c), req.AmountSats, req.Type)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"msg": "payment simulated", "payment": payment})
}

func (h *PaymentHandler) History(c *gin.Context) {
	payments, err := h.svc.History(currentUserID(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payments": payments})
}
