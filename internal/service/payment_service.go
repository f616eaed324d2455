package service

import (
	"encoding/json"
	"time"

	"commflock/internal/model"
	"commflock/internal/repository/mysql"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PaymentService struct {
	repo *mysql.PaymentRepository
}

func NewPaymentService(db *gorm.DB) *PaymentService {
	return &PaymentService{repo: &mysql.PaymentRepository{DB: db}}
}

// Simulate records an always-succeeding payment for audit. No settlement happens.
func (s *PaymentService) Simulate(userID uint64, amountSats int64, paymentType string) (*model.Payment, error) {
	if amountSats <= 0 {
		amountSats = communityPriceSats
	}
	if paymentType == "" {
		paymentType = "community"
	}
	meta, _ := json.Marshal(map[string]any{
		"type":      paymentType,
		"simulated": true,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
	p := &model.Payment{
		UserID:       userID,
		AmountSats:   amountSats,
		Status:       model.PaymentSimulated,
		Reference:    uuid.NewString(),
		ProviderMeta: string(meta),
	}
	if err := s.repo.Create(p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PaymentService) History(userID uint64) ([]model.Payment, error) {
	return s.repo.ListByUser(userID)
}
