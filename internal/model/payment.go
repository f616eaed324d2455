package model

import "time"

// PaymentSimulated is the only status the simulator ever records.
const PaymentSimulated = "PAID_SIMULATED"

// Payment is an audit ledger row; settlement is simulated and always succeeds.
type Payment struct {
	ID           uint64  `gorm:"primaryKey"`
	UserID       uint64  `gorm:"not null;index"`
	EventID      *uint64 `gorm:"index"`
	AmountSats   int64   `gorm:"not null"`
	Status       string  `gorm:"size:20;not null;default:PAID_SIMULATED"`
	Reference    string  `gorm:"size:36;not null"`
	ProviderMeta string  `gorm:"type:json"`
	CreatedAt    time.Time
}
