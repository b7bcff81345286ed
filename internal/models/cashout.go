package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CashOut: an immutable settlement snapshot over the transactions since the
// previous cash-out. Windows chain: StartTime picks up where the prior EndTime
// left off and InitialAmount equals the prior FinalAmount (0 for the first).
type CashOut struct {
	ID            string    `gorm:"type:uuid;primaryKey" json:"id"`
	StartTime     time.Time `gorm:"not null" json:"start_time"`
	EndTime       time.Time `gorm:"not null;index" json:"end_time"`
	InitialAmount float64   `gorm:"not null" json:"initial_amount"`
	FinalAmount   float64   `gorm:"not null" json:"final_amount"`
	TotalCash     float64   `gorm:"not null" json:"total_cash"`
	TotalCard     float64   `gorm:"not null" json:"total_card"`
	CreatedAt     time.Time `json:"created_at"`
}

func (c *CashOut) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
