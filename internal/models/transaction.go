package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PaymentMethod string

const (
	PaymentMethodCash PaymentMethod = "cash"
	PaymentMethodCard PaymentMethod = "card"
)

type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusFailed    TransactionStatus = "failed"
)

// Transaction: the payment record written once when an order completes.
// Amount equals the order total at completion time. Rows are never updated.
type Transaction struct {
	ID            string            `gorm:"type:uuid;primaryKey" json:"id"`
	OrderID       string            `gorm:"type:uuid;index;not null" json:"order_id"`
	Order         Order             `json:"-"`
	Amount        float64           `gorm:"not null" json:"amount"`
	PaymentMethod PaymentMethod     `gorm:"size:20;not null" json:"payment_method"`
	Status        TransactionStatus `gorm:"size:20;not null;index" json:"status"`
	CreatedAt     time.Time         `gorm:"index" json:"created_at"`
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}
