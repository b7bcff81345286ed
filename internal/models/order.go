package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// OrderLine: one menu item position inside an order.
type OrderLine struct {
	MenuItemID uint   `json:"menu_item_id"`
	Quantity   int    `json:"quantity"` // >= 1
	Notes      string `json:"notes,omitempty"`
}

// OrderLines is stored as a single jsonb column on the order row.
type OrderLines []OrderLine

func (l OrderLines) Value() (driver.Value, error) {
	if l == nil {
		l = OrderLines{}
	}
	return json.Marshal(l)
}

func (l *OrderLines) Scan(value any) error {
	if value == nil {
		*l = OrderLines{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("unsupported order lines column type %T", value)
	}
}

// Order: the line items of one seating, from open until payment or cancellation.
// Total is always derived from Lines; it is never accepted from a client.
type Order struct {
	ID        string      `gorm:"type:uuid;primaryKey" json:"id"`
	TableID   uint        `gorm:"index;not null" json:"table_id"`
	Table     Table       `json:"-"`
	Lines     OrderLines  `gorm:"type:jsonb;not null" json:"lines"`
	Total     float64     `gorm:"not null" json:"total"`
	Status    OrderStatus `gorm:"size:20;not null;index" json:"status"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}
