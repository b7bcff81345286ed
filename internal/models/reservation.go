package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReservationStatus string

const (
	ReservationStatusConfirmed ReservationStatus = "confirmed"
	ReservationStatusSeated    ReservationStatus = "seated"
	ReservationStatusCancelled ReservationStatus = "cancelled"
)

// Reservation: a scheduled future seating. TableID may stay empty until the
// guest is seated; seating converts the reservation into an open order.
type Reservation struct {
	ID              string            `gorm:"type:uuid;primaryKey" json:"id"`
	CustomerName    string            `gorm:"size:100;not null" json:"customer_name"`
	ContactInfo     string            `gorm:"size:100;not null" json:"contact_info"`
	TableID         *uint             `gorm:"index" json:"table_id"`
	Table           *Table            `json:"-"`
	ReservationTime time.Time         `gorm:"not null;index" json:"reservation_time"`
	Status          ReservationStatus `gorm:"size:20;not null;index" json:"status"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

func (r *Reservation) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
