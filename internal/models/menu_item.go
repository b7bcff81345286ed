package models

import "time"

const DefaultMenuCategory = "Others"

type MenuItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Price     float64   `gorm:"not null" json:"price"` // >= 0, enforced at the handlers
	Category  string    `gorm:"size:50;not null;default:'Others'" json:"category"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
