package models

import "time"

type TableStatus string

const (
	TableStatusAvailable TableStatus = "available"
	TableStatusOccupied  TableStatus = "occupied"
)

// Table: a physical seating unit. Rows are created by seeding and never deleted.
// Status is occupied exactly while a pending order references the table.
type Table struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	Status    TableStatus `gorm:"size:20;not null;default:'available'" json:"status"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}
