package entity

import (
	"time"
)

// Base carries the store-assigned id and the store-clock timestamps.
type Base struct {
	ID        string     `json:"id"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}
