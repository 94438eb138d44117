package models

import "time"

// Slot is a concrete dated bookable unit. Exactly one slot may exist
// per (date, time, service_type); the composite unique index plus the
// conditional state transitions in the repository are what keep two
// users from ever being confirmed into the same slot.
type Slot struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Date string `gorm:"size:10;not null;uniqueIndex:idx_slot_key" json:"date"`
	Time string `gorm:"size:5;not null;uniqueIndex:idx_slot_key" json:"time"`

	ServiceType string `gorm:"size:20;not null;uniqueIndex:idx_slot_key" json:"service_type"`

	// Frozen from the template at materialization time; later template
	// edits do not reach already-materialized slots.
	DurationMin int     `json:"duration_min"`
	Price       float64 `json:"price"`

	State string `gorm:"size:20;default:'open';index" json:"state"`

	HolderRef     string     `gorm:"size:100" json:"holder_ref,omitempty"`
	HoldToken     string     `gorm:"size:64;index" json:"-"`
	HoldExpiresAt *time.Time `gorm:"index" json:"hold_expires_at,omitempty"`

	ConfirmedBookingID *uint `json:"confirmed_booking_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
