package models

import "time"

// OneOffDate is explicit non-recurring availability (e.g. a single
// make-up session). It bypasses the weekly templates but its
// materialized slot participates in the same uniqueness and state
// guarantees.
type OneOffDate struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Date string `gorm:"size:10;not null;uniqueIndex:idx_active_one_off_key,where:active" json:"date"`
	Time string `gorm:"size:5;not null;uniqueIndex:idx_active_one_off_key,where:active" json:"time"`

	ServiceType string `gorm:"size:20;not null;uniqueIndex:idx_active_one_off_key,where:active" json:"service_type"`

	DurationMin int     `json:"duration_min"`
	Price       float64 `json:"price"`

	Active bool `gorm:"default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
