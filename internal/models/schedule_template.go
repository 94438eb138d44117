package models

import "time"

// ScheduleTemplate is the recurring weekly availability definition.
// At most one active template may occupy the same
// (weekday, hour, minute, service_type): a partial unique index over
// active rows backstops the transactional check on create, so two
// concurrent admin edits cannot both insert.
type ScheduleTemplate struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Weekday int `gorm:"uniqueIndex:idx_active_template_key,where:active" json:"weekday"`
	Hour    int `gorm:"uniqueIndex:idx_active_template_key,where:active" json:"hour"`
	Minute  int `gorm:"uniqueIndex:idx_active_template_key,where:active" json:"minute"`

	ServiceType string `gorm:"size:20;not null;uniqueIndex:idx_active_template_key,where:active" json:"service_type"`

	DurationMin       int     `json:"duration_min"`
	Price             float64 `json:"price"`
	MaxBookingsPerDay int     `json:"max_bookings_per_day"`

	Active bool `gorm:"default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
