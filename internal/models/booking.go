package models

import "time"

type Booking struct {
	ID uint `gorm:"primaryKey" json:"id"`

	SlotID uint `gorm:"index" json:"slot_id"`
	Slot   Slot `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"slot"`

	ClientID uint   `gorm:"index:idx_booking_client" json:"client_id"`
	Client   Client `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"client"`

	Type string `gorm:"size:20" json:"type"`

	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`

	Status        string `gorm:"size:20;default:'pending';index:idx_booking_client" json:"status"`
	PaymentStatus string `gorm:"size:20;default:'pending'" json:"payment_status"`

	Amount float64 `json:"amount"`

	// Payment-provider id, stored for reconciliation with the provider.
	ExternalReference string `gorm:"size:100" json:"external_reference"`

	CancelReason string     `gorm:"size:100" json:"cancel_reason,omitempty"`
	CancelledAt  *time.Time `json:"cancelled_at"`
	CompletedAt  *time.Time `json:"completed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
