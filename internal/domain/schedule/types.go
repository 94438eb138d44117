package schedule

import "time"

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

type MaterializeResult struct {
	Created int `json:"created"`
	Skipped int `json:"skipped"`
}

// ConflictReport flags two active definitions claiming the same
// (date, time, service_type) key. Never auto-resolved.
type ConflictReport struct {
	Date        string   `json:"date"`
	Time        string   `json:"time"`
	ServiceType string   `json:"service_type"`
	Definitions []string `json:"definitions"`
}

type ReconcileResult struct {
	Created   int              `json:"created"`
	Conflicts []ConflictReport `json:"conflicts"`
}

type SweepResult struct {
	Released int `json:"released"`
	Failed   int `json:"failed"`
}

type OpenSlotsQuery struct {
	ServiceType string
	From        string
	To          string
}

type HoldInput struct {
	SlotID      uint
	ClientName  string
	ClientPhone string
	ClientEmail string
}

type HoldResult struct {
	SlotID      uint      `json:"slot_id"`
	BookingID   uint      `json:"booking_id"`
	HoldToken   string    `json:"hold_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	CheckoutURL string    `json:"checkout_url,omitempty"`
}

// SlotKey is the identity a slot is unique on.
func SlotKey(date, hm, serviceType string) string {
	return date + " " + hm + " " + serviceType
}
