package notify

import "log"

// Slot state-transition events. Delivery failures never roll back the
// transition that produced them.

const (
	EventHeld      = "slot_held"
	EventConfirmed = "slot_confirmed"
	EventReleased  = "slot_released"
	EventCancelled = "slot_cancelled"
)

type Event struct {
	Type        string
	SlotID      uint
	BookingID   uint
	ServiceType string
	Date        string
	Time        string
	ClientEmail string
	Reason      string
}

// Notifier is the email/calendar side-effect collaborator.
type Notifier interface {
	Notify(ev Event) error
}

// EmailNotifier is the default sink; a real deployment plugs an SMTP
// or calendar client behind the same interface.
type EmailNotifier struct{}

func NewEmailNotifier() *EmailNotifier {
	return &EmailNotifier{}
}

func (n *EmailNotifier) Notify(ev Event) error {
	if ev.ClientEmail == "" {
		return nil
	}
	log.Printf(
		"notify %s to %s: %s %s %s (booking %d)",
		ev.Type, ev.ClientEmail, ev.ServiceType, ev.Date, ev.Time, ev.BookingID,
	)
	return nil
}
