package schedule

import "github.com/advisorydesk/advisory-scheduler/internal/httperr"

// ===============================
// Slot state
// ===============================

type SlotState string

const (
	SlotOpen      SlotState = "open"
	SlotHeld      SlotState = "held"
	SlotConfirmed SlotState = "confirmed"
	SlotCancelled SlotState = "cancelled"
)

// ===============================
// Booking status
// ===============================

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

// ===============================
// Service types
// ===============================

const (
	ServiceAdvisory = "advisory"
	ServiceTraining = "training"
)

func IsValidServiceType(s string) bool {
	return s == ServiceAdvisory || s == ServiceTraining
}

// ===============================
// Error codes
// ===============================

const (
	CodeTemplateConflict = "template_conflict"
	CodeSlotUnavailable  = "slot_unavailable"
	CodeHoldExpired      = "hold_expired"
	CodeInvalidHoldToken = "invalid_hold_token"
	CodeNotFound         = "not_found"
	CodeInvalidState     = "invalid_state"
)

// ===============================
// Transition guards
// ===============================

// CanHold: only an Open slot can be held.
func CanHold(current SlotState) error {
	if current != SlotOpen {
		return httperr.ErrBusiness(CodeSlotUnavailable)
	}
	return nil
}

// CanConfirm: only a Held slot can be confirmed. A slot already swept
// back to Open carries no token anymore, so a late confirm surfaces as
// an invalid token; both outcomes restart the booking flow.
func CanConfirm(current SlotState) error {
	if current != SlotHeld {
		return httperr.ErrBusiness(CodeInvalidHoldToken)
	}
	return nil
}

// CanCancel: operator cancel is allowed from Open or Held, never from
// Confirmed (a paid booking is cancelled through its own flow).
func CanCancel(current SlotState) error {
	if current != SlotOpen && current != SlotHeld {
		return httperr.ErrBusiness(CodeInvalidState)
	}
	return nil
}

// CanComplete applies to the booking, after the session happened.
func CanComplete(current BookingStatus) error {
	if current != BookingConfirmed {
		return httperr.ErrBusiness(CodeInvalidState)
	}
	return nil
}
