package schedule

import (
	"context"
	"time"

	"github.com/advisorydesk/advisory-scheduler/internal/models"
)

// Repository is the only gate to Slot and Booking mutation. Handlers
// never write fields directly; every transition goes through one of
// the atomic transition methods below.
type Repository interface {
	// -------- Templates --------
	CreateTemplate(
		ctx context.Context,
		tpl *models.ScheduleTemplate,
	) error

	DeactivateTemplate(
		ctx context.Context,
		id uint,
	) error

	ListTemplates(
		ctx context.Context,
		serviceType string,
	) ([]models.ScheduleTemplate, error)

	ListActiveTemplates(
		ctx context.Context,
	) ([]models.ScheduleTemplate, error)

	// -------- One-off dates --------
	CreateOneOffDate(
		ctx context.Context,
		d *models.OneOffDate,
	) error

	DeactivateOneOffDate(
		ctx context.Context,
		id uint,
	) error

	ListOneOffDates(
		ctx context.Context,
		serviceType string,
	) ([]models.OneOffDate, error)

	ListActiveOneOffDatesInRange(
		ctx context.Context,
		from string,
		to string,
	) ([]models.OneOffDate, error)

	// -------- Slots --------

	// CreateSlotIfAbsent inserts the slot unless its
	// (date, time, service_type) key already exists, in any state.
	// Returns whether a row was created.
	CreateSlotIfAbsent(
		ctx context.Context,
		slot *models.Slot,
	) (bool, error)

	GetSlot(
		ctx context.Context,
		id uint,
	) (*models.Slot, error)

	ListOpenSlots(
		ctx context.Context,
		q OpenSlotsQuery,
	) ([]models.Slot, error)

	ListExpiredHeldSlots(
		ctx context.Context,
		now time.Time,
	) ([]models.Slot, error)

	CountActiveSlotsForDay(
		ctx context.Context,
		date string,
		serviceType string,
	) (int64, error)

	// -------- Transitions (each one atomic) --------

	// HoldSlot performs the Open->Held compare-and-swap and creates the
	// pending booking in the same transaction. Exactly one of N
	// concurrent calls on the same slot wins; losers get
	// slot_unavailable.
	HoldSlot(
		ctx context.Context,
		slotID uint,
		holder string,
		token string,
		expiresAt time.Time,
		booking *models.Booking,
	) error

	// ConfirmSlot performs the Held->Confirmed compare-and-swap (state
	// and token must both still match) and marks the booking confirmed.
	ConfirmSlot(
		ctx context.Context,
		slotID uint,
		token string,
		paymentStatus string,
		externalRef string,
	) (*models.Booking, error)

	// ReleaseSlot moves Held back to Open and cancels the pending
	// booking. Releasing a slot that is not held is a no-op.
	ReleaseSlot(
		ctx context.Context,
		slotID uint,
		reason string,
	) (bool, error)

	// CancelSlot is the terminal operator edge from Open or Held.
	CancelSlot(
		ctx context.Context,
		slotID uint,
		reason string,
	) error

	// -------- Bookings / clients --------
	GetOrCreateClient(
		ctx context.Context,
		name string,
		phone string,
		email string,
	) (*models.Client, error)

	GetBooking(
		ctx context.Context,
		id uint,
	) (*models.Booking, error)

	GetPendingBookingBySlot(
		ctx context.Context,
		slotID uint,
	) (*models.Booking, error)

	GetBookingByHoldToken(
		ctx context.Context,
		token string,
	) (*models.Booking, error)

	UpdateBooking(
		ctx context.Context,
		b *models.Booking,
	) error

	ListBookingsForPeriod(
		ctx context.Context,
		start time.Time,
		end time.Time,
	) ([]models.Booking, error)
}
