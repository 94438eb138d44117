package schedule

import (
	"context"
	"time"

	"github.com/advisorydesk/advisory-scheduler/internal/audit"
	domain "github.com/advisorydesk/advisory-scheduler/internal/domain/schedule"
	"github.com/advisorydesk/advisory-scheduler/internal/models"
)

// Post-session bookkeeping: a confirmed booking becomes completed.
type CompleteBooking struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewCompleteBooking(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *CompleteBooking {
	return &CompleteBooking{
		repo:  repo,
		audit: audit,
	}
}

func (uc *CompleteBooking) Execute(
	ctx context.Context,
	operatorID uint,
	bookingID uint,
	now time.Time,
) (*models.Booking, error) {

	booking, err := uc.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if err := domain.CanComplete(domain.BookingStatus(booking.Status)); err != nil {
		return nil, err
	}

	booking.Status = string(domain.BookingCompleted)
	booking.CompletedAt = &now

	if err := uc.repo.UpdateBooking(ctx, booking); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &operatorID,
		Action:   "booking_completed",
		Entity:   "booking",
		EntityID: &booking.ID,
	})

	return booking, nil
}
