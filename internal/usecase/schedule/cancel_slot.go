package schedule

import (
	"context"
	"log"

	"github.com/advisorydesk/advisory-scheduler/internal/audit"
	domain "github.com/advisorydesk/advisory-scheduler/internal/domain/schedule"
	"github.com/advisorydesk/advisory-scheduler/internal/notify"
)

// Operator-only terminal edge: Open or Held -> Cancelled.
type CancelSlot struct {
	repo   domain.Repository
	cache  SlotsCache
	events EventDispatcher
	audit  *audit.Dispatcher
}

func NewCancelSlot(
	repo domain.Repository,
	cache SlotsCache,
	events EventDispatcher,
	audit *audit.Dispatcher,
) *CancelSlot {
	return &CancelSlot{
		repo:   repo,
		cache:  cache,
		events: events,
		audit:  audit,
	}
}

func (uc *CancelSlot) Execute(
	ctx context.Context,
	operatorID uint,
	slotID uint,
	reason string,
) error {

	slot, err := uc.repo.GetSlot(ctx, slotID)
	if err != nil {
		return err
	}

	var email string
	var bookingID uint
	if booking, err := uc.repo.GetPendingBookingBySlot(ctx, slotID); err == nil {
		email = booking.Client.Email
		bookingID = booking.ID
	}

	if err := uc.repo.CancelSlot(ctx, slotID, reason); err != nil {
		return err
	}

	if uc.cache != nil {
		if err := uc.cache.Invalidate(ctx); err != nil {
			log.Printf("cancel: invalidate slots cache: %v", err)
		}
	}

	if uc.events != nil {
		uc.events.Dispatch(notify.Event{
			Type:        notify.EventCancelled,
			SlotID:      slot.ID,
			BookingID:   bookingID,
			ServiceType: slot.ServiceType,
			Date:        slot.Date,
			Time:        slot.Time,
			ClientEmail: email,
			Reason:      reason,
		})
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &operatorID,
		Action:   "slot_cancelled",
		Entity:   "slot",
		EntityID: &slotID,
		Metadata: map[string]any{"reason": reason},
	})

	return nil
}
