package schedule

import (
	"context"
	"log"

	domain "github.com/advisorydesk/advisory-scheduler/internal/domain/schedule"
	"github.com/advisorydesk/advisory-scheduler/internal/notify"
)

type ReleaseSlot struct {
	repo   domain.Repository
	cache  SlotsCache
	events EventDispatcher
}

func NewReleaseSlot(
	repo domain.Repository,
	cache SlotsCache,
	events EventDispatcher,
) *ReleaseSlot {
	return &ReleaseSlot{
		repo:   repo,
		cache:  cache,
		events: events,
	}
}

// Execute moves a Held slot back to Open and cancels its pending
// booking. Idempotent: releasing a slot that is not held reports
// released=false and no error.
func (uc *ReleaseSlot) Execute(
	ctx context.Context,
	slotID uint,
	reason string,
) (bool, error) {

	slot, err := uc.repo.GetSlot(ctx, slotID)
	if err != nil {
		return false, err
	}

	// Snapshot the pending booking before the transition clears it;
	// only needed for the notification.
	var email string
	var bookingID uint
	if booking, err := uc.repo.GetPendingBookingBySlot(ctx, slotID); err == nil {
		email = booking.Client.Email
		bookingID = booking.ID
	}

	released, err := uc.repo.ReleaseSlot(ctx, slotID, reason)
	if err != nil {
		return false, err
	}
	if !released {
		return false, nil
	}

	if uc.cache != nil {
		if err := uc.cache.Invalidate(ctx); err != nil {
			log.Printf("release: invalidate slots cache: %v", err)
		}
	}

	if uc.events != nil {
		uc.events.Dispatch(notify.Event{
			Type:        notify.EventReleased,
			SlotID:      slot.ID,
			BookingID:   bookingID,
			ServiceType: slot.ServiceType,
			Date:        slot.Date,
			Time:        slot.Time,
			ClientEmail: email,
			Reason:      reason,
		})
	}

	return true, nil
}
