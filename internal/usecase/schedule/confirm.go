package schedule

import (
	"context"
	"log"
	"time"

	domain "github.com/advisorydesk/advisory-scheduler/internal/domain/schedule"
	"github.com/advisorydesk/advisory-scheduler/internal/httperr"
	"github.com/advisorydesk/advisory-scheduler/internal/models"
	"github.com/advisorydesk/advisory-scheduler/internal/notify"
)

type ConfirmSlot struct {
	repo   domain.Repository
	cache  SlotsCache
	events EventDispatcher
}

func NewConfirmSlot(
	repo domain.Repository,
	cache SlotsCache,
	events EventDispatcher,
) *ConfirmSlot {
	return &ConfirmSlot{
		repo:   repo,
		cache:  cache,
		events: events,
	}
}

// Execute drives Held->Confirmed. Expiry is checked lazily right here,
// not only by the background sweeper: a payment landing after the TTL
// fails with hold_expired even when no sweep has run yet, and the
// caller routes it to the refund/retry path. When the TTL instant and
// the confirm coincide, expiry wins.
func (uc *ConfirmSlot) Execute(
	ctx context.Context,
	slotID uint,
	token string,
	paymentStatus string,
	externalRef string,
	now time.Time,
) (*models.Booking, error) {

	slot, err := uc.repo.GetSlot(ctx, slotID)
	if err != nil {
		return nil, err
	}

	if err := domain.CanConfirm(domain.SlotState(slot.State)); err != nil {
		return nil, err
	}

	if slot.HoldToken != token {
		return nil, httperr.ErrBusiness(domain.CodeInvalidHoldToken)
	}

	if slot.HoldExpiresAt == nil || !now.Before(*slot.HoldExpiresAt) {
		return nil, httperr.ErrBusiness(domain.CodeHoldExpired)
	}

	var email string
	if pending, err := uc.repo.GetPendingBookingBySlot(ctx, slotID); err == nil {
		email = pending.Client.Email
	}

	booking, err := uc.repo.ConfirmSlot(
		ctx, slotID, token, paymentStatus, externalRef,
	)
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		if err := uc.cache.Invalidate(ctx); err != nil {
			log.Printf("confirm: invalidate slots cache: %v", err)
		}
	}

	if uc.events != nil {
		uc.events.Dispatch(notify.Event{
			Type:        notify.EventConfirmed,
			SlotID:      slot.ID,
			BookingID:   booking.ID,
			ServiceType: slot.ServiceType,
			Date:        slot.Date,
			Time:        slot.Time,
			ClientEmail: email,
		})
	}

	return booking, nil
}
