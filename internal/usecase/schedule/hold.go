package schedule

import (
	"context"
	"log"
	"strconv"
	"time"

	"github.com/google/uuid"

	domain "github.com/advisorydesk/advisory-scheduler/internal/domain/schedule"
	"github.com/advisorydesk/advisory-scheduler/internal/httperr"
	"github.com/advisorydesk/advisory-scheduler/internal/models"
	"github.com/advisorydesk/advisory-scheduler/internal/notify"
	"github.com/advisorydesk/advisory-scheduler/internal/payments"
)

// ======================================================
// USE CASE
// ======================================================

type HoldSlot struct {
	repo     domain.Repository
	cache    SlotsCache
	payments payments.Provider
	events   EventDispatcher

	holdTTL time.Duration
	loc     *time.Location
}

func NewHoldSlot(
	repo domain.Repository,
	cache SlotsCache,
	provider payments.Provider,
	events EventDispatcher,
	holdTTL time.Duration,
	loc *time.Location,
) *HoldSlot {
	return &HoldSlot{
		repo:     repo,
		cache:    cache,
		payments: provider,
		events:   events,
		holdTTL:  holdTTL,
		loc:      loc,
	}
}

// Execute places a time-boxed exclusive claim on an Open slot and
// creates the pending booking atomically with it. Under concurrent
// requests for the same slot exactly one caller gets a token; the
// rest get slot_unavailable.
func (uc *HoldSlot) Execute(
	ctx context.Context,
	in domain.HoldInput,
	now time.Time,
) (*domain.HoldResult, error) {

	slot, err := uc.repo.GetSlot(ctx, in.SlotID)
	if err != nil {
		return nil, err
	}

	// Fast fail; the authoritative check is the conditional update in
	// HoldSlot below.
	if err := domain.CanHold(domain.SlotState(slot.State)); err != nil {
		return nil, err
	}

	start, err := time.ParseInLocation(
		domain.DateLayout+" "+domain.TimeLayout,
		slot.Date+" "+slot.Time,
		uc.loc,
	)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_slot_time")
	}
	end := start.Add(time.Duration(slot.DurationMin) * time.Minute)

	client, err := uc.repo.GetOrCreateClient(
		ctx,
		in.ClientName,
		in.ClientPhone,
		in.ClientEmail,
	)
	if err != nil {
		return nil, err
	}

	token := uuid.NewString()
	expiresAt := now.Add(uc.holdTTL)

	booking := &models.Booking{
		SlotID:        slot.ID,
		ClientID:      client.ID,
		Type:          slot.ServiceType,
		StartTime:     start,
		EndTime:       end,
		Status:        string(domain.BookingPending),
		PaymentStatus: "pending",
		Amount:        slot.Price,
	}

	// Open->Held and the pending booking commit as one unit.
	if err := uc.repo.HoldSlot(
		ctx,
		slot.ID,
		strconv.FormatUint(uint64(client.ID), 10),
		token,
		expiresAt,
		booking,
	); err != nil {
		return nil, err
	}

	result := &domain.HoldResult{
		SlotID:    slot.ID,
		BookingID: booking.ID,
		HoldToken: token,
		ExpiresAt: expiresAt,
	}

	// Checkout failure must not undo the hold: the client can retry
	// payment while the TTL runs.
	if uc.payments != nil {
		checkout, err := uc.payments.CreateCheckout(ctx, payments.CheckoutInput{
			Title:     slot.ServiceType + " session " + slot.Date + " " + slot.Time,
			Amount:    slot.Price,
			Reference: token,
			ExpiresAt: expiresAt,
		})
		if err != nil {
			log.Printf("hold: create checkout for slot %d: %v", slot.ID, err)
		} else {
			result.CheckoutURL = checkout.CheckoutURL
			booking.ExternalReference = checkout.ID
			if err := uc.repo.UpdateBooking(ctx, booking); err != nil {
				log.Printf("hold: store checkout ref for booking %d: %v", booking.ID, err)
			}
		}
	}

	if uc.cache != nil {
		if err := uc.cache.Invalidate(ctx); err != nil {
			log.Printf("hold: invalidate slots cache: %v", err)
		}
	}

	if uc.events != nil {
		uc.events.Dispatch(notify.Event{
			Type:        notify.EventHeld,
			SlotID:      slot.ID,
			BookingID:   booking.ID,
			ServiceType: slot.ServiceType,
			Date:        slot.Date,
			Time:        slot.Time,
			ClientEmail: client.Email,
		})
	}

	return result, nil
}
