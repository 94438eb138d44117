package schedule

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/advisorydesk/advisory-scheduler/internal/domain/schedule"
	"github.com/advisorydesk/advisory-scheduler/internal/httperr"
	"github.com/advisorydesk/advisory-scheduler/internal/payments"
)

func TestReleaseSlot_HeldBecomesOpenAgain(t *testing.T) {
	repo := newFakeRepo()
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	slotID := heldSlot(t, repo, "2026-09-07", "14:00", "+5511999990001", now, 10*time.Minute)

	released, err := NewReleaseSlot(repo, nil, nil).Execute(
		context.Background(), slotID, "client_cancelled",
	)
	require.NoError(t, err)
	assert.True(t, released)

	slot, err := repo.GetSlot(context.Background(), slotID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.SlotOpen), slot.State)
	assert.Empty(t, slot.HoldToken)
	assert.Empty(t, slot.HolderRef)
	assert.Nil(t, slot.HoldExpiresAt)
}

func TestReleaseSlot_IdempotentOnOpenSlot(t *testing.T) {
	repo := newFakeRepo()
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	slotID := heldSlot(t, repo, "2026-09-07", "14:00", "+5511999990001", now, 10*time.Minute)

	uc := NewReleaseSlot(repo, nil, nil)

	released, err := uc.Execute(context.Background(), slotID, "hold_expired")
	require.NoError(t, err)
	assert.True(t, released)

	// Second release finds an Open slot: no-op, no error.
	released, err = uc.Execute(context.Background(), slotID, "hold_expired")
	require.NoError(t, err)
	assert.False(t, released)
}

func TestReleaseSlot_UnknownSlot(t *testing.T) {
	repo := newFakeRepo()

	_, err := NewReleaseSlot(repo, nil, nil).Execute(
		context.Background(), 999, "hold_expired",
	)
	require.Error(t, err)
	assert.True(t, httperr.IsBusiness(err, domain.CodeNotFound))
}

// ======================================================
// Payment checkout during hold
// ======================================================

type fakeProvider struct {
	lastInput  payments.CheckoutInput
	checkout   *payments.Checkout
	createErr  error
	payment    *payments.PaymentInfo
	paymentErr error
}

func (p *fakeProvider) CreateCheckout(
	_ context.Context,
	in payments.CheckoutInput,
) (*payments.Checkout, error) {
	p.lastInput = in
	if p.createErr != nil {
		return nil, p.createErr
	}
	return p.checkout, nil
}

func (p *fakeProvider) GetPayment(
	_ context.Context,
	_ int,
) (*payments.PaymentInfo, error) {
	if p.paymentErr != nil {
		return nil, p.paymentErr
	}
	return p.payment, nil
}

func TestHoldSlot_AttachesCheckout(t *testing.T) {
	repo := newFakeRepo()
	slotID := repo.addOpenSlot("2026-09-07", "14:00", domain.ServiceAdvisory, 150)

	provider := &fakeProvider{
		checkout: &payments.Checkout{
			ID:          "pref-42",
			CheckoutURL: "https://checkout.example/pref-42",
		},
	}

	uc := NewHoldSlot(repo, nil, provider, nil, 10*time.Minute, time.UTC)
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	result, err := uc.Execute(context.Background(), domain.HoldInput{
		SlotID:      slotID,
		ClientName:  "Ana",
		ClientPhone: "+5511999990001",
	}, now)
	require.NoError(t, err)

	assert.Equal(t, "https://checkout.example/pref-42", result.CheckoutURL)
	assert.Equal(t, result.HoldToken, provider.lastInput.Reference)
	assert.Equal(t, 150.0, provider.lastInput.Amount)
	assert.Equal(t, result.ExpiresAt, provider.lastInput.ExpiresAt)

	booking, err := repo.GetBooking(context.Background(), result.BookingID)
	require.NoError(t, err)
	assert.Equal(t, "pref-42", booking.ExternalReference)
}

func TestHoldSlot_CheckoutFailureKeepsTheHold(t *testing.T) {
	repo := newFakeRepo()
	slotID := repo.addOpenSlot("2026-09-07", "14:00", domain.ServiceAdvisory, 150)

	provider := &fakeProvider{createErr: errors.New("provider down")}

	uc := NewHoldSlot(repo, nil, provider, nil, 10*time.Minute, time.UTC)
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	result, err := uc.Execute(context.Background(), domain.HoldInput{
		SlotID:      slotID,
		ClientName:  "Ana",
		ClientPhone: "+5511999990001",
	}, now)
	require.NoError(t, err)
	assert.Empty(t, result.CheckoutURL)

	slot, err := repo.GetSlot(context.Background(), slotID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.SlotHeld), slot.State)
}
