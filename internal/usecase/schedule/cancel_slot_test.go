package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/advisorydesk/advisory-scheduler/internal/domain/schedule"
	"github.com/advisorydesk/advisory-scheduler/internal/httperr"
)

func TestCancelSlot_HeldSlotCancelsPendingBooking(t *testing.T) {
	repo := newFakeRepo()
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	slotID := heldSlot(t, repo, "2026-09-07", "14:00", "+5511999990001", now, 10*time.Minute)

	booking, err := repo.GetPendingBookingBySlot(context.Background(), slotID)
	require.NoError(t, err)

	uc := NewCancelSlot(repo, nil, nil, nil)
	require.NoError(t, uc.Execute(context.Background(), 1, slotID, "advisor_sick"))

	slot, err := repo.GetSlot(context.Background(), slotID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.SlotCancelled), slot.State)

	after, err := repo.GetBooking(context.Background(), booking.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.BookingCancelled), after.Status)
	assert.Equal(t, "advisor_sick", after.CancelReason)
}

func TestCancelSlot_ConfirmedSlotRejected(t *testing.T) {
	repo := newFakeRepo()
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	slotID, hold := holdFixture(t, repo, now)

	_, err := NewConfirmSlot(repo, nil, nil).Execute(
		context.Background(), slotID, hold.HoldToken, "paid", "", now.Add(time.Minute),
	)
	require.NoError(t, err)

	err = NewCancelSlot(repo, nil, nil, nil).Execute(
		context.Background(), 1, slotID, "operator_cancelled",
	)
	require.Error(t, err)
	assert.True(t, httperr.IsBusiness(err, domain.CodeInvalidState))
}

func TestCompleteBooking_ConfirmedBecomesCompleted(t *testing.T) {
	repo := newFakeRepo()
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	slotID, hold := holdFixture(t, repo, now)

	confirmed, err := NewConfirmSlot(repo, nil, nil).Execute(
		context.Background(), slotID, hold.HoldToken, "paid", "", now.Add(time.Minute),
	)
	require.NoError(t, err)

	sessionEnd := time.Date(2026, 9, 7, 15, 0, 0, 0, time.UTC)

	booking, err := NewCompleteBooking(repo, nil).Execute(
		context.Background(), 1, confirmed.ID, sessionEnd,
	)
	require.NoError(t, err)
	assert.Equal(t, string(domain.BookingCompleted), booking.Status)
	require.NotNil(t, booking.CompletedAt)
	assert.Equal(t, sessionEnd, *booking.CompletedAt)
}

func TestCompleteBooking_PendingRejected(t *testing.T) {
	repo := newFakeRepo()
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	_, hold := holdFixture(t, repo, now)

	_, err := NewCompleteBooking(repo, nil).Execute(
		context.Background(), 1, hold.BookingID, now,
	)
	require.Error(t, err)
	assert.True(t, httperr.IsBusiness(err, domain.CodeInvalidState))
}
