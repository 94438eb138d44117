package schedule

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/advisorydesk/advisory-scheduler/internal/domain/schedule"
)

func newSweepUC(repo *fakeRepo) *Sweep {
	return NewSweep(repo, NewReleaseSlot(repo, nil, nil))
}

func heldSlot(t *testing.T, repo *fakeRepo, date, hm, phone string, now time.Time, ttl time.Duration) uint {
	t.Helper()

	slotID := repo.addOpenSlot(date, hm, domain.ServiceAdvisory, 150)
	_, err := newHoldUC(repo, ttl).Execute(
		context.Background(),
		domain.HoldInput{
			SlotID:      slotID,
			ClientName:  "client",
			ClientPhone: phone,
		},
		now,
	)
	require.NoError(t, err)
	return slotID
}

func TestSweep_ReleasesOnlyExpiredHolds(t *testing.T) {
	repo := newFakeRepo()
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	expired := heldSlot(t, repo, "2026-09-07", "14:00", "+5511999990001", now, 10*time.Minute)
	fresh := heldSlot(t, repo, "2026-09-07", "15:00", "+5511999990002", now, 30*time.Minute)

	result, err := newSweepUC(repo).Execute(
		context.Background(), now.Add(15*time.Minute),
	)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Released)
	assert.Equal(t, 0, result.Failed)

	expiredSlot, err := repo.GetSlot(context.Background(), expired)
	require.NoError(t, err)
	assert.Equal(t, string(domain.SlotOpen), expiredSlot.State)
	assert.Empty(t, expiredSlot.HoldToken)
	assert.Nil(t, expiredSlot.HoldExpiresAt)

	freshSlot, err := repo.GetSlot(context.Background(), fresh)
	require.NoError(t, err)
	assert.Equal(t, string(domain.SlotHeld), freshSlot.State)
}

func TestSweep_CancelsThePendingBooking(t *testing.T) {
	repo := newFakeRepo()
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	slotID := heldSlot(t, repo, "2026-09-07", "14:00", "+5511999990001", now, 10*time.Minute)

	booking, err := repo.GetPendingBookingBySlot(context.Background(), slotID)
	require.NoError(t, err)

	_, err = newSweepUC(repo).Execute(context.Background(), now.Add(time.Hour))
	require.NoError(t, err)

	after, err := repo.GetBooking(context.Background(), booking.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.BookingCancelled), after.Status)
	assert.Equal(t, "hold_expired", after.CancelReason)
}

func TestSweep_OneFailureDoesNotAbortTheBatch(t *testing.T) {
	repo := newFakeRepo()
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	broken := heldSlot(t, repo, "2026-09-07", "14:00", "+5511999990001", now, 10*time.Minute)
	healthy := heldSlot(t, repo, "2026-09-07", "15:00", "+5511999990002", now, 10*time.Minute)

	repo.releaseErr[broken] = errors.New("connection reset")

	result, err := newSweepUC(repo).Execute(
		context.Background(), now.Add(time.Hour),
	)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Released)
	assert.Equal(t, 1, result.Failed)

	healthySlot, err := repo.GetSlot(context.Background(), healthy)
	require.NoError(t, err)
	assert.Equal(t, string(domain.SlotOpen), healthySlot.State)
}

func TestSweep_NothingExpiredIsANoOp(t *testing.T) {
	repo := newFakeRepo()
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	heldSlot(t, repo, "2026-09-07", "14:00", "+5511999990001", now, 30*time.Minute)

	result, err := newSweepUC(repo).Execute(context.Background(), now.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 0, result.Released)
	assert.Equal(t, 0, result.Failed)
}
