package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/advisorydesk/advisory-scheduler/internal/domain/schedule"
	"github.com/advisorydesk/advisory-scheduler/internal/models"
)

type fakeSlotsCache struct {
	store map[string][]models.Slot

	hits        int
	misses      int
	invalidated int
}

func newFakeSlotsCache() *fakeSlotsCache {
	return &fakeSlotsCache{store: map[string][]models.Slot{}}
}

func (c *fakeSlotsCache) key(q domain.OpenSlotsQuery) string {
	return q.ServiceType + "|" + q.From + "|" + q.To
}

func (c *fakeSlotsCache) GetOpenSlots(
	_ context.Context,
	q domain.OpenSlotsQuery,
) ([]models.Slot, bool, error) {
	slots, ok := c.store[c.key(q)]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return slots, ok, nil
}

func (c *fakeSlotsCache) SetOpenSlots(
	_ context.Context,
	q domain.OpenSlotsQuery,
	slots []models.Slot,
) error {
	c.store[c.key(q)] = slots
	return nil
}

func (c *fakeSlotsCache) Invalidate(_ context.Context) error {
	c.store = map[string][]models.Slot{}
	c.invalidated++
	return nil
}

func TestListOpenSlots_FiltersByServiceAndRange(t *testing.T) {
	repo := newFakeRepo()
	repo.addOpenSlot("2026-09-07", "14:00", domain.ServiceAdvisory, 150)
	repo.addOpenSlot("2026-09-08", "10:00", domain.ServiceTraining, 90)
	repo.addOpenSlot("2026-10-01", "14:00", domain.ServiceAdvisory, 150)

	uc := NewListOpenSlots(repo, nil)

	slots, err := uc.Execute(context.Background(), domain.OpenSlotsQuery{
		ServiceType: domain.ServiceAdvisory,
		From:        "2026-09-01",
		To:          "2026-09-30",
	})
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, "2026-09-07", slots[0].Date)
}

func TestListOpenSlots_CacheReadThrough(t *testing.T) {
	repo := newFakeRepo()
	repo.addOpenSlot("2026-09-07", "14:00", domain.ServiceAdvisory, 150)

	cache := newFakeSlotsCache()
	uc := NewListOpenSlots(repo, cache)

	q := domain.OpenSlotsQuery{ServiceType: domain.ServiceAdvisory}

	first, err := uc.Execute(context.Background(), q)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, 1, cache.misses)

	second, err := uc.Execute(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, cache.hits)
}

func TestHoldSlot_InvalidatesCache(t *testing.T) {
	repo := newFakeRepo()
	slotID := repo.addOpenSlot("2026-09-07", "14:00", domain.ServiceAdvisory, 150)

	cache := newFakeSlotsCache()
	listUC := NewListOpenSlots(repo, cache)

	q := domain.OpenSlotsQuery{ServiceType: domain.ServiceAdvisory}

	_, err := listUC.Execute(context.Background(), q)
	require.NoError(t, err)

	holdUC := NewHoldSlot(repo, cache, nil, nil, 0, time.UTC)
	_, err = holdUC.Execute(context.Background(), domain.HoldInput{
		SlotID:      slotID,
		ClientName:  "Ana",
		ClientPhone: "+5511999990001",
	}, time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 1, cache.invalidated)

	// The stale cached listing is gone; the held slot no longer shows.
	slots, err := listUC.Execute(context.Background(), q)
	require.NoError(t, err)
	assert.Empty(t, slots)
}
