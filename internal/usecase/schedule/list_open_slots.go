package schedule

import (
	"context"
	"log"

	domain "github.com/advisorydesk/advisory-scheduler/internal/domain/schedule"
	"github.com/advisorydesk/advisory-scheduler/internal/models"
)

type ListOpenSlots struct {
	repo  domain.Repository
	cache SlotsCache
}

func NewListOpenSlots(repo domain.Repository, cache SlotsCache) *ListOpenSlots {
	return &ListOpenSlots{repo: repo, cache: cache}
}

func (uc *ListOpenSlots) Execute(
	ctx context.Context,
	q domain.OpenSlotsQuery,
) ([]models.Slot, error) {

	if uc.cache != nil {
		slots, hit, err := uc.cache.GetOpenSlots(ctx, q)
		if err != nil {
			log.Printf("list slots: cache read: %v", err)
		} else if hit {
			return slots, nil
		}
	}

	slots, err := uc.repo.ListOpenSlots(ctx, q)
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		if err := uc.cache.SetOpenSlots(ctx, q, slots); err != nil {
			log.Printf("list slots: cache write: %v", err)
		}
	}

	return slots, nil
}
