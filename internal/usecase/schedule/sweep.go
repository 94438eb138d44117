package schedule

import (
	"context"
	"log"
	"time"

	domain "github.com/advisorydesk/advisory-scheduler/internal/domain/schedule"
)

// Sweep releases holds whose TTL elapsed without a payment. It is a
// cleanup convenience: correctness never depends on its timeliness,
// because confirm re-checks expiry on its own.
type Sweep struct {
	release *ReleaseSlot
	repo    domain.Repository
}

func NewSweep(repo domain.Repository, release *ReleaseSlot) *Sweep {
	return &Sweep{
		release: release,
		repo:    repo,
	}
}

func (uc *Sweep) Execute(
	ctx context.Context,
	now time.Time,
) (domain.SweepResult, error) {

	var result domain.SweepResult

	expired, err := uc.repo.ListExpiredHeldSlots(ctx, now)
	if err != nil {
		return result, err
	}

	for _, slot := range expired {
		released, err := uc.release.Execute(ctx, slot.ID, "hold_expired")
		if err != nil {
			// One failed release must not abort the batch.
			log.Printf("sweep: release slot %d: %v", slot.ID, err)
			result.Failed++
			continue
		}
		if released {
			result.Released++
		}
	}

	return result, nil
}
