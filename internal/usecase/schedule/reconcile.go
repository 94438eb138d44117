package schedule

import (
	"context"
	"log"
	"time"

	domain "github.com/advisorydesk/advisory-scheduler/internal/domain/schedule"
)

// Reconcile cross-checks the recurring definitions against the
// materialized slot calendar. The two views evolve independently, so
// drift is detected here instead of assumed away: missing slots are
// created the way the materializer would, and keys claimed by more
// than one active definition are reported for operator review — never
// auto-resolved, because auto-resolution could silently cancel a real
// booking. Held and Confirmed slots are never touched.
type Reconcile struct {
	repo         domain.Repository
	materializer *Materialize
}

func NewReconcile(
	repo domain.Repository,
	materializer *Materialize,
) *Reconcile {
	return &Reconcile{
		repo:         repo,
		materializer: materializer,
	}
}

func (uc *Reconcile) Execute(
	ctx context.Context,
	horizonDays int,
	now time.Time,
) (domain.ReconcileResult, error) {

	var result domain.ReconcileResult

	candidates, err := uc.materializer.expandDefinitions(ctx, horizonDays, now)
	if err != nil {
		return result, err
	}

	byKey := make(map[string][]slotCandidate)
	var order []string
	for _, cand := range candidates {
		k := cand.key()
		if _, seen := byKey[k]; !seen {
			order = append(order, k)
		}
		byKey[k] = append(byKey[k], cand)
	}

	for _, k := range order {
		claims := byKey[k]

		if len(claims) > 1 {
			report := domain.ConflictReport{
				Date:        claims[0].date,
				Time:        claims[0].hm,
				ServiceType: claims[0].serviceType,
			}
			for _, c := range claims {
				report.Definitions = append(report.Definitions, c.definition)
			}
			result.Conflicts = append(result.Conflicts, report)
			continue
		}

		// Per-item failures are logged and skipped; one bad key must
		// not abort the rest of the run.
		created, err := uc.materializer.applyCandidate(ctx, claims[0])
		if err != nil {
			log.Printf("reconcile: create slot %s: %v", k, err)
			continue
		}
		if created {
			result.Created++
		}
	}

	return result, nil
}
