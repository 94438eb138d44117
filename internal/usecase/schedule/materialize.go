package schedule

import (
	"context"
	"fmt"
	"time"

	domain "github.com/advisorydesk/advisory-scheduler/internal/domain/schedule"
	"github.com/advisorydesk/advisory-scheduler/internal/models"
)

// slotCandidate is one (date, time, service) key a definition claims
// inside the horizon, before it becomes a row.
type slotCandidate struct {
	date        string
	hm          string
	serviceType string
	durationMin int
	price       float64
	maxPerDay   int
	definition  string
}

func (c slotCandidate) key() string {
	return domain.SlotKey(c.date, c.hm, c.serviceType)
}

// ======================================================
// USE CASE
// ======================================================

type Materialize struct {
	repo domain.Repository
	loc  *time.Location
}

func NewMaterialize(repo domain.Repository, loc *time.Location) *Materialize {
	return &Materialize{repo: repo, loc: loc}
}

// Execute expands every active template and one-off date into concrete
// Open slots over [now, now+horizonDays]. Idempotent: a key that
// already exists, in any state, is skipped, so a daily cron re-run
// never duplicates slots or disturbs in-progress holds.
func (uc *Materialize) Execute(
	ctx context.Context,
	horizonDays int,
	now time.Time,
) (domain.MaterializeResult, error) {

	var result domain.MaterializeResult

	candidates, err := uc.expandDefinitions(ctx, horizonDays, now)
	if err != nil {
		return result, err
	}

	for _, cand := range candidates {
		created, err := uc.applyCandidate(ctx, cand)
		if err != nil {
			return result, err
		}

		if created {
			result.Created++
		} else {
			result.Skipped++
		}
	}

	return result, nil
}

// applyCandidate turns one candidate into an Open slot unless its key
// already exists or the template's per-day capacity is reached. Also
// used by the reconciler so both paths create slots identically.
func (uc *Materialize) applyCandidate(
	ctx context.Context,
	cand slotCandidate,
) (bool, error) {

	if cand.maxPerDay > 0 {
		count, err := uc.repo.CountActiveSlotsForDay(
			ctx, cand.date, cand.serviceType,
		)
		if err != nil {
			return false, err
		}
		if count >= int64(cand.maxPerDay) {
			return false, nil
		}
	}

	return uc.repo.CreateSlotIfAbsent(ctx, &models.Slot{
		Date:        cand.date,
		Time:        cand.hm,
		ServiceType: cand.serviceType,
		DurationMin: cand.durationMin,
		// Price frozen here; later template edits do not reach
		// already-materialized slots.
		Price: cand.price,
		State: string(domain.SlotOpen),
	})
}

// expandDefinitions walks the horizon once for templates and one-off
// dates. Shared with the reconciler, which needs the same expansion to
// compare definitions against the materialized set.
func (uc *Materialize) expandDefinitions(
	ctx context.Context,
	horizonDays int,
	now time.Time,
) ([]slotCandidate, error) {

	templates, err := uc.repo.ListActiveTemplates(ctx)
	if err != nil {
		return nil, err
	}

	start := now.In(uc.loc)
	first := time.Date(
		start.Year(), start.Month(), start.Day(),
		0, 0, 0, 0, uc.loc,
	)

	// Day-0 times already behind now never become slots; a late-day
	// run must not offer a session that started hours ago.
	today := first.Format(domain.DateLayout)
	nowHM := start.Format(domain.TimeLayout)

	var candidates []slotCandidate

	for d := 0; d <= horizonDays; d++ {
		day := first.AddDate(0, 0, d)
		weekday := int(day.Weekday())
		date := day.Format(domain.DateLayout)

		for _, tpl := range templates {
			if tpl.Weekday != weekday {
				continue
			}

			hm := fmt.Sprintf("%02d:%02d", tpl.Hour, tpl.Minute)
			if date == today && hm < nowHM {
				continue
			}

			candidates = append(candidates, slotCandidate{
				date:        date,
				hm:          hm,
				serviceType: tpl.ServiceType,
				durationMin: tpl.DurationMin,
				price:       tpl.Price,
				maxPerDay:   tpl.MaxBookingsPerDay,
				definition:  fmt.Sprintf("template:%d", tpl.ID),
			})
		}
	}

	from := first.Format(domain.DateLayout)
	to := first.AddDate(0, 0, horizonDays).Format(domain.DateLayout)

	oneOffs, err := uc.repo.ListActiveOneOffDatesInRange(ctx, from, to)
	if err != nil {
		return nil, err
	}

	for _, d := range oneOffs {
		if d.Date == today && d.Time < nowHM {
			continue
		}

		candidates = append(candidates, slotCandidate{
			date:        d.Date,
			hm:          d.Time,
			serviceType: d.ServiceType,
			durationMin: d.DurationMin,
			price:       d.Price,
			definition:  fmt.Sprintf("one_off:%d", d.ID),
		})
	}

	return candidates, nil
}
