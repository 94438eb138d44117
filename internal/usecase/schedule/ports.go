package schedule

import (
	"context"

	domain "github.com/advisorydesk/advisory-scheduler/internal/domain/schedule"
	"github.com/advisorydesk/advisory-scheduler/internal/models"
	"github.com/advisorydesk/advisory-scheduler/internal/notify"
)

// Collaborator interfaces for the booking use cases. All of them are
// optional: a nil collaborator disables the concern without touching
// the core flow.

type SlotsCache interface {
	GetOpenSlots(ctx context.Context, q domain.OpenSlotsQuery) ([]models.Slot, bool, error)
	SetOpenSlots(ctx context.Context, q domain.OpenSlotsQuery, slots []models.Slot) error
	Invalidate(ctx context.Context) error
}

type EventDispatcher interface {
	Dispatch(ev notify.Event)
}
