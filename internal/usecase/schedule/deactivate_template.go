package schedule

import (
	"context"

	"github.com/advisorydesk/advisory-scheduler/internal/audit"
	domain "github.com/advisorydesk/advisory-scheduler/internal/domain/schedule"
)

// Deactivation, not deletion: historical slots stay traceable to the
// template that produced them.
type DeactivateTemplate struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewDeactivateTemplate(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *DeactivateTemplate {
	return &DeactivateTemplate{
		repo:  repo,
		audit: audit,
	}
}

func (uc *DeactivateTemplate) Execute(
	ctx context.Context,
	operatorID uint,
	templateID uint,
) error {

	if err := uc.repo.DeactivateTemplate(ctx, templateID); err != nil {
		return err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &operatorID,
		Action:   "template_deactivated",
		Entity:   "schedule_template",
		EntityID: &templateID,
	})

	return nil
}
