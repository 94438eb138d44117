package schedule

import (
	"context"

	"github.com/advisorydesk/advisory-scheduler/internal/audit"
	domain "github.com/advisorydesk/advisory-scheduler/internal/domain/schedule"
	"github.com/advisorydesk/advisory-scheduler/internal/httperr"
	"github.com/advisorydesk/advisory-scheduler/internal/models"
)

// ======================================================
// INPUT
// ======================================================

type CreateTemplateInput struct {
	Weekday int
	Hour    int
	Minute  int

	ServiceType string

	DurationMin       int
	Price             float64
	MaxBookingsPerDay int
}

// ======================================================
// USE CASE
// ======================================================

type CreateTemplate struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewCreateTemplate(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *CreateTemplate {
	return &CreateTemplate{
		repo:  repo,
		audit: audit,
	}
}

func (uc *CreateTemplate) Execute(
	ctx context.Context,
	operatorID uint,
	in CreateTemplateInput,
) (*models.ScheduleTemplate, error) {

	if in.Weekday < 0 || in.Weekday > 6 {
		return nil, httperr.ErrBusiness("invalid_weekday")
	}
	if in.Hour < 0 || in.Hour > 23 || in.Minute < 0 || in.Minute > 59 {
		return nil, httperr.ErrBusiness("invalid_time")
	}
	if !domain.IsValidServiceType(in.ServiceType) {
		return nil, httperr.ErrBusiness("invalid_service_type")
	}
	if in.DurationMin <= 0 {
		return nil, httperr.ErrBusiness("invalid_duration")
	}

	tpl := &models.ScheduleTemplate{
		Weekday:           in.Weekday,
		Hour:              in.Hour,
		Minute:            in.Minute,
		ServiceType:       in.ServiceType,
		DurationMin:       in.DurationMin,
		Price:             in.Price,
		MaxBookingsPerDay: in.MaxBookingsPerDay,
		Active:            true,
	}

	// Uniqueness among active templates is checked inside the store
	// transaction, not here in memory.
	if err := uc.repo.CreateTemplate(ctx, tpl); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &operatorID,
		Action:   "template_created",
		Entity:   "schedule_template",
		EntityID: &tpl.ID,
	})

	return tpl, nil
}
