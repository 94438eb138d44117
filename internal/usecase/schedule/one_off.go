package schedule

import (
	"context"
	"time"

	"github.com/advisorydesk/advisory-scheduler/internal/audit"
	domain "github.com/advisorydesk/advisory-scheduler/internal/domain/schedule"
	"github.com/advisorydesk/advisory-scheduler/internal/httperr"
	"github.com/advisorydesk/advisory-scheduler/internal/models"
)

// One-off dates: explicit non-recurring availability. They skip the
// weekly templates but their slots share the uniqueness and state
// guarantees of everything else.

type CreateOneOffDateInput struct {
	Date        string
	Time        string
	ServiceType string
	DurationMin int
	Price       float64
}

type CreateOneOffDate struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewCreateOneOffDate(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *CreateOneOffDate {
	return &CreateOneOffDate{
		repo:  repo,
		audit: audit,
	}
}

func (uc *CreateOneOffDate) Execute(
	ctx context.Context,
	operatorID uint,
	in CreateOneOffDateInput,
) (*models.OneOffDate, error) {

	if _, err := time.Parse(domain.DateLayout, in.Date); err != nil {
		return nil, httperr.ErrBusiness("invalid_date")
	}
	if _, err := time.Parse(domain.TimeLayout, in.Time); err != nil {
		return nil, httperr.ErrBusiness("invalid_time")
	}
	if !domain.IsValidServiceType(in.ServiceType) {
		return nil, httperr.ErrBusiness("invalid_service_type")
	}
	if in.DurationMin <= 0 {
		return nil, httperr.ErrBusiness("invalid_duration")
	}

	d := &models.OneOffDate{
		Date:        in.Date,
		Time:        in.Time,
		ServiceType: in.ServiceType,
		DurationMin: in.DurationMin,
		Price:       in.Price,
		Active:      true,
	}

	if err := uc.repo.CreateOneOffDate(ctx, d); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &operatorID,
		Action:   "one_off_date_created",
		Entity:   "one_off_date",
		EntityID: &d.ID,
	})

	return d, nil
}

type DeactivateOneOffDate struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewDeactivateOneOffDate(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *DeactivateOneOffDate {
	return &DeactivateOneOffDate{
		repo:  repo,
		audit: audit,
	}
}

func (uc *DeactivateOneOffDate) Execute(
	ctx context.Context,
	operatorID uint,
	id uint,
) error {

	if err := uc.repo.DeactivateOneOffDate(ctx, id); err != nil {
		return err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &operatorID,
		Action:   "one_off_date_deactivated",
		Entity:   "one_off_date",
		EntityID: &id,
	})

	return nil
}

type ListOneOffDates struct {
	repo domain.Repository
}

func NewListOneOffDates(repo domain.Repository) *ListOneOffDates {
	return &ListOneOffDates{repo: repo}
}

func (uc *ListOneOffDates) Execute(
	ctx context.Context,
	serviceType string,
) ([]models.OneOffDate, error) {
	return uc.repo.ListOneOffDates(ctx, serviceType)
}
