package schedule

import (
	"context"

	domain "github.com/advisorydesk/advisory-scheduler/internal/domain/schedule"
	"github.com/advisorydesk/advisory-scheduler/internal/models"
)

type ListTemplates struct {
	repo domain.Repository
}

func NewListTemplates(repo domain.Repository) *ListTemplates {
	return &ListTemplates{repo: repo}
}

func (uc *ListTemplates) Execute(
	ctx context.Context,
	serviceType string,
) ([]models.ScheduleTemplate, error) {
	return uc.repo.ListTemplates(ctx, serviceType)
}
