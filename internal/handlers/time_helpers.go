package handlers

import (
	"time"

	"github.com/advisorydesk/advisory-scheduler/internal/config"
	"github.com/advisorydesk/advisory-scheduler/internal/timezone"
)

// Single operational timezone, resolved from deployment config.

func deploymentLocation(cfg *config.Config) *time.Location {
	return timezone.Location(cfg.Timezone)
}

func nowInDeployment(cfg *config.Config) time.Time {
	return timezone.NowIn(cfg.Timezone)
}

func parseDate(cfg *config.Config, dateStr string) (time.Time, error) {
	return time.ParseInLocation(
		"2006-01-02",
		dateStr,
		deploymentLocation(cfg),
	)
}
