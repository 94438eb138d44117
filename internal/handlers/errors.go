package handlers

import (
	domain "github.com/advisorydesk/advisory-scheduler/internal/domain/schedule"
	"github.com/advisorydesk/advisory-scheduler/internal/httperr"

	"github.com/gin-gonic/gin"
)

// respondBusinessError maps domain error codes to HTTP responses with
// actionable messages. Returns false when err is not a business error,
// so the caller falls through to its own 500.
func respondBusinessError(c *gin.Context, err error) bool {
	code := httperr.BusinessCode(err)
	if code == "" {
		return false
	}

	switch code {
	case domain.CodeSlotUnavailable:
		httperr.Conflict(c, code, "This slot is no longer available, please pick another.")
	case domain.CodeHoldExpired:
		httperr.Conflict(c, code, "Your hold has expired, please restart the booking.")
	case domain.CodeInvalidHoldToken:
		httperr.BadRequest(c, code, "This booking reference is no longer valid, please restart the booking.")
	case domain.CodeTemplateConflict:
		httperr.Conflict(c, code, "An active definition already occupies this day and time.")
	case domain.CodeNotFound:
		httperr.NotFound(c, code, "Not found.")
	case domain.CodeInvalidState:
		httperr.BadRequest(c, code, "This operation is not allowed in the current state.")
	default:
		httperr.BadRequest(c, code, "Invalid request.")
	}

	return true
}
