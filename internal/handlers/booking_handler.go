package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/advisorydesk/advisory-scheduler/internal/config"
	"github.com/advisorydesk/advisory-scheduler/internal/httperr"
	"github.com/advisorydesk/advisory-scheduler/internal/middleware"
	ucSchedule "github.com/advisorydesk/advisory-scheduler/internal/usecase/schedule"
)

type BookingHandler struct {
	cfg *config.Config

	listByDateUC  *ucSchedule.ListBookingsByDate
	listByMonthUC *ucSchedule.ListBookingsByMonth
	completeUC    *ucSchedule.CompleteBooking
}

func NewBookingHandler(
	cfg *config.Config,
	listByDateUC *ucSchedule.ListBookingsByDate,
	listByMonthUC *ucSchedule.ListBookingsByMonth,
	completeUC *ucSchedule.CompleteBooking,
) *BookingHandler {
	return &BookingHandler{
		cfg:           cfg,
		listByDateUC:  listByDateUC,
		listByMonthUC: listByMonthUC,
		completeUC:    completeUC,
	}
}

func (h *BookingHandler) ListByDate(c *gin.Context) {
	dateStr := c.Query("date")
	if dateStr == "" {
		httperr.BadRequest(c, "missing_date", "Date is required.")
		return
	}

	date, err := parseDate(h.cfg, dateStr)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Invalid date.")
		return
	}

	bookings, err := h.listByDateUC.Execute(c.Request.Context(), date)
	if err != nil {
		httperr.Internal(c, "failed_to_list_bookings", "Could not list bookings.")
		return
	}

	c.JSON(200, bookings)
}

func (h *BookingHandler) ListByMonth(c *gin.Context) {
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		httperr.BadRequest(c, "invalid_year", "Invalid year.")
		return
	}

	month, err := strconv.Atoi(c.Query("month"))
	if err != nil || month < 1 || month > 12 {
		httperr.BadRequest(c, "invalid_month", "Invalid month.")
		return
	}

	bookings, err := h.listByMonthUC.Execute(
		c.Request.Context(),
		year,
		time.Month(month),
		deploymentLocation(h.cfg),
	)
	if err != nil {
		httperr.Internal(c, "failed_to_list_bookings", "Could not list bookings.")
		return
	}

	c.JSON(200, bookings)
}

func (h *BookingHandler) Complete(c *gin.Context) {
	operatorID := c.MustGet(middleware.ContextUserID).(uint)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid booking id.")
		return
	}

	booking, err := h.completeUC.Execute(
		c.Request.Context(),
		operatorID,
		uint(id),
		nowInDeployment(h.cfg),
	)
	if err != nil {
		if respondBusinessError(c, err) {
			return
		}
		httperr.Internal(c, "failed_to_complete_booking", "Could not complete the booking.")
		return
	}

	c.JSON(200, booking)
}
