package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/advisorydesk/advisory-scheduler/internal/httperr"
	"github.com/advisorydesk/advisory-scheduler/internal/httpresp"
	"github.com/advisorydesk/advisory-scheduler/internal/middleware"
	ucSchedule "github.com/advisorydesk/advisory-scheduler/internal/usecase/schedule"
)

type OneOffHandler struct {
	createUC     *ucSchedule.CreateOneOffDate
	deactivateUC *ucSchedule.DeactivateOneOffDate
	listUC       *ucSchedule.ListOneOffDates
}

func NewOneOffHandler(
	createUC *ucSchedule.CreateOneOffDate,
	deactivateUC *ucSchedule.DeactivateOneOffDate,
	listUC *ucSchedule.ListOneOffDates,
) *OneOffHandler {
	return &OneOffHandler{
		createUC:     createUC,
		deactivateUC: deactivateUC,
		listUC:       listUC,
	}
}

type CreateOneOffDateRequest struct {
	Date        string  `json:"date" binding:"required"`
	Time        string  `json:"time" binding:"required"`
	ServiceType string  `json:"service_type" binding:"required"`
	DurationMin int     `json:"duration_min" binding:"required,min=1"`
	Price       float64 `json:"price" binding:"min=0"`
}

func (h *OneOffHandler) Create(c *gin.Context) {
	operatorID := c.MustGet(middleware.ContextUserID).(uint)

	var req CreateOneOffDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid one-off date data.")
		return
	}

	d, err := h.createUC.Execute(c.Request.Context(), operatorID, ucSchedule.CreateOneOffDateInput{
		Date:        req.Date,
		Time:        req.Time,
		ServiceType: req.ServiceType,
		DurationMin: req.DurationMin,
		Price:       req.Price,
	})
	if err != nil {
		if respondBusinessError(c, err) {
			return
		}
		httperr.Internal(c, "failed_to_create_one_off_date", "Could not create the one-off date.")
		return
	}

	httpresp.Created(c, d)
}

func (h *OneOffHandler) Deactivate(c *gin.Context) {
	operatorID := c.MustGet(middleware.ContextUserID).(uint)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid one-off date id.")
		return
	}

	if err := h.deactivateUC.Execute(c.Request.Context(), operatorID, uint(id)); err != nil {
		if respondBusinessError(c, err) {
			return
		}
		httperr.Internal(c, "failed_to_deactivate_one_off_date", "Could not deactivate the one-off date.")
		return
	}

	c.JSON(200, gin.H{"status": "ok"})
}

func (h *OneOffHandler) List(c *gin.Context) {
	dates, err := h.listUC.Execute(c.Request.Context(), c.Query("service"))
	if err != nil {
		httperr.Internal(c, "failed_to_list_one_off_dates", "Could not list one-off dates.")
		return
	}

	httpresp.List(c, dates)
}
