package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/advisorydesk/advisory-scheduler/internal/httperr"
	"github.com/advisorydesk/advisory-scheduler/internal/httpresp"
	"github.com/advisorydesk/advisory-scheduler/internal/middleware"
	ucSchedule "github.com/advisorydesk/advisory-scheduler/internal/usecase/schedule"
)

// ======================================================
// HANDLER
// ======================================================

type TemplateHandler struct {
	createUC     *ucSchedule.CreateTemplate
	deactivateUC *ucSchedule.DeactivateTemplate
	listUC       *ucSchedule.ListTemplates
}

func NewTemplateHandler(
	createUC *ucSchedule.CreateTemplate,
	deactivateUC *ucSchedule.DeactivateTemplate,
	listUC *ucSchedule.ListTemplates,
) *TemplateHandler {
	return &TemplateHandler{
		createUC:     createUC,
		deactivateUC: deactivateUC,
		listUC:       listUC,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateTemplateRequest struct {
	Weekday           int     `json:"weekday" binding:"min=0,max=6"`
	Hour              int     `json:"hour" binding:"min=0,max=23"`
	Minute            int     `json:"minute" binding:"min=0,max=59"`
	ServiceType       string  `json:"service_type" binding:"required"`
	DurationMin       int     `json:"duration_min" binding:"required,min=1"`
	Price             float64 `json:"price" binding:"min=0"`
	MaxBookingsPerDay int     `json:"max_bookings_per_day"`
}

// ======================================================
// HANDLERS
// ======================================================

func (h *TemplateHandler) Create(c *gin.Context) {
	operatorID := c.MustGet(middleware.ContextUserID).(uint)

	var req CreateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid template data.")
		return
	}

	tpl, err := h.createUC.Execute(c.Request.Context(), operatorID, ucSchedule.CreateTemplateInput{
		Weekday:           req.Weekday,
		Hour:              req.Hour,
		Minute:            req.Minute,
		ServiceType:       req.ServiceType,
		DurationMin:       req.DurationMin,
		Price:             req.Price,
		MaxBookingsPerDay: req.MaxBookingsPerDay,
	})
	if err != nil {
		if respondBusinessError(c, err) {
			return
		}
		httperr.Internal(c, "failed_to_create_template", "Could not create the template.")
		return
	}

	httpresp.Created(c, tpl)
}

func (h *TemplateHandler) Deactivate(c *gin.Context) {
	operatorID := c.MustGet(middleware.ContextUserID).(uint)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid template id.")
		return
	}

	if err := h.deactivateUC.Execute(c.Request.Context(), operatorID, uint(id)); err != nil {
		if respondBusinessError(c, err) {
			return
		}
		httperr.Internal(c, "failed_to_deactivate_template", "Could not deactivate the template.")
		return
	}

	c.JSON(200, gin.H{"status": "ok"})
}

func (h *TemplateHandler) List(c *gin.Context) {
	tpls, err := h.listUC.Execute(c.Request.Context(), c.Query("service"))
	if err != nil {
		httperr.Internal(c, "failed_to_list_templates", "Could not list templates.")
		return
	}

	httpresp.List(c, tpls)
}
