package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/advisorydesk/advisory-scheduler/internal/config"
	domain "github.com/advisorydesk/advisory-scheduler/internal/domain/schedule"
	"github.com/advisorydesk/advisory-scheduler/internal/httperr"
	"github.com/advisorydesk/advisory-scheduler/internal/httpresp"
	ucSchedule "github.com/advisorydesk/advisory-scheduler/internal/usecase/schedule"
)

// ======================================================
// HANDLER
// ======================================================

// PublicHandler is the client-facing booking surface: browse open
// slots, place a hold, confirm or abandon it. No login required.
type PublicHandler struct {
	cfg  *config.Config
	repo domain.Repository

	listSlotsUC *ucSchedule.ListOpenSlots
	listTplsUC  *ucSchedule.ListTemplates
	holdUC      *ucSchedule.HoldSlot
	confirmUC   *ucSchedule.ConfirmSlot
	releaseUC   *ucSchedule.ReleaseSlot
}

func NewPublicHandler(
	cfg *config.Config,
	repo domain.Repository,
	listSlotsUC *ucSchedule.ListOpenSlots,
	listTplsUC *ucSchedule.ListTemplates,
	holdUC *ucSchedule.HoldSlot,
	confirmUC *ucSchedule.ConfirmSlot,
	releaseUC *ucSchedule.ReleaseSlot,
) *PublicHandler {
	return &PublicHandler{
		cfg:         cfg,
		repo:        repo,
		listSlotsUC: listSlotsUC,
		listTplsUC:  listTplsUC,
		holdUC:      holdUC,
		confirmUC:   confirmUC,
		releaseUC:   releaseUC,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type HoldRequest struct {
	ClientName  string `json:"client_name" binding:"required"`
	ClientPhone string `json:"client_phone" binding:"required"`
	ClientEmail string `json:"client_email"`
}

type ConfirmRequest struct {
	SlotID    uint   `json:"slot_id" binding:"required"`
	HoldToken string `json:"hold_token" binding:"required"`
}

type CancelHoldRequest struct {
	SlotID    uint   `json:"slot_id" binding:"required"`
	HoldToken string `json:"hold_token" binding:"required"`
}

// ======================================================
// SERVICES
// ======================================================

type ServiceInfo struct {
	ServiceType string  `json:"service_type"`
	DurationMin int     `json:"duration_min"`
	Price       float64 `json:"price"`
}

func (h *PublicHandler) ListServices(c *gin.Context) {
	tpls, err := h.listTplsUC.Execute(c.Request.Context(), "")
	if err != nil {
		httperr.Internal(c, "failed_to_list_services", "Could not list services.")
		return
	}

	seen := map[string]bool{}
	var services []ServiceInfo
	for _, tpl := range tpls {
		if !tpl.Active || seen[tpl.ServiceType] {
			continue
		}
		seen[tpl.ServiceType] = true
		services = append(services, ServiceInfo{
			ServiceType: tpl.ServiceType,
			DurationMin: tpl.DurationMin,
			Price:       tpl.Price,
		})
	}

	httpresp.List(c, services)
}

// ======================================================
// SLOTS
// ======================================================

func (h *PublicHandler) ListOpenSlots(c *gin.Context) {
	q := domain.OpenSlotsQuery{
		ServiceType: c.Query("service"),
		From:        c.Query("from"),
		To:          c.Query("to"),
	}

	if q.From == "" {
		q.From = nowInDeployment(h.cfg).Format(domain.DateLayout)
	}

	slots, err := h.listSlotsUC.Execute(c.Request.Context(), q)
	if err != nil {
		httperr.Internal(c, "failed_to_list_slots", "Could not list available slots.")
		return
	}

	httpresp.List(c, slots)
}

// ======================================================
// HOLD
// ======================================================

func (h *PublicHandler) Hold(c *gin.Context) {
	slotID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid slot id.")
		return
	}

	var req HoldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid hold data.")
		return
	}

	result, err := h.holdUC.Execute(
		c.Request.Context(),
		domain.HoldInput{
			SlotID:      uint(slotID),
			ClientName:  req.ClientName,
			ClientPhone: req.ClientPhone,
			ClientEmail: req.ClientEmail,
		},
		nowInDeployment(h.cfg),
	)
	if err != nil {
		if respondBusinessError(c, err) {
			return
		}
		httperr.Internal(c, "failed_to_hold_slot", "Could not hold the slot.")
		return
	}

	httpresp.Created(c, result)
}

// ======================================================
// CONFIRM (manual path; the payment webhook drives the same use case)
// ======================================================

func (h *PublicHandler) Confirm(c *gin.Context) {
	var req ConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid confirmation data.")
		return
	}

	booking, err := h.confirmUC.Execute(
		c.Request.Context(),
		req.SlotID,
		req.HoldToken,
		"paid",
		"",
		nowInDeployment(h.cfg),
	)
	if err != nil {
		if respondBusinessError(c, err) {
			return
		}
		httperr.Internal(c, "failed_to_confirm_booking", "Could not confirm the booking.")
		return
	}

	c.JSON(200, booking)
}

// ======================================================
// CANCEL HOLD
// ======================================================

func (h *PublicHandler) CancelHold(c *gin.Context) {
	var req CancelHoldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid cancel data.")
		return
	}

	slot, err := h.repo.GetSlot(c.Request.Context(), req.SlotID)
	if err != nil {
		if respondBusinessError(c, err) {
			return
		}
		httperr.Internal(c, "failed_to_cancel_hold", "Could not cancel the hold.")
		return
	}

	// Only the hold owner may abandon it.
	if slot.HoldToken == "" || slot.HoldToken != req.HoldToken {
		httperr.BadRequest(c, domain.CodeInvalidHoldToken, "This booking reference is no longer valid.")
		return
	}

	released, err := h.releaseUC.Execute(c.Request.Context(), req.SlotID, "client_cancelled")
	if err != nil {
		if respondBusinessError(c, err) {
			return
		}
		httperr.Internal(c, "failed_to_cancel_hold", "Could not cancel the hold.")
		return
	}

	c.JSON(200, gin.H{"released": released})
}
