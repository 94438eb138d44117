package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/advisorydesk/advisory-scheduler/internal/config"
	"github.com/advisorydesk/advisory-scheduler/internal/httperr"
	"github.com/advisorydesk/advisory-scheduler/internal/middleware"
	ucSchedule "github.com/advisorydesk/advisory-scheduler/internal/usecase/schedule"
)

// Operator triggers for materialization, reconciliation and manual
// slot intervention, on demand in addition to the worker cadence.
type SlotAdminHandler struct {
	cfg *config.Config

	materializeUC *ucSchedule.Materialize
	reconcileUC   *ucSchedule.Reconcile
	releaseUC     *ucSchedule.ReleaseSlot
	cancelUC      *ucSchedule.CancelSlot
}

func NewSlotAdminHandler(
	cfg *config.Config,
	materializeUC *ucSchedule.Materialize,
	reconcileUC *ucSchedule.Reconcile,
	releaseUC *ucSchedule.ReleaseSlot,
	cancelUC *ucSchedule.CancelSlot,
) *SlotAdminHandler {
	return &SlotAdminHandler{
		cfg:           cfg,
		materializeUC: materializeUC,
		reconcileUC:   reconcileUC,
		releaseUC:     releaseUC,
		cancelUC:      cancelUC,
	}
}

func (h *SlotAdminHandler) horizonDays(c *gin.Context) int {
	if v := c.Query("horizon_days"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 365 {
			return n
		}
	}
	return h.cfg.HorizonDays
}

func (h *SlotAdminHandler) Materialize(c *gin.Context) {
	result, err := h.materializeUC.Execute(
		c.Request.Context(),
		h.horizonDays(c),
		nowInDeployment(h.cfg),
	)
	if err != nil {
		httperr.Internal(c, "failed_to_materialize", "Materialization failed.")
		return
	}

	c.JSON(200, result)
}

func (h *SlotAdminHandler) Reconcile(c *gin.Context) {
	result, err := h.reconcileUC.Execute(
		c.Request.Context(),
		h.horizonDays(c),
		nowInDeployment(h.cfg),
	)
	if err != nil {
		httperr.Internal(c, "failed_to_reconcile", "Reconciliation failed.")
		return
	}

	c.JSON(200, result)
}

func (h *SlotAdminHandler) Release(c *gin.Context) {
	slotID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid slot id.")
		return
	}

	released, err := h.releaseUC.Execute(
		c.Request.Context(), uint(slotID), "operator_released",
	)
	if err != nil {
		if respondBusinessError(c, err) {
			return
		}
		httperr.Internal(c, "failed_to_release_slot", "Could not release the slot.")
		return
	}

	c.JSON(200, gin.H{"released": released})
}

func (h *SlotAdminHandler) Cancel(c *gin.Context) {
	operatorID := c.MustGet(middleware.ContextUserID).(uint)

	slotID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid slot id.")
		return
	}

	reason := c.Query("reason")
	if reason == "" {
		reason = "operator_cancelled"
	}

	if err := h.cancelUC.Execute(
		c.Request.Context(), operatorID, uint(slotID), reason,
	); err != nil {
		if respondBusinessError(c, err) {
			return
		}
		httperr.Internal(c, "failed_to_cancel_slot", "Could not cancel the slot.")
		return
	}

	c.JSON(200, gin.H{"status": "ok"})
}
