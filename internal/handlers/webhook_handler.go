package handlers

import (
	"log"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/advisorydesk/advisory-scheduler/internal/config"
	domain "github.com/advisorydesk/advisory-scheduler/internal/domain/schedule"
	"github.com/advisorydesk/advisory-scheduler/internal/httperr"
	"github.com/advisorydesk/advisory-scheduler/internal/payments"
	ucSchedule "github.com/advisorydesk/advisory-scheduler/internal/usecase/schedule"
)

// ======================================================
// HANDLER
// ======================================================

// WebhookHandler receives Mercado Pago payment notifications. The
// notification only carries the payment id; the payment itself is
// fetched back from the provider, and its external reference is the
// hold token issued when the hold was placed.
type WebhookHandler struct {
	cfg      *config.Config
	repo     domain.Repository
	provider payments.Provider

	confirmUC *ucSchedule.ConfirmSlot
	releaseUC *ucSchedule.ReleaseSlot
}

func NewWebhookHandler(
	cfg *config.Config,
	repo domain.Repository,
	provider payments.Provider,
	confirmUC *ucSchedule.ConfirmSlot,
	releaseUC *ucSchedule.ReleaseSlot,
) *WebhookHandler {
	return &WebhookHandler{
		cfg:       cfg,
		repo:      repo,
		provider:  provider,
		confirmUC: confirmUC,
		releaseUC: releaseUC,
	}
}

type mpNotification struct {
	Type string `json:"type"`
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}

// ======================================================
// MERCADO PAGO
// ======================================================

func (h *WebhookHandler) MercadoPago(c *gin.Context) {
	if h.provider == nil {
		c.JSON(200, gin.H{"status": "ignored"})
		return
	}

	var notif mpNotification
	if err := c.ShouldBindJSON(&notif); err != nil {
		httperr.BadRequest(c, "invalid_notification", "Invalid notification payload.")
		return
	}

	if notif.Type != "payment" {
		c.JSON(200, gin.H{"status": "ignored"})
		return
	}

	paymentID, err := strconv.Atoi(notif.Data.ID)
	if err != nil {
		httperr.BadRequest(c, "invalid_payment_id", "Invalid payment id.")
		return
	}

	info, err := h.provider.GetPayment(c.Request.Context(), paymentID)
	if err != nil {
		log.Printf("webhook: fetch payment %d: %v", paymentID, err)
		httperr.Internal(c, "payment_lookup_failed", "Could not look up the payment.")
		return
	}

	booking, err := h.repo.GetBookingByHoldToken(c.Request.Context(), info.Reference)
	if err != nil {
		// Unknown or already-resolved token: acknowledge so the
		// provider stops retrying.
		log.Printf("webhook: payment %d token lookup: %v", paymentID, err)
		c.JSON(200, gin.H{"status": "ignored"})
		return
	}

	switch info.Status {
	case "approved":
		_, err := h.confirmUC.Execute(
			c.Request.Context(),
			booking.SlotID,
			info.Reference,
			"paid",
			strconv.Itoa(info.ID),
			nowInDeployment(h.cfg),
		)
		if err != nil {
			// A payment landing after the TTL is a failed hold: the
			// money goes back through the provider's refund path, the
			// slot does not.
			log.Printf("webhook: confirm slot %d for payment %d: %v", booking.SlotID, paymentID, err)
			c.JSON(200, gin.H{"status": "confirm_failed", "error": err.Error()})
			return
		}
		c.JSON(200, gin.H{"status": "confirmed"})

	case "rejected", "cancelled", "expired":
		if _, err := h.releaseUC.Execute(
			c.Request.Context(), booking.SlotID, "payment_"+info.Status,
		); err != nil {
			log.Printf("webhook: release slot %d for payment %d: %v", booking.SlotID, paymentID, err)
		}
		c.JSON(200, gin.H{"status": "released"})

	default:
		// pending / in_process: the hold keeps running out its TTL.
		c.JSON(200, gin.H{"status": "pending"})
	}
}
