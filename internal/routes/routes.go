package routes

import (
	"log"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/advisorydesk/advisory-scheduler/internal/audit"
	"github.com/advisorydesk/advisory-scheduler/internal/cache"
	"github.com/advisorydesk/advisory-scheduler/internal/config"
	"github.com/advisorydesk/advisory-scheduler/internal/handlers"
	infraRepo "github.com/advisorydesk/advisory-scheduler/internal/infra/repository"
	"github.com/advisorydesk/advisory-scheduler/internal/middleware"
	"github.com/advisorydesk/advisory-scheduler/internal/notify"
	"github.com/advisorydesk/advisory-scheduler/internal/payments"
	"github.com/advisorydesk/advisory-scheduler/internal/timezone"
	ucSchedule "github.com/advisorydesk/advisory-scheduler/internal/usecase/schedule"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config) {

	// ======================================================
	// MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.CORSMiddleware())

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	repo := infraRepo.NewScheduleGormRepository(db)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger)

	notifyDispatcher := notify.NewDispatcher(notify.NewEmailNotifier())

	var slotsCache ucSchedule.SlotsCache
	if cfg.RedisAddr != "" {
		slotsCache = cache.NewSlotsCache(
			cfg.RedisAddr,
			cfg.RedisPassword,
			cfg.RedisDB,
			cfg.SlotsCacheTTL,
		)
	}

	var provider payments.Provider
	if cfg.MPAccessToken != "" {
		mp, err := payments.NewMercadoPago(cfg.MPAccessToken)
		if err != nil {
			log.Fatalf("failed to init mercado pago client: %v", err)
		}
		provider = mp
	}

	loc := timezone.Location(cfg.Timezone)

	// ======================================================
	// USE CASES — TEMPLATES & ONE-OFFS
	// ======================================================
	createTemplateUC := ucSchedule.NewCreateTemplate(repo, auditDispatcher)
	deactivateTemplateUC := ucSchedule.NewDeactivateTemplate(repo, auditDispatcher)
	listTemplatesUC := ucSchedule.NewListTemplates(repo)

	createOneOffUC := ucSchedule.NewCreateOneOffDate(repo, auditDispatcher)
	deactivateOneOffUC := ucSchedule.NewDeactivateOneOffDate(repo, auditDispatcher)
	listOneOffsUC := ucSchedule.NewListOneOffDates(repo)

	// ======================================================
	// USE CASES — SLOTS & BOOKINGS
	// ======================================================
	materializeUC := ucSchedule.NewMaterialize(repo, loc)
	reconcileUC := ucSchedule.NewReconcile(repo, materializeUC)

	listOpenSlotsUC := ucSchedule.NewListOpenSlots(repo, slotsCache)

	holdUC := ucSchedule.NewHoldSlot(
		repo,
		slotsCache,
		provider,
		notifyDispatcher,
		cfg.HoldTTL,
		loc,
	)

	confirmUC := ucSchedule.NewConfirmSlot(repo, slotsCache, notifyDispatcher)
	releaseUC := ucSchedule.NewReleaseSlot(repo, slotsCache, notifyDispatcher)
	cancelSlotUC := ucSchedule.NewCancelSlot(repo, slotsCache, notifyDispatcher, auditDispatcher)

	listBookingsByDateUC := ucSchedule.NewListBookingsByDate(repo)
	listBookingsByMonthUC := ucSchedule.NewListBookingsByMonth(repo)
	completeBookingUC := ucSchedule.NewCompleteBooking(repo, auditDispatcher)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)

	templateHandler := handlers.NewTemplateHandler(
		createTemplateUC,
		deactivateTemplateUC,
		listTemplatesUC,
	)

	oneOffHandler := handlers.NewOneOffHandler(
		createOneOffUC,
		deactivateOneOffUC,
		listOneOffsUC,
	)

	publicHandler := handlers.NewPublicHandler(
		cfg,
		repo,
		listOpenSlotsUC,
		listTemplatesUC,
		holdUC,
		confirmUC,
		releaseUC,
	)

	webhookHandler := handlers.NewWebhookHandler(
		cfg,
		repo,
		provider,
		confirmUC,
		releaseUC,
	)

	slotAdminHandler := handlers.NewSlotAdminHandler(
		cfg,
		materializeUC,
		reconcileUC,
		releaseUC,
		cancelSlotUC,
	)

	bookingHandler := handlers.NewBookingHandler(
		cfg,
		listBookingsByDateUC,
		listBookingsByMonthUC,
		completeBookingUC,
	)

	auditLogsHandler := handlers.NewAuditLogsHandler(db)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// PUBLIC BOOKING FLOW
		// ------------------------------
		publicAPI := api.Group("/public")
		{
			publicAPI.GET("/services", publicHandler.ListServices)
			publicAPI.GET("/slots", publicHandler.ListOpenSlots)
			publicAPI.POST("/slots/:id/hold", publicHandler.Hold)
			publicAPI.POST("/bookings/confirm", publicHandler.Confirm)
			publicAPI.POST("/bookings/cancel", publicHandler.CancelHold)
		}

		// ------------------------------
		// PAYMENT WEBHOOKS
		// ------------------------------
		api.POST("/webhooks/mercadopago", webhookHandler.MercadoPago)

		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// OPERATOR API
		// ------------------------------
		secured := api.Group("/me")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/templates", templateHandler.List)
			secured.POST("/templates", templateHandler.Create)
			secured.PATCH("/templates/:id/deactivate", templateHandler.Deactivate)

			secured.GET("/one-off-dates", oneOffHandler.List)
			secured.POST("/one-off-dates", oneOffHandler.Create)
			secured.PATCH("/one-off-dates/:id/deactivate", oneOffHandler.Deactivate)

			secured.POST("/slots/materialize", slotAdminHandler.Materialize)
			secured.POST("/slots/reconcile", slotAdminHandler.Reconcile)
			secured.PATCH("/slots/:id/release", slotAdminHandler.Release)
			secured.PATCH("/slots/:id/cancel", slotAdminHandler.Cancel)

			secured.GET("/bookings", bookingHandler.ListByDate)
			secured.GET("/bookings/month", bookingHandler.ListByMonth)
			secured.PATCH("/bookings/:id/complete", bookingHandler.Complete)

			secured.GET("/audit-logs", auditLogsHandler.List)
		}
	}
}
