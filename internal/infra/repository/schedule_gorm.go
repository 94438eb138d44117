package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/advisorydesk/advisory-scheduler/internal/domain/schedule"
	"github.com/advisorydesk/advisory-scheduler/internal/httperr"
	"github.com/advisorydesk/advisory-scheduler/internal/models"
)

type ScheduleGormRepository struct {
	db *gorm.DB
}

func NewScheduleGormRepository(db *gorm.DB) *ScheduleGormRepository {
	return &ScheduleGormRepository{db: db}
}

// --------------------------------------------------
// Templates
// --------------------------------------------------

func (r *ScheduleGormRepository) CreateTemplate(
	ctx context.Context,
	tpl *models.ScheduleTemplate,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		// Lock the occupied key so a conflicting create fails here
		// with a clean error instead of on the index below.
		var conflicts []models.ScheduleTemplate
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where(
				"weekday = ? AND hour = ? AND minute = ? AND service_type = ? AND active = ?",
				tpl.Weekday, tpl.Hour, tpl.Minute, tpl.ServiceType, true,
			).
			Find(&conflicts).Error; err != nil {
			return err
		}

		if len(conflicts) > 0 {
			return httperr.ErrBusiness(domain.CodeTemplateConflict)
		}

		// FOR UPDATE over zero rows locks nothing, so two concurrent
		// creates for a brand-new key both pass the check above. The
		// partial unique index on active rows is the authority.
		if err := tx.Create(tpl).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return httperr.ErrBusiness(domain.CodeTemplateConflict)
			}
			return err
		}
		return nil
	})
}

func (r *ScheduleGormRepository) DeactivateTemplate(
	ctx context.Context,
	id uint,
) error {

	res := r.db.WithContext(ctx).
		Model(&models.ScheduleTemplate{}).
		Where("id = ?", id).
		Update("active", false)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return httperr.ErrBusiness(domain.CodeNotFound)
	}
	return nil
}

func (r *ScheduleGormRepository) ListTemplates(
	ctx context.Context,
	serviceType string,
) ([]models.ScheduleTemplate, error) {

	q := r.db.WithContext(ctx).Model(&models.ScheduleTemplate{})
	if serviceType != "" {
		q = q.Where("service_type = ?", serviceType)
	}

	var tpls []models.ScheduleTemplate
	if err := q.
		Order("weekday ASC, hour ASC, minute ASC").
		Find(&tpls).Error; err != nil {
		return nil, err
	}
	return tpls, nil
}

func (r *ScheduleGormRepository) ListActiveTemplates(
	ctx context.Context,
) ([]models.ScheduleTemplate, error) {

	var tpls []models.ScheduleTemplate
	if err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("weekday ASC, hour ASC, minute ASC").
		Find(&tpls).Error; err != nil {
		return nil, err
	}
	return tpls, nil
}

// --------------------------------------------------
// One-off dates
// --------------------------------------------------

func (r *ScheduleGormRepository) CreateOneOffDate(
	ctx context.Context,
	d *models.OneOffDate,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		var conflicts []models.OneOffDate
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where(
				"date = ? AND time = ? AND service_type = ? AND active = ?",
				d.Date, d.Time, d.ServiceType, true,
			).
			Find(&conflicts).Error; err != nil {
			return err
		}

		if len(conflicts) > 0 {
			return httperr.ErrBusiness(domain.CodeTemplateConflict)
		}

		if err := tx.Create(d).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return httperr.ErrBusiness(domain.CodeTemplateConflict)
			}
			return err
		}
		return nil
	})
}

func (r *ScheduleGormRepository) DeactivateOneOffDate(
	ctx context.Context,
	id uint,
) error {

	res := r.db.WithContext(ctx).
		Model(&models.OneOffDate{}).
		Where("id = ?", id).
		Update("active", false)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return httperr.ErrBusiness(domain.CodeNotFound)
	}
	return nil
}

func (r *ScheduleGormRepository) ListOneOffDates(
	ctx context.Context,
	serviceType string,
) ([]models.OneOffDate, error) {

	q := r.db.WithContext(ctx).Model(&models.OneOffDate{})
	if serviceType != "" {
		q = q.Where("service_type = ?", serviceType)
	}

	var dates []models.OneOffDate
	if err := q.
		Order("date ASC, time ASC").
		Find(&dates).Error; err != nil {
		return nil, err
	}
	return dates, nil
}

func (r *ScheduleGormRepository) ListActiveOneOffDatesInRange(
	ctx context.Context,
	from string,
	to string,
) ([]models.OneOffDate, error) {

	var dates []models.OneOffDate
	if err := r.db.WithContext(ctx).
		Where("active = ? AND date >= ? AND date <= ?", true, from, to).
		Order("date ASC, time ASC").
		Find(&dates).Error; err != nil {
		return nil, err
	}
	return dates, nil
}

// --------------------------------------------------
// Slots
// --------------------------------------------------

func (r *ScheduleGormRepository) CreateSlotIfAbsent(
	ctx context.Context,
	slot *models.Slot,
) (bool, error) {

	// The composite unique index on (date, time, service_type) makes
	// this safe against a concurrent materializer run.
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "date"}, {Name: "time"}, {Name: "service_type"},
			},
			DoNothing: true,
		}).
		Create(slot)

	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *ScheduleGormRepository) GetSlot(
	ctx context.Context,
	id uint,
) (*models.Slot, error) {

	var slot models.Slot
	if err := r.db.WithContext(ctx).First(&slot, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness(domain.CodeNotFound)
		}
		return nil, err
	}
	return &slot, nil
}

func (r *ScheduleGormRepository) ListOpenSlots(
	ctx context.Context,
	q domain.OpenSlotsQuery,
) ([]models.Slot, error) {

	query := r.db.WithContext(ctx).
		Where("state = ?", string(domain.SlotOpen))

	if q.ServiceType != "" {
		query = query.Where("service_type = ?", q.ServiceType)
	}
	if q.From != "" {
		query = query.Where("date >= ?", q.From)
	}
	if q.To != "" {
		query = query.Where("date <= ?", q.To)
	}

	var slots []models.Slot
	if err := query.
		Order("date ASC, time ASC").
		Find(&slots).Error; err != nil {
		return nil, err
	}
	return slots, nil
}

func (r *ScheduleGormRepository) ListExpiredHeldSlots(
	ctx context.Context,
	now time.Time,
) ([]models.Slot, error) {

	var slots []models.Slot
	if err := r.db.WithContext(ctx).
		Where(
			"state = ? AND hold_expires_at < ?",
			string(domain.SlotHeld), now,
		).
		Find(&slots).Error; err != nil {
		return nil, err
	}
	return slots, nil
}

func (r *ScheduleGormRepository) CountActiveSlotsForDay(
	ctx context.Context,
	date string,
	serviceType string,
) (int64, error) {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Slot{}).
		Where(
			"date = ? AND service_type = ? AND state <> ?",
			date, serviceType, string(domain.SlotCancelled),
		).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// --------------------------------------------------
// Transitions
// --------------------------------------------------

func (r *ScheduleGormRepository) HoldSlot(
	ctx context.Context,
	slotID uint,
	holder string,
	token string,
	expiresAt time.Time,
	booking *models.Booking,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		// Single conditional update, not read-then-write: of N
		// concurrent holds exactly one flips Open->Held here.
		res := tx.Model(&models.Slot{}).
			Where("id = ? AND state = ?", slotID, string(domain.SlotOpen)).
			Updates(map[string]any{
				"state":           string(domain.SlotHeld),
				"holder_ref":      holder,
				"hold_token":      token,
				"hold_expires_at": expiresAt,
			})
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 0 {
			var exists int64
			if err := tx.Model(&models.Slot{}).
				Where("id = ?", slotID).
				Count(&exists).Error; err != nil {
				return err
			}
			if exists == 0 {
				return httperr.ErrBusiness(domain.CodeNotFound)
			}
			return httperr.ErrBusiness(domain.CodeSlotUnavailable)
		}

		// A Held slot must never exist without its pending booking.
		return tx.Create(booking).Error
	})
}

func (r *ScheduleGormRepository) ConfirmSlot(
	ctx context.Context,
	slotID uint,
	token string,
	paymentStatus string,
	externalRef string,
) (*models.Booking, error) {

	var booking models.Booking

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		if err := tx.
			Where(
				"slot_id = ? AND status = ?",
				slotID, string(domain.BookingPending),
			).
			First(&booking).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return httperr.ErrBusiness(domain.CodeInvalidHoldToken)
			}
			return err
		}

		res := tx.Model(&models.Slot{}).
			Where(
				"id = ? AND state = ? AND hold_token = ?",
				slotID, string(domain.SlotHeld), token,
			).
			Updates(map[string]any{
				"state":                string(domain.SlotConfirmed),
				"confirmed_booking_id": booking.ID,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return httperr.ErrBusiness(domain.CodeInvalidHoldToken)
		}

		booking.Status = string(domain.BookingConfirmed)
		booking.PaymentStatus = paymentStatus
		if externalRef != "" {
			booking.ExternalReference = externalRef
		}

		return tx.Save(&booking).Error
	})

	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *ScheduleGormRepository) ReleaseSlot(
	ctx context.Context,
	slotID uint,
	reason string,
) (bool, error) {

	released := false

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		res := tx.Model(&models.Slot{}).
			Where("id = ? AND state = ?", slotID, string(domain.SlotHeld)).
			Updates(map[string]any{
				"state":           string(domain.SlotOpen),
				"holder_ref":      "",
				"hold_token":      "",
				"hold_expires_at": nil,
			})
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 0 {
			var exists int64
			if err := tx.Model(&models.Slot{}).
				Where("id = ?", slotID).
				Count(&exists).Error; err != nil {
				return err
			}
			if exists == 0 {
				return httperr.ErrBusiness(domain.CodeNotFound)
			}
			// Already Open (or Confirmed/Cancelled): releasing again
			// is a no-op, not an error.
			return nil
		}

		released = true

		now := time.Now()
		return tx.Model(&models.Booking{}).
			Where(
				"slot_id = ? AND status = ?",
				slotID, string(domain.BookingPending),
			).
			Updates(map[string]any{
				"status":        string(domain.BookingCancelled),
				"cancel_reason": reason,
				"cancelled_at":  now,
			}).Error
	})

	if err != nil {
		return false, err
	}
	return released, nil
}

func (r *ScheduleGormRepository) CancelSlot(
	ctx context.Context,
	slotID uint,
	reason string,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		res := tx.Model(&models.Slot{}).
			Where(
				"id = ? AND state IN ?",
				slotID,
				[]string{string(domain.SlotOpen), string(domain.SlotHeld)},
			).
			Updates(map[string]any{
				"state":           string(domain.SlotCancelled),
				"holder_ref":      "",
				"hold_token":      "",
				"hold_expires_at": nil,
			})
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 0 {
			var exists int64
			if err := tx.Model(&models.Slot{}).
				Where("id = ?", slotID).
				Count(&exists).Error; err != nil {
				return err
			}
			if exists == 0 {
				return httperr.ErrBusiness(domain.CodeNotFound)
			}
			return httperr.ErrBusiness(domain.CodeInvalidState)
		}

		now := time.Now()
		return tx.Model(&models.Booking{}).
			Where(
				"slot_id = ? AND status = ?",
				slotID, string(domain.BookingPending),
			).
			Updates(map[string]any{
				"status":        string(domain.BookingCancelled),
				"cancel_reason": reason,
				"cancelled_at":  now,
			}).Error
	})
}

// --------------------------------------------------
// Bookings / clients
// --------------------------------------------------

func (r *ScheduleGormRepository) GetOrCreateClient(
	ctx context.Context,
	name string,
	phone string,
	email string,
) (*models.Client, error) {

	var client models.Client
	err := r.db.WithContext(ctx).
		Where("phone = ?", phone).
		First(&client).Error

	if err == nil {
		return &client, nil
	}

	client = models.Client{
		Name:  name,
		Phone: phone,
		Email: email,
	}

	if err := r.db.WithContext(ctx).Create(&client).Error; err != nil {
		return nil, err
	}

	return &client, nil
}

func (r *ScheduleGormRepository) GetBooking(
	ctx context.Context,
	id uint,
) (*models.Booking, error) {

	var b models.Booking
	if err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Slot").
		First(&b, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness(domain.CodeNotFound)
		}
		return nil, err
	}
	return &b, nil
}

func (r *ScheduleGormRepository) GetPendingBookingBySlot(
	ctx context.Context,
	slotID uint,
) (*models.Booking, error) {

	var b models.Booking
	if err := r.db.WithContext(ctx).
		Preload("Client").
		Where(
			"slot_id = ? AND status = ?",
			slotID, string(domain.BookingPending),
		).
		First(&b).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness(domain.CodeNotFound)
		}
		return nil, err
	}
	return &b, nil
}

func (r *ScheduleGormRepository) GetBookingByHoldToken(
	ctx context.Context,
	token string,
) (*models.Booking, error) {

	var slot models.Slot
	if err := r.db.WithContext(ctx).
		Where("hold_token = ?", token).
		First(&slot).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness(domain.CodeInvalidHoldToken)
		}
		return nil, err
	}

	var b models.Booking
	if err := r.db.WithContext(ctx).
		Where(
			"slot_id = ? AND status = ?",
			slot.ID, string(domain.BookingPending),
		).
		First(&b).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness(domain.CodeInvalidHoldToken)
		}
		return nil, err
	}
	return &b, nil
}

func (r *ScheduleGormRepository) UpdateBooking(
	ctx context.Context,
	b *models.Booking,
) error {
	return r.db.WithContext(ctx).Save(b).Error
}

func (r *ScheduleGormRepository) ListBookingsForPeriod(
	ctx context.Context,
	start time.Time,
	end time.Time,
) ([]models.Booking, error) {

	var bookings []models.Booking
	if err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Slot").
		Where(
			"start_time >= ? AND start_time < ?",
			start, end,
		).
		Order("start_time ASC").
		Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

// Compile-time check
var _ domain.Repository = (*ScheduleGormRepository)(nil)
