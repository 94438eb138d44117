package schedule

import (
	"context"
	"sync"
	"time"

	domain "github.com/advisorydesk/advisory-scheduler/internal/domain/schedule"
	"github.com/advisorydesk/advisory-scheduler/internal/httperr"
	"github.com/advisorydesk/advisory-scheduler/internal/models"
)

// fakeRepo is an in-memory domain.Repository with the same transition
// semantics as the gorm implementation: the state checks inside
// HoldSlot/ConfirmSlot/ReleaseSlot happen under one lock, so concurrent
// callers observe the same winner-takes-it behavior as the conditional
// UPDATEs in production.
type fakeRepo struct {
	mu sync.Mutex

	templates map[uint]*models.ScheduleTemplate
	oneOffs   map[uint]*models.OneOffDate
	slots     map[uint]*models.Slot
	slotKeys  map[string]uint
	bookings  map[uint]*models.Booking
	clients   map[uint]*models.Client

	nextID uint

	// releaseErr forces ReleaseSlot to fail for specific slots.
	releaseErr map[uint]error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		templates:  map[uint]*models.ScheduleTemplate{},
		oneOffs:    map[uint]*models.OneOffDate{},
		slots:      map[uint]*models.Slot{},
		slotKeys:   map[string]uint{},
		bookings:   map[uint]*models.Booking{},
		clients:    map[uint]*models.Client{},
		releaseErr: map[uint]error{},
	}
}

func (f *fakeRepo) id() uint {
	f.nextID++
	return f.nextID
}

// -------- Templates --------

func (f *fakeRepo) CreateTemplate(
	_ context.Context,
	tpl *models.ScheduleTemplate,
) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, existing := range f.templates {
		if existing.Active &&
			existing.Weekday == tpl.Weekday &&
			existing.Hour == tpl.Hour &&
			existing.Minute == tpl.Minute &&
			existing.ServiceType == tpl.ServiceType {
			return httperr.ErrBusiness(domain.CodeTemplateConflict)
		}
	}

	tpl.ID = f.id()
	cp := *tpl
	f.templates[tpl.ID] = &cp
	return nil
}

func (f *fakeRepo) DeactivateTemplate(_ context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	tpl, ok := f.templates[id]
	if !ok {
		return httperr.ErrBusiness(domain.CodeNotFound)
	}
	tpl.Active = false
	return nil
}

func (f *fakeRepo) ListTemplates(
	_ context.Context,
	serviceType string,
) ([]models.ScheduleTemplate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []models.ScheduleTemplate
	for _, tpl := range f.templates {
		if serviceType != "" && tpl.ServiceType != serviceType {
			continue
		}
		out = append(out, *tpl)
	}
	return out, nil
}

func (f *fakeRepo) ListActiveTemplates(
	_ context.Context,
) ([]models.ScheduleTemplate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []models.ScheduleTemplate
	for _, tpl := range f.templates {
		if tpl.Active {
			out = append(out, *tpl)
		}
	}
	return out, nil
}

// -------- One-off dates --------

func (f *fakeRepo) CreateOneOffDate(
	_ context.Context,
	d *models.OneOffDate,
) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	d.ID = f.id()
	cp := *d
	f.oneOffs[d.ID] = &cp
	return nil
}

func (f *fakeRepo) DeactivateOneOffDate(_ context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	d, ok := f.oneOffs[id]
	if !ok {
		return httperr.ErrBusiness(domain.CodeNotFound)
	}
	d.Active = false
	return nil
}

func (f *fakeRepo) ListOneOffDates(
	_ context.Context,
	serviceType string,
) ([]models.OneOffDate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []models.OneOffDate
	for _, d := range f.oneOffs {
		if serviceType != "" && d.ServiceType != serviceType {
			continue
		}
		out = append(out, *d)
	}
	return out, nil
}

func (f *fakeRepo) ListActiveOneOffDatesInRange(
	_ context.Context,
	from string,
	to string,
) ([]models.OneOffDate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []models.OneOffDate
	for _, d := range f.oneOffs {
		if d.Active && d.Date >= from && d.Date <= to {
			out = append(out, *d)
		}
	}
	return out, nil
}

// -------- Slots --------

func (f *fakeRepo) CreateSlotIfAbsent(
	_ context.Context,
	slot *models.Slot,
) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := domain.SlotKey(slot.Date, slot.Time, slot.ServiceType)
	if _, exists := f.slotKeys[key]; exists {
		return false, nil
	}

	slot.ID = f.id()
	cp := *slot
	f.slots[slot.ID] = &cp
	f.slotKeys[key] = slot.ID
	return true, nil
}

func (f *fakeRepo) GetSlot(_ context.Context, id uint) (*models.Slot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	slot, ok := f.slots[id]
	if !ok {
		return nil, httperr.ErrBusiness(domain.CodeNotFound)
	}
	cp := *slot
	return &cp, nil
}

func (f *fakeRepo) ListOpenSlots(
	_ context.Context,
	q domain.OpenSlotsQuery,
) ([]models.Slot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []models.Slot
	for _, slot := range f.slots {
		if slot.State != string(domain.SlotOpen) {
			continue
		}
		if q.ServiceType != "" && slot.ServiceType != q.ServiceType {
			continue
		}
		if q.From != "" && slot.Date < q.From {
			continue
		}
		if q.To != "" && slot.Date > q.To {
			continue
		}
		out = append(out, *slot)
	}
	return out, nil
}

func (f *fakeRepo) ListExpiredHeldSlots(
	_ context.Context,
	now time.Time,
) ([]models.Slot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []models.Slot
	for _, slot := range f.slots {
		if slot.State != string(domain.SlotHeld) {
			continue
		}
		if slot.HoldExpiresAt != nil && !now.Before(*slot.HoldExpiresAt) {
			out = append(out, *slot)
		}
	}
	return out, nil
}

func (f *fakeRepo) CountActiveSlotsForDay(
	_ context.Context,
	date string,
	serviceType string,
) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var count int64
	for _, slot := range f.slots {
		if slot.Date == date &&
			slot.ServiceType == serviceType &&
			slot.State != string(domain.SlotCancelled) {
			count++
		}
	}
	return count, nil
}

// -------- Transitions --------

func (f *fakeRepo) HoldSlot(
	_ context.Context,
	slotID uint,
	holder string,
	token string,
	expiresAt time.Time,
	booking *models.Booking,
) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	slot, ok := f.slots[slotID]
	if !ok {
		return httperr.ErrBusiness(domain.CodeNotFound)
	}
	if slot.State != string(domain.SlotOpen) {
		return httperr.ErrBusiness(domain.CodeSlotUnavailable)
	}

	slot.State = string(domain.SlotHeld)
	slot.HolderRef = holder
	slot.HoldToken = token
	exp := expiresAt
	slot.HoldExpiresAt = &exp

	booking.ID = f.id()
	cp := *booking
	f.bookings[booking.ID] = &cp
	return nil
}

func (f *fakeRepo) ConfirmSlot(
	_ context.Context,
	slotID uint,
	token string,
	paymentStatus string,
	externalRef string,
) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var pending *models.Booking
	for _, b := range f.bookings {
		if b.SlotID == slotID && b.Status == string(domain.BookingPending) {
			pending = b
			break
		}
	}
	if pending == nil {
		return nil, httperr.ErrBusiness(domain.CodeInvalidHoldToken)
	}

	slot, ok := f.slots[slotID]
	if !ok || slot.State != string(domain.SlotHeld) || slot.HoldToken != token {
		return nil, httperr.ErrBusiness(domain.CodeInvalidHoldToken)
	}

	slot.State = string(domain.SlotConfirmed)
	slot.ConfirmedBookingID = &pending.ID

	pending.Status = string(domain.BookingConfirmed)
	pending.PaymentStatus = paymentStatus
	if externalRef != "" {
		pending.ExternalReference = externalRef
	}

	cp := *pending
	return &cp, nil
}

func (f *fakeRepo) ReleaseSlot(
	_ context.Context,
	slotID uint,
	reason string,
) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err, ok := f.releaseErr[slotID]; ok {
		return false, err
	}

	slot, ok := f.slots[slotID]
	if !ok {
		return false, httperr.ErrBusiness(domain.CodeNotFound)
	}
	if slot.State != string(domain.SlotHeld) {
		return false, nil
	}

	slot.State = string(domain.SlotOpen)
	slot.HolderRef = ""
	slot.HoldToken = ""
	slot.HoldExpiresAt = nil

	for _, b := range f.bookings {
		if b.SlotID == slotID && b.Status == string(domain.BookingPending) {
			now := time.Now()
			b.Status = string(domain.BookingCancelled)
			b.CancelReason = reason
			b.CancelledAt = &now
		}
	}
	return true, nil
}

func (f *fakeRepo) CancelSlot(
	_ context.Context,
	slotID uint,
	reason string,
) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	slot, ok := f.slots[slotID]
	if !ok {
		return httperr.ErrBusiness(domain.CodeNotFound)
	}
	if err := domain.CanCancel(domain.SlotState(slot.State)); err != nil {
		return err
	}

	slot.State = string(domain.SlotCancelled)
	slot.HoldToken = ""
	slot.HoldExpiresAt = nil

	for _, b := range f.bookings {
		if b.SlotID == slotID && b.Status == string(domain.BookingPending) {
			now := time.Now()
			b.Status = string(domain.BookingCancelled)
			b.CancelReason = reason
			b.CancelledAt = &now
		}
	}
	return nil
}

// -------- Bookings / clients --------

func (f *fakeRepo) GetOrCreateClient(
	_ context.Context,
	name string,
	phone string,
	email string,
) (*models.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, c := range f.clients {
		if c.Phone == phone {
			cp := *c
			return &cp, nil
		}
	}

	client := &models.Client{
		ID:    f.id(),
		Name:  name,
		Phone: phone,
		Email: email,
	}
	f.clients[client.ID] = client
	cp := *client
	return &cp, nil
}

func (f *fakeRepo) GetBooking(_ context.Context, id uint) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	b, ok := f.bookings[id]
	if !ok {
		return nil, httperr.ErrBusiness(domain.CodeNotFound)
	}
	cp := *b
	if client, ok := f.clients[b.ClientID]; ok {
		cp.Client = *client
	}
	return &cp, nil
}

func (f *fakeRepo) GetPendingBookingBySlot(
	_ context.Context,
	slotID uint,
) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, b := range f.bookings {
		if b.SlotID == slotID && b.Status == string(domain.BookingPending) {
			cp := *b
			if client, ok := f.clients[b.ClientID]; ok {
				cp.Client = *client
			}
			return &cp, nil
		}
	}
	return nil, httperr.ErrBusiness(domain.CodeNotFound)
}

func (f *fakeRepo) GetBookingByHoldToken(
	_ context.Context,
	token string,
) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, slot := range f.slots {
		if slot.HoldToken != "" && slot.HoldToken == token {
			for _, b := range f.bookings {
				if b.SlotID == slot.ID && b.Status == string(domain.BookingPending) {
					cp := *b
					return &cp, nil
				}
			}
		}
	}
	return nil, httperr.ErrBusiness(domain.CodeInvalidHoldToken)
}

func (f *fakeRepo) UpdateBooking(_ context.Context, b *models.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.bookings[b.ID]; !ok {
		return httperr.ErrBusiness(domain.CodeNotFound)
	}
	cp := *b
	f.bookings[b.ID] = &cp
	return nil
}

func (f *fakeRepo) ListBookingsForPeriod(
	_ context.Context,
	start time.Time,
	end time.Time,
) ([]models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []models.Booking
	for _, b := range f.bookings {
		if !b.StartTime.Before(start) && b.StartTime.Before(end) {
			out = append(out, *b)
		}
	}
	return out, nil
}

var _ domain.Repository = (*fakeRepo)(nil)

// addOpenSlot seeds one Open slot and returns its id.
func (f *fakeRepo) addOpenSlot(date, hm, serviceType string, price float64) uint {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := f.id()
	slot := &models.Slot{
		ID:          id,
		Date:        date,
		Time:        hm,
		ServiceType: serviceType,
		DurationMin: 60,
		Price:       price,
		State:       string(domain.SlotOpen),
	}
	f.slots[id] = slot
	f.slotKeys[domain.SlotKey(date, hm, serviceType)] = id
	return id
}
