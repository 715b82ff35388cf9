package usecase

import (
	"context"
	"sync"
	"time"

	"field-booking/internal/data/entity"
	"field-booking/internal/data/repository"

	"github.com/google/uuid"
)

// fakeTimeSlotRepo mirrors the store's compare-and-swap contract in memory,
// including lapsed-hold takeover.
type fakeTimeSlotRepo struct {
	mu    sync.Mutex
	slots map[uuid.UUID]*entity.TimeSlot
}

func newFakeTimeSlotRepo(slots ...*entity.TimeSlot) *fakeTimeSlotRepo {
	repo := &fakeTimeSlotRepo{slots: make(map[uuid.UUID]*entity.TimeSlot)}
	for _, slot := range slots {
		repo.slots[slot.ID] = slot
	}
	return repo
}

func (f *fakeTimeSlotRepo) get(id uuid.UUID) *entity.TimeSlot {
	f.mu.Lock()
	defer f.mu.Unlock()
	slot, ok := f.slots[id]
	if !ok {
		return nil
	}
	cp := *slot
	return &cp
}

func (f *fakeTimeSlotRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.TimeSlot, error) {
	return f.get(id), nil
}

func (f *fakeTimeSlotRepo) FindByFieldAndDate(_ context.Context, fieldID uuid.UUID, day time.Time) ([]*entity.TimeSlot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.Add(24 * time.Hour)

	var out []*entity.TimeSlot
	for _, slot := range f.slots {
		if slot.FieldID == fieldID && !slot.StartAt.Before(dayStart) && slot.StartAt.Before(dayEnd) {
			cp := *slot
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeTimeSlotRepo) Hold(_ context.Context, slotID, userID uuid.UUID, heldUntil, now time.Time, expectedRev int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	slot, ok := f.slots[slotID]
	if !ok || slot.Revision != expectedRev {
		return entity.ErrSlotConflict
	}
	available := slot.Status == entity.SlotStatusAvailable ||
		(slot.Status == entity.SlotStatusHeld && slot.HeldUntil != nil && !slot.HeldUntil.After(now))
	if !available {
		return entity.ErrSlotConflict
	}

	holder := userID
	until := heldUntil
	slot.Status = entity.SlotStatusHeld
	slot.HolderID = &holder
	slot.HeldUntil = &until
	slot.ReservationID = nil
	slot.Revision++
	return nil
}

func (f *fakeTimeSlotRepo) Release(_ context.Context, slotID, userID uuid.UUID, expectedRev int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	slot, ok := f.slots[slotID]
	if !ok || slot.Revision != expectedRev || slot.Status != entity.SlotStatusHeld ||
		slot.HolderID == nil || *slot.HolderID != userID {
		return entity.ErrSlotConflict
	}

	slot.Status = entity.SlotStatusAvailable
	slot.HolderID = nil
	slot.HeldUntil = nil
	slot.Revision++
	return nil
}

func (f *fakeTimeSlotRepo) Book(_ context.Context, slotID, userID, reservationID uuid.UUID, now time.Time, expectedRev int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	slot, ok := f.slots[slotID]
	if !ok || slot.Revision != expectedRev || slot.Status != entity.SlotStatusHeld ||
		slot.HolderID == nil || *slot.HolderID != userID ||
		slot.HeldUntil == nil || !slot.HeldUntil.After(now) {
		return entity.ErrSlotConflict
	}

	resID := reservationID
	slot.Status = entity.SlotStatusBooked
	slot.ReservationID = &resID
	slot.HolderID = nil
	slot.HeldUntil = nil
	slot.Revision++
	return nil
}

func (f *fakeTimeSlotRepo) ReleaseExpired(_ context.Context, now time.Time) ([]uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	seen := make(map[uuid.UUID]struct{})
	var fieldIDs []uuid.UUID
	for _, slot := range f.slots {
		if slot.Status == entity.SlotStatusHeld && slot.HeldUntil != nil && !slot.HeldUntil.After(now) {
			slot.Status = entity.SlotStatusAvailable
			slot.HolderID = nil
			slot.HeldUntil = nil
			slot.Revision++
			if _, ok := seen[slot.FieldID]; !ok {
				seen[slot.FieldID] = struct{}{}
				fieldIDs = append(fieldIDs, slot.FieldID)
			}
		}
	}
	return fieldIDs, nil
}

type fakeCartRepo struct {
	mu        sync.Mutex
	items     map[uuid.UUID]map[uuid.UUID]*entity.CartItem
	insertErr error
}

func newFakeCartRepo() *fakeCartRepo {
	return &fakeCartRepo{items: make(map[uuid.UUID]map[uuid.UUID]*entity.CartItem)}
}

func (f *fakeCartRepo) FindByUserID(_ context.Context, userID uuid.UUID) ([]*entity.CartItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []*entity.CartItem
	for _, item := range f.items[userID] {
		cp := *item
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeCartRepo) Insert(_ context.Context, item *entity.CartItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.insertErr != nil {
		return f.insertErr
	}
	if f.items[item.UserID] == nil {
		f.items[item.UserID] = make(map[uuid.UUID]*entity.CartItem)
	}
	cp := *item
	f.items[item.UserID][item.TimeSlotID] = &cp
	return nil
}

func (f *fakeCartRepo) Delete(_ context.Context, userID, slotID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.items[userID][slotID]; !ok {
		return false, nil
	}
	delete(f.items[userID], slotID)
	return true, nil
}

func (f *fakeCartRepo) DeleteAll(_ context.Context, userID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.items, userID)
	return nil
}

func (f *fakeCartRepo) count(userID uuid.UUID) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.items[userID])
}

type fakeReservationRepo struct {
	mu           sync.Mutex
	reservations map[uuid.UUID]*entity.Reservation
}

func newFakeReservationRepo() *fakeReservationRepo {
	return &fakeReservationRepo{reservations: make(map[uuid.UUID]*entity.Reservation)}
}

func (f *fakeReservationRepo) Create(_ context.Context, reservation *entity.Reservation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *reservation
	f.reservations[reservation.ID] = &cp
	return nil
}

func (f *fakeReservationRepo) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.reservations, id)
	return nil
}

func (f *fakeReservationRepo) FindByUserID(_ context.Context, userID uuid.UUID) ([]*entity.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []*entity.Reservation
	for _, reservation := range f.reservations {
		if reservation.UserID == userID {
			cp := *reservation
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeReservationRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.reservations)
}

type fakeFieldRepo struct {
	fields map[uuid.UUID]*entity.Field
}

func newFakeFieldRepo(fields ...*entity.Field) *fakeFieldRepo {
	repo := &fakeFieldRepo{fields: make(map[uuid.UUID]*entity.Field)}
	for _, field := range fields {
		repo.fields[field.ID] = field
	}
	return repo
}

func (f *fakeFieldRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Field, error) {
	field, ok := f.fields[id]
	if !ok {
		return nil, nil
	}
	cp := *field
	return &cp, nil
}

type fakeSessionRepo struct{}

func (fakeSessionRepo) FindValidSession(context.Context, string) (*entity.Session, error) {
	return nil, nil
}

func (fakeSessionRepo) CleanExpiredSessions(context.Context) error {
	return nil
}

type fakeNotifier struct {
	mu        sync.Mutex
	published []uuid.UUID
}

func (f *fakeNotifier) Publish(fieldID uuid.UUID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.published = append(f.published, fieldID)
}

func (f *fakeNotifier) count(fieldID uuid.UUID) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	n := 0
	for _, id := range f.published {
		if id == fieldID {
			n++
		}
	}
	return n
}

func newTestRepo(slots *fakeTimeSlotRepo, cart *fakeCartRepo, reservations *fakeReservationRepo, fields *fakeFieldRepo) *repository.Repository {
	return &repository.Repository{
		Session:     fakeSessionRepo{},
		Field:       fields,
		TimeSlot:    slots,
		Cart:        cart,
		Reservation: reservations,
	}
}
