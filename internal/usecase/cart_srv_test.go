package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"field-booking/internal/data/entity"
	"field-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var testNow = time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

func testConfig() *utils.Config {
	return &utils.Config{
		Hold: utils.HoldConfig{ExpiryMinutes: 15, SweepSeconds: 30},
	}
}

func availableSlot(fieldID uuid.UUID, startAt time.Time, price float64) *entity.TimeSlot {
	slot := &entity.TimeSlot{
		FieldID: fieldID,
		StartAt: startAt,
		Price:   price,
		Status:  entity.SlotStatusAvailable,
	}
	slot.ID = uuid.New()
	return slot
}

func heldSlot(fieldID, holderID uuid.UUID, startAt, heldUntil time.Time) *entity.TimeSlot {
	slot := availableSlot(fieldID, startAt, 100)
	slot.Status = entity.SlotStatusHeld
	slot.HolderID = &holderID
	slot.HeldUntil = &heldUntil
	slot.Revision = 1
	return slot
}

func testField() *entity.Field {
	field := &entity.Field{Name: "Arena North", City: "Rotterdam", Category: "futsal"}
	field.ID = uuid.New()
	return field
}

func TestAddItemHoldsSlot(t *testing.T) {
	field := testField()
	slot := availableSlot(field.ID, testNow.Add(2*time.Hour), 120)
	slots := newFakeTimeSlotRepo(slot)
	cartRepo := newFakeCartRepo()
	notifier := &fakeNotifier{}

	repo := newTestRepo(slots, cartRepo, newFakeReservationRepo(), newFakeFieldRepo(field))
	svc := NewCartService(repo, testConfig(), notifier, NewFixedClock(testNow), zap.NewNop())

	userID := uuid.New()
	cart, err := svc.AddItem(context.Background(), userID, slot.ID.String())
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	if len(cart.Items) != 1 {
		t.Fatalf("cart items = %d, want 1", len(cart.Items))
	}
	if cart.TotalPrice != 120 {
		t.Errorf("total price = %v, want 120", cart.TotalPrice)
	}

	stored := slots.get(slot.ID)
	if stored.Status != entity.SlotStatusHeld {
		t.Errorf("slot status = %s, want held", stored.Status)
	}
	if stored.HolderID == nil || *stored.HolderID != userID {
		t.Error("slot holder not set to user")
	}
	wantUntil := testNow.Add(15 * time.Minute)
	if stored.HeldUntil == nil || !stored.HeldUntil.Equal(wantUntil) {
		t.Errorf("held until = %v, want %v", stored.HeldUntil, wantUntil)
	}
	if notifier.count(field.ID) != 1 {
		t.Errorf("publishes = %d, want 1", notifier.count(field.ID))
	}
}

func TestAddItemHeldSlotConflicts(t *testing.T) {
	field := testField()
	other := uuid.New()
	slot := heldSlot(field.ID, other, testNow.Add(2*time.Hour), testNow.Add(10*time.Minute))
	repo := newTestRepo(newFakeTimeSlotRepo(slot), newFakeCartRepo(), newFakeReservationRepo(), newFakeFieldRepo(field))
	svc := NewCartService(repo, testConfig(), &fakeNotifier{}, NewFixedClock(testNow), zap.NewNop())

	_, err := svc.AddItem(context.Background(), uuid.New(), slot.ID.String())
	if !errors.Is(err, entity.ErrSlotConflict) {
		t.Fatalf("err = %v, want ErrSlotConflict", err)
	}
}

func TestAddItemTakesOverExpiredHold(t *testing.T) {
	field := testField()
	other := uuid.New()
	slot := heldSlot(field.ID, other, testNow.Add(2*time.Hour), testNow.Add(-time.Minute))
	slots := newFakeTimeSlotRepo(slot)
	repo := newTestRepo(slots, newFakeCartRepo(), newFakeReservationRepo(), newFakeFieldRepo(field))
	svc := NewCartService(repo, testConfig(), &fakeNotifier{}, NewFixedClock(testNow), zap.NewNop())

	userID := uuid.New()
	if _, err := svc.AddItem(context.Background(), userID, slot.ID.String()); err != nil {
		t.Fatalf("AddItem over expired hold: %v", err)
	}

	stored := slots.get(slot.ID)
	if stored.HolderID == nil || *stored.HolderID != userID {
		t.Error("expired hold was not taken over")
	}
}

func TestAddItemUnknownSlot(t *testing.T) {
	repo := newTestRepo(newFakeTimeSlotRepo(), newFakeCartRepo(), newFakeReservationRepo(), newFakeFieldRepo())
	svc := NewCartService(repo, testConfig(), &fakeNotifier{}, NewFixedClock(testNow), zap.NewNop())

	_, err := svc.AddItem(context.Background(), uuid.New(), uuid.NewString())
	if !errors.Is(err, entity.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestAddItemUnauthenticated(t *testing.T) {
	repo := newTestRepo(newFakeTimeSlotRepo(), newFakeCartRepo(), newFakeReservationRepo(), newFakeFieldRepo())
	svc := NewCartService(repo, testConfig(), &fakeNotifier{}, NewFixedClock(testNow), zap.NewNop())

	_, err := svc.AddItem(context.Background(), uuid.Nil, uuid.NewString())
	if !errors.Is(err, entity.ErrUnauthenticated) {
		t.Fatalf("err = %v, want ErrUnauthenticated", err)
	}
}

func TestAddItemRollsBackHoldOnInsertFailure(t *testing.T) {
	field := testField()
	slot := availableSlot(field.ID, testNow.Add(2*time.Hour), 100)
	slots := newFakeTimeSlotRepo(slot)
	cartRepo := newFakeCartRepo()
	cartRepo.insertErr = errors.New("connection reset")

	repo := newTestRepo(slots, cartRepo, newFakeReservationRepo(), newFakeFieldRepo(field))
	svc := NewCartService(repo, testConfig(), &fakeNotifier{}, NewFixedClock(testNow), zap.NewNop())

	if _, err := svc.AddItem(context.Background(), uuid.New(), slot.ID.String()); err == nil {
		t.Fatal("AddItem should fail when the cart insert fails")
	}

	stored := slots.get(slot.ID)
	if stored.Status != entity.SlotStatusAvailable {
		t.Errorf("slot status = %s, want available after rollback", stored.Status)
	}
}

func TestConcurrentAddExactlyOneWins(t *testing.T) {
	field := testField()
	slot := availableSlot(field.ID, testNow.Add(2*time.Hour), 100)
	slots := newFakeTimeSlotRepo(slot)
	cartRepo := newFakeCartRepo()

	repo := newTestRepo(slots, cartRepo, newFakeReservationRepo(), newFakeFieldRepo(field))
	svc := NewCartService(repo, testConfig(), &fakeNotifier{}, NewFixedClock(testNow), zap.NewNop())

	const contenders = 8
	var wg sync.WaitGroup
	results := make(chan error, contenders)

	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.AddItem(context.Background(), uuid.New(), slot.ID.String())
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	wins, conflicts := 0, 0
	for err := range results {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, entity.ErrSlotConflict):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if wins != 1 {
		t.Errorf("wins = %d, want exactly 1", wins)
	}
	if conflicts != contenders-1 {
		t.Errorf("conflicts = %d, want %d", conflicts, contenders-1)
	}

	stored := slots.get(slot.ID)
	if stored.Status != entity.SlotStatusHeld {
		t.Errorf("slot status = %s, want held", stored.Status)
	}
}

func TestRemoveItemReleasesHold(t *testing.T) {
	field := testField()
	userID := uuid.New()
	slot := heldSlot(field.ID, userID, testNow.Add(2*time.Hour), testNow.Add(10*time.Minute))
	slots := newFakeTimeSlotRepo(slot)
	cartRepo := newFakeCartRepo()
	cartRepo.Insert(context.Background(), &entity.CartItem{
		UserID: userID, TimeSlotID: slot.ID, FieldID: field.ID, Price: 100, SlotStart: slot.StartAt,
	})
	notifier := &fakeNotifier{}

	repo := newTestRepo(slots, cartRepo, newFakeReservationRepo(), newFakeFieldRepo(field))
	svc := NewCartService(repo, testConfig(), notifier, NewFixedClock(testNow), zap.NewNop())

	cart, err := svc.RemoveItem(context.Background(), userID, slot.ID.String())
	if err != nil {
		t.Fatalf("RemoveItem: %v", err)
	}
	if len(cart.Items) != 0 {
		t.Errorf("cart items = %d, want 0", len(cart.Items))
	}

	stored := slots.get(slot.ID)
	if stored.Status != entity.SlotStatusAvailable {
		t.Errorf("slot status = %s, want available", stored.Status)
	}
	if notifier.count(field.ID) != 1 {
		t.Errorf("publishes = %d, want 1", notifier.count(field.ID))
	}
}

func TestRemoveItemNotHolderKeepsOtherHold(t *testing.T) {
	field := testField()
	holder := uuid.New()
	slot := heldSlot(field.ID, holder, testNow.Add(2*time.Hour), testNow.Add(10*time.Minute))
	slots := newFakeTimeSlotRepo(slot)

	repo := newTestRepo(slots, newFakeCartRepo(), newFakeReservationRepo(), newFakeFieldRepo(field))
	svc := NewCartService(repo, testConfig(), &fakeNotifier{}, NewFixedClock(testNow), zap.NewNop())

	// Idempotent: removing an entry you do not have succeeds and leaves the
	// other user's hold alone.
	if _, err := svc.RemoveItem(context.Background(), uuid.New(), slot.ID.String()); err != nil {
		t.Fatalf("RemoveItem: %v", err)
	}

	stored := slots.get(slot.ID)
	if stored.Status != entity.SlotStatusHeld || *stored.HolderID != holder {
		t.Error("other user's hold was disturbed")
	}
}

func TestClearReleasesAllHolds(t *testing.T) {
	field := testField()
	userID := uuid.New()
	slotA := heldSlot(field.ID, userID, testNow.Add(2*time.Hour), testNow.Add(10*time.Minute))
	slotB := heldSlot(field.ID, userID, testNow.Add(3*time.Hour), testNow.Add(10*time.Minute))
	slots := newFakeTimeSlotRepo(slotA, slotB)
	cartRepo := newFakeCartRepo()
	for _, slot := range []*entity.TimeSlot{slotA, slotB} {
		cartRepo.Insert(context.Background(), &entity.CartItem{
			UserID: userID, TimeSlotID: slot.ID, FieldID: field.ID, Price: 100, SlotStart: slot.StartAt,
		})
	}
	notifier := &fakeNotifier{}

	repo := newTestRepo(slots, cartRepo, newFakeReservationRepo(), newFakeFieldRepo(field))
	svc := NewCartService(repo, testConfig(), notifier, NewFixedClock(testNow), zap.NewNop())

	if err := svc.Clear(context.Background(), userID); err != nil {
		t.Fatalf("Clear: %v", err)
	}

	for _, slot := range []*entity.TimeSlot{slotA, slotB} {
		if stored := slots.get(slot.ID); stored.Status != entity.SlotStatusAvailable {
			t.Errorf("slot %s status = %s, want available", slot.ID, stored.Status)
		}
	}
	if cartRepo.count(userID) != 0 {
		t.Errorf("cart items left = %d, want 0", cartRepo.count(userID))
	}
	// Both slots share one field; publishes are per field, not per slot.
	if notifier.count(field.ID) != 1 {
		t.Errorf("publishes = %d, want 1", notifier.count(field.ID))
	}
}

func TestGetCartDropsStaleEntries(t *testing.T) {
	field := testField()
	userID := uuid.New()
	live := heldSlot(field.ID, userID, testNow.Add(2*time.Hour), testNow.Add(10*time.Minute))
	lapsed := heldSlot(field.ID, userID, testNow.Add(3*time.Hour), testNow.Add(-time.Minute))
	slots := newFakeTimeSlotRepo(live, lapsed)
	cartRepo := newFakeCartRepo()
	for _, slot := range []*entity.TimeSlot{live, lapsed} {
		cartRepo.Insert(context.Background(), &entity.CartItem{
			UserID: userID, TimeSlotID: slot.ID, FieldID: field.ID, Price: 100, SlotStart: slot.StartAt,
		})
	}

	repo := newTestRepo(slots, cartRepo, newFakeReservationRepo(), newFakeFieldRepo(field))
	svc := NewCartService(repo, testConfig(), &fakeNotifier{}, NewFixedClock(testNow), zap.NewNop())

	cart, err := svc.GetCart(context.Background(), userID)
	if err != nil {
		t.Fatalf("GetCart: %v", err)
	}

	if len(cart.Items) != 1 {
		t.Fatalf("cart items = %d, want 1", len(cart.Items))
	}
	if cart.Items[0].TimeSlotID != live.ID.String() {
		t.Errorf("kept item = %s, want the live hold %s", cart.Items[0].TimeSlotID, live.ID)
	}
	if cartRepo.count(userID) != 1 {
		t.Errorf("stored cart items = %d, want stale entry dropped", cartRepo.count(userID))
	}
}
