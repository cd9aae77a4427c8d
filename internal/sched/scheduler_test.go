package sched

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"hadithbot/internal/content"
	"hadithbot/internal/userstore"
)

type memBackend struct {
	records map[int64]*userstore.Record
}

func (b *memBackend) Load() (map[int64]*userstore.Record, error) {
	if b.records == nil {
		b.records = map[int64]*userstore.Record{}
	}
	return b.records, nil
}

func (b *memBackend) Save(records map[int64]*userstore.Record) error {
	b.records = records
	return nil
}

type fakeSender struct {
	daily     map[int64][]content.Item
	reminders map[int64][]content.Item
	failFor   map[int64]bool
}

func newFakeSender() *fakeSender {
	return &fakeSender{
		daily:     map[int64][]content.Item{},
		reminders: map[int64][]content.Item{},
		failFor:   map[int64]bool{},
	}
}

func (f *fakeSender) SendDaily(_ context.Context, userID int64, item content.Item) error {
	if f.failFor[userID] {
		return errors.New("telegram unreachable")
	}
	f.daily[userID] = append(f.daily[userID], item)
	return nil
}

func (f *fakeSender) SendReminder(_ context.Context, userID int64, item content.Item, _ userstore.Reminder) error {
	if f.failFor[userID] {
		return errors.New("telegram unreachable")
	}
	f.reminders[userID] = append(f.reminders[userID], item)
	return nil
}

func testProvider() content.Provider {
	return content.NewLocal([]content.Item{
		{Index: 0, Text: "A", Reference: "ref-A"},
		{Index: 1, Text: "B", Reference: "ref-B"},
		{Index: 2, Text: "C", Reference: "ref-C"},
	})
}

func testStore(t *testing.T) *userstore.Store {
	t.Helper()
	s, err := userstore.New(&memBackend{}, "en")
	if err != nil {
		t.Fatalf("userstore.New: %v", err)
	}
	return s
}

func at(t *testing.T, day int, clock string) time.Time {
	t.Helper()
	ts, err := time.Parse("2006-01-02 15:04", fmt.Sprintf("2026-03-%02d %s", day, clock))
	if err != nil {
		t.Fatal(err)
	}
	return ts
}

func TestDailyRotationVisitsCollectionInOrder(t *testing.T) {
	store := testStore(t)
	sender := newFakeSender()
	sch := New(store, testProvider(), sender, time.UTC)

	if err := store.SetDailyTime(1, "08:30"); err != nil {
		t.Fatal(err)
	}

	wantTexts := []string{"A", "B", "C", "A"}
	wantRotation := []int{1, 2, 0, 1}
	for day := 1; day <= 4; day++ {
		sch.runPass(at(t, day, "08:30"))

		got := sender.daily[1]
		if len(got) != day {
			t.Fatalf("day %d: %d deliveries, want %d", day, len(got), day)
		}
		if got[day-1].Text != wantTexts[day-1] {
			t.Errorf("day %d delivered %q, want %q", day, got[day-1].Text, wantTexts[day-1])
		}
		if rec := store.Get(1); rec.RotationIndex != wantRotation[day-1] {
			t.Errorf("day %d rotation = %d, want %d", day, rec.RotationIndex, wantRotation[day-1])
		}
	}

	if got := sch.Deliveries(); got != 4 {
		t.Errorf("delivery counter = %d, want 4", got)
	}
}

func TestSameDayRefireSuppressed(t *testing.T) {
	store := testStore(t)
	sender := newFakeSender()
	sch := New(store, testProvider(), sender, time.UTC)

	if err := store.SetDailyTime(1, "08:30"); err != nil {
		t.Fatal(err)
	}

	sch.runPass(at(t, 1, "08:30"))
	sch.runPass(at(t, 1, "08:30"))

	if got := len(sender.daily[1]); got != 1 {
		t.Errorf("same-minute re-fire delivered %d times, want 1", got)
	}

	rec := store.Get(1)
	if rec.LastDeliveredDate != "2026-03-01" {
		t.Errorf("stored guard date = %q", rec.LastDeliveredDate)
	}
	if rec.LastItem == nil || rec.LastItem.Text != "A" {
		t.Errorf("last item not recorded: %+v", rec.LastItem)
	}
}

func TestMissedMinuteIsNotRedelivered(t *testing.T) {
	store := testStore(t)
	sender := newFakeSender()
	sch := New(store, testProvider(), sender, time.UTC)

	if err := store.SetDailyTime(1, "08:30"); err != nil {
		t.Fatal(err)
	}

	sch.runPass(at(t, 1, "08:31"))
	if len(sender.daily[1]) != 0 {
		t.Error("delivery fired outside the configured minute")
	}
}

func TestFailedSendLeavesUserDueNextDay(t *testing.T) {
	store := testStore(t)
	sender := newFakeSender()
	sender.failFor[1] = true
	sch := New(store, testProvider(), sender, time.UTC)

	if err := store.SetDailyTime(1, "08:30"); err != nil {
		t.Fatal(err)
	}
	if err := store.SetDailyTime(2, "08:30"); err != nil {
		t.Fatal(err)
	}

	sch.runPass(at(t, 1, "08:30"))

	// User 2 is unaffected by user 1's failure.
	if len(sender.daily[2]) != 1 {
		t.Error("failure for one user suppressed delivery for another")
	}

	// User 1's record is untouched, so the next day delivers from index 0.
	rec := store.Get(1)
	if rec.RotationIndex != 0 || rec.LastDeliveredDate != "" {
		t.Errorf("failed send mutated state: %+v", rec)
	}

	sender.failFor[1] = false
	sch.runPass(at(t, 2, "08:30"))
	if got := sender.daily[1]; len(got) != 1 || got[0].Text != "A" {
		t.Errorf("recovery delivery = %+v, want item A", got)
	}
}

func TestEmptyCollectionPassIsNoOp(t *testing.T) {
	store := testStore(t)
	sender := newFakeSender()
	sch := New(store, content.NewLocal(nil), sender, time.UTC)

	if err := store.SetDailyTime(1, "08:30"); err != nil {
		t.Fatal(err)
	}

	sch.runPass(at(t, 1, "08:30"))
	if len(sender.daily[1]) != 0 {
		t.Error("empty collection must not deliver")
	}
	if rec := store.Get(1); rec.LastDeliveredDate != "" {
		t.Error("empty collection must not mutate user state")
	}
}

func TestRemindersFireEveryDayWithoutGuard(t *testing.T) {
	store := testStore(t)
	sender := newFakeSender()
	sch := New(store, testProvider(), sender, time.UTC)

	if err := store.AddReminder(3, "07:00", "fajr"); err != nil {
		t.Fatal(err)
	}

	sch.runPass(at(t, 1, "07:00"))
	sch.runPass(at(t, 1, "07:00"))
	sch.runPass(at(t, 2, "07:00"))

	// Reminders have no per-day guard; every matching pass delivers.
	if got := len(sender.reminders[3]); got != 3 {
		t.Errorf("reminder deliveries = %d, want 3", got)
	}
	if len(sender.daily[3]) != 0 {
		t.Error("reminder must not produce a daily delivery")
	}
}

func TestDisabledDailyNeverFires(t *testing.T) {
	store := testStore(t)
	sender := newFakeSender()
	sch := New(store, testProvider(), sender, time.UTC)

	if err := store.SetDailyTime(1, "08:30"); err != nil {
		t.Fatal(err)
	}
	if err := store.ClearDailyTime(1); err != nil {
		t.Fatal(err)
	}

	sch.runPass(at(t, 1, "08:30"))
	if len(sender.daily[1]) != 0 {
		t.Error("cleared daily slot still delivered")
	}
}
