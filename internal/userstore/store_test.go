package userstore

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

type memBackend struct {
	records map[int64]*Record
	saves   int
	failing bool
}

func newMemBackend() *memBackend {
	return &memBackend{records: map[int64]*Record{}}
}

func (b *memBackend) Load() (map[int64]*Record, error) {
	out := make(map[int64]*Record, len(b.records))
	for id, rec := range b.records {
		out[id] = rec.Clone()
	}
	return out, nil
}

func (b *memBackend) Save(records map[int64]*Record) error {
	b.saves++
	if b.failing {
		return errors.New("disk full")
	}
	out := make(map[int64]*Record, len(records))
	for id, rec := range records {
		out[id] = rec.Clone()
	}
	b.records = out
	return nil
}

func newTestStore(t *testing.T) (*Store, *memBackend) {
	t.Helper()
	backend := newMemBackend()
	s, err := New(backend, "en")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s, backend
}

func TestGetUnknownUserHasDefaults(t *testing.T) {
	s, backend := newTestStore(t)

	rec := s.Get(42)
	if rec.Language != "en" || rec.DailyTime != nil || rec.NextFavID != 1 {
		t.Errorf("unexpected default record: %+v", rec)
	}
	if backend.saves != 0 {
		t.Errorf("Get must not persist, saves = %d", backend.saves)
	}
}

func TestUpdatePersistFailureLeavesMemoryUnchanged(t *testing.T) {
	s, backend := newTestStore(t)
	if err := s.SetLanguage(7, "tr"); err != nil {
		t.Fatalf("SetLanguage: %v", err)
	}

	backend.failing = true
	err := s.SetDailyTime(7, "08:30")
	if err == nil {
		t.Fatal("expected persist error")
	}
	if rec := s.Get(7); rec.DailyTime != nil {
		t.Errorf("failed update leaked into memory: %+v", rec)
	}
	if rec := s.Get(7); rec.Language != "tr" {
		t.Errorf("earlier committed state lost: %+v", rec)
	}
}

func TestAddFavoriteDedupes(t *testing.T) {
	s, _ := newTestStore(t)
	ref := ItemRef{Index: 3, Text: "…", Reference: "Bukhari 52"}

	added, err := s.AddFavorite(1, ref)
	if err != nil || !added {
		t.Fatalf("first add: added=%v err=%v", added, err)
	}
	added, err = s.AddFavorite(1, ref)
	if err != nil {
		t.Fatalf("duplicate add: %v", err)
	}
	if added {
		t.Error("duplicate add reported as added")
	}
	if favs := s.Favorites(1); len(favs) != 1 {
		t.Errorf("favorites length = %d, want 1", len(favs))
	}
}

func TestFavoriteIDsDoNotShiftAfterRemoval(t *testing.T) {
	s, _ := newTestStore(t)
	for i, ref := range []string{"a", "b", "c"} {
		if _, err := s.AddFavorite(1, ItemRef{Index: i, Reference: ref}); err != nil {
			t.Fatalf("add %q: %v", ref, err)
		}
	}
	if err := s.RemoveFavorite(1, 2); err != nil {
		t.Fatalf("remove: %v", err)
	}

	favs := s.Favorites(1)
	if len(favs) != 2 || favs[0].ID != 1 || favs[1].ID != 3 {
		t.Errorf("unexpected favorites after removal: %+v", favs)
	}

	// New additions continue the id sequence.
	if _, err := s.AddFavorite(1, ItemRef{Index: 9, Reference: "d"}); err != nil {
		t.Fatalf("add after remove: %v", err)
	}
	favs = s.Favorites(1)
	if favs[len(favs)-1].ID != 4 {
		t.Errorf("new favorite id = %d, want 4", favs[len(favs)-1].ID)
	}
}

func TestRemoveFavoriteTwiceIsNotFound(t *testing.T) {
	s, _ := newTestStore(t)
	if _, err := s.AddFavorite(1, ItemRef{Reference: "x"}); err != nil {
		t.Fatal(err)
	}
	if err := s.RemoveFavorite(1, 1); err != nil {
		t.Fatalf("first remove: %v", err)
	}
	if err := s.RemoveFavorite(1, 1); !errors.Is(err, ErrFavoriteNotFound) {
		t.Fatalf("second remove: got %v, want ErrFavoriteNotFound", err)
	}
}

func TestReminders(t *testing.T) {
	s, _ := newTestStore(t)
	if err := s.AddReminder(5, "07:00", "fajr"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := s.AddReminder(5, "07:00", ""); !errors.Is(err, ErrReminderExists) {
		t.Fatalf("duplicate: got %v, want ErrReminderExists", err)
	}
	if err := s.AddReminder(5, "21:30", ""); err != nil {
		t.Fatalf("add second: %v", err)
	}

	if err := s.RemoveReminder(5, 1); err != nil {
		t.Fatalf("remove: %v", err)
	}
	rems := s.Reminders(5)
	if len(rems) != 1 || rems[0].Time != "21:30" {
		t.Errorf("unexpected reminders: %+v", rems)
	}

	if err := s.RemoveReminder(5, 3); !errors.Is(err, ErrReminderNotFound) {
		t.Fatalf("out of range: got %v, want ErrReminderNotFound", err)
	}

	n, err := s.ClearReminders(5)
	if err != nil || n != 1 {
		t.Fatalf("clear: n=%d err=%v", n, err)
	}
}

func TestClearDailyTimeKeepsRotationAndFavorites(t *testing.T) {
	s, _ := newTestStore(t)
	if err := s.SetDailyTime(2, "08:30"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.AddFavorite(2, ItemRef{Reference: "keep"}); err != nil {
		t.Fatal(err)
	}
	if err := s.Update(2, func(r *Record) error { r.RotationIndex = 7; return nil }); err != nil {
		t.Fatal(err)
	}

	if err := s.ClearDailyTime(2); err != nil {
		t.Fatal(err)
	}
	rec := s.Get(2)
	if rec.DailyTime != nil {
		t.Error("daily time not cleared")
	}
	if rec.RotationIndex != 7 || len(rec.Favorites) != 1 {
		t.Errorf("clearing daily time disturbed other state: %+v", rec)
	}
}

func TestJSONBackendRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "user_data.json")
	backend := NewJSONBackend(path)

	daily := "08:30"
	in := map[int64]*Record{
		10: {
			DailyTime:         &daily,
			RotationIndex:     2,
			NextFavID:         3,
			Favorites:         []Favorite{{ID: 1, Item: ItemRef{Index: 0, Text: "t", Reference: "r"}}},
			Language:          "ru",
			LastItem:          &ItemRef{Index: 1, Text: "x", Reference: "y"},
			LastDeliveredDate: "2026-08-30",
			Reminders:         []Reminder{{Time: "07:00", Label: "fajr"}},
		},
		11: NewRecord("en"),
	}
	if err := backend.Save(in); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := backend.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	first, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	// save(load()) leaves the stored representation unchanged.
	if err := backend.Save(loaded); err != nil {
		t.Fatalf("second Save: %v", err)
	}
	second, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(first) != string(second) {
		t.Error("save(load()) changed the stored representation")
	}

	rec := loaded[10]
	if rec == nil || rec.DailyTime == nil || *rec.DailyTime != "08:30" || rec.LastDeliveredDate != "2026-08-30" {
		t.Errorf("round-trip lost fields: %+v", rec)
	}
}

func TestJSONBackendMissingFile(t *testing.T) {
	backend := NewJSONBackend(filepath.Join(t.TempDir(), "absent.json"))
	records, err := backend.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("expected empty set, got %d records", len(records))
	}
}
