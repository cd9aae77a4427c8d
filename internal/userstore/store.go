package userstore

import (
	"errors"
	"fmt"
	"sync"

	"hadithbot/core/logger"
	"log/slog"
)

// errNoChange signals from a mutation closure that nothing was modified,
// so the store skips persisting.
var errNoChange = errors.New("userstore: no change")

// Store is the in-memory record set with write-through persistence. A
// single mutex guards every read-modify-write-persist cycle; the bot is a
// single process, so contention is negligible.
type Store struct {
	mu      sync.Mutex
	backend Backend
	records map[int64]*Record

	defaultLanguage string
}

// New loads the full record set from the backend.
func New(backend Backend, defaultLanguage string) (*Store, error) {
	records, err := backend.Load()
	if err != nil {
		return nil, fmt.Errorf("userstore: load: %w", err)
	}
	logger.STORE.Info("store loaded",
		slog.String("event", "load"),
		slog.Int("count", len(records)),
	)
	return &Store{
		backend:         backend,
		records:         records,
		defaultLanguage: defaultLanguage,
	}, nil
}

// Get returns a copy of the user's record, falling back to the default
// state for unknown users. The default is not persisted until the first
// mutation.
func (s *Store) Get(id int64) *Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec, ok := s.records[id]; ok {
		return rec.Clone()
	}
	return NewRecord(s.defaultLanguage)
}

// Update runs fn against a copy of the record, persists the whole set and
// only then commits the copy to memory. When persistence fails the
// in-memory state is unchanged and the error is returned to the caller.
func (s *Store) Update(id int64, fn func(*Record) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	base, ok := s.records[id]
	if !ok {
		base = NewRecord(s.defaultLanguage)
	}
	work := base.Clone()
	if err := fn(work); err != nil {
		if errors.Is(err, errNoChange) {
			return nil
		}
		return err
	}

	candidate := make(map[int64]*Record, len(s.records)+1)
	for uid, rec := range s.records {
		candidate[uid] = rec
	}
	candidate[id] = work

	if err := s.backend.Save(candidate); err != nil {
		logger.STORE.Error("persist failed",
			slog.String("event", "save"),
			slog.Int64("user_id", id),
			slog.String("err", err.Error()),
		)
		return fmt.Errorf("userstore: persist: %w", err)
	}
	s.records = candidate
	return nil
}

// Snapshot deep-copies the whole record set for scheduler passes and
// stats. Mutating the result does not touch the store.
func (s *Store) Snapshot() map[int64]*Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[int64]*Record, len(s.records))
	for id, rec := range s.records {
		out[id] = rec.Clone()
	}
	return out
}

// Count reports the number of known users.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// SetLanguage stores the user's interface locale.
func (s *Store) SetLanguage(id int64, code string) error {
	return s.Update(id, func(r *Record) error {
		r.Language = code
		return nil
	})
}

// SetDailyTime sets the daily delivery slot; t must already be normalized
// to "HH:MM".
func (s *Store) SetDailyTime(id int64, t string) error {
	return s.Update(id, func(r *Record) error {
		r.DailyTime = &t
		return nil
	})
}

// ClearDailyTime disables daily delivery. Rotation position and favorites
// are left untouched.
func (s *Store) ClearDailyTime(id int64) error {
	return s.Update(id, func(r *Record) error {
		r.DailyTime = nil
		return nil
	})
}

// SetLastItem remembers the most recently shown item for /fav.
func (s *Store) SetLastItem(id int64, ref ItemRef) error {
	return s.Update(id, func(r *Record) error {
		r.LastItem = &ref
		return nil
	})
}

// AddFavorite appends the item unless an entry with the same content
// reference already exists. The boolean reports whether the list grew.
func (s *Store) AddFavorite(id int64, ref ItemRef) (bool, error) {
	added := false
	err := s.Update(id, func(r *Record) error {
		for _, fav := range r.Favorites {
			if fav.Item.Reference == ref.Reference {
				return errNoChange
			}
		}
		if r.NextFavID <= 0 {
			r.NextFavID = 1
		}
		r.Favorites = append(r.Favorites, Favorite{ID: r.NextFavID, Item: ref})
		r.NextFavID++
		added = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return added, nil
}

// Favorites returns the user's saved items in insertion order.
func (s *Store) Favorites(id int64) []Favorite {
	return s.Get(id).Favorites
}

// RemoveFavorite deletes the favorite with the given id.
// ErrFavoriteNotFound when no such id exists, including a repeated removal.
func (s *Store) RemoveFavorite(id int64, favID int) error {
	return s.Update(id, func(r *Record) error {
		for i, fav := range r.Favorites {
			if fav.ID == favID {
				r.Favorites = append(r.Favorites[:i], r.Favorites[i+1:]...)
				return nil
			}
		}
		return ErrFavoriteNotFound
	})
}

// AddReminder registers a personal daily slot; duplicate times are
// rejected with ErrReminderExists.
func (s *Store) AddReminder(id int64, t, label string) error {
	return s.Update(id, func(r *Record) error {
		for _, rem := range r.Reminders {
			if rem.Time == t {
				return ErrReminderExists
			}
		}
		r.Reminders = append(r.Reminders, Reminder{Time: t, Label: label})
		return nil
	})
}

// Reminders returns the user's reminder slots in insertion order.
func (s *Store) Reminders(id int64) []Reminder {
	return s.Get(id).Reminders
}

// RemoveReminder deletes the reminder at 1-based position n.
func (s *Store) RemoveReminder(id int64, n int) error {
	return s.Update(id, func(r *Record) error {
		if n < 1 || n > len(r.Reminders) {
			return ErrReminderNotFound
		}
		r.Reminders = append(r.Reminders[:n-1], r.Reminders[n:]...)
		return nil
	})
}

// ClearReminders removes all reminder slots and reports how many there were.
func (s *Store) ClearReminders(id int64) (int, error) {
	removed := 0
	err := s.Update(id, func(r *Record) error {
		removed = len(r.Reminders)
		if removed == 0 {
			return errNoChange
		}
		r.Reminders = nil
		return nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}
