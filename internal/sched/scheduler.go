// Package sched drives time-based deliveries: the per-user daily hadith
// with sequential rotation, and personal reminder slots.
package sched

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"hadithbot/core/logger"
	"hadithbot/internal/content"
	"hadithbot/internal/userstore"
	"log/slog"
)

const (
	clockLayout = "15:04"
	dateLayout  = "2006-01-02"
)

// Sender delivers items to users. The bot implements it; rendering and
// text fallback live behind this boundary.
type Sender interface {
	SendDaily(ctx context.Context, userID int64, item content.Item) error
	SendReminder(ctx context.Context, userID int64, item content.Item, rem userstore.Reminder) error
}

// Scheduler fires one pass per minute. A pass is skipped entirely when the
// previous one is still running.
type Scheduler struct {
	store    *userstore.Store
	provider content.Provider
	sender   Sender
	loc      *time.Location

	cron   *cron.Cron
	passMu sync.Mutex

	deliveries atomic.Uint64
}

// New wires the scheduler; loc fixes the wall clock used for all slot
// comparisons.
func New(store *userstore.Store, provider content.Provider, sender Sender, loc *time.Location) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	return &Scheduler{
		store:    store,
		provider: provider,
		sender:   sender,
		loc:      loc,
	}
}

// Start registers the minute tick and launches the cron runner.
func (s *Scheduler) Start() error {
	s.cron = cron.New(cron.WithLocation(s.loc))
	if _, err := s.cron.AddFunc("* * * * *", s.tick); err != nil {
		return fmt.Errorf("sched: register tick: %w", err)
	}
	s.cron.Start()
	logger.SCHED.Info("scheduler started",
		slog.String("event", "start"),
		slog.String("tz", s.loc.String()),
	)
	return nil
}

// Stop halts the cron runner and waits for a running pass to finish.
func (s *Scheduler) Stop() {
	if s.cron == nil {
		return
	}
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.SCHED.Info("scheduler stopped",
		slog.String("event", "stop"),
		slog.Uint64("deliveries", s.deliveries.Load()),
	)
}

func (s *Scheduler) tick() {
	if !s.passMu.TryLock() {
		logger.SCHED.Warn("pass still running, tick skipped",
			slog.String("event", "tick.skip"),
		)
		return
	}
	defer s.passMu.Unlock()
	s.runPass(time.Now().In(s.loc))
}

// runPass delivers to every user due at the given instant. Failures are
// isolated per user; the pass always visits everyone.
func (s *Scheduler) runPass(now time.Time) {
	nowClock := now.Format(clockLayout)
	today := now.Format(dateLayout)

	if s.provider.Len() == 0 {
		logger.SCHED.Error("empty collection, pass skipped",
			slog.String("event", "pass.empty"),
		)
		return
	}

	snapshot := s.store.Snapshot()
	ids := make([]int64, 0, len(snapshot))
	for id := range snapshot {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		rec := snapshot[id]

		if rec.DailyTime != nil && *rec.DailyTime == nowClock && rec.LastDeliveredDate != today {
			if err := s.deliverDaily(id, rec, today); err != nil {
				logger.SCHED.Error("daily delivery failed",
					slog.String("event", "daily.fail"),
					slog.Int64("user_id", id),
					slog.String("err", err.Error()),
				)
			}
		}

		for _, rem := range rec.Reminders {
			if rem.Time != nowClock {
				continue
			}
			if err := s.deliverReminder(id, rem); err != nil {
				logger.SCHED.Error("reminder delivery failed",
					slog.String("event", "reminder.fail"),
					slog.Int64("user_id", id),
					slog.String("err", err.Error()),
				)
			}
		}
	}
}

// deliverDaily sends the item at the user's rotation position and then
// advances the rotation, records the item and stamps the day in a single
// persisted mutation. A failed send leaves the record untouched.
func (s *Scheduler) deliverDaily(id int64, rec *userstore.Record, today string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	length := s.provider.Len()
	idx := rec.RotationIndex % length
	if idx < 0 {
		idx = 0
	}

	item, err := s.provider.ByIndex(ctx, idx)
	if err != nil {
		return fmt.Errorf("item at %d: %w", idx, err)
	}

	if err := s.sender.SendDaily(ctx, id, item); err != nil {
		return fmt.Errorf("send: %w", err)
	}
	s.deliveries.Add(1)

	next := (idx + 1) % length
	err = s.store.Update(id, func(r *userstore.Record) error {
		r.RotationIndex = next
		r.LastItem = &userstore.ItemRef{Index: item.Index, Text: item.Text, Reference: item.Reference}
		r.LastDeliveredDate = today
		return nil
	})
	if err != nil {
		return fmt.Errorf("commit rotation: %w", err)
	}

	logger.SCHED.Info("daily delivered",
		slog.String("event", "daily.sent"),
		slog.Int64("user_id", id),
		slog.Int("rotation", next),
		slog.String("content_ref", item.Reference),
	)
	return nil
}

// deliverReminder sends a random item; reminders carry no per-day guard
// and no rotation state.
func (s *Scheduler) deliverReminder(id int64, rem userstore.Reminder) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	item, err := s.provider.Random(ctx)
	if err != nil {
		return fmt.Errorf("random item: %w", err)
	}
	if err := s.sender.SendReminder(ctx, id, item, rem); err != nil {
		return fmt.Errorf("send: %w", err)
	}
	s.deliveries.Add(1)
	return nil
}

// Deliveries reports how many messages this process has sent on schedule.
func (s *Scheduler) Deliveries() uint64 {
	return s.deliveries.Load()
}
