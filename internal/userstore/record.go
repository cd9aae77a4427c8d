// Package userstore keeps per-user bot state: the daily delivery slot,
// rotation position, favorites, reminders and language preference.
//
// All mutations go through Store.Update, which persists the whole record
// set before committing the change in memory. Records are created lazily
// and never deleted.
package userstore

import "errors"

var (
	// ErrFavoriteNotFound reports a favorite id absent from the user's list.
	ErrFavoriteNotFound = errors.New("userstore: favorite not found")
	// ErrReminderNotFound reports a reminder slot absent from the user's list.
	ErrReminderNotFound = errors.New("userstore: reminder not found")
	// ErrReminderExists reports a duplicate reminder time on add.
	ErrReminderExists = errors.New("userstore: reminder already exists")
)

// ItemRef is a content snapshot small enough to store per user. It is what
// /fav persists and what favorites display.
type ItemRef struct {
	Index     int    `json:"index"`
	Text      string `json:"text"`
	Reference string `json:"reference"`
}

// Favorite is a saved item with a per-user incrementing id. Ids are never
// reused within a user, so removal cannot shift later ids.
type Favorite struct {
	ID   int     `json:"id"`
	Item ItemRef `json:"item"`
}

// Reminder is a personal daily slot that delivers a random item.
type Reminder struct {
	Time  string `json:"time"`
	Label string `json:"label,omitempty"`
}

// Record is the full persisted state of one user.
type Record struct {
	// DailyTime is the "HH:MM" daily delivery slot; nil means disabled.
	DailyTime *string `json:"daily_time,omitempty"`
	// RotationIndex is the next collection index to deliver.
	RotationIndex int `json:"rotation_index"`
	// NextFavID is the id the next favorite will receive.
	NextFavID int `json:"next_fav_id"`
	// Favorites in insertion order.
	Favorites []Favorite `json:"favorites,omitempty"`
	// Language is the interface locale code.
	Language string `json:"language,omitempty"`
	// LastItem is the most recently shown item, the target of /fav.
	LastItem *ItemRef `json:"last_item,omitempty"`
	// LastDeliveredDate guards against double daily delivery ("2006-01-02").
	LastDeliveredDate string `json:"last_delivered_date,omitempty"`
	// Reminders in insertion order.
	Reminders []Reminder `json:"reminders,omitempty"`
}

// NewRecord returns the default state assigned on first interaction.
func NewRecord(language string) *Record {
	return &Record{
		NextFavID: 1,
		Language:  language,
	}
}

// Clone deep-copies the record so callers can mutate without touching the
// committed state.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	cp := *r
	if r.DailyTime != nil {
		t := *r.DailyTime
		cp.DailyTime = &t
	}
	if r.LastItem != nil {
		it := *r.LastItem
		cp.LastItem = &it
	}
	if len(r.Favorites) > 0 {
		cp.Favorites = make([]Favorite, len(r.Favorites))
		copy(cp.Favorites, r.Favorites)
	}
	if len(r.Reminders) > 0 {
		cp.Reminders = make([]Reminder, len(r.Reminders))
		copy(cp.Reminders, r.Reminders)
	}
	return &cp
}
