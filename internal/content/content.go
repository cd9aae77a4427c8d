// Package content provides the hadith collection behind a single provider
// interface. Items are immutable and addressed by a stable integer index so
// per-user rotation stays deterministic across restarts.
package content

import (
	"context"
	"errors"
)

// Item is a single piece of content. Index is stable for the lifetime of
// the collection and drives sequential rotation.
type Item struct {
	Index     int    `json:"index"`
	Text      string `json:"text"`
	Reference string `json:"reference"`
	Category  string `json:"category,omitempty"`
}

var (
	// ErrNotFound reports that no item matched a lookup query.
	ErrNotFound = errors.New("content: no matching item")
	// ErrEmpty reports an empty collection; callers treat it as an
	// operational error, never a user-facing one.
	ErrEmpty = errors.New("content: empty collection")
)

// Provider is the read-only collection contract shared by the local and
// remote backends.
type Provider interface {
	// ByIndex returns the item at index i. Implementations may reduce i
	// modulo their length so callers can pass a monotonically growing
	// rotation index.
	ByIndex(ctx context.Context, i int) (Item, error)
	// Random returns a uniformly random item.
	Random(ctx context.Context) (Item, error)
	// Search returns the first item, in index order, whose text or
	// category contains the query case-insensitively. ErrNotFound when
	// nothing matches.
	Search(ctx context.Context, query string) (Item, error)
	// Len reports the rotation cycle length.
	Len() int
}

// Fallback is the item served when the remote source is unreachable.
// Delivery degrades to it rather than failing.
func Fallback() Item {
	return Item{
		Index:     0,
		Text:      "Actions are judged by intentions, so each man will have what he intended.",
		Reference: "Sahih al-Bukhari, Hadith 1",
	}
}
