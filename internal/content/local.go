package content

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"strings"

	"hadithbot/core/logger"
	"log/slog"
)

// LocalProvider serves a collection loaded once from a JSON file bundled
// with the bot. The file holds an array of items; indexes are assigned by
// position.
type LocalProvider struct {
	items []Item
}

// LoadLocal reads and validates the collection file.
func LoadLocal(path string) (*LocalProvider, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("content: read collection: %w", err)
	}

	var raw []struct {
		Text      string `json:"text"`
		Reference string `json:"reference"`
		Category  string `json:"category"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("content: parse collection: %w", err)
	}

	items := make([]Item, 0, len(raw))
	for _, r := range raw {
		if strings.TrimSpace(r.Text) == "" {
			continue
		}
		items = append(items, Item{
			Index:     len(items),
			Text:      r.Text,
			Reference: r.Reference,
			Category:  r.Category,
		})
	}

	logger.CONTENT.Info("collection loaded",
		slog.String("event", "load"),
		slog.String("source", "local"),
		slog.Int("count", len(items)),
	)
	return &LocalProvider{items: items}, nil
}

// NewLocal wraps an already built item slice, mainly for tests.
func NewLocal(items []Item) *LocalProvider {
	return &LocalProvider{items: items}
}

// ByIndex returns the item at i modulo the collection length.
func (p *LocalProvider) ByIndex(_ context.Context, i int) (Item, error) {
	if len(p.items) == 0 {
		return Item{}, ErrEmpty
	}
	if i < 0 {
		i = 0
	}
	return p.items[i%len(p.items)], nil
}

// Random returns a uniformly random item.
func (p *LocalProvider) Random(_ context.Context) (Item, error) {
	if len(p.items) == 0 {
		return Item{}, ErrEmpty
	}
	return p.items[rand.Intn(len(p.items))], nil
}

// Search scans items in index order and returns the first whose text or
// category contains the query, case-insensitively.
func (p *LocalProvider) Search(_ context.Context, query string) (Item, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return Item{}, ErrNotFound
	}
	for _, it := range p.items {
		if matchesQuery(it, q) {
			return it, nil
		}
	}
	return Item{}, ErrNotFound
}

// Len reports the collection size.
func (p *LocalProvider) Len() int {
	return len(p.items)
}

// matchesQuery expects q to be lowercased already.
func matchesQuery(it Item, q string) bool {
	if strings.Contains(strings.ToLower(it.Text), q) {
		return true
	}
	return it.Category != "" && strings.Contains(strings.ToLower(it.Category), q)
}
