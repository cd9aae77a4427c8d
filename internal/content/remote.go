package content

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strings"
	"sync"
	"time"

	"hadithbot/core/logger"
	"log/slog"
)

const remoteFetchTimeout = 10 * time.Second

// RemoteProvider serves hadiths from the fawazahmed0 hadith CDN. Sections
// are fetched lazily and cached for the process lifetime so sequential
// rotation resolves to the same item for the same index.
type RemoteProvider struct {
	client   *http.Client
	base     string
	edition  string
	sections int

	mu    sync.Mutex
	cache map[int][]Item
}

// RemoteOptions configure the CDN provider.
type RemoteOptions struct {
	// Base is the CDN root, e.g. "https://cdn.jsdelivr.net/gh/fawazahmed0/hadith-api@1".
	Base string
	// Edition selects the collection, e.g. "eng-bukhari".
	Edition string
	// Sections is the number of numbered section files the edition exposes.
	Sections int
	// Client is optional; a default client with a timeout is used otherwise.
	Client *http.Client
}

// NewRemote builds a CDN-backed provider.
func NewRemote(opts RemoteOptions) *RemoteProvider {
	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: remoteFetchTimeout}
	}
	sections := opts.Sections
	if sections <= 0 {
		sections = 1
	}
	return &RemoteProvider{
		client:   client,
		base:     strings.TrimRight(opts.Base, "/"),
		edition:  opts.Edition,
		sections: sections,
		cache:    make(map[int][]Item),
	}
}

type sectionPayload struct {
	Hadiths []struct {
		HadithNumber json.Number `json:"hadithnumber"`
		Text         string      `json:"text"`
		Reference    struct {
			Book json.Number `json:"book"`
		} `json:"reference"`
	} `json:"hadiths"`
}

// fetchSection returns all items of a numbered section, consulting the
// cache first. Section numbers are 1-based.
func (p *RemoteProvider) fetchSection(ctx context.Context, section int) ([]Item, error) {
	p.mu.Lock()
	if items, ok := p.cache[section]; ok {
		p.mu.Unlock()
		return items, nil
	}
	p.mu.Unlock()

	url := fmt.Sprintf("%s/editions/%s/sections/%d.json", p.base, p.edition, section)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("content: build section request: %w", err)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("content: fetch section %d: %w", section, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("content: fetch section %d: status %s", section, resp.Status)
	}

	var payload sectionPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("content: decode section %d: %w", section, err)
	}

	items := make([]Item, 0, len(payload.Hadiths))
	for _, h := range payload.Hadiths {
		if strings.TrimSpace(h.Text) == "" {
			continue
		}
		book := h.Reference.Book.String()
		if book == "" {
			book = fmt.Sprintf("%d", section)
		}
		num := h.HadithNumber.String()
		if num == "" {
			num = "?"
		}
		items = append(items, Item{
			Index:     section,
			Text:      h.Text,
			Reference: fmt.Sprintf("Sahih al-Bukhari, Book %s, Hadith %s", book, num),
		})
	}

	p.mu.Lock()
	p.cache[section] = items
	p.mu.Unlock()

	logger.CONTENT.Debug("section cached",
		slog.String("event", "fetch"),
		slog.Int("section", section),
		slog.Int("count", len(items)),
	)
	return items, nil
}

// ByIndex maps a rotation index onto a section and an offset inside it.
// Network failures degrade to the fallback item so delivery never stops.
func (p *RemoteProvider) ByIndex(ctx context.Context, i int) (Item, error) {
	if i < 0 {
		i = 0
	}
	section := (i % p.sections) + 1
	items, err := p.fetchSection(ctx, section)
	if err != nil || len(items) == 0 {
		p.logDegrade("by_index", section, err)
		return Fallback(), nil
	}
	it := items[i%len(items)]
	it.Index = i
	return it, nil
}

// Random picks a random item from a random section.
func (p *RemoteProvider) Random(ctx context.Context) (Item, error) {
	section := rand.Intn(p.sections) + 1
	items, err := p.fetchSection(ctx, section)
	if err != nil || len(items) == 0 {
		p.logDegrade("random", section, err)
		return Fallback(), nil
	}
	return items[rand.Intn(len(items))], nil
}

// Search walks sections in ascending order and returns the first item
// containing the query. Unreachable sections are skipped.
func (p *RemoteProvider) Search(ctx context.Context, query string) (Item, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return Item{}, ErrNotFound
	}
	for section := 1; section <= p.sections; section++ {
		items, err := p.fetchSection(ctx, section)
		if err != nil {
			p.logDegrade("search", section, err)
			continue
		}
		for _, it := range items {
			if matchesQuery(it, q) {
				return it, nil
			}
		}
	}
	return Item{}, ErrNotFound
}

// Len reports the rotation cycle length, which for the CDN provider is
// the number of sections.
func (p *RemoteProvider) Len() int {
	return p.sections
}

func (p *RemoteProvider) logDegrade(op string, section int, err error) {
	attrs := []slog.Attr{
		slog.String("event", "degrade"),
		slog.String("op", op),
		slog.Int("section", section),
	}
	if err != nil {
		attrs = append(attrs, slog.String("err", err.Error()))
	}
	logger.CONTENT.LogAttrs(context.Background(), slog.LevelWarn, "section unavailable", attrs...)
}
