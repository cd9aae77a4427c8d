package content

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"hadithbot/core/logger"
	"log/slog"
)

// The Quran has 6236 ayahs; the alquran.cloud API addresses them by a
// global 1-based number.
const quranAyahCount = 6236

const quranFetchTimeout = 10 * time.Second

// QuranProvider serves ayahs from the alquran.cloud API, pairing the
// Arabic text with a translation edition. Fetched ayahs are cached by
// global number so sequential rotation resolves to the same item for
// the same index.
type QuranProvider struct {
	client      *http.Client
	base        string
	arabic      string
	translation string

	mu    sync.Mutex
	cache map[int]Item
}

// QuranOptions configure the ayah provider.
type QuranOptions struct {
	// Base is the API root, e.g. "http://api.alquran.cloud/v1".
	Base string
	// Translation selects the translation edition, e.g. "ru.kuliev".
	Translation string
	// Client is optional; a default client with a timeout is used otherwise.
	Client *http.Client
}

// NewQuran builds an alquran.cloud-backed provider.
func NewQuran(opts QuranOptions) *QuranProvider {
	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: quranFetchTimeout}
	}
	translation := opts.Translation
	if translation == "" {
		translation = "ru.kuliev"
	}
	return &QuranProvider{
		client:      client,
		base:        strings.TrimRight(opts.Base, "/"),
		arabic:      "quran-uthmani",
		translation: translation,
		cache:       make(map[int]Item),
	}
}

type ayahEdition struct {
	Number        int    `json:"number"`
	NumberInSurah int    `json:"numberInSurah"`
	Text          string `json:"text"`
	Surah         struct {
		Number      int    `json:"number"`
		EnglishName string `json:"englishName"`
	} `json:"surah"`
}

type ayahPayload struct {
	Code int           `json:"code"`
	Data []ayahEdition `json:"data"`
}

type searchPayload struct {
	Code int `json:"code"`
	Data struct {
		Matches []ayahEdition `json:"matches"`
	} `json:"data"`
}

// quranFallback is the ayah served when the API is unreachable,
// Al-Fatiha 1:1 like the hadith fallback keeps delivery alive.
func quranFallback() Item {
	return Item{
		Index:     0,
		Text:      "بِسْمِ ٱللَّهِ ٱلرَّحْمَـٰنِ ٱلرَّحِيمِ",
		Reference: "Al-Fatiha 1:1",
		Category:  "quran",
	}
}

func (p *QuranProvider) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.base+path, nil)
	if err != nil {
		return fmt.Errorf("content: build ayah request: %w", err)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("content: fetch %s: %w", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("content: fetch %s: status %s", path, resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("content: decode %s: %w", path, err)
	}
	return nil
}

// fetchAyah resolves one ayah reference ("121" or "2:255" or "random")
// in both editions and folds the pair into an Item.
func (p *QuranProvider) fetchAyah(ctx context.Context, ref string) (Item, error) {
	path := fmt.Sprintf("/ayah/%s/editions/%s,%s", ref, p.arabic, p.translation)
	var payload ayahPayload
	if err := p.getJSON(ctx, path, &payload); err != nil {
		return Item{}, err
	}
	if payload.Code != http.StatusOK || len(payload.Data) < 2 {
		return Item{}, fmt.Errorf("content: ayah %s: unexpected payload code %d", ref, payload.Code)
	}
	arabic, translated := payload.Data[0], payload.Data[1]
	return Item{
		Index:     arabic.Number - 1,
		Text:      arabic.Text + "\n\n" + translated.Text,
		Reference: fmt.Sprintf("%s %d:%d", arabic.Surah.EnglishName, arabic.Surah.Number, arabic.NumberInSurah),
		Category:  "quran",
	}, nil
}

// ByIndex maps a rotation index onto a global ayah number. Network
// failures degrade to the fallback ayah so delivery never stops.
func (p *QuranProvider) ByIndex(ctx context.Context, i int) (Item, error) {
	if i < 0 {
		i = 0
	}
	number := (i % quranAyahCount) + 1

	p.mu.Lock()
	if it, ok := p.cache[number]; ok {
		p.mu.Unlock()
		it.Index = i
		return it, nil
	}
	p.mu.Unlock()

	it, err := p.fetchAyah(ctx, fmt.Sprintf("%d", number))
	if err != nil {
		p.logDegrade("by_index", number, err)
		return quranFallback(), nil
	}

	p.mu.Lock()
	p.cache[number] = it
	p.mu.Unlock()

	it.Index = i
	return it, nil
}

// Random asks the API for a random ayah; a failure degrades to the
// fallback ayah.
func (p *QuranProvider) Random(ctx context.Context) (Item, error) {
	it, err := p.fetchAyah(ctx, "random")
	if err != nil {
		p.logDegrade("random", 0, err)
		return quranFallback(), nil
	}
	return it, nil
}

// Search uses the API's keyword search over the translation edition and
// returns the match with the lowest global ayah number.
func (p *QuranProvider) Search(ctx context.Context, query string) (Item, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return Item{}, ErrNotFound
	}
	path := fmt.Sprintf("/search/%s/all/%s", url.PathEscape(q), p.translation)
	var payload searchPayload
	if err := p.getJSON(ctx, path, &payload); err != nil {
		p.logDegrade("search", 0, err)
		return Item{}, ErrNotFound
	}
	if payload.Code != http.StatusOK || len(payload.Data.Matches) == 0 {
		return Item{}, ErrNotFound
	}

	best := payload.Data.Matches[0]
	for _, m := range payload.Data.Matches[1:] {
		if m.Number < best.Number {
			best = m
		}
	}
	// The search endpoint returns translation text only; refetch the
	// ayah so the reply carries the Arabic as well.
	it, err := p.fetchAyah(ctx, fmt.Sprintf("%d", best.Number))
	if err != nil {
		return Item{
			Index:     best.Number - 1,
			Text:      best.Text,
			Reference: fmt.Sprintf("%s %d:%d", best.Surah.EnglishName, best.Surah.Number, best.NumberInSurah),
			Category:  "quran",
		}, nil
	}
	return it, nil
}

// Len reports the rotation cycle length, the total number of ayahs.
func (p *QuranProvider) Len() int {
	return quranAyahCount
}

func (p *QuranProvider) logDegrade(op string, number int, err error) {
	attrs := []slog.Attr{
		slog.String("event", "degrade"),
		slog.String("op", op),
	}
	if number > 0 {
		attrs = append(attrs, slog.Int("ayah", number))
	}
	if err != nil {
		attrs = append(attrs, slog.String("err", err.Error()))
	}
	logger.CONTENT.LogAttrs(context.Background(), slog.LevelWarn, "ayah unavailable", attrs...)
}
