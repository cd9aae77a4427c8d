package render

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	_ "image/png"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"hadithbot/core/logger"
	"log/slog"
)

const (
	pexelsSearchURL = "https://api.pexels.com/v1/search"

	bgMinWidth    = 2048
	bgMinHeight   = 2048
	bgRecentLimit = 40
	bgTimeout     = 15 * time.Second
)

var bgQueries = []string{
	"islam quran mosque prayer",
	"quran islamic calligraphy arabic",
	"muslim prayer mosque interior",
	"islamic architecture mosque dome minaret",
	"islamic geometric arabesque pattern",
	"ramadan quran mosque",
}

var bgWantedHints = []string{
	"islam", "islamic", "muslim", "mosque", "masjid", "quran",
	"ramadan", "eid", "prayer", "calligraphy", "arabic", "minaret", "dome",
}

var bgUnwantedHints = []string{
	"mountain", "forest", "beach", "ocean", "sunset", "landscape",
	"road", "car", "animal", "wildlife", "food",
}

// BackgroundSource supplies an optional card background. A nil image means
// "no background this time" and is not an error.
type BackgroundSource interface {
	Image(ctx context.Context) image.Image
}

// PexelsFetcher pulls photo backgrounds from the Pexels search API,
// avoiding recently served URLs. Every failure degrades to no background.
type PexelsFetcher struct {
	client *http.Client
	apiKey string
	base   string

	mu     sync.Mutex
	recent []string
}

// NewPexelsFetcher builds a fetcher; apiKey must be non-empty.
func NewPexelsFetcher(apiKey string, client *http.Client) *PexelsFetcher {
	if client == nil {
		client = &http.Client{Timeout: bgTimeout}
	}
	return &PexelsFetcher{
		client: client,
		apiKey: apiKey,
		base:   pexelsSearchURL,
	}
}

type pexelsPayload struct {
	Photos []struct {
		Width  int    `json:"width"`
		Height int    `json:"height"`
		Alt    string `json:"alt"`
		Src    struct {
			Large2x  string `json:"large2x"`
			Original string `json:"original"`
		} `json:"src"`
	} `json:"photos"`
}

// Image returns a decoded background photo or nil when anything along the
// way fails.
func (f *PexelsFetcher) Image(ctx context.Context) image.Image {
	pick, err := f.pickURL(ctx)
	if err != nil {
		f.logMiss("pick", err)
		return nil
	}
	img, err := f.download(ctx, pick)
	if err != nil {
		f.logMiss("download", err)
		return nil
	}
	return img
}

func (f *PexelsFetcher) pickURL(ctx context.Context) (string, error) {
	if f.apiKey == "" {
		return "", errors.New("render: pexels api key not configured")
	}

	query := bgQueries[rand.Intn(len(bgQueries))]
	u := fmt.Sprintf("%s?%s", f.base, url.Values{
		"query":    {query},
		"per_page": {"80"},
		"size":     {"large"},
	}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", f.apiKey)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return "", fmt.Errorf("render: pexels status %s", resp.Status)
	}

	var payload pexelsPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", err
	}

	var candidates []string
	for _, p := range payload.Photos {
		if p.Width < bgMinWidth || p.Height < bgMinHeight {
			continue
		}
		if !altLooksRelevant(p.Alt) {
			continue
		}
		src := p.Src.Large2x
		if src == "" {
			src = p.Src.Original
		}
		if src != "" {
			candidates = append(candidates, src)
		}
	}
	if len(candidates) == 0 {
		return "", errors.New("render: no suitable photos")
	}
	return f.remember(candidates), nil
}

// remember prefers URLs not served recently and records the pick in the
// bounded recent ring.
func (f *PexelsFetcher) remember(candidates []string) string {
	f.mu.Lock()
	defer f.mu.Unlock()

	seen := make(map[string]struct{}, len(f.recent))
	for _, u := range f.recent {
		seen[u] = struct{}{}
	}
	fresh := candidates[:0:0]
	for _, u := range candidates {
		if _, ok := seen[u]; !ok {
			fresh = append(fresh, u)
		}
	}
	pool := fresh
	if len(pool) == 0 {
		pool = candidates
	}
	pick := pool[rand.Intn(len(pool))]

	f.recent = append(f.recent, pick)
	if len(f.recent) > bgRecentLimit {
		f.recent = f.recent[len(f.recent)-bgRecentLimit:]
	}
	return pick
}

func (f *PexelsFetcher) download(ctx context.Context, rawURL string) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("render: photo status %s", resp.Status)
	}
	img, _, err := image.Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("render: decode photo: %w", err)
	}
	return img, nil
}

func altLooksRelevant(alt string) bool {
	alt = strings.ToLower(alt)
	if alt == "" {
		return false
	}
	wanted := false
	for _, hint := range bgWantedHints {
		if strings.Contains(alt, hint) {
			wanted = true
			break
		}
	}
	if !wanted {
		return false
	}
	for _, hint := range bgUnwantedHints {
		if strings.Contains(alt, hint) {
			return false
		}
	}
	return true
}

func (f *PexelsFetcher) logMiss(stage string, err error) {
	logger.RENDER.Debug("background miss",
		slog.String("event", "background"),
		slog.String("stage", stage),
		slog.String("err", err.Error()),
	)
}
