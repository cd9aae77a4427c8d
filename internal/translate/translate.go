// Package translate converts hadith text from its source language into the
// user's interface language. Translation is cosmetic: every failure falls
// back to the source text.
package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"hadithbot/core/logger"
	"log/slog"
)

const (
	googleEndpoint = "https://translate.googleapis.com/translate_a/single"

	maxInputLen    = 4000
	requestTimeout = 8 * time.Second
)

// Translator converts text into the target language code.
type Translator interface {
	Translate(ctx context.Context, text, target string) (string, error)
}

// Google uses the public gtx translate endpoint, the same backend the
// original deployment relied on.
type Google struct {
	client *http.Client
	base   string
	source string
}

// NewGoogle builds a translator from the given source language ("en" for
// the bundled collections).
func NewGoogle(source string, client *http.Client) *Google {
	if client == nil {
		client = &http.Client{Timeout: requestTimeout}
	}
	if source == "" {
		source = "en"
	}
	return &Google{client: client, base: googleEndpoint, source: source}
}

// Translate returns the text in the target language. Text already in the
// source language passes through untouched.
func (g *Google) Translate(ctx context.Context, text, target string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" || target == g.source {
		return text, nil
	}
	if len(text) > maxInputLen {
		text = text[:maxInputLen]
	}

	q := url.Values{
		"client": {"gtx"},
		"sl":     {g.source},
		"tl":     {target},
		"dt":     {"t"},
		"q":      {text},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.base+"?"+q.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("translate: build request: %w", err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("translate: request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return "", fmt.Errorf("translate: status %s", resp.Status)
	}

	// The gtx payload is a nested array; element 0 lists translated
	// segments as [translated, original, ...].
	var raw []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return "", fmt.Errorf("translate: decode: %w", err)
	}
	if len(raw) == 0 {
		return "", fmt.Errorf("translate: empty payload")
	}

	var segments [][]json.RawMessage
	if err := json.Unmarshal(raw[0], &segments); err != nil {
		return "", fmt.Errorf("translate: decode segments: %w", err)
	}

	var b strings.Builder
	for _, seg := range segments {
		if len(seg) == 0 {
			continue
		}
		var part string
		if err := json.Unmarshal(seg[0], &part); err != nil {
			continue
		}
		b.WriteString(part)
	}
	out := strings.TrimSpace(b.String())
	if out == "" {
		return "", fmt.Errorf("translate: no segments")
	}
	return out, nil
}

// Safe translates with fallback to the source text, logging the miss.
func Safe(ctx context.Context, t Translator, text, target string) string {
	if t == nil {
		return text
	}
	out, err := t.Translate(ctx, text, target)
	if err != nil {
		logger.Component("translate").Debug("fallback to source text",
			slog.String("event", "fallback"),
			slog.String("lang", target),
			slog.String("err", err.Error()),
		)
		return text
	}
	return out
}
