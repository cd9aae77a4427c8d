// Package render draws quote cards for Telegram photo messages. Rendering
// is best-effort by contract: any error is returned to the caller, which
// degrades the delivery to plain text.
package render

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"math/rand"
	"strings"
	"sync"

	"github.com/fogleman/gg"

	"hadithbot/core/logger"
	"log/slog"
)

const (
	cardWidth  = 1080
	cardHeight = 1350
	cardMargin = 88

	quoteMaxLines = 16
	refMaxLines   = 2

	jpegQuality      = 92
	defaultCacheSize = 512
)

// Options configure the card renderer.
type Options struct {
	// FontPath locates a TTF font; empty keeps gg's built-in face, which
	// is only acceptable for tests.
	FontPath string
	// Backgrounds lists local image files used instead of the gradient;
	// one is picked at random per render.
	Backgrounds []string
	// Remote optionally supplies photo backgrounds; it wins over the
	// local list when it yields an image.
	Remote BackgroundSource
	// CacheSize bounds the rendered card cache entry count.
	CacheSize int
}

// Renderer produces JPEG card bytes keyed by (locale, text, reference).
type Renderer struct {
	opts Options

	mu    sync.Mutex
	cache map[string][]byte
	order []string
}

// New builds a renderer. The font file is validated lazily on first render.
func New(opts Options) *Renderer {
	if opts.CacheSize <= 0 {
		opts.CacheSize = defaultCacheSize
	}
	return &Renderer{
		opts:  opts,
		cache: make(map[string][]byte),
	}
}

// Render returns JPEG bytes for the quote card. Identical inputs hit the
// bounded cache.
func (r *Renderer) Render(text, reference, locale string) ([]byte, error) {
	key := cacheKey(locale, text, reference)

	r.mu.Lock()
	if data, ok := r.cache[key]; ok {
		r.mu.Unlock()
		return data, nil
	}
	r.mu.Unlock()

	data, err := r.draw(text, reference, locale)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	if _, ok := r.cache[key]; !ok {
		for len(r.order) >= r.opts.CacheSize {
			oldest := r.order[0]
			r.order = r.order[1:]
			delete(r.cache, oldest)
		}
		r.cache[key] = data
		r.order = append(r.order, key)
	}
	r.mu.Unlock()

	return data, nil
}

func cacheKey(locale, text, reference string) string {
	sum := sha256.Sum256([]byte(locale + "\n" + text + "\n" + reference))
	return hex.EncodeToString(sum[:])
}

func (r *Renderer) draw(text, reference, locale string) (data []byte, err error) {
	// gg panics on some malformed inputs; keep the contract error-based.
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("render: draw panicked: %v", rec)
		}
	}()

	dc := gg.NewContext(cardWidth, cardHeight)
	r.paintBackground(dc)

	quoteSize := 44.0
	if locale == "tr" {
		quoteSize = 42.0
	}

	maxWidth := float64(cardWidth - 2*cardMargin)

	// Quote block, centered with a slight upward bias.
	if err := r.setFont(dc, quoteSize); err != nil {
		return nil, err
	}
	dc.SetRGB255(245, 245, 245)
	lines := truncateLines(dc, dc.WordWrap(strings.TrimSpace(text), maxWidth), maxWidth, quoteMaxLines)
	lineHeight := quoteSize * 1.35
	blockHeight := lineHeight * float64(maxInt(1, len(lines)))
	y := (cardHeight-blockHeight)/2 - 120
	if y < 160 {
		y = 160
	}
	for _, line := range lines {
		dc.DrawStringAnchored(line, cardWidth/2, y, 0.5, 0.5)
		y += lineHeight
	}

	// Reference block.
	if err := r.setFont(dc, 30); err != nil {
		return nil, err
	}
	dc.SetRGB255(215, 220, 228)
	refLines := truncateLines(dc, dc.WordWrap(strings.TrimSpace(reference), maxWidth), maxWidth, refMaxLines)
	refY := float64(cardHeight - 220)
	for _, line := range refLines {
		dc.DrawStringAnchored(line, cardWidth/2, refY, 0.5, 0.5)
		refY += 30 * 1.25
	}

	// Brand line.
	if err := r.setFont(dc, 26); err != nil {
		return nil, err
	}
	dc.SetRGB255(160, 170, 186)
	dc.DrawStringAnchored("Hadith Bot", cardWidth/2, cardHeight-90, 0.5, 0.5)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dc.Image(), &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("render: encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) setFont(dc *gg.Context, points float64) error {
	if r.opts.FontPath == "" {
		return nil
	}
	if err := dc.LoadFontFace(r.opts.FontPath, points); err != nil {
		return fmt.Errorf("render: load font %s: %w", r.opts.FontPath, err)
	}
	return nil
}

// paintBackground draws a configured background image when one loads, a
// night-blue vertical gradient otherwise.
func (r *Renderer) paintBackground(dc *gg.Context) {
	if img := r.pickBackground(); img != nil {
		bounds := img.Bounds()
		if bounds.Dx() > 0 && bounds.Dy() > 0 {
			dc.Push()
			dc.Scale(
				float64(cardWidth)/float64(bounds.Dx()),
				float64(cardHeight)/float64(bounds.Dy()),
			)
			dc.DrawImage(img, 0, 0)
			dc.Pop()
			// Darken so the text stays readable.
			dc.SetRGBA(0, 0, 0, 0.55)
			dc.DrawRectangle(0, 0, cardWidth, cardHeight)
			dc.Fill()
			return
		}
	}

	grad := gg.NewLinearGradient(0, 0, 0, cardHeight)
	grad.AddColorStop(0, color.RGBA{R: 18, G: 33, B: 54, A: 255})
	grad.AddColorStop(1, color.RGBA{R: 10, G: 16, B: 30, A: 255})
	dc.SetFillStyle(grad)
	dc.DrawRectangle(0, 0, cardWidth, cardHeight)
	dc.Fill()
}

func (r *Renderer) pickBackground() image.Image {
	if r.opts.Remote != nil {
		ctx, cancel := context.WithTimeout(context.Background(), bgTimeout)
		img := r.opts.Remote.Image(ctx)
		cancel()
		if img != nil {
			return img
		}
	}
	if len(r.opts.Backgrounds) == 0 {
		return nil
	}
	path := r.opts.Backgrounds[rand.Intn(len(r.opts.Backgrounds))]
	img, err := gg.LoadImage(path)
	if err != nil {
		logger.RENDER.Warn("background unavailable",
			slog.String("event", "background"),
			slog.String("path", path),
			slog.String("err", err.Error()),
		)
		return nil
	}
	return img
}

// truncateLines caps the slice at maxLines, trimming the last kept line
// until it fits with a trailing ellipsis.
func truncateLines(dc *gg.Context, lines []string, maxWidth float64, maxLines int) []string {
	if len(lines) <= maxLines {
		return lines
	}
	cut := make([]string, maxLines)
	copy(cut, lines[:maxLines])
	last := []rune(cut[maxLines-1])
	for len(last) > 0 {
		if w, _ := dc.MeasureString(string(last) + "..."); w <= maxWidth {
			break
		}
		last = last[:len(last)-1]
	}
	if len(last) == 0 {
		cut[maxLines-1] = "..."
	} else {
		cut[maxLines-1] = strings.TrimRight(string(last), " ") + "..."
	}
	return cut
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
