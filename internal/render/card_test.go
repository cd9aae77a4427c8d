package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fogleman/gg"
)

func TestRenderProducesJPEG(t *testing.T) {
	r := New(Options{})
	data, err := r.Render("Actions are judged by intentions.", "Sahih al-Bukhari, Hadith 1", "en")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("empty card bytes")
	}
	img, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output is not a JPEG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != cardWidth || b.Dy() != cardHeight {
		t.Errorf("card size = %dx%d, want %dx%d", b.Dx(), b.Dy(), cardWidth, cardHeight)
	}
}

func TestRenderCacheHit(t *testing.T) {
	r := New(Options{CacheSize: 2})
	first, err := r.Render("text", "ref", "ru")
	if err != nil {
		t.Fatal(err)
	}
	second, err := r.Render("text", "ref", "ru")
	if err != nil {
		t.Fatal(err)
	}
	if &first[0] != &second[0] {
		t.Error("expected cached bytes on identical input")
	}

	// Different locale is a different key.
	other, err := r.Render("text", "ref", "en")
	if err != nil {
		t.Fatal(err)
	}
	if &first[0] == &other[0] {
		t.Error("locale must participate in the cache key")
	}
}

func TestRenderCacheEviction(t *testing.T) {
	r := New(Options{CacheSize: 2})
	for i := 0; i < 3; i++ {
		if _, err := r.Render(fmt.Sprintf("text-%d", i), "ref", "en"); err != nil {
			t.Fatal(err)
		}
	}
	if len(r.cache) != 2 || len(r.order) != 2 {
		t.Errorf("cache size = %d (order %d), want 2", len(r.cache), len(r.order))
	}
	if _, ok := r.cache[cacheKey("en", "text-0", "ref")]; ok {
		t.Error("oldest entry should have been evicted")
	}
}

func TestTruncateLines(t *testing.T) {
	dc := gg.NewContext(10, 10)

	lines := []string{"one", "two", "three", "four"}
	got := truncateLines(dc, lines, 1000, 2)
	if len(got) != 2 {
		t.Fatalf("got %d lines, want 2", len(got))
	}
	if !strings.HasSuffix(got[1], "...") {
		t.Errorf("last line %q has no ellipsis", got[1])
	}

	// Under the limit the input passes through untouched.
	got = truncateLines(dc, lines, 1000, 10)
	if len(got) != 4 || got[3] != "four" {
		t.Errorf("unexpected passthrough result %v", got)
	}
}

func TestPexelsFetcherPrefersFreshURLs(t *testing.T) {
	var photo bytes.Buffer
	if err := jpeg.Encode(&photo, image.NewRGBA(image.Rect(0, 0, 4, 4)), nil); err != nil {
		t.Fatal(err)
	}

	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "test-key" {
			http.Error(w, "no auth", http.StatusUnauthorized)
			return
		}
		fmt.Fprintf(w, `{"photos":[
			{"width":4000,"height":3000,"alt":"mosque interior at night","src":{"large2x":%q}},
			{"width":100,"height":100,"alt":"mosque","src":{"large2x":%q}},
			{"width":4000,"height":3000,"alt":"sunset over the ocean","src":{"large2x":%q}}
		]}`, srv.URL+"/a.jpg", srv.URL+"/small.jpg", srv.URL+"/sea.jpg")
	})
	mux.HandleFunc("/a.jpg", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(photo.Bytes())
	})

	f := NewPexelsFetcher("test-key", srv.Client())
	f.base = srv.URL + "/search"

	img := f.Image(context.Background())
	if img == nil {
		t.Fatal("expected a background image")
	}
	// Only the relevant, large photo qualifies; it is now in the recent ring.
	if len(f.recent) != 1 || f.recent[0] != srv.URL+"/a.jpg" {
		t.Errorf("recent ring = %v", f.recent)
	}

	// With every candidate recently used, the fetcher still serves one.
	if img := f.Image(context.Background()); img == nil {
		t.Error("exhausted pool should fall back to reuse, not fail")
	}
}

func TestPexelsFetcherWithoutKey(t *testing.T) {
	f := NewPexelsFetcher("", nil)
	if img := f.Image(context.Background()); img != nil {
		t.Error("missing api key must disable the fetcher")
	}
}
