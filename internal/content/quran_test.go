package content

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

func ayahBody(number, surah, inSurah int, english, arabic, translated string) string {
	return fmt.Sprintf(`{"code":200,"data":[
		{"number":%d,"numberInSurah":%d,"text":%q,"surah":{"number":%d,"englishName":%q}},
		{"number":%d,"numberInSurah":%d,"text":%q,"surah":{"number":%d,"englishName":%q}}
	]}`, number, inSurah, arabic, surah, english, number, inSurah, translated, surah, english)
}

func newAyahServer(t *testing.T, hits *atomic.Int64) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			hits.Add(1)
		}
		switch {
		case strings.HasPrefix(r.URL.Path, "/search/"):
			fmt.Fprint(w, `{"code":200,"data":{"matches":[
				{"number":262,"numberInSurah":255,"text":"Allah, there is no deity except Him.","surah":{"number":2,"englishName":"Al-Baqara"}},
				{"number":14,"numberInSurah":7,"text":"another match","surah":{"number":2,"englishName":"Al-Baqara"}}
			]}}`)
		case strings.HasPrefix(r.URL.Path, "/ayah/14/"):
			fmt.Fprint(w, ayahBody(14, 2, 7, "Al-Baqara", "نص", "another match"))
		default:
			fmt.Fprint(w, ayahBody(256, 2, 249, "Al-Baqara", "نص الآية", "Verse translation."))
		}
	}))
}

func TestQuranByIndexCachesAyahs(t *testing.T) {
	var hits atomic.Int64
	srv := newAyahServer(t, &hits)
	defer srv.Close()

	p := NewQuran(QuranOptions{Base: srv.URL, Translation: "ru.kuliev", Client: srv.Client()})
	ctx := context.Background()

	first, err := p.ByIndex(ctx, 255)
	if err != nil {
		t.Fatalf("ByIndex: %v", err)
	}
	again, err := p.ByIndex(ctx, 255)
	if err != nil {
		t.Fatalf("ByIndex: %v", err)
	}
	if first.Text != again.Text {
		t.Errorf("same index resolved to different items: %q vs %q", first.Text, again.Text)
	}
	if got := hits.Load(); got != 1 {
		t.Errorf("expected 1 upstream fetch, got %d", got)
	}
	if first.Index != 255 {
		t.Errorf("returned item index = %d, want rotation index 255", first.Index)
	}
	if !strings.Contains(first.Text, "نص الآية") || !strings.Contains(first.Text, "Verse translation.") {
		t.Errorf("item should carry both editions, got %q", first.Text)
	}
	if first.Reference != "Al-Baqara 2:249" {
		t.Errorf("reference = %q", first.Reference)
	}
}

func TestQuranByIndexWrapsRotation(t *testing.T) {
	srv := newAyahServer(t, nil)
	defer srv.Close()

	p := NewQuran(QuranOptions{Base: srv.URL, Client: srv.Client()})
	if p.Len() != quranAyahCount {
		t.Fatalf("Len = %d, want %d", p.Len(), quranAyahCount)
	}

	it, err := p.ByIndex(context.Background(), quranAyahCount+3)
	if err != nil {
		t.Fatalf("ByIndex: %v", err)
	}
	if it.Index != quranAyahCount+3 {
		t.Errorf("item index = %d, want the caller's rotation index", it.Index)
	}
}

func TestQuranDegradesToFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusBadGateway)
	}))
	defer srv.Close()

	p := NewQuran(QuranOptions{Base: srv.URL, Client: srv.Client()})
	ctx := context.Background()

	it, err := p.ByIndex(ctx, 7)
	if err != nil {
		t.Fatalf("ByIndex should degrade, not fail: %v", err)
	}
	if it.Reference != quranFallback().Reference {
		t.Errorf("expected fallback ayah, got %q", it.Reference)
	}

	it, err = p.Random(ctx)
	if err != nil {
		t.Fatalf("Random should degrade, not fail: %v", err)
	}
	if it.Reference != quranFallback().Reference {
		t.Errorf("expected fallback ayah, got %q", it.Reference)
	}
}

func TestQuranSearchLowestAyahWins(t *testing.T) {
	srv := newAyahServer(t, nil)
	defer srv.Close()

	p := NewQuran(QuranOptions{Base: srv.URL, Client: srv.Client()})
	ctx := context.Background()

	it, err := p.Search(ctx, "deity")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	// Matches arrive unordered; the lowest global number (14) wins.
	if it.Index != 13 {
		t.Errorf("Search returned index %d, want 13", it.Index)
	}

	if _, err := p.Search(ctx, "   "); !errors.Is(err, ErrNotFound) {
		t.Fatalf("blank query: expected ErrNotFound, got %v", err)
	}
}

func TestQuranSearchNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"code":200,"data":{"matches":[]}}`)
	}))
	defer srv.Close()

	p := NewQuran(QuranOptions{Base: srv.URL, Client: srv.Client()})
	if _, err := p.Search(context.Background(), "nonexistent-xyz"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
