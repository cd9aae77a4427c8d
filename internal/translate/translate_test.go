package translate

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestTranslateParsesSegments(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("tl"); got != "ru" {
			t.Errorf("target = %q, want ru", got)
		}
		fmt.Fprint(w, `[[["Дела оцениваются ","Actions are judged ",null],["по намерениям.","by intentions.",null]],null,"en"]`)
	}))
	defer srv.Close()

	g := NewGoogle("en", srv.Client())
	g.base = srv.URL

	out, err := g.Translate(context.Background(), "Actions are judged by intentions.", "ru")
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if out != "Дела оцениваются по намерениям." {
		t.Errorf("unexpected translation %q", out)
	}
}

func TestTranslateSameLanguagePassesThrough(t *testing.T) {
	g := NewGoogle("en", nil)
	g.base = "http://127.0.0.1:0" // must never be contacted

	out, err := g.Translate(context.Background(), "unchanged", "en")
	if err != nil || out != "unchanged" {
		t.Fatalf("got %q, %v", out, err)
	}
}

func TestSafeFallsBackToSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	g := NewGoogle("en", srv.Client())
	g.base = srv.URL

	if out := Safe(context.Background(), g, "source text", "tr"); out != "source text" {
		t.Errorf("Safe = %q, want source text", out)
	}
	if out := Safe(context.Background(), nil, "source text", "tr"); out != "source text" {
		t.Errorf("nil translator: Safe = %q", out)
	}
}
