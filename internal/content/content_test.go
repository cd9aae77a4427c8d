package content

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func testItems() []Item {
	return []Item{
		{Index: 0, Text: "Actions are judged by intentions.", Reference: "Bukhari 1", Category: "intention"},
		{Index: 1, Text: "The strong one controls himself in anger.", Reference: "Bukhari 6114", Category: "patience"},
		{Index: 2, Text: "Patience is illumination.", Reference: "Muslim 223", Category: "patience"},
	}
}

func TestLocalByIndexWraps(t *testing.T) {
	p := NewLocal(testItems())
	ctx := context.Background()

	for i := 0; i < 7; i++ {
		it, err := p.ByIndex(ctx, i)
		if err != nil {
			t.Fatalf("ByIndex(%d): %v", i, err)
		}
		if want := i % 3; it.Index != want {
			t.Errorf("ByIndex(%d).Index = %d, want %d", i, it.Index, want)
		}
	}
}

func TestLocalByIndexEmpty(t *testing.T) {
	p := NewLocal(nil)
	if _, err := p.ByIndex(context.Background(), 0); !errors.Is(err, ErrEmpty) {
		t.Fatalf("expected ErrEmpty, got %v", err)
	}
}

func TestLocalSearchFirstMatchByIndex(t *testing.T) {
	p := NewLocal(testItems())
	ctx := context.Background()

	// Two items carry the "patience" category; the lower index wins.
	it, err := p.Search(ctx, "PATIENCE")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if it.Index != 1 {
		t.Errorf("Search returned index %d, want 1", it.Index)
	}

	// Text substring match.
	it, err = p.Search(ctx, "intentions")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if it.Index != 0 {
		t.Errorf("Search returned index %d, want 0", it.Index)
	}
}

func TestLocalSearchNotFound(t *testing.T) {
	p := NewLocal(testItems())
	if _, err := p.Search(context.Background(), "nonexistent-xyz"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := p.Search(context.Background(), "   "); !errors.Is(err, ErrNotFound) {
		t.Fatalf("blank query: expected ErrNotFound, got %v", err)
	}
}

func newSectionServer(t *testing.T, hits *atomic.Int64) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			hits.Add(1)
		}
		fmt.Fprintf(w, `{"hadiths":[
			{"hadithnumber":1,"text":"First narration about mercy.","reference":{"book":1}},
			{"hadithnumber":2,"text":"Second narration about prayer.","reference":{"book":1}}
		]}`)
	}))
}

func TestRemoteByIndexCachesSections(t *testing.T) {
	var hits atomic.Int64
	srv := newSectionServer(t, &hits)
	defer srv.Close()

	p := NewRemote(RemoteOptions{Base: srv.URL, Edition: "eng-bukhari", Sections: 4, Client: srv.Client()})
	ctx := context.Background()

	first, err := p.ByIndex(ctx, 1)
	if err != nil {
		t.Fatalf("ByIndex: %v", err)
	}
	again, err := p.ByIndex(ctx, 1)
	if err != nil {
		t.Fatalf("ByIndex: %v", err)
	}
	if first.Text != again.Text {
		t.Errorf("same index resolved to different items: %q vs %q", first.Text, again.Text)
	}
	if got := hits.Load(); got != 1 {
		t.Errorf("expected 1 upstream fetch, got %d", got)
	}
	if first.Index != 1 {
		t.Errorf("returned item index = %d, want rotation index 1", first.Index)
	}
}

func TestRemoteDegradesToFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusBadGateway)
	}))
	defer srv.Close()

	p := NewRemote(RemoteOptions{Base: srv.URL, Edition: "eng-bukhari", Sections: 2, Client: srv.Client()})

	it, err := p.ByIndex(context.Background(), 5)
	if err != nil {
		t.Fatalf("ByIndex should degrade, not fail: %v", err)
	}
	if it.Text != Fallback().Text {
		t.Errorf("expected fallback item, got %q", it.Text)
	}
}

func TestRemoteSearch(t *testing.T) {
	srv := newSectionServer(t, nil)
	defer srv.Close()

	p := NewRemote(RemoteOptions{Base: srv.URL, Edition: "eng-bukhari", Sections: 3, Client: srv.Client()})
	ctx := context.Background()

	it, err := p.Search(ctx, "prayer")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if it.Text != "Second narration about prayer." {
		t.Errorf("unexpected match %q", it.Text)
	}

	if _, err := p.Search(ctx, "nonexistent-xyz"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
