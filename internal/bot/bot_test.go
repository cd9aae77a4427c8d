package bot

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"hadithbot/core/logger"
	"hadithbot/internal/content"
	"hadithbot/internal/i18n"
	"hadithbot/internal/userstore"

	tele "gopkg.in/telebot.v4"
)

type memBackend struct {
	records map[int64]*userstore.Record
}

func (m *memBackend) Load() (map[int64]*userstore.Record, error) {
	out := make(map[int64]*userstore.Record, len(m.records))
	for id, rec := range m.records {
		out[id] = rec.Clone()
	}
	return out, nil
}

func (m *memBackend) Save(records map[int64]*userstore.Record) error {
	m.records = make(map[int64]*userstore.Record, len(records))
	for id, rec := range records {
		m.records[id] = rec.Clone()
	}
	return nil
}

func newTestStore(t *testing.T) *userstore.Store {
	t.Helper()
	st, err := userstore.New(&memBackend{}, string(i18n.EN))
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	return st
}

type fakeAPI struct {
	sent      []interface{}
	failPhoto bool
}

func (f *fakeAPI) Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error) {
	if _, isPhoto := what.(*tele.Photo); isPhoto && f.failPhoto {
		return nil, errors.New("photo rejected")
	}
	f.sent = append(f.sent, what)
	return &tele.Message{}, nil
}

type fakeRenderer struct {
	data []byte
	err  error
}

func (f *fakeRenderer) Render(text, reference, locale string) ([]byte, error) {
	return f.data, f.err
}

var testItem = content.Item{
	Index:     3,
	Text:      "Verily, with hardship comes ease.",
	Reference: "Sahih al-Bukhari, Hadith 39",
}

func TestDelivererSendsPhotoCard(t *testing.T) {
	api := &fakeAPI{}
	d := NewDeliverer(api, newTestStore(t), &fakeRenderer{data: []byte{0xFF, 0xD8}}, nil, i18n.EN)

	if err := d.SendDaily(context.Background(), 10, testItem); err != nil {
		t.Fatalf("SendDaily: %v", err)
	}
	if len(api.sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(api.sent))
	}
	photo, ok := api.sent[0].(*tele.Photo)
	if !ok {
		t.Fatalf("sent %T, want *tele.Photo", api.sent[0])
	}
	if !strings.Contains(photo.Caption, testItem.Reference) {
		t.Errorf("caption %q misses reference", photo.Caption)
	}
}

func TestDelivererRenderFailureFallsBackToText(t *testing.T) {
	api := &fakeAPI{}
	d := NewDeliverer(api, newTestStore(t), &fakeRenderer{err: errors.New("no font")}, nil, i18n.EN)

	if err := d.SendDaily(context.Background(), 10, testItem); err != nil {
		t.Fatalf("SendDaily: %v", err)
	}
	if len(api.sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(api.sent))
	}
	text, ok := api.sent[0].(string)
	if !ok {
		t.Fatalf("sent %T, want string", api.sent[0])
	}
	if !strings.Contains(text, testItem.Text) || !strings.Contains(text, testItem.Reference) {
		t.Errorf("text %q misses item body or reference", text)
	}
}

func TestDelivererPhotoRejectedFallsBackToText(t *testing.T) {
	var buf bytes.Buffer
	old := logger.L
	logger.L = slog.New(slog.NewTextHandler(&buf, nil))
	defer func() { logger.L = old }()

	api := &fakeAPI{failPhoto: true}
	d := NewDeliverer(api, newTestStore(t), &fakeRenderer{data: []byte{0xFF, 0xD8}}, nil, i18n.EN)

	if err := d.SendDaily(context.Background(), 10, testItem); err != nil {
		t.Fatalf("SendDaily: %v", err)
	}
	if len(api.sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(api.sent))
	}
	if _, ok := api.sent[0].(string); !ok {
		t.Fatalf("sent %T, want string fallback", api.sent[0])
	}
	logged := buf.String()
	if !strings.Contains(logged, "card.fallback_text") {
		t.Errorf("log %q misses fallback event", logged)
	}
	if !strings.Contains(logged, "photo rejected") {
		t.Errorf("log %q misses send error", logged)
	}
}

func TestDelivererNoRendererSendsText(t *testing.T) {
	api := &fakeAPI{}
	d := NewDeliverer(api, newTestStore(t), nil, nil, i18n.EN)

	if err := d.SendDaily(context.Background(), 10, testItem); err != nil {
		t.Fatalf("SendDaily: %v", err)
	}
	if _, ok := api.sent[0].(string); !ok {
		t.Fatalf("sent %T, want string", api.sent[0])
	}
}

func TestDelivererReminderCarriesLabel(t *testing.T) {
	api := &fakeAPI{}
	d := NewDeliverer(api, newTestStore(t), nil, nil, i18n.EN)

	rem := userstore.Reminder{Time: "09:00", Label: "morning dhikr"}
	if err := d.SendReminder(context.Background(), 10, testItem, rem); err != nil {
		t.Fatalf("SendReminder: %v", err)
	}
	text, ok := api.sent[0].(string)
	if !ok {
		t.Fatalf("sent %T, want string", api.sent[0])
	}
	if !strings.Contains(text, rem.Label) {
		t.Errorf("text %q misses reminder label", text)
	}
	if !strings.Contains(text, i18n.T(i18n.EN, "reminder_title")) {
		t.Errorf("text %q misses reminder title", text)
	}
}

func TestDelivererUsesStoredLanguageForTitles(t *testing.T) {
	st := newTestStore(t)
	if err := st.SetLanguage(10, string(i18n.RU)); err != nil {
		t.Fatalf("SetLanguage: %v", err)
	}
	api := &fakeAPI{}
	d := NewDeliverer(api, st, nil, nil, i18n.EN)

	if err := d.SendDaily(context.Background(), 10, testItem); err != nil {
		t.Fatalf("SendDaily: %v", err)
	}
	text := api.sent[0].(string)
	if !strings.Contains(text, i18n.T(i18n.RU, "daily_item_title")) {
		t.Errorf("text %q misses russian daily title", text)
	}
}

func TestSnippetKeepsShortAndTruncatesLong(t *testing.T) {
	if got := snippet("short", 10); got != "short" {
		t.Errorf("snippet short = %q", got)
	}
	long := strings.Repeat("ж", 200)
	got := snippet(long, 160)
	if r := []rune(got); len(r) != 161 {
		t.Errorf("snippet length = %d runes, want 161", len(r))
	}
	if !strings.HasSuffix(got, "…") {
		t.Errorf("snippet %q misses ellipsis", got)
	}
}
