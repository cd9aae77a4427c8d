package bot

import (
	"bytes"
	"context"
	"fmt"

	"hadithbot/core/logger"
	"hadithbot/core/telegram/format"
	"hadithbot/internal/content"
	"hadithbot/internal/i18n"
	"hadithbot/internal/translate"
	"hadithbot/internal/userstore"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// sendAPI is the slice of the bot client the deliverer needs. *tele.Bot
// satisfies it.
type sendAPI interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
}

// Deliverer pushes scheduled items to users outside any update context.
// It prefers an image card and falls back to Markdown text when rendering
// or the photo send fails.
type Deliverer struct {
	api        sendAPI
	store      *userstore.Store
	renderer   Renderer
	translator translate.Translator

	defaultLocale i18n.Locale
}

// NewDeliverer builds the scheduler-facing sender.
func NewDeliverer(api sendAPI, store *userstore.Store, renderer Renderer, translator translate.Translator, defaultLocale i18n.Locale) *Deliverer {
	return &Deliverer{
		api:           api,
		store:         store,
		renderer:      renderer,
		translator:    translator,
		defaultLocale: defaultLocale,
	}
}

// SendDaily delivers the rotation item for one user.
func (d *Deliverer) SendDaily(ctx context.Context, userID int64, item content.Item) error {
	return d.deliver(ctx, userID, item, "daily_item_title")
}

// SendReminder delivers a reminder slot; the label, when present, is
// appended under the title.
func (d *Deliverer) SendReminder(ctx context.Context, userID int64, item content.Item, rem userstore.Reminder) error {
	loc := d.locale(userID)
	title := i18n.T(loc, "reminder_title")
	if rem.Label != "" {
		title = fmt.Sprintf("%s\n%s", title, format.EscapeMarkdown(rem.Label))
	}
	return d.deliverTitled(ctx, userID, item, title, loc)
}

func (d *Deliverer) deliver(ctx context.Context, userID int64, item content.Item, titleKey string) error {
	loc := d.locale(userID)
	return d.deliverTitled(ctx, userID, item, i18n.T(loc, titleKey), loc)
}

func (d *Deliverer) deliverTitled(ctx context.Context, userID int64, item content.Item, title string, loc i18n.Locale) error {
	to := &tele.User{ID: userID}
	body := translate.Safe(ctx, d.translator, item.Text, string(loc))
	opts := &tele.SendOptions{ParseMode: tele.ModeMarkdown}

	if d.renderer != nil {
		data, err := d.renderer.Render(body, item.Reference, string(loc))
		if err == nil {
			photo := &tele.Photo{
				File:    tele.FromReader(bytes.NewReader(data)),
				Caption: fmt.Sprintf("%s\n_%s_", title, item.Reference),
			}
			_, sendErr := d.api.Send(to, photo, opts)
			if sendErr == nil {
				return nil
			}
			logger.Warn(ctx, "render", "card.fallback_text",
				slog.Int64("user_id", userID),
				slog.String("err", sendErr.Error()),
			)
		} else {
			logger.Warn(ctx, "render", "card.fallback_text",
				slog.Int64("user_id", userID),
				slog.String("err", err.Error()),
			)
		}
	}

	text := fmt.Sprintf("%s\n\n%s\n\n_%s_", title, format.EscapeMarkdown(body), item.Reference)
	_, err := d.api.Send(to, text, opts)
	return err
}

func (d *Deliverer) locale(userID int64) i18n.Locale {
	return i18n.Normalize(d.store.Get(userID).Language, d.defaultLocale)
}
