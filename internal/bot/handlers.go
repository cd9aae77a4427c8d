package bot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"hadithbot/core/logger"
	"hadithbot/core/telegram/format"
	"hadithbot/core/telegram/helpers"
	"hadithbot/internal/content"
	"hadithbot/internal/i18n"
	"hadithbot/internal/userstore"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

func (b *Bot) handleStart(c tele.Context) error {
	id := senderID(c)
	loc := b.locale(id)
	// Pin the resolved language so a later default change does not flip
	// the interface under existing users.
	if err := b.store.SetLanguage(id, string(loc)); err != nil {
		return helpers.SendMD(c, i18n.T(loc, "storage_error"))
	}
	return helpers.SendMD(c, i18n.T(loc, "welcome"))
}

// handleHadith serves /hadith and doubles as the free-text fallback: any
// plain message is treated as a keyword query.
func (b *Bot) handleHadith(c tele.Context) error {
	id := senderID(c)
	loc := b.locale(id)
	ctx := helpers.BuildContext(c)

	query := commandPayload(c)

	var (
		it  content.Item
		err error
	)
	if query == "" {
		it, err = b.provider.Random(ctx)
	} else {
		it, err = b.provider.Search(ctx, query)
	}
	if err != nil {
		if errors.Is(err, content.ErrNotFound) {
			return helpers.SendMD(c, i18n.T(loc, "not_found"))
		}
		logger.Error(ctx, "bot", "hadith.lookup_failed",
			slog.String("query", query),
			slog.String("err", err.Error()),
		)
		return helpers.SendMD(c, i18n.T(loc, "not_found"))
	}
	return b.sendItem(c, id, it, "item_title")
}

func (b *Bot) handleDaily(c tele.Context) error {
	id := senderID(c)
	loc := b.locale(id)

	arg := commandPayload(c)
	if arg == "" {
		if t := b.store.Get(id).DailyTime; t != nil {
			return helpers.SendMD(c, i18n.Tf(loc, "daily_current", *t))
		}
		b.fsm.SetState(id, StateAwaitDailyTime)
		return helpers.SendMD(c, i18n.T(loc, "daily_prompt"))
	}
	return b.setDailyTime(c, id, loc, arg)
}

func (b *Bot) setDailyTime(c tele.Context, id int64, loc i18n.Locale, raw string) error {
	clock, ok := helpers.ParseClock(raw)
	if !ok {
		return helpers.SendMD(c, i18n.T(loc, "bad_time"))
	}
	if err := b.store.SetDailyTime(id, clock); err != nil {
		return helpers.SendMD(c, i18n.T(loc, "storage_error"))
	}
	return helpers.SendMD(c, i18n.Tf(loc, "daily_set", clock))
}

// handleDailyTimeInput consumes the reply to the /daily prompt. Commands
// abort the dialog and are dispatched as usual; anything else must be a
// valid clock value or the dialog stays open.
func (b *Bot) handleDailyTimeInput(c tele.Context) error {
	id := senderID(c)
	loc := b.locale(id)
	text := strings.TrimSpace(c.Text())

	if strings.HasPrefix(text, "/") {
		b.fsm.ClearState(id)
		if b.reg != nil {
			if _, cmd, ok := b.reg.LookupCommand(strings.Fields(text)[0]); ok && cmd.Handler != nil {
				return cmd.Handler(c)
			}
		}
		return nil
	}

	clock, ok := helpers.ParseClock(text)
	if !ok {
		return helpers.SendMD(c, i18n.T(loc, "bad_time"))
	}
	b.fsm.ClearState(id)
	if err := b.store.SetDailyTime(id, clock); err != nil {
		return helpers.SendMD(c, i18n.T(loc, "storage_error"))
	}
	return helpers.SendMD(c, i18n.Tf(loc, "daily_set", clock))
}

func (b *Bot) handleDailyOff(c tele.Context) error {
	id := senderID(c)
	loc := b.locale(id)
	if b.store.Get(id).DailyTime == nil {
		return helpers.SendMD(c, i18n.T(loc, "daily_none"))
	}
	if err := b.store.ClearDailyTime(id); err != nil {
		return helpers.SendMD(c, i18n.T(loc, "storage_error"))
	}
	return helpers.SendMD(c, i18n.T(loc, "daily_off"))
}

func (b *Bot) handleFav(c tele.Context) error {
	id := senderID(c)
	loc := b.locale(id)

	last := b.store.Get(id).LastItem
	if last == nil {
		return helpers.SendMD(c, i18n.T(loc, "fav_none"))
	}
	added, err := b.store.AddFavorite(id, *last)
	if err != nil {
		return helpers.SendMD(c, i18n.T(loc, "storage_error"))
	}
	if !added {
		return helpers.SendMD(c, i18n.T(loc, "fav_dup"))
	}
	return helpers.SendMD(c, i18n.T(loc, "fav_saved"))
}

func (b *Bot) handleFavorites(c tele.Context) error {
	id := senderID(c)
	loc := b.locale(id)

	favs := b.store.Favorites(id)
	if len(favs) == 0 {
		return helpers.SendMD(c, i18n.T(loc, "favorites_empty"))
	}

	var sb strings.Builder
	sb.WriteString(i18n.T(loc, "favorites_title"))
	sb.WriteString("\n")
	for _, f := range favs {
		sb.WriteString(fmt.Sprintf("\n*%d.* %s\n_%s_\n", f.ID, format.EscapeMarkdown(snippet(f.Item.Text, 160)), f.Item.Reference))
	}
	return helpers.SendMD(c, sb.String())
}

func (b *Bot) handleUnfav(c tele.Context) error {
	id := senderID(c)
	loc := b.locale(id)

	n, err := strconv.Atoi(commandPayload(c))
	if err != nil {
		return helpers.SendMD(c, i18n.T(loc, "unfav_help"))
	}
	if err := b.store.RemoveFavorite(id, n); err != nil {
		if errors.Is(err, userstore.ErrFavoriteNotFound) {
			return helpers.SendMD(c, i18n.Tf(loc, "unfav_bad", n))
		}
		return helpers.SendMD(c, i18n.T(loc, "storage_error"))
	}
	return helpers.SendMD(c, i18n.Tf(loc, "unfav_ok", n))
}

func (b *Bot) handleRemind(c tele.Context) error {
	id := senderID(c)
	loc := b.locale(id)

	arg := commandPayload(c)
	if arg == "" {
		return helpers.SendMD(c, i18n.T(loc, "remind_bad"))
	}
	parts := strings.SplitN(arg, " ", 2)
	clock, ok := helpers.ParseClock(parts[0])
	if !ok {
		return helpers.SendMD(c, i18n.T(loc, "remind_bad"))
	}
	label := ""
	if len(parts) == 2 {
		label = strings.TrimSpace(parts[1])
	}
	if err := b.store.AddReminder(id, clock, label); err != nil {
		if errors.Is(err, userstore.ErrReminderExists) {
			return helpers.SendMD(c, i18n.Tf(loc, "remind_dup", clock))
		}
		return helpers.SendMD(c, i18n.T(loc, "storage_error"))
	}
	return helpers.SendMD(c, i18n.Tf(loc, "remind_ok", clock))
}

func (b *Bot) handleReminders(c tele.Context) error {
	id := senderID(c)
	loc := b.locale(id)

	rems := b.store.Reminders(id)
	if len(rems) == 0 {
		return helpers.SendMD(c, i18n.T(loc, "reminders_empty"))
	}

	var sb strings.Builder
	sb.WriteString(i18n.T(loc, "reminders_title"))
	sb.WriteString("\n")
	for i, r := range rems {
		sb.WriteString(fmt.Sprintf("\n*%d.* %s", i+1, r.Time))
		if r.Label != "" {
			sb.WriteString(" " + format.EscapeMarkdown(r.Label))
		}
	}
	return helpers.SendMD(c, sb.String())
}

func (b *Bot) handleDelRemind(c tele.Context) error {
	id := senderID(c)
	loc := b.locale(id)

	arg := commandPayload(c)
	if strings.EqualFold(arg, "all") {
		n, err := b.store.ClearReminders(id)
		if err != nil {
			return helpers.SendMD(c, i18n.T(loc, "storage_error"))
		}
		return helpers.SendMD(c, i18n.Tf(loc, "deleted_all", n))
	}
	n, err := strconv.Atoi(arg)
	if err != nil {
		return helpers.SendMD(c, i18n.T(loc, "delremind_help"))
	}
	if err := b.store.RemoveReminder(id, n); err != nil {
		if errors.Is(err, userstore.ErrReminderNotFound) {
			return helpers.SendMD(c, i18n.Tf(loc, "delremind_bad", n))
		}
		return helpers.SendMD(c, i18n.T(loc, "storage_error"))
	}
	return helpers.SendMD(c, i18n.Tf(loc, "delremind_ok", n))
}

func (b *Bot) handleLang(c tele.Context) error {
	id := senderID(c)
	loc := b.locale(id)
	return helpers.SendMD(c, i18n.Tf(loc, "lang_title", i18n.Label(loc)), b.langKeyboard())
}

func (b *Bot) handleStats(c tele.Context) error {
	users := b.store.Count()
	daily := 0
	reminders := 0
	for _, rec := range b.store.Snapshot() {
		if rec.DailyTime != nil {
			daily++
		}
		reminders += len(rec.Reminders)
	}
	var delivered uint64
	if b.deliveries != nil {
		delivered = b.deliveries()
	}
	text := fmt.Sprintf("*Stats*\nUsers: %d\nDaily subscribers: %d\nReminders: %d\nDeliveries since start: %d",
		users, daily, reminders, delivered)
	return helpers.SendMD(c, text)
}

// commandPayload returns the argument part of a command message, or the
// whole text when the message is not a command (free-text lookup path).
func commandPayload(c tele.Context) string {
	if m := c.Message(); m != nil && m.Payload != "" {
		return strings.TrimSpace(m.Payload)
	}
	text := strings.TrimSpace(c.Text())
	if strings.HasPrefix(text, "/") {
		fields := strings.Fields(text)
		return strings.TrimSpace(strings.TrimPrefix(text, fields[0]))
	}
	return text
}

func snippet(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return strings.TrimSpace(string(r[:max])) + "…"
}
