package bot

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"hadithbot/core/telegram/format"
	"hadithbot/core/telegram/helpers"
	"hadithbot/core/telegram/keyboard"
	"hadithbot/internal/content"
	"hadithbot/internal/i18n"
	"hadithbot/internal/translate"
	"hadithbot/internal/userstore"

	tele "gopkg.in/telebot.v4"
)

// itemText renders an item as a Markdown message in the user's language.
// The body goes through the translator; the reference never does.
func (b *Bot) itemText(ctx context.Context, loc i18n.Locale, it content.Item, titleKey string) string {
	body := translate.Safe(ctx, b.translator, it.Text, string(loc))
	var sb strings.Builder
	sb.WriteString(i18n.T(loc, titleKey))
	sb.WriteString("\n\n")
	sb.WriteString(format.EscapeMarkdown(body))
	sb.WriteString("\n\n_")
	sb.WriteString(it.Reference)
	sb.WriteString("_")
	return sb.String()
}

// itemKeyboard is the "more / save" row attached to every shown item.
func (b *Bot) itemKeyboard(loc i18n.Locale) *tele.ReplyMarkup {
	return keyboard.InlineButtonsRows([]keyboard.InlineBtn{
		{Text: i18n.T(loc, "btn_more"), Unique: cbKeyMore},
		{Text: i18n.T(loc, "btn_save"), Unique: cbKeySaveFav},
	})
}

// langKeyboard lists every supported language, one button per row.
func (b *Bot) langKeyboard() *tele.ReplyMarkup {
	btns := make([]keyboard.InlineBtn, 0, len(i18n.Supported()))
	for _, l := range i18n.Supported() {
		btns = append(btns, keyboard.InlineBtn{
			Text:   i18n.Label(l),
			Unique: cbKeySetLang,
			Data:   string(l),
		})
	}
	return keyboard.InlineButtons(btns)
}

// sendItem shows an item in chat: image card when rendering is available,
// Markdown text otherwise. The shown item becomes the user's last item so
// /fav and the save button have something to pin.
func (b *Bot) sendItem(c tele.Context, userID int64, it content.Item, titleKey string) error {
	loc := b.locale(userID)
	ctx := helpers.BuildContext(c)

	if err := b.store.SetLastItem(userID, userstore.ItemRef{
		Index:     it.Index,
		Text:      it.Text,
		Reference: it.Reference,
	}); err != nil {
		return helpers.SendMD(c, i18n.T(loc, "storage_error"))
	}

	markup := b.itemKeyboard(loc)
	if b.renderer != nil {
		body := translate.Safe(ctx, b.translator, it.Text, string(loc))
		if data, err := b.renderer.Render(body, it.Reference, string(loc)); err == nil {
			caption := fmt.Sprintf("%s\n_%s_", i18n.T(loc, titleKey), it.Reference)
			photo := &tele.Photo{
				File:    tele.FromReader(bytes.NewReader(data)),
				Caption: caption,
			}
			if err := c.Send(photo, &tele.SendOptions{
				ParseMode:   tele.ModeMarkdown,
				ReplyMarkup: markup,
			}); err == nil {
				return nil
			}
		}
	}

	return helpers.SendMD(c, b.itemText(ctx, loc, it, titleKey), markup)
}
