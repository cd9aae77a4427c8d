package bot

import (
	"errors"

	"hadithbot/core/telegram/callbacks"
	"hadithbot/core/telegram/helpers"
	"hadithbot/internal/content"
	"hadithbot/internal/i18n"
	"hadithbot/internal/userstore"

	tele "gopkg.in/telebot.v4"
)

// cbMore swaps the shown item for another random one. Text messages are
// edited in place; card messages get a fresh send since photo media cannot
// carry a new rendered card through a plain edit.
func (b *Bot) cbMore(c tele.Context) error {
	id := senderID(c)
	loc := b.locale(id)
	ctx := helpers.BuildContext(c)

	_ = c.Respond(&tele.CallbackResponse{})
	it, err := b.provider.Random(ctx)
	if err != nil {
		if errors.Is(err, content.ErrEmpty) {
			return helpers.SendMD(c, i18n.T(loc, "not_found"))
		}
		it = content.Fallback()
	}

	if msg := c.Message(); msg != nil && msg.Photo == nil {
		if err := b.store.SetLastItem(id, userstore.ItemRef{
			Index:     it.Index,
			Text:      it.Text,
			Reference: it.Reference,
		}); err != nil {
			return helpers.SendMD(c, i18n.T(loc, "storage_error"))
		}
		return helpers.EditOrSendMD(c, b.itemText(ctx, loc, it, "item_title"), b.itemKeyboard(loc))
	}
	return b.sendItem(c, id, it, "item_title")
}

// cbSaveFav pins the user's last shown item into favourites. The answer
// goes through the callback toast, not a new message.
func (b *Bot) cbSaveFav(c tele.Context) error {
	id := senderID(c)
	loc := b.locale(id)

	last := b.store.Get(id).LastItem
	if last == nil {
		return c.Respond(&tele.CallbackResponse{Text: i18n.T(loc, "fav_none")})
	}
	added, err := b.store.AddFavorite(id, *last)
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: i18n.T(loc, "storage_error")})
	}
	key := "fav_saved"
	if !added {
		key = "fav_dup"
	}
	return c.Respond(&tele.CallbackResponse{Text: i18n.T(loc, key)})
}

// cbSetLang switches the interface language; the payload carries the code.
func (b *Bot) cbSetLang(c tele.Context) error {
	id := senderID(c)

	code := callbacks.CallbackPayload(c)
	loc := i18n.Normalize(code, b.defaultLocale)
	if err := b.store.SetLanguage(id, string(loc)); err != nil {
		return c.Respond(&tele.CallbackResponse{Text: i18n.T(b.locale(id), "storage_error")})
	}
	_ = c.Respond(&tele.CallbackResponse{Text: i18n.T(loc, "lang_set")})
	return helpers.EditOrSendMD(c, i18n.T(loc, "welcome"))
}
