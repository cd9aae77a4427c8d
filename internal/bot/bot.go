// Package bot wires the command and callback surface of the hadith bot
// onto the shared Telegram runtime.
package bot

import (
	coreconfig "hadithbot/core/config"
	tg "hadithbot/core/telegram"
	"hadithbot/core/telegram/commands"
	"hadithbot/core/telegram/state"
	"hadithbot/internal/content"
	"hadithbot/internal/i18n"
	"hadithbot/internal/translate"
	"hadithbot/internal/userstore"

	tele "gopkg.in/telebot.v4"
)

// Callback keys shared between keyboards and the registry.
const (
	cbKeyMore    = "more"
	cbKeySaveFav = "savefav"
	cbKeySetLang = "setlang"
)

// StateAwaitDailyTime marks a user who was prompted for a daily slot.
const StateAwaitDailyTime state.State = "await_daily_time"

// Renderer is the card drawing contract the bot depends on.
type Renderer interface {
	Render(text, reference, locale string) ([]byte, error)
}

// Bot owns the domain services behind the Telegram surface.
type Bot struct {
	cfg        *coreconfig.Config
	store      *userstore.Store
	provider   content.Provider
	renderer   Renderer
	translator translate.Translator
	fsm        state.Manager
	reg        *tg.Registry

	defaultLocale i18n.Locale
	deliveries    func() uint64
}

// Options collect the bot's dependencies. Renderer and Translator may be
// nil; the corresponding features degrade to plain text.
type Options struct {
	Config     *coreconfig.Config
	Store      *userstore.Store
	Provider   content.Provider
	Renderer   Renderer
	Translator translate.Translator
	FSM        state.Manager
}

// New builds the bot service layer.
func New(opts Options) *Bot {
	fsm := opts.FSM
	if fsm == nil {
		fsm = state.NewMemoryManager()
	}
	def := i18n.DefaultLocale
	if opts.Config != nil {
		def = i18n.Normalize(opts.Config.Locale.Default, i18n.DefaultLocale)
	}
	b := &Bot{
		cfg:           opts.Config,
		store:         opts.Store,
		provider:      opts.Provider,
		renderer:      opts.Renderer,
		translator:    opts.Translator,
		fsm:           fsm,
		defaultLocale: def,
	}
	state.RegisterHandler(StateAwaitDailyTime, b.handleDailyTimeInput)
	return b
}

// FSM exposes the conversation state manager for the text router.
func (b *Bot) FSM() state.Manager {
	return b.fsm
}

// SetDeliveryCounter wires the scheduler's delivery total into /stats.
func (b *Bot) SetDeliveryCounter(fn func() uint64) {
	b.deliveries = fn
}

// Register binds every command and callback to the registry.
func (b *Bot) Register(reg *tg.Registry) {
	b.reg = reg

	reg.RegisterCommand("/start", commands.Command{
		Handler:     b.handleStart,
		Description: "Welcome and command overview",
	})
	reg.RegisterCommand("/hadith", commands.Command{
		Handler:     b.handleHadith,
		Description: "Random hadith, or search by keyword",
	})
	reg.RegisterCommand("/daily", commands.Command{
		Handler:     b.handleDaily,
		Description: "Set or show the daily hadith time",
	})
	reg.RegisterCommand("/dailyoff", commands.Command{
		Handler:     b.handleDailyOff,
		Description: "Disable the daily hadith",
	})
	reg.RegisterCommand("/fav", commands.Command{
		Handler:     b.handleFav,
		Description: "Save the last hadith to favourites",
	})
	reg.RegisterCommand("/favorites", commands.Command{
		Handler:     b.handleFavorites,
		Description: "List saved favourites",
		Aliases:     []string{"/favs"},
	})
	reg.RegisterCommand("/unfav", commands.Command{
		Handler:     b.handleUnfav,
		Description: "Remove a favourite by id",
	})
	reg.RegisterCommand("/remind", commands.Command{
		Handler:     b.handleRemind,
		Description: "Add a personal reminder",
	})
	reg.RegisterCommand("/reminders", commands.Command{
		Handler:     b.handleReminders,
		Description: "List personal reminders",
	})
	reg.RegisterCommand("/delremind", commands.Command{
		Handler:     b.handleDelRemind,
		Description: "Delete a reminder by number",
	})
	reg.RegisterCommand("/lang", commands.Command{
		Handler:     b.handleLang,
		Description: "Change the interface language",
	})
	reg.RegisterCommand("/stats", commands.Command{
		Handler:     b.handleStats,
		Description: "Usage totals",
		AdminOnly:   true,
		Hidden:      true,
	})

	_ = reg.RegisterCallback(cbKeyMore, b.cbMore)
	_ = reg.RegisterCallback(cbKeySaveFav, b.cbSaveFav)
	_ = reg.RegisterCallback(cbKeySetLang, b.cbSetLang)

	// Plain text that is not a command becomes a keyword lookup.
	reg.SetTextFallback(b.handleHadith)
}

// locale resolves the stored language of the sender.
func (b *Bot) locale(userID int64) i18n.Locale {
	return i18n.Normalize(b.store.Get(userID).Language, b.defaultLocale)
}

func senderID(c tele.Context) int64 {
	if u := c.Sender(); u != nil {
		return u.ID
	}
	return 0
}
