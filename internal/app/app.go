// Package app assembles the hadith bot from its parts: configuration,
// user store, content provider, renderer, translator, scheduler, and the
// Telegram surface.
package app

import (
	"context"
	"fmt"

	corebootstrap "hadithbot/core/bootstrap"
	coreconfig "hadithbot/core/config"
	"hadithbot/core/logger"
	coretelegram "hadithbot/core/telegram"
	"hadithbot/core/telegram/router"
	"hadithbot/core/telegram/state"
	"hadithbot/internal/bot"
	"hadithbot/internal/content"
	"hadithbot/internal/i18n"
	"hadithbot/internal/render"
	"hadithbot/internal/sched"
	"hadithbot/internal/translate"
	"hadithbot/internal/userstore"
	"log/slog"
)

// Config wraps the core configuration for the cmd runner.
type Config struct {
	core *coreconfig.Config
}

// LoadConfig reads and validates the YAML config at path.
func LoadConfig(path string) (*Config, error) {
	cfg, err := coreconfig.Load(path)
	if err != nil {
		return nil, err
	}
	return &Config{core: cfg}, nil
}

// CoreConfig exposes the embedded core configuration.
func (c *Config) CoreConfig() *coreconfig.Config {
	return c.core
}

// App holds every long-lived component of the bot process.
type App struct {
	cfg *coreconfig.Config

	store      *userstore.Store
	provider   content.Provider
	renderer   bot.Renderer
	translator translate.Translator
	bot        *bot.Bot
	scheduler  *sched.Scheduler
}

// Bootstrap initializes the logger and storage, then builds the domain
// services in dependency order.
func Bootstrap(cfg *Config) (*App, error) {
	if cfg == nil || cfg.core == nil {
		return nil, fmt.Errorf("app: nil config")
	}
	core := cfg.core

	boot, err := corebootstrap.Run(corebootstrap.Options{Config: core})
	if err != nil {
		return nil, err
	}

	var backend userstore.Backend
	switch core.Store.Backend {
	case coreconfig.StoreBackendPostgres:
		backend = userstore.NewPostgresBackend(boot.DB)
	default:
		backend = userstore.NewJSONBackend(core.Store.Path)
	}
	store, err := userstore.New(backend, core.Locale.Default)
	if err != nil {
		return nil, fmt.Errorf("app: user store: %w", err)
	}

	provider, err := buildProvider(core)
	if err != nil {
		return nil, err
	}

	var renderer bot.Renderer
	if core.Render.Enabled {
		var remote render.BackgroundSource
		if core.Render.PexelsAPIKey != "" {
			remote = render.NewPexelsFetcher(core.Render.PexelsAPIKey, nil)
		}
		renderer = render.New(render.Options{
			FontPath:    core.Render.FontPath,
			Backgrounds: core.Render.Backgrounds,
			Remote:      remote,
			CacheSize:   core.Render.CacheSize,
		})
	}

	translator := translate.NewGoogle(string(i18n.EN), nil)

	b := bot.New(bot.Options{
		Config:     core,
		Store:      store,
		Provider:   provider,
		Renderer:   renderer,
		Translator: translator,
		FSM:        state.NewMemoryManager(),
	})

	return &App{
		cfg:        core,
		store:      store,
		provider:   provider,
		renderer:   renderer,
		translator: translator,
		bot:        b,
	}, nil
}

func buildProvider(core *coreconfig.Config) (content.Provider, error) {
	switch core.Content.Source {
	case coreconfig.ContentSourceRemote:
		return content.NewRemote(content.RemoteOptions{
			Base:     core.Content.APIBase,
			Edition:  core.Content.Edition,
			Sections: core.Content.Sections,
		}), nil
	case coreconfig.ContentSourceQuran:
		return content.NewQuran(content.QuranOptions{
			Base:        core.Content.APIBase,
			Translation: core.Content.Edition,
		}), nil
	default:
		p, err := content.LoadLocal(core.Content.Path)
		if err != nil {
			return nil, fmt.Errorf("app: content: %w", err)
		}
		return p, nil
	}
}

// TelegramRunOptions wires the registry, routers, and lifecycle hooks for
// the shared Telegram runtime.
func (a *App) TelegramRunOptions() (coretelegram.RunOptions, error) {
	reg := coretelegram.NewRegistry()
	a.bot.Register(reg)

	routes := router.CommandRoutes(reg, router.CommandRouteOptions{
		AdminID: a.cfg.Telegram.AdminID,
	})
	routes = append(routes, router.TextRoutes(a.bot.FSM(), reg, router.TextOptions{})...)
	routes = append(routes, router.CallbackRoute(reg, router.CallbackOptions{}))

	loc, err := coreconfig.ResolveLocation(a.cfg.Schedule.Timezone)
	if err != nil {
		return coretelegram.RunOptions{}, err
	}
	defaultLocale := i18n.Normalize(a.cfg.Locale.Default, i18n.DefaultLocale)

	return coretelegram.RunOptions{
		Config:      a.cfg,
		Registry:    reg,
		Middlewares: coretelegram.DefaultMiddlewares(a.cfg, nil),
		Routes:      routes,
		OnStart: func(ctx context.Context, rt coretelegram.Runtime) error {
			deliverer := bot.NewDeliverer(rt.Bot, a.store, a.renderer, a.translator, defaultLocale)
			a.scheduler = sched.New(a.store, a.provider, deliverer, loc)
			a.bot.SetDeliveryCounter(a.scheduler.Deliveries)
			if err := a.scheduler.Start(); err != nil {
				return fmt.Errorf("app: scheduler: %w", err)
			}
			logger.Info(ctx, "sched", "scheduler.started",
				slog.String("timezone", loc.String()),
				slog.Int("users", a.store.Count()),
			)
			return nil
		},
		OnStop: func(ctx context.Context, rt coretelegram.Runtime) error {
			if a.scheduler != nil {
				a.scheduler.Stop()
			}
			return nil
		},
	}, nil
}
