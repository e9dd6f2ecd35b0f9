package app

import (
	"context"
	"fmt"
	"log/slog"

	"immo-client/internal/api"
	"immo-client/internal/config"
	"immo-client/internal/event"
	"immo-client/internal/guard"
	"immo-client/internal/listing"
	"immo-client/internal/model"
	"immo-client/internal/notify"
	"immo-client/internal/session"
	"immo-client/internal/storage"
	"immo-client/internal/vault"
	"immo-client/internal/verify"
)

// UserAgent identifies the client to the API and feeds the device
// fingerprint.
const UserAgent = "immo-client/1"

type App struct {
	Config  *config.Config
	Client  *api.Client
	Bus     *event.InMemoryBus
	Session *session.Manager
	Guards  *guard.Guards
	Toasts  *notify.Toasts
	Limits  listing.Limits

	logger       *slog.Logger
	cleanupFuncs []func()
}

// New wires the components in dependency order and restores any persisted
// session.
func New(cfg *config.Config) (*App, error) {
	logger := slog.Default()

	store, err := storage.NewFileStore(cfg.SessionDir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize session storage: %w", err)
	}

	fingerprint := cfg.DeviceFingerprint
	if fingerprint == "" {
		fingerprint = vault.CurrentFingerprint(UserAgent).String()
	}

	v, err := vault.New(cfg.EncryptionKey, fingerprint)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize vault: %w", err)
	}

	client, err := api.New(cfg.APIBaseURL,
		api.WithTimeout(cfg.APITimeout),
		api.WithRateLimit(cfg.APIRateLimitRPM),
		api.WithLogger(logger.With("component", "api")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize api client: %w", err)
	}

	bus := event.NewBus()
	manager := session.New(store, v, client, bus, session.WithLogger(logger.With("component", "session")))
	client.SetTokenSource(manager.AccessToken)

	if manager.Hydrate() {
		logger.Debug("session restored", "store", store.RootAbs())
	}

	toasts := notify.NewToasts()

	return &App{
		Config:  cfg,
		Client:  client,
		Bus:     bus,
		Session: manager,
		Guards:  guard.New(manager, guard.PolicyFromConfig(cfg)),
		Toasts:  toasts,
		Limits:  listing.LimitsFromConfig(cfg),
		logger:  logger,
		cleanupFuncs: []func(){
			toasts.Clear,
		},
	}, nil
}

// NewComposer opens a listing form for the current user. The contact
// section follows the session until the user edits it; cancel ctx to stop
// following.
func (a *App) NewComposer(ctx context.Context) *listing.Composer {
	submitter := &refreshingSubmitter{next: a.Client, session: a.Session, logger: a.logger}
	composer := listing.NewComposer(submitter, a.Limits,
		listing.WithBus(a.Bus),
		listing.WithLogger(a.logger.With("component", "listing")),
	)

	a.cleanupFuncs = append(a.cleanupFuncs, followSession(ctx, composer, a.Session))

	return composer
}

type sessionFeed interface {
	CurrentUser() (model.UserProfile, bool)
	Subscribe() (<-chan event.Event, func())
}

// followSession subscribes before reading the current user so a login in
// between still reaches the composer.
func followSession(ctx context.Context, composer *listing.Composer, feed sessionFeed) context.CancelFunc {
	events, unsubscribe := feed.Subscribe()

	if user, ok := feed.CurrentUser(); ok {
		composer.PrefillContact(user)
	}

	watchCtx, cancel := context.WithCancel(ctx)
	go func() {
		defer unsubscribe()
		composer.WatchSession(watchCtx, events)
	}()

	return cancel
}

func (a *App) NewVerifyFlow() *verify.Flow {
	flow := verify.New(a.Session, verify.WithToasts(a.Toasts))
	a.cleanupFuncs = append(a.cleanupFuncs, flow.Close)
	return flow
}

// Close releases background work started by the app.
func (a *App) Close() {
	for _, cleanup := range a.cleanupFuncs {
		cleanup()
	}
	a.cleanupFuncs = nil
}
