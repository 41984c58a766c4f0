// Package app wires the shop client components together.
package app

import (
	"context"

	"github.com/jrsteele09/go-shop-client/cart"
	"github.com/jrsteele09/go-shop-client/catalog"
	"github.com/jrsteele09/go-shop-client/internal/config"
	"github.com/jrsteele09/go-shop-client/preferences"
	"github.com/jrsteele09/go-shop-client/services"
	"github.com/jrsteele09/go-shop-client/sessions"
	"github.com/jrsteele09/go-shop-client/storage"
	"github.com/jrsteele09/go-shop-client/token"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

type App struct {
	Config      config.Config
	Sessions    *sessions.Store
	Client      *services.Client
	Catalog     *catalog.Cache
	Preferences *preferences.Cache
	Cart        *cart.Aggregator
}

// New builds the components over repo. A 401 from any service expires the
// session.
func New(ctx context.Context, cfg config.Config, repo storage.Repo) (*App, error) {
	inspector := token.NewRemoteInspector(ctx, cfg.GetJWKSURL())
	store, err := sessions.NewStore(repo, sessions.WithInspector(inspector))
	if err != nil {
		return nil, errors.Wrap(err, "[app.New] session store")
	}

	client, err := services.New(cfg, store, services.WithUnauthorizedHandler(func() {
		if err := store.Expire(); err != nil {
			log.Error().Err(err).Msg("failed to expire session")
		}
	}))
	if err != nil {
		return nil, errors.Wrap(err, "[app.New] services client")
	}

	products, err := catalog.New(client.Products)
	if err != nil {
		return nil, errors.Wrap(err, "[app.New] catalog")
	}
	prefs, err := preferences.New(repo, client.Products)
	if err != nil {
		return nil, errors.Wrap(err, "[app.New] preferences")
	}
	agg, err := cart.New(client.Shopping)
	if err != nil {
		return nil, errors.Wrap(err, "[app.New] cart")
	}

	return &App{
		Config:      cfg,
		Sessions:    store,
		Client:      client,
		Catalog:     products,
		Preferences: prefs,
		Cart:        agg,
	}, nil
}

// Initialise restores the session and the local preference sets.
func (a *App) Initialise(ctx context.Context) error {
	if err := a.Sessions.Initialize(ctx); err != nil {
		log.Warn().Err(err).Msg("session restore failed, continuing anonymous")
	}
	if err := a.Preferences.Load(); err != nil {
		return errors.Wrap(err, "[App.Initialise] load preferences")
	}
	sess := a.Sessions.Session()
	log.Debug().Str("state", sess.State.String()).Str("email", sess.Email()).Msg("session restored")
	return nil
}

// Login exchanges credentials for a token and starts a session with it.
func (a *App) Login(ctx context.Context, creds services.Credentials) error {
	raw, err := a.Client.Users.Login(ctx, creds)
	if err != nil {
		return err
	}
	return a.Sessions.Login(ctx, raw)
}
