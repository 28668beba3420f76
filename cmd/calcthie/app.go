package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/calcthie/calcthie/config"
	"github.com/calcthie/calcthie/internal/domain"
	"github.com/calcthie/calcthie/internal/infrastructure/cache"
	"github.com/calcthie/calcthie/internal/infrastructure/identity"
	"github.com/calcthie/calcthie/internal/infrastructure/localstore"
	"github.com/calcthie/calcthie/internal/infrastructure/remote"
	"github.com/calcthie/calcthie/internal/infrastructure/usda"
	"github.com/calcthie/calcthie/internal/usecase"
)

// app wires the client-side calculator for one command invocation
type app struct {
	cfg     *config.Config
	store   *localstore.Store
	syncer  *usecase.RemoteSyncer
	remote  *remote.Client
	auth    *identity.Authenticator
	session *domain.Session

	meal      *usecase.MealService
	favorites *usecase.FavoritesService
	goals     *usecase.GoalsService
	history   *usecase.HistoryService
	consumed  *usecase.ConsumedMealsService

	foodCache *cache.MemoryCache
	foods     domain.FoodLookup
}

type appOptions struct {
	dbPath  string
	verbose bool
}

func newApp(ctx context.Context, opts appOptions) (*app, error) {
	if !opts.verbose {
		log.SetOutput(io.Discard)
	}

	cfg, err := config.LoadClient()
	if err != nil {
		return nil, err
	}

	path := opts.dbPath
	if path == "" {
		path = cfg.Local.DBPath
	}
	if path == "" {
		if path, err = localstore.DefaultPath(); err != nil {
			return nil, err
		}
	}

	store, err := localstore.Open(path)
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:    cfg,
		store:  store,
		syncer: usecase.NewRemoteSyncer(cfg.Sync.Timeout),
	}

	var remoteStore domain.RemoteStore
	if cfg.Remote.BaseURL != "" {
		a.remote = remote.NewClient(cfg.Remote.BaseURL, cfg.Remote.Timeout, a.token)
		a.remote.SetDebug(opts.verbose)
		a.auth = identity.NewAuthenticator(cfg.Remote.BaseURL, cfg.Remote.Timeout, store)
		remoteStore = a.remote

		a.session, err = a.auth.Restore(ctx)
		if errors.Is(err, domain.ErrSessionExpired) {
			log.Printf("[Auth] Stored session expired; continuing signed out")
			err = nil
		}
		if err != nil {
			store.Close()
			return nil, err
		}
	}

	a.meal = usecase.NewMealService(store, remoteStore, a.syncer)
	a.favorites = usecase.NewFavoritesService(store, remoteStore, a.syncer)
	a.goals = usecase.NewGoalsService(store)
	a.history = usecase.NewHistoryService(store)
	a.consumed = usecase.NewConsumedMealsService(remoteStore)

	for _, load := range []func(context.Context) error{
		a.meal.LoadFromLocal,
		a.favorites.LoadFromLocal,
		a.goals.LoadFromLocal,
		a.history.LoadFromLocal,
	} {
		if err := load(ctx); err != nil {
			log.Printf("[App] WARNING: %v", err)
		}
	}

	return a, nil
}

// close waits for background pushes before releasing the local store
func (a *app) close() {
	a.syncer.Flush()
	if a.foodCache != nil {
		a.foodCache.Close()
	}
	if err := a.store.Close(); err != nil {
		log.Printf("[App] Failed to close local store: %v", err)
	}
}

func (a *app) token() string {
	if a.session == nil {
		return ""
	}
	return a.session.Token
}

// userID is "" when nobody is signed in
func (a *app) userID() string {
	if a.session == nil {
		return ""
	}
	return a.session.UserID
}

// foodLookup builds the cached FoodData Central lookup on first use
func (a *app) foodLookup() (domain.FoodLookup, error) {
	if a.foods != nil {
		return a.foods, nil
	}
	if a.cfg.USDA.APIKey == "" {
		return nil, fmt.Errorf("USDA API key is required (set CALCTHIE_USDA_API_KEY)")
	}

	client := usda.NewClientWithLimit(a.cfg.USDA.APIKey, a.cfg.USDA.BaseURL, a.cfg.RateLimit.USDA)
	a.foodCache = cache.NewMemoryCache()
	a.foods = usecase.NewFoodService(a.foodCache, client, usecase.FoodServiceConfig{CacheTTL: a.cfg.Cache.TTL})
	return a.foods, nil
}

func (a *app) requireSession() error {
	if a.auth == nil {
		return fmt.Errorf("%w: no remote backend configured (set CALCTHIE_REMOTE_BASE_URL)", domain.ErrNotAuthenticated)
	}
	if a.session == nil {
		return fmt.Errorf("%w: run `calcthie login` first", domain.ErrNotAuthenticated)
	}
	return nil
}
