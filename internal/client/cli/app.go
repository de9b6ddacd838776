package cli

import (
	"bufio"
	"context"
	"database/sql"
	"log/slog"
	"os"

	"github.com/MarcosHRFerreira/receitasecreta-api-sub000/internal/client/api"
	"github.com/MarcosHRFerreira/receitasecreta-api-sub000/internal/client/cache"
	"github.com/MarcosHRFerreira/receitasecreta-api-sub000/internal/client/config"
	"github.com/MarcosHRFerreira/receitasecreta-api-sub000/internal/client/repositories/credentials"
	"github.com/MarcosHRFerreira/receitasecreta-api-sub000/internal/client/services"
	"github.com/MarcosHRFerreira/receitasecreta-api-sub000/internal/logging"

	_ "modernc.org/sqlite"
)

// App wires the client together: credential store, transport, cache, and the
// three services, plus the interactive reader.
type App struct {
	config      *config.Config
	log         logging.Logger
	client      api.Client
	session     services.SessionService
	ingredients services.IngredientService
	images      services.ImageService
	db          *sql.DB
	cache       cache.Cache
	reader      *bufio.Reader
}

func NewApp(c *config.Config) (*App, error) {
	ctx := context.Background()

	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	db, err := credentials.InitDatabase(ctx, c.CredentialsDSN)
	if err != nil {
		log.Error(ctx, "error initializing credential store", "error", err)
		return nil, err
	}
	creds := credentials.NewSQLiteRepository(db)

	apiClient := api.NewRESTClient(c.BaseURL, creds, log)

	var readCache cache.Cache
	if c.RedisAddr != "" {
		readCache = cache.NewRedis(c.RedisAddr, c.RedisDB)
	} else {
		readCache = cache.NewMemory()
	}

	return &App{
		config:      c,
		log:         log,
		client:      apiClient,
		session:     services.NewSessionService(apiClient, creds, log, c.InitFloor),
		ingredients: services.NewIngredientService(apiClient, readCache, log),
		images:      services.NewImageService(apiClient, readCache, log),
		db:          db,
		cache:       readCache,
		reader:      bufio.NewReader(os.Stdin),
	}, nil
}

// Run hydrates the session, starts the invalidation watcher, and enters the
// REPL. It returns when the user exits or ctx is cancelled.
func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer a.Close()

	if err := a.session.Initialize(ctx); err != nil {
		a.log.Error(ctx, "session hydration failed", "error", err)
	}

	go a.session.StartWatcher(ctx, a.config.WatchInterval)

	a.Root(ctx)
}

// Close releases the transport, cache and credential store.
func (a *App) Close() {
	if err := a.client.Close(); err != nil {
		a.log.Error(context.Background(), "error closing api client", "error", err)
	}
	if err := a.cache.Close(); err != nil {
		a.log.Error(context.Background(), "error closing cache", "error", err)
	}
	if err := a.db.Close(); err != nil {
		a.log.Error(context.Background(), "error closing credential store", "error", err)
	}
}

func (a *App) isLoggedIn() bool {
	return a.session.IsAuthenticated()
}
