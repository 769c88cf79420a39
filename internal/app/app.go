package app

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/pickemhq/pickem/external/statsapi"
	"github.com/pickemhq/pickem/internal/config"
	"github.com/pickemhq/pickem/internal/domain/game"
	"github.com/pickemhq/pickem/internal/domain/pick"
	"github.com/pickemhq/pickem/internal/domain/session"
	"github.com/pickemhq/pickem/internal/domain/team"
	"github.com/pickemhq/pickem/internal/domain/user"
	"github.com/pickemhq/pickem/internal/infrastructure/account/clerk"
	cacherepo "github.com/pickemhq/pickem/internal/infrastructure/repository/cache"
	"github.com/pickemhq/pickem/internal/infrastructure/repository/memory"
	"github.com/pickemhq/pickem/internal/infrastructure/repository/postgres"
	"github.com/pickemhq/pickem/internal/interfaces/httpapi"
	basecache "github.com/pickemhq/pickem/internal/platform/cache"
	idgen "github.com/pickemhq/pickem/internal/platform/id"
	"github.com/pickemhq/pickem/internal/platform/logging"
	"github.com/pickemhq/pickem/internal/platform/resilience"
	"github.com/pickemhq/pickem/internal/usecase"
)

// Application owns the wired HTTP server and its backing resources.
type Application struct {
	Server *http.Server
	db     *sqlx.DB
	logger *logging.Logger
}

type repositories struct {
	teams    team.Repository
	games    game.Repository
	picks    pick.Repository
	sessions session.Repository
	users    user.Repository
}

func New(cfg config.Config, logger *logging.Logger) (*Application, error) {
	if logger == nil {
		logger = logging.Default()
	}

	var db *sqlx.DB
	var repos repositories
	var err error

	if strings.TrimSpace(cfg.DBURL) != "" {
		db, repos, err = newPostgresRepositories(cfg, logger)
		if err != nil {
			return nil, err
		}
	} else {
		logger.Warn("DB_URL not set, using in-memory repositories with seed data")
		repos = newMemoryRepositories()
	}

	sessionSvc := usecase.NewSessionService(repos.games, repos.sessions, repos.users, idgen.NewRandomGenerator())
	pickSvc := usecase.NewPickService(repos.games, repos.picks, repos.sessions)
	statsSvc := usecase.NewStatsService(repos.games, repos.picks)
	gameSvc := usecase.NewGameService(repos.games, repos.teams)
	userSvc := usecase.NewUserService(repos.users, repos.teams)
	maintenanceSvc := usecase.NewMaintenanceService(repos.games, repos.picks)

	var source usecase.ScheduleSource
	if cfg.StatsAPIEnabled {
		source = statsapi.NewClient(statsapi.ClientConfig{
			BaseURL:    cfg.StatsAPIBaseURL,
			Timeout:    cfg.StatsAPITimeout,
			MaxRetries: cfg.StatsAPIMaxRetries,
			Logger:     logger,
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.StatsAPICircuitEnabled,
				FailureThreshold: cfg.StatsAPICircuitFailureCount,
				OpenTimeout:      cfg.StatsAPICircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.StatsAPICircuitHalfOpenMaxReq,
			},
		})
	} else {
		logger.Warn("schedule ingestion disabled", "reason", "STATSAPI_ENABLED=false")
	}
	ingestionSvc := usecase.NewIngestionService(source, repos.teams, repos.games, maintenanceSvc)

	verifier := clerk.NewClient(clerk.ClientConfig{
		HTTPClient: &http.Client{Timeout: cfg.ClerkTimeout},
		BaseURL:    cfg.ClerkBaseURL,
		VerifyPath: cfg.ClerkVerifyPath,
		SecretKey:  cfg.ClerkSecretKey,
		CacheTTL:   cfg.ClerkCacheTTL,
		CacheSize:  cfg.ClerkCacheSize,
		Logger:     logger,
	})

	handler := httpapi.NewHandler(
		sessionSvc,
		pickSvc,
		statsSvc,
		gameSvc,
		userSvc,
		maintenanceSvc,
		ingestionSvc,
		logger,
	)
	router := httpapi.NewRouter(
		handler,
		verifier,
		logger,
		cfg.SwaggerEnabled,
		cfg.CORSAllowedOrigins,
		cfg.InternalJobToken,
	)

	if strings.TrimSpace(cfg.HTTPAddr) == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return &Application{
		Server: server,
		db:     db,
		logger: logger,
	}, nil
}

// Close releases resources that outlive the HTTP server.
func (a *Application) Close() error {
	if a == nil || a.db == nil {
		return nil
	}
	return a.db.Close()
}

func newPostgresRepositories(cfg config.Config, logger *logging.Logger) (*sqlx.DB, repositories, error) {
	dsn := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)

	db, err := otelsqlx.Open("postgres", dsn,
		otelsql.WithDBName(dbNameFromURL(dsn)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, repositories{}, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, repositories{}, fmt.Errorf("ping database: %w", err)
	}

	repos := repositories{
		teams:    postgres.NewTeamRepository(db),
		games:    postgres.NewGameRepository(db),
		picks:    postgres.NewPickRepository(db),
		sessions: postgres.NewSessionRepository(db),
		users:    postgres.NewUserRepository(db),
	}

	if cfg.CacheEnabled {
		store := basecache.NewStore(cfg.CacheTTL)
		repos.teams = cacherepo.NewTeamRepository(repos.teams, store)
		repos.games = cacherepo.NewGameRepository(repos.games, store)
	}

	logger.Info("postgres repositories ready",
		"db_name", dbNameFromURL(dsn),
		"cache_enabled", cfg.CacheEnabled,
	)

	return db, repos, nil
}

func newMemoryRepositories() repositories {
	gameRepo := memory.NewGameRepository(memory.SeedGames())
	pickRepo := memory.NewPickRepository(gameRepo)

	return repositories{
		teams:    memory.NewTeamRepository(memory.SeedTeams()),
		games:    gameRepo,
		picks:    pickRepo,
		sessions: memory.NewSessionRepository(pickRepo),
		users:    memory.NewUserRepository(),
	}
}
