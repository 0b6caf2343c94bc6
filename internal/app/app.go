package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/riskibarqy/nfl-pickem/internal/config"
	"github.com/riskibarqy/nfl-pickem/internal/domain/history"
	"github.com/riskibarqy/nfl-pickem/internal/domain/match"
	"github.com/riskibarqy/nfl-pickem/internal/domain/pick"
	"github.com/riskibarqy/nfl-pickem/internal/domain/pickem"
	"github.com/riskibarqy/nfl-pickem/internal/domain/result"
	"github.com/riskibarqy/nfl-pickem/internal/domain/standing"
	"github.com/riskibarqy/nfl-pickem/internal/domain/team"
	"github.com/riskibarqy/nfl-pickem/internal/domain/usage"
	"github.com/riskibarqy/nfl-pickem/internal/domain/user"
	cacherepo "github.com/riskibarqy/nfl-pickem/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/nfl-pickem/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/nfl-pickem/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/nfl-pickem/internal/interfaces/httpapi"
	"github.com/riskibarqy/nfl-pickem/internal/platform/cache"
	idgen "github.com/riskibarqy/nfl-pickem/internal/platform/id"
	"github.com/riskibarqy/nfl-pickem/internal/platform/logging"
	"github.com/riskibarqy/nfl-pickem/internal/usecase"
)

type repositories struct {
	teams     team.Repository
	users     user.Repository
	matches   match.Repository
	picks     pick.Repository
	usage     usage.Repository
	history   history.Repository
	standings standing.Repository
	results   result.Repository
}

// NewHTTPServer builds the API server. The returned close function releases the
// database pool when the postgres driver is used.
func NewHTTPServer(ctx context.Context, cfg config.Config, logger *logging.Logger) (*http.Server, func() error, error) {
	if logger == nil {
		logger = logging.Default()
	}

	repos, closeRepos, err := buildRepositories(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	if cfg.CacheEnabled {
		repos = withReadCache(repos, cache.NewStore(cfg.CacheTTL))
		logger.Info("repository read cache enabled", "ttl", cfg.CacheTTL.String())
	}

	rules := pickem.DefaultRules()
	sessionSvc := usecase.NewSessionService(repos.users, cache.NewStore(cfg.SessionTTL), idgen.NewUUIDGenerator(), cfg.SessionTTL, logger.Named("sessions"))
	scheduleSvc := usecase.NewScheduleService(repos.matches, repos.teams, cfg.SeasonWeeks)
	pickSvc := usecase.NewPickService(
		repos.matches,
		repos.picks,
		repos.usage,
		repos.history,
		repos.users,
		repos.teams,
		rules,
		logger.Named("picks"),
	)
	resultSvc := usecase.NewResultService(repos.results, rules, logger.Named("results"))
	leaderboardSvc := usecase.NewLeaderboardService(repos.standings)
	dashboardSvc := usecase.NewDashboardService(repos.standings, repos.picks, repos.usage, repos.teams, scheduleSvc)
	auditSvc := usecase.NewLedgerAuditService(repos.users, repos.history, repos.picks, repos.usage, cfg.LedgerAuditWorkers, logger.Named("ledger_audit"))

	handler := httpapi.NewHandler(
		sessionSvc,
		scheduleSvc,
		pickSvc,
		resultSvc,
		leaderboardSvc,
		dashboardSvc,
		auditSvc,
		cfg.DisplayLocation,
		logger.Named("http"),
	)
	router := httpapi.NewRouter(handler, sessionSvc, logger.Named("http"), cfg.SwaggerEnabled, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		_ = closeRepos()
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, closeRepos, nil
}

func buildRepositories(ctx context.Context, cfg config.Config, logger *logging.Logger) (repositories, func() error, error) {
	if cfg.StorageDriver != config.StoragePostgres {
		logger.Info("using in-memory storage", "admins", cfg.AdminUsernames)
		return memoryRepositories(cfg.AdminUsernames), func() error { return nil }, nil
	}

	db, err := openDB(ctx, cfg)
	if err != nil {
		return repositories{}, nil, err
	}

	if cfg.DBAutoMigrate {
		version, err := postgres.Migrate(db)
		if err != nil {
			_ = db.Close()
			return repositories{}, nil, err
		}
		logger.Info("database migrated", "version", version)
	}
	if cfg.DBSeedOnStart {
		if err := postgres.BootstrapSeed(ctx, db, cfg.AdminUsernames); err != nil {
			_ = db.Close()
			return repositories{}, nil, err
		}
	}

	logger.Info("using postgres storage", "db_name", dbNameFromURL(cfg.DBURL))
	return repositories{
		teams:     postgres.NewTeamRepository(db),
		users:     postgres.NewUserRepository(db),
		matches:   postgres.NewMatchRepository(db),
		picks:     postgres.NewPickRepository(db),
		usage:     postgres.NewUsageRepository(db),
		history:   postgres.NewHistoryRepository(db),
		standings: postgres.NewStandingRepository(db),
		results:   postgres.NewResultRepository(db),
	}, db.Close, nil
}

func memoryRepositories(admins []string) repositories {
	users := memory.SeedUsers(admins)
	historical := memory.SeedHistoricalPicks()
	season := memory.NewSeason(users, memory.SeedMatches(), historical)

	return repositories{
		teams:     memory.NewTeamRepository(memory.SeedTeams()),
		users:     memory.NewUserRepository(users),
		matches:   memory.NewMatchRepository(season),
		picks:     memory.NewPickRepository(season),
		usage:     memory.NewUsageRepository(season),
		history:   memory.NewHistoryRepository(historical),
		standings: memory.NewStandingRepository(season),
		results:   memory.NewResultRepository(season),
	}
}

// withReadCache wraps the read-mostly repositories. Picks, usage and standings change on
// every submission and are always read through.
func withReadCache(repos repositories, store *cache.Store) repositories {
	repos.teams = cacherepo.NewTeamRepository(repos.teams, store)
	repos.users = cacherepo.NewUserRepository(repos.users, store)
	repos.matches = cacherepo.NewMatchRepository(repos.matches, store)
	repos.results = cacherepo.NewResultRepository(repos.results, store)
	return repos
}
