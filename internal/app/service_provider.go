package app

import (
	authAPI "casino_engine/internal/api/auth"
	engineAPI "casino_engine/internal/api/engine"
	leaderboardAPI "casino_engine/internal/api/leaderboard"
	"casino_engine/internal/config"
	"casino_engine/internal/config/env"
	"casino_engine/internal/events"
	"casino_engine/internal/game"
	"casino_engine/internal/games/blackjack"
	"casino_engine/internal/games/crash"
	"casino_engine/internal/games/dice"
	"casino_engine/internal/games/mines"
	"casino_engine/internal/games/roulette"
	"casino_engine/internal/games/slots"
	"casino_engine/internal/ledger"
	"casino_engine/internal/logger"
	"casino_engine/internal/middleware"
	"casino_engine/internal/repository"
	"casino_engine/internal/repository/auth_repo"
	"casino_engine/internal/repository/mem_auth_repo"
	"casino_engine/internal/repository/mem_user_repo"
	"casino_engine/internal/repository/user_repo"
	"casino_engine/internal/service"
	authServ "casino_engine/internal/service/auth"
	engineServ "casino_engine/internal/service/engine"
	"casino_engine/pkg/rng"
	"context"
	"net/http"

	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/avito-tech/go-transaction-manager/trm/v2"
	"github.com/avito-tech/go-transaction-manager/trm/v2/manager"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type ServiceProvider struct {
	//TXManager
	txManager trm.Manager

	// Database. nil dbClient означает in-memory режим
	pgConfig config.PGConfig
	dbClient *pgxpool.Pool
	memMode  bool

	// Auth bits
	jwtCfg   config.JWTConfig
	authRepo repository.AuthRepository
	authServ service.AuthService
	authHand *authAPI.Handler

	// User bits
	userRepo repository.UserRepository

	// Engine bits
	gamesCfg    config.GamesConfig
	ledger      *ledger.Ledger
	crashTable  *crash.Table
	registry    game.Registry
	leaderboard *events.Leaderboard
	engineServ  service.EngineService
	engineHand  *engineAPI.Handler
	boardHand   *leaderboardAPI.Handler

	// Router and HTTP config
	httpCfg config.HTTPConfig
	router  chi.Router
}

func newServiceProvider() *ServiceProvider {
	return &ServiceProvider{}
}

func (sp *ServiceProvider) PgConfig() config.PGConfig {
	if sp.pgConfig == nil && !sp.memMode {
		cfg, err := env.NewPGConfig()
		if err != nil {
			// Без PG_DSN работаем на хранилище в памяти
			logger.Log.Warn("PG_DSN is not set, falling back to in-memory storage")
			sp.memMode = true
			return nil
		}
		sp.pgConfig = cfg
	}
	return sp.pgConfig
}

func (sp *ServiceProvider) DBClient(ctx context.Context) *pgxpool.Pool {
	if sp.dbClient == nil {
		dbc, err := pgxpool.New(ctx, sp.PgConfig().DSN())
		if err != nil {
			panic("failed to create db pool: " + err.Error())
		}
		err = dbc.Ping(ctx)
		if err != nil {
			panic("failed to ping db: " + err.Error())
		}
		sp.dbClient = dbc
	}
	return sp.dbClient
}

func (sp *ServiceProvider) AuthRepo(ctx context.Context) repository.AuthRepository {
	if sp.authRepo == nil {
		if sp.PgConfig() == nil {
			sp.authRepo = mem_auth_repo.NewAuthRepository(sp.UserRepo(ctx))
		} else {
			sp.authRepo = auth_repo.NewAuthRepository(sp.DBClient(ctx))
		}
	}
	return sp.authRepo
}

func (sp *ServiceProvider) UserRepo(ctx context.Context) repository.UserRepository {
	if sp.userRepo == nil {
		if sp.PgConfig() == nil {
			sp.userRepo = mem_user_repo.NewUserRepository()
		} else {
			sp.userRepo = user_repo.NewUserRepository(sp.DBClient(ctx))
		}
	}
	return sp.userRepo
}

func (sp *ServiceProvider) TXManager(ctx context.Context) trm.Manager {
	if sp.txManager == nil {
		if sp.PgConfig() == nil {
			sp.txManager = ledger.PassthroughManager{}
			return sp.txManager
		}
		m, err := manager.New(trmpgx.NewDefaultFactory(sp.DBClient(ctx)))
		if err != nil {
			panic("failed to create tx manager: " + err.Error())
		}
		sp.txManager = m
	}
	return sp.txManager
}

func (sp *ServiceProvider) JWTCfg() config.JWTConfig {
	if sp.jwtCfg == nil {
		cfg, err := env.NewJWTConfig()
		if err != nil {
			panic("failed to get jwt config: " + err.Error())
		}
		sp.jwtCfg = cfg
	}
	return sp.jwtCfg
}

func (sp *ServiceProvider) GamesCfg() config.GamesConfig {
	if sp.gamesCfg == nil {
		cfg, err := env.NewGamesConfigFromYAML("config.yaml")
		if err != nil {
			panic("failed to get games config: " + err.Error())
		}
		sp.gamesCfg = cfg
	}
	return sp.gamesCfg
}

func (sp *ServiceProvider) Ledger(ctx context.Context) *ledger.Ledger {
	if sp.ledger == nil {
		sp.ledger = ledger.New(sp.UserRepo(ctx), sp.TXManager(ctx))
	}
	return sp.ledger
}

func (sp *ServiceProvider) CrashTable() *crash.Table {
	if sp.crashTable == nil {
		cfg := sp.GamesCfg()
		sp.crashTable = crash.NewTable(crash.Config{
			Countdown:  cfg.CrashCountdown(),
			GrowthRate: cfg.CrashGrowthRate(),
		}, game.TimerScheduler{}, rng.CryptoSeedSource{})
	}
	return sp.crashTable
}

func (sp *ServiceProvider) Registry() game.Registry {
	if sp.registry == nil {
		cfg := sp.GamesCfg()
		r := make(game.Registry)
		r.Register(dice.Definition())
		r.Register(slots.Definition())
		r.Register(roulette.Definition())
		r.Register(mines.Definition())
		r.Register(blackjack.Definition(blackjack.Config{
			DealerTick:  cfg.BlackjackDealerTick(),
			TurnTimeout: cfg.BlackjackTurnTimeout(),
		}))
		r.Register(crash.Definition(sp.CrashTable()))
		sp.registry = r
	}
	return sp.registry
}

func (sp *ServiceProvider) Leaderboard() *events.Leaderboard {
	if sp.leaderboard == nil {
		sp.leaderboard = events.NewLeaderboard()
	}
	return sp.leaderboard
}

func (sp *ServiceProvider) EngineService(ctx context.Context) service.EngineService {
	if sp.engineServ == nil {
		sp.engineServ = engineServ.NewEngineService(engineServ.Deps{
			Registry:  sp.Registry(),
			Ledger:    sp.Ledger(ctx),
			Seeds:     rng.CryptoSeedSource{},
			Scheduler: game.TimerScheduler{},
			Sink: events.NewFanout(
				sp.Leaderboard(),
				events.NewFeedLog(logger.Log),
			),
			MaxBet: sp.GamesCfg().MaxBet(),
		})
	}
	return sp.engineServ
}

func (sp *ServiceProvider) AuthService(ctx context.Context) service.AuthService {
	if sp.authServ == nil {
		sp.authServ = authServ.NewAuthService(
			sp.TXManager(ctx),
			sp.UserRepo(ctx),
			sp.AuthRepo(ctx),
			sp.JWTCfg(),
			sp.GamesCfg().StartingBalance(),
		)
	}
	return sp.authServ
}

func (sp *ServiceProvider) AuthHandler(ctx context.Context) *authAPI.Handler {
	if sp.authHand == nil {
		sp.authHand = authAPI.NewHandler(authAPI.HandlerDeps{
			Serv: sp.AuthService(ctx),
		})
	}
	return sp.authHand
}

func (sp *ServiceProvider) EngineHandler(ctx context.Context) *engineAPI.Handler {
	if sp.engineHand == nil {
		sp.engineHand = engineAPI.NewHandler(engineAPI.HandlerDeps{
			Serv: sp.EngineService(ctx),
		})
	}
	return sp.engineHand
}

func (sp *ServiceProvider) LeaderboardHandler() *leaderboardAPI.Handler {
	if sp.boardHand == nil {
		sp.boardHand = leaderboardAPI.NewHandler(leaderboardAPI.HandlerDeps{
			Board: sp.Leaderboard(),
		})
	}
	return sp.boardHand
}

func (sp *ServiceProvider) HTTPCfg() config.HTTPConfig {
	if sp.httpCfg == nil {
		cfg, err := env.NewHTTPConfig()
		if err != nil {
			panic("failed to get http config: " + err.Error())
		}
		sp.httpCfg = cfg
	}

	return sp.httpCfg
}

func (sp *ServiceProvider) Router(ctx context.Context) chi.Router {
	if sp.router == nil {
		r := chi.NewRouter()

		// CORS middleware
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
			ExposedHeaders:   []string{"Link"},
			AllowCredentials: false,
			MaxAge:           60 * 15,
		}))

		r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
		r.Handle("/metrics", promhttp.Handler())

		// Auth endpoints
		authHandler := sp.AuthHandler(ctx)
		r.Route("/auth", func(rr chi.Router) {
			rr.Post("/register", authHandler.Register)
			rr.Post("/login", authHandler.Login)
			rr.Post("/refresh", authHandler.Refresh)
			rr.Post("/logout", authHandler.Logout)
		})

		// Engine endpoints, под JWT
		engineHandler := sp.EngineHandler(ctx)
		r.Route("/rounds", func(rr chi.Router) {
			rr.Use(middleware.Auth(sp.JWTCfg().AccessTokenSecretKey()))
			rr.Post("/", engineHandler.PlaceBet)
			rr.Post("/{roundID}/act", engineHandler.Act)
			rr.Get("/{roundID}", engineHandler.RoundState)
		})

		// Leaderboard
		r.Get("/leaderboard", sp.LeaderboardHandler().Top)

		sp.router = r
	}

	return sp.router
}
