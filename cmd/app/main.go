package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"gemtrader/configs"
	"gemtrader/internal/database"
	delivery "gemtrader/internal/delivery/http"
	"gemtrader/internal/domain"
	"gemtrader/internal/infra"
	"gemtrader/internal/middleware"
	"gemtrader/internal/repository"
	"gemtrader/internal/repository/memory"
	"gemtrader/internal/service"
	"gemtrader/internal/usecase"
	"gemtrader/pkg/logger"
	"gemtrader/pkg/metrics"
)

// stores groups the repositories of the selected backend
type stores struct {
	backend    string
	users      domain.UserRepository
	assets     domain.AssetRepository
	portfolios domain.PortfolioRepository
	trades     domain.TradeRepository
	ledger     domain.TradeLedger
	pool       *pgxpool.Pool
}

func main() {
	envErr := godotenv.Load()

	cfg := configs.Load()

	if err := logger.Init(logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		FilePath:   cfg.Log.File,
		MaxSizeMB:  100,
		MaxBackups: 5,
		MaxAgeDays: 30,
		Compress:   true,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialise logger: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if envErr != nil {
		logger.Debug(ctx, ".env file not found, using environment variables")
	}

	if err := run(ctx, cfg); err != nil {
		logger.Fatal(ctx, "gemtrader stopped with error", "error", err)
	}
	logger.Info(context.Background(), "server exited gracefully")
}

func run(ctx context.Context, cfg *configs.Config) error {
	m := metrics.New()

	st, err := openStores(ctx, cfg)
	if err != nil {
		return err
	}
	if st.pool != nil {
		defer st.pool.Close()
	}

	maxChange, err := decimal.NewFromString(cfg.Prices.DriftMaxFraction)
	if err != nil {
		return fmt.Errorf("invalid PRICE_DRIFT_MAX_FRACTION %q: %w", cfg.Prices.DriftMaxFraction, err)
	}

	ranking := service.NewRankingService(st.users, m)
	if cfg.Redis.URL != "" {
		client, err := infra.NewRedisClient(ctx, cfg.Redis.URL)
		if err != nil {
			logger.Warn(ctx, "leaderboard mirror disabled", "error", err)
		} else {
			defer client.Close()
			ranking.SetPublisher(infra.NewRedisLeaderboard(client, cfg.Redis.LeaderboardKey))
		}
	}

	assetService := service.NewAssetService(st.assets)
	priceService := service.NewAssetPriceService(st.assets, m, maxChange, nil)
	userService := service.NewUserService(st.users, st.portfolios, ranking, cfg.Trading.StartingGems)
	portfolioService := service.NewPortfolioService(st.portfolios, st.users)
	analyticsService := service.NewAnalyticsService(st.trades, st.portfolios)
	tradingService := usecase.NewTradingService(
		st.portfolios,
		st.users,
		st.trades,
		st.ledger,
		assetService,
		ranking,
		m,
		cfg.Trading.StreakWindow,
	)

	if err := ranking.Recompute(ctx); err != nil {
		return fmt.Errorf("failed to build initial leaderboard: %w", err)
	}

	scheduler := infra.NewScheduler(priceService, cfg.Prices.DriftSchedule)
	if err := scheduler.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	defer scheduler.Stop()

	auth := middleware.NewAuth(cfg.Auth.JWTSecret)
	if cfg.Auth.JWTSecret == "" {
		if cfg.IsProduction() {
			return errors.New("JWT_SECRET is required in production")
		}
		logger.Warn(ctx, "JWT_SECRET not set, using development secret")
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	delivery.SetupRoutes(e, &delivery.RouterConfig{
		UserHandler:        delivery.NewUserHandler(userService, portfolioService),
		TradeHandler:       delivery.NewTradeHandler(tradingService, assetService),
		LeaderboardHandler: delivery.NewLeaderboardHandler(ranking),
		AnalyticsHandler:   delivery.NewAnalyticsHandler(analyticsService),
		AssetHandler:       delivery.NewAssetHandler(assetService),
		AdminHandler:       delivery.NewAdminHandler(assetService, priceService, ranking, userService),
		Auth:               auth,
		TradeRateLimit:     cfg.Trading.RateLimit,
	})

	var db pinger
	if st.pool != nil {
		db = st.pool
	}

	apiServer := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      e,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	opsServer := &http.Server{
		Addr:         ":" + cfg.Server.OpsPort,
		Handler:      newOpsRouter(db, st.backend, m),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	logger.Info(ctx, "gemtrader starting",
		"api_addr", apiServer.Addr,
		"ops_addr", opsServer.Addr,
		"env", cfg.Server.Env,
		"storage", st.backend,
		"starting_gems", cfg.Trading.StartingGems,
		"streak_window", cfg.Trading.StreakWindow.String(),
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error { return serve(apiServer) })
	g.Go(func() error { return serve(opsServer) })
	g.Go(func() error { return ranking.RunPublisher(gctx) })
	g.Go(func() error {
		<-gctx.Done()
		logger.Info(context.Background(), "shutting down servers")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		return errors.Join(apiServer.Shutdown(shutdownCtx), opsServer.Shutdown(shutdownCtx))
	})

	return g.Wait()
}

func serve(srv *http.Server) error {
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server %s failed: %w", srv.Addr, err)
	}
	return nil
}

// openStores selects PostgreSQL when DATABASE_URL is set and the in-memory backend otherwise
func openStores(ctx context.Context, cfg *configs.Config) (*stores, error) {
	if cfg.Database.URL == "" {
		store := memory.NewStore()
		logger.Info(ctx, "using in-memory storage")
		return &stores{
			backend:    "memory",
			users:      store.Users(),
			assets:     store.Assets(),
			portfolios: store.Portfolios(),
			trades:     store.Trades(),
			ledger:     store,
		}, nil
	}

	pool, err := infra.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.RunMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	trades := repository.NewTradeRepository(pool)
	return &stores{
		backend:    "postgres",
		users:      repository.NewUserRepository(pool),
		assets:     repository.NewAssetRepository(pool),
		portfolios: repository.NewPortfolioRepository(pool),
		trades:     trades,
		ledger:     trades,
		pool:       pool,
	}, nil
}
