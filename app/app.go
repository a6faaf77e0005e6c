package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"chainpulse/analytics"
	"chainpulse/backtest"
	"chainpulse/cache"
	"chainpulse/config"
	"chainpulse/database"
	"chainpulse/database/backtests"
	"chainpulse/database/marketdata"
	"chainpulse/database/signals"
	"chainpulse/database/strategies"
	"chainpulse/feed"
	"chainpulse/handlers"
	"chainpulse/realtime"
)

// App represents the main application
type App struct {
	config         *config.Config
	feedManager    *feed.ConnectionManager
	handlerManager *handlers.HandlerManager
	db             *database.Database
	redis          *cache.RedisClient

	signalRepo     *signals.Repository
	strategiesRepo *strategies.Repository
	backtestsRepo  *backtests.Repository
	marketRepo     *marketdata.Repository

	broker         *realtime.Broker
	analyzer       *ChainAnalyzer
	strategyRunner *StrategyRunner
	signalPruner   *SignalPruner
	backtestEngine *backtest.Engine
}

// New creates a new application instance
func New(cfg *config.Config) *App {
	return &App{
		config:         cfg,
		feedManager:    feed.NewConnectionManager(cfg.FeedWSURL, cfg.FeedAPIKey, cfg.Underlyings),
		handlerManager: handlers.NewHandlerManager(),
	}
}

// Start starts the application
func (a *App) Start() error {
	// Setup context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 1. Database Connection
	fmt.Println("🗄️  Connecting to database...")

	dbPort, err := strconv.Atoi(a.config.DatabasePort)
	if err != nil {
		return fmt.Errorf("invalid database port: %w", err)
	}

	db, err := database.Connect(
		a.config.DatabaseHost,
		dbPort,
		a.config.DatabaseName,
		a.config.DatabaseUser,
		a.config.DatabasePassword,
	)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	a.db = db

	if err := a.db.Migrate(); err != nil {
		return fmt.Errorf("schema migration failed: %w", err)
	}

	// 2. TimescaleDB bootstrap over the raw connection
	rawDB, err := database.NewConnection(database.Config{
		Host:     a.config.DatabaseHost,
		Port:     a.config.DatabasePort,
		User:     a.config.DatabaseUser,
		Password: a.config.DatabasePassword,
		DBName:   a.config.DatabaseName,
	})
	if err != nil {
		return fmt.Errorf("raw database connection failed: %w", err)
	}
	if err := rawDB.EnsureTimescale(); err != nil {
		log.Printf("⚠️  TimescaleDB setup skipped: %v", err)
	}
	_ = rawDB.Close()

	// 3. Redis Connection
	fmt.Println("🧠 Connecting to Redis...")
	redisClient := cache.NewRedisClient(
		a.config.RedisHost,
		a.config.RedisPort,
		a.config.RedisPassword,
	)
	if redisClient == nil {
		fmt.Println("⚠️  Redis connection failed. Caching disabled.")
	} else {
		a.redis = redisClient
	}

	// 4. Repositories
	gdb := a.db.DB()
	a.signalRepo = signals.NewRepository(gdb)
	a.strategiesRepo = strategies.NewRepository(gdb)
	a.backtestsRepo = backtests.NewRepository(gdb)
	a.marketRepo = marketdata.NewRepository(gdb)

	// 5. Realtime Broker
	a.broker = realtime.NewBroker()
	go a.broker.Run()

	// 6. Analyzer and feed handlers
	detector := analytics.NewPatternDetector(thresholdsFromConfig(a.config.Analytics))
	a.analyzer = NewChainAnalyzer(
		detector,
		a.signalRepo,
		cache.NewSignalCache(a.redis),
		a.broker,
		a.config.Analytics.MinPersistConfidence,
	)
	a.setupHandlers()

	// 7. Backtest engine
	a.backtestEngine = backtest.NewEngine(a.strategiesRepo, a.marketRepo, a.backtestsRepo)

	// 8. Connect chain data feed
	if err := a.feedManager.Connect(); err != nil {
		return fmt.Errorf("chain feed connection failed: %w", err)
	}

	// 9. Background loops
	log.Println("🚀 Starting background loops...")

	a.strategyRunner = NewStrategyRunner(
		a.strategiesRepo,
		a.marketRepo,
		a.broker,
		a.config.Underlyings,
		time.Duration(a.config.Analytics.AnalyzeIntervalSec)*time.Second,
	)
	go a.strategyRunner.Start()

	a.signalPruner = NewSignalPruner(
		a.signalRepo,
		time.Duration(a.config.Analytics.SignalRetentionHours)*time.Hour,
	)
	go a.signalPruner.Start()

	// Setup WaitGroup for goroutines
	var wg sync.WaitGroup

	// 10. Start feed health monitoring
	wg.Add(1)
	go func() {
		defer wg.Done()
		a.feedManager.RunHealthMonitor(ctx)
	}()

	// 11. Start message processing
	wg.Add(1)
	go func() {
		defer wg.Done()
		a.readAndProcessMessages(ctx)
	}()

	// 12. Wait for interrupt and perform graceful shutdown
	err = a.gracefulShutdown(cancel)
	wg.Wait()
	return err
}

// RunBacktest executes a backtest for a stored strategy
func (a *App) RunBacktest(ctx context.Context, req backtest.RunRequest, userID string) (*backtest.Run, error) {
	if a.backtestEngine == nil {
		return nil, fmt.Errorf("backtest engine not initialized")
	}
	return a.backtestEngine.Run(ctx, req, userID)
}

// gracefulShutdown handles graceful shutdown with timeout
func (a *App) gracefulShutdown(cancel context.CancelFunc) error {
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	<-interrupt
	fmt.Println("\n🛑 Shutdown signal received, initiating graceful shutdown...")

	// Cancel context to stop all goroutines
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	shutdownComplete := make(chan struct{})
	go func() {
		if a.strategyRunner != nil {
			fmt.Println("🎯 Stopping strategy runner...")
			a.strategyRunner.Stop()
		}
		if a.signalPruner != nil {
			fmt.Println("🧹 Stopping signal pruner...")
			a.signalPruner.Stop()
		}
		if a.broker != nil {
			fmt.Println("📢 Stopping realtime broker...")
			a.broker.Stop()
		}

		fmt.Println("📡 Closing chain feed connection...")
		if err := a.feedManager.Close(); err != nil {
			log.Printf("Error closing chain feed: %v", err)
		} else {
			fmt.Println("✅ Chain feed closed")
		}

		if a.db != nil {
			if err := a.db.Close(); err != nil {
				log.Printf("Error closing database: %v", err)
			} else {
				fmt.Println("✅ Database connection closed")
			}
		}

		if a.redis != nil {
			if err := a.redis.Close(); err != nil {
				log.Printf("Error closing redis: %v", err)
			} else {
				fmt.Println("✅ Redis connection closed")
			}
		}

		close(shutdownComplete)
	}()

	select {
	case <-shutdownComplete:
		fmt.Println("✅ Graceful shutdown completed")
		return nil
	case <-shutdownCtx.Done():
		fmt.Println("⚠️  Shutdown timeout exceeded, forcing exit")
		return fmt.Errorf("shutdown timeout")
	}
}

// readAndProcessMessages reads frames from the feed and routes them
func (a *App) readAndProcessMessages(ctx context.Context) {
	reconnectDelay := 5 * time.Second
	maxReconnectDelay := 60 * time.Second

	for {
		select {
		case <-ctx.Done():
			return
		default:
			message, err := a.feedManager.ReadMessage()
			if err != nil {
				select {
				case <-ctx.Done():
					return
				default:
					log.Printf("⚠️  Feed error: %v", err)
					log.Printf("🔄 Attempting to reconnect in %v...", reconnectDelay)

					select {
					case <-ctx.Done():
						return
					case <-time.After(reconnectDelay):
					}

					if err := a.feedManager.Reconnect(); err != nil {
						log.Printf("❌ Reconnection failed: %v", err)
						// Exponential backoff
						reconnectDelay = reconnectDelay * 2
						if reconnectDelay > maxReconnectDelay {
							reconnectDelay = maxReconnectDelay
						}
						continue
					}

					reconnectDelay = 5 * time.Second
					continue
				}
			}

			if err := a.handlerManager.HandleMessage("chain_snapshot", message); err != nil {
				log.Printf("Handler error: %v", err)
				continue
			}
		}
	}
}

// setupHandlers initializes and registers all message handlers
func (a *App) setupHandlers() {
	chainHandler := handlers.NewChainSnapshotHandler(a.marketRepo, a.broker, a.analyzer)
	a.handlerManager.RegisterHandler("chain_snapshot", chainHandler)
}

// thresholdsFromConfig maps configured thresholds onto detector defaults
func thresholdsFromConfig(cfg config.AnalyticsConfig) analytics.DetectionThresholds {
	t := analytics.DefaultThresholds()
	t.OIChange = cfg.OIChangeThreshold
	t.OIBuildup = cfg.OIBuildupThreshold
	t.OISupport = cfg.OISupportThreshold
	t.PremiumChange = cfg.PremiumChangePct
	t.PremiumSpike = cfg.PremiumSpikePct
	t.Volume = cfg.VolumeThreshold
	t.ATMWindowPct = cfg.ATMWindowPct
	t.PriceProximityPct = cfg.PriceProximityPct
	t.MaxPainDistancePct = cfg.MaxPainDistancePct
	t.GammaSqueezeOI = cfg.GammaSqueezeOI
	return t
}
