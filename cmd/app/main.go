package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"zimtrader/configs"
	"zimtrader/internal/database"
	delivery "zimtrader/internal/delivery/http"
	"zimtrader/internal/gateway"
	"zimtrader/internal/infra"
	"zimtrader/internal/logger"
	"zimtrader/internal/repository"
	"zimtrader/internal/service"
	"zimtrader/internal/simulator"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	// Load configuration
	cfg, err := configs.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zlog, err := logger.NewLogger(cfg.Logger.Level, cfg.Logger.Format)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	ctx := context.Background()

	// Initialize database
	db, err := infra.NewDatabase(ctx, cfg.Database.URL, zlog)
	if err != nil {
		zlog.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := database.RunMigrations(db, zlog); err != nil {
		zlog.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	tradeRepo := repository.NewTradeRepository(db)
	txRepo := repository.NewTransactionRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)
	kycRepo := repository.NewKYCRepository(db)
	alertRepo := repository.NewAMLAlertRepository(db)
	modelRepo := repository.NewModelRegistryRepository(db)

	// Initialize the brokerage gateway client
	gatewayClient := gateway.NewClient(gateway.Config{
		BaseURL:     cfg.Alpaca.BaseURL,
		DataBaseURL: cfg.Alpaca.DataBaseURL,
		APIKey:      cfg.Alpaca.APIKey,
		APISecret:   cfg.Alpaca.APISecret,
		RateLimit:   rate.Limit(cfg.Alpaca.RateLimit),
		Burst:       cfg.Alpaca.RateLimitBurst,
	}, zlog)

	// Initialize services
	roleService := service.NewRoleService(roleRepo)
	auditService := service.NewAuditService(auditRepo, zlog)
	walletService := service.NewWalletService(profileRepo, txRepo, zlog)
	tradeService := service.NewTradeService(tradeRepo, gatewayClient, zlog)
	complianceService := service.NewComplianceService(
		kycRepo, alertRepo, txRepo,
		cfg.Compliance.LargeTransactionThreshold,
		cfg.Compliance.HighSeverityThreshold,
		zlog,
	)

	// Initialize the demo trading simulation
	engine := simulator.NewEngine(zlog, time.Now().UnixNano())

	// AML sweep runs hourly; the 24h lookback absorbs missed runs
	cronScheduler := cron.New()
	if _, err := cronScheduler.AddFunc("@hourly", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if err := complianceService.SweepLargeTransactions(ctx); err != nil {
			zlog.Error("AML sweep failed", zap.Error(err))
		}
	}); err != nil {
		zlog.Fatal("Failed to schedule AML sweep", zap.Error(err))
	}
	cronScheduler.Start()
	defer cronScheduler.Stop()

	// Initialize handlers and routes
	e := echo.New()
	e.HideBanner = true

	delivery.SetupRoutes(e, &delivery.RouterConfig{
		JWTSecret:         cfg.JWT.Secret,
		RoleResolver:      roleService,
		AuthHandler:       delivery.NewAuthHandler(userRepo, profileRepo, roleService, cfg.JWT.Secret),
		UserHandler:       delivery.NewUserHandler(userRepo, profileRepo, roleService),
		TradeHandler:      delivery.NewTradeHandler(tradeService, auditService),
		WalletHandler:     delivery.NewWalletHandler(walletService, auditService),
		DemoHandler:       delivery.NewDemoHandler(engine),
		MarketHandler:     delivery.NewMarketHandler(gatewayClient, zlog),
		AdminHandler:      delivery.NewAdminHandler(userRepo, roleService, auditService),
		ComplianceHandler: delivery.NewComplianceHandler(complianceService, auditService),
		AuditHandler:      delivery.NewAuditHandler(auditService),
		ModelHandler:      delivery.NewModelHandler(modelRepo, auditService),
	})

	// Start HTTP server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	go func() {
		zlog.Info("Starting server",
			zap.String("addr", addr),
			zap.String("env", cfg.Server.Env),
		)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			zlog.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("Shutting down server...")

	// Stop the simulation so its periodic tasks drain before the server exits
	if err := engine.Activate(false); err != nil {
		zlog.Error("Failed to stop simulation", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		zlog.Fatal("Server forced to shutdown", zap.Error(err))
	}

	zlog.Info("Server exited gracefully")
}
