package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Dosada05/swiss-tournament/brackets"
	"github.com/Dosada05/swiss-tournament/config"
	"github.com/Dosada05/swiss-tournament/db"
	"github.com/Dosada05/swiss-tournament/handlers"
	"github.com/Dosada05/swiss-tournament/middleware"
	"github.com/Dosada05/swiss-tournament/repositories"
	api "github.com/Dosada05/swiss-tournament/routes"
	"github.com/Dosada05/swiss-tournament/services"
	"github.com/Dosada05/swiss-tournament/storage"
)

const (
	dbConnectTimeout  = 5 * time.Second
	shutdownTimeout   = 15 * time.Second
	organizerTokenTTL = 24 * time.Hour
)

func main() {
	entrantsFlag := flag.String("entrants", "", "comma separated entrant names; runs one tournament and exits")
	seedFlag := flag.Int64("seed", 0, "random seed for the run (overrides RANDOM_SEED)")
	deterministicFlag := flag.Bool("deterministic", false, "lower player id always wins instead of a coin flip")
	issueTokenFlag := flag.String("issue-token", "", "print an organizer token for the given subject and exit")
	flag.Parse()

	seedSet := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "seed" {
			seedSet = true
		}
	})

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	logger.Info("configuration loaded", slog.String("ledger", cfg.LedgerDriver), slog.Int("port", cfg.ServerPort))

	if *issueTokenFlag != "" {
		if cfg.JWTSecretKey == "" {
			logger.Error("JWT_SECRET_KEY is required to issue tokens")
			os.Exit(1)
		}
		token, err := middleware.IssueToken([]byte(cfg.JWTSecretKey), *issueTokenFlag, middleware.RoleOrganizer, organizerTokenTTL)
		if err != nil {
			logger.Error("failed to issue token", slog.Any("error", err))
			os.Exit(1)
		}
		fmt.Println(token)
		return
	}

	ctx := context.Background()

	ledger, closeLedger, err := openLedger(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open ledger", slog.Any("error", err))
		os.Exit(1)
	}
	defer closeLedger()

	var archiver services.ResultArchiver
	if cfg.ArchiveEnabled() {
		uploader, err := storage.NewCloudflareR2Uploader(ctx, storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		archiver = services.NewResultArchiver(uploader)
		logger.Info("Cloudflare R2 archive enabled", slog.String("bucket", cfg.R2BucketName))
	}

	if *entrantsFlag != "" {
		input := services.RunTournamentInput{
			Entrants:      strings.Split(*entrantsFlag, ","),
			Deterministic: *deterministicFlag,
		}
		if seedSet {
			input.Seed = seedFlag
		}
		if err := runOnce(ctx, ledger, archiver, cfg, logger, input); err != nil {
			logger.Error("tournament run failed", slog.Any("error", err))
			closeLedger()
			os.Exit(1)
		}
		return
	}

	if err := serve(cfg, ledger, archiver, logger); err != nil {
		logger.Error("server error", slog.Any("error", err))
		closeLedger()
		os.Exit(1)
	}
	logger.Info("application exited")
}

// openLedger builds the ledger selected by LEDGER_DRIVER. The returned func releases it.
func openLedger(ctx context.Context, cfg *config.Config, logger *slog.Logger) (brackets.Ledger, func(), error) {
	if cfg.LedgerDriver == config.LedgerMemory {
		logger.Info("using in-memory ledger")
		return repositories.NewMemoryLedger(), func() {}, nil
	}

	dialect, err := repositories.ParseDialect(cfg.LedgerDriver)
	if err != nil {
		return nil, nil, err
	}

	dbConn, err := db.Connect(string(dialect), cfg.DatabaseURL, dbConnectTimeout)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := repositories.Migrate(ctx, dbConn, dialect); err != nil {
		_ = dbConn.Close()
		return nil, nil, err
	}
	logger.Info("database connection established", slog.String("dialect", string(dialect)))

	closed := false
	closeFn := func() {
		if closed {
			return
		}
		closed = true
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}
	return repositories.NewSQLLedger(dbConn, dialect), closeFn, nil
}

func runOnce(ctx context.Context, ledger brackets.Ledger, archiver services.ResultArchiver, cfg *config.Config, logger *slog.Logger, input services.RunTournamentInput) error {
	tournamentService := services.NewTournamentService(services.TournamentServiceConfig{
		Ledger:      ledger,
		Archiver:    archiver,
		DefaultSeed: cfg.RandomSeed,
		Logger:      logger,
	})

	result, err := tournamentService.Run(ctx, input)
	if err != nil {
		return err
	}
	if result.Winner == nil {
		return errors.New("tournament finished without a winner")
	}

	fmt.Printf("%s (ID:%d) was victorious in tournament %d!\n", result.Winner.Name, result.Winner.PlayerID, result.TournamentID)
	if result.ArchiveURL != nil {
		fmt.Printf("Result archived at %s\n", *result.ArchiveURL)
	}
	return nil
}

func serve(cfg *config.Config, ledger brackets.Ledger, archiver services.ResultArchiver, logger *slog.Logger) error {
	if cfg.JWTSecretKey == "" {
		return errors.New("JWT_SECRET_KEY environment variable is required to serve the API")
	}

	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()

	wsHub := brackets.NewHub(logger)
	go wsHub.Run(hubCtx)
	logger.Info("WebSocket Hub started")

	tournamentService := services.NewTournamentService(services.TournamentServiceConfig{
		Ledger:      ledger,
		Archiver:    archiver,
		Observer:    wsHub,
		DefaultSeed: cfg.RandomSeed,
		Logger:      logger,
	})

	tournamentHandler := handlers.NewTournamentHandler(tournamentService, logger)
	webSocketHandler := handlers.NewWebSocketHandler(wsHub, logger)

	router := chi.NewRouter()
	api.SetupRoutes(router, []byte(cfg.JWTSecretKey), cfg.CORSAllowedOrigins, tournamentHandler, webSocketHandler)
	logger.Info("Routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancelShutdown()

		logger.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		logger.Info("server shutdown complete")
	}
	return nil
}
