// Package main initializes and starts the LangHelper API server,
// setting up configuration, logging, database connections, repositories,
// the extension list client, services and handlers.
package main

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	nethttp "net/http"

	"github.com/atinyakov/LangHelper/internal/ai"
	"github.com/atinyakov/LangHelper/internal/config"
	"github.com/atinyakov/LangHelper/internal/db"
	"github.com/atinyakov/LangHelper/internal/extension"
	"github.com/atinyakov/LangHelper/internal/logger"
	"github.com/atinyakov/LangHelper/internal/repository"
	"github.com/atinyakov/LangHelper/internal/server/handler/http"
	"github.com/atinyakov/LangHelper/internal/service"
	"go.uber.org/zap"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

const defaultSQLiteDSN = "langhelper.db"

func main() {
	// Parse command-line, config file and environment configuration.
	options, err := config.Parse(config.DefaultServerAddress)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	if err := log.Init(options.LogLevel); err != nil {
		fmt.Fprintln(os.Stderr, "failed to init logger:", err)
		os.Exit(2)
	}
	defer func() { _ = log.Log.Sync() }()
	zapLogger := log.Log

	dsn := options.DatabaseDSN
	if dsn == "" && options.DatabaseDriver == db.DriverSQLite {
		dsn = defaultSQLiteDSN
	}
	if dsn == "" {
		zapLogger.Fatal("database DSN is required (-d or DATABASE_DSN)")
	}

	conn, err := db.Open(options.DatabaseDriver, dsn)
	if err != nil {
		zapLogger.Fatal("cannot init database", zap.Error(err))
	}
	defer conn.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Periodically drop expired sessions.
	if _, err := db.StartSessionCleaner(ctx, conn, time.Duration(options.CleanupInterval), zapLogger); err != nil {
		zapLogger.Fatal("cannot start session cleaner", zap.Error(err))
	}

	// Initialize repositories.
	users := repository.NewUserRepository(conn)
	sessions := repository.NewSessionRepository(conn)
	entries := repository.NewVocabularyRepository(conn)

	// Outbound collaborators.
	ext := extension.New(options.ExtensionURL, time.Duration(options.SyncTimeout), nil)
	completer := ai.New(options.OpenAIKey, ai.WithModel(options.OpenAIModel))
	if !completer.Configured() {
		zapLogger.Warn("OPENAI_API_KEY is not set, quiz and feedback endpoints are disabled")
	}

	// Initialize business-logic services.
	authService := service.NewAuthService(users, sessions, service.BcryptHasher{}, time.Duration(options.SessionTTL))
	orchestrator := service.NewSyncOrchestrator(ext, entries, zapLogger)
	vocabularyService := service.NewVocabularyService(entries, orchestrator)
	quizService := service.NewQuizService(entries, users, completer)

	// Build the router with middleware and routes.
	router := http.NewRouter(http.Handlers{
		Auth:       &http.AuthHandler{AuthService: authService, Importer: vocabularyService, Logger: zapLogger},
		Vocabulary: &http.VocabularyHandler{VocabularyService: vocabularyService, Logger: zapLogger},
		Quiz:       &http.QuizHandler{QuizService: quizService, Logger: zapLogger},
	}, authService, zapLogger)

	server := &nethttp.Server{
		Addr:              options.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			zapLogger.Error("graceful shutdown failed", zap.Error(err))
		}
	}()

	zapLogger.Info("starting HTTP server",
		zap.String("addr", options.Port),
		zap.String("driver", options.DatabaseDriver),
		zap.String("extension_url", options.ExtensionURL),
		zap.Bool("tls", options.TLSCert != ""),
	)

	var serveErr error
	if options.TLSCert != "" {
		serveErr = server.ListenAndServeTLS(options.TLSCert, options.TLSKey)
	} else {
		serveErr = server.ListenAndServe()
	}
	if err := serveErr; err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
		zapLogger.Fatal("failed to start HTTP server", zap.Error(err))
	}
	zapLogger.Info("server stopped")
}
