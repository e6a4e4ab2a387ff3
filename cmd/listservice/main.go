// Package main starts the extension-side word list service that the browser
// extension and the main API mirror vocabulary into.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	nethttp "net/http"

	"github.com/atinyakov/LangHelper/internal/config"
	"github.com/atinyakov/LangHelper/internal/db"
	"github.com/atinyakov/LangHelper/internal/logger"
	"github.com/atinyakov/LangHelper/internal/repository"
	"github.com/atinyakov/LangHelper/internal/server/handler/http"
	"github.com/atinyakov/LangHelper/internal/service"
	"go.uber.org/zap"
)

func main() {
	options, err := config.Parse(config.DefaultListAddress)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	log := logger.New()
	if err := log.Init(options.LogLevel); err != nil {
		fmt.Fprintln(os.Stderr, "failed to init logger:", err)
		os.Exit(2)
	}
	defer func() { _ = log.Log.Sync() }()
	zapLogger := log.Log

	// Durable storage when a DSN is configured, process memory otherwise.
	var store service.WordStore
	if options.DatabaseDSN != "" {
		conn, err := db.Open(options.DatabaseDriver, options.DatabaseDSN)
		if err != nil {
			zapLogger.Fatal("cannot init database", zap.Error(err))
		}
		defer conn.Close()
		store = repository.NewWordListRepository(conn)
	} else {
		zapLogger.Warn("no database configured, word lists are kept in memory and lost on restart")
		store = repository.NewMemoryWordList()
	}

	router := http.NewWordListRouter(&http.WordListHandler{
		Service: service.NewWordListService(store),
		Logger:  zapLogger,
	}, zapLogger)

	server := &nethttp.Server{
		Addr:              options.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	zapLogger.Info("starting list service", zap.String("addr", options.Port))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
		zapLogger.Fatal("failed to start list service", zap.Error(err))
	}
}
