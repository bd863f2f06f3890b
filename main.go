package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/danielhkuo/rollcall/cliparse"
	"github.com/danielhkuo/rollcall/db"
	"github.com/danielhkuo/rollcall/githubstore"
	"github.com/danielhkuo/rollcall/handlers"
	"github.com/danielhkuo/rollcall/roster"
	"github.com/danielhkuo/rollcall/router"
	"github.com/danielhkuo/rollcall/scheduler"
	"github.com/danielhkuo/rollcall/storage"
	"github.com/danielhkuo/rollcall/transport"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file, using environment")
	}

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		slog.Error("failed to create data directory", "dir", cfg.DataDir, "error", err)
		os.Exit(1)
	}

	// The database is optional; an unreachable one means file-only mode,
	// the roster keeps operating either way
	var dbConn *sql.DB
	if cfg.DatabaseURL != "" {
		dbConn, err = db.Open(cfg.DatabaseType, cfg.DatabaseURL)
		if err == nil {
			err = dbConn.Ping()
		}
		if err == nil {
			err = db.CreateSchema(dbConn)
		}
		if err != nil {
			slog.Error("database unavailable, running file-only", "error", err)
			dbConn = nil
		} else {
			slog.Info("Database schema ready")
		}
	}

	var blob storage.BlobStore
	if cfg.GithubRepo != "" {
		gh, err := githubstore.New(cfg.GithubToken, cfg.GithubRepo, cfg.GithubBranch, cfg.SnapshotPath)
		if err != nil {
			slog.Error("invalid snapshot mirror configuration", "error", err)
			os.Exit(1)
		}
		blob = gh
	}

	line, err := transport.NewLineClient(cfg.ChannelToken)
	if err != nil {
		slog.Error("failed to create LINE client", "error", err)
		os.Exit(1)
	}

	reg := roster.NewRegistry()
	eng := roster.NewEngine(reg, line)
	store := storage.New(reg, dbConn, cfg.DatabaseType, cfg.DataDir, blob)
	store.Recover(context.Background())
	store.Start()

	sched := scheduler.New(eng, store, line, cfg.BaseURL)
	sched.Start()

	webhookHandler := handlers.NewWebhookHandler(cfg, eng, store, sched, line, line)
	mux := router.NewRouter(webhookHandler)

	server := http.Server{
		Handler: mux,
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-ctrlc
		slog.Info("shutting down")
		sched.Stop()
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		store.Shutdown(ctx)
		cancel()
		server.Close()
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}
