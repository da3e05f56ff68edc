package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/dayanithi400/ethervote-sentinel/auth"
	"github.com/dayanithi400/ethervote-sentinel/cliparse"
	"github.com/dayanithi400/ethervote-sentinel/election"
	"github.com/dayanithi400/ethervote-sentinel/images"
	"github.com/dayanithi400/ethervote-sentinel/middleware"
	"github.com/dayanithi400/ethervote-sentinel/reconcile"
	"github.com/dayanithi400/ethervote-sentinel/router"
	"github.com/dayanithi400/ethervote-sentinel/store"
	"github.com/dayanithi400/ethervote-sentinel/wallet"
)

func main() {
	var err error

	// A missing .env file is fine
	_ = godotenv.Load()

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	// Reference data
	seeds, err := store.LoadSeed(cfg.SeedFile)
	if err != nil {
		slog.Error("seed loading failed", "error", err)
		os.Exit(1)
	}

	// Storage
	st, err := store.Open(ctx, cfg, seeds)
	if err != nil {
		slog.Error("store setup failed", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	// Transaction references
	var ledger wallet.Ledger
	switch cfg.Ledger {
	case cliparse.LedgerRPC:
		rpc, closeRPC, err := wallet.DialRPCLedger(ctx, cfg.LedgerRPCURL)
		if err != nil {
			slog.Error("ledger connection failed", "error", err)
			os.Exit(1)
		}
		defer closeRPC()
		ledger = rpc
	default:
		ledger = wallet.NewSimulatedLedger(cfg.LedgerDelay)
	}
	slog.Info("ledger ready", "kind", cfg.Ledger)

	imgs, err := images.NewFileStore(cfg.ImageDir, cfg.ImageBaseURL)
	if err != nil {
		slog.Error("image store setup failed", "error", err)
		os.Exit(1)
	}

	svc := election.NewService(st, ledger, imgs)

	if cfg.AdminEmail != "" {
		if err := svc.BootstrapAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			slog.Error("admin bootstrap failed", "error", err)
			os.Exit(1)
		}
	}

	// Tally reconciliation
	reconciler := reconcile.NewReconciler(st, cfg.ReconcileRepair)
	if cfg.ReconcileSchedule != cliparse.ScheduleOff {
		if err := reconciler.Start(cfg.ReconcileSchedule); err != nil {
			slog.Error("reconciler schedule invalid", "schedule", cfg.ReconcileSchedule, "error", err)
			os.Exit(1)
		}
		defer reconciler.Stop()
	}

	// Create router
	sessions := auth.NewSessions(cfg.SessionSecret, cfg.SessionTTL)
	mux := router.NewRouter(svc, sessions, reconciler, cfg)

	// Create server
	server := http.Server{
		Handler:           middleware.CORS(middleware.RealIP(cfg.TrustedProxies, mux)),
		Addr:              ":" + strconv.Itoa(cfg.Port),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Wait for Ctrl-C signal
		<-ctrlc
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
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
