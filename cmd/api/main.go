package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/Guizaa22/2M-market/internal/config"
	"github.com/Guizaa22/2M-market/internal/database"
	"github.com/Guizaa22/2M-market/internal/httpx"
	"github.com/Guizaa22/2M-market/internal/metrics"
	"github.com/Guizaa22/2M-market/internal/modules/account"
	"github.com/Guizaa22/2M-market/internal/modules/auth"
	"github.com/Guizaa22/2M-market/internal/modules/cart"
	"github.com/Guizaa22/2M-market/internal/modules/catalog"
	"github.com/Guizaa22/2M-market/internal/modules/inventory"
	"github.com/Guizaa22/2M-market/internal/modules/pos"
	"github.com/Guizaa22/2M-market/internal/modules/report"
)

func main() {
	cfg := config.Load()
	setupLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("database unavailable", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer db.Close()

	if cfg.RunMigrations {
		if err := database.Migrate(db); err != nil {
			slog.Error("migrations failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	salesMetrics := metrics.NewSales(registry)

	// ── Router ──────────────────────────────────────────────
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			httpx.JSONError(w, http.StatusServiceUnavailable, "database unreachable", nil)
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if cfg.MetricsEnabled {
		router.Handle("/metrics", metrics.Handler(registry))
	}

	// ── Accounts & sessions ─────────────────────────────────
	carts := cart.NewRegistry()
	sessions := auth.NewSessions(carts.Drop)
	go sessions.Run(ctx, time.Minute)

	accountService := account.NewService(account.NewPostgresRepository(db), account.NewBcryptHasher(0), sessions.RevokeAccount)
	if err := accountService.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		slog.Error("bootstrap administrator", slog.String("error", err.Error()))
		os.Exit(1)
	}

	authService := auth.NewService(accountService, sessions, cfg.JWTSecret, cfg.SessionTTL)
	requireSession := auth.RequireSession(authService)
	adminOnly := auth.RequireRole(account.RoleAdmin)
	auth.NewHandler(authService).RegisterRoutes(router, requireSession)

	// ── Catalog, stock & checkout ───────────────────────────
	catalogService := catalog.NewService(catalog.NewPostgresRepository(db))
	inventoryService := inventory.NewService(inventory.NewPostgresRepository(db), catalogService)
	posService := pos.NewService(pos.NewPostgresRepository(db), catalogService, salesMetrics)
	reportService := report.NewService(report.NewPostgresRepository(db), catalogService, cfg.LowStockLimit)
	receipts := pos.Receipts{ShopName: cfg.ShopName, Dir: cfg.ReceiptDir}

	router.Group(func(r chi.Router) {
		r.Use(requireSession)
		catalog.NewHandler(catalogService).RegisterRoutes(r, adminOnly)
		inventory.NewHandler(inventoryService, auth.AccountID).RegisterRoutes(r, adminOnly)
		cart.NewHandler(carts, catalogService).RegisterRoutes(r)
		pos.NewHandler(posService, carts, receipts).RegisterRoutes(r)
		report.NewHandler(reportService).RegisterRoutes(r, adminOnly)
		account.NewHandler(accountService, auth.AccountID).RegisterRoutes(r, adminOnly)
	})

	// ── Start Server ─────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		slog.Info("2M Market API listening", slog.String("addr", srv.Addr), slog.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server stopped", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", slog.String("error", err.Error()))
	}
	slog.Info("server stopped")
}

func setupLogger(cfg config.Config) {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	var h slog.Handler
	if cfg.IsProduction() {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		opts.Level = slog.LevelDebug
		h = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(h))
}
