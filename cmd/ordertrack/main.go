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

	_ "github.com/joho/godotenv/autoload"
	"golang.org/x/sync/errgroup"

	"ordertrack/internal/config"
	"ordertrack/internal/database"
	"ordertrack/internal/events"
	"ordertrack/internal/handler"
	"ordertrack/internal/service"
	"ordertrack/internal/store"
)

func main() {
	if err := run(); err != nil {
		slog.Error("ordertrack stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.New()
	if err != nil {
		return err
	}
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(log)

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	pub, err := openPublisher(cfg, log)
	if err != nil {
		return err
	}
	defer pub.Close()

	// Services
	finance := service.NewFinanceService(st)
	svc := handler.Services{
		Auth:      service.NewAuthService(st),
		Orders:    service.NewOrderService(st, pub, log),
		Query:     service.NewQueryService(st, cfg.PageSize),
		Dashboard: service.NewDashboardService(finance, service.NewQueryService(st, cfg.DashboardPageSize)),
		Workload:  service.NewWorkloadService(st, cfg.Location, log),
		Clients:   service.NewClientService(st, log),
	}

	srv := &http.Server{
		Addr:         cfg.RunAddress,
		Handler:      handler.NewRouter(svc, cfg.JWTSecret),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("starting server", "addr", cfg.RunAddress)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down...")
		ctxShut, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(ctxShut)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	slog.Info("server stopped")
	return nil
}

func openStore(cfg *config.Config) (store.Store, error) {
	if cfg.DatabaseURI == config.MemoryDatabase {
		slog.Warn("using in-memory store, data is lost on exit")
		return store.NewMemoryStore(), nil
	}

	db, err := database.NewDB(cfg.DatabaseURI)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		database.CloseDB(context.Background(), db)
		return nil, err
	}
	return store.NewPostgresStore(db), nil
}

func openPublisher(cfg *config.Config, log *slog.Logger) (events.Publisher, error) {
	if len(cfg.KafkaBrokers) == 0 {
		return events.NewLogPublisher(log), nil
	}
	return events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, log)
}
