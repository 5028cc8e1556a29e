// Command server runs the client record API: CRUD over polymorphic client
// records, the per-field audit trail, and the outbox relay that streams audit
// entries to Kafka.
package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"bimadesk/internal/audit"
	auditrelay "bimadesk/internal/audit/relay"
	"bimadesk/internal/client/cache"
	clienthandler "bimadesk/internal/client/handler"
	"bimadesk/internal/client/service"
	clientstore "bimadesk/internal/client/store"
	"bimadesk/internal/document"
	"bimadesk/internal/jwtauth"
	"bimadesk/internal/platform/config"
	"bimadesk/internal/platform/httpserver"
	"bimadesk/internal/platform/logger"
	"bimadesk/internal/platform/metrics"
	"bimadesk/internal/platform/middleware"
	platformredis "bimadesk/internal/platform/redis"
)

// healthHandler reports ready only when every configured backend answers a
// ping. Backends that are not configured are skipped, not failed.
func healthHandler(db *sql.DB, rdb *platformredis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			if err := db.PingContext(r.Context()); err != nil {
				http.Error(w, "database unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		if rdb != nil {
			if err := rdb.Health(r.Context()); err != nil {
				http.Error(w, "redis unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}
}

func main() {
	cfg := config.FromEnv()
	log := logger.New()

	var (
		clients clientstore.Store
		docs    document.Store
		audits  audit.Store
		runner  service.TxRunner
		db      *sql.DB
	)
	if cfg.DatabaseURL != "" {
		var err error
		db, err = sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			log.Error("open database failed", "error", err)
			os.Exit(1)
		}
		if err := db.Ping(); err != nil {
			log.Error("database ping failed", "error", err)
			os.Exit(1)
		}
		clients = clientstore.NewPostgres(db)
		docs = document.NewPostgres(db)
		audits = audit.NewPostgres(db)
		runner = newClientPostgresTx(db)
	} else {
		log.Warn("DATABASE_URL not set, using in-memory stores")
		clients = clientstore.NewInMemory()
		docs = document.NewInMemoryStore()
		audits = audit.NewInMemoryStore()
		runner = service.NewShardedTx()
	}

	opts := []service.Option{
		service.WithMetrics(metrics.New()),
	}
	if cfg.LogViews {
		opts = append(opts, service.WithViewLogging())
	}

	rdb, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("redis connect failed", "error", err)
		os.Exit(1)
	}
	if rdb != nil {
		defer rdb.Close()
		opts = append(opts, service.WithViewCache(cache.New(rdb.Client, log)))
	}

	svc := service.New(clients, docs, audit.NewRecorder(audits), runner, opts...)
	handler := clienthandler.New(svc, log)
	jwtService := jwtauth.NewService(cfg.JWTSigningKey, "bimadesk", "bimadesk-api")

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.ClientMetadata)
	r.Use(middleware.Recovery(log))
	r.Use(middleware.Logger(log))
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.ContentTypeJSON)

	r.Get("/healthz", healthHandler(db, rdb))
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(jwtService, log))
		handler.Register(r)
	})

	srv := httpserver.New(cfg.Addr, r)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting bimadesk", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	if db != nil && len(cfg.Kafka.Seeds) > 0 {
		relay, err := auditrelay.New(db, cfg.Kafka.Seeds, cfg.Kafka.AuditTopic, log)
		if err != nil {
			log.Error("audit relay init failed", "error", err)
			os.Exit(1)
		}
		g.Go(func() error {
			return relay.Run(gctx)
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
	log.Info("shutdown complete")
}
