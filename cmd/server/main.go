package main

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	"guardiangate/internal/audit"
	"guardiangate/internal/gate/cookie"
	"guardiangate/internal/gate/service"
	recordstore "guardiangate/internal/gate/store/record"
	tokenstore "guardiangate/internal/gate/store/token"
	"guardiangate/internal/platform/config"
	"guardiangate/internal/platform/httpserver"
	"guardiangate/internal/platform/logger"
	"guardiangate/internal/platform/metrics"
	platformredis "guardiangate/internal/platform/redis"
	httptransport "guardiangate/internal/transport/http"
)

// sweepInterval is how often the in-memory token store drops expired entries.
// Redis deployments expire keys natively and skip the sweep.
const sweepInterval = 10 * time.Minute

// main wires dependencies and owns the server lifecycle. Decisions live in
// internal/gate/service; storage selection is config-driven so a single
// binary serves dev (in-memory) and production (redis + postgres).
func main() {
	log := logger.New()

	cfg, err := config.Load()
	if err != nil {
		log.Error("failed to load config", "error", err.Error())
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	redisClient, err := platformredis.New(cfg.RedisURL)
	if err != nil {
		log.Error("failed to connect to redis", "error", err.Error())
		os.Exit(1)
	}

	var tokens tokenstore.Store
	var memTokens *tokenstore.InMemoryStore
	if redisClient != nil {
		tokens = tokenstore.NewRedisStore(redisClient.Client)
		log.Info("token store: redis")
	} else {
		memTokens = tokenstore.NewInMemoryStore()
		tokens = memTokens
		log.Info("token store: in-memory")
	}

	var db *sql.DB
	var records recordstore.Store
	if cfg.PostgresURL != "" {
		db, err = sql.Open("postgres", cfg.PostgresURL)
		if err == nil {
			err = db.PingContext(ctx)
		}
		if err != nil {
			log.Error("failed to connect to postgres", "error", err.Error())
			os.Exit(1)
		}
		records = recordstore.NewPostgresStore(db)
		log.Info("record store: postgres")
	} else {
		records = recordstore.NewInMemoryStore()
		log.Info("record store: in-memory")
	}

	svc := service.New(service.Config{
		MinAge:      cfg.MinAge,
		TokenTTL:    cfg.TokenTTL,
		Location:    cfg.Location(),
		RegisterURL: cfg.RegisterURL,
		ConsentURL:  cfg.ConsentURL,
	}, tokens, records, audit.NewLogRecorder(log), metrics.New(), log)

	cookies := cookie.New(cfg.CookiePath, cfg.CookieDomain, cfg.TokenTTL, cfg.TrustForwardedProto)
	handler := httptransport.New(svc, cookies, log)

	health := func(ctx context.Context) error {
		if redisClient != nil {
			if err := redisClient.Health(ctx); err != nil {
				return err
			}
		}
		if db != nil {
			if err := db.PingContext(ctx); err != nil {
				return err
			}
		}
		return nil
	}

	// The registration and consent-form pages belong to the surrounding site;
	// these placeholders mark the mount points until the real templates are
	// plugged in.
	router := httptransport.NewRouter(handler, log, health,
		placeholderPage("registration"),
		placeholderPage("consent form"),
	)

	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("starting guardian gate", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if memTokens != nil {
		g.Go(func() error {
			ticker := time.NewTicker(sweepInterval)
			defer ticker.Stop()
			for {
				select {
				case <-gctx.Done():
					return nil
				case now := <-ticker.C:
					if n, err := memTokens.DeleteExpired(gctx, now); err == nil && n > 0 {
						log.Debug("swept expired consent tokens", "count", n)
					}
				}
			}
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	err = g.Wait()

	if redisClient != nil {
		_ = redisClient.Close()
	}
	if db != nil {
		_ = db.Close()
	}

	if err != nil {
		log.Error("server error", "error", err.Error())
		os.Exit(1)
	}
	log.Info("shutdown complete")
}

func placeholderPage(name string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = io.WriteString(w, name+" page\n")
	})
}
