// Command server runs the auth-profile service: registration, login,
// stateless token validation, guarded profile access and the caregiver
// directory.
package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"pandacare/internal/auth"
	"pandacare/internal/authz"
	"pandacare/internal/jwttoken"
	"pandacare/internal/platform/config"
	"pandacare/internal/platform/httpserver"
	"pandacare/internal/platform/logger"
	"pandacare/internal/platform/metrics"
	"pandacare/internal/profile"
	"pandacare/internal/rating"
	"pandacare/internal/search"
	httptransport "pandacare/internal/transport/http"
	"pandacare/internal/user"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	users, cleanup, err := buildUserStore(ctx, cfg)
	if err != nil {
		log.Error("store init failed", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	m := metrics.New()
	tokens := jwttoken.New(cfg.JWTSigningKey, cfg.JWTTTL)

	guard := authz.NewGuard(
		authz.NewResolver(users),
		authz.NewContext(authz.NewPatientStrategy(), authz.NewCareGiverStrategy()),
		m,
		log,
	)

	authHandler := auth.NewHandler(auth.NewService(users, tokens, m, log), log)
	profileHandler := profile.NewHandler(profile.NewService(users, tokens, log), guard, log)
	searchHandler := search.NewHandler(search.NewService(users, m, log), guard, log)

	ratingService, ratingCleanup := buildRatingService(ctx, cfg, users, m, log)
	defer ratingCleanup()
	ratingHandler := rating.NewHandler(ratingService, guard, log)

	if cfg.RatingRefreshEnabled {
		go rating.NewRefresher(ratingService, cfg.RatingRefreshInterval, log).Run(ctx)
	} else {
		log.Info("rating refresher disabled by configuration")
	}

	router := httptransport.NewRouter(httptransport.Deps{
		Auth:      authHandler,
		Profile:   profileHandler,
		Search:    searchHandler,
		Rating:    ratingHandler,
		Validator: tokens,
		Logger:    log,
	})

	srv := httpserver.New(cfg.Addr, router)
	log.Info("starting auth-profile service", "addr", cfg.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
}

// buildUserStore prefers Postgres and falls back to the in-memory
// store for local runs without a database.
func buildUserStore(ctx context.Context, cfg config.Config) (user.Store, func(), error) {
	if cfg.DatabaseURL == "" {
		return user.NewInMemoryStore(), func() {}, nil
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, nil, err
	}

	store := user.NewPostgresStore(db)
	if err := store.Migrate(ctx); err != nil {
		db.Close()
		return nil, nil, err
	}
	return store, func() { db.Close() }, nil
}

// buildRatingService wires the rating client and the optional Redis
// summary cache. The service backs both the rating endpoints and the
// background refresh loop.
func buildRatingService(ctx context.Context, cfg config.Config, users user.Store, m *metrics.Metrics, log *slog.Logger) (*rating.Service, func()) {
	client := rating.NewClient(cfg.RatingServiceURL)

	cleanup := func() {}
	var cache rating.Cache
	if cfg.RedisAddr != "" {
		redisCache, err := rating.NewRedisCache(ctx, cfg.RedisAddr, cfg.RatingCacheTTL)
		if err != nil {
			log.Warn("redis unavailable, rating cache disabled", "error", err)
		} else {
			cache = redisCache
			cleanup = func() { redisCache.Close() }
		}
	}

	return rating.NewService(client, cache, users, m, log), cleanup
}
