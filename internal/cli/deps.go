package cli

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"icebreaker-service/internal/app"
	"icebreaker-service/internal/config"
	"icebreaker-service/internal/infra/memory"
	pgstore "icebreaker-service/internal/infra/postgres"
	redisstore "icebreaker-service/internal/infra/redis"
)

type deps struct {
	profiles *app.ProfileService
	quizzes  *app.QuizService
	gate     *app.Gate
	cleanup  func()
}

// buildDeps picks the profile store by configuration: Postgres when a URL is
// set, otherwise Redis when an address is set, otherwise process memory.
func buildDeps(ctx context.Context, cfg config.Config) (*deps, error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		closers = append(closers, func() { _ = redisClient.Close() })
	}

	var store memory.ProfileBlobStore
	switch {
	case cfg.Postgres.URL != "":
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			cleanup()
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		closers = append(closers, pool.Close)
		store = pgstore.NewProfileStore(pool, cfg.Profiles.StorageKey)
		log.Printf("profiles stored in postgres under %q", cfg.Profiles.StorageKey)
	case redisClient != nil:
		store = redisstore.NewProfileStore(redisClient, cfg.Profiles.StorageKey)
		log.Printf("profiles stored in redis under %q", cfg.Profiles.StorageKey)
	default:
		store = memory.NewProfileStore(cfg.Profiles.StorageKey)
		log.Printf("profiles stored in memory; they are lost on restart")
	}

	repo := memory.NewProfileRepository(store, config.TTLDuration(cfg.Profiles.CacheTTL, 30*time.Second))

	var sessions app.SessionRepository
	if redisClient != nil {
		sessions = redisstore.NewSessionStore(redisClient, config.TTLDuration(cfg.Redis.TTL, 10*time.Minute))
	} else {
		sessions = memory.NewSessionStore()
	}

	gateCfg, err := gateConfig(cfg)
	if err != nil {
		cleanup()
		return nil, err
	}

	catalog := cfg.Profiles.Groups
	quizzes := app.NewQuizService(sessions, repo, catalog)
	profiles := app.NewProfileService(repo, catalog)
	profiles.OnProfileCreated(quizzes.ProfileCreated)

	return &deps{
		profiles: profiles,
		quizzes:  quizzes,
		gate:     app.NewGate(gateCfg),
		cleanup:  cleanup,
	}, nil
}

func gateConfig(cfg config.Config) (app.GateConfig, error) {
	start, err := config.LocalTime(cfg.Gate.GalleryWindowStart)
	if err != nil {
		return app.GateConfig{}, fmt.Errorf("gallery window start: %w", err)
	}
	end, err := config.LocalTime(cfg.Gate.GalleryWindowEnd)
	if err != nil {
		return app.GateConfig{}, fmt.Errorf("gallery window end: %w", err)
	}
	return app.GateConfig{
		QuizPasscode:       cfg.Gate.QuizPasscode,
		GalleryPasscode:    cfg.Gate.GalleryPasscode,
		GalleryWindowStart: start,
		GalleryWindowEnd:   end,
	}, nil
}
