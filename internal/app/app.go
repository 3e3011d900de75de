package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/nzoschke/goalbot/internal/config"
	"github.com/nzoschke/goalbot/internal/db"
	"github.com/nzoschke/goalbot/internal/repository"
	"github.com/nzoschke/goalbot/internal/service"
	"github.com/nzoschke/goalbot/internal/storage"
	"github.com/redis/go-redis/v9"
)

type App struct {
	Cfg         *config.Config
	DB          *sqlx.DB
	Redis       *redis.Client
	GoalService *service.GoalService
	VoteService *service.VoteService
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{Cfg: cfg}

	goalRepository, voteRepository, err := a.repositories(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	// Services
	a.GoalService = service.NewGoalService(goalRepository)
	a.VoteService = service.NewVoteService(voteRepository)

	slog.Info("app initialized", "store", cfg.StoreDriver)
	return a, nil
}

// repositories picks the goal and vote stores for STORE_DRIVER. Both always
// share one backend.
func (a *App) repositories(ctx context.Context) (repository.GoalRepository, repository.VoteRepository, error) {
	cfg := a.Cfg

	switch cfg.StoreDriver {
	case config.StoreMemory:
		return repository.NewMemoryGoalRepository(), repository.NewMemoryVoteRepository(), nil

	case config.StoreFile:
		codec, err := repository.NewCodec(cfg.SnapshotCodec)
		if err != nil {
			return nil, nil, err
		}

		var s storage.Storage
		if cfg.SnapshotBackend == "s3" {
			s, err = storage.NewS3FromConfig(ctx, cfg)
		} else {
			s, err = storage.NewFileStorage(cfg.SnapshotDir)
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize storage: %w", err)
		}

		goals, err := repository.NewSnapshotGoalRepository(ctx, s, codec)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load goals: %w", err)
		}
		votes, err := repository.NewSnapshotVoteRepository(ctx, s, codec)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load votes: %w", err)
		}
		return goals, votes, nil

	case config.StoreSQLite, config.StorePGX:
		database, err := db.Init(cfg.StoreDriver, cfg.DBConnection)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		a.DB = database

		err = db.RunMigrations(database.DB, cfg.StoreDriver)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		return repository.NewGoalRepository(database), repository.NewVoteRepository(database), nil

	case config.StoreRedis:
		codec, err := repository.NewCodec(cfg.SnapshotCodec)
		if err != nil {
			return nil, nil, err
		}

		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		a.Redis = client

		err = client.Ping(ctx).Err()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		return repository.NewRedisGoalRepository(client, codec, cfg.RedisPrefix),
			repository.NewRedisVoteRepository(client, codec, cfg.RedisPrefix), nil
	}

	return nil, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}

func (a *App) Close() error {
	var errs []error
	if a.DB != nil {
		errs = append(errs, a.DB.Close())
	}
	if a.Redis != nil {
		errs = append(errs, a.Redis.Close())
	}
	return errors.Join(errs...)
}
