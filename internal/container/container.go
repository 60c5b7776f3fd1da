package container

import (
	"context"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/pixelpursuit/pixelpursuit-api/config"
	"github.com/pixelpursuit/pixelpursuit-api/internal/application"
	"github.com/pixelpursuit/pixelpursuit-api/internal/domain/repository"
	"github.com/pixelpursuit/pixelpursuit-api/internal/infrastructure/memory"
	pginfra "github.com/pixelpursuit/pixelpursuit-api/internal/infrastructure/postgres"
	"github.com/pixelpursuit/pixelpursuit-api/internal/infrastructure/search"
	"github.com/pixelpursuit/pixelpursuit-api/pkg/helpers"
)

// Container holds the components built once at startup. It is passed
// explicitly to the router; nothing reads it through globals.
type Container struct {
	Config *config.Config
	Logger *logrus.Logger
	JWT    *helpers.JWTManager

	PGPool *pgxpool.Pool
	Redis  *redis.Client
	ES     *elasticsearch.Client

	Users        repository.UserRepository
	Jobs         repository.JobRepository
	Applications repository.ApplicationRepository
	JobIndex     *search.JobIndex

	AuthService *application.AuthService
	JobService  *application.JobService

	closers []func()
}

// New builds every component from cfg. Optional backends (Redis,
// Elasticsearch) that fail to connect are logged and left disabled.
func New(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*Container, error) {
	c := &Container{Config: cfg, Logger: logger}

	jwt, err := helpers.NewJWTManager(cfg.JWTSecret)
	if err != nil {
		return nil, err
	}
	c.JWT = jwt

	if err := c.openStorage(ctx); err != nil {
		c.Close()
		return nil, err
	}

	if cfg.RedisEnabled {
		rdb, err := helpers.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			logger.WithError(err).Warn("redis unavailable, rate limiting disabled")
		} else {
			c.Redis = rdb
			c.closers = append(c.closers, func() { _ = rdb.Close() })
		}
	}

	if cfg.ElasticsearchEnabled {
		es, err := helpers.NewESClient(ctx, cfg.ESAddrs(), cfg.ElasticsearchUser, cfg.ElasticsearchPass)
		if err != nil {
			logger.WithError(err).Warn("elasticsearch unavailable, searching the primary store")
		} else {
			c.ES = es
			c.JobIndex = search.NewJobIndex(es, cfg.ESJobsIndex, logger)
			if err := c.JobIndex.EnsureIndex(ctx); err != nil {
				logger.WithError(err).Warn("ensure jobs index failed")
			}
		}
	}

	c.AuthService, err = application.NewAuthService(c.Users, c.JWT, cfg.BcryptCost, logger)
	if err != nil {
		c.Close()
		return nil, err
	}

	var (
		searcher repository.JobSearcher
		indexer  application.JobIndexer
	)
	if c.JobIndex != nil {
		searcher, indexer = c.JobIndex, c.JobIndex
	}
	c.JobService = application.NewJobService(c.Jobs, c.Applications, searcher, indexer, logger)
	return c, nil
}

func (c *Container) openStorage(ctx context.Context) error {
	cfg := c.Config
	switch cfg.StorageDriver {
	case config.StorageMemory:
		store := memory.New()
		c.Users, c.Jobs, c.Applications = store.Users(), store.Jobs(), store.Applications()
		c.Logger.Warn("using in-memory storage, data is lost on restart")
		return nil
	case config.StoragePostgres:
		pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
		if err != nil {
			return fmt.Errorf("connect to postgres: %w", err)
		}
		c.PGPool = pool
		c.closers = append(c.closers, pool.Close)
		if err := pginfra.RunMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, c.Logger); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		c.Users = pginfra.NewUserRepository(pool)
		c.Jobs = pginfra.NewJobRepository(pool)
		c.Applications = pginfra.NewApplicationRepository(pool)
		return nil
	}
	return fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
}

// Close releases connections in reverse order of acquisition.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}
