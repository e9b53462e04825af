package repositories

import (
	"context"

	"github.com/pubudu2003060/NoteShare-sub000/internal/core/ports"
	"github.com/pubudu2003060/NoteShare-sub000/internal/infrastructure/repositories/memory"
	redisrepo "github.com/pubudu2003060/NoteShare-sub000/internal/infrastructure/repositories/redis"
	"github.com/pubudu2003060/NoteShare-sub000/pkg/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RepositoryFactory creates repositories with fallback support
type RepositoryFactory struct {
	useRedis    bool
	redisClient *redis.Client
	store       *memory.Store
	logger      *zap.SugaredLogger
}

// NewRepositoryFactory creates a new repository factory
func NewRepositoryFactory(cfg *config.Config, logger *zap.SugaredLogger) (*RepositoryFactory, error) {
	factory := &RepositoryFactory{
		useRedis: cfg.Redis.Enabled,
		store:    memory.NewStore(),
		logger:   logger,
	}

	// Try to connect to Redis if enabled
	if cfg.Redis.Enabled {
		client, err := redisrepo.NewRedisClient(
			cfg.Redis.Address,
			cfg.Redis.Password,
			cfg.Redis.DB,
			cfg.Redis.PoolSize,
			logger,
		)
		if err != nil {
			logger.Warnw("failed to connect to Redis, falling back to memory repositories",
				"error", err,
			)
			factory.useRedis = false
		} else {
			factory.redisClient = client
			logger.Info("using Redis repositories")
		}
	}

	if !factory.useRedis {
		logger.Info("using memory repositories")
	}

	return factory, nil
}

// RedisClient exposes the live client for components that fan out over
// pub/sub. Returns nil when running on memory repositories.
func (f *RepositoryFactory) RedisClient() *redis.Client {
	if f.useRedis {
		return f.redisClient
	}
	return nil
}

func (f *RepositoryFactory) CreateUserRepository() ports.UserRepository {
	if f.useRedis && f.redisClient != nil {
		return redisrepo.NewRedisUserRepository(f.redisClient)
	}
	return memory.NewMemoryUserRepository(f.store)
}

func (f *RepositoryFactory) CreateGroupRepository() ports.GroupRepository {
	if f.useRedis && f.redisClient != nil {
		return redisrepo.NewRedisGroupRepository(f.redisClient)
	}
	return memory.NewMemoryGroupRepository(f.store)
}

func (f *RepositoryFactory) CreateNotificationRepository() ports.NotificationRepository {
	if f.useRedis && f.redisClient != nil {
		return redisrepo.NewRedisNotificationRepository(f.redisClient)
	}
	return memory.NewMemoryNotificationRepository(f.store)
}

func (f *RepositoryFactory) CreateArbitrationRepository() ports.ArbitrationRepository {
	if f.useRedis && f.redisClient != nil {
		return redisrepo.NewRedisArbitrationRepository(f.redisClient)
	}
	return memory.NewMemoryArbitrationRepository(f.store)
}

// Close closes Redis connection if used
func (f *RepositoryFactory) Close() error {
	if f.redisClient != nil {
		return redisrepo.CloseRedisClient(f.redisClient)
	}
	return nil
}

// HealthCheck checks Redis connection health
func (f *RepositoryFactory) HealthCheck(ctx context.Context) error {
	if f.useRedis && f.redisClient != nil {
		return f.redisClient.Ping(ctx).Err()
	}
	return nil
}
