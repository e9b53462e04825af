package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pubudu2003060/NoteShare-sub000/internal/core/domain"
	"github.com/pubudu2003060/NoteShare-sub000/internal/core/ports"

	"github.com/redis/go-redis/v9"
)

type RedisUserRepository struct {
	client *redis.Client
}

func NewRedisUserRepository(client *redis.Client) ports.UserRepository {
	return &RedisUserRepository{client: client}
}

// redisUser carries the password hash, which the domain type keeps out of its
// JSON form on purpose.
type redisUser struct {
	domain.User
	PasswordHash string `json:"password_hash"`
}

func (r *RedisUserRepository) Create(ctx context.Context, user *domain.User) error {
	data, err := json.Marshal(redisUser{User: *user, PasswordHash: user.PasswordHash})
	if err != nil {
		return fmt.Errorf("failed to marshal user: %w", err)
	}

	// The email index is the uniqueness guard; SetNX claims it first.
	ok, err := r.client.SetNX(ctx, userEmailKey(user.Email), string(user.ID), 0).Result()
	if err != nil {
		return fmt.Errorf("failed to claim email index: %w", err)
	}
	if !ok {
		return domain.ErrUserExists
	}

	if err := r.client.Set(ctx, userKey(user.ID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to set user in Redis: %w", err)
	}
	return nil
}

func (r *RedisUserRepository) GetByID(ctx context.Context, id domain.UserID) (*domain.User, error) {
	data, err := r.client.Get(ctx, userKey(id)).Result()
	if err == redis.Nil {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user from Redis: %w", err)
	}

	var stored redisUser
	if err := json.Unmarshal([]byte(data), &stored); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user: %w", err)
	}
	user := stored.User
	user.PasswordHash = stored.PasswordHash
	return &user, nil
}

func (r *RedisUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	id, err := r.client.Get(ctx, userEmailKey(email)).Result()
	if err == redis.Nil {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve email index: %w", err)
	}
	return r.GetByID(ctx, domain.UserID(id))
}
