package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pubudu2003060/NoteShare-sub000/internal/core/domain"
	"github.com/pubudu2003060/NoteShare-sub000/internal/core/ports"

	"github.com/redis/go-redis/v9"
)

type RedisGroupRepository struct {
	client *redis.Client
}

func NewRedisGroupRepository(client *redis.Client) ports.GroupRepository {
	return &RedisGroupRepository{client: client}
}

// groupMeta is the scalar part of a group; the rosters live in their own sets
// so membership can change without rewriting the whole record.
type groupMeta struct {
	ID        domain.GroupID `json:"id"`
	Name      string         `json:"name"`
	AdminID   domain.UserID  `json:"admin_id"`
	CreatedAt time.Time      `json:"created_at"`
}

func (r *RedisGroupRepository) Create(ctx context.Context, group *domain.Group) error {
	meta := groupMeta{
		ID:        group.ID,
		Name:      group.Name,
		AdminID:   group.AdminID,
		CreatedAt: group.CreatedAt,
	}
	data, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("failed to marshal group: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, groupKey(group.ID), data, 0)
	for id := range group.Members {
		pipe.SAdd(ctx, groupMembersKey(group.ID), string(id))
	}
	for id := range group.Editors {
		pipe.SAdd(ctx, groupEditorsKey(group.ID), string(id))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to set group in Redis: %w", err)
	}
	return nil
}

func (r *RedisGroupRepository) GetByID(ctx context.Context, id domain.GroupID) (*domain.Group, error) {
	data, err := r.client.Get(ctx, groupKey(id)).Result()
	if err == redis.Nil {
		return nil, domain.ErrGroupNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group from Redis: %w", err)
	}

	var meta groupMeta
	if err := json.Unmarshal([]byte(data), &meta); err != nil {
		return nil, fmt.Errorf("failed to unmarshal group: %w", err)
	}

	members, err := r.client.SMembers(ctx, groupMembersKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get group members: %w", err)
	}
	editors, err := r.client.SMembers(ctx, groupEditorsKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get group editors: %w", err)
	}

	group := domain.NewGroup(meta.ID, meta.Name, meta.AdminID)
	group.CreatedAt = meta.CreatedAt
	for _, m := range members {
		group.Members[domain.UserID(m)] = struct{}{}
	}
	for _, e := range editors {
		group.Editors[domain.UserID(e)] = struct{}{}
	}
	return group, nil
}
