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

type RedisNotificationRepository struct {
	client *redis.Client
}

func NewRedisNotificationRepository(client *redis.Client) ports.NotificationRepository {
	return &RedisNotificationRepository{client: client}
}

func (r *RedisNotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	data, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	// SetNX claims the record key; a colliding id would splice another
	// recipient's record into this inbox.
	ok, err := r.client.SetNX(ctx, notificationKey(n.ID), data, 0).Result()
	if err != nil {
		return fmt.Errorf("failed to set notification in Redis: %w", err)
	}
	if !ok {
		return fmt.Errorf("notification %s already exists", n.ID)
	}

	pipe := r.client.TxPipeline()
	pipe.LPush(ctx, inboxKey(n.RecipientID), string(n.ID))
	if !n.IsViewed {
		pipe.SAdd(ctx, inboxUnviewedKey(n.RecipientID), string(n.ID))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to index notification in Redis: %w", err)
	}
	return nil
}

func (r *RedisNotificationRepository) GetByID(ctx context.Context, id domain.NotificationID) (*domain.Notification, error) {
	data, err := r.client.Get(ctx, notificationKey(id)).Result()
	if err == redis.Nil {
		return nil, domain.ErrNotificationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get notification from Redis: %w", err)
	}

	var n domain.Notification
	if err := json.Unmarshal([]byte(data), &n); err != nil {
		return nil, fmt.Errorf("failed to unmarshal notification: %w", err)
	}
	return &n, nil
}

func (r *RedisNotificationRepository) ListByRecipient(ctx context.Context, userID domain.UserID, offset, limit int) ([]*domain.Notification, int, int, error) {
	listKey := inboxKey(userID)

	total, err := r.client.LLen(ctx, listKey).Result()
	if err != nil {
		return nil, 0, 0, fmt.Errorf("failed to get inbox length: %w", err)
	}
	unviewed, err := r.client.SCard(ctx, inboxUnviewedKey(userID)).Result()
	if err != nil {
		return nil, 0, 0, fmt.Errorf("failed to get unviewed count: %w", err)
	}

	// LPush keeps the newest id at the head, so a plain range walk is
	// already creation time descending.
	ids, err := r.client.LRange(ctx, listKey, int64(offset), int64(offset+limit-1)).Result()
	if err != nil {
		return nil, 0, 0, fmt.Errorf("failed to range inbox: %w", err)
	}

	items := make([]*domain.Notification, 0, len(ids))
	for _, id := range ids {
		n, err := r.GetByID(ctx, domain.NotificationID(id))
		if err == domain.ErrNotificationNotFound {
			// Stale index entry, skip it.
			continue
		}
		if err != nil {
			return nil, 0, 0, err
		}
		items = append(items, n)
	}

	return items, int(total), int(unviewed), nil
}

func (r *RedisNotificationRepository) MarkViewed(ctx context.Context, id domain.NotificationID, userID domain.UserID) error {
	n, err := r.GetByID(ctx, id)
	if err == domain.ErrNotificationNotFound {
		return nil
	}
	if err != nil {
		return err
	}
	if n.RecipientID != userID || n.IsViewed {
		return nil
	}

	n.IsViewed = true
	n.UpdatedAt = time.Now()
	data, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, notificationKey(id), data, 0)
	pipe.SRem(ctx, inboxUnviewedKey(userID), string(id))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to mark notification viewed: %w", err)
	}
	return nil
}

func (r *RedisNotificationRepository) MarkAllViewed(ctx context.Context, userID domain.UserID) error {
	ids, err := r.client.SMembers(ctx, inboxUnviewedKey(userID)).Result()
	if err != nil {
		return fmt.Errorf("failed to get unviewed set: %w", err)
	}

	for _, id := range ids {
		if err := r.MarkViewed(ctx, domain.NotificationID(id), userID); err != nil {
			return err
		}
	}
	return nil
}

func (r *RedisNotificationRepository) Delete(ctx context.Context, id domain.NotificationID, userID domain.UserID) error {
	n, err := r.GetByID(ctx, id)
	if err == domain.ErrNotificationNotFound {
		return nil
	}
	if err != nil {
		return err
	}
	if n.RecipientID != userID {
		return nil
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, notificationKey(id))
	pipe.LRem(ctx, inboxKey(userID), 0, string(id))
	pipe.SRem(ctx, inboxUnviewedKey(userID), string(id))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete notification: %w", err)
	}
	return nil
}
