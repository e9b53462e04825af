package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pubudu2003060/NoteShare-sub000/internal/core/domain"
	"github.com/pubudu2003060/NoteShare-sub000/internal/core/ports"
	"github.com/pubudu2003060/NoteShare-sub000/pkg/retry"

	"github.com/redis/go-redis/v9"
)

type RedisArbitrationRepository struct {
	client *redis.Client
	retry  retry.Config
}

func NewRedisArbitrationRepository(client *redis.Client) ports.ArbitrationRepository {
	return &RedisArbitrationRepository{
		client: client,
		retry:  retry.DefaultConfig(),
	}
}

// Resolve implements the decision commit as a WATCH transaction on the
// notification key. The latch re-check happens inside the watched section, so
// a concurrent resolver either loses the WATCH (redis.TxFailedErr, retried)
// or finds the latch closed (ErrAlreadyProcessed, permanent). The roster
// SAdd and the follow-up writes ride the same MULTI/EXEC.
func (r *RedisArbitrationRepository) Resolve(ctx context.Context, req ports.ResolveRequest) (*domain.Notification, error) {
	var resolved *domain.Notification

	err := retry.Do(ctx, r.retry, func() error {
		err := r.client.Watch(ctx, func(tx *redis.Tx) error {
			data, err := tx.Get(ctx, notificationKey(req.NotificationID)).Result()
			if err == redis.Nil {
				return retry.Permanent(domain.ErrNotificationNotFound)
			}
			if err != nil {
				return fmt.Errorf("failed to get notification from Redis: %w", err)
			}

			var n domain.Notification
			if err := json.Unmarshal([]byte(data), &n); err != nil {
				return retry.Permanent(fmt.Errorf("failed to unmarshal notification: %w", err))
			}

			var groupAdmin domain.UserID
			if req.Decision == domain.ActionApproved {
				gdata, err := tx.Get(ctx, groupKey(n.Payload.GroupID)).Result()
				if err == redis.Nil {
					return retry.Permanent(domain.ErrGroupNotFound)
				}
				if err != nil {
					return fmt.Errorf("failed to get group from Redis: %w", err)
				}
				var meta groupMeta
				if err := json.Unmarshal([]byte(gdata), &meta); err != nil {
					return retry.Permanent(fmt.Errorf("failed to unmarshal group: %w", err))
				}
				groupAdmin = meta.AdminID
			}

			if !n.Resolve(req.Decision, time.Now()) {
				return retry.Permanent(domain.ErrAlreadyProcessed)
			}

			updated, err := json.Marshal(&n)
			if err != nil {
				return retry.Permanent(fmt.Errorf("failed to marshal notification: %w", err))
			}

			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Set(ctx, notificationKey(n.ID), updated, 0)
				pipe.SRem(ctx, inboxUnviewedKey(n.RecipientID), string(n.ID))

				// The admin is never a roster entry.
				if req.Decision == domain.ActionApproved && n.SenderID != groupAdmin {
					pipe.SAdd(ctx, groupMembersKey(n.Payload.GroupID), string(n.SenderID))
				}

				if req.FollowUp != nil {
					fu, err := json.Marshal(req.FollowUp)
					if err != nil {
						return err
					}
					pipe.Set(ctx, notificationKey(req.FollowUp.ID), fu, 0)
					pipe.LPush(ctx, inboxKey(req.FollowUp.RecipientID), string(req.FollowUp.ID))
					pipe.SAdd(ctx, inboxUnviewedKey(req.FollowUp.RecipientID), string(req.FollowUp.ID))
				}
				return nil
			})
			if err != nil {
				return err
			}

			resolved = &n
			return nil
		}, notificationKey(req.NotificationID))

		// Losing the WATCH means another resolver raced us; re-read and
		// re-check the latch on the next attempt.
		return err
	})
	if err != nil {
		return nil, err
	}
	return resolved, nil
}
