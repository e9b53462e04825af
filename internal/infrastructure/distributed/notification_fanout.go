package distributed

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pubudu2003060/NoteShare-sub000/internal/core/domain"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const fanoutChannel = "noteshare:notifications"

// fanoutEvent is the cross-instance frame for a freshly persisted
// notification. InstanceID lets every subscriber skip its own publishes.
type fanoutEvent struct {
	InstanceID   string               `json:"instance_id"`
	Timestamp    time.Time            `json:"timestamp"`
	Notification *domain.Notification `json:"notification"`
}

// NotificationFanout relays live pushes between instances over Redis pub/sub.
// Each instance publishes the notifications it persists; every other instance
// delivers them to recipients connected to it.
type NotificationFanout struct {
	client     *redis.Client
	instanceID string
	logger     *zap.SugaredLogger
	pubsub     *redis.PubSub
}

func NewNotificationFanout(client *redis.Client, instanceID string, logger *zap.SugaredLogger) *NotificationFanout {
	return &NotificationFanout{
		client:     client,
		instanceID: instanceID,
		logger:     logger,
	}
}

// Publish broadcasts the notification to the other instances.
func (f *NotificationFanout) Publish(ctx context.Context, n *domain.Notification) error {
	event := fanoutEvent{
		InstanceID:   f.instanceID,
		Timestamp:    time.Now(),
		Notification: n,
	}

	data, err := json.Marshal(&event)
	if err != nil {
		return fmt.Errorf("failed to marshal fanout event: %w", err)
	}

	if err := f.client.Publish(ctx, fanoutChannel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish fanout event: %w", err)
	}

	f.logger.Debugw("published notification fanout",
		"notification_id", n.ID,
		"recipient_id", n.RecipientID,
	)
	return nil
}

// Start subscribes and calls deliver for every notification published by
// another instance. It blocks until ctx is cancelled.
func (f *NotificationFanout) Start(ctx context.Context, deliver func(*domain.Notification)) error {
	if f.pubsub != nil {
		return fmt.Errorf("already subscribed")
	}

	f.pubsub = f.client.Subscribe(ctx, fanoutChannel)
	defer f.pubsub.Close()

	ch := f.pubsub.Channel()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}

			var event fanoutEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				f.logger.Warnw("failed to unmarshal fanout event",
					"error", err,
					"payload", msg.Payload,
				)
				continue
			}

			// Skip our own publishes; the local hub already delivered them.
			if event.InstanceID == f.instanceID || event.Notification == nil {
				continue
			}

			deliver(event.Notification)
		}
	}
}

// Close closes the subscription if one is active.
func (f *NotificationFanout) Close() error {
	if f.pubsub != nil {
		return f.pubsub.Close()
	}
	return nil
}
