package services

import (
	"context"
	"fmt"
	"time"

	"github.com/pubudu2003060/NoteShare-sub000/internal/core/domain"
	"github.com/pubudu2003060/NoteShare-sub000/internal/core/ports"
	"github.com/pubudu2003060/NoteShare-sub000/pkg/circuitbreaker"
	apperrors "github.com/pubudu2003060/NoteShare-sub000/pkg/errors"
	"github.com/pubudu2003060/NoteShare-sub000/pkg/tracing"
	"github.com/pubudu2003060/NoteShare-sub000/pkg/utils"

	"go.uber.org/zap"
)

// EventNewNotification is the live event name carrying a freshly created
// notification record.
const EventNewNotification = "new_notification"

// FanoutPublisher propagates a committed notification to the other server
// instances so their local registries can attempt delivery too.
type FanoutPublisher interface {
	Publish(ctx context.Context, n *domain.Notification) error
}

// DispatcherMetrics is the slice of the metrics collector the dispatcher
// feeds. A nil implementation disables observation.
type DispatcherMetrics interface {
	NotificationPublished(kind string)
	LiveDelivery(result string)
}

type dispatcherService struct {
	notifications ports.NotificationRepository
	pusher        ports.Pusher
	fanout        FanoutPublisher
	fanoutBreaker *circuitbreaker.CircuitBreaker
	metrics       DispatcherMetrics
	logger        *zap.SugaredLogger
}

// NewDispatcherService composes the notification store with best-effort live
// delivery. fanout and metrics may be nil.
func NewDispatcherService(
	notifications ports.NotificationRepository,
	pusher ports.Pusher,
	fanout FanoutPublisher,
	metrics DispatcherMetrics,
	logger *zap.SugaredLogger,
) ports.Dispatcher {
	return &dispatcherService{
		notifications: notifications,
		pusher:        pusher,
		fanout:        fanout,
		fanoutBreaker: circuitbreaker.New(circuitbreaker.DefaultConfig()),
		metrics:       metrics,
		logger:        logger,
	}
}

// Publish persists the notification and then attempts live delivery. Only the
// persistence step can fail the call; push failures are logged and counted.
func (s *dispatcherService) Publish(ctx context.Context, input ports.PublishInput) (*domain.Notification, error) {
	ctx, span := tracing.TracePublish(ctx, string(input.Kind), string(input.RecipientID))
	defer span.End()

	if err := validatePublishInput(input); err != nil {
		tracing.RecordError(ctx, err)
		return nil, err
	}

	now := time.Now()
	n := &domain.Notification{
		ID:          domain.NotificationID(utils.GenerateNotificationID()),
		RecipientID: input.RecipientID,
		SenderID:    input.SenderID,
		Kind:        input.Kind,
		Title:       input.Title,
		Message:     input.Message,
		Payload:     input.Payload,
		ActionType:  domain.ActionNone,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.notifications.Create(ctx, n); err != nil {
		tracing.RecordError(ctx, err)
		if apperrors.IsAppError(err) {
			return nil, err
		}
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "failed to persist notification", 500)
	}

	if s.metrics != nil {
		s.metrics.NotificationPublished(string(n.Kind))
	}

	// Push is decoupled from the request: the record is already durable and
	// delivery to a disconnected recipient is a no-op, not a failure.
	go s.Push(n)

	return n, nil
}

// Push attempts best-effort live delivery of an already persisted
// notification, locally and through the cross-instance fan-out.
func (s *dispatcherService) Push(n *domain.Notification) {
	delivered := s.pusher.Deliver(n.RecipientID, EventNewNotification, n)
	if s.metrics != nil {
		if delivered {
			s.metrics.LiveDelivery("delivered")
		} else {
			s.metrics.LiveDelivery("skipped")
		}
	}
	if !delivered {
		s.logger.Debugw("recipient not connected, live delivery skipped",
			"notification_id", n.ID,
			"recipient_id", n.RecipientID,
		)
	}

	if s.fanout == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := s.fanoutBreaker.Execute(ctx, func() error {
		return s.fanout.Publish(ctx, n)
	})
	if err != nil {
		if s.metrics != nil {
			s.metrics.LiveDelivery("fanout_failed")
		}
		s.logger.Warnw("cross-instance fanout failed",
			"notification_id", n.ID,
			"error", err,
		)
	}
}

func validatePublishInput(input ports.PublishInput) error {
	switch {
	case input.RecipientID == "":
		return apperrors.NewInvalidInputError("recipient is required")
	case input.SenderID == "":
		return apperrors.NewInvalidInputError("sender is required")
	case input.Title == "":
		return apperrors.NewInvalidInputError("title is required")
	case input.Message == "":
		return apperrors.NewInvalidInputError("message is required")
	case !input.Kind.Valid():
		return apperrors.NewInvalidInputError(fmt.Sprintf("unknown notification kind: %s", input.Kind))
	}
	return nil
}
