package ports

import (
	"context"

	"github.com/pubudu2003060/NoteShare-sub000/internal/core/domain"
)

// Pusher is the deliver-if-present side of the live-connection registry.
// Deliver reports whether a connection received the event; a missing
// connection is not an error, the durable record remains the source of truth.
type Pusher interface {
	Deliver(userID domain.UserID, event string, payload interface{}) bool
}

// PublishInput is the dispatcher's creation request for one notification.
type PublishInput struct {
	RecipientID domain.UserID
	SenderID    domain.UserID
	Kind        domain.NotificationKind
	Title       string
	Message     string
	Payload     domain.NotificationPayload
}

// Dispatcher persists a notification and then attempts best-effort live
// delivery. Push delivers an already persisted notification without writing.
type Dispatcher interface {
	Publish(ctx context.Context, input PublishInput) (*domain.Notification, error)
	Push(n *domain.Notification)
}
