package ports

import (
	"context"

	"github.com/pubudu2003060/NoteShare-sub000/internal/core/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id domain.UserID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type GroupRepository interface {
	Create(ctx context.Context, group *domain.Group) error
	GetByID(ctx context.Context, id domain.GroupID) (*domain.Group, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
	GetByID(ctx context.Context, id domain.NotificationID) (*domain.Notification, error)
	// ListByRecipient returns the recipient's notifications ordered by
	// creation time descending, the total record count and the unviewed count.
	ListByRecipient(ctx context.Context, userID domain.UserID, offset, limit int) ([]*domain.Notification, int, int, error)
	// MarkViewed flips isViewed to true. Absent or foreign notifications are
	// silent no-ops so existence never leaks.
	MarkViewed(ctx context.Context, id domain.NotificationID, userID domain.UserID) error
	MarkAllViewed(ctx context.Context, userID domain.UserID) error
	// Delete removes the notification only when userID is the recipient;
	// otherwise it is a silent no-op.
	Delete(ctx context.Context, id domain.NotificationID, userID domain.UserID) error
}

// ResolveRequest describes one arbitration commit: latch the join request's
// decision, apply the roster mutation for approvals, and persist the follow-up
// notification addressed to the original requester.
type ResolveRequest struct {
	NotificationID domain.NotificationID
	Decision       domain.ActionType
	FollowUp       *domain.Notification
}

// ArbitrationRepository owns the one true atomic conditional update in the
// system. Resolve commits the latch check, the membership insertion (approvals
// only) and the follow-up creation as a single unit: of two concurrent calls
// on the same notification exactly one succeeds, the other fails with
// domain.ErrAlreadyProcessed.
type ArbitrationRepository interface {
	Resolve(ctx context.Context, req ResolveRequest) (*domain.Notification, error)
}
