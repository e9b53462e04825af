package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/pubudu2003060/NoteShare-sub000/internal/core/domain"
	"github.com/pubudu2003060/NoteShare-sub000/internal/core/ports"
)

type MemoryNotificationRepository struct {
	store *Store
}

func NewMemoryNotificationRepository(store *Store) ports.NotificationRepository {
	return &MemoryNotificationRepository{store: store}
}

func (r *MemoryNotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	// A colliding id would splice another recipient's record into this
	// inbox and corrupt both viewed indexes.
	if _, exists := r.store.notifications[n.ID]; exists {
		return fmt.Errorf("notification %s already exists", n.ID)
	}
	r.store.insertNotification(n.Clone())
	return nil
}

func (r *MemoryNotificationRepository) GetByID(ctx context.Context, id domain.NotificationID) (*domain.Notification, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	n, ok := r.store.notifications[id]
	if !ok {
		return nil, domain.ErrNotificationNotFound
	}
	return n.Clone(), nil
}

func (r *MemoryNotificationRepository) ListByRecipient(ctx context.Context, userID domain.UserID, offset, limit int) ([]*domain.Notification, int, int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	ids := r.store.byRecipient[userID]
	total := len(ids)

	unviewed := 0
	for _, id := range ids {
		if !r.store.notifications[id].IsViewed {
			unviewed++
		}
	}

	// ids are oldest first; walk from the tail to list newest first.
	items := make([]*domain.Notification, 0, limit)
	for i := total - 1 - offset; i >= 0 && len(items) < limit; i-- {
		items = append(items, r.store.notifications[ids[i]].Clone())
	}

	return items, total, unviewed, nil
}

func (r *MemoryNotificationRepository) MarkViewed(ctx context.Context, id domain.NotificationID, userID domain.UserID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	n, ok := r.store.notifications[id]
	if !ok || n.RecipientID != userID || n.IsViewed {
		return nil
	}
	n.IsViewed = true
	n.UpdatedAt = time.Now()
	return nil
}

func (r *MemoryNotificationRepository) MarkAllViewed(ctx context.Context, userID domain.UserID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	now := time.Now()
	for _, id := range r.store.byRecipient[userID] {
		n := r.store.notifications[id]
		if !n.IsViewed {
			n.IsViewed = true
			n.UpdatedAt = now
		}
	}
	return nil
}

func (r *MemoryNotificationRepository) Delete(ctx context.Context, id domain.NotificationID, userID domain.UserID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	n, ok := r.store.notifications[id]
	if !ok || n.RecipientID != userID {
		return nil
	}
	r.store.removeNotification(n)
	return nil
}
