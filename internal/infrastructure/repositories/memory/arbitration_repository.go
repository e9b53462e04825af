package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/pubudu2003060/NoteShare-sub000/internal/core/domain"
	"github.com/pubudu2003060/NoteShare-sub000/internal/core/ports"
)

type MemoryArbitrationRepository struct {
	store *Store
}

func NewMemoryArbitrationRepository(store *Store) ports.ArbitrationRepository {
	return &MemoryArbitrationRepository{store: store}
}

// Resolve commits the entire decision under one write lock: the latch check
// and flip, the group roster insert for approvals, and the follow-up insert.
// Concurrent calls on the same notification serialize here; only the first
// one finds the latch open.
func (r *MemoryArbitrationRepository) Resolve(ctx context.Context, req ports.ResolveRequest) (*domain.Notification, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	n, ok := r.store.notifications[req.NotificationID]
	if !ok {
		return nil, domain.ErrNotificationNotFound
	}

	var group *domain.Group
	if req.Decision == domain.ActionApproved {
		if group, ok = r.store.groups[n.Payload.GroupID]; !ok {
			return nil, domain.ErrGroupNotFound
		}
	}

	if req.FollowUp != nil {
		if _, exists := r.store.notifications[req.FollowUp.ID]; exists {
			return nil, fmt.Errorf("notification %s already exists", req.FollowUp.ID)
		}
	}

	if !n.Resolve(req.Decision, time.Now()) {
		return nil, domain.ErrAlreadyProcessed
	}
	if group != nil {
		group.AddMember(n.SenderID)
	}

	if req.FollowUp != nil {
		r.store.insertNotification(req.FollowUp.Clone())
	}

	return n.Clone(), nil
}
