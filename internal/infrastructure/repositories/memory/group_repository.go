package memory

import (
	"context"
	"fmt"

	"github.com/pubudu2003060/NoteShare-sub000/internal/core/domain"
	"github.com/pubudu2003060/NoteShare-sub000/internal/core/ports"
)

type MemoryGroupRepository struct {
	store *Store
}

func NewMemoryGroupRepository(store *Store) ports.GroupRepository {
	return &MemoryGroupRepository{store: store}
}

func (r *MemoryGroupRepository) Create(ctx context.Context, group *domain.Group) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.groups[group.ID]; exists {
		return fmt.Errorf("group already exists: %s", group.ID)
	}

	r.store.groups[group.ID] = group.Clone()
	return nil
}

func (r *MemoryGroupRepository) GetByID(ctx context.Context, id domain.GroupID) (*domain.Group, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	group, ok := r.store.groups[id]
	if !ok {
		return nil, domain.ErrGroupNotFound
	}
	return group.Clone(), nil
}
