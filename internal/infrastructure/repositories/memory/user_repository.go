package memory

import (
	"context"

	"github.com/pubudu2003060/NoteShare-sub000/internal/core/domain"
	"github.com/pubudu2003060/NoteShare-sub000/internal/core/ports"
)

type MemoryUserRepository struct {
	store *Store
}

func NewMemoryUserRepository(store *Store) ports.UserRepository {
	return &MemoryUserRepository{store: store}
}

func (r *MemoryUserRepository) Create(ctx context.Context, user *domain.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.usersByEmail[user.Email]; exists {
		return domain.ErrUserExists
	}
	if _, exists := r.store.users[user.ID]; exists {
		return domain.ErrUserExists
	}

	cp := *user
	r.store.users[user.ID] = &cp
	r.store.usersByEmail[user.Email] = user.ID
	return nil
}

func (r *MemoryUserRepository) GetByID(ctx context.Context, id domain.UserID) (*domain.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	user, ok := r.store.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *user
	return &cp, nil
}

func (r *MemoryUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	id, ok := r.store.usersByEmail[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *r.store.users[id]
	return &cp, nil
}
