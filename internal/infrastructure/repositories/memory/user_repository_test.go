package memory

import (
	"context"
	"testing"
	"time"

	"github.com/pubudu2003060/NoteShare-sub000/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUser(id domain.UserID, email string) *domain.User {
	return &domain.User{
		ID:           id,
		Username:     string(id),
		Email:        email,
		PasswordHash: "hash",
		CreatedAt:    time.Now(),
	}
}

func TestUserCreate_And_Lookups(t *testing.T) {
	store := NewStore()
	repo := NewMemoryUserRepository(store)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newUser("u1", "alice@example.com")))

	byID, err := repo.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", byID.Email)

	byEmail, err := repo.GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, domain.UserID("u1"), byEmail.ID)
}

func TestUserCreate_DuplicateEmail(t *testing.T) {
	store := NewStore()
	repo := NewMemoryUserRepository(store)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newUser("u1", "alice@example.com")))
	err := repo.Create(ctx, newUser("u2", "alice@example.com"))

	assert.ErrorIs(t, err, domain.ErrUserExists)

	// The original record survives the rejected insert.
	got, lookupErr := repo.GetByEmail(ctx, "alice@example.com")
	require.NoError(t, lookupErr)
	assert.Equal(t, domain.UserID("u1"), got.ID)
}

func TestUserCreate_DuplicateID(t *testing.T) {
	store := NewStore()
	repo := NewMemoryUserRepository(store)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newUser("u1", "alice@example.com")))
	err := repo.Create(ctx, newUser("u1", "other@example.com"))

	assert.ErrorIs(t, err, domain.ErrUserExists)
}

func TestUserGet_Unknown(t *testing.T) {
	store := NewStore()
	repo := NewMemoryUserRepository(store)
	ctx := context.Background()

	_, err := repo.GetByID(ctx, "ghost")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	_, err = repo.GetByEmail(ctx, "ghost@example.com")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUserGet_ReturnsCopy(t *testing.T) {
	store := NewStore()
	repo := NewMemoryUserRepository(store)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newUser("u1", "alice@example.com")))

	first, err := repo.GetByID(ctx, "u1")
	require.NoError(t, err)
	first.Username = "mutated"

	second, err := repo.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", second.Username)
}
