package services

import (
	"context"
	"testing"
	"time"

	"github.com/pubudu2003060/NoteShare-sub000/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id domain.UserID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func newTestAuthService(users *MockUserRepository) AuthService {
	return NewAuthService("test-secret", time.Hour, 24*time.Hour, users)
}

func TestRegister_CreatesUserWithHashedPassword(t *testing.T) {
	users := &MockUserRepository{}
	users.On("GetByEmail", mock.Anything, "alice@example.com").Return(nil, domain.ErrUserNotFound)
	users.On("Create", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.Email == "alice@example.com" && u.PasswordHash != "" && u.PasswordHash != "secret123"
	})).Return(nil)

	svc := newTestAuthService(users)
	user, err := svc.Register(context.Background(), "alice", "Alice@Example.com", "secret123")

	assert.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.NotEmpty(t, user.ID)
	users.AssertExpectations(t)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	existing := &domain.User{ID: "u1", Email: "alice@example.com"}
	users := &MockUserRepository{}
	users.On("GetByEmail", mock.Anything, "alice@example.com").Return(existing, nil)

	svc := newTestAuthService(users)
	_, err := svc.Register(context.Background(), "alice", "alice@example.com", "secret123")

	assert.ErrorIs(t, err, domain.ErrUserExists)
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestLogin_WrongPassword(t *testing.T) {
	users := &MockUserRepository{}
	users.On("GetByEmail", mock.Anything, "alice@example.com").Return(nil, domain.ErrUserNotFound)

	svc := newTestAuthService(users)
	users.On("Create", mock.Anything, mock.Anything).Return(nil)
	registered, err := svc.Register(context.Background(), "alice", "alice@example.com", "secret123")
	assert.NoError(t, err)

	loginRepo := &MockUserRepository{}
	loginRepo.On("GetByEmail", mock.Anything, "alice@example.com").Return(registered, nil)
	loginSvc := newTestAuthService(loginRepo)

	_, err = loginSvc.Login(context.Background(), "alice@example.com", "wrong-password")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	user, err := loginSvc.Login(context.Background(), "alice@example.com", "secret123")
	assert.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
}

func TestLogin_UnknownEmailMapsToInvalidCredentials(t *testing.T) {
	users := &MockUserRepository{}
	users.On("GetByEmail", mock.Anything, "ghost@example.com").Return(nil, domain.ErrUserNotFound)

	svc := newTestAuthService(users)
	_, err := svc.Login(context.Background(), "ghost@example.com", "whatever")

	// Unknown email and wrong password are indistinguishable to the caller.
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestVerifyAccessToken_Roundtrip(t *testing.T) {
	user := &domain.User{ID: "u1", Username: "alice"}
	users := &MockUserRepository{}
	users.On("GetByID", mock.Anything, domain.UserID("u1")).Return(user, nil)

	svc := newTestAuthService(users)
	token, ttl, err := svc.IssueAccessToken("u1", "alice")
	assert.NoError(t, err)
	assert.Equal(t, time.Hour, ttl)

	claims, err := svc.VerifyAccessToken(context.Background(), token)
	assert.NoError(t, err)
	assert.Equal(t, domain.UserID("u1"), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
}

func TestVerifyAccessToken_RejectsRefreshToken(t *testing.T) {
	users := &MockUserRepository{}
	svc := newTestAuthService(users)

	refresh, _, err := svc.IssueRefreshToken("u1")
	assert.NoError(t, err)

	_, err = svc.VerifyAccessToken(context.Background(), refresh)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRefreshToken_RejectsAccessToken(t *testing.T) {
	users := &MockUserRepository{}
	svc := newTestAuthService(users)

	access, _, err := svc.IssueAccessToken("u1", "alice")
	assert.NoError(t, err)

	_, err = svc.VerifyRefreshToken(context.Background(), access)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyAccessToken_Expired(t *testing.T) {
	users := &MockUserRepository{}
	svc := NewAuthService("test-secret", -time.Minute, 24*time.Hour, users)

	token, _, err := svc.IssueAccessToken("u1", "alice")
	assert.NoError(t, err)

	_, err = svc.VerifyAccessToken(context.Background(), token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestVerifyAccessToken_DeletedUserFailsClosed(t *testing.T) {
	users := &MockUserRepository{}
	users.On("GetByID", mock.Anything, domain.UserID("u1")).Return(nil, domain.ErrUserNotFound)

	svc := newTestAuthService(users)
	token, _, err := svc.IssueAccessToken("u1", "alice")
	assert.NoError(t, err)

	_, err = svc.VerifyAccessToken(context.Background(), token)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestVerifyAccessToken_WrongSecret(t *testing.T) {
	users := &MockUserRepository{}
	issuer := NewAuthService("other-secret", time.Hour, 24*time.Hour, users)
	verifier := newTestAuthService(users)

	token, _, err := issuer.IssueAccessToken("u1", "alice")
	assert.NoError(t, err)

	_, err = verifier.VerifyAccessToken(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
