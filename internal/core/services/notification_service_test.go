package services

import (
	"context"
	"testing"

	"github.com/pubudu2003060/NoteShare-sub000/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockNotificationRepository) GetByID(ctx context.Context, id domain.NotificationID) (*domain.Notification, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Notification), args.Error(1)
}

func (m *MockNotificationRepository) ListByRecipient(ctx context.Context, userID domain.UserID, offset, limit int) ([]*domain.Notification, int, int, error) {
	args := m.Called(ctx, userID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Int(2), args.Error(3)
	}
	return args.Get(0).([]*domain.Notification), args.Int(1), args.Int(2), args.Error(3)
}

func (m *MockNotificationRepository) MarkViewed(ctx context.Context, id domain.NotificationID, userID domain.UserID) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

func (m *MockNotificationRepository) MarkAllViewed(ctx context.Context, userID domain.UserID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockNotificationRepository) Delete(ctx context.Context, id domain.NotificationID, userID domain.UserID) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

func TestListForUser_DefaultsAppliedForZeroValues(t *testing.T) {
	repo := &MockNotificationRepository{}
	repo.On("ListByRecipient", mock.Anything, domain.UserID("u1"), 0, 10).
		Return([]*domain.Notification{}, 0, 0, nil)

	svc := NewNotificationService(repo, 10, 50)
	page, err := svc.ListForUser(context.Background(), "u1", 0, 0)

	assert.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 10, page.PageSize)
	assert.Equal(t, 1, page.TotalPages)
	repo.AssertExpectations(t)
}

func TestListForUser_PageSizeCappedAtMax(t *testing.T) {
	repo := &MockNotificationRepository{}
	repo.On("ListByRecipient", mock.Anything, domain.UserID("u1"), 50, 50).
		Return([]*domain.Notification{}, 120, 7, nil)

	svc := NewNotificationService(repo, 10, 50)
	page, err := svc.ListForUser(context.Background(), "u1", 2, 500)

	assert.NoError(t, err)
	assert.Equal(t, 50, page.PageSize)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 7, page.UnviewedCount)
}

func TestListForUser_OffsetFromPage(t *testing.T) {
	repo := &MockNotificationRepository{}
	repo.On("ListByRecipient", mock.Anything, domain.UserID("u1"), 20, 10).
		Return([]*domain.Notification{{ID: "n1"}}, 21, 3, nil)

	svc := NewNotificationService(repo, 10, 50)
	page, err := svc.ListForUser(context.Background(), "u1", 3, 10)

	assert.NoError(t, err)
	assert.Equal(t, 3, page.Page)
	assert.Len(t, page.Items, 1)
	assert.Equal(t, 3, page.TotalPages)
}

func TestMarkViewedAndDelete_DelegateToRepository(t *testing.T) {
	repo := &MockNotificationRepository{}
	repo.On("MarkViewed", mock.Anything, domain.NotificationID("n1"), domain.UserID("u1")).Return(nil)
	repo.On("MarkAllViewed", mock.Anything, domain.UserID("u1")).Return(nil)
	repo.On("Delete", mock.Anything, domain.NotificationID("n1"), domain.UserID("u1")).Return(nil)

	svc := NewNotificationService(repo, 10, 50)
	assert.NoError(t, svc.MarkViewed(context.Background(), "n1", "u1"))
	assert.NoError(t, svc.MarkAllViewed(context.Background(), "u1"))
	assert.NoError(t, svc.Delete(context.Background(), "n1", "u1"))
	repo.AssertExpectations(t)
}
