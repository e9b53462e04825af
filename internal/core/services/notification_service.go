package services

import (
	"context"
	"fmt"

	"github.com/pubudu2003060/NoteShare-sub000/internal/core/domain"
	"github.com/pubudu2003060/NoteShare-sub000/internal/core/ports"
	"github.com/pubudu2003060/NoteShare-sub000/pkg/validation"
)

// NotificationPage is one page of a recipient's notifications plus the
// aggregate counters the client renders alongside it.
type NotificationPage struct {
	Items         []*domain.Notification `json:"notifications"`
	UnviewedCount int                    `json:"unviewed_count"`
	TotalPages    int                    `json:"total_pages"`
	Page          int                    `json:"page"`
	PageSize      int                    `json:"page_size"`
}

type NotificationService interface {
	ListForUser(ctx context.Context, userID domain.UserID, page, pageSize int) (*NotificationPage, error)
	MarkViewed(ctx context.Context, id domain.NotificationID, userID domain.UserID) error
	MarkAllViewed(ctx context.Context, userID domain.UserID) error
	Delete(ctx context.Context, id domain.NotificationID, userID domain.UserID) error
}

type notificationService struct {
	notifications   ports.NotificationRepository
	defaultPageSize int
	maxPageSize     int
}

func NewNotificationService(notifications ports.NotificationRepository, defaultPageSize, maxPageSize int) NotificationService {
	return &notificationService{
		notifications:   notifications,
		defaultPageSize: defaultPageSize,
		maxPageSize:     maxPageSize,
	}
}

func (s *notificationService) ListForUser(ctx context.Context, userID domain.UserID, page, pageSize int) (*NotificationPage, error) {
	page, pageSize = validation.NormalizePage(page, pageSize, s.defaultPageSize, s.maxPageSize)

	offset := (page - 1) * pageSize
	items, total, unviewed, err := s.notifications.ListByRecipient(ctx, userID, offset, pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	totalPages := (total + pageSize - 1) / pageSize
	if totalPages == 0 {
		totalPages = 1
	}

	return &NotificationPage{
		Items:         items,
		UnviewedCount: unviewed,
		TotalPages:    totalPages,
		Page:          page,
		PageSize:      pageSize,
	}, nil
}

func (s *notificationService) MarkViewed(ctx context.Context, id domain.NotificationID, userID domain.UserID) error {
	return s.notifications.MarkViewed(ctx, id, userID)
}

func (s *notificationService) MarkAllViewed(ctx context.Context, userID domain.UserID) error {
	return s.notifications.MarkAllViewed(ctx, userID)
}

func (s *notificationService) Delete(ctx context.Context, id domain.NotificationID, userID domain.UserID) error {
	return s.notifications.Delete(ctx, id, userID)
}
