package services

import (
	"context"
	"fmt"
	"time"

	"github.com/pubudu2003060/NoteShare-sub000/internal/core/domain"
	"github.com/pubudu2003060/NoteShare-sub000/internal/core/ports"
	"github.com/pubudu2003060/NoteShare-sub000/pkg/tracing"
	"github.com/pubudu2003060/NoteShare-sub000/pkg/utils"

	"go.uber.org/zap"
)

// ArbitrationMetrics counts resolution outcomes. A nil implementation
// disables observation.
type ArbitrationMetrics interface {
	Arbitration(decision, result string)
}

// ArbitrationService resolves pending join requests exactly once. Approve
// couples the notification latch to the roster mutation; both paths share the
// same atomic conditional-update discipline.
type ArbitrationService interface {
	Approve(ctx context.Context, id domain.NotificationID, actingUserID domain.UserID) (*domain.Notification, error)
	Reject(ctx context.Context, id domain.NotificationID, actingUserID domain.UserID) (*domain.Notification, error)
}

type arbitrationService struct {
	notifications ports.NotificationRepository
	arbitration   ports.ArbitrationRepository
	dispatcher    ports.Dispatcher
	metrics       ArbitrationMetrics
	logger        *zap.SugaredLogger
}

func NewArbitrationService(
	notifications ports.NotificationRepository,
	arbitration ports.ArbitrationRepository,
	dispatcher ports.Dispatcher,
	metrics ArbitrationMetrics,
	logger *zap.SugaredLogger,
) ArbitrationService {
	return &arbitrationService{
		notifications: notifications,
		arbitration:   arbitration,
		dispatcher:    dispatcher,
		metrics:       metrics,
		logger:        logger,
	}
}

func (s *arbitrationService) Approve(ctx context.Context, id domain.NotificationID, actingUserID domain.UserID) (*domain.Notification, error) {
	return s.resolve(ctx, id, actingUserID, domain.ActionApproved)
}

func (s *arbitrationService) Reject(ctx context.Context, id domain.NotificationID, actingUserID domain.UserID) (*domain.Notification, error) {
	return s.resolve(ctx, id, actingUserID, domain.ActionRejected)
}

func (s *arbitrationService) resolve(ctx context.Context, id domain.NotificationID, actingUserID domain.UserID, decision domain.ActionType) (*domain.Notification, error) {
	ctx, span := tracing.TraceArbitration(ctx, string(decision), string(id))
	defer span.End()

	n, err := s.notifications.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	// A non-arbitrable notification is reported as absent, not forbidden.
	if !n.Arbitrable() {
		return nil, domain.ErrNotificationNotFound
	}
	// Authority is carried by being the recipient of the join request.
	if n.RecipientID != actingUserID {
		s.observe(decision, "forbidden")
		return nil, domain.ErrForbidden
	}
	// Fast pre-check; the repository re-checks inside the atomic commit.
	if n.ActionTaken {
		s.observe(decision, "conflict")
		return nil, domain.ErrAlreadyProcessed
	}

	followUp := s.buildFollowUp(n, decision)

	resolved, err := s.arbitration.Resolve(ctx, ports.ResolveRequest{
		NotificationID: id,
		Decision:       decision,
		FollowUp:       followUp,
	})
	if err != nil {
		if err == domain.ErrAlreadyProcessed {
			s.observe(decision, "conflict")
		} else {
			tracing.RecordError(ctx, err)
			s.observe(decision, "error")
		}
		return nil, err
	}

	s.observe(decision, "ok")
	s.logger.Infow("join request resolved",
		"notification_id", id,
		"decision", decision,
		"group_id", n.Payload.GroupID,
		"requester_id", n.SenderID,
	)

	// The follow-up is already durable; only the live push remains.
	go s.dispatcher.Push(followUp)

	return resolved, nil
}

// buildFollowUp creates the notification announcing the outcome to the user
// who originally asked to join.
func (s *arbitrationService) buildFollowUp(n *domain.Notification, decision domain.ActionType) *domain.Notification {
	groupName := n.Payload.GroupName
	if groupName == "" {
		groupName = "the group"
	}

	var title, message string
	if decision == domain.ActionApproved {
		title = fmt.Sprintf("Your request to join '%s' was approved", groupName)
		message = fmt.Sprintf("You are now a member of '%s'.", groupName)
	} else {
		title = fmt.Sprintf("Your request to join '%s' was rejected", groupName)
		message = fmt.Sprintf("The admin of '%s' declined your join request.", groupName)
	}

	now := time.Now()
	return &domain.Notification{
		ID:          domain.NotificationID(utils.GenerateNotificationID()),
		RecipientID: n.SenderID,
		SenderID:    n.RecipientID,
		Kind:        domain.KindOther,
		Title:       title,
		Message:     message,
		Payload:     n.Payload,
		ActionType:  domain.ActionNone,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func (s *arbitrationService) observe(decision domain.ActionType, result string) {
	if s.metrics != nil {
		s.metrics.Arbitration(string(decision), result)
	}
}
