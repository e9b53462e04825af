package domain

import "time"

type NotificationID string

// NotificationKind is a closed set. Only join_request notifications are
// arbitrable; the rest are informational.
type NotificationKind string

const (
	KindJoinRequest    NotificationKind = "join_request"
	KindJoinInvitation NotificationKind = "join_invitation"
	KindShare          NotificationKind = "share"
	KindOther          NotificationKind = "other"
)

func (k NotificationKind) Valid() bool {
	switch k {
	case KindJoinRequest, KindJoinInvitation, KindShare, KindOther:
		return true
	}
	return false
}

type ActionType string

const (
	ActionNone     ActionType = "none"
	ActionApproved ActionType = "approved"
	ActionRejected ActionType = "rejected"
)

// NotificationPayload carries the structured context of the triggering event.
// For join requests it holds the group reference and the group's display name
// cached at creation time.
type NotificationPayload struct {
	GroupID   GroupID `json:"group_id,omitempty"`
	GroupName string  `json:"group_name,omitempty"`
}

type Notification struct {
	ID          NotificationID      `json:"id"`
	RecipientID UserID              `json:"recipient_id"`
	SenderID    UserID              `json:"sender_id"`
	Kind        NotificationKind    `json:"kind"`
	Title       string              `json:"title"`
	Message     string              `json:"message"`
	Payload     NotificationPayload `json:"payload"`
	IsViewed    bool                `json:"is_viewed"`
	IsRead      bool                `json:"is_read"`
	ActionTaken bool                `json:"action_taken"`
	ActionType  ActionType          `json:"action_type"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// Arbitrable reports whether the approve/reject workflow applies.
func (n *Notification) Arbitrable() bool {
	return n.Kind == KindJoinRequest
}

// Resolve latches the arbitration outcome. Once taken the action is
// permanent; resolving an already resolved notification reports false.
func (n *Notification) Resolve(action ActionType, now time.Time) bool {
	if n.ActionTaken {
		return false
	}
	n.ActionTaken = true
	n.ActionType = action
	n.IsViewed = true
	n.IsRead = true
	n.UpdatedAt = now
	return true
}

func (n *Notification) Clone() *Notification {
	cp := *n
	return &cp
}
