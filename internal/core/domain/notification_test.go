package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestResolve_LatchesOnce(t *testing.T) {
	n := &Notification{
		ID:          "n1",
		RecipientID: "admin",
		SenderID:    "student",
		Kind:        KindJoinRequest,
		ActionType:  ActionNone,
	}

	assert.True(t, n.Resolve(ActionApproved, time.Now()))
	assert.True(t, n.ActionTaken)
	assert.Equal(t, ActionApproved, n.ActionType)
	assert.True(t, n.IsViewed)
	assert.True(t, n.IsRead)

	// The latch is one-way: a second decision never overwrites the first.
	assert.False(t, n.Resolve(ActionRejected, time.Now()))
	assert.Equal(t, ActionApproved, n.ActionType)
}

func TestArbitrable_OnlyJoinRequests(t *testing.T) {
	for kind, want := range map[NotificationKind]bool{
		KindJoinRequest:    true,
		KindJoinInvitation: false,
		KindShare:          false,
		KindOther:          false,
	} {
		n := &Notification{Kind: kind}
		assert.Equal(t, want, n.Arbitrable(), "kind %s", kind)
	}
}

func TestNotificationKind_Valid(t *testing.T) {
	assert.True(t, KindJoinRequest.Valid())
	assert.True(t, KindOther.Valid())
	assert.False(t, NotificationKind("bogus").Valid())
	assert.False(t, NotificationKind("").Valid())
}

func TestNotificationClone_Independent(t *testing.T) {
	n := &Notification{ID: "n1", Title: "original"}
	cp := n.Clone()
	cp.Title = "mutated"
	assert.Equal(t, "original", n.Title)
}
