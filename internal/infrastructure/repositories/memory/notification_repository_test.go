package memory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/pubudu2003060/NoteShare-sub000/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedInbox(t *testing.T, store *Store, recipient domain.UserID, count int) {
	t.Helper()
	repo := NewMemoryNotificationRepository(store)
	base := time.Now()
	for i := 0; i < count; i++ {
		err := repo.Create(context.Background(), &domain.Notification{
			ID:          domain.NotificationID(fmt.Sprintf("%s-n%02d", recipient, i)),
			RecipientID: recipient,
			SenderID:    "sender",
			Kind:        domain.KindShare,
			Title:       fmt.Sprintf("note %d", i),
			Message:     "a note was shared with you",
			ActionType:  domain.ActionNone,
			CreatedAt:   base.Add(time.Duration(i) * time.Second),
			UpdatedAt:   base.Add(time.Duration(i) * time.Second),
		})
		require.NoError(t, err)
	}
}

func TestListByRecipient_NewestFirst(t *testing.T) {
	store := NewStore()
	seedInbox(t, store, "alice", 5)

	repo := NewMemoryNotificationRepository(store)
	items, total, unviewed, err := repo.ListByRecipient(context.Background(), "alice", 0, 10)

	require.NoError(t, err)
	assert.Equal(t, 5, total)
	assert.Equal(t, 5, unviewed)
	require.Len(t, items, 5)
	assert.Equal(t, domain.NotificationID("alice-n04"), items[0].ID)
	assert.Equal(t, domain.NotificationID("alice-n00"), items[4].ID)
}

func TestListByRecipient_Pagination(t *testing.T) {
	store := NewStore()
	seedInbox(t, store, "alice", 7)

	repo := NewMemoryNotificationRepository(store)
	items, total, _, err := repo.ListByRecipient(context.Background(), "alice", 3, 3)

	require.NoError(t, err)
	assert.Equal(t, 7, total)
	require.Len(t, items, 3)
	assert.Equal(t, domain.NotificationID("alice-n03"), items[0].ID)
	assert.Equal(t, domain.NotificationID("alice-n01"), items[2].ID)
}

func TestListByRecipient_EmptyInbox(t *testing.T) {
	store := NewStore()
	repo := NewMemoryNotificationRepository(store)

	items, total, unviewed, err := repo.ListByRecipient(context.Background(), "nobody", 0, 10)

	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Zero(t, total)
	assert.Zero(t, unviewed)
}

func TestMarkViewed_DecrementsUnviewedOnce(t *testing.T) {
	store := NewStore()
	seedInbox(t, store, "alice", 3)
	ctx := context.Background()

	repo := NewMemoryNotificationRepository(store)
	require.NoError(t, repo.MarkViewed(ctx, "alice-n01", "alice"))
	require.NoError(t, repo.MarkViewed(ctx, "alice-n01", "alice"))

	_, _, unviewed, err := repo.ListByRecipient(ctx, "alice", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, unviewed)
}

func TestMarkViewed_ForeignRecipientIsNoOp(t *testing.T) {
	store := NewStore()
	seedInbox(t, store, "alice", 1)
	ctx := context.Background()

	repo := NewMemoryNotificationRepository(store)
	require.NoError(t, repo.MarkViewed(ctx, "alice-n00", "mallory"))
	require.NoError(t, repo.MarkViewed(ctx, "absent", "alice"))

	n, err := repo.GetByID(ctx, "alice-n00")
	require.NoError(t, err)
	assert.False(t, n.IsViewed)
}

func TestMarkAllViewed_ClearsUnviewedCount(t *testing.T) {
	store := NewStore()
	seedInbox(t, store, "alice", 4)
	seedInbox(t, store, "bob", 2)
	ctx := context.Background()

	repo := NewMemoryNotificationRepository(store)
	require.NoError(t, repo.MarkAllViewed(ctx, "alice"))

	_, _, unviewed, err := repo.ListByRecipient(ctx, "alice", 0, 10)
	require.NoError(t, err)
	assert.Zero(t, unviewed)

	// Bob's inbox is untouched.
	_, _, unviewed, err = repo.ListByRecipient(ctx, "bob", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, unviewed)
}

func TestDelete_RemovesFromInbox(t *testing.T) {
	store := NewStore()
	seedInbox(t, store, "alice", 3)
	ctx := context.Background()

	repo := NewMemoryNotificationRepository(store)
	require.NoError(t, repo.Delete(ctx, "alice-n01", "alice"))

	_, err := repo.GetByID(ctx, "alice-n01")
	assert.ErrorIs(t, err, domain.ErrNotificationNotFound)

	items, total, _, err := repo.ListByRecipient(ctx, "alice", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Equal(t, domain.NotificationID("alice-n02"), items[0].ID)
	assert.Equal(t, domain.NotificationID("alice-n00"), items[1].ID)
}

func TestDelete_ForeignRecipientIsNoOp(t *testing.T) {
	store := NewStore()
	seedInbox(t, store, "alice", 1)
	ctx := context.Background()

	repo := NewMemoryNotificationRepository(store)
	require.NoError(t, repo.Delete(ctx, "alice-n00", "mallory"))
	require.NoError(t, repo.Delete(ctx, "absent", "alice"))

	_, err := repo.GetByID(ctx, "alice-n00")
	assert.NoError(t, err)
}

func TestCreate_DuplicateIDRejected(t *testing.T) {
	store := NewStore()
	repo := NewMemoryNotificationRepository(store)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &domain.Notification{
		ID:          "n1",
		RecipientID: "alice",
		SenderID:    "bob",
		Kind:        domain.KindShare,
		Title:       "alice's note",
		ActionType:  domain.ActionNone,
	}))
	err := repo.Create(ctx, &domain.Notification{
		ID:          "n1",
		RecipientID: "bob",
		SenderID:    "alice",
		Kind:        domain.KindShare,
		Title:       "bob's note",
		ActionType:  domain.ActionNone,
	})
	require.Error(t, err)

	// Alice's inbox still serves her own record, not the rejected one.
	items, total, _, err := repo.ListByRecipient(ctx, "alice", 0, 10)
	require.NoError(t, err)
	require.Equal(t, 1, total)
	assert.Equal(t, domain.UserID("alice"), items[0].RecipientID)
	assert.Equal(t, "alice's note", items[0].Title)

	// The rejected insert left no trace in bob's inbox, and alice's bulk
	// viewed flip cannot reach any record of bob's.
	_, total, _, err = repo.ListByRecipient(ctx, "bob", 0, 10)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestCreate_StoresIndependentCopy(t *testing.T) {
	store := NewStore()
	repo := NewMemoryNotificationRepository(store)
	ctx := context.Background()

	n := &domain.Notification{
		ID:          "n1",
		RecipientID: "alice",
		SenderID:    "bob",
		Kind:        domain.KindShare,
		Title:       "original",
		ActionType:  domain.ActionNone,
	}
	require.NoError(t, repo.Create(ctx, n))
	n.Title = "mutated after create"

	got, err := repo.GetByID(ctx, "n1")
	require.NoError(t, err)
	assert.Equal(t, "original", got.Title)
}
