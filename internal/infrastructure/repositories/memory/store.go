package memory

import (
	"sync"

	"github.com/pubudu2003060/NoteShare-sub000/internal/core/domain"
)

// Store is the shared in-memory state behind every memory repository. All
// repositories built from one Store take the same mutex, which is what lets
// the arbitration repository commit a latch check, a roster mutation and a
// follow-up insert as one unit.
type Store struct {
	mu sync.RWMutex

	users        map[domain.UserID]*domain.User
	usersByEmail map[string]domain.UserID
	groups       map[domain.GroupID]*domain.Group

	notifications map[domain.NotificationID]*domain.Notification
	// byRecipient keeps insertion order per recipient, newest appended last.
	byRecipient map[domain.UserID][]domain.NotificationID
}

func NewStore() *Store {
	return &Store{
		users:         make(map[domain.UserID]*domain.User),
		usersByEmail:  make(map[string]domain.UserID),
		groups:        make(map[domain.GroupID]*domain.Group),
		notifications: make(map[domain.NotificationID]*domain.Notification),
		byRecipient:   make(map[domain.UserID][]domain.NotificationID),
	}
}

// insertNotification appends under the store lock, which the caller must hold.
func (s *Store) insertNotification(n *domain.Notification) {
	s.notifications[n.ID] = n
	s.byRecipient[n.RecipientID] = append(s.byRecipient[n.RecipientID], n.ID)
}

// removeNotification detaches the id from both indexes. Caller holds the lock.
func (s *Store) removeNotification(n *domain.Notification) {
	delete(s.notifications, n.ID)
	ids := s.byRecipient[n.RecipientID]
	for i, id := range ids {
		if id == n.ID {
			s.byRecipient[n.RecipientID] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
}
