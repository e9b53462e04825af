package redis

import (
	"fmt"

	"github.com/pubudu2003060/NoteShare-sub000/internal/core/domain"
)

// Key layout. All keys share the "noteshare:" namespace:
//
//	noteshare:user:<id>                    user JSON
//	noteshare:user:email:<email>           email -> user id
//	noteshare:group:<id>                   group metadata JSON
//	noteshare:group:<id>:members           member id set
//	noteshare:group:<id>:editors           editor id set
//	noteshare:notification:<id>            notification JSON
//	noteshare:inbox:<userID>               notification id list, newest first
//	noteshare:inbox:<userID>:unviewed      unviewed notification id set
const keyPrefix = "noteshare:"

func userKey(id domain.UserID) string {
	return keyPrefix + "user:" + string(id)
}

func userEmailKey(email string) string {
	return keyPrefix + "user:email:" + email
}

func groupKey(id domain.GroupID) string {
	return keyPrefix + "group:" + string(id)
}

func groupMembersKey(id domain.GroupID) string {
	return fmt.Sprintf("%sgroup:%s:members", keyPrefix, id)
}

func groupEditorsKey(id domain.GroupID) string {
	return fmt.Sprintf("%sgroup:%s:editors", keyPrefix, id)
}

func notificationKey(id domain.NotificationID) string {
	return keyPrefix + "notification:" + string(id)
}

func inboxKey(userID domain.UserID) string {
	return keyPrefix + "inbox:" + string(userID)
}

func inboxUnviewedKey(userID domain.UserID) string {
	return fmt.Sprintf("%sinbox:%s:unviewed", keyPrefix, userID)
}
