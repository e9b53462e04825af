package realtime

import "errors"

var (
	errUnknownMessageType  = errors.New("unknown message type")
	errEmptyNotificationID = errors.New("notification_id is required")
)
