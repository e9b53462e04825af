package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// GenerateUserID generates a unique user ID.
func GenerateUserID() string {
	return uuid.New().String()
}

// GenerateGroupID generates a unique group ID.
func GenerateGroupID() string {
	return uuid.New().String()
}

// GenerateNotificationID generates a unique notification ID.
func GenerateNotificationID() string {
	return uuid.New().String()
}

// GenerateInstanceID generates an identifier for one server process, used to
// tag fan-out events so an instance can skip its own echoes.
func GenerateInstanceID() string {
	b := make([]byte, 4)
	rand.Read(b)
	return fmt.Sprintf("node_%d_%s", time.Now().Unix(), hex.EncodeToString(b))
}

// GenerateRequestID generates a unique request ID.
func GenerateRequestID() string {
	b := make([]byte, 4)
	rand.Read(b)
	return fmt.Sprintf("req_%d_%s", time.Now().UnixNano(), hex.EncodeToString(b))
}
