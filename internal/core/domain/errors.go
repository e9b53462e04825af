package domain

import "errors"

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrUserExists           = errors.New("user already exists")
	ErrGroupNotFound        = errors.New("group not found")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrAlreadyProcessed     = errors.New("notification already processed")
	ErrForbidden            = errors.New("forbidden")
	ErrInvalidCredentials   = errors.New("invalid credentials")
)
