package models

import "errors"

var (
	ErrMessageLimit            = errors.New("a notification can have at most 5 messages")
	ErrMessageMinimum          = errors.New("a notification needs at least one message")
	ErrMessageIndex            = errors.New("message index out of range")
	ErrInvalidStatusTransition = errors.New("invalid campaign status transition")
)
