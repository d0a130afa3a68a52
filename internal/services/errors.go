package services

import (
	"errors"

	"whatsapp_dashboard/internal/repository"
)

var (
	ErrNotFound      = repository.ErrNotFound
	ErrForbidden     = repository.ErrForbidden
	ErrStoredLocally = repository.ErrStoredLocally

	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrUserInactive        = errors.New("user account is inactive")
	ErrSubscriptionExpired = errors.New("subscription expired")
	ErrUnauthenticated     = errors.New("session not found or expired")
	ErrNoWebhookRoute      = errors.New("no webhook configured for this event")
	ErrNoParticipants      = errors.New("no valid participants")
	ErrInvalidInput        = errors.New("invalid input")
	ErrInvalidFolder       = errors.New("invalid upload folder")
)
