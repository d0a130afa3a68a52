package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"

	"whatsapp_dashboard/internal/models"
	"whatsapp_dashboard/internal/queue"
	"whatsapp_dashboard/internal/repository"
)

type NotificationService interface {
	List(ctx context.Context, owner models.Owner) ([]models.NotificationRule, error)
	Get(ctx context.Context, owner models.Owner, id string) (*models.NotificationRule, error)
	// Save creates the rule, or updates it in place when input.ID is set. On ErrStoredLocally
	// the returned rule is what was queued.
	Save(ctx context.Context, owner models.Owner, input models.NotificationInput) (*models.NotificationRule, error)
	Delete(ctx context.Context, owner models.Owner, id string) error
	AddMessage(ctx context.Context, owner models.Owner, id string, msg models.Message) (*models.NotificationRule, error)
	RemoveMessage(ctx context.Context, owner models.Owner, id, messageID string) (*models.NotificationRule, error)
	MoveMessage(ctx context.Context, owner models.Owner, id string, from, to int) (*models.NotificationRule, error)
	SendTest(ctx context.Context, owner models.Owner, id, phone string) error
	WebhookURL(event models.EventType, role models.UserRole, scope string) (string, error)
}

type notificationService struct {
	rules     repository.NotificationRepository
	webhooks  *WebhookRouter
	publisher queue.Publisher
}

func NewNotificationService(rules repository.NotificationRepository, webhooks *WebhookRouter, publisher queue.Publisher) NotificationService {
	return &notificationService{rules: rules, webhooks: webhooks, publisher: publisher}
}

func (s *notificationService) List(ctx context.Context, owner models.Owner) ([]models.NotificationRule, error) {
	return s.rules.ListByOwner(ctx, owner)
}

func (s *notificationService) Get(ctx context.Context, owner models.Owner, id string) (*models.NotificationRule, error) {
	return s.rules.Get(ctx, id, owner)
}

func (s *notificationService) Save(ctx context.Context, owner models.Owner, input models.NotificationInput) (*models.NotificationRule, error) {
	msgs, err := validateNotification(input)
	if err != nil {
		return nil, err
	}

	scope := strings.TrimSpace(input.ProductScope)
	if scope == "" {
		scope = models.ProductScopeAll
	}
	webhookURL, err := s.webhooks.Resolve(input.EventType, input.UserRole, scope)
	if err != nil {
		return nil, err
	}

	rule := &models.NotificationRule{
		ID:           strings.TrimSpace(input.ID),
		EventType:    input.EventType,
		UserRole:     input.UserRole,
		Platform:     input.Platform,
		ProfileName:  strings.TrimSpace(input.ProfileName),
		InstanceID:   strings.TrimSpace(input.InstanceID),
		Messages:     msgs,
		WebhookURL:   webhookURL,
		ProductScope: scope,
	}

	if rule.ID == "" {
		saved, err := s.rules.Create(ctx, rule, owner)
		return savedOrQueued(saved, rule, err)
	}

	// edit mode never falls through to a create
	if _, err := s.rules.Get(ctx, rule.ID, owner); err != nil {
		return nil, err
	}
	saved, err := s.rules.Update(ctx, rule, owner)
	return savedOrQueued(saved, rule, err)
}

func (s *notificationService) Delete(ctx context.Context, owner models.Owner, id string) error {
	if _, err := s.rules.Get(ctx, id, owner); err != nil {
		return err
	}
	return s.rules.Delete(ctx, id, owner)
}

func (s *notificationService) AddMessage(ctx context.Context, owner models.Owner, id string, msg models.Message) (*models.NotificationRule, error) {
	if !msg.HasPayload() {
		return nil, fmt.Errorf("%w: message has no content", ErrInvalidInput)
	}
	return s.editMessages(ctx, owner, id, func(l *models.MessageList) error { return l.Add(msg) })
}

func (s *notificationService) RemoveMessage(ctx context.Context, owner models.Owner, id, messageID string) (*models.NotificationRule, error) {
	return s.editMessages(ctx, owner, id, func(l *models.MessageList) error { return l.Remove(messageID) })
}

func (s *notificationService) MoveMessage(ctx context.Context, owner models.Owner, id string, from, to int) (*models.NotificationRule, error) {
	return s.editMessages(ctx, owner, id, func(l *models.MessageList) error { return l.Move(from, to) })
}

func (s *notificationService) editMessages(ctx context.Context, owner models.Owner, id string, edit func(*models.MessageList) error) (*models.NotificationRule, error) {
	rule, err := s.rules.Get(ctx, id, owner)
	if err != nil {
		return nil, err
	}
	list, err := models.MessageListOf(rule.Messages)
	if err != nil {
		return nil, err
	}
	if err := edit(list); err != nil {
		return nil, err
	}
	rule.Messages = list.Items()
	saved, err := s.rules.Update(ctx, rule, owner)
	return savedOrQueued(saved, rule, err)
}

// SendTest queues the rule's messages for delivery to a single phone number.
func (s *notificationService) SendTest(ctx context.Context, owner models.Owner, id, phone string) error {
	rule, err := s.rules.Get(ctx, id, owner)
	if err != nil {
		return err
	}
	recipients := NormalizeParticipants(phone)
	if len(recipients) != 1 {
		return fmt.Errorf("%w: a single phone number is required", ErrInvalidInput)
	}
	return s.publisher.Publish(ctx, queue.Job{
		Kind:       queue.JobNotificationTest,
		RuleID:     rule.ID,
		Instance:   rule.InstanceID,
		Recipients: recipients,
		Messages:   rule.Messages,
	})
}

func (s *notificationService) WebhookURL(event models.EventType, role models.UserRole, scope string) (string, error) {
	return s.webhooks.Resolve(event, role, scope)
}

func validateNotification(input models.NotificationInput) ([]models.Message, error) {
	var problems []string
	if !lo.Contains(models.EventTypes, input.EventType) {
		problems = append(problems, "unknown event type")
	}
	if !lo.Contains(models.UserRoles, input.UserRole) {
		problems = append(problems, "unknown user role")
	}
	if !lo.Contains(models.Platforms, input.Platform) {
		problems = append(problems, "unknown platform")
	}
	if strings.TrimSpace(input.ProfileName) == "" {
		problems = append(problems, "profile name is required")
	}
	if strings.TrimSpace(input.InstanceID) == "" {
		problems = append(problems, "instance is required")
	}
	if len(problems) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(problems, "; "))
	}

	return validateMessages(input.Messages)
}

func validateMessages(msgs []models.Message) ([]models.Message, error) {
	list, err := models.MessageListOf(msgs)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	for i, m := range list.Items() {
		if !m.HasPayload() {
			return nil, fmt.Errorf("%w: message %d has no content", ErrInvalidInput, i+1)
		}
	}
	return list.Items(), nil
}

func savedOrQueued[T any](saved, submitted *T, err error) (*T, error) {
	if errors.Is(err, ErrStoredLocally) {
		return submitted, err
	}
	if err != nil {
		return nil, err
	}
	return saved, nil
}
