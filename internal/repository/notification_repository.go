package repository

import (
	"context"

	"whatsapp_dashboard/internal/models"
	"whatsapp_dashboard/pkg/nocodb"
)

type NotificationRepository interface {
	ListByOwner(ctx context.Context, owner models.Owner) ([]models.NotificationRule, error)
	Get(ctx context.Context, id string, owner models.Owner) (*models.NotificationRule, error)
	Create(ctx context.Context, rule *models.NotificationRule, owner models.Owner) (*models.NotificationRule, error)
	Update(ctx context.Context, rule *models.NotificationRule, owner models.Owner) (*models.NotificationRule, error)
	Delete(ctx context.Context, id string, owner models.Owner) error
}

type notificationRepository struct {
	table *Table
}

func NewNotificationRepository(table *Table) NotificationRepository {
	return &notificationRepository{table: table}
}

func (r *notificationRepository) ListByOwner(ctx context.Context, owner models.Owner) ([]models.NotificationRule, error) {
	rows, err := r.table.ListOwned(ctx, owner)
	if err != nil {
		return nil, err
	}
	rules := make([]models.NotificationRule, 0, len(rows))
	for _, rec := range rows {
		rules = append(rules, *ruleFromRecord(rec))
	}
	return rules, nil
}

func (r *notificationRepository) Get(ctx context.Context, id string, owner models.Owner) (*models.NotificationRule, error) {
	rec, err := r.table.GetOwned(ctx, id, owner)
	if err != nil {
		return nil, err
	}
	return ruleFromRecord(rec), nil
}

func (r *notificationRepository) Create(ctx context.Context, rule *models.NotificationRule, owner models.Owner) (*models.NotificationRule, error) {
	rec, err := r.table.Create(ctx, owner, stampOwner(ruleFields(rule), owner))
	if err != nil {
		return nil, err
	}
	return ruleFromRecord(rec), nil
}

func (r *notificationRepository) Update(ctx context.Context, rule *models.NotificationRule, owner models.Owner) (*models.NotificationRule, error) {
	rec, err := r.table.Update(ctx, owner, rule.ID, ruleFields(rule))
	if err != nil {
		return nil, err
	}
	return ruleFromRecord(rec), nil
}

func (r *notificationRepository) Delete(ctx context.Context, id string, owner models.Owner) error {
	return r.table.Delete(ctx, owner, id)
}

func ruleFields(rule *models.NotificationRule) map[string]any {
	return map[string]any{
		"Tipo Evento":    string(rule.EventType),
		"Papel":          string(rule.UserRole),
		"Plataforma":     string(rule.Platform),
		"Nome Perfil":    rule.ProfileName,
		"Instancia":      rule.InstanceID,
		"Mensagens":      encodeJSONColumn(rule.Messages),
		"Webhook URL":    rule.WebhookURL,
		"Escopo Produto": rule.ProductScope,
	}
}

func ruleFromRecord(rec nocodb.Record) *models.NotificationRule {
	return &models.NotificationRule{
		ID:           rec.ID(),
		EventType:    models.EventType(rec.String("Tipo Evento")),
		UserRole:     models.UserRole(rec.String("Papel")),
		Platform:     models.Platform(rec.String("Plataforma")),
		ProfileName:  rec.String("Nome Perfil"),
		InstanceID:   rec.String("Instancia"),
		Messages:     decodeJSONColumn[[]models.Message](rec, "Mensagens"),
		WebhookURL:   rec.String("Webhook URL"),
		ProductScope: rec.String("Escopo Produto"),
		CreatedAt:    parseTime(rec, "CreatedAt"),
		UpdatedAt:    parseTime(rec, "UpdatedAt"),
	}
}
