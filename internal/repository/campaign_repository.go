package repository

import (
	"context"

	"whatsapp_dashboard/internal/models"
	"whatsapp_dashboard/pkg/nocodb"
)

type CampaignRepository interface {
	ListByOwner(ctx context.Context, owner models.Owner) ([]models.Campaign, error)
	Get(ctx context.Context, id string) (*models.Campaign, error)
	GetOwned(ctx context.Context, id string, owner models.Owner) (*models.Campaign, error)
	Create(ctx context.Context, c *models.Campaign, owner models.Owner) (*models.Campaign, error)
	UpdateProgress(ctx context.Context, c *models.Campaign) error
}

type campaignRepository struct {
	table *Table
}

func NewCampaignRepository(table *Table) CampaignRepository {
	return &campaignRepository{table: table}
}

func (r *campaignRepository) ListByOwner(ctx context.Context, owner models.Owner) ([]models.Campaign, error) {
	rows, err := r.table.ListOwned(ctx, owner)
	if err != nil {
		return nil, err
	}
	out := make([]models.Campaign, 0, len(rows))
	for _, rec := range rows {
		out = append(out, *campaignFromRecord(rec))
	}
	return out, nil
}

func (r *campaignRepository) Get(ctx context.Context, id string) (*models.Campaign, error) {
	rec, err := r.table.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return campaignFromRecord(rec), nil
}

func (r *campaignRepository) GetOwned(ctx context.Context, id string, owner models.Owner) (*models.Campaign, error) {
	rec, err := r.table.GetOwned(ctx, id, owner)
	if err != nil {
		return nil, err
	}
	return campaignFromRecord(rec), nil
}

func (r *campaignRepository) Create(ctx context.Context, c *models.Campaign, owner models.Owner) (*models.Campaign, error) {
	fields := stampOwner(map[string]any{
		"Nome":          c.Name,
		"Instancia":     c.InstanceID,
		"Destinatarios": encodeJSONColumn(c.Recipients),
		"Mensagens":     encodeJSONColumn(c.Messages),
	}, owner)
	for k, v := range progressFields(c) {
		fields[k] = v
	}
	rec, err := r.table.Create(ctx, owner, fields)
	if err != nil {
		return nil, err
	}
	return campaignFromRecord(rec), nil
}

func (r *campaignRepository) UpdateProgress(ctx context.Context, c *models.Campaign) error {
	_, err := r.table.Update(ctx, c.Owner, c.ID, progressFields(c))
	return err
}

func progressFields(c *models.Campaign) map[string]any {
	return map[string]any{
		"Status":        string(c.Status),
		"Total":         c.Total,
		"Enviados":      c.Sent,
		"Falhas":        c.Failed,
		"Iniciado Em":   formatTime(c.StartedAt),
		"Finalizado Em": formatTime(c.FinishedAt),
		"Erro":          c.Error,
	}
}

func campaignFromRecord(rec nocodb.Record) *models.Campaign {
	return &models.Campaign{
		ID:         rec.ID(),
		Name:       rec.String("Nome"),
		InstanceID: rec.String("Instancia"),
		Recipients: decodeJSONColumn[[]string](rec, "Destinatarios"),
		Messages:   decodeJSONColumn[[]models.Message](rec, "Mensagens"),
		Status:     models.CampaignStatus(rec.String("Status")),
		Total:      rec.Int("Total"),
		Sent:       rec.Int("Enviados"),
		Failed:     rec.Int("Falhas"),
		StartedAt:  parseDate(rec.String("Iniciado Em")),
		FinishedAt: parseDate(rec.String("Finalizado Em")),
		Error:      rec.String("Erro"),
		Owner:      ownerOf(rec),
	}
}
