package repository

import (
	"context"
	"strings"

	"github.com/samber/lo"

	"whatsapp_dashboard/internal/models"
	"whatsapp_dashboard/pkg/nocodb"
)

type ContactRepository interface {
	ListByOwner(ctx context.Context, owner models.Owner) ([]models.Contact, error)
	Create(ctx context.Context, c *models.Contact, owner models.Owner) (*models.Contact, error)
	Delete(ctx context.Context, id string, owner models.Owner) error
}

type contactRepository struct {
	table *Table
}

func NewContactRepository(table *Table) ContactRepository {
	return &contactRepository{table: table}
}

func (r *contactRepository) ListByOwner(ctx context.Context, owner models.Owner) ([]models.Contact, error) {
	rows, err := r.table.ListOwned(ctx, owner)
	if err != nil {
		return nil, err
	}
	return lo.Map(rows, func(rec nocodb.Record, _ int) models.Contact {
		return *contactFromRecord(rec)
	}), nil
}

func (r *contactRepository) Create(ctx context.Context, c *models.Contact, owner models.Owner) (*models.Contact, error) {
	rec, err := r.table.Create(ctx, owner, stampOwner(map[string]any{
		"Nome":     c.Name,
		"Telefone": c.Phone,
		"Tags":     strings.Join(c.Tags, ","),
	}, owner))
	if err != nil {
		return nil, err
	}
	return contactFromRecord(rec), nil
}

func (r *contactRepository) Delete(ctx context.Context, id string, owner models.Owner) error {
	if _, err := r.table.GetOwned(ctx, id, owner); err != nil {
		return err
	}
	return r.table.Delete(ctx, owner, id)
}

func contactFromRecord(rec nocodb.Record) *models.Contact {
	tags := lo.Compact(lo.Map(strings.Split(rec.String("Tags"), ","), func(s string, _ int) string {
		return strings.TrimSpace(s)
	}))
	return &models.Contact{
		ID:    rec.ID(),
		Name:  rec.String("Nome"),
		Phone: rec.String("Telefone"),
		Tags:  tags,
	}
}

type InstanceRepository interface {
	ListByOwner(ctx context.Context, owner models.Owner) ([]models.Instance, error)
}

type instanceRepository struct {
	table *Table
}

func NewInstanceRepository(table *Table) InstanceRepository {
	return &instanceRepository{table: table}
}

func (r *instanceRepository) ListByOwner(ctx context.Context, owner models.Owner) ([]models.Instance, error) {
	rows, err := r.table.ListOwned(ctx, owner)
	if err != nil {
		return nil, err
	}
	return lo.Map(rows, func(rec nocodb.Record, _ int) models.Instance {
		name := rec.String("Nome Instancia")
		if name == "" {
			name = rec.String("instance_name")
		}
		return models.Instance{ID: rec.ID(), Name: name}
	}), nil
}
