package repository

import (
	"context"

	"whatsapp_dashboard/internal/models"
	"whatsapp_dashboard/pkg/nocodb"
)

// TutorialRepository has no owner checks: tutorials are shared help content. The actor
// passed to writes only owns the fallback entry of a queued write.
type TutorialRepository interface {
	List(ctx context.Context) ([]models.Tutorial, error)
	Get(ctx context.Context, id string) (*models.Tutorial, error)
	Create(ctx context.Context, t *models.Tutorial, actor models.Owner) (*models.Tutorial, error)
	Update(ctx context.Context, t *models.Tutorial, actor models.Owner) (*models.Tutorial, error)
	Delete(ctx context.Context, id string, actor models.Owner) error
}

type tutorialRepository struct {
	table *Table
}

func NewTutorialRepository(table *Table) TutorialRepository {
	return &tutorialRepository{table: table}
}

func (r *tutorialRepository) List(ctx context.Context) ([]models.Tutorial, error) {
	rows, err := r.table.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.Tutorial, 0, len(rows))
	for _, rec := range rows {
		out = append(out, *tutorialFromRecord(rec))
	}
	return out, nil
}

func (r *tutorialRepository) Get(ctx context.Context, id string) (*models.Tutorial, error) {
	rec, err := r.table.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return tutorialFromRecord(rec), nil
}

func (r *tutorialRepository) Create(ctx context.Context, t *models.Tutorial, actor models.Owner) (*models.Tutorial, error) {
	rec, err := r.table.Create(ctx, actor, tutorialFields(t))
	if err != nil {
		return nil, err
	}
	return tutorialFromRecord(rec), nil
}

func (r *tutorialRepository) Update(ctx context.Context, t *models.Tutorial, actor models.Owner) (*models.Tutorial, error) {
	rec, err := r.table.Update(ctx, actor, t.ID, tutorialFields(t))
	if err != nil {
		return nil, err
	}
	return tutorialFromRecord(rec), nil
}

func (r *tutorialRepository) Delete(ctx context.Context, id string, actor models.Owner) error {
	return r.table.Delete(ctx, actor, id)
}

func tutorialFields(t *models.Tutorial) map[string]any {
	return map[string]any{
		"Titulo":     t.Title,
		"Descricao":  t.Description,
		"Video URL":  t.VideoURL,
		"Documentos": encodeJSONColumn(t.DocumentURLs),
		"Capa URL":   t.CoverImageURL,
		"Categoria":  t.Category,
	}
}

func tutorialFromRecord(rec nocodb.Record) *models.Tutorial {
	return &models.Tutorial{
		ID:            rec.ID(),
		Title:         rec.String("Titulo"),
		Description:   rec.String("Descricao"),
		VideoURL:      rec.String("Video URL"),
		DocumentURLs:  decodeJSONColumn[[]string](rec, "Documentos"),
		CoverImageURL: rec.String("Capa URL"),
		Category:      rec.String("Categoria"),
		CreatedAt:     parseTime(rec, "CreatedAt"),
		UpdatedAt:     parseTime(rec, "UpdatedAt"),
	}
}
