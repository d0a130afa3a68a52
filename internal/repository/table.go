package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"whatsapp_dashboard/internal/models"
	"whatsapp_dashboard/pkg/nocodb"
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrForbidden     = errors.New("record belongs to another user")
	ErrStoredLocally = errors.New("remote store unavailable, change queued for sync")
)

// NocoDB is the subset of *nocodb.Client the repositories use.
type NocoDB interface {
	List(ctx context.Context, baseID, tableID string, opts nocodb.ListOptions) ([]nocodb.Record, error)
	Get(ctx context.Context, baseID, tableID, recordID string) (nocodb.Record, error)
	Create(ctx context.Context, baseID, tableID string, fields map[string]any) (nocodb.Record, error)
	Update(ctx context.Context, baseID, tableID, recordID string, fields map[string]any) (nocodb.Record, error)
	Delete(ctx context.Context, baseID, tableID, recordID string) error
}

// FallbackQueue receives writes that could not reach NocoDB.
type FallbackQueue interface {
	Enqueue(ctx context.Context, entry *models.FallbackEntry) error
}

// Table is one NocoDB table plus the list limit and fallback policy shared by every repository.
type Table struct {
	db       NocoDB
	baseID   string
	tableID  string
	limit    int
	fallback FallbackQueue
}

func NewTable(db NocoDB, baseID, tableID string, limit int, fallback FallbackQueue) *Table {
	return &Table{db: db, baseID: baseID, tableID: tableID, limit: limit, fallback: fallback}
}

func (t *Table) ID() string { return t.tableID }

func (t *Table) List(ctx context.Context, where ...nocodb.Condition) ([]nocodb.Record, error) {
	rows, err := t.db.List(ctx, t.baseID, t.tableID, nocodb.ListOptions{Where: where, Limit: t.limit})
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", t.tableID, err)
	}
	return rows, nil
}

// ListOwned fetches up to the table limit and keeps the rows owned by owner.
func (t *Table) ListOwned(ctx context.Context, owner models.Owner) ([]nocodb.Record, error) {
	rows, err := t.List(ctx)
	if err != nil {
		return nil, err
	}
	return FilterOwned(rows, owner), nil
}

func (t *Table) Get(ctx context.Context, id string) (nocodb.Record, error) {
	rec, err := t.db.Get(ctx, t.baseID, t.tableID, id)
	if errors.Is(err, nocodb.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", t.tableID, id, err)
	}
	return rec, nil
}

// GetOwned re-fetches a row and checks its owner columns before a write.
func (t *Table) GetOwned(ctx context.Context, id string, owner models.Owner) (nocodb.Record, error) {
	rec, err := t.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !OwnedBy(rec, owner) {
		return nil, ErrForbidden
	}
	return rec, nil
}

// Create, Update and Delete take the user performing the write. It is not written to the
// row; it only owns the fallback entry queued when NocoDB is unreachable.
func (t *Table) Create(ctx context.Context, actor models.Owner, fields map[string]any) (nocodb.Record, error) {
	rec, err := t.db.Create(ctx, t.baseID, t.tableID, fields)
	if err != nil {
		return nil, t.queue(ctx, actor, models.FallbackCreate, "", fields, err)
	}
	return rec, nil
}

func (t *Table) Update(ctx context.Context, actor models.Owner, id string, fields map[string]any) (nocodb.Record, error) {
	rec, err := t.db.Update(ctx, t.baseID, t.tableID, id, fields)
	if err != nil {
		return nil, t.queue(ctx, actor, models.FallbackUpdate, id, fields, err)
	}
	return rec, nil
}

func (t *Table) Delete(ctx context.Context, actor models.Owner, id string) error {
	if err := t.db.Delete(ctx, t.baseID, t.tableID, id); err != nil {
		return t.queue(ctx, actor, models.FallbackDelete, id, nil, err)
	}
	return nil
}

// queue stores a failed write for replay. Client errors are returned as-is since replaying
// them would fail the same way.
func (t *Table) queue(ctx context.Context, actor models.Owner, op models.FallbackOperation, id string, fields map[string]any, cause error) error {
	var apiErr *nocodb.APIError
	if errors.As(cause, &apiErr) && apiErr.StatusCode < http.StatusInternalServerError {
		if apiErr.StatusCode == http.StatusNotFound {
			return ErrNotFound
		}
		return fmt.Errorf("%s %s: %w", op, t.tableID, cause)
	}
	if t.fallback == nil || ctx.Err() != nil {
		return fmt.Errorf("%s %s: %w", op, t.tableID, cause)
	}

	payload := ""
	if fields != nil {
		data, err := json.Marshal(fields)
		if err != nil {
			return fmt.Errorf("failed to marshal fallback payload: %w", err)
		}
		payload = string(data)
	}
	if actor == (models.Owner{}) {
		actor = ownerOf(fields)
	}
	entry := &models.FallbackEntry{
		UserID:    actor.UserID,
		ClientID:  actor.ClientID,
		Table:     t.tableID,
		Operation: op,
		RecordID:  id,
		Payload:   payload,
		LastError: cause.Error(),
	}
	if err := t.fallback.Enqueue(ctx, entry); err != nil {
		slog.Error("failed to queue fallback entry", "table", t.tableID, "operation", op, "error", err)
		return fmt.Errorf("%s %s: %w", op, t.tableID, cause)
	}
	slog.Warn("nocodb write queued for sync", "table", t.tableID, "operation", op, "record_id", id, "error", cause)
	return ErrStoredLocally
}

func decodeJSONColumn[T any](rec nocodb.Record, field string) T {
	var out T
	switch v := rec[field].(type) {
	case string:
		if v != "" {
			_ = json.Unmarshal([]byte(v), &out)
		}
	case nil:
	default:
		// Json columns arrive already decoded.
		if data, err := json.Marshal(v); err == nil {
			_ = json.Unmarshal(data, &out)
		}
	}
	return out
}

func encodeJSONColumn(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(data)
}
