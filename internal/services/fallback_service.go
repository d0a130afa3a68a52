package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"whatsapp_dashboard/internal/models"
	"whatsapp_dashboard/internal/observability"
	"whatsapp_dashboard/internal/repository"
	"whatsapp_dashboard/pkg/nocodb"
)

const (
	syncBatchSize = 200
	// maxSyncAttempts bounds replays of an entry that keeps failing with server errors.
	maxSyncAttempts = 20
)

type FallbackService interface {
	// Enqueue implements repository.FallbackQueue.
	Enqueue(ctx context.Context, entry *models.FallbackEntry) error
	Pending(ctx context.Context, owner models.Owner) ([]models.FallbackEntry, error)
	All(ctx context.Context, owner models.Owner) ([]models.FallbackEntry, error)
	// Sync replays every user's pending entries.
	Sync(ctx context.Context) (*models.SyncReport, error)
	ClearAll(ctx context.Context, owner models.Owner) (int64, error)
}

// errDeadEntry marks a replay failure that a later attempt cannot fix.
var errDeadEntry = errors.New("entry cannot be replayed")

type fallbackService struct {
	store  repository.FallbackRepository
	remote repository.NocoDB
	baseID string

	// one replay at a time; the cron job and the manual trigger share it
	syncMu sync.Mutex
}

func NewFallbackService(store repository.FallbackRepository, remote repository.NocoDB, baseID string) FallbackService {
	return &fallbackService{store: store, remote: remote, baseID: baseID}
}

func (s *fallbackService) Enqueue(ctx context.Context, entry *models.FallbackEntry) error {
	if err := s.store.Create(ctx, entry); err != nil {
		return err
	}
	observability.IncFallbackEnqueued(entry.Table, string(entry.Operation))
	return nil
}

func (s *fallbackService) Pending(ctx context.Context, owner models.Owner) ([]models.FallbackEntry, error) {
	return s.store.ListByOwner(ctx, owner, true)
}

func (s *fallbackService) All(ctx context.Context, owner models.Owner) ([]models.FallbackEntry, error) {
	return s.store.ListByOwner(ctx, owner, false)
}

// Sync replays pending entries oldest first. A failed entry stays pending with its attempt
// count and last error updated, unless the failure is permanent or the entry ran out of
// attempts; it is then marked dead and leaves the replay scan.
func (s *fallbackService) Sync(ctx context.Context) (*models.SyncReport, error) {
	s.syncMu.Lock()
	defer s.syncMu.Unlock()

	entries, err := s.store.Pending(ctx, syncBatchSize)
	if err != nil {
		return nil, err
	}

	report := &models.SyncReport{}
	for _, e := range entries {
		if ctx.Err() != nil {
			return report, ctx.Err()
		}
		if err := s.replay(ctx, e); err != nil {
			if ctx.Err() != nil {
				return report, ctx.Err()
			}
			if errors.Is(err, errDeadEntry) || e.Attempts+1 >= maxSyncAttempts {
				report.Dead++
				observability.IncFallbackSynced("dead")
				slog.Error("fallback entry dropped from replay", "id", e.ID, "table", e.Table, "operation", e.Operation, "attempts", e.Attempts+1, "error", err)
				if dErr := s.store.MarkDead(ctx, e.ID, timeNow(), err.Error()); dErr != nil {
					slog.Error("failed to mark fallback entry dead", "id", e.ID, "error", dErr)
				}
				continue
			}
			report.Failed++
			observability.IncFallbackSynced("failed")
			slog.Warn("fallback replay failed", "id", e.ID, "table", e.Table, "operation", e.Operation, "error", err)
			if rErr := s.store.RecordFailure(ctx, e.ID, err.Error()); rErr != nil {
				slog.Error("failed to record fallback failure", "id", e.ID, "error", rErr)
			}
			continue
		}
		report.Synced++
		observability.IncFallbackSynced("synced")
		if err := s.store.MarkSynced(ctx, e.ID, timeNow()); err != nil {
			slog.Error("failed to mark fallback entry synced", "id", e.ID, "error", err)
		}
	}

	if len(entries) > 0 {
		slog.Info("fallback sync finished", "synced", report.Synced, "failed", report.Failed, "dead", report.Dead)
	}
	return report, nil
}

// ClearAll deletes the owner's entries, synced or not.
func (s *fallbackService) ClearAll(ctx context.Context, owner models.Owner) (int64, error) {
	return s.store.DeleteByOwner(ctx, owner)
}

func (s *fallbackService) replay(ctx context.Context, e models.FallbackEntry) error {
	err := s.apply(ctx, e)
	if permanentFailure(err) {
		return fmt.Errorf("%w: %w", errDeadEntry, err)
	}
	return err
}

// permanentFailure reports client errors NocoDB will keep returning for the same request.
func permanentFailure(err error) bool {
	var apiErr *nocodb.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	code := apiErr.StatusCode
	return code >= 400 && code < 500 && code != http.StatusRequestTimeout && code != http.StatusTooManyRequests
}

func (s *fallbackService) apply(ctx context.Context, e models.FallbackEntry) error {
	var fields map[string]any
	if e.Payload != "" {
		if err := json.Unmarshal([]byte(e.Payload), &fields); err != nil {
			return fmt.Errorf("%w: invalid payload: %w", errDeadEntry, err)
		}
	}

	switch e.Operation {
	case models.FallbackCreate:
		_, err := s.remote.Create(ctx, s.baseID, e.Table, fields)
		return err
	case models.FallbackUpdate:
		_, err := s.remote.Update(ctx, s.baseID, e.Table, e.RecordID, fields)
		return err
	case models.FallbackDelete:
		err := s.remote.Delete(ctx, s.baseID, e.Table, e.RecordID)
		// already gone
		if errors.Is(err, nocodb.ErrNotFound) {
			return nil
		}
		return err
	default:
		return fmt.Errorf("%w: unknown operation %q", errDeadEntry, e.Operation)
	}
}
