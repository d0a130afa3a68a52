package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"whatsapp_dashboard/internal/models"
	"whatsapp_dashboard/internal/redis"
	"whatsapp_dashboard/internal/repository"
)

const (
	tutorialsCacheKey    = "tutorials_data"
	tutorialsMetadataKey = "tutoriais_metadata"
)

type Cache interface {
	SetCache(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	GetCache(ctx context.Context, key string, dest interface{}) error
	DeleteCache(ctx context.Context, key string) error
}

type TutorialService interface {
	// List falls back to the cached copy when NocoDB is unreachable; the metadata is then marked stale.
	List(ctx context.Context) ([]models.Tutorial, *models.TutorialsMetadata, error)
	Get(ctx context.Context, id string) (*models.Tutorial, error)
	// Writes take the acting user, who owns the fallback entry if the write is queued.
	Create(ctx context.Context, actor models.Owner, t *models.Tutorial) (*models.Tutorial, error)
	Update(ctx context.Context, actor models.Owner, t *models.Tutorial) (*models.Tutorial, error)
	Delete(ctx context.Context, actor models.Owner, id string) error
}

type tutorialService struct {
	repo  repository.TutorialRepository
	cache Cache
	ttl   time.Duration
	now   func() time.Time
}

func NewTutorialService(repo repository.TutorialRepository, cache Cache, ttl time.Duration) TutorialService {
	return &tutorialService{repo: repo, cache: cache, ttl: ttl, now: time.Now}
}

func (s *tutorialService) List(ctx context.Context) ([]models.Tutorial, *models.TutorialsMetadata, error) {
	tutorials, err := s.repo.List(ctx)
	if err == nil {
		meta := s.storeCache(ctx, tutorials)
		return tutorials, meta, nil
	}

	cached, cacheErr := s.cachedList(ctx)
	if cacheErr != nil {
		return nil, nil, err
	}
	slog.Warn("serving tutorials from cache", "error", err)

	var meta models.TutorialsMetadata
	if mErr := s.cache.GetCache(ctx, tutorialsMetadataKey, &meta); mErr != nil {
		meta = models.TutorialsMetadata{Count: len(cached)}
	}
	meta.Stale = true
	return cached, &meta, nil
}

func (s *tutorialService) Get(ctx context.Context, id string) (*models.Tutorial, error) {
	t, err := s.repo.Get(ctx, id)
	if err == nil || errors.Is(err, ErrNotFound) {
		return t, err
	}

	cached, cacheErr := s.cachedList(ctx)
	if cacheErr != nil {
		return nil, err
	}
	if found, ok := lo.Find(cached, func(c models.Tutorial) bool { return c.ID == id }); ok {
		return &found, nil
	}
	return nil, err
}

func (s *tutorialService) Create(ctx context.Context, actor models.Owner, t *models.Tutorial) (*models.Tutorial, error) {
	normalizeTutorial(t)
	t.ID = ""
	saved, err := s.repo.Create(ctx, t, actor)
	if errors.Is(err, ErrStoredLocally) {
		queued := *t
		queued.ID = "local-" + uuid.NewString()
		queued.CreatedAt = s.now()
		queued.UpdatedAt = queued.CreatedAt
		s.mirror(ctx, func(list []models.Tutorial) []models.Tutorial { return append(list, queued) })
		return &queued, err
	}
	if err != nil {
		return nil, err
	}
	s.mirror(ctx, func(list []models.Tutorial) []models.Tutorial { return append(list, *saved) })
	return saved, nil
}

func (s *tutorialService) Update(ctx context.Context, actor models.Owner, t *models.Tutorial) (*models.Tutorial, error) {
	normalizeTutorial(t)
	// an unreachable store still lets the update queue; only a confirmed miss stops it
	if _, err := s.repo.Get(ctx, t.ID); errors.Is(err, ErrNotFound) {
		return nil, err
	}

	saved, err := s.repo.Update(ctx, t, actor)
	saved, err = savedOrQueued(saved, t, err)
	if saved != nil {
		updated := *saved
		if errors.Is(err, ErrStoredLocally) {
			updated.UpdatedAt = s.now()
		}
		s.mirror(ctx, func(list []models.Tutorial) []models.Tutorial {
			return lo.Map(list, func(c models.Tutorial, _ int) models.Tutorial {
				if c.ID == updated.ID {
					return updated
				}
				return c
			})
		})
	}
	return saved, err
}

func (s *tutorialService) Delete(ctx context.Context, actor models.Owner, id string) error {
	err := s.repo.Delete(ctx, id, actor)
	if err != nil && !errors.Is(err, ErrStoredLocally) {
		return err
	}
	s.mirror(ctx, func(list []models.Tutorial) []models.Tutorial {
		return lo.Reject(list, func(c models.Tutorial, _ int) bool { return c.ID == id })
	})
	return err
}

func (s *tutorialService) cachedList(ctx context.Context) ([]models.Tutorial, error) {
	var cached []models.Tutorial
	if err := s.cache.GetCache(ctx, tutorialsCacheKey, &cached); err != nil {
		if !errors.Is(err, redis.ErrCacheMiss) {
			slog.Error("failed to read tutorials cache", "error", err)
		}
		return nil, err
	}
	return cached, nil
}

// mirror applies change to the cached list. A missing cache is left for the next List to fill.
func (s *tutorialService) mirror(ctx context.Context, change func([]models.Tutorial) []models.Tutorial) {
	cached, err := s.cachedList(ctx)
	if err != nil {
		return
	}
	s.storeCache(ctx, change(cached))
}

func (s *tutorialService) storeCache(ctx context.Context, tutorials []models.Tutorial) *models.TutorialsMetadata {
	meta := &models.TutorialsMetadata{Count: len(tutorials), UpdatedAt: s.now()}
	if err := s.cache.SetCache(ctx, tutorialsCacheKey, tutorials, s.ttl); err != nil {
		slog.Error("failed to cache tutorials", "error", err)
		return meta
	}
	if err := s.cache.SetCache(ctx, tutorialsMetadataKey, meta, s.ttl); err != nil {
		slog.Error("failed to cache tutorials metadata", "error", err)
	}
	return meta
}

func normalizeTutorial(t *models.Tutorial) {
	t.Title = strings.TrimSpace(t.Title)
	t.Category = strings.TrimSpace(t.Category)
	t.DocumentURLs = lo.Compact(lo.Map(t.DocumentURLs, func(u string, _ int) string { return strings.TrimSpace(u) }))
}
