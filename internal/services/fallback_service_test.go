package services_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"whatsapp_dashboard/internal/mocks"
	"whatsapp_dashboard/internal/models"
	"whatsapp_dashboard/internal/repository"
	"whatsapp_dashboard/internal/services"
	"whatsapp_dashboard/internal/storage"
	"whatsapp_dashboard/pkg/nocodb"
)

// memoryFallbackStore mirrors the gorm repository's ordering and bookkeeping.
type memoryFallbackStore struct {
	mu      sync.Mutex
	nextID  uint
	entries map[uint]*models.FallbackEntry
}

func newMemoryFallbackStore() *memoryFallbackStore {
	return &memoryFallbackStore{entries: map[uint]*models.FallbackEntry{}}
}

func (s *memoryFallbackStore) Create(_ context.Context, e *models.FallbackEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	e.ID = s.nextID
	cp := *e
	s.entries[e.ID] = &cp
	return nil
}

func (s *memoryFallbackStore) sorted(keep func(models.FallbackEntry) bool) []models.FallbackEntry {
	var out []models.FallbackEntry
	for _, e := range s.entries {
		if keep(*e) {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *memoryFallbackStore) Pending(_ context.Context, limit int) ([]models.FallbackEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.sorted(models.FallbackEntry.Pending)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *memoryFallbackStore) ListByOwner(_ context.Context, o models.Owner, pendingOnly bool) ([]models.FallbackEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sorted(func(e models.FallbackEntry) bool {
		return e.OwnedBy(o) && (!pendingOnly || e.Pending())
	}), nil
}

func (s *memoryFallbackStore) MarkSynced(_ context.Context, id uint, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[id].SyncedAt = &at
	s.entries[id].LastError = ""
	return nil
}

func (s *memoryFallbackStore) RecordFailure(_ context.Context, id uint, lastError string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[id].Attempts++
	s.entries[id].LastError = lastError
	return nil
}

func (s *memoryFallbackStore) MarkDead(_ context.Context, id uint, at time.Time, lastError string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[id].Attempts++
	s.entries[id].LastError = lastError
	s.entries[id].DeadAt = &at
	return nil
}

func (s *memoryFallbackStore) DeleteByOwner(_ context.Context, o models.Owner) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id, e := range s.entries {
		if e.OwnedBy(o) {
			delete(s.entries, id)
			n++
		}
	}
	return n, nil
}

var _ repository.FallbackRepository = (*memoryFallbackStore)(nil)

func TestFallbackRoundTrip(t *testing.T) {
	db := mocks.NewFakeNocoDB()
	db.Seed("rules", nocodb.Record{"Id": "9", "Nome Perfil": "Antigo", "user_id": "7"})
	store := newMemoryFallbackStore()
	svc := services.NewFallbackService(store, db, "base")
	rules := repository.NewNotificationRepository(newTable(db, "rules", svc))

	db.Err = errors.New("connection refused")
	_, err := rules.Create(context.Background(), &models.NotificationRule{ProfileName: "Nova"}, owner)
	assert.ErrorIs(t, err, services.ErrStoredLocally)
	_, err = rules.Update(context.Background(), &models.NotificationRule{ID: "9", ProfileName: "Editada"}, owner)
	assert.ErrorIs(t, err, services.ErrStoredLocally)
	assert.ErrorIs(t, rules.Delete(context.Background(), "404", owner), services.ErrStoredLocally)

	pending, err := svc.Pending(context.Background(), owner)
	require.NoError(t, err)
	require.Len(t, pending, 3)
	assert.Equal(t, models.FallbackCreate, pending[0].Operation)

	// still down: attempts grow, nothing is lost
	report, err := svc.Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.SyncReport{Synced: 0, Failed: 3}, *report)
	all, _ := svc.All(context.Background(), owner)
	assert.Equal(t, 1, all[0].Attempts)
	assert.Contains(t, all[0].LastError, "connection refused")

	db.Err = nil
	report, err = svc.Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.SyncReport{Synced: 3, Failed: 0}, *report)

	rows := db.Rows("rules")
	require.Len(t, rows, 2)
	assert.Equal(t, "Editada", rows[0].String("Nome Perfil"))
	assert.Equal(t, "Nova", rows[1].String("Nome Perfil"))
	assert.Equal(t, "client_7", rows[1].String("Cliente ID"))

	pending, _ = svc.Pending(context.Background(), owner)
	assert.Empty(t, pending)

	n, err := svc.ClearAll(context.Background(), owner)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestFallbackEntriesAreScopedToTheirOwner(t *testing.T) {
	db := mocks.NewFakeNocoDB()
	db.Err = errors.New("connection refused")
	store := newMemoryFallbackStore()
	svc := services.NewFallbackService(store, db, "base")
	other := models.Owner{UserID: "8", ClientID: "client_8"}

	rules := repository.NewNotificationRepository(newTable(db, "rules", svc))
	_, err := rules.Create(context.Background(), &models.NotificationRule{ProfileName: "Minha"}, owner)
	require.ErrorIs(t, err, services.ErrStoredLocally)
	_, err = rules.Create(context.Background(), &models.NotificationRule{ProfileName: "Alheia"}, other)
	require.ErrorIs(t, err, services.ErrStoredLocally)
	require.ErrorIs(t, rules.Delete(context.Background(), "3", other), services.ErrStoredLocally)

	mine, err := svc.All(context.Background(), owner)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "7", mine[0].UserID)
	assert.Equal(t, "client_7", mine[0].ClientID)
	assert.Contains(t, mine[0].Payload, "Minha")

	theirs, err := svc.Pending(context.Background(), other)
	require.NoError(t, err)
	assert.Len(t, theirs, 2)

	n, err := svc.ClearAll(context.Background(), owner)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	theirs, _ = svc.All(context.Background(), other)
	assert.Len(t, theirs, 2)

	// nobody owns an entry queued without an actor or owner columns
	_, err = newTable(db, "rules", svc).Create(context.Background(), models.Owner{}, map[string]any{"Nome": "x"})
	require.ErrorIs(t, err, services.ErrStoredLocally)
	none, _ := svc.All(context.Background(), models.Owner{})
	assert.Empty(t, none)
}

func TestSyncDropsPermanentFailuresSoNewerEntriesReplay(t *testing.T) {
	db := mocks.NewFakeNocoDB()
	store := newMemoryFallbackStore()
	svc := services.NewFallbackService(store, db, "base")

	// updates to rows deleted remotely answer 404 forever
	for i := 0; i < 250; i++ {
		require.NoError(t, store.Create(context.Background(), &models.FallbackEntry{
			UserID: "7", ClientID: "client_7", Table: "rules", Operation: models.FallbackUpdate,
			RecordID: fmt.Sprintf("gone-%d", i), Payload: `{"Nome Perfil":"x"}`,
		}))
	}
	require.NoError(t, store.Create(context.Background(), &models.FallbackEntry{
		UserID: "7", ClientID: "client_7", Table: "rules", Operation: models.FallbackCreate,
		Payload: `{"Nome Perfil":"Nova"}`,
	}))

	report, err := svc.Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.SyncReport{Dead: 200}, *report)

	report, err = svc.Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.SyncReport{Synced: 1, Dead: 50}, *report)

	rows := db.Rows("rules")
	require.Len(t, rows, 1)
	assert.Equal(t, "Nova", rows[0].String("Nome Perfil"))

	pending, _ := svc.Pending(context.Background(), owner)
	assert.Empty(t, pending)
	all, _ := svc.All(context.Background(), owner)
	require.Len(t, all, 251)
	assert.NotNil(t, all[0].DeadAt)
	assert.Equal(t, 1, all[0].Attempts)
	assert.Contains(t, all[0].LastError, "404")
}

func TestSyncGivesUpAfterMaxAttempts(t *testing.T) {
	db := mocks.NewFakeNocoDB()
	db.Err = &nocodb.APIError{StatusCode: http.StatusInternalServerError}
	store := newMemoryFallbackStore()
	svc := services.NewFallbackService(store, db, "base")
	require.NoError(t, store.Create(context.Background(), &models.FallbackEntry{
		UserID: "7", Table: "rules", Operation: models.FallbackCreate, Payload: `{}`, Attempts: 18,
	}))
	require.NoError(t, store.Create(context.Background(), &models.FallbackEntry{
		UserID: "7", Table: "rules", Operation: "merge",
	}))

	report, err := svc.Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.SyncReport{Failed: 1, Dead: 1}, *report)

	report, err = svc.Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.SyncReport{Dead: 1}, *report)

	report, err = svc.Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.SyncReport{}, *report)
}

type memoryStorage struct {
	objects map[string]string
}

func (m *memoryStorage) Put(_ context.Context, key string, r io.Reader, size int64, contentType string) (storage.Object, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return storage.Object{}, err
	}
	m.objects[key] = string(b)
	return storage.Object{Key: key, URL: "https://files.test/" + key, Size: size, ContentType: contentType}, nil
}

func (m *memoryStorage) Delete(_ context.Context, key string) error {
	delete(m.objects, key)
	return nil
}

func TestUploadService(t *testing.T) {
	store := &memoryStorage{objects: map[string]string{}}
	svc := services.NewUploadService(store)

	obj, err := svc.Upload(context.Background(), "tutorials", "Capa.PNG", "image/png", 3, strings.NewReader("png"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(obj.Key, "tutorials/"))
	assert.True(t, strings.HasSuffix(obj.Key, ".png"))
	assert.Equal(t, "png", store.objects[obj.Key])

	_, err = svc.Upload(context.Background(), "../etc", "x.txt", "text/plain", 1, strings.NewReader("x"))
	assert.ErrorIs(t, err, services.ErrInvalidFolder)

	assert.ErrorIs(t, svc.Delete(context.Background(), "../../secrets"), services.ErrInvalidFolder)
	require.NoError(t, svc.Delete(context.Background(), obj.Key))
	assert.Empty(t, store.objects)
}
