package services

import (
	"context"
	"errors"
	"strings"

	"github.com/samber/lo"

	"whatsapp_dashboard/internal/models"
	"whatsapp_dashboard/internal/repository"
)

type ImportResult struct {
	Imported []models.Contact `json:"imported"`
	Skipped  int              `json:"skipped"`
	Queued   int              `json:"queued"`
}

type ContactService interface {
	List(ctx context.Context, owner models.Owner) ([]models.Contact, error)
	// Import reads one contact per line or comma separated entry, "phone", "phone - name" or "name - phone".
	// Numbers the owner already has are skipped.
	Import(ctx context.Context, owner models.Owner, raw string, tags []string) (*ImportResult, error)
	Delete(ctx context.Context, owner models.Owner, id string) error
}

type contactService struct {
	contacts repository.ContactRepository
}

func NewContactService(contacts repository.ContactRepository) ContactService {
	return &contactService{contacts: contacts}
}

func (s *contactService) List(ctx context.Context, owner models.Owner) ([]models.Contact, error) {
	return s.contacts.ListByOwner(ctx, owner)
}

func (s *contactService) Import(ctx context.Context, owner models.Owner, raw string, tags []string) (*ImportResult, error) {
	existing, err := s.contacts.ListByOwner(ctx, owner)
	if err != nil {
		return nil, err
	}
	seen := lo.SliceToMap(existing, func(c models.Contact) (string, struct{}) {
		return c.Phone, struct{}{}
	})
	tags = lo.Uniq(lo.Compact(lo.Map(tags, func(t string, _ int) string { return strings.TrimSpace(t) })))

	result := &ImportResult{Imported: []models.Contact{}}
	for _, line := range splitEntries(raw) {
		jid, name, ok := splitNamedEntry(line)
		if !ok {
			result.Skipped++
			continue
		}
		phone := phoneFromJID(jid)
		if _, dup := seen[phone]; dup {
			result.Skipped++
			continue
		}
		seen[phone] = struct{}{}

		contact := &models.Contact{Name: name, Phone: phone, Tags: tags}
		saved, err := s.contacts.Create(ctx, contact, owner)
		switch {
		case errors.Is(err, ErrStoredLocally):
			result.Queued++
		case err != nil:
			return result, err
		default:
			result.Imported = append(result.Imported, *saved)
		}
	}

	if len(result.Imported) == 0 && result.Queued == 0 {
		return result, ErrNoParticipants
	}
	return result, nil
}

func (s *contactService) Delete(ctx context.Context, owner models.Owner, id string) error {
	return s.contacts.Delete(ctx, id, owner)
}
