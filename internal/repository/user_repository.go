package repository

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"whatsapp_dashboard/internal/models"
	"whatsapp_dashboard/pkg/nocodb"
)

type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

type userRepository struct {
	table *Table
}

func NewUserRepository(table *Table) UserRepository {
	return &userRepository{table: table}
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	email = strings.TrimSpace(email)
	rows, err := r.table.List(ctx, nocodb.Eq("Email", email))
	if err != nil {
		return nil, err
	}
	for _, rec := range rows {
		if strings.EqualFold(rec.String("Email"), email) {
			return userFromRecord(rec), nil
		}
	}
	return nil, ErrNotFound
}

func userFromRecord(rec nocodb.Record) *models.User {
	return &models.User{
		ID:                    rec.ID(),
		Email:                 rec.String("Email"),
		Name:                  rec.String("Nome"),
		ClientID:              rec.String("Cliente ID"),
		Active:                rec.Bool("Ativo"),
		SubscriptionExpiresAt: subscriptionExpiry(rec),
		Password:              rec.String("Senha"),
	}
}

// subscriptionExpiry reads an unrecognised date as already expired.
func subscriptionExpiry(rec nocodb.Record) *time.Time {
	raw := strings.TrimSpace(rec.String("AssinaturaExpira"))
	if raw == "" {
		return nil
	}
	if t := parseDate(raw); t != nil {
		return t
	}
	slog.Warn("unparseable subscription expiry, treating as expired", "user_id", rec.ID(), "value", raw)
	return &time.Time{}
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05-07:00",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02/01/2006",
}

func parseDate(value string) *time.Time {
	if value == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return &t
		}
	}
	return nil
}

func formatTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}

func parseTime(rec nocodb.Record, field string) time.Time {
	if t := parseDate(rec.String(field)); t != nil {
		return *t
	}
	return time.Time{}
}
