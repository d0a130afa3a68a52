package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"whatsapp_dashboard/internal/mocks"
	"whatsapp_dashboard/internal/models"
	"whatsapp_dashboard/internal/redis"
	"whatsapp_dashboard/internal/repository"
	"whatsapp_dashboard/internal/services"
	"whatsapp_dashboard/pkg/nocodb"
)

func newAuthService(t *testing.T, rows ...nocodb.Record) (services.AuthService, *mocks.RedisMock) {
	t.Helper()
	db := mocks.NewFakeNocoDB()
	db.Seed("users", rows...)
	store := new(mocks.RedisMock)
	users := repository.NewUserRepository(newTable(db, "users", nil))
	return services.NewAuthService(users, store, time.Hour), store
}

func TestLoginCreatesSession(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	svc, store := newAuthService(t, nocodb.Record{
		"Id": "1", "Email": "ana@example.com", "Nome": "Ana", "Senha": string(hash), "Ativo": true,
	})

	store.On("SetSession", mock.Anything, mock.MatchedBy(func(s *models.Session) bool {
		return s.UserID == "1" && s.ClientID == "client_1" && s.Token != ""
	}), time.Hour).Return(nil).Once()

	res, err := svc.Login(context.Background(), "ana@example.com", "s3cret")
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, "Ana", res.User.Name)
	assert.Equal(t, "client_1", res.User.ClientID)
	assert.Empty(t, res.User.Password)
	store.AssertExpectations(t)
}

func TestLoginAcceptsLegacyPlaintext(t *testing.T) {
	svc, store := newAuthService(t, nocodb.Record{
		"Id": "2", "Email": "bia@example.com", "Senha": "plain", "Ativo": true, "Cliente ID": "acme",
	})
	store.On("SetSession", mock.Anything, mock.MatchedBy(func(s *models.Session) bool {
		return s.ClientID == "acme"
	}), time.Hour).Return(nil).Once()

	_, err := svc.Login(context.Background(), "bia@example.com", "plain")
	require.NoError(t, err)
	store.AssertExpectations(t)
}

func TestLoginGuards(t *testing.T) {
	future := time.Now().AddDate(0, 1, 0).Format("2006-01-02")
	today := time.Now().Format("2006-01-02")
	svc, store := newAuthService(t,
		nocodb.Record{"Id": "1", "Email": "off@example.com", "Senha": "pw", "Ativo": false},
		nocodb.Record{"Id": "2", "Email": "old@example.com", "Senha": "pw", "Ativo": true, "AssinaturaExpira": "2000-01-01"},
		nocodb.Record{"Id": "3", "Email": "ok@example.com", "Senha": "pw", "Ativo": true, "AssinaturaExpira": future},
		nocodb.Record{"Id": "4", "Email": "today@example.com", "Senha": "pw", "Ativo": true, "AssinaturaExpira": today},
		nocodb.Record{"Id": "5", "Email": "garbled@example.com", "Senha": "pw", "Ativo": true, "AssinaturaExpira": "31 de janeiro"},
	)
	store.On("SetSession", mock.Anything, mock.Anything, time.Hour).Return(nil)

	cases := []struct {
		email, password string
		want            error
	}{
		{"ok@example.com", "wrong", services.ErrInvalidCredentials},
		{"nobody@example.com", "pw", services.ErrInvalidCredentials},
		{"off@example.com", "pw", services.ErrUserInactive},
		{"old@example.com", "pw", services.ErrSubscriptionExpired},
		{"garbled@example.com", "pw", services.ErrSubscriptionExpired},
		{"ok@example.com", "pw", nil},
		{"today@example.com", "pw", nil},
	}
	for _, tc := range cases {
		t.Run(tc.email+"/"+tc.password, func(t *testing.T) {
			_, err := svc.Login(context.Background(), tc.email, tc.password)
			if tc.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestAuthenticate(t *testing.T) {
	svc, store := newAuthService(t)
	session := &models.Session{Token: "tok", UserID: "1", ClientID: "client_1"}
	store.On("GetSession", mock.Anything, "tok").Return(session, nil).Once()
	store.On("GetSession", mock.Anything, "gone").Return(nil, redis.ErrSessionNotFound).Once()
	store.On("DeleteSession", mock.Anything, "tok").Return(nil).Once()

	got, err := svc.Authenticate(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, models.Owner{UserID: "1", ClientID: "client_1"}, got.Owner())

	_, err = svc.Authenticate(context.Background(), "gone")
	assert.ErrorIs(t, err, services.ErrUnauthenticated)

	_, err = svc.Authenticate(context.Background(), "")
	assert.ErrorIs(t, err, services.ErrUnauthenticated)

	require.NoError(t, svc.Logout(context.Background(), "tok"))
	store.AssertExpectations(t)
}
