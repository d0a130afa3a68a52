package models

import (
	"time"
)

type User struct {
	ID                    string     `json:"id"`
	Email                 string     `json:"email"`
	Name                  string     `json:"name"`
	ClientID              string     `json:"client_id"`
	Active                bool       `json:"active"`
	SubscriptionExpiresAt *time.Time `json:"subscription_expires_at"`
	Password              string     `json:"-"`
}

// Owner identifies whose rows a request may see. NocoDB has no per-user access control,
// so every row carries one of several owner columns and is matched against both ids.
type Owner struct {
	UserID   string `json:"user_id"`
	ClientID string `json:"client_id"`
}

// DeriveClientID is used when the user row has no explicit client id.
func DeriveClientID(userID string) string {
	if userID == "" {
		return ""
	}
	return "client_" + userID
}

func (u *User) Owner() Owner {
	clientID := u.ClientID
	if clientID == "" {
		clientID = DeriveClientID(u.ID)
	}
	return Owner{UserID: u.ID, ClientID: clientID}
}

type Session struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	ClientID  string    `json:"client_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (s *Session) Owner() Owner {
	return Owner{UserID: s.UserID, ClientID: s.ClientID}
}
