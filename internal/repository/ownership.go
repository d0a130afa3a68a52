package repository

import (
	"github.com/samber/lo"

	"whatsapp_dashboard/internal/models"
	"whatsapp_dashboard/pkg/nocodb"
)

// OwnerFields are the column names different table generations used for the owner.
var OwnerFields = []string{
	"Cliente ID",
	"client_id",
	"clientId",
	"cliente_id",
	"user_id",
	"userId",
	"Usuario ID",
}

// OwnedBy reports whether any owner column equals the user id or the client id.
func OwnedBy(rec nocodb.Record, owner models.Owner) bool {
	for _, field := range OwnerFields {
		v := rec.String(field)
		if v == "" {
			continue
		}
		if (owner.UserID != "" && v == owner.UserID) || (owner.ClientID != "" && v == owner.ClientID) {
			return true
		}
	}
	return false
}

func FilterOwned(rows []nocodb.Record, owner models.Owner) []nocodb.Record {
	return lo.Filter(rows, func(rec nocodb.Record, _ int) bool {
		return OwnedBy(rec, owner)
	})
}

// stampOwner writes the owner columns every new row carries.
func stampOwner(fields map[string]any, owner models.Owner) map[string]any {
	fields["Cliente ID"] = owner.ClientID
	fields["user_id"] = owner.UserID
	return fields
}

var (
	clientIDFields = []string{"Cliente ID", "client_id", "clientId", "cliente_id"}
	userIDFields   = []string{"user_id", "userId", "Usuario ID"}
)

// ownerOf reads the owner columns of a row. A missing client id is derived from the user id.
func ownerOf(rec nocodb.Record) models.Owner {
	first := func(fields []string) string {
		for _, f := range fields {
			if v := rec.String(f); v != "" {
				return v
			}
		}
		return ""
	}
	owner := models.Owner{UserID: first(userIDFields), ClientID: first(clientIDFields)}
	if owner.ClientID == "" && owner.UserID != "" {
		owner.ClientID = models.DeriveClientID(owner.UserID)
	}
	return owner
}
