package evolution

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchInstancesAcceptsBothShapes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "key", r.Header.Get("apikey"))
		w.Write([]byte(`[
			{"id":"1","name":"vendas","connectionStatus":"open"},
			{"instance":{"instanceName":"suporte","status":"close"}}
		]`))
	}))
	defer srv.Close()

	instances, err := NewClient(srv.URL, "key").FetchInstances(context.Background())
	require.NoError(t, err)
	require.Len(t, instances, 2)
	assert.Equal(t, "vendas", instances[0].Name)
	assert.Equal(t, "open", instances[0].ConnectionStatus)
	assert.Equal(t, "suporte", instances[1].Name)
	assert.Equal(t, "close", instances[1].ConnectionStatus)
}

func TestUpdateParticipants(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/group/updateParticipant/vendas", r.URL.Path)
		assert.Equal(t, "123@g.us", r.URL.Query().Get("groupJid"))

		var body struct {
			Action       string   `json:"action"`
			Participants []string `json:"participants"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, ParticipantPromote, body.Action)
		assert.Equal(t, []string{"5511999990000@s.whatsapp.net"}, body.Participants)
		w.Write([]byte(`{"updateParticipants":[]}`))
	}))
	defer srv.Close()

	err := NewClient(srv.URL, "key").UpdateParticipants(context.Background(), "vendas", "123@g.us",
		ParticipantPromote, []string{"5511999990000@s.whatsapp.net"})
	require.NoError(t, err)
}

func TestFetchAllGroups(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "true", r.URL.Query().Get("getParticipants"))
		w.Write([]byte(`[{"id":"1@g.us","subject":"VIP","desc":"clientes","size":2,"announce":true,"restrict":false,
			"participants":[{"id":"a@s.whatsapp.net","admin":"superadmin"},{"id":"b@s.whatsapp.net","admin":null}]}]`))
	}))
	defer srv.Close()

	groups, err := NewClient(srv.URL, "key").FetchAllGroups(context.Background(), "vendas", true)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "VIP", groups[0].Subject)
	assert.True(t, groups[0].Announce)
	assert.Equal(t, "superadmin", groups[0].Participants[0].Admin)
	assert.Equal(t, "", groups[0].Participants[1].Admin)
}

func TestSendTextError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"number not on whatsapp"}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "key").SendText(context.Background(), "vendas", "5511", "oi", 0)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Contains(t, apiErr.Body, "number not on whatsapp")
}
