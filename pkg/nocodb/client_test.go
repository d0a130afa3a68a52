package nocodb

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListSendsTokenAndWhere(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.Header.Get("xc-token"))
		assert.Equal(t, "/api/v1/db/data/noco/base1/tbl1", r.URL.Path)
		assert.Equal(t, "(Email,eq,a@b.c)~and(Ativo,eq,true)", r.URL.Query().Get("where"))
		assert.Equal(t, "25", r.URL.Query().Get("limit"))
		w.Write([]byte(`{"list":[{"Id":7,"Email":"a@b.c"}],"pageInfo":{"totalRows":1}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret")
	rows, err := c.List(context.Background(), "base1", "tbl1", ListOptions{
		Where: []Condition{Eq("Email", "a@b.c"), Eq("Ativo", "true")},
		Limit: 25,
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "7", rows[0].ID())
	assert.Equal(t, "a@b.c", rows[0].String("Email"))
}

func TestCreateUpdateDelete(t *testing.T) {
	var methods []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		methods = append(methods, r.Method+" "+r.URL.Path)
		if r.Body != nil {
			body, _ := io.ReadAll(r.Body)
			if len(body) > 0 {
				var payload map[string]any
				assert.NoError(t, json.Unmarshal(body, &payload))
				assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			}
		}
		w.Write([]byte(`{"Id":3}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "t")
	ctx := context.Background()

	rec, err := c.Create(ctx, "b", "t1", map[string]any{"Titulo": "x"})
	require.NoError(t, err)
	assert.Equal(t, "3", rec.ID())

	_, err = c.Update(ctx, "b", "t1", "3", map[string]any{"Titulo": "y"})
	require.NoError(t, err)
	require.NoError(t, c.Delete(ctx, "b", "t1", "3"))

	assert.Equal(t, []string{
		"POST /api/v1/db/data/noco/b/t1",
		"PATCH /api/v1/db/data/noco/b/t1/3",
		"DELETE /api/v1/db/data/noco/b/t1/3",
	}, methods)
}

func TestGetMissingRecord(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/404") {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"msg":"Record not found"}`))
			return
		}
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "t")
	_, err := c.Get(context.Background(), "b", "t", "empty")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = c.Get(context.Background(), "b", "t", "404")
	assert.ErrorIs(t, err, ErrNotFound)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
}

func TestRetriesServerErrorsOnly(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"list":[]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "t")
	_, err := c.List(context.Background(), "b", "t", ListOptions{})
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())

	calls.Store(0)
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer bad.Close()

	c = NewClient(bad.URL, "t")
	_, err = c.List(context.Background(), "b", "t", ListOptions{})
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func TestCreateIsNotRetriedAfterReachingServer(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "t")
	_, err := c.Create(context.Background(), "b", "t", map[string]any{"Nome": "x"})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, int32(1), calls.Load())

	calls.Store(0)
	_, err = c.Update(context.Background(), "b", "t", "1", map[string]any{"Nome": "x"})
	require.Error(t, err)
	assert.Equal(t, int32(3), calls.Load())
}

func TestCreateRetriesOnlyDialFailures(t *testing.T) {
	var calls atomic.Int32
	dialErr := roundTripFunc(func(*http.Request) (*http.Response, error) {
		calls.Add(1)
		return nil, &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}
	})
	c := NewClient("http://nocodb.test", "t", WithHTTPClient(&http.Client{Transport: dialErr}), WithMaxRetries(2))
	_, err := c.Create(context.Background(), "b", "t", map[string]any{})
	require.Error(t, err)
	assert.Equal(t, int32(3), calls.Load())

	calls.Store(0)
	reset := roundTripFunc(func(*http.Request) (*http.Response, error) {
		calls.Add(1)
		return nil, io.ErrUnexpectedEOF
	})
	c = NewClient("http://nocodb.test", "t", WithHTTPClient(&http.Client{Transport: reset}))
	_, err = c.Create(context.Background(), "b", "t", map[string]any{})
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())

	calls.Store(0)
	err = c.Delete(context.Background(), "b", "t", "1")
	require.Error(t, err)
	assert.Equal(t, int32(3), calls.Load())
}

func TestResolveTableID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/db/meta/projects":
			w.Write([]byte(`{"list":[{"id":"p1","title":"Marketing"},{"id":"p2","title":"WhatsApp Automacao"}]}`))
		case "/api/v1/db/meta/projects/p2/tables":
			w.Write([]byte(`{"list":[{"id":"t1","title":"Notificacoes Inteligentes","table_name":"nc_notif"},{"id":"t2","title":"Tutoriais","table_name":"tutoriais"}]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "t")
	ctx := context.Background()

	base, err := c.ResolveBaseID(ctx, "whatsapp")
	require.NoError(t, err)
	assert.Equal(t, "p2", base)

	id, err := c.ResolveTableID(ctx, base, "notifications", "notificacoes")
	require.NoError(t, err)
	assert.Equal(t, "t1", id)

	_, err = c.ResolveTableID(ctx, base, "campaigns")
	assert.Error(t, err)
}

func TestMatchTablePrefersExactMatch(t *testing.T) {
	tables := []Table{
		{ID: "a", Title: "Tutoriais Antigos"},
		{ID: "b", Title: "Tutoriais"},
	}
	id, err := MatchTable(tables, "tutoriais")
	require.NoError(t, err)
	assert.Equal(t, "b", id)
}

func TestRecordHelpers(t *testing.T) {
	rec := Record{"id": json.Number("12"), "Ativo": "true", "Qtd": json.Number("4"), "Nome": "  Ana "}
	assert.Equal(t, "12", rec.ID())
	assert.True(t, rec.Bool("Ativo"))
	assert.Equal(t, 4, rec.Int("Qtd"))
	assert.Equal(t, "Ana", rec.String("Nome"))
	assert.Equal(t, "", rec.String("missing"))
}

func TestUpload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/db/storage/upload", r.URL.Path)
		assert.Equal(t, "tutorials", r.URL.Query().Get("path"))
		file, hdr, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			return
		}
		defer file.Close()
		assert.Equal(t, "a.txt", hdr.Filename)
		w.Write([]byte(`[{"path":"download/tutorials/a.txt","title":"a.txt","size":5}]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "t")
	f, err := c.Upload(context.Background(), "tutorials", "a.txt", "text/plain", strings.NewReader("hello"))
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/download/tutorials/a.txt", f.URL)
}
