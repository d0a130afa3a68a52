package mocks

import (
	"context"
	"net/http"
	"strconv"
	"sync"

	"whatsapp_dashboard/pkg/nocodb"
)

// FakeNocoDB is an in-memory table store. Where clauses are ignored except for eq terms.
type FakeNocoDB struct {
	mu     sync.Mutex
	nextID int
	tables map[string][]nocodb.Record

	// Err, when set, is returned by every call.
	Err   error
	Calls []string
}

func NewFakeNocoDB() *FakeNocoDB {
	return &FakeNocoDB{tables: map[string][]nocodb.Record{}}
}

// Seed inserts rows as-is; rows without an Id get one.
func (f *FakeNocoDB) Seed(tableID string, rows ...nocodb.Record) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, rec := range rows {
		if rec.ID() == "" {
			f.nextID++
			rec["Id"] = strconv.Itoa(f.nextID)
		}
		f.tables[tableID] = append(f.tables[tableID], rec)
	}
}

func (f *FakeNocoDB) Rows(tableID string) []nocodb.Record {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]nocodb.Record(nil), f.tables[tableID]...)
}

func (f *FakeNocoDB) List(_ context.Context, _, tableID string, opts nocodb.ListOptions) ([]nocodb.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, "list "+tableID)
	if f.Err != nil {
		return nil, f.Err
	}
	var out []nocodb.Record
	for _, rec := range f.tables[tableID] {
		match := true
		for _, cond := range opts.Where {
			if cond.Op == "eq" && rec.String(cond.Field) != cond.Value {
				match = false
			}
		}
		if match {
			out = append(out, rec)
		}
		if opts.Limit > 0 && len(out) >= opts.Limit {
			break
		}
	}
	return out, nil
}

func (f *FakeNocoDB) Get(_ context.Context, _, tableID, id string) (nocodb.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, "get "+tableID+"/"+id)
	if f.Err != nil {
		return nil, f.Err
	}
	for _, rec := range f.tables[tableID] {
		if rec.ID() == id {
			return copyRecord(rec), nil
		}
	}
	return nil, &nocodb.APIError{Method: http.MethodGet, StatusCode: http.StatusNotFound}
}

func (f *FakeNocoDB) Create(_ context.Context, _, tableID string, fields map[string]any) (nocodb.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, "create "+tableID)
	if f.Err != nil {
		return nil, f.Err
	}
	f.nextID++
	rec := nocodb.Record{"Id": strconv.Itoa(f.nextID)}
	for k, v := range fields {
		rec[k] = v
	}
	f.tables[tableID] = append(f.tables[tableID], rec)
	return copyRecord(rec), nil
}

func (f *FakeNocoDB) Update(_ context.Context, _, tableID, id string, fields map[string]any) (nocodb.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, "update "+tableID+"/"+id)
	if f.Err != nil {
		return nil, f.Err
	}
	for _, rec := range f.tables[tableID] {
		if rec.ID() == id {
			for k, v := range fields {
				rec[k] = v
			}
			return copyRecord(rec), nil
		}
	}
	return nil, &nocodb.APIError{Method: http.MethodPatch, StatusCode: http.StatusNotFound}
}

func (f *FakeNocoDB) Delete(_ context.Context, _, tableID, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, "delete "+tableID+"/"+id)
	if f.Err != nil {
		return f.Err
	}
	rows := f.tables[tableID]
	for i, rec := range rows {
		if rec.ID() == id {
			f.tables[tableID] = append(rows[:i], rows[i+1:]...)
			return nil
		}
	}
	return &nocodb.APIError{Method: http.MethodDelete, StatusCode: http.StatusNotFound}
}

func copyRecord(rec nocodb.Record) nocodb.Record {
	out := make(nocodb.Record, len(rec))
	for k, v := range rec {
		out[k] = v
	}
	return out
}
