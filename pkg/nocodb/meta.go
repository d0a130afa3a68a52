package nocodb

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

type Project struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type Table struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	TableName string `json:"table_name"`
}

// Column is a column definition for CreateTable. UIDT is the NocoDB UI data type,
// e.g. SingleLineText, LongText, Checkbox, Number, Date, DateTime.
type Column struct {
	ColumnName string `json:"column_name"`
	Title      string `json:"title"`
	UIDT       string `json:"uidt"`
}

type TableSchema struct {
	TableName string   `json:"table_name"`
	Title     string   `json:"title"`
	Columns   []Column `json:"columns"`
}

func (c *Client) ListProjects(ctx context.Context) ([]Project, error) {
	var resp struct {
		List []Project `json:"list"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/db/meta/projects", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.List, nil
}

func (c *Client) ListTables(ctx context.Context, baseID string) ([]Table, error) {
	var resp struct {
		List []Table `json:"list"`
	}
	path := "/api/v1/db/meta/projects/" + url.PathEscape(baseID) + "/tables"
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.List, nil
}

func (c *Client) CreateTable(ctx context.Context, baseID string, schema TableSchema) (*Table, error) {
	var table Table
	path := "/api/v1/db/meta/projects/" + url.PathEscape(baseID) + "/tables"
	if err := c.do(ctx, http.MethodPost, path, nil, schema, &table); err != nil {
		return nil, err
	}
	return &table, nil
}

// ResolveBaseID finds the first project whose title contains titleSubstr, case-insensitively.
func (c *Client) ResolveBaseID(ctx context.Context, titleSubstr string) (string, error) {
	projects, err := c.ListProjects(ctx)
	if err != nil {
		return "", err
	}
	needle := strings.ToLower(titleSubstr)
	for _, p := range projects {
		if strings.Contains(strings.ToLower(p.Title), needle) {
			return p.ID, nil
		}
	}
	return "", fmt.Errorf("nocodb: no base title contains %q", titleSubstr)
}

// ResolveTableID tries candidates in order; exact title/table_name matches win over substring
// matches for the same candidate.
func (c *Client) ResolveTableID(ctx context.Context, baseID string, candidates ...string) (string, error) {
	tables, err := c.ListTables(ctx, baseID)
	if err != nil {
		return "", err
	}
	return MatchTable(tables, candidates...)
}

func MatchTable(tables []Table, candidates ...string) (string, error) {
	for _, candidate := range candidates {
		needle := strings.ToLower(candidate)
		for _, t := range tables {
			if strings.EqualFold(t.Title, candidate) || strings.EqualFold(t.TableName, candidate) {
				return t.ID, nil
			}
		}
		for _, t := range tables {
			if strings.Contains(strings.ToLower(t.Title), needle) || strings.Contains(strings.ToLower(t.TableName), needle) {
				return t.ID, nil
			}
		}
	}
	return "", fmt.Errorf("nocodb: no table matches any of %v", candidates)
}
