package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"whatsapp_dashboard/internal/repository"
	"whatsapp_dashboard/pkg/nocodb"
)

type staticMeta struct {
	tables []nocodb.Table
	calls  int
}

func (m *staticMeta) ListTables(context.Context, string) ([]nocodb.Table, error) {
	m.calls++
	return m.tables, nil
}

func TestResolveTables(t *testing.T) {
	meta := &staticMeta{tables: []nocodb.Table{
		{ID: "m1", Title: "Usuarios"},
		{ID: "m2", Title: "Notificacoes WhatsApp"},
		{ID: "m3", TableName: "tutoriais"},
		{ID: "m4", Title: "Contatos"},
		{ID: "m6", Title: "Campanhas"},
	}}

	ids, err := repository.ResolveTables(context.Background(), meta, "base", map[string]string{"users": "pinned"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "instances")
	assert.Equal(t, "pinned", ids["users"])
	assert.Equal(t, "m2", ids["notifications"])
	assert.Equal(t, "m3", ids["tutorials"])
	assert.Equal(t, "m6", ids["campaigns"])
	assert.Equal(t, 1, meta.calls)

	missing := repository.MissingTables(meta.tables)
	require.Len(t, missing, 1)
	assert.Equal(t, "instances", missing[0].Key)
}

func TestResolveTablesAllPinned(t *testing.T) {
	pinned := map[string]string{}
	for _, spec := range repository.Tables {
		pinned[spec.Key] = spec.Key + "-id"
	}
	meta := &staticMeta{}

	ids, err := repository.ResolveTables(context.Background(), meta, "base", pinned)
	require.NoError(t, err)
	assert.Equal(t, pinned, ids)
	assert.Zero(t, meta.calls)
}

func TestTableSpecsCarryOwnerColumns(t *testing.T) {
	for _, key := range []string{"notifications", "contacts", "instances", "campaigns"} {
		spec, ok := repository.TableSpecFor(key)
		require.True(t, ok, key)
		titles := make([]string, 0, len(spec.Schema.Columns))
		for _, c := range spec.Schema.Columns {
			titles = append(titles, c.Title)
		}
		assert.Contains(t, titles, "Cliente ID", key)
		assert.Contains(t, titles, "user_id", key)
	}
}

func TestCampaignTableSchemaTypes(t *testing.T) {
	spec, ok := repository.TableSpecFor("campaigns")
	require.True(t, ok)
	types := map[string]string{}
	for _, c := range spec.Schema.Columns {
		types[c.ColumnName] = c.UIDT
	}
	assert.Equal(t, "Number", types["Total"])
	assert.Equal(t, "Number", types["Enviados"])
	assert.Equal(t, "Number", types["Falhas"])
	assert.Equal(t, "DateTime", types["Iniciado Em"])
	assert.Equal(t, "DateTime", types["Finalizado Em"])
	assert.Equal(t, "LongText", types["Erro"])
	assert.Equal(t, "SingleLineText", types["Cliente ID"])
}
