package repository

import (
	"context"
	"errors"
	"fmt"

	"whatsapp_dashboard/pkg/nocodb"
)

// TableSpec describes one NocoDB table: the titles it may have been created under and
// the columns provisioning creates.
type TableSpec struct {
	Key        string
	Candidates []string
	Schema     nocodb.TableSchema
}

func text(name string) nocodb.Column {
	return nocodb.Column{ColumnName: name, Title: name, UIDT: "SingleLineText"}
}

func longText(name string) nocodb.Column {
	return nocodb.Column{ColumnName: name, Title: name, UIDT: "LongText"}
}

func ownerColumns() []nocodb.Column {
	return []nocodb.Column{text("Cliente ID"), text("user_id")}
}

func withOwner(cols ...nocodb.Column) []nocodb.Column {
	return append(cols, ownerColumns()...)
}

// Tables lists every table the dashboard reads or writes, in provisioning order.
var Tables = []TableSpec{
	{
		Key:        "users",
		Candidates: []string{"usuarios", "users", "Usuarios"},
		Schema: nocodb.TableSchema{TableName: "usuarios", Title: "Usuarios", Columns: []nocodb.Column{
			text("Email"), text("Nome"), text("Senha"),
			{ColumnName: "Ativo", Title: "Ativo", UIDT: "Checkbox"},
			{ColumnName: "AssinaturaExpira", Title: "AssinaturaExpira", UIDT: "Date"},
			text("Cliente ID"),
		}},
	},
	{
		Key:        "notifications",
		Candidates: []string{"notificacoes", "notifications", "regras"},
		Schema: nocodb.TableSchema{TableName: "notificacoes", Title: "Notificacoes", Columns: withOwner(
			text("Tipo Evento"), text("Papel"), text("Plataforma"), text("Nome Perfil"), text("Instancia"),
			longText("Mensagens"), text("Webhook URL"), text("Escopo Produto"),
		)},
	},
	{
		Key:        "tutorials",
		Candidates: []string{"tutoriais", "tutorials"},
		Schema: nocodb.TableSchema{TableName: "tutoriais", Title: "Tutoriais", Columns: []nocodb.Column{
			text("Titulo"), longText("Descricao"), text("Video URL"), longText("Documentos"), text("Capa URL"), text("Categoria"),
		}},
	},
	{
		Key:        "contacts",
		Candidates: []string{"contatos", "contacts"},
		Schema: nocodb.TableSchema{TableName: "contatos", Title: "Contatos", Columns: withOwner(
			text("Nome"), text("Telefone"), text("Tags"),
		)},
	},
	{
		Key:        "instances",
		Candidates: []string{"instancias", "instances"},
		Schema: nocodb.TableSchema{TableName: "instancias", Title: "Instancias", Columns: withOwner(
			text("Nome Instancia"),
		)},
	},
	{
		Key:        "campaigns",
		Candidates: []string{"campanhas", "campaigns", "disparos"},
		Schema: nocodb.TableSchema{TableName: "campanhas", Title: "Campanhas", Columns: withOwner(
			text("Nome"), text("Instancia"), longText("Destinatarios"), longText("Mensagens"), text("Status"),
			nocodb.Column{ColumnName: "Total", Title: "Total", UIDT: "Number"},
			nocodb.Column{ColumnName: "Enviados", Title: "Enviados", UIDT: "Number"},
			nocodb.Column{ColumnName: "Falhas", Title: "Falhas", UIDT: "Number"},
			nocodb.Column{ColumnName: "Iniciado Em", Title: "Iniciado Em", UIDT: "DateTime"},
			nocodb.Column{ColumnName: "Finalizado Em", Title: "Finalizado Em", UIDT: "DateTime"},
			longText("Erro"),
		)},
	},
}

func TableSpecFor(key string) (TableSpec, bool) {
	for _, t := range Tables {
		if t.Key == key {
			return t, true
		}
	}
	return TableSpec{}, false
}

type MetaAPI interface {
	ListTables(ctx context.Context, baseID string) ([]nocodb.Table, error)
}

// ResolveTables returns a table id for every key in Tables. Ids in pinned win; the rest
// are matched against the base's table titles.
func ResolveTables(ctx context.Context, meta MetaAPI, baseID string, pinned map[string]string) (map[string]string, error) {
	ids := make(map[string]string, len(Tables))
	var tables []nocodb.Table
	var errs []error
	for _, spec := range Tables {
		if id := pinned[spec.Key]; id != "" {
			ids[spec.Key] = id
			continue
		}
		if tables == nil {
			var err error
			if tables, err = meta.ListTables(ctx, baseID); err != nil {
				return nil, fmt.Errorf("list tables: %w", err)
			}
		}
		id, err := nocodb.MatchTable(tables, spec.Candidates...)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", spec.Key, err))
			continue
		}
		ids[spec.Key] = id
	}
	return ids, errors.Join(errs...)
}

// MissingTables returns the specs with no matching table in tables.
func MissingTables(tables []nocodb.Table) []TableSpec {
	var missing []TableSpec
	for _, spec := range Tables {
		if _, err := nocodb.MatchTable(tables, spec.Candidates...); err != nil {
			missing = append(missing, spec)
		}
	}
	return missing
}
