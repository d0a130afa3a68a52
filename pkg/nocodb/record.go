package nocodb

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Record is one NocoDB row keyed by column title.
type Record map[string]any

// ID returns the primary key, whichever casing the table uses.
func (r Record) ID() string {
	for _, key := range []string{"Id", "ID", "id"} {
		if v := Stringify(r[key]); v != "" {
			return v
		}
	}
	return ""
}

func (r Record) String(field string) string {
	return Stringify(r[field])
}

func (r Record) Bool(field string) bool {
	switch v := r[field].(type) {
	case bool:
		return v
	case json.Number:
		return v.String() != "0"
	case float64:
		return v != 0
	case string:
		b, _ := strconv.ParseBool(strings.TrimSpace(v))
		return b
	}
	return false
}

func (r Record) Int(field string) int {
	n, _ := strconv.Atoi(strings.Split(Stringify(r[field]), ".")[0])
	return n
}

// Stringify renders a decoded JSON scalar the way NocoDB shows it in the UI.
func Stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	default:
		return strings.TrimSpace(fmt.Sprint(t))
	}
}
