package services

import (
	"regexp"
	"strings"

	"github.com/samber/lo"
)

const whatsappSuffix = "@s.whatsapp.net"

var phonePattern = regexp.MustCompile(`^\+?\d+$`)

// NormalizeParticipants turns free-form input (one entry per line or comma separated,
// optionally "phone - name") into WhatsApp JIDs. Unparseable entries are dropped.
func NormalizeParticipants(raw string) []string {
	entries := splitEntries(raw)
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if jid, ok := normalizeEntry(e); ok {
			out = append(out, jid)
		}
	}
	return lo.Uniq(out)
}

func splitEntries(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == '\n' || r == '\r' || r == ','
	})
	return lo.FilterMap(fields, func(f string, _ int) (string, bool) {
		f = strings.TrimSpace(f)
		return f, f != ""
	})
}

func normalizeEntry(entry string) (string, bool) {
	if i := strings.Index(entry, " - "); i >= 0 {
		entry = strings.TrimSpace(entry[:i])
	}
	switch {
	case phonePattern.MatchString(entry):
		return strings.TrimPrefix(entry, "+") + whatsappSuffix, true
	case strings.Contains(entry, "@"):
		return entry, true
	}
	return "", false
}

// splitNamedEntry reads "phone - name" or "name - phone" lines and returns the JID and the name.
func splitNamedEntry(entry string) (jid, name string, ok bool) {
	left, right, found := strings.Cut(entry, " - ")
	left, right = strings.TrimSpace(left), strings.TrimSpace(right)
	if !found {
		jid, ok = normalizeEntry(left)
		return jid, "", ok
	}
	if jid, ok = normalizeEntry(left); ok {
		return jid, right, true
	}
	if jid, ok = normalizeEntry(right); ok {
		return jid, left, true
	}
	return "", "", false
}

// phoneFromJID strips the WhatsApp suffix.
func phoneFromJID(jid string) string {
	return strings.TrimSuffix(jid, whatsappSuffix)
}
