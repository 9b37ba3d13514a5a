package helpers

import (
	"strings"

	"github.com/jackc/pgx/v5/pgtype"
)

// TextOrNull converts an optional string column value to pgtype.Text.
// An empty string is stored as NULL so unique indexes ignore it.
func TextOrNull(s string) pgtype.Text {
	if s == "" {
		return pgtype.Text{}
	}
	return pgtype.Text{String: s, Valid: true}
}

// TextValue returns the string held by t, or "" when t is NULL.
func TextValue(t pgtype.Text) string {
	if !t.Valid {
		return ""
	}
	return t.String
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ContainsPattern builds an ILIKE pattern matching s as a literal substring.
func ContainsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
