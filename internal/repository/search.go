package repository

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ContainsPattern turns a user query into a lower-cased LIKE pattern
// matching it as a literal substring. An empty query matches everything.
func ContainsPattern(query string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(query)) + "%"
}

// containsCondition builds a case-insensitive substring match over cols.
// Postgres uses ILIKE; other dialects compare LOWER(col), which SQLite
// only folds for ASCII.
func containsCondition(db *gorm.DB, query string, cols ...string) (string, []interface{}) {
	format := `LOWER(%s) LIKE ? ESCAPE '\'`
	if db.Dialector.Name() == "postgres" {
		format = `%s ILIKE ? ESCAPE '\'`
	}

	pattern := ContainsPattern(query)
	parts := make([]string, len(cols))
	args := make([]interface{}, len(cols))
	for i, col := range cols {
		parts[i] = fmt.Sprintf(format, col)
		args[i] = pattern
	}
	return "(" + strings.Join(parts, " OR ") + ")", args
}
