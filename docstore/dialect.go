package docstore

import (
	"fmt"
	"regexp"

	sq "github.com/Masterminds/squirrel"
)

var validField = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Dialect adapts the SQL store to a database engine.
type Dialect struct {
	Name   string
	Driver string

	placeholder sq.PlaceholderFormat
	schema      string
	extract     func(field string) string
	jsonValue   func(raw string) any
	filterValue func(v any) any
}

// SQLite stores document data as TEXT and reads fields with json_extract.
var SQLite = Dialect{
	Name:        "sqlite",
	Driver:      "sqlite",
	placeholder: sq.Question,
	schema: `
CREATE TABLE IF NOT EXISTS documents (
    collection TEXT NOT NULL,
    id TEXT NOT NULL,
    data TEXT NOT NULL,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL,
    PRIMARY KEY (collection, id)
);
CREATE INDEX IF NOT EXISTS idx_documents_collection ON documents(collection, created_at);
`,
	extract: func(field string) string {
		return fmt.Sprintf("json_extract(data, '$.%s')", field)
	},
	jsonValue:   func(raw string) any { return raw },
	filterValue: func(v any) any { return v },
}

// Postgres stores document data as JSONB and compares fields as text.
var Postgres = Dialect{
	Name:        "postgres",
	Driver:      "postgres",
	placeholder: sq.Dollar,
	schema: `
CREATE TABLE IF NOT EXISTS documents (
    collection TEXT NOT NULL,
    id TEXT NOT NULL,
    data JSONB NOT NULL,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL,
    PRIMARY KEY (collection, id)
);
CREATE INDEX IF NOT EXISTS idx_documents_collection ON documents(collection, created_at);
`,
	extract: func(field string) string {
		return fmt.Sprintf("data->>'%s'", field)
	},
	jsonValue: func(raw string) any {
		return sq.Expr("CAST(? AS jsonb)", raw)
	},
	filterValue: func(v any) any {
		if s, ok := v.(string); ok {
			return s
		}
		return fmt.Sprint(v)
	},
}

// DialectFor returns the dialect registered under name.
func DialectFor(name string) (Dialect, error) {
	switch name {
	case "", "sqlite", "sqlite3":
		return SQLite, nil
	case "postgres", "postgresql", "pq":
		return Postgres, nil
	default:
		return Dialect{}, fmt.Errorf("docstore: unknown driver %q", name)
	}
}

func (d Dialect) builder() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(d.placeholder)
}

func (d Dialect) field(name string) (string, error) {
	if !validField.MatchString(name) {
		return "", fmt.Errorf("docstore: invalid field name %q", name)
	}
	return d.extract(name), nil
}
