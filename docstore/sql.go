package docstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// SQLStore keeps every collection in a single documents table.
type SQLStore struct {
	db      *sql.DB
	dialect Dialect
	now     func() time.Time
}

var _ Store = (*SQLStore)(nil)

// SQLOption configures an SQLStore.
type SQLOption func(*SQLStore)

// WithClock overrides the clock used for server timestamps.
func WithClock(now func() time.Time) SQLOption {
	return func(s *SQLStore) { s.now = now }
}

// Open connects to the database for the named driver and ensures the schema.
// For sqlite the DSN is a file path whose directory is created if missing.
func Open(driver, dsn string, opts ...SQLOption) (*SQLStore, error) {
	d, err := DialectFor(driver)
	if err != nil {
		return nil, err
	}
	if d.Name == SQLite.Name {
		path, _, _ := strings.Cut(dsn, "?")
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
		dsn = sqliteDSN(dsn)
	}
	db, err := sql.Open(d.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("docstore: open %s: %w", d.Name, err)
	}
	switch d.Name {
	case SQLite.Name:
		if err := db.Ping(); err != nil {
			db.Close()
			return nil, fmt.Errorf("docstore: open %s: %w", d.Name, err)
		}
		db.SetMaxOpenConns(4)
		db.SetMaxIdleConns(4)
	default:
		if err := db.Ping(); err != nil {
			db.Close()
			return nil, fmt.Errorf("docstore: ping %s: %w", d.Name, err)
		}
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(time.Hour)
	}
	return NewSQLStore(db, d, opts...)
}

// sqliteDSN applies the pragmas to every pooled connection rather than the
// one that happens to run them. WAL lets readers proceed during writes and
// busy_timeout makes writers wait instead of failing with SQLITE_BUSY.
// Transactions take the write lock at BEGIN, so Update's read-merge-write
// cannot fail on a snapshot another writer has moved past.
func sqliteDSN(dsn string) string {
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)&_txlock=immediate"
}

// NewSQLStore wraps an open database handle.
func NewSQLStore(db *sql.DB, d Dialect, opts ...SQLOption) (*SQLStore, error) {
	s := &SQLStore{db: db, dialect: d, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	if _, err := db.Exec(d.schema); err != nil {
		return nil, fmt.Errorf("docstore: ensure schema: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// Add inserts a document under a fresh id.
func (s *SQLStore) Add(ctx context.Context, collection string, data Fields) (string, error) {
	now := s.now()
	raw, err := json.Marshal(resolve(data, now))
	if err != nil {
		return "", fmt.Errorf("docstore: encode: %w", err)
	}
	id := uuid.NewString()
	stamp := now.UTC().Format(TimeFormat)
	query, args, err := s.dialect.builder().
		Insert("documents").
		Columns("collection", "id", "data", "created_at", "updated_at").
		Values(collection, id, s.dialect.jsonValue(string(raw)), stamp, stamp).
		ToSql()
	if err != nil {
		return "", err
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return "", fmt.Errorf("docstore: add to %s: %w", collection, err)
	}
	return id, nil
}

// Get returns one document or ErrNotFound.
func (s *SQLStore) Get(ctx context.Context, collection, id string) (Document, error) {
	query, args, err := s.dialect.builder().
		Select("id", "data", "created_at", "updated_at").
		From("documents").
		Where(sq.Eq{"collection": collection, "id": id}).
		ToSql()
	if err != nil {
		return Document{}, err
	}
	doc, err := scanDocument(s.db.QueryRowContext(ctx, query, args...).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return Document{}, ErrNotFound
	}
	if err != nil {
		return Document{}, fmt.Errorf("docstore: get %s/%s: %w", collection, id, err)
	}
	return doc, nil
}

// Update merges data into an existing document. The read-merge-write runs in
// one transaction so the write is atomic for that document.
func (s *SQLStore) Update(ctx context.Context, collection, id string, data Fields) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	b := s.dialect.builder()
	sel := b.Select("data").
		From("documents").
		Where(sq.Eq{"collection": collection, "id": id})
	if s.dialect.Name == Postgres.Name {
		sel = sel.Suffix("FOR UPDATE")
	}
	query, args, err := sel.ToSql()
	if err != nil {
		return err
	}
	var raw string
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("docstore: read %s/%s: %w", collection, id, err)
	}
	existing := Fields{}
	if err := json.Unmarshal([]byte(raw), &existing); err != nil {
		return fmt.Errorf("docstore: decode %s/%s: %w", collection, id, err)
	}
	now := s.now()
	for k, v := range resolve(data, now) {
		existing[k] = v
	}
	merged, err := json.Marshal(existing)
	if err != nil {
		return fmt.Errorf("docstore: encode: %w", err)
	}
	query, args, err = b.Update("documents").
		Set("data", s.dialect.jsonValue(string(merged))).
		Set("updated_at", now.UTC().Format(TimeFormat)).
		Where(sq.Eq{"collection": collection, "id": id}).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("docstore: update %s/%s: %w", collection, id, err)
	}
	return tx.Commit()
}

// Delete removes a document. Deleting a missing document is not an error.
func (s *SQLStore) Delete(ctx context.Context, collection, id string) error {
	query, args, err := s.dialect.builder().
		Delete("documents").
		Where(sq.Eq{"collection": collection, "id": id}).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("docstore: delete %s/%s: %w", collection, id, err)
	}
	return nil
}

// Query runs q. Without an explicit order documents come back in insertion
// order.
func (s *SQLStore) Query(ctx context.Context, q Query) ([]Document, error) {
	sel := s.dialect.builder().
		Select("id", "data", "created_at", "updated_at").
		From("documents").
		Where(sq.Eq{"collection": q.collection})
	for _, f := range q.filters {
		expr, err := s.dialect.field(f.Field)
		if err != nil {
			return nil, err
		}
		sel = sel.Where(sq.Expr(expr+" = ?", s.dialect.filterValue(f.Value)))
	}
	for _, o := range q.orders {
		expr, err := s.dialect.field(o.Field)
		if err != nil {
			return nil, err
		}
		dir := "ASC"
		if o.Desc {
			dir = "DESC"
		}
		sel = sel.OrderBy(expr + " " + dir)
	}
	sel = sel.OrderBy("created_at ASC", "id ASC")
	if q.limit > 0 {
		sel = sel.Limit(q.limit)
	}
	query, args, err := sel.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("docstore: query %s: %w", q.collection, err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		doc, err := scanDocument(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("docstore: scan %s: %w", q.collection, err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return docs, nil
}

func scanDocument(scan func(dest ...any) error) (Document, error) {
	var id, raw, created, updated string
	if err := scan(&id, &raw, &created, &updated); err != nil {
		return Document{}, err
	}
	data := Fields{}
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&data); err != nil {
		return Document{}, err
	}
	doc := Document{ID: id, Data: data}
	doc.CreateTime, _ = time.Parse(TimeFormat, created)
	doc.UpdateTime, _ = time.Parse(TimeFormat, updated)
	return doc, nil
}
