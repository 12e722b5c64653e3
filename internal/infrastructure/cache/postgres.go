package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"

	"JournalFeed/internal/domain"
	"JournalFeed/internal/ports"
)

var tableNameExpr = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// PostgresStore persists enriched articles into a key/value table.
type PostgresStore struct {
	db    *sql.DB
	table string
	ttl   time.Duration
	now   func() time.Time
	psql  sq.StatementBuilderType
}

var _ ports.ArticleStore = (*PostgresStore)(nil)

// NewPostgresStore wires a sql.DB implementation. table must be a plain identifier.
func NewPostgresStore(db *sql.DB, table string, ttl time.Duration) (*PostgresStore, error) {
	if !tableNameExpr.MatchString(table) {
		return nil, fmt.Errorf("invalid cache table name %q", table)
	}
	return &PostgresStore{
		db:    db,
		table: table,
		ttl:   ttl,
		now:   time.Now,
		psql:  sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}, nil
}

// OpenPostgres opens and pings a lib/pq connection.
func OpenPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// EnsureSchema creates the cache table when it does not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	query := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		cache_key  TEXT PRIMARY KEY,
		payload    JSONB NOT NULL,
		expires_at TIMESTAMPTZ,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`, s.table)

	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("create cache table: %w", err)
	}
	return nil
}

func (s *PostgresStore) selectQuery(key string) (string, []any, error) {
	return s.psql.
		Select("payload").
		From(s.table).
		Where(sq.Eq{"cache_key": key}).
		Where(sq.Or{sq.Eq{"expires_at": nil}, sq.Gt{"expires_at": s.now()}}).
		ToSql()
}

func (s *PostgresStore) upsertQuery(key string, payload []byte) (string, []any, error) {
	var expiresAt any
	if s.ttl > 0 {
		expiresAt = s.now().Add(s.ttl)
	}

	return s.psql.
		Insert(s.table).
		Columns("cache_key", "payload", "expires_at").
		Values(key, string(payload), expiresAt).
		Suffix(`ON CONFLICT (cache_key) DO UPDATE
		SET payload = EXCLUDED.payload,
		    expires_at = EXCLUDED.expires_at,
		    updated_at = NOW()`).
		ToSql()
}

// Get returns the unexpired article stored for key.
func (s *PostgresStore) Get(ctx context.Context, key string) (domain.Article, bool, error) {
	query, args, err := s.selectQuery(key)
	if err != nil {
		return domain.Article{}, false, fmt.Errorf("build select: %w", err)
	}

	var payload []byte
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Article{}, false, nil
	}
	if err != nil {
		return domain.Article{}, false, fmt.Errorf("query cached article: %w", err)
	}

	var article domain.Article
	if err := json.Unmarshal(payload, &article); err != nil {
		return domain.Article{}, false, fmt.Errorf("decode cached article: %w", err)
	}
	return article, true, nil
}

// Set upserts article under key.
func (s *PostgresStore) Set(ctx context.Context, key string, article domain.Article) error {
	payload, err := json.Marshal(article)
	if err != nil {
		return fmt.Errorf("encode article: %w", err)
	}

	query, args, err := s.upsertQuery(key, payload)
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert cached article: %w", err)
	}
	return nil
}
