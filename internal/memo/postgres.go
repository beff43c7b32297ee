package memo

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists memos in a single PostgreSQL table.
type PostgresStore struct {
	pool  *pgxpool.Pool
	order Order
}

func NewPostgresStore(ctx context.Context, databaseURL string, order Order) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, strings.TrimSpace(databaseURL))
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	if err := initSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	if order == "" {
		order = OrderCreatedDesc
	}
	return &PostgresStore{pool: pool, order: order}, nil
}

func initSchema(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS memos (
			id BIGSERIAL PRIMARY KEY,
			content TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,
		`CREATE INDEX IF NOT EXISTS idx_memos_created ON memos (created_at);`,
	}

	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema failed on %q: %w", stmt, err)
		}
	}
	return nil
}

func (s *PostgresStore) Insert(ctx context.Context, content string) (Memo, error) {
	var (
		id int64
		m  = Memo{Content: content}
	)
	err := s.pool.QueryRow(ctx,
		`INSERT INTO memos (content) VALUES ($1) RETURNING id, created_at`,
		content,
	).Scan(&id, &m.CreatedAt)
	if err != nil {
		return Memo{}, fmt.Errorf("insert memo: %w", err)
	}
	m.ID = ID(strconv.FormatInt(id, 10))
	m.CreatedAt = m.CreatedAt.UTC()
	return m, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]Memo, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, content, created_at FROM memos ORDER BY `+orderClause(s.order),
	)
	if err != nil {
		return nil, fmt.Errorf("query memos: %w", err)
	}
	defer rows.Close()

	items := make([]Memo, 0)
	for rows.Next() {
		var (
			id int64
			m  Memo
		)
		if err := rows.Scan(&id, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan memo row: %w", err)
		}
		m.ID = ID(strconv.FormatInt(id, 10))
		m.CreatedAt = m.CreatedAt.UTC()
		items = append(items, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate memo rows: %w", err)
	}
	return items, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id ID) error {
	n, err := strconv.ParseInt(string(id), 10, 64)
	if err != nil || strconv.FormatInt(n, 10) != string(id) {
		// Not an id this table could ever have issued ("07", "+7", "x").
		return ErrNotFound
	}
	tag, err := s.pool.Exec(ctx, `DELETE FROM memos WHERE id=$1`, n)
	if err != nil {
		return fmt.Errorf("delete memo: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func orderClause(order Order) string {
	switch order {
	case OrderCreatedAsc:
		return "created_at ASC, id ASC"
	case OrderContentAsc:
		return `content COLLATE "C" ASC, created_at ASC, id ASC`
	default:
		return "created_at DESC, id DESC"
	}
}
