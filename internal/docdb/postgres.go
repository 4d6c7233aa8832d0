package docdb

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres is the production Store.
type Postgres struct {
	db *pgxpool.Pool
}

// Connect opens a pool against databaseURL and verifies it with a ping.
func Connect(ctx context.Context, databaseURL string) (*Postgres, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	cfg.MaxConns = 10
	cfg.MinConns = 1
	cfg.MaxConnLifetime = 30 * time.Minute
	cfg.MaxConnIdleTime = 10 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	return &Postgres{db: pool}, nil
}

// Close releases the pool.
func (p *Postgres) Close() { p.db.Close() }

// EnsureSchema creates the sync tables when they do not exist yet.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	_, err := p.db.Exec(ctx, `
		CREATE SCHEMA IF NOT EXISTS sync;
		CREATE TABLE IF NOT EXISTS sync.sessions (
			id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
			token uuid NOT NULL UNIQUE DEFAULT gen_random_uuid(),
			created_at timestamptz NOT NULL DEFAULT now()
		);
		CREATE TABLE IF NOT EXISTS sync.documents (
			id uuid PRIMARY KEY,
			body jsonb NOT NULL,
			updated_at timestamptz NOT NULL DEFAULT now()
		);
	`)
	if err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

func (p *Postgres) CreateSession(ctx context.Context) (Session, error) {
	var s Session
	err := p.db.QueryRow(ctx, `
		INSERT INTO sync.sessions DEFAULT VALUES
		RETURNING id, token, created_at
	`).Scan(&s.ID, &s.Token, &s.CreatedAt)
	if err != nil {
		return Session{}, fmt.Errorf("create session: %w", err)
	}
	return s, nil
}

func (p *Postgres) SessionByToken(ctx context.Context, token string) (Session, error) {
	var s Session
	err := p.db.QueryRow(ctx, `
		SELECT id, token, created_at
		FROM sync.sessions
		WHERE token = $1
	`, token).Scan(&s.ID, &s.Token, &s.CreatedAt)
	if err == pgx.ErrNoRows {
		return Session{}, ErrNotFound
	}
	if err != nil {
		return Session{}, fmt.Errorf("session lookup: %w", err)
	}
	return s, nil
}

func (p *Postgres) GetDocument(ctx context.Context, id string) (Document, error) {
	var d Document
	err := p.db.QueryRow(ctx, `
		SELECT id, body, updated_at
		FROM sync.documents
		WHERE id = $1
	`, id).Scan(&d.ID, &d.Body, &d.UpdatedAt)
	if err == pgx.ErrNoRows {
		return Document{}, ErrNotFound
	}
	if err != nil {
		return Document{}, fmt.Errorf("get document: %w", err)
	}
	return d, nil
}

func (p *Postgres) PutDocument(ctx context.Context, id string, body json.RawMessage) error {
	_, err := p.db.Exec(ctx, `
		INSERT INTO sync.documents (id, body, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (id) DO UPDATE SET body = EXCLUDED.body, updated_at = now()
	`, id, body)
	if err != nil {
		return fmt.Errorf("put document: %w", err)
	}
	return nil
}

func (p *Postgres) UpdateDocument(ctx context.Context, id string, body json.RawMessage) error {
	tag, err := p.db.Exec(ctx, `
		UPDATE sync.documents
		SET body = $2, updated_at = now()
		WHERE id = $1
	`, id, body)
	if err != nil {
		return fmt.Errorf("update document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *Postgres) PruneSessions(ctx context.Context, maxAge time.Duration) (int64, error) {
	tag, err := p.db.Exec(ctx, `
		DELETE FROM sync.sessions s
		WHERE s.created_at < now() - $1::interval
		  AND NOT EXISTS (SELECT 1 FROM sync.documents d WHERE d.id = s.id)
	`, fmt.Sprintf("%d seconds", int64(maxAge.Seconds())))
	if err != nil {
		return 0, fmt.Errorf("prune sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}

var _ Store = (*Postgres)(nil)
