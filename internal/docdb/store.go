// Package docdb stores anonymous sessions and their per-user documents for
// the sync server. The interface is exactly what the client contract needs:
// session issuance plus get/create/update of one document per session.
package docdb

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

var (
	// ErrNotFound reports a missing document or session.
	ErrNotFound = errors.New("not found")
)

// Session is one anonymous identity. The session id doubles as the document
// key; the token authenticates requests for it.
type Session struct {
	ID        string
	Token     string
	CreatedAt time.Time
}

// Document is one stored state snapshot.
type Document struct {
	ID        string
	Body      json.RawMessage
	UpdatedAt time.Time
}

// Store is the persistence boundary of the sync server.
type Store interface {
	CreateSession(ctx context.Context) (Session, error)
	SessionByToken(ctx context.Context, token string) (Session, error)

	GetDocument(ctx context.Context, id string) (Document, error)
	// PutDocument creates or overwrites the document for id.
	PutDocument(ctx context.Context, id string, body json.RawMessage) error
	// UpdateDocument overwrites an existing document; ErrNotFound if absent.
	UpdateDocument(ctx context.Context, id string, body json.RawMessage) error

	// PruneSessions removes sessions older than maxAge that never wrote a
	// document, returning how many were dropped.
	PruneSessions(ctx context.Context, maxAge time.Duration) (int64, error)
}
