// Package api is the sync server's HTTP surface: anonymous session issuance
// and the three-operation document contract the client persistence bridge
// consumes.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"finquest/internal/config"
	"finquest/internal/docdb"
)

type contextKey string

const sessionContextKey contextKey = "session"

// maxDocumentBytes bounds one state snapshot. The bounded account model (200
// transactions, 30 login dates) stays far below this.
const maxDocumentBytes = 1 << 20

// Server routes document-store requests onto a docdb.Store.
type Server struct {
	cfg   config.APIConfig
	log   *slog.Logger
	store docdb.Store
	mux   *chi.Mux
}

func New(cfg config.APIConfig, logger *slog.Logger, store docdb.Store) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		cfg:   cfg,
		log:   logger,
		store: store,
		mux:   chi.NewRouter(),
	}
	s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) routes() {
	r := s.mux
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})

	r.Route("/v1", func(r chi.Router) {
		r.Use(s.apiKeyMiddleware)
		r.Post("/sessions/anonymous", s.handleAnonymousSession)

		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)
			r.Get("/documents/{id}", s.handleGetDocument)
			r.Put("/documents/{id}", s.handlePutDocument)
			r.Patch("/documents/{id}", s.handleUpdateDocument)
		})
	})
}

// apiKeyMiddleware enforces the shared deployment key when one is configured.
func (s *Server) apiKeyMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.APIKey != "" && r.Header.Get("X-API-Key") != s.cfg.APIKey {
			writeError(w, http.StatusUnauthorized, "missing or invalid api key")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r.Header.Get("Authorization"))
		if token == "" {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		session, err := s.store.SessionByToken(r.Context(), token)
		if err != nil {
			if errors.Is(err, docdb.ErrNotFound) {
				writeError(w, http.StatusUnauthorized, "invalid token")
				return
			}
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		ctx := context.WithValue(r.Context(), sessionContextKey, session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func sessionFromContext(ctx context.Context) (docdb.Session, error) {
	session, ok := ctx.Value(sessionContextKey).(docdb.Session)
	if !ok || session.ID == "" {
		return docdb.Session{}, errors.New("missing auth context")
	}
	return session, nil
}

func (s *Server) handleAnonymousSession(w http.ResponseWriter, r *http.Request) {
	session, err := s.store.CreateSession(r.Context())
	if err != nil {
		s.log.Error("create session failed", "err", err)
		writeError(w, http.StatusInternalServerError, "could not create session")
		return
	}
	s.log.Info("anonymous session issued", "session_id", session.ID)
	writeJSON(w, http.StatusOK, map[string]any{
		"session_id":   session.ID,
		"access_token": session.Token,
	})
}

// ownDocumentID authorizes the request: a session may only touch the
// document keyed by its own id.
func ownDocumentID(r *http.Request) (string, error) {
	session, err := sessionFromContext(r.Context())
	if err != nil {
		return "", err
	}
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		return "", fmt.Errorf("invalid document id")
	}
	if id != session.ID {
		return "", fmt.Errorf("document does not belong to this session")
	}
	return id, nil
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	id, err := ownDocumentID(r)
	if err != nil {
		writeError(w, http.StatusForbidden, err.Error())
		return
	}
	doc, err := s.store.GetDocument(r.Context(), id)
	if errors.Is(err, docdb.ErrNotFound) {
		writeError(w, http.StatusNotFound, "document not found")
		return
	}
	if err != nil {
		s.log.Error("get document failed", "err", err, "id", id)
		writeError(w, http.StatusInternalServerError, "document read failed")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc.Body)
}

func (s *Server) handlePutDocument(w http.ResponseWriter, r *http.Request) {
	id, err := ownDocumentID(r)
	if err != nil {
		writeError(w, http.StatusForbidden, err.Error())
		return
	}
	body, err := readDocumentBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.store.PutDocument(r.Context(), id, body); err != nil {
		s.log.Error("put document failed", "err", err, "id", id)
		writeError(w, http.StatusInternalServerError, "document write failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleUpdateDocument(w http.ResponseWriter, r *http.Request) {
	id, err := ownDocumentID(r)
	if err != nil {
		writeError(w, http.StatusForbidden, err.Error())
		return
	}
	body, err := readDocumentBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	err = s.store.UpdateDocument(r.Context(), id, body)
	if errors.Is(err, docdb.ErrNotFound) {
		writeError(w, http.StatusNotFound, "document not found")
		return
	}
	if err != nil {
		s.log.Error("update document failed", "err", err, "id", id)
		writeError(w, http.StatusInternalServerError, "document write failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func readDocumentBody(r *http.Request) (json.RawMessage, error) {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxDocumentBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if len(raw) > maxDocumentBytes {
		return nil, fmt.Errorf("document too large")
	}
	if !json.Valid(raw) {
		return nil, fmt.Errorf("body is not valid json")
	}
	return raw, nil
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, prefix))
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": strings.TrimSpace(message)})
}
