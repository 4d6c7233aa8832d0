package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"finquest/internal/config"
	"finquest/internal/docdb"
	"finquest/internal/store"
)

func newTestServer(t *testing.T, apiKey string) *httptest.Server {
	t.Helper()
	srv := New(config.APIConfig{APIKey: apiKey}, nil, docdb.NewMemory())
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func TestDocumentLifecycle(t *testing.T) {
	ts := newTestServer(t, "")
	client := store.NewClient(ts.URL, "")
	ctx := context.Background()

	session, err := client.AnonymousSession(ctx)
	if err != nil {
		t.Fatalf("anonymous session: %v", err)
	}
	if session.SessionID == "" || session.AccessToken == "" {
		t.Fatalf("incomplete session %+v", session)
	}

	// No document yet.
	_, found, err := client.GetDocument(ctx, session.AccessToken, session.SessionID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if found {
		t.Fatalf("document exists before create")
	}

	// Update before create reports the documented missing-document error.
	err = client.UpdateDocument(ctx, session.AccessToken, session.SessionID, map[string]any{"balance": 1})
	if err != store.ErrDocumentMissing {
		t.Fatalf("update absent: err = %v, want ErrDocumentMissing", err)
	}

	if err := client.CreateDocument(ctx, session.AccessToken, session.SessionID, map[string]any{"balance": 1000.0}); err != nil {
		t.Fatalf("create: %v", err)
	}
	raw, found, err := client.GetDocument(ctx, session.AccessToken, session.SessionID)
	if err != nil || !found {
		t.Fatalf("get after create: found=%v err=%v", found, err)
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if doc["balance"] != 1000.0 {
		t.Fatalf("balance = %v", doc["balance"])
	}

	if err := client.UpdateDocument(ctx, session.AccessToken, session.SessionID, map[string]any{"balance": 950.0}); err != nil {
		t.Fatalf("update: %v", err)
	}
	raw, _, _ = client.GetDocument(ctx, session.AccessToken, session.SessionID)
	_ = json.Unmarshal(raw, &doc)
	if doc["balance"] != 950.0 {
		t.Fatalf("updated balance = %v", doc["balance"])
	}
}

func TestSessionsAreIsolated(t *testing.T) {
	ts := newTestServer(t, "")
	client := store.NewClient(ts.URL, "")
	ctx := context.Background()

	a, err := client.AnonymousSession(ctx)
	if err != nil {
		t.Fatalf("session a: %v", err)
	}
	b, err := client.AnonymousSession(ctx)
	if err != nil {
		t.Fatalf("session b: %v", err)
	}
	if a.SessionID == b.SessionID {
		t.Fatalf("two sessions share an id")
	}

	if err := client.CreateDocument(ctx, a.AccessToken, a.SessionID, map[string]any{"balance": 1}); err != nil {
		t.Fatalf("create: %v", err)
	}
	// B cannot read or write A's document.
	if _, _, err := client.GetDocument(ctx, b.AccessToken, a.SessionID); err == nil {
		t.Fatalf("cross-session read allowed")
	}
	if err := client.CreateDocument(ctx, b.AccessToken, a.SessionID, map[string]any{"balance": 0}); err == nil {
		t.Fatalf("cross-session write allowed")
	}
}

func TestAPIKeyEnforced(t *testing.T) {
	ts := newTestServer(t, "sekrit")

	wrong := store.NewClient(ts.URL, "nope")
	if _, err := wrong.AnonymousSession(context.Background()); err == nil {
		t.Fatalf("wrong api key accepted")
	}

	right := store.NewClient(ts.URL, "sekrit")
	if _, err := right.AnonymousSession(context.Background()); err != nil {
		t.Fatalf("valid api key rejected: %v", err)
	}
}

func TestRejectsInvalidJSONBody(t *testing.T) {
	ts := newTestServer(t, "")
	client := store.NewClient(ts.URL, "")
	ctx := context.Background()
	session, err := client.AnonymousSession(ctx)
	if err != nil {
		t.Fatalf("session: %v", err)
	}

	req, err := http.NewRequest(http.MethodPut, ts.URL+"/v1/documents/"+session.SessionID, strings.NewReader("{broken"))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+session.AccessToken)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}
