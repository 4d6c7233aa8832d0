package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrDocumentMissing reports an update against a document that does not
// exist. The bridge recovers with a fallback create.
var ErrDocumentMissing = errors.New("document not found")

// Client talks to the remote document store. The contract is deliberately
// small: anonymous session issuance plus get/create/update of one document
// per user. Any backend honoring it works; cmd/finquest-api is one.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Session is the opaque identity for this install. SessionID doubles as the
// remote document key.
type Session struct {
	SessionID   string `json:"session_id"`
	AccessToken string `json:"access_token"`
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 20 * time.Second,
		},
	}
}

// AnonymousSession authenticates without credentials and yields a stable
// opaque identifier for this install.
func (c *Client) AnonymousSession(ctx context.Context) (Session, error) {
	var out Session
	if err := c.jsonRequest(ctx, http.MethodPost, "/v1/sessions/anonymous", "", nil, &out); err != nil {
		return Session{}, err
	}
	if out.SessionID == "" || out.AccessToken == "" {
		return Session{}, fmt.Errorf("incomplete session response")
	}
	return out, nil
}

// GetDocument fetches the document with the given id. The second return is
// false when the document does not exist.
func (c *Client) GetDocument(ctx context.Context, token, id string) (json.RawMessage, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/documents/"+id, nil)
	if err != nil {
		return nil, false, err
	}
	c.setHeaders(req, token, false)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, false, fmt.Errorf("get document: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil, false, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, false, statusError(resp)
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, false, fmt.Errorf("read document: %w", err)
	}
	return raw, true, nil
}

// CreateDocument writes the initial document for id.
func (c *Client) CreateDocument(ctx context.Context, token, id string, doc any) error {
	return c.jsonRequest(ctx, http.MethodPut, "/v1/documents/"+id, token, doc, nil)
}

// UpdateDocument overwrites the document for id. Returns ErrDocumentMissing
// when it does not exist.
func (c *Client) UpdateDocument(ctx context.Context, token, id string, doc any) error {
	err := c.jsonRequest(ctx, http.MethodPatch, "/v1/documents/"+id, token, doc, nil)
	var se *statusErr
	if errors.As(err, &se) && se.code == http.StatusNotFound {
		return ErrDocumentMissing
	}
	return err
}

func (c *Client) setHeaders(req *http.Request, token string, hasBody bool) {
	req.Header.Set("Accept", "application/json")
	if hasBody {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

func (c *Client) jsonRequest(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	c.setHeaders(req, token, in != nil)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("store request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return statusError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

type statusErr struct {
	code int
	body string
}

func (e *statusErr) Error() string {
	return fmt.Sprintf("store status %d: %s", e.code, e.body)
}

func statusError(resp *http.Response) error {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
	return &statusErr{code: resp.StatusCode, body: strings.TrimSpace(string(b))}
}
