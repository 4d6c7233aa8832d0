// Package store reconciles in-memory state with the remote document store
// and the local on-disk cache.
//
// The local cache is written synchronously on every save, so a restart before
// a remote sync completes still recovers the latest local state. Remote syncs
// carry the full snapshot at dispatch time; a later write always reflects at
// least as much history as an earlier one, so last-write-wins overwrites
// cannot lose locally applied mutations.
package store

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"finquest/internal/habits"
	"finquest/internal/ledger"
)

// SyncPolicy selects how remote saves are dispatched.
type SyncPolicy int

const (
	// FireAndForget starts one goroutine per save. Matches the original
	// behavior: mutations never wait on persistence.
	FireAndForget SyncPolicy = iota
	// Serial keeps at most one sync in flight; snapshots queued behind it
	// coalesce to the newest.
	Serial
)

// LoadStatus says where the initial state came from.
type LoadStatus int

const (
	// LoadedLocalOnly means the remote store was unreachable or unconfigured.
	LoadedLocalOnly LoadStatus = iota
	// LoadedRemote means an existing remote document was merged in.
	LoadedRemote
	// CreatedRemote means this install had no remote document yet.
	CreatedRemote
)

const remoteTimeout = 15 * time.Second

// Bridge owns the persistence lifecycle for one session.
type Bridge struct {
	cache  *Cache
	remote *Client
	log    *slog.Logger
	policy SyncPolicy

	session Session

	mu       sync.Mutex
	pending  *ledger.Account
	inflight bool
	wg       sync.WaitGroup
}

// NewBridge wires the cache and the optional remote client (nil means
// offline: local cache only).
func NewBridge(cache *Cache, remote *Client, logger *slog.Logger, policy SyncPolicy) *Bridge {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bridge{cache: cache, remote: remote, log: logger, policy: policy}
}

// Load assembles the starting state: local cache first (best-effort, corrupt
// entries fall back to defaults), then the remote document merged over it
// with remote fields winning. A missing remote document is created from the
// local state.
func (b *Bridge) Load(ctx context.Context) (ledger.Account, habits.State, LoadStatus) {
	account := ledger.NewAccount()
	if raw, ok := b.cache.Get(KeyAccount); ok {
		if err := json.Unmarshal([]byte(raw), &account); err != nil {
			b.log.Warn("malformed account cache, using defaults", "err", err)
			account = ledger.NewAccount()
		}
	}
	habitState := habits.NewState()
	if raw, ok := b.cache.Get(KeyHabits); ok {
		if err := json.Unmarshal([]byte(raw), &habitState); err != nil {
			b.log.Warn("malformed habits cache, using defaults", "err", err)
			habitState = habits.NewState()
		}
	}

	if b.remote == nil {
		return account, habitState, LoadedLocalOnly
	}

	session, err := b.ensureSession(ctx)
	if err != nil {
		b.log.Warn("anonymous session unavailable, staying local", "err", err)
		return account, habitState, LoadedLocalOnly
	}
	b.session = session

	raw, found, err := b.remote.GetDocument(ctx, session.AccessToken, session.SessionID)
	if err != nil {
		b.log.Warn("remote load failed, staying local", "err", err)
		return account, habitState, LoadedLocalOnly
	}
	if !found {
		if err := b.remote.CreateDocument(ctx, session.AccessToken, session.SessionID, account); err != nil {
			b.log.Warn("initial remote create failed", "err", err)
			return account, habitState, LoadedLocalOnly
		}
		return account, habitState, CreatedRemote
	}

	// Unmarshalling over the local value leaves fields the remote document
	// omits at their local defaults: remote wins field-by-field.
	if err := json.Unmarshal(raw, &account); err != nil {
		b.log.Warn("malformed remote document, keeping local state", "err", err)
		return account, habitState, LoadedLocalOnly
	}
	b.writeCache(KeyAccount, account)
	return account, habitState, LoadedRemote
}

// SaveAccount mirrors the snapshot: local cache synchronously, remote store
// per the configured policy. Never blocks on the network and never returns a
// user-facing error.
func (b *Bridge) SaveAccount(account ledger.Account) {
	b.writeCache(KeyAccount, account)
	if b.remote == nil || b.session.SessionID == "" {
		return
	}
	switch b.policy {
	case Serial:
		b.mu.Lock()
		b.pending = &account
		if b.inflight {
			b.mu.Unlock()
			return
		}
		b.inflight = true
		b.mu.Unlock()
		b.wg.Add(1)
		go b.drain()
	default:
		b.wg.Add(1)
		go func() {
			defer b.wg.Done()
			b.syncRemote(account)
		}()
	}
}

// SaveHabits mirrors the habit state to the local cache only; it has no
// remote counterpart.
func (b *Bridge) SaveHabits(state habits.State) {
	b.writeCache(KeyHabits, state)
}

// Flush waits for in-flight remote syncs. Called before process exit.
func (b *Bridge) Flush() {
	b.wg.Wait()
}

func (b *Bridge) drain() {
	defer b.wg.Done()
	for {
		b.mu.Lock()
		next := b.pending
		b.pending = nil
		if next == nil {
			b.inflight = false
			b.mu.Unlock()
			return
		}
		b.mu.Unlock()
		b.syncRemote(*next)
	}
}

// syncRemote sends the full snapshot; a missing document falls back to a
// create. No retry beyond that single fallback.
func (b *Bridge) syncRemote(account ledger.Account) {
	ctx, cancel := context.WithTimeout(context.Background(), remoteTimeout)
	defer cancel()

	err := b.remote.UpdateDocument(ctx, b.session.AccessToken, b.session.SessionID, account)
	if err == ErrDocumentMissing {
		err = b.remote.CreateDocument(ctx, b.session.AccessToken, b.session.SessionID, account)
	}
	if err != nil {
		b.log.Warn("remote sync failed", "err", err)
	}
}

// ensureSession reuses the cached identity when present so the remote
// document key stays stable across runs.
func (b *Bridge) ensureSession(ctx context.Context) (Session, error) {
	if raw, ok := b.cache.Get(KeySession); ok {
		var s Session
		if err := json.Unmarshal([]byte(raw), &s); err == nil && s.SessionID != "" && s.AccessToken != "" {
			return s, nil
		}
	}
	s, err := b.remote.AnonymousSession(ctx)
	if err != nil {
		return Session{}, err
	}
	b.writeCache(KeySession, s)
	return s, nil
}

func (b *Bridge) writeCache(key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		b.log.Warn("cache encode failed", "key", key, "err", err)
		return
	}
	if err := b.cache.Set(key, string(raw)); err != nil {
		b.log.Warn("cache write failed", "key", key, "err", err)
	}
}
