// Package session persists named basket snapshots.
// All sessions live in one list under a namespaced key; every write reads the
// whole list, changes it and replaces it.
package session

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"cloudbasket/core/pricing"
	"cloudbasket/core/types"
	"cloudbasket/internal/errors"
	"cloudbasket/internal/logging"
)

// DefaultKey is the namespaced key the session list is stored under
const DefaultKey = "cloudbasket/sessions"

// Session is a saved basket. Sessions are never edited after saving.
type Session struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Items        []*types.LineItem `json:"items"`
	TotalCost    decimal.Decimal   `json:"totalCost"`
	DateCreated  time.Time         `json:"dateCreated"`
	DateModified time.Time         `json:"dateModified"`
}

// Clone returns a deep copy
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	c.Items = types.CloneLineItems(s.Items)
	return &c
}

// Backend is the durable key-value storage behind a Store
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
}

// Store saves, lists, loads and deletes sessions
type Store struct {
	backend Backend
	key     string
	now     func() time.Time
	newID   func() string
	mu      sync.Mutex
}

// Option configures a Store
type Option func(*Store)

// WithKey overrides the storage key
func WithKey(key string) Option {
	return func(s *Store) { s.key = key }
}

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides session ID generation
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

// NewStore creates a session store on top of backend
func NewStore(backend Backend, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		key:     DefaultKey,
		now:     time.Now,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Save stores a copy of items as a new session. A blank name or an empty
// basket is rejected and nothing is written.
func (s *Store) Save(ctx context.Context, name string, items []*types.LineItem) (*Session, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.Validation("session name must not be empty")
	}
	if len(items) == 0 {
		return nil, errors.Validation("cannot save an empty basket")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sessions, err := s.read(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	saved := &Session{
		ID:           s.newID(),
		Name:         name,
		Items:        types.CloneLineItems(items),
		TotalCost:    pricing.Total(items),
		DateCreated:  now,
		DateModified: now,
	}

	if err := s.write(ctx, append(sessions, saved)); err != nil {
		return nil, err
	}

	logging.Info("session saved",
		zap.String("id", saved.ID),
		zap.String("name", saved.Name),
		zap.Int("items", len(saved.Items)),
		zap.String("hourly_total", saved.TotalCost.String()),
	)
	return saved.Clone(), nil
}

// List returns every session, most recently modified first
func (s *Store) List(ctx context.Context) ([]*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions, err := s.read(ctx)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(sessions, func(i, j int) bool {
		a, b := sessions[i], sessions[j]
		if !a.DateModified.Equal(b.DateModified) {
			return a.DateModified.After(b.DateModified)
		}
		if !a.DateCreated.Equal(b.DateCreated) {
			return a.DateCreated.After(b.DateCreated)
		}
		return a.ID < b.ID
	})
	return sessions, nil
}

// Get returns a copy of one session
func (s *Store) Get(ctx context.Context, id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions, err := s.read(ctx)
	if err != nil {
		return nil, err
	}
	for _, sess := range sessions {
		if sess.ID == id {
			return sess, nil
		}
	}
	return nil, errors.NotFound("session", id)
}

// Load returns a deep copy of a session's line items, ready to restore
// into a basket
func (s *Store) Load(ctx context.Context, id string) ([]*types.LineItem, error) {
	sess, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return types.CloneLineItems(sess.Items), nil
}

// Delete removes a session. Deleting an unknown id is not an error.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions, err := s.read(ctx)
	if err != nil {
		return err
	}

	kept := sessions[:0]
	for _, sess := range sessions {
		if sess.ID != id {
			kept = append(kept, sess)
		}
	}
	if len(kept) == len(sessions) {
		return nil
	}

	if err := s.write(ctx, kept); err != nil {
		return err
	}
	logging.Info("session deleted", zap.String("id", id))
	return nil
}

// read decodes the stored list; every call returns fresh values
func (s *Store) read(ctx context.Context) ([]*Session, error) {
	data, err := s.backend.Get(ctx, s.key)
	if err != nil {
		logging.Error("session storage read failed", zap.String("key", s.key), zap.Error(err))
		return nil, errors.Storage("failed to read sessions", err)
	}
	if len(data) == 0 {
		return nil, nil
	}

	var sessions []*Session
	if err := json.Unmarshal(data, &sessions); err != nil {
		return nil, errors.Storage("stored sessions are corrupt", err)
	}
	return sessions, nil
}

func (s *Store) write(ctx context.Context, sessions []*Session) error {
	if sessions == nil {
		sessions = []*Session{}
	}
	data, err := json.Marshal(sessions)
	if err != nil {
		return errors.Internal("failed to encode sessions", err)
	}
	if err := ctx.Err(); err != nil {
		return errors.Storage("session write abandoned", err)
	}
	if err := s.backend.Put(ctx, s.key, data); err != nil {
		logging.Error("session storage write failed", zap.String("key", s.key), zap.Error(err))
		return errors.Storage("failed to write sessions", err)
	}
	return nil
}
