package auth

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Sessions holds the open sessions of the process. onClose runs once for
// every session that ends, whether by logout, expiry or revocation.
type Sessions struct {
	mu      sync.Mutex
	byID    map[uuid.UUID]*Session
	onClose func(sessionID uuid.UUID)
	now     func() time.Time
}

// NewSessions creates an empty session store. onClose may be nil.
func NewSessions(onClose func(uuid.UUID)) *Sessions {
	return &Sessions{
		byID:    make(map[uuid.UUID]*Session),
		onClose: onClose,
		now:     time.Now,
	}
}

func (s *Sessions) add(sess *Session) {
	s.mu.Lock()
	s.byID[sess.ID] = sess
	s.mu.Unlock()
}

// lookup returns a copy of an open session. An expired session is closed.
func (s *Sessions) lookup(id uuid.UUID) (*Session, error) {
	s.mu.Lock()
	sess, ok := s.byID[id]
	if !ok {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: session closed", ErrInvalidToken)
	}
	if s.now().After(sess.ExpiresAt) {
		delete(s.byID, id)
		s.mu.Unlock()
		s.closed([]uuid.UUID{id})
		return nil, fmt.Errorf("%w: session expired", ErrInvalidToken)
	}
	cp := *sess
	s.mu.Unlock()
	return &cp, nil
}

// Close ends one session. Closing an unknown session is a no-op.
func (s *Sessions) Close(id uuid.UUID) {
	s.mu.Lock()
	_, ok := s.byID[id]
	delete(s.byID, id)
	s.mu.Unlock()
	if ok {
		s.closed([]uuid.UUID{id})
	}
}

// RevokeAccount ends every session opened by the account.
func (s *Sessions) RevokeAccount(accountID int64) {
	ids := s.remove(func(sess *Session) bool { return sess.AccountID == accountID })
	if len(ids) > 0 {
		slog.Info("sessions revoked", slog.Int64("account_id", accountID), slog.Int("count", len(ids)))
	}
	s.closed(ids)
}

// Sweep ends every expired session and returns how many were closed.
func (s *Sessions) Sweep() int {
	now := s.now()
	ids := s.remove(func(sess *Session) bool { return now.After(sess.ExpiresAt) })
	s.closed(ids)
	return len(ids)
}

// Run sweeps expired sessions every interval until ctx is done.
func (s *Sessions) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				slog.Debug("expired sessions closed", slog.Int("count", n))
			}
		}
	}
}

func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byID)
}

func (s *Sessions) remove(match func(*Session) bool) []uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ids []uuid.UUID
	for id, sess := range s.byID {
		if match(sess) {
			ids = append(ids, id)
			delete(s.byID, id)
		}
	}
	return ids
}

// closed runs the hook outside the lock.
func (s *Sessions) closed(ids []uuid.UUID) {
	if s.onClose == nil {
		return
	}
	for _, id := range ids {
		s.onClose(id)
	}
}
