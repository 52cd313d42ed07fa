package navigator

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// Store keeps one Navigator per session. The least recently used session
// is evicted (and its in-flight fetch cancelled) once capacity is reached.
type Store struct {
	cache   *lru.Cache[string, *Navigator]
	factory func() *Navigator
}

func NewStore(capacity int, factory func() *Navigator) (*Store, error) {
	cache, err := lru.NewWithEvict(capacity, func(_ string, n *Navigator) {
		n.Close()
	})
	if err != nil {
		return nil, err
	}
	return &Store{cache: cache, factory: factory}, nil
}

func (s *Store) Get(sessionID string) (*Navigator, error) {
	n, ok := s.cache.Get(sessionID)
	if !ok {
		return nil, ErrSessionNotFound
	}
	return n, nil
}

// GetOrCreate returns the session's navigator, creating an uninitialized
// one if the session is new.
func (s *Store) GetOrCreate(sessionID string) *Navigator {
	if n, ok := s.cache.Get(sessionID); ok {
		return n
	}
	n := s.factory()
	if prev, ok, _ := s.cache.PeekOrAdd(sessionID, n); ok {
		return prev
	}
	return n
}

// Remove ends a session, cancelling its in-flight fetch. It reports
// whether the session existed.
func (s *Store) Remove(sessionID string) bool {
	return s.cache.Remove(sessionID)
}

func (s *Store) Len() int {
	return s.cache.Len()
}
