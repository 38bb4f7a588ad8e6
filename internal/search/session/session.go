// Package session keeps short-lived conversational context so follow-up
// queries ("how many goals does he have") can reuse previously resolved
// entities.
package session

import (
	"sync"
	"time"

	"github.com/albapepper/scoracle-search/internal/search/alias"
)

// State is the per-session context carried between queries.
type State struct {
	LastPlayer *alias.Entity
	LastTeam   *alias.Entity
	LastLeague *alias.Entity
	LastIntent string
	UpdatedAt  time.Time
}

// Store is an in-memory TTL session store. Entries expire TTL after their
// last write; a background sweep reclaims them.
type Store struct {
	mu   sync.RWMutex
	ttl  time.Duration
	data map[string]*State
	stop chan struct{}
	once sync.Once
}

// NewStore creates a store sweeping expired sessions every ttl/2.
func NewStore(ttl time.Duration) *Store {
	s := &Store{
		ttl:  ttl,
		data: make(map[string]*State),
		stop: make(chan struct{}),
	}
	go s.sweep()
	return s
}

// Get returns the live state for id, or nil when absent or expired.
func (s *Store) Get(id string) *State {
	if id == "" {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.data[id]
	if !ok || time.Since(st.UpdatedAt) > s.ttl {
		return nil
	}
	cp := *st
	return &cp
}

// Update merges resolved entities into the session. Nil fields leave the
// previous value in place, so a team-only query does not clobber the last
// player.
func (s *Store) Update(id string, intent string, entities []alias.Entity) {
	if id == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.data[id]
	if !ok {
		st = &State{}
		s.data[id] = st
	}
	for i := range entities {
		e := entities[i]
		switch e.Kind {
		case alias.KindPlayer:
			st.LastPlayer = &e
		case alias.KindTeam:
			st.LastTeam = &e
		case alias.KindLeague:
			st.LastLeague = &e
		}
	}
	st.LastIntent = intent
	st.UpdatedAt = time.Now()
}

// Len reports the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, st := range s.data {
		if time.Since(st.UpdatedAt) <= s.ttl {
			n++
		}
	}
	return n
}

// Close stops the background sweep.
func (s *Store) Close() {
	s.once.Do(func() { close(s.stop) })
}

func (s *Store) sweep() {
	interval := s.ttl / 2
	if interval < time.Second {
		interval = time.Second
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-t.C:
			s.mu.Lock()
			for id, st := range s.data {
				if time.Since(st.UpdatedAt) > s.ttl {
					delete(s.data, id)
				}
			}
			s.mu.Unlock()
		}
	}
}
