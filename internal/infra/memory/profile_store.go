package memory

import (
	"context"
	"encoding/json"
	"sync"

	"icebreaker-service/internal/domain"
)

// ProfileStore keeps the serialized profile list in memory under one key,
// the same layout the Redis and Postgres stores use.
type ProfileStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
	key   string
}

func NewProfileStore(key string) *ProfileStore {
	return &ProfileStore{blobs: make(map[string][]byte), key: key}
}

// Load decodes the stored list, or returns domain.ErrProfilesNotFound if nothing was saved yet.
func (s *ProfileStore) Load(_ context.Context) ([]domain.Profile, error) {
	s.mu.RLock()
	raw, ok := s.blobs[s.key]
	s.mu.RUnlock()
	if !ok {
		return nil, domain.ErrProfilesNotFound
	}
	return domain.DecodeProfiles(raw)
}

// Save overwrites the whole list.
func (s *ProfileStore) Save(_ context.Context, profiles []domain.Profile) error {
	raw, err := json.Marshal(profiles)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.blobs[s.key] = raw
	s.mu.Unlock()
	return nil
}

// Update runs mutate on the current list and saves its result while holding
// the store lock.
func (s *ProfileStore) Update(_ context.Context, mutate func(current []domain.Profile, found bool) ([]domain.Profile, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var current []domain.Profile
	raw, found := s.blobs[s.key]
	if found {
		var err error
		if current, err = domain.DecodeProfiles(raw); err != nil {
			return err
		}
	}
	next, err := mutate(current, found)
	if err != nil {
		return err
	}
	if raw, err = json.Marshal(next); err != nil {
		return err
	}
	s.blobs[s.key] = raw
	return nil
}

// Raw returns the stored blob; tests use it to inject legacy or malformed data.
func (s *ProfileStore) Raw() ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	raw, ok := s.blobs[s.key]
	return raw, ok
}

// SetRaw replaces the stored blob verbatim.
func (s *ProfileStore) SetRaw(raw []byte) {
	s.mu.Lock()
	s.blobs[s.key] = raw
	s.mu.Unlock()
}
