package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"icebreaker-service/internal/domain"
)

// ProfileStore keeps the whole profile list as one JSON string:
//
//	SET {key} [{...profile...}, ...]
//
// Save overwrites the value. Update wraps the read and the write in
// WATCH/MULTI so concurrent writers on other instances retry instead of
// overwriting each other.
type ProfileStore struct {
	client *redis.Client
	key    string
}

func NewProfileStore(client *redis.Client, key string) *ProfileStore {
	return &ProfileStore{client: client, key: key}
}

func (s *ProfileStore) Load(ctx context.Context) ([]domain.Profile, error) {
	raw, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrProfilesNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load profiles: %w", err)
	}
	profiles, err := domain.DecodeProfiles(raw)
	if err != nil {
		return nil, fmt.Errorf("unmarshal profiles: %w", err)
	}
	return profiles, nil
}

func (s *ProfileStore) Save(ctx context.Context, profiles []domain.Profile) error {
	raw, err := json.Marshal(profiles)
	if err != nil {
		return fmt.Errorf("marshal profiles: %w", err)
	}
	if err := s.client.Set(ctx, s.key, raw, 0).Err(); err != nil {
		return fmt.Errorf("save profiles: %w", err)
	}
	return nil
}

const maxUpdateAttempts = 10

func (s *ProfileStore) Update(ctx context.Context, mutate func(current []domain.Profile, found bool) ([]domain.Profile, error)) error {
	txf := func(tx *redis.Tx) error {
		var current []domain.Profile
		raw, err := tx.Get(ctx, s.key).Bytes()
		found := true
		switch {
		case errors.Is(err, redis.Nil):
			found = false
		case err != nil:
			return fmt.Errorf("load profiles: %w", err)
		default:
			if current, err = domain.DecodeProfiles(raw); err != nil {
				return fmt.Errorf("unmarshal profiles: %w", err)
			}
		}

		next, err := mutate(current, found)
		if err != nil {
			return err
		}
		out, err := json.Marshal(next)
		if err != nil {
			return fmt.Errorf("marshal profiles: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, s.key, out, 0)
			return nil
		})
		return err
	}

	for i := 0; i < maxUpdateAttempts; i++ {
		err := s.client.Watch(ctx, txf, s.key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return fmt.Errorf("update profiles: %w", err)
		}
		return nil
	}
	return fmt.Errorf("update profiles: %w", redis.TxFailedErr)
}
