package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"icebreaker-service/internal/domain"
)

// ProfileStore keeps the profile list as a single JSONB row in kv_blobs.
type ProfileStore struct {
	pool *pgxpool.Pool
	key  string
}

func NewProfileStore(pool *pgxpool.Pool, key string) *ProfileStore {
	return &ProfileStore{pool: pool, key: key}
}

func (s *ProfileStore) Load(ctx context.Context) ([]domain.Profile, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx, `SELECT data FROM kv_blobs WHERE key=$1`, s.key).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
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
	if _, err := s.pool.Exec(ctx, upsertBlob, s.key, string(raw)); err != nil {
		return fmt.Errorf("save profiles: %w", err)
	}
	return nil
}

const upsertBlob = `
	INSERT INTO kv_blobs (key, data, updated_at) VALUES ($1, $2::jsonb, now())
	ON CONFLICT (key) DO UPDATE SET data=EXCLUDED.data, updated_at=EXCLUDED.updated_at`

// Update reads, mutates and writes the list in one transaction. The advisory
// lock also covers the first write, when there is no row to lock yet.
func (s *ProfileStore) Update(ctx context.Context, mutate func(current []domain.Profile, found bool) ([]domain.Profile, error)) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, s.key); err != nil {
		return fmt.Errorf("lock profiles: %w", err)
	}

	var (
		raw     []byte
		current []domain.Profile
		found   = true
	)
	err = tx.QueryRow(ctx, `SELECT data FROM kv_blobs WHERE key=$1`, s.key).Scan(&raw)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
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
	if _, err := tx.Exec(ctx, upsertBlob, s.key, string(out)); err != nil {
		return fmt.Errorf("save profiles: %w", err)
	}
	return tx.Commit(ctx)
}
