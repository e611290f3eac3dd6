package memory

import (
	"context"
	"errors"
	"math/rand"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
	"icebreaker-service/internal/domain"
)

// ProfileBlobStore reads and writes the whole profile list at once. Update
// must apply mutate atomically against other writers of the same list,
// including writers in other processes.
type ProfileBlobStore interface {
	Load(ctx context.Context) ([]domain.Profile, error)
	Save(ctx context.Context, profiles []domain.Profile) error
	Update(ctx context.Context, mutate func(current []domain.Profile, found bool) ([]domain.Profile, error)) error
}

const cacheKey = "profiles"

// ProfileRepository caches the profile list with TTL to avoid re-reading the
// store on every quiz action. Appends are serialized and invalidate the cache.
type ProfileRepository struct {
	store ProfileBlobStore
	ttl   time.Duration
	clock func() time.Time
	sf    singleflight.Group
	rnd   *rand.Rand

	writeMu sync.Mutex

	mu        sync.RWMutex
	cached    []domain.Profile
	expiresAt time.Time
}

func NewProfileRepository(store ProfileBlobStore, ttl time.Duration) *ProfileRepository {
	return &ProfileRepository{
		store: store,
		ttl:   ttl,
		clock: time.Now,
		rnd:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// ListProfiles returns every stored profile, fixtures included. An empty
// store is seeded with the fixture records first.
func (r *ProfileRepository) ListProfiles(ctx context.Context) ([]domain.Profile, error) {
	now := r.clock()

	r.mu.RLock()
	if r.cached != nil && r.expiresAt.After(now) {
		out := slices.Clone(r.cached)
		r.mu.RUnlock()
		return out, nil
	}
	r.mu.RUnlock()

	result, err, _ := r.sf.Do(cacheKey, func() (interface{}, error) {
		now := r.clock()
		r.mu.RLock()
		if r.cached != nil && r.expiresAt.After(now) {
			r.mu.RUnlock()
			return r.cached, nil
		}
		r.mu.RUnlock()

		// writeMu orders this fill against Append.
		r.writeMu.Lock()
		defer r.writeMu.Unlock()
		profiles, err := r.loadOrSeed(ctx)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		r.cached = profiles
		r.expiresAt = now.Add(r.ttlWithJitter())
		r.mu.Unlock()
		return profiles, nil
	})
	if err != nil {
		return nil, err
	}
	return slices.Clone(result.([]domain.Profile)), nil
}

// Append adds p and writes the full list back.
func (r *ProfileRepository) Append(ctx context.Context, p domain.Profile) error {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	err := r.store.Update(ctx, func(current []domain.Profile, found bool) ([]domain.Profile, error) {
		if !found {
			current = domain.FixtureProfiles(r.clock().UnixMilli())
		}
		return append(current, p), nil
	})
	if err != nil {
		return err
	}
	r.Invalidate()
	return nil
}

// Invalidate drops the cached list.
func (r *ProfileRepository) Invalidate() {
	r.mu.Lock()
	r.cached = nil
	r.expiresAt = time.Time{}
	r.mu.Unlock()
}

func (r *ProfileRepository) loadOrSeed(ctx context.Context) ([]domain.Profile, error) {
	profiles, err := r.store.Load(ctx)
	if err == nil {
		if profiles == nil {
			profiles = []domain.Profile{}
		}
		return profiles, nil
	}
	if !errors.Is(err, domain.ErrProfilesNotFound) {
		return nil, err
	}
	// Another instance may seed or append between Load and here.
	var seeded []domain.Profile
	err = r.store.Update(ctx, func(current []domain.Profile, found bool) ([]domain.Profile, error) {
		if !found {
			current = domain.FixtureProfiles(r.clock().UnixMilli())
		}
		seeded = current
		return current, nil
	})
	if err != nil {
		return nil, err
	}
	if seeded == nil {
		seeded = []domain.Profile{}
	}
	return seeded, nil
}

func (r *ProfileRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
