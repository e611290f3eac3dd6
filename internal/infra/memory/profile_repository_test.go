package memory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"icebreaker-service/internal/domain"
)

func TestProfileRepositorySeedsFixturesOnFirstLoad(t *testing.T) {
	store := NewProfileStore("profiles")
	repo := NewProfileRepository(store, time.Minute)

	profiles, err := repo.ListProfiles(context.Background())
	if err != nil {
		t.Fatalf("list profiles: %v", err)
	}
	if len(profiles) != 6 {
		t.Fatalf("expected 6 fixtures, got %d", len(profiles))
	}
	for _, p := range profiles {
		if !p.IsFixture {
			t.Fatalf("expected %s to be a fixture", p.ID)
		}
	}
	if _, ok := store.Raw(); !ok {
		t.Fatalf("expected seed to be persisted")
	}
}

func TestProfileRepositoryCaches(t *testing.T) {
	store := &countingStore{ProfileBlobStore: NewProfileStore("profiles")}
	repo := NewProfileRepository(store, time.Minute)

	if _, err := repo.ListProfiles(context.Background()); err != nil {
		t.Fatalf("list: %v", err)
	}
	if _, err := repo.ListProfiles(context.Background()); err != nil {
		t.Fatalf("list 2: %v", err)
	}
	if store.loads != 1 {
		t.Fatalf("expected cache hit, store loads %d", store.loads)
	}
}

func TestProfileRepositoryAppendInvalidatesCache(t *testing.T) {
	store := &countingStore{ProfileBlobStore: NewProfileStore("profiles")}
	repo := NewProfileRepository(store, time.Minute)
	ctx := context.Background()

	if _, err := repo.ListProfiles(ctx); err != nil {
		t.Fatalf("list: %v", err)
	}
	if err := repo.Append(ctx, domain.Profile{ID: "abc", Name: "Kim", Group: "team", Motto: "X"}); err != nil {
		t.Fatalf("append: %v", err)
	}
	profiles, err := repo.ListProfiles(ctx)
	if err != nil {
		t.Fatalf("list after append: %v", err)
	}
	if len(profiles) != 7 || profiles[6].ID != "abc" {
		t.Fatalf("expected appended profile last, got %+v", profiles)
	}
	if store.writes != 2 {
		t.Fatalf("expected seed write and append write, got %d", store.writes)
	}
}

func TestProfileRepositoryPropagatesStoreErrors(t *testing.T) {
	boom := errors.New("boom")
	repo := NewProfileRepository(failingStore{err: boom}, time.Minute)

	if _, err := repo.ListProfiles(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected store error, got %v", err)
	}
}

func TestProfileStoreUpgradesLegacyFixtures(t *testing.T) {
	store := NewProfileStore("profiles")
	store.SetRaw([]byte(`[
		{"id":"1","name":"Seed","group":"team","motto":"m","createdAt":1},
		{"id":"x9","name":"Lee","group":"team","motto":42,"food":"rice","createdAt":2}
	]`))

	profiles, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !profiles[0].IsFixture {
		t.Fatalf("expected legacy id 1 to be a fixture")
	}
	if profiles[1].IsFixture {
		t.Fatalf("expected x9 to be a real profile")
	}
	if profiles[1].Motto != "" || profiles[1].Food != "rice" {
		t.Fatalf("expected malformed motto to decode empty, got %+v", profiles[1])
	}

	if err := store.Save(context.Background(), profiles); err != nil {
		t.Fatalf("save: %v", err)
	}
	raw, _ := store.Raw()
	if !strings.Contains(string(raw), `"isFixture":false`) {
		t.Fatalf("expected the real flag to be written explicitly, got %s", raw)
	}
	reloaded, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !reloaded[0].IsFixture || reloaded[1].IsFixture {
		t.Fatalf("fixture flags changed across a save: %+v", reloaded)
	}
}

func TestProfileRepositoryKeepsExplicitRealFlag(t *testing.T) {
	store := NewProfileStore("profiles")
	store.SetRaw([]byte(`[{"id":"1","name":"Ann","group":"team","motto":"m","createdAt":1,"isFixture":false}]`))
	repo := NewProfileRepository(store, time.Minute)
	ctx := context.Background()

	profiles, err := repo.ListProfiles(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(profiles) != 1 || profiles[0].IsFixture {
		t.Fatalf("expected id 1 to load as real, got %+v", profiles)
	}

	if err := repo.Append(ctx, domain.Profile{ID: "abc", Name: "Kim", Group: "team", Motto: "X"}); err != nil {
		t.Fatalf("append: %v", err)
	}
	profiles, err = repo.ListProfiles(ctx)
	if err != nil {
		t.Fatalf("list after append: %v", err)
	}
	if len(profiles) != 2 || profiles[0].IsFixture {
		t.Fatalf("expected id 1 to stay real after a write, got %+v", profiles)
	}
	if actual := domain.RealProfiles(profiles); len(actual) != 2 {
		t.Fatalf("expected 2 real profiles, got %d", len(actual))
	}
}

func TestProfileRepositorySkipsNonObjectRecords(t *testing.T) {
	store := NewProfileStore("profiles")
	store.SetRaw([]byte(`[{"id":"a","name":"Ann","group":"team","motto":"m","createdAt":1}, 5, "x", [1]]`))
	repo := NewProfileRepository(store, time.Minute)
	ctx := context.Background()

	profiles, err := repo.ListProfiles(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(profiles) != 1 || profiles[0].ID != "a" {
		t.Fatalf("expected only the object record, got %+v", profiles)
	}

	if err := repo.Append(ctx, domain.Profile{ID: "b", Name: "Bob", Group: "team"}); err != nil {
		t.Fatalf("append: %v", err)
	}
	profiles, err = store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(profiles) != 2 || profiles[1].ID != "b" {
		t.Fatalf("expected a and b after append, got %+v", profiles)
	}
}

func TestProfileRepositoryConcurrentAppendsAcrossRepositories(t *testing.T) {
	store := NewProfileStore("profiles")
	first := NewProfileRepository(store, time.Minute)
	second := NewProfileRepository(store, time.Minute)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		repo := first
		if i%2 == 1 {
			repo = second
		}
		wg.Add(1)
		go func(i int, repo *ProfileRepository) {
			defer wg.Done()
			if err := repo.Append(ctx, domain.Profile{ID: fmt.Sprintf("p%d", i), Name: "n", Group: "team"}); err != nil {
				t.Errorf("append %d: %v", i, err)
			}
		}(i, repo)
	}
	wg.Wait()

	profiles, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(profiles) != 26 {
		t.Fatalf("expected 6 fixtures plus 20 profiles, got %d", len(profiles))
	}
}

type countingStore struct {
	ProfileBlobStore
	loads  int
	writes int
}

func (s *countingStore) Load(ctx context.Context) ([]domain.Profile, error) {
	s.loads++
	return s.ProfileBlobStore.Load(ctx)
}

func (s *countingStore) Update(ctx context.Context, mutate func([]domain.Profile, bool) ([]domain.Profile, error)) error {
	s.writes++
	return s.ProfileBlobStore.Update(ctx, mutate)
}

type failingStore struct {
	err error
}

func (s failingStore) Load(context.Context) ([]domain.Profile, error) { return nil, s.err }

func (s failingStore) Save(context.Context, []domain.Profile) error { return s.err }

func (s failingStore) Update(context.Context, func([]domain.Profile, bool) ([]domain.Profile, error)) error {
	return s.err
}
