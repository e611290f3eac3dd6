package redis

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"icebreaker-service/internal/domain"
	"icebreaker-service/internal/infra/memory"
)

func TestProfileStoreRoundTripsUnderOneKey(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	store := NewProfileStore(newClient(mr), "gakri_insight_profiles")
	ctx := context.Background()

	if _, err := store.Load(ctx); !errors.Is(err, domain.ErrProfilesNotFound) {
		t.Fatalf("expected not found on empty redis, got %v", err)
	}

	profiles := []domain.Profile{{ID: "p1", Name: "Kim", Group: "team", Motto: "X", CreatedAt: 10}}
	if err := store.Save(ctx, profiles); err != nil {
		t.Fatalf("save: %v", err)
	}
	if keys := mr.Keys(); len(keys) != 1 || keys[0] != "gakri_insight_profiles" {
		t.Fatalf("expected a single key, got %v", keys)
	}

	loaded, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded) != 1 || loaded[0].Name != "Kim" || loaded[0].CreatedAt != 10 {
		t.Fatalf("unexpected profiles %+v", loaded)
	}
}

func TestProfileRepositoryOverRedisSeedsAndAppends(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	store := NewProfileStore(newClient(mr), "gakri_insight_profiles")
	repo := memory.NewProfileRepository(store, time.Minute)
	ctx := context.Background()

	if err := repo.Append(ctx, domain.Profile{ID: "p1", Name: "Kim", Group: "team", Motto: "X"}); err != nil {
		t.Fatalf("append: %v", err)
	}
	profiles, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(profiles) != 7 {
		t.Fatalf("expected 6 fixtures plus 1 profile, got %d", len(profiles))
	}
	if actual := domain.RealProfiles(profiles); len(actual) != 1 || actual[0].ID != "p1" {
		t.Fatalf("expected only p1 to be real, got %+v", actual)
	}
}

func TestProfileStoreUpdateRetriesAfterConcurrentWrite(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	ctx := context.Background()
	store := NewProfileStore(newClient(mr), "gakri_insight_profiles")
	other := NewProfileStore(newClient(mr), "gakri_insight_profiles")
	if err := store.Save(ctx, []domain.Profile{{ID: "a", Name: "Ann"}}); err != nil {
		t.Fatalf("save: %v", err)
	}

	attempts := 0
	err = store.Update(ctx, func(current []domain.Profile, found bool) ([]domain.Profile, error) {
		attempts++
		if !found {
			t.Fatalf("expected the list to exist")
		}
		if attempts == 1 {
			// another instance writes between our read and our write
			if err := other.Save(ctx, append(slices.Clone(current), domain.Profile{ID: "b", Name: "Bob"})); err != nil {
				t.Fatalf("concurrent save: %v", err)
			}
		}
		return append(current, domain.Profile{ID: "c", Name: "Cho"}), nil
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if attempts != 2 {
		t.Fatalf("expected one retry, got %d attempts", attempts)
	}

	profiles, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	ids := make([]string, 0, len(profiles))
	for _, p := range profiles {
		ids = append(ids, p.ID)
	}
	if !slices.Equal(ids, []string{"a", "b", "c"}) {
		t.Fatalf("expected a, b, c, got %v", ids)
	}
}

func TestProfileStoreSkipsNonObjectRecords(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	if err := mr.Set("gakri_insight_profiles", `[{"id":"a","name":"Ann"}, 5]`); err != nil {
		t.Fatalf("seed raw: %v", err)
	}
	profiles, err := NewProfileStore(newClient(mr), "gakri_insight_profiles").Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(profiles) != 1 || profiles[0].ID != "a" {
		t.Fatalf("expected only the object record, got %+v", profiles)
	}
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}
