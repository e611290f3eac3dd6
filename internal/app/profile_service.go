package app

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"icebreaker-service/internal/domain"
)

// ProfileRepository persists the profile list.
type ProfileRepository interface {
	ProfileLister
	Append(ctx context.Context, p domain.Profile) error
}

// ProfileCreatedFunc is notified after a profile has been saved.
type ProfileCreatedFunc func(ctx context.Context, p domain.Profile)

// ProfileDraft is what the authoring form submits.
type ProfileDraft struct {
	Name       string `json:"name"`
	Group      string `json:"group"`
	Food       string `json:"food"`
	Dream      string `json:"dream"`
	Hobby      string `json:"hobby"`
	Motto      string `json:"motto"`
	BucketList string `json:"bucketList"`
	SelfPraise string `json:"selfPraise"`
	WishToHear string `json:"wishToHear"`
	Greeting   string `json:"greeting"`
}

// ProfileService covers profile authoring and the gallery.
type ProfileService struct {
	repo    ProfileRepository
	catalog []string
	now     func() time.Time
	newID   func() string

	mu    sync.RWMutex
	hooks []ProfileCreatedFunc
}

func NewProfileService(repo ProfileRepository, catalog []string) *ProfileService {
	return NewProfileServiceWithClock(repo, catalog, time.Now)
}

// NewProfileServiceWithClock is test-only for deterministic timestamps.
func NewProfileServiceWithClock(repo ProfileRepository, catalog []string, now func() time.Time) *ProfileService {
	return &ProfileService{
		repo:    repo,
		catalog: catalog,
		now:     now,
		newID:   func() string { return uuid.New().String() },
	}
}

// OnProfileCreated registers a callback run after every successful Create.
func (s *ProfileService) OnProfileCreated(fn ProfileCreatedFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks = append(s.hooks, fn)
}

// Create validates a draft, stores it as a new profile and notifies hooks.
func (s *ProfileService) Create(ctx context.Context, draft ProfileDraft) (domain.Profile, error) {
	p := domain.Profile{
		Name:       strings.TrimSpace(draft.Name),
		Group:      strings.TrimSpace(draft.Group),
		Food:       strings.TrimSpace(draft.Food),
		Dream:      strings.TrimSpace(draft.Dream),
		Hobby:      strings.TrimSpace(draft.Hobby),
		Motto:      strings.TrimSpace(draft.Motto),
		BucketList: strings.TrimSpace(draft.BucketList),
		SelfPraise: strings.TrimSpace(draft.SelfPraise),
		WishToHear: strings.TrimSpace(draft.WishToHear),
		Greeting:   strings.TrimSpace(draft.Greeting),
	}
	if err := s.validate(p); err != nil {
		return domain.Profile{}, err
	}
	p.ID = s.newID()
	p.CreatedAt = s.now().UnixMilli()

	if err := s.repo.Append(ctx, p); err != nil {
		return domain.Profile{}, fmt.Errorf("append profile: %w", err)
	}

	s.mu.RLock()
	hooks := slices.Clone(s.hooks)
	s.mu.RUnlock()
	for _, fn := range hooks {
		fn(ctx, p)
	}
	return p, nil
}

// Gallery lists real profiles, newest first. An empty group means all groups.
func (s *ProfileService) Gallery(ctx context.Context, group string) ([]domain.Profile, error) {
	if group != "" && !slices.Contains(s.catalog, group) {
		return nil, domain.ErrUnknownGroup
	}
	all, err := s.repo.ListProfiles(ctx)
	if err != nil {
		return nil, err
	}
	profiles := domain.RealProfiles(all)
	if group != "" {
		profiles = domain.InGroup(profiles, group)
	}
	sort.SliceStable(profiles, func(i, j int) bool {
		if profiles[i].CreatedAt != profiles[j].CreatedAt {
			return profiles[i].CreatedAt > profiles[j].CreatedAt
		}
		return profiles[i].ID < profiles[j].ID
	})
	return profiles, nil
}

// GroupCounts reports real profile counts for every catalog group, in catalog order.
func (s *ProfileService) GroupCounts(ctx context.Context) ([]domain.GroupCount, error) {
	all, err := s.repo.ListProfiles(ctx)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int, len(s.catalog))
	for _, p := range domain.RealProfiles(all) {
		counts[p.Group]++
	}
	out := make([]domain.GroupCount, 0, len(s.catalog))
	for _, g := range s.catalog {
		out = append(out, domain.GroupCount{Group: g, Count: counts[g]})
	}
	return out, nil
}

// Catalog returns the configured group names.
func (s *ProfileService) Catalog() []string {
	return slices.Clone(s.catalog)
}

func (s *ProfileService) validate(p domain.Profile) error {
	required := []struct {
		name  string
		value string
	}{
		{"name", p.Name},
		{"group", p.Group},
		{"food", p.Food},
		{"dream", p.Dream},
		{"hobby", p.Hobby},
		{"motto", p.Motto},
		{"bucketList", p.BucketList},
		{"selfPraise", p.SelfPraise},
		{"wishToHear", p.WishToHear},
		{"greeting", p.Greeting},
	}
	for _, field := range required {
		if field.value == "" {
			return fmt.Errorf("%w: %s is required", domain.ErrInvalidProfile, field.name)
		}
	}
	if !slices.Contains(s.catalog, p.Group) {
		return fmt.Errorf("%w: %w %q", domain.ErrInvalidProfile, domain.ErrUnknownGroup, p.Group)
	}
	return nil
}
