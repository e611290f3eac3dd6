package app

import (
	"context"
	"log"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"icebreaker-service/internal/domain"
)

// SessionRepository abstracts where live quiz sessions are kept (in-memory, Redis, etc).
type SessionRepository interface {
	Put(session *QuizSession)
	Get(sessionID string) (*QuizSession, bool)
	Delete(sessionID string)
}

// ProfileLister is the read side of the profile store.
type ProfileLister interface {
	ListProfiles(ctx context.Context) ([]domain.Profile, error)
}

// QuizService routes player actions to their quiz sessions.
type QuizService struct {
	sessions SessionRepository
	profiles ProfileLister
	catalog  []string
	newRand  func() Rand
	newID    func() string
}

func NewQuizService(sessions SessionRepository, profiles ProfileLister, catalog []string) *QuizService {
	return NewQuizServiceWithRand(sessions, profiles, catalog, func() Rand {
		seed := uint64(time.Now().UnixNano())
		return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	})
}

// NewQuizServiceWithRand is used by tests to make question draws deterministic.
func NewQuizServiceWithRand(sessions SessionRepository, profiles ProfileLister, catalog []string, newRand func() Rand) *QuizService {
	return &QuizService{
		sessions: sessions,
		profiles: profiles,
		catalog:  catalog,
		newRand:  newRand,
		newID:    func() string { return uuid.New().String() },
	}
}

// Open creates a new session waiting for a group choice.
func (s *QuizService) Open(_ context.Context) domain.SessionState {
	session := NewQuizSession(s.newID(), s.catalog, NewGenerator(s.newRand()))
	s.sessions.Put(session)
	return session.Snapshot()
}

// Close drops a session.
func (s *QuizService) Close(_ context.Context, sessionID string) {
	s.sessions.Delete(sessionID)
}

// State returns the current snapshot of a session.
func (s *QuizService) State(_ context.Context, sessionID string) (domain.SessionState, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.SessionState{}, domain.ErrSessionNotFound
	}
	return session.Snapshot(), nil
}

// SelectGroup starts the quiz for a group.
func (s *QuizService) SelectGroup(ctx context.Context, sessionID, group string) (domain.SessionState, error) {
	session, profiles, err := s.load(ctx, sessionID)
	if err != nil {
		return domain.SessionState{}, err
	}
	return session.SelectGroup(group, profiles)
}

// SubmitAnswer scores a choice for the current round.
func (s *QuizService) SubmitAnswer(_ context.Context, sessionID, choice string) (domain.SessionState, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.SessionState{}, domain.ErrSessionNotFound
	}
	return session.SubmitAnswer(choice), nil
}

// RevealHint shows the hint for the current round.
func (s *QuizService) RevealHint(_ context.Context, sessionID string) (domain.SessionState, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.SessionState{}, domain.ErrSessionNotFound
	}
	return session.RevealHint(), nil
}

// Skip replaces the active question.
func (s *QuizService) Skip(ctx context.Context, sessionID string) (domain.SessionState, error) {
	session, profiles, err := s.load(ctx, sessionID)
	if err != nil {
		return domain.SessionState{}, err
	}
	return session.Skip(profiles), nil
}

// Next moves on after an answered round.
func (s *QuizService) Next(ctx context.Context, sessionID string) (domain.SessionState, error) {
	session, profiles, err := s.load(ctx, sessionID)
	if err != nil {
		return domain.SessionState{}, err
	}
	return session.Next(profiles), nil
}

// ChangeGroup returns the session to group selection.
func (s *QuizService) ChangeGroup(_ context.Context, sessionID string) (domain.SessionState, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.SessionState{}, domain.ErrSessionNotFound
	}
	return session.ChangeGroup(), nil
}

// cacheInvalidator is implemented by listers that cache the profile list.
type cacheInvalidator interface {
	Invalidate()
}

// ProfileCreated is registered as an onProfileCreated hook. It drops the
// lister's cached list so the next draw sees the new profile even when the
// lister is not the repository the profile was written through.
func (s *QuizService) ProfileCreated(_ context.Context, p domain.Profile) {
	if c, ok := s.profiles.(cacheInvalidator); ok {
		c.Invalidate()
	}
	log.Printf("quiz pool for %s gained %s", p.Group, p.ID)
}

func (s *QuizService) load(ctx context.Context, sessionID string) (*QuizSession, []domain.Profile, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, nil, domain.ErrSessionNotFound
	}
	profiles, err := s.profiles.ListProfiles(ctx)
	if err != nil {
		return nil, nil, err
	}
	return session, profiles, nil
}
