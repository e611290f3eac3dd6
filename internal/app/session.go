package app

import (
	"slices"
	"sync"

	"icebreaker-service/internal/domain"
)

// QuizSession is the per-player quiz controller. Every transition runs
// synchronously under the session lock; the score survives group changes.
type QuizSession struct {
	id        string
	catalog   []string
	generator *Generator

	mu           sync.Mutex
	stage        domain.Stage
	group        string
	question     *domain.Question
	answered     bool
	isCorrect    bool
	hintRevealed bool
	score        int
}

// NewQuizSession starts a session in the group selection stage.
func NewQuizSession(id string, catalog []string, generator *Generator) *QuizSession {
	return &QuizSession{
		id:        id,
		catalog:   catalog,
		generator: generator,
		stage:     domain.StageGroupSelect,
	}
}

// ID returns the session identifier.
func (s *QuizSession) ID() string {
	return s.id
}

// SelectGroup enters the quiz for group. profiles is the full stored list;
// fixtures are filtered here.
func (s *QuizSession) SelectGroup(group string, profiles []domain.Profile) (domain.SessionState, error) {
	if !slices.Contains(s.catalog, group) {
		return s.Snapshot(), domain.ErrUnknownGroup
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.resetRoundLocked()
	s.group = group

	eligible := domain.RealProfiles(profiles)
	if len(domain.InGroup(eligible, group)) == 0 {
		s.stage = domain.StageNoData
		return s.snapshotLocked(), nil
	}
	s.stage = domain.StageLoading
	s.generateLocked(eligible)
	return s.snapshotLocked(), nil
}

// SubmitAnswer scores choice against the current target. It is a no-op once
// the round is answered or when no question is loaded.
func (s *QuizSession) SubmitAnswer(choice string) domain.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.answered || s.question == nil || s.stage != domain.StageActive {
		return s.snapshotLocked()
	}
	s.isCorrect = choice == s.question.Target.Name
	if s.isCorrect {
		s.score++
	}
	s.answered = true
	s.stage = domain.StageAnswered
	return s.snapshotLocked()
}

// RevealHint marks the hint as shown. Scoring is unaffected.
func (s *QuizSession) RevealHint() domain.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.question != nil {
		s.hintRevealed = true
	}
	return s.snapshotLocked()
}

// Skip discards the active question and draws another one.
func (s *QuizSession) Skip(profiles []domain.Profile) domain.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stage != domain.StageActive {
		return s.snapshotLocked()
	}
	s.generateLocked(domain.RealProfiles(profiles))
	return s.snapshotLocked()
}

// Next advances from an answered round to a fresh question.
func (s *QuizSession) Next(profiles []domain.Profile) domain.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stage != domain.StageAnswered {
		return s.snapshotLocked()
	}
	s.generateLocked(domain.RealProfiles(profiles))
	return s.snapshotLocked()
}

// ChangeGroup returns to group selection, keeping the cumulative score.
func (s *QuizSession) ChangeGroup() domain.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.resetRoundLocked()
	s.group = ""
	s.stage = domain.StageGroupSelect
	return s.snapshotLocked()
}

// Snapshot returns the client-facing state.
func (s *QuizSession) Snapshot() domain.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// CurrentQuestion returns the loaded question, if any.
func (s *QuizSession) CurrentQuestion() (domain.Question, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.question == nil {
		return domain.Question{}, false
	}
	return *s.question, true
}

func (s *QuizSession) generateLocked(eligible []domain.Profile) {
	s.resetRoundLocked()
	q, err := s.generator.Generate(domain.InGroup(eligible, s.group), eligible)
	if err != nil {
		// ErrNoQuestionAvailable surfaces as "no data", never as a failure.
		s.stage = domain.StageNoData
		return
	}
	s.question = &q
	s.stage = domain.StageActive
}

func (s *QuizSession) resetRoundLocked() {
	s.question = nil
	s.answered = false
	s.isCorrect = false
	s.hintRevealed = false
}

func (s *QuizSession) snapshotLocked() domain.SessionState {
	state := domain.SessionState{
		SessionID:     s.id,
		Stage:         s.stage,
		SelectedGroup: s.group,
		Answered:      s.answered,
		IsCorrect:     s.isCorrect,
		HintRevealed:  s.hintRevealed,
		Score:         s.score,
	}
	if s.question == nil {
		return state
	}
	target := s.question.Target
	state.Question = &domain.QuestionView{
		Field:   s.question.Field,
		Prompt:  domain.PromptLabel(s.question.Field),
		Value:   target.Field(s.question.Field),
		Options: slices.Clone(s.question.Options),
	}
	if s.hintRevealed && !s.answered {
		state.Hint = target.Motto
	}
	if s.answered {
		state.Reveal = &domain.Reveal{
			Name:       target.Name,
			WishToHear: target.WishToHear,
			Greeting:   target.Greeting,
		}
	}
	return state
}
