package app_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"icebreaker-service/internal/app"
	"icebreaker-service/internal/domain"
)

var catalog = []string{"red", "blue", "green"}

func stored() []domain.Profile {
	profiles := domain.FixtureProfiles(1)
	profiles = append(profiles,
		profile("k", "Kim", "red"),
		profile("l", "Lee", "blue"),
		domain.Profile{ID: "p", Name: "Park", Group: "green", Greeting: "hi"},
	)
	return profiles
}

func newSession() *app.QuizSession {
	return app.NewQuizSession("s-1", catalog, app.NewGenerator(newRand(11)))
}

func TestSelectGroupUnknown(t *testing.T) {
	s := newSession()

	state, err := s.SelectGroup("purple", stored())
	require.ErrorIs(t, err, domain.ErrUnknownGroup)
	assert.Equal(t, domain.StageGroupSelect, state.Stage)
}

func TestSelectGroupWithOnlyFixturesIsNoData(t *testing.T) {
	s := app.NewQuizSession("s-1", []string{"1학년팀"}, app.NewGenerator(newRand(1)))

	state, err := s.SelectGroup("1학년팀", stored())
	require.NoError(t, err)
	assert.Equal(t, domain.StageNoData, state.Stage)
	assert.Nil(t, state.Question)
}

func TestSelectGroupTargetWithoutAnswerableFieldsIsNoData(t *testing.T) {
	s := newSession()

	state, err := s.SelectGroup("green", stored())
	require.NoError(t, err)
	assert.Equal(t, domain.StageNoData, state.Stage)
	assert.Equal(t, "green", state.SelectedGroup)
}

func TestAnswerCorrectScoresOnce(t *testing.T) {
	s := newSession()

	state, err := s.SelectGroup("red", stored())
	require.NoError(t, err)
	require.Equal(t, domain.StageActive, state.Stage)
	require.NotNil(t, state.Question)
	assert.Len(t, state.Question.Options, 3)
	assert.Contains(t, state.Question.Options, "Kim")
	assert.NotContains(t, state.Question.Options, "최고각리", "fixtures are never distractors")

	state = s.SubmitAnswer("Kim")
	assert.Equal(t, domain.StageAnswered, state.Stage)
	assert.True(t, state.Answered)
	assert.True(t, state.IsCorrect)
	assert.Equal(t, 1, state.Score)
	require.NotNil(t, state.Reveal)
	assert.Equal(t, "Kim", state.Reveal.Name)

	state = s.SubmitAnswer("Lee")
	assert.True(t, state.IsCorrect, "second submission is ignored")
	assert.Equal(t, 1, state.Score)
}

func TestAnswerWrongLeavesScore(t *testing.T) {
	s := newSession()
	_, err := s.SelectGroup("red", stored())
	require.NoError(t, err)

	state := s.SubmitAnswer("Lee")
	assert.True(t, state.Answered)
	assert.False(t, state.IsCorrect)
	assert.Equal(t, 0, state.Score)
}

func TestSubmitWithoutQuestionIsIgnored(t *testing.T) {
	s := newSession()

	state := s.SubmitAnswer("Kim")
	assert.False(t, state.Answered)
	assert.Equal(t, domain.StageGroupSelect, state.Stage)
	assert.Equal(t, 0, state.Score)
}

func TestRevealHintIsIdempotent(t *testing.T) {
	s := newSession()
	_, err := s.SelectGroup("red", stored())
	require.NoError(t, err)

	first := s.RevealHint()
	second := s.RevealHint()
	assert.True(t, first.HintRevealed)
	assert.Equal(t, first, second)
	assert.Equal(t, "Kim motto", second.Hint)
	assert.Equal(t, 0, second.Score)
}

func TestSkipKeepsScoreAndStaysActive(t *testing.T) {
	s := newSession()
	_, err := s.SelectGroup("red", stored())
	require.NoError(t, err)
	s.SubmitAnswer("Kim")
	s.Next(stored())
	s.RevealHint()

	for i := 0; i < 20; i++ {
		state := s.Skip(stored())
		assert.Equal(t, domain.StageActive, state.Stage)
		assert.Equal(t, 1, state.Score)
		assert.False(t, state.HintRevealed)
		assert.False(t, state.Answered)
	}
}

func TestNextOnlyAfterAnswer(t *testing.T) {
	s := newSession()
	_, err := s.SelectGroup("red", stored())
	require.NoError(t, err)

	before, _ := s.CurrentQuestion()
	state := s.Next(stored())
	after, _ := s.CurrentQuestion()
	assert.Equal(t, domain.StageActive, state.Stage)
	assert.Equal(t, before, after, "next is ignored while the round is open")

	s.SubmitAnswer("Kim")
	state = s.Next(stored())
	assert.Equal(t, domain.StageActive, state.Stage)
	assert.False(t, state.Answered)
	assert.False(t, state.IsCorrect)
	assert.Nil(t, state.Reveal)
	assert.Equal(t, 1, state.Score)
}

func TestNextWhenGroupEmptiedIsNoData(t *testing.T) {
	s := newSession()
	_, err := s.SelectGroup("red", stored())
	require.NoError(t, err)
	s.SubmitAnswer("Kim")

	state := s.Next(domain.FixtureProfiles(1))
	assert.Equal(t, domain.StageNoData, state.Stage)
	assert.Nil(t, state.Question)
}

func TestChangeGroupPreservesScore(t *testing.T) {
	s := newSession()
	_, err := s.SelectGroup("red", stored())
	require.NoError(t, err)
	s.RevealHint()
	s.SubmitAnswer("Kim")

	state := s.ChangeGroup()
	assert.Equal(t, domain.StageGroupSelect, state.Stage)
	assert.Empty(t, state.SelectedGroup)
	assert.Nil(t, state.Question)
	assert.False(t, state.Answered)
	assert.False(t, state.HintRevealed)
	assert.Equal(t, 1, state.Score)

	state, err = s.SelectGroup("blue", stored())
	require.NoError(t, err)
	assert.Equal(t, domain.StageActive, state.Stage)
	assert.Equal(t, 1, state.Score)
}
