package app

import (
	"math/rand/v2"
	"time"

	"icebreaker-service/internal/domain"
)

// Rand is the random source used for target, field and option selection.
// *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
}

const maxDistractors = 3

// Generator builds "who wrote this?" questions from a profile pool.
type Generator struct {
	rnd Rand
}

func NewGenerator(rnd Rand) *Generator {
	if rnd == nil {
		now := uint64(time.Now().UnixNano())
		rnd = rand.New(rand.NewPCG(now, now>>1))
	}
	return &Generator{rnd: rnd}
}

// Generate picks a target from pool, a non-empty prompt field on that target,
// and up to three distractor names from all (excluding the target by id).
// It returns domain.ErrNoQuestionAvailable for an empty pool or a target with
// no answerable fields.
func (g *Generator) Generate(pool, all []domain.Profile) (domain.Question, error) {
	if len(pool) == 0 {
		return domain.Question{}, domain.ErrNoQuestionAvailable
	}
	target := pool[g.rnd.IntN(len(pool))]

	fields := domain.AnswerableFields(target)
	if len(fields) == 0 {
		return domain.Question{}, domain.ErrNoQuestionAvailable
	}
	field := fields[g.rnd.IntN(len(fields))]

	candidates := make([]domain.Profile, 0, len(all))
	for _, p := range all {
		if p.ID != target.ID {
			candidates = append(candidates, p)
		}
	}
	shuffle(g.rnd, len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})

	options := make([]string, 0, 1+maxDistractors)
	options = append(options, target.Name)
	for i := 0; i < len(candidates) && i < maxDistractors; i++ {
		options = append(options, candidates[i].Name)
	}
	shuffle(g.rnd, len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})

	return domain.Question{Target: target, Field: field, Options: options}, nil
}

// shuffle is a Fisher-Yates permutation over the injected source.
func shuffle(rnd Rand, n int, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		swap(i, rnd.IntN(i+1))
	}
}
