// Package scoring aggregates answered options into ranked style categories.
package scoring

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/quizfloww/quiz-de-estilo4-59-sub000/internal/domain/catalog"
	"github.com/quizfloww/quiz-de-estilo4-59-sub000/internal/domain/model"
)

// Default scoring configuration constants.
const (
	defaultMaxSecondary = 3
	percentScale        = 100
)

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithMaxSecondary caps the number of secondary styles in the result.
func WithMaxSecondary(n int) Option {
	return func(e *Engine) {
		if n >= 0 {
			e.maxSecondary = n
		}
	}
}

// Engine folds normal-question answers into a ScoringResult. It is pure and
// idempotent: identical answers always yield the identical result.
type Engine struct {
	maxSecondary int
}

// NewEngine creates an engine with configuration options.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{maxSecondary: defaultMaxSecondary}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// tally is the per-category running state while folding answers.
type tally struct {
	category string
	points   int
	// firstSeen is the catalog position (question order, then option
	// position) of the category's first point contribution; it breaks
	// rawPoints ties deterministically.
	firstSeen int
}

// Score computes the ranked style classification from the recorded answers.
// Only answers to normal questions contribute; strategic answers and
// unscored options are skipped. Returns ErrEmptyScore when no selected
// option carries a style category.
func (e *Engine) Score(ctx context.Context, answers map[string]model.Answer, cat *catalog.Catalog) (model.ScoringResult, error) {
	if err := ctx.Err(); err != nil {
		return model.ScoringResult{}, fmt.Errorf("scoring cancelled: %w", err)
	}

	tallies := make(map[string]*tally)
	total := 0
	pos := 0

	// Walk the catalog, not the answer map, so first-contribution positions
	// are stable regardless of map iteration order.
	for _, q := range cat.Normal() {
		ans, hasAns := answers[q.ID]
		for _, opt := range q.Options {
			pos++
			if !hasAns || !opt.Scored() || !ans.Has(opt.ID) {
				continue
			}
			t, ok := tallies[opt.StyleCategory]
			if !ok {
				t = &tally{category: opt.StyleCategory, firstSeen: pos}
				tallies[opt.StyleCategory] = t
			}
			t.points += opt.Weight()
			total += opt.Weight()
		}
	}

	if total == 0 {
		return model.ScoringResult{}, ErrEmptyScore
	}

	ranked := make([]*tally, 0, len(tallies))
	for _, t := range tallies {
		ranked = append(ranked, t)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].points != ranked[j].points {
			return ranked[i].points > ranked[j].points
		}
		return ranked[i].firstSeen < ranked[j].firstSeen
	})

	scores := make([]model.StyleScore, len(ranked))
	for i, t := range ranked {
		scores[i] = model.StyleScore{
			Category:   t.category,
			RawPoints:  t.points,
			Percentage: int(math.Round(float64(t.points) / float64(total) * percentScale)),
			Rank:       i + 1,
		}
	}

	result := model.ScoringResult{
		PrimaryStyle: scores[0],
		TotalPoints:  total,
	}
	for _, s := range scores[1:] {
		if len(result.SecondaryStyles) >= e.maxSecondary {
			break
		}
		result.SecondaryStyles = append(result.SecondaryStyles, s)
	}
	return result, nil
}
