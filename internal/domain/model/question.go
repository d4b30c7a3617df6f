// Package model contains domain models passed between layers.
package model

import "time"

// Selection defaults shared by the catalog and the flow layer.
const (
	// DefaultSelectionCount is the pool-wide requirement for normal
	// questions; individual questions may override it.
	DefaultSelectionCount = 3

	// StrategicSelectionCount is fixed: strategic questions hold a single
	// selection slot.
	StrategicSelectionCount = 1
)

// QuestionKind partitions the catalog into the scored pool and the
// segmentation pool.
type QuestionKind string

const (
	// KindNormal questions are scored; their answers feed style points.
	KindNormal QuestionKind = "normal"
	// KindStrategic questions segment the visitor; answers are persisted
	// but never scored.
	KindStrategic QuestionKind = "strategic"
)

// Option is a selectable answer choice. StyleCategory is empty for
// decorative/unscored options.
type Option struct {
	ID            string `json:"id" koanf:"id"`
	Text          string `json:"text" koanf:"text"`
	ImageURL      string `json:"image_url,omitempty" koanf:"image_url"`
	StyleCategory string `json:"style_category,omitempty" koanf:"style_category"`
	Points        int    `json:"points,omitempty" koanf:"points"`
}

// Scored reports whether selecting this option contributes style points.
func (o Option) Scored() bool {
	return o.StyleCategory != ""
}

// Weight returns the option's point weight, defaulting to 1.
func (o Option) Weight() int {
	if o.Points <= 0 {
		return 1
	}
	return o.Points
}

// Question is a single catalog entry. Order is the position within its own
// kind's pool, assigned by the catalog at load time.
type Question struct {
	ID    string       `json:"id" koanf:"id"`
	Kind  QuestionKind `json:"kind" koanf:"kind"`
	Text  string       `json:"text" koanf:"text"`
	Order int          `json:"order" koanf:"order"`

	// SelectionCount overrides DefaultSelectionCount for normal questions
	// when > 0. Strategic questions ignore it.
	SelectionCount int `json:"selection_count,omitempty" koanf:"selection_count"`

	Options []Option `json:"options" koanf:"options"`
}

// RequiredSelections returns the completion cardinality for the question.
func (q Question) RequiredSelections() int {
	if q.Kind == KindStrategic {
		return StrategicSelectionCount
	}
	if q.SelectionCount > 0 {
		return q.SelectionCount
	}
	return DefaultSelectionCount
}

// OptionByID returns the option and true when id belongs to the question.
func (q Question) OptionByID(id string) (Option, bool) {
	for _, o := range q.Options {
		if o.ID == id {
			return o, true
		}
	}
	return Option{}, false
}

// Answer is the recorded selection state for one question. SelectedOptionIDs
// preserves insertion order; strategic answers hold at most one entry.
type Answer struct {
	QuestionID        string    `json:"question_id"`
	SelectedOptionIDs []string  `json:"selected_option_ids"`
	RecordedAt        time.Time `json:"recorded_at"`
}

// Has reports whether optionID is part of the answer.
func (a Answer) Has(optionID string) bool {
	for _, id := range a.SelectedOptionIDs {
		if id == optionID {
			return true
		}
	}
	return false
}
