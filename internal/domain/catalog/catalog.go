// Package catalog loads and validates the question catalog.
//
// The catalog is read-only content supplied by an external source. It is
// partitioned into two ordered pools (normal and strategic) that the flow
// layer walks as one linear sequence.
package catalog

import (
	"fmt"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/quizfloww/quiz-de-estilo4-59-sub000/internal/domain/model"
)

// Catalog holds the validated, immutable question pools.
type Catalog struct {
	normal    []model.Question
	strategic []model.Question
	byID      map[string]model.Question
}

// New validates the given questions and builds a catalog. Questions keep
// their given relative order within each pool; Order is reassigned to the
// pool-local position.
func New(questions []model.Question) (*Catalog, error) {
	if len(questions) == 0 {
		return nil, ErrEmptyCatalog
	}

	c := &Catalog{byID: make(map[string]model.Question, len(questions))}
	for _, q := range questions {
		if err := validateQuestion(q); err != nil {
			return nil, err
		}
		if _, dup := c.byID[q.ID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateQuestion, q.ID)
		}
		switch q.Kind {
		case model.KindNormal:
			q.Order = len(c.normal)
			c.normal = append(c.normal, q)
		case model.KindStrategic:
			q.Order = len(c.strategic)
			c.strategic = append(c.strategic, q)
		}
		c.byID[q.ID] = q
	}

	if len(c.normal) == 0 {
		return nil, fmt.Errorf("%w: no normal questions", ErrInvalidCatalog)
	}
	return c, nil
}

// Load reads a YAML catalog file of the shape {questions: [...]}.
func Load(path string) (*Catalog, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadCatalog, err)
	}

	var doc struct {
		Questions []model.Question `koanf:"questions"`
	}
	if err := k.UnmarshalWithConf("", &doc, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadCatalog, err)
	}
	return New(doc.Questions)
}

func validateQuestion(q model.Question) error {
	if q.ID == "" {
		return fmt.Errorf("%w: missing question id", ErrInvalidCatalog)
	}
	if q.Kind != model.KindNormal && q.Kind != model.KindStrategic {
		return fmt.Errorf("%w: question %s has unknown kind %q", ErrInvalidCatalog, q.ID, q.Kind)
	}
	if len(q.Options) == 0 {
		return fmt.Errorf("%w: question %s has no options", ErrInvalidCatalog, q.ID)
	}
	if q.SelectionCount < 0 {
		return fmt.Errorf("%w: question %s has negative selection_count", ErrInvalidCatalog, q.ID)
	}
	if req := q.RequiredSelections(); req > len(q.Options) {
		return fmt.Errorf("%w: question %s requires %d selections but has %d options", ErrInvalidCatalog, q.ID, req, len(q.Options))
	}
	seen := make(map[string]struct{}, len(q.Options))
	for _, o := range q.Options {
		if o.ID == "" {
			return fmt.Errorf("%w: question %s has an option without an id", ErrInvalidCatalog, q.ID)
		}
		if _, dup := seen[o.ID]; dup {
			return fmt.Errorf("%w: question %s repeats option %s", ErrInvalidCatalog, q.ID, o.ID)
		}
		seen[o.ID] = struct{}{}
		if o.Points < 0 {
			return fmt.Errorf("%w: option %s has negative points", ErrInvalidCatalog, o.ID)
		}
	}
	return nil
}

// NormalCount returns the size of the scored pool.
func (c *Catalog) NormalCount() int { return len(c.normal) }

// StrategicCount returns the size of the segmentation pool.
func (c *Catalog) StrategicCount() int { return len(c.strategic) }

// NormalAt returns the i-th normal question.
func (c *Catalog) NormalAt(i int) (model.Question, bool) {
	if i < 0 || i >= len(c.normal) {
		return model.Question{}, false
	}
	return c.normal[i], true
}

// StrategicAt returns the i-th strategic question.
func (c *Catalog) StrategicAt(i int) (model.Question, bool) {
	if i < 0 || i >= len(c.strategic) {
		return model.Question{}, false
	}
	return c.strategic[i], true
}

// Question looks a question up by id.
func (c *Catalog) Question(id string) (model.Question, bool) {
	q, ok := c.byID[id]
	return q, ok
}

// Normal returns a copy of the scored pool in catalog order.
func (c *Catalog) Normal() []model.Question {
	out := make([]model.Question, len(c.normal))
	copy(out, c.normal)
	return out
}

// Strategic returns a copy of the segmentation pool in catalog order.
func (c *Catalog) Strategic() []model.Question {
	out := make([]model.Question, len(c.strategic))
	copy(out, c.strategic)
	return out
}
