// Package selection decides whether a candidate option toggle is legal and
// whether a question's selection is complete.
//
// Everything here is pure: the same question, current selection, and
// candidate always produce the same decision, independent of timers, storage
// or network.
package selection

import "github.com/quizfloww/quiz-de-estilo4-59-sub000/internal/domain/model"

// Reason explains a rejected toggle.
type Reason string

const (
	// ReasonNone marks an accepted toggle.
	ReasonNone Reason = ""
	// ReasonLimitReached: a normal question already holds its required
	// number of selections; the new pick is refused, nothing is dropped.
	ReasonLimitReached Reason = "limit_reached"
	// ReasonLockedSelection: the sole strategic selection cannot be
	// removed; once set, a strategic answer is replace-only.
	ReasonLockedSelection Reason = "locked_selection"
	// ReasonUnknownOption: the candidate does not belong to the question.
	ReasonUnknownOption Reason = "unknown_option"
)

// Decision is the outcome of applying one toggle.
type Decision struct {
	// Next is the selection after the toggle. On rejection it equals the
	// current selection.
	Next []string
	// Complete reports whether Next satisfies the question's requirement.
	Complete bool
	// Rejected is true when the toggle was refused and Next is unchanged.
	Rejected bool
	Reason   Reason
}

// Apply toggles candidateID against the current selection of q.
//
// Normal questions: toggling a selected option removes it; toggling a new one
// adds it unless the selection already holds RequiredSelections entries.
// Strategic questions hold a single slot: a new option replaces the previous
// one, and removing the only selection is a rejected no-op.
func Apply(q model.Question, current []string, candidateID string) Decision {
	if _, ok := q.OptionByID(candidateID); !ok {
		return rejected(current, q, ReasonUnknownOption)
	}

	if q.Kind == model.KindStrategic {
		return applyStrategic(q, current, candidateID)
	}
	return applyNormal(q, current, candidateID)
}

func applyNormal(q model.Question, current []string, candidateID string) Decision {
	required := q.RequiredSelections()

	if idx := indexOf(current, candidateID); idx >= 0 {
		next := make([]string, 0, len(current)-1)
		next = append(next, current[:idx]...)
		next = append(next, current[idx+1:]...)
		return accepted(next, required)
	}

	if len(current) >= required {
		return rejected(current, q, ReasonLimitReached)
	}

	next := make([]string, 0, len(current)+1)
	next = append(next, current...)
	next = append(next, candidateID)
	return accepted(next, required)
}

func applyStrategic(q model.Question, current []string, candidateID string) Decision {
	if indexOf(current, candidateID) >= 0 {
		// Deselecting the sole strategic choice would erase a committed
		// answer; keep it.
		return rejected(current, q, ReasonLockedSelection)
	}
	return accepted([]string{candidateID}, q.RequiredSelections())
}

// DisplayThreshold returns the fixed affordance threshold the UI uses to
// light up the advance control. It is intentionally NOT the completion gate:
// for normal questions it is always the pool default, even when the question
// overrides its requirement. Callers gate on Decision.Complete and use this
// value for presentation only.
func DisplayThreshold(q model.Question) int {
	if q.Kind == model.KindStrategic {
		return model.StrategicSelectionCount
	}
	return model.DefaultSelectionCount
}

// ThresholdMismatch reports whether the display threshold diverges from the
// real completion gate for q.
func ThresholdMismatch(q model.Question) bool {
	return DisplayThreshold(q) != q.RequiredSelections()
}

func accepted(next []string, required int) Decision {
	return Decision{
		Next:     next,
		Complete: len(next) == required,
	}
}

func rejected(current []string, q model.Question, reason Reason) Decision {
	next := make([]string, len(current))
	copy(next, current)
	return Decision{
		Next:     next,
		Complete: len(next) == q.RequiredSelections(),
		Rejected: true,
		Reason:   reason,
	}
}

func indexOf(ids []string, id string) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}
