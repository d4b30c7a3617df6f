package model

// Phase identifies the linear stage a quiz session is in. Phases only move
// forward; "previous" navigation happens inside Normal and Strategic, never
// across a boundary.
type Phase string

const (
	PhaseIntro           Phase = "intro"
	PhaseNormal          Phase = "normal"
	PhaseMainTransition  Phase = "main_transition"
	PhaseStrategic       Phase = "strategic"
	PhaseFinalTransition Phase = "final_transition"
	PhaseResult          Phase = "result"
)

// Valid reports whether p is one of the known phases.
func (p Phase) Valid() bool {
	switch p {
	case PhaseIntro, PhaseNormal, PhaseMainTransition, PhaseStrategic, PhaseFinalTransition, PhaseResult:
		return true
	}
	return false
}

// Terminal reports whether the session accepts no further mutations.
func (p Phase) Terminal() bool {
	return p == PhaseResult
}
