// Package types contains common types used across the application
package types

// StyleCount is a ranked row of the aggregate style tally: how many
// completed sessions landed on a given primary style.
type StyleCount struct {
	Rank     int    `json:"rank"`
	Category string `json:"category"`
	Sessions int    `json:"sessions"`
}

// ServiceStats is the monitoring view of a running quiz service.
type ServiceStats struct {
	Started            bool `json:"started"`
	ActiveSessions     int  `json:"active_sessions"`
	NormalQuestions    int  `json:"normal_questions"`
	StrategicQuestions int  `json:"strategic_questions"`
	TrackedStyles      int  `json:"tracked_styles"`
}
