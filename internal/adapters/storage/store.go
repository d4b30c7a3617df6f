// Package storage defines the durable key/value contract the result view
// reads from.
//
// Writes are best-effort: the flow layer logs and counts failures but keeps
// the session alive in memory, so a broken store degrades to "a reload loses
// progress" rather than a crash.
package storage

import "context"

// Well-known keys written over a session's lifetime.
const (
	KeyUserName         = "userName"
	KeyStrategicAnswers = "strategicAnswers"
	KeyQuizStartTime    = "quiz_start_time"
	KeyQuizCompletedAt  = "quizCompletedAt"
	KeyResult           = "scoringResult"
)

// Store is a per-session key/value store. Keys are scoped by session id;
// there is no transactional guarantee across keys.
type Store interface {
	// Set writes one key. Overwrites silently.
	Set(ctx context.Context, sessionID, key, value string) error

	// Get reads one key. Returns ErrKeyNotFound when absent.
	Get(ctx context.Context, sessionID, key string) (string, error)

	// Delete removes one key. Deleting an absent key is not an error.
	Delete(ctx context.Context, sessionID, key string) error

	// Clear removes every key of the session.
	Clear(ctx context.Context, sessionID string) error

	// Close releases backend resources.
	Close() error
}
