// Package repository defines the aggregate style tally and its errors.
//
// Every completed session contributes its primary style; the tally answers
// "which styles are winning" for the stats surface. It is deliberately
// separate from per-session persistence: losing it costs a dashboard, not a
// visitor's result.
package repository

import (
	"context"

	"github.com/quizfloww/quiz-de-estilo4-59-sub000/internal/domain/types"
)

// Tally provides read/write access to the aggregate style counts.
type Tally interface {
	// RecordPrimary increments the count for a completed session's
	// primary style category.
	RecordPrimary(ctx context.Context, category string) error

	// TopN returns the top-N categories ordered by session count desc,
	// ties broken by category name for stable output.
	TopN(ctx context.Context, n int) ([]types.StyleCount, error)

	// Count returns the number of distinct categories tracked.
	Count(ctx context.Context) int
}
