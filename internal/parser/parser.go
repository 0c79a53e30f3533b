package parser

import (
	"context"
	"time"

	"dayplan/internal/task"
)

// Parser maps a natural-language request to a structured task. The reference
// time anchors relative dates ("tomorrow", "next Friday") in the request.
type Parser interface {
	Parse(ctx context.Context, text string, ref time.Time) (task.Task, error)
}

// Func adapts a plain function to the Parser interface.
type Func func(ctx context.Context, text string, ref time.Time) (task.Task, error)

// Parse implements Parser.
func (f Func) Parse(ctx context.Context, text string, ref time.Time) (task.Task, error) {
	return f(ctx, text, ref)
}
