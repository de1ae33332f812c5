package logs

import (
	"context"

	"github.com/google/uuid"
)

// NewSpan derives a context carrying a fresh span. An empty parent defaults to
// the span already in ctx. attrs are logged with the "new span" record.
type NewSpan func(ctx context.Context, parent Span, attrs ...any) (context.Context, Span)

func (Module) NewSpan(
	logger Logger,
) NewSpan {
	return func(ctx context.Context, parent Span, attrs ...any) (context.Context, Span) {
		creator, _ := SpanFrom(ctx)
		if parent == "" {
			parent = creator
		}

		span := Span(uuid.NewString())
		ctx = withSpan(ctx, span)

		args := attrs
		if creator != "" && creator != parent {
			args = append(args, "creator", creator)
		}
		if parent != "" {
			args = append(args, "parent", parent)
		}
		logger.InfoContext(ctx, "new span", args...)

		return ctx, span
	}
}
