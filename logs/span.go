package logs

import "context"

// Span identifies one action and everything logged on its behalf.
type Span string

type spanKey struct{}

// SpanKey is the context key holding the current Span.
var SpanKey spanKey

func SpanFrom(ctx context.Context) (Span, bool) {
	span, ok := ctx.Value(SpanKey).(Span)
	return span, ok && span != ""
}

func withSpan(ctx context.Context, span Span) context.Context {
	return context.WithValue(ctx, SpanKey, span)
}
