package logs

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/reusee/dscope"
)

func TestHandler(t *testing.T) {
	buf := new(bytes.Buffer)
	dscope.New(new(Module)).Fork(
		func() Writer {
			return buf
		},
	).Call(func(
		logger Logger,
		newSpan NewSpan,
	) {
		ctx, span := newSpan(context.Background(), "", "action", "explain")
		buf.Reset()

		logger.With("snippet", "loop_sum").InfoContext(ctx, "traced", "steps", 11)
		line := buf.String()
		for _, want := range []string{
			"msg=traced",
			"snippet=loop_sum",
			"steps=11",
			"logs.span=" + string(span),
		} {
			if !strings.Contains(line, want) {
				t.Fatalf("%q not in %q", want, line)
			}
		}

		buf.Reset()
		logger.Info("no span")
		if strings.Contains(buf.String(), "logs.span") {
			t.Fatalf("got %q", buf.String())
		}
	})
}

func TestWrapSpan(t *testing.T) {
	if WrapSpan(context.Background(), nil) != nil {
		t.Fatal()
	}

	errFoo := errors.New("foo")
	if err := WrapSpan(context.Background(), errFoo); err != errFoo {
		t.Fatalf("got %v", err)
	}

	ctx := withSpan(context.Background(), "abc")
	err := WrapSpan(ctx, errFoo)
	if !errors.Is(err, errFoo) {
		t.Fatal()
	}
	if err.Error() != "foo (span abc)" {
		t.Fatalf("got %q", err.Error())
	}
}
