package tutorvm

import (
	"errors"
	"fmt"
	"strings"

	"go.starlark.net/starlark"
)

type Frame struct {
	Func string
	Line int
	Text string
}

type RuntimeError struct {
	Msg    string
	File   string
	Frames []Frame
}

func (e *RuntimeError) Error() string {
	return e.Msg
}

// Line is the line of the innermost frame, or 0 when unknown.
func (e *RuntimeError) Line() int {
	if len(e.Frames) == 0 {
		return 0
	}
	return e.Frames[len(e.Frames)-1].Line
}

func (e *RuntimeError) Traceback() string {
	var b strings.Builder
	b.WriteString("Traceback (most recent call last):\n")
	for _, frame := range e.Frames {
		fmt.Fprintf(&b, "  File %q, line %d, in %s\n", e.File, frame.Line, frame.Func)
		if text := strings.TrimSpace(frame.Text); text != "" {
			fmt.Fprintf(&b, "    %s\n", text)
		}
	}
	fmt.Fprintf(&b, "Error: %s\n", e.Msg)
	return b.String()
}

var errAborted = errors.New("execution aborted")

// IsAborted reports whether err is the result of a yield returning false.
func IsAborted(err error) bool {
	return errors.Is(err, errAborted)
}

func (v *VM) fail(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, errAborted) {
		return errAborted
	}
	var rerr *RuntimeError
	if errors.As(err, &rerr) {
		return rerr
	}
	msg := err.Error()
	var eerr *starlark.EvalError
	if errors.As(err, &eerr) {
		msg = eerr.Msg
	}
	frames := make([]Frame, 0, len(v.frames))
	for _, fr := range v.frames {
		frames = append(frames, Frame{
			Func: fr.name,
			Line: fr.line,
			Text: fr.program.Line(fr.line),
		})
	}
	return &RuntimeError{
		Msg:    msg,
		File:   v.program.Name,
		Frames: frames,
	}
}
