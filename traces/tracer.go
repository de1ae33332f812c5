package traces

import (
	"bytes"
	"context"
	"errors"

	"github.com/reusee/tutor/tutorvm"
)

const DefaultMaxSteps = 200

// Step is one observation taken immediately before a source line executes.
type Step struct {
	Line   int      `starlark:"line"`
	Text   string   `starlark:"text"`
	Func   string   `starlark:"func"`
	Locals Snapshot `starlark:"locals"`
}

type Result struct {
	Steps []Step
	// Final is the module environment after execution stopped.
	Final        Snapshot
	Truncated    bool
	Output       string
	SyntaxError  *tutorvm.SyntaxError
	RuntimeError *tutorvm.RuntimeError
	// Env holds the live values behind Final. Nil after a syntax error.
	Env *tutorvm.Env
}

type Tracer struct {
	MaxSteps      int
	MaxValueWidth int
	MaxDepth      int
}

// Trace runs source in a fresh environment, recording a step for every line
// about to execute. Syntax and runtime failures are reported in the Result;
// the returned error is non-nil only when ctx ends before the run does.
func (t Tracer) Trace(ctx context.Context, name string, source string) (result Result, err error) {
	maxSteps := t.MaxSteps
	if maxSteps <= 0 {
		maxSteps = DefaultMaxSteps
	}
	width := t.MaxValueWidth
	if width <= 0 {
		width = DefaultMaxValueWidth
	}

	program, err := tutorvm.Compile(name, source)
	if err != nil {
		var serr *tutorvm.SyntaxError
		if errors.As(err, &serr) {
			result.SyntaxError = serr
			return result, nil
		}
		return result, err
	}

	output := new(bytes.Buffer)
	globals := tutorvm.NewEnv()
	options := []tutorvm.Option{
		tutorvm.WithStdout(output),
	}
	if t.MaxDepth > 0 {
		options = append(options, tutorvm.WithMaxDepth(t.MaxDepth))
	}
	vm := tutorvm.NewVM(program, globals, options...)

	for intr, e := range vm.Run {
		if e != nil {
			var rerr *tutorvm.RuntimeError
			if errors.As(e, &rerr) {
				result.RuntimeError = rerr
				output.WriteString(rerr.Traceback())
			} else {
				output.WriteString(e.Error() + "\n")
			}
			break
		}
		if err = ctx.Err(); err != nil {
			break
		}
		if len(result.Steps) >= maxSteps {
			break
		}
		result.Steps = append(result.Steps, Step{
			Line:   intr.Line,
			Text:   program.Line(intr.Line),
			Func:   intr.Func,
			Locals: TakeSnapshot(intr.Scope, width),
		})
	}

	// reaching the ceiling counts even when the program ended right there
	result.Truncated = len(result.Steps) >= maxSteps
	result.Env = globals
	result.Final = TakeSnapshot(globals, width)
	result.Output = output.String()
	return result, err
}
