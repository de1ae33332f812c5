package tutors

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/reusee/tutor/logs"
	"github.com/reusee/tutor/narrations"
	"github.com/reusee/tutor/traces"
	"github.com/reusee/tutor/transcripts"
	"github.com/reusee/tutor/tutorvm"
)

const (
	NoOutput     = "[No output]"
	NoCode       = "There is no code to explain."
	NoSteps      = "[No steps traced – the code may be empty or didn't execute any lines]"
	ResetNotice  = "Environment reset"
	OutputHeader = "--- Printed output during explanation ---"
)

const timeLayout = "15:04:05"

// Tutor runs snippets against a persistent session environment and explains
// them step by step in a fresh one. Actions are serialized.
type Tutor struct {
	mu       sync.Mutex
	env      *tutorvm.Env
	tracer   traces.Tracer
	narrator narrations.Narrator
	maxDepth int
	clock    Clock
	logger   logs.Logger
	newSpan  logs.NewSpan
	status   string
}

// RunAll executes code in the session environment.
func (t *Tutor) RunAll(ctx context.Context, code string) (transcripts.Block, error) {
	return t.run(ctx, "run", "--- Run at %s ---", code)
}

// RunSelection executes the selected text in the session environment.
func (t *Tutor) RunSelection(ctx context.Context, selected string) (transcripts.Block, error) {
	return t.run(ctx, "run selection", "--- Run selection at %s ---", selected)
}

// RunLine executes the 1-based line of code as a selection. A line outside
// code selects nothing.
func (t *Tutor) RunLine(ctx context.Context, code string, line int) (transcripts.Block, error) {
	var selected string
	lines := tutorvm.SplitLines(code)
	if line >= 1 && line <= len(lines) {
		selected = lines[line-1] + "\n"
	}
	return t.RunSelection(ctx, selected)
}

func (t *Tutor) run(ctx context.Context, action string, title string, code string) (block transcripts.Block, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	ctx, done := t.begin(ctx, action)
	defer func() {
		done(err)
	}()

	timestamp := t.clock().Format(timeLayout)
	block.Add(transcripts.Title, fmt.Sprintf(title, timestamp))

	output := new(bytes.Buffer)
	var failure string
	program, err := tutorvm.Compile("", code)
	if err != nil {
		var serr *tutorvm.SyntaxError
		if !errors.As(err, &serr) {
			return block, logs.WrapSpan(ctx, err)
		}
		failure = "SyntaxError: " + serr.Error()
		err = nil

	} else {
		vm := tutorvm.NewVM(program, t.env,
			tutorvm.WithStdout(output),
			tutorvm.WithMaxDepth(t.maxDepth),
		)
		for _, e := range vm.Run {
			if e != nil {
				var rerr *tutorvm.RuntimeError
				if errors.As(e, &rerr) {
					failure = rerr.Traceback()
				} else {
					failure = e.Error()
				}
				break
			}
			if err = ctx.Err(); err != nil {
				return block, logs.WrapSpan(ctx, err)
			}
		}
	}

	if strings.TrimSpace(output.String()) == "" && failure == "" {
		block.Add(transcripts.Output, NoOutput)
	} else {
		if output.Len() > 0 {
			block.Add(transcripts.Output, output.String())
		}
		if failure != "" {
			block.Add(transcripts.Error, failure)
		}
	}
	block.Blank()

	t.status = "Last run: " + timestamp
	return block, nil
}

// Reset clears the session environment.
func (t *Tutor) Reset() transcripts.Block {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.env.Clear()
	t.status = ResetNotice
	t.logger.Debug("reset")
	var block transcripts.Block
	block.Add(transcripts.Notice, ResetNotice)
	return block
}

// Explain traces code in a fresh environment and narrates every step.
func (t *Tutor) Explain(ctx context.Context, code string) (block transcripts.Block, err error) {
	if strings.TrimSpace(code) == "" {
		block.Add(transcripts.Notice, NoCode)
		return block, nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	ctx, done := t.begin(ctx, "explain")
	defer func() {
		done(err)
	}()

	result, err := t.tracer.Trace(ctx, "", code)
	if err != nil {
		return block, logs.WrapSpan(ctx, err)
	}

	if result.SyntaxError != nil {
		block.Add(transcripts.Title, "--- Step-by-step (syntax error) ---")
		block.Add(transcripts.Error, result.SyntaxError.Error())
		block.Blank()
		return block, nil
	}

	timestamp := t.clock().Format(timeLayout)
	block.Add(transcripts.Title, fmt.Sprintf("--- Step-by-step at %s ---", timestamp))

	narration := t.narrator.Narrate(result.Steps, result.Final)
	if len(narration.Lines) > 0 {
		block.Append(narration.Lines...)
	} else {
		block.Add(transcripts.Notice, NoSteps)
	}

	if result.Truncated {
		block.Blank()
		block.Add(transcripts.Notice, fmt.Sprintf(
			"[Stopped after %d steps to avoid a very long trace]", len(result.Steps)))
	}

	printed := result.Output
	var traceback string
	if result.RuntimeError != nil {
		traceback = result.RuntimeError.Traceback()
		printed = strings.TrimSuffix(printed, traceback)
	}
	if strings.TrimSpace(result.Output) != "" {
		block.Blank()
		block.Add(transcripts.Title, OutputHeader)
		if printed != "" {
			block.Add(transcripts.Output, printed)
		}
		if traceback != "" {
			block.Add(transcripts.Error, traceback)
		}
		block.Blank()
	}
	block.Blank()

	t.logger.DebugContext(ctx, "explained",
		"steps", len(result.Steps),
		"narrated", narration.Steps,
		"truncated", result.Truncated,
	)
	t.status = "Step-by-step at " + timestamp
	return block, nil
}

// Status describes the session for a status bar.
func (t *Tutor) Status() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	status := fmt.Sprintf("Variables: %d", t.env.Len())
	if t.status != "" {
		status += " | " + t.status
	}
	return status
}

// Env is the session environment. It must not be used concurrently with
// actions.
func (t *Tutor) Env() *tutorvm.Env {
	return t.env
}

func (t *Tutor) begin(ctx context.Context, action string) (context.Context, func(error)) {
	ctx, _ = t.newSpan(ctx, "", "action", action)
	start := time.Now()
	return ctx, func(err error) {
		args := []any{
			"action", action,
			"duration", time.Since(start),
		}
		if err != nil {
			args = append(args, "error", err)
		}
		t.logger.DebugContext(ctx, "action end", args...)
	}
}
