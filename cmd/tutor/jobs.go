package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/reusee/tutor/cmds"
	"github.com/reusee/tutor/configs"
	"github.com/reusee/tutor/debugs"
	"github.com/reusee/tutor/narrations"
	"github.com/reusee/tutor/traces"
	"github.com/reusee/tutor/transcripts"
	"github.com/reusee/tutor/tutorconfigs"
	"github.com/reusee/tutor/tutors"
)

// Env is what a job works with. All jobs of one invocation share the tutor,
// so "run a.py explain b.py" explains b.py after a.py ran in the session.
type Env struct {
	Tutor    *tutors.Tutor
	Tracer   traces.Tracer
	Print    Printer
	Narrator narrations.Narrator
	Inspect  debugs.Inspect
	Stdout   Stdout
	Examples tutorconfigs.Examples
	Config   configs.Loader
}

func (Module) Env(
	tutor *tutors.Tutor,
	tracer traces.Tracer,
	printer Printer,
	narrator narrations.Narrator,
	inspect debugs.Inspect,
	stdout Stdout,
	examples tutorconfigs.Examples,
	loader configs.Loader,
) Env {
	return Env{
		Tutor:    tutor,
		Tracer:   tracer,
		Print:    printer,
		Narrator: narrator,
		Inspect:  inspect,
		Stdout:   stdout,
		Examples: examples,
		Config:   loader,
	}
}

type Job func(ctx context.Context, env Env) error

var jobs []Job

func addJob(job Job) {
	jobs = append(jobs, job)
}

func init() {
	cmds.Define("run", cmds.Func(func(path string) {
		addJob(func(ctx context.Context, env Env) error {
			code, err := readSource(path)
			if err != nil {
				return err
			}
			block, err := env.Tutor.RunAll(ctx, code)
			if err != nil {
				return err
			}
			env.Print(block)
			return nil
		})
	}).Desc("run a file in the session"))

	cmds.Define("explain", cmds.Func(func(path string) {
		addJob(func(ctx context.Context, env Env) error {
			code, err := readSource(path)
			if err != nil {
				return err
			}
			return explain(ctx, env, code)
		})
	}).Desc("explain a file step by step"))

	cmds.Define("line", cmds.Func(func(path string, line int) {
		addJob(func(ctx context.Context, env Env) error {
			code, err := readSource(path)
			if err != nil {
				return err
			}
			block, err := env.Tutor.RunLine(ctx, code, line)
			if err != nil {
				return err
			}
			env.Print(block)
			return nil
		})
	}).Desc("run one line of a file in the session"))

	cmds.Define("reset", cmds.Func(func() {
		addJob(func(ctx context.Context, env Env) error {
			env.Print(env.Tutor.Reset())
			return nil
		})
	}).Desc("clear the session"))

	cmds.Define("examples", cmds.Func(func() {
		addJob(func(ctx context.Context, env Env) error {
			return listExamples(env.Stdout, env.Examples)
		})
	}).Desc("list the example snippets"))

	cmds.Define("example", cmds.Func(func(name string) {
		addJob(func(ctx context.Context, env Env) error {
			snippet, ok := env.Examples.Get(name)
			if !ok {
				return fmt.Errorf("no example named %s", name)
			}
			_, err := io.WriteString(env.Stdout, snippet.Code)
			return err
		})
	}).Desc("print an example snippet"))

	cmds.Define("config", cmds.Func(func() {
		addJob(func(ctx context.Context, env Env) error {
			return showConfig(env.Stdout, env.Config)
		})
	}).Desc("show the config files in use"))

	cmds.Define("watch", cmds.Func(func(path string) {
		addJob(func(ctx context.Context, env Env) error {
			return watch(ctx, path, func(code string) error {
				return explain(ctx, env, code)
			})
		})
	}).Desc("explain a file again every time it is saved"))

	cmds.Define("repl", cmds.Func(func() {
		addJob(runREPL)
	}).Desc("interactive editor"))

	cmds.Define("inspect", cmds.Func(func(path string) {
		addJob(func(ctx context.Context, env Env) error {
			code, err := readSource(path)
			if err != nil {
				return err
			}
			return inspect(ctx, env, path, code)
		})
	}).Desc("trace a file once, then explore its variables in a starlark prompt"))
}

func readSource(path string) (string, error) {
	if path == "-" {
		content, err := io.ReadAll(os.Stdin)
		return string(content), err
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(content), nil
}

func explain(ctx context.Context, env Env, code string) error {
	block, err := env.Tutor.Explain(ctx, code)
	if err != nil {
		return err
	}
	env.Print(block)
	return nil
}

func listExamples(w io.Writer, examples tutorconfigs.Examples) error {
	for _, snippet := range examples {
		if _, err := fmt.Fprintf(w, "%-20s %s\n", snippet.Name, snippet.Title); err != nil {
			return err
		}
	}
	return nil
}

func showConfig(w io.Writer, loader configs.Loader) error {
	paths := loader.Paths()
	if len(paths) == 0 {
		_, err := fmt.Fprintln(w, "no config files, using defaults")
		return err
	}
	for _, path := range paths {
		if _, err := fmt.Fprintln(w, path); err != nil {
			return err
		}
	}
	return loader.Check()
}

// inspect traces code once and prints the narration, then opens a prompt
// over the variables the run left. The prompt also holds "steps" and
// "output" of the run, narrate() for its narration text, and explain(code)
// and run(code) backed by the session tutor.
func inspect(ctx context.Context, env Env, what string, code string) error {
	result, err := env.Tracer.Trace(ctx, what, code)
	if err != nil {
		return err
	}
	if result.SyntaxError != nil {
		var block transcripts.Block
		block.Add(transcripts.Error, result.SyntaxError.Error())
		env.Print(block)
		return nil
	}

	narration := env.Narrator.Narrate(result.Steps, result.Final)
	var block transcripts.Block
	block.Add(transcripts.Title, fmt.Sprintf("--- Inspect %s ---", what))
	block.Append(narration.Lines...)
	if result.Output != "" {
		block.Blank()
		block.Add(transcripts.Title, tutors.OutputHeader)
		block.Add(transcripts.Output, result.Output)
	}
	env.Print(block)

	env.Inspect(ctx, what, result.Env, map[string]any{
		"steps":  result.Steps,
		"output": result.Output,
		"narrate": func() string {
			var b transcripts.Block
			b.Append(narration.Lines...)
			return b.String()
		},
		"explain": func(code string) string {
			block, err := env.Tutor.Explain(ctx, code)
			if err != nil {
				return err.Error()
			}
			return block.String()
		},
		"run": func(code string) string {
			block, err := env.Tutor.RunAll(ctx, code)
			if err != nil {
				return err.Error()
			}
			return block.String()
		},
	})
	return nil
}
