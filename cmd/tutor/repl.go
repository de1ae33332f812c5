package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/reusee/tutor/transcripts"
)

// editor is the buffer behind the repl. Plain input lines are appended to it,
// lines starting with ':' act on it.
type editor struct {
	env   Env
	lines []string
}

var errQuit = errors.New("quit")

func (e *editor) code() string {
	if len(e.lines) == 0 {
		return ""
	}
	return strings.Join(e.lines, "\n") + "\n"
}

func (e *editor) handle(ctx context.Context, input string) error {
	if !strings.HasPrefix(input, ":") {
		e.lines = append(e.lines, input)
		return nil
	}

	fields := strings.Fields(input)
	switch fields[0] {

	case ":run":
		block, err := e.env.Tutor.RunAll(ctx, e.code())
		if err != nil {
			return err
		}
		e.env.Print(block)

	case ":explain":
		return explain(ctx, e.env, e.code())

	case ":line":
		if len(fields) != 2 {
			return e.notice("usage: :line N")
		}
		n, err := strconv.Atoi(fields[1])
		if err != nil {
			return e.notice("not a line number: " + fields[1])
		}
		block, err := e.env.Tutor.RunLine(ctx, e.code(), n)
		if err != nil {
			return err
		}
		e.env.Print(block)

	case ":reset":
		e.env.Print(e.env.Tutor.Reset())

	case ":clear":
		e.lines = e.lines[:0]

	case ":show":
		for i, line := range e.lines {
			fmt.Fprintf(e.env.Stdout, "%3d  %s\n", i+1, line)
		}

	case ":example":
		if len(fields) != 2 {
			return listExamples(e.env.Stdout, e.env.Examples)
		}
		snippet, ok := e.env.Examples.Get(fields[1])
		if !ok {
			return e.notice("no example named " + fields[1])
		}
		e.lines = strings.Split(strings.TrimRight(snippet.Code, "\n"), "\n")

	case ":status":
		fmt.Fprintln(e.env.Stdout, e.env.Tutor.Status())

	case ":inspect":
		return inspect(ctx, e.env, "buffer", e.code())

	case ":quit", ":q":
		return errQuit

	default:
		return e.notice("unknown command " + fields[0])
	}

	return nil
}

func (e *editor) notice(text string) error {
	var block transcripts.Block
	block.Add(transcripts.Notice, text)
	e.env.Print(block)
	return nil
}

func runREPL(ctx context.Context, env Env) error {
	var historyFile string
	if home, err := os.UserHomeDir(); err == nil {
		historyFile = filepath.Join(home, ".tutor_history")
	}
	rl, err := readline.NewEx(&readline.Config{
		Prompt:      "> ",
		HistoryFile: historyFile,
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	e := &editor{
		env: env,
	}
	for {
		if ctx.Err() != nil {
			return nil
		}
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
			return nil
		} else if err != nil {
			return err
		}
		if err := e.handle(ctx, line); errors.Is(err, errQuit) {
			return nil
		} else if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
	}
}
