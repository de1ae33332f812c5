package main

import (
	"io"
	"os"

	"github.com/reusee/dscope"
	"github.com/reusee/tutor/debugs"
	"github.com/reusee/tutor/transcripts"
	"github.com/reusee/tutor/tutorconfigs"
	"github.com/reusee/tutor/tutors"
	"golang.org/x/term"
)

type Module struct {
	dscope.Module
	Tutors tutors.Module
	Debugs debugs.Module
}

type Stdout io.Writer

func (Module) Stdout() Stdout {
	return os.Stdout
}

// Printer writes a block to Stdout, styled when color is enabled.
type Printer func(block transcripts.Block)

func (Module) Printer(
	mode tutorconfigs.ColorMode,
	stdout Stdout,
) Printer {
	color := false
	switch mode {
	case tutorconfigs.ColorAlways:
		color = true
	case tutorconfigs.ColorAuto:
		if f, ok := stdout.(*os.File); ok {
			color = term.IsTerminal(int(f.Fd()))
		}
	}
	styler := transcripts.NewStyler()
	return func(block transcripts.Block) {
		if color {
			io.WriteString(stdout, styler.Render(block))
		} else {
			io.WriteString(stdout, block.String())
		}
	}
}
