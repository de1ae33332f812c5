package tutorvm

import (
	"errors"
	"fmt"
	"strings"

	"go.starlark.net/syntax"
)

const DefaultName = "<snippet>"

type Program struct {
	Name  string
	File  *syntax.File
	Lines []string
}

func Compile(name string, source string) (*Program, error) {
	if name == "" {
		name = DefaultName
	}
	file, err := fileOptions.Parse(name, source, 0)
	if err != nil {
		var serr syntax.Error
		if errors.As(err, &serr) {
			return nil, &SyntaxError{
				Line: int(serr.Pos.Line),
				Col:  int(serr.Pos.Col),
				Msg:  serr.Msg,
			}
		}
		return nil, err
	}
	return &Program{
		Name:  name,
		File:  file,
		Lines: SplitLines(source),
	}, nil
}

var fileOptions = &syntax.FileOptions{
	Set:             true,
	While:           true,
	TopLevelControl: true,
	GlobalReassign:  true,
	Recursion:       true,
}

// Line returns the text of the 1-based line n, or "" when n is outside the source.
func (p *Program) Line(n int) string {
	if n < 1 || n > len(p.Lines) {
		return ""
	}
	return p.Lines[n-1]
}

// SplitLines splits source into lines without their terminators. A trailing
// newline does not produce an extra empty line.
func SplitLines(source string) []string {
	source = strings.ReplaceAll(source, "\r\n", "\n")
	source = strings.ReplaceAll(source, "\r", "\n")
	if source == "" {
		return nil
	}
	lines := strings.Split(source, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

type SyntaxError struct {
	Line int
	Col  int
	Msg  string
}

func (e *SyntaxError) Error() string {
	if e.Line <= 0 {
		return e.Msg
	}
	return fmt.Sprintf("line %d, column %d: %s", e.Line, e.Col, e.Msg)
}
