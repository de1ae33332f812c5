package cmds

import (
	"fmt"
	"io"
	"os"
	"reflect"
	"slices"
	"strings"
)

func (e *Executor) PrintUsage() {
	e.WriteUsage(os.Stderr)
}

func (e *Executor) WriteUsage(w io.Writer) {
	writeCommands(w, e.commands, 0)
}

func writeCommands(w io.Writer, commands map[string]*Command, depth int) {
	var names []string
	for name, command := range commands {
		if command == nil || command.Hidden || slices.Contains(command.Aliases, name) {
			continue
		}
		names = append(names, name)
	}
	slices.Sort(names)

	indent := strings.Repeat("  ", depth)
	for _, name := range names {
		command := commands[name]
		label := name
		if len(command.Aliases) > 0 {
			label += " (" + strings.Join(command.Aliases, ", ") + ")"
		}
		if params := paramTypes(command); params != "" {
			label += " " + params
		}
		if command.Description != "" {
			fmt.Fprintf(w, "%s%-32s %s\n", indent, label, command.Description)
		} else {
			fmt.Fprintf(w, "%s%s\n", indent, label)
		}
		if len(command.Subs) > 0 {
			writeCommands(w, command.Subs, depth+1)
		}
	}
}

func paramTypes(command *Command) string {
	if !command.Func.IsValid() {
		return ""
	}
	t := command.Func.Type()
	var params []string
	for i := range t.NumIn() {
		in := t.In(i)
		if in.Kind() == reflect.Pointer {
			params = append(params, "[<"+kindName(in.Elem())+">]")
			continue
		}
		params = append(params, "<"+kindName(in)+">")
	}
	return strings.Join(params, " ")
}
