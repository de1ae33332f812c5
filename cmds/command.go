package cmds

import (
	"fmt"
	"reflect"
)

// Command is a word of the command line. Func receives the arguments following
// the word, parsed by its parameter types. Subs are words that may follow it.
type Command struct {
	Func        reflect.Value
	Subs        map[string]*Command
	Description string
	Aliases     []string
	Hidden      bool
}

func (c *Command) Desc(desc string) *Command {
	c.Description = desc
	return c
}

func (c *Command) Alias(names ...string) *Command {
	c.Aliases = append(c.Aliases, names...)
	return c
}

// Hide keeps the word out of usage output.
func (c *Command) Hide() *Command {
	c.Hidden = true
	return c
}

func Func(fn any) *Command {
	fnValue := reflect.ValueOf(fn)
	if fnValue.Kind() != reflect.Func {
		panic(fmt.Errorf("must be function, got %T", fn))
	}

	t := fnValue.Type()
	switch {
	case t.NumOut() >= 2:
		panic(fmt.Errorf("%v: must return 0 or 1 value", t))
	case t.NumOut() == 1 && t.Out(0) != errorType:
		panic(fmt.Errorf("%v: must return error", t))
	}

	return &Command{
		Func: fnValue,
	}
}

func Sub(subs map[string]*Command) *Command {
	return &Command{
		Subs: subs,
	}
}
