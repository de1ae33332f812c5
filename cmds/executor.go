package cmds

import (
	"fmt"
	"maps"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/reusee/tutor/vars"
)

// Executor interprets a command line as a sequence of words. Each word names
// a Command, and the command's parameters take the words after it.
type Executor struct {
	commands map[string]*Command
}

func NewExecutor() *Executor {
	ret := &Executor{
		commands: make(map[string]*Command),
	}

	ret.Define("-h", Func(func() {
		ret.PrintUsage()
		os.Exit(0)
	}).
		Desc("print this usage").
		Alias("help", "-help", "--help"))

	return ret
}

func (e *Executor) Define(name string, command *Command) {
	for _, word := range append([]string{name}, command.Aliases...) {
		if _, ok := e.commands[word]; ok {
			panic(fmt.Errorf("duplicated command %s", word))
		}
		e.commands[word] = command
	}
}

var errorType = reflect.TypeFor[error]()

// Execute runs the words of args from left to right. The sub commands of a
// word are in scope for every word after it.
func (e *Executor) Execute(args []string) error {
	scope := e.commands
	for len(args) > 0 {
		name := strings.TrimSpace(args[0])
		args = args[1:]

		command, ok := scope[name]
		if !ok {
			return fmt.Errorf("unknown command: %s (try -h)", name)
		}

		if command.Func.IsValid() {
			var err error
			args, err = call(name, command.Func, args, scope)
			if err != nil {
				return err
			}
		}

		if len(command.Subs) > 0 {
			scope = maps.Clone(scope)
			for subname, sub := range command.Subs {
				if _, ok := scope[subname]; ok {
					return fmt.Errorf("duplicated sub command: %s %s", name, subname)
				}
				scope[subname] = sub
			}
		}
	}
	return nil
}

func (e *Executor) MustExecute(args []string) {
	if err := e.Execute(args); err != nil {
		panic(err)
	}
}

// call parses the parameters of fn from args and invokes it, returning the
// words left over. Pointer parameters are optional: they stay zero when args
// ran out or the next word is a command in scope.
func call(name string, fn reflect.Value, args []string, scope map[string]*Command) ([]string, error) {
	fnType := fn.Type()
	in := make([]reflect.Value, 0, fnType.NumIn())
	for i := range fnType.NumIn() {
		t := fnType.In(i)
		optional := t.Kind() == reflect.Pointer
		if optional {
			t = t.Elem()
		}

		if len(args) == 0 || optional && scope[args[0]] != nil {
			if !optional {
				return nil, fmt.Errorf("%s: argument %d (%s): missing", name, i+1, kindName(t))
			}
			in = append(in, reflect.New(t))
			continue
		}

		value := reflect.New(t)
		if err := parseArg(args[0], value.Elem()); err != nil {
			return nil, fmt.Errorf("%s: argument %d: %w", name, i+1, err)
		}
		args = args[1:]
		if !optional {
			value = value.Elem()
		}
		in = append(in, value)
	}

	rets := fn.Call(in)
	if len(rets) > 0 {
		if err, _ := rets[0].Interface().(error); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
	}
	return args, nil
}

type argParser func(word string, value reflect.Value) error

var argParsers = map[reflect.Kind]argParser{
	reflect.String: func(word string, value reflect.Value) error {
		value.SetString(word)
		return nil
	},
	reflect.Bool: func(word string, value reflect.Value) error {
		v, err := vars.ParseBool(word)
		if err != nil {
			return err
		}
		value.SetBool(v)
		return nil
	},
	reflect.Int:    parseInt,
	reflect.Int8:   parseInt,
	reflect.Int16:  parseInt,
	reflect.Int32:  parseInt,
	reflect.Int64:  parseInt,
	reflect.Uint:   parseUint,
	reflect.Uint8:  parseUint,
	reflect.Uint16: parseUint,
	reflect.Uint32: parseUint,
	reflect.Uint64: parseUint,
	reflect.Float32: func(word string, value reflect.Value) error {
		v, err := strconv.ParseFloat(word, 32)
		if err != nil {
			return err
		}
		value.SetFloat(v)
		return nil
	},
	reflect.Float64: func(word string, value reflect.Value) error {
		v, err := strconv.ParseFloat(word, 64)
		if err != nil {
			return err
		}
		value.SetFloat(v)
		return nil
	},
}

func parseInt(word string, value reflect.Value) error {
	v, err := strconv.ParseInt(word, 10, value.Type().Bits())
	if err != nil {
		return err
	}
	value.SetInt(v)
	return nil
}

func parseUint(word string, value reflect.Value) error {
	v, err := strconv.ParseUint(word, 10, value.Type().Bits())
	if err != nil {
		return err
	}
	value.SetUint(v)
	return nil
}

func parseArg(word string, value reflect.Value) error {
	parse, ok := argParsers[value.Kind()]
	if !ok {
		return fmt.Errorf("unsupported type: %v", value.Type())
	}
	if err := parse(word, value); err != nil {
		return fmt.Errorf("convert %s to %s: %w", word, kindName(value.Type()), err)
	}
	return nil
}

func kindName(t reflect.Type) string {
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return "int"
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "unsigned int"
	case reflect.Float32, reflect.Float64:
		return "float"
	}
	return t.Kind().String()
}
