package tutorvm

import (
	"fmt"
	"io"
	"os"

	"go.starlark.net/starlark"
)

const DefaultMaxDepth = 1000

type VM struct {
	Globals  *Env
	Stdout   io.Writer
	MaxDepth int

	program *Program
	thread  *starlark.Thread
	hook    func(*Interrupt, error) bool
	frames  []*frame
}

type frame struct {
	name    string
	line    int
	scope   *Env
	program *Program
	result  starlark.Value
}

// threadKey locates the running VM from inside a Function call.
const threadKey = "tutorvm"

type Option func(*VM)

func WithStdout(w io.Writer) Option {
	return func(v *VM) {
		v.Stdout = w
	}
}

func WithMaxDepth(n int) Option {
	return func(v *VM) {
		v.MaxDepth = n
	}
}

// NewVM prepares program for execution against globals. A nil globals gets a
// fresh environment.
func NewVM(program *Program, globals *Env, options ...Option) *VM {
	if globals == nil {
		globals = NewEnv()
	}
	vm := &VM{
		Globals:  globals,
		Stdout:   os.Stdout,
		MaxDepth: DefaultMaxDepth,
		program:  program,
	}
	for _, option := range options {
		option(vm)
	}
	vm.thread = &starlark.Thread{
		Name: program.Name,
		Print: func(_ *starlark.Thread, msg string) {
			fmt.Fprintln(vm.Stdout, msg)
		},
	}
	vm.thread.SetLocal(threadKey, vm)
	return vm
}

func (v *VM) Program() *Program {
	return v.program
}

func (v *VM) Get(name string) (starlark.Value, bool) {
	return v.Globals.Get(name)
}

func (v *VM) Def(name string, val starlark.Value) {
	v.Globals.Def(name, val)
}

// Run executes the program. Before every statement line yield receives an
// Interrupt; returning false stops execution. A runtime failure is yielded
// once with a nil Interrupt and ends the run.
func (v *VM) Run(yield func(*Interrupt, error) bool) {
	prev := v.hook
	v.hook = yield
	savedFrames := v.frames
	v.frames = nil
	defer func() {
		v.hook = prev
		v.frames = savedFrames
	}()

	err := v.runModule()
	if err == nil || IsAborted(err) {
		return
	}
	yield(nil, err)
}

func (v *VM) runModule() (err error) {
	fr := v.push(Module, v.Globals)
	defer v.pop()
	defer func() {
		if p := recover(); p != nil {
			err = v.fail(fmt.Errorf("internal error: %v", p))
		}
	}()

	ctl, err := v.execStmts(fr, v.program.File.Stmts)
	if err != nil {
		return err
	}
	switch ctl {
	case flowBreak:
		return v.fail(fmt.Errorf("'break' outside loop"))
	case flowContinue:
		return v.fail(fmt.Errorf("'continue' not properly in loop"))
	case flowReturn:
		return v.fail(fmt.Errorf("'return' outside function"))
	}
	return nil
}

func (v *VM) push(name string, scope *Env) *frame {
	fr := &frame{
		name:    name,
		scope:   scope,
		program: v.program,
	}
	v.frames = append(v.frames, fr)
	return fr
}

func (v *VM) pop() {
	v.frames = v.frames[:len(v.frames)-1]
}

func (v *VM) step(fr *frame, line int) error {
	fr.line = line
	if v.hook == nil {
		return nil
	}
	if !v.hook(&Interrupt{
		Line:  line,
		Func:  fr.name,
		Scope: fr.scope,
	}, nil) {
		return errAborted
	}
	return nil
}
