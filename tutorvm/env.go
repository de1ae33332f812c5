package tutorvm

import (
	"iter"
	"maps"
	"slices"

	"go.starlark.net/starlark"
)

type Env struct {
	Parent *Env
	Vars   map[string]starlark.Value
	// names bound somewhere in the function body owning this scope
	locals map[string]bool
}

func NewEnv() *Env {
	return &Env{
		Vars: make(map[string]starlark.Value),
	}
}

// Get resolves name from this scope outwards. A local name not bound yet
// hides the outer bindings.
func (e *Env) Get(name string) (starlark.Value, bool) {
	v, ok, _ := e.find(name)
	return v, ok
}

func (e *Env) find(name string) (_ starlark.Value, ok bool, unbound bool) {
	for s := e; s != nil; s = s.Parent {
		if v, ok := s.Vars[name]; ok {
			return v, true, false
		}
		if s.locals[name] {
			return nil, false, true
		}
	}
	return nil, false, false
}

func (e *Env) Def(name string, val starlark.Value) {
	if e.Vars == nil {
		e.Vars = make(map[string]starlark.Value)
	}
	e.Vars[name] = val
}

func (e *Env) Set(name string, val starlark.Value) bool {
	if _, ok := e.Vars[name]; ok {
		e.Vars[name] = val
		return true
	}
	if e.Parent != nil {
		return e.Parent.Set(name, val)
	}
	return false
}

func (e *Env) NewChild() *Env {
	return &Env{
		Parent: e,
	}
}

// Root returns the outermost scope of the chain.
func (e *Env) Root() *Env {
	for e.Parent != nil {
		e = e.Parent
	}
	return e
}

// All iterates the bindings of this scope only, parents excluded.
func (e *Env) All() iter.Seq2[string, starlark.Value] {
	return func(yield func(string, starlark.Value) bool) {
		if e == nil {
			return
		}
		for name, value := range e.Vars {
			if !yield(name, value) {
				return
			}
		}
	}
}

func (e *Env) Names() []string {
	if e == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(e.Vars))
}

func (e *Env) Len() int {
	if e == nil {
		return 0
	}
	return len(e.Vars)
}

func (e *Env) Clear() {
	clear(e.Vars)
}
