package debugs

import (
	"context"
	"maps"
	"reflect"
	"slices"

	"github.com/reusee/starlarkutil"
	"github.com/reusee/tutor/logs"
	"github.com/reusee/tutor/tutorvm"
	"go.starlark.net/repl"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Inspect opens a starlark REPL on stdin over the variables of env and the
// extra values. It returns when stdin is exhausted.
type Inspect func(ctx context.Context, what string, env *tutorvm.Env, extra map[string]any)

func (Module) Inspect(
	logger logs.Logger,
) Inspect {
	return func(ctx context.Context, what string, env *tutorvm.Env, extra map[string]any) {
		globals := Globals(env, extra)
		logger.InfoContext(ctx, "inspect: "+what,
			"globals", slices.Sorted(maps.Keys(globals)),
		)
		defer func() {
			logger.InfoContext(ctx, "inspect end: "+what)
		}()

		thread := &starlark.Thread{
			Name: "inspect",
		}
		repl.REPLOptions(&syntax.FileOptions{
			Set:             true,
			While:           true,
			TopLevelControl: true,
			GlobalReassign:  true,
		}, thread, globals)
	}
}

// Globals flattens env, inner scopes shadowing outer ones, and adds the
// snippet builtins missing from the starlark universe plus the extra values.
// Extra funcs are callable from the prompt under their key.
func Globals(env *tutorvm.Env, extra map[string]any) starlark.StringDict {
	ret := make(starlark.StringDict)
	for name, value := range tutorvm.Builtins {
		if _, ok := starlark.Universe[name]; !ok {
			ret[name] = value
		}
	}
	var scopes []*tutorvm.Env
	for e := env; e != nil; e = e.Parent {
		scopes = append(scopes, e)
	}
	for _, scope := range slices.Backward(scopes) {
		for name, value := range scope.All() {
			ret[name] = value
		}
	}
	for name, value := range extra {
		if t := reflect.TypeOf(value); t != nil && t.Kind() == reflect.Func {
			ret[name] = starlarkutil.MakeFunc(name, value)
			continue
		}
		ret[name] = toStarlarkValue(value)
	}
	return ret
}
