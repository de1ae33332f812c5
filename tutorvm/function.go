package tutorvm

import (
	"fmt"
	"slices"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

type param struct {
	name   string
	def    starlark.Value
	kwOnly bool
}

// Function is a def or lambda from the snippet. It is callable from
// builtins, so sorted(xs, key=f) runs f through the same interpreter.
type Function struct {
	name    string
	params  []param
	varArgs string
	varKw   string
	body    []syntax.Stmt
	locals  map[string]bool
	expr    syntax.Expr
	line    int
	env     *Env
	program *Program
}

var _ starlark.Callable = new(Function)

func (v *VM) newFunction(scope *Env, name string, params []syntax.Expr) (*Function, error) {
	fn := &Function{
		name:    name,
		env:     scope,
		program: v.program,
	}
	kwOnly := false
	for _, p := range params {
		switch p := p.(type) {

		case *syntax.Ident:
			fn.params = append(fn.params, param{
				name:   p.Name,
				kwOnly: kwOnly,
			})

		case *syntax.BinaryExpr:
			ident, ok := p.X.(*syntax.Ident)
			if !ok || p.Op != syntax.EQ {
				return nil, fmt.Errorf("invalid parameter in %s", name)
			}
			def, err := v.eval(scope, p.Y)
			if err != nil {
				return nil, err
			}
			fn.params = append(fn.params, param{
				name:   ident.Name,
				def:    def,
				kwOnly: kwOnly,
			})

		case *syntax.UnaryExpr:
			switch p.Op {
			case syntax.STAR:
				kwOnly = true
				if ident, ok := p.X.(*syntax.Ident); ok {
					fn.varArgs = ident.Name
				}
			case syntax.STARSTAR:
				fn.varKw = p.X.(*syntax.Ident).Name
			}

		default:
			return nil, fmt.Errorf("invalid parameter in %s", name)
		}
	}

	return fn, nil
}

func (f *Function) Name() string {
	return f.name
}

func (f *Function) String() string {
	if f.name == "<lambda>" {
		return "<function <lambda>>"
	}
	return fmt.Sprintf("<function %s>", f.name)
}

func (f *Function) Type() string {
	return "function"
}

func (f *Function) Freeze() {}

func (f *Function) Truth() starlark.Bool {
	return true
}

func (f *Function) Hash() (uint32, error) {
	return starlark.String(f.name).Hash()
}

func (f *Function) CallInternal(thread *starlark.Thread, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	v, ok := thread.Local(threadKey).(*VM)
	if !ok {
		// called from a foreign thread, like the inspect prompt
		v = NewVM(f.program, f.env.Root())
	}
	if len(v.frames) >= v.MaxDepth {
		return nil, fmt.Errorf("maximum recursion depth exceeded")
	}

	scope := f.env.NewChild()
	scope.locals = f.locals
	if err := f.bind(scope, args, kwargs); err != nil {
		return nil, err
	}

	fr := v.push(f.name, scope)
	fr.program = f.program
	defer v.pop()

	if f.expr != nil {
		fr.line = lineOf(f.expr)
		val, err := v.eval(scope, f.expr)
		if err != nil {
			return nil, v.fail(err)
		}
		return val, nil
	}

	fr.line = f.line
	if _, err := v.execStmts(fr, f.body); err != nil {
		return nil, err
	}
	if fr.result == nil {
		return starlark.None, nil
	}
	return fr.result, nil
}

func (f *Function) bind(scope *Env, args starlark.Tuple, kwargs []starlark.Tuple) error {
	bound := make([]bool, len(f.params))

	// positional
	var extra starlark.Tuple
	n := 0
	for _, arg := range args {
		for n < len(f.params) && f.params[n].kwOnly {
			n++
		}
		if n >= len(f.params) {
			extra = append(extra, arg)
			continue
		}
		scope.Def(f.params[n].name, arg)
		bound[n] = true
		n++
	}
	if len(extra) > 0 {
		if f.varArgs == "" {
			positional := 0
			for _, p := range f.params {
				if !p.kwOnly {
					positional++
				}
			}
			return fmt.Errorf("%s() takes %d positional arguments but %d were given",
				f.name, positional, len(args))
		}
	}
	if f.varArgs != "" {
		scope.Def(f.varArgs, extra)
	}

	// keyword
	var kw *starlark.Dict
	if f.varKw != "" {
		kw = starlark.NewDict(len(kwargs))
	}
	for _, pair := range kwargs {
		name := string(pair[0].(starlark.String))
		i := slices.IndexFunc(f.params, func(p param) bool {
			return p.name == name
		})
		if i < 0 {
			if kw == nil {
				return fmt.Errorf("%s() got an unexpected keyword argument '%s'", f.name, name)
			}
			if err := kw.SetKey(pair[0], pair[1]); err != nil {
				return err
			}
			continue
		}
		if bound[i] {
			return fmt.Errorf("%s() got multiple values for argument '%s'", f.name, name)
		}
		scope.Def(name, pair[1])
		bound[i] = true
	}
	if kw != nil {
		scope.Def(f.varKw, kw)
	}

	// defaults
	var missing []string
	for i, p := range f.params {
		if bound[i] {
			continue
		}
		if p.def != nil {
			scope.Def(p.name, p.def)
			continue
		}
		missing = append(missing, "'"+p.name+"'")
	}
	switch len(missing) {
	case 0:
		return nil
	case 1:
		return fmt.Errorf("%s() missing 1 required argument: %s", f.name, missing[0])
	}
	return fmt.Errorf("%s() missing %d required arguments: %s",
		f.name, len(missing), joinNames(missing))
}

func joinNames(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	}
	s := ""
	for i, name := range names[:len(names)-1] {
		if i > 0 {
			s += ", "
		}
		s += name
	}
	return s + " and " + names[len(names)-1]
}
