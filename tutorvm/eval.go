package tutorvm

import (
	"fmt"
	"math/big"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

func (v *VM) lookup(scope *Env, name string) (starlark.Value, error) {
	val, ok, unbound := scope.find(name)
	if ok {
		return val, nil
	}
	if unbound {
		return nil, fmt.Errorf("local variable '%s' referenced before assignment", name)
	}
	if val, ok := Builtins[name]; ok {
		return val, nil
	}
	return nil, fmt.Errorf("name '%s' is not defined", name)
}

func (v *VM) eval(scope *Env, expr syntax.Expr) (starlark.Value, error) {
	switch e := expr.(type) {

	case *syntax.Ident:
		return v.lookup(scope, e.Name)

	case *syntax.Literal:
		return literal(e)

	case *syntax.ParenExpr:
		return v.eval(scope, e.X)

	case *syntax.UnaryExpr:
		if e.X == nil {
			return nil, fmt.Errorf("unexpected %s", e.Op)
		}
		x, err := v.eval(scope, e.X)
		if err != nil {
			return nil, err
		}
		if e.Op == syntax.NOT {
			return starlark.Bool(!x.Truth()), nil
		}
		return starlark.Unary(e.Op, x)

	case *syntax.BinaryExpr:
		return v.evalBinary(scope, e)

	case *syntax.CondExpr:
		cond, err := v.eval(scope, e.Cond)
		if err != nil {
			return nil, err
		}
		if cond.Truth() {
			return v.eval(scope, e.True)
		}
		return v.eval(scope, e.False)

	case *syntax.ListExpr:
		elems, err := v.evalList(scope, e.List)
		if err != nil {
			return nil, err
		}
		return starlark.NewList(elems), nil

	case *syntax.TupleExpr:
		elems, err := v.evalList(scope, e.List)
		if err != nil {
			return nil, err
		}
		return starlark.Tuple(elems), nil

	case *syntax.DictExpr:
		dict := starlark.NewDict(len(e.List))
		for _, item := range e.List {
			entry := item.(*syntax.DictEntry)
			key, err := v.eval(scope, entry.Key)
			if err != nil {
				return nil, err
			}
			val, err := v.eval(scope, entry.Value)
			if err != nil {
				return nil, err
			}
			if err := dict.SetKey(key, val); err != nil {
				return nil, err
			}
		}
		return dict, nil

	case *syntax.IndexExpr:
		x, err := v.eval(scope, e.X)
		if err != nil {
			return nil, err
		}
		key, err := v.eval(scope, e.Y)
		if err != nil {
			return nil, err
		}
		return getIndex(x, key)

	case *syntax.SliceExpr:
		x, err := v.eval(scope, e.X)
		if err != nil {
			return nil, err
		}
		bounds := [3]starlark.Value{starlark.None, starlark.None, starlark.None}
		for i, bound := range []syntax.Expr{e.Lo, e.Hi, e.Step} {
			if bound == nil {
				continue
			}
			val, err := v.eval(scope, bound)
			if err != nil {
				return nil, err
			}
			bounds[i] = val
		}
		return slice(x, bounds[0], bounds[1], bounds[2])

	case *syntax.DotExpr:
		x, err := v.eval(scope, e.X)
		if err != nil {
			return nil, err
		}
		return getAttr(x, e.Name.Name)

	case *syntax.CallExpr:
		return v.evalCall(scope, e)

	case *syntax.Comprehension:
		return v.evalComprehension(scope, e)

	case *syntax.LambdaExpr:
		fn, err := v.newFunction(scope, "<lambda>", e.Params)
		if err != nil {
			return nil, err
		}
		fn.expr = e.Body
		return fn, nil
	}

	return nil, fmt.Errorf("unsupported expression: %T", expr)
}

func literal(e *syntax.Literal) (starlark.Value, error) {
	switch val := e.Value.(type) {
	case string:
		if e.Token == syntax.BYTES {
			return starlark.Bytes(val), nil
		}
		return starlark.String(val), nil
	case int64:
		return starlark.MakeInt64(val), nil
	case *big.Int:
		return starlark.MakeBigInt(val), nil
	case float64:
		return starlark.Float(val), nil
	}
	return nil, fmt.Errorf("unsupported literal: %s", e.Raw)
}

func (v *VM) evalList(scope *Env, exprs []syntax.Expr) ([]starlark.Value, error) {
	elems := make([]starlark.Value, 0, len(exprs))
	for _, expr := range exprs {
		val, err := v.eval(scope, expr)
		if err != nil {
			return nil, err
		}
		elems = append(elems, val)
	}
	return elems, nil
}

func (v *VM) evalBinary(scope *Env, e *syntax.BinaryExpr) (starlark.Value, error) {
	x, err := v.eval(scope, e.X)
	if err != nil {
		return nil, err
	}

	// short-circuit
	switch e.Op {
	case syntax.AND:
		if !x.Truth() {
			return x, nil
		}
		return v.eval(scope, e.Y)
	case syntax.OR:
		if x.Truth() {
			return x, nil
		}
		return v.eval(scope, e.Y)
	}

	y, err := v.eval(scope, e.Y)
	if err != nil {
		return nil, err
	}

	switch e.Op {
	case syntax.EQL, syntax.NEQ, syntax.LT, syntax.GT, syntax.LE, syntax.GE:
		ok, err := starlark.Compare(e.Op, x, y)
		if err != nil {
			return nil, err
		}
		return starlark.Bool(ok), nil
	}

	return starlark.Binary(e.Op, x, y)
}

func (v *VM) evalCall(scope *Env, e *syntax.CallExpr) (starlark.Value, error) {
	fn, err := v.eval(scope, e.Fn)
	if err != nil {
		return nil, err
	}

	var args starlark.Tuple
	var kwargs []starlark.Tuple
	for _, arg := range e.Args {

		if bin, ok := arg.(*syntax.BinaryExpr); ok && bin.Op == syntax.EQ {
			name, ok := bin.X.(*syntax.Ident)
			if !ok {
				return nil, fmt.Errorf("keyword argument must be a name")
			}
			val, err := v.eval(scope, bin.Y)
			if err != nil {
				return nil, err
			}
			kwargs = append(kwargs, starlark.Tuple{starlark.String(name.Name), val})
			continue
		}

		if unary, ok := arg.(*syntax.UnaryExpr); ok && unary.Op == syntax.STAR {
			val, err := v.eval(scope, unary.X)
			if err != nil {
				return nil, err
			}
			iter := iterate(val)
			if iter == nil {
				return nil, fmt.Errorf("argument after * must be iterable, not %s", val.Type())
			}
			var elem starlark.Value
			for iter.Next(&elem) {
				args = append(args, elem)
			}
			iter.Done()
			continue
		}

		if unary, ok := arg.(*syntax.UnaryExpr); ok && unary.Op == syntax.STARSTAR {
			val, err := v.eval(scope, unary.X)
			if err != nil {
				return nil, err
			}
			mapping, ok := val.(starlark.IterableMapping)
			if !ok {
				return nil, fmt.Errorf("argument after ** must be a mapping, not %s", val.Type())
			}
			for _, item := range mapping.Items() {
				if _, ok := item[0].(starlark.String); !ok {
					return nil, fmt.Errorf("keywords must be strings, not %s", item[0].Type())
				}
				kwargs = append(kwargs, item)
			}
			continue
		}

		val, err := v.eval(scope, arg)
		if err != nil {
			return nil, err
		}
		args = append(args, val)
	}

	res, err := starlark.Call(v.thread, fn, args, kwargs)
	if err != nil {
		return nil, v.fail(err)
	}
	return res, nil
}

func (v *VM) evalComprehension(scope *Env, c *syntax.Comprehension) (starlark.Value, error) {
	inner := scope.NewChild()

	var list *starlark.List
	var dict *starlark.Dict
	var entry *syntax.DictEntry
	if c.Curly {
		var ok bool
		entry, ok = c.Body.(*syntax.DictEntry)
		if !ok {
			return nil, fmt.Errorf("set comprehensions are not supported")
		}
		dict = starlark.NewDict(0)
	} else {
		list = starlark.NewList(nil)
	}

	emit := func() error {
		if dict != nil {
			key, err := v.eval(inner, entry.Key)
			if err != nil {
				return err
			}
			val, err := v.eval(inner, entry.Value)
			if err != nil {
				return err
			}
			return dict.SetKey(key, val)
		}
		val, err := v.eval(inner, c.Body)
		if err != nil {
			return err
		}
		return list.Append(val)
	}

	var loop func(i int) error
	loop = func(i int) error {
		if i == len(c.Clauses) {
			return emit()
		}
		switch clause := c.Clauses[i].(type) {

		case *syntax.ForClause:
			x, err := v.eval(inner, clause.X)
			if err != nil {
				return err
			}
			iter := iterate(x)
			if iter == nil {
				return fmt.Errorf("'%s' value is not iterable", x.Type())
			}
			defer iter.Done()
			var elem starlark.Value
			for iter.Next(&elem) {
				if err := v.assign(inner, clause.Vars, elem); err != nil {
					return err
				}
				if err := loop(i + 1); err != nil {
					return err
				}
			}

		case *syntax.IfClause:
			cond, err := v.eval(inner, clause.Cond)
			if err != nil {
				return err
			}
			if cond.Truth() {
				return loop(i + 1)
			}
		}
		return nil
	}

	if err := loop(0); err != nil {
		return nil, err
	}
	if dict != nil {
		return dict, nil
	}
	return list, nil
}
