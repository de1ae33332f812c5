package tutorvm

import (
	"fmt"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

type flow uint8

const (
	flowNext flow = iota
	flowBreak
	flowContinue
	flowReturn
)

func lineOf(node syntax.Node) int {
	start, _ := node.Span()
	return int(start.Line)
}

func (v *VM) execStmts(fr *frame, stmts []syntax.Stmt) (flow, error) {
	for _, stmt := range stmts {
		ctl, err := v.execStmt(fr, stmt)
		if err != nil {
			return flowNext, v.fail(err)
		}
		if ctl != flowNext {
			return ctl, nil
		}
	}
	return flowNext, nil
}

func (v *VM) execStmt(fr *frame, stmt syntax.Stmt) (flow, error) {
	switch s := stmt.(type) {
	case *syntax.ForStmt:
		return v.execFor(fr, s)
	case *syntax.WhileStmt:
		return v.execWhile(fr, s)
	}

	if err := v.step(fr, lineOf(stmt)); err != nil {
		return flowNext, err
	}

	switch s := stmt.(type) {

	case *syntax.ExprStmt:
		_, err := v.eval(fr.scope, s.X)
		return flowNext, err

	case *syntax.AssignStmt:
		return flowNext, v.execAssign(fr.scope, s)

	case *syntax.DefStmt:
		fn, err := v.newFunction(fr.scope, s.Name.Name, s.Params)
		if err != nil {
			return flowNext, err
		}
		fn.body = s.Body
		fn.locals = localNames(s.Body)
		fn.line = lineOf(s)
		fr.scope.Def(s.Name.Name, fn)
		return flowNext, nil

	case *syntax.ReturnStmt:
		fr.result = starlark.None
		if s.Result != nil {
			val, err := v.eval(fr.scope, s.Result)
			if err != nil {
				return flowNext, err
			}
			fr.result = val
		}
		return flowReturn, nil

	case *syntax.IfStmt:
		cond, err := v.eval(fr.scope, s.Cond)
		if err != nil {
			return flowNext, err
		}
		if cond.Truth() {
			return v.execStmts(fr, s.True)
		}
		return v.execStmts(fr, s.False)

	case *syntax.BranchStmt:
		switch s.Token {
		case syntax.BREAK:
			return flowBreak, nil
		case syntax.CONTINUE:
			return flowContinue, nil
		}
		return flowNext, nil

	case *syntax.LoadStmt:
		return flowNext, fmt.Errorf("cannot load %s: modules are not available", s.ModuleName())

	default:
		return flowNext, fmt.Errorf("unsupported statement: %T", stmt)
	}
}

// execFor reports the header line before every attempt to fetch the next
// element, so a loop of n iterations visits its header n+1 times.
func (v *VM) execFor(fr *frame, s *syntax.ForStmt) (flow, error) {
	line := lineOf(s)
	if err := v.step(fr, line); err != nil {
		return flowNext, err
	}
	x, err := v.eval(fr.scope, s.X)
	if err != nil {
		return flowNext, err
	}
	iter := iterate(x)
	if iter == nil {
		return flowNext, fmt.Errorf("'%s' value is not iterable", x.Type())
	}
	defer iter.Done()

	var elem starlark.Value
	for first := true; ; first = false {
		if !first {
			if err := v.step(fr, line); err != nil {
				return flowNext, err
			}
		}
		if !iter.Next(&elem) {
			break
		}
		if err := v.assign(fr.scope, s.Vars, elem); err != nil {
			return flowNext, err
		}
		ctl, err := v.execStmts(fr, s.Body)
		if err != nil {
			return flowNext, err
		}
		switch ctl {
		case flowBreak:
			return flowNext, nil
		case flowReturn:
			return flowReturn, nil
		}
	}
	return flowNext, nil
}

func (v *VM) execWhile(fr *frame, s *syntax.WhileStmt) (flow, error) {
	line := lineOf(s)
	for {
		if err := v.step(fr, line); err != nil {
			return flowNext, err
		}
		cond, err := v.eval(fr.scope, s.Cond)
		if err != nil {
			return flowNext, err
		}
		if !cond.Truth() {
			return flowNext, nil
		}
		ctl, err := v.execStmts(fr, s.Body)
		if err != nil {
			return flowNext, err
		}
		switch ctl {
		case flowBreak:
			return flowNext, nil
		case flowReturn:
			return flowReturn, nil
		}
	}
}

func (v *VM) execAssign(scope *Env, s *syntax.AssignStmt) error {
	if s.Op == syntax.EQ {
		val, err := v.eval(scope, s.RHS)
		if err != nil {
			return err
		}
		return v.assign(scope, s.LHS, val)
	}

	// PLUS_EQ..GTGT_EQ mirror PLUS..GTGT
	op := syntax.PLUS + (s.Op - syntax.PLUS_EQ)

	switch lhs := unparen(s.LHS).(type) {

	case *syntax.Ident:
		old, err := v.lookup(scope, lhs.Name)
		if err != nil {
			return err
		}
		val, err := v.inplace(op, old, s.RHS, scope)
		if err != nil {
			return err
		}
		scope.Def(lhs.Name, val)
		return nil

	case *syntax.IndexExpr:
		x, err := v.eval(scope, lhs.X)
		if err != nil {
			return err
		}
		key, err := v.eval(scope, lhs.Y)
		if err != nil {
			return err
		}
		old, err := getIndex(x, key)
		if err != nil {
			return err
		}
		val, err := v.inplace(op, old, s.RHS, scope)
		if err != nil {
			return err
		}
		return setIndex(x, key, val)

	case *syntax.DotExpr:
		x, err := v.eval(scope, lhs.X)
		if err != nil {
			return err
		}
		old, err := getAttr(x, lhs.Name.Name)
		if err != nil {
			return err
		}
		val, err := v.inplace(op, old, s.RHS, scope)
		if err != nil {
			return err
		}
		return setField(x, lhs.Name.Name, val)
	}

	return fmt.Errorf("cannot use augmented assignment on %T", s.LHS)
}

// inplace applies an augmented operator. Lists are extended in place.
func (v *VM) inplace(op syntax.Token, old starlark.Value, rhs syntax.Expr, scope *Env) (starlark.Value, error) {
	y, err := v.eval(scope, rhs)
	if err != nil {
		return nil, err
	}
	if list, ok := old.(*starlark.List); ok && op == syntax.PLUS {
		iter := iterate(y)
		if iter == nil {
			return nil, fmt.Errorf("'%s' value is not iterable", y.Type())
		}
		var elems []starlark.Value
		var elem starlark.Value
		for iter.Next(&elem) {
			elems = append(elems, elem)
		}
		iter.Done()
		for _, elem := range elems {
			if err := list.Append(elem); err != nil {
				return nil, err
			}
		}
		return list, nil
	}
	return starlark.Binary(op, old, y)
}

func (v *VM) assign(scope *Env, lhs syntax.Expr, val starlark.Value) error {
	switch node := lhs.(type) {

	case *syntax.Ident:
		scope.Def(node.Name, val)
		return nil

	case *syntax.ParenExpr:
		return v.assign(scope, node.X, val)

	case *syntax.ListExpr:
		return v.unpack(scope, node.List, val)

	case *syntax.TupleExpr:
		return v.unpack(scope, node.List, val)

	case *syntax.IndexExpr:
		x, err := v.eval(scope, node.X)
		if err != nil {
			return err
		}
		key, err := v.eval(scope, node.Y)
		if err != nil {
			return err
		}
		return setIndex(x, key, val)

	case *syntax.DotExpr:
		x, err := v.eval(scope, node.X)
		if err != nil {
			return err
		}
		return setField(x, node.Name.Name, val)
	}

	return fmt.Errorf("cannot assign to %T", lhs)
}

func (v *VM) unpack(scope *Env, targets []syntax.Expr, val starlark.Value) error {
	iter := iterate(val)
	if iter == nil {
		return fmt.Errorf("cannot unpack non-iterable %s value", val.Type())
	}
	var elems []starlark.Value
	var elem starlark.Value
	for iter.Next(&elem) {
		elems = append(elems, elem)
		if len(elems) > len(targets) {
			break
		}
	}
	iter.Done()
	if len(elems) > len(targets) {
		return fmt.Errorf("too many values to unpack (expected %d)", len(targets))
	}
	if len(elems) < len(targets) {
		return fmt.Errorf("not enough values to unpack (expected %d, got %d)", len(targets), len(elems))
	}
	for i, target := range targets {
		if err := v.assign(scope, target, elems[i]); err != nil {
			return err
		}
	}
	return nil
}

func unparen(e syntax.Expr) syntax.Expr {
	for {
		p, ok := e.(*syntax.ParenExpr)
		if !ok {
			return e
		}
		e = p.X
	}
}
