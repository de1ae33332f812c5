package tutorvm

import "go.starlark.net/syntax"

// localNames collects the names a function body binds. Each of them is local
// to the whole body, so reading one before it is bound is an error rather
// than a read of the global. Nested defs bind only their own name; lambdas
// and comprehensions bind nothing in the enclosing body.
func localNames(body []syntax.Stmt) map[string]bool {
	names := make(map[string]bool)

	var bind func(expr syntax.Expr)
	bind = func(expr syntax.Expr) {
		switch e := expr.(type) {
		case *syntax.Ident:
			names[e.Name] = true
		case *syntax.ParenExpr:
			bind(e.X)
		case *syntax.ListExpr:
			for _, elem := range e.List {
				bind(elem)
			}
		case *syntax.TupleExpr:
			for _, elem := range e.List {
				bind(elem)
			}
		}
	}

	var walk func(stmts []syntax.Stmt)
	walk = func(stmts []syntax.Stmt) {
		for _, stmt := range stmts {
			switch s := stmt.(type) {
			case *syntax.AssignStmt:
				bind(s.LHS)
			case *syntax.DefStmt:
				names[s.Name.Name] = true
			case *syntax.ForStmt:
				bind(s.Vars)
				walk(s.Body)
			case *syntax.WhileStmt:
				walk(s.Body)
			case *syntax.IfStmt:
				walk(s.True)
				walk(s.False)
			case *syntax.LoadStmt:
				for _, ident := range s.To {
					names[ident.Name] = true
				}
			}
		}
	}
	walk(body)

	if len(names) == 0 {
		return nil
	}
	return names
}
