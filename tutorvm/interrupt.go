package tutorvm

// Interrupt is yielded by Run before a statement line executes.
type Interrupt struct {
	Line  int
	Func  string
	Scope *Env
}

// Module is the function name reported for top-level code.
const Module = "<module>"
