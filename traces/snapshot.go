package traces

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/reusee/tutor/tutorvm"
	"go.starlark.net/starlark"
)

const DefaultMaxValueWidth = 60

// Snapshot maps variable names to display strings.
type Snapshot map[string]string

// TakeSnapshot captures the bindings of scope, parents excluded.
func TakeSnapshot(scope *tutorvm.Env, width int) Snapshot {
	ret := make(Snapshot, scope.Len())
	for name, value := range scope.All() {
		if isDunder(name) {
			continue
		}
		ret[name] = Display(value, width)
	}
	return ret
}

func isDunder(name string) bool {
	return strings.HasPrefix(name, "__") && strings.HasSuffix(name, "__")
}

// Display renders value as the learner would write it, cut to width runes.
func Display(value starlark.Value, width int) (ret string) {
	defer func() {
		if p := recover(); p != nil {
			ret = fmt.Sprintf("<unreprable %s>", value.Type())
		}
	}()
	return truncate(Repr(value), width)
}

func truncate(s string, width int) string {
	if width <= 3 || utf8.RuneCountInString(s) <= width {
		return s
	}
	runes := []rune(s)
	return string(runes[:width-3]) + "..."
}

// Repr formats value with Python conventions: single-quoted strings, dict and
// set braces, one-element tuples with a trailing comma.
func Repr(value starlark.Value) string {
	var b strings.Builder
	writeRepr(&b, value, make(map[starlark.Value]bool))
	return b.String()
}

func writeRepr(b *strings.Builder, value starlark.Value, visiting map[starlark.Value]bool) {
	switch v := value.(type) {

	case starlark.String:
		writeQuoted(b, string(v))

	case *starlark.List:
		if visiting[v] {
			b.WriteString("[...]")
			return
		}
		visiting[v] = true
		defer delete(visiting, v)
		b.WriteString("[")
		for i := 0; i < v.Len(); i++ {
			if i > 0 {
				b.WriteString(", ")
			}
			writeRepr(b, v.Index(i), visiting)
		}
		b.WriteString("]")

	case starlark.Tuple:
		b.WriteString("(")
		for i, elem := range v {
			if i > 0 {
				b.WriteString(", ")
			}
			writeRepr(b, elem, visiting)
		}
		if len(v) == 1 {
			b.WriteString(",")
		}
		b.WriteString(")")

	case *starlark.Dict:
		if visiting[v] {
			b.WriteString("{...}")
			return
		}
		visiting[v] = true
		defer delete(visiting, v)
		b.WriteString("{")
		for i, item := range v.Items() {
			if i > 0 {
				b.WriteString(", ")
			}
			writeRepr(b, item[0], visiting)
			b.WriteString(": ")
			writeRepr(b, item[1], visiting)
		}
		b.WriteString("}")

	case *starlark.Set:
		if v.Len() == 0 {
			b.WriteString("set()")
			return
		}
		b.WriteString("{")
		iter := v.Iterate()
		defer iter.Done()
		var elem starlark.Value
		for i := 0; iter.Next(&elem); i++ {
			if i > 0 {
				b.WriteString(", ")
			}
			writeRepr(b, elem, visiting)
		}
		b.WriteString("}")

	default:
		b.WriteString(value.String())
	}
}

func writeQuoted(b *strings.Builder, s string) {
	quote := '\''
	if strings.ContainsRune(s, '\'') && !strings.ContainsRune(s, '"') {
		quote = '"'
	}
	b.WriteRune(quote)
	for _, r := range s {
		switch {
		case r == quote || r == '\\':
			b.WriteRune('\\')
			b.WriteRune(r)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\t':
			b.WriteString(`\t`)
		case r == '\r':
			b.WriteString(`\r`)
		case r < 0x20 || r == 0x7f:
			fmt.Fprintf(b, `\x%02x`, r)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteRune(quote)
}
