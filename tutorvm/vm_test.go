package tutorvm

import (
	"bytes"
	"errors"
	"slices"
	"strings"
	"testing"

	"go.starlark.net/starlark"
)

func run(t *testing.T, src string) *VM {
	t.Helper()
	program, err := Compile("test", src)
	if err != nil {
		t.Fatal(err)
	}
	vm := NewVM(program, nil, WithStdout(new(bytes.Buffer)))
	for _, err := range vm.Run {
		if err != nil {
			t.Fatalf("runtime error: %v", err)
		}
	}
	return vm
}

func runError(t *testing.T, src string) *RuntimeError {
	t.Helper()
	program, err := Compile("test", src)
	if err != nil {
		t.Fatal(err)
	}
	vm := NewVM(program, nil, WithStdout(new(bytes.Buffer)))
	var rerr *RuntimeError
	for _, err := range vm.Run {
		if err != nil {
			if !errors.As(err, &rerr) {
				t.Fatalf("got %T, want *RuntimeError", err)
			}
		}
	}
	if rerr == nil {
		t.Fatal("expected runtime error")
	}
	return rerr
}

func check(t *testing.T, vm *VM, name string, want string) {
	t.Helper()
	if val, ok := vm.Get(name); !ok {
		t.Errorf("%s not found", name)
	} else if val.String() != want {
		t.Errorf("%s = %s, want %s", name, val, want)
	}
}

func TestOps(t *testing.T) {
	vm := run(t, `
a = 10
b = 3
c = a + b
d = a - b
e = a * b
f = 10 / 4
g = a // b
h = a % b
i = pow(a, b)
j = a == b
k = a < b
l = 1 in [1, 2, 3]
m = 1 not in [1, 2, 3]
n = (1 < 2) and (2 < 3)
o = 0 or "fallback"
p = -a
q = not a
r = "big" if a > 5 else "small"
`)
	check(t, vm, "c", "13")
	check(t, vm, "d", "7")
	check(t, vm, "e", "30")
	check(t, vm, "f", "2.5")
	check(t, vm, "g", "3")
	check(t, vm, "h", "1")
	check(t, vm, "i", "1000")
	check(t, vm, "j", "False")
	check(t, vm, "k", "False")
	check(t, vm, "l", "True")
	check(t, vm, "m", "False")
	check(t, vm, "n", "True")
	check(t, vm, "o", `"fallback"`)
	check(t, vm, "p", "-10")
	check(t, vm, "q", "False")
	check(t, vm, "r", `"big"`)
}

func TestAssign(t *testing.T) {
	vm := run(t, `
a, b = 1, 2
a, b = b, a
[c, d] = "xy"
xs = [1, 2, 3]
xs[0] = 10
xs[-1] += 5
ys = xs
ys += [4]
total = 0
total += len(xs)
m = {"k": 1}
m["k"] *= 7
`)
	check(t, vm, "a", "2")
	check(t, vm, "b", "1")
	check(t, vm, "c", `"x"`)
	check(t, vm, "d", `"y"`)
	check(t, vm, "xs", "[10, 2, 8, 4]")
	check(t, vm, "total", "4")
	check(t, vm, "m", `{"k": 7}`)
}

func TestControlFlow(t *testing.T) {
	vm := run(t, `
evens = []
for i in range(10):
    if i == 7:
        break
    if i % 2 == 1:
        continue
    evens.append(i)
n = 5
steps = 0
while n > 0:
    n -= 1
    steps += 1
if n < 0:
    kind = "negative"
elif n == 0:
    kind = "zero"
else:
    kind = "positive"
`)
	check(t, vm, "evens", "[0, 2, 4, 6]")
	check(t, vm, "steps", "5")
	check(t, vm, "kind", `"zero"`)
}

func TestFunctions(t *testing.T) {
	vm := run(t, `
def greet(name, greeting="Hello"):
    return greeting + ", " + name

def fact(n):
    if n <= 1:
        return 1
    return n * fact(n - 1)

def collect(first, *rest, **opts):
    return [first, rest, opts]

def nothing():
    pass

a = greet("Sam")
b = greet("Sam", greeting="Hi")
c = fact(20)
d = collect(1, 2, 3, sep="-")
e = nothing()
f = sorted(["ccc", "a", "bb"], key=lambda s: len(s))
g = greet(*["Ana"], **{"greeting": "Hey"})
h = str(greet)
`)
	check(t, vm, "a", `"Hello, Sam"`)
	check(t, vm, "b", `"Hi, Sam"`)
	check(t, vm, "c", "2432902008176640000")
	check(t, vm, "d", `[1, (2, 3), {"sep": "-"}]`)
	check(t, vm, "e", "None")
	check(t, vm, "f", `["a", "bb", "ccc"]`)
	check(t, vm, "g", `"Hey, Ana"`)
	check(t, vm, "h", `"<function greet>"`)
}

func TestClosure(t *testing.T) {
	vm := run(t, `
def make_adder(n):
    def add(x):
        return x + n
    return add
add2 = make_adder(2)
a = add2(40)
`)
	check(t, vm, "a", "42")
}

func TestComprehensions(t *testing.T) {
	vm := run(t, `
squares = [x * x for x in range(5)]
odd = [x for x in range(10) if x % 2 == 1]
pairs = [(a, b) for a in range(2) for b in "xy"]
lengths = {w: len(w) for w in ["hi", "hello"]}
`)
	check(t, vm, "squares", "[0, 1, 4, 9, 16]")
	check(t, vm, "odd", "[1, 3, 5, 7, 9]")
	check(t, vm, "pairs", `[(0, "x"), (0, "y"), (1, "x"), (1, "y")]`)
	check(t, vm, "lengths", `{"hi": 2, "hello": 5}`)
	if _, ok := vm.Get("x"); ok {
		t.Fatal("comprehension variable leaked")
	}
}

func TestSliceAndIndex(t *testing.T) {
	vm := run(t, `
s = "hello"
a = s[1:4]
b = s[::-1]
c = s[-1]
d = s[10:]
xs = [0, 1, 2, 3, 4, 5]
e = xs[::2]
f = xs[-2:]
g = xs[4:1:-1]
h = "Hi".upper()
`)
	check(t, vm, "a", `"ell"`)
	check(t, vm, "b", `"olleh"`)
	check(t, vm, "c", `"o"`)
	check(t, vm, "d", `""`)
	check(t, vm, "e", "[0, 2, 4]")
	check(t, vm, "f", "[4, 5]")
	check(t, vm, "g", "[4, 3, 2]")
	check(t, vm, "h", `"HI"`)
}

func TestBuiltins(t *testing.T) {
	vm := run(t, `
a = sum([1, 2, 3])
b = sum([1.5, 2.5], 1)
c = round(2.5)
d = round(3.14159, 2)
e = pow(2, 0.5) > 1.41
f = max([4, 9, 1])
`)
	check(t, vm, "a", "6")
	check(t, vm, "b", "5.0")
	check(t, vm, "c", "2")
	check(t, vm, "d", "3.14")
	check(t, vm, "e", "True")
	check(t, vm, "f", "9")
}

func TestPrint(t *testing.T) {
	program, err := Compile("", `print("hi", 1)
print("bye")
`)
	if err != nil {
		t.Fatal(err)
	}
	out := new(bytes.Buffer)
	vm := NewVM(program, nil, WithStdout(out))
	for _, err := range vm.Run {
		if err != nil {
			t.Fatal(err)
		}
	}
	if got := out.String(); got != "hi 1\nbye\n" {
		t.Fatalf("got %q", got)
	}
}

func TestInterrupts(t *testing.T) {
	program, err := Compile("", `total = 0
for i in range(2):
    total += i
print(total)
`)
	if err != nil {
		t.Fatal(err)
	}
	vm := NewVM(program, nil, WithStdout(new(bytes.Buffer)))
	var lines []int
	for intr, err := range vm.Run {
		if err != nil {
			t.Fatal(err)
		}
		if intr.Func != Module {
			t.Fatalf("got func %s", intr.Func)
		}
		lines = append(lines, intr.Line)
	}
	want := []int{1, 2, 3, 2, 3, 2, 4}
	if !slices.Equal(lines, want) {
		t.Fatalf("got %v, want %v", lines, want)
	}
	if vm.hook != nil {
		t.Fatal("hook not restored")
	}
}

func TestInterruptsInFunction(t *testing.T) {
	program, err := Compile("", `def f(x):
    y = x + 1
    return y
z = f(1)
`)
	if err != nil {
		t.Fatal(err)
	}
	vm := NewVM(program, nil)
	var funcs []string
	for intr, err := range vm.Run {
		if err != nil {
			t.Fatal(err)
		}
		funcs = append(funcs, intr.Func)
		if intr.Func == "f" && intr.Line == 3 {
			if val, ok := intr.Scope.Get("y"); !ok || val.String() != "2" {
				t.Fatalf("got y = %v", val)
			}
			if intr.Scope.Len() != 2 {
				t.Fatalf("got %v", intr.Scope.Names())
			}
		}
	}
	want := []string{Module, Module, "f", "f"}
	if !slices.Equal(funcs, want) {
		t.Fatalf("got %v, want %v", funcs, want)
	}
}

func TestAbort(t *testing.T) {
	program, err := Compile("", `n = 0
while True:
    n += 1
`)
	if err != nil {
		t.Fatal(err)
	}
	vm := NewVM(program, nil)
	count := 0
	for _, err := range vm.Run {
		if err != nil {
			t.Fatal(err)
		}
		count++
		if count == 10 {
			break
		}
	}
	if count != 10 {
		t.Fatalf("got %d", count)
	}
	if vm.hook != nil {
		t.Fatal("hook not restored")
	}
}

func TestRuntimeError(t *testing.T) {
	err := runError(t, `def div(a, b):
    return a / b
x = 1
y = div(x, 0)
`)
	if len(err.Frames) != 2 {
		t.Fatalf("got %+v", err.Frames)
	}
	if err.Line() != 2 {
		t.Fatalf("got line %d", err.Line())
	}
	tb := err.Traceback()
	for _, want := range []string{
		"Traceback (most recent call last):",
		`File "test", line 4, in <module>`,
		"y = div(x, 0)",
		`File "test", line 2, in div`,
		"return a / b",
		"Error: ",
	} {
		if !strings.Contains(tb, want) {
			t.Fatalf("traceback missing %q:\n%s", want, tb)
		}
	}
}

func TestRuntimeErrorMessages(t *testing.T) {
	for _, c := range []struct {
		src  string
		want string
	}{
		{"x = y\n", "name 'y' is not defined"},
		{"a, b = [1]\n", "not enough values to unpack (expected 2, got 1)"},
		{"a, b = [1, 2, 3]\n", "too many values to unpack (expected 2)"},
		{"def f(a):\n    pass\nf()\n", "f() missing 1 required argument: 'a'"},
		{"def f(a):\n    pass\nf(1, 2)\n", "f() takes 1 positional arguments but 2 were given"},
		{"def f(a):\n    pass\nf(b=1)\n", "f() got an unexpected keyword argument 'b'"},
		{"def f():\n    return f()\nf()\n", "maximum recursion depth exceeded"},
		{"[1][5]\n", "list index out of range"},
		{"{}['k']\n", `key "k" not found in dict`},
		{"break\n", "'break' outside loop"},
		{`load("x", "y")` + "\n", "cannot load x"},
	} {
		err := runError(t, c.src)
		if !strings.Contains(err.Msg, c.want) {
			t.Errorf("%q: got %q, want %q", c.src, err.Msg, c.want)
		}
	}
}

func TestMaxDepth(t *testing.T) {
	program, err := Compile("", `def f(n):
    if n == 0:
        return 0
    return f(n - 1)
f(10)
`)
	if err != nil {
		t.Fatal(err)
	}
	vm := NewVM(program, nil, WithMaxDepth(5))
	var got error
	for _, err := range vm.Run {
		if err != nil {
			got = err
		}
	}
	if got == nil || !strings.Contains(got.Error(), "maximum recursion depth exceeded") {
		t.Fatalf("got %v", got)
	}
}

func TestSharedGlobals(t *testing.T) {
	globals := NewEnv()
	for _, src := range []string{
		"def double(x):\n    return x * 2\n",
		"y = double(21)\n",
	} {
		program, err := Compile("", src)
		if err != nil {
			t.Fatal(err)
		}
		vm := NewVM(program, globals)
		for _, err := range vm.Run {
			if err != nil {
				t.Fatal(err)
			}
		}
	}
	if val, ok := globals.Get("y"); !ok || val.String() != "42" {
		t.Fatalf("got %v", val)
	}
}

func TestCallFromForeignThread(t *testing.T) {
	globals := NewEnv()
	program, err := Compile("", "base = 40\ndef add(x):\n    return base + x\n")
	if err != nil {
		t.Fatal(err)
	}
	for _, err := range NewVM(program, globals).Run {
		if err != nil {
			t.Fatal(err)
		}
	}
	fn, _ := globals.Get("add")
	res, err := starlark.Call(new(starlark.Thread), fn, starlark.Tuple{starlark.MakeInt(2)}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.String() != "42" {
		t.Fatalf("got %v", res)
	}
}

func TestLocalBeforeAssignment(t *testing.T) {
	for _, c := range []struct {
		src  string
		line int
		want string
	}{
		{"count = 0\ndef inc():\n    count += 1\ninc()\nprint(count)\n", 3,
			"local variable 'count' referenced before assignment"},
		{"x = 1\ndef f():\n    print(x)\n    x = 2\nf()\n", 3,
			"local variable 'x' referenced before assignment"},
		{"def f():\n    for i in range(2):\n        pass\n    return i\ndef g():\n    return total\n    total = 0\ng()\n", 6,
			"local variable 'total' referenced before assignment"},
		{"def f():\n    def helper():\n        return y\n    y = helper()\nf()\n", 3,
			"local variable 'y' referenced before assignment"},
	} {
		err := runError(t, c.src)
		if !strings.Contains(err.Msg, c.want) {
			t.Errorf("%q: got %q, want %q", c.src, err.Msg, c.want)
		}
		if err.Line() != c.line {
			t.Errorf("%q: got line %d, want %d", c.src, err.Line(), c.line)
		}
	}
}

func TestLocalScoping(t *testing.T) {
	vm := run(t, `
count = 0
def bump():
    count = 10
    count += 1
    return count
def read():
    return count + 1
def loop():
    total = 0
    for i in range(3):
        total += i
    return [total, i]
a = bump()
b = read()
c = loop()
`)
	check(t, vm, "count", "0")
	check(t, vm, "a", "11")
	check(t, vm, "b", "1")
	check(t, vm, "c", "[3, 2]")
}

func TestHookRestored(t *testing.T) {
	program, err := Compile("", "a = 1\nb = 2\n")
	if err != nil {
		t.Fatal(err)
	}

	for _, abort := range []bool{false, true} {
		vm := NewVM(program, nil)
		installed := 0
		vm.hook = func(*Interrupt, error) bool {
			installed++
			return true
		}
		for _, err := range vm.Run {
			if err != nil {
				t.Fatal(err)
			}
			if abort {
				break
			}
		}
		if vm.hook == nil {
			t.Fatalf("abort=%v: hook dropped", abort)
		}
		vm.hook(nil, nil)
		if installed != 1 {
			t.Fatalf("abort=%v: previous hook not restored", abort)
		}
		if len(vm.frames) != 0 {
			t.Fatalf("abort=%v: got %d frames", abort, len(vm.frames))
		}
	}
}

func TestNestedRun(t *testing.T) {
	program, err := Compile("", "a = 1\nb = 2\n")
	if err != nil {
		t.Fatal(err)
	}

	for _, abort := range []bool{false, true} {
		vm := NewVM(program, nil)
		var outer, inner []int
		for intr, err := range vm.Run {
			if err != nil {
				t.Fatal(err)
			}
			outer = append(outer, intr.Line)
			if len(outer) > 1 {
				continue
			}
			for intr, err := range vm.Run {
				if err != nil {
					t.Fatal(err)
				}
				inner = append(inner, intr.Line)
				if abort {
					break
				}
			}
		}
		if !slices.Equal(outer, []int{1, 2}) {
			t.Fatalf("abort=%v: outer got %v", abort, outer)
		}
		want := []int{1, 2}
		if abort {
			want = []int{1}
		}
		if !slices.Equal(inner, want) {
			t.Fatalf("abort=%v: inner got %v", abort, inner)
		}
		if vm.hook != nil {
			t.Fatalf("abort=%v: hook not cleared", abort)
		}
	}
}
