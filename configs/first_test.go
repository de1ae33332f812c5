package configs

import (
	"testing"
)

func TestFirst(t *testing.T) {
	loader := NewLoader([]string{"test.cue"}, testSchema)

	str := First[string](loader, "str")
	if str != "bar" {
		t.Fatalf("got %v", str)
	}

	if n := First[int](loader, "missing"); n != 0 {
		t.Fatalf("got %v", n)
	}
}

type testSteps int

func (testSteps) ConfigPath() string {
	return "steps"
}

func TestGet(t *testing.T) {
	loader := NewLoader([]string{"test.cue", "test2.cue"}, testSchema)
	if n := Get[testSteps](loader); n != 50 {
		t.Fatalf("got %v", n)
	}
}
