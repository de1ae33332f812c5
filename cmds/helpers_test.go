package cmds

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
)

func TestVar(t *testing.T) {
	steps := Var[int]("-test-steps", "step ceiling")
	name := Var[string]("-test-name")
	GlobalExecutor.MustExecute([]string{
		"-test-steps", "42",
		"-test-name", "loop_sum",
	})
	if *steps != 42 {
		t.Fatal()
	}
	if *name != "loop_sum" {
		t.Fatal()
	}
	GlobalExecutor.MustExecute([]string{
		"-test-steps.",
	})
	if *steps != 0 {
		t.Fatalf("got %d", *steps)
	}

	buf := new(bytes.Buffer)
	GlobalExecutor.WriteUsage(buf)
	if !strings.Contains(buf.String(), "step ceiling") {
		t.Fatalf("got %s", buf.String())
	}
}

func TestSwitch(t *testing.T) {
	color := Switch("TestSwitch")
	GlobalExecutor.Execute([]string{
		"TestSwitch",
	})
	if *color != true {
		t.Fatal()
	}
	GlobalExecutor.MustExecute([]string{
		"!TestSwitch",
	})
	if *color != false {
		t.Fatal()
	}
}

func TestCollect(t *testing.T) {
	files := Collect[string]("TestCollect")
	GlobalExecutor.MustExecute([]string{
		"TestCollect", "a.py",
		"TestCollect", "b.py",
	})
	if str := fmt.Sprintf("%v", *files); str != "[a.py b.py]" {
		t.Fatalf("got %s", str)
	}
}

func TestTypedVar(t *testing.T) {
	type Color string
	v := Var[Color]("TestTypedVar")
	GlobalExecutor.MustExecute([]string{
		"TestTypedVar", "never",
	})
	if *v != "never" {
		t.Fatal()
	}
}
