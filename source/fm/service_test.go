package fm_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/ElementialCoder/fmath/source/err"
	"github.com/ElementialCoder/fmath/source/fm"
	"github.com/ElementialCoder/fmath/source/test_helper"
)

func TestInitializedService(t *testing.T) {
	tests := []test_helper.TestItem{
		{`radius`, `2`},
		{`area(1)`, `3`},
		{`area(radius)`, `12`},
		{`var radius = 3`, `OK`},
		{"var radius = 3\narea(radius)", `27`},
	}
	test_helper.RunTest(t, "script.mth", tests, test_helper.TestValues)
}

func TestServiceErrors(t *testing.T) {
	tests := []test_helper.TestItem{
		{`area(1)`, `no error`},
		{`area()`, `parse/prefix`},
		{`area(1, 2)`, `vm/func/arity`},
		{`perimeter(1)`, `vm/func/unknown`},
		{`sin(1, 2)`, `comp/args`},
		{`(1`, `parse/rparen/group`},
	}
	test_helper.RunTest(t, "script.mth", tests, test_helper.TestErrors)
}

func TestServiceReporting(t *testing.T) {
	sv := fm.NewService()
	if _, _, e := sv.Do("1 + * 2"); e == nil {
		t.Fatalf("wanted an error")
	}
	if !sv.ErrorsExist() {
		t.Fatalf("the error should be kept")
	}
	if report := sv.GetErrorReport(); !strings.Contains(report, "[0]") {
		t.Fatalf("unexpected report %q", report)
	}
	if explanation, e := sv.ExplainError(0); e != nil || explanation == "" {
		t.Fatalf("wanted an explanation, got %q, %v", explanation, e)
	}
	if _, e := sv.ExplainError(1); e == nil {
		t.Fatalf("there is no error 1")
	}
	if _, _, e := sv.Do("2"); e != nil || sv.ErrorsExist() {
		t.Fatalf("a good line should clear the errors")
	}
}

func TestServiceState(t *testing.T) {
	sv := fm.NewService()
	if e := sv.InitializeFromCode("def inc(x) = x + 1\nvar a = 1"); e != nil {
		t.Fatal(e)
	}
	sv.SetVariable("b", 41)
	if v, ok, e := sv.Do("inc(b)"); e != nil || !ok || v != 42 {
		t.Fatalf("wanted 42, got %v, %v, %v", v, ok, e)
	}
	node, program := sv.Last()
	if node.String() != "inc(b)" || len(program) != 2 {
		t.Fatalf("unexpected last line %v", node)
	}
	names, values := sv.Variables()
	if len(names) != 2 || names[0] != "a" || values[1] != 41 {
		t.Fatalf("unexpected variables %v %v", names, values)
	}
	if _, ok := sv.Functions().Get("inc"); !ok {
		t.Fatalf("inc should be defined")
	}
	if _, _, e := sv.Compile("def dec(x) = x - 1\ndec(1)"); e != nil {
		t.Fatal(e)
	}
	if _, ok := sv.Functions().Get("dec"); ok {
		t.Fatalf("Compile should not keep definitions")
	}
	sv.Reset()
	if _, ok := sv.GetVariable("a"); ok {
		t.Fatalf("Reset should forget the variables")
	}
	if len(sv.Functions()) != 0 {
		t.Fatalf("Reset should forget the functions")
	}
}

func TestRecursionIsRejected(t *testing.T) {
	sv := fm.NewService()
	if _, _, e := sv.Do("def f(x) = g(x) + 1"); e != nil {
		t.Fatal(e)
	}
	_, _, e := sv.Do("def g(x) = f(x)")
	var ce *err.Error
	if !errors.As(e, &ce) || ce.ErrorId != "comp/recursion" {
		t.Fatalf("wanted comp/recursion, got %v", e)
	}
	if !strings.Contains(ce.Message, "'f -> g -> f'") && !strings.Contains(ce.Message, "'g -> f -> g'") {
		t.Fatalf("unexpected message %q", ce.Message)
	}
	if _, ok := sv.Functions().Get("g"); ok {
		t.Fatalf("g shouldn't have been defined")
	}
	if _, _, e := sv.Do("def g(x) = x * 2"); e != nil {
		t.Fatal(e)
	}
	if v, ok, e := sv.Do("f(3)"); e != nil || !ok || v != 7 {
		t.Fatalf("wanted 7, got %v, %v, %v", v, ok, e)
	}
}

func TestMissingFile(t *testing.T) {
	sv := fm.NewService()
	if e := sv.InitializeFromFilepath("test-files/no-such-file.mth"); e == nil {
		t.Fatalf("wanted an error")
	}
}
