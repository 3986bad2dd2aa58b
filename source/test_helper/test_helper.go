package test_helper

import (
	"os"
	"testing"

	"github.com/ElementialCoder/fmath/source/fm"
	"github.com/ElementialCoder/fmath/source/settings"
	"github.com/ElementialCoder/fmath/source/text"
	"github.com/ElementialCoder/fmath/source/vm"
)

// Auxiliary types and functions for testing the parser, compiler and vm.

type TestItem struct {
	Input string
	Want  string
}

// RunTest makes a fresh service for each test, initialized from the named file in the
// package's test-files directory if there is one, and compares what F makes of the input
// with what we want.
func RunTest(t *testing.T, filename string, tests []TestItem, F func(sv *fm.Service, s string) (string, error)) {
	wd, _ := os.Getwd() // The working directory is the directory containing the package being tested.
	for _, test := range tests {
		if settings.SHOW_TESTS {
			println(text.BULLET + "Running test " + text.Emph(test.Input))
		}
		sv := fm.NewService()
		if filename != "" {
			if e := sv.InitializeFromFilepath(wd + "/test-files/" + filename); e != nil {
				t.Fatal("There were errors initializing the service : \n" + sv.GetErrorReport() + e.Error())
			}
		}
		got, e := F(sv, test.Input)
		if e != nil {
			println(text.Red(test.Input))
			println("There were errors running the line: \n" + sv.GetErrorReport() + "\n")
		}
		if !(test.Want == got) {
			t.Fatalf(`Test failed with input %s | Wanted : %s | Got : %s.`, test.Input, test.Want, got)
		}
	}
}

// The value of the line, or "OK" if it hasn't got one.
func TestValues(sv *fm.Service, s string) (string, error) {
	v, ok, e := sv.Do(s)
	if e != nil {
		return "", e
	}
	if !ok {
		return "OK", nil
	}
	return fm.Format(v), nil
}

// The identifier of the first error the line produces.
func TestErrors(sv *fm.Service, s string) (string, error) {
	_, _, e := sv.Do(s)
	if e == nil {
		return "no error", nil
	}
	if !sv.ErrorsExist() {
		return e.Error(), nil
	}
	return sv.GetErrors()[0].ErrorId, nil
}

// The canonical form of the parsed line.
func TestParserOutput(sv *fm.Service, s string) (string, error) {
	node, _, e := sv.Compile(s)
	if e != nil {
		return "", e
	}
	return node.String(), nil
}

// The disassembled code of the line.
func TestCompilerOutput(sv *fm.Service, s string) (string, error) {
	_, program, e := sv.Compile(s)
	if e != nil {
		return "", e
	}
	return vm.Describe(program), nil
}
