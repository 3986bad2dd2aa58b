package err

import (
	"errors"
	"testing"
)

func TestErrorsUnwrap(t *testing.T) {
	var e error = Errors{CreateErr("parse/eol", nil), CreateErr("comp/args", nil, "sin", 1, 2)}
	var first *Error
	if !errors.As(e, &first) || first.ErrorId != "parse/eol" {
		t.Fatalf("errors.As should find the first error, got %v", first)
	}
	if !errors.Is(e, Kind("comp/args")) {
		t.Fatalf("errors.Is should look at every error in the list")
	}
	if errors.Is(e, Kind("vm/var/unbound")) {
		t.Fatalf("errors.Is matched an identifier that isn't in the list")
	}
}

func TestCreateErr(t *testing.T) {
	if e := CreateErr("no/such/error", nil); e.ErrorId != "err/misdirect" {
		t.Fatalf("wanted err/misdirect, got %s", e.ErrorId)
	}
	ers := Throw("comp/args", Errors{}, nil, "pow", 2, 1)
	if len(ers) != 1 || ers.First().ErrorId != "comp/args" || Explain(ers, 0) == "" {
		t.Fatalf("unexpected errors %v", ers)
	}
}
