package text

import (
	"testing"

	"github.com/ElementialCoder/fmath/source/token"
)

func TestHighlightLine(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"there aren't that many errors", "there aren't that many errors"},
		{"a 'b' c", "a " + CYAN + "'b'" + RESET + " c"},
		{"$Error$x", RED + "Error" + RESET + ": x"},
		{"f('x')", "f(" + CYAN + "'x'" + RESET + ")"},
	}
	for _, test := range tests {
		if got, highlighter := HighlightLine(test.in, ' '); got != test.want || highlighter != ' ' {
			t.Fatalf("%q: wanted %q, got %q", test.in, test.want, got)
		}
	}
}

func TestPretty(t *testing.T) {
	tests := []struct {
		in     string
		margin int
		want   string
	}{
		{"not a compiled fmath program", 92, "not a compiled fmath program\n"},
		{"aaa bbb ccc", 7, "aaa\nbbb ccc\n"},
		{"abcdefghij", 4, "abcd\nefgh\nij\n"},
		{"one\ntwo", 92, "one\ntwo\n"},
		{"\nabc", 92, "\nabc\n"},
		{"a b", 0, "a\nb\n"},
	}
	for _, test := range tests {
		if got := Pretty(test.in, 0, test.margin); got != test.want {
			t.Fatalf("%q: wanted %q, got %q", test.in, test.want, got)
		}
	}
}

func TestDescribeTok(t *testing.T) {
	tests := []struct {
		tok  token.Token
		want string
	}{
		{token.Token{Type: token.EOL}, "end of line"},
		{token.Token{Type: token.NUMBER, Literal: "2.5"}, "number '2.5'"},
		{token.Token{Type: token.OPERATOR, Literal: "*"}, "operator '*'"},
		{token.Token{Type: token.RPAREN, Literal: ")"}, "')'"},
	}
	for _, test := range tests {
		if got := DescribeTok(&test.tok); got != test.want {
			t.Fatalf("wanted %q, got %q", test.want, got)
		}
	}
}
