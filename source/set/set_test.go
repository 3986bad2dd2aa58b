package set

import (
	"sort"
	"testing"
)

func TestSet(t *testing.T) {
	S := MakeFromSlice([]string{"f", "g", "f"})
	if len(S) != 2 {
		t.Fatalf("expected 2 elements, got %d", len(S))
	}
	if !S.Contains("g") || S.Contains("h") {
		t.Fatalf("bad membership for %v", S)
	}
	got := S.ToSlice()
	sort.Strings(got)
	if got[0] != "f" || got[1] != "g" {
		t.Fatalf("ToSlice gave %v", got)
	}
	if _, ok := S.GetArbitraryElement(); !ok {
		t.Fatalf("no element found in non-empty set")
	}
	empty := Set[string]{}
	if !empty.IsEmpty() || empty.String() != "{}" {
		t.Fatalf("bad empty set %v", empty)
	}
	if _, ok := empty.GetArbitraryElement(); ok {
		t.Fatalf("found an element of the empty set")
	}
}
