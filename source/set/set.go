package set

import (
	"fmt"
	"strings"
)

type Set[E comparable] map[E]struct{}

func MakeFromSlice[E comparable](slice []E) Set[E] {
	S := Set[E]{}
	for _, v := range slice {
		S.Add(v)
	}
	return S
}

func (S Set[E]) String() string {
	elements := make([]string, 0, len(S))
	for e := range S {
		elements = append(elements, fmt.Sprintf("%v", e))
	}
	return "{" + strings.Join(elements, ", ") + "}"
}

func (S Set[E]) ToSlice() []E {
	result := make([]E, 0, len(S))
	for e := range S {
		result = append(result, e)
	}
	return result
}

func (S Set[E]) IsEmpty() bool {
	return len(S) == 0
}

func (S Set[E]) Add(e E) {
	S[e] = struct{}{}
}

func (S Set[E]) Contains(e E) bool {
	_, found := S[e]
	return found
}

// Which element you get is up to the map iteration order.
func (S Set[E]) GetArbitraryElement() (E, bool) {
	for e := range S {
		return e, true
	}
	var zero E
	return zero, false
}
