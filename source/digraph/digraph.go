package digraph

// We have a digraph given as a map associating each node with the set of nodes it points
// to. For fmath the nodes are user-defined functions and the arrows say which functions
// each body calls. Since the language has no conditionals, a function that can reach
// itself never terminates, so we want to list the functions such that every function comes
// after the ones it calls, or, if that can't be done, to produce a cycle as evidence.

// We can do this like this:

// while there are leaf nodes in the graph :
// add all the leaf nodes to the end of the list
// remove the leaf nodes from the graph
// if there are still nodes in the graph :
// the graph is cyclic, and what remains contains a cycle
// otherwise :
// return the list

// If the graph is acyclic this must terminate with an empty graph. If it contains a cycle
// then we run out of leaf nodes while the graph is non-empty, since no member of the cycle
// is a leaf node.

import (
	"github.com/ElementialCoder/fmath/source/set"
)

type Digraph[E comparable] map[E]set.Set[E]

// Arrows to nodes which aren't in the digraph are not allowed: the caller should leave them
// out when building it.
func (D Digraph[E]) Add(node E, neighbors []E) {
	D[node] = set.MakeFromSlice(neighbors)
}

func (D Digraph[E]) PointsTo(candidate, target E) bool {
	return D[candidate].Contains(target)
}

// Ordering returns the nodes in order and a cycle: if the cycle is of length zero then the
// order is valid. It consumes the digraph.
func Ordering[E comparable](D Digraph[E]) ([]E, []E) {
	result := []E{}
	for leafnodes := D.StripLeafnodes(); len(leafnodes) > 0; leafnodes = D.StripLeafnodes() {
		result = append(result, leafnodes.ToSlice()...)
	}
	return result, extractCycle(D)
}

func (D Digraph[E]) StripLeafnodes() set.Set[E] {
	result := set.Set[E]{}
	for k, v := range D {
		if v.IsEmpty() {
			result.Add(k)
		}
	}
	for k := range result {
		delete(D, k)
	}
	for _, V := range D {
		for e := range result {
			delete(V, e)
		}
	}
	return result
}

// If the digraph left over by Ordering is non-empty then every node in it points to another
// node in it, so walking from any node must eventually revisit one.
func extractCycle[E comparable](D Digraph[E]) []E {
	var start E
	found := false
	for k := range D {
		start, found = k, true
		break
	}
	if !found {
		return []E{}
	}
	result := []E{start}
	next := start
	for {
		var ok bool
		next, ok = D[next].GetArbitraryElement()
		if !ok {
			panic("extractCycle has found a leaf node")
		}
		if i := Index(result, next); i != -1 {
			return result[i:]
		}
		result = append(result, next)
	}
}

func Index[E comparable](slice []E, element E) int {
	for k, v := range slice {
		if v == element {
			return k
		}
	}
	return -1
}
