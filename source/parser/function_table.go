package parser

import (
	"sort"

	"github.com/ElementialCoder/fmath/source/ast"
)

// A user-defined function: one parameter and a body which is evaluated by walking the tree.
type Function struct {
	Param string
	Body  ast.Node
}

type FunctionTable map[string]*Function

// Redefinition silently replaces the old definition.
func (ft FunctionTable) Add(name, param string, body ast.Node) {
	ft[name] = &Function{Param: param, Body: body}
}

func (ft FunctionTable) Get(name string) (*Function, bool) {
	f, ok := ft[name]
	return f, ok
}

func (ft FunctionTable) Names() []string {
	result := make([]string, 0, len(ft))
	for k := range ft {
		result = append(result, k)
	}
	sort.Strings(result)
	return result
}

func (ft FunctionTable) Describe(name string) string {
	f, ok := ft[name]
	if !ok {
		return ""
	}
	return "def " + name + "(" + f.Param + ") = " + f.Body.String()
}
