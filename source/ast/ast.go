package ast

import (
	"bytes"
	"strconv"

	"github.com/ElementialCoder/fmath/source/token"
)

// The base Node interface
type Node interface {
	Children() []Node
	GetToken() *token.Token
	String() string
}

// Nodes in alphabetical order. Other structures and functions are in a separate section at the bottom.

type AssignmentExpression struct {
	Token token.Token
	Name  string
	Value Node
}

func (ae *AssignmentExpression) Children() []Node       { return []Node{ae.Value} }
func (ae *AssignmentExpression) GetToken() *token.Token { return &ae.Token }
func (ae *AssignmentExpression) String() string {
	var out bytes.Buffer

	out.WriteString("(")
	out.WriteString(ae.Name)
	out.WriteString(" = ")
	out.WriteString(ae.Value.String())
	out.WriteString(")")

	return out.String()
}

// A call to a user-defined function. Argc is the number of arguments as written: if it isn't
// one, then Arg is a Sequence of them.
type FunctionCall struct {
	Token token.Token
	Name  string
	Arg   Node
	Argc  int
}

func (fc *FunctionCall) Children() []Node       { return []Node{fc.Arg} }
func (fc *FunctionCall) GetToken() *token.Token { return &fc.Token }
func (fc *FunctionCall) String() string         { return fc.Name + describeArgs(fc.Arg) }

type FunctionDefinition struct {
	Token token.Token
	Name  string
	Param string
	Body  Node
}

func (fd *FunctionDefinition) Children() []Node       { return []Node{fd.Body} }
func (fd *FunctionDefinition) GetToken() *token.Token { return &fd.Token }
func (fd *FunctionDefinition) String() string {
	return "def " + fd.Name + "(" + fd.Param + ") = " + fd.Body.String()
}

type Identifier struct {
	Token token.Token
	Value string
}

func (i *Identifier) Children() []Node       { return []Node{} }
func (i *Identifier) GetToken() *token.Token { return &i.Token }
func (i *Identifier) String() string         { return i.Value }

type InfixExpression struct {
	Token    token.Token
	Operator string
	Left     Node
	Right    Node
}

func (ie *InfixExpression) Children() []Node       { return []Node{ie.Left, ie.Right} }
func (ie *InfixExpression) GetToken() *token.Token { return &ie.Token }
func (ie *InfixExpression) String() string {
	var out bytes.Buffer

	out.WriteString("(")
	out.WriteString(ie.Left.String())
	out.WriteString(" " + ie.Operator + " ")
	out.WriteString(ie.Right.String())
	out.WriteString(")")

	return out.String()
}

// A 'sum' or 'product'. The Token says which.
type LoopExpression struct {
	Token token.Token
	From  Node
	To    Node
	Param string
	Body  Node
}

func (le *LoopExpression) Children() []Node       { return []Node{le.From, le.To, le.Body} }
func (le *LoopExpression) GetToken() *token.Token { return &le.Token }
func (le *LoopExpression) IsProduct() bool        { return le.Token.Type == token.PRODUCT }
func (le *LoopExpression) String() string {
	var out bytes.Buffer

	out.WriteString(le.Token.Literal)
	out.WriteString("(from: ")
	out.WriteString(le.From.String())
	out.WriteString(", to: ")
	out.WriteString(le.To.String())
	out.WriteString(", para: ")
	out.WriteString(le.Param)
	out.WriteString(", ")
	out.WriteString(le.Body.String())
	out.WriteString(")")

	return out.String()
}

type NumberLiteral struct {
	Token token.Token
	Value float64
}

func (nl *NumberLiteral) Children() []Node       { return []Node{} }
func (nl *NumberLiteral) GetToken() *token.Token { return &nl.Token }
func (nl *NumberLiteral) String() string         { return strconv.FormatFloat(nl.Value, 'g', -1, 64) }

// Either the statements of a script or the arguments of a function call, depending on where it is.
type Sequence struct {
	Token    token.Token
	Elements []Node
}

func (s *Sequence) Children() []Node       { return s.Elements }
func (s *Sequence) GetToken() *token.Token { return &s.Token }
func (s *Sequence) String() string {
	var out bytes.Buffer
	for i, v := range s.Elements {
		if i > 0 {
			out.WriteString("; ")
		}
		out.WriteString(v.String())
	}
	return out.String()
}

// The application of one of the built-in functions, including the factorial.
type SpecialFunction struct {
	Token    token.Token
	Function string
	Arg      Node
}

func (sf *SpecialFunction) Children() []Node       { return []Node{sf.Arg} }
func (sf *SpecialFunction) GetToken() *token.Token { return &sf.Token }
func (sf *SpecialFunction) String() string {
	if sf.Function == token.FACT {
		return sf.Arg.String() + "!"
	}
	return sf.Function + describeArgs(sf.Arg)
}

// Other structures and functions.

// Arguments unpacks the argument of a call: a Sequence is its elements, anything else is itself.
func Arguments(arg Node) []Node {
	if seq, ok := arg.(*Sequence); ok {
		return seq.Elements
	}
	return []Node{arg}
}

func describeArgs(arg Node) string {
	var out bytes.Buffer
	out.WriteString("(")
	for i, v := range Arguments(arg) {
		if i > 0 {
			out.WriteString(", ")
		}
		out.WriteString(v.String())
	}
	out.WriteString(")")
	return out.String()
}
