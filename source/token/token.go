package token

import "strings"

type TokenType string

const (
	ILLEGAL = "ILLEGAL"
	EOL     = "EOL"

	// Identifiers + literals
	IDENT    = "IDENT"    // x, foo, from, to, para ...
	NUMBER   = "float64"  // 1, 2.5, .5
	OPERATOR = "OPERATOR" // + - * / ^
	FUNCTION = "FUNCTION" // sin, cos, log ... and the postfix '!'

	// Punctuation
	ASSIGN = "="
	ARROW  = "=>"
	COMMA  = ","
	LPAREN = "("
	RPAREN = ")"
	PIPE   = "|"

	// Keywords
	DEF     = "def"
	END     = "end"
	VAR     = "var"
	SUM     = "sum"
	PRODUCT = "product"
)

type Token struct {
	Type    TokenType
	Literal string
	Line    int
	ChStart int
	ChEnd   int
	Source  string
}

// The operators. A token of type OPERATOR has one of these as its literal.
const (
	PLUS  = "+"
	MINUS = "-"
	STAR  = "*"
	SLASH = "/"
	POW   = "^"
)

// The names of the special functions. A token of type FUNCTION has one of these as its literal.
// LOGBASE never comes out of the lexer: the parser makes it out of a two-argument 'log'.
const (
	SIN     = "sin"
	COS     = "cos"
	TAN     = "tan"
	COT     = "cot"
	SEC     = "sec"
	CSC     = "csc"
	SINH    = "sinh"
	COSH    = "cosh"
	TANH    = "tanh"
	ASINH   = "asinh"
	ACOSH   = "acosh"
	ATANH   = "atanh"
	EXP     = "exp"
	LOG     = "log"
	LOG10   = "log10"
	LOG2    = "log2"
	SQRT    = "sqrt"
	ABS     = "abs"
	ASIN    = "asin"
	ACOS    = "acos"
	ATAN    = "atan"
	ACOT    = "acot"
	ASEC    = "asec"
	ACSC    = "acsc"
	FPOW    = "pow"
	FACT    = "!"
	LOGBASE = "logbase"
	FLOOR   = "floor"
	RAND    = "rand"
	RANDINT = "randint"
)

var keywords = map[string]TokenType{
	"sum":     SUM,
	"product": PRODUCT,
	"def":     DEF,
	"end":     END,
	"var":     VAR,
}

var functions = map[string]bool{
	SIN: true, COS: true, TAN: true, COT: true, SEC: true, CSC: true,
	SINH: true, COSH: true, TANH: true, ASINH: true, ACOSH: true, ATANH: true,
	EXP: true, LOG: true, LOG10: true, LOG2: true, SQRT: true, ABS: true,
	ASIN: true, ACOS: true, ATAN: true, ACOT: true, ASEC: true, ACSC: true,
	FPOW: true, FLOOR: true, RAND: true, RANDINT: true,
}

// LookupIdent matches an alphabetic run case-insensitively against the keywords and the
// special functions. It returns the token type and the literal the token should carry:
// the lower-cased name for keywords and functions, the identifier as written otherwise.
func LookupIdent(ident string) (TokenType, string) {
	lower := strings.ToLower(ident)
	if tok, ok := keywords[lower]; ok {
		return tok, lower
	}
	if functions[lower] {
		return FUNCTION, lower
	}
	return IDENT, ident
}

// FunctionNames returns the names of the special functions callable by name, for
// the benefit of things like tab completion.
func FunctionNames() []string {
	result := make([]string, 0, len(functions))
	for k := range functions {
		result = append(result, k)
	}
	return result
}

// Keywords returns the reserved words.
func Keywords() []string {
	result := make([]string, 0, len(keywords))
	for k := range keywords {
		result = append(result, k)
	}
	return result
}

// A Line is the tokens of one line of source, in order.
type Line []Token
