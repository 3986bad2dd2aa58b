package parser

import (
	"fmt"
	"strconv"

	"fortio.org/log"

	"github.com/ElementialCoder/fmath/source/ast"
	"github.com/ElementialCoder/fmath/source/err"
	"github.com/ElementialCoder/fmath/source/settings"
	"github.com/ElementialCoder/fmath/source/token"
)

// The parser works through one line of tokens at a time. Each parsing function expects
// curToken to be the first token of the thing it parses, and leaves curToken on the
// first token after it. Any error is fatal: the parsing functions return nil as soon
// as there's something in p.Errors.
type Parser struct {
	Errors    err.Errors
	Functions FunctionTable
	line      token.Line
	pos       int
	curToken  token.Token
	peekToken token.Token
}

func New() *Parser {
	return NewWithFunctions(FunctionTable{})
}

// For when the definitions should accumulate in an existing table, as in the hub.
func NewWithFunctions(ft FunctionTable) *Parser {
	return &Parser{Errors: []*err.Error{}, Functions: ft}
}

// Parse returns the main expression and the table of the functions defined along the way.
func Parse(lines []token.Line) (ast.Node, FunctionTable, err.Errors) {
	p := New()
	node := p.ParseLines(lines)
	return node, p.Functions, p.Errors
}

// Function definitions go in the function table and not in the main expression. The other
// lines are statements: if there's one it's returned as it is, otherwise they're returned as
// a Sequence, which is empty if there aren't any.
func (p *Parser) ParseLines(lines []token.Line) ast.Node {
	statements := []ast.Node{}
	var firstTok token.Token
	for _, line := range lines {
		p.start(line)
		log.LogVf("parsing line %d starting with %s", p.curToken.Line, p.curToken.Literal)
		if p.curTokenIs(token.DEF) {
			p.parseFunctionDefinition()
		} else {
			if len(statements) == 0 {
				firstTok = p.curToken
			}
			statements = append(statements, p.parseStatement())
		}
		if p.ErrorsExist() {
			return nil
		}
		if !p.curTokenIs(token.EOL) {
			p.Throw("parse/line", &p.curToken)
			return nil
		}
	}
	var result ast.Node
	if len(statements) == 1 {
		result = statements[0]
	} else {
		result = &ast.Sequence{Token: firstTok, Elements: statements}
	}
	if settings.SHOW_PARSER {
		fmt.Println(result.String())
	}
	return result
}

func (p *Parser) start(line token.Line) {
	p.line = line
	p.pos = 0
	p.curToken = p.tokenAt(0)
	p.peekToken = p.tokenAt(1)
}

// Past the end of the line we get an EOL token positioned just after the last real one.
func (p *Parser) tokenAt(i int) token.Token {
	if i < len(p.line) {
		return p.line[i]
	}
	if len(p.line) == 0 {
		return token.Token{Type: token.EOL, Literal: "end of line"}
	}
	last := p.line[len(p.line)-1]
	return token.Token{Type: token.EOL, Literal: "end of line", Source: last.Source,
		Line: last.Line, ChStart: last.ChEnd, ChEnd: last.ChEnd}
}

func (p *Parser) NextToken() {
	p.pos++
	p.curToken = p.peekToken
	p.peekToken = p.tokenAt(p.pos + 1)
}

func (p *Parser) curTokenIs(t token.TokenType) bool {
	return p.curToken.Type == t
}

func (p *Parser) peekTokenIs(t token.TokenType) bool {
	return p.peekToken.Type == t
}

func (p *Parser) curOperatorIs(ops ...string) bool {
	if !p.curTokenIs(token.OPERATOR) {
		return false
	}
	for _, op := range ops {
		if p.curToken.Literal == op {
			return true
		}
	}
	return false
}

func (p *Parser) expectPeek(t token.TokenType) bool {
	if p.peekTokenIs(t) {
		p.NextToken()
		return true
	}
	return false
}

// def name(param) = body
func (p *Parser) parseFunctionDefinition() {
	defTok := p.curToken
	if !p.expectPeek(token.IDENT) {
		p.Throw("parse/def", &defTok)
		return
	}
	name := p.curToken.Literal
	if !(p.expectPeek(token.LPAREN) && p.expectPeek(token.IDENT)) {
		p.Throw("parse/def", &defTok)
		return
	}
	param := p.curToken.Literal
	if !(p.expectPeek(token.RPAREN) && p.expectPeek(token.ASSIGN)) {
		p.Throw("parse/def", &defTok)
		return
	}
	p.NextToken()
	body := p.parseExpression()
	if p.ErrorsExist() {
		return
	}
	p.Functions.Add(name, param, body)
}

func (p *Parser) parseStatement() ast.Node {
	if p.curTokenIs(token.VAR) && p.peekTokenIs(token.IDENT) && p.tokenAt(p.pos+2).Type == token.ASSIGN {
		p.NextToken()
		tok := p.curToken
		p.NextToken()
		p.NextToken()
		value := p.parseExpression()
		if p.ErrorsExist() {
			return nil
		}
		return &ast.AssignmentExpression{Token: tok, Name: tok.Literal, Value: value}
	}
	return p.parseExpression()
}

// Left-associative + and -.
func (p *Parser) parseExpression() ast.Node {
	left := p.parseTerm()
	for !p.ErrorsExist() && p.curOperatorIs(token.PLUS, token.MINUS) {
		tok := p.curToken
		p.NextToken()
		right := p.parseTerm()
		left = &ast.InfixExpression{Token: tok, Operator: tok.Literal, Left: left, Right: right}
	}
	if p.ErrorsExist() {
		return nil
	}
	return left
}

// Left-associative * and /.
func (p *Parser) parseTerm() ast.Node {
	left := p.parsePower()
	for !p.ErrorsExist() && p.curOperatorIs(token.STAR, token.SLASH) {
		tok := p.curToken
		p.NextToken()
		right := p.parsePower()
		left = &ast.InfixExpression{Token: tok, Operator: tok.Literal, Left: left, Right: right}
	}
	if p.ErrorsExist() {
		return nil
	}
	return left
}

// Right-associative ^.
func (p *Parser) parsePower() ast.Node {
	left := p.parseFactor()
	if p.ErrorsExist() {
		return nil
	}
	if p.curOperatorIs(token.POW) {
		tok := p.curToken
		p.NextToken()
		right := p.parsePower()
		if p.ErrorsExist() {
			return nil
		}
		return &ast.InfixExpression{Token: tok, Operator: tok.Literal, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseFactor() ast.Node {
	var expr ast.Node
	tok := p.curToken
	switch tok.Type {
	case token.SUM, token.PRODUCT:
		expr = p.parseLoop()
	case token.OPERATOR:
		if tok.Literal != token.MINUS {
			p.Throw("parse/operator", &tok)
			return nil
		}
		// Unary minus is subtraction from zero, and applies to a factor, so -2^2 is 4.
		p.NextToken()
		right := p.parseFactor()
		if p.ErrorsExist() {
			return nil
		}
		expr = &ast.InfixExpression{Token: tok, Operator: token.MINUS,
			Left: &ast.NumberLiteral{Token: tok, Value: 0}, Right: right}
	case token.PIPE:
		p.NextToken()
		inner := p.parseExpression()
		if p.ErrorsExist() {
			return nil
		}
		if !p.curTokenIs(token.PIPE) {
			p.Throw("parse/pipe", &p.curToken)
			return nil
		}
		p.NextToken()
		expr = &ast.SpecialFunction{Token: tok, Function: token.ABS, Arg: inner}
	case token.NUMBER:
		value, _ := strconv.ParseFloat(tok.Literal, 64) // The lexer has already checked it.
		p.NextToken()
		expr = &ast.NumberLiteral{Token: tok, Value: value}
	case token.IDENT:
		if p.peekTokenIs(token.LPAREN) {
			expr = p.parseFunctionCall()
		} else {
			p.NextToken()
			expr = &ast.Identifier{Token: tok, Value: tok.Literal}
		}
	case token.FUNCTION:
		expr = p.parseSpecialFunction()
	case token.LPAREN:
		p.NextToken()
		expr = p.parseExpression()
		if p.ErrorsExist() {
			return nil
		}
		if !p.curTokenIs(token.RPAREN) {
			p.Throw("parse/rparen/group", &p.curToken)
			return nil
		}
		p.NextToken()
	case token.EOL:
		p.Throw("parse/eol", &tok)
		return nil
	default:
		p.Throw("parse/prefix", &tok)
		return nil
	}
	if p.ErrorsExist() {
		return nil
	}
	for p.curTokenIs(token.FUNCTION) && p.curToken.Literal == token.FACT {
		expr = &ast.SpecialFunction{Token: p.curToken, Function: token.FACT, Arg: expr}
		p.NextToken()
	}
	return expr
}

// Parses one or more comma-separated arguments, stopping at whatever isn't a comma.
func (p *Parser) parseArguments() []ast.Node {
	args := []ast.Node{p.parseExpression()}
	for !p.ErrorsExist() && p.curTokenIs(token.COMMA) {
		p.NextToken()
		args = append(args, p.parseExpression())
	}
	if p.ErrorsExist() {
		return nil
	}
	return args
}

func packArguments(tok token.Token, args []ast.Node) ast.Node {
	if len(args) == 1 {
		return args[0]
	}
	return &ast.Sequence{Token: tok, Elements: args}
}

// A call to a user-defined function. As with the special functions, several arguments
// are packed into a Sequence. User functions take one argument, but we let the vm say so.
func (p *Parser) parseFunctionCall() ast.Node {
	tok := p.curToken
	p.NextToken()
	p.NextToken()
	args := p.parseArguments()
	if p.ErrorsExist() {
		return nil
	}
	if !p.curTokenIs(token.RPAREN) {
		p.Throw("parse/rparen/call", &p.curToken, tok.Literal)
		return nil
	}
	p.NextToken()
	return &ast.FunctionCall{Token: tok, Name: tok.Literal, Arg: packArguments(tok, args), Argc: len(args)}
}

func (p *Parser) parseSpecialFunction() ast.Node {
	tok := p.curToken
	if !p.expectPeek(token.LPAREN) {
		p.Throw("parse/lparen/func", &tok)
		return nil
	}
	p.NextToken()
	args := []ast.Node{}
	if !p.curTokenIs(token.RPAREN) {
		args = p.parseArguments()
		if p.ErrorsExist() {
			return nil
		}
		if !p.curTokenIs(token.RPAREN) {
			p.Throw("parse/rparen/call", &p.curToken, tok.Literal)
			return nil
		}
	}
	p.NextToken()
	name := tok.Literal
	if name == token.LOG && len(args) == 2 {
		name = token.LOGBASE
	}
	return &ast.SpecialFunction{Token: tok, Function: name, Arg: packArguments(tok, args)}
}

// sum(from: <expr>, to: <expr>, para: <name>, <body>), and likewise product. The colons
// never reach us: the lexer drops them.
func (p *Parser) parseLoop() ast.Node {
	tok := p.curToken
	if !p.expectPeek(token.LPAREN) {
		p.Throw("parse/loop", &tok, "(")
		return nil
	}
	p.NextToken()
	if !p.curKeywordIs("from") {
		p.Throw("parse/loop", &tok, "from:")
		return nil
	}
	p.NextToken()
	from := p.parseExpression()
	if p.ErrorsExist() {
		return nil
	}
	if !p.curTokenIs(token.COMMA) {
		p.Throw("parse/loop", &tok, ",")
		return nil
	}
	p.NextToken()
	if !p.curKeywordIs("to") {
		p.Throw("parse/loop", &tok, "to:")
		return nil
	}
	p.NextToken()
	to := p.parseExpression()
	if p.ErrorsExist() {
		return nil
	}
	if !p.curTokenIs(token.COMMA) {
		p.Throw("parse/loop", &tok, ",")
		return nil
	}
	p.NextToken()
	if !p.curKeywordIs("para") {
		p.Throw("parse/loop", &tok, "para:")
		return nil
	}
	if !p.expectPeek(token.IDENT) {
		p.Throw("parse/loop", &tok, "the name of a parameter")
		return nil
	}
	param := p.curToken.Literal
	if !p.expectPeek(token.COMMA) {
		p.Throw("parse/loop", &tok, ",")
		return nil
	}
	p.NextToken()
	body := p.parseExpression()
	if p.ErrorsExist() {
		return nil
	}
	if !p.curTokenIs(token.RPAREN) {
		p.Throw("parse/loop", &tok, ")")
		return nil
	}
	p.NextToken()
	return &ast.LoopExpression{Token: tok, From: from, To: to, Param: param, Body: body}
}

func (p *Parser) curKeywordIs(kw string) bool {
	return p.curTokenIs(token.IDENT) && p.curToken.Literal == kw
}

func (p *Parser) Throw(errorID string, tok *token.Token, args ...any) {
	p.Errors = err.Throw(errorID, p.Errors, tok, args...)
}

func (p *Parser) ErrorsExist() bool {
	return len(p.Errors) > 0
}
