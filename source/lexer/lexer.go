package lexer

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"fortio.org/log"

	"github.com/ElementialCoder/fmath/source/err"
	"github.com/ElementialCoder/fmath/source/settings"
	"github.com/ElementialCoder/fmath/source/token"
)

type lexer struct {
	runes  *RuneSupplier
	tstart int // the position of the rune at the start of a token
	lineNo int
	Ers    err.Errors
	source string
	strict bool // if set, malformed numbers and illegal characters are errors rather than being skipped
}

func NewLexer(source string, strict bool) *lexer {
	return &lexer{Ers: []*err.Error{}, source: source, strict: strict}
}

// Tokenize splits the input into lines and lexes each one. Blank lines, and lines whose
// first non-blank character is '#', produce nothing, as do lines which produce no tokens.
func Tokenize(source, input string, strict bool) ([]token.Line, err.Errors) {
	l := NewLexer(source, strict)
	return l.Tokenize(input), l.Ers
}

func (l *lexer) Tokenize(input string) []token.Line {
	result := []token.Line{}
	for i, line := range strings.Split(input, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		toks := l.tokenizeLine(line, i+1)
		log.LogVf("lexed line %d of %s into %d tokens", i+1, l.source, len(toks))
		if len(toks) > 0 {
			result = append(result, toks)
		}
	}
	return result
}

func (l *lexer) tokenizeLine(line string, lineNo int) token.Line {
	l.runes = NewRuneSupplier([]rune(line), lineNo)
	l.lineNo = lineNo
	toks := token.Line{}
	for !l.runes.Done() {
		if tok, ok := l.getToken(); ok {
			toks = append(toks, tok)
		}
	}
	return toks
}

// Returns the next token, or false if the lexer has just skipped over something.
func (l *lexer) getToken() (token.Token, bool) {
	_, l.tstart = l.runes.Position()
	ch := l.runes.CurrentRune()
	switch ch {
	case ' ', '\t', '\r', ':': // The colons in 'from:', 'to:' and 'para:' are decoration.
		l.runes.Next()
		return token.Token{}, false
	case '+', '-', '*', '/', '^':
		return l.NewToken(token.OPERATOR, string(ch)), true
	case '!':
		return l.NewToken(token.FUNCTION, token.FACT), true
	case '(':
		return l.NewToken(token.LPAREN, "("), true
	case ')':
		return l.NewToken(token.RPAREN, ")"), true
	case '|':
		return l.NewToken(token.PIPE, "|"), true
	case ',':
		return l.NewToken(token.COMMA, ","), true
	case '=':
		if l.runes.PeekRune() == '>' {
			l.runes.Next()
			return l.NewToken(token.ARROW, "=>"), true
		}
		return l.NewToken(token.ASSIGN, "="), true
	}

	if IsDigit(ch) || ch == '.' {
		numString := l.runes.ReadNumber()
		if _, e := strconv.ParseFloat(numString, 64); e == nil {
			return l.NewToken(token.NUMBER, numString), true
		}
		if l.strict {
			l.Throw("lex/num", numString)
		} else {
			l.runes.Next()
		}
		return token.Token{}, false
	}

	if IsLetter(ch) {
		lit := l.runes.ReadIdentifier()
		tType, lit := token.LookupIdent(lit)
		return l.NewToken(tType, lit), true
	}

	// Or we have nothing recognizable.
	if l.strict {
		l.Throw("lex/ill", ch)
	} else {
		l.runes.Next()
	}
	return token.Token{}, false
}

func IsLetter(ch rune) bool {
	return unicode.IsLetter(ch)
}

func IsDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}

func IsIdentifierRune(ch rune) bool {
	return unicode.IsLetter(ch) || unicode.IsDigit(ch) || ch == '_'
}

func (l *lexer) NewToken(tokenType token.TokenType, st string) token.Token {
	l.runes.Next()
	return l.MakeToken(tokenType, st)
}

func (l *lexer) MakeToken(tokenType token.TokenType, st string) token.Token {
	if settings.SHOW_LEXER {
		fmt.Println(tokenType, st)
	}
	_, chNo := l.runes.Position()
	return token.Token{Type: tokenType, Literal: st, Source: l.source, Line: l.lineNo, ChStart: l.tstart, ChEnd: chNo}
}

// Records the error against a token spanning the offending text, and moves past it.
func (l *lexer) Throw(errorID string, args ...any) token.Token {
	tok := l.NewToken(token.ILLEGAL, errorID)
	l.Ers = err.Throw(errorID, l.Ers, &tok, args...)
	return tok
}
