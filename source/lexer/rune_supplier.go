package lexer

// The RuneSupplier walks over the runes of one line of source. We want to be able to use
// the same functions for slurping up numbers and identifiers here and in the hub's tab
// completer, so it's kept separate from the lexer.
type RuneSupplier struct {
	code   []rune
	pos    int
	lineNo int
}

func NewRuneSupplier(code []rune, lineNo int) *RuneSupplier {
	return &RuneSupplier{code: code, lineNo: lineNo}
}

func (rs *RuneSupplier) CurrentRune() rune {
	if rs.pos < len(rs.code) {
		return rs.code[rs.pos]
	}
	return 0
}

func (rs *RuneSupplier) PeekRune() rune {
	if rs.pos+1 < len(rs.code) {
		return rs.code[rs.pos+1]
	}
	return 0
}

func (rs *RuneSupplier) Next() {
	if rs.pos < len(rs.code) {
		rs.pos++
	}
}

func (rs *RuneSupplier) Done() bool {
	return rs.pos >= len(rs.code)
}

func (rs *RuneSupplier) Position() (int, int) {
	return rs.lineNo, rs.pos
}

// Digits and dots, greedily. Whether they make a number is the caller's problem.
func (rs *RuneSupplier) ReadNumber() string {
	result := string(rs.CurrentRune())
	for IsDigit(rs.PeekRune()) || rs.PeekRune() == '.' {
		rs.Next()
		result = result + string(rs.CurrentRune())
	}
	return result
}

func (rs *RuneSupplier) ReadIdentifier() string {
	result := string(rs.CurrentRune()) // i.e. the character that suggested this was an identifier.
	for IsIdentifierRune(rs.PeekRune()) {
		rs.Next()
		result = result + string(rs.CurrentRune())
	}
	return result
}
