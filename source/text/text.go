package text

// This consists of a bunch of text utilities to help in generating pretty and meaningful
// help messages, error messages, etc.

import (
	"strconv"
	"strings"

	"github.com/ElementialCoder/fmath/source/token"
)

const (
	VERSION     = "0.1.0"
	BULLET      = "  ▪ "
	GOOD_BULLET = "\033[32m  ▪ \033[0m"
	BROKEN      = "\033[31m  ✖ \033[0m"
	PROMPT      = "→ "
)

func Emph(s string) string {
	return "'" + s + "'"
}

func Red(s string) string {
	return RED + s + RESET
}

func Green(s string) string {
	return GREEN + s + RESET
}

func Yellow(s string) string {
	return YELLOW + s + RESET
}

func Logo() string {
	var padding string
	if len(VERSION)%2 == 0 {
		padding = ","
	}
	titleText := " fmath" + padding + " version " + VERSION + " "
	sigma := Yellow("Σ")
	leftMargin := "  "
	bar := strings.Repeat("═", len(titleText)/2)
	logoString := "\n" +
		leftMargin + "╔" + bar + sigma + bar + "╗\n" +
		leftMargin + "║" + titleText + "║\n" +
		leftMargin + "╚" + bar + sigma + bar + "╝\n\n"
	return logoString
}

const HELP = "\nUsage: fmath [flags] <file.mth | file.mthc>\n" +
	"       fmath --repl\n\n" +
	"Flags are:\n\n" +
	"  --strict        Makes the lexer report malformed numbers and illegal characters.\n" +
	"  --log <level>   Sets the log level (debug, verbose, info, warning, error).\n" +
	"  --no-cache      Compiles from source even if the program cache has a copy.\n" +
	"  --compile-only  Writes the '.mthc' file without running it.\n" +
	"  --repl          Starts the interactive hub.\n\n"

// Describes where a token came from, for the end of an error message.
func DescribePos(tok *token.Token) string {
	prettySource := tok.Source
	if prettySource == "" {
		return ""
	}
	if prettySource != "REPL input" {
		prettySource = "'" + prettySource + "'"
	}
	if tok.Line > 0 {
		result := strconv.Itoa(tok.Line) + ":" + strconv.Itoa(tok.ChStart)
		if tok.ChStart != tok.ChEnd {
			result = result + "-" + strconv.Itoa(tok.ChEnd)
		}
		return " at line " + result + " of " + prettySource
	}
	return " in " + prettySource
}

// Describes a token for the purposes of error messages etc.
func DescribeTok(tok *token.Token) string {
	switch tok.Type {
	case token.EOL:
		return "end of line"
	case token.NUMBER:
		return "number '" + tok.Literal + "'"
	case token.OPERATOR:
		return "operator '" + tok.Literal + "'"
	}
	return "'" + tok.Literal + "'"
}

var (
	RESET     = "\033[0m"
	UNDERLINE = "\033[3m"
	RED       = "\033[31m"
	GREEN     = "\033[32m"
	YELLOW    = "\033[33m"
	BLUE      = "\033[34m"
	PURPLE    = "\033[35m"
	CYAN      = "\033[36m"
	GRAY      = "\033[37m"
	WHITE     = "\033[97m"

	ERROR     = "$Error$"
	RT_ERROR  = "$Error$"
	HUB_ERROR = "$Hub error$"
	OK        = Green("OK")
)

// Anything enclosed in '   ' is code and is highlighted, as is anything between $ signs,
// which is highlighted in red and followed by a colon. The ' doesn't trigger the highlighting
// unless it follows a line beginning or space etc, because it might be an apostrophe.
func HighlightLine(plainLine string, highlighter rune) (string, rune) {
	highlitLine := ""
	prevCh := ' '
	if highlighter != ' ' {
		highlitLine = CYAN
	}
	for _, ch := range plainLine {
		if highlighter == ' ' && (prevCh == ' ' || prevCh == '\n' || prevCh == '$' || prevCh == '(') &&
			(ch == '\'' || ch == '$') {
			highlighter = ch
			if highlighter == '$' {
				highlitLine = highlitLine + RED
				continue
			}
			highlitLine = highlitLine + CYAN
		} else if highlighter != ' ' && ch == highlighter {
			prevCh = ch
			highlighter = ' '
			if ch == '$' {
				highlitLine = highlitLine + RESET + ": "
				continue
			}
			highlitLine = highlitLine + string(ch) + RESET
			continue
		}
		prevCh = ch
		highlitLine = highlitLine + string(ch)
	}
	return highlitLine, highlighter
}

// Word-wraps the string between the margins and highlights it. A word longer than the line is
// broken where it reaches the margin.
func Pretty(s string, lMargin, rMargin int) string {
	length := max(rMargin-lMargin, 1)
	result := ""
	highlighter := ' '
	for i := 0; i < len(s); {
		result = result + strings.Repeat(" ", lMargin)
		e := i + length
		j := 0
		switch {
		case e >= len(s):
			j = len(s) - i
		case strings.Contains(s[i:e], "\n"):
			j = strings.Index(s[i:e], "\n")
		default:
			j = strings.LastIndex(s[i:e], " ")
		}
		if j == -1 {
			j = length
		}
		if k := strings.Index(s[i:i+j], "\n"); k != -1 {
			j = k
		}
		var str string
		str, highlighter = HighlightLine(s[i:i+j], highlighter)
		result = result + str + "\n"
		i = i + j
		if i < len(s) && (s[i] == ' ' || s[i] == '\n') {
			i++
		}
	}
	return result
}
