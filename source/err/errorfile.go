package err

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ElementialCoder/fmath/source/text"
	"github.com/ElementialCoder/fmath/source/token"
)

// A map from error identifiers to functions that supply the corresponding error messages and explanations.
//
// Errors in the map are in alphabetical order of their identifers.
//
// Major categories are codec, comp, lex, parse, and vm. Errors in the 'vm' category are the
// recoverable run-time kinds; everything else stops the compilation dead.
//
// Two otherwise identical errors thrown in different places in the Go code must be assigned
// different identifiers, if only by suffixing /a, /b, etc to the identifier.

var ErrorCreatorMap = map[string]ErrorCreator{

	// TEMPLATE
	"": {
		Message: func(tok *token.Token, args ...any) string {
			return ""
		},
		Explanation: func(errors Errors, pos int, tok *token.Token, args ...any) string {
			return ""
		},
	},

	"codec/magic": {
		Message: func(tok *token.Token, args ...any) string {
			return "not a compiled fmath program"
		},
		Explanation: func(errors Errors, pos int, tok *token.Token, args ...any) string {
			return "Compiled programs begin with the four bytes 'FMTH'. The data you tried to load " +
				"doesn't, so either it isn't a '.mthc' file or it has been damaged."
		},
	},

	"codec/opcode": {
		Message: func(tok *token.Token, args ...any) string {
			return "unknown opcode " + emph(args[0]) + " in compiled program"
		},
		Explanation: func(errors Errors, pos int, tok *token.Token, args ...any) string {
			return "Every instruction in a compiled program starts with a byte saying what sort of " +
				"instruction it is. This one didn't correspond to any instruction fmath knows about."
		},
	},

	"codec/trailing": {
		Message: func(tok *token.Token, args ...any) string {
			return "unexpected data after end of compiled program"
		},
		Explanation: func(errors Errors, pos int, tok *token.Token, args ...any) string {
			return "The compiled program said how many instructions it contained, and after reading " +
				"them all there were still " + emph(args[0]) + " bytes left over."
		},
	},

	"codec/truncated": {
		Message: func(tok *token.Token, args ...any) string {
			return "compiled program ends unexpectedly"
		},
		Explanation: func(errors Errors, pos int, tok *token.Token, args ...any) string {
			return "The data ran out in the middle of an instruction, so the compiled program " +
				"has probably been cut short."
		},
	},

	"codec/version": {
		Message: func(tok *token.Token, args ...any) string {
			return "compiled program has format version " + emph(args[0]) + " but this build reads version " + emph(args[1])
		},
		Explanation: func(errors Errors, pos int, tok *token.Token, args ...any) string {
			return "The format of compiled programs is versioned, and this one was written by a different " +
				"version of fmath. Recompile it from the '.mth' source."
		},
	},

	"comp/args": {
		Message: func(tok *token.Token, args ...any) string {
			return emph(args[0]) + " expects " + describeCount(args[1]) + " but got " + strconv.Itoa(args[2].(int))
		},
		Explanation: func(errors Errors, pos int, tok *token.Token, args ...any) string {
			return "The special functions 'log' (in its two-argument form), 'pow' and 'randint' take " +
				"exactly two arguments, 'rand' takes none, and all the others take exactly one."
		},
	},

	"comp/node": {
		Message: func(tok *token.Token, args ...any) string {
			return "can't compile node of type " + emph(args[0])
		},
		Explanation: func(errors Errors, pos int, tok *token.Token, args ...any) string {
			return "This is an internal error: the parser produced something the compiler doesn't know how to lower."
		},
	},

	"comp/recursion": {
		Message: func(tok *token.Token, args ...any) string {
			return "recursive definition " + emph(strings.Join(args[0].([]string), " -> "))
		},
		Explanation: func(errors Errors, pos int, tok *token.Token, args ...any) string {
			return "fmath has no conditionals, so a function which calls itself, directly or by way " +
				"of other functions, could never stop. Each function must be defined in terms of " +
				"functions that don't lead back to it."
		},
	},

	"lex/ill": {
		Message: func(tok *token.Token, args ...any) string {
			return "illegal character " + emph(string(args[0].(rune)))
		},
		Explanation: func(errors Errors, pos int, tok *token.Token, args ...any) string {
			return "In strict mode the lexer refuses characters that aren't part of the language " +
				"instead of silently skipping them. The legal symbols are + - * / ^ ! ( ) | , = and :."
		},
	},

	"lex/num": {
		Message: func(tok *token.Token, args ...any) string {
			return "malformed number " + emph(args[0])
		},
		Explanation: func(errors Errors, pos int, tok *token.Token, args ...any) string {
			return "In strict mode the lexer refuses runs of digits and dots which aren't a valid " +
				"number, such as '1.2.3', instead of silently dropping them."
		},
	},

	"parse/def": {
		Message: func(tok *token.Token, args ...any) string {
			return "malformed function definition"
		},
		Explanation: func(errors Errors, pos int, tok *token.Token, args ...any) string {
			return "A function definition must be written as 'def <name>(<parameter>) = <expression>'. " +
				"User-defined functions have exactly one parameter."
		},
	},

	"parse/eol": {
		Message: func(tok *token.Token, args ...any) string {
			return "unexpected end of line"
		},
		Explanation: func(errors Errors, pos int, tok *token.Token, args ...any) string {
			return "The line finished where fmath was still expecting an expression. Perhaps " +
				"an operator is missing its right-hand operand?"
		},
	},

	"parse/lparen/func": {
		Message: func(tok *token.Token, args ...any) string {
			return "expected opening parenthesis after function name " + emph(tok.Literal)
		},
		Explanation: func(errors Errors, pos int, tok *token.Token, args ...any) string {
			return "Special functions such as " + emph(tok.Literal) + " must have their arguments in " +
				"parentheses, e.g. 'sin(x)' rather than 'sin x'."
		},
	},

	"parse/line": {
		Message: func(tok *token.Token, args ...any) string {
			return "unexpected " + text.DescribeTok(tok)
		},
		Explanation: func(errors Errors, pos int, tok *token.Token, args ...any) string {
			return "fmath parsed a complete statement but there was still something left over on " +
				"the line, starting with " + emph(tok.Literal) + ". Each line may contain only one statement."
		},
	},

	"parse/loop": {
		Message: func(tok *token.Token, args ...any) string {
			return "malformed " + emph(tok.Literal) + ": expected " + emph(args[0])
		},
		Explanation: func(errors Errors, pos int, tok *token.Token, args ...any) string {
			return "A bounded loop must be written exactly as '" + tok.Literal +
				"(from: <expr>, to: <expr>, para: <name>, <body>)', with the clauses in that order."
		},
	},

	"parse/operator": {
		Message: func(tok *token.Token, args ...any) string {
			return "operator " + emph(tok.Literal) + " in invalid position"
		},
		Explanation: func(errors Errors, pos int, tok *token.Token, args ...any) string {
			return "An expression can't begin with " + emph(tok.Literal) + ": there is likely " +
				"an operand missing before or after the operator."
		},
	},

	"parse/pipe": {
		Message: func(tok *token.Token, args ...any) string {
			return "expected closing " + emph("|") + " for absolute value"
		},
		Explanation: func(errors Errors, pos int, tok *token.Token, args ...any) string {
			return "An absolute value is written between two pipes, as in '|x - 3|'. fmath found " +
				"the opening pipe but not the closing one."
		},
	},

	"parse/prefix": {
		Message: func(tok *token.Token, args ...any) string {
			return "unexpected " + text.DescribeTok(tok)
		},
		Explanation: func(errors Errors, pos int, tok *token.Token, args ...any) string {
			return "fmath was expecting the start of an expression (a number, a name, a function, " +
				"an opening parenthesis, a pipe, or a minus sign) and found " + emph(tok.Literal) + " instead."
		},
	},

	"parse/rparen/call": {
		Message: func(tok *token.Token, args ...any) string {
			return "expected closing parenthesis after arguments of " + emph(args[0])
		},
		Explanation: func(errors Errors, pos int, tok *token.Token, args ...any) string {
			return "The arguments of a function call must be separated by commas and closed by a ')'."
		},
	},

	"parse/rparen/group": {
		Message: func(tok *token.Token, args ...any) string {
			return "expected closing parenthesis"
		},
		Explanation: func(errors Errors, pos int, tok *token.Token, args ...any) string {
			return "There is an opening '(' which is never closed."
		},
	},

	"vm/args": {
		Message: func(tok *token.Token, args ...any) string {
			return emph(args[0]) + " expects " + describeCount(args[1]) + " but got " + strconv.Itoa(args[2].(int))
		},
		Explanation: func(errors Errors, pos int, tok *token.Token, args ...any) string {
			return "A special function was given the wrong number of arguments inside the body of a " +
				"user-defined function."
		},
	},

	"vm/body/def": {
		Message: func(tok *token.Token, args ...any) string {
			return "nested function definitions not supported in function body"
		},
		Explanation: func(errors Errors, pos int, tok *token.Token, args ...any) string {
			return "Functions can only be defined at the top level of a script."
		},
	},

	"vm/body/unsupported": {
		Message: func(tok *token.Token, args ...any) string {
			return emph(args[0]) + " not supported in user function body"
		},
		Explanation: func(errors Errors, pos int, tok *token.Token, args ...any) string {
			return "The bodies of user-defined functions are interpreted rather than compiled, and the " +
				"interpreter doesn't do the two-argument 'log' or 'randint'. Call them at the top level " +
				"and pass the result in instead."
		},
	},

	"vm/func/arity": {
		Message: func(tok *token.Token, args ...any) string {
			return "function " + emph(args[0]) + " takes one argument but was called with " + strconv.Itoa(args[1].(int))
		},
		Explanation: func(errors Errors, pos int, tok *token.Token, args ...any) string {
			return "User-defined functions have exactly one parameter, so they must be called with " +
				"exactly one argument."
		},
	},

	"vm/func/unknown": {
		Message: func(tok *token.Token, args ...any) string {
			return "user-defined function " + emph(args[0]) + " not found"
		},
		Explanation: func(errors Errors, pos int, tok *token.Token, args ...any) string {
			return "There is no 'def' for " + emph(args[0]) + ". If you are running a '.mthc' file, " +
				"the definitions are read from the '.mth' file of the same name, which must be present."
		},
	},

	"vm/loop/range": {
		Message: func(tok *token.Token, args ...any) string {
			return fmt.Sprintf("can't iterate %v from %v to %v", emph(args[0]), args[1], args[2])
		},
		Explanation: func(errors Errors, pos int, tok *token.Token, args ...any) string {
			return fmt.Sprintf("The bounds of a 'sum' or 'product' must be finite, and the loop may run "+
				"for at most %v iterations.", args[3])
		},
	},

	"vm/opcode": {
		Message: func(tok *token.Token, args ...any) string {
			return "unhandled opcode " + emph(args[0])
		},
		Explanation: func(errors Errors, pos int, tok *token.Token, args ...any) string {
			return "This is an internal error: the virtual machine was given an instruction it doesn't know."
		},
	},

	"vm/randint/range": {
		Message: func(tok *token.Token, args ...any) string {
			return fmt.Sprintf("invalid range for randint: %v > %v", args[0], args[1])
		},
		Explanation: func(errors Errors, pos int, tok *token.Token, args ...any) string {
			return "'randint(a, b)' picks a whole number between a and b inclusive, so there has to be " +
				"at least one whole number between them."
		},
	},

	"vm/result/none": {
		Message: func(tok *token.Token, args ...any) string {
			if len(args) > 0 {
				return "no result on stack (" + args[0].(string) + ")"
			}
			return "no result on stack"
		},
		Explanation: func(errors Errors, pos int, tok *token.Token, args ...any) string {
			return "The program finished without producing a value. This happens if the source contains " +
				"nothing but function definitions and comments, for example."
		},
	},

	"vm/stack/underflow": {
		Message: func(tok *token.Token, args ...any) string {
			return "stack underflow on " + emph(args[0])
		},
		Explanation: func(errors Errors, pos int, tok *token.Token, args ...any) string {
			return "The instruction " + emph(args[0]) + " needed more values than were on the stack. " +
				"Compiled programs don't do this, so the bytecode was probably made or edited by hand."
		},
	},

	"vm/var/unbound": {
		Message: func(tok *token.Token, args ...any) string {
			return "variable " + emph(args[0]) + " not found"
		},
		Explanation: func(errors Errors, pos int, tok *token.Token, args ...any) string {
			return "The variable " + emph(args[0]) + " is used before anything has been assigned to it. " +
				"Assign to it first with 'var " + fmt.Sprint(args[0]) + " = ...'."
		},
	},
}

func emph(s any) string {
	if t, ok := s.(string); ok {
		s = strings.TrimSpace(t)
	}
	return fmt.Sprintf("'%v'", s)
}

func describeCount(n any) string {
	if n.(int) == 1 {
		return "1 argument"
	}
	return strconv.Itoa(n.(int)) + " arguments"
}
