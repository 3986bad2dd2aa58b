package err

import (
	"errors"
	"strconv"
	"strings"

	"github.com/ElementialCoder/fmath/source/text"
	"github.com/ElementialCoder/fmath/source/token"
)

// The 'error' type. The ErrorId is the key into the ErrorCreatorMap and is what callers
// should switch on: for run-time errors it names the kind of failure.
type Error struct {
	ErrorId string
	Message string
	Args    []any
	Token   *token.Token
}

type Errors []*Error

type ErrorCreator struct {
	Message     func(tok *token.Token, args ...any) string
	Explanation func(errors Errors, pos int, tok *token.Token, args ...any) string
}

func (e *Error) Error() string {
	if e.Token != nil {
		if pos := text.DescribePos(e.Token); pos != "" {
			return e.Message + pos
		}
	}
	return e.Message
}

// Two errors are the same for the purposes of errors.Is if they have the same identifier.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.ErrorId == t.ErrorId
}

// Kind returns a bare error with the given identifier, for use as the target of errors.Is.
func Kind(errorID string) *Error {
	return &Error{ErrorId: errorID}
}

// Makes an error with the message supplied by the ErrorCreatorMap.
func CreateErr(errorID string, tok *token.Token, args ...any) *Error {
	creator, ok := ErrorCreatorMap[errorID]
	if !ok {
		return &Error{ErrorId: "err/misdirect", Message: "couldn't find error with identifier " + emph(errorID), Token: tok, Args: args}
	}
	return &Error{ErrorId: errorID, Message: creator.Message(tok, args...), Args: args, Token: tok}
}

// Appends a new error to the list and returns the list.
func Throw(errorID string, ers Errors, tok *token.Token, args ...any) Errors {
	return append(ers, CreateErr(errorID, tok, args...))
}

func (ers Errors) First() *Error {
	if len(ers) == 0 {
		return nil
	}
	return ers[0]
}

// Renders the list of errors in the numbered form used by the hub and the command line.
func GetList(ers Errors) string {
	var buf strings.Builder
	for i, e := range ers {
		buf.WriteString(text.ERROR)
		buf.WriteString("[" + strconv.Itoa(i) + "] ")
		buf.WriteString(e.Error())
		buf.WriteString("\n")
	}
	return buf.String()
}

// Returns the long-form explanation of the error at position pos in the list.
func Explain(ers Errors, pos int) string {
	if pos < 0 || pos >= len(ers) {
		return ""
	}
	e := ers[pos]
	creator, ok := ErrorCreatorMap[e.ErrorId]
	if !ok || creator.Explanation == nil {
		return ""
	}
	return creator.Explanation(ers, pos, e.Token, e.Args...)
}

// So that a list of errors can be returned as an error. It must not be empty.
func (ers Errors) Error() string {
	if len(ers) == 1 {
		return ers[0].Error()
	}
	var buf strings.Builder
	for i, e := range ers {
		if i > 0 {
			buf.WriteString("; ")
		}
		buf.WriteString(e.Error())
	}
	return buf.String()
}

// So that errors.Is and errors.As look inside the list.
func (ers Errors) Unwrap() []error {
	result := make([]error, len(ers))
	for i, e := range ers {
		result[i] = e
	}
	return result
}
