package console

import (
	"errors"

	"github.com/ezrec/accsim/translate"
)

var f = translate.From

var (
	// Console errors
	ErrExit         = errors.New(f("exit"))
	ErrArgCount     = errors.New(f("wrong argument count"))
	ErrUnknown      = errors.New(f("unknown command!"))
	ErrParenUnmatch = errors.New(f("unmatched parenthesis"))
	ErrLineTooLong  = errors.New(f("line too long"))
)

// ErrParseNumber is an argument that is not an integer.
type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

// ErrParseExpression is a $(...) argument that does not evaluate to an
// integer.
type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}
