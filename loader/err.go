package loader

import (
	"errors"

	"github.com/ezrec/accsim/cpu"
	"github.com/ezrec/accsim/translate"
)

var f = translate.From

var (
	// Load errors
	ErrFileNotFound = errors.New(f("file not found"))
	ErrTruncated    = cpu.ErrTruncated
)

// ErrOpen reports a program file that could not be opened.
type ErrOpen struct {
	Path string
	Err  error
}

func (err *ErrOpen) Error() string {
	return f("%v: %v", err.Path, ErrFileNotFound)
}

func (err *ErrOpen) Unwrap() []error {
	return []error{ErrFileNotFound, err.Err}
}

// ErrParseWord is a token that is not a 16-bit hexadecimal word.
type ErrParseWord string

func (err ErrParseWord) Error() string {
	return f("'%v' is not a 16-bit hex word", string(err))
}

// ErrSyntax indicates the location of a parse error.
type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err *ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err *ErrSyntax) Unwrap() error {
	return err.Err
}
