package cpu

import (
	"errors"

	"github.com/ezrec/accsim/translate"
)

var f = translate.From

var (
	// Memory errors
	ErrRange     = errors.New(f("out of range"))
	ErrAddress   = errors.New(f("invalid address"))
	ErrCount     = errors.New(f("invalid size"))
	ErrTruncated = errors.New(f("program truncated"))

	// Execution faults
	ErrDivisionByZero = errors.New(f("division by zero"))
	ErrStackUnderflow = errors.New(f("stack underflow"))
)

// ErrInvalidOpcode is the fault raised by an undefined opcode.
type ErrInvalidOpcode Opcode

func (ei ErrInvalidOpcode) Error() string {
	return f("invalid opcode 0x%x", int(ei))
}

func (ei ErrInvalidOpcode) Is(err error) (ok bool) {
	_, ok = err.(ErrInvalidOpcode)
	return
}
