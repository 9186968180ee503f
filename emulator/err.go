package emulator

import (
	"github.com/ezrec/accsim/cpu"
	"github.com/ezrec/accsim/translate"
)

var f = translate.From

// ErrRuntime indicates the location of a runtime fault.
type ErrRuntime struct {
	Pc   uint16
	Code cpu.Code
	Err  error
}

func (err *ErrRuntime) Error() string {
	return f("pc 0x%03x (%v) %v", err.Pc, err.Code, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
