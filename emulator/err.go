package emulator

import (
	"errors"

	"github.com/ezrec/toy/cpu"
	"github.com/ezrec/toy/translate"
)

var f = translate.From

var (
	ErrStepLimit = errors.New(f("step limit reached"))
)

// ErrRuntime indicates the location of a machine fault.
type ErrRuntime struct {
	Reason cpu.HaltReason
	Pc     cpu.Word
	Code   cpu.Code
	LineNo int // Source line of the faulting instruction, or 0 if unknown.
	Err    error
}

func (err *ErrRuntime) Error() string {
	if err.LineNo > 0 {
		return f("line %d: pc 0x%02x (%v): %v fault: %v", err.LineNo, err.Pc, err.Code, err.Reason, err.Err)
	}
	return f("pc 0x%02x (%v): %v fault: %v", err.Pc, err.Code, err.Reason, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
