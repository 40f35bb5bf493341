package emulator

import (
	"errors"

	"github.com/ezrec/chip8/translate"
)

var f = translate.From

var (
	ErrTickLimit = errors.New(f("tick limit exceeded"))
)

// ErrRuntime indicates the location of a runtime error.
type ErrRuntime struct {
	Address uint16
	LineNo  int
	Err     error
}

func (err *ErrRuntime) Error() string {
	if err.LineNo == 0 {
		return f("address 0x%03x %v", err.Address, err.Err)
	}
	return f("line %d address 0x%03x %v", err.LineNo, err.Address, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
