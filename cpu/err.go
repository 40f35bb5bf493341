package cpu

import (
	"errors"

	"github.com/ezrec/chip8/translate"
)

var f = translate.From

var (
	// Cpu errors
	ErrHalted          = errors.New(f("halted"))
	ErrStackOverflow   = errors.New(f("stack overflow"))
	ErrStackUnderflow  = errors.New(f("stack underflow"))
	ErrStackPointer    = errors.New(f("stack pointer invalid"))
	ErrMemoryBounds    = errors.New(f("memory access out of bounds"))
	ErrRegisterInvalid = errors.New(f("register invalid"))

	// Assembler errors
	ErrEquateSyntax    = errors.New(f(".equ syntax"))
	ErrEquateDuplicate = errors.New(f(".equ duplicated"))
	ErrOrgSyntax       = errors.New(f(".org syntax"))
	ErrWordSyntax      = errors.New(f(".word syntax"))
	ErrLabelDuplicate  = errors.New(f("label duplicated"))
	ErrLabelInvalid    = errors.New(f("label invalid"))
	ErrOpcodeMissing   = errors.New(f("operand missing"))
	ErrOpcodeExtraArgs = errors.New(f("excessive arguments"))
	ErrOpcodeInvalid   = errors.New(f("opcode invalid"))
	ErrImmediateRange  = errors.New(f("immediate out of range"))
	ErrAddressRange    = errors.New(f("address out of range"))
	ErrCodeOverlap     = errors.New(f("code overlaps"))
)

// ErrUnimplemented is returned when a fetched word is not in the
// dispatch table.
type ErrUnimplemented Code

func (eu ErrUnimplemented) Error() string {
	return f("unimplemented opcode 0x%04x", uint16(eu))
}

// Is matches any other ErrUnimplemented.
func (eu ErrUnimplemented) Is(err error) (ok bool) {
	_, ok = err.(ErrUnimplemented)
	return
}

// Word returns the offending instruction word.
func (eu ErrUnimplemented) Word() uint16 {
	return uint16(eu)
}

// ErrFault locates a fatal condition raised while running.
type ErrFault struct {
	Pc   uint16 // Address of the faulting instruction.
	Code Code   // Instruction word, if the fetch succeeded.
	Err  error
}

func (err *ErrFault) Error() string {
	return f("pc 0x%03x code 0x%04x %v", err.Pc, uint16(err.Code), err.Err)
}

func (err *ErrFault) Unwrap() error {
	return err.Err
}

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseRegister string

func (err ErrParseRegister) Error() string {
	return f("'%v' is not a register", string(err))
}

func (err ErrParseRegister) Unwrap() error {
	return ErrRegisterInvalid
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}
