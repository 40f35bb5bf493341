package cpu

import (
	"fmt"
	"iter"
	"strings"
)

// Program is an assembled listing.
type Program struct {
	Opcodes []Opcode
}

// Opcode represents a line of assembled code with its source location and generated instructions.
type Opcode struct {
	LineNo    int
	Addr      int
	Words     []string
	Codes     []Code
	LinkLabel string
}

type Debug struct {
	*Opcode
	Index int
}

// Debug finds the opcode that generated the word at addr.
func (prog *Program) Debug(addr uint16) (dbg Debug) {
	for n, op := range prog.Opcodes {
		if int(addr) >= op.Addr && int(addr) < op.Addr+2*len(op.Codes) {
			dbg = Debug{
				Opcode: &prog.Opcodes[n],
				Index:  (int(addr) - op.Addr) / 2,
			}
			break
		}
	}

	return
}

// Codes iterates over every instruction word and its address.
func (prog *Program) Codes() iter.Seq2[uint16, Code] {
	return func(yield func(addr uint16, code Code) bool) {
		for _, op := range prog.Opcodes {
			for n, code := range op.Codes {
				if !yield(uint16(op.Addr+2*n), code) {
					return
				}
			}
		}
	}
}

// Load pokes the program into a memory image.
func (prog *Program) Load(mem *Memory) (err error) {
	for addr, code := range prog.Codes() {
		err = mem.Poke(addr, code)
		if err != nil {
			return
		}
	}

	return
}

// String returns a disassembled listing of the program.
func (prog *Program) String() string {
	var sb strings.Builder

	for _, op := range prog.Opcodes {
		for n, code := range op.Codes {
			fmt.Fprintf(&sb, "%03x: %04x  %-16v ; line %d\n", op.Addr+2*n, uint16(code), code, op.LineNo)
		}
	}

	return sb.String()
}
