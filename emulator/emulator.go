// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"maps"

	"github.com/charmbracelet/log"

	"github.com/ezrec/chip8/cpu"
	"github.com/ezrec/chip8/internal"
)

const (
	ENTRY = 0x000 // Default entry point.
)

var _emulator_defines = map[string]string{
	"ENTRY": fmt.Sprintf("%#x", ENTRY),
}

// Emulator state. CPU + program listing.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *cpu.Program // Reference to the currently running program listing.

	Entry    uint16 // Program counter after a Reset.
	MaxTicks int    // If non-zero, limit on executed instructions.
}

// NewEmulator creates a new emulator.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Cpu:     cpu.NewCpu(),
		Program: &cpu.Program{},
		Entry:   ENTRY,
	}

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(maps.All(_emulator_defines),
		emu.Cpu.Defines(),
	)
}

// Assemble replaces the program with one assembled from source.
func (emu *Emulator) Assemble(source io.Reader) (err error) {
	asm := &cpu.Assembler{Verbose: emu.Verbose}
	for key, value := range _emulator_defines {
		asm.Predefine(key, value)
	}

	prog, err := asm.Parse(source)
	if err != nil {
		return
	}

	emu.Program = prog
	return
}

// Reset the machine, and load the program.
func (emu *Emulator) Reset() (err error) {
	emu.Cpu.Verbose = emu.Verbose

	emu.Cpu.Reset()

	err = emu.Program.Load(&emu.Cpu.Memory)
	if err != nil {
		return
	}

	emu.Cpu.Pc = emu.Entry

	if emu.Verbose {
		log.Debug("emulator: reset", "entry", fmt.Sprintf("%03x", emu.Entry))
	}

	return
}

// Code returns the instruction word at the program counter.
func (emu *Emulator) Code() cpu.Code {
	code, _ := emu.Cpu.Memory.Fetch(emu.Cpu.Pc)
	return code
}

// LineNo returns the source line number for the executing opcode.
// Zero if the program counter is outside of the listing.
func (emu *Emulator) LineNo() int {
	dbg := emu.Program.Debug(emu.Cpu.Pc)
	if dbg.Opcode == nil {
		return 0
	}

	return dbg.LineNo
}

// Tick performs a single tick of the emulator.
func (emu *Emulator) Tick() (done bool, err error) {
	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	pc := emu.Cpu.Pc
	lineno := emu.LineNo()
	defer func() {
		if err != nil {
			err = &ErrRuntime{Address: pc, LineNo: lineno, Err: err}
		}
	}()

	if emu.MaxTicks > 0 && emu.Cpu.Ticks >= emu.MaxTicks {
		err = ErrTickLimit
		return
	}

	err = emu.Cpu.Tick()
	if errors.Is(err, cpu.ErrHalted) {
		err = nil
		done = true
		return
	}

	return
}

// Run ticks the emulator until the program halts or faults.
func (emu *Emulator) Run() (err error) {
	for done := false; !done; {
		done, err = emu.Tick()
		if err != nil {
			return
		}
	}

	return
}
