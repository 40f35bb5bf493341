package cpu

import (
	"errors"
	"fmt"
	"iter"
	"maps"

	"github.com/charmbracelet/log"
)

var _cpu_defines = map[string]string{
	"MEMORY_SIZE":    fmt.Sprintf("%v", MEMORY_SIZE),
	"REGISTER_COUNT": fmt.Sprintf("%v", REGISTER_COUNT),
	"STACK_LIMIT":    fmt.Sprintf("%v", STACK_LIMIT),
}

// Cpu is the complete machine state of the interpreter.
// The zero value is a machine with all memory, registers and stack
// cleared, and the program counter at address 0.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Memory   Memory    // Memory image.
	Pc       uint16    // Address of the next instruction.
	Register Registers // Register bank.
	Stack    Stack     // Return address stack.

	Ticks int // Executed instruction counter.
}

// NewCpu creates a new, cleared CPU.
func NewCpu() (cpu *Cpu) {
	cpu = &Cpu{}

	return
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	text += fmt.Sprintf("% 5s: %03X\n", "pc", cpu.Pc)
	for n, val := range cpu.Register {
		text += fmt.Sprintf("% 5s: %02X\n", CodeReg(n).String(), val)
	}

	strval := "---"
	val, ok := cpu.Stack.Peek()
	if ok {
		strval = fmt.Sprintf("%03X", val)
	}
	text += fmt.Sprintf("% 5s: %v (%d)\n", "stack", strval, cpu.Stack.Pointer)

	return
}

// Reset the CPU state.
// - Clears memory, registers and stack.
// - Zeros the program counter and tick counter.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Debug("cpu: reset")
	}

	clear(cpu.Memory[:])
	clear(cpu.Register[:])
	cpu.Stack.Reset()
	cpu.Pc = 0
	cpu.Ticks = 0
}

// Run executes instructions until the halt instruction.
// Any other stop is a fatal *ErrFault.
func (cpu *Cpu) Run() (err error) {
	for {
		err = cpu.Tick()
		if errors.Is(err, ErrHalted) {
			return nil
		}
		if err != nil {
			return
		}
	}
}

// Tick fetches and executes a single instruction.
// Returns ErrHalted after executing the halt instruction.
func (cpu *Cpu) Tick() (err error) {
	pc := cpu.Pc

	code, err := cpu.Memory.Fetch(pc)
	if err != nil {
		err = &ErrFault{Pc: pc, Err: err}
		return
	}

	err = cpu.Execute(code)
	if err != nil && !errors.Is(err, ErrHalted) {
		err = &ErrFault{Pc: pc, Code: code, Err: err}
	}

	return
}

// Execute executes a single decoded instruction at the current program
// counter. State is unchanged if an error other than ErrHalted is returned.
func (cpu *Cpu) Execute(code Code) (err error) {
	if cpu.Verbose {
		log.Debug("exec", "pc", fmt.Sprintf("%03x", cpu.Pc), "code", fmt.Sprintf("%04x", uint16(code)), "op", code)
	}

	if int(cpu.Pc) > MEMORY_SIZE-2 {
		err = ErrMemoryBounds
		return
	}

	op, err := code.Decode()
	if err != nil {
		return
	}

	next_pc := cpu.Pc + 2

	x := code.X()
	y := code.Y()
	kk := code.KK()

	switch op {
	case OP_HALT:
		err = ErrHalted
	case OP_CLS:
		// No display.
	case OP_RET:
		next_pc, err = cpu.Stack.Pop()
	case OP_JP:
		next_pc = code.Addr()
	case OP_CALL:
		err = cpu.Stack.Push(next_pc)
		next_pc = code.Addr()
	case OP_SE_IMM, OP_SNE_IMM:
		var vx uint8
		vx, err = cpu.Register.Get(x)
		if err != nil {
			break
		}
		if (vx == kk) == (op == OP_SE_IMM) {
			next_pc += 2
		}
	case OP_SE_REG:
		var vx, vy uint8
		vx, vy, err = cpu.getPair(x, y)
		if err != nil {
			break
		}
		if vx == vy {
			next_pc += 2
		}
	case OP_LD_IMM:
		err = cpu.Register.Set(x, kk)
	case OP_ADD_IMM:
		var vx uint8
		vx, err = cpu.Register.Get(x)
		if err != nil {
			break
		}
		err = cpu.Register.Set(x, doAlu(OP_ADD_REG, vx, kk))
	case OP_LD_REG, OP_OR, OP_AND, OP_XOR, OP_ADD_REG:
		var vx, vy uint8
		vx, vy, err = cpu.getPair(x, y)
		if err != nil {
			break
		}
		err = cpu.Register.Set(x, doAlu(op, vx, vy))
	default:
		err = ErrUnimplemented(code)
	}

	if err != nil && !errors.Is(err, ErrHalted) {
		return
	}

	cpu.Pc = next_pc
	cpu.Ticks += 1

	return
}

// getPair gets the values of two registers.
func (cpu *Cpu) getPair(x, y CodeReg) (vx, vy uint8, err error) {
	vx, err = cpu.Register.Get(x)
	if err != nil {
		return
	}
	vy, err = cpu.Register.Get(y)
	return
}

// doAlu performs the requested register ALU action, and returns the output value.
// Addition wraps modulo 256.
func doAlu(op CodeOp, input uint8, value uint8) (output uint8) {
	switch op {
	case OP_LD_REG: // ld
		output = value
	case OP_OR: // or
		output = input | value
	case OP_AND: // and
		output = input & value
	case OP_XOR: // xor
		output = input ^ value
	case OP_ADD_REG: // add
		output = input + value
	}

	return
}
