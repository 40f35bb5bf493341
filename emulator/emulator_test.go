package emulator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/chip8/cpu"
)

func TestEmulator(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()

	assert.False(emu.Verbose)
	assert.NotNil(emu.Cpu)
	assert.NotNil(emu.Program)
	assert.Equal(uint16(ENTRY), emu.Entry)
}

func doAssemble(emu *Emulator, program []string, t *testing.T) {
	err := emu.Assemble(strings.NewReader(strings.Join(program, "\n")))
	if err != nil {
		t.Fatal(err)
	}

	err = emu.Reset()
	if err != nil {
		t.Fatal(err)
	}
}

func TestEmulatorReference(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()

	program := []string{
		"	call twice",
		"	call twice",
		"	halt",
		".org 0x100",
		"twice:",
		"	add v0, v1",
		"	add v0, v1",
		"	ret",
	}
	doAssemble(emu, program, t)

	emu.Cpu.Register[0] = 5
	emu.Cpu.Register[1] = 10

	err := emu.Run()
	assert.NoError(err)
	assert.Equal(uint8(45), emu.Cpu.Register[0])
	assert.Equal(uint16(0x006), emu.Cpu.Pc)
}

func TestEmulatorTick(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()

	program := []string{
		"ld v0, 1",  // line 1
		"call sub",  // line 2
		"halt",      // line 3
		"sub:",      // line 4
		"add v0, 2", // line 5
		"ret",       // line 6
	}
	doAssemble(emu, program, t)

	lines := []int{1, 2, 5, 6, 3}
	for n, lineno := range lines {
		assert.Equal(lineno, emu.LineNo())

		dbg := emu.Program.Debug(emu.Cpu.Pc)
		assert.Equal(dbg.Codes[dbg.Index], emu.Code())

		done, err := emu.Tick()
		assert.NoError(err)
		assert.Equal(n == len(lines)-1, done, "line %d", lineno)
	}

	assert.Equal(uint8(3), emu.Cpu.Register[0])
	assert.Equal(len(lines), emu.Cpu.Ticks)
}

func TestEmulatorRuntimeError(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()

	program := []string{
		"ld v0, 1",
		".word 0x9123",
		"halt",
	}
	doAssemble(emu, program, t)

	err := emu.Run()
	assert.ErrorIs(err, cpu.ErrUnimplemented(0))

	var runtime *ErrRuntime
	if assert.ErrorAs(err, &runtime) {
		assert.Equal(2, runtime.LineNo)
		assert.Equal(uint16(0x002), runtime.Address)
	}

	var eu cpu.ErrUnimplemented
	if assert.ErrorAs(err, &eu) {
		assert.Equal(uint16(0x9123), eu.Word())
	}
}

func TestEmulatorStackErrors(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	doAssemble(emu, []string{"loop: call loop"}, t)

	err := emu.Run()
	assert.ErrorIs(err, cpu.ErrStackOverflow)
	assert.Equal(cpu.STACK_LIMIT, emu.Cpu.Stack.Pointer)

	doAssemble(emu, []string{"ret"}, t)
	err = emu.Run()
	assert.ErrorIs(err, cpu.ErrStackUnderflow)
}

func TestEmulatorTickLimit(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	emu.MaxTicks = 100
	doAssemble(emu, []string{"loop: add v0, 1", "jp loop"}, t)

	err := emu.Run()
	assert.ErrorIs(err, ErrTickLimit)
	assert.Equal(100, emu.Cpu.Ticks)
	// 50 passes of the loop, wrapping modulo 256.
	assert.Equal(uint8(50), emu.Cpu.Register[0])

	var runtime *ErrRuntime
	if assert.ErrorAs(err, &runtime) {
		assert.Equal(1, runtime.LineNo)
	}
}

func TestEmulatorEntry(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	emu.Entry = 0x200
	doAssemble(emu, []string{"ld v1, 0x11", "halt", ".org 0x200", "ld v2, 0x22", "halt"}, t)

	assert.NoError(emu.Run())
	assert.Equal(uint8(0), emu.Cpu.Register[1])
	assert.Equal(uint8(0x22), emu.Cpu.Register[2])
}

func TestEmulatorOutsideListing(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	doAssemble(emu, []string{"jp 0x400"}, t)

	// Memory past the listing is zero, which halts.
	assert.NoError(emu.Run())
	assert.Equal(0, emu.LineNo())
	assert.Equal(uint16(0x402), emu.Cpu.Pc)

	doAssemble(emu, []string{"jp 0xfff"}, t)
	err := emu.Run()
	assert.ErrorIs(err, cpu.ErrMemoryBounds)
	assert.Equal("address 0xfff pc 0xfff code 0x0000 memory access out of bounds", err.Error())
}

func TestEmulatorDefines(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()

	defines := map[string]string{}
	for key, value := range emu.Defines() {
		defines[key] = value
	}

	assert.Equal("0x0", defines["ENTRY"])
	assert.Equal("4096", defines["MEMORY_SIZE"])

	doAssemble(emu, []string{"jp $(ENTRY + 4)"}, t)
	assert.Equal(cpu.Code(0x1004), emu.Program.Opcodes[0].Codes[0])
}
