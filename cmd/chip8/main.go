// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/ezrec/chip8/cpu"
	"github.com/ezrec/chip8/emulator"
	"github.com/ezrec/chip8/internal"
	"github.com/ezrec/chip8/internal/logger"
)

// demoSource adds v1 to v0 four times, through two calls of a subroutine.
const demoSource = `
	call twice       ; 0x000
	call twice       ; 0x002
	halt             ; 0x004

.org 0x100
twice:
	add v0, v1
	add v0, v1
	ret
`

// pokeDemo writes the demo program as raw bytes.
func pokeDemo(mem *cpu.Memory) {
	mem[0x000] = 0x21
	mem[0x001] = 0x00
	mem[0x002] = 0x21
	mem[0x003] = 0x00

	mem[0x100] = 0x80
	mem[0x101] = 0x14
	mem[0x102] = 0x80
	mem[0x103] = 0x14
	mem[0x104] = 0x00
	mem[0x105] = 0xEE
}

func main() {
	var verbose bool
	var noColor bool
	var listing bool
	var defines bool
	var poke bool
	var maxTicks int

	flag.BoolVar(&verbose, "v", false, "Verbose mode")
	flag.BoolVar(&noColor, "n", false, "No color")
	flag.BoolVar(&listing, "l", false, "Print the program listing")
	flag.BoolVar(&defines, "D", false, "Print the predefined equates")
	flag.BoolVar(&poke, "p", false, "Poke the program bytes, do not assemble")
	flag.IntVar(&maxTicks, "m", 0, "Maximum instructions to execute (0 is unlimited)")

	flag.Parse()

	logger.Init(verbose, noColor)

	if flag.NArg() != 0 {
		log.Fatal("Unknown arguments", "args", flag.Args())
	}

	emu := emulator.NewEmulator()
	emu.Verbose = verbose
	emu.MaxTicks = maxTicks

	if defines {
		for key, value := range internal.IterSeq2Sorted(emu.Defines()) {
			fmt.Printf("%v = %v\n", key, value)
		}
	}

	if !poke {
		err := emu.Assemble(strings.NewReader(demoSource))
		if err != nil {
			log.Fatal("Assembly failed", "err", err)
		}
		if listing {
			fmt.Print(emu.Program.String())
		}
	}

	err := emu.Reset()
	if err != nil {
		log.Fatal("Reset failed", "err", err)
	}

	if poke {
		pokeDemo(&emu.Cpu.Memory)
	}

	emu.Cpu.Register[0] = 5
	emu.Cpu.Register[1] = 10

	err = emu.Run()
	if err != nil {
		log.Fatal("Run failed", "err", err, "state", emu.Cpu.String())
	}

	if emu.Cpu.Register[0] != 45 {
		log.Fatal("Unexpected result", "v0", emu.Cpu.Register[0])
	}

	fmt.Printf("5 + (10 * 2) + (10 * 2) = %v\n", emu.Cpu.Register[0])
}
