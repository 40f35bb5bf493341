// Package cpu implements the interpreter and assembler for a CHIP-8 subset.
//
// The machine consists of a 4096-byte memory image, a 16-bit program
// counter, sixteen 8-bit general-purpose registers (v0-vf), and a bounded
// call stack of sixteen return addresses. Instructions are 16-bit words,
// stored big-endian, fetched from memory at the program counter.
//
// Only the control-flow, load, skip and register ALU instructions are
// decoded; the word 0x0000 halts the interpreter. Any other word is an
// unimplemented opcode and stops execution.
//
// The assembler reads a small assembly language for the same instruction
// subset, supporting labels, equates, origin changes and compile-time
// expression evaluation.
package cpu
