// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"fmt"
	"io"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Predefined system equates
var sysEquate = func() (equ map[string]string) {
	equ = maps.Clone(_cpu_defines)
	equ["LINENO"] = "0"
	return
}()

var (
	reLabel = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	reParen = regexp.MustCompile(`\$\([^\$]*\)`)
)

// Assembler is a single pass assembler for the CHIP-8 instruction subset.
type Assembler struct {
	Verbose bool     // If set, verbosely logs the assembler actions.
	Opcode  []Opcode // List of generated opcodes.

	predefine map[string]string // Predefines
	Label     map[string]int    // Map of jump labels to addresses.
	Equate    map[string]string // Map of equates.

	addr int // Address of the next generated word.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// valueOf returns the value of a simple word.
func (asm *Assembler) valueOf(word string) (value int64, err error) {
	value, err = strconv.ParseInt(word, 0, 32)
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	return
}

// registerOf returns the register named by a word.
func (asm *Assembler) registerOf(word string) (reg CodeReg, err error) {
	lower := strings.ToLower(word)
	if len(lower) != 2 || lower[0] != 'v' {
		err = ErrParseRegister(word)
		return
	}

	index, perr := strconv.ParseUint(lower[1:], 16, 4)
	if perr != nil {
		err = ErrParseRegister(word)
		return
	}

	reg = CodeReg(index)
	return
}

// immediateOf returns an 8-bit immediate. Negative values are accepted
// down to -128 and stored as two's complement.
func (asm *Assembler) immediateOf(word string) (kk uint8, err error) {
	value, err := asm.valueOf(word)
	if err != nil {
		return
	}

	if value < -0x80 || value > 0xff {
		err = ErrImmediateRange
		return
	}

	kk = uint8(value)
	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int64, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		var v int64
		v, err = asm.valueOf(str)
		if err != nil {
			// Ignore non-integer equates. They may be registers
			// or something else.
			err = nil
			continue
		}
		pred[key] = starlark.MakeInt64(v)
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value, ok = st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	return
}

// parseLine splits a single line into words, handling equates and labels.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do $() evaluations
	line = reParen.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil && err == nil {
			err = _err
		}
		return fmt.Sprintf("%v", value)
	})
	if err != nil {
		return
	}

	words = strings.FieldsFunc(line, func(r rune) bool {
		return r == ' ' || r == '\t' || r == ','
	})

	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if words[0] == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		words = words[:0]
		return
	}

	for n, word := range words {
		// Check for equate next
		equate, ok := asm.Equate[word]
		if ok {
			words[n] = equate
		}
	}

	for len(words) > 0 && strings.HasSuffix(words[0], ":") {
		label := words[0][:len(words[0])-1]
		if !reLabel.MatchString(label) {
			err = ErrLabelInvalid
			return
		}
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}

		asm.Label[label] = asm.addr
		words = words[1:]
	}

	return
}

// Parse parses an input stream into a Program containing opcodes.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	asm.Label = make(map[string]int, 16)
	asm.Opcode = asm.Opcode[:0]
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}
	asm.addr = 0

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Debug("asm", "line", lineno, "text", text)
		}

		text_comment := strings.Split(text, ";")
		line = strings.TrimSpace(text_comment[0])

		var words []string
		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		err = asm.parseWords(words, lineno)
		if err != nil {
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	// Final linking of jump labels.
	for n := range asm.Opcode {
		op := &asm.Opcode[n]

		if len(op.LinkLabel) == 0 {
			continue
		}
		addr, ok := asm.Label[op.LinkLabel]
		if !ok {
			lineno = op.LineNo
			line = strings.Join(op.Words, " ")
			err = ErrLabelMissing(op.LinkLabel)
			return
		}
		op.Codes[0] |= Code(addr & 0x0FFF)
	}

	// Check for overlapping .org regions.
	var used [MEMORY_SIZE]bool
	for _, op := range asm.Opcode {
		for addr := op.Addr; addr < op.Addr+2*len(op.Codes); addr++ {
			if used[addr] {
				lineno = op.LineNo
				line = strings.Join(op.Words, " ")
				err = ErrCodeOverlap
				return
			}
			used[addr] = true
		}
	}

	prog = &Program{
		Opcodes: slices.Clone(asm.Opcode),
	}

	return
}

// addressOf parses a jump target, which may be a label to link later.
func (asm *Assembler) addressOf(word string) (addr uint16, label string, err error) {
	value, err := asm.valueOf(word)
	if err == nil {
		if value < 0 || value > 0x0FFF {
			err = ErrAddressRange
			return
		}
		addr = uint16(value)
		return
	}

	if !reLabel.MatchString(word) {
		return
	}

	err = nil
	label = word
	return
}

// argCount checks the number of operands.
func argCount(args []string, count int) (err error) {
	switch {
	case len(args) < count:
		err = ErrOpcodeMissing
	case len(args) > count:
		err = ErrOpcodeExtraArgs
	}
	return
}

// mnemonicMap maps each mnemonic to its register-immediate and
// register-register forms. Forms that do not exist are -1.
var mnemonicMap = map[string][2]CodeOp{
	"se":  {OP_SE_IMM, OP_SE_REG},
	"sne": {OP_SNE_IMM, -1},
	"ld":  {OP_LD_IMM, OP_LD_REG},
	"add": {OP_ADD_IMM, OP_ADD_REG},
	"or":  {-1, OP_OR},
	"and": {-1, OP_AND},
	"xor": {-1, OP_XOR},
}

// parseWords evaluates the words in a line of assembly text.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	var codes []Code
	var label string

	// no-op
	if len(words) == 0 {
		return
	}

	initial_words := words

	defer func() {
		if len(codes) == 0 || err != nil {
			return
		}
		if asm.addr+2*len(codes) > MEMORY_SIZE {
			err = ErrAddressRange
			return
		}
		opcode := Opcode{LineNo: lineno, Addr: asm.addr, Words: initial_words, Codes: codes, LinkLabel: label}
		asm.Opcode = append(asm.Opcode, opcode)
		asm.addr += 2 * len(codes)
	}()

	mnemonic := strings.ToLower(words[0])
	args := words[1:]

	switch mnemonic {
	case ".org":
		err = argCount(args, 1)
		if err != nil {
			err = ErrOrgSyntax
			return
		}
		var value int64
		value, err = asm.valueOf(args[0])
		if err != nil {
			return
		}
		if value < 0 || value >= MEMORY_SIZE {
			err = ErrAddressRange
			return
		}
		asm.addr = int(value)
	case ".word":
		if len(args) == 0 {
			err = ErrWordSyntax
			return
		}
		for _, arg := range args {
			var value int64
			value, err = asm.valueOf(arg)
			if err != nil {
				return
			}
			if value < 0 || value > 0xffff {
				err = ErrImmediateRange
				return
			}
			codes = append(codes, Code(value))
		}
	case "halt":
		err = argCount(args, 0)
		codes = append(codes, MakeCode(OP_HALT))
	case "cls":
		err = argCount(args, 0)
		codes = append(codes, MakeCode(OP_CLS))
	case "ret":
		err = argCount(args, 0)
		codes = append(codes, MakeCode(OP_RET))
	case "jp", "call":
		err = argCount(args, 1)
		if err != nil {
			return
		}
		op := OP_JP
		if mnemonic == "call" {
			op = OP_CALL
		}
		var addr uint16
		addr, label, err = asm.addressOf(args[0])
		if err != nil {
			return
		}
		codes = append(codes, MakeCodeAddr(op, addr))
	default:
		forms, ok := mnemonicMap[mnemonic]
		if !ok {
			err = ErrOpcodeInvalid
			return
		}
		err = argCount(args, 2)
		if err != nil {
			return
		}
		var x CodeReg
		x, err = asm.registerOf(args[0])
		if err != nil {
			return
		}
		y, yerr := asm.registerOf(args[1])
		if yerr == nil {
			if forms[1] < 0 {
				err = ErrOpcodeInvalid
				return
			}
			codes = append(codes, MakeCodeReg(forms[1], x, y))
			return
		}
		if forms[0] < 0 {
			err = yerr
			return
		}
		var kk uint8
		kk, err = asm.immediateOf(args[1])
		if err != nil {
			return
		}
		codes = append(codes, MakeCodeImm(forms[0], x, kk))
	}

	return
}
