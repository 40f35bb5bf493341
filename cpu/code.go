package cpu

import (
	"fmt"
)

// CodeReg is a 4-bit register index.
type CodeReg int

const (
	REG_V0 = CodeReg(0x0)
	REG_VF = CodeReg(0xf)
)

// Valid returns true if the index addresses a register.
func (reg CodeReg) Valid() bool {
	return reg >= REG_V0 && reg <= REG_VF
}

// String returns the assembly name of the register.
func (reg CodeReg) String() string {
	if !reg.Valid() {
		return fmt.Sprintf("v?%d", int(reg))
	}
	return fmt.Sprintf("v%x", int(reg))
}

// CodeOp is a decoded operation.
type CodeOp int

const (
	OP_HALT    = CodeOp(0)  // halt
	OP_CLS     = CodeOp(1)  // cls
	OP_RET     = CodeOp(2)  // ret
	OP_JP      = CodeOp(3)  // jp addr
	OP_CALL    = CodeOp(4)  // call addr
	OP_SE_IMM  = CodeOp(5)  // se vx, kk
	OP_SNE_IMM = CodeOp(6)  // sne vx, kk
	OP_SE_REG  = CodeOp(7)  // se vx, vy
	OP_LD_IMM  = CodeOp(8)  // ld vx, kk
	OP_ADD_IMM = CodeOp(9)  // add vx, kk
	OP_LD_REG  = CodeOp(10) // ld vx, vy
	OP_OR      = CodeOp(11) // or vx, vy
	OP_AND     = CodeOp(12) // and vx, vy
	OP_XOR     = CodeOp(13) // xor vx, vy
	OP_ADD_REG = CodeOp(14) // add vx, vy
)

// CodeForm is the operand layout of an operation.
type CodeForm int

const (
	FORM_NONE = CodeForm(0) // no operands
	FORM_ADDR = CodeForm(1) // 12-bit address
	FORM_IMM  = CodeForm(2) // register and 8-bit immediate
	FORM_REG  = CodeForm(3) // two registers
)

type opInfo struct {
	name string
	form CodeForm
	base Code
}

var opTable = [...]opInfo{
	OP_HALT:    {"halt", FORM_NONE, 0x0000},
	OP_CLS:     {"cls", FORM_NONE, 0x00E0},
	OP_RET:     {"ret", FORM_NONE, 0x00EE},
	OP_JP:      {"jp", FORM_ADDR, 0x1000},
	OP_CALL:    {"call", FORM_ADDR, 0x2000},
	OP_SE_IMM:  {"se", FORM_IMM, 0x3000},
	OP_SNE_IMM: {"sne", FORM_IMM, 0x4000},
	OP_SE_REG:  {"se", FORM_REG, 0x5000},
	OP_LD_IMM:  {"ld", FORM_IMM, 0x6000},
	OP_ADD_IMM: {"add", FORM_IMM, 0x7000},
	OP_LD_REG:  {"ld", FORM_REG, 0x8000},
	OP_OR:      {"or", FORM_REG, 0x8001},
	OP_AND:     {"and", FORM_REG, 0x8002},
	OP_XOR:     {"xor", FORM_REG, 0x8003},
	OP_ADD_REG: {"add", FORM_REG, 0x8004},
}

func (op CodeOp) valid() bool {
	return op >= OP_HALT && int(op) < len(opTable)
}

// String returns the mnemonic of the operation.
func (op CodeOp) String() string {
	if !op.valid() {
		return fmt.Sprintf("CodeOp(%d)", int(op))
	}
	return opTable[op].name
}

// Form returns the operand layout of the operation.
func (op CodeOp) Form() CodeForm {
	if !op.valid() {
		return FORM_NONE
	}
	return opTable[op].form
}

// Code is a single 16-bit instruction word.
type Code uint16

// MakeCode creates an instruction without operands.
func MakeCode(op CodeOp) Code {
	return opTable[op].base
}

// MakeCodeAddr creates an instruction with a 12-bit address operand.
func MakeCodeAddr(op CodeOp, addr uint16) Code {
	return opTable[op].base | Code(addr&0x0FFF)
}

// MakeCodeImm creates an instruction with a register and an immediate.
func MakeCodeImm(op CodeOp, x CodeReg, kk uint8) Code {
	return opTable[op].base | (Code(x&0xF) << 8) | Code(kk)
}

// MakeCodeReg creates an instruction with two register operands.
func MakeCodeReg(op CodeOp, x, y CodeReg) Code {
	return opTable[op].base | (Code(x&0xF) << 8) | (Code(y&0xF) << 4)
}

// X returns the first register index field.
func (code Code) X() CodeReg {
	return CodeReg((code & 0x0F00) >> 8)
}

// Y returns the second register index field.
func (code Code) Y() CodeReg {
	return CodeReg((code & 0x00F0) >> 4)
}

// KK returns the 8-bit immediate field.
func (code Code) KK() uint8 {
	return uint8(code & 0x00FF)
}

// N returns the 4-bit sub-opcode field.
func (code Code) N() uint8 {
	return uint8(code & 0x000F)
}

// Addr returns the 12-bit address field.
func (code Code) Addr() uint16 {
	return uint16(code & 0x0FFF)
}

// Decode returns the operation selected by the instruction word.
func (code Code) Decode() (op CodeOp, err error) {
	switch code {
	case 0x0000:
		return OP_HALT, nil
	case 0x00E0:
		return OP_CLS, nil
	case 0x00EE:
		return OP_RET, nil
	}

	switch code & 0xF000 {
	case 0x1000:
		op = OP_JP
	case 0x2000:
		op = OP_CALL
	case 0x3000:
		op = OP_SE_IMM
	case 0x4000:
		op = OP_SNE_IMM
	case 0x5000:
		if code.N() != 0 {
			err = ErrUnimplemented(code)
			return
		}
		op = OP_SE_REG
	case 0x6000:
		op = OP_LD_IMM
	case 0x7000:
		op = OP_ADD_IMM
	case 0x8000:
		switch code.N() {
		case 0x0:
			op = OP_LD_REG
		case 0x1:
			op = OP_OR
		case 0x2:
			op = OP_AND
		case 0x3:
			op = OP_XOR
		case 0x4:
			op = OP_ADD_REG
		default:
			err = ErrUnimplemented(code)
		}
	default:
		err = ErrUnimplemented(code)
	}

	return
}

// String returns the assembly language representation of this instruction.
func (code Code) String() string {
	op, err := code.Decode()
	if err != nil {
		return fmt.Sprintf(".word 0x%04x", uint16(code))
	}

	switch op.Form() {
	case FORM_ADDR:
		return fmt.Sprintf("%v 0x%03x", op, code.Addr())
	case FORM_IMM:
		return fmt.Sprintf("%v %v, 0x%02x", op, code.X(), code.KK())
	case FORM_REG:
		return fmt.Sprintf("%v %v, %v", op, code.X(), code.Y())
	}

	return op.String()
}
