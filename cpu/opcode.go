package cpu

import (
	"fmt"
)

// Word is the native 16-bit value of the machine.
type Word = uint16

// CodeOp is the 4-bit opcode tag of an instruction.
type CodeOp int

//go:generate go tool stringer -linecomment -type=CodeOp
const (
	OP_HALT  = CodeOp(0x0) // halt
	OP_ADD   = CodeOp(0x1) // add
	OP_SUB   = CodeOp(0x2) // sub
	OP_AND   = CodeOp(0x3) // and
	OP_XOR   = CodeOp(0x4) // xor
	OP_SHL   = CodeOp(0x5) // shl
	OP_SHR   = CodeOp(0x6) // shr
	OP_LOADA = CodeOp(0x7) // loada
	OP_LOAD  = CodeOp(0x8) // load
	OP_STOR  = CodeOp(0x9) // stor
	OP_LOADI = CodeOp(0xa) // loadi
	OP_STORI = CodeOp(0xb) // stori
	OP_BZERO = CodeOp(0xc) // bzero
	OP_BPOSI = CodeOp(0xd) // bposi
	OP_JMPR  = CodeOp(0xe) // jmpr
	OP_JMPL  = CodeOp(0xf) // jmpl
)

// CodeForm is the operand layout of an opcode.
type CodeForm int

const (
	FORM_NONE = CodeForm(0) // no operands
	FORM_RRR  = CodeForm(1) // rd rs rt
	FORM_RA   = CodeForm(2) // rd addr
	FORM_RT   = CodeForm(3) // rd rt
	FORM_T    = CodeForm(4) // rt
)

// Form returns the operand layout used by the opcode.
func (op CodeOp) Form() CodeForm {
	switch op {
	case OP_ADD, OP_SUB, OP_AND, OP_XOR, OP_SHL, OP_SHR:
		return FORM_RRR
	case OP_LOADA, OP_LOAD, OP_STOR, OP_BZERO, OP_BPOSI, OP_JMPL:
		return FORM_RA
	case OP_LOADI, OP_STORI:
		return FORM_RT
	case OP_JMPR:
		return FORM_T
	}

	return FORM_NONE
}

// Code is a single instruction word.
//
//	15..12  11..8  7..4  3..0
//	  op      d     s     t
//	  op      d      addr
type Code Word

// MakeCodeHalt creates a halt instruction.
func MakeCodeHalt() Code {
	return Code(uint16(OP_HALT) << 12)
}

// MakeCodeRRR creates a register-register-register instruction.
func MakeCodeRRR(op CodeOp, d, s, t int) Code {
	return Code((uint16(op&0xf) << 12) | (uint16(d&0xf) << 8) | (uint16(s&0xf) << 4) | uint16(t&0xf))
}

// MakeCodeRA creates a register-address instruction.
func MakeCodeRA(op CodeOp, d int, addr uint8) Code {
	return Code((uint16(op&0xf) << 12) | (uint16(d&0xf) << 8) | uint16(addr))
}

// MakeCodeRT creates an indirect register instruction.
func MakeCodeRT(op CodeOp, d, t int) Code {
	return MakeCodeRRR(op, d, 0, t)
}

// Op returns the opcode from the instruction word.
func (code Code) Op() CodeOp {
	return CodeOp((code >> 12) & 0xf)
}

// Decode returns all of the fields of the instruction word.
// The s and t fields overlap addr; which is meaningful depends on the opcode.
func (code Code) Decode() (op CodeOp, d, s, t int, addr uint8) {
	word := uint16(code)
	op = CodeOp((word >> 12) & 0xf)
	d = int((word >> 8) & 0xf)
	s = int((word >> 4) & 0xf)
	t = int((word >> 0) & 0xf)
	addr = uint8(word & 0xff)
	return
}

// String returns the assembly language representation of this instruction.
func (code Code) String() (out string) {
	op, d, s, t, addr := code.Decode()

	switch op.Form() {
	case FORM_RRR:
		out = fmt.Sprintf("%v r%d r%d r%d", op, d, s, t)
	case FORM_RA:
		out = fmt.Sprintf("%v r%d 0x%02x", op, d, addr)
	case FORM_RT:
		out = fmt.Sprintf("%v r%d r%d", op, d, t)
	case FORM_T:
		out = fmt.Sprintf("%v r%d", op, t)
	default:
		out = op.String()
	}

	return
}
