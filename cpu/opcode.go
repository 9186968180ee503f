package cpu

import (
	"fmt"
)

// Opcode is the 4-bit operation selector of an instruction word.
type Opcode int

//go:generate go tool stringer -linecomment -type=Opcode
const (
	OP_HALT   = Opcode(0x0) // halt
	OP_LOAD   = Opcode(0x1) // load
	OP_STORE  = Opcode(0x2) // store
	OP_ADD    = Opcode(0x3) // add
	OP_SUB    = Opcode(0x4) // sub
	OP_MUL    = Opcode(0x5) // mul
	OP_DIV    = Opcode(0x6) // div
	OP_JMP    = Opcode(0x7) // jmp
	OP_JZ     = Opcode(0x8) // jz
	OP_JN     = Opcode(0x9) // jn
	OP_CALL   = Opcode(0xa) // call
	OP_RETURN = Opcode(0xb) // return
	OP_LDI    = Opcode(0xc) // ldi
	OP_NOP    = Opcode(0xf) // nop
)

// Opcodes lists every defined opcode in encoding order.
var Opcodes = []Opcode{
	OP_HALT, OP_LOAD, OP_STORE, OP_ADD, OP_SUB, OP_MUL, OP_DIV,
	OP_JMP, OP_JZ, OP_JN, OP_CALL, OP_RETURN, OP_LDI, OP_NOP,
}

// Valid returns true if the opcode is part of the instruction set.
func (op Opcode) Valid() bool {
	return (op >= OP_HALT && op <= OP_LDI) || op == OP_NOP
}

// HasOperand returns true if the opcode uses its 12-bit operand field.
func (op Opcode) HasOperand() bool {
	switch op {
	case OP_HALT, OP_RETURN, OP_NOP:
		return false
	}
	return op.Valid()
}

const (
	OPERAND_MASK  = 0x0fff // Low 12 bits of an instruction word.
	OPCODE_SHIFT  = 12     // Opcode position in an instruction word.
	IMMEDIATE_MIN = -0x800 // Smallest LDI immediate.
	IMMEDIATE_MAX = 0x7ff  // Largest LDI immediate.
)

// Code is a single 16-bit instruction word.
type Code uint16

// MakeCode encodes an opcode and its 12-bit operand. Negative operands are
// stored as 12-bit two's complement, as used by LDI.
func MakeCode(op Opcode, operand int) Code {
	return Code((uint16(op)&0xf)<<OPCODE_SHIFT | uint16(operand)&OPERAND_MASK)
}

// Opcode returns the top 4 bits of the instruction word.
func (code Code) Opcode() Opcode {
	return Opcode(uint16(code) >> OPCODE_SHIFT)
}

// Operand returns the low 12 bits as an unsigned address.
func (code Code) Operand() uint16 {
	return uint16(code) & OPERAND_MASK
}

// Immediate returns the low 12 bits sign-extended to 16 bits.
func (code Code) Immediate() int16 {
	return int16(uint16(code)<<4) >> 4
}

// String returns the disassembly of the instruction word.
func (code Code) String() (out string) {
	op := code.Opcode()

	switch {
	case !op.Valid():
		out = fmt.Sprintf(".word 0x%04x", uint16(code))
	case op == OP_LDI:
		out = fmt.Sprintf("%v %d", op, code.Immediate())
	case op.HasOperand():
		out = fmt.Sprintf("%v 0x%03x", op, code.Operand())
	default:
		out = op.String()
	}

	return
}
