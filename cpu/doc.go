// Package cpu implements the accumulator processor and memory of the
// simulator.
//
// Memory holds 4096 16-bit words addressed by 12 bits. The processor has a
// 12-bit program counter, a signed 16-bit accumulator, and a call-return
// stack kept outside of memory. Instruction words carry a 4-bit opcode in
// the top bits and a 12-bit operand, used as an address or, for LDI, as a
// sign-extended immediate. There are no status flags; JZ and JN test the
// accumulator directly.
package cpu
