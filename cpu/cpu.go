package cpu

import (
	"fmt"
	"iter"
	"log"
	"maps"
	"strings"
)

// State is the execution state of the CPU.
type State int

//go:generate go tool stringer -linecomment -type=State
const (
	STATE_IDLE    = State(0) // idle
	STATE_RUNNING = State(1) // running
	STATE_HALTED  = State(2) // halted
	STATE_FAULTED = State(3) // faulted
)

var _cpu_defines = map[string]string{
	"MEMORY_SIZE":   fmt.Sprintf("%d", MEMORY_SIZE),
	"ADDR_MASK":     fmt.Sprintf("0x%x", ADDR_MASK),
	"OPERAND_MASK":  fmt.Sprintf("0x%x", OPERAND_MASK),
	"OPCODE_SHIFT":  fmt.Sprintf("%d", OPCODE_SHIFT),
	"IMMEDIATE_MIN": fmt.Sprintf("%d", IMMEDIATE_MIN),
	"IMMEDIATE_MAX": fmt.Sprintf("%d", IMMEDIATE_MAX),
}

func init() {
	for _, op := range Opcodes {
		_cpu_defines[fmt.Sprintf("OP_%s", strings.ToUpper(op.String()))] = fmt.Sprintf("0x%x", int(op))
	}
}

// Cpu is the accumulator processor attached to a Memory.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Memory *Memory // Shared memory, never copied.

	Pc    uint16 // Program counter, always within ADDR_MASK.
	Ac    int16  // Accumulator.
	Stack Stack  // Call-return address stack.

	State State // Current execution state.
	Fault error // Reason of the last fault, if State is STATE_FAULTED.

	Ticks int // Executed instruction counter.
}

// NewCpu creates a new CPU operating on mem.
func NewCpu(mem *Memory) (cpu *Cpu) {
	cpu = &Cpu{
		Memory: mem,
	}

	return
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	regs := []string{
		"pc",
		"ac",
		"stack",
		"depth",
		"state",
		"ticks",
	}
	for _, reg := range regs {
		var strval string
		switch reg {
		case "pc":
			strval = fmt.Sprintf("0x%03x", cpu.Pc)
		case "ac":
			strval = fmt.Sprintf("0x%04x (%d)", uint16(cpu.Ac), cpu.Ac)
		case "stack":
			val, ok := cpu.Stack.Peek()
			if ok {
				strval = fmt.Sprintf("0x%03x", val)
			} else {
				strval = "-----"
			}
		case "depth":
			strval = fmt.Sprintf("%d", cpu.Stack.Depth())
		case "state":
			strval = cpu.State.String()
			if cpu.State == STATE_FAULTED && cpu.Fault != nil {
				strval += fmt.Sprintf(" (%v)", cpu.Fault)
			}
		case "ticks":
			strval = fmt.Sprintf("%d", cpu.Ticks)
		}
		text += fmt.Sprintf("% 5s: %v\n", reg, strval)
	}

	return
}

// Reset the CPU state.
// - Clears the program counter, accumulator and stack.
// - Zeros the tick counter.
// - Leaves Memory untouched.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	cpu.Pc = 0
	cpu.Ac = 0
	cpu.Stack.Reset()
	cpu.State = STATE_IDLE
	cpu.Fault = nil
	cpu.Ticks = 0
}

// FetchCode fetches the instruction word at the program counter.
func (cpu *Cpu) FetchCode() (code Code) {
	return Code(cpu.Memory[cpu.Pc&ADDR_MASK])
}

// Tick executes a single fetch-decode-execute cycle.
func (cpu *Cpu) Tick() (err error) {
	code := cpu.FetchCode()

	cpu.State = STATE_RUNNING
	cpu.Fault = nil

	err = cpu.Execute(code)
	if err != nil {
		return
	}

	cpu.Ticks++

	return
}

// Execute executes a single decoded instruction.
//
// Each instruction does exactly one of: advance the program counter, jump
// it to a target, or halt. A fault leaves the program counter and the
// accumulator as they were.
func (cpu *Cpu) Execute(code Code) (err error) {
	defer func() {
		if err != nil {
			cpu.State = STATE_FAULTED
			cpu.Fault = err
			if cpu.Verbose {
				log.Printf("cpu: %03x: fault %v", cpu.Pc, err)
			}
		}
	}()
	if cpu.Verbose {
		log.Printf("cpu: %03x: %v", cpu.Pc, code)
	}

	mem := cpu.Memory
	operand := code.Operand()

	next_pc := (cpu.Pc + 1) & ADDR_MASK

	switch op := code.Opcode(); op {
	case OP_HALT:
		cpu.State = STATE_HALTED
		return
	case OP_LOAD:
		cpu.Ac = int16(mem[operand])
	case OP_STORE:
		mem[operand] = uint16(cpu.Ac)
	case OP_ADD:
		cpu.Ac += int16(mem[operand])
	case OP_SUB:
		cpu.Ac -= int16(mem[operand])
	case OP_MUL:
		cpu.Ac *= int16(mem[operand])
	case OP_DIV:
		divisor := int16(mem[operand])
		if divisor == 0 {
			err = ErrDivisionByZero
			return
		}
		// -32768 / -1 wraps back to -32768.
		cpu.Ac /= divisor
	case OP_JMP:
		next_pc = operand
	case OP_JZ:
		if cpu.Ac == 0 {
			next_pc = operand
		}
	case OP_JN:
		if cpu.Ac < 0 {
			next_pc = operand
		}
	case OP_CALL:
		cpu.Stack.Push(next_pc)
		next_pc = operand
	case OP_RETURN:
		ret, ok := cpu.Stack.Pop()
		if !ok {
			err = ErrStackUnderflow
			return
		}
		next_pc = ret & ADDR_MASK
	case OP_LDI:
		cpu.Ac = code.Immediate()
	case OP_NOP:
		// pass
	default:
		err = ErrInvalidOpcode(op)
		return
	}

	cpu.Pc = next_pc

	return
}
