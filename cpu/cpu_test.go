package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const testStepLimit = 10000

// newTestCpu returns a CPU with program loaded at address 0.
func newTestCpu(program ...Code) (cpu *Cpu) {
	mem := &Memory{}
	for n, code := range program {
		mem[n] = uint16(code)
	}
	return NewCpu(mem)
}

// runTestCpu ticks until the CPU halts or faults.
func runTestCpu(t *testing.T, cpu *Cpu) (err error) {
	for range testStepLimit {
		err = cpu.Tick()
		if err != nil || cpu.State == STATE_HALTED {
			return
		}
	}
	t.Fatalf("no halt after %d steps", testStepLimit)
	return
}

func TestCpu_NewCpu(t *testing.T) {
	assert := assert.New(t)

	mem := &Memory{}
	cpu := NewCpu(mem)
	assert.Same(mem, cpu.Memory)
	assert.Equal(uint16(0), cpu.Pc)
	assert.Equal(int16(0), cpu.Ac)
	assert.True(cpu.Stack.Empty())
	assert.Equal(STATE_IDLE, cpu.State)
}

func TestCpu_Programs(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name    string
		program []Code
		ac      int16
		pc      uint16
		mem     map[int]uint16
	}){
		{"halt", []Code{MakeCode(OP_HALT, 0)}, 0, 0, nil},
		{"nop_halt", []Code{MakeCode(OP_NOP, 0), MakeCode(OP_NOP, 0), MakeCode(OP_HALT, 0)}, 0, 2, nil},
		{"load_add", []Code{0x1003, 0x3004, 0x0000, 0x0005, 0x0007}, 12, 2, nil},
		{"load_halt_word", []Code{0x1002, 0x3003, 0x0000, 0x0005, 0x0007}, 5, 2, nil},
		{"load_store", []Code{
			MakeCode(OP_LOAD, 4),
			MakeCode(OP_STORE, 5),
			MakeCode(OP_HALT, 0),
			0,
			0x1234,
			0,
		}, 0x1234, 2, map[int]uint16{4: 0x1234, 5: 0x1234}},
		{"sub", []Code{MakeCode(OP_LDI, 3), MakeCode(OP_SUB, 3), MakeCode(OP_HALT, 0), 5}, -2, 2, nil},
		{"mul", []Code{MakeCode(OP_LDI, -3), MakeCode(OP_MUL, 3), MakeCode(OP_HALT, 0), 7}, -21, 2, nil},
		{"div", []Code{MakeCode(OP_LDI, -7), MakeCode(OP_DIV, 3), MakeCode(OP_HALT, 0), 2}, -3, 2, nil},
		{"ldi_neg", []Code{MakeCode(OP_LDI, -2048), MakeCode(OP_HALT, 0)}, -2048, 1, nil},
		{"ldi_pos", []Code{MakeCode(OP_LDI, 2047), MakeCode(OP_HALT, 0)}, 2047, 1, nil},
		{"add_wrap", []Code{MakeCode(OP_LOAD, 3), MakeCode(OP_ADD, 4), MakeCode(OP_HALT, 0), 0x7fff, 1}, -32768, 2, nil},
		{"sub_wrap", []Code{MakeCode(OP_LOAD, 3), MakeCode(OP_SUB, 4), MakeCode(OP_HALT, 0), 0x8000, 1}, 32767, 2, nil},
		{"mul_wrap", []Code{MakeCode(OP_LOAD, 3), MakeCode(OP_MUL, 4), MakeCode(OP_HALT, 0), 0x4000, 4}, 0, 2, nil},
		{"div_wrap", []Code{MakeCode(OP_LOAD, 3), MakeCode(OP_DIV, 4), MakeCode(OP_HALT, 0), 0x8000, 0xffff}, -32768, 2, nil},
		{"jmp", []Code{MakeCode(OP_JMP, 2), MakeCode(OP_LDI, 1), MakeCode(OP_HALT, 0)}, 0, 2, nil},
		{"jz_taken", []Code{MakeCode(OP_JZ, 2), MakeCode(OP_LDI, 1), MakeCode(OP_HALT, 0)}, 0, 2, nil},
		{"jz_not_taken", []Code{MakeCode(OP_LDI, 5), MakeCode(OP_JZ, 3), MakeCode(OP_HALT, 0), MakeCode(OP_HALT, 0)}, 5, 2, nil},
		{"jn_taken", []Code{MakeCode(OP_LDI, -1), MakeCode(OP_JN, 3), MakeCode(OP_HALT, 0), MakeCode(OP_HALT, 0)}, -1, 3, nil},
		{"jn_not_taken", []Code{MakeCode(OP_LDI, 0), MakeCode(OP_JN, 3), MakeCode(OP_HALT, 0), MakeCode(OP_HALT, 0)}, 0, 2, nil},
		{"countdown", []Code{
			MakeCode(OP_LDI, 5),   // 0: ac = 5
			MakeCode(OP_STORE, 9), // 1: n = ac
			MakeCode(OP_LOAD, 9),  // 2: loop: ac = n
			MakeCode(OP_JZ, 7),    // 3: if n == 0 goto done
			MakeCode(OP_SUB, 8),   // 4: ac -= 1
			MakeCode(OP_STORE, 9), // 5: n = ac
			MakeCode(OP_JMP, 2),   // 6: goto loop
			MakeCode(OP_HALT, 0),  // 7: done
			1,                     // 8: one
			0,                     // 9: n
		}, 0, 7, map[int]uint16{9: 0}},
	}

	for _, entry := range table {
		cpu := newTestCpu(entry.program...)

		err := runTestCpu(t, cpu)
		assert.NoError(err, entry.name)
		assert.Equal(STATE_HALTED, cpu.State, entry.name)
		assert.Equal(entry.ac, cpu.Ac, entry.name)
		assert.Equal(entry.pc, cpu.Pc, entry.name)
		for addr, value := range entry.mem {
			assert.Equal(value, cpu.Memory[addr], "%v: mem[%d]", entry.name, addr)
		}
	}
}

func TestCpu_LoadStoreKeepsSource(t *testing.T) {
	assert := assert.New(t)

	for _, value := range []uint16{0, 1, 0x7fff, 0x8000, 0xffff} {
		cpu := newTestCpu(MakeCode(OP_LOAD, 0x100), MakeCode(OP_STORE, 0x200), MakeCode(OP_HALT, 0))
		cpu.Memory[0x100] = value
		cpu.Memory[0x200] = 0x5a5a

		assert.NoError(runTestCpu(t, cpu))
		assert.Equal(value, cpu.Memory[0x100])
		assert.Equal(value, cpu.Memory[0x200])
	}
}

func TestCpu_CallReturn(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu(
		MakeCode(OP_CALL, 0x10),  // 0
		MakeCode(OP_STORE, 0x40), // 1: resumes here
		MakeCode(OP_HALT, 0),     // 2
	)
	cpu.Memory[0x10] = uint16(MakeCode(OP_LDI, 42))
	cpu.Memory[0x11] = uint16(MakeCode(OP_RETURN, 0))

	assert.NoError(cpu.Tick())
	assert.Equal(uint16(0x10), cpu.Pc)
	top, ok := cpu.Stack.Peek()
	assert.True(ok)
	assert.Equal(uint16(1), top)

	assert.NoError(runTestCpu(t, cpu))
	assert.Equal(uint16(2), cpu.Pc)
	assert.Equal(uint16(42), cpu.Memory[0x40])
	assert.True(cpu.Stack.Empty())
}

func TestCpu_NestedCalls(t *testing.T) {
	assert := assert.New(t)

	// Each routine records its entry in a trace cell, calls the next,
	// then records its exit.
	cpu := newTestCpu(
		MakeCode(OP_CALL, 0x100), // 0
		MakeCode(OP_HALT, 0),     // 1
	)

	// 0x300 counts exits, 0x301 holds the constant 1.
	routines := []uint16{0x100, 0x200, 0x280, 0x2c0}
	for depth, base := range routines {
		code := []Code{
			MakeCode(OP_LDI, depth+1),
			MakeCode(OP_STORE, 0x310+depth), // entry marker
		}
		if depth+1 < len(routines) {
			code = append(code, MakeCode(OP_CALL, int(routines[depth+1])))
		}
		code = append(code,
			MakeCode(OP_LOAD, 0x300),
			MakeCode(OP_ADD, 0x301),
			MakeCode(OP_STORE, 0x300),
			MakeCode(OP_STORE, 0x320+depth), // exit order
			MakeCode(OP_RETURN, 0),
		)
		for n, c := range code {
			cpu.Memory[int(base)+n] = uint16(c)
		}
	}
	cpu.Memory[0x301] = 1

	maxDepth := 0
	for range testStepLimit {
		assert.NoError(cpu.Tick())
		maxDepth = max(maxDepth, cpu.Stack.Depth())
		if cpu.State == STATE_HALTED {
			break
		}
	}

	assert.Equal(STATE_HALTED, cpu.State)
	assert.Equal(uint16(1), cpu.Pc)
	assert.Equal(len(routines), maxDepth)
	assert.True(cpu.Stack.Empty())
	for depth := range routines {
		assert.Equal(uint16(depth+1), cpu.Memory[0x310+depth], "entry %d", depth)
		// innermost routine exits first
		assert.Equal(uint16(len(routines)-depth), cpu.Memory[0x320+depth], "exit %d", depth)
	}
}

func TestCpu_Faults(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name    string
		program []Code
		steps   int
		err     error
		pc      uint16
		ac      int16
	}){
		{"div_zero", []Code{MakeCode(OP_LDI, 9), MakeCode(OP_DIV, 3), MakeCode(OP_HALT, 0), 0}, 2, ErrDivisionByZero, 1, 9},
		{"return_empty", []Code{MakeCode(OP_LDI, 1), MakeCode(OP_RETURN, 0)}, 2, ErrStackUnderflow, 1, 1},
		{"opcode_d", []Code{MakeCode(OP_NOP, 0), 0xd123}, 2, ErrInvalidOpcode(0xd), 1, 0},
		{"opcode_e", []Code{0xe000}, 1, ErrInvalidOpcode(0xe), 0, 0},
	}

	for _, entry := range table {
		cpu := newTestCpu(entry.program...)

		var err error
		for range entry.steps {
			err = cpu.Tick()
		}
		assert.ErrorIs(err, entry.err, entry.name)
		assert.Equal(STATE_FAULTED, cpu.State, entry.name)
		assert.Equal(err, cpu.Fault, entry.name)
		assert.Equal(entry.pc, cpu.Pc, entry.name)
		assert.Equal(entry.ac, cpu.Ac, entry.name)
	}

	assert.Equal("invalid opcode 0xd", ErrInvalidOpcode(0xd).Error())
}

func TestCpu_FaultRecovery(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu(MakeCode(OP_LDI, 8), MakeCode(OP_DIV, 3), MakeCode(OP_HALT, 0), 0)

	err := runTestCpu(t, cpu)
	assert.ErrorIs(err, ErrDivisionByZero)
	assert.Equal(uint16(1), cpu.Pc)

	// Patch the divisor, and continue from the faulting instruction.
	cpu.Memory[3] = 2
	err = runTestCpu(t, cpu)
	assert.NoError(err)
	assert.Nil(cpu.Fault)
	assert.Equal(int16(4), cpu.Ac)
	assert.Equal(uint16(2), cpu.Pc)
}

func TestCpu_PcWraps(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu(MakeCode(OP_HALT, 0))
	cpu.Pc = MEMORY_SIZE - 1
	cpu.Memory[MEMORY_SIZE-1] = uint16(MakeCode(OP_CALL, 0x10))

	assert.NoError(cpu.Tick())
	top, _ := cpu.Stack.Peek()
	assert.Equal(uint16(0), top)

	cpu.Pc = MEMORY_SIZE - 1
	cpu.Memory[MEMORY_SIZE-1] = uint16(MakeCode(OP_NOP, 0))
	assert.NoError(cpu.Tick())
	assert.Equal(uint16(0), cpu.Pc)
}

func TestCpu_Reset(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu(MakeCode(OP_LDI, 3), MakeCode(OP_CALL, 4), MakeCode(OP_HALT, 0), 0, MakeCode(OP_RETURN, 0xff))
	assert.NoError(cpu.Tick())
	assert.NoError(cpu.Tick())
	assert.False(cpu.Stack.Empty())

	cpu.Reset()
	assert.Equal(uint16(0), cpu.Pc)
	assert.Equal(int16(0), cpu.Ac)
	assert.True(cpu.Stack.Empty())
	assert.Equal(0, cpu.Ticks)
	assert.Equal(STATE_IDLE, cpu.State)
	assert.Equal(uint16(MakeCode(OP_LDI, 3)), cpu.Memory[0])
}

func TestCpu_String(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu(MakeCode(OP_LDI, -1), MakeCode(OP_RETURN, 0))
	assert.NoError(cpu.Tick())
	assert.Error(cpu.Tick())

	text := cpu.String()
	assert.Contains(text, "   pc: 0x001\n")
	assert.Contains(text, "   ac: 0xffff (-1)\n")
	assert.Contains(text, "stack: -----\n")
	assert.Contains(text, "state: faulted (stack underflow)\n")
	assert.Contains(text, "ticks: 1\n")
}

func TestCpu_Defines(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu()
	defines := map[string]string{}
	for key, value := range cpu.Defines() {
		defines[key] = value
	}

	assert.Equal("4096", defines["MEMORY_SIZE"])
	assert.Equal("0x1", defines["OP_LOAD"])
	assert.Equal("0xb", defines["OP_RETURN"])
	assert.Equal("0xf", defines["OP_NOP"])
}
