// Package emulator ties the CPU, its memory and the program loader together.
package emulator

import (
	"fmt"
	"iter"
	"log"
	"maps"

	"github.com/ezrec/accsim/cpu"
	"github.com/ezrec/accsim/internal"
	"github.com/ezrec/accsim/loader"
)

// Emulator state. CPU + Memory + Loader.
type Emulator struct {
	Verbose  bool // If set, enables verbose logging.
	*cpu.Cpu      // Reference to the CPU simulation.

	Loader loader.Loader // Program image loader.
}

// NewEmulator creates a new emulator, with zero-filled memory.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Cpu: cpu.NewCpu(&cpu.Memory{}),
	}

	return
}

// Defines returns an iterator over all of the defines, including the
// current register values.
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	registers := map[string]string{
		"PC": fmt.Sprintf("0x%x", emu.Cpu.Pc),
		"AC": fmt.Sprintf("%d", emu.Cpu.Ac),
	}

	return internal.IterSeq2Concat(maps.All(registers),
		emu.Cpu.Defines(),
	)
}

// Reset the processor state. Memory is left intact.
func (emu *Emulator) Reset() {
	emu.Cpu.Verbose = emu.Verbose
	emu.Cpu.Reset()
}

// Clear zero-fills memory. The processor state is left intact.
func (emu *Emulator) Clear() {
	if emu.Verbose {
		log.Printf("emulator: clear memory")
	}

	emu.Cpu.Memory.Clear()
}

// LoadWords writes words into memory from address 0 upward. Memory past
// the loaded span, and the processor state, are left intact.
func (emu *Emulator) LoadWords(words []uint16) (count int, err error) {
	err = emu.Cpu.Memory.Write(0, words)
	if err != nil {
		return
	}

	count = len(words)
	return
}

// Load a program image file into memory.
func (emu *Emulator) Load(path string) (count int, err error) {
	emu.Loader.Verbose = emu.Verbose

	words, err := emu.Loader.LoadFile(path)
	if err != nil {
		return
	}

	count, err = emu.LoadWords(words)
	if err != nil {
		return
	}

	if emu.Verbose {
		log.Printf("emulator: loaded %d words from %v", count, path)
	}

	return
}

// Ticks returns the total ticks since a reset.
func (emu *Emulator) Ticks() int {
	return emu.Cpu.Ticks
}

// Pc returns the current program counter.
func (emu *Emulator) Pc() int {
	return int(emu.Cpu.Pc)
}

// Code returns the instruction word at the program counter.
func (emu *Emulator) Code() cpu.Code {
	return emu.Cpu.FetchCode()
}

// Tick performs a single instruction. done is set once the program has
// halted or faulted; faults are returned as *ErrRuntime.
func (emu *Emulator) Tick() (done bool, err error) {
	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	pc := emu.Cpu.Pc
	code := emu.Code()
	defer func() {
		if err != nil {
			done = true
			err = &ErrRuntime{Pc: pc, Code: code, Err: err}
		}
	}()

	err = emu.Cpu.Tick()
	if err != nil {
		return
	}

	done = emu.Cpu.State == cpu.STATE_HALTED
	return
}

// Run ticks the emulator until the program halts or faults. The program
// counter is not reset; a program that never halts never returns.
func (emu *Emulator) Run() (err error) {
	start := emu.Cpu.Ticks

	var done bool
	for !done {
		done, err = emu.Tick()
	}
	if err != nil {
		return
	}

	if emu.Verbose {
		log.Printf("emulator: %v after %d ticks", emu.Cpu.State, emu.Cpu.Ticks-start)
	}

	return
}
