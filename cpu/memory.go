package cpu

import (
	"errors"
	"iter"
)

const (
	MEMORY_SIZE = 4096   // Words of memory, addressed by 12 bits.
	ADDR_MASK   = 0x0fff // Mask of a valid address.
)

// Memory is the word-addressed store shared by the loader, the CPU and the
// console.
type Memory [MEMORY_SIZE]uint16

func inRange(index int) bool {
	return index >= 0 && index < MEMORY_SIZE
}

// Peek returns the word at addr.
func (mem *Memory) Peek(addr int) (value uint16, err error) {
	if !inRange(addr) {
		err = errors.Join(ErrAddress, ErrRange)
		return
	}

	value = mem[addr]
	return
}

// Poke stores the low 16 bits of value at addr.
func (mem *Memory) Poke(addr int, value int) (err error) {
	if !inRange(addr) {
		err = errors.Join(ErrAddress, ErrRange)
		return
	}

	mem[addr] = uint16(value)
	return
}

// Dump returns an iterator over the first count words, in address order.
func (mem *Memory) Dump(count int) (seq iter.Seq2[int, uint16], err error) {
	if !inRange(count) {
		err = errors.Join(ErrCount, ErrRange)
		return
	}

	seq = func(yield func(addr int, value uint16) bool) {
		for addr, value := range mem[:count] {
			if !yield(addr, value) {
				return
			}
		}
	}

	return
}

// Write stores words at consecutive addresses starting at addr. Nothing is
// written unless the whole span fits.
func (mem *Memory) Write(addr int, words []uint16) (err error) {
	if !inRange(addr) {
		err = errors.Join(ErrAddress, ErrRange)
		return
	}
	if addr+len(words) > MEMORY_SIZE {
		err = ErrTruncated
		return
	}

	copy(mem[addr:], words)
	return
}

// Clear zero-fills memory.
func (mem *Memory) Clear() {
	clear(mem[:])
}
