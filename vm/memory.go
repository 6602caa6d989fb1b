package vm

import (
	"slices"

	"go.creack.net/intcode/program"
)

// Memory is the sparse address space of a machine.
// Addresses never written read as 0. Negative addresses are rejected by
// the machine before reaching the memory.
type Memory struct {
	cells  map[int64]int64
	extent int64 // Highest address ever stored + 1.

	lastRead, lastWrite int64 // -1 when nothing was accessed yet.
}

// NewMemory returns a memory holding the given program at address 0.
func NewMemory(p program.Program) *Memory {
	m := &Memory{}
	m.Load(p)
	return m
}

// Load discards the content of the memory and copies p at address 0.
func (m *Memory) Load(p program.Program) {
	m.cells = make(map[int64]int64, len(p))
	for i, elem := range p {
		m.cells[int64(i)] = elem
	}
	m.extent = int64(len(p))
	m.lastRead, m.lastWrite = -1, -1
}

// Get returns the value at addr without recording the access.
func (m *Memory) Get(addr int64) int64 {
	return m.cells[addr]
}

// read returns the value at addr and records the access.
func (m *Memory) read(addr int64) int64 {
	m.lastRead = addr
	return m.cells[addr]
}

// Set stores value at addr, growing the memory if needed.
func (m *Memory) Set(addr, value int64) {
	m.cells[addr] = value
	m.lastWrite = addr
	if addr >= m.extent {
		m.extent = addr + 1
	}
}

// Extent returns the highest address ever stored + 1.
func (m *Memory) Extent() int64 { return m.extent }

// Len returns the number of stored cells.
func (m *Memory) Len() int { return len(m.cells) }

// LastRead returns the address of the last data read, if any.
func (m *Memory) LastRead() (int64, bool) { return m.lastRead, m.lastRead >= 0 }

// LastWrite returns the address of the last write, if any.
func (m *Memory) LastWrite() (int64, bool) { return m.lastWrite, m.lastWrite >= 0 }

// Addresses returns the stored addresses in increasing order.
func (m *Memory) Addresses() []int64 {
	out := make([]int64, 0, len(m.cells))
	for addr := range m.cells {
		out = append(out, addr)
	}
	slices.Sort(out)
	return out
}

// Slice returns the values in [from, to), zero filled.
func (m *Memory) Slice(from, to int64) []int64 {
	if to <= from {
		return nil
	}
	out := make([]int64, to-from)
	for i := range out {
		out[i] = m.cells[from+int64(i)]
	}
	return out
}

// Snapshot returns the dense content of the memory up to its extent.
func (m *Memory) Snapshot() program.Program {
	return program.Program(m.Slice(0, m.extent))
}
