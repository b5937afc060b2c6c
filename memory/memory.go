package memory

import "fmt"

// WordCount is the size, in 16-bit words, of both the instruction and
// data memories.
const WordCount = 256

// ErrProgramTooLarge is returned by LoadInstructions when the program
// does not fit in instruction memory.
type ErrProgramTooLarge struct {
	Words int
}

func (e ErrProgramTooLarge) Error() string {
	return fmt.Sprintf("program has %d words, instruction memory holds %d", e.Words, WordCount)
}

// Memory models the pipeline's separate instruction and data memories,
// each WordCount 16-bit cells wide, addressed by an 8-bit index that
// wraps modulo 256.
type Memory struct {
	instr [WordCount]uint16
	data  [WordCount]int16
}

// NewMemory returns an empty Memory.
func NewMemory() *Memory {
	return &Memory{}
}

// LoadInstructions copies words into instruction memory starting at
// address 0 and zeroes the remainder. It fails if words does not fit.
func (m *Memory) LoadInstructions(words []uint16) error {
	if len(words) > WordCount {
		return ErrProgramTooLarge{Words: len(words)}
	}
	m.instr = [WordCount]uint16{}
	copy(m.instr[:], words)
	return nil
}

// FetchInstruction returns the instruction word at pc.
func (m *Memory) FetchInstruction(pc uint8) uint16 {
	return m.instr[pc]
}

// ReadData returns the data word at addr.
func (m *Memory) ReadData(addr uint8) int16 {
	return m.data[addr]
}

// WriteData stores v at addr.
func (m *Memory) WriteData(addr uint8, v int16) {
	m.data[addr] = v
}

// ResetData zeroes data memory, leaving the loaded program intact.
func (m *Memory) ResetData() {
	m.data = [WordCount]int16{}
}

// DataCell is one non-zero data memory location, used by the snapshot
// exporter so it doesn't have to ship 256 mostly-zero words.
type DataCell struct {
	Addr  uint8 `json:"addr"`
	Value int16 `json:"value"`
}

// NonZeroData returns every data memory cell holding a non-zero value,
// in ascending address order.
func (m *Memory) NonZeroData() []DataCell {
	var cells []DataCell
	for i, v := range m.data {
		if v != 0 {
			cells = append(cells, DataCell{Addr: uint8(i), Value: v})
		}
	}
	return cells
}
