// Package pipeline implements the five-stage IF/ID/EX/MEM/WB pipeline:
// the four inter-stage latches, hazard detection and forwarding, the
// per-stage logic, and the Controller that ticks them all together.
package pipeline

import "github.com/Sey1tayd/CORG-Simulator/isa"

// IFID is the IF/ID latch: the fetched instruction and the address of
// the instruction after it.
type IFID struct {
	PCPlus1 uint8
	Instr   uint16
}

// IsBubble reports whether this latch holds no real instruction.
func (l IFID) IsBubble() bool {
	return l == IFID{}
}

// IDEX is the ID/EX latch: decoded operands, register fields and
// control signals for the instruction moving into execute.
type IDEX struct {
	PC    uint8
	Word  uint16
	RsVal int16
	RtVal int16
	Imm   int16
	Rs    uint8
	Rt    uint8
	Dest  uint8
	Ctrl  isa.Control
	AluOp isa.AluOp
}

// IsBubble reports whether this latch holds no real instruction. A
// latch is a bubble exactly when its control word is all zero.
func (l IDEX) IsBubble() bool {
	return l.Ctrl.IsBubble()
}

// EXMEM is the EX/MEM latch: the ALU result, branch target, the value
// a store would write, and the destination register and control
// signals carried forward from ID/EX.
type EXMEM struct {
	Word         uint16
	BranchTarget uint8
	Zero         bool
	ALUResult    int16
	StoreData    int16
	Dest         uint8
	Ctrl         isa.Control
}

// IsBubble reports whether this latch holds no real instruction.
func (l EXMEM) IsBubble() bool {
	return l.Ctrl.IsBubble()
}

// MEMWB is the MEM/WB latch: the value read from data memory (if any),
// the ALU result, and the destination register and control signals
// that decide what, if anything, gets written back.
type MEMWB struct {
	Word      uint16
	MemData   int16
	ALUResult int16
	Dest      uint8
	Ctrl      isa.Control
}

// IsBubble reports whether this latch holds no real instruction.
func (l MEMWB) IsBubble() bool {
	return l.Ctrl.IsBubble()
}

// WriteValue returns the value writeback would commit to Dest:
// MemData under MemToReg, ALUResult otherwise.
func (l MEMWB) WriteValue() int16 {
	if l.Ctrl.MemToReg {
		return l.MemData
	}
	return l.ALUResult
}

// Writes reports the register this latch would write this cycle, and
// whether it actually does (RegWrite set and the destination isn't
// the hardwired zero register).
func (l MEMWB) Writes() (reg uint8, ok bool) {
	return l.Dest, l.Ctrl.RegWrite && l.Dest != 0
}
