package pipeline

import (
	"github.com/Sey1tayd/CORG-Simulator/isa"
	"github.com/Sey1tayd/CORG-Simulator/memory"
)

// HazardSignals is the set of control-flow and hazard decisions made
// during one Tick, exported for the snapshot.
type HazardSignals struct {
	Stall    bool
	ForwardA ForwardSel
	ForwardB ForwardSel
	PCSrc    bool
}

// Controller owns the four inter-stage latches and the five stage
// objects, and advances all of them together on each Tick. It follows
// a staging-buffer-then-commit model: every stage reads only latches
// written by the previous Tick, and all four latches plus the PC are
// updated together at the end of Tick.
type Controller struct {
	regs *memory.RegFile
	mem  *memory.Memory

	pc    uint8
	ifid  IFID
	idex  IDEX
	exmem EXMEM
	memwb MEMWB

	fetch      *FetchStage
	decode     *DecodeStage
	execute    *ExecuteStage
	access     *MemoryStage
	writeback  *WritebackStage
	hazard     *HazardUnit

	cycle   uint64
	retired uint64
	signals HazardSignals
}

// NewController wires a Controller around the given register file and
// memory.
func NewController(regs *memory.RegFile, mem *memory.Memory) *Controller {
	return &Controller{
		regs:      regs,
		mem:       mem,
		fetch:     NewFetchStage(mem),
		decode:    NewDecodeStage(regs),
		execute:   NewExecuteStage(),
		access:    NewMemoryStage(mem),
		writeback: NewWritebackStage(regs),
		hazard:    NewHazardUnit(),
	}
}

// Reset clears the PC, all four latches, and the cycle counter. It
// does not touch the register file or memory contents.
func (c *Controller) Reset() {
	c.pc = 0
	c.ifid = IFID{}
	c.idex = IDEX{}
	c.exmem = EXMEM{}
	c.memwb = MEMWB{}
	c.cycle = 0
	c.retired = 0
	c.signals = HazardSignals{}
}

// PC returns the current program counter.
func (c *Controller) PC() uint8 { return c.pc }

// SetPC overrides the program counter. The latches are left as they
// are; Reset is what clears the PC together with them.
func (c *Controller) SetPC(pc uint8) { c.pc = pc }

// Cycle returns the number of completed Tick calls.
func (c *Controller) Cycle() uint64 { return c.cycle }

// Retired returns the number of instructions that have completed
// writeback (bubbles excluded).
func (c *Controller) Retired() uint64 { return c.retired }

// Latches returns the current contents of all four inter-stage
// latches, in pipeline order.
func (c *Controller) Latches() (IFID, IDEX, EXMEM, MEMWB) {
	return c.ifid, c.idex, c.exmem, c.memwb
}

// HazardSignals returns the stall/forward/flush decisions made during
// the most recently completed Tick.
func (c *Controller) HazardSignals() HazardSignals {
	return c.signals
}

// Tick advances the pipeline by one cycle. Every stage is evaluated
// against the latches left over from the previous Tick, in WB, MEM,
// EX, ID, IF order so that nothing reads a value produced later in
// this same cycle; the results are staged locally and committed to
// the latches and PC together at the end.
func (c *Controller) Tick() {
	if !c.memwb.IsBubble() {
		c.retired++
	}
	c.writeback.Writeback(c.memwb)

	accessResult := c.access.Access(c.exmem)
	nextMEMWB := MEMWB{
		Word:      c.exmem.Word,
		MemData:   accessResult.MemData,
		ALUResult: c.exmem.ALUResult,
		Dest:      c.exmem.Dest,
		Ctrl:      c.exmem.Ctrl,
	}

	fwd := c.hazard.Forward(c.idex, c.exmem, c.memwb)
	exResult := c.execute.Execute(c.idex, fwd, c.exmem, c.memwb)
	nextEXMEM := EXMEM{
		Word:         c.idex.Word,
		BranchTarget: exResult.BranchTarget,
		Zero:         exResult.Zero,
		ALUResult:    exResult.ALUResult,
		StoreData:    exResult.StoreData,
		Dest:         c.idex.Dest,
		Ctrl:         c.idex.Ctrl,
	}
	pcSrc := exResult.PCSrc

	ifidRs := isa.ExtractRs(c.ifid.Instr)
	ifidRt := isa.ExtractRt(c.ifid.Instr)
	stall := c.hazard.LoadUseStall(c.idex, ifidRs, ifidRt)

	var nextIDEX IDEX
	switch {
	case pcSrc, stall:
		nextIDEX = IDEX{}
	default:
		dec := c.decode.Decode(c.ifid.Instr, c.memwb)
		nextIDEX = IDEX{
			PC:    c.ifid.PCPlus1 - 1,
			Word:  c.ifid.Instr,
			RsVal: dec.RsVal,
			RtVal: dec.RtVal,
			Imm:   dec.Inst.Imm,
			Rs:    dec.Inst.Rs,
			Rt:    dec.Inst.Rt,
			Dest:  dec.Inst.Dest(),
			Ctrl:  dec.Inst.Ctrl,
			AluOp: dec.Inst.AluOp,
		}
	}

	var nextIFID IFID
	var nextPC uint8
	switch {
	case pcSrc:
		nextIFID = IFID{}
		nextPC = exResult.PCNext
	case stall:
		nextIFID = c.ifid
		nextPC = c.pc
	default:
		word := c.fetch.Fetch(c.pc)
		nextIFID = IFID{PCPlus1: c.pc + 1, Instr: word}
		nextPC = c.pc + 1
	}

	c.memwb = nextMEMWB
	c.exmem = nextEXMEM
	c.idex = nextIDEX
	c.ifid = nextIFID
	c.pc = nextPC
	c.cycle++
	c.signals = HazardSignals{Stall: stall, ForwardA: fwd.A, ForwardB: fwd.B, PCSrc: pcSrc}
}
