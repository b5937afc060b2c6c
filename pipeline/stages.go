package pipeline

import (
	"github.com/Sey1tayd/CORG-Simulator/alu"
	"github.com/Sey1tayd/CORG-Simulator/isa"
	"github.com/Sey1tayd/CORG-Simulator/memory"
)

// FetchStage reads one instruction word out of instruction memory.
type FetchStage struct {
	imem *memory.Memory
}

// NewFetchStage returns a FetchStage reading from imem.
func NewFetchStage(imem *memory.Memory) *FetchStage {
	return &FetchStage{imem: imem}
}

// Fetch returns the instruction word at pc.
func (s *FetchStage) Fetch(pc uint8) uint16 {
	return s.imem.FetchInstruction(pc)
}

// DecodeStage decodes an instruction word and reads its register
// operands, applying the same-cycle writeback bypass so a register
// being written this cycle reads its new value instead of its stale
// one.
type DecodeStage struct {
	regs    *memory.RegFile
	decoder *isa.Decoder
}

// NewDecodeStage returns a DecodeStage reading from regs.
func NewDecodeStage(regs *memory.RegFile) *DecodeStage {
	return &DecodeStage{regs: regs, decoder: isa.NewDecoder()}
}

// DecodeResult is everything the ID stage hands to the ID/EX latch.
type DecodeResult struct {
	Inst  isa.Instruction
	RsVal int16
	RtVal int16
}

// Decode decodes instr and reads rs/rt out of the register file,
// bypassing in the value writeback commits this same cycle (wb) when
// it targets the register being read.
func (s *DecodeStage) Decode(instr uint16, wb MEMWB) DecodeResult {
	inst := s.decoder.Decode(instr)
	return DecodeResult{
		Inst:  inst,
		RsVal: s.readWithBypass(inst.Rs, wb),
		RtVal: s.readWithBypass(inst.Rt, wb),
	}
}

func (s *DecodeStage) readWithBypass(reg uint8, wb MEMWB) int16 {
	if dest, ok := wb.Writes(); ok && dest == reg {
		return wb.WriteValue()
	}
	return s.regs.Read(reg)
}

// ExecuteStage runs the ALU and computes branch/jump targets.
type ExecuteStage struct{}

// NewExecuteStage returns a ready-to-use ExecuteStage.
func NewExecuteStage() *ExecuteStage {
	return &ExecuteStage{}
}

// ExecuteResult is everything the EX stage hands to the EX/MEM latch,
// plus the branch/jump decision for the fetch/decode stages.
type ExecuteResult struct {
	ALUResult    int16
	Zero         bool
	BranchTarget uint8
	StoreData    int16
	PCSrc        bool
	PCNext       uint8
}

// Execute evaluates the instruction latched in idex, resolving its
// operands via fwd against the current EX/MEM and MEM/WB latches.
func (s *ExecuteStage) Execute(idex IDEX, fwd ForwardingResult, exmem EXMEM, memwb MEMWB) ExecuteResult {
	a := s.operand(idex.RsVal, fwd.A, exmem, memwb)
	regB := s.operand(idex.RtVal, fwd.B, exmem, memwb)

	aluB := regB
	if idex.Ctrl.AluSrc {
		aluB = idex.Imm
	}

	result, zero := alu.Execute(a, aluB, idex.AluOp)

	isJAL := idex.Ctrl.Jump && idex.Ctrl.RegWrite
	if isJAL {
		result = int16(idex.PC + 1)
	}

	branchTarget := uint8(int32(idex.PC) + int32(idex.Imm))
	pcSrc := (idex.Ctrl.Branch && zero) || idex.Ctrl.Jump

	pcNext := branchTarget
	isJR := idex.Ctrl.Jump && idex.Ctrl.AluSrc
	if isJR {
		// jr rs: target lives in the rs field, forwarded the same way
		// any other rs-sourced operand is.
		pcNext = uint8(a)
	}

	return ExecuteResult{
		ALUResult:    result,
		Zero:         zero,
		BranchTarget: branchTarget,
		StoreData:    regB,
		PCSrc:        pcSrc,
		PCNext:       pcNext,
	}
}

func (s *ExecuteStage) operand(regVal int16, sel ForwardSel, exmem EXMEM, memwb MEMWB) int16 {
	switch sel {
	case ForwardFromEXMEM:
		return exmem.ALUResult
	case ForwardFromMEMWB:
		return memwb.WriteValue()
	default:
		return regVal
	}
}

// MemoryStage performs the data memory access for the instruction in
// EX/MEM.
type MemoryStage struct {
	dmem *memory.Memory
}

// NewMemoryStage returns a MemoryStage reading and writing dmem.
func NewMemoryStage(dmem *memory.Memory) *MemoryStage {
	return &MemoryStage{dmem: dmem}
}

// AccessResult is everything the MEM stage hands to the MEM/WB latch.
type AccessResult struct {
	MemData int16
}

// Access reads or writes data memory per exmem's control signals. A
// store commits immediately; a load's result is returned for MEM/WB.
func (s *MemoryStage) Access(exmem EXMEM) AccessResult {
	addr := exmem.ALUResult
	if exmem.Ctrl.MemWrite {
		s.dmem.WriteData(uint8(addr), exmem.StoreData)
	}
	var data int16
	if exmem.Ctrl.MemRead {
		data = s.dmem.ReadData(uint8(addr))
	}
	return AccessResult{MemData: data}
}

// WritebackStage commits a MEM/WB latch's result into the register
// file.
type WritebackStage struct {
	regs *memory.RegFile
}

// NewWritebackStage returns a WritebackStage writing into regs.
func NewWritebackStage(regs *memory.RegFile) *WritebackStage {
	return &WritebackStage{regs: regs}
}

// Writeback commits memwb's result, if it writes a register at all.
func (s *WritebackStage) Writeback(memwb MEMWB) {
	if dest, ok := memwb.Writes(); ok {
		s.regs.Write(dest, memwb.WriteValue())
	}
}
