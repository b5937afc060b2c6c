package engine

import (
	"github.com/Sey1tayd/CORG-Simulator/asm"
	"github.com/Sey1tayd/CORG-Simulator/isa"
	"github.com/Sey1tayd/CORG-Simulator/memory"
	"github.com/Sey1tayd/CORG-Simulator/pipeline"
)

// ControlBus is the JSON shape of the 8-bit control signal bus.
type ControlBus struct {
	RegDst   bool `json:"reg_dst"`
	AluSrc   bool `json:"alu_src"`
	MemToReg bool `json:"mem_to_reg"`
	RegWrite bool `json:"reg_write"`
	MemRead  bool `json:"mem_read"`
	MemWrite bool `json:"mem_write"`
	Branch   bool `json:"branch"`
	Jump     bool `json:"jump"`
}

func controlBus(c isa.Control) ControlBus {
	return ControlBus{
		RegDst:   c.RegDst,
		AluSrc:   c.AluSrc,
		MemToReg: c.MemToReg,
		RegWrite: c.RegWrite,
		MemRead:  c.MemRead,
		MemWrite: c.MemWrite,
		Branch:   c.Branch,
		Jump:     c.Jump,
	}
}

// IFIDSnapshot is the IF/ID latch with its instruction word's fields
// broken out for the UI.
type IFIDSnapshot struct {
	PCPlus1 uint8  `json:"pc_plus_1"`
	Instr   uint16 `json:"instr"`
	Op      uint8  `json:"op"`
	Rs      uint8  `json:"rs"`
	Rt      uint8  `json:"rt"`
	Rd      uint8  `json:"rd"`
	Imm     int16  `json:"imm"`
}

// IDEXSnapshot is the ID/EX latch.
type IDEXSnapshot struct {
	PC    uint8      `json:"pc"`
	RsVal int16      `json:"rs_val"`
	RtVal int16      `json:"rt_val"`
	Imm   int16      `json:"imm"`
	Rs    uint8      `json:"rs"`
	Rt    uint8      `json:"rt"`
	Dest  uint8      `json:"dest"`
	Ctrl  ControlBus `json:"ctrl"`
	AluOp uint8      `json:"alu_op"`
}

// EXMEMSnapshot is the EX/MEM latch.
type EXMEMSnapshot struct {
	BranchTarget uint8      `json:"branch_target"`
	Zero         bool       `json:"zero"`
	ALUResult    int16      `json:"alu_result"`
	StoreData    int16      `json:"store_data"`
	Dest         uint8      `json:"dest"`
	Ctrl         ControlBus `json:"ctrl"`
}

// MEMWBSnapshot is the MEM/WB latch.
type MEMWBSnapshot struct {
	MemData   int16      `json:"mem_data"`
	ALUResult int16      `json:"alu_result"`
	Dest      uint8      `json:"dest"`
	Ctrl      ControlBus `json:"ctrl"`
}

// HazardSnapshot is the stall/forward/flush decision made this cycle.
type HazardSnapshot struct {
	Stall    bool  `json:"stall"`
	ForwardA uint8 `json:"forward_a"`
	ForwardB uint8 `json:"forward_b"`
	PCSrc    bool  `json:"pc_src"`
}

// Occupancy is a human-readable disassembly of whatever each stage is
// holding this cycle, "nop" for a bubble.
type Occupancy struct {
	IF  string `json:"IF"`
	ID  string `json:"ID"`
	EX  string `json:"EX"`
	MEM string `json:"MEM"`
	WB  string `json:"WB"`
}

// Snapshot is the full architectural and pipeline state exposed after
// a Tick, serialized as snake_case JSON for a driver to report.
type Snapshot struct {
	Cycle     uint64             `json:"cycle"`
	PC        uint8              `json:"pc"`
	Registers [8]int16           `json:"registers"`
	Memory    []memory.DataCell  `json:"memory"`
	IFID      IFIDSnapshot       `json:"if_id"`
	IDEX      IDEXSnapshot       `json:"id_ex"`
	EXMEM     EXMEMSnapshot      `json:"ex_mem"`
	MEMWB     MEMWBSnapshot      `json:"mem_wb"`
	Control   ControlBus         `json:"control"`
	Hazard    HazardSnapshot     `json:"hazard"`
	Occupancy Occupancy          `json:"pipeline_occupancy"`
}

func buildSnapshot(regs *memory.RegFile, mem *memory.Memory, ctrl *pipeline.Controller) Snapshot {
	ifid, idex, exmem, memwb := ctrl.Latches()
	sig := ctrl.HazardSignals()
	dec := isa.NewDecoder()
	ifidInst := dec.Decode(ifid.Instr)

	occupancyOf := func(word uint16, isBubble bool) string {
		if isBubble {
			return "nop"
		}
		return asm.Disassemble(word)
	}

	return Snapshot{
		Cycle:     ctrl.Cycle(),
		PC:        ctrl.PC(),
		Registers: regs.Snapshot(),
		Memory:    mem.NonZeroData(),
		IFID: IFIDSnapshot{
			PCPlus1: ifid.PCPlus1,
			Instr:   ifid.Instr,
			Op:      uint8(ifidInst.Op),
			Rs:      ifidInst.Rs,
			Rt:      ifidInst.Rt,
			Rd:      ifidInst.Rd,
			Imm:     ifidInst.Imm,
		},
		IDEX: IDEXSnapshot{
			PC:    idex.PC,
			RsVal: idex.RsVal,
			RtVal: idex.RtVal,
			Imm:   idex.Imm,
			Rs:    idex.Rs,
			Rt:    idex.Rt,
			Dest:  idex.Dest,
			Ctrl:  controlBus(idex.Ctrl),
			AluOp: uint8(idex.AluOp),
		},
		EXMEM: EXMEMSnapshot{
			BranchTarget: exmem.BranchTarget,
			Zero:         exmem.Zero,
			ALUResult:    exmem.ALUResult,
			StoreData:    exmem.StoreData,
			Dest:         exmem.Dest,
			Ctrl:         controlBus(exmem.Ctrl),
		},
		MEMWB: MEMWBSnapshot{
			MemData:   memwb.MemData,
			ALUResult: memwb.ALUResult,
			Dest:      memwb.Dest,
			Ctrl:      controlBus(memwb.Ctrl),
		},
		Control: controlBus(idex.Ctrl),
		Hazard: HazardSnapshot{
			Stall:    sig.Stall,
			ForwardA: uint8(sig.ForwardA),
			ForwardB: uint8(sig.ForwardB),
			PCSrc:    sig.PCSrc,
		},
		Occupancy: Occupancy{
			IF:  asm.Disassemble(mem.FetchInstruction(ctrl.PC())),
			ID:  asm.Disassemble(ifid.Instr),
			EX:  occupancyOf(idex.Word, idex.IsBubble()),
			MEM: occupancyOf(exmem.Word, exmem.IsBubble()),
			WB:  occupancyOf(memwb.Word, memwb.IsBubble()),
		},
	}
}
