package pipeline_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Sey1tayd/CORG-Simulator/isa"
	"github.com/Sey1tayd/CORG-Simulator/memory"
	"github.com/Sey1tayd/CORG-Simulator/pipeline"
)

var _ = Describe("FetchStage", func() {
	It("reads the instruction word at the given address", func() {
		mem := memory.NewMemory()
		Expect(mem.LoadInstructions([]uint16{0x1234, 0x5678})).To(Succeed())

		fetch := pipeline.NewFetchStage(mem)
		Expect(fetch.Fetch(0)).To(Equal(uint16(0x1234)))
		Expect(fetch.Fetch(1)).To(Equal(uint16(0x5678)))
	})
})

var _ = Describe("DecodeStage", func() {
	It("reads operands straight out of the register file with no pending writeback", func() {
		regs := memory.NewRegFile()
		regs.Write(1, 10)
		regs.Write(2, 20)

		decode := pipeline.NewDecodeStage(regs)
		word := isa.EncodeRType(1, 2, 3, isa.FuncADD)
		result := decode.Decode(word, pipeline.MEMWB{})

		Expect(result.RsVal).To(Equal(int16(10)))
		Expect(result.RtVal).To(Equal(int16(20)))
	})

	It("bypasses a same-cycle writeback instead of reading the stale register value", func() {
		regs := memory.NewRegFile()
		regs.Write(1, 0)

		decode := pipeline.NewDecodeStage(regs)
		word := isa.EncodeRType(1, 0, 3, isa.FuncADD)
		wb := pipeline.MEMWB{Dest: 1, ALUResult: 99, Ctrl: isa.Control{RegWrite: true}}
		result := decode.Decode(word, wb)

		Expect(result.RsVal).To(Equal(int16(99)))
	})

	It("never bypasses into register 0", func() {
		regs := memory.NewRegFile()

		decode := pipeline.NewDecodeStage(regs)
		word := isa.EncodeRType(0, 0, 3, isa.FuncADD)
		wb := pipeline.MEMWB{Dest: 0, ALUResult: 99, Ctrl: isa.Control{RegWrite: true}}
		result := decode.Decode(word, wb)

		Expect(result.RsVal).To(Equal(int16(0)))
	})
})

var _ = Describe("ExecuteStage", func() {
	var execute *pipeline.ExecuteStage

	BeforeEach(func() {
		execute = pipeline.NewExecuteStage()
	})

	It("runs the ALU on unforwarded operands", func() {
		idex := pipeline.IDEX{RsVal: 4, RtVal: 6, AluOp: isa.FuncADD, Ctrl: isa.Control{RegWrite: true}}
		result := execute.Execute(idex, pipeline.ForwardingResult{}, pipeline.EXMEM{}, pipeline.MEMWB{})
		Expect(result.ALUResult).To(Equal(int16(10)))
	})

	It("substitutes the immediate for the second operand under AluSrc", func() {
		idex := pipeline.IDEX{RsVal: 4, Imm: 6, AluOp: isa.FuncADD, Ctrl: isa.Control{AluSrc: true}}
		result := execute.Execute(idex, pipeline.ForwardingResult{}, pipeline.EXMEM{}, pipeline.MEMWB{})
		Expect(result.ALUResult).To(Equal(int16(10)))
	})

	It("takes a forwarded EX/MEM value over the latched operand", func() {
		idex := pipeline.IDEX{RsVal: 1, RtVal: 6, AluOp: isa.FuncADD}
		exmem := pipeline.EXMEM{ALUResult: 41}
		fwd := pipeline.ForwardingResult{A: pipeline.ForwardFromEXMEM}
		result := execute.Execute(idex, fwd, exmem, pipeline.MEMWB{})
		Expect(result.ALUResult).To(Equal(int16(47)))
	})

	It("takes a forwarded MEM/WB value over the latched operand", func() {
		idex := pipeline.IDEX{RsVal: 1, RtVal: 6, AluOp: isa.FuncADD}
		memwb := pipeline.MEMWB{ALUResult: 41}
		fwd := pipeline.ForwardingResult{A: pipeline.ForwardFromMEMWB}
		result := execute.Execute(idex, fwd, pipeline.EXMEM{}, memwb)
		Expect(result.ALUResult).To(Equal(int16(47)))
	})

	It("overrides the ALU result with the return address for jal", func() {
		idex := pipeline.IDEX{PC: 5, Ctrl: isa.Control{Jump: true, RegWrite: true}}
		result := execute.Execute(idex, pipeline.ForwardingResult{}, pipeline.EXMEM{}, pipeline.MEMWB{})
		Expect(result.ALUResult).To(Equal(int16(6)))
	})

	It("computes the branch target from the instruction's own address plus the offset", func() {
		idex := pipeline.IDEX{PC: 10, Imm: 3, RsVal: 5, RtVal: 5, AluOp: isa.FuncSUB, Ctrl: isa.Control{Branch: true}}
		result := execute.Execute(idex, pipeline.ForwardingResult{}, pipeline.EXMEM{}, pipeline.MEMWB{})
		Expect(result.Zero).To(BeTrue())
		Expect(result.PCSrc).To(BeTrue())
		Expect(result.BranchTarget).To(Equal(uint8(13)))
		Expect(result.PCNext).To(Equal(uint8(13)))
	})

	It("does not take the branch when the comparison is not equal", func() {
		idex := pipeline.IDEX{PC: 10, Imm: 3, RsVal: 5, RtVal: 6, AluOp: isa.FuncSUB, Ctrl: isa.Control{Branch: true}}
		result := execute.Execute(idex, pipeline.ForwardingResult{}, pipeline.EXMEM{}, pipeline.MEMWB{})
		Expect(result.PCSrc).To(BeFalse())
	})

	It("takes jr's target from the forwarded rs operand, not rt", func() {
		idex := pipeline.IDEX{RsVal: 9, RtVal: 1, Ctrl: isa.Control{Jump: true, AluSrc: true}}
		result := execute.Execute(idex, pipeline.ForwardingResult{}, pipeline.EXMEM{}, pipeline.MEMWB{})
		Expect(result.PCSrc).To(BeTrue())
		Expect(result.PCNext).To(Equal(uint8(9)))
	})
})

var _ = Describe("MemoryStage", func() {
	It("writes store data to the address in ALUResult", func() {
		mem := memory.NewMemory()
		access := pipeline.NewMemoryStage(mem)
		exmem := pipeline.EXMEM{ALUResult: 4, StoreData: 77, Ctrl: isa.Control{MemWrite: true}}
		access.Access(exmem)
		Expect(mem.ReadData(4)).To(Equal(int16(77)))
	})

	It("reads the loaded value for a load", func() {
		mem := memory.NewMemory()
		mem.WriteData(4, 77)
		access := pipeline.NewMemoryStage(mem)
		exmem := pipeline.EXMEM{ALUResult: 4, Ctrl: isa.Control{MemRead: true}}
		result := access.Access(exmem)
		Expect(result.MemData).To(Equal(int16(77)))
	})

	It("touches no memory for an instruction that neither loads nor stores", func() {
		mem := memory.NewMemory()
		access := pipeline.NewMemoryStage(mem)
		result := access.Access(pipeline.EXMEM{ALUResult: 4})
		Expect(result.MemData).To(Equal(int16(0)))
		Expect(mem.ReadData(4)).To(Equal(int16(0)))
	})
})

var _ = Describe("WritebackStage", func() {
	It("commits the ALU result when MemToReg is clear", func() {
		regs := memory.NewRegFile()
		writeback := pipeline.NewWritebackStage(regs)
		writeback.Writeback(pipeline.MEMWB{Dest: 3, ALUResult: 55, Ctrl: isa.Control{RegWrite: true}})
		Expect(regs.Read(3)).To(Equal(int16(55)))
	})

	It("commits the memory data when MemToReg is set", func() {
		regs := memory.NewRegFile()
		writeback := pipeline.NewWritebackStage(regs)
		memwb := pipeline.MEMWB{Dest: 3, ALUResult: 55, MemData: 7, Ctrl: isa.Control{RegWrite: true, MemToReg: true}}
		writeback.Writeback(memwb)
		Expect(regs.Read(3)).To(Equal(int16(7)))
	})

	It("writes nothing when RegWrite is clear", func() {
		regs := memory.NewRegFile()
		regs.Write(3, 1)
		writeback := pipeline.NewWritebackStage(regs)
		writeback.Writeback(pipeline.MEMWB{Dest: 3, ALUResult: 55})
		Expect(regs.Read(3)).To(Equal(int16(1)))
	})
})
