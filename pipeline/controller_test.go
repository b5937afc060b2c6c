package pipeline_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Sey1tayd/CORG-Simulator/asm"
	"github.com/Sey1tayd/CORG-Simulator/memory"
	"github.com/Sey1tayd/CORG-Simulator/pipeline"
)

// assembleOrFail assembles src and fails the test immediately if the
// source does not assemble clean, so every scenario below can assume
// its program loaded without checking errs itself.
func assembleOrFail(src string) []uint16 {
	words, errs := asm.Assemble(src)
	Expect(errs).To(BeEmpty())
	return words
}

// runProgram assembles src, loads it into a fresh register file and
// memory, and ticks the controller n times, returning the controller,
// register file and memory for assertions.
func runProgram(src string, n int) (*pipeline.Controller, *memory.RegFile, *memory.Memory) {
	words := assembleOrFail(src)
	regs := memory.NewRegFile()
	mem := memory.NewMemory()
	Expect(mem.LoadInstructions(words)).To(Succeed())
	ctrl := pipeline.NewController(regs, mem)
	for i := 0; i < n; i++ {
		ctrl.Tick()
	}
	return ctrl, regs, mem
}

var _ = Describe("Controller", func() {
	It("forwards EX/MEM and MEM/WB results with no stall needed", func() {
		_, regs, _ := runProgram(`
			addi r1, r0, 10
			addi r2, r0, 20
			add  r3, r1, r2
			halt
		`, 12)

		Expect(regs.Read(1)).To(Equal(int16(10)))
		Expect(regs.Read(2)).To(Equal(int16(20)))
		Expect(regs.Read(3)).To(Equal(int16(30)))
	})

	It("stalls exactly one cycle on a load-use hazard", func() {
		ctrl, _, _ := runProgram(`
			addi r1, r0, 5
			sw   r1, 0(r0)
			lw   r2, 0(r0)
			addi r3, r2, 5
			halt
		`, 4)
		Expect(ctrl.HazardSignals().Stall).To(BeFalse())

		ctrl, _, _ = runProgram(`
			addi r1, r0, 5
			sw   r1, 0(r0)
			lw   r2, 0(r0)
			addi r3, r2, 5
			halt
		`, 5)
		Expect(ctrl.HazardSignals().Stall).To(BeTrue())

		_, regs, _ := runProgram(`
			addi r1, r0, 5
			sw   r1, 0(r0)
			lw   r2, 0(r0)
			addi r3, r2, 5
			halt
		`, 14)
		Expect(regs.Read(2)).To(Equal(int16(5)))
		Expect(regs.Read(3)).To(Equal(int16(10)))
	})

	It("flushes IF/ID and ID/EX when a branch is taken", func() {
		_, regs, _ := runProgram(`
			addi r3, r0, 0
			addi r4, r0, 0
			beq  r3, r4, 3
			addi r3, r0, 9
			addi r4, r0, 9
			addi r5, r0, 21
			halt
		`, 14)

		Expect(regs.Read(3)).To(Equal(int16(0)))
		Expect(regs.Read(4)).To(Equal(int16(0)))
		Expect(regs.Read(5)).To(Equal(int16(21)))
	})

	It("flushes on an unconditional jump", func() {
		_, regs, _ := runProgram(`
			addi r6, r0, 0
			addi r7, r0, 0
			j    2
			addi r6, r0, 9
			addi r1, r0, 1
			halt
		`, 14)

		Expect(regs.Read(1)).To(Equal(int16(1)))
		Expect(regs.Read(6)).To(Equal(int16(0)))
		Expect(regs.Read(7)).To(Equal(int16(0)))
	})

	It("links through r7 on jal and returns through jr", func() {
		_, regs, _ := runProgram(`
			jal  2
			addi r1, r0, 9
			addi r2, r0, 10
			jr   r7
		`, 20)

		Expect(regs.Read(7)).To(Equal(int16(1)))
		Expect(regs.Read(2)).To(Equal(int16(10)))
		Expect(regs.Read(1)).To(Equal(int16(9)))
	})

	It("computes a safe zero on division by zero instead of faulting", func() {
		_, regs, _ := runProgram(`
			addi r1, r0, 5
			addi r2, r0, 0
			div  r3, r1, r2
			halt
		`, 12)

		Expect(regs.Read(3)).To(Equal(int16(0)))
	})

	It("computes eight terms of the Fibonacci sequence into data memory", func() {
		_, _, mem := runProgram(`
			add  r1, r0, r0
			addi r2, r0, 1
			sw   r1, 0(r0)
			sw   r2, 1(r0)
			add  r3, r1, r2
			sw   r3, 2(r0)
			add  r1, r2, r0
			add  r2, r3, r0
			add  r3, r1, r2
			sw   r3, 3(r0)
			add  r1, r2, r0
			add  r2, r3, r0
			add  r3, r1, r2
			sw   r3, 4(r0)
			add  r1, r2, r0
			add  r2, r3, r0
			add  r3, r1, r2
			sw   r3, 5(r0)
			add  r1, r2, r0
			add  r2, r3, r0
			add  r3, r1, r2
			sw   r3, 6(r0)
			add  r1, r2, r0
			add  r2, r3, r0
			add  r3, r1, r2
			sw   r3, 7(r0)
			halt
		`, 45)

		want := []int16{0, 1, 1, 2, 3, 5, 8, 13}
		for addr, v := range want {
			Expect(mem.ReadData(uint8(addr))).To(Equal(v), "DMem[%d]", addr)
		}
	})
})
