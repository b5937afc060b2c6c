// Package engine is the facade the rest of the system talks to: it
// owns one Controller, its register file, and its memories, and
// exposes a pure assemble/load/reset/tick/snapshot/disassemble API
// that a CLI or other driver can ride on.
package engine

import (
	"github.com/Sey1tayd/CORG-Simulator/asm"
	"github.com/Sey1tayd/CORG-Simulator/memory"
	"github.com/Sey1tayd/CORG-Simulator/pipeline"
)

// Engine is strictly single-threaded and synchronous: every method
// runs to completion with no suspension points and no internal
// concurrency. Callers serializing access from multiple goroutines
// must do their own locking; the engine provides none.
type Engine struct {
	regs *memory.RegFile
	mem  *memory.Memory
	ctrl *pipeline.Controller
}

// New returns an Engine with empty memory and registers.
func New() *Engine {
	regs := memory.NewRegFile()
	mem := memory.NewMemory()
	return &Engine{
		regs: regs,
		mem:  mem,
		ctrl: pipeline.NewController(regs, mem),
	}
}

// Assemble compiles source into instruction words without touching
// engine state. Every per-line problem is collected into errs; if
// errs is non-empty, words must not be passed to Load.
func Assemble(source string) (words []uint16, errs []error) {
	return asm.Assemble(source)
}

// Disassemble renders a single instruction word as assembly text.
func Disassemble(word uint16) string {
	return asm.Disassemble(word)
}

// Load installs words into instruction memory and zeroes every other
// piece of state: registers, data memory, all four latches, the PC,
// and the cycle counter. It returns ErrProgramTooLarge if words does
// not fit in the 256-word instruction memory.
func (e *Engine) Load(words []uint16) error {
	if err := e.mem.LoadInstructions(words); err != nil {
		return err
	}
	e.regs.Reset()
	e.mem.ResetData()
	e.ctrl.Reset()
	return nil
}

// Reset clears registers, data memory, the PC, all four latches and
// the cycle counter, but leaves the currently loaded program intact.
func (e *Engine) Reset() {
	e.regs.Reset()
	e.mem.ResetData()
	e.ctrl.Reset()
}

// Tick advances the pipeline by exactly one clock cycle.
func (e *Engine) Tick() {
	e.ctrl.Tick()
}

// Snapshot captures the full architectural and pipeline state after
// the most recent Tick, in the shape a driver serializes to report it.
func (e *Engine) Snapshot() Snapshot {
	return buildSnapshot(e.regs, e.mem, e.ctrl)
}
