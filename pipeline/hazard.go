package pipeline

// ForwardSel selects where an operand's value comes from when the
// register file itself is stale.
type ForwardSel uint8

const (
	// ForwardNone reads the register file directly (selector 00).
	ForwardNone ForwardSel = 0b00
	// ForwardFromEXMEM takes the EX/MEM latch's ALU result (selector 10).
	ForwardFromEXMEM ForwardSel = 0b10
	// ForwardFromMEMWB takes the MEM/WB latch's write value (selector 01).
	ForwardFromMEMWB ForwardSel = 0b01
)

// ForwardingResult carries the forwarding decision for both ALU
// operands of the instruction currently in EX.
type ForwardingResult struct {
	A ForwardSel
	B ForwardSel
}

// HazardUnit detects load-use hazards and decides operand forwarding.
// It is stateless.
type HazardUnit struct{}

// NewHazardUnit returns a ready-to-use HazardUnit.
func NewHazardUnit() *HazardUnit {
	return &HazardUnit{}
}

// Forward computes the forwarding selectors for the instruction
// currently latched in idex, given the state of EX/MEM and MEM/WB.
// EX/MEM forwarding takes priority over MEM/WB, since it carries the
// more recently produced value.
func (h *HazardUnit) Forward(idex IDEX, exmem EXMEM, memwb MEMWB) ForwardingResult {
	return ForwardingResult{
		A: h.selectFor(idex.Rs, exmem, memwb),
		B: h.selectFor(idex.Rt, exmem, memwb),
	}
}

func (h *HazardUnit) selectFor(reg uint8, exmem EXMEM, memwb MEMWB) ForwardSel {
	if exmem.Ctrl.RegWrite && exmem.Dest != 0 && exmem.Dest == reg {
		return ForwardFromEXMEM
	}
	if dest, ok := memwb.Writes(); ok && dest == reg {
		return ForwardFromMEMWB
	}
	return ForwardNone
}

// LoadUseStall reports whether the instruction now in ID must stall
// for one cycle because the load currently in EX is about to produce
// the value it needs. ifidRs and ifidRt are the raw rs/rt fields of
// the instruction sitting in IF/ID, decoded or not.
func (h *HazardUnit) LoadUseStall(idex IDEX, ifidRs, ifidRt uint8) bool {
	if !idex.Ctrl.MemRead {
		return false
	}
	return idex.Rt == ifidRs || idex.Rt == ifidRt
}
