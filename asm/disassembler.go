package asm

import (
	"fmt"

	"github.com/Sey1tayd/CORG-Simulator/isa"
)

var rTypeNames = map[isa.Func]string{
	isa.FuncADD: "add",
	isa.FuncSUB: "sub",
	isa.FuncAND: "and",
	isa.FuncOR:  "or",
	isa.FuncXOR: "xor",
	isa.FuncSLT: "slt",
	isa.FuncDIV: "div",
}

var decoder = isa.NewDecoder()

// Disassemble renders word as assembly text, the inverse of
// Assemble's per-line encoding. The all-zero word is the canonical
// nop; beq r0, r0, -1 renders back as halt. An unrecognized opcode or
// R-type func renders as "??" followed by the raw hex word.
func Disassemble(word uint16) string {
	if word == 0 {
		return "nop"
	}

	in := decoder.Decode(word)

	switch in.Op {
	case isa.OpRType:
		name, ok := rTypeNames[in.Func]
		if !ok {
			return unknown(word)
		}
		return fmt.Sprintf("%s r%d, r%d, r%d", name, in.Rd, in.Rs, in.Rt)
	case isa.OpADDI:
		return fmt.Sprintf("addi r%d, r%d, %d", in.Rt, in.Rs, in.Imm)
	case isa.OpLW:
		return fmt.Sprintf("lw r%d, %d(r%d)", in.Rt, in.Imm, in.Rs)
	case isa.OpSW:
		return fmt.Sprintf("sw r%d, %d(r%d)", in.Rt, in.Imm, in.Rs)
	case isa.OpBEQ:
		if in.Rs == 0 && in.Rt == 0 && in.Imm == -1 {
			return "halt"
		}
		return fmt.Sprintf("beq r%d, r%d, %d", in.Rs, in.Rt, in.Imm)
	case isa.OpJ:
		return fmt.Sprintf("j %d", in.Imm)
	case isa.OpJAL:
		return fmt.Sprintf("jal %d", in.Imm)
	case isa.OpJR:
		return fmt.Sprintf("jr r%d", in.Rs)
	default:
		return unknown(word)
	}
}

func unknown(word uint16) string {
	return fmt.Sprintf("?? 0x%04x", word)
}
