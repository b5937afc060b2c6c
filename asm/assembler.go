// Package asm implements the line-oriented assembler and disassembler
// for the pipeline's 16-bit instruction set, resolving labels in two
// passes and collecting every per-line error instead of stopping at
// the first one.
package asm

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Sey1tayd/CORG-Simulator/isa"
)

// Error is a single assembly failure, naming the source line and the
// offending text.
type Error struct {
	Line    int
	Message string
	Source  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("line %d: %s (%q)", e.Line, e.Message, strings.TrimSpace(e.Source))
}

var rTypeFuncs = map[string]isa.Func{
	"add": isa.FuncADD,
	"sub": isa.FuncSUB,
	"and": isa.FuncAND,
	"or":  isa.FuncOR,
	"xor": isa.FuncXOR,
	"slt": isa.FuncSLT,
	"div": isa.FuncDIV,
}

// Assemble turns assembly source into instruction words in program
// order. Comments start with '#'; a line ending a label in ':' marks
// the following address without itself producing a word. Blank and
// label-only lines produce no word.
//
// Assembly never stops at the first error: every bad line is
// collected into errs and skipped, so a caller can report every
// mistake in a source file at once. If errs is non-empty the returned
// words are incomplete and must not be loaded.
func Assemble(source string) (words []uint16, errs []error) {
	lines := strings.Split(source, "\n")
	labels := map[string]uint8{}

	addr := 0
	for _, raw := range lines {
		label, rest := splitLabel(stripComment(raw))
		if label != "" {
			labels[strings.ToLower(label)] = uint8(addr)
		}
		if strings.TrimSpace(rest) != "" {
			addr++
		}
	}

	addr = 0
	for i, raw := range lines {
		_, rest := splitLabel(stripComment(raw))
		rest = strings.TrimSpace(rest)
		if rest == "" {
			continue
		}
		word, err := assembleLine(rest, i+1, raw, labels, uint8(addr))
		if err != nil {
			errs = append(errs, err)
			continue
		}
		words = append(words, word)
		addr++
	}
	return words, errs
}

func stripComment(line string) string {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		return line[:i]
	}
	return line
}

func splitLabel(line string) (label, rest string) {
	trimmed := strings.TrimSpace(line)
	i := strings.IndexByte(trimmed, ':')
	if i < 0 {
		return "", line
	}
	return strings.TrimSpace(trimmed[:i]), trimmed[i+1:]
}

func assembleLine(line string, lineNum int, source string, labels map[string]uint8, addr uint8) (uint16, error) {
	fail := func(format string, args ...any) (uint16, error) {
		return 0, &Error{Line: lineNum, Message: fmt.Sprintf(format, args...), Source: source}
	}

	norm := strings.Join(strings.Fields(line), " ")
	head := strings.SplitN(norm, " ", 2)
	mnemonic := strings.ToLower(head[0])
	operandsStr := ""
	if len(head) > 1 {
		operandsStr = head[1]
	}

	switch mnemonic {
	case "nop":
		if operandsStr != "" {
			return fail("nop takes no operands, got %q", operandsStr)
		}
		return isa.EncodeRType(0, 0, 0, isa.FuncADD), nil
	case "halt":
		if operandsStr != "" {
			return fail("halt takes no operands, got %q", operandsStr)
		}
		return isa.EncodeIType(isa.OpBEQ, 0, 0, -1), nil
	}

	if fn, ok := rTypeFuncs[mnemonic]; ok {
		ops, err := splitOperands(operandsStr, 3)
		if err != nil {
			return fail("%s rd, rs, rt: %s", mnemonic, err)
		}
		rd, err := parseReg(ops[0])
		if err != nil {
			return fail("%s", err)
		}
		rs, err := parseReg(ops[1])
		if err != nil {
			return fail("%s", err)
		}
		rt, err := parseReg(ops[2])
		if err != nil {
			return fail("%s", err)
		}
		return isa.EncodeRType(rs, rt, rd, fn), nil
	}

	switch mnemonic {
	case "addi":
		ops, err := splitOperands(operandsStr, 3)
		if err != nil {
			return fail("addi rt, rs, imm6: %s", err)
		}
		rt, err := parseReg(ops[0])
		if err != nil {
			return fail("%s", err)
		}
		rs, err := parseReg(ops[1])
		if err != nil {
			return fail("%s", err)
		}
		imm, err := parseImm6(ops[2])
		if err != nil {
			return fail("%s", err)
		}
		return isa.EncodeIType(isa.OpADDI, rs, rt, imm), nil

	case "lw", "ld":
		ops, err := splitOperands(operandsStr, 2)
		if err != nil {
			return fail("lw rt, imm6(rs): %s", err)
		}
		rt, err := parseReg(ops[0])
		if err != nil {
			return fail("%s", err)
		}
		imm, rs, err := parseMemOperand(ops[1])
		if err != nil {
			return fail("%s", err)
		}
		return isa.EncodeIType(isa.OpLW, rs, rt, imm), nil

	case "sw", "st":
		ops, err := splitOperands(operandsStr, 2)
		if err != nil {
			return fail("sw rt, imm6(rs): %s", err)
		}
		rt, err := parseReg(ops[0])
		if err != nil {
			return fail("%s", err)
		}
		imm, rs, err := parseMemOperand(ops[1])
		if err != nil {
			return fail("%s", err)
		}
		return isa.EncodeIType(isa.OpSW, rs, rt, imm), nil

	case "beq":
		ops, err := splitOperands(operandsStr, 3)
		if err != nil {
			return fail("beq rs, rt, off6: %s", err)
		}
		rs, err := parseReg(ops[0])
		if err != nil {
			return fail("%s", err)
		}
		rt, err := parseReg(ops[1])
		if err != nil {
			return fail("%s", err)
		}
		off, err := resolveTarget(ops[2], labels, addr)
		if err != nil {
			return fail("%s", err)
		}
		return isa.EncodeIType(isa.OpBEQ, rs, rt, off), nil

	case "j":
		ops, err := splitOperands(operandsStr, 1)
		if err != nil {
			return fail("j target: %s", err)
		}
		off, err := resolveTarget(ops[0], labels, addr)
		if err != nil {
			return fail("%s", err)
		}
		return isa.EncodeIType(isa.OpJ, 0, 0, off), nil

	case "jal":
		ops, err := splitOperands(operandsStr, 1)
		if err != nil {
			return fail("jal target: %s", err)
		}
		off, err := resolveTarget(ops[0], labels, addr)
		if err != nil {
			return fail("%s", err)
		}
		return isa.EncodeIType(isa.OpJAL, 0, 0, off), nil

	case "jr":
		ops, err := splitOperands(operandsStr, 1)
		if err != nil {
			return fail("jr rs: %s", err)
		}
		rs, err := parseReg(ops[0])
		if err != nil {
			return fail("%s", err)
		}
		return isa.EncodeIType(isa.OpJR, rs, 0, 0), nil
	}

	return fail("unknown instruction %q", mnemonic)
}

func splitOperands(s string, n int) ([]string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		if n == 0 {
			return nil, nil
		}
		return nil, fmt.Errorf("expected %d operand(s), got none", n)
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	if len(parts) != n {
		return nil, fmt.Errorf("expected %d operand(s), got %d", n, len(parts))
	}
	return parts, nil
}

func parseReg(s string) (uint8, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if !strings.HasPrefix(s, "r") {
		return 0, fmt.Errorf("invalid register %q, expected r0-r7", s)
	}
	n, err := strconv.Atoi(s[1:])
	if err != nil || n < 0 || n > 7 {
		return 0, fmt.Errorf("invalid register %q, expected r0-r7", s)
	}
	return uint8(n), nil
}

func parseImm6(s string) (int16, error) {
	s = strings.TrimSpace(s)
	v, err := strconv.ParseInt(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid immediate %q", s)
	}
	if v < -32 || v > 31 {
		return 0, fmt.Errorf("immediate out of range [-32, 31]: %d (from %q)", v, s)
	}
	return int16(v), nil
}

func parseMemOperand(s string) (imm int16, rs uint8, err error) {
	s = strings.TrimSpace(s)
	open := strings.IndexByte(s, '(')
	closeAt := strings.IndexByte(s, ')')
	if open < 0 || closeAt < open {
		return 0, 0, fmt.Errorf("memory operand must be imm(rs), got %q", s)
	}
	imm, err = parseImm6(s[:open])
	if err != nil {
		return 0, 0, err
	}
	rs, err = parseReg(s[open+1 : closeAt])
	if err != nil {
		return 0, 0, err
	}
	return imm, rs, nil
}

// resolveTarget parses a branch/jump operand, which may be a signed
// literal immediate or a label name, into the 6-bit PC-relative
// offset the pipeline's EX stage adds to the instruction's own
// address to compute a branch target or jump target alike.
func resolveTarget(operand string, labels map[string]uint8, addr uint8) (int16, error) {
	op := strings.TrimSpace(operand)
	if looksLikeLabel(op) {
		target, ok := labels[strings.ToLower(op)]
		if !ok {
			return 0, fmt.Errorf("undefined label %q", op)
		}
		offset := int(target) - int(addr)
		if offset < -32 || offset > 31 {
			return 0, fmt.Errorf("branch offset out of range [-32, 31]: %d (from label %q)", offset, op)
		}
		return int16(offset), nil
	}
	return parseImm6(op)
}

func looksLikeLabel(s string) bool {
	if s == "" {
		return false
	}
	c := s[0]
	return !(c >= '0' && c <= '9') && c != '-' && c != '+'
}
