// Package alu implements the pipeline's arithmetic-logic unit: a
// single stateless (a, b, op) -> (result, zero) function that the
// pipeline's EX stage calls every cycle.
package alu

import "github.com/Sey1tayd/CORG-Simulator/isa"

// Execute applies op to a and b and reports whether the result is
// zero. Division by zero returns 0 rather than faulting; every other
// operation wraps silently on 16-bit two's complement overflow, which
// is how Go's int16 arithmetic already behaves.
func Execute(a, b int16, op isa.AluOp) (result int16, zero bool) {
	switch op {
	case isa.FuncADD:
		result = a + b
	case isa.FuncSUB:
		result = a - b
	case isa.FuncAND:
		result = a & b
	case isa.FuncOR:
		result = a | b
	case isa.FuncXOR:
		result = a ^ b
	case isa.FuncSLT:
		if a < b {
			result = 1
		}
	case isa.FuncDIV:
		if b != 0 {
			result = a / b
		}
	}
	return result, result == 0
}
