package isa

// Decoder turns raw instruction words into Instruction values. It
// carries no state; the type exists so callers have something to hang
// the Decode method on, matching the decoder shape used across the
// rest of the pipeline's stage types.
type Decoder struct{}

// NewDecoder returns a ready-to-use Decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode extracts every field of word, looks up its control signals
// and ALU operation, and returns the fully decoded Instruction. An
// unrecognized opcode decodes to the all-zero Control (a bubble) and
// AluOp 0; the decoder itself never rejects a word, since every 4-bit
// pattern is a valid field value.
func (d *Decoder) Decode(word uint16) Instruction {
	op := ExtractOp(word)
	in := Instruction{
		Word: word,
		Op:   op,
		Rs:   ExtractRs(word),
		Rt:   ExtractRt(word),
	}

	if op == OpRType {
		in.IsRType = true
		in.Rd = Register((word >> 3) & 0x7)
		in.Func = Func(word & 0x7)
		in.AluOp = in.Func
	} else {
		in.Imm = SignExtendImm6(word & 0x3F)
		in.AluOp = aluOpTable[op]
	}

	in.Ctrl = controlTable[op]
	return in
}
