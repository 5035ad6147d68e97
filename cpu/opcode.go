package cpu

import (
	"fmt"
	"strconv"
)

const (
	MEMORY_CELLS = 26 // One memory cell per lowercase letter.
)

// Opcode is an instruction operation.
type Opcode int

//go:generate go tool stringer -linecomment -type=Opcode
const (
	OP_LOAD       = Opcode(0)  // ld
	OP_STORE      = Opcode(1)  // st
	OP_INPUT      = Opcode(2)  // in
	OP_OUTPUT     = Opcode(3)  // out
	OP_ADD        = Opcode(4)  // add
	OP_SUB        = Opcode(5)  // sub
	OP_MUL        = Opcode(6)  // mul
	OP_DIV        = Opcode(7)  // div
	OP_MOD        = Opcode(8)  // mod
	OP_COMPARE    = Opcode(9)  // cmp
	OP_JUMP       = Opcode(10) // jmp
	OP_JUMP_LESS  = Opcode(11) // jlt
	OP_JUMP_EQUAL = Opcode(12) // jeq
	OP_JUMP_GREAT = Opcode(13) // jgt
	OP_END        = Opcode(14) // end
)

// opcodeMap maps mnemonics to opcodes.
var opcodeMap = map[string]Opcode{
	"ld":  OP_LOAD,
	"st":  OP_STORE,
	"in":  OP_INPUT,
	"out": OP_OUTPUT,
	"add": OP_ADD,
	"sub": OP_SUB,
	"mul": OP_MUL,
	"div": OP_DIV,
	"mod": OP_MOD,
	"cmp": OP_COMPARE,
	"jmp": OP_JUMP,
	"jlt": OP_JUMP_LESS,
	"jeq": OP_JUMP_EQUAL,
	"jgt": OP_JUMP_GREAT,
	"end": OP_END,
}

// Valid returns true if the opcode is one of the defined operations.
func (op Opcode) Valid() bool {
	return op >= OP_LOAD && op <= OP_END
}

// IsJump returns true for the jump family, whose operand is a jump target.
func (op Opcode) IsJump() bool {
	switch op {
	case OP_JUMP, OP_JUMP_LESS, OP_JUMP_EQUAL, OP_JUMP_GREAT:
		return true
	}
	return false
}

// NeedsOperand returns true if the opcode requires an operand.
func (op Opcode) NeedsOperand() bool {
	return op != OP_END
}

// Flag is the three-way result of the last comparison.
type Flag int

//go:generate go tool stringer -linecomment -type=Flag
const (
	FLAG_EQUAL   = Flag(0) // eq
	FLAG_LESS    = Flag(1) // lt
	FLAG_GREATER = Flag(2) // gt
)

// compareFlag returns the flag for comparing a against b.
func compareFlag(a, b int32) Flag {
	switch {
	case a < b:
		return FLAG_LESS
	case a > b:
		return FLAG_GREATER
	}
	return FLAG_EQUAL
}

// OperandKind selects which field of an Operand is meaningful.
type OperandKind int

//go:generate go tool stringer -linecomment -type=OperandKind
const (
	OPERAND_NONE      = OperandKind(0) // none
	OPERAND_IMMEDIATE = OperandKind(1) // imm
	OPERAND_ADDRESS   = OperandKind(2) // addr
	OPERAND_LABEL_REF = OperandKind(3) // ref
	OPERAND_LABEL_DEF = OperandKind(4) // def
)

// Operand is the argument of an instruction.
type Operand struct {
	Kind  OperandKind
	Value int32  // Immediate value, or memory cell index for an address.
	Label string // Label name for references and definitions.
}

// Immediate makes an immediate operand.
func Immediate(value int32) Operand {
	return Operand{Kind: OPERAND_IMMEDIATE, Value: value}
}

// Address makes a memory address operand from a cell index.
func Address(cell int) Operand {
	return Operand{Kind: OPERAND_ADDRESS, Value: int32(cell)}
}

// AddressOf makes a memory address operand from a cell letter.
func AddressOf(letter byte) Operand {
	return Address(int(letter - 'a'))
}

// LabelRef makes a jump target reference.
func LabelRef(name string) Operand {
	return Operand{Kind: OPERAND_LABEL_REF, Label: name}
}

// LabelDef makes a label definition.
func LabelDef(name string) Operand {
	return Operand{Kind: OPERAND_LABEL_DEF, Label: name}
}

// String returns the assembly text of the operand.
func (op Operand) String() (out string) {
	switch op.Kind {
	case OPERAND_NONE:
		out = ""
	case OPERAND_IMMEDIATE:
		out = strconv.FormatInt(int64(op.Value), 10)
	case OPERAND_ADDRESS:
		if op.Value >= 0 && op.Value < MEMORY_CELLS {
			out = string(rune('a' + op.Value))
		} else {
			out = fmt.Sprintf("@%d", op.Value)
		}
	case OPERAND_LABEL_REF:
		out = op.Label
	case OPERAND_LABEL_DEF:
		out = ":" + op.Label
	default:
		out = op.Kind.String()
	}

	return
}

// Instruction is a single parsed line of assembly.
type Instruction struct {
	LineNo  int // Source line, starting at 1.
	Opcode  Opcode
	Operand Operand
}

// String returns the assembly language representation of this instruction.
func (inst Instruction) String() string {
	if inst.Operand.Kind == OPERAND_NONE {
		return inst.Opcode.String()
	}

	return inst.Opcode.String() + " " + inst.Operand.String()
}
