package cpu

import (
	"fmt"
	"io"
	"iter"
	"maps"
	"slices"
)

// LabelTable maps jump label names to the instruction indexes they are
// defined at. A name may be defined more than once while parsing; Resolve
// reports those as ambiguous.
type LabelTable map[string][]int

// Define binds a label name to an instruction index. The table must be
// non-nil; start from LabelTable{}.
func (lt LabelTable) Define(name string, index int) {
	lt[name] = append(lt[name], index)
}

// Resolve returns the single instruction index bound to a label.
func (lt LabelTable) Resolve(name string) (index int, err error) {
	defs := lt[name]
	switch len(defs) {
	case 0:
		err = ErrUnknownLabel
	case 1:
		index = defs[0]
	default:
		err = ErrAmbiguousLabel
	}

	return
}

// Clone returns a deep copy of the table.
func (lt LabelTable) Clone() (clone LabelTable) {
	clone = make(LabelTable, len(lt))
	for name, defs := range lt {
		clone[name] = slices.Clone(defs)
	}

	return
}

// Names returns the label names in sorted order.
func (lt LabelTable) Names() iter.Seq[string] {
	return slices.Values(slices.Sorted(maps.Keys(lt)))
}

// Program is a parsed instruction listing.
type Program struct {
	Instructions []Instruction
	Label        LabelTable
}

// LineNo returns the source line of the instruction at index pc, or 0.
func (prog *Program) LineNo(pc int) int {
	if prog == nil || pc < 0 || pc >= len(prog.Instructions) {
		return 0
	}

	return prog.Instructions[pc].LineNo
}

// Binary packs the program into two words per instruction.
//
// Word 2*pc holds the opcode in bits 8 and up and the operand kind in
// the low byte. Word 2*pc+1 holds the immediate value, the memory cell
// index, or the resolved instruction index of a label reference
// (-1 when it does not resolve).
func (prog *Program) Binary() (bins []int32) {
	bins = make([]int32, 0, 2*len(prog.Instructions))
	for _, inst := range prog.Instructions {
		operand := inst.Operand
		value := operand.Value
		switch operand.Kind {
		case OPERAND_LABEL_REF:
			index, err := prog.Label.Resolve(operand.Label)
			if err != nil {
				index = -1
			}
			value = int32(index)
		case OPERAND_NONE, OPERAND_LABEL_DEF:
			value = 0
		}
		bins = append(bins, int32(inst.Opcode)<<8|int32(operand.Kind), value)
	}

	return
}

// Listing writes an assembler listing of the program: labels, instruction
// index, packed words, source line and instruction text.
func (prog *Program) Listing(w io.Writer) (err error) {
	at := map[int][]string{}
	for name := range prog.Label.Names() {
		for _, index := range prog.Label[name] {
			at[index] = append(at[index], name)
		}
	}

	bins := prog.Binary()
	for pc, inst := range prog.Instructions {
		for _, name := range at[pc] {
			_, err = fmt.Fprintf(w, "%s:\n", name)
			if err != nil {
				return
			}
		}
		_, err = fmt.Fprintf(w, "%04d  %08x %08x  %4d  %v\n",
			pc, uint32(bins[2*pc]), uint32(bins[2*pc+1]), inst.LineNo, inst)
		if err != nil {
			return
		}
	}

	return
}
