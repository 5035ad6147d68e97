package cpu

// Validate checks the structural invariants of a program:
//   - there is exactly one 'end', and it is the last instruction.
//   - every label reference resolves to exactly one definition that
//     binds to an instruction of the program.
//
// Returned errors are *ErrSyntax, wrapping ErrMissingEnd, ErrDuplicateEnd,
// ErrUnknownLabel or ErrAmbiguousLabel.
func Validate(prog *Program) (err error) {
	if prog == nil {
		prog = &Program{}
	}

	insts := prog.Instructions

	var end *Instruction
	for n := range insts {
		inst := &insts[n]
		if inst.Opcode != OP_END {
			continue
		}
		if end != nil {
			err = &ErrSyntax{LineNo: inst.LineNo, Line: inst.String(), Err: ErrDuplicateEnd}
			return
		}
		end = inst
	}

	if len(insts) == 0 {
		err = &ErrSyntax{Err: ErrMissingEnd}
		return
	}

	last := insts[len(insts)-1]
	if last.Opcode != OP_END {
		err = &ErrSyntax{LineNo: last.LineNo, Line: last.String(), Err: ErrMissingEnd}
		return
	}

	for _, inst := range insts {
		if inst.Operand.Kind != OPERAND_LABEL_REF {
			continue
		}

		name := inst.Operand.Label
		index, _err := prog.Label.Resolve(name)
		if _err == nil && index >= len(insts) {
			// Defined after the last instruction.
			_err = ErrUnknownLabel
		}
		if _err != nil {
			err = &ErrSyntax{LineNo: inst.LineNo, Line: inst.String(), Err: &ErrToken{Word: name, Err: _err}}
			return
		}
	}

	return
}
