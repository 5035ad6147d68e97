// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"iter"
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
	"tlog.app/go/tlog"
)

// Predefined system values for $(...) expressions.
var sysDefine = map[string]int64{
	"LINENO":       0,
	"MEMORY_CELLS": MEMORY_CELLS,
	"INT32_MIN":    math.MinInt32,
	"INT32_MAX":    math.MaxInt32,
}

var exprRegexp = regexp.MustCompile(`\$\([^\$]*\)`)

// Assembler is a single pass assembler for the accumulator machine.
type Assembler struct {
	Verbose     bool // If set, verbosely logs the assembler actions.
	Expressions bool // If set, $(...) is evaluated as a compile-time expression.

	Instruction []Instruction // List of parsed instructions.
	Label       LabelTable    // Map of jump labels to instruction indexes.

	predefine map[string]int64 // Predefines for expressions.
	lineno    int              // Current line number.
	endLineNo int              // Line of the first 'end', or 0.
}

// Predefine defines or redefines a name for $(...) expressions.
func (asm *Assembler) Predefine(name string, value int64) {
	if asm.predefine == nil {
		asm.predefine = map[string]int64{name: value}
	} else {
		asm.predefine[name] = value
	}
}

// isIdentifier checks for a lowercase label or address name.
func isIdentifier(word string) bool {
	if len(word) == 0 || word[0] < 'a' || word[0] > 'z' {
		return false
	}
	for _, c := range []byte(word[1:]) {
		switch {
		case c >= 'a' && c <= 'z':
		case c >= '0' && c <= '9':
		case c == '_':
		default:
			return false
		}
	}

	return true
}

// labelOf returns the label name defined by a word, if it is a label
// definition. The 'name:' form is only recognized before the mnemonic.
func labelOf(word string, leading bool) (name string, ok bool, err error) {
	switch {
	case strings.HasPrefix(word, ":"):
		name = word[1:]
	case leading && len(word) > 1 && strings.HasSuffix(word, ":"):
		name = word[:len(word)-1]
	default:
		return
	}

	ok = true
	if !isIdentifier(name) {
		err = &ErrToken{Word: word, Err: ErrInvalidOperand}
	}

	return
}

// valueOf parses a decimal immediate, with an optional leading '-'.
func valueOf(word string) (value int32, err error) {
	digits := strings.TrimPrefix(word, "-")
	if len(digits) == 0 {
		err = &ErrToken{Word: word, Err: ErrInvalidOperand}
		return
	}
	for _, c := range []byte(digits) {
		if c < '0' || c > '9' {
			err = &ErrToken{Word: word, Err: ErrInvalidOperand}
			return
		}
	}

	v64, err := strconv.ParseInt(word, 10, 32)
	if err != nil {
		err = &ErrToken{Word: word, Err: ErrInvalidOperand}
		return
	}

	value = int32(v64)
	return
}

// operandOf decodes the operand word of an opcode.
func operandOf(op Opcode, word string) (operand Operand, err error) {
	c := word[0]
	switch {
	case (c >= '0' && c <= '9') || c == '-':
		var value int32
		value, err = valueOf(word)
		if err != nil {
			return
		}
		operand = Immediate(value)
	case c >= 'a' && c <= 'z':
		switch {
		case !isIdentifier(word):
			err = &ErrToken{Word: word, Err: ErrInvalidOperand}
		case op.IsJump():
			operand = LabelRef(word)
		case len(word) == 1:
			operand = AddressOf(c)
		default:
			// Label references are only for jumps.
			err = &ErrToken{Word: word, Err: ErrInvalidOperand}
		}
	default:
		err = &ErrToken{Word: word, Err: ErrInvalidOperand}
	}

	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int32, err error) {
	thread := starlark.Thread{Name: "expr"}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, val := range sysDefine {
		pred[key] = starlark.MakeInt64(val)
	}
	for key, val := range asm.predefine {
		pred[key] = starlark.MakeInt64(val)
	}
	pred["LINENO"] = starlark.MakeInt(asm.lineno)

	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := dict["rc"].(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok || st_int64 < math.MinInt32 || st_int64 > math.MaxInt32 {
		err = ErrParseExpression(expr)
		return
	}

	value = int32(st_int64)
	return
}

// expandLine replaces each $(...) in a line with its decimal value.
func (asm *Assembler) expandLine(line string) (expanded string, err error) {
	expanded = exprRegexp.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			if err == nil {
				err = _err
			}
			return str
		}
		return fmt.Sprintf("%d", value)
	})

	return
}

// parseLine parses a single comment-stripped line.
func (asm *Assembler) parseLine(line string) (err error) {
	if asm.Expressions {
		line, err = asm.expandLine(line)
		if err != nil {
			return
		}
	}

	var opcode Opcode
	var have bool
	var operands []string

	for _, word := range strings.Fields(line) {
		if have && opcode == OP_END {
			// Nothing may follow 'end'.
			err = &ErrToken{Word: word, Err: ErrTooManyOperands}
			return
		}

		name, is_label, _err := labelOf(word, !have)
		if _err != nil {
			err = _err
			return
		}
		if is_label {
			// Labels decorate the instruction that follows them.
			index := len(asm.Instruction)
			if have {
				index++
			}
			asm.Label.Define(name, index)
			continue
		}

		if !have {
			var ok bool
			opcode, ok = opcodeMap[word]
			if !ok {
				err = &ErrToken{Word: word, Err: ErrUnknownMnemonic}
				return
			}
			have = true
			continue
		}

		operands = append(operands, word)
	}

	// label-only, or empty
	if !have {
		return
	}

	var operand Operand
	if opcode.NeedsOperand() {
		switch len(operands) {
		case 0:
			err = &ErrToken{Word: opcode.String(), Err: ErrMissingOperand}
			return
		case 1:
			operand, err = operandOf(opcode, operands[0])
			if err != nil {
				return
			}
		default:
			err = &ErrToken{Word: operands[1], Err: ErrTooManyOperands}
			return
		}
	}

	if opcode == OP_END {
		if asm.endLineNo != 0 {
			err = ErrDuplicateEnd
			return
		}
		asm.endLineNo = asm.lineno
	}

	asm.Instruction = append(asm.Instruction, Instruction{
		LineNo:  asm.lineno,
		Opcode:  opcode,
		Operand: operand,
	})

	return
}

// ParseLines parses a sequence of source lines into a validated Program.
func (asm *Assembler) ParseLines(lines iter.Seq[string]) (prog *Program, err error) {
	var line string

	defer func() {
		if err != nil {
			prog = nil
			var se *ErrSyntax
			if !errors.As(err, &se) {
				err = &ErrSyntax{LineNo: asm.lineno, Line: line, Err: err}
			}
		}
	}()

	asm.Instruction = asm.Instruction[:0]
	asm.Label = LabelTable{}
	asm.lineno = 0
	asm.endLineNo = 0

	for text := range lines {
		asm.lineno += 1

		if asm.Verbose {
			tlog.Printw("asm", "line", asm.lineno, "text", text)
		}

		line, _, _ = strings.Cut(text, ";")
		line = strings.TrimSpace(line)

		err = asm.parseLine(line)
		if err != nil {
			return
		}
	}

	prog = &Program{
		Instructions: slices.Clone(asm.Instruction),
		Label:        asm.Label.Clone(),
	}

	// Final end and label checks.
	err = Validate(prog)
	if err != nil {
		var se *ErrSyntax
		if errors.As(err, &se) && se.LineNo == 0 {
			// Empty program; blame the end of the source.
			se.LineNo = asm.lineno
		}
		return
	}

	if asm.Verbose {
		tlog.Printw("asm", "instructions", len(prog.Instructions), "labels", len(prog.Label))
	}

	return
}

// Parse parses an input stream into a validated Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	lines := func(yield func(string) bool) {
		for scanner.Scan() {
			if !yield(scanner.Text()) {
				return
			}
		}
	}

	prog, err = asm.ParseLines(lines)

	// A read failure truncates the source; report it at the line it hit.
	scan_err := scanner.Err()
	if scan_err != nil {
		prog = nil
		err = &ErrSyntax{LineNo: asm.lineno + 1, Err: scan_err}
	}

	return
}
