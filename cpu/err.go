package cpu

import (
	"errors"

	"github.com/ezrec/akku/translate"
)

var f = translate.From

var (
	// Assembler errors
	ErrUnknownMnemonic = errors.New(f("unknown mnemonic"))
	ErrInvalidOperand  = errors.New(f("invalid operand"))
	ErrMissingOperand  = errors.New(f("missing operand"))
	ErrTooManyOperands = errors.New(f("too many operands"))
	ErrMissingEnd      = errors.New(f("program does not finish with end"))
	ErrDuplicateEnd    = errors.New(f("end duplicated"))
	ErrUnknownLabel    = errors.New(f("unknown label"))
	ErrAmbiguousLabel  = errors.New(f("ambiguous label"))

	// Cpu errors
	ErrHalt               = errors.New(f("halted"))
	ErrInvalidOperandKind = errors.New(f("invalid operand kind"))
	ErrDivisionByZero     = errors.New(f("division by zero"))
	ErrJumpOutOfRange     = errors.New(f("jump out of range"))
	ErrUnresolvedLabel    = errors.New(f("unresolved label"))
	ErrUnknownOpcode      = errors.New(f("unknown opcode"))
	ErrProgramCounter     = errors.New(f("program counter out of range"))
	ErrInput              = errors.New(f("input failed"))
	ErrOutput             = errors.New(f("output failed"))
)

// ErrSyntax is a parse or validation failure at a source line.
type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err *ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err *ErrSyntax) Unwrap() error {
	return err.Err
}

// ErrToken identifies the offending word of a line.
type ErrToken struct {
	Word string
	Err  error
}

func (err *ErrToken) Error() string {
	return f("'%v' %v", err.Word, err.Err)
}

func (err *ErrToken) Unwrap() error {
	return err.Err
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

func (err ErrParseExpression) Is(target error) bool {
	return target == ErrInvalidOperand
}
