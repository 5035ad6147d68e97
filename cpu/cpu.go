package cpu

import (
	"fmt"
	"math"
	"strings"

	"tlog.app/go/tlog"

	"github.com/ezrec/akku/io"
)

// Cpu is the machine state of the accumulator machine, and the
// interpreter that mutates it.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Program *Program  // Program being executed.
	Input   io.Input  // Source of values for 'in'.
	Output  io.Output // Sink of values for 'out'.

	Memory      [MEMORY_CELLS]int32 // Memory bank, a..z.
	Accumulator int32               // Accumulator register.
	Flag        Flag                // Result of the last 'cmp'.
	Pc          int                 // Index of the next instruction.

	Ticks int // Instructions executed since reset.
}

// NewCpu creates a new CPU.
func NewCpu() (cpu *Cpu) {
	cpu = &Cpu{
		Program: &Program{},
	}

	return
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%5s: %d\n", "pc", cpu.Pc)
	fmt.Fprintf(&sb, "%5s: %d\n", "acc", cpu.Accumulator)
	fmt.Fprintf(&sb, "%5s: %v\n", "flag", cpu.Flag)
	for n, value := range cpu.Memory {
		if value == 0 {
			continue
		}
		fmt.Fprintf(&sb, "%5c: %d\n", rune('a'+n), value)
	}

	text = sb.String()
	return
}

// Reset the CPU state to run a program from the start.
// - Clears memory, the accumulator, and the flag.
// - Zeros statistics counters.
func (cpu *Cpu) Reset(prog *Program) {
	if prog == nil {
		prog = &Program{}
	}

	if cpu.Verbose {
		tlog.Printw("cpu: reset", "instructions", len(prog.Instructions))
	}

	cpu.Program = prog
	clear(cpu.Memory[:])
	cpu.Accumulator = 0
	cpu.Flag = FLAG_EQUAL
	cpu.Pc = 0
	cpu.Ticks = 0
}

// Fetch returns the instruction at the program counter.
func (cpu *Cpu) Fetch() (inst Instruction, err error) {
	if cpu.Program == nil || cpu.Pc < 0 || cpu.Pc >= len(cpu.Program.Instructions) {
		err = ErrProgramCounter
		return
	}

	inst = cpu.Program.Instructions[cpu.Pc]
	return
}

// Tick executes a single instruction cycle. Returns ErrHalt after 'end'.
func (cpu *Cpu) Tick() (err error) {
	inst, err := cpu.Fetch()
	if err != nil {
		return
	}

	cpu.Pc++

	err = cpu.Execute(inst)

	return
}

// Execute executes a single instruction. The program counter must already
// point past it.
func (cpu *Cpu) Execute(inst Instruction) (err error) {
	if cpu.Verbose {
		tlog.Printw("cpu", "pc", cpu.Pc-1, "line", inst.LineNo, "inst", inst.String(), "acc", cpu.Accumulator, "flag", cpu.Flag.String())
	}

	cpu.Ticks += 1

	operand := inst.Operand

	switch inst.Opcode {
	case OP_LOAD:
		var val int32
		val, err = cpu.getValue(operand)
		if err != nil {
			return
		}
		cpu.Accumulator = val
	case OP_STORE:
		var cell int
		cell, err = cpu.getAddress(operand)
		if err != nil {
			return
		}
		cpu.Memory[cell] = cpu.Accumulator
	case OP_INPUT:
		var cell int
		cell, err = cpu.getAddress(operand)
		if err != nil {
			return
		}
		if cpu.Input == nil {
			err = fmt.Errorf("%w: %w", ErrInput, io.ErrChannelInvalid)
			return
		}
		var val int32
		val, err = cpu.Input.Receive()
		if err != nil {
			err = fmt.Errorf("%w: %w", ErrInput, err)
			return
		}
		cpu.Memory[cell] = val
	case OP_OUTPUT:
		var val int32
		val, err = cpu.getValue(operand)
		if err != nil {
			return
		}
		if cpu.Output == nil {
			err = fmt.Errorf("%w: %w", ErrOutput, io.ErrChannelInvalid)
			return
		}
		err = cpu.Output.Send(val)
		if err != nil {
			err = fmt.Errorf("%w: %w", ErrOutput, err)
			return
		}
	case OP_ADD, OP_SUB, OP_MUL, OP_DIV, OP_MOD:
		var val int32
		val, err = cpu.getValue(operand)
		if err != nil {
			return
		}
		var out int32
		out, err = doAlu(inst.Opcode, cpu.Accumulator, val)
		if err != nil {
			return
		}
		cpu.Accumulator = out
	case OP_COMPARE:
		var val int32
		val, err = cpu.getValue(operand)
		if err != nil {
			return
		}
		cpu.Flag = compareFlag(cpu.Accumulator, val)
	case OP_JUMP, OP_JUMP_LESS, OP_JUMP_EQUAL, OP_JUMP_GREAT:
		var target int
		target, err = cpu.getTarget(operand)
		if err != nil {
			return
		}
		taken := true
		switch inst.Opcode {
		case OP_JUMP_LESS:
			taken = cpu.Flag == FLAG_LESS
		case OP_JUMP_EQUAL:
			taken = cpu.Flag == FLAG_EQUAL
		case OP_JUMP_GREAT:
			taken = cpu.Flag == FLAG_GREATER
		}
		if taken {
			cpu.Pc = target
		}
	case OP_END:
		err = ErrHalt
	default:
		err = ErrUnknownOpcode
	}

	return
}

// getValue resolves a value operand: an immediate, or a memory cell.
func (cpu *Cpu) getValue(operand Operand) (value int32, err error) {
	switch operand.Kind {
	case OPERAND_IMMEDIATE:
		value = operand.Value
	case OPERAND_ADDRESS:
		var cell int
		cell, err = cpu.getAddress(operand)
		if err != nil {
			return
		}
		value = cpu.Memory[cell]
	default:
		err = ErrInvalidOperandKind
	}

	return
}

// getAddress resolves a memory cell operand.
func (cpu *Cpu) getAddress(operand Operand) (cell int, err error) {
	if operand.Kind != OPERAND_ADDRESS {
		err = ErrInvalidOperandKind
		return
	}

	cell = int(operand.Value)
	if cell < 0 || cell >= MEMORY_CELLS {
		err = ErrInvalidOperandKind
		return
	}

	return
}

// getTarget resolves a jump target to an instruction index.
func (cpu *Cpu) getTarget(operand Operand) (target int, err error) {
	prog := cpu.Program
	if prog == nil {
		prog = &Program{}
	}
	size := len(prog.Instructions)

	switch operand.Kind {
	case OPERAND_IMMEDIATE:
		target = int(operand.Value)
		if target < 0 || target >= size {
			err = ErrJumpOutOfRange
			return
		}
	case OPERAND_LABEL_REF:
		var _err error
		target, _err = prog.Label.Resolve(operand.Label)
		if _err != nil || target < 0 || target >= size {
			// Validate() should have caught this.
			err = ErrUnresolvedLabel
			return
		}
	default:
		err = ErrInvalidOperandKind
	}

	return
}

// doAlu performs the arithmetic opcode, and returns the new accumulator.
func doAlu(op Opcode, input int32, value int32) (output int32, err error) {
	switch op {
	case OP_ADD:
		output = input + value
	case OP_SUB:
		output = input - value
	case OP_MUL:
		output = input * value
	case OP_DIV:
		if value == 0 {
			err = ErrDivisionByZero
			return
		}
		if input == math.MinInt32 && value == -1 {
			// Wraps, as add/sub/mul do.
			output = input
			return
		}
		output = input / value
	case OP_MOD:
		if value == 0 {
			err = ErrDivisionByZero
			return
		}
		if value == -1 {
			output = 0
			return
		}
		output = input % value
	default:
		err = ErrUnknownOpcode
	}

	return
}
