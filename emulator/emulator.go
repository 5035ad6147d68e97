// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package emulator runs assembled programs on the accumulator machine.
package emulator

import (
	"errors"

	"tlog.app/go/tlog"

	"github.com/ezrec/akku/cpu"
	"github.com/ezrec/akku/io"
)

// Emulator state. CPU + program + IO channel.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *cpu.Program // Reference to the currently running program listing.

	Tape io.Tape // Default text IO channel.
}

// NewEmulator creates a new emulator, with the CPU input and output
// connected to the Tape.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Cpu:     cpu.NewCpu(),
		Program: &cpu.Program{},
	}

	emu.Cpu.Input = &emu.Tape
	emu.Cpu.Output = &emu.Tape

	return
}

// Reset the emulator state, so the next Tick starts the program with a
// fresh machine state.
func (emu *Emulator) Reset() {
	emu.Cpu.Verbose = emu.Verbose

	emu.Tape.Rewind()
	emu.Cpu.Reset(emu.Program)
}

// Ticks returns the total ticks since a reset.
func (emu *Emulator) Ticks() int {
	return emu.Cpu.Ticks
}

// Pc returns current program counter.
func (emu *Emulator) Pc() int {
	return emu.Cpu.Pc
}

// LineNo returns the source line number of the next instruction.
func (emu *Emulator) LineNo() int {
	return emu.Program.LineNo(emu.Cpu.Pc)
}

// Tick performs a single instruction of the emulator.
// Returns done once the program executes 'end'.
func (emu *Emulator) Tick() (done bool, err error) {
	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	lineno := emu.LineNo()
	defer func() {
		if err != nil {
			err = &ErrRuntime{LineNo: lineno, Err: err}
		}
	}()

	err = emu.Cpu.Tick()
	if errors.Is(err, cpu.ErrHalt) {
		err = nil
		done = true
	}

	if emu.Verbose && (done || err != nil) {
		tlog.Printw("emulator: stopped", "ticks", emu.Cpu.Ticks, "err", err)
		tlog.Printf("emulator: state\n%v", emu.Cpu)
	}

	return
}

// Run resets the emulator, and executes the program until 'end' or a
// runtime error.
func (emu *Emulator) Run() (err error) {
	emu.Reset()

	for done := false; !done; {
		done, err = emu.Tick()
		if err != nil {
			return
		}
	}

	return
}

// Run executes a validated program on a fresh emulator.
func Run(prog *cpu.Program, input io.Input, output io.Output) (err error) {
	emu := NewEmulator()
	emu.Program = prog
	emu.Cpu.Input = input
	emu.Cpu.Output = output

	err = emu.Run()

	return
}
