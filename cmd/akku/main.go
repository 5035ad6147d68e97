// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"bufio"
	"errors"
	"os"
	"strconv"

	"github.com/tebeka/atexit"
	"nikand.dev/go/cli"
	tlerrors "tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/ezrec/akku/cpu"
	"github.com/ezrec/akku/emulator"
	"github.com/ezrec/akku/translate"
)

func main() {
	app := &cli.Command{
		Name:        "akku",
		Description: "akku assembles and runs accumulator machine programs",
		Action:      runAct,
		Args:        cli.Args{},
		Flags: []*cli.Flag{
			cli.NewFlag("verbose,v", false, "Verbose mode"),
			cli.NewFlag("input,i", "-", "Value input"),
			cli.NewFlag("output,o", "-", "Value output"),
			cli.NewFlag("list,l", false, "Print the assembled listing, do not execute"),
			cli.NewFlag("expr,x", false, "Evaluate $(...) compile-time expressions"),
		},
	}

	cli.RunAndExit(app, os.Args, os.Environ())
}

// lineError splits a parse or runtime error into its source line and cause.
func lineError(err error) (lineno int, cause error, ok bool) {
	var se *cpu.ErrSyntax
	var re *emulator.ErrRuntime

	switch {
	case errors.As(err, &se):
		return se.LineNo, se.Err, true
	case errors.As(err, &re):
		return re.LineNo, re.Err, true
	}

	return 0, err, false
}

// exitError reports a program error, and exits non-zero.
func exitError(err error) {
	lineno, cause, ok := lineError(err)
	if ok {
		translate.Fprintln(os.Stderr, "Error in line %v: %v", strconv.Itoa(lineno), cause)
	} else {
		translate.Fprintln(os.Stderr, "Error: %v", cause)
	}

	atexit.Exit(1)
}

// openFile opens a file for a role. The path is already in the
// *os.PathError, so only the role is added.
func openFile(role string, path string, open func(string) (*os.File, error)) (file *os.File, err error) {
	file, err = open(path)
	if err != nil {
		err = tlerrors.Wrap(err, "%s", role)
	}

	return
}

func runAct(c *cli.Command) (err error) {
	if len(c.Args) != 1 {
		return tlerrors.New("expected one source file, got %d", len(c.Args))
	}

	compile := c.Args[0]
	verbose := c.Bool("verbose")
	input := c.String("input")
	output := c.String("output")

	if verbose {
		tlog.Printw("akku", "source", compile, "input", input, "output", output)
	}

	inf, err := openFile("source", compile, os.Open)
	if err != nil {
		return err
	}
	defer inf.Close()

	asm := &cpu.Assembler{
		Verbose:     verbose,
		Expressions: c.Bool("expr"),
	}

	prog, err := asm.Parse(inf)
	if err != nil {
		exitError(err)
	}

	if c.Bool("list") {
		return prog.Listing(os.Stdout)
	}

	emu := emulator.NewEmulator()
	emu.Program = prog
	emu.Verbose = verbose

	if input == "-" {
		emu.Tape.Input = os.Stdin
	} else {
		tapein, err := openFile("input tape", input, os.Open)
		if err != nil {
			return err
		}
		atexit.Register(func() { tapein.Close() })
		defer tapein.Close()
		emu.Tape.Input = tapein
	}

	ouf := os.Stdout
	if output != "-" {
		ouf, err = openFile("output tape", output, os.Create)
		if err != nil {
			return err
		}
		atexit.Register(func() { ouf.Close() })
		defer ouf.Close()
	}

	// Tape flushes after each value, so output interleaves with 'in' prompts.
	tapeout := bufio.NewWriter(ouf)
	atexit.Register(func() { tapeout.Flush() })
	defer tapeout.Flush()
	emu.Tape.Output = tapeout

	err = emu.Run()
	if err != nil {
		tapeout.Flush()
		exitError(err)
	}

	if verbose {
		tlog.Printw("akku", "ticks", emu.Ticks())
	}

	return nil
}
