package io

import (
	"bufio"
	"io"
	"strconv"
)

type flusher interface {
	Flush() error
}

// Tape provides text I/O operations for reading and writing decimal values.
// It wraps an io.Reader for input, where values are separated by spaces or
// newlines, and an io.Writer for output, where each value is written on
// its own line.
type Tape struct {
	Input  io.Reader
	Output io.Writer

	scanner *bufio.Scanner
}

var _ Channel = (*Tape)(nil)

// Rewind drops any buffered input, so the next Receive starts reading
// from the current Input. Call it after replacing Input.
func (tc *Tape) Rewind() {
	tc.scanner = nil
}

// Receive reads the next whitespace separated value from the input stream.
// Returns ErrChannelEmpty at the end of input.
func (tc *Tape) Receive() (value int32, err error) {
	if tc.Input == nil {
		err = ErrChannelInvalid
		return
	}

	if tc.scanner == nil {
		tc.scanner = bufio.NewScanner(tc.Input)
		tc.scanner.Split(bufio.ScanWords)
	}

	if !tc.scanner.Scan() {
		err = tc.scanner.Err()
		if err == nil {
			err = ErrChannelEmpty
		}
		return
	}

	word := tc.scanner.Text()
	v64, err := strconv.ParseInt(word, 10, 32)
	if err != nil {
		err = ErrValue(word)
		return
	}

	value = int32(v64)
	return
}

// Send writes a value, followed by a newline, to the output stream. An
// Output with a Flush method, such as a *bufio.Writer, is flushed.
func (tc *Tape) Send(value int32) (err error) {
	if tc.Output == nil {
		err = ErrChannelInvalid
		return
	}

	_, err = io.WriteString(tc.Output, strconv.FormatInt(int64(value), 10)+"\n")
	if err != nil {
		return
	}

	// Values must be visible before the next blocking Receive.
	if fl, ok := tc.Output.(flusher); ok {
		err = fl.Flush()
	}

	return
}
