// Package io provides the value channels of the accumulator machine: a
// source of values for the 'in' instruction, and a sink for the 'out'
// instruction. Tape reads and writes decimal text streams, and Script holds
// values in memory for scripted runs.
package io

// Input is a source of values for the 'in' instruction. Receive blocks
// until a value is available.
type Input interface {
	// Receive returns the next input value.
	Receive() (value int32, err error)
}

// Output is the sink of values for the 'out' instruction.
type Output interface {
	// Send writes a single value.
	Send(value int32) error
}

// Channel is both an Input and an Output.
type Channel interface {
	Input
	Output
	// Rewind resets the channel to its initial state.
	Rewind()
}
