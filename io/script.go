package io

// Script is an in-memory channel: Receive returns the Inputs in order,
// and Send appends to Outputs.
type Script struct {
	Inputs  []int32
	Outputs []int32

	ReadIndex int
}

var _ Channel = (*Script)(nil)

// Rewind restarts the inputs from the beginning, and clears the outputs.
func (sc *Script) Rewind() {
	sc.ReadIndex = 0
	sc.Outputs = nil
}

// Receive returns the next input value, or ErrChannelEmpty once they are
// exhausted.
func (sc *Script) Receive() (value int32, err error) {
	if sc.ReadIndex >= len(sc.Inputs) {
		err = ErrChannelEmpty
		return
	}

	value = sc.Inputs[sc.ReadIndex]
	sc.ReadIndex++

	return
}

// Send appends a value to the outputs.
func (sc *Script) Send(value int32) (err error) {
	sc.Outputs = append(sc.Outputs, value)
	return
}
