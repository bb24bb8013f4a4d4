package io

// Temporary is a FIFO device. Inputs are consumed in order, and every
// output is appended to Outputs.
type Temporary struct {
	Inputs  []int
	Outputs []int

	ReadIndex int
}

var _ Device = (*Temporary)(nil)

// Rewind restarts reading from the first input, and clears the outputs.
func (temp *Temporary) Rewind() {
	temp.ReadIndex = 0
	temp.Outputs = temp.Outputs[:0]
}

// Push queues more input values.
func (temp *Temporary) Push(values ...int) {
	temp.Inputs = append(temp.Inputs, values...)
}

// Input returns the next queued value, or ErrChannelEmpty.
func (temp *Temporary) Input() (value int, err error) {
	if temp.ReadIndex >= len(temp.Inputs) {
		err = ErrChannelEmpty
		return
	}

	value = temp.Inputs[temp.ReadIndex]
	temp.ReadIndex++

	return
}

// Output appends the value to Outputs.
func (temp *Temporary) Output(value int) (err error) {
	temp.Outputs = append(temp.Outputs, value)
	return
}
