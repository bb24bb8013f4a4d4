// Package io provides the devices attached to the memory mapped I/O port of
// the TOY machine.
//
// A device supplies one signed integer per read of the port, and accepts one
// signed integer per write. Range clamping and two's-complement conversion
// are the memory bus's job, not the device's.
package io

// Device defines the interface for all I/O port devices.
type Device interface {
	// Rewind resets the device to its initial state.
	Rewind()
	// Input returns the next value from the device. It may block.
	Input() (value int, err error)
	// Output sends a value to the device.
	Output(value int) error
}
