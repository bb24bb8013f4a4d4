package cpu

import (
	"github.com/ezrec/toy/io"
)

const (
	MEMORY_SIZE = 255  // Words of RAM, at addresses 0x00..0xfe.
	IO_ADDRESS  = 0xff // Memory mapped I/O port.

	WORD_SIGNED_MAX = 0x7fff
	WORD_SIGNED_MIN = -0x8000
)

// Memory is the memory bus: MEMORY_SIZE words of RAM, and the I/O port.
type Memory struct {
	Image  [MEMORY_SIZE]Word
	Device io.Device // Device on the I/O port.
	Sink   Sink      // Trace events for every bus access.
}

// ToWord clamps a signed value into the 16-bit signed range, and encodes it
// as a two's-complement word.
func ToWord(value int) Word {
	value = min(max(value, WORD_SIGNED_MIN), WORD_SIGNED_MAX)
	if value < 0 {
		value += 0x10000
	}

	return Word(value)
}

// ToSigned interprets a word as a two's-complement signed value.
func ToSigned(value Word) int {
	if value > WORD_SIGNED_MAX {
		return int(value) - 0x10000
	}

	return int(value)
}

func (mem *Memory) trace(ev Event) {
	if mem.Sink != nil {
		mem.Sink.Trace(ev)
	}
}

// Reset clears RAM.
func (mem *Memory) Reset() {
	clear(mem.Image[:])
}

// Fetch reads an instruction word from RAM. The I/O port is not executable.
func (mem *Memory) Fetch(addr int) (code Code, err error) {
	if addr < 0 || addr >= MEMORY_SIZE {
		err = ErrAddress(addr)
		return
	}

	code = Code(mem.Image[addr])
	return
}

// Read reads a word from RAM, or from the I/O port device.
func (mem *Memory) Read(addr int) (value Word, err error) {
	switch {
	case addr >= 0 && addr < MEMORY_SIZE:
		value = mem.Image[addr]
		mem.trace(Event{Kind: EVENT_READ, Addr: addr, Value: value})
	case addr == IO_ADDRESS:
		if mem.Device == nil {
			err = ErrDeviceMissing
			return
		}
		var signed int
		signed, err = mem.Device.Input()
		if err != nil {
			return
		}
		value = ToWord(signed)
		mem.trace(Event{Kind: EVENT_INPUT, Addr: addr, Value: value, Signed: ToSigned(value)})
	default:
		err = ErrAddress(addr)
	}

	return
}

// Write writes a word to RAM, or to the I/O port device.
func (mem *Memory) Write(addr int, value Word) (err error) {
	switch {
	case addr >= 0 && addr < MEMORY_SIZE:
		mem.Image[addr] = value
		mem.trace(Event{Kind: EVENT_WRITE, Addr: addr, Value: value})
	case addr == IO_ADDRESS:
		if mem.Device == nil {
			err = ErrDeviceMissing
			return
		}
		signed := ToSigned(value)
		mem.trace(Event{Kind: EVENT_OUTPUT, Addr: addr, Value: value, Signed: signed})
		err = mem.Device.Output(signed)
	default:
		err = ErrAddress(addr)
	}

	return
}
