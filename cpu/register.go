package cpu

const (
	REGISTER_COUNT = 16 // Number of registers in the register file.
)

// Register is the register file. Register 0 always reads as zero, and
// writes to it are dropped.
type Register struct {
	Image [REGISTER_COUNT]Word
}

// Read returns the value of a register. Out of range registers read as 0.
func (reg *Register) Read(addr int) (value Word) {
	if addr <= 0 || addr >= REGISTER_COUNT {
		return
	}

	value = reg.Image[addr]
	return
}

// Write sets the value of a register. Writes to r0, or out of range
// registers, are ignored.
func (reg *Register) Write(addr int, value Word) {
	if addr <= 0 || addr >= REGISTER_COUNT {
		return
	}

	reg.Image[addr] = value
}

// Reset clears all registers.
func (reg *Register) Reset() {
	clear(reg.Image[:])
}
