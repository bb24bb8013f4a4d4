// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"fmt"
	"iter"
	"maps"

	"github.com/ezrec/toy/alu"
	"github.com/ezrec/toy/cpu"
	"github.com/ezrec/toy/image"
	"github.com/ezrec/toy/internal"
	"github.com/ezrec/toy/io"
)

var _emulator_defines = map[string]string{
	"WORD_BITS": fmt.Sprintf("%v", alu.WIDTH),
}

// Emulator state. CPU + program listing. The I/O device is owned by the
// memory bus, emu.Memory.Device.
type Emulator struct {
	Verbose  bool         // If set, traces every bus access to the log.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *cpu.Program // Listing of the loaded program, if assembled.
}

// NewEmulator creates a new emulator, with device attached to the I/O port.
func NewEmulator(device io.Device) (emu *Emulator) {
	emu = &Emulator{
		Cpu:     cpu.NewCpu(device),
		Program: &cpu.Program{},
	}

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(maps.All(_emulator_defines),
		emu.Cpu.Defines(),
	)
}

// Reset the machine: registers and memory cleared, pc at START_ADDRESS,
// and the device rewound.
func (emu *Emulator) Reset() {
	emu.Cpu.Reset()
	emu.Program = &cpu.Program{}
	if dev := emu.Cpu.Memory.Device; dev != nil {
		dev.Rewind()
	}
}

// Load places image files into memory, one after another, from START_ADDRESS.
func (emu *Emulator) Load(names ...string) (err error) {
	_, err = image.Load(&emu.Cpu.Memory, names...)
	return
}

// LoadWords places words into memory from START_ADDRESS.
func (emu *Emulator) LoadWords(words []cpu.Word) (err error) {
	_, err = image.Place(&emu.Cpu.Memory, cpu.START_ADDRESS, words)
	return
}

// LoadProgram places an assembled program into memory, and keeps its
// listing for trace and error reporting.
func (emu *Emulator) LoadProgram(prog *cpu.Program) (err error) {
	err = emu.LoadWords(prog.Words())
	if err != nil {
		return
	}

	emu.Program = prog

	return
}

// LineNo returns the source line of the instruction at the program counter,
// or 0 if there is no listing for it.
func (emu *Emulator) LineNo() int {
	dbg := emu.Program.Debug(emu.Cpu.Pc)
	if dbg.Opcode == nil {
		return 0
	}

	return dbg.LineNo
}

// Tick performs a single instruction of the emulator.
// On a halt instruction done is true; on a fault, err is an *ErrRuntime.
func (emu *Emulator) Tick() (done bool, err error) {
	if emu.Verbose {
		emu.Cpu.SetSink(LogSink{Program: emu.Program})
	} else {
		emu.Cpu.SetSink(nil)
	}

	done = emu.Cpu.Tick()
	if done && emu.Cpu.Halt.Fault() {
		halt := emu.Cpu.Halt
		err = &ErrRuntime{
			Reason: halt.Reason,
			Pc:     halt.Pc,
			Code:   halt.Code,
			LineNo: emu.LineNo(),
			Err:    halt.Err,
		}
	}

	return
}

// Run ticks the emulator until it halts, or until limit instructions have
// executed. A limit of zero or less runs without limit.
func (emu *Emulator) Run(limit int) (steps int, err error) {
	for limit <= 0 || steps < limit {
		ticks := emu.Cpu.Ticks

		var done bool
		done, err = emu.Tick()
		steps += emu.Cpu.Ticks - ticks
		if done {
			return
		}
	}

	err = ErrStepLimit

	return
}
