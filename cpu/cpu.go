package cpu

import (
	"errors"
	"fmt"
	"iter"
	"maps"

	"github.com/ezrec/toy/alu"
	"github.com/ezrec/toy/io"
)

const (
	START_ADDRESS = 0x10 // Reset value of the program counter, and the image load address.
)

var _cpu_defines = map[string]string{
	"START_ADDRESS":  fmt.Sprintf("0x%x", START_ADDRESS),
	"IO_ADDRESS":     fmt.Sprintf("0x%x", IO_ADDRESS),
	"MEMORY_SIZE":    fmt.Sprintf("%d", MEMORY_SIZE),
	"REGISTER_COUNT": fmt.Sprintf("%d", REGISTER_COUNT),
}

// ALU operation for each register-register-register opcode.
var _alu_op = map[CodeOp]alu.Op{
	OP_ADD: alu.OP_ADD,
	OP_SUB: alu.OP_SUB,
	OP_AND: alu.OP_AND,
	OP_XOR: alu.OP_XOR,
	OP_SHL: alu.OP_SHL,
	OP_SHR: alu.OP_SHR,
}

// State is the execution state of the CPU.
type State int

//go:generate go tool stringer -linecomment -type=State
const (
	STATE_RUNNING = State(0) // running
	STATE_HALTED  = State(1) // halted
)

// HaltReason records why the CPU stopped.
type HaltReason int

//go:generate go tool stringer -linecomment -type=HaltReason
const (
	HALT_NONE    = HaltReason(0) // none
	HALT_OPCODE  = HaltReason(1) // halt
	HALT_ADDRESS = HaltReason(2) // address
	HALT_DEVICE  = HaltReason(3) // device
)

// Halt describes the instruction that stopped the CPU.
type Halt struct {
	Reason HaltReason
	Pc     Word  // Address of the instruction that halted.
	Code   Code  // Instruction that halted. Zero for fetch faults.
	Err    error // Cause of a fault halt. Nil for HALT_OPCODE.
}

// Fault returns true if the halt was not caused by the halt instruction.
func (h Halt) Fault() bool {
	return h.Reason == HALT_ADDRESS || h.Reason == HALT_DEVICE
}

// Cpu is the simulation context for the TOY processor.
type Cpu struct {
	Register Register // Register file.
	Memory   Memory   // Memory bus and I/O port.

	Pc    Word  // Program counter.
	State State // Execution state.
	Halt  Halt  // Set when State is STATE_HALTED.

	Ticks int // Instructions executed since reset.

	sink Sink
}

// NewCpu creates a new CPU, with a device attached to the I/O port.
func NewCpu(device io.Device) (cpu *Cpu) {
	cpu = &Cpu{}
	cpu.Memory.Device = device
	cpu.Memory.Sink = SinkFunc(func(ev Event) {
		ev.Pc = cpu.Pc
		cpu.trace(ev)
	})

	cpu.Reset()

	return
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// SetSink sets the receiver of trace events. Nil disables tracing.
func (cpu *Cpu) SetSink(sink Sink) {
	cpu.sink = sink
}

func (cpu *Cpu) trace(ev Event) {
	if cpu.sink != nil {
		cpu.sink.Trace(ev)
	}
}

// Reset the CPU state.
// - Clears the registers and memory.
// - Zeros the tick counter.
// - Sets the program counter to START_ADDRESS, and the state to running.
func (cpu *Cpu) Reset() {
	cpu.Register.Reset()
	cpu.Memory.Reset()
	cpu.Pc = START_ADDRESS
	cpu.State = STATE_RUNNING
	cpu.Halt = Halt{}
	cpu.Ticks = 0
}

// Halted returns true once the CPU has stopped.
func (cpu *Cpu) Halted() bool {
	return cpu.State == STATE_HALTED
}

// halt moves the CPU to the halted state.
func (cpu *Cpu) halt(reason HaltReason, code Code, err error) {
	cpu.State = STATE_HALTED
	cpu.Halt = Halt{Reason: reason, Pc: cpu.Pc, Code: code, Err: err}
	cpu.trace(Event{Kind: EVENT_HALT, Pc: cpu.Pc, Code: code, Halt: cpu.Halt})
}

// fault halts the CPU on a failed bus access.
func (cpu *Cpu) fault(code Code, err error) {
	reason := HALT_DEVICE
	if errors.Is(err, ErrAddress(0)) {
		reason = HALT_ADDRESS
	}

	cpu.halt(reason, code, err)
}

// Fetch fetches the instruction at the program counter.
// A program counter outside of RAM halts the CPU.
func (cpu *Cpu) Fetch() (code Code, ok bool) {
	code, err := cpu.Memory.Fetch(int(cpu.Pc))
	if err != nil {
		cpu.fault(0, err)
		return
	}

	cpu.trace(Event{Kind: EVENT_FETCH, Pc: cpu.Pc, Code: code})

	ok = true
	return
}

// Tick executes a single CPU instruction cycle, and returns true if the CPU
// is halted afterwards.
func (cpu *Cpu) Tick() (halted bool) {
	if cpu.Halted() {
		return true
	}

	code, ok := cpu.Fetch()
	if ok {
		cpu.Execute(code)
	}

	return cpu.Halted()
}

// Execute executes a single decoded instruction, and advances the
// program counter.
func (cpu *Cpu) Execute(code Code) {
	op, d, s, t, addr := code.Decode()

	reg := &cpu.Register
	mem := &cpu.Memory

	next_pc := cpu.Pc + 1

	var err error
	var value Word

	switch op {
	case OP_HALT:
		cpu.Ticks++
		cpu.halt(HALT_OPCODE, code, nil)
		return
	case OP_ADD, OP_SUB, OP_AND, OP_XOR, OP_SHL, OP_SHR:
		reg.Write(d, alu.Do(_alu_op[op], reg.Read(s), reg.Read(t)))
	case OP_LOADA:
		reg.Write(d, Word(addr))
	case OP_LOAD:
		value, err = mem.Read(int(addr))
		if err == nil {
			reg.Write(d, value)
		}
	case OP_STOR:
		err = mem.Write(int(addr), reg.Read(d))
	case OP_LOADI:
		value, err = mem.Read(int(reg.Read(t)))
		if err == nil {
			reg.Write(d, value)
		}
	case OP_STORI:
		err = mem.Write(int(reg.Read(t)), reg.Read(d))
	case OP_BZERO:
		if reg.Read(d) == 0 {
			next_pc = Word(addr)
		}
	case OP_BPOSI:
		if reg.Read(d) > 0 {
			next_pc = Word(addr)
		}
	case OP_JMPR:
		next_pc = reg.Read(t)
	case OP_JMPL:
		reg.Write(d, next_pc)
		next_pc = Word(addr)
	}

	if err != nil {
		cpu.fault(code, err)
		return
	}

	cpu.Pc = next_pc
	cpu.Ticks++
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	text = fmt.Sprintf("% 5s: 0x%02x %v\n", "pc", cpu.Pc, cpu.State)
	for n := range REGISTER_COUNT {
		text += fmt.Sprintf("% 5s: 0x%04x\n", fmt.Sprintf("r%d", n), cpu.Register.Read(n))
	}

	return
}
