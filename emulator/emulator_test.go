package emulator

import (
	"bytes"
	"errors"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/toy/cpu"
	"github.com/ezrec/toy/image"
	"github.com/ezrec/toy/internal"
	"github.com/ezrec/toy/io"
)

func doAssemble(emu *Emulator, program []string, t *testing.T) {
	asm := &cpu.Assembler{}
	for key, value := range emu.Defines() {
		asm.Predefine(key, value)
	}

	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	if err != nil {
		t.Fatal(err)
	}

	emu.Reset()
	err = emu.LoadProgram(prog)
	if err != nil {
		t.Fatal(err)
	}
}

func doRun(emu *Emulator, program []string, t *testing.T) (err error) {
	doAssemble(emu, program, t)

	_, err = emu.Run(1000)
	if errors.Is(err, ErrStepLimit) {
		t.Fatalf("program did not halt:\n%v", emu.Cpu)
	}

	return
}

func TestEmulator(t *testing.T) {
	assert := assert.New(t)

	dev := &io.Temporary{}
	emu := NewEmulator(dev)

	assert.False(emu.Verbose)
	assert.NotNil(emu.Cpu)
	assert.NotNil(emu.Program)
	assert.Equal(cpu.Word(cpu.START_ADDRESS), emu.Pc)
	assert.Equal(io.Device(dev), emu.Cpu.Memory.Device)
}

func TestEmulatorDefines(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(nil)
	defines := internal.IterSeq2Collect(emu.Defines())

	assert.Equal("16", defines["WORD_BITS"])
	assert.Equal("0x10", defines["START_ADDRESS"])
	assert.Equal("0xff", defines["IO_ADDRESS"])
	assert.Equal("255", defines["MEMORY_SIZE"])
	assert.Equal("16", defines["REGISTER_COUNT"])
}

func TestEmulatorSum(t *testing.T) {
	assert := assert.New(t)

	dev := &io.Temporary{Inputs: []int{3, 4, -2, 0}}
	emu := NewEmulator(dev)

	program := []string{
		"LOOP:  in r1          ; read a value",
		"       bzero r1 DONE",
		"       add r2 r2 r1",
		"       jump LOOP",
		"DONE:  out r2",
		"       halt",
	}

	err := doRun(emu, program, t)
	assert.NoError(err)
	assert.Equal([]int{5}, dev.Outputs)
	assert.Equal(cpu.HALT_OPCODE, emu.Halt.Reason)
	assert.Equal(cpu.Word(0x15), emu.Pc)
}

func TestEmulatorDefinesInProgram(t *testing.T) {
	assert := assert.New(t)

	dev := &io.Temporary{}
	emu := NewEmulator(dev)

	program := []string{
		"loada r1 $(WORD_BITS)",
		"out r1",
		"loada r1 $(START_ADDRESS + 1)",
		"out r1",
		"halt",
	}

	err := doRun(emu, program, t)
	assert.NoError(err)
	assert.Equal([]int{16, 0x11}, dev.Outputs)
}

func TestEmulatorTape(t *testing.T) {
	assert := assert.New(t)

	output := &bytes.Buffer{}
	dev := &io.Tape{
		Reader: strings.NewReader("7\n\n-9\n"),
		Writer: output,
	}
	emu := NewEmulator(dev)

	program := []string{
		"in r1",
		"in r2",
		"sub r3 r1 r2",
		"out r3",
		"halt",
	}

	err := doRun(emu, program, t)
	assert.NoError(err)
	assert.Equal("Output > 16\n", output.String())
}

func TestEmulatorAddressFault(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(&io.Temporary{})

	program := []string{
		"loada r1 0xff",
		"loada r2 1",
		"add r1 r1 r2",
		"loadi r3 r1",
		"halt",
	}

	err := doRun(emu, program, t)

	var runtime *ErrRuntime
	assert.True(errors.As(err, &runtime))
	assert.Equal(cpu.HALT_ADDRESS, runtime.Reason)
	assert.Equal(cpu.Word(0x13), runtime.Pc)
	assert.Equal(4, runtime.LineNo)
	assert.Equal(cpu.MakeCodeRT(cpu.OP_LOADI, 3, 1), runtime.Code)
	assert.ErrorIs(err, cpu.ErrAddress(0x100))
	assert.Contains(err.Error(), "line 4")

	// The machine stays halted.
	done, err := emu.Tick()
	assert.True(done)
	assert.ErrorIs(err, cpu.ErrAddress(0x100))
}

func TestEmulatorDeviceFault(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(&io.Temporary{Inputs: []int{1}})

	program := []string{
		"in r1",
		"in r2",
		"halt",
	}

	err := doRun(emu, program, t)

	var runtime *ErrRuntime
	assert.True(errors.As(err, &runtime))
	assert.Equal(cpu.HALT_DEVICE, runtime.Reason)
	assert.Equal(2, runtime.LineNo)
	assert.ErrorIs(err, io.ErrChannelEmpty)
	assert.Equal(cpu.Word(1), emu.Register.Read(1))
}

func TestEmulatorHaltTick(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(nil)
	doAssemble(emu, []string{"nop", "halt"}, t)

	done, err := emu.Tick()
	assert.False(done)
	assert.NoError(err)

	done, err = emu.Tick()
	assert.True(done)
	assert.NoError(err)
	assert.Equal(2, emu.Ticks)

	done, err = emu.Tick()
	assert.True(done)
	assert.NoError(err)
	assert.Equal(2, emu.Ticks)
}

func TestEmulatorRun(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(nil)
	doAssemble(emu, []string{"LOOP: jump LOOP"}, t)

	steps, err := emu.Run(10)
	assert.ErrorIs(err, ErrStepLimit)
	assert.Equal(10, steps)
	assert.False(emu.Halted())

	doAssemble(emu, []string{"nop", "nop", "halt"}, t)
	steps, err = emu.Run(0)
	assert.NoError(err)
	assert.Equal(3, steps)
	assert.True(emu.Halted())

	// Halting on the last permitted step is not a limit error.
	doAssemble(emu, []string{"nop", "nop", "halt"}, t)
	steps, err = emu.Run(3)
	assert.NoError(err)
	assert.Equal(3, steps)
}

func TestEmulatorReset(t *testing.T) {
	assert := assert.New(t)

	dev := &io.Temporary{Inputs: []int{42}}
	emu := NewEmulator(dev)

	err := doRun(emu, []string{"in r1", "out r1", "halt"}, t)
	assert.NoError(err)
	assert.Equal([]int{42}, dev.Outputs)

	emu.Reset()
	assert.False(emu.Halted())
	assert.Equal(cpu.Word(cpu.START_ADDRESS), emu.Pc)
	assert.Equal(cpu.Word(0), emu.Register.Read(1))
	assert.Equal(cpu.Word(0), emu.Memory.Image[cpu.START_ADDRESS])
	assert.Equal(0, emu.Ticks)
	assert.Equal(0, dev.ReadIndex)
	assert.Empty(dev.Outputs)
	assert.Equal(0, emu.LineNo())
}

func TestEmulatorLoad(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	write := func(name string, words ...cpu.Word) (path string) {
		buff := &bytes.Buffer{}
		assert.NoError(image.Marshal(buff, words))
		path = filepath.Join(dir, name)
		assert.NoError(os.WriteFile(path, buff.Bytes(), 0o644))
		return
	}

	first := write("first.toy",
		cpu.Word(cpu.MakeCodeRA(cpu.OP_LOADA, 1, 0x05)),
		cpu.Word(cpu.MakeCodeRA(cpu.OP_STOR, 1, cpu.IO_ADDRESS)),
	)
	second := write("second.toy",
		cpu.Word(cpu.MakeCodeHalt()),
	)

	dev := &io.Temporary{}
	emu := NewEmulator(dev)
	emu.Reset()
	assert.NoError(emu.Load(first, second))

	_, err := emu.Run(100)
	assert.NoError(err)
	assert.Equal([]int{5}, dev.Outputs)
	assert.Equal(cpu.Word(0x12), emu.Pc)
	assert.Equal(0, emu.LineNo())
}

func TestEmulatorLoadWords(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(nil)

	err := emu.LoadWords(make([]cpu.Word, cpu.MEMORY_SIZE-cpu.START_ADDRESS))
	assert.NoError(err)

	err = emu.LoadWords(make([]cpu.Word, cpu.MEMORY_SIZE-cpu.START_ADDRESS+1))
	assert.ErrorIs(err, image.ErrImageTooLarge)
}

func TestEmulatorVerbose(t *testing.T) {
	assert := assert.New(t)

	buff := &bytes.Buffer{}
	log.SetOutput(buff)
	defer log.SetOutput(os.Stderr)

	dev := &io.Temporary{}
	emu := NewEmulator(dev)
	emu.Verbose = true

	err := doRun(emu, []string{"loada r1 0x05", "out r1", "halt"}, t)
	assert.NoError(err)

	text := buff.String()
	assert.Contains(text, "loada r1 0x05")
	assert.Contains(text, "output 0005 (5)")
	assert.Contains(text, "halt")

	buff.Reset()
	emu.Verbose = false
	err = doRun(emu, []string{"halt"}, t)
	assert.NoError(err)
	assert.Empty(buff.String())
}

func TestEmulatorTapeClamp(t *testing.T) {
	table := [](struct {
		name  string
		input string
		value cpu.Word
	}){
		{"in_range", "40000", 0x7fff},
		{"huge", "99999999999999999999", 0x7fff},
		{"huge_negative", "-99999999999999999999", 0x8000},
		{"negative", "-40000", 0x8000},
	}

	for _, entry := range table {
		assert := assert.New(t)

		dev := &io.Tape{Reader: strings.NewReader(entry.input + "\n")}
		emu := NewEmulator(dev)

		err := doRun(emu, []string{"load r1 0xff", "halt"}, t)
		assert.NoError(err, entry.name)
		assert.Equal(cpu.HALT_OPCODE, emu.Halt.Reason, entry.name)
		assert.Equal(entry.value, emu.Register.Read(1), entry.name)
	}
}

func TestEmulatorSwapDevice(t *testing.T) {
	assert := assert.New(t)

	first := &io.Temporary{Inputs: []int{1}}
	emu := NewEmulator(first)

	second := &io.Temporary{Inputs: []int{7}, ReadIndex: 1, Outputs: []int{3}}
	emu.Memory.Device = second

	err := doRun(emu, []string{"in r1", "out r1", "halt"}, t)
	assert.NoError(err)
	assert.Equal(cpu.Word(7), emu.Register.Read(1))
	assert.Equal([]int{7}, second.Outputs)
	assert.Equal(0, first.ReadIndex)
	assert.Empty(first.Outputs)
}
