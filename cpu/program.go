package cpu

import (
	"iter"
)

// Opcode represents a line of assembled code with its source location and
// generated instruction words.
type Opcode struct {
	LineNo    int
	Addr      int
	Words     []string
	Codes     []Code
	LinkLabel string
}

// Program is an assembled listing.
type Program struct {
	Opcodes []Opcode
}

type Debug struct {
	*Opcode
	Index int
}

// Debug finds the listing line that generated the word at addr.
func (prog *Program) Debug(addr Word) (dbg Debug) {
	for n, op := range prog.Opcodes {
		if int(addr) >= op.Addr && int(addr) < op.Addr+len(op.Codes) {
			dbg = Debug{
				Opcode: &prog.Opcodes[n],
				Index:  int(addr) - op.Addr,
			}
			break
		}
	}

	return
}

// Codes iterates over every generated word, with its address.
func (prog *Program) Codes() iter.Seq2[Word, Code] {
	return func(yield func(addr Word, code Code) bool) {
		for _, op := range prog.Opcodes {
			for n, code := range op.Codes {
				if !yield(Word(op.Addr+n), code) {
					return
				}
			}
		}
	}
}

// Words returns the memory image of the program, starting at START_ADDRESS.
// Gaps left by .org are zero filled.
func (prog *Program) Words() (words []Word) {
	for addr, code := range prog.Codes() {
		index := int(addr) - START_ADDRESS
		if index < 0 {
			continue
		}
		for len(words) <= index {
			words = append(words, 0)
		}
		words[index] = Word(code)
	}

	return
}
