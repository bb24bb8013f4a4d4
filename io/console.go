package io

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// Console is a Tape attached to the user's terminal. When the input is an
// interactive terminal, each read is preceded by a prompt.
type Console struct {
	Tape
	Prompt io.Writer // Destination of input prompts. Nil disables prompting.
}

var _ Device = (*Console)(nil)

// NewConsole creates a console reading from in and writing to out.
func NewConsole(in *os.File, out io.Writer) (con *Console) {
	con = &Console{
		Tape: Tape{Writer: out},
	}

	if in == nil {
		return
	}

	con.Reader = in
	if term.IsTerminal(int(in.Fd())) {
		con.Prompt = out
	}

	return
}

// Input prompts for, then reads, the next integer.
func (con *Console) Input() (value int, err error) {
	if con.Prompt != nil {
		fmt.Fprintf(con.Prompt, "%v ", f("Enter a value >"))
	}

	return con.Tape.Input()
}
