package io

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Tape provides line oriented I/O over byte streams.
// Each input line holds one integer, in any Go literal base. Blank lines
// are skipped. Each output is written as a single 'Output > N' line.
type Tape struct {
	Reader io.Reader
	Writer io.Writer

	scanner *bufio.Scanner
	source  io.Reader
}

var _ Device = (*Tape)(nil)

// Rewind drops any buffered input. The underlying stream is not seeked.
func (tc *Tape) Rewind() {
	tc.scanner = nil
	tc.source = nil
}

// Input reads the next integer from the input stream.
func (tc *Tape) Input() (value int, err error) {
	if tc.Reader == nil {
		err = ErrChannelDown
		return
	}

	if tc.scanner == nil || tc.source != tc.Reader {
		tc.scanner = bufio.NewScanner(tc.Reader)
		tc.source = tc.Reader
	}

	for tc.scanner.Scan() {
		text := strings.TrimSpace(tc.scanner.Text())
		if len(text) == 0 {
			continue
		}

		var v64 int64
		v64, err = strconv.ParseInt(text, 0, 64)
		if errors.Is(err, strconv.ErrRange) {
			// Saturated; the memory bus clamps to a word.
			err = nil
		}
		if err != nil {
			err = ErrParseInput(text)
			return
		}
		value = int(v64)
		return
	}

	err = tc.scanner.Err()
	if err == nil {
		err = io.EOF
	}

	return
}

// Output writes a value to the output stream.
func (tc *Tape) Output(value int) (err error) {
	if tc.Writer == nil {
		err = ErrChannelDown
		return
	}

	_, err = fmt.Fprintf(tc.Writer, "%v %d\n", f("Output >"), value)

	return
}
