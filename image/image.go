// Package image reads and writes TOY program images.
//
// An image is a sequence of big-endian 16-bit words. Images are loaded into
// RAM starting at cpu.START_ADDRESS, each file following the previous one.
package image

import (
	"encoding/binary"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/ezrec/toy/cpu"
	"github.com/ezrec/toy/translate"
)

var f = translate.From

var (
	ErrImageTooLarge = errors.New(f("image too large"))
)

const WORD_BYTES = 2

// Unmarshal reads an image. A trailing odd byte is ignored.
func Unmarshal(r io.Reader) (words []cpu.Word, err error) {
	data, err := io.ReadAll(r)
	if err != nil {
		err = errors.Wrap(err, f("read image"))
		return
	}

	words = make([]cpu.Word, len(data)/WORD_BYTES)
	for n := range words {
		words[n] = binary.BigEndian.Uint16(data[n*WORD_BYTES:])
	}

	return
}

// Marshal writes words as an image.
func Marshal(w io.Writer, words []cpu.Word) (err error) {
	data := make([]byte, len(words)*WORD_BYTES)
	for n, word := range words {
		binary.BigEndian.PutUint16(data[n*WORD_BYTES:], word)
	}

	_, err = w.Write(data)
	if err != nil {
		err = errors.Wrap(err, f("write image"))
	}

	return
}

// Place copies words into RAM at addr, and returns the address following
// the last word.
func Place(mem *cpu.Memory, addr int, words []cpu.Word) (next int, err error) {
	next = addr + len(words)
	if addr < 0 || next > cpu.MEMORY_SIZE {
		err = errors.Wrap(ErrImageTooLarge, f("%d words at 0x%02x", len(words), addr))
		next = addr
		return
	}

	copy(mem.Image[addr:], words)

	return
}

// LoadReader reads an image from r, and places it at addr.
func LoadReader(mem *cpu.Memory, addr int, r io.Reader) (next int, err error) {
	words, err := Unmarshal(r)
	if err != nil {
		next = addr
		return
	}

	return Place(mem, addr, words)
}

// Load places each named image file in RAM, in order, starting at
// cpu.START_ADDRESS. It returns the address following the last word loaded.
func Load(mem *cpu.Memory, names ...string) (next int, err error) {
	next = cpu.START_ADDRESS
	for _, name := range names {
		next, err = loadFile(mem, next, name)
		if err != nil {
			err = errors.Wrapf(err, "%v", name)
			return
		}
	}

	return
}

func loadFile(mem *cpu.Memory, addr int, name string) (next int, err error) {
	next = addr

	inf, err := os.Open(name)
	if err != nil {
		return
	}
	defer inf.Close()

	return LoadReader(mem, addr, inf)
}
