// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"log"
	"os"

	"github.com/ezrec/toy/cpu"
	"github.com/ezrec/toy/emulator"
	"github.com/ezrec/toy/image"
	"github.com/ezrec/toy/io"
)

func main() {
	var compile string
	var save bool
	var image_out string
	var input string
	var output string
	var verbose bool
	var limit int

	flag.StringVar(&compile, "c", "", ".asm file to compile")
	flag.BoolVar(&save, "s", false, "Save compiled image, do not execute")
	flag.StringVar(&image_out, "o", "a.toy", "Image output for -s")
	flag.StringVar(&input, "i", "-", "I/O port input")
	flag.StringVar(&output, "O", "-", "I/O port output")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")
	flag.IntVar(&limit, "n", 0, "Instruction limit (0 for none)")

	flag.Parse()

	images := flag.Args()

	if len(compile) != 0 && len(images) != 0 {
		log.Fatalf("%v: Cannot combine -c with images: %v", os.Args[0], images)
	}
	if len(compile) == 0 && len(images) == 0 {
		log.Fatalf("%v: No program; use -c file.asm or list image files", os.Args[0])
	}
	if save && len(compile) == 0 {
		log.Fatalf("%v: -s requires -c", os.Args[0])
	}

	inf := os.Stdin
	if input != "-" {
		var err error
		inf, err = os.Open(input)
		if err != nil {
			log.Fatalf("%v: %v", input, err)
		}
		defer inf.Close()
	}

	ouf := os.Stdout
	if output != "-" {
		var err error
		ouf, err = os.Create(output)
		if err != nil {
			log.Fatalf("%v: %v", output, err)
		}
		defer ouf.Close()
	}

	emu := emulator.NewEmulator(io.NewConsole(inf, ouf))
	emu.Verbose = verbose
	emu.Reset()

	// Compile a new instruction stream.
	if len(compile) != 0 {
		asm := &cpu.Assembler{Verbose: verbose}
		for key, value := range emu.Defines() {
			asm.Predefine(key, value)
		}

		src, err := os.Open(compile)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
		prog, err := asm.Parse(src)
		src.Close()
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}

		if save {
			saveImage(image_out, prog.Words())
			return
		}

		err = emu.LoadProgram(prog)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
	} else {
		err := emu.Load(images...)
		if err != nil {
			log.Fatal(err)
		}
	}

	steps, err := emu.Run(limit)
	if verbose {
		log.Printf("%v: %d instructions", emu.Halt.Reason, steps)
	}
	if err != nil {
		log.Fatal(err)
	}
}

func saveImage(name string, words []cpu.Word) {
	ouf, err := os.Create(name)
	if err != nil {
		log.Fatalf("%v: %v", name, err)
	}

	err = image.Marshal(ouf, words)
	if err == nil {
		err = ouf.Close()
	} else {
		ouf.Close()
	}
	if err != nil {
		log.Fatalf("%v: %v", name, err)
	}
}
