// Package cpu implements the processor and assembler for the TOY machine.
//
// The CPU consists of a program counter (PC), sixteen 16-bit registers
// (r0-r15, with r0 hard-wired to zero), the bit-serial ALU, and a memory bus
// of 255 words with a single memory mapped I/O port at address 0xff.
// Execution starts at address 0x10 and proceeds one instruction per Tick
// until a halt instruction or an address fault.
//
// The assembler provides an assembly language for the TOY instruction set,
// supporting macros, labels, equates, and compile-time expression evaluation.
package cpu
