// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package alu implements the arithmetic-logic unit of the TOY machine.
//
// Addition and subtraction are built from half adder and full adder
// primitives chained bit by bit, rather than from the host's native
// arithmetic. The unit is stateless.
package alu

// WIDTH is the data resolution of the ALU, in bits.
const WIDTH = 16

// Op is an ALU operation.
type Op int

//go:generate go tool stringer -linecomment -type=Op
const (
	OP_ADD = Op(0) // add
	OP_SUB = Op(1) // sub
	OP_AND = Op(2) // and
	OP_XOR = Op(3) // xor
	OP_SHL = Op(4) // shl
	OP_SHR = Op(5) // shr
)

// HalfAdder adds two bits.
//
//	Function: sum   = lsb(a + b)
//	          carry = msb(a + b)
func HalfAdder(a, b uint8) (sum, carry uint8) {
	sum = (a ^ b) & 1
	carry = (a & b) & 1
	return
}

// FullAdder adds two bits and a carry in, from two half adders.
//
//	Function: sum  = lsb(a + b + cin)
//	          cout = msb(a + b + cin)
func FullAdder(a, b, cin uint8) (sum, cout uint8) {
	s1, c1 := HalfAdder(a, b)
	sum, c2 := HalfAdder(cin, s1)
	cout = c1 | c2
	return
}

// ripple runs a WIDTH bit ripple-carry chain from bit 0 upwards. When sub
// is 1 the second operand is inverted bit by bit and the chain starts with a
// carry in of 1. The final carry out is discarded.
func ripple(a, b uint16, sub uint8) (result uint16) {
	carry := sub
	for n := range WIDTH {
		bitA := uint8(a>>n) & 1
		bitB := (uint8(b>>n) & 1) ^ sub

		var bit uint8
		bit, carry = FullAdder(bitA, bitB, carry)
		result |= uint16(bit) << n
	}

	return
}

// Add returns a + b, modulo 2^16.
func Add(a, b uint16) uint16 {
	return ripple(a, b, 0)
}

// Sub returns a - b, modulo 2^16.
func Sub(a, b uint16) uint16 {
	return ripple(a, b, 1)
}

// And returns a & b.
func And(a, b uint16) uint16 {
	return a & b
}

// Xor returns a ^ b.
func Xor(a, b uint16) uint16 {
	return a ^ b
}

// Shiftl shifts a left by b modulo WIDTH positions. Bits shifted out are lost.
func Shiftl(a, b uint16) uint16 {
	return a << (b % WIDTH)
}

// Shiftr logically shifts a right by b modulo WIDTH positions.
func Shiftr(a, b uint16) uint16 {
	return a >> (b % WIDTH)
}

// Do performs the requested ALU action, and returns the output value.
func Do(op Op, a, b uint16) (output uint16) {
	switch op {
	case OP_ADD:
		output = Add(a, b)
	case OP_SUB:
		output = Sub(a, b)
	case OP_AND:
		output = And(a, b)
	case OP_XOR:
		output = Xor(a, b)
	case OP_SHL:
		output = Shiftl(a, b)
	case OP_SHR:
		output = Shiftr(a, b)
	default:
		panic("unknown alu op")
	}

	return
}
