package alu

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHalfAdder(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		a, b       uint8
		sum, carry uint8
	}){
		{0, 0, 0, 0},
		{0, 1, 1, 0},
		{1, 0, 1, 0},
		{1, 1, 0, 1},
	}

	for _, entry := range table {
		sum, carry := HalfAdder(entry.a, entry.b)
		assert.Equal(entry.sum, sum, "%v+%v", entry.a, entry.b)
		assert.Equal(entry.carry, carry, "%v+%v", entry.a, entry.b)
	}
}

func TestFullAdder(t *testing.T) {
	assert := assert.New(t)

	for a := range uint8(2) {
		for b := range uint8(2) {
			for cin := range uint8(2) {
				total := a + b + cin
				sum, cout := FullAdder(a, b, cin)
				assert.Equal(total&1, sum, "%v+%v+%v", a, b, cin)
				assert.Equal(total>>1, cout, "%v+%v+%v", a, b, cin)
			}
		}
	}
}

func TestAdd(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		a, b   uint16
		result uint16
	}){
		{0, 0, 0},
		{1, 1, 2},
		{0x00ff, 0x00ff, 0x01fe},
		{0xffff, 1, 0},
		{0x8000, 0x8000, 0},
		{0x7fff, 1, 0x8000},
		{0xaaaa, 0x5555, 0xffff},
	}

	for _, entry := range table {
		assert.Equal(entry.result, Add(entry.a, entry.b), "0x%04x+0x%04x", entry.a, entry.b)
	}
}

func TestSub(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		a, b   uint16
		result uint16
	}){
		{0, 0, 0},
		{2, 1, 1},
		{0, 1, 0xffff},
		{0x8000, 1, 0x7fff},
		{0x01fe, 0x00ff, 0x00ff},
		{5, 7, 0xfffe},
	}

	for _, entry := range table {
		assert.Equal(entry.result, Sub(entry.a, entry.b), "0x%04x-0x%04x", entry.a, entry.b)
	}
}

func TestAddSub_Random(t *testing.T) {
	assert := assert.New(t)

	rng := rand.New(rand.NewSource(0x70f))
	for range 4096 {
		a := uint16(rng.Uint32())
		b := uint16(rng.Uint32())
		assert.Equal(a+b, Add(a, b))
		assert.Equal(a-b, Sub(a, b))
		assert.Equal(a&b, And(a, b))
		assert.Equal(a^b, Xor(a, b))
	}
}

func TestShift(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name   string
		op     Op
		a, b   uint16
		result uint16
	}){
		{"shl_0", OP_SHL, 0x1234, 0, 0x1234},
		{"shl_1", OP_SHL, 0x1234, 1, 0x2468},
		{"shl_15", OP_SHL, 0x0003, 15, 0x8000},
		{"shl_16", OP_SHL, 0x1234, 16, 0x1234},
		{"shl_17", OP_SHL, 0x1234, 17, 0x2468},
		{"shl_out", OP_SHL, 0xff00, 8, 0x0000},
		{"shr_0", OP_SHR, 0x8000, 0, 0x8000},
		{"shr_1", OP_SHR, 0x8000, 1, 0x4000},
		{"shr_15", OP_SHR, 0x8000, 15, 0x0001},
		{"shr_32", OP_SHR, 0x8000, 32, 0x8000},
		{"shr_big", OP_SHR, 0xffff, 0xfff4, 0x0fff},
	}

	for _, entry := range table {
		assert.Equal(entry.result, Do(entry.op, entry.a, entry.b), entry.name)
	}
}

func TestDo(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(uint16(5), Do(OP_ADD, 2, 3))
	assert.Equal(uint16(0xffff), Do(OP_SUB, 2, 3))
	assert.Equal(uint16(0x0f), Do(OP_AND, 0xff, 0x0f))
	assert.Equal(uint16(0xf0), Do(OP_XOR, 0xff, 0x0f))
	assert.Panics(func() { Do(Op(42), 0, 0) })

	assert.Equal("shl", OP_SHL.String())
	assert.Equal("Op(9)", Op(9).String())
}

func FuzzAlu(f *testing.F) {
	f.Add(uint16(0), uint16(0))
	f.Add(uint16(0xffff), uint16(1))
	f.Add(uint16(0x8000), uint16(0x7fff))

	f.Fuzz(func(t *testing.T, a uint16, b uint16) {
		assert := assert.New(t)

		assert.Equal(uint16((uint32(a)+uint32(b))%65536), Add(a, b))
		assert.Equal(uint16((uint32(a)+65536-uint32(b))%65536), Sub(a, b))

		k := b % 16
		assert.Equal(uint16((uint32(a)<<k)%65536), Shiftl(a, b))
		assert.Equal(a>>k, Shiftr(a, b))
		if k == 0 {
			assert.Equal(a, Shiftl(a, b))
			assert.Equal(a, Shiftr(a, b))
		}
	})
}
