package cpu

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name     string
		opcode   uint16
		expected Instruction
	}{
		{name: "CLS", opcode: 0x00E0, expected: opcode00E0},
		{name: "RET", opcode: 0x00EE, expected: opcode00EE},
		{name: "JP", opcode: 0x1ABC, expected: opcode1nnn},
		{name: "CALL", opcode: 0x2ABC, expected: opcode2nnn},
		{name: "SE byte", opcode: 0x3A12, expected: opcode3xkk},
		{name: "SNE byte", opcode: 0x4A12, expected: opcode4xkk},
		{name: "SE reg", opcode: 0x5AB0, expected: opcode5xy0},
		{name: "LD byte", opcode: 0x6A12, expected: opcode6xkk},
		{name: "ADD byte", opcode: 0x7A12, expected: opcode7xkk},
		{name: "LD reg", opcode: 0x8AB0, expected: opcode8xy0},
		{name: "OR", opcode: 0x8AB1, expected: opcode8xy1},
		{name: "AND", opcode: 0x8AB2, expected: opcode8xy2},
		{name: "XOR", opcode: 0x8AB3, expected: opcode8xy3},
		{name: "ADD reg", opcode: 0x8AB4, expected: opcode8xy4},
		{name: "SUB", opcode: 0x8AB5, expected: opcode8xy5},
		{name: "SHR", opcode: 0x8AB6, expected: opcode8xy6},
		{name: "SUBN", opcode: 0x8AB7, expected: opcode8xy7},
		{name: "SHL", opcode: 0x8ABE, expected: opcode8xyE},
		{name: "SNE reg", opcode: 0x9AB0, expected: opcode9xy0},
		{name: "LD I", opcode: 0xA123, expected: opcodeAnnn},
		{name: "JP V0", opcode: 0xB123, expected: opcodeBnnn},
		{name: "RND", opcode: 0xC1FF, expected: opcodeCxkk},
		{name: "DRW", opcode: 0xD125, expected: opcodeDxyn},
		{name: "SKP", opcode: 0xE19E, expected: opcodeEx9E},
		{name: "SKNP", opcode: 0xE1A1, expected: opcodeExA1},
		{name: "LD Vx, DT", opcode: 0xF107, expected: opcodeFx07},
		{name: "LD Vx, K", opcode: 0xF10A, expected: opcodeFx0A},
		{name: "LD DT, Vx", opcode: 0xF115, expected: opcodeFx15},
		{name: "LD ST, Vx", opcode: 0xF118, expected: opcodeFx18},
		{name: "ADD I", opcode: 0xF11E, expected: opcodeFx1E},
		{name: "LD F", opcode: 0xF129, expected: opcodeFx29},
		{name: "LD B", opcode: 0xF133, expected: opcodeFx33},
		{name: "LD [I]", opcode: 0xF155, expected: opcodeFx55},
		{name: "LD Vx, [I]", opcode: 0xF165, expected: opcodeFx65},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			instruction, ok := Decode(tt.opcode)

			assert.True(t, ok)
			assert.Equal(t,
				reflect.ValueOf(tt.expected).Pointer(),
				reflect.ValueOf(instruction).Pointer(),
				"wrong instruction for 0x%04X", tt.opcode)
		})
	}
}

func TestDecode_Unknown(t *testing.T) {
	for _, op := range []uint16{0x0000, 0x0FFF, 0x00E1, 0x8AB8, 0x8ABD, 0x8ABF, 0xE19F, 0xE1A2, 0xF100, 0xF156, 0xF1FF} {
		_, ok := Decode(op)
		assert.Falsef(t, ok, "0x%04X should not decode", op)
	}
}

func TestDecode_OperandFields(t *testing.T) {
	op := uint16(0xDAB7)

	assert.Equal(t, uint8(0xA), x(op))
	assert.Equal(t, uint8(0xB), y(op))
	assert.Equal(t, uint8(0x7), n(op))
	assert.Equal(t, uint8(0xB7), kk(op))
	assert.Equal(t, uint16(0xAB7), nnn(op))
}
