package cpu

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisters_GetSet(t *testing.T) {
	r := NewRegisters()

	for x := uint8(0); x < RegisterCount; x++ {
		r.Set(x, x*3)
	}
	for x := uint8(0); x < RegisterCount; x++ {
		assert.Equal(t, x*3, r.Get(x))
	}
}

func TestRegisters_SetIMasks(t *testing.T) {
	tests := []struct {
		in, want uint16
	}{
		{0x0000, 0x0000},
		{0x0FFF, 0x0FFF},
		{0x1000, 0x0000},
		{0x10FE, 0x00FE},
		{0xFFFF, 0x0FFF},
	}

	for _, tt := range tests {
		r := NewRegisters()
		r.SetI(tt.in)
		assert.Equalf(t, tt.want, r.I(), "SetI(0x%04X)", tt.in)
	}
}

func TestRegisters_Stack(t *testing.T) {
	r := NewRegisters()

	for i := 0; i < StackDepth; i++ {
		require.NoError(t, r.Push(uint16(0x200+i*2)))
	}
	assert.Equal(t, uint8(StackDepth), r.SP())
	assert.Len(t, r.Stack(), StackDepth)

	err := r.Push(0x300)
	assert.True(t, errors.Is(err, ErrStackOverflow))
	assert.Equal(t, uint8(StackDepth), r.SP())

	for i := StackDepth - 1; i >= 0; i-- {
		pc, err := r.Pop()
		require.NoError(t, err)
		assert.Equal(t, uint16(0x200+i*2), pc)
	}

	_, err = r.Pop()
	assert.True(t, errors.Is(err, ErrStackUnderflow))
	assert.Equal(t, uint8(0), r.SP())
	assert.Empty(t, r.Stack())
}
