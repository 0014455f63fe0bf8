package cpu

import (
	"github.com/valerio/go-chip8/chip8/bit"
	"github.com/valerio/go-chip8/chip8/memory"
)

// x returns the register index in bits 8-11.
func x(opcode uint16) uint8 { return bit.Nibble(opcode, 2) }

// y returns the register index in bits 4-7.
func y(opcode uint16) uint8 { return bit.Nibble(opcode, 1) }

// n returns the low nibble.
func n(opcode uint16) uint8 { return bit.Nibble(opcode, 0) }

// kk returns the low byte.
func kk(opcode uint16) uint8 { return bit.Low(opcode) }

// nnn returns the low 12 bits, an address.
func nnn(opcode uint16) uint16 { return opcode & 0x0FFF }

// setWithFlag writes VF first and Vx second; when x is VF the result wins.
func (c *CPU) setWithFlag(x, result uint8, flag bool) {
	c.regs.Set(FlagRegister, boolToByte(flag))
	c.regs.Set(x, result)
}

func (c *CPU) add(x, y uint8) {
	result, carry := bit.CheckedAdd(c.regs.Get(x), c.regs.Get(y))
	c.setWithFlag(x, result, carry)
}

// sub computes a-b into Vx, VF is 1 when no borrow happened.
func (c *CPU) sub(x, a, b uint8) {
	result, borrow := bit.CheckedSub(a, b)
	c.setWithFlag(x, result, !borrow)
}

func (c *CPU) shr(x uint8) {
	value := c.regs.Get(x)
	c.setWithFlag(x, value>>1, bit.IsSet(0, value))
}

func (c *CPU) shl(x uint8) {
	value := c.regs.Get(x)
	c.setWithFlag(x, value<<1, bit.IsSet(7, value))
}

// draw XORs an n-row sprite read from I at (Vx, Vy). Coordinates wrap around
// the screen edges. VF ends up 1 if any lit pixel was turned off.
func (c *CPU) draw(x, y, height uint8) error {
	originX := int(c.regs.Get(x))
	originY := int(c.regs.Get(y))

	// read the whole sprite first, a bad I must not leave a partial draw
	rows := make([]byte, height)
	for i := range rows {
		b, err := c.bus.Memory.Read(c.regs.i + uint16(i))
		if err != nil {
			return err
		}
		rows[i] = b
	}

	collision := false
	for row, pixels := range rows {
		py := (originY + row) % ScreenHeight
		for col := 0; col < 8; col++ {
			if !bit.IsSet(uint8(7-col), pixels) {
				continue
			}

			px := (originX + col) % ScreenWidth
			if c.bus.Display.GetPixel(px, py) == 1 {
				collision = true
			}
			c.bus.Display.TogglePixel(px, py)
		}
	}

	c.regs.Set(FlagRegister, boolToByte(collision))
	return nil
}

// firstPressedKey returns the lowest numbered key currently held down.
func (c *CPU) firstPressedKey() (uint8, bool) {
	for key := uint8(0); key < KeyCount; key++ {
		if c.bus.Keypad.IsPressed(key) {
			return key, true
		}
	}
	return 0, false
}

// storeBCD writes the hundreds, tens and ones digits of value at I, I+1, I+2.
func (c *CPU) storeBCD(value uint8) error {
	if err := memory.CheckRange(c.regs.i, 3); err != nil {
		return err
	}

	digits := [3]uint8{value / 100, (value / 10) % 10, value % 10}
	for i, d := range digits {
		if err := c.bus.Memory.Write(c.regs.i+uint16(i), d); err != nil {
			return err
		}
	}
	return nil
}

// storeRegisters copies V0..Vx to memory starting at I.
func (c *CPU) storeRegisters(x uint8) error {
	count := int(x) + 1
	if err := memory.CheckRange(c.regs.i, count); err != nil {
		return err
	}

	for r := 0; r < count; r++ {
		if err := c.bus.Memory.Write(c.regs.i+uint16(r), c.regs.Get(uint8(r))); err != nil {
			return err
		}
	}
	return nil
}

// loadRegisters fills V0..Vx from memory starting at I.
func (c *CPU) loadRegisters(x uint8) error {
	count := int(x) + 1
	if err := memory.CheckRange(c.regs.i, count); err != nil {
		return err
	}

	var values [RegisterCount]uint8
	for r := 0; r < count; r++ {
		v, err := c.bus.Memory.Read(c.regs.i + uint16(r))
		if err != nil {
			return err
		}
		values[r] = v
	}
	for r := 0; r < count; r++ {
		c.regs.Set(uint8(r), values[r])
	}
	return nil
}

func boolToByte(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
