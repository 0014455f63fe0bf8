package cpu

import (
	"github.com/valerio/go-chip8/chip8/memory"
)

//CLS
//#00E0:
func opcode00E0(c *CPU, _ uint16) error {
	c.bus.Display.Clear()
	c.next()
	return nil
}

//RET
//#00EE:
func opcode00EE(c *CPU, _ uint16) error {
	pc, err := c.regs.Pop()
	if err != nil {
		return err
	}
	// the stack holds the address of the call itself
	c.regs.pc = pc
	c.next()
	return nil
}

//JP addr
//#1nnn:
func opcode1nnn(c *CPU, opcode uint16) error {
	c.regs.pc = nnn(opcode)
	return nil
}

//CALL addr
//#2nnn:
func opcode2nnn(c *CPU, opcode uint16) error {
	if err := c.regs.Push(c.regs.pc); err != nil {
		return err
	}
	c.regs.pc = nnn(opcode)
	return nil
}

//SE Vx, byte
//#3xkk:
func opcode3xkk(c *CPU, opcode uint16) error {
	c.skipIf(c.regs.Get(x(opcode)) == kk(opcode))
	return nil
}

//SNE Vx, byte
//#4xkk:
func opcode4xkk(c *CPU, opcode uint16) error {
	c.skipIf(c.regs.Get(x(opcode)) != kk(opcode))
	return nil
}

//SE Vx, Vy
//#5xy0:
func opcode5xy0(c *CPU, opcode uint16) error {
	c.skipIf(c.regs.Get(x(opcode)) == c.regs.Get(y(opcode)))
	return nil
}

//LD Vx, byte
//#6xkk:
func opcode6xkk(c *CPU, opcode uint16) error {
	c.regs.Set(x(opcode), kk(opcode))
	c.next()
	return nil
}

//ADD Vx, byte
//#7xkk: VF is left untouched.
func opcode7xkk(c *CPU, opcode uint16) error {
	vx := x(opcode)
	c.regs.Set(vx, c.regs.Get(vx)+kk(opcode))
	c.next()
	return nil
}

//LD Vx, Vy
//#8xy0:
func opcode8xy0(c *CPU, opcode uint16) error {
	c.regs.Set(x(opcode), c.regs.Get(y(opcode)))
	c.next()
	return nil
}

//OR Vx, Vy
//#8xy1:
func opcode8xy1(c *CPU, opcode uint16) error {
	vx := x(opcode)
	c.regs.Set(vx, c.regs.Get(vx)|c.regs.Get(y(opcode)))
	c.next()
	return nil
}

//AND Vx, Vy
//#8xy2:
func opcode8xy2(c *CPU, opcode uint16) error {
	vx := x(opcode)
	c.regs.Set(vx, c.regs.Get(vx)&c.regs.Get(y(opcode)))
	c.next()
	return nil
}

//XOR Vx, Vy
//#8xy3:
func opcode8xy3(c *CPU, opcode uint16) error {
	vx := x(opcode)
	c.regs.Set(vx, c.regs.Get(vx)^c.regs.Get(y(opcode)))
	c.next()
	return nil
}

//ADD Vx, Vy
//#8xy4: VF = carry.
func opcode8xy4(c *CPU, opcode uint16) error {
	c.add(x(opcode), y(opcode))
	c.next()
	return nil
}

//SUB Vx, Vy
//#8xy5: VF = NOT borrow.
func opcode8xy5(c *CPU, opcode uint16) error {
	vx, vy := x(opcode), y(opcode)
	c.sub(vx, c.regs.Get(vx), c.regs.Get(vy))
	c.next()
	return nil
}

//SHR Vx
//#8xy6: VF = bit 0 before the shift, y is ignored.
func opcode8xy6(c *CPU, opcode uint16) error {
	c.shr(x(opcode))
	c.next()
	return nil
}

//SUBN Vx, Vy
//#8xy7: VF = NOT borrow.
func opcode8xy7(c *CPU, opcode uint16) error {
	vx, vy := x(opcode), y(opcode)
	c.sub(vx, c.regs.Get(vy), c.regs.Get(vx))
	c.next()
	return nil
}

//SHL Vx
//#8xyE: VF = bit 7 before the shift, y is ignored.
func opcode8xyE(c *CPU, opcode uint16) error {
	c.shl(x(opcode))
	c.next()
	return nil
}

//SNE Vx, Vy
//#9xy0:
func opcode9xy0(c *CPU, opcode uint16) error {
	c.skipIf(c.regs.Get(x(opcode)) != c.regs.Get(y(opcode)))
	return nil
}

//LD I, addr
//#Annn:
func opcodeAnnn(c *CPU, opcode uint16) error {
	c.regs.SetI(nnn(opcode))
	c.next()
	return nil
}

//JP V0, addr
//#Bnnn:
func opcodeBnnn(c *CPU, opcode uint16) error {
	c.regs.pc = nnn(opcode) + uint16(c.regs.Get(0))
	return nil
}

//RND Vx, byte
//#Cxkk:
func opcodeCxkk(c *CPU, opcode uint16) error {
	random := uint8(c.bus.Random.IntN(256))
	c.regs.Set(x(opcode), random&kk(opcode))
	c.next()
	return nil
}

//DRW Vx, Vy, nibble
//#Dxyn:
func opcodeDxyn(c *CPU, opcode uint16) error {
	if err := c.draw(x(opcode), y(opcode), n(opcode)); err != nil {
		return err
	}
	c.next()
	return nil
}

//SKP Vx
//#Ex9E:
func opcodeEx9E(c *CPU, opcode uint16) error {
	c.skipIf(c.bus.Keypad.IsPressed(c.regs.Get(x(opcode))))
	return nil
}

//SKNP Vx
//#ExA1:
func opcodeExA1(c *CPU, opcode uint16) error {
	c.skipIf(!c.bus.Keypad.IsPressed(c.regs.Get(x(opcode))))
	return nil
}

//LD Vx, DT
//#Fx07:
func opcodeFx07(c *CPU, opcode uint16) error {
	c.regs.Set(x(opcode), c.bus.Timers.Delay())
	c.next()
	return nil
}

//LD Vx, K
//#Fx0A: PC stays put until a key is down, so the opcode is re-run every step.
func opcodeFx0A(c *CPU, opcode uint16) error {
	key, ok := c.firstPressedKey()
	if !ok {
		c.waitingForKey = true
		return nil
	}

	c.waitingForKey = false
	c.regs.Set(x(opcode), key)
	c.next()
	return nil
}

//LD DT, Vx
//#Fx15:
func opcodeFx15(c *CPU, opcode uint16) error {
	c.bus.Timers.SetDelay(c.regs.Get(x(opcode)))
	c.next()
	return nil
}

//LD ST, Vx
//#Fx18:
func opcodeFx18(c *CPU, opcode uint16) error {
	c.bus.Timers.SetSound(c.regs.Get(x(opcode)))
	c.next()
	return nil
}

//ADD I, Vx
//#Fx1E: VF = 1 when the sum leaves the 12 bit range.
func opcodeFx1E(c *CPU, opcode uint16) error {
	sum := uint32(c.regs.i) + uint32(c.regs.Get(x(opcode)))
	c.regs.SetI(uint16(sum))
	c.regs.Set(FlagRegister, boolToByte(sum > uint32(IndexMask)))
	c.next()
	return nil
}

//LD F, Vx
//#Fx29:
func opcodeFx29(c *CPU, opcode uint16) error {
	c.regs.SetI(memory.GlyphAddress(c.regs.Get(x(opcode))))
	c.next()
	return nil
}

//LD B, Vx
//#Fx33:
func opcodeFx33(c *CPU, opcode uint16) error {
	if err := c.storeBCD(c.regs.Get(x(opcode))); err != nil {
		return err
	}
	c.next()
	return nil
}

//LD [I], Vx
//#Fx55:
func opcodeFx55(c *CPU, opcode uint16) error {
	if err := c.storeRegisters(x(opcode)); err != nil {
		return err
	}
	c.next()
	return nil
}

//LD Vx, [I]
//#Fx65:
func opcodeFx65(c *CPU, opcode uint16) error {
	if err := c.loadRegisters(x(opcode)); err != nil {
		return err
	}
	c.next()
	return nil
}
