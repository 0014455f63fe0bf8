package cpu

// Instruction executes a decoded opcode. It is responsible for moving PC.
type Instruction func(c *CPU, opcode uint16) error

// Decode returns the instruction for the given opcode word.
// The two exact-match opcodes are checked first, then the high nibble picks
// the family; 0x8 families are told apart by the low nibble and 0xE/0xF
// families by the low byte.
func Decode(opcode uint16) (Instruction, bool) {
	switch opcode {
	case 0x00E0:
		return opcode00E0, true
	case 0x00EE:
		return opcode00EE, true
	}

	var instruction Instruction
	switch opcode & 0xF000 {
	case 0x8000:
		instruction = opcodes8[opcode&0x000F]
	case 0xE000, 0xF000:
		instruction = opcodesEF[opcode&0xF0FF]
	default:
		instruction = opcodes[opcode>>12]
	}

	return instruction, instruction != nil
}

var opcodes = [16]Instruction{
	0x1: opcode1nnn,
	0x2: opcode2nnn,
	0x3: opcode3xkk,
	0x4: opcode4xkk,
	0x5: opcode5xy0,
	0x6: opcode6xkk,
	0x7: opcode7xkk,
	0x9: opcode9xy0,
	0xA: opcodeAnnn,
	0xB: opcodeBnnn,
	0xC: opcodeCxkk,
	0xD: opcodeDxyn,
}

var opcodes8 = [16]Instruction{
	0x0: opcode8xy0,
	0x1: opcode8xy1,
	0x2: opcode8xy2,
	0x3: opcode8xy3,
	0x4: opcode8xy4,
	0x5: opcode8xy5,
	0x6: opcode8xy6,
	0x7: opcode8xy7,
	0xE: opcode8xyE,
}

var opcodesEF = map[uint16]Instruction{
	0xE09E: opcodeEx9E,
	0xE0A1: opcodeExA1,
	0xF007: opcodeFx07,
	0xF00A: opcodeFx0A,
	0xF015: opcodeFx15,
	0xF018: opcodeFx18,
	0xF01E: opcodeFx1E,
	0xF029: opcodeFx29,
	0xF033: opcodeFx33,
	0xF055: opcodeFx55,
	0xF065: opcodeFx65,
}
