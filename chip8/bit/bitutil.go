package bit

// Combine joins two bytes into a big endian word, high byte first. Opcodes
// are stored this way in memory.
func Combine(high, low uint8) uint16 {
	return uint16(high)<<8 | uint16(low)
}

// CheckedAdd returns a+b and whether the sum carried out of 8 bits.
func CheckedAdd(a, b uint8) (result uint8, overflow bool) {
	sum := uint16(a) + uint16(b)
	return uint8(sum), sum > 0xFF
}

// CheckedSub returns a-b and whether it borrowed.
func CheckedSub(a, b uint8) (result uint8, borrow bool) {
	return a - b, b > a
}

// IsSet reports whether bit index of value is 1. Indices above 7 are never set.
func IsSet(index, value uint8) bool {
	return index < 8 && (value>>index)&1 == 1
}

// Low returns the least significant byte of a word.
func Low(value uint16) uint8 {
	return uint8(value)
}

// High returns the most significant byte of a word.
func High(value uint16) uint8 {
	return uint8(value >> 8)
}

// Nibble returns the 4 bit group at the given index, 0 being the least significant.
// Nibble(0xD125, 2) is 0x1, the x operand of a draw.
func Nibble(value uint16, index uint8) uint8 {
	return uint8(value>>(index*4)) & 0x0F
}
