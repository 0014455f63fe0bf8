package memory

import (
	"github.com/pkg/errors"
)

const (
	// Size is the total addressable memory, 0x000-0xFFF.
	Size = 0x1000
	// FontStart is where the built-in font glyphs are stored.
	FontStart uint16 = 0x000
	// ProgramStart is where program images are loaded and where PC starts.
	ProgramStart uint16 = 0x200
	// MaxImageSize is the largest program image that fits above ProgramStart.
	MaxImageSize = Size - int(ProgramStart)
)

var (
	// ErrImageTooLarge is returned when a program image does not fit in memory.
	ErrImageTooLarge = errors.New("program image too large")
	// ErrAddressOutOfRange is returned on accesses outside 0x000-0xFFF.
	ErrAddressOutOfRange = errors.New("address out of range")
)

// Memory is the 4 KiB address space of the machine. The font set always
// occupies the start of memory, programs are loaded at ProgramStart.
type Memory struct {
	data [Size]byte
}

// New creates a zeroed memory with the font set loaded.
func New() *Memory {
	m := &Memory{}
	m.Reset()
	return m
}

// Reset clears all of memory and reloads the font set.
func (m *Memory) Reset() {
	m.data = [Size]byte{}
	copy(m.data[FontStart:], fontSet[:])
}

// Load copies a program image at ProgramStart. The size is validated before
// any byte is written, a failed load leaves memory untouched.
func (m *Memory) Load(image []byte) error {
	if len(image) > MaxImageSize {
		return errors.Wrapf(ErrImageTooLarge, "%d bytes, limit is %d", len(image), MaxImageSize)
	}

	copy(m.data[ProgramStart:], image)
	return nil
}

// Read returns the byte at the given address.
func (m *Memory) Read(address uint16) (byte, error) {
	if !InRange(address) {
		return 0, errors.Wrapf(ErrAddressOutOfRange, "read at 0x%04X", address)
	}

	return m.data[address], nil
}

// Write sets the byte at the given address.
func (m *Memory) Write(address uint16, value byte) error {
	if !InRange(address) {
		return errors.Wrapf(ErrAddressOutOfRange, "write at 0x%04X", address)
	}

	m.data[address] = value
	return nil
}

// ReadRange returns a copy of count bytes starting at address. Either the whole
// range is valid or nothing is returned.
func (m *Memory) ReadRange(address uint16, count int) ([]byte, error) {
	if count == 0 {
		return nil, nil
	}
	if err := CheckRange(address, count); err != nil {
		return nil, err
	}

	out := make([]byte, count)
	copy(out, m.data[address:int(address)+count])
	return out, nil
}

// Snapshot returns a copy of the whole address space.
func (m *Memory) Snapshot() []byte {
	out := make([]byte, Size)
	copy(out, m.data[:])
	return out
}

// InRange reports whether address is a valid memory address.
func InRange(address uint16) bool {
	return address < Size
}

// CheckRange validates that all of [address, address+count) is addressable.
func CheckRange(address uint16, count int) error {
	if count <= 0 {
		return nil
	}

	last := int(address) + count - 1
	if !InRange(address) || last >= Size {
		return errors.Wrapf(ErrAddressOutOfRange, "range 0x%04X-0x%04X", address, last)
	}

	return nil
}
