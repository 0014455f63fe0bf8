package debug

// CPUState contains all CPU register information for debugging
type CPUState struct {
	V  [16]uint8
	I  uint16
	PC uint16
	SP uint8

	Stack         []uint16
	Opcode        uint16
	WaitingForKey bool
	Cycles        uint64
}

// TimerState holds the two countdown timers.
type TimerState struct {
	Delay uint8
	Sound uint8
}

// MemorySnapshot contains a snapshot of memory around an address
type MemorySnapshot struct {
	StartAddr uint16
	Bytes     []uint8
}

// DebuggerState represents the current debugger state
type DebuggerState int

const (
	DebuggerRunning DebuggerState = iota
	DebuggerPaused
	DebuggerStepInstruction
	DebuggerStepFrame
	DebuggerFaulted
)

func (s DebuggerState) String() string {
	switch s {
	case DebuggerRunning:
		return "running"
	case DebuggerPaused:
		return "paused"
	case DebuggerStepInstruction:
		return "step instruction"
	case DebuggerStepFrame:
		return "step frame"
	case DebuggerFaulted:
		return "faulted"
	default:
		return "unknown"
	}
}

// CompleteDebugData contains all debug information needed by debug displays
type CompleteDebugData struct {
	CPU           *CPUState
	Timers        TimerState
	Keys          [16]bool
	Memory        *MemorySnapshot
	DebuggerState DebuggerState
	Frames        uint64
	Fault         string
}
