package debug

import (
	"fmt"
	"strings"
)

// Lines renders the debug data as short text lines for side panels.
func (d *CompleteDebugData) Lines() []string {
	if d == nil || d.CPU == nil {
		return []string{"no data"}
	}

	c := d.CPU
	lines := []string{
		fmt.Sprintf("State: %s", d.DebuggerState),
		fmt.Sprintf("PC:%03X  I:%03X  SP:%X", c.PC, c.I, c.SP),
		fmt.Sprintf("OP:%04X  DT:%02X  ST:%02X", c.Opcode, d.Timers.Delay, d.Timers.Sound),
	}

	for row := 0; row < 4; row++ {
		var sb strings.Builder
		for col := 0; col < 4; col++ {
			r := row*4 + col
			if col > 0 {
				sb.WriteByte(' ')
			}
			fmt.Fprintf(&sb, "V%X:%02X", r, c.V[r])
		}
		lines = append(lines, sb.String())
	}

	stack := make([]string, len(c.Stack))
	for i, addr := range c.Stack {
		stack[i] = fmt.Sprintf("%03X", addr)
	}
	lines = append(lines, "Stack: "+strings.Join(stack, " "))

	var keys strings.Builder
	for k, pressed := range d.Keys {
		if pressed {
			fmt.Fprintf(&keys, "%X", k)
		} else {
			keys.WriteByte('.')
		}
	}
	lines = append(lines, "Keys: "+keys.String())

	if c.WaitingForKey {
		lines = append(lines, "waiting for key")
	}
	if d.Memory != nil {
		lines = append(lines, fmt.Sprintf("%03X: % X", d.Memory.StartAddr, d.Memory.Bytes))
	}
	if d.Fault != "" {
		lines = append(lines, "Fault: "+d.Fault)
	}

	return lines
}
