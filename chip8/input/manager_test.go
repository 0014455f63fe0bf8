package input

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/go-chip8/chip8/input/action"
	"github.com/valerio/go-chip8/chip8/input/event"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestManager() (*Manager, *Keypad, *fakeClock) {
	keypad := NewKeypad()
	clock := &fakeClock{t: time.Unix(1000, 0)}
	m := NewManager(keypad)
	m.now = clock.now
	return m, keypad, clock
}

func TestManager_KeysGoToKeypad(t *testing.T) {
	m, keypad, _ := newTestManager()

	m.Trigger(action.KeyB, event.Press)
	assert.True(t, keypad.IsPressed(0xB))

	// rapid repeats are never debounced for keypad keys
	m.Trigger(action.KeyB, event.Release)
	m.Trigger(action.KeyB, event.Press)
	assert.True(t, keypad.IsPressed(0xB))

	m.Trigger(action.KeyB, event.Release)
	assert.False(t, keypad.IsPressed(0xB))
}

func TestManager_Debouncing(t *testing.T) {
	tests := []struct {
		name        string
		eventType   event.Type
		timeBetween time.Duration
		wantCalls   int
	}{
		{name: "rapid press is debounced", eventType: event.Press, timeBetween: 100 * time.Millisecond, wantCalls: 1},
		{name: "slow press is not debounced", eventType: event.Press, timeBetween: 400 * time.Millisecond, wantCalls: 2},
		{name: "rapid release is debounced", eventType: event.Release, timeBetween: 10 * time.Millisecond, wantCalls: 1},
		{name: "hold is never debounced", eventType: event.Hold, timeBetween: 10 * time.Millisecond, wantCalls: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _, clock := newTestManager()
			calls := 0
			m.On(action.EmulatorPauseToggle, tt.eventType, func() { calls++ })

			m.Trigger(action.EmulatorPauseToggle, tt.eventType)
			clock.advance(tt.timeBetween)
			m.Trigger(action.EmulatorPauseToggle, tt.eventType)

			assert.Equal(t, tt.wantCalls, calls)
		})
	}
}

func TestManager_ActionsAreIndependent(t *testing.T) {
	m, _, _ := newTestManager()
	var got []action.Action
	m.On(action.EmulatorSnapshot, event.Press, func() { got = append(got, action.EmulatorSnapshot) })
	m.On(action.EmulatorReset, event.Press, func() { got = append(got, action.EmulatorReset) })

	m.Trigger(action.EmulatorSnapshot, event.Press)
	m.Trigger(action.EmulatorReset, event.Press)
	m.Trigger(action.EmulatorSnapshot, event.Press)

	assert.Equal(t, []action.Action{action.EmulatorSnapshot, action.EmulatorReset}, got)
}

func TestDefaultKeyMap_KeypadIsBijection(t *testing.T) {
	hostKeys := []string{"1", "2", "3", "4", "q", "w", "e", "r", "a", "s", "d", "f", "z", "x", "c", "v"}
	want := []uint8{0x1, 0x2, 0x3, 0xC, 0x4, 0x5, 0x6, 0xD, 0x7, 0x8, 0x9, 0xE, 0xA, 0x0, 0xB, 0xF}

	seen := map[uint8]bool{}
	for i, hk := range hostKeys {
		act, ok := GetDefaultMapping(hk)
		require.True(t, ok, hk)
		key, isKey := act.Key()
		require.True(t, isKey, hk)
		assert.Equalf(t, want[i], key, "host key %q", hk)
		seen[key] = true
	}
	assert.Len(t, seen, KeyCount)
}

func TestAction_FromKey(t *testing.T) {
	for k := uint8(0); k < KeyCount; k++ {
		got, ok := action.FromKey(k).Key()
		assert.True(t, ok)
		assert.Equal(t, k, got)
	}
	assert.False(t, action.EmulatorQuit.IsKey())
}
