package interrupts

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadIFUpperBitsAlwaysSet(t *testing.T) {
	c := New()
	c.WriteIF(0x01)
	assert.Equal(t, uint8(0xE1), c.ReadIF())
}

func TestWriteIFMasksUnusedBits(t *testing.T) {
	c := New()
	c.WriteIF(0xFF)
	assert.Equal(t, uint8(0x1F), c.Flag)
}

func TestRequestSetsBit(t *testing.T) {
	c := New()
	c.Request(TimerFlag)
	assert.Equal(t, TimerFlag, c.Flag)
}

func TestHasPendingRequiresBothFlagAndEnable(t *testing.T) {
	c := New()
	c.Request(VBlankFlag)
	assert.False(t, c.HasPending(), "requested but not enabled")

	c.WriteIE(VBlankFlag)
	assert.True(t, c.HasPending())
}

func TestVectorPriorityOrder(t *testing.T) {
	c := New()
	c.WriteIE(0x1F)
	c.Request(TimerFlag)
	c.Request(VBlankFlag)

	vector, ok := c.Vector()
	assert.True(t, ok)
	assert.Equal(t, uint16(0x0040), vector, "VBlank outranks Timer")
	assert.Equal(t, TimerFlag, c.Flag, "the serviced VBlank bit is cleared, Timer remains pending")
}

func TestVectorNoneLeavesIFUntouched(t *testing.T) {
	c := New()
	c.Request(TimerFlag) // requested but not enabled: nothing to service
	vector, ok := c.Vector()
	assert.False(t, ok)
	assert.Equal(t, uint16(0), vector)
	assert.Equal(t, TimerFlag, c.Flag)
}

func TestVectorAddresses(t *testing.T) {
	cases := []struct {
		flag   uint8
		vector uint16
	}{
		{VBlankFlag, 0x0040},
		{LCDFlag, 0x0048},
		{TimerFlag, 0x0050},
		{SerialFlag, 0x0058},
		{JoypadFlag, 0x0060},
	}
	for _, tc := range cases {
		c := New()
		c.WriteIE(tc.flag)
		c.Request(tc.flag)
		vector, ok := c.Vector()
		assert.True(t, ok)
		assert.Equal(t, tc.vector, vector)
	}
}
