package ram

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadWriteRoundTrip(t *testing.T) {
	r := New(0x100)
	r.Write(0x10, 0x42)
	assert.Equal(t, uint8(0x42), r.Read(0x10))
}

func TestNewIsZeroed(t *testing.T) {
	r := New(0x10)
	for i := uint16(0); i < 0x10; i++ {
		assert.Equal(t, uint8(0), r.Read(i))
	}
}

func TestSize(t *testing.T) {
	r := New(0x2000)
	assert.Equal(t, 0x2000, r.Size())
}
