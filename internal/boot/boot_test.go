package boot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRejectsWrongSize(t *testing.T) {
	_, err := Load(make([]byte, 100))
	require.Error(t, err)
}

func TestLoadAcceptsCanonicalSize(t *testing.T) {
	img := make([]byte, Size)
	img[0x00] = 0x31
	img[0xFF] = 0x50

	r, err := Load(img)
	require.NoError(t, err)
	assert.Equal(t, uint8(0x31), r.Read(0x00))
	assert.Equal(t, uint8(0x50), r.Read(0xFF))
}

func TestModelUnknownChecksum(t *testing.T) {
	img := make([]byte, Size)
	r, err := Load(img)
	require.NoError(t, err)
	assert.Equal(t, "unknown", r.Model())
}
