package debug

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLog_Disabled(t *testing.T) {
	Disable()
	assert.False(t, Enabled())

	var buf bytes.Buffer
	logger.SetOutput(&buf)
	defer Disable()

	Log("tempo", "step %d", 3)
	assert.Empty(t, buf.String())
}

func TestLog_EnableTo(t *testing.T) {
	var buf bytes.Buffer
	EnableTo(&buf)
	defer Disable()

	assert.True(t, Enabled())
	Log("tempo", "step %d", 3)
	assert.Contains(t, buf.String(), "category=tempo")
	assert.Contains(t, buf.String(), "step 3")
}

func TestLogEvery(t *testing.T) {
	var buf bytes.Buffer
	EnableTo(&buf)
	defer Disable()

	for i := 0; i < 5; i++ {
		LogEvery(3, "bus", "dispatch")
	}
	assert.Equal(t, 1, bytes.Count(buf.Bytes(), []byte("dispatch")))
	assert.Contains(t, buf.String(), "count=3")
}
