package profile

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProgressTracker(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 4, 2)

	tracker.Increment(1)
	assert.Empty(t, buf.String(), "increments before Start are ignored")

	tracker.Start()
	tracker.Increment(1)
	assert.Empty(t, buf.String())

	tracker.Increment(1)
	assert.Contains(t, buf.String(), "Profiled: 2/4 (50.0%)")

	tracker.Increment(10)
	assert.Contains(t, buf.String(), "Profiled: 4/4 (100.0%)")
	assert.Greater(t, tracker.Elapsed(), time.Duration(0))

	tracker.Finish()
	assert.True(t, strings.HasSuffix(buf.String(), "\n"))
	assert.Zero(t, tracker.Elapsed())
}
