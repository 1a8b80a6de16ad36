package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetLevel(t *testing.T) {
	var buf bytes.Buffer
	log := newLogger(&buf)
	t.Cleanup(func() { _ = SetLevel("info") })

	log.Debug("hidden")
	assert.NotContains(t, buf.String(), "hidden")

	require.NoError(t, SetLevel("DEBUG"))
	log.Debug("shown", "bucket", "b1")
	assert.Contains(t, buf.String(), "msg=shown bucket=b1")

	require.NoError(t, SetLevel("error"))
	log.Warn("suppressed")
	assert.NotContains(t, buf.String(), "suppressed")

	assert.Error(t, SetLevel("verbose"))
}
