package log

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetFormat(t *testing.T) {
	defer SetFormat("json")

	assert.Equal(t, ErrUnsupportedFormat, SetFormat("yaml"))
	assert.NoError(t, SetFormat("text"))
	assert.Equal(t, Text, GetLogFormat())
	assert.NoError(t, SetFormat(""))
	assert.Equal(t, JSON, GetLogFormat())
}

func TestSetLevelString(t *testing.T) {
	defer SetLevelString("info")

	assert.Error(t, SetLevelString("loud"))
	assert.NoError(t, SetLevelString("error"))
	assert.True(t, Enabled(ErrorLevel))
	assert.False(t, Enabled(InfoLevel))
}

func TestComponent(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)

	l := Component("transport")
	l.Error().Msg("boom")
	assert.Contains(t, buf.String(), `"component":"transport"`)
	assert.Contains(t, buf.String(), `"message":"boom"`)
}
