package logger

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMain(m *testing.M) {
	code := m.Run()
	SetOutput(os.Stderr)
	SetVerbose(false)
	os.Exit(code)
}

func TestDebug_VerboseDisabled(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(false)

	Debug("should not appear")

	assert.Empty(t, buf.String())
}

func TestDebug_VerboseEnabled(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(true)
	defer SetVerbose(false)

	Debug("hello %s", "world")

	assert.Equal(t, "[DEBUG] hello world\n", buf.String())
}

func TestWarn_VerboseEnabled(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(true)
	defer SetVerbose(false)

	Warn("careful")

	assert.Equal(t, "[WARN] careful\n", buf.String())
}

func TestSection(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(true)
	defer SetVerbose(false)

	Section("Authorization")

	assert.Equal(t, "\n=== Authorization ===\n", buf.String())
}

func TestIsVerbose(t *testing.T) {
	SetVerbose(true)
	assert.True(t, IsVerbose())

	SetVerbose(false)
	assert.False(t, IsVerbose())
}
