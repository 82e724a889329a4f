package main

import (
	"bytes"
	"context"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes the root command with fresh flag state.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	verbose, useMock, storeDriver, storeDSN = false, false, "", ""
	demoDuration = 10 * time.Minute
	chatProfile, chatDuration = "", 0
	exportFormat, exportOutput = "md", ""

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)

	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

var sessionIDPattern = regexp.MustCompile(`\(ID: ([^)]+)\)`)

func TestDemo_Mock(t *testing.T) {
	out, err := run(t, "", "demo", "--mock", "--store", "memory", "--duration", "10m")
	require.NoError(t, err)

	for _, msg := range demoMessages {
		assert.Contains(t, out, msg)
	}
	assert.Equal(t, len(demoMessages), strings.Count(out, "Tokens Used:"))
	assert.Contains(t, out, "- Patient: ")
	assert.Contains(t, out, "Messages: 8")
	assert.Contains(t, out, "Duration: 10 minutes")
	assert.NotContains(t, out, "Error processing message")
}

func TestDemo_WithoutProviders(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	_, err := run(t, "", "demo", "--store", "memory")
	require.Error(t, err)
}

func TestChat_Mock(t *testing.T) {
	out, err := run(t, "I feel anxious\n\n/time\n/end\n", "chat", "--mock", "--store", "memory", "--duration", "5m")
	require.NoError(t, err)

	assert.Contains(t, out, "Started")
	assert.Contains(t, out, "Therapist:")
	assert.Contains(t, out, "Time Left:")
	assert.Contains(t, out, "Messages: 2")
}

func TestChat_EndsOnClosedInput(t *testing.T) {
	out, err := run(t, "hello\n", "chat", "--mock", "--store", "memory")
	require.NoError(t, err)
	assert.Contains(t, out, "- Patient: ")
	assert.Contains(t, out, "Messages: 2")
}

func TestExport_UnknownSession(t *testing.T) {
	_, err := run(t, "", "export", "missing", "--store", "memory")
	require.Error(t, err)
}

func TestExport_UnknownFormat(t *testing.T) {
	_, err := run(t, "", "export", "whatever", "--format", "pdf", "--store", "memory")
	require.Error(t, err)
}

func TestExport_StoredSession(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "sessions.db")

	out, err := run(t, "", "demo", "--mock", "--store", "sqlite", "--dsn", dsn)
	require.NoError(t, err)

	m := sessionIDPattern.FindStringSubmatch(out)
	require.Len(t, m, 2, "demo output should carry the session ID")
	id := m[1]

	out, err = run(t, "", "export", id, "--store", "sqlite", "--dsn", dsn, "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"session_id": "`+id+`"`)
	assert.Contains(t, out, demoMessages[0])

	file := filepath.Join(t.TempDir(), "out.md")
	out, err = run(t, "", "export", id, "--store", "sqlite", "--dsn", dsn, "-o", file)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported")
	assert.FileExists(t, file)
}

func TestCheck_Mock(t *testing.T) {
	out, err := run(t, "", "check", "--mock", "--store", "memory")
	require.NoError(t, err)
	assert.Contains(t, out, "LLM config valid")
	assert.Contains(t, out, "Session store reachable")
}
