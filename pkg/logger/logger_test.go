package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() { SetOutput(os.Stdout) })
	return &buf
}

func lastRecord(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	var rec map[string]any
	require.NoError(t, json.Unmarshal(lines[len(lines)-1], &rec))
	return rec
}

func TestInfoContext_CopiesContextKeys(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	buf := captureOutput(t)

	ctx := context.WithValue(context.Background(), RequestIDKey, "req-1")
	ctx = context.WithValue(ctx, UserIDKey, "desk")
	ctx = context.WithValue(ctx, SessionIDKey, "sess-1")
	ctx = context.WithValue(ctx, ServiceKey, "desk")

	InfoContext(ctx, "Book issued", "book_name", "Dune")

	rec := lastRecord(t, buf)
	assert.Equal(t, "INFO", rec["level"])
	assert.Equal(t, "Book issued", rec["msg"])
	assert.Equal(t, "req-1", rec["request_id"])
	assert.Equal(t, "desk", rec["user_id"])
	assert.Equal(t, "sess-1", rec["session_id"])
	assert.Equal(t, "desk", rec["service"])
	assert.Equal(t, "Dune", rec["book_name"])
}

func TestInfoContext_EmptyContext(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	buf := captureOutput(t)

	InfoContext(context.Background(), "Login succeeded")

	rec := lastRecord(t, buf)
	assert.NotContains(t, rec, "request_id")
	assert.NotContains(t, rec, "session_id")
}

func TestSetOutput_DebugLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	buf := captureOutput(t)
	Debug("Book issue rejected")
	assert.Zero(t, buf.Len(), "debug is off by default")

	t.Setenv("LOG_LEVEL", "debug")
	buf = captureOutput(t)
	Debug("Book issue rejected")
	assert.Equal(t, "DEBUG", lastRecord(t, buf)["level"])
}
