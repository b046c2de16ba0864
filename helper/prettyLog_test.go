package helper

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPrettyHandler(t *testing.T) {
	var buf bytes.Buffer
	opts := PrettyHandlerOptions{
		SlogOpts: slog.HandlerOptions{
			Level: slog.LevelDebug,
		},
	}

	handler := NewPrettyHandler(&buf, opts)

	require.NotNil(t, handler, "Expected NewPrettyHandler to return a non-nil handler")
	assert.NotNil(t, handler.Handler, "Expected handler to have a non-nil Handler field")
	assert.NotNil(t, handler.l, "Expected handler to have a non-nil logger field")
}

func TestPrettyHandlerHandle(t *testing.T) {
	ctx := context.Background()

	newHandler := func() (*PrettyHandler, *bytes.Buffer) {
		var buf bytes.Buffer
		opts := PrettyHandlerOptions{
			SlogOpts: slog.HandlerOptions{
				Level: slog.LevelDebug,
			},
		}
		return NewPrettyHandler(&buf, opts), &buf
	}

	t.Run("Writes level prefix, message and attributes", func(t *testing.T) {
		levels := map[slog.Level]string{
			slog.LevelDebug: "DEBUG:",
			slog.LevelInfo:  "INFO:",
			slog.LevelWarn:  "WARN:",
			slog.LevelError: "ERROR:",
		}

		for level, prefix := range levels {
			handler, buf := newHandler()

			record := slog.NewRecord(time.Now(), level, "handled message", 0)
			record.AddAttrs(slog.String("key", "value"), slog.Int("count", 42))

			err := handler.Handle(ctx, record)

			assert.NoError(t, err, "Expected Handle to not return an error")
			output := buf.String()
			assert.Contains(t, output, prefix, "Expected output to contain the level prefix")
			assert.Contains(t, output, "handled message", "Expected output to contain the message")
			assert.Contains(t, output, "key", "Expected output to contain attribute key")
			assert.Contains(t, output, "42", "Expected output to contain attribute value")
		}
	})

	t.Run("Writes empty JSON object without attributes", func(t *testing.T) {
		handler, buf := newHandler()

		record := slog.NewRecord(time.Now(), slog.LevelInfo, "simple message", 0)

		err := handler.Handle(ctx, record)

		assert.NoError(t, err, "Expected Handle to not return an error")
		assert.Contains(t, buf.String(), "{}", "Expected output to contain empty JSON object for attributes")
	})

	t.Run("Formats the timestamp in brackets", func(t *testing.T) {
		handler, buf := newHandler()

		record := slog.NewRecord(time.Now(), slog.LevelInfo, "time test", 0)

		err := handler.Handle(ctx, record)

		assert.NoError(t, err, "Expected Handle to not return an error")
		assert.Regexp(t, `\[\d{2}:\d{2}:\d{2}\.\d{3}\]`, buf.String(),
			"Expected output to contain properly formatted timestamp")
	})

	t.Run("Serializes nested attributes", func(t *testing.T) {
		handler, buf := newHandler()

		record := slog.NewRecord(time.Now(), slog.LevelInfo, "nested message", 0)
		record.AddAttrs(slog.Any("metadata", map[string]interface{}{
			"nested_key": "nested_value",
		}))

		err := handler.Handle(ctx, record)

		assert.NoError(t, err, "Expected Handle to not return an error")
		assert.Contains(t, buf.String(), "nested_value", "Expected output to contain nested attribute value")
	})
}
