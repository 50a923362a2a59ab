package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_Level(t *testing.T) {
	t.Setenv("DEBUG", "")

	Init("warn")
	assert.Equal(t, logrus.WarnLevel, Log.GetLevel())

	Init("nonsense")
	assert.Equal(t, logrus.InfoLevel, Log.GetLevel())

	t.Setenv("DEBUG", "true")
	Init("error")
	assert.Equal(t, logrus.DebugLevel, Log.GetLevel())
}

func TestFromContext_RequestID(t *testing.T) {
	t.Setenv("DEBUG", "")
	Init("info")
	var buf bytes.Buffer
	Log.SetOutput(&buf)

	ctx := WithRequestID(context.Background(), "req-1")
	assert.Equal(t, "req-1", RequestID(ctx))
	FromContext(ctx).Info("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "hello", entry["message"])
	assert.Equal(t, "req-1", entry["request_id"])
	assert.Equal(t, "info", entry["level"])
	assert.Contains(t, entry, "timestamp")

	buf.Reset()
	FromContext(context.Background()).Info("anonymous")
	assert.NotContains(t, buf.String(), "request_id")
}
