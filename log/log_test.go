package log

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type id string

func (i id) ShortString() string { return string(i)[:3] }

func TestJSONEncoderWritesFields(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewWithLevel(zap.NewAtomicLevelAt(zapcore.InfoLevel), JSONEncoder, &buf)
	require.NoError(t, err)

	logger.Debug("dropped")
	logger.Info("enrolled", ZShortStringer("account", id("abcdef")))
	require.NoError(t, logger.Sync())

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "enrolled", entry["msg"])
	require.Equal(t, "abc", entry["account"])
}

func TestNewRejectsUnknownSettings(t *testing.T) {
	_, err := New("loud", ConsoleEncoder)
	require.Error(t, err)
	_, err = New("info", "xml")
	require.Error(t, err)
}
