// Package log builds the zap loggers used by keyward components.
package log

import (
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	// ConsoleEncoder writes human readable lines.
	ConsoleEncoder = "console"
	// JSONEncoder writes one json object per line.
	JSONEncoder = "json"
)

// where logs go by default.
var logWriter io.Writer = os.Stdout

// NewNop creates silent logger.
func NewNop() *zap.Logger {
	return zap.NewNop()
}

// New creates a logger with the given level ("debug", "info", ...) and encoder kind.
func New(level, encoder string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(strings.ToLower(level))
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", level, err)
	}
	return NewWithLevel(lvl, encoder, logWriter)
}

// NewWithLevel creates a logger with a fixed level writing to w.
func NewWithLevel(level zap.AtomicLevel, encoder string, w io.Writer) (*zap.Logger, error) {
	var enc zapcore.Encoder
	switch encoder {
	case ConsoleEncoder, "":
		enc = zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	case JSONEncoder:
		enc = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	default:
		return nil, fmt.Errorf("unknown log encoder %q", encoder)
	}
	core := zapcore.NewCore(enc, zapcore.AddSync(w), level)
	return zap.New(core), nil
}

// ShortString is implemented by identifiers that have a compact form for logs.
type ShortString interface {
	ShortString() string
}

// ZShortStringer logs the short form of an identifier.
func ZShortStringer(name string, val ShortString) zap.Field {
	return zap.Stringer(name, shortStringer{val})
}

type shortStringer struct {
	ShortString
}

func (s shortStringer) String() string {
	return s.ShortString.ShortString()
}
