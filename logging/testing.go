package logging

import (
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
)

// testAppender routes console-formatted lines through tb.Log so they show up under the test
// that wrote them.
type testAppender struct {
	tb      testing.TB
	encoder zapcore.Encoder
}

// NewTestAppender returns an appender that logs to tb.
func NewTestAppender(tb testing.TB) Appender {
	cfg := encoderConfig()
	cfg.LineEnding = ""
	return &testAppender{tb: tb, encoder: zapcore.NewConsoleEncoder(cfg)}
}

func (app *testAppender) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	app.tb.Helper()
	buf, err := app.encoder.EncodeEntry(entry, fields)
	if err != nil {
		return err
	}
	defer buf.Free()
	app.tb.Log(strings.TrimRight(buf.String(), "\n"))
	return nil
}

func (app *testAppender) Sync() error {
	return nil
}
