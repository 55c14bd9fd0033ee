package logging

import (
	"io"

	"gopkg.in/natefinch/lumberjack.v2"
)

// NewFileAppender returns an appender writing console-formatted lines to a size-rotated log
// file. The returned closer releases the file.
func NewFileAppender(path string) (Appender, io.Closer) {
	file := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    16,
		MaxBackups: 2,
		Compress:   true,
	}
	return NewWriterAppender(file), file
}
