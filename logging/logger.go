package logging

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const timestampFormat = "2006-01-02 15:04:05.000"

type Logger interface {
	Printf(message string, args ...interface{})
}

type nullLogger struct{}

func (n nullLogger) Printf(message string, args ...interface{}) {}

func NullLogger() Logger { return nullLogger{} }

type CapturedMessage struct {
	Time    time.Time
	Message string
}

type CapturedOutput []CapturedMessage

// CapturingLogger buffers messages so they can be shown later, for instance only if the
// scenario that produced them fails.
type CapturingLogger struct {
	output []CapturedMessage
	lock   sync.Mutex
}

func (l *CapturingLogger) Printf(message string, args ...interface{}) {
	l.lock.Lock()
	l.output = append(l.output, CapturedMessage{Time: time.Now(), Message: fmt.Sprintf(message, args...)})
	l.lock.Unlock()
}

func (l *CapturingLogger) Output() CapturedOutput {
	l.lock.Lock()
	ret := append([]CapturedMessage(nil), l.output...)
	l.lock.Unlock()
	return ret
}

func (output CapturedOutput) Dump(dest io.Writer, prefix string) {
	for _, m := range output {
		fmt.Fprintf(dest, "%s[%s] %s\n",
			prefix,
			m.Time.Format(timestampFormat),
			m.Message,
		)
	}
}

type zerologLogger struct {
	logger zerolog.Logger
}

// NewConsoleLogger returns a Logger that writes human-readable, timestamped debug lines
// to dest.
func NewConsoleLogger(dest io.Writer) Logger {
	writer := zerolog.ConsoleWriter{Out: dest, TimeFormat: timestampFormat, NoColor: true}
	return zerologLogger{logger: zerolog.New(writer).With().Timestamp().Logger()}
}

func (l zerologLogger) Printf(message string, args ...interface{}) {
	l.logger.Debug().Msgf(message, args...)
}

// PrefixedLogger returns a Logger that prepends prefix to every message.
func PrefixedLogger(logger Logger, prefix string) Logger {
	return prefixedLogger{logger: logger, prefix: prefix}
}

type prefixedLogger struct {
	logger Logger
	prefix string
}

func (l prefixedLogger) Printf(message string, args ...interface{}) {
	l.logger.Printf(l.prefix+message, args...)
}

// TeeLogger returns a Logger that sends every message to each of the given loggers.
func TeeLogger(loggers ...Logger) Logger {
	return teeLogger(loggers)
}

type teeLogger []Logger

func (l teeLogger) Printf(message string, args ...interface{}) {
	for _, target := range l {
		target.Printf(message, args...)
	}
}
