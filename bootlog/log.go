// Package bootlog is the loader's console output sink.
//
// The original loader writes to two destinations: a main console the user
// sees and a debug console meant for development builds (the teacher's
// uartPuts/dprintf). We model both as io.Writers attached to a single
// logrus.Logger, so callers get logrus formatting and structured fields
// without hand-rolling a formatter. The pmm package logs its Dump output
// and fatal messages through it; it does not log individual memory-map
// mutations.
package bootlog

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Console is the loader's logging sink. The zero value is not usable;
// construct one with New.
type Console struct {
	*logrus.Logger
}

// Option configures a Console.
type Option func(*logrus.Logger)

// WithDebugWriter attaches an additional destination that receives every
// entry regardless of level — the "debug console" half of spec §7's
// "formatted message on main and debug consoles."
func WithDebugWriter(w io.Writer) Option {
	return func(l *logrus.Logger) {
		l.AddHook(&writerHook{writer: w, formatter: l.Formatter})
	}
}

// WithLevel sets the minimum level the main console reports.
func WithLevel(level logrus.Level) Option {
	return func(l *logrus.Logger) { l.SetLevel(level) }
}

// New builds a Console writing to the main console (os.Stderr by default)
// plus any additional debug writers.
func New(main io.Writer, opts ...Option) *Console {
	if main == nil {
		main = os.Stderr
	}
	l := logrus.New()
	l.SetOutput(main)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: false, DisableColors: true})
	l.SetLevel(logrus.InfoLevel)
	for _, opt := range opts {
		opt(l)
	}
	return &Console{Logger: l}
}

// writerHook forwards every log entry to an extra writer untouched by the
// main console's level filter, which is exactly what a debug UART needs.
type writerHook struct {
	writer    io.Writer
	formatter logrus.Formatter
}

func (h *writerHook) Levels() []logrus.Level { return logrus.AllLevels }

func (h *writerHook) Fire(e *logrus.Entry) error {
	line, err := h.formatter.Format(e)
	if err != nil {
		return err
	}
	_, err = h.writer.Write(line)
	return err
}
