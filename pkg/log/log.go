package log

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
)

type LogFormat string

var (
	Pretty LogFormat = "pretty"
	JSON   LogFormat = "json"
	Text   LogFormat = "text"
)

var (
	stderr = zerolog.New(os.Stderr).With().Timestamp().Logger()

	// Stdout is used for command output that should be machine readable when the format is json
	Stdout = zerolog.New(os.Stdout).With().Timestamp().Logger()

	globalFormat LogFormat = "pretty"

	Print  = stderr.Print
	Printf = stderr.Printf

	Fatal = stderr.Fatal
	Panic = stderr.Panic
	Error = stderr.Error
	Warn  = stderr.Warn
	Info  = stderr.Info
	Debug = stderr.Debug
	Trace = stderr.Trace
	Log   = stderr.Log

	Err       = stderr.Err
	WithLevel = stderr.WithLevel

	GetLevel = stderr.GetLevel
)

const (
	FatalLevel = zerolog.FatalLevel
	PanicLevel = zerolog.PanicLevel
	ErrorLevel = zerolog.ErrorLevel
	WarnLevel  = zerolog.WarnLevel
	InfoLevel  = zerolog.InfoLevel
	DebugLevel = zerolog.DebugLevel
	TraceLevel = zerolog.TraceLevel
)

// Component returns a child logger tagged with the component name, e.g. "curlopt" or "transport".
// The child shares the level and output of the global logger at the time it is created
func Component(name string) zerolog.Logger {
	return stderr.With().Str("component", name).Logger()
}

// Enabled reports whether events at the given level will be written
func Enabled(l zerolog.Level) bool {
	return l >= stderr.GetLevel() && l >= zerolog.GlobalLevel()
}

func SetLevelString(level string) error {
	l, err := zerolog.ParseLevel(level)
	if err != nil {
		return err
	}

	stderr = stderr.Level(l)
	Stdout = Stdout.Level(l)
	return nil
}

// SetOutput redirects the stderr logger. This is mostly useful in tests to capture log lines
func SetOutput(w io.Writer) {
	stderr = stderr.Output(w)
}

var (
	ErrUnsupportedFormat = fmt.Errorf("unsupported format. supported 'json', 'pretty', 'text")
)

func GetLogFormat() LogFormat {
	return globalFormat
}

func SetFormat(format string) error {
	switch format {
	case "json", "":
		globalFormat = JSON
	case "pretty":
		stderr = stderr.Output(zerolog.ConsoleWriter{Out: os.Stderr, NoColor: false, TimeFormat: "\r3:04PM"})
		Stdout = Stdout.Output(zerolog.ConsoleWriter{Out: os.Stdout, NoColor: false, TimeFormat: "\r3:04PM"})
		globalFormat = Pretty
	case "text":
		stderr = stderr.Output(zerolog.ConsoleWriter{Out: os.Stderr, NoColor: true, TimeFormat: "\r3:04PM"})
		Stdout = Stdout.Output(zerolog.ConsoleWriter{Out: os.Stdout, NoColor: true, TimeFormat: "\r3:04PM"})
		globalFormat = Text
	default:
		return ErrUnsupportedFormat
	}
	return nil
}
