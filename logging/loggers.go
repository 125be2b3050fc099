package logging

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"
)

// Level names accepted by Init.
const (
	PanicLevel = "panic"
	FatalLevel = "fatal"
	ErrorLevel = "error"
	WarnLevel  = "warn"
	InfoLevel  = "info"
	DebugLevel = "debug"
	TraceLevel = "trace"
)

// Levels passed to CPrint and VPrint.
const (
	PANIC uint32 = iota
	FATAL
	ERROR
	WARN
	INFO
	DEBUG
	TRACE
)

// LogFormat carries structured fields of one entry.
type LogFormat = map[string]interface{}

// Logger is a logrus logger with caller annotation.
type Logger struct {
	*logrus.Logger
	withCaller bool
}

func newLogger(level logrus.Level, withCaller bool) *Logger {
	l := &Logger{Logger: logrus.New(), withCaller: withCaller}
	l.Formatter = &logrus.TextFormatter{FullTimestamp: true}
	l.Level = level
	if withCaller {
		l.Hooks.Add(callerHook{})
	}
	return l
}

var (
	mu   sync.Mutex
	clog *Logger // console and file
	vlog *Logger // file only
)

func convertLevel(level string) logrus.Level {
	switch level {
	case PanicLevel:
		return logrus.PanicLevel
	case FatalLevel:
		return logrus.FatalLevel
	case ErrorLevel:
		return logrus.ErrorLevel
	case WarnLevel:
		return logrus.WarnLevel
	case DebugLevel:
		return logrus.DebugLevel
	case TraceLevel:
		return logrus.TraceLevel
	default:
		return logrus.InfoLevel
	}
}

// Init sets up both loggers. Entries go to a daily rotated file under path
// named filename; unless disableCPrint is set, CPrint also writes to stderr,
// keeping stdout free for command output.
// age is the retention of rotated files in years, 0 keeps them forever.
func Init(path, filename, level string, age uint32, disableCPrint bool) {
	lv := convertLevel(level)
	fileHook := NewFileRotateHooker(path, filename, age, nil)

	mu.Lock()
	defer mu.Unlock()

	vlog = newLogger(lv, true)
	vlog.Hooks.Add(fileHook)
	vlog.Out = ioutil.Discard

	if disableCPrint {
		clog = vlog
	} else {
		clog = newLogger(lv, true)
		clog.Hooks.Add(fileHook)
		clog.Out = os.Stderr
	}

	vlog.WithFields(logrus.Fields{
		"path":  path,
		"level": level,
	}).Info("Logger Configuration.")
}

func loggers() (*Logger, *Logger) {
	mu.Lock()
	ready := clog != nil && vlog != nil
	mu.Unlock()
	if !ready {
		Init(filepath.Join(os.TempDir(), "mdhash"), "mdhash", InfoLevel, 0, false)
	}
	mu.Lock()
	defer mu.Unlock()
	return clog, vlog
}

// CPrint logs to stderr and the log file.
func CPrint(level uint32, msg string, formats ...LogFormat) {
	c, _ := loggers()
	emit(c, level, msg, formats...)
}

// VPrint logs to the log file only.
func VPrint(level uint32, msg string, formats ...LogFormat) {
	_, v := loggers()
	emit(v, level, msg, formats...)
}

func emit(l *Logger, level uint32, msg string, formats ...LogFormat) {
	entry := l.WithFields(mergeLogFormats(formats...))
	switch level {
	case PANIC:
		entry.Panic(msg)
	case FATAL:
		entry.Fatal(msg)
	case WARN:
		entry.Warn(msg)
	case INFO:
		entry.Info(msg)
	case DEBUG:
		entry.Debug(msg)
	case TRACE:
		entry.Trace(msg)
	default:
		entry.Error(msg)
	}
}

// mergeLogFormats merges LogFormats.
// Same key would be covered by later-presented values.
func mergeLogFormats(formats ...LogFormat) logrus.Fields {
	fields := logrus.Fields{}
	for _, data := range formats {
		for k, v := range data {
			fields[k] = v
		}
	}
	return fields
}
