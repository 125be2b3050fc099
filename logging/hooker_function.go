package logging

import (
	"path/filepath"
	"runtime"
	"strings"

	"github.com/sirupsen/logrus"
)

// callerHook annotates entries with the first frame outside logrus and
// this package.
type callerHook struct{}

func (callerHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (callerHook) Fire(entry *logrus.Entry) error {
	pcs := make([]uintptr, 16)
	n := runtime.Callers(3, pcs)
	frames := runtime.CallersFrames(pcs[:n])
	for {
		f, more := frames.Next()
		if !isLoggingFrame(f.Function) {
			fn := f.Function
			if i := strings.LastIndex(fn, "/"); i >= 0 {
				fn = fn[i+1:]
			}
			entry.Data["func"] = fn
			entry.Data["file"] = filepath.Base(f.File)
			entry.Data["line"] = f.Line
			return nil
		}
		if !more {
			return nil
		}
	}
}

var loggingFrames = map[string]bool{
	"massnet.org/mdhash/logging.CPrint": true,
	"massnet.org/mdhash/logging.VPrint": true,
	"massnet.org/mdhash/logging.emit":   true,
}

func isLoggingFrame(fn string) bool {
	return strings.HasPrefix(fn, "github.com/sirupsen/logrus") || loggingFrames[fn]
}
