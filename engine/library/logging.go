package library

import (
	"fmt"
	"runtime/debug"
	"sync/atomic"

	"github.com/mborders/logmatic"
)

var logLevel int32 = 2

// SetLogLevel drops messages more verbose than level, so 0 keeps only fatal
// errors and 5 prints everything. Fatal errors are always logged. Safe for
// concurrent use.
func SetLogLevel(level int) {
	atomic.StoreInt32(&logLevel, int32(level))
}

// LogLevel is the most verbose level LogCLI currently prints, 2 (warning)
// unless SetLogLevel changed it. InitConfig sets it from the logLevel key.
func LogLevel() int {
	return int(atomic.LoadInt32(&logLevel))
}

// Logs to the terminal. Level options are: 0 fatal error (stack dump), 1 serious error (stack dump), 2 warning, 3 debug, 4 info, 5 trace (stack dump).
func LogCLI(message interface{}, level int) {
	if level > LogLevel() && level != 0 {
		return
	}
	l := logmatic.NewLogger()
	l.SetLevel(logmatic.TRACE)
	l.ExitOnFatal = true
	message = fmt.Sprint(message)
	switch level {
	case 5:
		debug.PrintStack()
		l.Trace("%v", message)
	case 4:
		l.Info("%v", message)
	case 3:
		l.Debug("%v", message)
	case 2:
		l.Warn("%v", message)
	case 1:
		debug.PrintStack()
		l.Error("%v", message)
	case 0:
		debug.PrintStack()
		l.Error("%v", message)
	}
}
