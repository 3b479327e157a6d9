package walk

import (
	"github.com/charmbracelet/log"
)

// Logger receives progress and failure messages with alternating key/value
// context, in the style of structured loggers.
//
// Failure messages always carry an "err" key. A Logger may be called from
// several goroutines at once when Options.Workers > 1.
type Logger func(msg string, keyvals ...any)

// FromCharm adapts a charm logger. Messages carrying an "err" key are logged
// at warn level, everything else at debug level.
func FromCharm(l *log.Logger) Logger {
	if l == nil {
		return nil
	}
	return func(msg string, keyvals ...any) {
		if hasErr(keyvals) {
			l.Warn(msg, keyvals...)
			return
		}
		l.Debug(msg, keyvals...)
	}
}

func hasErr(keyvals []any) bool {
	for i := 0; i < len(keyvals); i += 2 {
		if k, ok := keyvals[i].(string); ok && k == "err" {
			return true
		}
	}
	return false
}

// emit calls l, discarding any panic raised by it.
func (l Logger) emit(msg string, keyvals ...any) {
	if l == nil {
		return
	}
	defer func() { _ = recover() }()
	l(msg, keyvals...)
}
