// Package logx is a tiny levelled logger that works the same on host and MCU
// builds. Messages take slog-style key/value pairs.
package logx

import "strconv"

type Level uint8

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelOff
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	}
	return "OFF"
}

// ParseLevel accepts debug, info, warn, error and off.
func ParseLevel(s string) (Level, bool) {
	switch s {
	case "debug":
		return LevelDebug, true
	case "info":
		return LevelInfo, true
	case "warn":
		return LevelWarn, true
	case "error":
		return LevelError, true
	case "off":
		return LevelOff, true
	}
	return LevelInfo, false
}

var level = LevelInfo

func SetLevel(l Level) { level = l }

func Enabled(l Level) bool { return l >= level && l < LevelOff }

func Debug(msg string, kv ...any) { log(LevelDebug, msg, kv) }
func Info(msg string, kv ...any)  { log(LevelInfo, msg, kv) }
func Warn(msg string, kv ...any)  { log(LevelWarn, msg, kv) }
func Error(msg string, kv ...any) { log(LevelError, msg, kv) }

func log(l Level, msg string, kv []any) {
	if !Enabled(l) {
		return
	}
	b := make([]byte, 0, 64)
	b = append(b, l.String()...)
	b = append(b, ' ')
	b = append(b, msg...)
	for i := 0; i+1 < len(kv); i += 2 {
		b = append(b, ' ')
		if k, ok := kv[i].(string); ok {
			b = append(b, k...)
		} else {
			b = append(b, '?')
		}
		b = append(b, '=')
		b = appendValue(b, kv[i+1])
	}
	emit(b)
}

type stringer interface{ String() string }

// appendValue avoids fmt so MCU builds stay small.
func appendValue(b []byte, v any) []byte {
	switch x := v.(type) {
	case string:
		return append(b, x...)
	case bool:
		return strconv.AppendBool(b, x)
	case int:
		return strconv.AppendInt(b, int64(x), 10)
	case int64:
		return strconv.AppendInt(b, x, 10)
	case uint8:
		return strconv.AppendUint(b, uint64(x), 10)
	case uint16:
		return strconv.AppendUint(b, uint64(x), 10)
	case uint32:
		return strconv.AppendUint(b, uint64(x), 10)
	case uint64:
		return strconv.AppendUint(b, x, 10)
	case error:
		return append(b, x.Error()...)
	case stringer:
		return append(b, x.String()...)
	case nil:
		return append(b, "<nil>"...)
	}
	return append(b, "<?>"...)
}
