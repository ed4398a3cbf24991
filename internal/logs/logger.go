package logs

import (
	"io"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Level string

const (
	INFO  Level = "INFO"
	WARN  Level = "WARN"
	ERROR Level = "ERROR"
	DEBUG Level = "DEBUG"
)

var zapLevels = map[Level]zapcore.Level{
	DEBUG: zapcore.DebugLevel,
	INFO:  zapcore.InfoLevel,
	WARN:  zapcore.WarnLevel,
	ERROR: zapcore.ErrorLevel,
}

// ParseLevel accepts the usual zap level names, case-insensitive
// ("debug", "info", "warn", "error").
func ParseLevel(text string) (Level, error) {
	var zl zapcore.Level
	if err := zl.UnmarshalText([]byte(text)); err != nil {
		return "", err
	}
	return fromZap(zl), nil
}

func fromZap(zl zapcore.Level) Level {
	switch {
	case zl <= zapcore.DebugLevel:
		return DEBUG
	case zl == zapcore.InfoLevel:
		return INFO
	case zl == zapcore.WarnLevel:
		return WARN
	default:
		return ERROR
	}
}

type Entry struct {
	TimeStamp time.Time `json:"timestamp"`
	Level     Level     `json:"level"`
	Message   string    `json:"message"`
}

// Logger is a zap logger that also remembers its most recent entries so
// in-process readers (the report analyzer) can inspect them.
type Logger struct {
	*zap.Logger

	mu      sync.Mutex
	entries []Entry
	maxSize int
}

// NewLogger writes JSON lines to stdout.
//
// level: minimum log level to record (DEBUG, INFO, WARN, ERROR)
//
// maxSize: maximum number of log entries kept in memory
func NewLogger(maxSize int, level Level) *Logger {
	return NewLoggerTo(os.Stdout, maxSize, level)
}

// NewLoggerTo is NewLogger with an explicit sink.
func NewLoggerTo(w io.Writer, maxSize int, level Level) *Logger {
	zl, ok := zapLevels[level]
	if !ok {
		zl = zapcore.InfoLevel
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encCfg),
		zapcore.Lock(zapcore.AddSync(w)),
		zl,
	)

	l := &Logger{
		entries: make([]Entry, 0, maxSize),
		maxSize: maxSize,
	}
	l.Logger = zap.New(core, zap.AddCaller(), zap.Hooks(l.remember))
	return l
}

// Nop returns a logger that writes nowhere and keeps nothing.
func Nop() *Logger {
	return &Logger{Logger: zap.NewNop()}
}

// remember applies ring buffer behavior to entries that passed the level filter.
func (l *Logger) remember(ent zapcore.Entry) error {
	if l.maxSize <= 0 {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.entries) >= l.maxSize {
		//remove oldest entry(ring behavior)
		l.entries = l.entries[1:]
	}

	l.entries = append(l.entries, Entry{
		TimeStamp: ent.Time,
		Level:     fromZap(ent.Level),
		Message:   ent.Message,
	})
	return nil
}

func (l *Logger) GetLast(n int) []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	if n > len(l.entries) {
		out := make([]Entry, len(l.entries))
		copy(out, l.entries)
		return out
	}

	start := len(l.entries) - n
	out := make([]Entry, n)
	copy(out, l.entries[start:])
	return out
}

// Flush forces any buffered log entries to be written.
// Call this from main just before the program exits.
func (l *Logger) Flush() {
	// Sync on stdout returns "invalid argument" on some platforms; harmless.
	_ = l.Sync()
}
