package logger

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log levels used across the application.
const (
	DebugLevel = "debug"
	InfoLevel  = "info"
	WarnLevel  = "warn"
	ErrorLevel = "error"
)

// Output encodings.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// ServiceName is attached to every entry as the "service" field.
const ServiceName = "compressor-runtime"

// Options selects level and encoding. Zero values mean info and console.
type Options struct {
	Level  string
	Format string
}

var (
	globalLogger *Logger
	once         sync.Once
)

// Get returns the process-wide logger. The first call decides its options;
// later calls return the same instance.
func Get(opts Options) *Logger {
	once.Do(func() {
		globalLogger = newZapLogger(opts, zapcore.Lock(os.Stdout))
	})
	return globalLogger
}

// New builds a fresh logger that is not shared through Get.
func New(opts Options) *Logger {
	return newZapLogger(opts, zapcore.Lock(os.Stdout))
}

// Nop returns a logger that discards everything. Used by tests.
func Nop() *Logger {
	return &Logger{SugaredLogger: zap.NewNop().Sugar()}
}
