package debug

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	file    *os.File
	mu      sync.Mutex
	enabled bool

	logger = newLogger()
)

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	l.SetLevel(logrus.DebugLevel)
	l.SetFormatter(&logrus.TextFormatter{
		DisableColors:   true,
		FullTimestamp:   true,
		TimestampFormat: "15:04:05.000",
	})
	return l
}

// Logger returns the shared logger. It discards everything until Enable is called.
func Logger() *logrus.Logger {
	return logger
}

// LogPath returns ~/.config/stepseq/debug.log
func LogPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".config", "stepseq", "debug.log")
}

// Enable starts debug logging to LogPath
func Enable() error {
	mu.Lock()
	defer mu.Unlock()

	if enabled {
		return nil
	}

	path := LogPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}

	file = f
	enabled = true
	logger.SetOutput(f)
	logger.WithField("category", "debug").Info("=== Debug logging started ===")

	return nil
}

// EnableTo sends debug output to w instead of the log file
func EnableTo(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()

	closeFile()
	enabled = true
	logger.SetOutput(w)
}

// Disable stops debug logging
func Disable() {
	mu.Lock()
	defer mu.Unlock()

	closeFile()
	enabled = false
	logger.SetOutput(io.Discard)
}

// Enabled reports whether output is going anywhere
func Enabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return enabled
}

func closeFile() {
	if file != nil {
		file.Close()
		file = nil
	}
}

// Log writes a message to the debug log
func Log(category, format string, args ...any) {
	if !Enabled() {
		return
	}
	logger.WithField("category", category).Debug(fmt.Sprintf(format, args...))
}

// LogEvery logs only every N calls (use for high-frequency events)
var counters = make(map[string]int)

func LogEvery(n int, category, format string, args ...any) {
	mu.Lock()
	key := category + format
	counters[key]++
	count := counters[key]
	mu.Unlock()

	if count%n == 0 {
		Log(category, format+" (every %d, count=%d)", append(args, n, count)...)
	}
}
