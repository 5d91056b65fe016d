package logger

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// LogLevel represents the severity of a log message
type LogLevel string

const (
	LogLevelInfo  LogLevel = "INFO"
	LogLevelWarn  LogLevel = "WARN"
	LogLevelError LogLevel = "ERROR"
	LogLevelDebug LogLevel = "DEBUG"
)

// FileLogger writes leveled, categorized lines to a log file, or to stderr
// when the file cannot be opened. Stdout is reserved for command output and
// the stdio MCP transport.
type FileLogger struct {
	mu          sync.Mutex
	logFile     *os.File
	logger      *log.Logger
	useFallback bool
}

var logFileInit = New("logger:file")

var (
	globalFileLogger *FileLogger
	globalLoggerMu   sync.RWMutex
)

// InitFileLogger installs the global file logger writing to logDir/fileName.
// If the directory cannot be created the logger falls back to stderr and no
// error is returned.
func InitFileLogger(logDir, fileName string) error {
	fl := &FileLogger{}

	file, err := initLogFile(logDir, fileName, os.O_APPEND)
	if err != nil {
		log.Printf("WARNING: Failed to initialize log file: %v", err)
		log.Printf("WARNING: Falling back to stderr for logging")
		fl.useFallback = true
		fl.logger = log.New(os.Stderr, "", 0)
		initGlobalFileLogger(fl)
		return nil
	}

	fl.logFile = file
	fl.logger = log.New(file, "", 0)
	logFileInit.Printf("Logging to file: %s", filepath.Join(logDir, fileName))

	initGlobalFileLogger(fl)
	return nil
}

// Close closes the log file
func (fl *FileLogger) Close() error {
	fl.mu.Lock()
	defer fl.mu.Unlock()
	err := closeLogFile(fl.logFile, "file")
	fl.logFile = nil
	return err
}

// Log writes one line: [timestamp] [LEVEL] [category] message
func (fl *FileLogger) Log(level LogLevel, category, format string, args ...any) {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	if fl.logFile == nil && !fl.useFallback {
		return
	}

	timestamp := time.Now().UTC().Format(time.RFC3339)
	message := fmt.Sprintf(format, args...)
	fl.logger.Printf("[%s] [%s] [%s] %s", timestamp, level, category, message)

	// Flush immediately so other processes can tail the file.
	if fl.logFile != nil {
		if err := fl.logFile.Sync(); err != nil {
			log.Printf("WARNING: Failed to sync log file: %v", err)
		}
	}
}

func logGlobal(level LogLevel, category, format string, args ...any) {
	globalLoggerMu.RLock()
	defer globalLoggerMu.RUnlock()

	if globalFileLogger != nil {
		globalFileLogger.Log(level, category, format, args...)
	}
}

// LogInfo logs an informational message
func LogInfo(category, format string, args ...any) {
	logGlobal(LogLevelInfo, category, format, args...)
}

// LogWarn logs a warning message
func LogWarn(category, format string, args ...any) {
	logGlobal(LogLevelWarn, category, format, args...)
}

// LogError logs an error message
func LogError(category, format string, args ...any) {
	logGlobal(LogLevelError, category, format, args...)
}

// LogDebug logs a debug message
func LogDebug(category, format string, args ...any) {
	logGlobal(LogLevelDebug, category, format, args...)
}

// CloseGlobalLogger closes the global file logger
func CloseGlobalLogger() error {
	return closeGlobalFileLogger()
}
