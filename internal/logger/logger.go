package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

var (
	Logger *logrus.Logger // Main logger instance
	mu     sync.Mutex
)

// ParseLevel maps the LOG_LEVEL names to logrus levels, defaulting to INFO.
func ParseLevel(name string) logrus.Level {
	switch strings.ToUpper(name) {
	case "DEBUG":
		return logrus.DebugLevel
	case "INFO":
		return logrus.InfoLevel
	case "WARN", "WARNING":
		return logrus.WarnLevel
	case "ERROR":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

// Initialize sets up the application logger. With a non-empty dir the logs
// go to <dir>/propmaint.log, otherwise to stderr.
func Initialize(levelName, dir string) {
	level := ParseLevel(levelName)
	l := logrus.New()
	l.SetLevel(level)

	var out io.Writer = os.Stderr
	logFile := "stderr"
	if dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			fmt.Printf("Failed to create logs directory: %v\n", err)
		} else {
			path := filepath.Join(dir, "propmaint.log")
			f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
			if err != nil {
				fmt.Printf("Failed to open log file: %v\n", err)
			} else {
				out = f
				logFile = path
				l.SetReportCaller(true)
			}
		}
	}

	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
		DisableColors:   out != os.Stderr,
	})
	l.SetOutput(out)

	mu.Lock()
	Logger = l
	mu.Unlock()

	l.WithFields(logrus.Fields{
		"api_logs":  "stdout (simple text)",
		"log_level": level.String(),
		"log_file":  logFile,
	}).Info("Logging system initialized")
}

// GetLogger returns the configured logger, creating a stderr logger at INFO
// when nothing called Initialize.
func GetLogger() *logrus.Logger {
	mu.Lock()
	defer mu.Unlock()
	if Logger == nil {
		Logger = logrus.New()
		Logger.SetOutput(os.Stderr)
		Logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.RFC3339,
		})
	}
	return Logger
}

// SetOutput redirects the logger, mostly for tests.
func SetOutput(w io.Writer) {
	GetLogger().SetOutput(w)
}

// WithContext creates a logger with additional context fields
func WithContext(fields map[string]interface{}) *logrus.Entry {
	return GetLogger().WithFields(fields)
}

// WithStore creates a logger for document store calls
func WithStore(driver, op string) *logrus.Entry {
	return GetLogger().WithFields(logrus.Fields{
		"store":     driver,
		"op":        op,
		"component": "docstore",
	})
}

// WithIncident creates a logger with incident context
func WithIncident(id string, category string) *logrus.Entry {
	return GetLogger().WithFields(logrus.Fields{
		"incident_id": id,
		"category":    category,
		"component":   "incident_service",
	})
}

// WithTask creates a logger with maintenance task context
func WithTask(id string) *logrus.Entry {
	return GetLogger().WithFields(logrus.Fields{
		"task_id":   id,
		"component": "maintenance_service",
	})
}

// WithError creates a logger with error context
func WithError(err error, component string) *logrus.Entry {
	l := GetLogger()
	fields := logrus.Fields{
		"error":     err.Error(),
		"component": component,
	}

	if l.GetLevel() >= logrus.DebugLevel {
		fields["stack_trace"] = getStackTrace()
	}

	return l.WithFields(fields)
}

// getStackTrace returns a formatted stack trace
func getStackTrace() string {
	var stack []string
	for i := 2; i < 10; i++ {
		if pc, file, line, ok := runtime.Caller(i); ok {
			fn := runtime.FuncForPC(pc)
			stack = append(stack, fmt.Sprintf("%s:%d %s", file, line, fn.Name()))
		}
	}
	return strings.Join(stack, "\n")
}

// Log levels convenience functions (with fields)
func Debug(msg string, fields map[string]interface{}) {
	GetLogger().WithFields(fields).Debug(msg)
}

func Info(msg string, fields map[string]interface{}) {
	GetLogger().WithFields(fields).Info(msg)
}

func Warn(msg string, fields map[string]interface{}) {
	GetLogger().WithFields(fields).Warn(msg)
}

func Error(msg string, fields map[string]interface{}) {
	GetLogger().WithFields(fields).Error(msg)
}

func Fatal(msg string, fields map[string]interface{}) {
	GetLogger().WithFields(fields).Fatal(msg)
}
