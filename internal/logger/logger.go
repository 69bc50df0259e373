package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"
	"sync"
)

// ********************************************************
// ********* LOGGING **************************************
// ********************************************************

type LogLevel int

const (
	colorReset   = "\033[0m"
	colorRed     = "\033[31m"
	colorGreen   = "\033[32m"
	colorBlue    = "\033[34m"
	colorMagenta = "\033[35m"
	colorCyan    = "\033[36m"
	colorYellow  = "\033[33m"
	colorOrange  = "\033[38;5;208m"
)

const (
	DEBUG LogLevel = iota
	INFO
	INFORM
	HIGHLIGHT
	WARN
	ERROR
	FATAL
)

// DefaultLogFile is where file output goes unless SetLogFile says otherwise
const DefaultLogFile = "/tmp/soccerprediction.log"

type Logger struct {
	mu           sync.Mutex
	infoLogger   *log.Logger
	errorLogger  *log.Logger
	level        LogLevel
	showDateTime bool
	colour       bool
	logFilePath  string
	logFile      *os.File
}

var defaultLogger = NewLogger(INFO)

// NewLogger returns a console logger writing INFO and below to stdout and
// everything from ERROR upwards to stderr
func NewLogger(level LogLevel) *Logger {
	return &Logger{
		infoLogger:  log.New(os.Stdout, "", 0),
		errorLogger: log.New(os.Stderr, "", 0),
		level:       level,
		colour:      true,
		logFilePath: DefaultLogFile,
	}
}

// NewWriterLogger returns a logger that sends every level to w without colour codes.
// Mostly useful in tests.
func NewWriterLogger(level LogLevel, w io.Writer) *Logger {
	return &Logger{
		infoLogger:  log.New(w, "", 0),
		errorLogger: log.New(w, "", 0),
		level:       level,
		logFilePath: DefaultLogFile,
	}
}

func (l *Logger) flags() int {
	if l.showDateTime {
		return log.Ldate | log.Ltime
	}
	return 0
}

// SetLevel sets the minimum level that will be written
func (l *Logger) SetLevel(level LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// Level returns the current minimum level
func (l *Logger) Level() LogLevel {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level
}

func (l *Logger) SetShowDateTime(value bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.showDateTime = value
	l.infoLogger.SetFlags(l.flags())
	l.errorLogger.SetFlags(l.flags())
}

// SetLogFile changes the file used by the 'f' and 'b' outputs
func (l *Logger) SetLogFile(path string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if path != "" {
		l.logFilePath = path
	}
}

// SetLogOutput sets the output destination for logs
// 'c' for console, 'f' for file, 'b' for both
func (l *Logger) SetLogOutput(outputType rune) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.logFile != nil {
		l.logFile.Close()
		l.logFile = nil
	}

	var infoWriter, errorWriter io.Writer
	switch outputType {
	case 'c':
		infoWriter = os.Stdout
		errorWriter = os.Stderr
		l.colour = true
	case 'f', 'b':
		f, err := os.OpenFile(l.logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file %s: %w", l.logFilePath, err)
		}
		l.logFile = f
		if outputType == 'f' {
			infoWriter = f
			errorWriter = f
			l.colour = false
		} else {
			infoWriter = io.MultiWriter(os.Stdout, f)
			errorWriter = io.MultiWriter(os.Stderr, f)
			l.colour = true
		}
	default:
		return fmt.Errorf("invalid log output type: %c", outputType)
	}

	l.infoLogger = log.New(infoWriter, "", l.flags())
	l.errorLogger = log.New(errorWriter, "", l.flags())
	return nil
}

// Close releases any open log file
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.logFile == nil {
		return nil
	}
	err := l.logFile.Close()
	l.logFile = nil
	return err
}

func (l *Logger) log(level LogLevel, format string, v ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level < l.level {
		return
	}

	// skip log() and the exported wrapper
	_, file, line, ok := runtime.Caller(2)
	if !ok {
		file = "unknown"
		line = 0
	}
	file = filepath.Base(file)

	msg := format
	var jsonObjects []string
	if len(v) > 0 {
		var primitives []string
		primitives, jsonObjects = processArgs(v...)
		if len(primitives) > 0 {
			msg = format + " " + strings.Join(primitives, " ")
		}
	}

	out := l.infoLogger
	if level >= ERROR {
		out = l.errorLogger
	}
	out.Println(l.decorate(level, file, line, msg))
	for _, obj := range jsonObjects {
		out.Println(l.decorate(level, file, line, obj))
	}
}

func (l *Logger) decorate(level LogLevel, file string, line int, msg string) string {
	if !l.colour {
		return fmt.Sprintf("[%s] %s:%d: %s", level.String(), file, line, msg)
	}
	return fmt.Sprintf("[%s] %s:%d: %s%s%s", level.String(), file, line, level.colour(), msg, colorReset)
}

func (l LogLevel) colour() string {
	switch l {
	case DEBUG:
		return colorBlue
	case INFO:
		return colorGreen
	case INFORM:
		return colorMagenta
	case HIGHLIGHT:
		return colorCyan
	case WARN:
		return colorYellow
	case ERROR:
		return colorOrange
	case FATAL:
		return colorRed
	default:
		return colorReset
	}
}

func (l LogLevel) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case INFORM:
		return "INFORM"
	case HIGHLIGHT:
		return "HIGHLIGHT"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	case FATAL:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel converts a level name such as "debug" or "WARN" into a LogLevel
func ParseLevel(s string) (LogLevel, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return DEBUG, nil
	case "INFO", "":
		return INFO, nil
	case "INFORM":
		return INFORM, nil
	case "HIGHLIGHT":
		return HIGHLIGHT, nil
	case "WARN", "WARNING":
		return WARN, nil
	case "ERROR":
		return ERROR, nil
	case "FATAL":
		return FATAL, nil
	}
	return INFO, fmt.Errorf("unknown log level %q", s)
}

// processArgs renders primitives inline and returns anything else as indented JSON
// to be printed on its own line
func processArgs(args ...any) ([]string, []string) {
	var primitives []string
	var jsonObjects []string

	for _, arg := range args {
		if isPrimitive(arg) {
			switch v := arg.(type) {
			case float32:
				primitives = append(primitives, fmt.Sprintf("%.2f", v))
			case float64:
				primitives = append(primitives, fmt.Sprintf("%.2f", v))
			case string:
				primitives = append(primitives, v)
			case error:
				primitives = append(primitives, v.Error())
			case nil:
				primitives = append(primitives, "nil")
			default:
				primitives = append(primitives, fmt.Sprintf("%v", v))
			}
			continue
		}
		jsonBytes, err := json.MarshalIndent(arg, "", "  ")
		if err != nil {
			primitives = append(primitives, fmt.Sprintf("%v", arg))
			continue
		}
		primitives = append(primitives, fmt.Sprintf("[Object of type %s]", reflect.TypeOf(arg)))
		jsonObjects = append(jsonObjects, string(jsonBytes))
	}
	return primitives, jsonObjects
}

func isPrimitive(v any) bool {
	if v == nil {
		return true
	}
	switch v.(type) {
	case string, bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64, error, fmt.Stringer:
		return true
	default:
		return false
	}
}

////////////////////////////////////////////////////////////////
// Convenience functions using the default logger
////////////////////////////////////////////////////////////////

func SetLevel(level LogLevel) {
	defaultLogger.SetLevel(level)
}

func SetShowDateTime(value bool) {
	defaultLogger.SetShowDateTime(value)
}

func SetLogFile(path string) {
	defaultLogger.SetLogFile(path)
}

func SetLogOutput(outputType rune) error {
	return defaultLogger.SetLogOutput(outputType)
}

func Debug(format string, v ...any) {
	defaultLogger.log(DEBUG, format, v...)
}

func Info(format string, v ...any) {
	defaultLogger.log(INFO, format, v...)
}

func Inform(format string, v ...any) {
	defaultLogger.log(INFORM, format, v...)
}

func Highlight(format string, v ...any) {
	defaultLogger.log(HIGHLIGHT, format, v...)
}

func Warn(format string, v ...any) {
	defaultLogger.log(WARN, format, v...)
}

func Error(format string, v ...any) {
	defaultLogger.log(ERROR, format, v...)
}

func Fatal(format string, v ...any) {
	defaultLogger.log(FATAL, format, v...)
	defaultLogger.Close()
	os.Exit(1)
}
