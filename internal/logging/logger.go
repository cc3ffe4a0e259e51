package logging

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// LogLevel определяет уровни логирования
type LogLevel int

const (
	TRACE LogLevel = iota
	DEBUG
	INFO
	WARN
	ERROR
)

// String возвращает строковое представление уровня логирования
func (l LogLevel) String() string {
	switch l {
	case TRACE:
		return "TRACE"
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Logger пишет в консоль и в файл с независимыми минимальными уровнями.
// Ожидаемые частые исходы (занятый ресурс, отсутствующий сосед) логируются
// не выше DEBUG, чтобы не шуметь на нормальной работе.
type Logger struct {
	consoleLogger   *log.Logger
	fileLogger      *log.Logger
	file            *os.File
	minConsoleLevel LogLevel
	minFileLevel    LogLevel
}

var (
	defaultLogger *Logger
	defaultMu     sync.Mutex
)

// NewLogger создает логгер компонента с файлом в директории logs
func NewLogger(component string) (*Logger, error) {
	if err := os.MkdirAll("logs", 0755); err != nil {
		return nil, fmt.Errorf("ошибка создания директории logs: %w", err)
	}

	timestamp := time.Now().Format("2006-01-02_15-04-05")
	filename := filepath.Join("logs", fmt.Sprintf("%s_%s.log", component, timestamp))

	file, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания файла логов: %w", err)
	}

	return &Logger{
		consoleLogger:   log.New(os.Stdout, "", log.LstdFlags),
		fileLogger:      log.New(file, "", log.LstdFlags),
		file:            file,
		minConsoleLevel: INFO,
		minFileLevel:    DEBUG,
	}, nil
}

// SetLevels задает минимальные уровни для консоли и файла
func (l *Logger) SetLevels(console, file LogLevel) {
	l.minConsoleLevel = console
	l.minFileLevel = file
}

// Close закрывает файл логов
func (l *Logger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

func (l *Logger) logMessage(level LogLevel, format string, args ...interface{}) {
	msg := fmt.Sprintf("[%s] %s", level, fmt.Sprintf(format, args...))
	if l.consoleLogger != nil && level >= l.minConsoleLevel {
		l.consoleLogger.Println(msg)
	}
	if l.fileLogger != nil && level >= l.minFileLevel {
		l.fileLogger.Println(msg)
	}
}

// Trace логирует сообщение уровня TRACE
func (l *Logger) Trace(format string, args ...interface{}) { l.logMessage(TRACE, format, args...) }

// Debug логирует сообщение уровня DEBUG
func (l *Logger) Debug(format string, args ...interface{}) { l.logMessage(DEBUG, format, args...) }

// Info логирует сообщение уровня INFO
func (l *Logger) Info(format string, args ...interface{}) { l.logMessage(INFO, format, args...) }

// Warn логирует сообщение уровня WARN
func (l *Logger) Warn(format string, args ...interface{}) { l.logMessage(WARN, format, args...) }

// Error логирует сообщение уровня ERROR
func (l *Logger) Error(format string, args ...interface{}) { l.logMessage(ERROR, format, args...) }

// InitDefaultLogger инициализирует глобальный логгер процесса
func InitDefaultLogger(component string) error {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	logger, err := NewLogger(component)
	if err != nil {
		return err
	}
	defaultLogger = logger
	return nil
}

// CloseDefaultLogger закрывает глобальный логгер
func CloseDefaultLogger() {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	if defaultLogger != nil {
		defaultLogger.Close()
		defaultLogger = nil
	}
}

// getDefault возвращает глобальный логгер, при отсутствии — консольный fallback
func getDefault() *Logger {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	if defaultLogger == nil {
		defaultLogger = &Logger{
			consoleLogger:   log.New(os.Stdout, "", log.LstdFlags),
			minConsoleLevel: INFO,
		}
	}
	return defaultLogger
}

// Trace логирует в глобальный логгер
func Trace(format string, args ...interface{}) { getDefault().Trace(format, args...) }

// Debug логирует в глобальный логгер
func Debug(format string, args ...interface{}) { getDefault().Debug(format, args...) }

// Info логирует в глобальный логгер
func Info(format string, args ...interface{}) { getDefault().Info(format, args...) }

// Warn логирует в глобальный логгер
func Warn(format string, args ...interface{}) { getDefault().Warn(format, args...) }

// Error логирует в глобальный логгер
func Error(format string, args ...interface{}) { getDefault().Error(format, args...) }
