package logger

import (
	"io"
	"log"
	"os"
	"strings"
	"sync/atomic"
)

type Level int32

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var (
	DebugLogger *log.Logger
	InfoLogger  *log.Logger
	WarnLogger  *log.Logger
	ErrorLogger *log.Logger

	level atomic.Int32
)

func init() {
	DebugLogger = log.New(os.Stdout, "DEBUG: ", log.Ldate|log.Ltime|log.Lshortfile)
	InfoLogger = log.New(os.Stdout, "INFO: ", log.Ldate|log.Ltime|log.Lshortfile)
	WarnLogger = log.New(os.Stdout, "WARN: ", log.Ldate|log.Ltime|log.Lshortfile)
	ErrorLogger = log.New(os.Stderr, "ERROR: ", log.Ldate|log.Ltime|log.Lshortfile)
	level.Store(int32(LevelInfo))
}

// SetLevel accepts debug, info, warn or error. Unknown values keep the current level.
func SetLevel(name string) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		level.Store(int32(LevelDebug))
	case "info":
		level.Store(int32(LevelInfo))
	case "warn", "warning":
		level.Store(int32(LevelWarn))
	case "error":
		level.Store(int32(LevelError))
	}
}

// SetOutput redirects every level to w. Tests use it to silence or capture logs.
func SetOutput(w io.Writer) {
	DebugLogger.SetOutput(w)
	InfoLogger.SetOutput(w)
	WarnLogger.SetOutput(w)
	ErrorLogger.SetOutput(w)
}

func enabled(l Level) bool {
	return Level(level.Load()) <= l
}

func Debug(msg string, v ...interface{}) {
	if enabled(LevelDebug) {
		DebugLogger.Printf(msg, v...)
	}
}

func Info(msg string, v ...interface{}) {
	if enabled(LevelInfo) {
		InfoLogger.Printf(msg, v...)
	}
}

func Warn(msg string, v ...interface{}) {
	if enabled(LevelWarn) {
		WarnLogger.Printf(msg, v...)
	}
}

func Error(msg string, err error, v ...interface{}) {
	if !enabled(LevelError) {
		return
	}
	if err != nil {
		ErrorLogger.Printf(msg+": %v", append(v, err)...)
	} else {
		ErrorLogger.Printf(msg, v...)
	}
}
