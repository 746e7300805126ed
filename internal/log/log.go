// Package log — структурированное логирование поверх slog.
package log

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

var (
	mu     sync.RWMutex
	logger *slog.Logger

	// level общий для всех логгеров, в том числе полученных через With до Init
	level slog.LevelVar
)

// Init настраивает глобальный логгер. Уровни: debug, info, warn, error.
// Повторный вызов перенастраивает логгер, поэтому логировать до Init можно.
func Init(lvl string) {
	setup(os.Stdout, lvl)
}

func setup(w io.Writer, lvl string) {
	level.Set(ParseLevel(lvl))
	opts := &slog.HandlerOptions{Level: &level}

	// В продакшене пишем JSON, локально — текст
	var l *slog.Logger
	if os.Getenv("GO_ENV") == "production" {
		l = slog.New(slog.NewJSONHandler(w, opts))
	} else {
		l = slog.New(slog.NewTextHandler(w, opts))
	}

	mu.Lock()
	logger = l
	mu.Unlock()

	slog.SetDefault(l)
}

// SetLevel меняет уровень без пересоздания обработчика.
func SetLevel(lvl string) {
	level.Set(ParseLevel(lvl))
}

// ParseLevel переводит строку в уровень slog, по умолчанию info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// L возвращает глобальный логгер; до Init это текстовый логгер уровня info.
func L() *slog.Logger {
	mu.RLock()
	l := logger
	mu.RUnlock()
	if l != nil {
		return l
	}

	mu.Lock()
	defer mu.Unlock()
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: &level}))
	}
	return logger
}

// With возвращает логгер с полем component.
func With(component string) *slog.Logger {
	return L().With("component", component)
}

func Debug(msg string, args ...any) { L().Debug(msg, args...) }

func Info(msg string, args ...any) { L().Info(msg, args...) }

func Warn(msg string, args ...any) { L().Warn(msg, args...) }

func Error(msg string, args ...any) { L().Error(msg, args...) }
