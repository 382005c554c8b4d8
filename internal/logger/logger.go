// Package logger собирает slog.Logger по настройкам из конфигурации
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Параметры ротации файла логов
const (
	maxSizeMB  = 50
	maxBackups = 5
	maxAgeDays = 28
)

// ParseLevel разбирает уровень логирования (debug, info, warn, error)
func ParseLevel(level string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", level)
	}
	return l, nil
}

// Output возвращает writer для логов: файл с ротацией, если задан path, иначе fallback.
// Возвращаемый io.Closer нужно закрыть при завершении.
func Output(path string, fallback io.Writer) (io.Writer, io.Closer) {
	if path == "" {
		return fallback, nopCloser{}
	}

	rotating := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		MaxAge:     maxAgeDays,
		Compress:   true,
	}
	return rotating, rotating
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New создает логгер с text или json handler
func New(w io.Writer, level, format string) (*slog.Logger, error) {
	l, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{Level: l}

	switch format {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
}

// Stderr логгер клиента: ошибки и предупреждения не смешиваются с выводом команд
func Stderr(level string) (*slog.Logger, error) {
	return New(os.Stderr, level, "text")
}
