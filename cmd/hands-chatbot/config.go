package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	chatbot "github.com/Oleksandr-Uvarov-AI-D/hands-chatbot"
	"github.com/Oleksandr-Uvarov-AI-D/hands-chatbot/store"
)

// stringOr returns v unless it is empty.
func stringOr(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}

// durationOr parses v as a duration. Empty yields the fallback; name is
// only used in the error.
func durationOr(name, v string, fallback time.Duration) (time.Duration, error) {
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	return d, nil
}

// newStore selects the thread id store. An empty path falls back to the
// per-user default location.
func newStore(path string, memoryOnly bool) (chatbot.Store, error) {
	if memoryOnly {
		return &store.Memory{}, nil
	}
	if path == "" {
		p, err := store.DefaultPath()
		if err != nil {
			return nil, fmt.Errorf("state path: %w", err)
		}
		path = p
	}
	return store.NewFile(path), nil
}

// newLogger builds the file logger. Without a path every log line is
// discarded, keeping the terminal free for the UI.
func newLogger(path, level string) (zerolog.Logger, func(), error) {
	if path == "" {
		return zerolog.Nop(), func() {}, nil
	}
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Logger{}, nil, fmt.Errorf("log level: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return zerolog.Logger{}, nil, fmt.Errorf("open log file: %w", err)
	}
	logger := zerolog.New(f).Level(lvl).With().Timestamp().Logger()
	return logger, func() { _ = f.Close() }, nil
}
