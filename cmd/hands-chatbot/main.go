// Command hands-chatbot is a terminal client for the hands-on support
// chatbot service.
//
// Usage:
//
//	hands-chatbot [flags]
//
// Flags fall back to environment variables, loaded from .env when present:
//
//	-api-url string            Service base URL (CHATBOT_API_URL)
//	-idle-timeout duration     Inactivity window before the session expires (CHATBOT_IDLE_TIMEOUT)
//	-request-timeout duration  Bound on each HTTP request (CHATBOT_REQUEST_TIMEOUT)
//	-state-file string         Path of the saved thread id (CHATBOT_STATE_FILE)
//	-memory                    Keep the thread id in memory only
//	-new                       Discard any saved conversation and start fresh
//	-log-file string           Append structured logs to this file (CHATBOT_LOG_FILE)
//	-log-level string          Level for -log-file output (CHATBOT_LOG_LEVEL)
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	chatbot "github.com/Oleksandr-Uvarov-AI-D/hands-chatbot"
	"github.com/Oleksandr-Uvarov-AI-D/hands-chatbot/api"
	bt "github.com/Oleksandr-Uvarov-AI-D/hands-chatbot/bubbletea"
	"github.com/Oleksandr-Uvarov-AI-D/hands-chatbot/coordinator"
)

const (
	defaultAPIURL         = "http://localhost:8000"
	defaultRequestTimeout = 2 * time.Minute
	healthProbeTimeout    = 3 * time.Second
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "hands-chatbot: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// .env is optional. Only a malformed file is fatal.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	idleDefault, err := durationOr("CHATBOT_IDLE_TIMEOUT", os.Getenv("CHATBOT_IDLE_TIMEOUT"), coordinator.DefaultIdleTimeout)
	if err != nil {
		return err
	}
	requestDefault, err := durationOr("CHATBOT_REQUEST_TIMEOUT", os.Getenv("CHATBOT_REQUEST_TIMEOUT"), defaultRequestTimeout)
	if err != nil {
		return err
	}

	var (
		apiURL         = flag.String("api-url", stringOr(os.Getenv("CHATBOT_API_URL"), defaultAPIURL), "service base URL")
		idleTimeout    = flag.Duration("idle-timeout", idleDefault, "inactivity window before the session expires")
		requestTimeout = flag.Duration("request-timeout", requestDefault, "bound on each HTTP request")
		statePath      = flag.String("state-file", os.Getenv("CHATBOT_STATE_FILE"), "path of the saved thread id")
		memoryOnly     = flag.Bool("memory", false, "keep the thread id in memory only")
		fresh          = flag.Bool("new", false, "discard any saved conversation and start fresh")
		logPath        = flag.String("log-file", os.Getenv("CHATBOT_LOG_FILE"), "append structured logs to this file")
		logLevel       = flag.String("log-level", stringOr(os.Getenv("CHATBOT_LOG_LEVEL"), "info"), "level for -log-file output")
	)
	flag.Parse()

	// Handle OS signals for graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger, closeLog, err := newLogger(*logPath, *logLevel)
	if err != nil {
		return err
	}
	defer closeLog()

	st, err := newStore(*statePath, *memoryOnly)
	if err != nil {
		return err
	}
	if *fresh {
		if err := st.Clear(); err != nil {
			return fmt.Errorf("discard saved conversation: %w", err)
		}
	}

	client := api.New(*apiURL,
		api.WithTimeout(*requestTimeout),
		api.WithLogger(logger),
	)

	// One probe at startup; failures are logged, and each exchange
	// surfaces its own errors in the transcript.
	probeCtx, cancelProbe := context.WithTimeout(ctx, healthProbeTimeout)
	if err := client.Health(probeCtx); err != nil {
		logger.Warn().Err(err).Str("url", *apiURL).Msg("service unreachable at startup")
	}
	cancelProbe()

	m := bt.New(chatbot.DefaultTheme())
	c := coordinator.New(client,
		coordinator.WithStore(st),
		coordinator.WithRenderHandler(m.RenderHandler()),
		coordinator.WithIdleTimeout(*idleTimeout),
		coordinator.WithLogger(logger),
	)
	m.Controller = c

	if err := bt.Run(ctx, m); err != nil {
		_ = c.Close()
		return fmt.Errorf("TUI: %w", err)
	}
	return c.Close()
}
