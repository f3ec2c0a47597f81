package internal

import (
	"fmt"
	"time"
)

// Feed backends and translation modes selectable from the environment.
const (
	FeedHub  = "hub"
	FeedNats = "nats"

	TranslationInline   = "inline"
	TranslationReactive = "reactive"
)

type Config struct {
	Port           int    `env:"PORT,default=8080"`
	BadgerFilepath string `env:"BADGER_FILEPATH,required=true"`
	LogLevel       string `env:"LOG_LEVEL,default=INFO"`

	LimitMessages int `env:"LIMIT_MESSAGES,default=100"`
	BufferSize    int `env:"BUFFER_SIZE,default=64"`

	TranslationBaseURL   string        `env:"TRANSLATION_BASE_URL"`
	TranslationTimeout   time.Duration `env:"TRANSLATION_TIMEOUT,default=10s"`
	TranslationMode      string        `env:"TRANSLATION_MODE,default=reactive"`
	TranslationQueueSize int           `env:"TRANSLATION_QUEUE_SIZE,default=256"`

	FeedBackend  string        `env:"FEED_BACKEND,default=hub"`
	NatsURL      string        `env:"NATS_URL,default=nats://localhost:4222"`
	PollInterval time.Duration `env:"POLL_INTERVAL,default=2s"`

	AuthSecret        string        `env:"AUTH_SECRET,required=true"`
	AuthTokenDuration time.Duration `env:"AUTH_TOKEN_DURATION,default=24h"`

	RestartInterval time.Duration `env:"RESTART_INTERVAL,default=200ms"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT,default=10s"`
}

// Check rejects values the rest of the wiring cannot interpret, before
// anything is started.
func (c Config) Check() error {
	switch c.FeedBackend {
	case FeedHub, FeedNats:
	default:
		return fmt.Errorf("FEED_BACKEND must be %q or %q, got %q", FeedHub, FeedNats, c.FeedBackend)
	}
	switch c.TranslationMode {
	case TranslationInline, TranslationReactive:
	default:
		return fmt.Errorf("TRANSLATION_MODE must be %q or %q, got %q",
			TranslationInline, TranslationReactive, c.TranslationMode)
	}
	return nil
}
