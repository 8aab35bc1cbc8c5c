package infrastructure

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"guildledger/config"

	"github.com/getsentry/sentry-go"
	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

var sensitiveKeys = []string{
	"password",
	"token",
	"secret",
	"dsn",
	"authorization",
}

// ConfigureLogging applies level, format and sinks from the config to the
// standard logrus logger. The returned function flushes buffered sinks.
func ConfigureLogging(cfg *config.Config) (func(), error) {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}
	log.SetLevel(level)

	if cfg.LogFormat == "json" {
		log.SetFormatter(&log.JSONFormatter{TimestampFormat: time.RFC3339Nano})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}

	var fileSink *lumberjack.Logger
	if cfg.LogFile != "" {
		fileSink = &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    50, // megabytes
			MaxBackups: 5,
			MaxAge:     14, // days
			Compress:   true,
		}
		log.SetOutput(io.MultiWriter(os.Stdout, fileSink))
	}

	log.AddHook(&maskingHook{})

	sentryEnabled := false
	if cfg.SentryDSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.SentryDSN,
			Environment: cfg.Environment,
			ServerName:  cfg.OTelServiceName,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize sentry: %w", err)
		}
		log.AddHook(NewSentryHook())
		sentryEnabled = true
	}

	log.WithFields(log.Fields{
		"level":  level.String(),
		"format": cfg.LogFormat,
		"file":   cfg.LogFile,
		"sentry": sentryEnabled,
	}).Info("Logging configured")

	return func() {
		if sentryEnabled {
			sentry.Flush(2 * time.Second)
		}
		if fileSink != nil {
			_ = fileSink.Close()
		}
	}, nil
}

// maskingHook replaces the values of sensitive fields before any formatter sees them
type maskingHook struct{}

func (h *maskingHook) Levels() []log.Level {
	return log.AllLevels
}

func (h *maskingHook) Fire(entry *log.Entry) error {
	for key := range entry.Data {
		if isSensitiveKey(key) {
			entry.Data[key] = "***"
		}
	}
	return nil
}

func isSensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	for _, sensitive := range sensitiveKeys {
		if strings.Contains(lower, sensitive) {
			return true
		}
	}
	return false
}

// SentryHook forwards error-level log entries to Sentry
type SentryHook struct {
	hub *sentry.Hub
}

// NewSentryHook creates a hook bound to the current Sentry hub
func NewSentryHook() *SentryHook {
	return &SentryHook{hub: sentry.CurrentHub()}
}

func (h *SentryHook) Levels() []log.Level {
	return []log.Level{log.PanicLevel, log.FatalLevel, log.ErrorLevel}
}

func (h *SentryHook) Fire(entry *log.Entry) error {
	h.hub.WithScope(func(scope *sentry.Scope) {
		scope.SetLevel(sentryLevel(entry.Level))
		for key, value := range entry.Data {
			if key == log.ErrorKey {
				continue
			}
			scope.SetExtra(key, value)
		}

		if err, ok := entry.Data[log.ErrorKey].(error); ok && err != nil {
			scope.SetExtra("message", entry.Message)
			h.hub.CaptureException(err)
			return
		}
		h.hub.CaptureMessage(entry.Message)
	})
	return nil
}

func sentryLevel(level log.Level) sentry.Level {
	switch level {
	case log.PanicLevel, log.FatalLevel:
		return sentry.LevelFatal
	case log.ErrorLevel:
		return sentry.LevelError
	case log.WarnLevel:
		return sentry.LevelWarning
	default:
		return sentry.LevelInfo
	}
}
