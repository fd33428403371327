package cmd

import (
	"time"

	"github.com/flowforge/flowforge/pkg/transport/mail"
	"github.com/flowforge/flowforge/pkg/workflow"
	"github.com/urfave/cli/v3"
)

func LogFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "log-level",
			Usage:   "Log level (debug, info, warn, error)",
			Value:   "info",
			Sources: cli.EnvVars("LOG_LEVEL"),
		},
	}
}

func PersistenceFlags(defaultURL string) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "database-url",
			Usage:   "Persistence URL (memory://, file://path, postgres://..., redis://...)",
			Value:   defaultURL,
			Sources: cli.EnvVars("DATABASE_URL"),
		},
	}
}

func EventBusFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "event-bus",
			Usage:   "Event bus type (gochannel, kafka)",
			Value:   "gochannel",
			Sources: cli.EnvVars("EVENT_BUS_TYPE"),
		},
		&cli.StringFlag{
			Name:    "kafka-brokers",
			Usage:   "Comma separated Kafka brokers",
			Value:   "localhost:9092",
			Sources: cli.EnvVars("KAFKA_BROKERS"),
		},
	}
}

// EngineFlags configure block transports, timeouts and tracing.
func EngineFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "api-transport",
			Usage:   "Transport for api_call blocks (http, simulate)",
			Value:   "http",
			Sources: cli.EnvVars("API_TRANSPORT"),
		},
		&cli.DurationFlag{
			Name:    "block-timeout",
			Usage:   "Timeout applied to every I/O-bound block",
			Value:   workflow.DefaultBlockTimeout,
			Sources: cli.EnvVars("BLOCK_TIMEOUT"),
		},
		&cli.StringFlag{
			Name:    "tracing",
			Usage:   "Span exporter (none, stdout, otlp)",
			Value:   "none",
			Sources: cli.EnvVars("TRACING"),
		},
		&cli.StringFlag{
			Name:    "smtp-host",
			Usage:   "SMTP host; notifications are only logged when empty",
			Sources: cli.EnvVars("SMTP_HOST"),
		},
		&cli.IntFlag{
			Name:    "smtp-port",
			Usage:   "SMTP port",
			Value:   mail.DefaultPort,
			Sources: cli.EnvVars("SMTP_PORT"),
		},
		&cli.StringFlag{
			Name:    "smtp-username",
			Usage:   "SMTP username",
			Sources: cli.EnvVars("SMTP_USERNAME"),
		},
		&cli.StringFlag{
			Name:    "smtp-password",
			Usage:   "SMTP password",
			Sources: cli.EnvVars("SMTP_PASSWORD"),
		},
		&cli.StringFlag{
			Name:    "smtp-from",
			Usage:   "Sender address of notification mails",
			Value:   mail.DefaultFrom,
			Sources: cli.EnvVars("SMTP_FROM"),
		},
	}
}

// Flags concatenates flag groups.
func Flags(groups ...[]cli.Flag) []cli.Flag {
	var flags []cli.Flag
	for _, group := range groups {
		flags = append(flags, group...)
	}

	return flags
}

// shutdownTimeout bounds how long Close waits for in-flight runs.
const shutdownTimeout = 30 * time.Second
