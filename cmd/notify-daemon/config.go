// Copyright Open-Xchange GmbH and each contributor to OX App Suite.
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/open-xchange/appsuite-middleware-sub049/internal/logging"
)

// flags are the command line flags for the notification daemon.
type flags struct {
	Debug bool
}

// environment are the environment variables for the notification daemon.
type environment struct {
	NATSURL       string `env:"NATS_URL" envDefault:"nats://localhost:4222"`
	DefaultLocale string `env:"DEFAULT_LOCALE" envDefault:"en-US"`
	WorkerCount   int    `env:"WORKER_COUNT" envDefault:"8"`

	EmailEnabled bool   `env:"EMAIL_ENABLED" envDefault:"false"`
	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPFrom     string `env:"SMTP_FROM"`
	SMTPUsername string `env:"SMTP_USERNAME"`
	SMTPPassword string `env:"SMTP_PASSWORD"`

	CacheTTL      time.Duration `env:"ATTACHMENT_CACHE_TTL" envDefault:"10m"`
	PurgeSchedule string        `env:"CACHE_PURGE_SCHEDULE" envDefault:"@every 5m"`
}

// parseFlags parses command line flags for the notification daemon.
func parseFlags() flags {
	var debug = flag.Bool("d", false, "enable debug logging")

	flag.Usage = func() {
		flag.PrintDefaults()
		os.Exit(2)
	}
	flag.Parse()

	// Based on the debug flag, set the log level environment variable used by
	// [logging.InitStructureLogConfig].
	if *debug {
		err := os.Setenv("LOG_LEVEL", "debug")
		if err != nil {
			slog.With(logging.ErrKey, err).Error("error setting log level")
			os.Exit(1)
		}
	}

	return flags{Debug: *debug}
}

// parseEnv parses environment variables for the notification daemon.
func parseEnv() (environment, error) {
	var e environment
	if err := env.Parse(&e); err != nil {
		return environment{}, fmt.Errorf("parse env: %w", err)
	}
	if e.EmailEnabled && (e.SMTPHost == "" || e.SMTPFrom == "") {
		return environment{}, fmt.Errorf("SMTP_HOST and SMTP_FROM are required when EMAIL_ENABLED is set")
	}
	return e, nil
}
