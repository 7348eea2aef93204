// Copyright Open-Xchange GmbH and each contributor to OX App Suite.
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package main is the notification daemon: it consumes calendar event change
// messages from NATS and mails the resulting notifications to participants.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/robfig/cron/v3"

	"github.com/open-xchange/appsuite-middleware-sub049/internal/domain"
	"github.com/open-xchange/appsuite-middleware-sub049/internal/infrastructure/cache"
	"github.com/open-xchange/appsuite-middleware-sub049/internal/infrastructure/email"
	"github.com/open-xchange/appsuite-middleware-sub049/internal/infrastructure/i18n"
	"github.com/open-xchange/appsuite-middleware-sub049/internal/infrastructure/messaging"
	"github.com/open-xchange/appsuite-middleware-sub049/internal/infrastructure/recurrence"
	"github.com/open-xchange/appsuite-middleware-sub049/internal/logging"
	"github.com/open-xchange/appsuite-middleware-sub049/pkg/concurrent"
)

func main() {
	parseFlags()
	logging.InitStructureLogConfig()

	env, err := parseEnv()
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error parsing environment")
		os.Exit(1)
	}

	catalogs, err := i18n.LoadEmbedded()
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error loading locale catalogs")
		os.Exit(1)
	}

	emailService, err := setupEmailService(env)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error setting up email service")
		os.Exit(1)
	}

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	natsConn, err := setupNATS(env, done)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error setting up NATS")
		os.Exit(1)
	}

	attachmentCache := cache.NewAttachmentCache(env.CacheTTL, nil)
	scheduler := cron.New()
	_, err = scheduler.AddFunc(env.PurgeSchedule, func() {
		removed := attachmentCache.Purge()
		slog.Debug("purged attachment change cache", "removed", removed, "remaining", attachmentCache.Len())
	})
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error scheduling cache purge")
		os.Exit(1)
	}
	scheduler.Start()

	d := &dispatcher{
		resolver:      recurrence.NewResolver(),
		attachments:   attachmentCache,
		table:         catalogs,
		emails:        emailService,
		pool:          concurrent.NewWorkerPool(env.WorkerCount),
		defaultLocale: env.DefaultLocale,
	}

	ingress := messaging.NewIngress(natsConn, d.Handle)
	subscription, err := ingress.Start(ctx)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error starting event change ingress")
		os.Exit(1)
	}

	slog.Info("notification daemon running",
		"subject", messaging.EventChangeSubject,
		"locales", catalogs.Locales(),
		"workers", env.WorkerCount)

	// This next line blocks until SIGINT or SIGTERM is received.
	<-done

	slog.Info("shutting down notification daemon")
	cancel()
	scheduler.Stop()
	if err := subscription.Drain(); err != nil {
		slog.With(logging.ErrKey, err).Warn("error draining subscription")
	}
	if err := natsConn.Drain(); err != nil {
		slog.With(logging.ErrKey, err).Warn("error draining NATS connection")
	}
}

// setupEmailService picks the SMTP transport or, when mailing is disabled,
// a logging no-op stand-in.
func setupEmailService(env environment) (domain.EmailService, error) {
	if !env.EmailEnabled {
		return email.NewNoOpService(), nil
	}
	return email.NewSMTPService(email.SMTPConfig{
		Host:     env.SMTPHost,
		Port:     env.SMTPPort,
		From:     env.SMTPFrom,
		Username: env.SMTPUsername,
		Password: env.SMTPPassword,
	}, email.NewITIPGenerator())
}

// setupNATS connects to the NATS server. A closed connection ends the
// daemon through the signal channel.
func setupNATS(env environment, done chan os.Signal) (*nats.Conn, error) {
	return nats.Connect(env.NATSURL,
		nats.Name("notify-daemon"),
		nats.ReconnectWait(2*time.Second),
		nats.MaxReconnects(-1),
		nats.ClosedHandler(func(*nats.Conn) {
			slog.Warn("NATS connection closed")
			done <- syscall.SIGTERM
		}),
	)
}
