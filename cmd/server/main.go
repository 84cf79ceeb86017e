package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"intake/internal/intake/dispatch"
	"intake/internal/intake/document"
	"intake/internal/intake/handler"
	intakemetrics "intake/internal/intake/metrics"
	"intake/internal/intake/service"
	"intake/internal/locale"
	"intake/internal/platform/config"
	"intake/internal/platform/httpserver"
	"intake/internal/platform/logger"
	"intake/internal/platform/mail"
	"intake/internal/platform/metrics"
	"intake/internal/platform/middleware"
	httptransport "intake/internal/transport/http"
)

// main wires dependencies and runs the HTTP server until SIGINT or SIGTERM.
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "intake: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.New(cfg.Log)

	catalog, err := locale.Lookup(cfg.Clinic.Language)
	if err != nil {
		return err
	}

	mailer, err := mail.Open(mail.Options{
		Driver: cfg.Mail.Driver,
		SMTP: mail.SMTPConfig{
			Host:        cfg.Mail.SMTPHost,
			Port:        cfg.Mail.SMTPPort,
			Username:    cfg.Mail.User,
			Password:    cfg.Mail.Password,
			TLSPolicy:   cfg.Mail.TLSPolicy,
			DialTimeout: cfg.Mail.DialTimeout,
		},
		SendGridAPIKey: cfg.Mail.SendGridAPIKey,
		Logger:         log,
	})
	if err != nil {
		return err
	}

	composer := document.NewComposer(catalog, document.NewPDFRenderer())
	dispatcher := dispatch.New(dispatch.Config{
		Recipient:   cfg.Clinic.Recipient,
		FromName:    cfg.Mail.FromName,
		FromAddress: cfg.Mail.Sender(),
		SendTimeout: cfg.Mail.SendTimeout,
	}, mailer, catalog, log)
	pipeline := service.New(composer, dispatcher, catalog, log,
		service.WithMetrics(intakemetrics.New()),
		service.WithLocation(cfg.Clinic.Location),
	)

	rateLimiter := middleware.NewRateLimiter(time.Minute)
	defer rateLimiter.Stop()

	router := httptransport.NewRouter(httptransport.RouterDeps{
		Logger:      log,
		CORS:        cfg.CORS,
		RateLimit:   cfg.RateLimit,
		RateLimiter: rateLimiter,
		Metrics:     metrics.New(),
		Intake:      handler.New(pipeline, catalog, log, cfg.Server.MaxBodyBytes),
	})
	srv := httpserver.New(cfg.Server, router)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("starting intake service",
		slog.String("addr", cfg.Server.Addr),
		slog.String("mail_driver", cfg.Mail.Driver),
		slog.String("language", cfg.Clinic.Language),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return httpserver.Run(gctx, srv, cfg.Server.ShutdownTimeout, log)
	})
	g.Go(func() error {
		<-gctx.Done()
		rateLimiter.Stop()
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error("server stopped with error", slog.Any("error", err))
		return err
	}
	log.Info("server stopped")
	return nil
}
