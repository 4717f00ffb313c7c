package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"

	"hambax/artifact"
	"hambax/auth"
	"hambax/config"
	"hambax/gateway"
	"hambax/service"
	"hambax/tracing"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	log.Init(logrus.InfoLevel)

	cfg, err := config.Parse()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}

	if cfg.JaegerEndpoint != "" {
		tp := tracing.ConfigureTraceProvider(cfg.JaegerEndpoint)
		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				logrus.WithError(err).Error("failed to shut down trace provider")
			}
		}()
	}

	sqlDB, err := otelsql.Open("postgres", cfg.PostgresURL,
		otelsql.WithAttributes(semconv.DBSystemPostgreSQL),
	)
	if err != nil {
		logrus.WithError(err).Fatal("failed to connect to Postgres")
	}
	db := sqlx.NewDb(sqlDB, "postgres")
	defer db.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})
	defer redisClient.Close()

	renderer := artifact.NewRenderer(cfg.QRDir, cfg.PDFDir, artifact.EventDetails{
		Title:   cfg.EventTitle,
		Venue:   cfg.EventVenue,
		Address: cfg.EventAddress,
		Date:    cfg.EventDate,
	})

	mailer := gateway.NewMailer(gateway.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.EmailFrom,
	})

	svc := service.New(
		cfg.HTTPAddr,
		db,
		redisClient,
		gateway.NewStripeVerifier(cfg.StripeEndpointSecret),
		gateway.NewStripePayments(cfg.StripeSecretKey),
		mailer,
		renderer,
		auth.NewTokens(cfg.SessionSecret, cfg.VerificationSecret),
		cfg.PublicURL,
	)

	if err := svc.Run(ctx); err != nil {
		panic(fmt.Errorf("service failed: %w", err))
	}
}
