package config

import (
	"fmt"

	"github.com/jessevdk/go-flags"
)

// Config carries every runtime knob of the service. Values come from the
// environment, flags override for local runs.
type Config struct {
	HTTPAddr string `long:"http-addr" env:"HTTP_ADDR" default:":8080" description:"HTTP listen address"`

	PostgresURL string `long:"postgres-url" env:"POSTGRES_URL" required:"true" description:"Postgres connection string"`
	RedisAddr   string `long:"redis-addr" env:"REDIS_ADDR" required:"true" description:"Redis address"`

	StripeSecretKey      string `long:"stripe-secret-key" env:"STRIPE_SECRET_KEY" required:"true" description:"Stripe API secret key"`
	StripeEndpointSecret string `long:"stripe-endpoint-secret" env:"STRIPE_ENDPOINT_SECRET" required:"true" description:"Stripe webhook endpoint secret"`

	SessionSecret      string `long:"session-secret" env:"SESSION_SECRET" required:"true" description:"HMAC secret for session tokens"`
	VerificationSecret string `long:"verification-secret" env:"VERIFICATION_SECRET" required:"true" description:"HMAC secret for email verification tokens"`

	SMTPHost     string `long:"smtp-host" env:"SMTP_HOST" required:"true" description:"SMTP server host"`
	SMTPPort     int    `long:"smtp-port" env:"SMTP_PORT" default:"587" description:"SMTP server port"`
	SMTPUsername string `long:"smtp-username" env:"SMTP_USERNAME" description:"SMTP username"`
	SMTPPassword string `long:"smtp-password" env:"SMTP_PASSWORD" description:"SMTP password"`
	EmailFrom    string `long:"email-from" env:"EMAIL_FROM" required:"true" description:"Sender address for outgoing mail"`

	// PublicURL is the externally reachable base URL, used to build the
	// verification links mailed to new accounts.
	PublicURL string `long:"public-url" env:"PUBLIC_URL" default:"http://localhost:8080" description:"Public base URL of the service"`

	QRDir  string `long:"qr-dir" env:"QR_DIR" default:"qr_codes" description:"Directory for rendered QR code images"`
	PDFDir string `long:"pdf-dir" env:"PDF_DIR" default:"tickets" description:"Directory for rendered ticket PDFs"`

	JaegerEndpoint string `long:"jaeger-endpoint" env:"JAEGER_ENDPOINT" description:"Jaeger collector endpoint (tracing disabled when empty)"`

	EventTitle   string `long:"event-title" env:"EVENT_TITLE" default:"HAMBAX" description:"Event title printed on tickets"`
	EventVenue   string `long:"event-venue" env:"EVENT_VENUE" default:"" description:"Event venue printed on tickets"`
	EventAddress string `long:"event-address" env:"EVENT_ADDRESS" default:"" description:"Event address printed on tickets"`
	EventDate    string `long:"event-date" env:"EVENT_DATE" default:"" description:"Event date printed on tickets"`
}

func Parse() (Config, error) {
	var cfg Config
	if _, err := flags.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("could not parse config: %w", err)
	}
	return cfg, nil
}
