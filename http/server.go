package http

import (
	"context"
	"errors"
	"net/http"

	echoHTTP "github.com/ThreeDotsLabs/go-event-driven/common/http"
	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"

	"hambax/entity"
	"hambax/intake"
	"hambax/redemption"
)

type PaymentVerifier interface {
	VerifyAndParse(payload []byte, signatureHeader string) (entity.PaymentEvent, error)
}

type PaymentsService interface {
	CreatePaymentIntent(ctx context.Context, currency string, amountCents int64) (string, error)
}

type TicketsRepository interface {
	GetByPaymentReference(ctx context.Context, paymentReference string) (entity.Ticket, error)
}

type AuthService interface {
	Register(ctx context.Context, email, password string) error
	Login(ctx context.Context, email, password string) (string, error)
	Verify(ctx context.Context, token string) error
}

type Server struct {
	addr        string
	e           *echo.Echo
	verifier    PaymentVerifier
	payments    PaymentsService
	intake      intake.Service
	redemption  redemption.Engine
	ticketsRepo TicketsRepository
	authService AuthService
}

func NewServer(
	addr string,
	verifier PaymentVerifier,
	payments PaymentsService,
	intakeService intake.Service,
	redemptionEngine redemption.Engine,
	ticketsRepo TicketsRepository,
	authService AuthService,
) *Server {
	e := echoHTTP.NewEcho()
	e.Use(otelecho.Middleware("hambax"))

	server := &Server{
		addr:        addr,
		e:           e,
		verifier:    verifier,
		payments:    payments,
		intake:      intakeService,
		redemption:  redemptionEngine,
		ticketsRepo: ticketsRepo,
		authService: authService,
	}

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	e.POST("/webhook", server.PostWebhook)

	e.POST("/api/tickets/check_qr", server.PostCheckQR)
	e.POST("/api/tickets/info", server.PostTicketInfo)
	e.POST("/api/tickets/status", server.PostTicketStatus)

	e.POST("/api/auth/register", server.PostRegister)
	e.POST("/api/auth/login", server.PostLogin)
	e.GET("/api/auth/verify/:token", server.GetVerify)

	e.POST("/api/payment/create-intent", server.PostCreatePaymentIntent)

	return server
}

func (s Server) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		err := s.e.Shutdown(ctx)
		if err != nil {
			log.FromContext(ctx).WithError(err).Error("failed to shutdown HTTP server")
		}
	}()
	log.FromContext(ctx).WithField("addr", s.addr).Info("[HTTP] server listening")
	if err := s.e.Start(s.addr); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
