package service

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"hambax/auth"
	"hambax/db"
	"hambax/db/datalake"
	"hambax/db/processedevents"
	"hambax/db/tickets"
	"hambax/db/users"
	"hambax/http"
	"hambax/intake"
	"hambax/issuance"
	"hambax/pubsub"
	"hambax/pubsub/bus"
	"hambax/pubsub/outbox"
	"hambax/redemption"
)

func init() {
	log.Init(logrus.InfoLevel)
}

// Notifier delivers the two kinds of outgoing mail.
type Notifier interface {
	intake.Notifier
	auth.Notifier
}

type Service struct {
	db              *sqlx.DB
	watermillRouter *message.Router
	httpServer      *http.Server
}

func New(
	addr string,
	db *sqlx.DB,
	redisClient *redis.Client,
	verifier http.PaymentVerifier,
	payments http.PaymentsService,
	notifier Notifier,
	renderer issuance.Renderer,
	tokens auth.Tokens,
	publicURL string,
) Service {
	ticketsRepo := tickets.NewPostgresRepository(db)
	usersRepo := users.NewPostgresRepository(db)
	ledger := processedevents.NewPostgresRepository(db)
	dataLake := datalake.NewDataLake(db)

	watermillLogger := log.NewWatermill(log.FromContext(context.Background()))

	var redisPublisher message.Publisher
	redisPublisher = pubsub.NewRedisPublisher(redisClient, watermillLogger)
	redisPublisher = log.CorrelationPublisherDecorator{Publisher: redisPublisher}

	eventBus, err := bus.NewEventBus(redisPublisher)
	if err != nil {
		panic(fmt.Errorf("failed to create event bus: %w", err))
	}

	issuer := issuance.NewIssuer(ticketsRepo, renderer)
	intakeService := intake.NewService(ledger, issuer, notifier, ticketsRepo)
	redemptionEngine := redemption.NewEngine(ticketsRepo, eventBus)
	authService := auth.NewService(usersRepo, tokens, notifier, publicURL)

	postgresSubscriber, err := outbox.NewPostgresSubscriber(db.DB, watermillLogger)
	if err != nil {
		panic(fmt.Errorf("failed to create outbox subscriber: %w", err))
	}

	eventProcessorConfig := pubsub.NewEventProcessorConfig(redisClient, watermillLogger)

	watermillRouter, err := pubsub.NewWatermillRouter(
		postgresSubscriber,
		redisPublisher,
		eventProcessorConfig,
		dataLake,
		watermillLogger,
	)
	if err != nil {
		panic(fmt.Errorf("failed to create watermill router: %w", err))
	}

	httpServer := http.NewServer(
		addr,
		verifier,
		payments,
		intakeService,
		redemptionEngine,
		ticketsRepo,
		authService,
	)

	return Service{
		db,
		watermillRouter,
		httpServer,
	}
}

func (s Service) Run(ctx context.Context) error {
	if err := db.InitializeDatabaseSchema(s.db); err != nil {
		return fmt.Errorf("failed to initialize database schema: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return s.watermillRouter.Run(ctx)
	})

	g.Go(func() error {
		// the service should not report healthy before the router consumes
		<-s.watermillRouter.Running()

		return s.httpServer.Run(ctx)
	})

	return g.Wait()
}
