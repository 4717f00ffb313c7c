package tickets

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"

	dbutils "hambax/db"
	"hambax/entity"
)

func newTestTicket() entity.Ticket {
	return entity.Ticket{
		RedemptionCode:   uuid.NewString(),
		Email:            "foo@bar.com",
		PaymentReference: "pi_" + uuid.NewString(),
		AmountCents:      1200,
		Active:           true,
		CreatedAt:        time.Now().UTC(),
	}
}

func TestTicketsRepository_Store_idempotency(t *testing.T) {
	ctx := context.Background()

	db := dbutils.GetDb(t)
	repo := NewPostgresRepository(db)

	ticket := newTestTicket()

	for i := 0; i < 2; i++ {
		err := repo.Store(ctx, ticket)
		require.NoError(t, err)

		stored, err := repo.GetByPaymentReference(ctx, ticket.PaymentReference)
		require.NoError(t, err)
		require.Equal(t, ticket.RedemptionCode, stored.RedemptionCode)
		require.True(t, stored.Active)
	}
}

func TestTicketsRepository_Deactivate_once(t *testing.T) {
	ctx := context.Background()

	db := dbutils.GetDb(t)
	repo := NewPostgresRepository(db)

	ticket := newTestTicket()
	require.NoError(t, repo.Store(ctx, ticket))

	admitted, err := repo.Deactivate(ctx, ticket.RedemptionCode)
	require.NoError(t, err)
	require.True(t, admitted)

	admitted, err = repo.Deactivate(ctx, ticket.RedemptionCode)
	require.NoError(t, err)
	require.False(t, admitted)

	stored, err := repo.GetByRedemptionCode(ctx, ticket.RedemptionCode)
	require.NoError(t, err)
	require.False(t, stored.Active)
}

func TestTicketsRepository_Deactivate_concurrent(t *testing.T) {
	ctx := context.Background()

	db := dbutils.GetDb(t)
	repo := NewPostgresRepository(db)

	ticket := newTestTicket()
	require.NoError(t, repo.Store(ctx, ticket))

	const attempts = 10

	var wg sync.WaitGroup
	results := make(chan bool, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			admitted, err := repo.Deactivate(ctx, ticket.RedemptionCode)
			require.NoError(t, err)
			results <- admitted
		}()
	}

	wg.Wait()
	close(results)

	admittedCount := 0
	for admitted := range results {
		if admitted {
			admittedCount++
		}
	}
	require.Equal(t, 1, admittedCount)
}

func TestTicketsRepository_Deactivate_unknownCode(t *testing.T) {
	ctx := context.Background()

	db := dbutils.GetDb(t)
	repo := NewPostgresRepository(db)

	admitted, err := repo.Deactivate(ctx, "no-such-code")
	require.NoError(t, err)
	require.False(t, admitted)

	_, err = repo.GetByRedemptionCode(ctx, "no-such-code")
	require.ErrorIs(t, err, entity.ErrNotFound)
}

func TestTicketsRepository_MarkNotificationSent(t *testing.T) {
	ctx := context.Background()

	db := dbutils.GetDb(t)
	repo := NewPostgresRepository(db)

	ticket := newTestTicket()
	require.NoError(t, repo.Store(ctx, ticket))

	require.NoError(t, repo.MarkNotificationSent(ctx, ticket.PaymentReference))

	stored, err := repo.GetByPaymentReference(ctx, ticket.PaymentReference)
	require.NoError(t, err)
	require.True(t, stored.NotificationSent)
}
