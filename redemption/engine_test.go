package redemption

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hambax/entity"
)

type ticketsRepoMock struct {
	lock    sync.Mutex
	tickets map[string]*entity.Ticket
}

func newTicketsRepoMock(codes ...string) *ticketsRepoMock {
	m := &ticketsRepoMock{tickets: map[string]*entity.Ticket{}}
	for _, code := range codes {
		m.tickets[code] = &entity.Ticket{RedemptionCode: code, Active: true}
	}
	return m
}

func (m *ticketsRepoMock) Deactivate(ctx context.Context, code string) (bool, error) {
	m.lock.Lock()
	defer m.lock.Unlock()

	ticket, ok := m.tickets[code]
	if !ok || !ticket.Active {
		return false, nil
	}
	ticket.Active = false
	return true, nil
}

func (m *ticketsRepoMock) GetByRedemptionCode(ctx context.Context, code string) (entity.Ticket, error) {
	m.lock.Lock()
	defer m.lock.Unlock()

	ticket, ok := m.tickets[code]
	if !ok {
		return entity.Ticket{}, entity.ErrNotFound
	}
	return *ticket, nil
}

type eventBusMock struct {
	lock      sync.Mutex
	published []any
	err       error
}

func (m *eventBusMock) Publish(ctx context.Context, event any) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	if m.err != nil {
		return m.err
	}
	m.published = append(m.published, event)
	return nil
}

func TestEngine_Redeem_onceOnly(t *testing.T) {
	ctx := context.Background()
	bus := &eventBusMock{}
	engine := NewEngine(newTicketsRepoMock("code-1"), bus)

	outcome, err := engine.Redeem(ctx, "code-1")
	require.NoError(t, err)
	assert.Equal(t, Admitted, outcome)

	outcome, err = engine.Redeem(ctx, "code-1")
	require.NoError(t, err)
	assert.Equal(t, AlreadyUsed, outcome)

	require.Len(t, bus.published, 1)
	redeemed, ok := bus.published[0].(entity.TicketRedeemed)
	require.True(t, ok)
	assert.Equal(t, "code-1", redeemed.RedemptionCode)
}

func TestEngine_Redeem_unknownCode(t *testing.T) {
	ctx := context.Background()
	engine := NewEngine(newTicketsRepoMock(), &eventBusMock{})

	outcome, err := engine.Redeem(ctx, "unknown")
	require.NoError(t, err)
	assert.Equal(t, NotFound, outcome)
}

func TestEngine_Redeem_concurrent(t *testing.T) {
	ctx := context.Background()
	engine := NewEngine(newTicketsRepoMock("code-1"), &eventBusMock{})

	const attempts = 10

	var wg sync.WaitGroup
	outcomes := make(chan Outcome, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			outcome, err := engine.Redeem(ctx, "code-1")
			assert.NoError(t, err)
			outcomes <- outcome
		}()
	}

	wg.Wait()
	close(outcomes)

	admitted := 0
	for outcome := range outcomes {
		if outcome == Admitted {
			admitted++
		}
	}
	assert.Equal(t, 1, admitted)
}

func TestEngine_Redeem_publishFailureDoesNotFailAdmit(t *testing.T) {
	ctx := context.Background()
	bus := &eventBusMock{err: errors.New("redis down")}
	engine := NewEngine(newTicketsRepoMock("code-1"), bus)

	outcome, err := engine.Redeem(ctx, "code-1")
	require.NoError(t, err)
	assert.Equal(t, Admitted, outcome)
}
