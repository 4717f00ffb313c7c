package gateway

import (
	"context"
	"sync"

	"hambax/entity"
)

type MailerMock struct {
	mock sync.Mutex

	SentTickets       []entity.Ticket
	VerificationLinks map[string]string
}

func (m *MailerMock) SendTicket(ctx context.Context, ticket entity.Ticket) error {
	m.mock.Lock()
	defer m.mock.Unlock()

	m.SentTickets = append(m.SentTickets, ticket)
	return nil
}

func (m *MailerMock) SendVerificationLink(ctx context.Context, email, link string) error {
	m.mock.Lock()
	defer m.mock.Unlock()

	if m.VerificationLinks == nil {
		m.VerificationLinks = make(map[string]string)
	}
	m.VerificationLinks[email] = link
	return nil
}

func (m *MailerMock) SentTicketsCount() int {
	m.mock.Lock()
	defer m.mock.Unlock()

	return len(m.SentTickets)
}

func (m *MailerMock) VerificationLinkFor(email string) string {
	m.mock.Lock()
	defer m.mock.Unlock()

	return m.VerificationLinks[email]
}
