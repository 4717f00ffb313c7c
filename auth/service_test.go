package auth

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hambax/entity"
)

type usersRepoMock struct {
	lock  sync.Mutex
	users map[string]entity.User
}

func newUsersRepoMock() *usersRepoMock {
	return &usersRepoMock{users: map[string]entity.User{}}
}

func (m *usersRepoMock) Create(ctx context.Context, user entity.User) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	if _, ok := m.users[user.Email]; ok {
		return entity.ErrConflict
	}
	m.users[user.Email] = user
	return nil
}

func (m *usersRepoMock) GetByEmail(ctx context.Context, email string) (entity.User, error) {
	m.lock.Lock()
	defer m.lock.Unlock()

	user, ok := m.users[email]
	if !ok {
		return entity.User{}, entity.ErrNotFound
	}
	return user, nil
}

func (m *usersRepoMock) MarkVerified(ctx context.Context, userID string) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	for email, user := range m.users {
		if user.ID == userID {
			user.Verified = true
			m.users[email] = user
			return nil
		}
	}
	return entity.ErrNotFound
}

func (m *usersRepoMock) Delete(ctx context.Context, userID string) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	for email, user := range m.users {
		if user.ID == userID {
			delete(m.users, email)
			return nil
		}
	}
	return nil
}

type verificationNotifierMock struct {
	lock    sync.Mutex
	links   map[string]string
	failErr error
}

func (m *verificationNotifierMock) SendVerificationLink(ctx context.Context, email, link string) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	if m.failErr != nil {
		return m.failErr
	}
	if m.links == nil {
		m.links = map[string]string{}
	}
	m.links[email] = link
	return nil
}

func newTestService() (Service, *usersRepoMock, *verificationNotifierMock) {
	users := newUsersRepoMock()
	notifier := &verificationNotifierMock{}
	service := NewService(users, NewTokens("session-secret", "verification-secret"), notifier, "http://localhost:8080")
	return service, users, notifier
}

func TestService_Register_and_Verify_and_Login(t *testing.T) {
	ctx := context.Background()
	service, _, notifier := newTestService()

	require.NoError(t, service.Register(ctx, "a@x.com", "hunter22"))

	// unverified accounts are rejected distinctly from bad passwords
	_, err := service.Login(ctx, "a@x.com", "hunter22")
	require.ErrorIs(t, err, entity.ErrNotVerified)

	link := notifier.links["a@x.com"]
	require.NotEmpty(t, link)
	token := link[strings.LastIndex(link, "/")+1:]

	require.NoError(t, service.Verify(ctx, token))

	session, err := service.Login(ctx, "a@x.com", "hunter22")
	require.NoError(t, err)
	assert.NotEmpty(t, session)
}

func TestService_Register_duplicateEmail(t *testing.T) {
	ctx := context.Background()
	service, _, _ := newTestService()

	require.NoError(t, service.Register(ctx, "a@x.com", "hunter22"))

	err := service.Register(ctx, "a@x.com", "other-password")
	require.ErrorIs(t, err, entity.ErrConflict)
}

func TestService_Register_mailFailureFreesEmail(t *testing.T) {
	ctx := context.Background()
	service, users, notifier := newTestService()

	notifier.failErr = errors.New("smtp down")
	err := service.Register(ctx, "a@x.com", "hunter22")
	require.Error(t, err)

	// the account must not stay behind: it could never be verified
	_, err = users.GetByEmail(ctx, "a@x.com")
	require.ErrorIs(t, err, entity.ErrNotFound)

	// once the mailer recovers, the same email registers cleanly
	notifier.failErr = nil
	require.NoError(t, service.Register(ctx, "a@x.com", "hunter22"))
	assert.NotEmpty(t, notifier.links["a@x.com"])
}

func TestService_Login_errors(t *testing.T) {
	ctx := context.Background()
	service, _, notifier := newTestService()

	_, err := service.Login(ctx, "nobody@x.com", "whatever")
	require.ErrorIs(t, err, entity.ErrNotFound)

	require.NoError(t, service.Register(ctx, "a@x.com", "hunter22"))
	link := notifier.links["a@x.com"]
	require.NoError(t, service.Verify(ctx, link[strings.LastIndex(link, "/")+1:]))

	_, err = service.Login(ctx, "a@x.com", "wrong-password")
	require.ErrorIs(t, err, entity.ErrInvalidCredentials)
}
