package auth

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"hambax/entity"
)

type UsersRepository interface {
	Create(ctx context.Context, user entity.User) error
	GetByEmail(ctx context.Context, email string) (entity.User, error)
	MarkVerified(ctx context.Context, userID string) error
	Delete(ctx context.Context, userID string) error
}

type Notifier interface {
	SendVerificationLink(ctx context.Context, email, link string) error
}

type Service struct {
	users         UsersRepository
	tokens        Tokens
	notifier      Notifier
	verifyBaseURL string
}

func NewService(users UsersRepository, tokens Tokens, notifier Notifier, verifyBaseURL string) Service {
	if users == nil {
		panic("missing users repository")
	}
	if notifier == nil {
		panic("missing notifier")
	}

	return Service{
		users:         users,
		tokens:        tokens,
		notifier:      notifier,
		verifyBaseURL: verifyBaseURL,
	}
}

// Register creates an unverified account and mails a verification link.
// A duplicate email returns entity.ErrConflict.
func (s Service) Register(ctx context.Context, email, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("could not hash password: %w", err)
	}

	user := entity.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		Role:         entity.RoleRegularUser,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return err
	}

	token, err := s.tokens.NewVerificationToken(user.ID)
	if err != nil {
		s.discardAccount(ctx, user.ID)
		return err
	}

	link := fmt.Sprintf("%s/api/auth/verify/%s", s.verifyBaseURL, token)
	if err := s.notifier.SendVerificationLink(ctx, email, link); err != nil {
		s.discardAccount(ctx, user.ID)
		return fmt.Errorf("could not send verification email: %w", err)
	}

	log.FromContext(ctx).WithField("email", email).Info("User registered")
	return nil
}

// discardAccount removes an account whose verification link never went out.
// Without this the email would stay taken with no way to request a new link,
// since a retried registration answers conflict.
func (s Service) discardAccount(ctx context.Context, userID string) {
	if err := s.users.Delete(ctx, userID); err != nil {
		log.FromContext(ctx).WithError(err).Error("could not discard unverified account")
	}
}

// Login returns a session token. Unknown email maps to entity.ErrNotFound,
// a wrong password to entity.ErrInvalidCredentials and an unverified account
// to entity.ErrNotVerified, so the handler can keep the three responses
// distinct.
func (s Service) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", entity.ErrInvalidCredentials
	}

	if !user.Verified {
		return "", entity.ErrNotVerified
	}

	return s.tokens.NewSessionToken(user.ID)
}

// Verify consumes a verification token and flips the account's verified flag.
func (s Service) Verify(ctx context.Context, token string) error {
	userID, err := s.tokens.ParseVerificationToken(token)
	if err != nil {
		return err
	}

	return s.users.MarkVerified(ctx, userID)
}
