package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/fitcoach/coaching-platform/internal/core/domain"
	"github.com/fitcoach/coaching-platform/internal/core/ports"
)

// AccountService implements registration and login. Registration is
// where a member first exists, so it also runs the default-role path
// and, when a default trainer is configured, the auto-assignment that
// gives new clients a coach from day one.
type AccountService struct {
	repo             ports.AccountRepository
	roles            ports.RoleDirectory
	relationships    ports.RelationshipDirectory
	notifier         ports.Notifier // may be nil
	jwtSecret        string
	tokenTTL         time.Duration
	defaultTrainerID string
	log              zerolog.Logger
}

func NewAccountService(
	repo ports.AccountRepository,
	roles ports.RoleDirectory,
	relationships ports.RelationshipDirectory,
	notifier ports.Notifier,
	jwtSecret string,
	tokenTTL time.Duration,
	defaultTrainerID string,
	log zerolog.Logger,
) *AccountService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AccountService{
		repo:             repo,
		roles:            roles,
		relationships:    relationships,
		notifier:         notifier,
		jwtSecret:        jwtSecret,
		tokenTTL:         tokenTTL,
		defaultTrainerID: defaultTrainerID,
		log:              log,
	}
}

func (s *AccountService) Register(ctx context.Context, in ports.RegisterInput) (*domain.Account, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	acct, err := s.repo.Create(ctx, &domain.Account{
		Email:        email,
		Name:         in.Name,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}

	// First authenticated use: the member gets the default client role.
	// The conditional insert underneath makes a re-run harmless.
	if _, err := s.roles.EnsureDefaultRole(ctx, acct.ID); err != nil {
		return nil, fmt.Errorf("register %s: %w", email, err)
	}

	if s.defaultTrainerID != "" {
		if err := s.relationships.Assign(ctx, acct.ID, s.defaultTrainerID); err != nil {
			// The account and role exist; a failed auto-assignment is
			// recoverable by an admin and must not orphan the signup.
			s.log.Error().Err(err).Str("member_id", acct.ID).Msg("default trainer auto-assignment failed")
		} else if s.notifier != nil {
			s.notifier.Enqueue(ports.TrainerNotification{
				TrainerID: s.defaultTrainerID,
				ClientID:  acct.ID,
				Type:      "new_client",
				Message:   fmt.Sprintf("New client signed up: %s", acct.Name),
			})
		}
	}

	s.log.Info().Str("member_id", acct.ID).Msg("account registered")
	return acct, nil
}

func (s *AccountService) Login(ctx context.Context, email, password string) (string, *domain.Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	acct, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.generateToken(acct)
	if err != nil {
		return "", nil, err
	}
	return token, acct, nil
}

// generateToken signs a bearer token carrying the member id and email.
// Deliberately no role claim: the role is resolved server-side on every
// request so a stale token can never carry yesterday's privileges.
func (s *AccountService) generateToken(acct *domain.Account) (string, error) {
	claims := jwt.MapClaims{
		"member_id": acct.ID,
		"email":     acct.Email,
		"exp":       time.Now().Add(s.tokenTTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
