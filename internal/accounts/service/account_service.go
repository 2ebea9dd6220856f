package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/hooked-app/hooked-backend/internal/accounts/domain"
	"github.com/hooked-app/hooked-backend/internal/auth"
	"github.com/hooked-app/hooked-backend/internal/logging"
)

// Repository is the persistence surface the service needs; satisfied by
// repository.AccountRepository.
type Repository interface {
	Create(ctx context.Context, a domain.Account) (string, error)
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
}

// LoginResult carries the session token and the account id it belongs to.
type LoginResult struct {
	Token     string
	AccountID string
}

// AccountService handles registration and login.
type AccountService struct {
	repo      Repository
	jwtSecret []byte
	logger    logging.Logger

	// decoyHash absorbs a verification pass when the email is unknown, so a
	// miss costs the same as a wrong password.
	decoyHash string

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

type Options struct {
	JWTSecret       string
	LoginRatePerMin int
	LoginBurst      int
}

func NewAccountService(repo Repository, opt Options, logger logging.Logger) (*AccountService, error) {
	decoy, err := auth.HashPassword("decoy")
	if err != nil {
		return nil, fmt.Errorf("preparing decoy hash: %w", err)
	}

	return &AccountService{
		repo:      repo,
		jwtSecret: []byte(opt.JWTSecret),
		logger:    logger.With("module", "accounts"),
		decoyHash: decoy,
		limiters:  make(map[string]*rate.Limiter),
		limit:     rate.Limit(float64(opt.LoginRatePerMin) / 60.0),
		burst:     opt.LoginBurst,
	}, nil
}

// Register hashes the password and stores the new account, returning its id.
// A hashing failure is fatal to the call.
func (s *AccountService) Register(ctx context.Context, email, password string) (string, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}

	id, err := s.repo.Create(ctx, domain.Account{
		Email:          email,
		HashedPassword: hash,
		CreatedAt:      time.Now().UnixMilli(),
	})
	if err != nil {
		return "", err
	}

	s.logger.Info(ctx, "account created", "email", email)
	return id, nil
}

// Login verifies the credentials and mints a one-hour session token with the
// email as subject. An unknown email and a wrong password both return the
// identical ErrInvalidCredentials.
func (s *AccountService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	if !s.allow(email) {
		return nil, domain.ErrTooManyAttempts
	}

	account, err := s.repo.FindByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		// Burn a verification pass anyway so the miss is not observable.
		_, _ = auth.VerifyPassword(s.decoyHash, password)
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	ok, err := auth.VerifyPassword(account.HashedPassword, password)
	if err != nil {
		return nil, fmt.Errorf("verifying password: %w", err)
	}
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(account.Email, s.jwtSecret, auth.TokenValidity)
	if err != nil {
		return nil, fmt.Errorf("minting session token: %w", err)
	}

	return &LoginResult{Token: token, AccountID: account.ID}, nil
}

// allow applies the per-email login rate limit.
func (s *AccountService) allow(email string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	limiter, ok := s.limiters[email]
	if !ok {
		limiter = rate.NewLimiter(s.limit, s.burst)
		s.limiters[email] = limiter
	}
	return limiter.Allow()
}
