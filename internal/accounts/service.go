package accounts

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/joao-fontenele/commerce-api/internal/domain"
)

type Store interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	DeleteByEmail(ctx context.Context, email string) (bool, error)
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) (bool, error)
}

type TokenIssuer interface {
	Issue(email string) (string, error)
}

type Service struct {
	store  Store
	hasher PasswordHasher
	tokens TokenIssuer
	logger *slog.Logger
}

func NewService(store Store, hasher PasswordHasher, tokens TokenIssuer, logger *slog.Logger) *Service {
	return &Service{
		store:  store,
		hasher: hasher,
		tokens: tokens,
		logger: logger,
	}
}

type Registration struct {
	Name     string
	Email    string
	Password string
}

// Register creates an enabled account and returns a session token for it.
func (s *Service) Register(ctx context.Context, reg Registration) (string, error) {
	existing, err := s.store.GetByEmail(ctx, reg.Email)
	if err != nil {
		return "", fmt.Errorf("lookup user: %w", err)
	}
	if existing != nil {
		return "", emailTaken(reg.Email)
	}

	hash, err := s.hasher.Hash(reg.Password)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Name:         reg.Name,
		Email:        reg.Email,
		PasswordHash: hash,
		Enabled:      true,
	}
	if err := s.store.Create(ctx, user); err != nil {
		return "", err
	}

	s.logger.Info("user registered", "user_id", user.ID)
	return s.tokens.Issue(user.Email)
}

func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		return "", fmt.Errorf("lookup user: %w", err)
	}
	if user == nil || !user.Enabled {
		return "", badCredentials()
	}

	ok, err := s.hasher.Compare(user.PasswordHash, password)
	if err != nil {
		return "", fmt.Errorf("compare password: %w", err)
	}
	if !ok {
		return "", badCredentials()
	}

	return s.tokens.Issue(user.Email)
}

func (s *Service) Get(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if user == nil {
		return nil, domain.UserNotFound(email)
	}
	return user, nil
}

type Changes struct {
	Name     string
	Email    string
	Password string
	Enabled  *bool
}

// Update replaces name, email and enabled flag of the account identified by
// email. An empty Password keeps the current credential.
func (s *Service) Update(ctx context.Context, email string, changes Changes) (*domain.User, error) {
	user, err := s.Get(ctx, email)
	if err != nil {
		return nil, err
	}

	if changes.Email != user.Email {
		other, err := s.store.GetByEmail(ctx, changes.Email)
		if err != nil {
			return nil, fmt.Errorf("lookup user: %w", err)
		}
		if other != nil && other.ID != user.ID {
			return nil, emailTaken(changes.Email)
		}
	}

	user.Name = changes.Name
	user.Email = changes.Email
	if changes.Enabled != nil {
		user.Enabled = *changes.Enabled
	}
	if changes.Password != "" {
		hash, err := s.hasher.Hash(changes.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = hash
	}

	if err := s.store.Update(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user updated", "user_id", user.ID)
	return user, nil
}

func (s *Service) Delete(ctx context.Context, email string) error {
	deleted, err := s.store.DeleteByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if !deleted {
		return domain.UserNotFound(email)
	}

	s.logger.Info("user deleted", "email", email)
	return nil
}

func badCredentials() error {
	return domain.Errorf(domain.ErrAuthenticationFailed, "Credenciales invalidas.")
}
