package accounts

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/joao-fontenele/commerce-api/internal/domain"
)

type memoryStore struct {
	mu     sync.Mutex
	nextID int64
	users  map[string]*domain.User
}

func newMemoryStore() *memoryStore {
	return &memoryStore{users: map[string]*domain.User{}}
}

func (m *memoryStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[email]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (m *memoryStore) Create(_ context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[user.Email]; ok {
		return emailTaken(user.Email)
	}
	m.nextID++
	user.ID = m.nextID
	cp := *user
	m.users[user.Email] = &cp
	return nil
}

func (m *memoryStore) Update(_ context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for email, u := range m.users {
		if u.ID == user.ID {
			delete(m.users, email)
			cp := *user
			m.users[user.Email] = &cp
			return nil
		}
	}
	return domain.UserNotFound(user.Email)
}

func (m *memoryStore) DeleteByEmail(_ context.Context, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[email]; !ok {
		return false, nil
	}
	delete(m.users, email)
	return true, nil
}

// plainHasher keeps tests fast; bcrypt is covered in the auth package.
type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

func (plainHasher) Compare(hash, password string) (bool, error) {
	return strings.TrimPrefix(hash, "hashed:") == password, nil
}

type stubIssuer struct{}

func (stubIssuer) Issue(email string) (string, error) {
	return "token-for-" + email, nil
}

func newTestService() (*Service, *memoryStore) {
	store := newMemoryStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(store, plainHasher{}, stubIssuer{}, logger), store
}
