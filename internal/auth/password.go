package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/joao-fontenele/commerce-api/internal/domain"
)

// MaxPasswordBytes is the longest input bcrypt hashes. Character based
// validation lets longer multibyte passwords through.
const MaxPasswordBytes = 72

type BcryptHasher struct {
	cost int
}

func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	if len(password) > MaxPasswordBytes {
		return "", domain.Errorf(domain.ErrInvalidArgument,
			"La contrasena no puede superar los %d bytes.", MaxPasswordBytes)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Compare reports whether password matches hash. Only a mismatch returns
// false with a nil error.
func (h *BcryptHasher) Compare(hash, password string) (bool, error) {
	if len(password) > MaxPasswordBytes {
		return false, nil
	}

	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, err
	}
}
