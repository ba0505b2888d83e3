package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrProductNotFound      = errors.New("product not found")
	ErrOrderNotFound        = errors.New("order not found")
	ErrEmptyOrder           = errors.New("empty order")
	ErrInsufficientStock    = errors.New("insufficient stock")
	ErrInvalidArgument      = errors.New("invalid argument")
	ErrEmailAlreadyExists   = errors.New("email already exists")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrUnauthorized         = errors.New("unauthorized")
)

type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindBadRequest
	KindConflict
	KindUnauthorized
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindBadRequest:
		return "bad_request"
	case KindConflict:
		return "conflict"
	case KindUnauthorized:
		return "unauthorized"
	default:
		return "internal"
	}
}

// Error pairs a sentinel with the message shown to API clients.
type Error struct {
	Code    error
	Message string
}

func Errorf(code error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Code
}

func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindInternal
	case errors.Is(err, ErrUserNotFound),
		errors.Is(err, ErrProductNotFound),
		errors.Is(err, ErrOrderNotFound):
		return KindNotFound
	case errors.Is(err, ErrEmptyOrder),
		errors.Is(err, ErrInsufficientStock),
		errors.Is(err, ErrInvalidArgument):
		return KindBadRequest
	case errors.Is(err, ErrEmailAlreadyExists):
		return KindConflict
	case errors.Is(err, ErrAuthenticationFailed),
		errors.Is(err, ErrUnauthorized):
		return KindUnauthorized
	default:
		return KindInternal
	}
}

// Message returns the client-facing message of err, or "" when err carries none.
func Message(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	return ""
}

func UserNotFound(identifier string) *Error {
	return Errorf(ErrUserNotFound, "Usuario no encontrado: %s", identifier)
}

func ProductNotFound(id int64) *Error {
	return Errorf(ErrProductNotFound, "Producto no encontrado con ID: %d", id)
}

func OrderNotFound(id int64) *Error {
	return Errorf(ErrOrderNotFound, "Pedido no encontrado con ID: %d", id)
}

func InsufficientStock(productName string) *Error {
	return Errorf(ErrInsufficientStock, "Stock insuficiente para el producto: %s", productName)
}

func InvalidArgument(message string) *Error {
	return &Error{Code: ErrInvalidArgument, Message: message}
}
