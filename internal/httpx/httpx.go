// Package httpx holds the request decoding and response writing shared by the
// API handlers.
package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/joao-fontenele/commerce-api/internal/domain"
)

const internalErrorMessage = "Error interno del servidor"

type ErrorResponse struct {
	Timestamp time.Time `json:"timestamp"`
	Status    int       `json:"status"`
	Message   string    `json:"message"`
}

func WriteJSON(w http.ResponseWriter, logger *slog.Logger, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode response", "error", err)
	}
}

func StatusFor(kind domain.Kind) int {
	switch kind {
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindBadRequest:
		return http.StatusBadRequest
	case domain.KindConflict:
		return http.StatusConflict
	case domain.KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// WriteError maps err onto the error taxonomy and writes the error body.
// Messages of unclassified errors are logged, never returned.
func WriteError(w http.ResponseWriter, logger *slog.Logger, err error) {
	WriteErrorStatus(w, logger, StatusFor(domain.KindOf(err)), err)
}

func WriteErrorStatus(w http.ResponseWriter, logger *slog.Logger, status int, err error) {
	message := domain.Message(err)

	switch {
	case status >= http.StatusInternalServerError:
		logger.Error("request failed", "error", err)
		message = internalErrorMessage
	default:
		logger.Warn("request rejected", "status", status, "error", err)
		if message == "" {
			message = defaultMessage(status, err)
		}
	}

	WriteJSON(w, logger, status, ErrorResponse{
		Timestamp: time.Now().UTC(),
		Status:    status,
		Message:   message,
	})
}

func defaultMessage(status int, err error) string {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		return "No autorizado."
	case status == http.StatusNotFound:
		return "Recurso no encontrado."
	default:
		return http.StatusText(status)
	}
}

// Decode reads a JSON body into dst and validates it.
func Decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return domain.InvalidArgument("El cuerpo de la peticion es obligatorio.")
		}
		return domain.InvalidArgument("Cuerpo de la peticion invalido.")
	}

	return Validate(dst)
}

func PathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil {
		return 0, domain.Errorf(domain.ErrInvalidArgument, "Identificador invalido: %s", r.PathValue(name))
	}
	return id, nil
}

func QueryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.Errorf(domain.ErrInvalidArgument, "Parametro %s invalido: %s", name, raw)
	}
	return n, nil
}

// QueryFloat returns nil when the parameter is absent.
func QueryFloat(r *http.Request, name string) (*float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}

	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, domain.Errorf(domain.ErrInvalidArgument, "Parametro %s invalido: %s", name, raw)
	}
	return &f, nil
}

// Pagination reads page (default 0) and size (default defSize) and applies
// domain.CheckPaging.
func Pagination(r *http.Request, defSize int) (page, size int, err error) {
	if page, err = QueryInt(r, "page", 0); err != nil {
		return 0, 0, err
	}
	if size, err = QueryInt(r, "size", defSize); err != nil {
		return 0, 0, err
	}

	if err := domain.CheckPaging(page, size); err != nil {
		return 0, 0, err
	}

	return page, size, nil
}
