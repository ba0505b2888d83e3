package orders

import (
	"log/slog"
	"net/http"

	"github.com/joao-fontenele/commerce-api/internal/domain"
	"github.com/joao-fontenele/commerce-api/internal/httpx"
)

const defaultPageSize = 10

type Handler struct {
	service *Service
	logger  *slog.Logger
}

func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

type placeOrderRequest struct {
	Username string               `json:"username" validate:"required,email"`
	Lines    []domain.LineRequest `json:"detalles" validate:"dive"`
}

// HandleCreate answers every rejected placement with 400, including an
// unknown buyer or product.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req placeOrderRequest
	if err := httpx.Decode(r, &req); err != nil {
		h.writeError(w, err)
		return
	}

	order, err := h.service.PlaceOrder(r.Context(), req.Username, req.Lines)
	if err != nil {
		status := httpx.StatusFor(domain.KindOf(err))
		if status == http.StatusNotFound {
			status = http.StatusBadRequest
		}
		httpx.WriteErrorStatus(w, h.logger, status, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, order)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		h.writeError(w, err)
		return
	}

	order, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.logger.Debug("order retrieved", "order_id", order.ID)
	h.writeJSON(w, http.StatusOK, order)
}

// HandleView serves the sub-resources of an order: its lines ("productos") and
// its detail ("detalle").
func (h *Handler) HandleView(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		h.writeError(w, err)
		return
	}

	switch r.PathValue("view") {
	case "productos":
		lines, err := h.service.Lines(r.Context(), id)
		if err != nil {
			h.writeError(w, err)
			return
		}
		h.writeJSON(w, http.StatusOK, lines)

	case "detalle":
		detail, err := h.service.Detail(r.Context(), id)
		if err != nil {
			h.writeError(w, err)
			return
		}
		h.writeJSON(w, http.StatusOK, detail)

	default:
		http.NotFound(w, r)
	}
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		h.writeError(w, err)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleListByBuyer(w http.ResponseWriter, r *http.Request) {
	page, size, err := httpx.Pagination(r, defaultPageSize)
	if err != nil {
		h.writeError(w, err)
		return
	}

	result, err := h.service.ListByBuyer(r.Context(), r.PathValue("email"), page, size)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.logger.Debug("orders listed", "count", len(result.Content), "total", result.TotalElements)
	h.writeJSON(w, http.StatusOK, result)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	httpx.WriteJSON(w, h.logger, status, data)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	httpx.WriteError(w, h.logger, err)
}
