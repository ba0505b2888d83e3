package catalog

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

type productRequest struct {
	Name        string  `json:"nombre" validate:"required,min=10,max=50"`
	Description string  `json:"descripcion" validate:"required,min=10,max=500"`
	Price       float64 `json:"precio"`
	Stock       int     `json:"stockDisponible"`
}

func (req productRequest) product() *domain.Product {
	return &domain.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
	}
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := httpx.Decode(r, &req); err != nil {
		h.writeError(w, err)
		return
	}

	product := req.product()
	if err := h.service.Create(r.Context(), product); err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, product)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		h.writeError(w, err)
		return
	}

	product, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, product)
}

func (h *Handler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	page, size, err := httpx.Pagination(r, defaultPageSize)
	if err != nil {
		h.writeError(w, err)
		return
	}

	minPrice, err := httpx.QueryFloat(r, "minPrice")
	if err != nil {
		h.writeError(w, err)
		return
	}
	maxPrice, err := httpx.QueryFloat(r, "maxPrice")
	if err != nil {
		h.writeError(w, err)
		return
	}

	result, err := h.service.Search(r.Context(), domain.ProductFilter{
		Keyword:  r.URL.Query().Get("keyword"),
		MinPrice: minPrice,
		MaxPrice: maxPrice,
		Page:     page,
		Size:     size,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.logger.Debug("products listed", "count", len(result.Content), "total", result.TotalElements)
	h.writeJSON(w, http.StatusOK, result)
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		h.writeError(w, err)
		return
	}

	var req productRequest
	if err := httpx.Decode(r, &req); err != nil {
		h.writeError(w, err)
		return
	}

	product := req.product()
	if err := h.service.Update(r.Context(), id, product); err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, product)
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

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	httpx.WriteJSON(w, h.logger, status, data)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	httpx.WriteError(w, h.logger, err)
}
