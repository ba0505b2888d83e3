package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/joao-fontenele/commerce-api/internal/domain"
)

// priceLimit is the first value that no longer fits productos.precio NUMERIC(12,2).
var priceLimit = decimal.New(1, 10)

type Store interface {
	Create(ctx context.Context, p *domain.Product) error
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	Update(ctx context.Context, p *domain.Product) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
	Search(ctx context.Context, f domain.ProductFilter) ([]domain.Product, int64, error)
}

type Service struct {
	store  Store
	logger *slog.Logger
}

func NewService(store Store, logger *slog.Logger) *Service {
	return &Service{store: store, logger: logger}
}

func (s *Service) Create(ctx context.Context, p *domain.Product) error {
	if err := validateProduct(p); err != nil {
		return err
	}

	if err := s.store.Create(ctx, p); err != nil {
		return fmt.Errorf("create product: %w", err)
	}

	s.logger.Info("product created", "product_id", p.ID)
	return nil
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Product, error) {
	p, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if p == nil {
		return nil, domain.ProductNotFound(id)
	}
	return p, nil
}

// Update fully replaces product id with p.
func (s *Service) Update(ctx context.Context, id int64, p *domain.Product) error {
	if err := validateProduct(p); err != nil {
		return err
	}

	p.ID = id
	updated, err := s.store.Update(ctx, p)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if !updated {
		return domain.ProductNotFound(id)
	}

	s.logger.Info("product updated", "product_id", id)
	return nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	deleted, err := s.store.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if !deleted {
		return domain.ProductNotFound(id)
	}

	s.logger.Info("product deleted", "product_id", id)
	return nil
}

// Search lists products matching f. A blank keyword lists the whole catalog
// with the same price bounds.
func (s *Service) Search(ctx context.Context, f domain.ProductFilter) (domain.Page[domain.Product], error) {
	if err := validatePriceRange(f.MinPrice, f.MaxPrice); err != nil {
		return domain.Page[domain.Product]{}, err
	}
	if err := domain.CheckPaging(f.Page, f.Size); err != nil {
		return domain.Page[domain.Product]{}, err
	}

	f.Keyword = strings.TrimSpace(f.Keyword)

	products, total, err := s.store.Search(ctx, f)
	if err != nil {
		return domain.Page[domain.Product]{}, fmt.Errorf("search products: %w", err)
	}

	return domain.NewPage(products, f.Page, f.Size, total), nil
}

// validateProduct accepts only values the productos columns store exactly, so
// the persisted row always matches what the client sent.
func validateProduct(p *domain.Product) error {
	price := decimal.NewFromFloat(p.Price)
	switch {
	case !price.IsPositive():
		return domain.InvalidArgument("El precio debe ser mayor que cero.")
	case !price.Equal(price.Truncate(2)):
		return domain.InvalidArgument("El precio admite como maximo dos decimales.")
	case price.GreaterThanOrEqual(priceLimit):
		return domain.Errorf(domain.ErrInvalidArgument, "El precio debe ser menor que %s.", priceLimit)
	}

	if p.Stock <= 0 {
		return domain.InvalidArgument("El stock debe ser mayor que cero.")
	}
	if p.Stock > domain.MaxStock {
		return domain.Errorf(domain.ErrInvalidArgument, "El stock no puede superar %d.", domain.MaxStock)
	}
	return nil
}

func validatePriceRange(minPrice, maxPrice *float64) error {
	if minPrice != nil && maxPrice != nil && *minPrice > *maxPrice {
		return domain.InvalidArgument("El precio minimo no puede ser mayor que el precio maximo.")
	}
	if (minPrice != nil && *minPrice <= 0) || (maxPrice != nil && *maxPrice <= 0) {
		return domain.InvalidArgument("Los filtros de precio deben ser mayores que cero.")
	}
	return nil
}
