package catalog

import (
	"context"
	"database/sql"
	"errors"

	"github.com/joao-fontenele/commerce-api/internal/domain"
)

type ProductRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO productos (nombre, descripcion, precio, stock_disponible)
		VALUES ($1, $2, $3, $4)
		RETURNING `+productColumns+`
	`, p.Name, p.Description, p.Price, p.Stock).Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock)
}

func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	p := &domain.Product{}

	err := r.db.QueryRowContext(ctx, `
		SELECT `+productColumns+`
		FROM productos
		WHERE id = $1
	`, id).Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return p, nil
}

// Update replaces every mutable field and reloads p from the stored row; it
// reports false when id does not exist.
func (r *ProductRepository) Update(ctx context.Context, p *domain.Product) (bool, error) {
	err := r.db.QueryRowContext(ctx, `
		UPDATE productos
		SET nombre = $2, descripcion = $3, precio = $4, stock_disponible = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING `+productColumns+`
	`, p.ID, p.Name, p.Description, p.Price, p.Stock).Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}

	return true, nil
}

// Delete removes the product. Order lines that referenced it keep existing with
// a null product through the ON DELETE SET NULL foreign key.
func (r *ProductRepository) Delete(ctx context.Context, id int64) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM productos WHERE id = $1`, id)
	if err != nil {
		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rowsAffected > 0, nil
}

func (r *ProductRepository) Search(ctx context.Context, f domain.ProductFilter) ([]domain.Product, int64, error) {
	q := buildSearchQuery(f)

	var total int64
	if err := r.db.QueryRowContext(ctx, q.count, q.countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Product{}, 0, nil
	}

	rows, err := r.db.QueryContext(ctx, q.list, q.listArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = rows.Close() }()

	products := []domain.Product{}
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock); err != nil {
			return nil, 0, err
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return products, total, nil
}
