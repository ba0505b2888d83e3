package orders

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/joao-fontenele/commerce-api/internal/domain"
)

type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// queries runs against either the pool or an open transaction.
type queries struct {
	q queryer
}

func (s queries) FindBuyer(ctx context.Context, email string) (*domain.User, error) {
	user := &domain.User{}

	err := s.q.QueryRowContext(ctx, `
		SELECT id, nombre, email, habilitado
		FROM usuarios
		WHERE email = $1
	`, email).Scan(&user.ID, &user.Name, &user.Email, &user.Enabled)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return user, nil
}

// FindProduct locks the product row for the rest of the transaction.
func (s queries) FindProduct(ctx context.Context, id int64) (*domain.Product, error) {
	p := &domain.Product{}

	err := s.q.QueryRowContext(ctx, `
		SELECT id, nombre, descripcion, precio, stock_disponible
		FROM productos
		WHERE id = $1
		FOR UPDATE
	`, id).Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return p, nil
}

// DecrementStock reports false when the product no longer has quantity units.
func (s queries) DecrementStock(ctx context.Context, productID int64, quantity int) (bool, error) {
	result, err := s.q.ExecContext(ctx, `
		UPDATE productos
		SET stock_disponible = stock_disponible - $2, updated_at = NOW()
		WHERE id = $1 AND stock_disponible >= $2
	`, productID, quantity)
	if err != nil {
		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rowsAffected > 0, nil
}

func (s queries) InsertOrder(ctx context.Context, order *domain.Order) error {
	return s.q.QueryRowContext(ctx, `
		INSERT INTO pedidos (usuario_id, usuario_email, precio, fecha_de_creacion)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, order.BuyerID, order.BuyerEmail, order.Total, order.CreatedAt).Scan(&order.ID)
}

func (s queries) InsertLine(ctx context.Context, orderID int64, line *domain.OrderLine) error {
	return s.q.QueryRowContext(ctx, `
		INSERT INTO detalles (pedido_id, producto_id, cantidad)
		VALUES ($1, $2, $3)
		RETURNING id
	`, orderID, line.ProductID, line.Quantity).Scan(&line.ID)
}

type OrderRepository struct {
	queries
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{queries: queries{q: db}, db: db}
}

// InTx runs fn in a transaction, committing only when fn returns nil.
func (r *OrderRepository) InTx(ctx context.Context, fn func(tx Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(queries{q: tx}); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *OrderRepository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	order := &domain.Order{}

	err := r.db.QueryRowContext(ctx, `
		SELECT id, usuario_id, usuario_email, precio, fecha_de_creacion
		FROM pedidos
		WHERE id = $1
	`, id).Scan(&order.ID, &order.BuyerID, &order.BuyerEmail, &order.Total, &order.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	lines, err := r.loadLines(ctx, []int64{id})
	if err != nil {
		return nil, err
	}
	order.Lines = lines[id]

	return order, nil
}

func (r *OrderRepository) ListByBuyer(ctx context.Context, buyerID int64, page, size int) ([]domain.Order, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM pedidos WHERE usuario_id = $1
	`, buyerID).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Order{}, 0, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, usuario_id, usuario_email, precio, fecha_de_creacion
		FROM pedidos
		WHERE usuario_id = $1
		ORDER BY fecha_de_creacion DESC, id DESC
		LIMIT $2 OFFSET $3
	`, buyerID, size, domain.Offset(page, size))
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = rows.Close() }()

	var orders []domain.Order
	var orderIDs []int64
	for rows.Next() {
		var order domain.Order
		if err := rows.Scan(&order.ID, &order.BuyerID, &order.BuyerEmail, &order.Total, &order.CreatedAt); err != nil {
			return nil, 0, err
		}
		orders = append(orders, order)
		orderIDs = append(orderIDs, order.ID)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	if len(orderIDs) == 0 {
		return []domain.Order{}, total, nil
	}

	lines, err := r.loadLines(ctx, orderIDs)
	if err != nil {
		return nil, 0, err
	}
	for i := range orders {
		orders[i].Lines = lines[orders[i].ID]
	}

	return orders, total, nil
}

// loadLines fetches the lines of every order in one round trip. Lines whose
// product was deleted come back with a nil ProductID and no name or price.
func (r *OrderRepository) loadLines(ctx context.Context, orderIDs []int64) (map[int64][]domain.OrderLine, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT d.pedido_id, d.id, d.producto_id, p.nombre, p.precio, d.cantidad
		FROM detalles d
		LEFT JOIN productos p ON p.id = d.producto_id
		WHERE d.pedido_id = ANY($1)
		ORDER BY d.id
	`, pq.Array(orderIDs))
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	lines := make(map[int64][]domain.OrderLine, len(orderIDs))
	for rows.Next() {
		var (
			orderID   int64
			line      domain.OrderLine
			productID sql.NullInt64
			name      sql.NullString
			unitPrice sql.NullFloat64
		)
		if err := rows.Scan(&orderID, &line.ID, &productID, &name, &unitPrice, &line.Quantity); err != nil {
			return nil, err
		}
		if productID.Valid {
			id := productID.Int64
			line.ProductID = &id
			line.ProductName = name.String
			line.UnitPrice = unitPrice.Float64
		}
		lines[orderID] = append(lines[orderID], line)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return lines, nil
}

// Delete removes the order; its lines cascade.
func (r *OrderRepository) Delete(ctx context.Context, id int64) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM pedidos WHERE id = $1`, id)
	if err != nil {
		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rowsAffected > 0, nil
}
