package orders

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/joao-fontenele/commerce-api/internal/domain"
)

var tracer = otel.Tracer("github.com/joao-fontenele/commerce-api/internal/orders")

// Tx is the set of operations the placement workflow performs atomically.
type Tx interface {
	FindBuyer(ctx context.Context, email string) (*domain.User, error)
	FindProduct(ctx context.Context, id int64) (*domain.Product, error)
	DecrementStock(ctx context.Context, productID int64, quantity int) (bool, error)
	InsertOrder(ctx context.Context, order *domain.Order) error
	InsertLine(ctx context.Context, orderID int64, line *domain.OrderLine) error
}

type Store interface {
	InTx(ctx context.Context, fn func(tx Tx) error) error
	FindBuyer(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	ListByBuyer(ctx context.Context, buyerID int64, page, size int) ([]domain.Order, int64, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, key string, event any) error
}

type Service struct {
	store     Store
	publisher EventPublisher
	metrics   *placementMetrics
	logger    *slog.Logger
	now       func() time.Time
}

// NewService builds the order service. publisher may be nil, in which case no
// events are emitted.
func NewService(store Store, publisher EventPublisher, logger *slog.Logger) *Service {
	return &Service{
		store:     store,
		publisher: publisher,
		metrics:   newPlacementMetrics(),
		logger:    logger,
		now:       time.Now,
	}
}

// PlaceOrder validates and persists an order for the buyer identified by email.
// Checks run in a fixed order: buyer, non-empty, then per line in input order
// product existence and stock. Any failure leaves no order, no lines and no
// stock change behind.
func (s *Service) PlaceOrder(ctx context.Context, email string, lines []domain.LineRequest) (*domain.Order, error) {
	ctx, span := tracer.Start(ctx, "orders.place",
		trace.WithAttributes(attribute.Int("order.lines", len(lines))),
	)
	defer span.End()

	var order *domain.Order
	err := s.store.InTx(ctx, func(tx Tx) error {
		var err error
		order, err = s.place(ctx, tx, email, lines)
		return err
	})
	if err != nil {
		s.metrics.rejected(ctx, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int64("order.id", order.ID))
	s.metrics.placed(ctx, order)
	s.logger.Info("order placed", "order_id", order.ID, "buyer_id", order.BuyerID, "total", order.Total)

	s.publishPlaced(ctx, order)

	return order, nil
}

func (s *Service) place(ctx context.Context, tx Tx, email string, requested []domain.LineRequest) (*domain.Order, error) {
	buyer, err := tx.FindBuyer(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("find buyer: %w", err)
	}
	if buyer == nil {
		return nil, domain.UserNotFound(email)
	}

	if len(requested) == 0 {
		return nil, domain.Errorf(domain.ErrEmptyOrder, "El pedido debe contener al menos un producto.")
	}

	lines := make([]domain.OrderLine, 0, len(requested))
	total := decimal.Zero

	for _, req := range requested {
		if req.Quantity <= 0 {
			return nil, domain.InvalidArgument("La cantidad debe ser mayor que cero.")
		}

		product, err := tx.FindProduct(ctx, req.ProductID)
		if err != nil {
			return nil, fmt.Errorf("find product %d: %w", req.ProductID, err)
		}
		if product == nil {
			return nil, domain.ProductNotFound(req.ProductID)
		}
		if product.Stock < req.Quantity {
			return nil, domain.InsufficientStock(product.Name)
		}

		ok, err := tx.DecrementStock(ctx, product.ID, req.Quantity)
		if err != nil {
			return nil, fmt.Errorf("decrement stock of product %d: %w", product.ID, err)
		}
		if !ok {
			return nil, domain.InsufficientStock(product.Name)
		}

		price := linePrice(product.Price, req.Quantity)
		total = total.Add(price)

		productID := product.ID
		lines = append(lines, domain.OrderLine{
			ProductID:   &productID,
			ProductName: product.Name,
			Quantity:    req.Quantity,
			UnitPrice:   product.Price,
			Price:       price.InexactFloat64(),
		})
	}

	order := &domain.Order{
		BuyerID:    buyer.ID,
		BuyerEmail: buyer.Email,
		Lines:      lines,
		Total:      total.InexactFloat64(),
		CreatedAt:  s.now().UTC(),
	}

	if err := tx.InsertOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}
	for i := range order.Lines {
		if err := tx.InsertLine(ctx, order.ID, &order.Lines[i]); err != nil {
			return nil, fmt.Errorf("insert order line: %w", err)
		}
	}

	return order, nil
}

func (s *Service) publishPlaced(ctx context.Context, order *domain.Order) {
	if s.publisher == nil {
		return
	}

	event := domain.NewOrderPlacedEvent(order)
	if err := s.publisher.Publish(ctx, strconv.FormatInt(order.ID, 10), event); err != nil {
		s.logger.Error("failed to publish order placed event", "error", err, "order_id", order.ID)
	}
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Order, error) {
	order, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if order == nil {
		return nil, domain.OrderNotFound(id)
	}

	order.Lines = presentLines(order.Lines)
	return order, nil
}

func (s *Service) Lines(ctx context.Context, id int64) ([]domain.OrderLine, error) {
	order, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return order.Lines, nil
}

// Detail recomputes the total from the current line prices, so lines whose
// product was deleted count as zero.
func (s *Service) Detail(ctx context.Context, id int64) (*domain.OrderDetail, error) {
	order, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &domain.OrderDetail{
		Username:  order.BuyerEmail,
		Products:  make([]domain.DetailedLine, 0, len(order.Lines)),
		CreatedAt: order.CreatedAt,
	}

	total := decimal.Zero
	for _, l := range order.Lines {
		detail.Products = append(detail.Products, domain.DetailedLine{
			ProductName: l.ProductName,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
		})
		total = total.Add(linePrice(l.UnitPrice, l.Quantity))
	}
	detail.Total = total.InexactFloat64()

	return detail, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	deleted, err := s.store.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	if !deleted {
		return domain.OrderNotFound(id)
	}

	s.logger.Info("order deleted", "order_id", id)
	return nil
}

func (s *Service) ListByBuyer(ctx context.Context, email string, page, size int) (domain.Page[domain.Order], error) {
	if err := domain.CheckPaging(page, size); err != nil {
		return domain.Page[domain.Order]{}, err
	}

	buyer, err := s.store.FindBuyer(ctx, email)
	if err != nil {
		return domain.Page[domain.Order]{}, fmt.Errorf("find buyer: %w", err)
	}
	if buyer == nil {
		return domain.Page[domain.Order]{}, domain.UserNotFound(email)
	}

	orders, total, err := s.store.ListByBuyer(ctx, buyer.ID, page, size)
	if err != nil {
		return domain.Page[domain.Order]{}, fmt.Errorf("list orders: %w", err)
	}
	for i := range orders {
		orders[i].Lines = presentLines(orders[i].Lines)
	}

	return domain.NewPage(orders, page, size, total), nil
}

// presentLines fills the display fields of stored lines, substituting the
// unavailable placeholder for lines whose product is gone.
func presentLines(stored []domain.OrderLine) []domain.OrderLine {
	lines := make([]domain.OrderLine, 0, len(stored))
	for _, l := range stored {
		if !l.Available() {
			l.ProductName = domain.UnavailableProductName
			l.UnitPrice = 0
		}
		l.Price = linePrice(l.UnitPrice, l.Quantity).InexactFloat64()
		lines = append(lines, l)
	}
	return lines
}

func linePrice(unitPrice float64, quantity int) decimal.Decimal {
	return decimal.NewFromFloat(unitPrice).Mul(decimal.NewFromInt(int64(quantity)))
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		return "user_not_found"
	case errors.Is(err, domain.ErrEmptyOrder):
		return "empty_order"
	case errors.Is(err, domain.ErrProductNotFound):
		return "product_not_found"
	case errors.Is(err, domain.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, domain.ErrInvalidArgument):
		return "invalid_argument"
	default:
		return "internal"
	}
}
