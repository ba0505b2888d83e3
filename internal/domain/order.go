package domain

import "time"

// UnavailableProductName is shown for order lines whose product was deleted.
const UnavailableProductName = "Producto no disponible"

type Order struct {
	ID         int64       `json:"id"`
	BuyerID    int64       `json:"usuarioId"`
	BuyerEmail string      `json:"username"`
	Lines      []OrderLine `json:"detalles"`
	Total      float64     `json:"precio"`
	CreatedAt  time.Time   `json:"fechaDeCreacion"`
}

// OrderLine is one product/quantity pair of an order. ProductID is nil once
// the referenced product has been deleted.
type OrderLine struct {
	ID          int64   `json:"id"`
	ProductID   *int64  `json:"productoId"`
	ProductName string  `json:"nombreProducto"`
	Quantity    int     `json:"cantidad"`
	UnitPrice   float64 `json:"precioUnidad"`
	Price       float64 `json:"precio"`
}

func (l OrderLine) Available() bool {
	return l.ProductID != nil
}

type LineRequest struct {
	ProductID int64 `json:"productoId" validate:"required,gt=0"`
	Quantity  int   `json:"cantidad" validate:"required,gt=0,max=2147483647"`
}

type OrderDetail struct {
	Username  string         `json:"username"`
	Products  []DetailedLine `json:"productos"`
	Total     float64        `json:"precioTotal"`
	CreatedAt time.Time      `json:"fechaDeCreacion"`
}

type DetailedLine struct {
	ProductName string  `json:"nombreProducto"`
	Quantity    int     `json:"cantidad"`
	UnitPrice   float64 `json:"precioUnidad"`
}
