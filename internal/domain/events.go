package domain

import "time"

const EventOrderPlaced = "order.placed"

type OrderPlacedEvent struct {
	OrderID    int64            `json:"order_id"`
	BuyerID    int64            `json:"buyer_id"`
	BuyerEmail string           `json:"buyer_email"`
	Lines      []PlacedLineItem `json:"lines"`
	Total      float64          `json:"total"`
	PlacedAt   time.Time        `json:"placed_at"`
}

type PlacedLineItem struct {
	ProductID   int64   `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
}

func NewOrderPlacedEvent(order *Order) OrderPlacedEvent {
	lines := make([]PlacedLineItem, 0, len(order.Lines))
	for _, l := range order.Lines {
		item := PlacedLineItem{
			ProductName: l.ProductName,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
		}
		if l.ProductID != nil {
			item.ProductID = *l.ProductID
		}
		lines = append(lines, item)
	}

	return OrderPlacedEvent{
		OrderID:    order.ID,
		BuyerID:    order.BuyerID,
		BuyerEmail: order.BuyerEmail,
		Lines:      lines,
		Total:      order.Total,
		PlacedAt:   order.CreatedAt,
	}
}
