package domain

import "math"

// MaxStock is the largest stock or line quantity the schema's integer columns hold.
const MaxStock = math.MaxInt32

type Product struct {
	ID          int64   `json:"id"`
	Name        string  `json:"nombre"`
	Description string  `json:"descripcion"`
	Price       float64 `json:"precio"`
	Stock       int     `json:"stockDisponible"`
}

// ProductFilter narrows a catalog listing. Nil price bounds are not applied.
type ProductFilter struct {
	Keyword  string
	MinPrice *float64
	MaxPrice *float64
	Page     int
	Size     int
}
