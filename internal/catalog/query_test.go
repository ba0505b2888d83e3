package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/joao-fontenele/commerce-api/internal/domain"
)

func ptr(f float64) *float64 { return &f }

func TestBuildSearchQuery(t *testing.T) {
	t.Run("no filters lists by id", func(t *testing.T) {
		q := buildSearchQuery(domain.ProductFilter{Page: 0, Size: 10})

		assert.Equal(t, "SELECT COUNT(*) FROM productos", q.count)
		assert.Empty(t, q.countArgs)
		assert.Equal(t, "SELECT "+productColumns+" FROM productos ORDER BY id LIMIT $1 OFFSET $2", q.list)
		assert.Equal(t, []any{10, 0}, q.listArgs)
	})

	t.Run("keyword and both bounds", func(t *testing.T) {
		q := buildSearchQuery(domain.ProductFilter{
			Keyword:  "Teclado",
			MinPrice: ptr(10),
			MaxPrice: ptr(50),
			Page:     2,
			Size:     5,
		})

		where := " WHERE (nombre ILIKE $1 OR descripcion ILIKE $1) AND precio >= $2 AND precio <= $3"
		assert.Equal(t, "SELECT COUNT(*) FROM productos"+where, q.count)
		assert.Equal(t, []any{"%Teclado%", 10.0, 50.0}, q.countArgs)
		assert.Equal(t, "SELECT "+productColumns+" FROM productos"+where+" ORDER BY precio, id LIMIT $4 OFFSET $5", q.list)
		assert.Equal(t, []any{"%Teclado%", 10.0, 50.0, 5, 10}, q.listArgs)
	})

	t.Run("price bound without keyword", func(t *testing.T) {
		q := buildSearchQuery(domain.ProductFilter{MaxPrice: ptr(20), Size: 10})

		assert.Equal(t, "SELECT COUNT(*) FROM productos WHERE precio <= $1", q.count)
		assert.Contains(t, q.list, "ORDER BY id LIMIT $2 OFFSET $3")
	})

	t.Run("count args are not aliased by list args", func(t *testing.T) {
		q := buildSearchQuery(domain.ProductFilter{Keyword: "x", Size: 10})

		assert.Len(t, q.countArgs, 1)
		assert.Len(t, q.listArgs, 3)
	})
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `50\% off\_now\\`, escapeLike(`50% off_now\`))
}
