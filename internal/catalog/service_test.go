package catalog

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joao-fontenele/commerce-api/internal/domain"
)

type memoryStore struct {
	nextID   int64
	products map[int64]domain.Product
	lastSeen domain.ProductFilter
}

func newMemoryStore() *memoryStore {
	return &memoryStore{products: map[int64]domain.Product{}}
}

func (m *memoryStore) Create(_ context.Context, p *domain.Product) error {
	m.nextID++
	p.ID = m.nextID
	m.products[p.ID] = *p
	return nil
}

func (m *memoryStore) GetByID(_ context.Context, id int64) (*domain.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (m *memoryStore) Update(_ context.Context, p *domain.Product) (bool, error) {
	if _, ok := m.products[p.ID]; !ok {
		return false, nil
	}
	m.products[p.ID] = *p
	return true, nil
}

func (m *memoryStore) Delete(_ context.Context, id int64) (bool, error) {
	if _, ok := m.products[id]; !ok {
		return false, nil
	}
	delete(m.products, id)
	return true, nil
}

func (m *memoryStore) Search(_ context.Context, f domain.ProductFilter) ([]domain.Product, int64, error) {
	m.lastSeen = f

	var matched []domain.Product
	kw := strings.ToLower(f.Keyword)
	for _, p := range m.products {
		if kw != "" && !strings.Contains(strings.ToLower(p.Name), kw) && !strings.Contains(strings.ToLower(p.Description), kw) {
			continue
		}
		if f.MinPrice != nil && p.Price < *f.MinPrice {
			continue
		}
		if f.MaxPrice != nil && p.Price > *f.MaxPrice {
			continue
		}
		matched = append(matched, p)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	start := f.Page * f.Size
	if start > len(matched) {
		start = len(matched)
	}
	end := start + f.Size
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], int64(len(matched)), nil
}

func newTestService() (*Service, *memoryStore) {
	store := newMemoryStore()
	return NewService(store, slog.New(slog.NewTextHandler(io.Discard, nil))), store
}

func keyboard() *domain.Product {
	return &domain.Product{Name: "Teclado mecanico", Description: "Teclado con switches azules", Price: 50, Stock: 10}
}

func TestService_Create(t *testing.T) {
	svc, _ := newTestService()

	t.Run("assigns id", func(t *testing.T) {
		p := keyboard()
		require.NoError(t, svc.Create(context.Background(), p))
		assert.NotZero(t, p.ID)
	})

	t.Run("rejects non positive price", func(t *testing.T) {
		p := keyboard()
		p.Price = 0
		err := svc.Create(context.Background(), p)
		assert.True(t, errors.Is(err, domain.ErrInvalidArgument))
	})

	t.Run("rejects non positive stock", func(t *testing.T) {
		p := keyboard()
		p.Stock = 0
		err := svc.Create(context.Background(), p)
		assert.True(t, errors.Is(err, domain.ErrInvalidArgument))
	})

	bounds := []struct {
		name   string
		price  float64
		stock  int
		wantOK bool
	}{
		{"price below one cent", 0.001, 1, false},
		{"price with three decimals", 12.345, 1, false},
		{"price with two decimals", 12.35, 1, true},
		{"smallest price", 0.01, 1, true},
		{"largest price", 9999999999.99, 1, true},
		{"price beyond column precision", 1e10, 1, false},
		{"largest stock", 1, domain.MaxStock, true},
		{"stock beyond integer column", 1, domain.MaxStock + 1, false},
	}
	for _, tt := range bounds {
		t.Run(tt.name, func(t *testing.T) {
			p := keyboard()
			p.Price, p.Stock = tt.price, tt.stock

			err := svc.Create(context.Background(), p)
			if tt.wantOK {
				require.NoError(t, err)
				assert.Equal(t, tt.price, p.Price)
				return
			}
			assert.True(t, errors.Is(err, domain.ErrInvalidArgument))
		})
	}
}

func TestService_GetUpdateDelete(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	p := keyboard()
	require.NoError(t, svc.Create(ctx, p))

	replacement := &domain.Product{Name: "Teclado inalambrico", Description: "Teclado bluetooth compacto", Price: 70, Stock: 3}
	require.NoError(t, svc.Update(ctx, p.ID, replacement))

	got, err := svc.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Teclado inalambrico", got.Name)
	assert.Equal(t, 70.0, got.Price)
	assert.Equal(t, 3, got.Stock)

	err = svc.Update(ctx, 999, replacement)
	assert.True(t, errors.Is(err, domain.ErrProductNotFound))

	require.NoError(t, svc.Delete(ctx, p.ID))

	_, err = svc.Get(ctx, p.ID)
	assert.True(t, errors.Is(err, domain.ErrProductNotFound))

	err = svc.Delete(ctx, p.ID)
	assert.True(t, errors.Is(err, domain.ErrProductNotFound))
}

func TestService_Search(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService()

	require.NoError(t, svc.Create(ctx, keyboard()))
	require.NoError(t, svc.Create(ctx, &domain.Product{Name: "Raton optico", Description: "Raton ergonomico para teclado y escritorio", Price: 20, Stock: 5}))
	require.NoError(t, svc.Create(ctx, &domain.Product{Name: "Monitor 27 pulgadas", Description: "Monitor IPS de alta resolucion", Price: 300, Stock: 2}))

	t.Run("keyword matches name or description case-insensitively", func(t *testing.T) {
		page, err := svc.Search(ctx, domain.ProductFilter{Keyword: "TECLADO", Size: 10})
		require.NoError(t, err)
		assert.EqualValues(t, 2, page.TotalElements)
	})

	t.Run("blank keyword lists with price filters", func(t *testing.T) {
		page, err := svc.Search(ctx, domain.ProductFilter{Keyword: "   ", MaxPrice: ptr(60), Size: 10})
		require.NoError(t, err)
		assert.Equal(t, "", store.lastSeen.Keyword)
		assert.EqualValues(t, 2, page.TotalElements)
	})

	t.Run("pages", func(t *testing.T) {
		page, err := svc.Search(ctx, domain.ProductFilter{Page: 1, Size: 2})
		require.NoError(t, err)
		assert.Len(t, page.Content, 1)
		assert.Equal(t, 2, page.TotalPages)
	})

	t.Run("rejects pages whose offset overflows", func(t *testing.T) {
		store.lastSeen = domain.ProductFilter{}
		_, err := svc.Search(ctx, domain.ProductFilter{Page: 1 << 62, Size: 10})
		assert.True(t, errors.Is(err, domain.ErrInvalidArgument))
		assert.Zero(t, store.lastSeen.Size)
	})

	tests := []struct {
		name     string
		min, max *float64
	}{
		{"min above max", ptr(100), ptr(10)},
		{"zero min", ptr(0), nil},
		{"negative max", nil, ptr(-5)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Search(ctx, domain.ProductFilter{MinPrice: tt.min, MaxPrice: tt.max, Size: 10})
			assert.True(t, errors.Is(err, domain.ErrInvalidArgument))
		})
	}
}
