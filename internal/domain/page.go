package domain

import "math"

// MaxPageSize bounds the size of any listing page.
const MaxPageSize = 100

type Page[T any] struct {
	Content       []T   `json:"content"`
	Page          int   `json:"page"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
}

func NewPage[T any](content []T, page, size int, total int64) Page[T] {
	if content == nil {
		content = []T{}
	}

	var pages int
	if size > 0 {
		pages = int((total + int64(size) - 1) / int64(size))
	}

	return Page[T]{
		Content:       content,
		Page:          page,
		Size:          size,
		TotalElements: total,
		TotalPages:    pages,
	}
}


// CheckPaging rejects negative pages, sizes outside 1..MaxPageSize and pages
// whose row offset would not fit in an int.
func CheckPaging(page, size int) error {
	switch {
	case page < 0:
		return InvalidArgument("El numero de pagina no puede ser negativo.")
	case size <= 0 || size > MaxPageSize:
		return Errorf(ErrInvalidArgument, "El tamano de pagina debe estar entre 1 y %d.", MaxPageSize)
	case page > math.MaxInt/size:
		return InvalidArgument("El numero de pagina es demasiado grande.")
	}
	return nil
}

// Offset is the number of rows skipped before page. Callers validate with
// CheckPaging first.
func Offset(page, size int) int {
	return page * size
}
