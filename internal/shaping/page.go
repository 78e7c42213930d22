package shaping

import (
	"context"
	"fmt"
	"math"
)

// Page is one window of an ordered result.
type Page[T any] struct {
	Items       []T
	CurrentPage int
	PageSize    int
	TotalCount  int
	TotalPages  int
}

func (p Page[T]) HasPrevious() bool { return p.CurrentPage > 1 }
func (p Page[T]) HasNext() bool     { return p.CurrentPage < p.TotalPages }

// Pageable is a query that can be counted and sliced.
type Pageable[T any] interface {
	Count(ctx context.Context) (int, error)
	Slice(ctx context.Context, offset, limit int) ([]T, error)
}

// NewPage assembles page metadata around items already fetched.
func NewPage[T any](items []T, totalCount, pageNumber, pageSize int) Page[T] {
	if items == nil {
		items = []T{}
	}
	totalPages := 0
	if pageSize > 0 {
		totalPages = (totalCount + pageSize - 1) / pageSize
	}
	return Page[T]{
		Items:       items,
		CurrentPage: pageNumber,
		PageSize:    pageSize,
		TotalCount:  totalCount,
		TotalPages:  totalPages,
	}
}

// Paginate counts src and fetches page pageNumber (1-based) of pageSize items.
func Paginate[T any](ctx context.Context, src Pageable[T], pageNumber, pageSize int) (Page[T], error) {
	if pageNumber < 1 {
		return Page[T]{}, fmt.Errorf("%w: pageNumber must be at least 1, got %d", ErrValidation, pageNumber)
	}
	if pageSize < 1 {
		return Page[T]{}, fmt.Errorf("%w: pageSize must be at least 1, got %d", ErrValidation, pageSize)
	}
	if pageNumber-1 > math.MaxInt/pageSize {
		return Page[T]{}, fmt.Errorf("%w: pageNumber %d is out of range for pageSize %d", ErrValidation, pageNumber, pageSize)
	}
	total, err := src.Count(ctx)
	if err != nil {
		return Page[T]{}, fmt.Errorf("count: %w", err)
	}
	items, err := src.Slice(ctx, pageSize*(pageNumber-1), pageSize)
	if err != nil {
		return Page[T]{}, fmt.Errorf("slice: %w", err)
	}
	return NewPage(items, total, pageNumber, pageSize), nil
}
