package shaping

import (
	"cmp"
	"context"
	"fmt"
	"iter"
	"slices"
	"time"
)

// Comparator orders two elements by one internal field.
type Comparator[T any] func(a, b T) int

// CompareBy builds a comparator from an ordered field getter.
func CompareBy[T any, V cmp.Ordered](get func(T) V) Comparator[T] {
	return func(a, b T) int { return cmp.Compare(get(a), get(b)) }
}

// CompareTime builds a comparator from a time getter.
func CompareTime[T any](get func(T) time.Time) Comparator[T] {
	return func(a, b T) int { return get(a).Compare(get(b)) }
}

type sortKey[T any] struct {
	compare    Comparator[T]
	descending bool
}

// SliceQuery is an in-memory query over a slice. It is a value type: Where
// and ThenBy return new queries and leave the receiver untouched.
type SliceQuery[T any] struct {
	items  []T
	fields map[string]Comparator[T]
	filter []func(T) bool
	keys   []sortKey[T]
	err    error
}

// NewSliceQuery wraps items. fields maps internal field names to comparators;
// ThenBy accepts only those names.
func NewSliceQuery[T any](items []T, fields map[string]Comparator[T]) SliceQuery[T] {
	return SliceQuery[T]{items: items, fields: fields}
}

func (q SliceQuery[T]) Where(pred func(T) bool) SliceQuery[T] {
	q.filter = append(slices.Clip(q.filter), pred)
	return q
}

func (q SliceQuery[T]) ThenBy(field string, descending bool) SliceQuery[T] {
	c, ok := q.fields[field]
	if !ok {
		if q.err == nil {
			q.err = fmt.Errorf("%w: %q is not an orderable field", ErrConfiguration, field)
		}
		return q
	}
	q.keys = append(slices.Clip(q.keys), sortKey[T]{compare: c, descending: descending})
	return q
}

// Err reports the first ThenBy call that named an unknown field.
func (q SliceQuery[T]) Err() error { return q.err }

// Sorted returns the filtered items, stably sorted by the accumulated keys.
func (q SliceQuery[T]) Sorted() ([]T, error) {
	if q.err != nil {
		return nil, q.err
	}
	out := make([]T, 0, len(q.items))
	for _, it := range q.items {
		if q.keep(it) {
			out = append(out, it)
		}
	}
	if len(q.keys) > 0 {
		slices.SortStableFunc(out, q.compare)
	}
	return out, nil
}

// All iterates the sorted result; it yields nothing when the query is invalid.
func (q SliceQuery[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		items, err := q.Sorted()
		if err != nil {
			return
		}
		for _, it := range items {
			if !yield(it) {
				return
			}
		}
	}
}

func (q SliceQuery[T]) Count(_ context.Context) (int, error) {
	if q.err != nil {
		return 0, q.err
	}
	n := 0
	for _, it := range q.items {
		if q.keep(it) {
			n++
		}
	}
	return n, nil
}

func (q SliceQuery[T]) Slice(_ context.Context, offset, limit int) ([]T, error) {
	if offset < 0 || limit < 0 {
		return nil, fmt.Errorf("%w: negative offset %d or limit %d", ErrValidation, offset, limit)
	}
	items, err := q.Sorted()
	if err != nil {
		return nil, err
	}
	if offset >= len(items) {
		return []T{}, nil
	}
	end := offset + min(limit, len(items)-offset)
	return items[offset:end], nil
}

func (q SliceQuery[T]) keep(it T) bool {
	for _, pred := range q.filter {
		if !pred(it) {
			return false
		}
	}
	return true
}

func (q SliceQuery[T]) compare(a, b T) int {
	for _, k := range q.keys {
		c := k.compare(a, b)
		if k.descending {
			c = -c
		}
		if c != 0 {
			return c
		}
	}
	return 0
}
