package utils

import (
	"cmp"
	"slices"
)

// OrderedList is a list that is sorted and holds no duplicates
type OrderedList[T cmp.Ordered] struct {
	list []T
}

// NewOrderedListFrom takes ownership of items and sorts them once.
// Duplicates are dropped.
func NewOrderedListFrom[T cmp.Ordered](items []T) *OrderedList[T] {
	slices.Sort(items)
	return &OrderedList[T]{
		list: slices.Compact(items),
	}
}

func (o *OrderedList[T]) Len() int {
	return len(o.list)
}

// GetUnderlyingList returns the underlying list
// take care of the returned list
func (o *OrderedList[T]) GetUnderlyingList() []T {
	return o.list
}
