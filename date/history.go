package date

import (
	"iter"
	"slices"
)

// History stores a chronological series of values, each associated with a day in
// ISO-8601 form (YYYY-MM-DD). Days compare as strings, which orders canonical ISO
// days chronologically without any time zone involved.
//
// Days are unique and the series is always sorted.
type History[T any] struct {
	days   []string
	values []T
}

// Len returns the number of items in the history.
func (h *History[T]) Len() int { return len(h.days) }

// Append adds a point to the history.
//
// Existing value at that day is overwritten. Appending in chronological order
// costs a binary search and an append.
func (h *History[T]) Append(day string, v T) *History[T] {
	i, found := slices.BinarySearch(h.days, day)
	if found {
		// We choose to replace, because it will give higher priority to the last data
		h.values[i] = v
		return h
	}
	h.days = slices.Insert(h.days, i, day)
	h.values = slices.Insert(h.values, i, v)
	return h
}

// First returns the earliest day and value in the history.
// If the history is empty, it returns zero values and false.
func (h *History[T]) First() (day string, value T, ok bool) {
	if len(h.days) == 0 {
		return "", value, false
	}
	return h.days[0], h.values[0], true
}

// Latest returns the latest day and value in the history.
// If the history is empty, it returns zero values and false.
func (h *History[T]) Latest() (day string, value T, ok bool) {
	last := len(h.days) - 1
	if last < 0 {
		return "", value, false
	}
	return h.days[last], h.values[last], true
}

// ValueAsOf returns the value on a given day, or the most recent value before it.
// It returns the value and true if found, otherwise it returns the zero value and false.
func (h *History[T]) ValueAsOf(day string) (T, bool) {
	i, found := slices.BinarySearch(h.days, day)
	if found {
		return h.values[i], true
	}
	// Not found. `i` is the index where `day` would be inserted.
	// The value we want is at `i-1`, which is the last entry before the target date.
	if i == 0 {
		var zero T
		return zero, false
	}
	return h.values[i-1], true
}

// ValueOnOrBefore is like ValueAsOf but clamps to the earliest value when 'day'
// precedes every entry. It returns false only for an empty history.
func (h *History[T]) ValueOnOrBefore(day string) (T, bool) {
	if v, ok := h.ValueAsOf(day); ok {
		return v, true
	}
	_, v, ok := h.First()
	return v, ok
}

// Days returns an iterator over the days of the history, in chronological order.
func (h *History[T]) Days() iter.Seq[string] { return slices.Values(h.days) }

// Values returns an iterator over all day/value pairs in the history, in chronological order.
func (h *History[T]) Values() iter.Seq2[string, T] {
	return func(yield func(string, T) bool) {
		for i, on := range h.days {
			if !yield(on, h.values[i]) {
				return
			}
		}
	}
}
