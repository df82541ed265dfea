package domain

import "time"

// Optional is a partial-update field. Set reports whether the caller sent the
// field at all; Value may be nil to clear a nullable column.
type Optional[T any] struct {
	Set   bool
	Value *T
}

// Some returns a set Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: &v}
}

// Null returns a set Optional that clears the column.
func Null[T any]() Optional[T] {
	return Optional[T]{Set: true}
}

// Merge returns o's value when set, otherwise current.
func (o Optional[T]) Merge(current *T) *T {
	if o.Set {
		return o.Value
	}
	return current
}

// CoalesceStr returns the first non-empty string from vals.
func CoalesceStr(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// CoalesceDate returns the first non-nil date from vals.
func CoalesceDate(vals ...*time.Time) *time.Time {
	for _, v := range vals {
		if v != nil {
			return v
		}
	}
	return nil
}

// StrPtr returns nil for "" and a pointer otherwise.
func StrPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// DaysBetween returns the whole-day difference b - a.
func DaysBetween(a, b time.Time) int {
	a = time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	b = time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}
