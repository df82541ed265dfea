package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/masterplan/internal/domain"
)

const dateLayout = "2006-01-02"

// Date is a calendar date encoded as "YYYY-MM-DD". A full RFC3339 timestamp
// is accepted on input and truncated to its date.
type Date struct {
	time.Time
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	s = strings.TrimSpace(s)
	if t, err := time.Parse(dateLayout, s); err == nil {
		d.Time = t
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return fmt.Errorf("invalid date %q, want YYYY-MM-DD", s)
	}
	d.Time = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Format(dateLayout))
}

func (d *Date) ptr() *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time
	return &t
}

// Field is a patch field: Set reports whether the key was present and Null
// whether it was explicitly null.
type Field[T any] struct {
	Set   bool
	Null  bool
	Value T
}

func (f *Field[T]) UnmarshalJSON(b []byte) error {
	f.Set = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		f.Null = true
		return nil
	}
	return json.Unmarshal(b, &f.Value)
}

// ptr returns the value for a non-nullable field. Explicit null is rejected.
func (f Field[T]) ptr(name string) (*T, error) {
	if !f.Set {
		return nil, nil
	}
	if f.Null {
		return nil, domain.InvalidArgument("%s cannot be null", name)
	}
	v := f.Value
	return &v, nil
}

func optional[T any](f Field[T]) domain.Optional[T] {
	switch {
	case !f.Set:
		return domain.Optional[T]{}
	case f.Null:
		return domain.Null[T]()
	default:
		return domain.Some(f.Value)
	}
}

func optionalDate(f Field[Date]) domain.Optional[time.Time] {
	switch {
	case !f.Set:
		return domain.Optional[time.Time]{}
	case f.Null:
		return domain.Null[time.Time]()
	default:
		return domain.Some(f.Value.Time)
	}
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func formatTimestampPtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTimestamp(*t)
	return &s
}
