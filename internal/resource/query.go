package resource

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/GTDGit/om_console/internal/models"
)

// Compare orders two records the way cmp.Compare does.
type Compare[T any] func(a, b T) int

// Sort is the active column sort. An empty Key keeps backend order.
type Sort struct {
	Key  string `json:"key"`
	Desc bool   `json:"desc"`
}

// Toggle returns the sort after clicking column key: the same column flips
// direction, a new column starts ascending.
func (s Sort) Toggle(key string) Sort {
	if s.Key == key {
		return Sort{Key: key, Desc: !s.Desc}
	}
	return Sort{Key: key}
}

// ByString compares a text column case-insensitively.
func ByString[T any](field func(T) string) Compare[T] {
	return func(a, b T) int {
		return strings.Compare(strings.ToLower(field(a)), strings.ToLower(field(b)))
	}
}

func ByInt[T any](field func(T) int) Compare[T] {
	return func(a, b T) int { return cmp.Compare(field(a), field(b)) }
}

func ByMoney[T any](field func(T) models.Money) Compare[T] {
	return func(a, b T) int { return field(a).Cmp(field(b).Decimal) }
}

func ByTime[T any](field func(T) time.Time) Compare[T] {
	return func(a, b T) int { return field(a).Compare(field(b)) }
}

// Matches reports whether any field contains term, ignoring case. An empty
// term matches everything.
func Matches(fields []string, term string) bool {
	if term == "" {
		return true
	}
	term = strings.ToLower(term)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}

// Filter returns the records whose search fields match term, in order.
func Filter[T any](records []T, fields func(T) []string, term string) []T {
	out := make([]T, 0, len(records))
	for _, r := range records {
		if fields == nil || Matches(fields(r), term) {
			out = append(out, r)
		}
	}
	return out
}

// Ordered returns a sorted copy of records. Ties on the sort column fall back
// to id, so the order is total and the descending result is exactly the
// reverse of the ascending one.
func Ordered[T any](records []T, by Compare[T], id func(T) int, desc bool) []T {
	out := slices.Clone(records)
	if by == nil {
		return out
	}
	slices.SortStableFunc(out, func(a, b T) int {
		c := by(a, b)
		if c == 0 {
			c = cmp.Compare(id(a), id(b))
		}
		if desc {
			return -c
		}
		return c
	})
	return out
}
