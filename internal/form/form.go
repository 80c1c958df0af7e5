// Package form coerces flat submitted values. Blank, absent and unparseable
// values fall back to zero values; nothing here returns an error.
package form

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	CheckboxOn = "on"
	DateLayout = "2006-01-02"
)

// Values is the part of a request the helpers read. *fiber.Ctx satisfies it.
type Values interface {
	FormValue(key string, defaultValue ...string) string
}

// Text returns the trimmed value.
func Text(v Values, key string) string {
	return strings.TrimSpace(v.FormValue(key))
}

// TextOr returns the trimmed value, or def when it is blank.
func TextOr(v Values, key, def string) string {
	if s := Text(v, key); s != "" {
		return s
	}
	return def
}

// Uint parses a non-negative integer count.
func Uint(v Values, key string) uint {
	n, err := strconv.ParseUint(Text(v, key), 10, 32)
	if err != nil {
		return 0
	}
	return uint(n)
}

// Numeric is the precision and scale of a decimal column.
type Numeric struct {
	Precision int32
	Scale     int32
}

var (
	Money = Numeric{Precision: 10, Scale: 2}
	Area  = Numeric{Precision: 8, Scale: 2}
)

// Fits reports whether d, already rounded to n.Scale, can be stored in a
// column of type n.
func (n Numeric) Fits(d decimal.Decimal) bool {
	return d.Abs().LessThan(decimal.New(1, n.Precision-n.Scale))
}

// Decimal parses a money or area amount for a column of type n. Amounts the
// column cannot hold are treated like unparseable ones.
func Decimal(v Values, key string, n Numeric) decimal.Decimal {
	d, ok := DecimalOK(v, key, n)
	if !ok {
		return decimal.Zero
	}
	return d
}

// DecimalOK is Decimal that also reports whether a usable value was given.
func DecimalOK(v Values, key string, n Numeric) (decimal.Decimal, bool) {
	s := Text(v, key)
	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	d = d.Round(n.Scale)
	if !n.Fits(d) {
		return decimal.Zero, false
	}
	return d, true
}

// Checkbox is true only for the literal value browsers send for a checked box.
func Checkbox(v Values, key string) bool {
	return v.FormValue(key) == CheckboxOn
}

// Date parses a YYYY-MM-DD value.
func Date(v Values, key string) (time.Time, bool) {
	s := Text(v, key)
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
