package form

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestText(t *testing.T) {
	v := Map{"name": "  Sea View  ", "blank": "   "}

	assert.Equal(t, "Sea View", Text(v, "name"))
	assert.Equal(t, "", Text(v, "blank"))
	assert.Equal(t, "", Text(v, "missing"))
	assert.Equal(t, "residential", TextOr(v, "blank", "residential"))
	assert.Equal(t, "Sea View", TextOr(v, "name", "residential"))
}

func TestUint(t *testing.T) {
	v := Map{"ok": "5", "padded": " 3 ", "blank": "", "neg": "-2", "junk": "two", "frac": "1.5"}

	assert.Equal(t, uint(5), Uint(v, "ok"))
	assert.Equal(t, uint(3), Uint(v, "padded"))
	assert.Equal(t, uint(0), Uint(v, "blank"))
	assert.Equal(t, uint(0), Uint(v, "missing"))
	assert.Equal(t, uint(0), Uint(v, "neg"))
	assert.Equal(t, uint(0), Uint(v, "junk"))
	assert.Equal(t, uint(0), Uint(v, "frac"))
}

func TestDecimal(t *testing.T) {
	v := Map{"rent": "1250.50", "blank": "", "junk": "abc", "long": "10.129"}

	assert.Equal(t, "1250.5", Decimal(v, "rent", Money).String())
	assert.True(t, Decimal(v, "blank", Money).IsZero())
	assert.True(t, Decimal(v, "missing", Money).IsZero())
	assert.True(t, Decimal(v, "junk", Money).IsZero())
	assert.Equal(t, "10.13", Decimal(v, "long", Money).String())

	_, ok := DecimalOK(v, "blank", Money)
	assert.False(t, ok)
	_, ok = DecimalOK(v, "rent", Money)
	assert.True(t, ok)
}

func TestDecimal_ColumnBounds(t *testing.T) {
	v := Map{
		"area_max":  "999999.99",
		"area_over": "99999999",
		"area_neg":  "-1000000",
		"money_max": "99999999.99",
		"money_up":  "99999999.999",
	}

	assert.Equal(t, "999999.99", Decimal(v, "area_max", Area).String())
	assert.True(t, Decimal(v, "area_over", Area).IsZero())
	assert.True(t, Decimal(v, "area_neg", Area).IsZero())
	assert.Equal(t, "99999999.99", Decimal(v, "money_max", Money).String())

	// rounds to 100000000.00, one digit too many
	_, ok := DecimalOK(v, "money_up", Money)
	assert.False(t, ok)
	_, ok = DecimalOK(v, "area_over", Money)
	assert.True(t, ok)
}

func TestCheckbox(t *testing.T) {
	v := Map{"on": "on", "true": "true", "empty": "", "upper": "ON"}

	assert.True(t, Checkbox(v, "on"))
	assert.False(t, Checkbox(v, "true"))
	assert.False(t, Checkbox(v, "empty"))
	assert.False(t, Checkbox(v, "upper"))
	assert.False(t, Checkbox(v, "missing"))
}

func TestDate(t *testing.T) {
	v := Map{"start": "2024-03-01", "junk": "01/03/2024"}

	d, ok := Date(v, "start")
	assert.True(t, ok)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), d)

	_, ok = Date(v, "junk")
	assert.False(t, ok)
	_, ok = Date(v, "missing")
	assert.False(t, ok)
}

type Map map[string]string

func (m Map) FormValue(key string, defaultValue ...string) string {
	if v, ok := m[key]; ok {
		return v
	}
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return ""
}
