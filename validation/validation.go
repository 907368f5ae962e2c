package validation

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Violation codes. Templates translate them through i18n.
const (
	CodeRequired     = "required"
	CodeInvalidDate  = "invalid_date"
	CodeInvalidPrice = "invalid_price"
)

type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

// Basic validators
func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v[field] = CodeRequired
	}
}

// Date parses value with layout. Blank input yields a zero time and no violation;
// combine with Required when the field is mandatory.
func Date(field, value, layout string, v Violations) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	t, err := time.ParseInLocation(layout, value, time.UTC)
	if err != nil {
		if _, exists := v[field]; !exists {
			v[field] = CodeInvalidDate
		}
		return time.Time{}
	}
	return t
}

// Decimal parses an optional decimal amount. Blank input is a valid "no value".
func Decimal(field, value string, v Violations) decimal.NullDecimal {
	value = strings.TrimSpace(value)
	if value == "" {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		v[field] = CodeInvalidPrice
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}
