package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Cents is a monetary amount in minor currency units.
type Cents int64

// MaxCents is the largest amount a NUMERIC(18,2) column holds.
const MaxCents Cents = 999_999_999_999_999_999

var (
	hundred  = decimal.NewFromInt(100)
	maxCents = decimal.NewFromInt(int64(MaxCents))
)

// ParseCents parses a decimal string such as "1500" or "758.99".
func ParseCents(s string) (Cents, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not numeric", ErrInvalidAmount, s)
	}
	return CentsFromDecimal(d)
}

// CentsFromDecimal converts d to cents, rejecting sub-cent precision and
// magnitudes beyond MaxCents.
func CentsFromDecimal(d decimal.Decimal) (Cents, error) {
	scaled := d.Mul(hundred)
	if !scaled.Equal(scaled.Truncate(0)) {
		return 0, fmt.Errorf("%w: %s has more than 2 decimals", ErrInvalidAmount, d.String())
	}
	if scaled.Abs().GreaterThan(maxCents) {
		return 0, fmt.Errorf("%w: %s exceeds %s", ErrInvalidAmount, d.String(), MaxCents)
	}
	return Cents(scaled.IntPart()), nil
}

// MustCents parses s and panics on error. Intended for tests and constants.
func MustCents(s string) Cents {
	c, err := ParseCents(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Decimal returns the amount as a 2-decimal value.
func (c Cents) Decimal() decimal.Decimal {
	return decimal.New(int64(c), -2)
}

// String formats the amount with exactly two decimals.
func (c Cents) String() string {
	return c.Decimal().StringFixed(2)
}

// MulRate returns round(c * rate), rounding half away from zero.
func (c Cents) MulRate(rate decimal.Decimal) Cents {
	return Cents(decimal.NewFromInt(int64(c)).Mul(rate).Round(0).IntPart())
}

// IsPositive reports whether c > 0.
func (c Cents) IsPositive() bool { return c > 0 }

// MarshalJSON encodes the amount as a decimal string.
func (c Cents) MarshalJSON() ([]byte, error) {
	return []byte(`"` + c.String() + `"`), nil
}

// UnmarshalJSON accepts either a quoted decimal string or a bare JSON number.
func (c *Cents) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*c = 0
		return nil
	}
	v, err := ParseCents(s)
	if err != nil {
		return err
	}
	*c = v
	return nil
}
