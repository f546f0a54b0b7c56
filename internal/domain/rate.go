package domain

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// RateKind tells which convention a Rate value was expressed in.
type RateKind string

const (
	// RateFraction is a 0-1 fraction, e.g. 0.05 for 5%.
	RateFraction RateKind = "fraction"
	// RatePercent is a 0-100 percentage, e.g. 5 for 5%.
	RatePercent RateKind = "percent"
)

// StoredRatePlaces is the fractional scale of a persisted rate, NUMERIC(12,8).
const StoredRatePlaces = 8

// Rate is an interest rate that carries its own convention, so a fraction is
// never mistaken for a percentage at a boundary.
type Rate struct {
	kind  RateKind
	value decimal.Decimal
}

// RateFromPercent builds a rate from a 0-100 percentage.
func RateFromPercent(v decimal.Decimal) (Rate, error) {
	if v.IsNegative() {
		return Rate{}, ErrInvalidRate
	}
	return Rate{kind: RatePercent, value: v}, nil
}

// RateFromFraction builds a rate from a 0-1 fraction.
func RateFromFraction(v decimal.Decimal) (Rate, error) {
	if v.IsNegative() {
		return Rate{}, ErrInvalidRate
	}
	return Rate{kind: RateFraction, value: v}, nil
}

// ParseRate parses s in the given convention.
func ParseRate(s string, kind RateKind) (Rate, error) {
	v, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return Rate{}, fmt.Errorf("%w: %q is not numeric", ErrInvalidRate, s)
	}
	switch kind {
	case RatePercent:
		return RateFromPercent(v)
	case RateFraction:
		return RateFromFraction(v)
	default:
		return Rate{}, fmt.Errorf("%w: unknown rate kind %q", ErrInvalidArgument, kind)
	}
}

// MustPercent is RateFromPercent for literals in tests and fixtures.
func MustPercent(s string) Rate {
	r, err := ParseRate(s, RatePercent)
	if err != nil {
		panic(err)
	}
	return r
}

// Kind returns the convention the rate was created with.
func (r Rate) Kind() RateKind { return r.kind }

// Fraction returns the rate as a 0-1 fraction.
func (r Rate) Fraction() decimal.Decimal {
	if r.kind == RatePercent {
		return r.value.Div(hundred)
	}
	return r.value
}

// Percent returns the rate as a 0-100 percentage.
func (r Rate) Percent() decimal.Decimal {
	if r.kind == RatePercent {
		return r.value
	}
	return r.value.Mul(hundred)
}

// IsZero reports whether the rate is zero.
func (r Rate) IsZero() bool { return r.value.IsZero() }

func (r Rate) String() string {
	return r.Percent().String() + "%"
}

type rateJSON struct {
	Kind  RateKind        `json:"kind"`
	Value decimal.Decimal `json:"value"`
}

// MarshalJSON encodes the rate with its convention tag.
func (r Rate) MarshalJSON() ([]byte, error) {
	return json.Marshal(rateJSON{Kind: r.kind, Value: r.value})
}

// UnmarshalJSON decodes {"kind": "...", "value": "..."}.
func (r *Rate) UnmarshalJSON(b []byte) error {
	var raw rateJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	parsed, err := ParseRate(raw.Value.String(), raw.Kind)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
