package orders

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrInvalidPrice = errors.New("invalid price")

// Price is an amount in minor units (cents).
type Price int64

// ParsePrice reads a non-negative integer amount of minor units written
// in canonical form, e.g. "345". Surrounding spaces are ignored.
func ParsePrice(s string) (Price, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidPrice)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPrice, s)
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("%w: negative %q", ErrInvalidPrice, s)
	}
	if !d.IsInteger() {
		return 0, fmt.Errorf("%w: fractional minor units %q", ErrInvalidPrice, s)
	}
	if !d.BigInt().IsInt64() {
		return 0, fmt.Errorf("%w: out of range %q", ErrInvalidPrice, s)
	}
	// "1.0", "1e3", "+5" and "0345" are numbers but not canonical amounts.
	if d.String() != s {
		return 0, fmt.Errorf("%w: not a canonical amount %q", ErrInvalidPrice, s)
	}
	return Price(d.IntPart()), nil
}

func (p Price) String() string { return strconv.FormatInt(int64(p), 10) }

func (p Price) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

func (p *Price) UnmarshalText(b []byte) error {
	v, err := ParsePrice(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}
