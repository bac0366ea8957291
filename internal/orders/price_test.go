package orders

import (
	"errors"
	"math/rand/v2"
	"strconv"
	"testing"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		in   string
		want Price
	}{
		{"0", 0},
		{"345", 345},
		{" 855 ", 855},
		{"9223372036854775807", 9223372036854775807},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePrice(tt.in)
			if err != nil {
				t.Fatalf("ParsePrice(%q): %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParsePrice(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestParsePriceRejects(t *testing.T) {
	for _, in := range []string{"", "abc", "-1", "34.5", "9223372036854775808", "1.0", "1e3", "+5", "0345", "-0"} {
		t.Run(in, func(t *testing.T) {
			if _, err := ParsePrice(in); !errors.Is(err, ErrInvalidPrice) {
				t.Errorf("ParsePrice(%q) err = %v, want ErrInvalidPrice", in, err)
			}
		})
	}
}

func TestPriceRoundTrip(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 1000; i++ {
		s := strconv.FormatInt(r.Int64N(1<<53), 10)
		p, err := ParsePrice(s)
		if err != nil {
			t.Fatalf("ParsePrice(%q): %v", s, err)
		}
		if p.String() != s {
			t.Fatalf("round trip %q -> %q", s, p.String())
		}
	}
}
