package gentime

import (
	"fmt"
	"strconv"
	"strings"
)

// Rate is a frame rate expressed as a fraction, e.g. 24000/1001.
type Rate struct {
	Num int64
	Den int64
}

// Common rates.
var (
	Rate23976 = Rate{Num: 24000, Den: 1001}
	Rate24    = Rate{Num: 24, Den: 1}
	Rate25    = Rate{Num: 25, Den: 1}
	Rate2997  = Rate{Num: 30000, Den: 1001}
	Rate30    = Rate{Num: 30, Den: 1}

	// DefaultRate is used when no project rate is available.
	DefaultRate = Rate25
)

// NewRate returns num/den frames per second.
func NewRate(num, den int64) Rate {
	if den == 0 {
		den = 1
	}
	return Rate{Num: num, Den: den}
}

// ParseRate reads "25" or "30000/1001". Decimal rates like "29.97" are rejected.
func ParseRate(s string) (Rate, error) {
	s = strings.TrimSpace(s)
	if num, den, ok := strings.Cut(s, "/"); ok {
		n, err := strconv.ParseInt(num, 10, 64)
		if err != nil || n <= 0 {
			return Rate{}, fmt.Errorf("%w: rate %q", ErrInvalidTime, s)
		}
		d, err := strconv.ParseInt(den, 10, 64)
		if err != nil || d <= 0 {
			return Rate{}, fmt.Errorf("%w: rate %q", ErrInvalidTime, s)
		}
		return Rate{Num: n, Den: d}, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return Rate{}, fmt.Errorf("%w: rate %q", ErrInvalidTime, s)
	}
	return Rate{Num: n, Den: 1}, nil
}

func (r Rate) orDefault() Rate {
	if r.Num <= 0 || r.Den <= 0 {
		return DefaultRate
	}
	return r
}

// Float returns frames per second as a float.
func (r Rate) Float() float64 {
	r = r.orDefault()
	return float64(r.Num) / float64(r.Den)
}

// FrameDuration returns the length of one frame.
func (r Rate) FrameDuration() GenTime {
	return FromFrames(1, r)
}

// IsZero reports whether the rate is unset.
func (r Rate) IsZero() bool {
	return r.Num == 0
}

func (r Rate) String() string {
	r = r.orDefault()
	if r.Den == 1 {
		return strconv.FormatInt(r.Num, 10)
	}
	return fmt.Sprintf("%d/%d", r.Num, r.Den)
}

// MarshalText implements encoding.TextMarshaler.
func (r Rate) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Rate) UnmarshalText(b []byte) error {
	v, err := ParseRate(string(b))
	if err != nil {
		return err
	}
	*r = v
	return nil
}
