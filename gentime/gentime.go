// Package gentime provides the rational time value used for every position
// and duration on the timeline.
//
// Values are exact fractions of a second. The text form follows FCPXML:
// "0s", "5s", "1001/24000s".
package gentime

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidTime is returned when a time or rate string cannot be parsed.
var ErrInvalidTime = errors.New("invalid time value")

// GenTime is an immutable rational number of seconds.
// The zero value is time zero.
type GenTime struct {
	num int64
	den int64
}

// Zero is time zero.
var Zero = GenTime{}

// New returns num/den seconds. A zero den is treated as 1.
func New(num, den int64) GenTime {
	return normalize(num, den)
}

// Seconds returns a whole number of seconds.
func Seconds(s int64) GenTime {
	return GenTime{num: s, den: 1}
}

// FromFrames returns the time of the given frame at rate r.
func FromFrames(frames int64, r Rate) GenTime {
	r = r.orDefault()
	return normalize(frames*r.Den, r.Num)
}

// FromSeconds converts floating seconds to the nearest frame boundary at rate r.
func FromSeconds(s float64, r Rate) GenTime {
	r = r.orDefault()
	frames := int64(math.Floor(s*r.Float() + 0.5))
	return FromFrames(frames, r)
}

func normalize(num, den int64) GenTime {
	if den == 0 {
		den = 1
	}
	if den < 0 {
		num, den = -num, -den
	}
	if num == 0 {
		return GenTime{}
	}
	g := gcd(abs(num), den)
	return GenTime{num: num / g, den: den / g}
}

func (t GenTime) d() int64 {
	if t.den == 0 {
		return 1
	}
	return t.den
}

// Num returns the reduced numerator.
func (t GenTime) Num() int64 { return t.num }

// Den returns the reduced denominator.
func (t GenTime) Den() int64 { return t.d() }

// Add returns t+o.
func (t GenTime) Add(o GenTime) GenTime {
	td, od := t.d(), o.d()
	if td == od {
		return normalize(t.num+o.num, td)
	}
	l := lcm(td, od)
	return normalize(t.num*(l/td)+o.num*(l/od), l)
}

// Sub returns t-o.
func (t GenTime) Sub(o GenTime) GenTime {
	return t.Add(o.Neg())
}

// Neg returns -t.
func (t GenTime) Neg() GenTime {
	return GenTime{num: -t.num, den: t.den}
}

// Mul returns t*n.
func (t GenTime) Mul(n int64) GenTime {
	return normalize(t.num*n, t.d())
}

// Compare returns -1, 0 or 1.
func (t GenTime) Compare(o GenTime) int {
	td, od := t.d(), o.d()
	if td == od {
		return cmp64(t.num, o.num)
	}
	l := lcm(td, od)
	return cmp64(t.num*(l/td), o.num*(l/od))
}

func (t GenTime) Before(o GenTime) bool { return t.Compare(o) < 0 }
func (t GenTime) After(o GenTime) bool  { return t.Compare(o) > 0 }
func (t GenTime) Equal(o GenTime) bool  { return t.Compare(o) == 0 }
func (t GenTime) IsZero() bool          { return t.num == 0 }

// Max returns the later of a and b.
func Max(a, b GenTime) GenTime {
	if a.Before(b) {
		return b
	}
	return a
}

// Min returns the earlier of a and b.
func Min(a, b GenTime) GenTime {
	if b.Before(a) {
		return b
	}
	return a
}

// Seconds returns t as floating point seconds.
func (t GenTime) Seconds() float64 {
	return float64(t.num) / float64(t.d())
}

// Frames returns t as a frame count at rate r, rounded to the nearest frame.
func (t GenTime) Frames(r Rate) int64 {
	r = r.orDefault()
	// frames = t * r = (num*rNum) / (den*rDen), rounded half up
	n := t.num * r.Num
	d := t.d() * r.Den
	return floorDiv(2*n+d, 2*d)
}

// SameFrame reports whether t and o fall on the same frame at rate r.
func (t GenTime) SameFrame(o GenTime, r Rate) bool {
	return t.Frames(r) == o.Frames(r)
}

// String formats t the way FCPXML does: "0s", "5s" or "N/Ds".
func (t GenTime) String() string {
	if t.num == 0 {
		return "0s"
	}
	if t.d() == 1 {
		return fmt.Sprintf("%ds", t.num)
	}
	return fmt.Sprintf("%d/%ds", t.num, t.d())
}

// Parse reads "N/Ds", "Ns", "1.5s" or a bare decimal number of seconds.
func Parse(s string) (GenTime, error) {
	str := strings.TrimSpace(s)
	str = strings.TrimSuffix(str, "s")
	if str == "" {
		return GenTime{}, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}

	if num, den, ok := strings.Cut(str, "/"); ok {
		n, err := strconv.ParseInt(num, 10, 64)
		if err != nil {
			return GenTime{}, fmt.Errorf("%w: %q", ErrInvalidTime, s)
		}
		d, err := strconv.ParseInt(den, 10, 64)
		if err != nil || d == 0 {
			return GenTime{}, fmt.Errorf("%w: %q", ErrInvalidTime, s)
		}
		return normalize(n, d), nil
	}

	if n, err := strconv.ParseInt(str, 10, 64); err == nil {
		return GenTime{num: n, den: 1}, nil
	}

	// Decimal seconds are kept exact by scaling to the number of fraction digits.
	whole, frac, _ := strings.Cut(str, ".")
	if _, err := strconv.ParseFloat(str, 64); err != nil || len(frac) > 9 {
		return GenTime{}, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	den := int64(1)
	for range frac {
		den *= 10
	}
	neg := strings.HasPrefix(whole, "-")
	digits := strings.TrimPrefix(whole, "-") + frac
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return GenTime{}, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	if neg {
		n = -n
	}
	return normalize(n, den), nil
}

// MustParse is Parse for constants in tests and fixtures.
func MustParse(s string) GenTime {
	t, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return t
}

// MarshalText implements encoding.TextMarshaler.
func (t GenTime) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *GenTime) UnmarshalText(b []byte) error {
	v, err := Parse(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	if a == 0 {
		return 1
	}
	return a
}

func lcm(a, b int64) int64 {
	return a / gcd(a, b) * b
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

func cmp64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
