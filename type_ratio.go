package stocktracker

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Ratio is a rational split multiplier: the number of new shares issued
// per old share, as numerator over denominator. A 4-for-1 forward split
// is 4/1; a 1-for-7 reverse split is 1/7. Units are multiplied by the
// ratio, prices by its inverse, so the rewrite is exact and value
// neutral.
type Ratio struct {
	Num int64
	Den int64
}

// R builds a Ratio from numerator and denominator.
func R(num, den int64) Ratio { return Ratio{Num: num, Den: den} }

// OneToOne is the identity ratio carried by non-split rows.
var OneToOne = Ratio{Num: 1, Den: 1}

// IsZero reports whether the ratio is unset. Used as the "no split on
// record" sentinel, distinct from a fetched identity split.
func (r Ratio) IsZero() bool { return r.Num == 0 && r.Den == 0 }

// IsIdentity reports whether applying the ratio changes nothing.
func (r Ratio) IsIdentity() bool { return r.Num == r.Den && r.Num != 0 }

// ApplyToUnits returns q scaled by the ratio (new units per old).
func (r Ratio) ApplyToUnits(q Quantity) Quantity {
	return q.Mul(Q(r.Num)).Div(Q(r.Den))
}

// ApplyToPrice returns p scaled by the inverse ratio so that
// units*price is preserved.
func (r Ratio) ApplyToPrice(p Quantity) Quantity {
	return p.Mul(Q(r.Den)).Div(Q(r.Num))
}

func (r Ratio) String() string {
	return fmt.Sprintf("%d/%d", r.Num, r.Den)
}

// ParseRatio parses "1/7", the provider's "1:7" form, or a bare integer
// like "7" (meaning 7/1). Explicit parsing at the normalization boundary
// replaces the original's string arithmetic at call sites.
func ParseRatio(s string) (Ratio, error) {
	s = strings.TrimSpace(s)
	sep := "/"
	if strings.Contains(s, ":") {
		sep = ":"
	}
	parts := strings.Split(s, sep)
	switch len(parts) {
	case 1:
		num, err := strconv.ParseInt(parts[0], 10, 64)
		if err != nil {
			return Ratio{}, fmt.Errorf("invalid ratio %q: %w", s, err)
		}
		return Ratio{Num: num, Den: 1}, nil
	case 2:
		num, err := strconv.ParseInt(parts[0], 10, 64)
		if err != nil {
			return Ratio{}, fmt.Errorf("invalid ratio numerator in %q: %w", s, err)
		}
		den, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil {
			return Ratio{}, fmt.Errorf("invalid ratio denominator in %q: %w", s, err)
		}
		if den == 0 {
			return Ratio{}, fmt.Errorf("invalid ratio %q: zero denominator", s)
		}
		return Ratio{Num: num, Den: den}, nil
	default:
		return Ratio{}, fmt.Errorf("invalid ratio %q", s)
	}
}

// MarshalJSON persists the ratio in its "num/den" form.
func (r Ratio) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

// UnmarshalJSON accepts the "num/den" string form and, for rows written
// by hand, a bare JSON integer.
func (r *Ratio) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		if str == "0/0" {
			// Round-trip of the unset sentinel.
			*r = Ratio{}
			return nil
		}
		parsed, err := ParseRatio(str)
		if err != nil {
			return err
		}
		*r = parsed
		return nil
	}
	var num int64
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("invalid ratio %s", data)
	}
	*r = Ratio{Num: num, Den: 1}
	return nil
}
