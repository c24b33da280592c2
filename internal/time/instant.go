package timeutils

import (
	"math"
	"strings"
	"time"

	"github.com/juju/errors"
	"github.com/spf13/cast"
)

// Instant is a point in time that remembers whether its source carried a zone.
// A naive instant holds its wall clock in UTC until it is compared against an
// aware one, at which point it adopts the other instant's zone.
type Instant struct {
	t     time.Time
	naive bool
}

// Layouts accepted for ISO-8601 strings carrying an offset.
var awareLayouts = []string{
	"2006-01-02T15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02T15:04:05.999999999-0700",
	"2006-01-02T15:04-07:00",
}

// Layouts accepted for ISO-8601 strings without an offset.
var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

// FromTime wraps t as an aware instant.
func FromTime(t time.Time) Instant {
	return Instant{t: t}
}

// Naive builds an instant from wall clock fields with no zone attached.
func Naive(year int, month time.Month, day, hour, min, sec, nsec int) Instant {
	return Instant{t: time.Date(year, month, day, hour, min, sec, nsec, time.UTC), naive: true}
}

// FromEpochMillis converts an epoch millisecond count to an aware UTC instant.
func FromEpochMillis(ms float64) Instant {
	return Instant{t: time.UnixMicro(int64(math.Round(ms * 1000))).UTC()}
}

// ParseISO parses an ISO-8601 timestamp. A trailing "Z" is rewritten to an
// explicit +00:00 offset first.
func ParseISO(s string) (Instant, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Instant{}, errors.NotValidf("empty timestamp")
	}
	if strings.HasSuffix(s, "Z") || strings.HasSuffix(s, "z") {
		s = s[:len(s)-1] + "+00:00"
	}
	for _, layout := range awareLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Instant{t: t}, nil
		}
	}
	for _, layout := range naiveLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Instant{t: t, naive: true}, nil
		}
	}
	return Instant{}, errors.NotValidf("timestamp %q", s)
}

// Normalize turns a raw timestamp value into an Instant. Numbers (and numeric
// strings) are epoch milliseconds in UTC; other strings are parsed as ISO-8601.
func Normalize(raw any) (Instant, error) {
	switch v := raw.(type) {
	case nil:
		return Instant{}, errors.NotValidf("missing timestamp")
	case Instant:
		return v, nil
	case time.Time:
		return FromTime(v), nil
	case string:
		if inst, err := ParseISO(v); err == nil {
			return inst, nil
		}
		ms, err := cast.ToFloat64E(strings.TrimSpace(v))
		if err != nil {
			return Instant{}, errors.NotValidf("timestamp %q", v)
		}
		return FromEpochMillis(ms), nil
	case bool:
		return Instant{}, errors.NotValidf("timestamp %v", v)
	}
	ms, err := cast.ToFloat64E(raw)
	if err != nil || math.IsNaN(ms) || math.IsInf(ms, 0) {
		return Instant{}, errors.NotValidf("timestamp %v", raw)
	}
	return FromEpochMillis(ms), nil
}

// Defined reports whether the instant carries a value.
func (i Instant) Defined() bool {
	return !i.t.IsZero()
}

// IsNaive reports whether the instant was parsed without a zone.
func (i Instant) IsNaive() bool {
	return i.naive
}

// Time returns the underlying time. Naive instants are reported in UTC.
func (i Instant) Time() time.Time {
	return i.t
}

// In returns the naive wall clock reinterpreted in loc. Aware instants are
// converted instead.
func (i Instant) In(loc *time.Location) Instant {
	if !i.naive {
		return Instant{t: i.t.In(loc)}
	}
	t := i.t
	return Instant{t: time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), loc)}
}

// Sub returns i-u. When exactly one side is naive it is coerced to the other
// side's zone, never the reverse.
func (i Instant) Sub(u Instant) time.Duration {
	a, b := i, u
	switch {
	case a.naive && !b.naive:
		a = a.In(b.t.Location())
	case b.naive && !a.naive:
		b = b.In(a.t.Location())
	}
	return a.t.Sub(b.t)
}

// Seconds is Sub expressed in fractional seconds.
func (i Instant) Seconds(u Instant) float64 {
	return i.Sub(u).Seconds()
}

// Before orders two instants using the same coercion rule as Sub.
func (i Instant) Before(u Instant) bool {
	return i.Sub(u) < 0
}

// Format formats the instant with a time layout.
func (i Instant) Format(layout string) string {
	return i.t.Format(layout)
}

// String renders the instant the way an ISO timestamp is printed, with the
// offset omitted for naive values.
func (i Instant) String() string {
	if !i.Defined() {
		return "None"
	}
	if i.naive {
		return i.t.Format("2006-01-02 15:04:05.999999")
	}
	return i.t.Format("2006-01-02 15:04:05.999999-07:00")
}
