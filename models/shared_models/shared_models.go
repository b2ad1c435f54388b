package shared_models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// LocalLayout is the wire format for booking dates: ISO-8601 local time
// without a zone offset.
const LocalLayout = "2006-01-02T15:04:05"

const localMinuteLayout = "2006-01-02T15:04"

var (
	// Location interprets offset-less timestamps. Set once at startup.
	Location = time.UTC
	// CurrencyPrefix is prepended to rendered money values.
	CurrencyPrefix = "Rs."
)

// GenerateUUIDv7 returns a time-ordered id for new rows.
func GenerateUUIDv7() (uuid.UUID, error) {
	return uuid.NewV7()
}

// ParseLocal parses a local timestamp in Location. Minute precision input
// gets ":00" seconds appended.
func ParseLocal(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if len(s) == len(localMinuteLayout) {
		s += ":00"
	}
	t, err := time.ParseInLocation(LocalLayout, s, Location)
	if err != nil {
		return time.Time{}, fmt.Errorf("expected %s: %w", "YYYY-MM-DDTHH:mm:ss", err)
	}
	return t, nil
}

// FormatLocal renders t in Location without an offset.
func FormatLocal(t time.Time) string {
	return t.In(Location).Format(LocalLayout)
}

// Money is an amount in minor units (1/100 of the currency unit).
type Money int64

// ParseMoney accepts "5000", "5000.5" or "5000.50".
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	whole, frac, _ := strings.Cut(s, ".")
	if len(frac) > 2 {
		return 0, fmt.Errorf("amount %q has more than two decimal places", s)
	}
	if !digits(whole) || !digits(frac) || whole+frac == "" {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	for len(frac) < 2 {
		frac += "0"
	}
	if whole == "" {
		whole = "0"
	}
	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil || units > (math.MaxInt64-99)/100 {
		return 0, fmt.Errorf("amount %q is out of range", s)
	}
	cents, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	m := Money(units*100 + cents)
	if neg {
		m = -m
	}
	return m, nil
}

func digits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// String renders the amount as a fixed two-decimal string.
func (m Money) String() string {
	sign := ""
	v := int64(m)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// Display renders the amount with the currency prefix.
func (m Money) Display() string {
	return CurrencyPrefix + m.String()
}

func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// UnmarshalJSON accepts either a JSON string or a JSON number.
func (m *Money) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	s := string(b)
	if len(b) > 0 && b[0] == '"' {
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
	}
	v, err := ParseMoney(s)
	if err != nil {
		return err
	}
	*m = v
	return nil
}
