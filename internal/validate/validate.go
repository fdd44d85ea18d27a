package validate

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	reEmail = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	reID    = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
)

func Email(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) == 0 || len(s) > 100 {
		return "", false
	}
	return s, reEmail.MatchString(s)
}

// Password enforces a minimum length for registration; format beyond that is
// the user's business.
func Password(s string) bool {
	return len(s) >= 6 && len(s) <= 72 // bcrypt input cap
}

// PersonName validates a display name (2-100 chars).
func PersonName(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) < 2 || len(s) > 100 {
		return "", false
	}
	return s, true
}

func Role(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s == "buyer" || s == "supplier"
}

// ID validates a simple resource identifier (listing/request ids).
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reID.MatchString(s)
}

func Category(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s == "raw_material" || s == "service" || s == "other"
}

func Unit(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s == "kg" || s == "ton" || s == "litre" || s == "unit"
}

func PricingMode(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s == "fixed" || s == "rfq_only"
}

// ListingName validates a listing title (3-100 chars).
func ListingName(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) < 3 || len(s) > 100 {
		return "", false
	}
	return s, true
}

func Description(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, len(s) <= 1000
}

func Country(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 100 {
		return "", false
	}
	return s, true
}

// Quantity parses a non-negative integer (listing stock).
func Quantity(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// RequestedQuantity parses a strictly positive integer.
func RequestedQuantity(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// Price parses a non-negative decimal amount. Currency math stays in
// decimal form end to end; never float.
func Price(s string) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil || d.IsNegative() {
		return decimal.Decimal{}, false
	}
	return d, true
}

func Message(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, len(s) <= 1000
}
