package setup

import (
	"strings"
	"unicode"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// NormalizeDecimalInput turns a typed number into decimal.NewFromString form.
// Whitespace is dropped, ',' is read as '.', separators after the first one are
// dropped and a single leading '-' is kept. Any other character is an error.
func NormalizeDecimalInput(s string) (string, error) {
	var b strings.Builder
	seenSeparator := false
	seenDigit := false

	for i, r := range strings.TrimSpace(s) {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
			seenDigit = true
		case r == '.' || r == ',':
			if !seenSeparator {
				b.WriteByte('.')
				seenSeparator = true
			}
		case r == '-' && i == 0:
			b.WriteByte('-')
		case unicode.IsSpace(r):
		default:
			return "", errors.Errorf("%q is not a number", s)
		}
	}
	if !seenDigit {
		return "", errors.Errorf("%q is not a number", s)
	}

	return b.String(), nil
}

// ParseDecimal parses user input such as "1 234,5" or "-12.5".
func ParseDecimal(s string) (decimal.Decimal, error) {
	clean, err := NormalizeDecimalInput(s)
	if err != nil {
		return decimal.Zero, err
	}

	negative := strings.HasPrefix(clean, "-")
	clean = strings.TrimPrefix(clean, "-")
	if strings.HasPrefix(clean, ".") {
		clean = "0" + clean
	}
	clean = strings.TrimSuffix(clean, ".")
	if negative {
		clean = "-" + clean
	}

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, errors.Wrapf(err, "parse %q", s)
	}
	return d, nil
}

// ParsePositive parses s and requires a value above zero.
func ParsePositive(s string) (decimal.Decimal, error) {
	d, err := ParseDecimal(s)
	if err != nil {
		return decimal.Zero, err
	}
	if !d.IsPositive() {
		return decimal.Zero, errors.New("must be greater than zero")
	}
	return d, nil
}
