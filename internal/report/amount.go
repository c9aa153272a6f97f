package report

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/capbudget/internal/model"
)

var thousand = decimal.NewFromInt(1000)

var amountCleaner = strings.NewReplacer(",", "", "-", "")

// ParseCost parses a figure reported in thousands, as found on the adopted,
// non-city continuation and commitment rows. A '-' anywhere in the token
// marks it negative ("1,234-" is -1234000). Fractions are truncated and a
// blank token is zero.
func ParseCost(raw string) (model.Money, error) {
	negative := strings.Contains(raw, "-")
	s := strings.TrimSpace(amountCleaner.Replace(raw))
	if s == "" {
		return model.Money{}, nil
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return model.Money{}, fmt.Errorf("%w: %q", ErrMalformedAmount, raw)
	}
	d = d.Truncate(0).Mul(thousand)
	if negative {
		d = d.Neg()
	}
	return model.NewMoney(d), nil
}

// ParseHeaderAmount parses a full-unit figure from a balance, liability or
// expenditure header. Separators are dropped and a leading or trailing '-'
// makes the value negative; no scaling is applied.
func ParseHeaderAmount(raw string) (model.Money, error) {
	s := strings.TrimSpace(raw)
	negative := strings.HasPrefix(s, "-") || strings.HasSuffix(s, "-")
	s = strings.TrimSpace(amountCleaner.Replace(s))
	if s == "" {
		return model.Money{}, fmt.Errorf("%w: empty amount", ErrMalformedAmount)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return model.Money{}, fmt.Errorf("%w: %q", ErrMalformedAmount, raw)
	}
	if negative {
		d = d.Neg()
	}
	return model.NewMoney(d), nil
}
