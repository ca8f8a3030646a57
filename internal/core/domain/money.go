package domain

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	CurrencyUSD = "USD"

	minorUnitExp = 2
)

var ErrInvalidPrice = errors.New("invalid price")

// currencyMarkers maps the marker used by the mobile client's price strings
// ("19.99 $") to a currency code. Checked in order, codes before symbols.
var currencyMarkers = []struct {
	marker string
	code   string
}{
	{"USD", CurrencyUSD},
	{"EUR", "EUR"},
	{"TRY", "TRY"},
	{"$", CurrencyUSD},
	{"€", "EUR"},
	{"₺", "TRY"},
}

var (
	maxMinorUnits = decimal.NewFromInt(math.MaxInt64)
	minMinorUnits = decimal.NewFromInt(math.MinInt64)
)

var currencySymbols = map[string]string{
	CurrencyUSD: "$",
	"EUR":       "€",
	"TRY":       "₺",
}

// Money is an amount in minor units (cents) of a single currency.
type Money struct {
	Amount   int64
	Currency string
}

func NewMoney(amount int64, currency string) Money {
	return Money{Amount: amount, Currency: currency}
}

// MoneyFromFloat converts a catalog price such as 109.95 into minor units,
// rounding half away from zero at the second decimal.
func MoneyFromFloat(price float64, currency string) (Money, error) {
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return Money{}, fmt.Errorf("%w: %v", ErrInvalidPrice, price)
	}
	amount, err := minorUnits(decimal.NewFromFloat(price))
	if err != nil {
		return Money{}, err
	}
	return Money{Amount: amount, Currency: currency}, nil
}

// ParsePrice parses the "<number> <marker>" price strings produced by older
// clients, e.g. "19.99 $". A missing marker falls back to defaultCurrency.
func ParsePrice(s, defaultCurrency string) (Money, error) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return Money{}, fmt.Errorf("%w: empty", ErrInvalidPrice)
	}

	number, currency := raw, defaultCurrency
	for _, m := range currencyMarkers {
		if strings.HasSuffix(raw, m.marker) {
			number, currency = strings.TrimSpace(strings.TrimSuffix(raw, m.marker)), m.code
			break
		}
		if strings.HasPrefix(raw, m.marker) {
			number, currency = strings.TrimSpace(strings.TrimPrefix(raw, m.marker)), m.code
			break
		}
	}

	d, err := decimal.NewFromString(number)
	if err != nil {
		return Money{}, fmt.Errorf("%w: %q", ErrInvalidPrice, s)
	}
	if d.IsNegative() {
		return Money{}, fmt.Errorf("%w: negative %q", ErrInvalidPrice, s)
	}
	if currency == "" {
		return Money{}, fmt.Errorf("%w: no currency in %q", ErrInvalidPrice, s)
	}

	amount, err := minorUnits(d)
	if err != nil {
		return Money{}, fmt.Errorf("%w: %q", err, s)
	}
	return Money{Amount: amount, Currency: currency}, nil
}

// minorUnits rounds d to cents and rejects values that do not fit in an int64.
func minorUnits(d decimal.Decimal) (int64, error) {
	cents := d.Round(minorUnitExp).Shift(minorUnitExp)
	if cents.GreaterThan(maxMinorUnits) || cents.LessThan(minMinorUnits) {
		return 0, fmt.Errorf("%w: out of range", ErrInvalidPrice)
	}
	return cents.IntPart(), nil
}

// Mul multiplies the amount by a quantity.
func (m Money) Mul(n int) Money {
	return Money{Amount: m.Amount * int64(n), Currency: m.Currency}
}

// Add sums two amounts of the same currency. Callers check currencies first.
func (m Money) Add(o Money) Money {
	return Money{Amount: m.Amount + o.Amount, Currency: m.Currency}
}

func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.Amount, -minorUnitExp)
}

// String formats the amount with two decimals, e.g. "25.50".
func (m Money) String() string {
	return m.Decimal().StringFixed(minorUnitExp)
}

// Display formats the amount the way the mobile client shows it, e.g. "19.99 $".
func (m Money) Display() string {
	symbol, ok := currencySymbols[m.Currency]
	if !ok {
		symbol = m.Currency
	}
	return m.String() + " " + symbol
}
