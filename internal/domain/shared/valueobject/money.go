package valueobject

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Currency is an ISO 4217 code
type Currency string

const (
	COP Currency = "COP" // Colombian Peso (default)
	USD Currency = "USD"
)

// DefaultCurrency is the currency quotations are priced in
const DefaultCurrency = COP

// centavos is the precision of stored line amounts
const centavos int32 = 2

// Money is an immutable amount in one currency
type Money struct {
	amount   decimal.Decimal
	currency Currency
}

// NewMoney creates Money; the currency is required
func NewMoney(amount decimal.Decimal, currency Currency) (Money, error) {
	if currency == "" {
		return Money{}, fmt.Errorf("currency cannot be empty")
	}
	return Money{amount: amount, currency: currency}, nil
}

// NewMoneyCOP creates Money in pesos
func NewMoneyCOP(amount decimal.Decimal) Money {
	return Money{amount: amount, currency: COP}
}

// ParseCOP reads a decimal string as pesos
func ParseCOP(amount string) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount %q: %w", amount, err)
	}
	return NewMoneyCOP(d), nil
}

// Zero returns no money in the currency
func Zero(currency Currency) Money {
	return Money{amount: decimal.Zero, currency: currency}
}

func (m Money) Amount() decimal.Decimal { return m.amount }

func (m Money) Currency() Currency { return m.currency }

func (m Money) IsZero() bool { return m.amount.IsZero() }

func (m Money) IsNegative() bool { return m.amount.IsNegative() }

// Add sums two amounts of the same currency
func (m Money) Add(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, fmt.Errorf("cannot add %s to %s", other.currency, m.currency)
	}
	return Money{amount: m.amount.Add(other.amount), currency: m.currency}, nil
}

// MustAdd is Add for amounts known to share a currency
func (m Money) MustAdd(other Money) Money {
	sum, err := m.Add(other)
	if err != nil {
		panic(err)
	}
	return sum
}

// Sum adds amounts of one currency. An empty list is zero pesos.
func Sum(values ...Money) (Money, error) {
	total := Zero(DefaultCurrency)
	if len(values) > 0 {
		total = Zero(values[0].currency)
	}
	for _, v := range values {
		var err error
		if total, err = total.Add(v); err != nil {
			return Money{}, err
		}
	}
	return total, nil
}

// Multiply scales the amount without rounding
func (m Money) Multiply(factor decimal.Decimal) Money {
	return Money{amount: m.amount.Mul(factor), currency: m.currency}
}

// Round rounds half away from zero to the given decimal places
func (m Money) Round(places int32) Money {
	return Money{amount: m.amount.Round(places), currency: m.currency}
}

// LineTotal prices quantity units at m, kept to centavos
func (m Money) LineTotal(quantity decimal.Decimal) Money {
	return m.Multiply(quantity).Round(centavos)
}

// TaxAt applies rate and rounds to whole units, as VAT is invoiced in pesos
func (m Money) TaxAt(rate decimal.Decimal) Money {
	return m.Multiply(rate).Round(0)
}

func (m Money) Equals(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.amount.StringFixed(centavos), m.currency)
}
