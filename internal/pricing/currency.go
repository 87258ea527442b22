package pricing

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Catalog prices are stored in kopecks (minor units). Display always happens
// in major units of the storefront currency.

type Currency struct {
	Code           string
	Symbol         string
	Rate           decimal.Decimal // per one ruble
	FractionDigits int
	Prefix         bool // symbol before the amount
	Tag            language.Tag
}

var Currencies = map[string]Currency{
	"RUB": {
		Code:           "RUB",
		Symbol:         "₽",
		Rate:           decimal.NewFromInt(1),
		FractionDigits: 0,
		Tag:            language.Russian,
	},
	"USD": {
		Code:           "USD",
		Symbol:         "$",
		Rate:           decimal.NewFromFloat(0.011),
		FractionDigits: 2,
		Prefix:         true,
		Tag:            language.AmericanEnglish,
	},
	"EUR": {
		Code:           "EUR",
		Symbol:         "€",
		Rate:           decimal.NewFromFloat(0.010),
		FractionDigits: 2,
		Tag:            language.German,
	},
}

// Lookup falls back to RUB for unknown codes.
func Lookup(code string) Currency {
	if c, ok := Currencies[code]; ok {
		return c
	}
	return Currencies["RUB"]
}

// MinorToMajor converts kopecks to rubles.
func MinorToMajor(minor int64) decimal.Decimal {
	return decimal.NewFromInt(minor).Div(decimal.NewFromInt(100))
}

// ConvertMinor converts kopecks into major units of the target currency,
// rounded to 2 decimal places.
func ConvertMinor(minor int64, code string) decimal.Decimal {
	return ConvertMajor(MinorToMajor(minor), code)
}

// ConvertMajor converts a ruble amount into major units of the target
// currency, rounded to 2 decimal places.
func ConvertMajor(rubles decimal.Decimal, code string) decimal.Decimal {
	c := Lookup(code)
	return rubles.Mul(c.Rate).Round(2)
}

// FormatMinor renders kopecks as a display string, e.g. 300000 -> "3 000 ₽"
// under RUB rules (zero fraction digits, locale grouping).
func FormatMinor(minor int64, code string) string {
	return FormatMajor(MinorToMajor(minor), code)
}

// FormatMajor renders a ruble amount as a display string in the target
// currency.
func FormatMajor(rubles decimal.Decimal, code string) string {
	c := Lookup(code)
	converted, _ := rubles.Mul(c.Rate).Round(2).Float64()

	p := message.NewPrinter(c.Tag)
	n := p.Sprintf("%v", number.Decimal(converted,
		number.MinFractionDigits(c.FractionDigits),
		number.MaxFractionDigits(c.FractionDigits),
	))

	// the symbol is joined with U+00A0, matching Intl.NumberFormat output
	if c.Prefix {
		return c.Symbol + n
	}
	return n + " " + c.Symbol
}

// Symbol returns the display symbol for a currency code, "₽" for unknown ones.
func Symbol(code string) string {
	return Lookup(code).Symbol
}
