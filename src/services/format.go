package services

import (
	"math"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

var maxMinorUnits = decimal.NewFromInt(math.MaxInt64)

// FormatAmount renders amount in the currency's display format, e.g. "-₹520.00".
// Rupee amounts use Indian digit grouping ("₹1,23,456.78"). Amounts too large
// for go-money's int64 minor units are formatted from the decimal digits.
func FormatAmount(amount decimal.Decimal, currencyCode string) string {
	// money.New never returns a nil currency, unknown codes get a default format.
	cur := *money.New(0, currencyCode).Currency()
	rounded := amount.Round(int32(cur.Fraction))
	minor := rounded.Shift(int32(cur.Fraction))

	if cur.Code != money.INR && minor.Abs().LessThanOrEqual(maxMinorUnits) {
		return cur.Formatter().Format(minor.IntPart())
	}
	return formatDecimal(rounded, cur, cur.Code == money.INR)
}

// formatDecimal follows go-money's Formatter template rules without the int64 limit.
func formatDecimal(rounded decimal.Decimal, cur money.Currency, indianGrouping bool) string {
	digits := rounded.Abs().StringFixed(int32(cur.Fraction))
	intPart, fracPart, _ := strings.Cut(digits, ".")

	sa := groupDigits(intPart, cur.Thousand, indianGrouping)
	if cur.Fraction > 0 {
		sa += cur.Decimal + fracPart
	}
	sa = strings.Replace(cur.Template, "1", sa, 1)
	sa = strings.Replace(sa, "$", cur.Grapheme, 1)
	if rounded.IsNegative() {
		sa = "-" + sa
	}
	return sa
}

// groupDigits inserts sep every three digits, or after the last three and then
// every two when indian is set (lakh and crore grouping).
func groupDigits(digits, sep string, indian bool) string {
	if sep == "" || len(digits) <= 3 {
		return digits
	}
	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]
	step := 3
	if indian {
		step = 2
	}
	var groups []string
	for len(head) > step {
		groups = append([]string{head[len(head)-step:]}, groups...)
		head = head[:len(head)-step]
	}
	groups = append([]string{head}, groups...)
	return strings.Join(append(groups, tail), sep)
}
