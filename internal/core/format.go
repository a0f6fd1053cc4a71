// Package core holds the order domain model, numeric coercion, and the
// pivot/aggregation logic shared by the HTML views and the JSON API.
package core

import (
	"math"
	"strconv"
	"strings"
)

// ParseAmount coerces a spreadsheet cell to an Amount. It accepts both dot
// and comma decimal separators and tolerates space (or NBSP) thousands
// separators, so a formatted "1 234,50" round-trips. Unparseable input
// yields an invalid Amount, never zero.
func ParseAmount(s string) Amount {
	s = strings.TrimSpace(s)
	if s == "" {
		return Amount{}
	}
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, ",", ".")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Amount{}
	}
	return Amount{Cents: int64(math.Round(f * 100)), Valid: true}
}

// ParseQuantity coerces a cell to an item count. Fractional input is
// accepted and rounded, matching the loose typing of the source sheet.
func ParseQuantity(s string) Quantity {
	s = strings.TrimSpace(s)
	if s == "" {
		return Quantity{}
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Quantity{N: n, Valid: true}
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil {
		return Quantity{}
	}
	return Quantity{N: int64(math.Round(f)), Valid: true}
}

// FormatCents renders cents as a currency string with a space as thousands
// separator and exactly two decimals: 123450 -> "1 234,50".
func FormatCents(cents int64) string {
	neg := cents < 0
	if neg {
		cents = -cents
	}
	whole := strconv.FormatInt(cents/100, 10)
	// Group the integer part in threes from the right.
	var b strings.Builder
	lead := len(whole) % 3
	if lead > 0 {
		b.WriteString(whole[:lead])
	}
	for i := lead; i < len(whole); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(whole[i : i+3])
	}
	out := b.String() + "," + pad2(cents%100)
	if neg {
		return "-" + out
	}
	return out
}

func pad2(n int64) string {
	if n < 10 {
		return "0" + strconv.FormatInt(n, 10)
	}
	return strconv.FormatInt(n, 10)
}

// Format renders a valid amount via FormatCents; invalid amounts render
// as an empty string so missing cells stay visibly blank in tables.
func (a Amount) Format() string {
	if !a.Valid {
		return ""
	}
	return FormatCents(a.Cents)
}
