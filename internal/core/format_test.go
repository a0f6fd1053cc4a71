package core

import "testing"

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in    string
		cents int64
		valid bool
	}{
		{"12.34", 1234, true},
		{"12,34", 1234, true},
		{"1234.5", 123450, true},
		{"1 234,50", 123450, true},
		{"0", 0, true},
		{"-3,20", -320, true},
		{"", 0, false},
		{"n/a", 0, false},
		{"12.3.4", 0, false},
	}
	for _, c := range cases {
		got := ParseAmount(c.in)
		if got.Valid != c.valid {
			t.Errorf("ParseAmount(%q) valid=%v, want %v", c.in, got.Valid, c.valid)
			continue
		}
		if got.Valid && got.Cents != c.cents {
			t.Errorf("ParseAmount(%q) cents=%d, want %d", c.in, got.Cents, c.cents)
		}
	}
}

func TestParseQuantity(t *testing.T) {
	if q := ParseQuantity("3"); !q.Valid || q.N != 3 {
		t.Fatalf("ParseQuantity(3) = %+v", q)
	}
	if q := ParseQuantity("2,0"); !q.Valid || q.N != 2 {
		t.Fatalf("ParseQuantity(2,0) = %+v", q)
	}
	if q := ParseQuantity("many"); q.Valid {
		t.Fatalf("ParseQuantity(many) should be invalid")
	}
}

func TestFormatCents(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{123450, "1 234,50"},
		{500, "5,00"},
		{0, "0,00"},
		{1005, "10,05"},
		{1000, "10,00"},
		{123456789, "1 234 567,89"},
		{-123450, "-1 234,50"},
	}
	for _, c := range cases {
		if got := FormatCents(c.cents); got != c.want {
			t.Errorf("FormatCents(%d) = %q, want %q", c.cents, got, c.want)
		}
	}
}

// A formatted amount must survive re-parsing once separators are removed.
func TestFormatParseRoundTrip(t *testing.T) {
	got := ParseAmount(FormatCents(123450))
	if !got.Valid || got.Cents != 123450 {
		t.Fatalf("round trip = %+v, want 123450 cents", got)
	}
}

func TestAmountFormatMissing(t *testing.T) {
	if s := (Amount{}).Format(); s != "" {
		t.Fatalf("missing amount formats as %q, want empty", s)
	}
}
