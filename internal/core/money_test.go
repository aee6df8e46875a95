package core

import "testing"

func TestParseDecimalToCents(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"1.23", 123, true},
		{"1,23", 123, true},
		{"0.01", 1, true},
		{"120.50", 12050, true},
		{"1.005", 101, true}, // half-up rounding
		{"12.346", 1235, true},
		{"12.344", 1234, true},
		{" 2.50 ", 250, true},
		{"0", 0, true}, // zero totals are legitimate
		{"0,00", 0, true},
		{".5", 50, true},
		{"-1", 0, false},
		{"+1", 0, false},
		{"", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
	}
	for i, tc := range cases {
		out, err := ParseDecimalToCents(tc.in)
		if tc.ok && err != nil {
			t.Fatalf("case %d (%q): expected ok, got %v", i, tc.in, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d (%q): expected error", i, tc.in)
		}
		if tc.ok && out != tc.out {
			t.Fatalf("case %d (%q): got %d want %d", i, tc.in, out, tc.out)
		}
	}
}

func TestMoneyAdd(t *testing.T) {
	got := Money{Cents: 5000}.Add(Money{Cents: 7050})
	if got.Cents != 12050 {
		t.Fatalf("got %d want 12050", got.Cents)
	}
}

func TestMoneyEuros(t *testing.T) {
	if got := (Money{Cents: 12050}).Euros(); got != 120.50 {
		t.Fatalf("got %v want 120.50", got)
	}
}
