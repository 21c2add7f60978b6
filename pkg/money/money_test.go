package money

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		wantErr  bool
	}{
		{"plain", "5.00", "5.00", false},
		{"dollar sign", "$5.00", "5.00", false},
		{"thousands separator", "$1,234.56", "1234.56", false},
		{"negative", "-$10.00", "-10.00", false},
		{"whitespace", "  $0.99 ", "0.99", false},
		{"no fraction", "$12", "12.00", false},
		{"single fraction digit", "$3.5", "3.50", false},
		{"zero", "$0.00", "0.00", false},
		{"empty", "", "", true},
		{"symbol only", "$", "", true},
		{"not a number", "Free", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := Parse(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Parse(%q) expected error, got %s", tt.input, a)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) unexpected error: %v", tt.input, err)
			}
			if a.String() != tt.expected {
				t.Errorf("Parse(%q) = %s, expected %s", tt.input, a, tt.expected)
			}
		})
	}
}

func TestArithmetic(t *testing.T) {
	a := MustParse("5.00")
	b := MustParse("3.00")

	if got := a.Add(b).String(); got != "8.00" {
		t.Errorf("5.00 + 3.00 = %s, expected 8.00", got)
	}
	if got := a.Sub(b).String(); got != "2.00" {
		t.Errorf("5.00 - 3.00 = %s, expected 2.00", got)
	}
	if got := a.Neg().String(); got != "-5.00" {
		t.Errorf("-(5.00) = %s, expected -5.00", got)
	}
	if got := MustParse("0.56").Div(MustParse("8.00")).Mul(a).Round().String(); got != "0.35" {
		t.Errorf("5.00 * (0.56 / 8.00) rounded = %s, expected 0.35", got)
	}
}

func TestRound(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"round down", "0.321", "0.32"},
		{"round up", "0.327", "0.33"},
		{"half away from zero", "0.325", "0.33"},
		{"negative half away from zero", "-0.325", "-0.33"},
		{"already exact", "1.20", "1.20"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MustParse(tt.input).Round().String(); got != tt.expected {
				t.Errorf("Round(%s) = %s, expected %s", tt.input, got, tt.expected)
			}
		})
	}
}

func TestPredicates(t *testing.T) {
	if !Zero().IsZero() {
		t.Error("Zero() should be zero")
	}
	if !MustParse("-0.01").IsNegative() {
		t.Error("-0.01 should be negative")
	}
	if MustParse("0.01").IsNegative() {
		t.Error("0.01 should not be negative")
	}
	if !MustParse("5.00").Equal(MustParse("5")) {
		t.Error("5.00 and 5 should be equal")
	}
	if MustParse("5.00").Cmp(MustParse("3.00")) != 1 {
		t.Error("5.00 should compare greater than 3.00")
	}
}

func TestRat(t *testing.T) {
	r := MustParse("-5.35").Rat()
	if got := r.FloatString(2); got != "-5.35" {
		t.Errorf("Rat() = %s, expected -5.35", got)
	}
}
