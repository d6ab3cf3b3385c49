package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"dot separator", "12.34", "12.34", false},
		{"comma separator", "12,34", "12.34", false},
		{"integer", "1200", "1200.00", false},
		{"surrounding spaces", "  9.90 ", "9.90", false},
		{"empty", "", "", true},
		{"negative", "-5.00", "", true},
		{"zero", "0", "", true},
		{"three decimals", "12.345", "", true},
		{"not a number", "abc", "", true},
		{"over magnitude cap", "10000000000.01", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAmount(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseAmount(%q) = %s, want error", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseAmount(%q) error: %v", tt.in, err)
			}
			if AmountString(got) != tt.want {
				t.Errorf("ParseAmount(%q) = %s, want %s", tt.in, AmountString(got), tt.want)
			}
		})
	}
}

func TestValidateAmount_Cap(t *testing.T) {
	cap := decimal.New(1, 10) // 10^10 is still allowed
	if err := ValidateAmount(cap); err != nil {
		t.Errorf("ValidateAmount(10^10) = %v, want nil", err)
	}
	if err := ValidateAmount(cap.Add(decimal.New(1, -2))); err != ErrInvalidAmount {
		t.Errorf("ValidateAmount(10^10 + 0.01) = %v, want ErrInvalidAmount", err)
	}
}
