package contracts

import (
	"errors"
	"testing"
)

func TestParseCalculationMethod(t *testing.T) {
	tests := []struct {
		input   string
		want    CalculationMethod
		wantErr bool
	}{
		{input: "openClose", want: MethodOpenClose},
		{input: "maxMax", want: MethodMaxMax},
		{input: "", wantErr: true},
		{input: "openclose", wantErr: true},
		{input: "buyAndHold", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseCalculationMethod(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseCalculationMethod(%q) expected error, got %q", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseCalculationMethod(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseCalculationMethod(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseViewMode(t *testing.T) {
	tests := []struct {
		input   string
		want    ViewMode
		wantErr bool
	}{
		{input: "entry", want: ViewEntry},
		{input: "exit", want: ViewExit},
		{input: "", wantErr: true},
		{input: "Entry", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseViewMode(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseViewMode(%q) expected error, got %q", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseViewMode(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseViewMode(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCalculationMethod_HoldingMonths(t *testing.T) {
	tests := []struct {
		method CalculationMethod
		period int
		want   int
	}{
		// openClose spans one extra calendar month: first-day open in,
		// last-day close out.
		{MethodOpenClose, 1, 2},
		{MethodOpenClose, 3, 4},
		{MethodOpenClose, 12, 13},
		{MethodMaxMax, 1, 1},
		{MethodMaxMax, 12, 12},
	}

	for _, tt := range tests {
		if got := tt.method.HoldingMonths(tt.period); got != tt.want {
			t.Errorf("%s.HoldingMonths(%d) = %d, want %d", tt.method, tt.period, got, tt.want)
		}
	}
}

func TestValidHoldingPeriod(t *testing.T) {
	for _, p := range HoldingPeriods {
		if !ValidHoldingPeriod(p) {
			t.Errorf("ValidHoldingPeriod(%d) = false, want true", p)
		}
	}
	for _, p := range []int{0, 2, 4, 5, 7, 24, -1} {
		if ValidHoldingPeriod(p) {
			t.Errorf("ValidHoldingPeriod(%d) = true, want false", p)
		}
	}
}

func TestNoDataError_Unwrap(t *testing.T) {
	err := &NoDataError{Ticker: "XYZ"}

	if !errors.Is(err, ErrNoData) {
		t.Error("NoDataError should unwrap to ErrNoData")
	}
	if err.Error() != "XYZ: no qualifying price history" {
		t.Errorf("unexpected error message: %q", err.Error())
	}
}
