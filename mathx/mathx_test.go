package mathx

import (
	"errors"
	"testing"
)

func TestFactorial(t *testing.T) {
	for _, tc := range []struct {
		n    int64
		want int64
	}{
		{0, 1},
		{1, 1},
		{5, 120},
		{10, 3628800},
		{20, 2432902008176640000},
	} {
		got, err := Factorial(tc.n)
		if err != nil {
			t.Fatalf("Factorial(%d): %v", tc.n, err)
		}
		if got != tc.want {
			t.Errorf("Factorial(%d) = %d, want %d", tc.n, got, tc.want)
		}
	}
}

func TestFactorialNegative(t *testing.T) {
	if _, err := Factorial(-1); !errors.Is(err, ErrNegativeOperand) {
		t.Errorf("Factorial(-1) = %v, want ErrNegativeOperand", err)
	}
}

func TestClamp(t *testing.T) {
	if got, _ := Clamp(5, 0, 10); got != 5 {
		t.Errorf("Clamp(5, 0, 10) = %d, want 5", got)
	}
	if got, _ := Clamp(-3, 0, 10); got != 0 {
		t.Errorf("Clamp(-3, 0, 10) = %d, want 0", got)
	}
	if got, _ := Clamp(42, 0, 10); got != 10 {
		t.Errorf("Clamp(42, 0, 10) = %d, want 10", got)
	}
	if got, _ := Clamp(2.5, 1.0, 2.0); got != 2.0 {
		t.Errorf("Clamp(2.5, 1.0, 2.0) = %v, want 2.0", got)
	}
	if got, _ := Clamp(7, 7, 7); got != 7 {
		t.Errorf("Clamp(7, 7, 7) = %d, want 7", got)
	}
}

func TestClampInvertedBounds(t *testing.T) {
	if _, err := Clamp(5, 10, 0); !errors.Is(err, ErrInvertedBounds) {
		t.Errorf("Clamp with inverted bounds = %v, want ErrInvertedBounds", err)
	}
}

func TestRoundX(t *testing.T) {
	for _, tc := range []struct {
		v        float64
		decimals int
		want     float64
	}{
		{58.1234, 2, 58.12},
		{58.1254, 2, 58.13},
		{-58.1254, 2, -58.13},
		{58.5, 0, 59},
		{1234, -2, 1200},
		{1250, -2, 1300},
	} {
		if got := RoundX(tc.v, tc.decimals); got != tc.want {
			t.Errorf("RoundX(%v, %d) = %v, want %v", tc.v, tc.decimals, got, tc.want)
		}
	}
}

func TestRound2(t *testing.T) {
	if got := Round2(3.14159); got != 3.14 {
		t.Errorf("Round2(3.14159) = %v, want 3.14", got)
	}
}
