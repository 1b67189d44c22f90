package core

import (
	"testing"

	"github.com/peterldowns/testy/check"
)

func TestMeetsFloor(t *testing.T) {
	tests := []struct {
		name       string
		amount     float64
		floorPrice float64
		expected   bool
	}{
		{"amount above floor", 150.0, 100.0, true},
		{"amount at floor", 100.0, 100.0, true},
		{"amount below floor", 99.99, 100.0, false},
		{"zero floor - always passes", 1.0, 0.0, true},
		{"zero floor with zero amount", 0.0, 0.0, true},
		{"negative amount below floor", -1.0, 100.0, false},
		{"negative amount with zero floor", -1.0, 0.0, false},
		{"decimal precision edge case - passes", 99.999999, 100.0, true},
		{"decimal precision edge case - fails", 99.9999, 100.0, false},
		{"very small difference - passes", 100.0001, 100.0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := MeetsFloor(tt.amount, tt.floorPrice)
			check.Equal(t, tt.expected, result)
		})
	}
}

func TestCompareAmounts(t *testing.T) {
	tests := []struct {
		name     string
		a        float64
		b        float64
		expected int
	}{
		{"a less than b", 100.0, 150.0, -1},
		{"a greater than b", 150.0, 100.0, 1},
		{"equal", 150.0, 150.0, 0},
		{"equal within precision", 150.00004, 150.0, 0},
		{"distinct beyond precision", 150.0001, 150.0, 1},
		{"zero vs zero", 0.0, 0.0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check.Equal(t, tt.expected, CompareAmounts(tt.a, tt.b))
		})
	}
}

func TestAddSubAmounts(t *testing.T) {
	// Classic float trap: 0.1+0.2 must come out as exactly 0.3.
	check.Equal(t, 0.3, AddAmounts(0.1, 0.2))
	check.Equal(t, 0.1, SubAmounts(0.3, 0.2))
	check.Equal(t, 850.0, SubAmounts(1000.0, 150.0))
	check.Equal(t, 0.0, SubAmounts(150.0, 150.0))
}
