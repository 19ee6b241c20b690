package grading

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateGradeOrderedRules(t *testing.T) {
	cases := []struct {
		name  string
		value float64
		max   float64
		kind  GradeKind
		valid bool
		msg   string
	}{
		{"negative", -0.5, 10, KindMonthly, false, "grade cannot be negative"},
		{"over max", 10.5, 10, KindMonthly, false, "grade cannot exceed 10"},
		{"negative wins over max", -1, 10, KindExam, false, "grade cannot be negative"},
		{"three decimals monthly", 7.125, 10, KindMonthly, false, "at most two decimal places"},
		{"three decimals exam allowed", 61.125, 70, KindExam, true, ""},
		{"two decimals", 9.25, 10, KindMonthly, true, ""},
		{"boundary max", 70, 70, KindExam, true, ""},
		{"zero", 0, 10, KindMonthly, true, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := ValidateGrade(tc.value, tc.max, tc.kind)
			assert.Equal(t, tc.valid, result.IsValid)
			if !tc.valid {
				assert.Equal(t, tc.msg, result.Error)
			}
		})
	}
}

func TestValidateGradeProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 5000; i++ {
		// Random values with two decimal places across and beyond range.
		value := math.Round(rng.Float64()*30000-5000) / 100
		max := math.Round(rng.Float64()*10000+1) / 100
		result := ValidateGrade(value, max, KindExam)
		expected := value >= 0 && value <= max
		require.Equal(t, expected, result.IsValid, "value=%v max=%v", value, max)
	}
}

func TestValidateGradePrecisionProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 2000; i++ {
		cents := rng.Intn(1000) // 0.00 .. 9.99
		value := float64(cents) / 100
		require.True(t, ValidateGrade(value, 10, KindMonthly).IsValid, "value=%v", value)

		withThirdDecimal := value + 0.001
		if withThirdDecimal <= 10 {
			require.False(t, ValidateGrade(withThirdDecimal, 10, KindMonthly).IsValid, "value=%v", withThirdDecimal)
		}
	}
}
