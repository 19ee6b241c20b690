package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/almanar-institute/grades-api/internal/models"
)

func TestAvailablePeriods(t *testing.T) {
	cases := []struct {
		level    models.EducationLevel
		system   models.StudySystem
		expected []models.PeriodKey
	}{
		{models.LevelFirstYear, models.SystemRegular, []models.PeriodKey{models.PeriodFirst, models.PeriodSecond, models.PeriodThird}},
		{models.LevelSecondYear, models.SystemRegular, []models.PeriodKey{models.PeriodFirst, models.PeriodSecond, models.PeriodThird}},
		{models.LevelFirstYear, models.SystemDistance, []models.PeriodKey{models.PeriodThird}},
		{models.LevelSecondYear, models.SystemDistance, []models.PeriodKey{models.PeriodThird}},
		{models.LevelThirdYear, models.SystemRegular, []models.PeriodKey{models.PeriodFirst, models.PeriodSecond}},
		{models.LevelThirdYear, models.SystemDistance, nil},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.expected, AvailablePeriods(tc.level, tc.system), "%s/%s", tc.level, tc.system)
	}
}

func TestThirdYearDistanceNotGradable(t *testing.T) {
	assert.False(t, Gradable(models.LevelThirdYear, models.SystemDistance))
	assert.True(t, Gradable(models.LevelThirdYear, models.SystemRegular))
	assert.False(t, PeriodAvailable(models.LevelThirdYear, models.SystemDistance, models.PeriodThird))
	assert.False(t, PeriodAvailable(models.LevelThirdYear, models.SystemRegular, models.PeriodThird))
	assert.True(t, PeriodAvailable(models.LevelFirstYear, models.SystemDistance, models.PeriodThird))
	assert.False(t, PeriodAvailable(models.LevelFirstYear, models.SystemDistance, models.PeriodFirst))
}
