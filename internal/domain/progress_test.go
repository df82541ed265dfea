package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(s string) *time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return &t
}

func TestComputeProgress(t *testing.T) {
	tests := []struct {
		name  string
		in    ProgressBounds
		total int
		done  int
		pct   int
	}{
		{
			name:  "halfway",
			in:    ProgressBounds{BaselineStart: day("2024-01-01"), BaselineEnd: day("2024-01-10"), ActualEnd: day("2024-01-05")},
			total: 10, done: 5, pct: 50,
		},
		{
			name:  "past baseline is capped",
			in:    ProgressBounds{BaselineStart: day("2024-01-01"), BaselineEnd: day("2024-01-10"), ActualEnd: day("2024-01-20")},
			total: 10, done: 20, pct: 100,
		},
		{
			name:  "no actual end",
			in:    ProgressBounds{BaselineStart: day("2024-01-01"), BaselineEnd: day("2024-01-10")},
			total: 10, done: 0, pct: 0,
		},
		{
			name: "no baseline",
			in:   ProgressBounds{ActualEnd: day("2024-01-05")},
		},
		{
			name:  "actual before start",
			in:    ProgressBounds{BaselineStart: day("2024-01-10"), BaselineEnd: day("2024-01-20"), ActualEnd: day("2024-01-01")},
			total: 11, done: 0, pct: 0,
		},
		{
			name:  "inverted baseline floors total at one",
			in:    ProgressBounds{BaselineStart: day("2024-01-10"), BaselineEnd: day("2024-01-01"), ActualEnd: day("2024-01-10")},
			total: 1, done: 1, pct: 100,
		},
		{
			name:  "fraction is floored",
			in:    ProgressBounds{BaselineStart: day("2024-01-01"), BaselineEnd: day("2024-01-03"), ActualEnd: day("2024-01-01")},
			total: 3, done: 1, pct: 33,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ComputeProgress(tc.in)
			assert.Equal(t, tc.total, got.TotalDays)
			assert.Equal(t, tc.done, got.DoneDays)
			assert.Equal(t, tc.pct, got.Percent)
		})
	}
}

func TestScheduleItemView_Derive(t *testing.T) {
	today := *day("2024-03-10")

	v := ScheduleItemView{BaselineEnd: day("2024-03-01"), CurrentEnd: day("2024-03-15")}
	v.Derive(today)
	assert.Equal(t, day("2024-03-15"), v.DueEndBasis)
	if assert.NotNil(t, v.PlanShiftDays) {
		assert.Equal(t, 14, *v.PlanShiftDays)
	}
	assert.False(t, v.IsProgressDelayed)

	v = ScheduleItemView{BaselineEnd: day("2024-03-01")}
	v.Derive(today)
	assert.True(t, v.IsProgressDelayed, "open item past its due date is delayed")

	v = ScheduleItemView{BaselineEnd: day("2024-03-01"), ActualEnd: day("2024-03-01")}
	v.Derive(today)
	assert.False(t, v.IsProgressDelayed)

	v = ScheduleItemView{}
	v.Derive(today)
	assert.Nil(t, v.DueEndBasis)
	assert.False(t, v.IsProgressDelayed)
}

func TestScheduleActual_DerivedStatus(t *testing.T) {
	a := ScheduleActual{StartDate: day("2024-01-01"), EndDate: day("2024-01-02")}
	s, ok := a.DerivedStatus()
	assert.True(t, ok)
	assert.Equal(t, ItemDone, s)

	a = ScheduleActual{StartDate: day("2024-01-01")}
	s, ok = a.DerivedStatus()
	assert.True(t, ok)
	assert.Equal(t, ItemInProgress, s)

	a = ScheduleActual{}
	_, ok = a.DerivedStatus()
	assert.False(t, ok)

	a = ScheduleActual{StartDate: day("2024-01-05"), EndDate: day("2024-01-02")}
	assert.ErrorIs(t, a.Validate(), ErrInvalidArgument)
}
