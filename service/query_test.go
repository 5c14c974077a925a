package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListQuery_Normalize(t *testing.T) {
	q := ListQuery{Page: 0, Limit: 0, Search: "  rice "}.Normalize()
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, 10, q.Limit)
	assert.Equal(t, "rice", q.Search)
	assert.Equal(t, 0, q.Offset())

	q = ListQuery{Page: 3, Limit: 500}.Normalize()
	assert.Equal(t, MaxLimit, q.Limit)
	assert.Equal(t, 200, q.Offset())
}

func TestNewPagination(t *testing.T) {
	p := NewPagination(3, 10, 25)
	assert.Equal(t, 3, p.Pages)
	assert.Equal(t, int64(25), p.Total)

	assert.Equal(t, 0, NewPagination(1, 10, 0).Pages)
	assert.Equal(t, 1, NewPagination(1, 10, 10).Pages)
	assert.Equal(t, 2, NewPagination(1, 10, 11).Pages)
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `100\%`, EscapeLike("100%"))
	assert.Equal(t, `a\_b`, EscapeLike("a_b"))
	assert.Equal(t, `c:\\dir`, EscapeLike(`c:\dir`))
}

func TestPeriodWindow(t *testing.T) {
	loc := time.FixedZone("CST", 8*3600)
	// 2024-05-15 是周三
	now := time.Date(2024, 5, 15, 13, 0, 0, 0, loc)

	w, err := PeriodWindow(PeriodWeek, now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 12, 0, 0, 0, 0, loc), w.Start)
	assert.Equal(t, time.Date(2024, 5, 19, 0, 0, 0, 0, loc).Add(-time.Nanosecond), w.End)

	w, err = PeriodWindow(PeriodMonth, now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, loc), w.Start)
	assert.Equal(t, 31, w.End.Day())

	w, err = PeriodWindow("", now)
	require.NoError(t, err)
	assert.Equal(t, time.May, w.Start.Month())

	w, err = PeriodWindow(PeriodYear, now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, loc), w.Start)
	assert.Equal(t, 2024, w.End.Year())
	assert.Equal(t, time.December, w.End.Month())

	_, err = PeriodWindow("decade", now)
	assert.Error(t, err)
}

func TestDayWindow(t *testing.T) {
	day := time.Date(2024, 2, 29, 18, 30, 0, 0, time.UTC)
	w := DayWindow(day)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), w.Start)
	assert.Equal(t, 29, w.End.Day())
	assert.Equal(t, 23, w.End.Hour())
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 20.17, round2(60.5/3))
	assert.Equal(t, 0.3, round2(0.1+0.2))
}
