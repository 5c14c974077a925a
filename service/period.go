package service

import (
	"math"
	"time"

	"daily/apperr"
)

// 统计周期
const (
	PeriodWeek  = "week"
	PeriodMonth = "month"
	PeriodYear  = "year"
)

// Window 闭区间时间窗口
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// PeriodWindow 根据 now 所在时区的日历计算本周（周日开始）、本月或本年的时间窗口
func PeriodWindow(period string, now time.Time) (Window, error) {
	loc := now.Location()
	y, m, d := now.Date()
	var start, next time.Time
	switch period {
	case PeriodWeek:
		start = time.Date(y, m, d-int(now.Weekday()), 0, 0, 0, 0, loc)
		next = start.AddDate(0, 0, 7)
	case PeriodMonth, "":
		start = time.Date(y, m, 1, 0, 0, 0, 0, loc)
		next = start.AddDate(0, 1, 0)
	case PeriodYear:
		start = time.Date(y, time.January, 1, 0, 0, 0, 0, loc)
		next = start.AddDate(1, 0, 0)
	default:
		return Window{}, apperr.Validation("统计周期无效", apperr.FieldError{Field: "period", Message: "只能是 week、month 或 year"})
	}
	return Window{Start: start, End: next.Add(-time.Nanosecond)}, nil
}

// DayWindow now 所在时区的某一天
func DayWindow(day time.Time) Window {
	y, m, d := day.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, day.Location())
	return Window{Start: start, End: start.AddDate(0, 0, 1).Add(-time.Nanosecond)}
}

// round2 保留两位小数
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
