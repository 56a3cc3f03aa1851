package reminder

import (
	"errors"
	"fmt"
	"time"

	"github.com/sysu-ecnc-dev/attendance-reminder/backend/internal/domain"
)

var (
	ErrNegativeOvertime = errors.New("加班时间不能为负数")
	ErrOvernightShift   = errors.New("暂不支持跨天班次")
)

const (
	timeOfDayLayout = "15:04"

	clockInAdvance = 15 * time.Minute
	clockOutGrace  = 30 * time.Minute
)

// 提醒时间窗口。上班窗口为左闭右开区间，下班窗口为闭区间，
// 通过 IncludeEnd 区分右边界是否包含在内。
type Window struct {
	Start      time.Time
	End        time.Time
	IncludeEnd bool
}

func (w Window) Contains(t time.Time) bool {
	if t.Before(w.Start) {
		return false
	}
	if w.IncludeEnd {
		return !t.After(w.End)
	}
	return t.Before(w.End)
}

func parseTimeOfDay(date time.Time, value string) (time.Time, error) {
	t, err := time.Parse(timeOfDayLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("时间格式错误: %w", err)
	}
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, date.Location()), nil
}

// ComputeWindows 计算某个班次在指定日期的上班和下班提醒窗口。
// 上班窗口为 [开始时间-15分钟, 开始时间)，
// 下班窗口为 [结束时间+加班时间, 结束时间+加班时间+30分钟]。
// 窗口边界使用完整的时间点表示，因此凌晨班次的上班窗口可以自然地落到前一天，
// 不会出现只比较时分导致的跨天错误。
func ComputeWindows(shift *domain.ShiftType, date time.Time, overtimeMinutes int) (clockIn Window, clockOut Window, err error) {
	if overtimeMinutes < 0 {
		return Window{}, Window{}, ErrNegativeOvertime
	}

	start, err := parseTimeOfDay(date, shift.StartTime)
	if err != nil {
		return Window{}, Window{}, fmt.Errorf("班次 %s 的开始时间无效: %w", shift.Name, err)
	}
	end, err := parseTimeOfDay(date, shift.EndTime)
	if err != nil {
		return Window{}, Window{}, fmt.Errorf("班次 %s 的结束时间无效: %w", shift.Name, err)
	}

	// 结束时间不晚于开始时间的班次在创建时就会被拒绝，这里再做一次防御
	if !end.After(start) {
		return Window{}, Window{}, ErrOvernightShift
	}

	clockIn = Window{
		Start: start.Add(-clockInAdvance),
		End:   start,
	}

	clockOutStart := end.Add(time.Duration(overtimeMinutes) * time.Minute)
	clockOut = Window{
		Start:      clockOutStart,
		End:        clockOutStart.Add(clockOutGrace),
		IncludeEnd: true,
	}

	return clockIn, clockOut, nil
}
