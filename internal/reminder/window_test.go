package reminder

import (
	"errors"
	"testing"
	"time"

	"github.com/sysu-ecnc-dev/attendance-reminder/backend/internal/domain"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.Local)
}

func at(d time.Time, hour, minute int) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), hour, minute, 0, 0, d.Location())
}

func TestComputeWindows(t *testing.T) {
	shift := &domain.ShiftType{Name: "白班", StartTime: "09:00", EndTime: "18:00"}
	day := date(2026, time.March, 2)

	clockIn, clockOut, err := ComputeWindows(shift, day, 0)
	if err != nil {
		t.Fatalf("计算提醒窗口失败: %v", err)
	}

	if !clockIn.Start.Equal(at(day, 8, 45)) {
		t.Errorf("上班窗口起点应为 08:45，实际为 %v", clockIn.Start)
	}
	if !clockIn.End.Equal(at(day, 9, 0)) {
		t.Errorf("上班窗口终点应为 09:00，实际为 %v", clockIn.End)
	}
	if clockIn.IncludeEnd {
		t.Error("上班窗口不应包含右边界")
	}

	if !clockOut.Start.Equal(at(day, 18, 0)) {
		t.Errorf("下班窗口起点应为 18:00，实际为 %v", clockOut.Start)
	}
	if !clockOut.End.Equal(at(day, 18, 30)) {
		t.Errorf("下班窗口终点应为 18:30，实际为 %v", clockOut.End)
	}
	if !clockOut.IncludeEnd {
		t.Error("下班窗口应包含右边界")
	}
}

func TestComputeWindowsWithOvertime(t *testing.T) {
	shift := &domain.ShiftType{Name: "白班", StartTime: "09:00", EndTime: "18:00"}
	day := date(2026, time.March, 2)

	_, clockOut, err := ComputeWindows(shift, day, 30)
	if err != nil {
		t.Fatalf("计算提醒窗口失败: %v", err)
	}

	if !clockOut.Start.Equal(at(day, 18, 30)) {
		t.Errorf("加班 30 分钟后下班窗口起点应为 18:30，实际为 %v", clockOut.Start)
	}
	if !clockOut.End.Equal(at(day, 19, 0)) {
		t.Errorf("加班 30 分钟后下班窗口终点应为 19:00，实际为 %v", clockOut.End)
	}

	if !clockOut.Contains(at(day, 18, 35)) {
		t.Error("18:35 应在下班提醒窗口内")
	}
	if clockOut.Contains(at(day, 18, 29)) {
		t.Error("18:29 不应在下班提醒窗口内")
	}
}

func TestWindowBoundaries(t *testing.T) {
	shift := &domain.ShiftType{Name: "白班", StartTime: "09:00", EndTime: "18:00"}
	day := date(2026, time.March, 2)

	clockIn, clockOut, err := ComputeWindows(shift, day, 0)
	if err != nil {
		t.Fatalf("计算提醒窗口失败: %v", err)
	}

	cases := []struct {
		name   string
		window Window
		at     time.Time
		want   bool
	}{
		{"上班窗口左边界包含", clockIn, at(day, 8, 45), true},
		{"上班窗口右边界不包含", clockIn, at(day, 9, 0), false},
		{"上班窗口 08:50 包含", clockIn, at(day, 8, 50), true},
		{"上班窗口之前不包含", clockIn, at(day, 8, 44), false},
		{"下班窗口左边界包含", clockOut, at(day, 18, 0), true},
		{"下班窗口右边界包含", clockOut, at(day, 18, 30), true},
		{"下班窗口之后不包含", clockOut, at(day, 18, 31), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.window.Contains(tc.at); got != tc.want {
				t.Errorf("Contains(%v) = %v，期望 %v", tc.at, got, tc.want)
			}
		})
	}
}

// 凌晨班次的上班窗口应落在前一天晚上
func TestComputeWindowsCrossMidnight(t *testing.T) {
	shift := &domain.ShiftType{Name: "凌晨班", StartTime: "00:10", EndTime: "08:00"}
	day := date(2026, time.March, 2)

	clockIn, _, err := ComputeWindows(shift, day, 0)
	if err != nil {
		t.Fatalf("计算提醒窗口失败: %v", err)
	}

	wantStart := time.Date(2026, time.March, 1, 23, 55, 0, 0, time.Local)
	if !clockIn.Start.Equal(wantStart) {
		t.Errorf("凌晨班次的上班窗口起点应为前一天 23:55，实际为 %v", clockIn.Start)
	}
	if !clockIn.Contains(wantStart) {
		t.Error("前一天 23:55 应在上班提醒窗口内")
	}
}

func TestComputeWindowsNegativeOvertime(t *testing.T) {
	shift := &domain.ShiftType{Name: "白班", StartTime: "09:00", EndTime: "18:00"}

	_, _, err := ComputeWindows(shift, date(2026, time.March, 2), -1)
	if !errors.Is(err, ErrNegativeOvertime) {
		t.Errorf("负数加班时间应返回 ErrNegativeOvertime，实际为 %v", err)
	}
}

func TestComputeWindowsOvernightShift(t *testing.T) {
	cases := []struct {
		name  string
		start string
		end   string
	}{
		{"结束早于开始", "22:00", "06:00"},
		{"结束等于开始", "09:00", "09:00"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			shift := &domain.ShiftType{Name: "跨天班", StartTime: tc.start, EndTime: tc.end}
			_, _, err := ComputeWindows(shift, date(2026, time.March, 2), 0)
			if !errors.Is(err, ErrOvernightShift) {
				t.Errorf("跨天班次应返回 ErrOvernightShift，实际为 %v", err)
			}
		})
	}
}

func TestComputeWindowsInvalidTime(t *testing.T) {
	shift := &domain.ShiftType{Name: "坏班次", StartTime: "9 点", EndTime: "18:00"}

	if _, _, err := ComputeWindows(shift, date(2026, time.March, 2), 0); err == nil {
		t.Error("非法的时间格式应返回错误")
	}
}
