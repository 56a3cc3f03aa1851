package domain

import (
	"time"
)

type ClockStatus string

const (
	ClockStatusUnclocked ClockStatus = "未打卡"
	ClockStatusClocked   ClockStatus = "已打卡"
)

type ReminderKind string

const (
	ReminderKindClockIn  ReminderKind = "clock_in"
	ReminderKindClockOut ReminderKind = "clock_out"
)

// 每个 (用户, 日期) 至多存在一条考勤记录，由调度器在第一次评估时惰性创建。
// 打卡状态由外部打卡确认方写入，核心只读取；提醒标志只会从 false 变为 true。
type AttendanceRecord struct {
	ID               int64       `json:"id"`
	UserID           int64       `json:"userId"`
	WorkDate         time.Time   `json:"workDate"`
	ShiftTypeID      *int64      `json:"shiftTypeId"`
	ClockInStatus    ClockStatus `json:"clockInStatus"`
	ClockOutStatus   ClockStatus `json:"clockOutStatus"`
	ClockInReminded  bool        `json:"clockInReminded"`
	ClockOutReminded bool        `json:"clockOutReminded"`
	CreatedAt        time.Time   `json:"createdAt"`
	UpdatedAt        time.Time   `json:"updatedAt"`
}
