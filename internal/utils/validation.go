package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/sysu-ecnc-dev/attendance-reminder/backend/internal/domain"
)

// 班次时间必须是 HH:MM 格式，且结束时间晚于开始时间。
// 跨天班次（结束时间不晚于开始时间）在创建时就被拒绝，
// 避免调度器按错误的窗口发送提醒。
func ValidateShiftTypeTime(st *domain.ShiftType) error {
	startTime, err := time.Parse("15:04", st.StartTime)
	if err != nil {
		return fmt.Errorf("班次的开始时间格式错误，应为 HH:MM")
	}
	endTime, err := time.Parse("15:04", st.EndTime)
	if err != nil {
		return fmt.Errorf("班次的结束时间格式错误，应为 HH:MM")
	}
	if !endTime.After(startTime) {
		return errors.New("班次的结束时间必须晚于开始时间")
	}
	return nil
}
