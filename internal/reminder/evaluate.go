package reminder

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/sysu-ecnc-dev/attendance-reminder/backend/internal/domain"
)

// Store 是调度器评估排班所需的最小存储契约
type Store interface {
	ListSchedulesByDate(date time.Time) ([]*domain.Schedule, error)
	GetShiftType(id int64) (*domain.ShiftType, error)
	GetOrCreateAttendanceRecord(userID int64, date time.Time, shiftTypeID *int64) (*domain.AttendanceRecord, error)
	UpdateAttendanceReminded(id int64, clockInReminded *bool, clockOutReminded *bool) error
}

// Notifier 下发一次提醒。实现方自己保证渠道隔离和超时，
// 因此这里不返回错误，提醒标志的落库不依赖推送结果。
type Notifier interface {
	Dispatch(user *domain.User, message string, kind domain.ReminderKind)
}

// 执行一次完整的评估：拉取今天的所有排班，逐条评估。
// 单条排班的失败只记录日志并跳过，不会中断整个评估。
func (s *Service) checkSchedules(now time.Time) error {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	schedules, err := s.store.ListSchedulesByDate(today)
	if err != nil {
		return fmt.Errorf("获取今日排班失败: %w", err)
	}

	for _, schedule := range schedules {
		if err := s.evaluateSchedule(schedule, now, today); err != nil {
			slog.Error("评估排班失败", "scheduleId", schedule.ID, "userId", schedule.UserID, "error", err)
		}
	}

	return nil
}

func (s *Service) evaluateSchedule(schedule *domain.Schedule, now time.Time, today time.Time) error {
	// 休息日和未指定班次的排班不触发提醒
	if schedule.IsRestDay || schedule.ShiftTypeID == nil {
		return nil
	}

	user := schedule.User
	if user == nil || !user.IsActive {
		return nil
	}

	shift, err := s.store.GetShiftType(*schedule.ShiftTypeID)
	if err != nil {
		return fmt.Errorf("获取班次失败: %w", err)
	}

	// 提醒被全局关闭时也要创建考勤记录，保证外部打卡确认方有记录可写
	record, err := s.store.GetOrCreateAttendanceRecord(user.ID, today, schedule.ShiftTypeID)
	if err != nil {
		return fmt.Errorf("获取考勤记录失败: %w", err)
	}

	if !reminderEnabled(s.settings) {
		return nil
	}

	overtime, err := overtimeMinutes(s.settings)
	if err != nil {
		return err
	}

	clockInWindow, clockOutWindow, err := ComputeWindows(shift, today, overtime)
	if err != nil {
		return err
	}

	// 两个窗口理论上不会重叠，万一重叠时上班提醒优先
	switch {
	case clockInWindow.Contains(now) && record.ClockInStatus == domain.ClockStatusUnclocked && !record.ClockInReminded:
		message := fmt.Sprintf("【上班提醒】%s，您好！您今天%s的上班时间是%s，请记得按时打卡。", user.Username, shift.Name, shift.StartTime)
		s.notifier.Dispatch(user, message, domain.ReminderKindClockIn)

		reminded := true
		if err := s.store.UpdateAttendanceReminded(record.ID, &reminded, nil); err != nil {
			return fmt.Errorf("更新上班提醒标志失败: %w", err)
		}
		s.logEvent("check_in_reminder_sent", fmt.Sprintf("向用户 %s 发送上班打卡提醒", user.Username))

	case clockOutWindow.Contains(now) && record.ClockOutStatus == domain.ClockStatusUnclocked && !record.ClockOutReminded:
		message := fmt.Sprintf("【下班提醒】%s，您好！您今天%s的下班时间是%s，请记得按时打卡。", user.Username, shift.Name, shift.EndTime)
		s.notifier.Dispatch(user, message, domain.ReminderKindClockOut)

		reminded := true
		if err := s.store.UpdateAttendanceReminded(record.ID, nil, &reminded); err != nil {
			return fmt.Errorf("更新下班提醒标志失败: %w", err)
		}
		s.logEvent("check_out_reminder_sent", fmt.Sprintf("向用户 %s 发送下班打卡提醒", user.Username))
	}

	return nil
}
