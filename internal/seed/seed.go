package seed

import (
	"log/slog"
	"math/rand"
	"time"

	"github.com/sysu-ecnc-dev/attendance-reminder/backend/internal/domain"
	"github.com/sysu-ecnc-dev/attendance-reminder/backend/internal/repository"
)

// 调度器运行所需的配置项，缺失时使用这里的默认值初始化。
// 已存在的配置项不会被覆盖。
var defaultConfigs = []domain.SystemConfig{
	{Key: domain.ConfigKeyAPIToken, Value: "", Description: "打卡状态检测接口的访问令牌"},
	{Key: domain.ConfigKeyCheckURL, Value: "", Description: "打卡状态检测接口地址"},
	{Key: domain.ConfigKeyWorkingURL, Value: "", Description: "上班提醒钉钉机器人 Webhook 地址"},
	{Key: domain.ConfigKeyNoWorkURL, Value: "", Description: "下班提醒钉钉机器人 Webhook 地址"},
	{Key: domain.ConfigKeyFeishuURL, Value: "", Description: "飞书机器人 Webhook 地址"},
	{Key: domain.ConfigKeyWorkOvertime, Value: "0", Description: "下班后的加班时长（分钟）"},
	{Key: domain.ConfigKeyReminderEnabled, Value: "true", Description: "是否启用打卡提醒"},
}

var defaultShiftTypes = []domain.ShiftType{
	{Name: "早班", StartTime: "08:00", EndTime: "16:00", Color: "#4CAF50", Description: "早上八点到下午四点", IsActive: true},
	{Name: "白班", StartTime: "09:00", EndTime: "18:00", Color: "#2196F3", Description: "标准工作日班次", IsActive: true},
	{Name: "晚班", StartTime: "14:00", EndTime: "22:00", Color: "#FF9800", Description: "下午两点到晚上十点", IsActive: true},
}

func SeedSystemConfigs(r *repository.Repository) {
	cnt := 0
	for _, sc := range defaultConfigs {
		if err := r.EnsureConfig(&sc); err != nil {
			slog.Error("无法初始化配置项", slog.String("key", sc.Key), slog.String("error", err.Error()))
			continue
		}
		cnt++
	}
	slog.Info("初始化配置项成功", slog.Int("count", cnt))
}

func SeedShiftTypes(r *repository.Repository) {
	cnt := 0
	for _, st := range defaultShiftTypes {
		if err := r.CreateShiftType(&st); err != nil {
			slog.Error("无法插入班次类型", slog.String("name", st.Name), slog.String("error", err.Error()))
			continue
		}
		cnt++
	}
	slog.Info("插入班次类型成功", slog.Int("count", cnt))
}

// SeedSchedules 为所有在职用户生成从今天开始 days 天的排班，
// 周日固定为休息日，其余日期随机分配一个启用中的班次。
func SeedSchedules(r *repository.Repository, days int) {
	users, err := r.GetAllUsers()
	if err != nil {
		slog.Error("无法获取所有用户", slog.String("error", err.Error()))
		return
	}

	shiftTypes, err := r.GetAllShiftTypes()
	if err != nil {
		slog.Error("无法获取所有班次类型", slog.String("error", err.Error()))
		return
	}
	activeShiftTypes := []*domain.ShiftType{}
	for _, st := range shiftTypes {
		if st.IsActive {
			activeShiftTypes = append(activeShiftTypes, st)
		}
	}
	if len(activeShiftTypes) == 0 {
		slog.Error("没有启用中的班次类型，请先插入班次类型")
		return
	}

	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	cnt := 0
	for _, user := range users {
		if !user.IsActive {
			continue
		}
		for i := 0; i < days; i++ {
			date := today.AddDate(0, 0, i)

			exists, err := r.CheckScheduleExists(user.ID, date)
			if err != nil {
				slog.Error("无法检查排班是否存在", slog.String("error", err.Error()))
				continue
			}
			if exists {
				continue
			}

			schedule := &domain.Schedule{
				UserID:   user.ID,
				WorkDate: date,
			}
			if date.Weekday() == time.Sunday {
				schedule.IsRestDay = true
			} else {
				st := activeShiftTypes[rand.Intn(len(activeShiftTypes))]
				schedule.ShiftTypeID = &st.ID
			}

			if err := r.CreateSchedule(schedule); err != nil {
				slog.Error("无法插入排班", slog.String("error", err.Error()))
				continue
			}
			cnt++
		}
	}

	slog.Info("插入排班成功", slog.Int("count", cnt))
}
