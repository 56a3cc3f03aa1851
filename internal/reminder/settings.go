package reminder

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sysu-ecnc-dev/attendance-reminder/backend/internal/domain"
)

// Settings 提供运行时配置的读取。调度器每个评估周期都会重新读取，
// 管理员修改配置后无需重启即可生效，因此实现方不应该缓存结果。
type Settings interface {
	GetConfigValue(key string, defaultValue string) (string, error)
}

func overtimeMinutes(settings Settings) (int, error) {
	raw, err := settings.GetConfigValue(domain.ConfigKeyWorkOvertime, "0")
	if err != nil {
		return 0, err
	}

	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}

	minutes, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("work_overtime 配置无效: %w", err)
	}
	if minutes < 0 {
		return 0, ErrNegativeOvertime
	}

	return minutes, nil
}

// 配置项缺失时沿用种子数据的默认值 true
func reminderEnabled(settings Settings) bool {
	raw, err := settings.GetConfigValue(domain.ConfigKeyReminderEnabled, "true")
	if err != nil {
		return true
	}

	return raw == "true"
}
