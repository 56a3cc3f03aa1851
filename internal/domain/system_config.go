package domain

import (
	"time"
)

// 运行时配置，管理员可以在系统运行期间修改，调度器每个评估周期都会重新读取
type SystemConfig struct {
	ID          int64     `json:"id"`
	Key         string    `json:"key"`
	Value       string    `json:"value"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// 调度器和通知服务使用的配置键
const (
	ConfigKeyAPIToken        = "api_token"
	ConfigKeyCheckURL        = "check_url"
	ConfigKeyWorkingURL      = "working_url"
	ConfigKeyNoWorkURL       = "no_work_url"
	ConfigKeyFeishuURL       = "feishu_url"
	ConfigKeyWorkOvertime    = "work_overtime"
	ConfigKeyReminderEnabled = "reminder_enabled"
)
