package domain

import (
	"time"
)

const (
	LogLevelInfo  = "INFO"
	LogLevelError = "ERROR"
)

// UserID 为 nil 表示系统自身的操作（例如调度器和通知服务）
type SystemLog struct {
	ID        int64     `json:"id"`
	UserID    *int64    `json:"userId"`
	LogType   string    `json:"logType"`
	LogLevel  string    `json:"logLevel"`
	Message   string    `json:"message"`
	IPAddress string    `json:"ipAddress"`
	UserAgent string    `json:"userAgent"`
	CreatedAt time.Time `json:"createdAt"`
}
