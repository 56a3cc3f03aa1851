package domain

import (
	"time"
)

// 班次的开始和结束时间都使用 HH:MM 格式的字符串存储
type ShiftType struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	StartTime   string    `json:"startTime"`
	EndTime     string    `json:"endTime"`
	Color       string    `json:"color"`
	Description string    `json:"description"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	Version     int32     `json:"-"`
}
