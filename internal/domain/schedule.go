package domain

import (
	"time"
)

// ShiftTypeID 为 nil 且 IsRestDay 为 false 的排班不会触发任何提醒
type Schedule struct {
	ID          int64      `json:"id"`
	UserID      int64      `json:"userId"`
	ShiftTypeID *int64     `json:"shiftTypeId"`
	WorkDate    time.Time  `json:"workDate"`
	IsRestDay   bool       `json:"isRestDay"`
	Note        string     `json:"note"`
	CreatedAt   time.Time  `json:"createdAt"`
	Version     int32      `json:"-"`
	User        *User      `json:"user,omitempty"`
	ShiftType   *ShiftType `json:"shiftType,omitempty"`
}
