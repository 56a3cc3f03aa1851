package utils

import (
	"testing"

	"github.com/sysu-ecnc-dev/attendance-reminder/backend/internal/domain"
)

func TestValidateShiftTypeTime(t *testing.T) {
	cases := []struct {
		name    string
		start   string
		end     string
		wantErr bool
	}{
		{"合法班次", "09:00", "18:00", false},
		{"凌晨班次", "00:10", "08:00", false},
		{"结束早于开始", "22:00", "06:00", true},
		{"结束等于开始", "09:00", "09:00", true},
		{"开始时间格式错误", "9 点", "18:00", true},
		{"结束时间格式错误", "09:00", "下午六点", true},
		{"开始时间带秒", "09:00:00", "18:00", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			st := &domain.ShiftType{Name: "测试班次", StartTime: tc.start, EndTime: tc.end}
			err := ValidateShiftTypeTime(st)
			if tc.wantErr && err == nil {
				t.Errorf("班次时间 %s-%s 应校验失败", tc.start, tc.end)
			}
			if !tc.wantErr && err != nil {
				t.Errorf("班次时间 %s-%s 应校验通过，实际错误: %v", tc.start, tc.end, err)
			}
		})
	}
}
