package reminder

import (
	"errors"
	"testing"

	"github.com/sysu-ecnc-dev/attendance-reminder/backend/internal/domain"
)

// fakeSettings 用 map 模拟运行时配置，key 不存在时返回默认值
type fakeSettings struct {
	values map[string]string
	err    error
}

func (f *fakeSettings) GetConfigValue(key string, defaultValue string) (string, error) {
	if f.err != nil {
		return defaultValue, f.err
	}
	if v, ok := f.values[key]; ok {
		return v, nil
	}
	return defaultValue, nil
}

func TestOvertimeMinutes(t *testing.T) {
	cases := []struct {
		name    string
		value   string
		want    int
		wantErr bool
	}{
		{"默认值", "", 0, false},
		{"合法整数", "30", 30, false},
		{"带空格", " 45 ", 45, false},
		{"非数字", "abc", 0, true},
		{"负数", "-10", 0, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			settings := &fakeSettings{values: map[string]string{}}
			if tc.value != "" {
				settings.values[domain.ConfigKeyWorkOvertime] = tc.value
			}

			got, err := overtimeMinutes(settings)
			if tc.wantErr {
				if err == nil {
					t.Errorf("work_overtime=%q 应返回错误", tc.value)
				}
				return
			}
			if err != nil {
				t.Fatalf("解析 work_overtime 失败: %v", err)
			}
			if got != tc.want {
				t.Errorf("work_overtime=%q 应解析为 %d，实际为 %d", tc.value, tc.want, got)
			}
		})
	}
}

func TestOvertimeMinutesNegativeSentinel(t *testing.T) {
	settings := &fakeSettings{values: map[string]string{domain.ConfigKeyWorkOvertime: "-1"}}

	if _, err := overtimeMinutes(settings); !errors.Is(err, ErrNegativeOvertime) {
		t.Errorf("负数加班时间应返回 ErrNegativeOvertime，实际为 %v", err)
	}
}

func TestReminderEnabled(t *testing.T) {
	cases := []struct {
		name  string
		value string
		want  bool
	}{
		{"缺失时默认启用", "", true},
		{"显式启用", "true", true},
		{"显式关闭", "false", false},
		{"大小写敏感", "True", false},
		{"其他值视为关闭", "yes", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			settings := &fakeSettings{values: map[string]string{}}
			if tc.value != "" {
				settings.values[domain.ConfigKeyReminderEnabled] = tc.value
			}

			if got := reminderEnabled(settings); got != tc.want {
				t.Errorf("reminder_enabled=%q 应为 %v，实际为 %v", tc.value, tc.want, got)
			}
		})
	}
}

// 读取配置出错时按启用处理，避免因为配置库抖动漏发提醒
func TestReminderEnabledOnError(t *testing.T) {
	settings := &fakeSettings{err: errors.New("数据库连接失败")}

	if !reminderEnabled(settings) {
		t.Error("读取配置出错时应按启用处理")
	}
}
