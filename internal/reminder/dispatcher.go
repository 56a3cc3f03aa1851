package reminder

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/sysu-ecnc-dev/attendance-reminder/backend/internal/domain"
)

// LogStore 将通知和调度事件落库，供日志页面查询。
// 落库失败只会被吞掉，绝不会影响提醒流程本身。
type LogStore interface {
	CreateSystemLog(log *domain.SystemLog) error
}

// MailPublisher 将邮件消息投递到消息队列，由邮件进程异步发送
type MailPublisher interface {
	PublishMail(message *domain.MailMessage) error
}

// Dispatcher 负责一次提醒的完整下发流程：
// 先探测外部系统中的打卡状态，用户仍未打卡时并发推送所有已配置的渠道。
// 渠道之间相互独立，单个渠道的失败不会影响其他渠道，也不会向调用方返回错误。
type Dispatcher struct {
	settings Settings
	logs     LogStore
	mail     MailPublisher // 可以为 nil，此时没有邮件兜底
	client   *http.Client
}

func NewDispatcher(settings Settings, logs LogStore, mail MailPublisher, timeout time.Duration) *Dispatcher {
	return &Dispatcher{
		settings: settings,
		logs:     logs,
		mail:     mail,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

func (d *Dispatcher) Dispatch(user *domain.User, message string, kind domain.ReminderKind) {
	status := d.checkAttendanceStatus(kind)
	if status == domain.ClockStatusClocked {
		d.logEvent("notification_skipped", fmt.Sprintf("用户 %s 已打卡，跳过通知", user.Username), domain.LogLevelInfo)
		return
	}

	d.push(user, message, kind)
}

type probeRequest struct {
	Context struct {
		Argv struct {
			Message string `json:"message"`
		} `json:"argv"`
	} `json:"Context"`
}

type probeResponse struct {
	Data struct {
		Result map[string]any `json:"result"`
	} `json:"data"`
}

// 探测外部系统中的打卡状态。探测接口未配置、调用失败或响应格式
// 不符合预期时一律按未打卡处理：漏发提醒比多发一次代价更高。
func (d *Dispatcher) checkAttendanceStatus(kind domain.ReminderKind) domain.ClockStatus {
	token, _ := d.settings.GetConfigValue(domain.ConfigKeyAPIToken, "")
	checkURL, _ := d.settings.GetConfigValue(domain.ConfigKeyCheckURL, "")
	if token == "" || checkURL == "" {
		return domain.ClockStatusUnclocked
	}

	payload := probeRequest{}
	if kind == domain.ReminderKindClockIn {
		payload.Context.Argv.Message = "A1"
	} else {
		payload.Context.Argv.Message = "A2"
	}

	body, err := json.Marshal(payload)
	if err != nil {
		d.logEvent("check_attendance_error", fmt.Sprintf("检查考勤状态失败: %v", err), domain.LogLevelError)
		return domain.ClockStatusUnclocked
	}

	req, err := http.NewRequest(http.MethodPost, checkURL, bytes.NewReader(body))
	if err != nil {
		d.logEvent("check_attendance_error", fmt.Sprintf("检查考勤状态失败: %v", err), domain.LogLevelError)
		return domain.ClockStatusUnclocked
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("AirScript-Token", token)

	resp, err := d.client.Do(req)
	if err != nil {
		d.logEvent("check_attendance_error", fmt.Sprintf("检查考勤状态失败: %v", err), domain.LogLevelError)
		return domain.ClockStatusUnclocked
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.ClockStatusUnclocked
	}

	result := probeResponse{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		d.logEvent("check_attendance_error", fmt.Sprintf("检查考勤状态响应解析失败: %v", err), domain.LogLevelError)
		return domain.ClockStatusUnclocked
	}

	checkValue, ok := result.Data.Result["打卡检测"].(string)
	if !ok {
		return domain.ClockStatusUnclocked
	}

	switch {
	case checkValue == "上班未打卡" && kind == domain.ReminderKindClockIn:
		return domain.ClockStatusUnclocked
	case checkValue == "下班未打卡" && kind == domain.ReminderKindClockOut:
		return domain.ClockStatusUnclocked
	default:
		return domain.ClockStatusClocked
	}
}

type channel struct {
	name    string
	url     string
	payload any
}

// 并发推送所有已配置的渠道，各渠道的成败独立记录。
// 所有渠道都失败且用户配置了邮箱时，投递一封兜底邮件。
func (d *Dispatcher) push(user *domain.User, message string, kind domain.ReminderKind) {
	channels := d.buildChannels(message, kind)
	if len(channels) == 0 {
		return
	}

	results := make([]error, len(channels))
	wg := sync.WaitGroup{}

	for i, ch := range channels {
		wg.Add(1)
		go func(i int, ch channel) {
			defer wg.Done()
			results[i] = d.pushChannel(ch)
		}(i, ch)
	}
	wg.Wait()

	failed := 0
	for i, ch := range channels {
		if results[i] != nil {
			failed++
			d.logEvent(ch.name+"_error", fmt.Sprintf("%s通知发送失败: %v", channelDisplayName(ch.name), results[i]), domain.LogLevelError)
		} else {
			d.logEvent(ch.name+"_sent", fmt.Sprintf("%s通知发送成功: %s", channelDisplayName(ch.name), user.Username), domain.LogLevelInfo)
		}
	}

	if failed == len(channels) {
		d.sendFallbackMail(user, message, kind)
	}
}

func (d *Dispatcher) buildChannels(message string, kind domain.ReminderKind) []channel {
	channels := make([]channel, 0, 2)

	dingtalkKey := domain.ConfigKeyWorkingURL
	if kind == domain.ReminderKindClockOut {
		dingtalkKey = domain.ConfigKeyNoWorkURL
	}
	if url, _ := d.settings.GetConfigValue(dingtalkKey, ""); url != "" {
		channels = append(channels, channel{
			name: "dingtalk",
			url:  url,
			payload: map[string]any{
				"msgtype": "text",
				"text": map[string]any{
					"content": message,
				},
			},
		})
	}

	if url, _ := d.settings.GetConfigValue(domain.ConfigKeyFeishuURL, ""); url != "" {
		channels = append(channels, channel{
			name: "feishu",
			url:  url,
			payload: map[string]any{
				"msg_type": "text",
				"content": map[string]any{
					"text": message,
				},
			},
		})
	}

	return channels
}

func (d *Dispatcher) pushChannel(ch channel) error {
	body, err := json.Marshal(ch.payload)
	if err != nil {
		return err
	}

	resp, err := d.client.Post(ch.url, "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	return nil
}

func (d *Dispatcher) sendFallbackMail(user *domain.User, message string, kind domain.ReminderKind) {
	if d.mail == nil || user.Email == "" {
		return
	}

	mailMessage := &domain.MailMessage{
		Type: "reminder_fallback",
		To:   user.Email,
		Data: domain.ReminderMailData{
			FullName: user.FullName,
			Kind:     string(kind),
			Message:  message,
		},
	}

	if err := d.mail.PublishMail(mailMessage); err != nil {
		d.logEvent("mail_fallback_error", fmt.Sprintf("兜底邮件投递失败: %v", err), domain.LogLevelError)
		return
	}

	d.logEvent("mail_fallback_sent", fmt.Sprintf("所有渠道推送失败，已向用户 %s 投递兜底邮件", user.Username), domain.LogLevelInfo)
}

func channelDisplayName(name string) string {
	switch name {
	case "dingtalk":
		return "钉钉"
	case "feishu":
		return "飞书"
	default:
		return name
	}
}

func (d *Dispatcher) logEvent(logType string, message string, level string) {
	if level == domain.LogLevelError {
		slog.Error(message, "logType", logType)
	} else {
		slog.Info(message, "logType", logType)
	}

	if d.logs == nil {
		return
	}

	// 落库失败不影响提醒流程
	_ = d.logs.CreateSystemLog(&domain.SystemLog{
		LogType:   logType,
		LogLevel:  level,
		Message:   message,
		IPAddress: "127.0.0.1",
		UserAgent: "NotificationService/1.0",
	})
}
