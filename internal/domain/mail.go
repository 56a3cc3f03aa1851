package domain

type MailMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

type CreateUserMailData struct {
	FullName string `json:"fullName"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// 所有通知渠道都推送失败时，通过邮件兜底发送提醒
type ReminderMailData struct {
	FullName string `json:"fullName"`
	Kind     string `json:"kind"`
	Message  string `json:"message"`
}
