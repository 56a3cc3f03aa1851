package handler

import (
	"net/http"

	"github.com/sysu-ecnc-dev/attendance-reminder/backend/internal/domain"
)

func (h *Handler) GetSchedulerStatus(w http.ResponseWriter, r *http.Request) {
	h.successResponse(w, r, "获取调度器状态成功", h.reminder.Status())
}

func (h *Handler) StartScheduler(w http.ResponseWriter, r *http.Request) {
	h.reminder.Start()
	h.successResponse(w, r, "定时任务已启动", h.reminder.Status())
}

func (h *Handler) StopScheduler(w http.ResponseWriter, r *http.Request) {
	h.reminder.Stop()
	h.successResponse(w, r, "定时任务已停止", h.reminder.Status())
}

// 管理员手动触发一次通知，用于验证渠道配置是否正确
func (h *Handler) TestNotification(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Message string `json:"message"`
		Kind    string `json:"kind" validate:"omitempty,oneof=clock_in clock_out"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if req.Message == "" {
		req.Message = "测试通知消息"
	}
	kind := domain.ReminderKind(req.Kind)
	if kind == "" {
		kind = domain.ReminderKindClockIn
	}

	user := r.Context().Value(MyInfoCtx).(*domain.User)
	h.dispatcher.Dispatch(user, req.Message, kind)

	h.successResponse(w, r, "测试通知已发送", nil)
}
