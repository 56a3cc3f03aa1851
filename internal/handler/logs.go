package handler

import (
	"net/http"
	"strconv"
)

func (h *Handler) ListSystemLogs(w http.ResponseWriter, r *http.Request) {
	logType := r.URL.Query().Get("type")

	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}
	pageSize, err := strconv.Atoi(r.URL.Query().Get("pageSize"))
	if err != nil || pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	logs, err := h.repository.ListSystemLogs(logType, pageSize, (page-1)*pageSize)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	total, err := h.repository.CountSystemLogs(logType)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取日志列表成功", map[string]any{
		"logs":     logs,
		"total":    total,
		"page":     page,
		"pageSize": pageSize,
	})
}
