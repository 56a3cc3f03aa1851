package handler

import (
	"errors"
	"net/http"
	"time"
)

func (h *Handler) ListAttendanceRecords(w http.ResponseWriter, r *http.Request) {
	startParam := r.URL.Query().Get("start")
	endParam := r.URL.Query().Get("end")

	start, err := time.Parse(dateLayout, startParam)
	if err != nil {
		h.badRequest(w, r, errors.New("开始日期格式错误，应为 YYYY-MM-DD"))
		return
	}
	end, err := time.Parse(dateLayout, endParam)
	if err != nil {
		h.badRequest(w, r, errors.New("结束日期格式错误，应为 YYYY-MM-DD"))
		return
	}
	if end.Before(start) {
		h.badRequest(w, r, errors.New("结束日期不能早于开始日期"))
		return
	}

	records, err := h.repository.ListAttendanceRecordsByDateRange(start, end)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取考勤记录成功", records)
}
