package handler

import (
	"net/http"
	"time"
)

func (h *Handler) GetDashboardStats(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	work, rest, err := h.repository.CountSchedulesByDate(today)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	clockedIn, notClockedIn, err := h.repository.CountAttendanceByDate(today)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	// 最近 7 天考勤趋势
	type dayTrend struct {
		Date      string `json:"date"`
		Total     int    `json:"total"`
		ClockedIn int    `json:"clockedIn"`
	}

	weekTrend := make([]dayTrend, 0, 7)
	for i := 0; i < 7; i++ {
		checkDate := today.AddDate(0, 0, -i)

		dayWork, _, err := h.repository.CountSchedulesByDate(checkDate)
		if err != nil {
			h.internalServerError(w, r, err)
			return
		}
		dayClockedIn, _, err := h.repository.CountAttendanceByDate(checkDate)
		if err != nil {
			h.internalServerError(w, r, err)
			return
		}

		weekTrend = append(weekTrend, dayTrend{
			Date:      checkDate.Format("01-02"),
			Total:     dayWork,
			ClockedIn: dayClockedIn,
		})
	}

	h.successResponse(w, r, "获取统计数据成功", map[string]any{
		"today": map[string]int{
			"work":         work,
			"rest":         rest,
			"clockedIn":    clockedIn,
			"notClockedIn": notClockedIn,
		},
		"weekTrend": weekTrend,
	})
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"scheduler": h.reminder.Status(),
	})
}
