package handler

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sysu-ecnc-dev/attendance-reminder/backend/internal/domain"
)

const dateLayout = "2006-01-02"

func (h *Handler) CreateSchedule(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID      int64  `json:"userId" validate:"required"`
		ShiftTypeID *int64 `json:"shiftTypeId"`
		WorkDate    string `json:"workDate" validate:"required"`
		IsRestDay   bool   `json:"isRestDay"`
		Note        string `json:"note"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	workDate, err := time.Parse(dateLayout, req.WorkDate)
	if err != nil {
		h.badRequest(w, r, errors.New("工作日期格式错误，应为 YYYY-MM-DD"))
		return
	}

	// 休息日不应该关联班次
	if req.IsRestDay && req.ShiftTypeID != nil {
		h.badRequest(w, r, errors.New("休息日不能指定班次"))
		return
	}

	if req.ShiftTypeID != nil {
		if _, err := h.repository.GetShiftType(*req.ShiftTypeID); err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				h.badRequest(w, r, errors.New("班次不存在"))
			default:
				h.internalServerError(w, r, err)
			}
			return
		}
	}

	s := &domain.Schedule{
		UserID:      req.UserID,
		ShiftTypeID: req.ShiftTypeID,
		WorkDate:    workDate,
		IsRestDay:   req.IsRestDay,
		Note:        req.Note,
	}

	if err := h.repository.CreateSchedule(s); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch {
			case pgErr.ConstraintName == "schedules_user_id_work_date_key":
				h.badRequest(w, r, errors.New("该用户当天已有排班"))
			case pgErr.ConstraintName == "schedules_user_id_fkey":
				h.badRequest(w, r, errors.New("用户不存在"))
			default:
				h.internalServerError(w, r, err)
			}
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.logAction(r, nil, "create_schedule", fmt.Sprintf("为用户 %d 创建 %s 的排班", s.UserID, req.WorkDate), domain.LogLevelInfo)
	h.successResponse(w, r, "排班创建成功", s)
}

// 日历视图的数据来源，按日期范围查询
func (h *Handler) ListSchedules(w http.ResponseWriter, r *http.Request) {
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

	schedules, err := h.repository.ListSchedulesByDateRange(start, end)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取排班列表成功", schedules)
}

func (h *Handler) GetTodaySchedules(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	schedules, err := h.repository.ListSchedulesByDateRange(today, today)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取今日排班成功", schedules)
}

func (h *Handler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	s := r.Context().Value(ScheduleCtx).(*domain.Schedule)
	h.successResponse(w, r, "获取排班成功", s)
}

func (h *Handler) UpdateSchedule(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ShiftTypeID *int64  `json:"shiftTypeId"`
		IsRestDay   *bool   `json:"isRestDay"`
		Note        *string `json:"note"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	s := r.Context().Value(ScheduleCtx).(*domain.Schedule)

	if req.ShiftTypeID != nil {
		s.ShiftTypeID = req.ShiftTypeID
	}
	if req.IsRestDay != nil {
		s.IsRestDay = *req.IsRestDay
	}
	if req.Note != nil {
		s.Note = *req.Note
	}

	if s.IsRestDay && s.ShiftTypeID != nil {
		h.badRequest(w, r, errors.New("休息日不能指定班次"))
		return
	}

	if err := h.repository.UpdateSchedule(s); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.logAction(r, nil, "update_schedule", fmt.Sprintf("更新排班 %d", s.ID), domain.LogLevelInfo)
	h.successResponse(w, r, "排班更新成功", s)
}

func (h *Handler) DeleteSchedule(w http.ResponseWriter, r *http.Request) {
	s := r.Context().Value(ScheduleCtx).(*domain.Schedule)

	if err := h.repository.DeleteSchedule(s.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.logAction(r, nil, "delete_schedule", fmt.Sprintf("删除排班 %d", s.ID), domain.LogLevelInfo)
	h.successResponse(w, r, "排班删除成功", nil)
}

// 为某个用户在一段日期范围内批量创建排班，周末可以按需跳过或记为休息日，
// 已有排班的日期自动跳过
func (h *Handler) BatchCreateSchedules(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID       int64  `json:"userId" validate:"required"`
		ShiftTypeID  int64  `json:"shiftTypeId" validate:"required"`
		StartDate    string `json:"startDate" validate:"required"`
		EndDate      string `json:"endDate" validate:"required"`
		SkipWeekends bool   `json:"skipWeekends"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	startDate, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		h.badRequest(w, r, errors.New("开始日期格式错误，应为 YYYY-MM-DD"))
		return
	}
	endDate, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		h.badRequest(w, r, errors.New("结束日期格式错误，应为 YYYY-MM-DD"))
		return
	}
	if endDate.Before(startDate) {
		h.badRequest(w, r, errors.New("结束日期不能早于开始日期"))
		return
	}

	if _, err := h.repository.GetShiftType(req.ShiftTypeID); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.badRequest(w, r, errors.New("班次不存在"))
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	createdCount := 0
	for date := startDate; !date.After(endDate); date = date.AddDate(0, 0, 1) {
		exists, err := h.repository.CheckScheduleExists(req.UserID, date)
		if err != nil {
			h.internalServerError(w, r, err)
			return
		}
		if exists {
			continue
		}

		weekday := date.Weekday()
		isWorkDay := weekday != time.Saturday && weekday != time.Sunday

		if !isWorkDay && req.SkipWeekends {
			continue
		}

		s := &domain.Schedule{
			UserID:    req.UserID,
			WorkDate:  date,
			IsRestDay: !isWorkDay,
		}
		if isWorkDay {
			shiftTypeID := req.ShiftTypeID
			s.ShiftTypeID = &shiftTypeID
		}

		if err := h.repository.CreateSchedule(s); err != nil {
			h.internalServerError(w, r, err)
			return
		}
		createdCount++
	}

	h.logAction(r, nil, "batch_create_schedule", fmt.Sprintf("批量创建排班: %d 条", createdCount), domain.LogLevelInfo)
	h.successResponse(w, r, fmt.Sprintf("批量创建成功，共创建 %d 条排班记录", createdCount), map[string]int{"created": createdCount})
}
