package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sysu-ecnc-dev/attendance-reminder/backend/internal/domain"
	"github.com/sysu-ecnc-dev/attendance-reminder/backend/internal/utils"
)

func (h *Handler) CreateShiftType(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string `json:"name" validate:"required,max=50"`
		StartTime   string `json:"startTime" validate:"required"`
		EndTime     string `json:"endTime" validate:"required"`
		Color       string `json:"color" validate:"omitempty,hexcolor"`
		Description string `json:"description"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if req.Color == "" {
		req.Color = "#3498db"
	}

	st := &domain.ShiftType{
		Name:        req.Name,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Color:       req.Color,
		Description: req.Description,
	}

	// 跨天班次在创建时就被拒绝，调度器不需要处理这种情况
	if err := utils.ValidateShiftTypeTime(st); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.repository.CreateShiftType(st); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr) && pgErr.ConstraintName == "shift_types_name_key":
			h.badRequest(w, r, errors.New("班次名称已存在"))
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.logAction(r, nil, "create_shift", fmt.Sprintf("创建班次 %s (%s-%s)", st.Name, st.StartTime, st.EndTime), domain.LogLevelInfo)
	h.successResponse(w, r, "班次创建成功", st)
}

func (h *Handler) GetAllShiftTypes(w http.ResponseWriter, r *http.Request) {
	shiftTypes, err := h.repository.GetAllShiftTypes()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取班次列表成功", shiftTypes)
}

func (h *Handler) GetShiftType(w http.ResponseWriter, r *http.Request) {
	st := r.Context().Value(ShiftTypeCtx).(*domain.ShiftType)
	h.successResponse(w, r, "获取班次成功", st)
}

func (h *Handler) UpdateShiftType(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        *string `json:"name" validate:"omitempty,max=50"`
		StartTime   *string `json:"startTime"`
		EndTime     *string `json:"endTime"`
		Color       *string `json:"color" validate:"omitempty,hexcolor"`
		Description *string `json:"description"`
		IsActive    *bool   `json:"isActive"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	st := r.Context().Value(ShiftTypeCtx).(*domain.ShiftType)

	if req.Name != nil {
		st.Name = *req.Name
	}
	if req.StartTime != nil {
		st.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		st.EndTime = *req.EndTime
	}
	if req.Color != nil {
		st.Color = *req.Color
	}
	if req.Description != nil {
		st.Description = *req.Description
	}
	if req.IsActive != nil {
		st.IsActive = *req.IsActive
	}

	if err := utils.ValidateShiftTypeTime(st); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.repository.UpdateShiftType(st); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr) && pgErr.ConstraintName == "shift_types_name_key":
			h.badRequest(w, r, errors.New("班次名称已存在"))
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.logAction(r, nil, "update_shift", fmt.Sprintf("更新班次 %s", st.Name), domain.LogLevelInfo)
	h.successResponse(w, r, "班次更新成功", st)
}

func (h *Handler) DeleteShiftType(w http.ResponseWriter, r *http.Request) {
	st := r.Context().Value(ShiftTypeCtx).(*domain.ShiftType)

	if err := h.repository.DeleteShiftType(st.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.logAction(r, nil, "delete_shift", fmt.Sprintf("删除班次 %s", st.Name), domain.LogLevelInfo)
	h.successResponse(w, r, "班次删除成功", nil)
}

func (h *Handler) ToggleShiftTypeStatus(w http.ResponseWriter, r *http.Request) {
	st := r.Context().Value(ShiftTypeCtx).(*domain.ShiftType)

	st.IsActive = !st.IsActive
	if err := h.repository.UpdateShiftType(st); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	status := "停用"
	if st.IsActive {
		status = "启用"
	}
	h.logAction(r, nil, "toggle_shift", fmt.Sprintf("%s班次 %s", status, st.Name), domain.LogLevelInfo)
	h.successResponse(w, r, fmt.Sprintf("班次已%s", status), st)
}
