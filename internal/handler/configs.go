package handler

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sysu-ecnc-dev/attendance-reminder/backend/internal/domain"
)

func (h *Handler) GetAllConfigs(w http.ResponseWriter, r *http.Request) {
	configs, err := h.repository.GetAllConfigs()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取配置列表成功", configs)
}

func (h *Handler) GetConfig(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	sc, err := h.repository.GetConfigByKey(key)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "配置项不存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "获取配置成功", sc)
}

// 配置即改即生效：调度器每个评估周期都会重新读取
func (h *Handler) UpdateConfig(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	var req struct {
		Value *string `json:"value" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.repository.UpdateConfigValue(key, *req.Value); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "配置项不存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.logAction(r, nil, "update_config", fmt.Sprintf("更新配置 %s", key), domain.LogLevelInfo)
	h.successResponse(w, r, "配置更新成功", nil)
}
