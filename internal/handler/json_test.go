package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func decodeResponse(t *testing.T, rr *httptest.ResponseRecorder) Response {
	t.Helper()
	resp := Response{}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("响应不是合法的 JSON: %v", err)
	}
	return resp
}

func TestSuccessResponse(t *testing.T) {
	h := &Handler{}
	rr := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	h.successResponse(rr, r, "操作成功", map[string]string{"key": "value"})

	if rr.Code != http.StatusOK {
		t.Errorf("状态码应为 200，实际为 %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type 应为 application/json，实际为 %q", ct)
	}

	resp := decodeResponse(t, rr)
	if !resp.Success {
		t.Error("success 应为 true")
	}
	if resp.Message != "操作成功" {
		t.Errorf("message 不正确: %q", resp.Message)
	}
	data, ok := resp.Data.(map[string]any)
	if !ok || data["key"] != "value" {
		t.Errorf("data 不正确: %v", resp.Data)
	}
}

func TestErrorResponse(t *testing.T) {
	h := &Handler{}
	rr := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	h.errorResponse(rr, r, "用户名或密码错误")

	// 业务失败统一返回 200，由 success 字段区分
	if rr.Code != http.StatusOK {
		t.Errorf("状态码应为 200，实际为 %d", rr.Code)
	}

	resp := decodeResponse(t, rr)
	if resp.Success {
		t.Error("success 应为 false")
	}
	if resp.Message != "用户名或密码错误" {
		t.Errorf("message 不正确: %q", resp.Message)
	}
	if resp.Data != nil {
		t.Errorf("data 应为 null，实际为 %v", resp.Data)
	}
}

func TestInternalServerError(t *testing.T) {
	h := &Handler{}
	rr := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	h.internalServerError(rr, r, errors.New("数据库连接失败"))

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("状态码应为 500，实际为 %d", rr.Code)
	}

	resp := decodeResponse(t, rr)
	if resp.Success {
		t.Error("success 应为 false")
	}
	// 内部错误不应向客户端泄露细节
	if strings.Contains(resp.Message, "数据库") {
		t.Errorf("不应向客户端暴露内部错误信息: %q", resp.Message)
	}
}

func TestReadJSON(t *testing.T) {
	h := &Handler{}
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"username":"zhangsan"}`))

	payload := struct {
		Username string `json:"username"`
	}{}
	if err := h.readJSON(r, &payload); err != nil {
		t.Fatalf("解析请求体失败: %v", err)
	}
	if payload.Username != "zhangsan" {
		t.Errorf("username 不正确: %q", payload.Username)
	}
}

func TestBadRequestWithPlainError(t *testing.T) {
	h := &Handler{}
	rr := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/", nil)

	h.badRequest(rr, r, errors.New("请求参数错误"))

	resp := decodeResponse(t, rr)
	if resp.Success {
		t.Error("success 应为 false")
	}
	if resp.Message != "请求参数错误" {
		t.Errorf("message 不正确: %q", resp.Message)
	}
}
