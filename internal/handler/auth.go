package handler

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/sysu-ecnc-dev/attendance-reminder/backend/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

const authCookieName = "__attendance_reminder_token"

type AuthClaims struct {
	IsAdmin bool `json:"isAdmin"`
	jwt.RegisteredClaims
}

// 把用户操作写入系统日志表，写入失败只忽略
func (h *Handler) logAction(r *http.Request, userID *int64, logType string, message string, level string) {
	_ = h.repository.CreateSystemLog(&domain.SystemLog{
		UserID:    userID,
		LogType:   logType,
		LogLevel:  level,
		Message:   message,
		IPAddress: r.RemoteAddr,
		UserAgent: r.UserAgent(),
	})
}

// 同一用户名连续登录失败次数过多时暂时锁定，计数器在 redis 中自动过期
func (h *Handler) checkLoginAttempts(ctx context.Context, username string) (bool, error) {
	key := "login_attempts:" + username

	count, err := h.redisClient.Get(ctx, key).Int()
	if err != nil && !errors.Is(err, redis.Nil) {
		return false, err
	}

	return count < h.config.Redis.LoginMaxAttempts, nil
}

func (h *Handler) recordLoginFailure(ctx context.Context, username string) error {
	key := "login_attempts:" + username

	count, err := h.redisClient.Incr(ctx, key).Result()
	if err != nil {
		return err
	}
	if count == 1 {
		return h.redisClient.Expire(ctx, key, time.Duration(h.config.Redis.LoginLockDuration)*time.Second).Err()
	}

	return nil
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	ok, err := h.checkLoginAttempts(r.Context(), req.Username)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	if !ok {
		h.errorResponse(w, r, "登录失败次数过多，请稍后再试")
		return
	}

	// 验证用户名和密码
	user, err := h.repository.GetUserByUsername(req.Username)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			if err := h.recordLoginFailure(r.Context(), req.Username); err != nil {
				h.internalServerError(w, r, err)
				return
			}
			h.errorResponse(w, r, "用户名不存在或密码错误")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	if !user.IsActive {
		h.errorResponse(w, r, "账号已被停用")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		switch {
		case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
			if err := h.recordLoginFailure(r.Context(), req.Username); err != nil {
				h.internalServerError(w, r, err)
				return
			}
			h.logAction(r, &user.ID, "login_failed", fmt.Sprintf("用户 %s 登录失败", user.Username), domain.LogLevelError)
			h.errorResponse(w, r, "用户名不存在或密码错误")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	// 生成 JWT
	expiration := time.Now().Add(time.Duration(h.config.JWT.Expiration) * time.Second)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, AuthClaims{
		IsAdmin: user.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiration),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Subject:   strconv.FormatInt(user.ID, 10),
		},
	})
	ss, err := token.SignedString([]byte(h.config.JWT.Secret))
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	// 通过 http-only 的 cookie 返回给客户端
	cookie := &http.Cookie{
		Name:     authCookieName,
		Value:    ss,
		Expires:  expiration,
		Path:     "/",
		HttpOnly: true,
		Secure:   false,
	}

	if h.config.Environment == "production" {
		cookie.Secure = true
		cookie.SameSite = http.SameSiteStrictMode
	}

	http.SetCookie(w, cookie)

	h.logAction(r, &user.ID, "login_success", fmt.Sprintf("用户 %s 登录成功", user.Username), domain.LogLevelInfo)
	h.successResponse(w, r, "登录成功", user)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:    authCookieName,
		Value:   "",
		Expires: time.Now().Add(-time.Hour),
		Path:    "/",
	})

	h.successResponse(w, r, "登出成功", nil)
}

func (h *Handler) GetMyInfo(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)
	h.successResponse(w, r, "获取个人信息成功", myInfo)
}

func (h *Handler) UpdateMyPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OldPassword string `json:"oldPassword" validate:"required"`
		NewPassword string `json:"newPassword" validate:"required,min=8,max=64"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	if err := bcrypt.CompareHashAndPassword([]byte(myInfo.PasswordHash), []byte(req.OldPassword)); err != nil {
		switch {
		case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
			h.errorResponse(w, r, "原密码错误")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	newHash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	myInfo.PasswordHash = string(newHash)
	if err := h.repository.UpdateUser(myInfo); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.logAction(r, &myInfo.ID, "change_password", fmt.Sprintf("用户 %s 修改了密码", myInfo.Username), domain.LogLevelInfo)
	h.successResponse(w, r, "密码修改成功", nil)
}
