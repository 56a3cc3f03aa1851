package handler

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
	"github.com/redis/go-redis/v9"
	"github.com/sysu-ecnc-dev/attendance-reminder/backend/internal/config"
	"github.com/sysu-ecnc-dev/attendance-reminder/backend/internal/queue"
	"github.com/sysu-ecnc-dev/attendance-reminder/backend/internal/reminder"
	"github.com/sysu-ecnc-dev/attendance-reminder/backend/internal/repository"
)

type Handler struct {
	validate    *validator.Validate
	config      *config.Config
	repository  *repository.Repository
	translator  ut.Translator
	mailQueue   *queue.MailQueue
	redisClient *redis.Client
	reminder    *reminder.Service
	dispatcher  *reminder.Dispatcher

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo *repository.Repository, mailQueue *queue.MailQueue, rdb *redis.Client, reminderService *reminder.Service, dispatcher *reminder.Dispatcher) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	zh := zh.New()
	uni := ut.New(zh, zh)
	trans, _ := uni.GetTranslator("zh")
	if err := zh_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:    validate,
		config:      cfg,
		repository:  repo,
		translator:  trans,
		mailQueue:   mailQueue,
		redisClient: rdb,
		reminder:    reminderService,
		dispatcher:  dispatcher,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	h.Mux.Get("/health", h.HealthCheck)

	// 认证相关
	h.Mux.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
	})

	// 以下 API 必须要在登录后才允许调用
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Route("/my-info", func(r chi.Router) {
			r.Use(h.myInfo)
			r.Get("/", h.GetMyInfo)
			r.Patch("/password", h.UpdateMyPassword)
		})

		r.Route("/users", func(r chi.Router) {
			r.With(h.requireAdmin).Post("/", h.CreateUser)
			r.Get("/", h.GetAllUserInfo)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.userInfo)
				r.Get("/", h.GetUserInfo)
				r.With(h.preventOperateInitialAdmin).With(h.requireAdmin).Patch("/", h.UpdateUser)
				r.With(h.preventOperateInitialAdmin).With(h.requireAdmin).Delete("/", h.DeleteUser)
			})
		})

		r.Route("/shift-types", func(r chi.Router) {
			r.With(h.requireAdmin).Post("/", h.CreateShiftType)
			r.Get("/", h.GetAllShiftTypes)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.shiftType)
				r.Get("/", h.GetShiftType)
				r.With(h.requireAdmin).Patch("/", h.UpdateShiftType)
				r.With(h.requireAdmin).Delete("/", h.DeleteShiftType)
				r.With(h.requireAdmin).Post("/toggle-status", h.ToggleShiftTypeStatus)
			})
		})

		r.Route("/schedules", func(r chi.Router) {
			r.With(h.requireAdmin).Post("/", h.CreateSchedule)
			r.With(h.requireAdmin).Post("/batch", h.BatchCreateSchedules)
			r.Get("/", h.ListSchedules)
			r.Get("/today", h.GetTodaySchedules)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.schedule)
				r.Get("/", h.GetSchedule)
				r.With(h.requireAdmin).Patch("/", h.UpdateSchedule)
				r.With(h.requireAdmin).Delete("/", h.DeleteSchedule)
			})
		})

		r.Get("/attendance-records", h.ListAttendanceRecords)

		r.Route("/configs", func(r chi.Router) {
			r.Use(h.requireAdmin)
			r.Get("/", h.GetAllConfigs)
			r.Get("/{key}", h.GetConfig)
			r.Put("/{key}", h.UpdateConfig)
		})

		r.With(h.requireAdmin).Get("/logs", h.ListSystemLogs)

		r.Route("/scheduler", func(r chi.Router) {
			r.Use(h.requireAdmin)
			r.Get("/status", h.GetSchedulerStatus)
			r.Post("/start", h.StartScheduler)
			r.Post("/stop", h.StopScheduler)
		})

		r.With(h.requireAdmin).With(h.myInfo).Post("/notifications/test", h.TestNotification)

		r.Get("/dashboard/stats", h.GetDashboardStats)
	})
}
