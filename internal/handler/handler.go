package handler

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
	"github.com/redis/go-redis/v9"
	"github.com/sysu-ecnc-dev/rota-manager/backend/internal/config"
	"github.com/sysu-ecnc-dev/rota-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/rota-manager/backend/internal/queue"
	"github.com/sysu-ecnc-dev/rota-manager/backend/internal/repository"
)

type Handler struct {
	validate    *validator.Validate
	config      *config.Config
	repository  repository.Repository
	translator  ut.Translator
	publisher   queue.Publisher
	redisClient *redis.Client

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo repository.Repository, pub queue.Publisher, rdb *redis.Client) (*Handler, error) {
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
		publisher:   pub,
		redisClient: rdb,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	// 认证相关
	h.Mux.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
		r.Route("/reset-password", func(r chi.Router) {
			r.Post("/require", h.RequireResetPassword)
			r.Post("/confirm", h.ConfirmResetPassword)
		})
	})

	// 以下 API 必须要在登录后才允许调用
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Route("/my-info", func(r chi.Router) {
			r.Get("/", h.GetMyInfo)
			r.Patch("/password", h.UpdateMyPassword)
		})

		r.Route("/users", func(r chi.Router) {
			r.With(h.RequiredRole([]string{domain.RoleAdmin})).Post("/", h.CreateUser)
			r.With(h.RequiredRole([]string{domain.RoleAdmin, domain.RoleManager})).Get("/", h.GetAllUserInfo)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.userInfo)
				r.Get("/", h.GetUserInfo)
				r.With(h.preventOperateInitialAdmin).With(h.RequiredRole([]string{domain.RoleAdmin})).Patch("/", h.UpdateUser)
				r.With(h.preventOperateInitialAdmin).With(h.RequiredRole([]string{domain.RoleAdmin})).Delete("/", h.DeleteUser)
				r.With(h.RequiredRole([]string{domain.RoleAdmin})).Patch("/password", h.UpdateUserPassword)
			})
		})

		r.Route("/teams", func(r chi.Router) {
			r.With(h.RequiredRole([]string{domain.RoleAdmin})).Post("/", h.CreateTeam)
			r.Get("/", h.GetAllTeams)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.team)
				r.Get("/", h.GetTeam)
				r.With(h.RequiredRole([]string{domain.RoleAdmin, domain.RoleManager})).Patch("/", h.UpdateTeam)
				r.With(h.RequiredRole([]string{domain.RoleAdmin})).Delete("/", h.DeleteTeam)
				r.With(h.RequiredRole([]string{domain.RoleAdmin, domain.RoleManager})).Post("/members", h.AddTeamMember)
				r.With(h.RequiredRole([]string{domain.RoleAdmin, domain.RoleManager})).Delete("/members/{userID}", h.RemoveTeamMember)
			})
		})

		r.Route("/shift-types", func(r chi.Router) {
			r.With(h.RequiredRole([]string{domain.RoleAdmin})).Post("/", h.CreateShiftType)
			r.Get("/", h.GetAllShiftTypes)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.shiftType)
				r.Get("/", h.GetShiftType)
				r.With(h.RequiredRole([]string{domain.RoleAdmin})).Patch("/", h.UpdateShiftType)
				r.With(h.RequiredRole([]string{domain.RoleAdmin})).Delete("/", h.DeleteShiftType)
			})
		})

		r.Route("/rota", func(r chi.Router) {
			r.Get("/", h.GetAllShifts)
			r.With(h.RequiredRole([]string{domain.RoleAdmin, domain.RoleManager})).Post("/", h.CreateShift)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.shift)
				r.Get("/", h.GetShift)
				r.With(h.RequiredRole([]string{domain.RoleAdmin, domain.RoleManager})).Patch("/", h.UpdateShift)
				r.With(h.RequiredRole([]string{domain.RoleAdmin, domain.RoleManager})).Delete("/", h.DeleteShift)
				r.Patch("/clock-in", h.ClockIn)
				r.Patch("/clock-out", h.ClockOut)
			})
		})

		r.Route("/timesheets", func(r chi.Router) {
			r.Get("/", h.GetAllTimesheets)
			r.Post("/", h.CreateTimesheet)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.timesheet)
				r.Get("/", h.GetTimesheet)
				r.Patch("/", h.UpdateTimesheet)
				r.With(h.RequiredRole([]string{domain.RoleAdmin, domain.RoleManager})).Patch("/approve", h.ApproveTimesheet)
				r.Delete("/", h.DeleteTimesheet)
			})
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", h.GetMyNotifications)
			r.Get("/unread-count", h.GetUnreadCount)
			r.With(h.RequiredRole([]string{domain.RoleAdmin, domain.RoleManager})).Post("/", h.CreateNotification)
			r.Patch("/read-all", h.MarkAllAsRead)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.notification)
				r.Get("/", h.GetNotification)
				r.Patch("/read", h.MarkAsRead)
			})
		})
	})
}
