package users

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"archive-backend/internal/shared/server/respond"
)

const (
	msgInvalidBody        = "بيانات الطلب غير صالحة"
	msgUsernameTaken      = "اسم المستخدم موجود بالفعل"
	msgInvalidCredentials = "اسم المستخدم أو كلمة المرور غير صحيحة"
	msgPasswordTooLong    = "كلمة المرور طويلة جدًا"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/register", h.register)
	rg.POST("/auth/login", h.login)
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, msgInvalidBody, respond.ValidationDetails(err))
		return
	}
	if strings.TrimSpace(req.Username) == "" || strings.TrimSpace(req.FullName) == "" {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, msgInvalidBody, "username and full_name must not be blank")
		return
	}

	user, err := h.Svc.Register(c.Request.Context(), RegisterInput{
		Username: req.Username,
		Password: req.Password,
		FullName: req.FullName,
		Role:     req.Role,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrUsernameTaken):
			respond.Error(c, http.StatusBadRequest, respond.CodeUsernameTaken, msgUsernameTaken, nil)
		case errors.Is(err, ErrPasswordTooLong):
			respond.Error(c, http.StatusBadRequest, respond.CodeValidation, msgPasswordTooLong, gin.H{"maxBytes": MaxPasswordBytes})
		default:
			respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, "خطأ في إنشاء المستخدم: "+err.Error(), nil)
		}
		return
	}

	respond.OK(c, user)
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, msgInvalidBody, respond.ValidationDetails(err))
		return
	}

	user, err := h.Svc.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidCredentials):
			respond.Error(c, http.StatusUnauthorized, respond.CodeInvalidCredentials, msgInvalidCredentials, nil)
		default:
			respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, "خطأ في تسجيل الدخول: "+err.Error(), nil)
		}
		return
	}

	respond.OK(c, toLoginResponse(user))
}
