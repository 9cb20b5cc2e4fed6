package health

import (
	"github.com/gin-gonic/gin"

	"archive-backend/internal/shared/server/respond"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/", func(c *gin.Context) {
		respond.OK(c, h.Svc.Banner())
	})
	rg.GET("/health", func(c *gin.Context) {
		respond.OK(c, h.Svc.Status())
	})
}
