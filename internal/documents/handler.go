package documents

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"archive-backend/internal/shared/server/respond"
)

// MaxUploadBytes caps the JSON body of an upload, base64 payload included.
const MaxUploadBytes = 64 << 20

const (
	msgInvalidBody  = "بيانات الطلب غير صالحة"
	msgNotFound     = "الوثيقة غير موجودة"
	msgDeleted      = "تم حذف الوثيقة بنجاح"
	msgQueryTooLong = "نص البحث طويل جدًا"
	msgTooLarge     = "حجم الملف أكبر من المسموح"
	msgUploadFailed = "خطأ في رفع الوثيقة: "
	msgListFailed   = "خطأ في جلب الوثائق: "
	msgGetFailed    = "خطأ في جلب الوثيقة: "
	msgUpdateFailed = "خطأ في تحديث الوثيقة: "
	msgDeleteFailed = "خطأ في حذف الوثيقة: "
	msgSearchFailed = "خطأ في البحث: "
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/documents", h.create)
	rg.GET("/documents", h.list)
	rg.POST("/documents/search", h.search)
	rg.GET("/documents/:id", h.get)
	rg.PUT("/documents/:id", h.update)
	rg.DELETE("/documents/:id", h.delete)
}

func (h *Handler) create(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxUploadBytes)

	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respond.Error(c, http.StatusRequestEntityTooLarge, respond.CodePayloadTooLarge, msgTooLarge, gin.H{"limitBytes": tooLarge.Limit})
			return
		}
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, msgInvalidBody, respond.ValidationDetails(err))
		return
	}

	doc, err := h.Svc.Create(c.Request.Context(), req.toInput())
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			respond.Error(c, http.StatusBadRequest, respond.CodeValidation, msgInvalidBody, err.Error())
			return
		}
		respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, msgUploadFailed+err.Error(), nil)
		return
	}

	c.Set("documentId", doc.ID)
	c.Set("autoCategory", doc.AutoCategory)
	respond.OK(c, toResponse(doc, true))
}

func (h *Handler) list(c *gin.Context) {
	limit := 0
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			respond.Error(c, http.StatusBadRequest, respond.CodeValidation, msgInvalidBody, "limit must be an integer")
			return
		}
		limit = n
	}

	docs, err := h.Svc.List(c.Request.Context(), Filter{
		Category: c.Query("category"),
		LandType: c.Query("land_type"),
	}, limit)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, msgListFailed+err.Error(), nil)
		return
	}
	respond.OK(c, toResponses(docs))
}

func (h *Handler) get(c *gin.Context) {
	id := c.Param("id")
	c.Set("documentId", id)

	doc, err := h.Svc.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, msgGetFailed)
		return
	}
	respond.OK(c, toResponse(doc, true))
}

func (h *Handler) update(c *gin.Context) {
	id := c.Param("id")
	c.Set("documentId", id)

	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, msgInvalidBody, respond.ValidationDetails(err))
		return
	}

	doc, err := h.Svc.Update(c.Request.Context(), id, req.toPatch())
	if err != nil {
		h.fail(c, err, msgUpdateFailed)
		return
	}
	respond.OK(c, toResponse(doc, false))
}

func (h *Handler) delete(c *gin.Context) {
	id := c.Param("id")
	c.Set("documentId", id)

	if err := h.Svc.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err, msgDeleteFailed)
		return
	}
	respond.Success(c, msgDeleted)
}

func (h *Handler) search(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if utf8.RuneCountInString(req.text()) > MaxSearchQueryLength {
			respond.Error(c, http.StatusBadRequest, respond.CodeValidation, msgQueryTooLong, respond.ValidationDetails(err))
			return
		}
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, msgInvalidBody, respond.ValidationDetails(err))
		return
	}
	q, err := req.toQuery()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, msgInvalidBody, err.Error())
		return
	}

	docs, err := h.Svc.Search(c.Request.Context(), q)
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			respond.Error(c, http.StatusBadRequest, respond.CodeValidation, msgInvalidBody, err.Error())
			return
		}
		respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, msgSearchFailed+err.Error(), nil)
		return
	}
	results := toResponses(docs)
	respond.OK(c, SearchResponse{Success: true, Results: results, Count: len(results)})
}

func (h *Handler) fail(c *gin.Context, err error, prefix string) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, respond.CodeNotFound, msgNotFound, nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, msgInvalidBody, err.Error())
	default:
		respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, prefix+err.Error(), nil)
	}
}
