package parses

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-parser/internal/documents"
	"resume-parser/internal/shared/server/middleware"
	"resume-parser/internal/shared/server/respond"
	"resume-parser/resume/model"
	"resume-parser/resume/parser"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Handler wires HTTP handlers to the parses service.
type Handler struct {
	Svc            *Service
	MaxUploadBytes int64
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, maxUploadBytes int64) *Handler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = 10 << 20
	}
	return &Handler{Svc: svc, MaxUploadBytes: maxUploadBytes}
}

// RegisterRoutes attaches parse routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/documents/:id/parse", h.startParse)
	rg.GET("/parses", h.listParses)
	rg.GET("/parses/:id", h.getParse)
	rg.GET("/parses/:id/export.xlsx", h.exportParse)
	rg.POST("/parse", h.parseNow)
}

func (h *Handler) startParse(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	documentID := strings.TrimSpace(c.Param("id"))
	c.Set("documentId", documentID)

	ctx := WithRequestID(c.Request.Context(), middleware.RequestIDFromContext(c))
	job, err := h.Svc.Create(ctx, userID, documentID)
	if err != nil {
		switch {
		case errors.Is(err, documents.ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
		case errors.Is(err, ErrInvalidInput), errors.Is(err, documents.ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", "document id is required", nil)
		case errors.Is(err, ErrJobQueueNotConfigured):
			respond.Error(c, http.StatusServiceUnavailable, "queue_unavailable", "parse queue is not configured", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to start parse", nil)
		}
		return
	}

	c.Set("parseId", job.ID)
	c.Set("statusTransition", "->"+job.Status)
	respond.Accepted(c, gin.H{
		"parseId": job.ID,
		"status":  job.Status,
	})
}

func (h *Handler) getParse(c *gin.Context) {
	job, ok := h.lookup(c)
	if !ok {
		return
	}

	resp := gin.H{
		"id":         job.ID,
		"documentId": job.DocumentID,
		"status":     job.Status,
		"createdAt":  job.CreatedAt,
		"updatedAt":  job.UpdatedAt,
	}
	switch job.Status {
	case StatusCompleted:
		resp["result"] = job.Result
		resp["stats"] = gin.H{
			"sectionCount": job.SectionCount,
			"lineCount":    job.LineCount,
			"durationMs":   job.DurationMs,
		}
		resp["completedAt"] = job.CompletedAt
	case StatusFailed:
		resp["error"] = gin.H{
			"code":      job.ErrorCode,
			"message":   job.ErrorMessage,
			"retryable": job.Retryable,
		}
		resp["completedAt"] = job.CompletedAt
	}
	respond.OK(c, resp)
}

func (h *Handler) listParses(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	limit, offset := documents.Pagination(c, 20, 50)

	jobs, err := h.Svc.List(c.Request.Context(), userID, limit, offset)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list parses", nil)
		return
	}

	resp := make([]gin.H, 0, len(jobs))
	for _, job := range jobs {
		item := gin.H{
			"parseId":    job.ID,
			"documentId": job.DocumentID,
			"status":     job.Status,
			"createdAt":  job.CreatedAt,
		}
		if job.Status == StatusCompleted && job.Result != nil {
			item["name"] = job.Result.Profile.Name
		}
		if job.Status == StatusFailed {
			item["errorCode"] = job.ErrorCode
		}
		resp = append(resp, item)
	}
	respond.OK(c, resp)
}

func (h *Handler) exportParse(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	parseID := c.Param("id")
	c.Set("parseId", parseID)

	data, err := h.Svc.Export(c.Request.Context(), userID, parseID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "parse not found", nil)
		case errors.Is(err, ErrNotCompleted):
			respond.Error(c, http.StatusConflict, "not_completed", "parse has not completed", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to export parse", nil)
		}
		return
	}
	respond.Attachment(c, "resume-"+parseID+".xlsx", xlsxContentType, data)
}

func (h *Handler) parseNow(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadBytes)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respond.Error(c, http.StatusRequestEntityTooLarge, "file_too_large", "file exceeds upload limit", gin.H{"maxBytes": h.MaxUploadBytes})
			return
		}
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}

	featured, err := featuredSkillsField(c.PostForm("featuredSkills"))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "featuredSkills must be a JSON array of {skill, rating}", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}

	resume, err := h.Svc.ParseNow(c.Request.Context(), data, featured)
	if err != nil {
		switch {
		case parser.IsDecodeError(err):
			respond.Error(c, http.StatusUnprocessableEntity, strings.ToLower(ErrorCodeDecode), err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to parse document", nil)
		}
		return
	}
	respond.OK(c, resume)
}

func (h *Handler) lookup(c *gin.Context) (Parse, bool) {
	userID := middleware.UserIDFromContext(c)
	parseID := c.Param("id")
	c.Set("parseId", parseID)

	job, err := h.Svc.Get(c.Request.Context(), userID, parseID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "parse not found", nil)
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", "parse id is required", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch parse", nil)
		}
		return Parse{}, false
	}
	return job, true
}

func featuredSkillsField(raw string) ([]model.FeaturedSkill, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	var out []model.FeaturedSkill
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, err
	}
	return out, nil
}
