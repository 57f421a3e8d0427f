package handlers

import (
	"encoding/base64"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/guardline/backend/internal/application"
	"github.com/guardline/backend/pkg/response"
	"github.com/guardline/backend/pkg/validation"
)

type ReportHandler struct {
	Svc    *application.ReportService
	Logger *logrus.Logger
}

func NewReportHandler(svc *application.ReportService, logger *logrus.Logger) *ReportHandler {
	return &ReportHandler{Svc: svc, Logger: logger}
}

type attachment struct {
	Data        string `json:"data" binding:"required,base64"`
	ContentType string `json:"content_type"`
}

type submitReportRequest struct {
	ReporterID  string       `json:"reporter_id"`
	Category    string       `json:"category" binding:"required"`
	Description string       `json:"description" binding:"required"`
	Location    string       `json:"location"`
	Attachments []attachment `json:"attachments" binding:"omitempty,dive"`
}

// Submit POST /api/reports — anonymous submissions carry no reporter_id.
func (h *ReportHandler) Submit(c *gin.Context) {
	var req submitReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "validation_failed", "invalid payload", validation.ToDetails(err))
		return
	}

	in := application.SubmitReportInput{
		ReporterID:  req.ReporterID,
		Category:    req.Category,
		Description: req.Description,
		Location:    req.Location,
	}
	for _, a := range req.Attachments {
		b, _ := base64.StdEncoding.DecodeString(a.Data)
		in.Attachments = append(in.Attachments, application.Blob{
			Bytes:       b,
			ContentType: orDefault(a.ContentType, "application/octet-stream"),
			Ext:         extFor(a.ContentType),
		})
	}

	r, err := h.Svc.Submit(c.Request.Context(), in)
	if err != nil {
		response.FromErr(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"report_id": r.ID, "status": r.Status}, "report received")
}

// List GET /api/reports (moderator)
func (h *ReportHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	reports, err := h.Svc.List(c.Request.Context(), limit)
	if err != nil {
		response.FromErr(c, err)
		return
	}
	response.Success(c, http.StatusOK, reports, "reports")
}

// Search GET /api/reports/search?q= (moderator)
func (h *ReportHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		response.Error(c, http.StatusBadRequest, "validation_failed", "q is required", nil)
		return
	}
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	hits, err := h.Svc.Search(c.Request.Context(), q, size)
	if err != nil {
		response.FromErr(c, err)
		return
	}
	response.Success(c, http.StatusOK, hits, "search results")
}

type reportStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=received under_review closed"`
}

// UpdateStatus PUT /api/reports/:id/status (moderator)
func (h *ReportHandler) UpdateStatus(c *gin.Context) {
	var req reportStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "validation_failed", "invalid payload", validation.ToDetails(err))
		return
	}
	if err := h.Svc.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status); err != nil {
		response.FromErr(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"status": req.Status}, "report status updated")
}
