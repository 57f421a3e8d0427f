package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/guardline/backend/internal/application"
	"github.com/guardline/backend/pkg/response"
	"github.com/guardline/backend/pkg/validation"
)

// RecoveryHandler exposes both reset schemes: the 6-digit emailed code used
// by the mobile app and the deep-link token used by the web flow.
type RecoveryHandler struct {
	Svc    *application.RecoveryService
	Logger *logrus.Logger
}

func NewRecoveryHandler(svc *application.RecoveryService, logger *logrus.Logger) *RecoveryHandler {
	return &RecoveryHandler{Svc: svc, Logger: logger}
}

type emailRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ForgotPassword POST /api/forgot-password — issues a 6-digit code.
func (h *RecoveryHandler) ForgotPassword(c *gin.Context) {
	var req emailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "validation_failed", "invalid payload", validation.ToDetails(err))
		return
	}
	if err := h.Svc.Request(c.Request.Context(), req.Email, application.CodeScheme()); err != nil {
		response.FromErr(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"sent": true}, "reset code sent")
}

// RequestReset POST /api/request-reset — issues a deep-link token.
func (h *RecoveryHandler) RequestReset(c *gin.Context) {
	var req emailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "validation_failed", "invalid payload", validation.ToDetails(err))
		return
	}
	if err := h.Svc.Request(c.Request.Context(), req.Email, application.TokenScheme()); err != nil {
		response.FromErr(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"sent": true}, "reset link sent")
}

type verifyResetRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Code        string `json:"code" binding:"required,resetcode"`
	NewPassword string `json:"new_password" binding:"required,pwd"`
}

// VerifyReset POST /api/verify-reset — consumes a code.
func (h *RecoveryHandler) VerifyReset(c *gin.Context) {
	var req verifyResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "validation_failed", "invalid payload", validation.ToDetails(err))
		return
	}
	if err := h.Svc.CompleteByCode(c.Request.Context(), req.Email, req.Code, req.NewPassword); err != nil {
		response.FromErr(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"reset": true}, "password updated")
}

type resetPasswordRequest struct {
	NewPassword string `json:"new_password" binding:"required,pwd"`
}

// ResetPassword POST /api/reset-password/:token — consumes a deep-link token.
func (h *RecoveryHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "validation_failed", "invalid payload", validation.ToDetails(err))
		return
	}
	if err := h.Svc.CompleteByToken(c.Request.Context(), c.Param("token"), req.NewPassword); err != nil {
		response.FromErr(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"reset": true}, "password updated")
}
