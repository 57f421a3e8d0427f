package handlers

import (
	"encoding/base64"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/guardline/backend/internal/application"
	"github.com/guardline/backend/internal/domain/entity"
	"github.com/guardline/backend/internal/interface/middleware"
	"github.com/guardline/backend/pkg/response"
	"github.com/guardline/backend/pkg/validation"
)

type AccountHandler struct {
	Svc    *application.AccountService
	Logger *logrus.Logger
}

func NewAccountHandler(svc *application.AccountService, logger *logrus.Logger) *AccountHandler {
	return &AccountHandler{Svc: svc, Logger: logger}
}

type signupRequest struct {
	Name             string `json:"name" binding:"required"`
	Email            string `json:"email" binding:"required,email"`
	Password         string `json:"password" binding:"required,pwd"`
	Phone            string `json:"phone" binding:"required,phone"`
	IdentityDocument string `json:"identity_document" binding:"required,base64"`
	SelfieImage      string `json:"selfie_image" binding:"required,base64"`
	DocContentType   string `json:"identity_document_content_type"`
	SelfieContent    string `json:"selfie_content_type"`
}

// Signup POST /api/signup
func (h *AccountHandler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "validation_failed", "invalid payload", validation.ToDetails(err))
		return
	}

	doc, _ := base64.StdEncoding.DecodeString(req.IdentityDocument)
	selfie, _ := base64.StdEncoding.DecodeString(req.SelfieImage)

	u, err := h.Svc.Register(c.Request.Context(), application.RegisterInput{
		Name:        req.Name,
		Email:       req.Email,
		Password:    req.Password,
		Phone:       req.Phone,
		IdentityDoc: application.Blob{Bytes: doc, ContentType: orDefault(req.DocContentType, "application/octet-stream"), Ext: extFor(req.DocContentType)},
		Selfie:      application.Blob{Bytes: selfie, ContentType: orDefault(req.SelfieContent, "image/jpeg"), Ext: extFor(req.SelfieContent)},
	})
	if err != nil {
		response.FromErr(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{
		"user_id": u.ID,
		"status":  u.Status,
	}, "account created, pending approval")
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
}

// Login POST /api/login
func (h *AccountHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "validation_failed", "invalid payload", validation.ToDetails(err))
		return
	}
	res, err := h.Svc.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.FromErr(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"session_token": res.SessionToken,
		"expires_at":    res.ExpiresAt,
		"user_id":       res.User.ID,
		"name":          res.User.Name,
		"email":         res.User.Email,
		"phone":         res.User.Phone,
		"chat_token":    res.ChatToken,
	}, "login successful")
}

// GetUser GET /api/users/:id
// Credential and recovery fields never leave the server.
func (h *AccountHandler) GetUser(c *gin.Context) {
	id := c.Param("id")
	if !h.canAccess(c, id) {
		response.Error(c, http.StatusForbidden, "forbidden", "cannot access another user", nil)
		return
	}
	u, err := h.Svc.GetUser(c.Request.Context(), id)
	if err != nil {
		response.FromErr(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"id":         u.ID,
		"name":       u.Name,
		"email":      u.Email,
		"phone":      u.Phone,
		"status":     u.Status,
		"avatar_url": u.AvatarURL,
		"created_at": u.CreatedAt,
		"updated_at": u.UpdatedAt,
	}, "user")
}

// Delete DELETE /api/users/:id
// A failed remote chat delete after a successful local delete surfaces as a
// 502 with the partial outcome in the message.
func (h *AccountHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if !h.canAccess(c, id) {
		response.Error(c, http.StatusForbidden, "forbidden", "cannot delete another user", nil)
		return
	}
	if err := h.Svc.DeleteAccount(c.Request.Context(), id); err != nil {
		response.FromErr(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true}, "account deleted")
}

type avatarRequest struct {
	AvatarURL   string `json:"avatar_url"`
	Avatar      string `json:"avatar" binding:"omitempty,base64"`
	ContentType string `json:"content_type"`
}

// UpdateAvatar PUT /api/users/:id/avatar
// Accepts either a reference to overwrite or an inline image to upload.
func (h *AccountHandler) UpdateAvatar(c *gin.Context) {
	id := c.Param("id")
	if !h.canAccess(c, id) {
		response.Error(c, http.StatusForbidden, "forbidden", "cannot modify another user", nil)
		return
	}
	var req avatarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "validation_failed", "invalid payload", validation.ToDetails(err))
		return
	}
	if req.AvatarURL == "" && req.Avatar == "" {
		response.Error(c, http.StatusBadRequest, "validation_failed", "avatar_url or avatar is required", nil)
		return
	}

	url := req.AvatarURL
	if req.Avatar != "" {
		b, _ := base64.StdEncoding.DecodeString(req.Avatar)
		var err error
		url, err = h.Svc.UploadAvatar(c.Request.Context(), id, application.Blob{
			Bytes:       b,
			ContentType: orDefault(req.ContentType, "image/jpeg"),
			Ext:         extFor(req.ContentType),
		})
		if err != nil {
			response.FromErr(c, err)
			return
		}
	} else if err := h.Svc.UpdateAvatar(c.Request.Context(), id, url); err != nil {
		response.FromErr(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"avatar_url": url}, "avatar updated")
}

// Approve POST /api/users/:id/approve (moderator only, gated in the router)
func (h *AccountHandler) Approve(c *gin.Context) {
	if err := h.Svc.Approve(c.Request.Context(), c.Param("id")); err != nil {
		response.FromErr(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"approved": true}, "account approved")
}

func (h *AccountHandler) canAccess(c *gin.Context, targetID string) bool {
	if c.GetString(middleware.CtxRoleKey) == entity.RoleModerator {
		return true
	}
	return c.GetString(middleware.CtxUserIDKey) == targetID
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func extFor(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "application/pdf":
		return ".pdf"
	default:
		return ""
	}
}
