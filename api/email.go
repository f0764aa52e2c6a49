package api

import (
	"duitku/config"
	"duitku/database"
	"duitku/middleware"
	"duitku/models"
	"duitku/service"

	"github.com/gin-gonic/gin"
)

// EmailHandler penangan uji konfigurasi email
type EmailHandler struct {
	emailService *service.EmailService
}

// NewEmailHandler membuat penangan email
func NewEmailHandler(cfg *config.Config) *EmailHandler {
	return &EmailHandler{
		emailService: service.NewEmailService(&cfg.Email),
	}
}

// SendTest mengirim email uji konfigurasi
// @Summary Uji konfigurasi email
// @Description Mengirim email uji ke alamat akun yang sedang login
// @Tags Email
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response "Terkirim"
// @Failure 400 {object} Response "Email belum diatur atau gagal terkirim"
// @Failure 401 {object} Response "Belum login"
// @Router /api/v1/email/test [post]
func (h *EmailHandler) SendTest(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		NotFound(c, "pengguna tidak ditemukan")
		return
	}
	if user.Email == "" {
		BadRequest(c, "akun belum punya alamat email")
		return
	}

	if err := h.emailService.SendTestEmail(user.Email); err != nil {
		BadRequest(c, SafeErrorMessage(err, "gagal mengirim email uji"))
		return
	}

	SuccessWithMessage(c, "email uji terkirim ke "+user.Email, nil)
}
