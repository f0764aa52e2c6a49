package api

import (
	"duitku/config"
	"duitku/database"
	"duitku/middleware"
	"duitku/models"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthHandler penangan autentikasi
type AuthHandler struct {
	cfg *config.Config
}

// NewAuthHandler membuat penangan autentikasi
func NewAuthHandler(cfg *config.Config) *AuthHandler {
	return &AuthHandler{cfg: cfg}
}

// RegisterRequest permintaan registrasi
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50" example:"budi"`
	Password string `json:"password" binding:"required,min=6,max=50" example:"rahasia123"`
	Email    string `json:"email" binding:"omitempty,email" example:"budi@example.com"`
}

// LoginRequest permintaan login (username atau email)
type LoginRequest struct {
	Username string `json:"username" binding:"required" example:"budi"` // username atau email
	Password string `json:"password" binding:"required" example:"rahasia123"`
}

// LoginResponse respons login
type LoginResponse struct {
	Token    string      `json:"token"`
	UserInfo models.User `json:"user_info"`
}

// Register registrasi pengguna
// @Summary Registrasi pengguna
// @Description Membuat akun baru beserta kategori bawaan (Gaji, Makan, Transportasi, dst)
// @Tags Autentikasi
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Data registrasi"
// @Success 200 {object} Response{data=models.User} "Registrasi berhasil"
// @Failure 400 {object} Response "Parameter tidak valid"
// @Failure 500 {object} Response "Galat server"
// @Router /api/v1/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "parameter tidak valid"))
		return
	}

	var existing models.User
	if err := database.DB.Where("username = ?", req.Username).First(&existing).Error; err == nil {
		BadRequest(c, "username sudah dipakai")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		InternalError(c, "gagal mengenkripsi kata sandi")
		return
	}

	user := models.User{
		Username: req.Username,
		Password: string(hashed),
		Email:    req.Email,
	}

	// akun dan kategori bawaannya dibuat dalam satu transaksi
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		defaults := models.DefaultCategories(user.ID)
		return tx.Create(&defaults).Error
	})
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "gagal membuat akun"))
		return
	}

	SuccessWithMessage(c, "registrasi berhasil", user)
}

// Login login pengguna
// @Summary Login pengguna
// @Description Login dan menerima token JWT
// @Tags Autentikasi
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Data login"
// @Success 200 {object} Response{data=LoginResponse} "Login berhasil"
// @Failure 400 {object} Response "Parameter tidak valid"
// @Failure 401 {object} Response "Username atau kata sandi salah"
// @Router /api/v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "parameter tidak valid"))
		return
	}

	var user models.User
	if err := database.DB.Where("username = ? OR email = ?", req.Username, req.Username).First(&user).Error; err != nil {
		Unauthorized(c, "username atau kata sandi salah")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		Unauthorized(c, "username atau kata sandi salah")
		return
	}

	token, err := middleware.GenerateToken(user.ID, user.Username, h.cfg.JWT.ExpireTime)
	if err != nil {
		InternalError(c, "gagal membuat token")
		return
	}

	Success(c, LoginResponse{
		Token:    token,
		UserInfo: user,
	})
}

// GetProfile mengambil profil pengguna
// @Summary Profil pengguna saat ini
// @Tags Autentikasi
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=models.User} "Berhasil"
// @Failure 401 {object} Response "Belum login"
// @Router /api/v1/auth/profile [get]
func (h *AuthHandler) GetProfile(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		NotFound(c, "pengguna tidak ditemukan")
		return
	}

	Success(c, user)
}

// ChangePasswordRequest permintaan ganti kata sandi
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required" example:"lamabanget"`
	NewPassword string `json:"new_password" binding:"required,min=6,max=50" example:"barubanget"`
}

// ChangePassword mengganti kata sandi
// @Summary Ganti kata sandi
// @Tags Autentikasi
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ChangePasswordRequest true "Kata sandi lama dan baru"
// @Success 200 {object} Response "Berhasil"
// @Failure 400 {object} Response "Parameter tidak valid"
// @Failure 401 {object} Response "Kata sandi lama salah"
// @Router /api/v1/auth/password [put]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "parameter tidak valid"))
		return
	}

	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		NotFound(c, "pengguna tidak ditemukan")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.OldPassword)); err != nil {
		Unauthorized(c, "kata sandi lama salah")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		InternalError(c, "gagal mengenkripsi kata sandi")
		return
	}

	if err := database.DB.Model(&user).Update("password", string(hashed)).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "gagal memperbarui kata sandi"))
		return
	}

	SuccessWithMessage(c, "kata sandi berhasil diganti", nil)
}
