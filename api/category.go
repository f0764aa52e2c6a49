package api

import (
	"strconv"
	"strings"

	"duitku/database"
	"duitku/middleware"
	"duitku/models"
	"duitku/service"

	"github.com/gin-gonic/gin"
)

// CategoryHandler penangan kategori
type CategoryHandler struct{}

// NewCategoryHandler membuat penangan kategori
func NewCategoryHandler() *CategoryHandler {
	return &CategoryHandler{}
}

// CreateCategoryRequest permintaan kategori baru
type CreateCategoryRequest struct {
	Type  string `json:"type" binding:"required,oneof=income expense" example:"expense"`
	Name  string `json:"name" binding:"required,max=50" example:"Kopi"`
	Sort  int    `json:"sort" example:"80"`
	Color string `json:"color" example:"#f59e0b"`
}

// List daftar kategori pengguna
// @Summary Daftar kategori
// @Description Daftar kategori pengguna, bisa difilter per tipe
// @Tags Kategori
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param type query string false "Filter tipe (income/expense)"
// @Success 200 {object} Response{data=[]models.Category} "Berhasil"
// @Failure 401 {object} Response "Belum login"
// @Router /api/v1/categories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	query := database.DB.Where("user_id = ?", userID)
	if t := c.Query("type"); t != "" {
		query = query.Where("type = ?", t)
	}

	var list []models.Category
	if err := query.Order("sort ASC, id ASC").Find(&list).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "gagal mengambil kategori"))
		return
	}

	Success(c, list)
}

// Create membuat kategori baru
// @Summary Tambah kategori
// @Tags Kategori
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateCategoryRequest true "Data kategori"
// @Success 200 {object} Response{data=models.Category} "Berhasil"
// @Failure 400 {object} Response "Parameter tidak valid atau kategori sudah ada"
// @Failure 401 {object} Response "Belum login"
// @Router /api/v1/categories [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "parameter tidak valid"))
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		BadRequest(c, "nama kategori tidak boleh kosong")
		return
	}

	var existing models.Category
	err := database.DB.Where("user_id = ? AND type = ? AND name = ?", userID, req.Type, req.Name).First(&existing).Error
	if err == nil {
		BadRequest(c, "kategori sudah ada")
		return
	}

	cat := models.Category{
		UserID: userID,
		Type:   req.Type,
		Name:   req.Name,
		Sort:   req.Sort,
	}
	if req.Color != "" {
		cat.Color = req.Color
	}

	if err := database.DB.Create(&cat).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "gagal membuat kategori"))
		return
	}

	SuccessWithMessage(c, "kategori ditambahkan", cat)
}

// Delete menghapus kategori
// @Summary Hapus kategori
// @Description Kategori yang masih dipakai transaksi atau kategori Tabungan tidak bisa dihapus
// @Tags Kategori
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID kategori"
// @Success 200 {object} Response "Berhasil"
// @Failure 400 {object} Response "Kategori masih dipakai"
// @Failure 401 {object} Response "Belum login"
// @Failure 404 {object} Response "Tidak ditemukan"
// @Router /api/v1/categories/{id} [delete]
func (h *CategoryHandler) Delete(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "ID tidak valid")
		return
	}

	var cat models.Category
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&cat).Error; err != nil {
		NotFound(c, "kategori tidak ditemukan")
		return
	}

	// kategori Tabungan dipakai mesin tabungan, tidak boleh dihapus
	if cat.Name == service.SavingsCategoryName && cat.Type == models.TypeExpense {
		BadRequest(c, "kategori Tabungan tidak bisa dihapus")
		return
	}

	var inUse int64
	database.DB.Model(&models.Transaction{}).Where("user_id = ? AND category_id = ?", userID, cat.ID).Count(&inUse)
	if inUse > 0 {
		BadRequest(c, "kategori masih dipakai transaksi")
		return
	}

	if err := database.DB.Delete(&cat).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "gagal menghapus kategori"))
		return
	}

	SuccessWithMessage(c, "kategori dihapus", nil)
}
