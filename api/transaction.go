package api

import (
	"strconv"
	"time"

	"duitku/database"
	"duitku/middleware"
	"duitku/models"

	"github.com/gin-gonic/gin"
)

// TransactionHandler penangan catatan transaksi
type TransactionHandler struct{}

// NewTransactionHandler membuat penangan catatan transaksi
func NewTransactionHandler() *TransactionHandler {
	return &TransactionHandler{}
}

// CreateTransactionRequest permintaan pencatatan transaksi
type CreateTransactionRequest struct {
	Date          string `json:"date" binding:"required" example:"2025-01-25"`
	Type          string `json:"type" binding:"required,oneof=income expense" example:"expense"`
	CategoryID    uint   `json:"category_id" binding:"required" example:"3"`
	Amount        int64  `json:"amount" binding:"required,gt=0" example:"45000"`
	SourceOrPayee string `json:"source_or_payee" example:"Warung Bu Tini"`
	Account       string `json:"account" example:"Tunai"`
	Notes         string `json:"notes" example:"Nasi Padang"`
}

// UpdateTransactionRequest permintaan perubahan transaksi
type UpdateTransactionRequest struct {
	Date          string `json:"date" example:"2025-01-25"`
	CategoryID    uint   `json:"category_id" example:"3"`
	Amount        int64  `json:"amount" binding:"omitempty,gt=0" example:"45000"`
	SourceOrPayee string `json:"source_or_payee" example:"Warung Bu Tini"`
	Account       string `json:"account" example:"Tunai"`
	Notes         string `json:"notes" example:"Nasi Padang"`
}

// TransactionListRequest filter daftar transaksi
type TransactionListRequest struct {
	Page       int    `form:"page" example:"1"`
	PageSize   int    `form:"page_size" example:"10"`
	Type       string `form:"type" example:"expense"`
	CategoryID uint   `form:"category_id" example:"3"`
	StartDate  string `form:"start_date" example:"2025-01-01"`
	EndDate    string `form:"end_date" example:"2025-01-31"`
}

// linkedToTopUp true bila entri jurnal ini dibuat oleh setoran tabungan.
// Entri seperti itu hanya boleh diubah lewat endpoint tabungan supaya
// catatan setoran dan entri jurnalnya tidak saling lepas.
func linkedToTopUp(userID, entryID uint) bool {
	var n int64
	database.DB.Model(&models.SavingsTopUp{}).
		Where("user_id = ? AND transaction_id = ?", userID, entryID).
		Count(&n)
	return n > 0
}

// lookupCategory memastikan kategori milik pengguna dan bertipe sesuai
func lookupCategory(userID, categoryID uint, ttype string) (*models.Category, bool) {
	var cat models.Category
	err := database.DB.Where("id = ? AND user_id = ? AND type = ?", categoryID, userID, ttype).First(&cat).Error
	if err != nil {
		return nil, false
	}
	return &cat, true
}

// Create mencatat transaksi baru
// @Summary Catat transaksi
// @Description Mencatat satu pemasukan atau pengeluaran
// @Tags Transaksi
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateTransactionRequest true "Data transaksi"
// @Success 200 {object} Response{data=models.Transaction} "Berhasil dicatat"
// @Failure 400 {object} Response "Parameter tidak valid"
// @Failure 401 {object} Response "Belum login"
// @Router /api/v1/transactions [post]
func (h *TransactionHandler) Create(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "parameter tidak valid"))
		return
	}

	date, err := time.ParseInLocation("2006-01-02", req.Date, time.Local)
	if err != nil {
		BadRequest(c, "format tanggal salah, harus: 2006-01-02")
		return
	}

	if _, ok := lookupCategory(userID, req.CategoryID, req.Type); !ok {
		BadRequest(c, "kategori tidak ditemukan untuk tipe ini")
		return
	}

	entry := models.Transaction{
		UserID:        userID,
		Date:          date,
		Type:          req.Type,
		CategoryID:    req.CategoryID,
		Amount:        req.Amount,
		SourceOrPayee: req.SourceOrPayee,
		Account:       req.Account,
		Notes:         req.Notes,
	}

	if err := database.DB.Create(&entry).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "gagal mencatat transaksi"))
		return
	}

	SuccessWithMessage(c, "transaksi dicatat", entry)
}

// List daftar transaksi
// @Summary Daftar transaksi
// @Description Daftar transaksi pengguna dengan paginasi dan filter
// @Tags Transaksi
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param page query int false "Halaman" default(1)
// @Param page_size query int false "Jumlah per halaman" default(10)
// @Param type query string false "Filter tipe (income/expense)"
// @Param category_id query int false "Filter kategori"
// @Param start_date query string false "Tanggal awal (2025-01-01)"
// @Param end_date query string false "Tanggal akhir (2025-01-31)"
// @Success 200 {object} Response{data=PageResponse{list=[]models.Transaction}} "Berhasil"
// @Failure 401 {object} Response "Belum login"
// @Router /api/v1/transactions [get]
func (h *TransactionHandler) List(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req TransactionListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "parameter tidak valid"))
		return
	}

	if req.Page <= 0 {
		req.Page = 1
	}
	if req.PageSize <= 0 {
		req.PageSize = 10
	}
	if req.PageSize > 100 {
		req.PageSize = 100
	}

	query := database.DB.Model(&models.Transaction{}).Where("user_id = ?", userID)

	if req.Type != "" {
		query = query.Where("type = ?", req.Type)
	}
	if req.CategoryID != 0 {
		query = query.Where("category_id = ?", req.CategoryID)
	}
	if req.StartDate != "" {
		if start, err := time.ParseInLocation("2006-01-02", req.StartDate, time.Local); err == nil {
			query = query.Where("date >= ?", start)
		}
	}
	if req.EndDate != "" {
		if end, err := time.ParseInLocation("2006-01-02", req.EndDate, time.Local); err == nil {
			// tanggal akhir ikut terhitung
			query = query.Where("date < ?", end.AddDate(0, 0, 1))
		}
	}

	var total int64
	query.Count(&total)

	var entries []models.Transaction
	offset := (req.Page - 1) * req.PageSize
	if err := query.Order("date DESC, id DESC").Offset(offset).Limit(req.PageSize).Find(&entries).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "gagal mengambil data"))
		return
	}

	Success(c, PageResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		List:     entries,
	})
}

// Get detail satu transaksi
// @Summary Detail transaksi
// @Tags Transaksi
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID transaksi"
// @Success 200 {object} Response{data=models.Transaction} "Berhasil"
// @Failure 401 {object} Response "Belum login"
// @Failure 404 {object} Response "Tidak ditemukan"
// @Router /api/v1/transactions/{id} [get]
func (h *TransactionHandler) Get(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "ID tidak valid")
		return
	}

	var entry models.Transaction
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&entry).Error; err != nil {
		NotFound(c, "transaksi tidak ditemukan")
		return
	}

	Success(c, entry)
}

// Update mengubah transaksi
// @Summary Ubah transaksi
// @Tags Transaksi
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID transaksi"
// @Param request body UpdateTransactionRequest true "Perubahan"
// @Success 200 {object} Response{data=models.Transaction} "Berhasil"
// @Failure 400 {object} Response "Parameter tidak valid"
// @Failure 401 {object} Response "Belum login"
// @Failure 404 {object} Response "Tidak ditemukan"
// @Router /api/v1/transactions/{id} [put]
func (h *TransactionHandler) Update(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "ID tidak valid")
		return
	}

	var entry models.Transaction
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&entry).Error; err != nil {
		NotFound(c, "transaksi tidak ditemukan")
		return
	}

	if linkedToTopUp(userID, entry.ID) {
		BadRequest(c, "entri ini tertaut setoran tabungan, kelola lewat endpoint tabungan")
		return
	}

	var req UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "parameter tidak valid"))
		return
	}

	updates := make(map[string]interface{})
	if req.Date != "" {
		date, err := time.ParseInLocation("2006-01-02", req.Date, time.Local)
		if err != nil {
			BadRequest(c, "format tanggal salah, harus: 2006-01-02")
			return
		}
		updates["date"] = date
	}
	if req.CategoryID != 0 {
		if _, ok := lookupCategory(userID, req.CategoryID, entry.Type); !ok {
			BadRequest(c, "kategori tidak ditemukan untuk tipe ini")
			return
		}
		updates["category_id"] = req.CategoryID
	}
	if req.Amount > 0 {
		updates["amount"] = req.Amount
	}
	if req.SourceOrPayee != "" {
		updates["source_or_payee"] = req.SourceOrPayee
	}
	if req.Account != "" {
		updates["account"] = req.Account
	}
	if req.Notes != "" {
		updates["notes"] = req.Notes
	}

	if err := database.DB.Model(&entry).Updates(updates).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "gagal memperbarui transaksi"))
		return
	}

	database.DB.First(&entry, entry.ID)
	SuccessWithMessage(c, "transaksi diperbarui", entry)
}

// Delete menghapus transaksi
// @Summary Hapus transaksi
// @Tags Transaksi
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID transaksi"
// @Success 200 {object} Response "Berhasil"
// @Failure 401 {object} Response "Belum login"
// @Failure 404 {object} Response "Tidak ditemukan"
// @Router /api/v1/transactions/{id} [delete]
func (h *TransactionHandler) Delete(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "ID tidak valid")
		return
	}

	var entry models.Transaction
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&entry).Error; err != nil {
		NotFound(c, "transaksi tidak ditemukan")
		return
	}

	if linkedToTopUp(userID, entry.ID) {
		BadRequest(c, "entri ini tertaut setoran tabungan, hapus lewat endpoint tabungan")
		return
	}

	if err := database.DB.Delete(&entry).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "gagal menghapus transaksi"))
		return
	}

	SuccessWithMessage(c, "transaksi dihapus", nil)
}
