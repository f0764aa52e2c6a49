package api

import (
	"time"

	"duitku/database"
	"duitku/middleware"
	"duitku/models"

	"github.com/gin-gonic/gin"
)

// SummaryHandler penangan ringkasan dashboard
type SummaryHandler struct{}

// NewSummaryHandler membuat penangan ringkasan
func NewSummaryHandler() *SummaryHandler {
	return &SummaryHandler{}
}

// CategorySpend pengeluaran per kategori
type CategorySpend struct {
	Category string `json:"category"`
	Total    int64  `json:"total"`
	Count    int64  `json:"count"`
}

// TopPayee penerima pembayaran terbesar
type TopPayee struct {
	Payee string `json:"payee"`
	Total int64  `json:"total"`
	Count int64  `json:"count"`
}

// Dashboard ringkasan keuangan satu rentang tanggal
// @Summary Ringkasan dashboard
// @Description Total pemasukan/pengeluaran, pengeluaran per kategori, penerima terbesar, dan transaksi terakhir. Tanpa parameter, rentangnya bulan berjalan.
// @Tags Ringkasan
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param start_date query string false "Tanggal awal (2025-01-01)"
// @Param end_date query string false "Tanggal akhir (2025-01-31)"
// @Success 200 {object} Response "Berhasil"
// @Failure 400 {object} Response "Parameter tidak valid"
// @Failure 401 {object} Response "Belum login"
// @Router /api/v1/summary [get]
func (h *SummaryHandler) Dashboard(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	now := time.Now()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.Local)
	end := start.AddDate(0, 1, 0)

	if s := c.Query("start_date"); s != "" {
		parsed, err := time.ParseInLocation("2006-01-02", s, time.Local)
		if err != nil {
			BadRequest(c, "format start_date salah, harus: 2006-01-02")
			return
		}
		start = parsed
	}
	if e := c.Query("end_date"); e != "" {
		parsed, err := time.ParseInLocation("2006-01-02", e, time.Local)
		if err != nil {
			BadRequest(c, "format end_date salah, harus: 2006-01-02")
			return
		}
		// tanggal akhir ikut terhitung
		end = parsed.AddDate(0, 0, 1)
	}

	var income, expense int64
	database.DB.Model(&models.Transaction{}).
		Where("user_id = ? AND type = ? AND date >= ? AND date < ?", userID, models.TypeIncome, start, end).
		Select("COALESCE(SUM(amount), 0)").Scan(&income)
	database.DB.Model(&models.Transaction{}).
		Where("user_id = ? AND type = ? AND date >= ? AND date < ?", userID, models.TypeExpense, start, end).
		Select("COALESCE(SUM(amount), 0)").Scan(&expense)

	// pengeluaran per kategori, terbesar dulu
	var spendByCategory []CategorySpend
	database.DB.Model(&models.Transaction{}).
		Select("categories.name AS category, SUM(transactions.amount) AS total, COUNT(*) AS count").
		Joins("JOIN categories ON categories.id = transactions.category_id").
		Where("transactions.user_id = ? AND transactions.type = ? AND transactions.date >= ? AND transactions.date < ?",
			userID, models.TypeExpense, start, end).
		Group("categories.name").
		Order("total DESC").
		Scan(&spendByCategory)

	// penerima pembayaran dengan total terbesar
	var topPayees []TopPayee
	database.DB.Model(&models.Transaction{}).
		Select("COALESCE(NULLIF(source_or_payee, ''), '(Tidak diisi)') AS payee, SUM(amount) AS total, COUNT(*) AS count").
		Where("user_id = ? AND type = ? AND date >= ? AND date < ?", userID, models.TypeExpense, start, end).
		Group("payee").
		Order("total DESC").
		Limit(1).
		Scan(&topPayees)
	var topPayee *TopPayee
	if len(topPayees) > 0 {
		topPayee = &topPayees[0]
	}

	// sepuluh transaksi terakhir dalam rentang
	var latest []models.Transaction
	database.DB.Where("user_id = ? AND date >= ? AND date < ?", userID, start, end).
		Order("date DESC, id DESC").
		Limit(10).
		Find(&latest)

	Success(c, gin.H{
		"start_date": start.Format("2006-01-02"),
		"end_date":   end.AddDate(0, 0, -1).Format("2006-01-02"),
		"income":     income,
		"expense":    expense,
		"net":        income - expense,
		"spend_by_category": spendByCategory,
		"top_payee":         topPayee,
		"latest":            latest,
	})
}
