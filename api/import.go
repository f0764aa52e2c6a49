package api

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"duitku/database"
	"duitku/middleware"
	"duitku/models"
	"duitku/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ImportHandler penangan impor CSV
type ImportHandler struct {
	journal *service.Journal
}

// NewImportHandler membuat penangan impor
func NewImportHandler() *ImportHandler {
	return &ImportHandler{journal: service.NewJournal()}
}

// ImportCSV impor transaksi dari file CSV
// @Summary Impor transaksi dari CSV
// @Description Mengimpor transaksi dari file CSV dengan kolom date,type,amount,category,source_or_payee,account,notes. Kategori yang belum ada dibuat otomatis. Seluruh baris diimpor dalam satu transaksi database.
// @Tags Impor
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "File CSV"
// @Success 200 {object} Response "Impor berhasil"
// @Failure 400 {object} Response "File atau isi CSV tidak valid"
// @Failure 401 {object} Response "Belum login"
// @Router /api/v1/import/csv [post]
func (h *ImportHandler) ImportCSV(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		BadRequest(c, "pilih file CSV")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		BadRequest(c, "gagal membuka file")
		return
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		BadRequest(c, "gagal membaca CSV")
		return
	}
	// baris pertama bisa membawa BOM
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\xEF\xBB\xBF")
	}

	colIndex := make(map[string]int, len(header))
	for i, name := range header {
		colIndex[strings.ToLower(strings.TrimSpace(name))] = i
	}
	var missing []string
	for _, col := range csvColumns {
		if _, ok := colIndex[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		BadRequest(c, "kolom wajib hilang: "+strings.Join(missing, ", "))
		return
	}

	type importedRow struct {
		date     time.Time
		ttype    string
		amount   int64
		category string
		payee    string
		account  string
		notes    string
	}

	var parsed []importedRow
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			BadRequest(c, fmt.Sprintf("baris %d tidak valid", line))
			return
		}

		get := func(col string) string {
			idx := colIndex[col]
			if idx >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[idx])
		}

		date, err := time.ParseInLocation("2006-01-02", get("date"), time.Local)
		if err != nil {
			BadRequest(c, fmt.Sprintf("baris %d: format tanggal salah, harus 2006-01-02", line))
			return
		}

		ttype := strings.ToLower(get("type"))
		if ttype != models.TypeIncome && ttype != models.TypeExpense {
			BadRequest(c, fmt.Sprintf("baris %d: tipe harus income atau expense", line))
			return
		}

		amount, err := strconv.ParseInt(get("amount"), 10, 64)
		if err != nil || amount <= 0 {
			BadRequest(c, fmt.Sprintf("baris %d: nominal harus bilangan bulat positif", line))
			return
		}

		category := get("category")
		if category == "" {
			category = "Lainnya"
		}

		parsed = append(parsed, importedRow{
			date:     date,
			ttype:    ttype,
			amount:   amount,
			category: category,
			payee:    get("source_or_payee"),
			account:  get("account"),
			notes:    get("notes"),
		})
	}

	if len(parsed) == 0 {
		BadRequest(c, "file CSV kosong")
		return
	}

	// semua baris masuk atau tidak sama sekali
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		for _, row := range parsed {
			cat, err := h.journal.EnsureCategory(tx, userID, row.ttype, row.category)
			if err != nil {
				return err
			}
			entry := models.Transaction{
				UserID:        userID,
				Date:          row.date,
				Type:          row.ttype,
				CategoryID:    cat.ID,
				Amount:        row.amount,
				SourceOrPayee: row.payee,
				Account:       row.account,
				Notes:         row.notes,
			}
			if err := tx.Create(&entry).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "gagal menyimpan data impor"))
		return
	}

	SuccessWithMessage(c, fmt.Sprintf("impor %d baris berhasil", len(parsed)), gin.H{
		"imported": len(parsed),
	})
}
