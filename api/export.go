package api

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"duitku/database"
	"duitku/middleware"
	"duitku/models"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// ExportHandler penangan ekspor data
type ExportHandler struct{}

// NewExportHandler membuat penangan ekspor
func NewExportHandler() *ExportHandler {
	return &ExportHandler{}
}

// kolom baku file CSV, sama dengan format impor
var csvColumns = []string{"date", "type", "amount", "category", "source_or_payee", "account", "notes"}

// exportRow satu baris transaksi beserta nama kategorinya
type exportRow struct {
	models.Transaction
	CategoryName string `json:"category_name"`
}

func parseExportRange(c *gin.Context) (time.Time, time.Time, bool) {
	startStr := c.Query("start_date")
	endStr := c.Query("end_date")

	if startStr == "" || endStr == "" {
		BadRequest(c, "start_date dan end_date wajib diisi")
		return time.Time{}, time.Time{}, false
	}

	start, err := time.ParseInLocation("2006-01-02", startStr, time.Local)
	if err != nil {
		BadRequest(c, "format start_date salah, harus: 2006-01-02")
		return time.Time{}, time.Time{}, false
	}
	end, err := time.ParseInLocation("2006-01-02", endStr, time.Local)
	if err != nil {
		BadRequest(c, "format end_date salah, harus: 2006-01-02")
		return time.Time{}, time.Time{}, false
	}
	// tanggal akhir ikut terhitung
	return start, end.AddDate(0, 0, 1), true
}

func queryExportRows(userID uint, start, end time.Time) ([]exportRow, error) {
	var rows []exportRow
	err := database.DB.Model(&models.Transaction{}).
		Select("transactions.*, categories.name AS category_name").
		Joins("JOIN categories ON categories.id = transactions.category_id").
		Where("transactions.user_id = ? AND transactions.date >= ? AND transactions.date < ?", userID, start, end).
		Order("transactions.date DESC, transactions.id DESC").
		Scan(&rows).Error
	return rows, err
}

// ExportCSV ekspor transaksi ke CSV
// @Summary Ekspor transaksi ke CSV
// @Description Mengunduh transaksi dalam rentang tanggal sebagai file CSV
// @Tags Ekspor
// @Accept json
// @Produce text/csv
// @Security BearerAuth
// @Param start_date query string true "Tanggal awal (2025-01-01)"
// @Param end_date query string true "Tanggal akhir (2025-01-31)"
// @Success 200 {file} file "File CSV"
// @Failure 400 {object} Response "Parameter tidak valid"
// @Failure 401 {object} Response "Belum login"
// @Router /api/v1/export/csv [get]
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	start, end, ok := parseExportRange(c)
	if !ok {
		return
	}

	rows, err := queryExportRows(userID, start, end)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "gagal mengambil data"))
		return
	}

	buf := new(bytes.Buffer)
	// BOM supaya Excel membaca UTF-8 dengan benar
	buf.WriteString("\xEF\xBB\xBF")

	writer := csv.NewWriter(buf)
	if err := writer.Write(csvColumns); err != nil {
		InternalError(c, "gagal membuat CSV")
		return
	}

	for _, row := range rows {
		record := []string{
			row.Date.Format("2006-01-02"),
			row.Type,
			fmt.Sprintf("%d", row.Amount),
			row.CategoryName,
			row.SourceOrPayee,
			row.Account,
			row.Notes,
		}
		if err := writer.Write(record); err != nil {
			InternalError(c, "gagal membuat CSV")
			return
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		InternalError(c, "gagal membuat CSV")
		return
	}

	filename := fmt.Sprintf("transaksi_%s_%s.csv", start.Format("2006-01-02"), end.AddDate(0, 0, -1).Format("2006-01-02"))
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Header("Content-Length", fmt.Sprintf("%d", buf.Len()))

	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// TemplateCSV template CSV untuk impor
// @Summary Template CSV impor
// @Description Mengunduh contoh file CSV dengan kolom yang diharapkan fitur impor
// @Tags Ekspor
// @Produce text/csv
// @Success 200 {file} file "File CSV"
// @Router /api/v1/export/template [get]
func (h *ExportHandler) TemplateCSV(c *gin.Context) {
	buf := new(bytes.Buffer)
	buf.WriteString("\xEF\xBB\xBF")

	writer := csv.NewWriter(buf)
	writer.Write(csvColumns)
	writer.Write([]string{"2025-01-25", "income", "8500000", "Gaji", "PT Maju", "BCA", "Gaji bulanan"})
	writer.Write([]string{"2025-01-27", "expense", "45000", "Makan", "Warung", "Tunai", "Nasi Padang"})
	writer.Flush()

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", "attachment; filename=template_transaksi.csv")
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// ExportJSON ekspor transaksi ke JSON
// @Summary Ekspor transaksi ke JSON
// @Description Transaksi dalam rentang tanggal beserta ringkasan totalnya
// @Tags Ekspor
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param start_date query string true "Tanggal awal (2025-01-01)"
// @Param end_date query string true "Tanggal akhir (2025-01-31)"
// @Success 200 {object} Response "Berhasil"
// @Failure 400 {object} Response "Parameter tidak valid"
// @Failure 401 {object} Response "Belum login"
// @Router /api/v1/export/json [get]
func (h *ExportHandler) ExportJSON(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	start, end, ok := parseExportRange(c)
	if !ok {
		return
	}

	rows, err := queryExportRows(userID, start, end)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "gagal mengambil data"))
		return
	}

	var totalIncome, totalExpense int64
	for _, row := range rows {
		if row.Type == models.TypeIncome {
			totalIncome += row.Amount
		} else {
			totalExpense += row.Amount
		}
	}

	Success(c, gin.H{
		"start_date":    start.Format("2006-01-02"),
		"end_date":      end.AddDate(0, 0, -1).Format("2006-01-02"),
		"total_count":   len(rows),
		"total_income":  totalIncome,
		"total_expense": totalExpense,
		"transactions":  rows,
	})
}

// ExportExcel ekspor transaksi ke Excel
// @Summary Ekspor transaksi ke Excel
// @Description Mengunduh transaksi dalam rentang tanggal sebagai file xlsx
// @Tags Ekspor
// @Accept json
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param start_date query string true "Tanggal awal (2025-01-01)"
// @Param end_date query string true "Tanggal akhir (2025-01-31)"
// @Success 200 {file} file "File Excel"
// @Failure 400 {object} Response "Parameter tidak valid"
// @Failure 401 {object} Response "Belum login"
// @Router /api/v1/export/excel [get]
func (h *ExportHandler) ExportExcel(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	start, end, ok := parseExportRange(c)
	if !ok {
		return
	}

	rows, err := queryExportRows(userID, start, end)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "gagal mengambil data"))
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Transaksi"
	f.SetSheetName("Sheet1", sheetName)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"0EA5E9"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
	})

	dataStyle, _ := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
	})

	f.SetColWidth(sheetName, "A", "A", 14)
	f.SetColWidth(sheetName, "B", "B", 12)
	f.SetColWidth(sheetName, "C", "C", 16)
	f.SetColWidth(sheetName, "D", "D", 16)
	f.SetColWidth(sheetName, "E", "E", 24)
	f.SetColWidth(sheetName, "F", "F", 14)
	f.SetColWidth(sheetName, "G", "G", 30)

	headers := []string{"Tanggal", "Tipe", "Nominal (Rp)", "Kategori", "Sumber/Penerima", "Akun", "Catatan"}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for i, row := range rows {
		rowNum := i + 2
		values := []interface{}{
			row.Date.Format("2006-01-02"),
			row.Type,
			row.Amount,
			row.CategoryName,
			row.SourceOrPayee,
			row.Account,
			row.Notes,
		}
		for j, v := range values {
			cell := fmt.Sprintf("%c%d", 'A'+j, rowNum)
			f.SetCellValue(sheetName, cell, v)
			f.SetCellStyle(sheetName, cell, cell, dataStyle)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		InternalError(c, "gagal membuat file Excel")
		return
	}

	filename := fmt.Sprintf("transaksi_%s_%s.xlsx", start.Format("2006-01-02"), end.AddDate(0, 0, -1).Format("2006-01-02"))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Header("Content-Length", fmt.Sprintf("%d", buf.Len()))

	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
