package service

import (
	"errors"
	"strings"
	"time"

	"duitku/models"

	"gorm.io/gorm"
)

// Journal akses agregat ke jurnal transaksi. Semua method menerima
// *gorm.DB supaya bisa ikut transaksi pemanggil.
type Journal struct{}

// NewJournal membuat akses jurnal
func NewJournal() *Journal {
	return &Journal{}
}

// SumIncomeExpense menjumlahkan pemasukan dan pengeluaran pada rentang
// [start, end).
func (j *Journal) SumIncomeExpense(tx *gorm.DB, userID uint, start, end time.Time) (income, expense int64, err error) {
	err = tx.Model(&models.Transaction{}).
		Where("user_id = ? AND type = ? AND date >= ? AND date < ?", userID, models.TypeIncome, start, end).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&income).Error
	if err != nil {
		return 0, 0, err
	}

	err = tx.Model(&models.Transaction{}).
		Where("user_id = ? AND type = ? AND date >= ? AND date < ?", userID, models.TypeExpense, start, end).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&expense).Error
	if err != nil {
		return 0, 0, err
	}

	return income, expense, nil
}

// MinTransactionDate tanggal transaksi paling awal milik pengguna,
// nil jika jurnal masih kosong.
func (j *Journal) MinTransactionDate(tx *gorm.DB, userID uint) (*time.Time, error) {
	var first models.Transaction
	err := tx.Where("user_id = ?", userID).Order("date ASC").First(&first).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &first.Date, nil
}

// EnsureCategory mengambil kategori pengguna, membuatnya jika belum ada
// (get-or-create, idempoten).
func (j *Journal) EnsureCategory(tx *gorm.DB, userID uint, ctype, name string) (*models.Category, error) {
	name = strings.TrimSpace(name)

	var cat models.Category
	err := tx.Where("user_id = ? AND type = ? AND name = ?", userID, ctype, name).First(&cat).Error
	if err == nil {
		return &cat, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	cat = models.Category{UserID: userID, Type: ctype, Name: name}
	if err := tx.Create(&cat).Error; err != nil {
		return nil, err
	}
	return &cat, nil
}

// InsertExpense menulis satu entri pengeluaran ke jurnal, kategori
// dibuat otomatis bila perlu.
func (j *Journal) InsertExpense(tx *gorm.DB, userID uint, date time.Time, categoryName string, amount int64, payee, account, note string) (*models.Transaction, error) {
	cat, err := j.EnsureCategory(tx, userID, models.TypeExpense, categoryName)
	if err != nil {
		return nil, err
	}

	entry := models.Transaction{
		UserID:        userID,
		Date:          date,
		Type:          models.TypeExpense,
		CategoryID:    cat.ID,
		Amount:        amount,
		SourceOrPayee: payee,
		Account:       account,
		Notes:         note,
	}
	if err := tx.Create(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// DeleteEntry menghapus satu entri jurnal milik pengguna
func (j *Journal) DeleteEntry(tx *gorm.DB, userID uint, entryID uint) error {
	res := tx.Where("user_id = ?", userID).Delete(&models.Transaction{}, entryID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
