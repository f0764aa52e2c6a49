package models

import (
	"time"

	"gorm.io/gorm"
)

// Tipe kategori
const (
	TypeIncome  = "income"
	TypeExpense = "expense"
)

// Category kategori transaksi milik pengguna
type Category struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	UserID    uint           `json:"user_id" gorm:"not null;uniqueIndex:idx_categories_user_type_name"`
	Type      string         `json:"type" gorm:"size:10;not null;uniqueIndex:idx_categories_user_type_name"` // income / expense
	Name      string         `json:"name" gorm:"size:50;not null;uniqueIndex:idx_categories_user_type_name"`
	Sort      int            `json:"sort" gorm:"default:0;index"`
	Color     string         `json:"color" gorm:"size:20;default:#64748b"` // kode warna, mis. #ef4444
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName nama tabel
func (Category) TableName() string {
	return "categories"
}

// DefaultCategories kategori bawaan untuk pengguna baru
func DefaultCategories(userID uint) []Category {
	defaults := []struct {
		Type  string
		Name  string
		Sort  int
		Color string
	}{
		{TypeIncome, "Gaji", 10, "#10b981"},
		{TypeIncome, "Bonus", 20, "#3b82f6"},
		{TypeIncome, "Lainnya", 30, "#64748b"},
		{TypeExpense, "Makan", 10, "#ef4444"},
		{TypeExpense, "Transportasi", 20, "#3b82f6"},
		{TypeExpense, "Belanja", 30, "#a855f7"},
		{TypeExpense, "Tagihan", 40, "#14b8a6"},
		{TypeExpense, "Hiburan", 50, "#ec4899"},
		{TypeExpense, "Kesehatan", 60, "#10b981"},
		{TypeExpense, "Lainnya", 70, "#64748b"},
	}

	cats := make([]Category, 0, len(defaults))
	for _, d := range defaults {
		cats = append(cats, Category{
			UserID: userID,
			Type:   d.Type,
			Name:   d.Name,
			Sort:   d.Sort,
			Color:  d.Color,
		})
	}
	return cats
}
