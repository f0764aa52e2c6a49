package models

import (
	"time"

	"gorm.io/gorm"
)

// Transaction satu baris jurnal: pemasukan atau pengeluaran
type Transaction struct {
	ID            uint           `json:"id" gorm:"primaryKey"`
	UserID        uint           `json:"user_id" gorm:"index;not null"`
	Date          time.Time      `json:"date" gorm:"index;not null"`
	Type          string         `json:"type" gorm:"size:10;not null;index"` // income / expense
	CategoryID    uint           `json:"category_id" gorm:"index;not null"`
	Amount        int64          `json:"amount" gorm:"not null"` // rupiah utuh
	SourceOrPayee string         `json:"source_or_payee" gorm:"size:100"`
	Account       string         `json:"account" gorm:"size:50"`
	Notes         string         `json:"notes" gorm:"size:255"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `json:"-" gorm:"index"`
	User          User           `json:"-" gorm:"foreignKey:UserID"`
	Category      Category       `json:"-" gorm:"foreignKey:CategoryID"`
}

// TableName nama tabel
func (Transaction) TableName() string {
	return "transactions"
}
