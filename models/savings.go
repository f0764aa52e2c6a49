package models

import "time"

// AutoTransfer tabungan otomatis satu bulan penuh: (user, bulan) -> sisa pemasukan.
// Hanya ditulis oleh sweep akrual, tidak pernah oleh aksi pengguna.
type AutoTransfer struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_auto_transfers_user_month"`
	Month     string    `json:"month" gorm:"size:7;not null;uniqueIndex:idx_auto_transfers_user_month"` // format 2006-01
	Amount    int64     `json:"amount" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName nama tabel
func (AutoTransfer) TableName() string {
	return "auto_transfers"
}

// SavingsTopUp setoran tabungan manual bulan berjalan, terhubung ke
// satu entri pengeluaran di jurnal.
type SavingsTopUp struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	UserID        uint      `json:"user_id" gorm:"index;not null"`
	Month         string    `json:"month" gorm:"size:7;not null;index"` // format 2006-01
	Date          time.Time `json:"date" gorm:"not null"`
	Amount        int64     `json:"amount" gorm:"not null"`
	Note          string    `json:"note" gorm:"size:255"`
	TransactionID *uint     `json:"transaction_id" gorm:"index"` // entri jurnal terkait
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName nama tabel
func (SavingsTopUp) TableName() string {
	return "savings_topups"
}

// SavingsGoal target tabungan bernama.
// Siklus: aktif -> (tercapai) -> diarsipkan -> dihapus; hanya goal
// terarsip yang boleh dihapus.
type SavingsGoal struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	UserID       uint       `json:"user_id" gorm:"not null;uniqueIndex:idx_savings_goals_user_name"`
	Name         string     `json:"name" gorm:"size:100;not null;uniqueIndex:idx_savings_goals_user_name"`
	TargetAmount int64      `json:"target_amount" gorm:"not null"`
	AchievedAt   *time.Time `json:"achieved_at"` // penanda satu arah, tidak pernah dihapus
	ArchivedAt   *time.Time `json:"archived_at"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// TableName nama tabel
func (SavingsGoal) TableName() string {
	return "savings_goals"
}

// GoalAllocation baris buku besar alokasi, append-only.
// Positif = alokasi ke goal, negatif = pelepasan kembali ke pot.
// Koreksi selalu berupa baris baru, tidak pernah update/delete satuan.
type GoalAllocation struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index;not null"`
	GoalID    uint      `json:"goal_id" gorm:"index;not null"`
	Amount    int64     `json:"amount" gorm:"not null"`
	Date      time.Time `json:"date" gorm:"not null"`
	Note      string    `json:"note" gorm:"size:255"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName nama tabel
func (GoalAllocation) TableName() string {
	return "goal_allocations"
}

// SavingsConsumed dana alokasi yang ditarik permanen dari pot saat
// goal terarsip dihapus. Tidak pernah kembali ke saldo tersedia.
type SavingsConsumed struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index;not null"`
	Amount    int64     `json:"amount" gorm:"not null"`
	Note      string    `json:"note" gorm:"size:255"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName nama tabel
func (SavingsConsumed) TableName() string {
	return "savings_consumed"
}
