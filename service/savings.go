package service

import (
	"errors"
	"strings"
	"sync"
	"time"

	"duitku/models"

	"gorm.io/gorm"
)

// Kategori dan penanda entri jurnal yang dibuat oleh setoran manual.
const (
	SavingsCategoryName = "Tabungan"
	savingsPayee        = "Setoran tabungan"
	savingsAccount      = "tabungan"
)

// PotSummary ringkasan pot tabungan, selalu diturunkan dari buku besar,
// tidak pernah disimpan sebagai saldo berjalan.
type PotSummary struct {
	Available      int64 `json:"available"`
	TotalAuto      int64 `json:"total_auto"`
	TotalManual    int64 `json:"total_manual"`
	TotalAllocated int64 `json:"total_allocated"` // alokasi aktif + dana yang sudah dikonsumsi
}

// GoalSummary goal beserta angka turunannya
type GoalSummary struct {
	models.SavingsGoal
	Allocated int64 `json:"allocated"`
	Remaining int64 `json:"remaining"`
	Achieved  bool  `json:"achieved"`
}

// AllocationResult hasil alokasi; AchievedNow true saat alokasi ini
// yang pertama kali membuat goal mencapai target.
type AllocationResult struct {
	Allocation  models.GoalAllocation
	AchievedNow bool
}

// SavingsService mesin tabungan: akrual bulanan, setoran manual, dan
// alokasi goal. Setiap operasi tulis berjalan dalam satu transaksi
// database dan diserialkan per pengguna lewat mutex, sehingga urutan
// baca-periksa-tulis tidak pernah balapan dengan permintaan lain dari
// pengguna yang sama.
type SavingsService struct {
	db      *gorm.DB
	journal *Journal
	now     func() time.Time

	mu        sync.Mutex
	userLocks map[uint]*sync.Mutex
}

// NewSavingsService membuat mesin tabungan dengan jam wall-clock
func NewSavingsService(db *gorm.DB) *SavingsService {
	return NewSavingsServiceWithClock(db, time.Now)
}

// NewSavingsServiceWithClock membuat mesin tabungan dengan jam suntikan,
// dipakai pengujian supaya sweep akrual deterministik.
func NewSavingsServiceWithClock(db *gorm.DB, now func() time.Time) *SavingsService {
	return &SavingsService{
		db:        db,
		journal:   NewJournal(),
		now:       now,
		userLocks: make(map[uint]*sync.Mutex),
	}
}

// lockUser mengunci semua operasi tulis pengguna ini; kembalikan fungsi
// pelepasnya.
func (s *SavingsService) lockUser(userID uint) func() {
	s.mu.Lock()
	l, ok := s.userLocks[userID]
	if !ok {
		l = &sync.Mutex{}
		s.userLocks[userID] = l
	}
	s.mu.Unlock()

	l.Lock()
	return l.Unlock
}

func monthKey(t time.Time) string {
	return t.Format("2006-01")
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// Accrue menjalankan sweep tabungan otomatis: setiap bulan yang sudah
// lewat sejak transaksi pertama dihitung ulang penuh dari jurnal, jadi
// pemanggilan berulang selalu konvergen ke keadaan yang sama (idempoten).
// Bulan berjalan tidak pernah disapu.
func (s *SavingsService) Accrue(userID uint) error {
	defer s.lockUser(userID)()

	return s.db.Transaction(func(tx *gorm.DB) error {
		return s.accrueTx(tx, userID)
	})
}

func (s *SavingsService) accrueTx(tx *gorm.DB, userID uint) error {
	first, err := s.journal.MinTransactionDate(tx, userID)
	if err != nil {
		return err
	}
	if first == nil {
		// jurnal kosong, tidak ada yang disapu
		return nil
	}

	current := monthStart(s.now())
	for m := monthStart(*first); m.Before(current); m = m.AddDate(0, 1, 0) {
		income, expense, err := s.journal.SumIncomeExpense(tx, userID, m, m.AddDate(0, 1, 0))
		if err != nil {
			return err
		}

		net := income - expense
		key := monthKey(m)

		if net <= 0 {
			// bulan tanpa sisa pemasukan tidak punya baris; hapus bila
			// hasil hitung ulang berubah
			if err := tx.Where("user_id = ? AND month = ?", userID, key).
				Delete(&models.AutoTransfer{}).Error; err != nil {
				return err
			}
			continue
		}

		var at models.AutoTransfer
		err = tx.Where("user_id = ? AND month = ?", userID, key).First(&at).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			at = models.AutoTransfer{UserID: userID, Month: key, Amount: net}
			if err := tx.Create(&at).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		case at.Amount != net:
			if err := tx.Model(&at).Update("amount", net).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

// potAvailableTx saldo pot: (auto + manual) - alokasi - konsumsi
func (s *SavingsService) potAvailableTx(tx *gorm.DB, userID uint) (PotSummary, error) {
	var summary PotSummary

	var consumed int64
	sums := []struct {
		model interface{}
		dest  *int64
	}{
		{&models.AutoTransfer{}, &summary.TotalAuto},
		{&models.SavingsTopUp{}, &summary.TotalManual},
		{&models.GoalAllocation{}, &summary.TotalAllocated},
		{&models.SavingsConsumed{}, &consumed},
	}
	for _, q := range sums {
		if err := tx.Model(q.model).
			Where("user_id = ?", userID).
			Select("COALESCE(SUM(amount), 0)").
			Scan(q.dest).Error; err != nil {
			return PotSummary{}, err
		}
	}

	summary.TotalAllocated += consumed
	summary.Available = summary.TotalAuto + summary.TotalManual - summary.TotalAllocated
	return summary, nil
}

// PotSummary ringkasan pot; selalu menjalankan akrual dulu supaya bulan
// yang baru saja lewat ikut terhitung.
func (s *SavingsService) PotSummary(userID uint) (PotSummary, error) {
	defer s.lockUser(userID)()

	var summary PotSummary
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.accrueTx(tx, userID); err != nil {
			return err
		}
		var err error
		summary, err = s.potAvailableTx(tx, userID)
		return err
	})
	return summary, err
}

func (s *SavingsService) currentMonthAvailableTx(tx *gorm.DB, userID uint, now time.Time) (int64, error) {
	start := monthStart(now)
	income, expense, err := s.journal.SumIncomeExpense(tx, userID, start, start.AddDate(0, 1, 0))
	if err != nil {
		return 0, err
	}
	return max(0, income-expense), nil
}

// CurrentMonthAvailable sisa pemasukan bulan berjalan yang masih bisa
// ditabung manual. Terpisah dari saldo pot: pemasukan bulan ini baru
// masuk pot lewat akrual setelah bulannya selesai.
func (s *SavingsService) CurrentMonthAvailable(userID uint) (int64, error) {
	var avail int64
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		avail, err = s.currentMonthAvailableTx(tx, userID, s.now())
		return err
	})
	return avail, err
}

// TopUp mencatat setoran tabungan manual: satu entri pengeluaran
// berkategori "Tabungan" di jurnal plus satu baris setoran yang saling
// terhubung, keduanya dalam satu transaksi.
func (s *SavingsService) TopUp(userID uint, amount int64, note string) (*models.SavingsTopUp, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	defer s.lockUser(userID)()

	var topup models.SavingsTopUp
	err := s.db.Transaction(func(tx *gorm.DB) error {
		now := s.now()

		avail, err := s.currentMonthAvailableTx(tx, userID, now)
		if err != nil {
			return err
		}
		if amount > avail {
			return limitErr(ErrInsufficientIncome, avail)
		}

		entry, err := s.journal.InsertExpense(tx, userID, now, SavingsCategoryName, amount, savingsPayee, savingsAccount, note)
		if err != nil {
			return err
		}

		topup = models.SavingsTopUp{
			UserID:        userID,
			Month:         monthKey(now),
			Date:          now,
			Amount:        amount,
			Note:          note,
			TransactionID: &entry.ID,
		}
		return tx.Create(&topup).Error
	})
	if err != nil {
		return nil, err
	}
	return &topup, nil
}

// DeleteTopUp membatalkan setoran bulan berjalan: baris setoran dan
// entri jurnalnya dihapus bersama. Setoran bulan lampau tidak bisa
// dihapus karena akrual bulan itu sudah dihitung.
func (s *SavingsService) DeleteTopUp(userID uint, topupID uint) error {
	defer s.lockUser(userID)()

	return s.db.Transaction(func(tx *gorm.DB) error {
		var topup models.SavingsTopUp
		err := tx.Where("user_id = ?", userID).First(&topup, topupID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTopUpNotFound
		}
		if err != nil {
			return err
		}

		if topup.Month != monthKey(s.now()) {
			return ErrWrongMonth
		}

		if topup.TransactionID != nil {
			// entri jurnal tautan bisa saja sudah tidak ada; setorannya
			// tetap harus bisa dihapus
			err := s.journal.DeleteEntry(tx, userID, *topup.TransactionID)
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
		}
		return tx.Delete(&topup).Error
	})
}

// CreateGoal membuat goal tabungan baru
func (s *SavingsService) CreateGoal(userID uint, name string, target int64) (*models.SavingsGoal, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidName
	}
	if target <= 0 {
		return nil, ErrInvalidTarget
	}

	defer s.lockUser(userID)()

	var goal models.SavingsGoal
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing models.SavingsGoal
		err := tx.Where("user_id = ? AND name = ?", userID, name).First(&existing).Error
		if err == nil {
			return ErrDuplicateName
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		goal = models.SavingsGoal{UserID: userID, Name: name, TargetAmount: target}
		return tx.Create(&goal).Error
	})
	if err != nil {
		return nil, err
	}
	return &goal, nil
}

func (s *SavingsService) goalTx(tx *gorm.DB, userID, goalID uint) (*models.SavingsGoal, error) {
	var goal models.SavingsGoal
	err := tx.Where("user_id = ?", userID).First(&goal, goalID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrGoalNotFound
	}
	if err != nil {
		return nil, err
	}
	return &goal, nil
}

func (s *SavingsService) allocatedTx(tx *gorm.DB, goalID uint) (int64, error) {
	var total int64
	err := tx.Model(&models.GoalAllocation{}).
		Where("goal_id = ?", goalID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}

// Allocate memindahkan dana dari pot ke goal. Batasnya
// min(saldo pot, sisa target); pemeriksaan dan penulisan berada dalam
// satu transaksi di bawah kunci pengguna, jadi dua alokasi bersamaan
// tidak mungkin sama-sama lolos dengan batas basi.
func (s *SavingsService) Allocate(userID, goalID uint, amount int64, note string) (*AllocationResult, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	defer s.lockUser(userID)()

	var result AllocationResult
	err := s.db.Transaction(func(tx *gorm.DB) error {
		goal, err := s.goalTx(tx, userID, goalID)
		if err != nil {
			return err
		}
		if goal.ArchivedAt != nil {
			return ErrGoalArchived
		}

		// akrual dulu supaya saldo pot tidak basi
		if err := s.accrueTx(tx, userID); err != nil {
			return err
		}
		pot, err := s.potAvailableTx(tx, userID)
		if err != nil {
			return err
		}
		allocated, err := s.allocatedTx(tx, goalID)
		if err != nil {
			return err
		}

		remaining := max(0, goal.TargetAmount-allocated)
		allowed := min(pot.Available, remaining)
		if amount > allowed {
			return limitErr(ErrExceedsAllowed, allowed)
		}

		now := s.now()
		result.Allocation = models.GoalAllocation{
			UserID: userID,
			GoalID: goalID,
			Amount: amount,
			Date:   now,
			Note:   note,
		}
		if err := tx.Create(&result.Allocation).Error; err != nil {
			return err
		}

		// penanda tercapai satu arah: hanya diisi sekali, tidak pernah
		// dikosongkan oleh pelepasan berikutnya
		if allocated+amount >= goal.TargetAmount && goal.AchievedAt == nil {
			if err := tx.Model(goal).Update("achieved_at", now).Error; err != nil {
				return err
			}
			result.AchievedNow = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Release mengembalikan dana goal ke pot lewat baris alokasi negatif.
// Goal terarsip pun boleh melepas dana.
func (s *SavingsService) Release(userID, goalID uint, amount int64, note string) (*models.GoalAllocation, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	defer s.lockUser(userID)()

	var row models.GoalAllocation
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := s.goalTx(tx, userID, goalID); err != nil {
			return err
		}

		allocated, err := s.allocatedTx(tx, goalID)
		if err != nil {
			return err
		}
		if amount > allocated {
			return limitErr(ErrExceedsAllocated, allocated)
		}

		row = models.GoalAllocation{
			UserID: userID,
			GoalID: goalID,
			Amount: -amount,
			Date:   s.now(),
			Note:   note,
		}
		return tx.Create(&row).Error
	})
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// ArchiveGoal mengarsipkan goal aktif
func (s *SavingsService) ArchiveGoal(userID, goalID uint) error {
	defer s.lockUser(userID)()

	return s.db.Transaction(func(tx *gorm.DB) error {
		goal, err := s.goalTx(tx, userID, goalID)
		if err != nil {
			return err
		}
		if goal.ArchivedAt != nil {
			return ErrGoalArchived
		}
		return tx.Model(goal).Update("archived_at", s.now()).Error
	})
}

// UnarchiveGoal mengaktifkan kembali goal terarsip
func (s *SavingsService) UnarchiveGoal(userID, goalID uint) error {
	defer s.lockUser(userID)()

	return s.db.Transaction(func(tx *gorm.DB) error {
		goal, err := s.goalTx(tx, userID, goalID)
		if err != nil {
			return err
		}
		if goal.ArchivedAt == nil {
			return ErrGoalNotArchived
		}
		return tx.Model(goal).Update("archived_at", nil).Error
	})
}

// DeleteGoal menghapus goal terarsip. Dana yang masih teralokasi
// ditarik permanen dari pot lewat baris konsumsi, bukan dikembalikan ke
// saldo tersedia; ini write-off satu arah, berbeda dengan Release.
func (s *SavingsService) DeleteGoal(userID, goalID uint) error {
	defer s.lockUser(userID)()

	return s.db.Transaction(func(tx *gorm.DB) error {
		goal, err := s.goalTx(tx, userID, goalID)
		if err != nil {
			return err
		}
		if goal.ArchivedAt == nil {
			return ErrGoalNotArchived
		}

		allocated, err := s.allocatedTx(tx, goalID)
		if err != nil {
			return err
		}
		if allocated > 0 {
			consumed := models.SavingsConsumed{
				UserID: userID,
				Amount: allocated,
				Note:   "Penghapusan goal: " + goal.Name,
			}
			if err := tx.Create(&consumed).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("goal_id = ?", goalID).Delete(&models.GoalAllocation{}).Error; err != nil {
			return err
		}
		return tx.Delete(goal).Error
	})
}

// ListGoals daftar goal terbagi aktif/terarsip, masing-masing dengan
// total alokasi, sisa target, dan status tercapai.
func (s *SavingsService) ListGoals(userID uint) (active, archived []GoalSummary, err error) {
	var goals []models.SavingsGoal
	if err := s.db.Where("user_id = ?", userID).Order("created_at ASC, id ASC").Find(&goals).Error; err != nil {
		return nil, nil, err
	}

	var sums []struct {
		GoalID uint
		Total  int64
	}
	if err := s.db.Model(&models.GoalAllocation{}).
		Where("user_id = ?", userID).
		Select("goal_id, COALESCE(SUM(amount), 0) AS total").
		Group("goal_id").
		Scan(&sums).Error; err != nil {
		return nil, nil, err
	}
	allocated := make(map[uint]int64, len(sums))
	for _, row := range sums {
		allocated[row.GoalID] = row.Total
	}

	active = []GoalSummary{}
	archived = []GoalSummary{}
	for _, g := range goals {
		summary := GoalSummary{
			SavingsGoal: g,
			Allocated:   allocated[g.ID],
			Remaining:   max(0, g.TargetAmount-allocated[g.ID]),
			Achieved:    g.AchievedAt != nil,
		}
		if g.ArchivedAt != nil {
			archived = append(archived, summary)
		} else {
			active = append(active, summary)
		}
	}
	return active, archived, nil
}

// RecentAutoTransfers riwayat tabungan otomatis beberapa bulan terakhir,
// urut bulan terbaru dulu. Akrual dijalankan dulu supaya riwayatnya
// mutakhir.
func (s *SavingsService) RecentAutoTransfers(userID uint, months int) ([]models.AutoTransfer, error) {
	if err := s.Accrue(userID); err != nil {
		return nil, err
	}

	var rows []models.AutoTransfer
	err := s.db.Where("user_id = ?", userID).
		Order("month DESC").
		Limit(months).
		Find(&rows).Error
	return rows, err
}

// CurrentMonthTopUps daftar setoran manual bulan berjalan
func (s *SavingsService) CurrentMonthTopUps(userID uint) ([]models.SavingsTopUp, error) {
	var rows []models.SavingsTopUp
	err := s.db.Where("user_id = ? AND month = ?", userID, monthKey(s.now())).
		Order("date DESC, id DESC").
		Find(&rows).Error
	return rows, err
}
