package service

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"duitku/database"
	"duitku/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// jam tetap supaya sweep akrual deterministik: 15 Agustus 2025
var testNow = time.Date(2025, 8, 15, 10, 0, 0, 0, time.UTC)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// in-memory bernama + cache shared supaya koneksi paralel melihat
	// database yang sama
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})
	return db
}

func newTestService(t *testing.T, db *gorm.DB) *SavingsService {
	t.Helper()
	return NewSavingsServiceWithClock(db, func() time.Time { return testNow })
}

func seedUser(t *testing.T, db *gorm.DB, username string) uint {
	t.Helper()
	user := models.User{Username: username, Password: "x", Email: username + "@example.com"}
	require.NoError(t, db.Create(&user).Error)
	return user.ID
}

// seedTx menulis satu transaksi jurnal lewat jalur EnsureCategory
func seedTx(t *testing.T, db *gorm.DB, userID uint, ttype string, amount int64, date time.Time) {
	t.Helper()
	j := NewJournal()
	catName := "Gaji"
	if ttype == models.TypeExpense {
		catName = "Makan"
	}
	cat, err := j.EnsureCategory(db, userID, ttype, catName)
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.Transaction{
		UserID:     userID,
		Date:       date,
		Type:       ttype,
		CategoryID: cat.ID,
		Amount:     amount,
	}).Error)
}

func monthDate(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 12, 0, 0, 0, time.UTC)
}

func TestAccrueIdempotent(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(t, db)
	user := seedUser(t, db, "budi")

	// Juni: net +5.000.000; Juli: net -500.000; Agustus (berjalan): income
	seedTx(t, db, user, models.TypeIncome, 8_000_000, monthDate(2025, 6, 25))
	seedTx(t, db, user, models.TypeExpense, 3_000_000, monthDate(2025, 6, 27))
	seedTx(t, db, user, models.TypeIncome, 2_000_000, monthDate(2025, 7, 1))
	seedTx(t, db, user, models.TypeExpense, 2_500_000, monthDate(2025, 7, 15))
	seedTx(t, db, user, models.TypeIncome, 9_000_000, monthDate(2025, 8, 1))

	require.NoError(t, svc.Accrue(user))

	var rows []models.AutoTransfer
	require.NoError(t, db.Where("user_id = ?", user).Order("month").Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, "2025-06", rows[0].Month)
	assert.Equal(t, int64(5_000_000), rows[0].Amount)

	// pemanggilan kedua tidak mengubah apa pun
	require.NoError(t, svc.Accrue(user))

	var again []models.AutoTransfer
	require.NoError(t, db.Where("user_id = ?", user).Order("month").Find(&again).Error)
	assert.Equal(t, rows, again)
}

func TestAccrueRecompute(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(t, db)
	user := seedUser(t, db, "sari")

	seedTx(t, db, user, models.TypeIncome, 1_000_000, monthDate(2025, 6, 5))
	require.NoError(t, svc.Accrue(user))

	var count int64
	db.Model(&models.AutoTransfer{}).Where("user_id = ? AND month = ?", user, "2025-06").Count(&count)
	assert.Equal(t, int64(1), count)

	// koreksi jurnal membalikkan net Juni jadi negatif; sweep berikutnya
	// harus menghapus baris bulan itu
	seedTx(t, db, user, models.TypeExpense, 1_500_000, monthDate(2025, 6, 20))
	require.NoError(t, svc.Accrue(user))

	db.Model(&models.AutoTransfer{}).Where("user_id = ? AND month = ?", user, "2025-06").Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestAccrueEmptyJournal(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(t, db)
	user := seedUser(t, db, "kosong")

	require.NoError(t, svc.Accrue(user))

	var count int64
	db.Model(&models.AutoTransfer{}).Where("user_id = ?", user).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestPotSummaryConservation(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(t, db)
	user := seedUser(t, db, "andi")

	// dua bulan penuh: Juni net 5jt, Juli net 2jt; Agustus berjalan 3jt
	seedTx(t, db, user, models.TypeIncome, 5_000_000, monthDate(2025, 6, 25))
	seedTx(t, db, user, models.TypeIncome, 2_000_000, monthDate(2025, 7, 25))
	seedTx(t, db, user, models.TypeIncome, 3_000_000, monthDate(2025, 8, 1))

	summary, err := svc.PotSummary(user)
	require.NoError(t, err)
	assert.Equal(t, int64(7_000_000), summary.TotalAuto)
	// bulan berjalan belum disapu ke pot
	assert.Equal(t, int64(7_000_000), summary.Available)

	// setoran manual menambah pot
	_, err = svc.TopUp(user, 1_000_000, "sisa gaji")
	require.NoError(t, err)

	// alokasi dan pelepasan
	goal, err := svc.CreateGoal(user, "Dana Darurat", 10_000_000)
	require.NoError(t, err)
	_, err = svc.Allocate(user, goal.ID, 2_000_000, "")
	require.NoError(t, err)
	_, err = svc.Release(user, goal.ID, 500_000, "")
	require.NoError(t, err)

	summary, err = svc.PotSummary(user)
	require.NoError(t, err)
	assert.Equal(t, int64(7_000_000), summary.TotalAuto)
	assert.Equal(t, int64(1_000_000), summary.TotalManual)
	assert.Equal(t, int64(1_500_000), summary.TotalAllocated)
	assert.Equal(t, int64(6_500_000), summary.Available)

	// verifikasi dari prinsip pertama terhadap isi buku besar
	var auto, manual, alloc, consumed int64
	db.Model(&models.AutoTransfer{}).Where("user_id = ?", user).Select("COALESCE(SUM(amount),0)").Scan(&auto)
	db.Model(&models.SavingsTopUp{}).Where("user_id = ?", user).Select("COALESCE(SUM(amount),0)").Scan(&manual)
	db.Model(&models.GoalAllocation{}).Where("user_id = ?", user).Select("COALESCE(SUM(amount),0)").Scan(&alloc)
	db.Model(&models.SavingsConsumed{}).Where("user_id = ?", user).Select("COALESCE(SUM(amount),0)").Scan(&consumed)
	assert.Equal(t, auto+manual-alloc-consumed, summary.Available)
	assert.GreaterOrEqual(t, summary.Available, int64(0))
}

func TestTopUpBounds(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(t, db)
	user := seedUser(t, db, "rina")

	// bulan berjalan: pemasukan 1.000.000, pengeluaran 400.000
	seedTx(t, db, user, models.TypeIncome, 1_000_000, monthDate(2025, 8, 1))
	seedTx(t, db, user, models.TypeExpense, 400_000, monthDate(2025, 8, 5))

	// nominal tidak valid
	_, err := svc.TopUp(user, 0, "")
	assert.ErrorIs(t, err, ErrInvalidAmount)
	_, err = svc.TopUp(user, -5, "")
	assert.ErrorIs(t, err, ErrInvalidAmount)

	// melebihi sisa pemasukan bulan ini
	_, err = svc.TopUp(user, 700_000, "")
	assert.ErrorIs(t, err, ErrInsufficientIncome)
	var le *LimitError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, int64(600_000), le.Limit)

	// tepat di batas: berhasil dan sisa bulan ini jadi nol
	topup, err := svc.TopUp(user, 600_000, "sisa bulan ini")
	require.NoError(t, err)
	assert.Equal(t, "2025-08", topup.Month)
	require.NotNil(t, topup.TransactionID)

	avail, err := svc.CurrentMonthAvailable(user)
	require.NoError(t, err)
	assert.Equal(t, int64(0), avail)

	// entri jurnal terkait berkategori Tabungan
	var entry models.Transaction
	require.NoError(t, db.First(&entry, *topup.TransactionID).Error)
	assert.Equal(t, models.TypeExpense, entry.Type)
	assert.Equal(t, int64(600_000), entry.Amount)
	var cat models.Category
	require.NoError(t, db.First(&cat, entry.CategoryID).Error)
	assert.Equal(t, SavingsCategoryName, cat.Name)
}

func TestDeleteTopUpRestores(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(t, db)
	user := seedUser(t, db, "tono")

	seedTx(t, db, user, models.TypeIncome, 1_000_000, monthDate(2025, 8, 1))

	before, err := svc.CurrentMonthAvailable(user)
	require.NoError(t, err)

	topup, err := svc.TopUp(user, 250_000, "")
	require.NoError(t, err)

	mid, err := svc.CurrentMonthAvailable(user)
	require.NoError(t, err)
	assert.Equal(t, before-250_000, mid)

	require.NoError(t, svc.DeleteTopUp(user, topup.ID))

	after, err := svc.CurrentMonthAvailable(user)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	// entri jurnal terkait ikut hilang
	var count int64
	db.Model(&models.Transaction{}).Where("id = ?", *topup.TransactionID).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestDeleteTopUpGuards(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(t, db)
	user := seedUser(t, db, "dewi")
	other := seedUser(t, db, "asep")

	seedTx(t, db, user, models.TypeIncome, 1_000_000, monthDate(2025, 8, 1))
	topup, err := svc.TopUp(user, 100_000, "")
	require.NoError(t, err)

	// id tidak ada / milik pengguna lain
	assert.ErrorIs(t, svc.DeleteTopUp(user, 999), ErrTopUpNotFound)
	assert.ErrorIs(t, svc.DeleteTopUp(other, topup.ID), ErrTopUpNotFound)

	// setoran bulan lampau dilindungi permanen
	old := models.SavingsTopUp{UserID: user, Month: "2025-07", Date: monthDate(2025, 7, 10), Amount: 50_000}
	require.NoError(t, db.Create(&old).Error)
	assert.ErrorIs(t, svc.DeleteTopUp(user, old.ID), ErrWrongMonth)
}

func TestDeleteTopUpMissingJournalEntry(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(t, db)
	user := seedUser(t, db, "rina")

	seedTx(t, db, user, models.TypeIncome, 1_000_000, monthDate(2025, 8, 1))
	topup, err := svc.TopUp(user, 400_000, "")
	require.NoError(t, err)
	require.NotNil(t, topup.TransactionID)

	// entri jurnal tautannya hilang duluan (mis. data lama yang rusak);
	// setorannya tetap harus bisa dihapus bersih
	require.NoError(t, db.Delete(&models.Transaction{}, *topup.TransactionID).Error)

	require.NoError(t, svc.DeleteTopUp(user, topup.ID))

	var n int64
	require.NoError(t, db.Model(&models.SavingsTopUp{}).Where("user_id = ?", user).Count(&n).Error)
	assert.Equal(t, int64(0), n)

	pot, err := svc.PotSummary(user)
	require.NoError(t, err)
	assert.Equal(t, int64(0), pot.TotalManual)
}

func TestCreateGoalValidation(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(t, db)
	user := seedUser(t, db, "yusuf")

	_, err := svc.CreateGoal(user, "   ", 1_000_000)
	assert.ErrorIs(t, err, ErrInvalidName)

	_, err = svc.CreateGoal(user, "Liburan", 0)
	assert.ErrorIs(t, err, ErrInvalidTarget)

	_, err = svc.CreateGoal(user, "Liburan", 1_000_000)
	require.NoError(t, err)

	_, err = svc.CreateGoal(user, "Liburan", 2_000_000)
	assert.ErrorIs(t, err, ErrDuplicateName)

	// pengguna lain boleh memakai nama yang sama
	other := seedUser(t, db, "lina")
	_, err = svc.CreateGoal(other, "Liburan", 500_000)
	assert.NoError(t, err)
}

func TestAllocateBounds(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(t, db)
	user := seedUser(t, db, "fajar")

	// pot: 5.000.000 dari Juni
	seedTx(t, db, user, models.TypeIncome, 5_000_000, monthDate(2025, 6, 25))

	goal, err := svc.CreateGoal(user, "Motor", 2_000_000)
	require.NoError(t, err)

	_, err = svc.Allocate(user, goal.ID, 0, "")
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = svc.Allocate(user, 999, 100, "")
	assert.ErrorIs(t, err, ErrGoalNotFound)

	// batas sisa target: 2.000.000
	_, err = svc.Allocate(user, goal.ID, 2_500_000, "")
	assert.ErrorIs(t, err, ErrExceedsAllowed)
	var le *LimitError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, int64(2_000_000), le.Limit)

	// tepat di batas: berhasil dan goal langsung tercapai
	res, err := svc.Allocate(user, goal.ID, 2_000_000, "")
	require.NoError(t, err)
	assert.True(t, res.AchievedNow)

	var loaded models.SavingsGoal
	require.NoError(t, db.First(&loaded, goal.ID).Error)
	assert.NotNil(t, loaded.AchievedAt)

	// target sudah penuh: batas berikutnya nol
	_, err = svc.Allocate(user, goal.ID, 1, "")
	assert.ErrorIs(t, err, ErrExceedsAllowed)
	require.ErrorAs(t, err, &le)
	assert.Equal(t, int64(0), le.Limit)

	// batas pot: target besar, pot tinggal 3.000.000
	big, err := svc.CreateGoal(user, "Rumah", 100_000_000)
	require.NoError(t, err)
	_, err = svc.Allocate(user, big.ID, 3_000_001, "")
	assert.ErrorIs(t, err, ErrExceedsAllowed)
	require.ErrorAs(t, err, &le)
	assert.Equal(t, int64(3_000_000), le.Limit)

	_, err = svc.Allocate(user, big.ID, 3_000_000, "")
	assert.NoError(t, err)
}

func TestReleaseBounds(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(t, db)
	user := seedUser(t, db, "gita")

	seedTx(t, db, user, models.TypeIncome, 5_000_000, monthDate(2025, 6, 25))
	goal, err := svc.CreateGoal(user, "Laptop", 2_000_000)
	require.NoError(t, err)
	res, err := svc.Allocate(user, goal.ID, 2_000_000, "")
	require.NoError(t, err)
	assert.True(t, res.AchievedNow)

	_, err = svc.Release(user, goal.ID, 0, "")
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = svc.Release(user, goal.ID, 2_500_000, "")
	assert.ErrorIs(t, err, ErrExceedsAllocated)
	var le *LimitError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, int64(2_000_000), le.Limit)

	// tepat sebesar alokasi: saldo goal kembali nol
	row, err := svc.Release(user, goal.ID, 2_000_000, "batal beli")
	require.NoError(t, err)
	assert.Equal(t, int64(-2_000_000), row.Amount)

	active, _, err := svc.ListGoals(user)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, int64(0), active[0].Allocated)

	// penanda tercapai bersifat historis, tidak ikut dikosongkan
	assert.True(t, active[0].Achieved)

	// dananya kembali ke pot
	summary, err := svc.PotSummary(user)
	require.NoError(t, err)
	assert.Equal(t, int64(5_000_000), summary.Available)
}

func TestDeleteGoalWriteOff(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(t, db)
	user := seedUser(t, db, "hadi")

	seedTx(t, db, user, models.TypeIncome, 5_000_000, monthDate(2025, 6, 25))
	goal, err := svc.CreateGoal(user, "Kamera", 1_000_000)
	require.NoError(t, err)
	_, err = svc.Allocate(user, goal.ID, 150_000, "")
	require.NoError(t, err)

	before, err := svc.PotSummary(user)
	require.NoError(t, err)

	// hanya goal terarsip yang boleh dihapus
	assert.ErrorIs(t, svc.DeleteGoal(user, goal.ID), ErrGoalNotArchived)
	require.NoError(t, svc.ArchiveGoal(user, goal.ID))
	require.NoError(t, svc.DeleteGoal(user, goal.ID))

	// dana teralokasi ditarik permanen, bukan kembali ke saldo
	var consumed models.SavingsConsumed
	require.NoError(t, db.Where("user_id = ?", user).First(&consumed).Error)
	assert.Equal(t, int64(150_000), consumed.Amount)

	var count int64
	db.Model(&models.SavingsGoal{}).Where("id = ?", goal.ID).Count(&count)
	assert.Equal(t, int64(0), count)
	db.Model(&models.GoalAllocation{}).Where("goal_id = ?", goal.ID).Count(&count)
	assert.Equal(t, int64(0), count)

	// saldo pot tidak berubah: dana itu memang sudah keluar dari
	// "tersedia" sejak dialokasikan
	after, err := svc.PotSummary(user)
	require.NoError(t, err)
	assert.Equal(t, before.Available, after.Available)
}

func TestGoalLifecycle(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(t, db)
	user := seedUser(t, db, "ika")

	seedTx(t, db, user, models.TypeIncome, 5_000_000, monthDate(2025, 6, 25))
	goal, err := svc.CreateGoal(user, "Umroh", 3_000_000)
	require.NoError(t, err)
	_, err = svc.Allocate(user, goal.ID, 1_000_000, "")
	require.NoError(t, err)

	require.NoError(t, svc.ArchiveGoal(user, goal.ID))
	assert.ErrorIs(t, svc.ArchiveGoal(user, goal.ID), ErrGoalArchived)

	// goal terarsip menolak alokasi tapi tetap boleh melepas dana
	_, err = svc.Allocate(user, goal.ID, 100_000, "")
	assert.ErrorIs(t, err, ErrGoalArchived)
	_, err = svc.Release(user, goal.ID, 200_000, "")
	assert.NoError(t, err)

	require.NoError(t, svc.UnarchiveGoal(user, goal.ID))
	assert.ErrorIs(t, svc.UnarchiveGoal(user, goal.ID), ErrGoalNotArchived)

	// setelah aktif kembali, alokasi boleh lagi
	_, err = svc.Allocate(user, goal.ID, 100_000, "")
	assert.NoError(t, err)
}

func TestListGoalsSplit(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(t, db)
	user := seedUser(t, db, "joko")

	seedTx(t, db, user, models.TypeIncome, 5_000_000, monthDate(2025, 6, 25))

	g1, err := svc.CreateGoal(user, "Sepeda", 1_000_000)
	require.NoError(t, err)
	g2, err := svc.CreateGoal(user, "TV", 2_000_000)
	require.NoError(t, err)
	_, err = svc.Allocate(user, g1.ID, 400_000, "")
	require.NoError(t, err)
	require.NoError(t, svc.ArchiveGoal(user, g2.ID))

	active, archived, err := svc.ListGoals(user)
	require.NoError(t, err)
	require.Len(t, active, 1)
	require.Len(t, archived, 1)

	assert.Equal(t, g1.ID, active[0].ID)
	assert.Equal(t, int64(400_000), active[0].Allocated)
	assert.Equal(t, int64(600_000), active[0].Remaining)
	assert.False(t, active[0].Achieved)
	assert.Equal(t, g2.ID, archived[0].ID)
}

func TestRecentAutoTransfers(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(t, db)
	user := seedUser(t, db, "nina")

	// 14 bulan pemasukan berturut-turut sebelum bulan berjalan
	for i := 1; i <= 14; i++ {
		seedTx(t, db, user, models.TypeIncome, 1_000_000, testNow.AddDate(0, -i, -7))
	}

	rows, err := svc.RecentAutoTransfers(user, 12)
	require.NoError(t, err)
	require.Len(t, rows, 12)
	// urut bulan terbaru dulu
	assert.Equal(t, "2025-07", rows[0].Month)
	assert.True(t, rows[0].Month > rows[11].Month)
}

func TestConcurrentAllocationRace(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(t, db)
	user := seedUser(t, db, "race")

	// pot tepat 1.000.000
	seedTx(t, db, user, models.TypeIncome, 1_000_000, monthDate(2025, 6, 25))
	goal, err := svc.CreateGoal(user, "Darurat", 1_000_000)
	require.NoError(t, err)

	// dua alokasi 700.000 bersamaan: masing-masing di bawah batas, tapi
	// gabungan melebihi pot. Harus tepat satu berhasil.
	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Allocate(user, goal.ID, 700_000, "")
		}(i)
	}
	wg.Wait()

	var okCount, exceedCount int
	for _, err := range errs {
		switch {
		case err == nil:
			okCount++
		default:
			assert.ErrorIs(t, err, ErrExceedsAllowed)
			exceedCount++
		}
	}
	assert.Equal(t, 1, okCount)
	assert.Equal(t, 1, exceedCount)

	allocated, err := svc.allocatedTx(db, goal.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(700_000), allocated)
}
