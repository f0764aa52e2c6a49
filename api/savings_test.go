package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"duitku/config"
	"duitku/database"
	"duitku/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupSQLiteDB memakai database sungguhan di memori karena alur tabungan
// butuh baca-tulis lintas tabel yang sulit ditiru dengan mock
func setupSQLiteDB(t *testing.T) func() {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	oldDB := database.DB
	database.DB = db
	return func() {
		database.DB = oldDB
		sqlDB, _ := db.DB()
		sqlDB.Close()
	}
}

func seedSavingsUser(t *testing.T) uint {
	t.Helper()
	user := models.User{Username: "budi", Password: "x", Email: ""}
	require.NoError(t, database.DB.Create(&user).Error)

	cat := models.Category{UserID: user.ID, Type: models.TypeIncome, Name: "Gaji"}
	require.NoError(t, database.DB.Create(&cat).Error)

	// pemasukan bulan berjalan
	require.NoError(t, database.DB.Create(&models.Transaction{
		UserID:     user.ID,
		Date:       time.Now(),
		Type:       models.TypeIncome,
		CategoryID: cat.ID,
		Amount:     1_000_000,
	}).Error)
	return user.ID
}

func savingsRouter(userID uint) (*gin.Engine, *SavingsHandler) {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{Server: config.ServerConfig{Mode: "debug"}}
	config.GlobalConfig = cfg

	h := NewSavingsHandler(cfg)
	router := gin.New()
	router.Use(setUserIDMiddleware(userID))
	router.GET("/savings/pot", h.GetPot)
	router.POST("/savings/topups", h.CreateTopUp)
	router.DELETE("/savings/topups/:id", h.DeleteTopUp)
	router.POST("/savings/goals", h.CreateGoal)
	router.GET("/savings/goals", h.ListGoals)
	router.POST("/savings/goals/:id/allocate", h.Allocate)
	router.POST("/savings/goals/:id/archive", h.Archive)
	router.DELETE("/savings/goals/:id", h.DeleteGoal)
	return router, h
}

func doJSON(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	if body != "" {
		r.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)
	return w
}

func TestSavingsHandler_TopUpExceedsLimit(t *testing.T) {
	cleanup := setupSQLiteDB(t)
	defer cleanup()
	defer func() { config.GlobalConfig = nil }()

	userID := seedSavingsUser(t)
	router, _ := savingsRouter(userID)

	w := doJSON(router, "POST", "/savings/topups", `{"amount":2000000}`)
	assert.Equal(t, 400, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	// pesan menyebutkan batas maksimumnya
	assert.Contains(t, resp["message"], "maksimum")
	assert.Contains(t, resp["message"], "Rp 1.000.000")
}

func TestSavingsHandler_TopUpAndPot(t *testing.T) {
	cleanup := setupSQLiteDB(t)
	defer cleanup()
	defer func() { config.GlobalConfig = nil }()

	userID := seedSavingsUser(t)
	router, _ := savingsRouter(userID)

	w := doJSON(router, "POST", "/savings/topups", `{"amount":400000,"note":"sisa gaji"}`)
	assert.Equal(t, 200, w.Code)

	w = doJSON(router, "GET", "/savings/pot", "")
	assert.Equal(t, 200, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, float64(400_000), data["available"])
	assert.Equal(t, float64(400_000), data["total_manual"])
	// setoran mengurangi sisa pemasukan bulan berjalan
	assert.Equal(t, float64(600_000), data["current_month_available"])
}

func TestSavingsHandler_GoalFlow(t *testing.T) {
	cleanup := setupSQLiteDB(t)
	defer cleanup()
	defer func() { config.GlobalConfig = nil }()

	userID := seedSavingsUser(t)
	router, _ := savingsRouter(userID)

	// isi saldo tabungan dulu lewat setoran manual
	w := doJSON(router, "POST", "/savings/topups", `{"amount":500000}`)
	require.Equal(t, 200, w.Code)

	// buat goal dan alokasikan sampai tercapai
	w = doJSON(router, "POST", "/savings/goals", `{"name":"Sepatu","target_amount":300000}`)
	require.Equal(t, 200, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	goalID := uint(resp["data"].(map[string]interface{})["id"].(float64))

	w = doJSON(router, "POST", fmt.Sprintf("/savings/goals/%d/allocate", goalID), `{"amount":300000}`)
	require.Equal(t, 200, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, true, data["achieved_now"])

	// alokasi lanjutan ditolak, target sudah penuh
	w = doJSON(router, "POST", fmt.Sprintf("/savings/goals/%d/allocate", goalID), `{"amount":1}`)
	assert.Equal(t, 400, w.Code)

	// daftar goal menampilkan status tercapai
	w = doJSON(router, "GET", "/savings/goals", "")
	require.Equal(t, 200, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	active := resp["data"].(map[string]interface{})["active"].([]interface{})
	require.Len(t, active, 1)
	assert.Equal(t, true, active[0].(map[string]interface{})["achieved"])

	// hapus hanya boleh setelah diarsipkan
	w = doJSON(router, "DELETE", fmt.Sprintf("/savings/goals/%d", goalID), "")
	assert.Equal(t, 400, w.Code)

	w = doJSON(router, "POST", fmt.Sprintf("/savings/goals/%d/archive", goalID), "")
	require.Equal(t, 200, w.Code)
	w = doJSON(router, "DELETE", fmt.Sprintf("/savings/goals/%d", goalID), "")
	assert.Equal(t, 200, w.Code)

	// dana teralokasi ikut terpakai, saldo tidak bertambah kembali
	w = doJSON(router, "GET", "/savings/pot", "")
	require.Equal(t, 200, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data = resp["data"].(map[string]interface{})
	assert.Equal(t, float64(200_000), data["available"])
}

func TestTransactionHandler_TopUpEntryLocked(t *testing.T) {
	cleanup := setupSQLiteDB(t)
	defer cleanup()
	defer func() { config.GlobalConfig = nil }()

	userID := seedSavingsUser(t)
	router, _ := savingsRouter(userID)

	// setoran manual membuat entri jurnal "Tabungan" yang tertaut
	w := doJSON(router, "POST", "/savings/topups", `{"amount":400000}`)
	require.Equal(t, 200, w.Code)

	var topup models.SavingsTopUp
	require.NoError(t, database.DB.Where("user_id = ?", userID).First(&topup).Error)
	require.NotNil(t, topup.TransactionID)

	th := NewTransactionHandler()
	txRouter := gin.New()
	txRouter.Use(setUserIDMiddleware(userID))
	txRouter.PUT("/transactions/:id", th.Update)
	txRouter.DELETE("/transactions/:id", th.Delete)

	// entri tertaut tidak boleh diubah atau dihapus lewat jurnal, supaya
	// setorannya tidak lepas dari entri pengeluarannya
	w = doJSON(txRouter, "PUT", fmt.Sprintf("/transactions/%d", *topup.TransactionID), `{"notes":"x"}`)
	assert.Equal(t, 400, w.Code)
	w = doJSON(txRouter, "DELETE", fmt.Sprintf("/transactions/%d", *topup.TransactionID), "")
	assert.Equal(t, 400, w.Code)

	var entry models.Transaction
	require.NoError(t, database.DB.First(&entry, *topup.TransactionID).Error)

	// jalur yang benar tetap bekerja dan membereskan keduanya
	w = doJSON(router, "DELETE", fmt.Sprintf("/savings/topups/%d", topup.ID), "")
	assert.Equal(t, 200, w.Code)
	err := database.DB.First(&entry, *topup.TransactionID).Error
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestSavingsHandler_GoalNotFound(t *testing.T) {
	cleanup := setupSQLiteDB(t)
	defer cleanup()
	defer func() { config.GlobalConfig = nil }()

	userID := seedSavingsUser(t)
	router, _ := savingsRouter(userID)

	w := doJSON(router, "POST", "/savings/goals/999/allocate", `{"amount":100}`)
	assert.Equal(t, 404, w.Code)
}
