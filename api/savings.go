package api

import (
	"errors"
	"log"
	"strconv"

	"duitku/config"
	"duitku/database"
	"duitku/middleware"
	"duitku/models"
	"duitku/service"

	"github.com/gin-gonic/gin"
)

// SavingsHandler penangan tabungan: saldo, setoran manual, dan goal
type SavingsHandler struct {
	svc          *service.SavingsService
	emailService *service.EmailService
}

// NewSavingsHandler membuat penangan tabungan
func NewSavingsHandler(cfg *config.Config) *SavingsHandler {
	return &SavingsHandler{
		svc:          service.NewSavingsService(database.DB),
		emailService: service.NewEmailService(&cfg.Email),
	}
}

// renderSavingsError memetakan galat mesin tabungan ke respons HTTP.
// Galat yang membawa batas nominal ditampilkan lengkap dengan batasnya.
func renderSavingsError(c *gin.Context, err error) {
	var le *service.LimitError
	if errors.As(err, &le) {
		switch {
		case errors.Is(err, service.ErrInsufficientIncome):
			BadRequest(c, "setoran melebihi sisa pemasukan bulan ini, maksimum "+service.FormatRupiah(le.Limit))
		case errors.Is(err, service.ErrExceedsAllowed):
			BadRequest(c, "alokasi melebihi batas, maksimum "+service.FormatRupiah(le.Limit))
		case errors.Is(err, service.ErrExceedsAllocated):
			BadRequest(c, "pelepasan melebihi dana teralokasi, maksimum "+service.FormatRupiah(le.Limit))
		default:
			BadRequest(c, err.Error())
		}
		return
	}

	switch {
	case errors.Is(err, service.ErrInvalidAmount):
		BadRequest(c, "nominal harus lebih dari nol")
	case errors.Is(err, service.ErrInvalidName):
		BadRequest(c, "nama goal tidak boleh kosong")
	case errors.Is(err, service.ErrInvalidTarget):
		BadRequest(c, "target goal harus lebih dari nol")
	case errors.Is(err, service.ErrDuplicateName):
		BadRequest(c, "nama goal sudah dipakai")
	case errors.Is(err, service.ErrGoalNotFound):
		NotFound(c, "goal tidak ditemukan")
	case errors.Is(err, service.ErrTopUpNotFound):
		NotFound(c, "setoran tidak ditemukan")
	case errors.Is(err, service.ErrGoalArchived):
		BadRequest(c, "goal sudah diarsipkan")
	case errors.Is(err, service.ErrGoalNotArchived):
		BadRequest(c, "goal belum diarsipkan")
	case errors.Is(err, service.ErrWrongMonth):
		BadRequest(c, "hanya setoran bulan berjalan yang bisa dibatalkan")
	default:
		InternalError(c, SafeErrorMessage(err, "operasi tabungan gagal"))
	}
}

// GetPot ringkasan saldo tabungan
// @Summary Saldo tabungan
// @Description Saldo tabungan tersedia beserta rinciannya. Transfer otomatis bulan-bulan yang sudah lewat dihitung dulu sebelum saldo dikembalikan.
// @Tags Tabungan
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response "Berhasil"
// @Failure 401 {object} Response "Belum login"
// @Router /api/v1/savings/pot [get]
func (h *SavingsHandler) GetPot(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	pot, err := h.svc.PotSummary(userID)
	if err != nil {
		renderSavingsError(c, err)
		return
	}

	monthAvail, err := h.svc.CurrentMonthAvailable(userID)
	if err != nil {
		renderSavingsError(c, err)
		return
	}

	Success(c, gin.H{
		"available":               pot.Available,
		"total_auto":              pot.TotalAuto,
		"total_manual":            pot.TotalManual,
		"total_allocated":         pot.TotalAllocated,
		"current_month_available": monthAvail,
	})
}

// ListAutoTransfers riwayat transfer otomatis
// @Summary Riwayat transfer otomatis
// @Description Transfer otomatis bulanan (sisa pemasukan tiap bulan yang sudah lewat), terbaru dulu
// @Tags Tabungan
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param months query int false "Jumlah bulan" default(12)
// @Success 200 {object} Response{data=[]models.AutoTransfer} "Berhasil"
// @Failure 401 {object} Response "Belum login"
// @Router /api/v1/savings/auto-transfers [get]
func (h *SavingsHandler) ListAutoTransfers(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	months := 12
	if m := c.Query("months"); m != "" {
		parsed, err := strconv.Atoi(m)
		if err != nil || parsed <= 0 || parsed > 120 {
			BadRequest(c, "parameter months tidak valid")
			return
		}
		months = parsed
	}

	rows, err := h.svc.RecentAutoTransfers(userID, months)
	if err != nil {
		renderSavingsError(c, err)
		return
	}

	Success(c, rows)
}

// TopUpRequest permintaan setoran manual
type TopUpRequest struct {
	Amount int64  `json:"amount" binding:"required" example:"500000"`
	Note   string `json:"note" example:"sisa THR"`
}

// CreateTopUp setoran manual ke tabungan
// @Summary Setor manual ke tabungan
// @Description Menyetor sebagian sisa pemasukan bulan berjalan ke tabungan. Setoran otomatis tercatat sebagai pengeluaran kategori Tabungan di jurnal.
// @Tags Tabungan
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body TopUpRequest true "Nominal setoran"
// @Success 200 {object} Response{data=models.SavingsTopUp} "Berhasil"
// @Failure 400 {object} Response "Nominal tidak valid atau melebihi sisa pemasukan"
// @Failure 401 {object} Response "Belum login"
// @Router /api/v1/savings/topups [post]
func (h *SavingsHandler) CreateTopUp(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req TopUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "parameter tidak valid"))
		return
	}

	topup, err := h.svc.TopUp(userID, req.Amount, req.Note)
	if err != nil {
		renderSavingsError(c, err)
		return
	}

	SuccessWithMessage(c, "setoran berhasil", topup)
}

// ListTopUps setoran manual bulan berjalan
// @Summary Setoran manual bulan ini
// @Tags Tabungan
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]models.SavingsTopUp} "Berhasil"
// @Failure 401 {object} Response "Belum login"
// @Router /api/v1/savings/topups [get]
func (h *SavingsHandler) ListTopUps(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	rows, err := h.svc.CurrentMonthTopUps(userID)
	if err != nil {
		renderSavingsError(c, err)
		return
	}

	Success(c, rows)
}

// DeleteTopUp membatalkan setoran manual bulan berjalan
// @Summary Batalkan setoran manual
// @Description Hanya setoran bulan berjalan yang bisa dibatalkan. Entri jurnalnya ikut dihapus.
// @Tags Tabungan
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID setoran"
// @Success 200 {object} Response "Berhasil"
// @Failure 400 {object} Response "Setoran bukan bulan berjalan"
// @Failure 401 {object} Response "Belum login"
// @Failure 404 {object} Response "Tidak ditemukan"
// @Router /api/v1/savings/topups/{id} [delete]
func (h *SavingsHandler) DeleteTopUp(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "ID tidak valid")
		return
	}

	if err := h.svc.DeleteTopUp(userID, uint(id)); err != nil {
		renderSavingsError(c, err)
		return
	}

	SuccessWithMessage(c, "setoran dibatalkan", nil)
}

// CreateGoalRequest permintaan goal baru
type CreateGoalRequest struct {
	Name         string `json:"name" binding:"required,max=100" example:"Dana Darurat"`
	TargetAmount int64  `json:"target_amount" binding:"required" example:"10000000"`
}

// CreateGoal membuat goal tabungan
// @Summary Buat goal tabungan
// @Tags Goal
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateGoalRequest true "Data goal"
// @Success 200 {object} Response{data=models.SavingsGoal} "Berhasil"
// @Failure 400 {object} Response "Parameter tidak valid atau nama sudah dipakai"
// @Failure 401 {object} Response "Belum login"
// @Router /api/v1/savings/goals [post]
func (h *SavingsHandler) CreateGoal(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req CreateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "parameter tidak valid"))
		return
	}

	goal, err := h.svc.CreateGoal(userID, req.Name, req.TargetAmount)
	if err != nil {
		renderSavingsError(c, err)
		return
	}

	SuccessWithMessage(c, "goal dibuat", goal)
}

// ListGoals daftar goal aktif dan terarsip
// @Summary Daftar goal
// @Description Goal aktif dan terarsip beserta dana teralokasi, sisa target, dan status tercapai
// @Tags Goal
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response "Berhasil"
// @Failure 401 {object} Response "Belum login"
// @Router /api/v1/savings/goals [get]
func (h *SavingsHandler) ListGoals(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	active, archived, err := h.svc.ListGoals(userID)
	if err != nil {
		renderSavingsError(c, err)
		return
	}

	Success(c, gin.H{
		"active":   active,
		"archived": archived,
	})
}

// AllocateRequest permintaan alokasi/pelepasan dana goal
type AllocateRequest struct {
	Amount int64  `json:"amount" binding:"required" example:"250000"`
	Note   string `json:"note" example:"nabung rutin"`
}

// Allocate mengalokasikan dana tabungan ke goal
// @Summary Alokasikan dana ke goal
// @Description Memindahkan dana dari saldo tabungan tersedia ke goal. Batasnya yang terkecil antara saldo tersedia dan sisa target.
// @Tags Goal
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID goal"
// @Param request body AllocateRequest true "Nominal alokasi"
// @Success 200 {object} Response "Berhasil"
// @Failure 400 {object} Response "Melebihi batas atau goal terarsip"
// @Failure 401 {object} Response "Belum login"
// @Failure 404 {object} Response "Goal tidak ditemukan"
// @Router /api/v1/savings/goals/{id}/allocate [post]
func (h *SavingsHandler) Allocate(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "ID tidak valid")
		return
	}

	var req AllocateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "parameter tidak valid"))
		return
	}

	res, err := h.svc.Allocate(userID, uint(id), req.Amount, req.Note)
	if err != nil {
		renderSavingsError(c, err)
		return
	}

	// notifikasi email saat goal pertama kali tercapai, di luar transaksi
	// dan tidak menggagalkan respons
	if res.AchievedNow {
		h.notifyGoalAchieved(userID, uint(id))
	}

	SuccessWithMessage(c, "alokasi berhasil", gin.H{
		"allocation":   res.Allocation,
		"achieved_now": res.AchievedNow,
	})
}

func (h *SavingsHandler) notifyGoalAchieved(userID, goalID uint) {
	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil || user.Email == "" {
		return
	}
	var goal models.SavingsGoal
	if err := database.DB.First(&goal, goalID).Error; err != nil {
		return
	}
	go func() {
		if err := h.emailService.SendGoalAchievedEmail(user.Email, user.Username, goal.Name, goal.TargetAmount); err != nil {
			log.Printf("gagal mengirim email goal tercapai: %v", err)
		}
	}()
}

// Release melepas dana goal kembali ke saldo
// @Summary Lepas dana goal
// @Description Mengembalikan dana dari goal ke saldo tabungan tersedia. Goal terarsip pun boleh melepas dananya.
// @Tags Goal
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID goal"
// @Param request body AllocateRequest true "Nominal pelepasan"
// @Success 200 {object} Response{data=models.GoalAllocation} "Berhasil"
// @Failure 400 {object} Response "Melebihi dana teralokasi"
// @Failure 401 {object} Response "Belum login"
// @Failure 404 {object} Response "Goal tidak ditemukan"
// @Router /api/v1/savings/goals/{id}/release [post]
func (h *SavingsHandler) Release(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "ID tidak valid")
		return
	}

	var req AllocateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "parameter tidak valid"))
		return
	}

	row, err := h.svc.Release(userID, uint(id), req.Amount, req.Note)
	if err != nil {
		renderSavingsError(c, err)
		return
	}

	SuccessWithMessage(c, "dana dilepas", row)
}

// Archive mengarsipkan goal
// @Summary Arsipkan goal
// @Tags Goal
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID goal"
// @Success 200 {object} Response "Berhasil"
// @Failure 400 {object} Response "Goal sudah terarsip"
// @Failure 401 {object} Response "Belum login"
// @Failure 404 {object} Response "Goal tidak ditemukan"
// @Router /api/v1/savings/goals/{id}/archive [post]
func (h *SavingsHandler) Archive(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "ID tidak valid")
		return
	}

	if err := h.svc.ArchiveGoal(userID, uint(id)); err != nil {
		renderSavingsError(c, err)
		return
	}

	SuccessWithMessage(c, "goal diarsipkan", nil)
}

// Unarchive mengaktifkan kembali goal terarsip
// @Summary Aktifkan kembali goal
// @Tags Goal
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID goal"
// @Success 200 {object} Response "Berhasil"
// @Failure 400 {object} Response "Goal tidak terarsip"
// @Failure 401 {object} Response "Belum login"
// @Failure 404 {object} Response "Goal tidak ditemukan"
// @Router /api/v1/savings/goals/{id}/unarchive [post]
func (h *SavingsHandler) Unarchive(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "ID tidak valid")
		return
	}

	if err := h.svc.UnarchiveGoal(userID, uint(id)); err != nil {
		renderSavingsError(c, err)
		return
	}

	SuccessWithMessage(c, "goal diaktifkan kembali", nil)
}

// DeleteGoal menghapus goal terarsip
// @Summary Hapus goal
// @Description Hanya goal terarsip yang bisa dihapus. Dana yang masih teralokasi dicatat sebagai dana terpakai dan tidak kembali ke saldo.
// @Tags Goal
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID goal"
// @Success 200 {object} Response "Berhasil"
// @Failure 400 {object} Response "Goal belum diarsipkan"
// @Failure 401 {object} Response "Belum login"
// @Failure 404 {object} Response "Goal tidak ditemukan"
// @Router /api/v1/savings/goals/{id} [delete]
func (h *SavingsHandler) DeleteGoal(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "ID tidak valid")
		return
	}

	if err := h.svc.DeleteGoal(userID, uint(id)); err != nil {
		renderSavingsError(c, err)
		return
	}

	SuccessWithMessage(c, "goal dihapus", nil)
}
