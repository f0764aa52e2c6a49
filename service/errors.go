package service

import (
	"errors"
	"fmt"
)

// Error validasi tabungan. Semua terdeteksi sebelum ada tulisan ke
// database; selain daftar ini berarti gangguan penyimpanan (transien).
var (
	ErrInvalidAmount      = errors.New("nominal harus lebih dari nol")
	ErrInvalidName        = errors.New("nama goal tidak boleh kosong")
	ErrInvalidTarget      = errors.New("target harus lebih dari nol")
	ErrDuplicateName      = errors.New("nama goal sudah dipakai")
	ErrGoalNotFound       = errors.New("goal tidak ditemukan")
	ErrTopUpNotFound      = errors.New("setoran tidak ditemukan")
	ErrGoalArchived       = errors.New("goal sudah diarsipkan")
	ErrGoalNotArchived    = errors.New("goal belum diarsipkan")
	ErrExceedsAllowed     = errors.New("nominal melebihi batas alokasi")
	ErrExceedsAllocated   = errors.New("nominal melebihi dana teralokasi")
	ErrInsufficientIncome = errors.New("sisa pemasukan bulan ini tidak cukup")
	ErrWrongMonth         = errors.New("setoran di luar bulan berjalan tidak bisa dihapus")
)

// LimitError membungkus error batas dengan nilai maksimum yang dihitung,
// supaya lapisan penyajian bisa menampilkan batasnya ke pengguna.
type LimitError struct {
	Err   error
	Limit int64
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("%s (maksimum Rp %d)", e.Err.Error(), e.Limit)
}

func (e *LimitError) Unwrap() error {
	return e.Err
}

func limitErr(err error, limit int64) error {
	return &LimitError{Err: err, Limit: limit}
}
