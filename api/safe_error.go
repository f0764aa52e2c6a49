package api

import (
	"duitku/config"
)

// SafeErrorMessage menyembunyikan detail galat internal di mode produksi
func SafeErrorMessage(err error, fallback string) string {
	return config.SafeErrorMessage(err, fallback)
}
