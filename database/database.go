package database

import (
	"fmt"
	"log"

	"duitku/config"
	"duitku/models"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Init menginisialisasi koneksi database
func Init(cfg *config.Config) error {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=%s&parseTime=True&loc=Local",
		cfg.Database.Username,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.DBName,
		cfg.Database.Charset,
	)

	var err error
	DB, err = gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})
	if err != nil {
		return fmt.Errorf("gagal terhubung ke database: %w", err)
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}

	// parameter pool koneksi
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	if err := AutoMigrate(DB); err != nil {
		return err
	}

	log.Println("database berhasil diinisialisasi")
	return nil
}

// AutoMigrate memigrasi seluruh tabel aplikasi
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Transaction{},
		&models.AutoTransfer{},
		&models.SavingsTopUp{},
		&models.SavingsGoal{},
		&models.GoalAllocation{},
		&models.SavingsConsumed{},
	)
}

// GetDB mengambil koneksi database
func GetDB() *gorm.DB {
	return DB
}
