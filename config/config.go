package config

import (
	"bytes"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config konfigurasi aplikasi
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Email    EmailConfig    `mapstructure:"email"`
}

// ServerConfig konfigurasi server
type ServerConfig struct {
	Port    string `mapstructure:"port"`
	Mode    string `mapstructure:"mode"`
	BaseURL string `mapstructure:"base_url"`
}

// DatabaseConfig konfigurasi database
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	Charset  string `mapstructure:"charset"`
}

// JWTConfig konfigurasi JWT
type JWTConfig struct {
	Secret      string        `mapstructure:"secret"`
	ExpireHours int           `mapstructure:"expire_hours"`
	ExpireTime  time.Duration `mapstructure:"-"`
}

// EmailConfig konfigurasi email
type EmailConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

var (
	// GlobalConfig instance konfigurasi global
	GlobalConfig *Config
)

// LoadConfig memuat konfigurasi.
// Prioritas: file konfigurasi eksternal > konfigurasi bawaan tertanam.
// configPath: path file konfigurasi eksternal (opsional)
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	// 1. muat dulu konfigurasi bawaan yang tertanam
	if err := v.ReadConfig(bytes.NewReader(DefaultConfigYAML)); err != nil {
		return nil, fmt.Errorf("gagal membaca konfigurasi bawaan: %w", err)
	}
	log.Println("konfigurasi bawaan dimuat")

	// 2. coba muat file konfigurasi eksternal (opsional, menimpa bawaan)
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.MergeInConfig(); err != nil {
			log.Printf("peringatan: tidak bisa membaca file konfigurasi %s: %v", configPath, err)
		} else {
			log.Printf("file konfigurasi eksternal digabung: %s", configPath)
		}
	} else {
		externalViper := viper.New()
		externalViper.SetConfigName("config")
		externalViper.SetConfigType("yaml")
		externalViper.AddConfigPath(".")
		externalViper.AddConfigPath("./config")
		externalViper.AddConfigPath("/etc/duitku")
		externalViper.AddConfigPath("$HOME/.duitku")

		if err := externalViper.ReadInConfig(); err == nil {
			if err := v.MergeConfigMap(externalViper.AllSettings()); err != nil {
				log.Printf("peringatan: gagal menggabung konfigurasi eksternal: %v", err)
			} else {
				log.Printf("file konfigurasi eksternal digabung: %s", externalViper.ConfigFileUsed())
			}
		}
	}

	// 3. dukung override lewat environment variable
	v.SetEnvPrefix("DUITKU")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("gagal mem-parsing konfigurasi: %w", err)
	}

	if cfg.JWT.ExpireHours <= 0 {
		cfg.JWT.ExpireHours = 24
	}
	cfg.JWT.ExpireTime = time.Duration(cfg.JWT.ExpireHours) * time.Hour

	GlobalConfig = &cfg

	return &cfg, nil
}

// MustLoadConfig memuat konfigurasi, panic jika gagal
func MustLoadConfig(configPath string) *Config {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		panic(fmt.Sprintf("gagal memuat konfigurasi: %v", err))
	}
	return cfg
}

// GetConfig mengambil konfigurasi global
func GetConfig() *Config {
	if GlobalConfig == nil {
		panic("konfigurasi belum diinisialisasi, panggil LoadConfig dulu")
	}
	return GlobalConfig
}

// PrintConfig mencetak konfigurasi aktif (tanpa informasi sensitif)
func PrintConfig() {
	if GlobalConfig == nil {
		return
	}
	log.Printf("konfigurasi aktif:")
	log.Printf("  server: %s (mode: %s)", GlobalConfig.Server.Port, GlobalConfig.Server.Mode)
	log.Printf("  database: %s@%s:%s/%s",
		GlobalConfig.Database.Username,
		GlobalConfig.Database.Host,
		GlobalConfig.Database.Port,
		GlobalConfig.Database.DBName)
	log.Printf("  layanan email: %v", GlobalConfig.Email.Enabled)
}

// SafeErrorMessage menyembunyikan detail error internal dari klien pada
// mode release; pada mode debug detail tetap ditampilkan.
func SafeErrorMessage(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	if GlobalConfig != nil && GlobalConfig.Server.Mode == "release" {
		return fallback
	}
	return err.Error()
}
