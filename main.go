package main

import (
	"flag"
	"log"
	"strings"

	"duitku/config"
	"duitku/database"
	"duitku/middleware"
	"duitku/router"
)

// @title DuitKu API
// @version 1.0
// @description API pencatat keuangan pribadi: jurnal pemasukan/pengeluaran, tabungan otomatis dari sisa pemasukan bulanan, setoran manual, dan goal tabungan
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

var (
	configFile  string
	port        string
	showVersion bool
)

func init() {
	flag.StringVar(&configFile, "config", "", "path file konfigurasi eksternal (opsional)")
	flag.StringVar(&configFile, "c", "", "path file konfigurasi eksternal (singkatan)")
	flag.StringVar(&port, "port", "", "port server, mis: 8080 atau :8080")
	flag.StringVar(&port, "p", "", "port server (singkatan)")
	flag.BoolVar(&showVersion, "version", false, "tampilkan versi")
	flag.BoolVar(&showVersion, "v", false, "tampilkan versi (singkatan)")
}

func main() {
	flag.Parse()

	if showVersion {
		log.Println("DuitKu v1.0.0")
		return
	}

	// konfigurasi bawaan tertanam + override file eksternal
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		log.Fatalf("gagal memuat konfigurasi: %v", err)
	}

	// argumen baris perintah menimpa port konfigurasi
	if port != "" {
		if !strings.HasPrefix(port, ":") {
			port = ":" + port
		}
		cfg.Server.Port = port
		log.Printf("port dari baris perintah: %s", port)
	}

	config.PrintConfig()

	if err := database.Init(cfg); err != nil {
		log.Fatalf("gagal inisialisasi database: %v", err)
	}

	middleware.InitJWT(cfg)

	r := router.SetupRouter(cfg)

	log.Printf("==========================================")
	log.Printf("  💰 DuitKu siap melayani")
	log.Printf("==========================================")
	log.Printf("  Halaman depan: http://localhost%s/", cfg.Server.Port)
	log.Printf("  Swagger:       http://localhost%s/swagger/index.html", cfg.Server.Port)
	log.Printf("  API:           http://localhost%s/api/v1/", cfg.Server.Port)
	log.Printf("==========================================")

	if err := r.Run(cfg.Server.Port); err != nil {
		log.Fatalf("server gagal berjalan: %v", err)
	}
}
