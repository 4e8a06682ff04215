package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config menampung seluruh konfigurasi runtime. Semua nilai dibaca dari
// environment dengan default yang aman untuk development.
type Config struct {
	Port         string
	GinMode      string
	DSN          string
	AllowOrigins []string
	Location     *time.Location
}

// Load membaca .env (kalau ada) lalu environment. RESTO_TIMEZONE
// menentukan hari lokal untuk nomor bill dan jendela analitik.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("config: .env tidak ditemukan, pakai environment: %v", err)
	}

	cfg := &Config{
		Port:    getEnv("PORT", "8080"),
		GinMode: getEnv("GIN_MODE", "debug"),
		DSN: getEnv("MYSQL_DSN",
			"root:password@tcp(127.0.0.1:3306)/resto_pos?charset=utf8mb4&parseTime=True&loc=Local"),
	}

	origins := getEnv("ALLOW_ORIGINS", "*")
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.AllowOrigins = append(cfg.AllowOrigins, o)
		}
	}

	tz := getEnv("RESTO_TIMEZONE", "Asia/Jakarta")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("config: timezone %q tidak dikenal, fallback ke Local: %v", tz, err)
		loc = time.Local
	}
	cfg.Location = loc

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
