package config

import (
	"os"
	"strconv"
)

type Config struct {
	// Server
	Port string

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Auth
	JWTSecret string

	// Bootstrap admin (created on first start if no admin exists)
	AdminUsername string
	AdminPassword string
	AdminEmail    string

	// Photo storage (S3-compatible)
	S3Endpoint  string // empty for AWS
	S3Region    string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string

	// Uploads
	MaxPhotoSizeMB int
}

func Load() *Config {
	maxPhoto, _ := strconv.Atoi(getEnv("MAX_PHOTO_SIZE_MB", "10"))
	return &Config{
		Port:           getEnv("PORT", "8090"),
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "5432"),
		DBUser:         getEnv("DB_USER", "postgres"),
		DBPassword:     getEnv("DB_PASSWORD", ""),
		DBName:         getEnv("DB_NAME", "rigcheck_db"),
		DBSSLMode:      getEnv("DB_SSLMODE", "disable"),
		JWTSecret:      getEnv("JWT_SECRET", ""),
		AdminUsername:  getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword:  getEnv("ADMIN_PASSWORD", ""),
		AdminEmail:     getEnv("ADMIN_EMAIL", "admin@localhost"),
		S3Endpoint:     getEnv("S3_ENDPOINT", ""),
		S3Region:       getEnv("S3_REGION", "eu-central-1"),
		S3Bucket:       getEnv("S3_BUCKET", "rigcheck-photos"),
		S3AccessKey:    getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey:    getEnv("S3_SECRET_KEY", ""),
		MaxPhotoSizeMB: maxPhoto,
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
