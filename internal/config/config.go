package config

import (
	"errors"
	"os"
	"strings"
)

// Config holds environment-driven configuration.
type Config struct {
	HTTP struct {
		Addr string // default :8080
	}
	MySQL struct {
		DSN string // e.g., user:pass@tcp(host:3306)/dbname?parseTime=true&multiStatements=true
	}
	S3 struct {
		Bucket string // attachment uploads fail softly when unset
		Region string // default us-east-1
	}
	Uploads struct {
		AllowedExts map[string]bool
	}
}

const defaultAllowedExts = "pdf,png,jpg,jpeg,gif,doc,docx,xls,xlsx,csv,txt"

// Load reads configuration from environment variables.
func Load() (Config, error) {
	var cfg Config

	cfg.MySQL.DSN = os.Getenv("MYSQL_DSN")
	if cfg.MySQL.DSN == "" {
		return cfg, errors.New("MYSQL_DSN is required")
	}

	cfg.HTTP.Addr = os.Getenv("HTTP_ADDR")
	if cfg.HTTP.Addr == "" {
		cfg.HTTP.Addr = ":8080"
	}

	cfg.S3.Bucket = os.Getenv("S3_BUCKET")
	cfg.S3.Region = os.Getenv("S3_REGION")
	if cfg.S3.Region == "" {
		cfg.S3.Region = "us-east-1"
	}

	exts := os.Getenv("UPLOAD_ALLOWED_EXTS")
	if exts == "" {
		exts = defaultAllowedExts
	}
	cfg.Uploads.AllowedExts = make(map[string]bool)
	for _, e := range strings.Split(exts, ",") {
		e = strings.ToLower(strings.TrimSpace(e))
		if e != "" {
			cfg.Uploads.AllowedExts[e] = true
		}
	}

	return cfg, nil
}
