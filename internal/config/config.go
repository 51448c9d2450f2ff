package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"
)

type Config struct {
	AppPort string
	AppEnv  string

	MySQLHost string
	MySQLPort string
	MySQLDB   string
	MySQLUser string
	MySQLPass string

	RedisAddr string
	RedisDB   int

	IdempTTLSecs int

	StorageURL    string
	StorageKey    string
	StorageBucket string

	OCRServiceURL string
	OCRLang       string
	OCRTimeout    time.Duration

	VerifierURL           string
	VerifierAPIKey        string
	VerifierWebhookSecret string
	VerifierTimeout       time.Duration

	BureauURL     string
	BureauTimeout time.Duration
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getenvSecs(k string, d time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return time.Duration(n) * time.Second
		}
	}
	return d
}

func Load() *Config {
	c := &Config{
		AppPort: getenv("APP_PORT", "8080"),
		AppEnv:  getenv("APP_ENV", "development"),

		MySQLHost: getenv("MYSQL_HOST", "mysql"),
		MySQLPort: getenv("MYSQL_PORT", "3306"),
		MySQLDB:   getenv("MYSQL_DB", "crediflow"),
		MySQLUser: getenv("MYSQL_USER", "crediflow"),
		MySQLPass: getenv("MYSQL_PASS", "crediflow"),

		RedisAddr:    getenv("REDIS_ADDR", "redis:6379"),
		IdempTTLSecs: 300,

		StorageURL:    getenv("STORAGE_URL", ""),
		StorageKey:    getenv("STORAGE_KEY", ""),
		StorageBucket: getenv("STORAGE_BUCKET", "documentos"),

		OCRServiceURL: getenv("OCR_SERVICE_URL", ""),
		OCRLang:       getenv("OCR_LANG", "spa"),
		OCRTimeout:    getenvSecs("OCR_TIMEOUT_SECONDS", 30*time.Second),

		VerifierURL:           getenv("VERIFIER_URL", ""),
		VerifierAPIKey:        getenv("VERIFIER_API_KEY", ""),
		VerifierWebhookSecret: getenv("VERIFIER_WEBHOOK_SECRET", ""),
		VerifierTimeout:       getenvSecs("VERIFIER_TIMEOUT_SECONDS", 15*time.Second),

		BureauURL:     getenv("BUREAU_URL", ""),
		BureauTimeout: getenvSecs("BUREAU_TIMEOUT_SECONDS", 10*time.Second),
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.RedisDB = n
		}
	}
	if v := os.Getenv("IDEMPOTENCY_TTL_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.IdempTTLSecs = n
		}
	}
	return c
}

func (c *Config) Production() bool { return c.AppEnv == "production" }

func (c *Config) Validate() error {
	if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
		return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
	}
	if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
		return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
	}
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	if c.StorageURL == "" || c.StorageKey == "" {
		return errors.New("missing storage config (STORAGE_URL/STORAGE_KEY)")
	}
	if c.VerifierWebhookSecret == "" {
		return errors.New("missing VERIFIER_WEBHOOK_SECRET")
	}
	if c.Production() && c.VerifierURL == "" {
		return errors.New("missing VERIFIER_URL")
	}
	return nil
}

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// multiStatements=true is handy for migrations; parseTime needed for DATETIME
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?multiStatements=true&parseTime=true&charset=utf8mb4,utf8",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}
