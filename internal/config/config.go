package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig
	DB      DBConfig
	JWT     JWTConfig
	S3      S3Config
	Log     LogConfig
	CORS    CORSConfig
	Auth    AuthConfig
	Email   EmailConfig
	Upload  UploadConfig
	Renewal RenewalConfig
	Recycle RecycleConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	Environment     string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`

	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// JWTConfig holds JWT signing and expiry settings.
type JWTConfig struct {
	Secret             string        `mapstructure:"secret"`
	AccessTokenExpiry  time.Duration `mapstructure:"access_expiry"`
	RefreshTokenExpiry time.Duration `mapstructure:"refresh_expiry"`
	Issuer             string        `mapstructure:"issuer"`
}

// S3Config holds AWS S3 settings.
type S3Config struct {
	Region             string `mapstructure:"region"`
	Bucket             string `mapstructure:"bucket"`
	Endpoint           string `mapstructure:"endpoint"`
	AccessKey          string `mapstructure:"access_key"`
	SecretKey          string `mapstructure:"secret_key"`
	MaxFileSizeMB      int64  `mapstructure:"max_file_size_mb"`
	MaxMultipartSizeMB int64  `mapstructure:"max_multipart_size_mb"`
	PartSizeMB         int64  `mapstructure:"part_size_mb"`
	PresignExpiry      int64  `mapstructure:"presign_expiry"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// AuthConfig holds login second-factor settings.
type AuthConfig struct {
	OTPEnabled     bool          `mapstructure:"otp_enabled"`
	OTPTTL         time.Duration `mapstructure:"otp_ttl"`
	OTPMaxAttempts int           `mapstructure:"otp_max_attempts"`
	OTPMaxResends  int           `mapstructure:"otp_max_resends"`
}

// EmailConfig holds email delivery settings.
type EmailConfig struct {
	Provider    string `mapstructure:"provider"`
	Region      string `mapstructure:"region"`
	FromAddress string `mapstructure:"from_address"`
	FromName    string `mapstructure:"from_name"`
}

// UploadConfig holds multipart upload worker settings.
type UploadConfig struct {
	SessionTTL    time.Duration `mapstructure:"session_ttl"`
	PollInterval  time.Duration `mapstructure:"poll_interval"`
	Concurrency   int           `mapstructure:"concurrency"`
	MaxAttempts   int           `mapstructure:"max_attempts"`
	JobTimeout    time.Duration `mapstructure:"job_timeout"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

// RenewalConfig holds renewal scheduling settings.
type RenewalConfig struct {
	LeadDays int `mapstructure:"lead_days"`
}

// RecycleConfig holds recycle bin retention settings.
type RecycleConfig struct {
	Retention time.Duration `mapstructure:"retention"`
}

// Load reads configuration from environment variables with the REGTRACK_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("REGTRACK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.shutdown_timeout", "20s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "regtrack")
	v.SetDefault("db.password", "regtrack_secret")
	v.SetDefault("db.name", "regtrack_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)
	v.SetDefault("db.conn_max_lifetime", "30m")

	// JWT defaults
	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.access_expiry", "15m")
	v.SetDefault("jwt.refresh_expiry", "168h")
	v.SetDefault("jwt.issuer", "regtrack")

	// S3 defaults
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "regtrack-uploads")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.max_file_size_mb", 50)
	v.SetDefault("s3.max_multipart_size_mb", 5*1024)
	v.SetDefault("s3.part_size_mb", 10)
	v.SetDefault("s3.presign_expiry", 3600)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Auth defaults
	v.SetDefault("auth.otp_enabled", false)
	v.SetDefault("auth.otp_ttl", "10m")
	v.SetDefault("auth.otp_max_attempts", 5)
	v.SetDefault("auth.otp_max_resends", 3)

	// Email defaults
	v.SetDefault("email.provider", "noop")
	v.SetDefault("email.region", "us-east-1")
	v.SetDefault("email.from_address", "noreply@regtrack.local")
	v.SetDefault("email.from_name", "RegTrack")

	// Upload worker defaults
	v.SetDefault("upload.session_ttl", "24h")
	v.SetDefault("upload.poll_interval", "2s")
	v.SetDefault("upload.concurrency", 4)
	v.SetDefault("upload.max_attempts", 5)
	v.SetDefault("upload.job_timeout", "5m")
	v.SetDefault("upload.sweep_interval", "15m")

	v.SetDefault("renewal.lead_days", 180)
	v.SetDefault("recycle.retention", "720h")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":              "REGTRACK_SERVER_PORT",
		"server.read_timeout":      "REGTRACK_SERVER_READ_TIMEOUT",
		"server.write_timeout":     "REGTRACK_SERVER_WRITE_TIMEOUT",
		"server.shutdown_timeout":  "REGTRACK_SERVER_SHUTDOWN_TIMEOUT",
		"server.environment":       "REGTRACK_SERVER_ENVIRONMENT",
		"db.host":                  "REGTRACK_DB_HOST",
		"db.port":                  "REGTRACK_DB_PORT",
		"db.user":                  "REGTRACK_DB_USER",
		"db.password":              "REGTRACK_DB_PASSWORD",
		"db.name":                  "REGTRACK_DB_NAME",
		"db.sslmode":               "REGTRACK_DB_SSLMODE",
		"db.max_open":              "REGTRACK_DB_MAX_OPEN",
		"db.max_idle":              "REGTRACK_DB_MAX_IDLE",
		"db.conn_max_lifetime":     "REGTRACK_DB_CONN_MAX_LIFETIME",
		"jwt.secret":               "REGTRACK_JWT_SECRET",
		"jwt.access_expiry":        "REGTRACK_JWT_ACCESS_EXPIRY",
		"jwt.refresh_expiry":       "REGTRACK_JWT_REFRESH_EXPIRY",
		"jwt.issuer":               "REGTRACK_JWT_ISSUER",
		"s3.region":                "REGTRACK_S3_REGION",
		"s3.bucket":                "REGTRACK_S3_BUCKET",
		"s3.endpoint":              "REGTRACK_S3_ENDPOINT",
		"s3.access_key":            "REGTRACK_S3_ACCESS_KEY",
		"s3.secret_key":            "REGTRACK_S3_SECRET_KEY",
		"s3.max_file_size_mb":      "REGTRACK_S3_MAX_FILE_SIZE_MB",
		"s3.max_multipart_size_mb": "REGTRACK_S3_MAX_MULTIPART_SIZE_MB",
		"s3.part_size_mb":          "REGTRACK_S3_PART_SIZE_MB",
		"s3.presign_expiry":        "REGTRACK_S3_PRESIGN_EXPIRY",
		"log.level":                "REGTRACK_LOG_LEVEL",
		"log.format":               "REGTRACK_LOG_FORMAT",
		"cors.allowed_origins":     "REGTRACK_CORS_ALLOWED_ORIGINS",
		"auth.otp_enabled":         "REGTRACK_AUTH_OTP_ENABLED",
		"auth.otp_ttl":             "REGTRACK_AUTH_OTP_TTL",
		"auth.otp_max_attempts":    "REGTRACK_AUTH_OTP_MAX_ATTEMPTS",
		"auth.otp_max_resends":     "REGTRACK_AUTH_OTP_MAX_RESENDS",
		"email.provider":           "REGTRACK_EMAIL_PROVIDER",
		"email.region":             "REGTRACK_EMAIL_REGION",
		"email.from_address":       "REGTRACK_EMAIL_FROM_ADDRESS",
		"email.from_name":          "REGTRACK_EMAIL_FROM_NAME",
		"upload.session_ttl":       "REGTRACK_UPLOAD_SESSION_TTL",
		"upload.poll_interval":     "REGTRACK_UPLOAD_POLL_INTERVAL",
		"upload.concurrency":       "REGTRACK_UPLOAD_CONCURRENCY",
		"upload.max_attempts":      "REGTRACK_UPLOAD_MAX_ATTEMPTS",
		"upload.job_timeout":       "REGTRACK_UPLOAD_JOB_TIMEOUT",
		"upload.sweep_interval":    "REGTRACK_UPLOAD_SWEEP_INTERVAL",
		"renewal.lead_days":        "REGTRACK_RENEWAL_LEAD_DAYS",
		"recycle.retention":        "REGTRACK_RECYCLE_RETENTION",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Container platforms set PORT. Use it if REGTRACK_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("REGTRACK_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:            serverPort,
		ReadTimeout:     v.GetDuration("server.read_timeout"),
		WriteTimeout:    v.GetDuration("server.write_timeout"),
		ShutdownTimeout: v.GetDuration("server.shutdown_timeout"),
		Environment:     v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),

		ConnMaxLifetime: v.GetDuration("db.conn_max_lifetime"),
	}
	cfg.JWT = JWTConfig{
		Secret:             v.GetString("jwt.secret"),
		AccessTokenExpiry:  v.GetDuration("jwt.access_expiry"),
		RefreshTokenExpiry: v.GetDuration("jwt.refresh_expiry"),
		Issuer:             v.GetString("jwt.issuer"),
	}
	cfg.S3 = S3Config{
		Region:             v.GetString("s3.region"),
		Bucket:             v.GetString("s3.bucket"),
		Endpoint:           v.GetString("s3.endpoint"),
		AccessKey:          v.GetString("s3.access_key"),
		SecretKey:          v.GetString("s3.secret_key"),
		MaxFileSizeMB:      v.GetInt64("s3.max_file_size_mb"),
		MaxMultipartSizeMB: v.GetInt64("s3.max_multipart_size_mb"),
		PartSizeMB:         v.GetInt64("s3.part_size_mb"),
		PresignExpiry:      v.GetInt64("s3.presign_expiry"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: splitList(v.GetString("cors.allowed_origins")),
	}
	cfg.Auth = AuthConfig{
		OTPEnabled:     v.GetBool("auth.otp_enabled"),
		OTPTTL:         v.GetDuration("auth.otp_ttl"),
		OTPMaxAttempts: v.GetInt("auth.otp_max_attempts"),
		OTPMaxResends:  v.GetInt("auth.otp_max_resends"),
	}
	cfg.Email = EmailConfig{
		Provider:    v.GetString("email.provider"),
		Region:      v.GetString("email.region"),
		FromAddress: v.GetString("email.from_address"),
		FromName:    v.GetString("email.from_name"),
	}
	cfg.Upload = UploadConfig{
		SessionTTL:    v.GetDuration("upload.session_ttl"),
		PollInterval:  v.GetDuration("upload.poll_interval"),
		Concurrency:   v.GetInt("upload.concurrency"),
		MaxAttempts:   v.GetInt("upload.max_attempts"),
		JobTimeout:    v.GetDuration("upload.job_timeout"),
		SweepInterval: v.GetDuration("upload.sweep_interval"),
	}
	cfg.Renewal = RenewalConfig{
		LeadDays: v.GetInt("renewal.lead_days"),
	}
	cfg.Recycle = RecycleConfig{
		Retention: v.GetDuration("recycle.retention"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.S3.PartSizeMB < 5 {
		return fmt.Errorf("s3.part_size_mb must be at least 5, got %d", c.S3.PartSizeMB)
	}
	if c.Upload.Concurrency <= 0 {
		return fmt.Errorf("upload.concurrency must be positive, got %d", c.Upload.Concurrency)
	}
	if c.Upload.MaxAttempts <= 0 {
		return fmt.Errorf("upload.max_attempts must be positive, got %d", c.Upload.MaxAttempts)
	}
	if c.Upload.PollInterval <= 0 {
		return fmt.Errorf("upload.poll_interval must be positive, got %s", c.Upload.PollInterval)
	}
	if c.Upload.SweepInterval <= 0 {
		return fmt.Errorf("upload.sweep_interval must be positive, got %s", c.Upload.SweepInterval)
	}
	if c.Upload.JobTimeout <= 0 {
		return fmt.Errorf("upload.job_timeout must be positive, got %s", c.Upload.JobTimeout)
	}
	if c.Auth.OTPMaxAttempts <= 0 {
		return fmt.Errorf("auth.otp_max_attempts must be positive, got %d", c.Auth.OTPMaxAttempts)
	}
	if c.Auth.OTPMaxResends < 0 {
		return fmt.Errorf("auth.otp_max_resends must not be negative, got %d", c.Auth.OTPMaxResends)
	}
	if c.Renewal.LeadDays < 0 {
		return fmt.Errorf("renewal.lead_days must not be negative, got %d", c.Renewal.LeadDays)
	}
	return nil
}

// splitList parses a comma-separated value, dropping blanks.
func splitList(raw string) []string {
	var out []string
	for _, o := range strings.Split(raw, ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			out = append(out, o)
		}
	}
	return out
}
