package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config represents the application configuration
type Config struct {
	// API contains API server configuration
	API APIConfig
	// Database contains database configuration
	Database DatabaseConfig
	// Email contains email service configuration
	Email EmailConfig
	// StepUp contains step-up verification settings
	StepUp StepUpConfig
	// Limits contains per-class rate limit settings
	Limits LimitsConfig
	// Cleanup contains background sweep settings
	Cleanup CleanupConfig

	// Rate Limiting Configuration for the HTTP edge (per client IP)
	RateLimit struct {
		Requests int // Number of requests allowed per window
		Window   int // Time window in seconds
		Burst    int // Maximum burst size
	}
}

// APIConfig contains API server settings
type APIConfig struct {
	// Port is the server port to listen on
	Port string
}

// DatabaseConfig contains database connection settings
type DatabaseConfig struct {
	// Host is the database server hostname
	Host string
	// Port is the database server port
	Port int
	// User is the database username
	User string
	// Password is the database password
	Password string
	// DBName is the database name
	DBName string
	// SSLMode is the SSL mode for the database connection
	SSLMode string
	// MigrationsPath is the path to database migrations
	MigrationsPath string
}

// EmailConfig contains email service settings
type EmailConfig struct {
	// SMTPHost is the SMTP server hostname
	SMTPHost string
	// SMTPPort is the SMTP server port
	SMTPPort int
	// SMTPUsername is the SMTP authentication username
	SMTPUsername string
	// SMTPPassword is the SMTP authentication password
	SMTPPassword string
	// FromAddress is the email address used as sender
	FromAddress string
	// CodeTTLMinutes is rendered in code emails so the copy matches the
	// configured challenge TTL
	CodeTTLMinutes int
}

// StepUpConfig contains challenge and operation token settings
type StepUpConfig struct {
	// CodeTTL is how long an issued challenge code stays valid
	CodeTTL time.Duration
	// TokenTTL is how long a minted operation token stays valid
	TokenTTL time.Duration
	// MaxAttempts bounds wrong-code submissions per challenge
	MaxAttempts int
	// PasswordHistoryDepth is how many prior hashes the reuse check covers
	PasswordHistoryDepth int
	// BcryptCost is the bcrypt work factor (0 selects the library default)
	BcryptCost int
}

// CleanupConfig contains background sweep settings
type CleanupConfig struct {
	// Schedule is the cron expression the sweeps run on
	Schedule string
	// AuditRetention is how long audit rows are kept
	AuditRetention time.Duration
}

// LimitClass holds the ceiling and window for one rate-limited action class
type LimitClass struct {
	Ceiling int
	Window  time.Duration
}

// LimitsConfig contains the per-class limits for the domain rate limiter
type LimitsConfig struct {
	ChallengeIssuance LimitClass
	CodeVerification  LimitClass
	PasswordUpdate    LimitClass
	AccountCreation   LimitClass
}

// LoadFromEnv retrieves configuration from environment variables
func (c *Config) LoadFromEnv() error {
	c.API = APIConfig{
		Port: getEnvOrDefault("API_PORT", "8080"),
	}
	c.Database = DatabaseConfig{
		Host:           getEnvOrDefault("DB_HOST", "localhost"),
		Port:           getEnvAsInt("DB_PORT", 5432),
		User:           getEnvOrDefault("DB_USER", "postgres"),
		Password:       getEnvOrDefault("DB_PASSWORD", "postgres"),
		DBName:         getEnvOrDefault("DB_NAME", "teamplan"),
		SSLMode:        getEnvOrDefault("DB_SSL_MODE", "disable"),
		MigrationsPath: "migrations",
	}
	c.StepUp = StepUpConfig{
		CodeTTL:              getEnvAsDuration("STEPUP_CODE_TTL", 10*time.Minute),
		TokenTTL:             getEnvAsDuration("STEPUP_TOKEN_TTL", 10*time.Minute),
		MaxAttempts:          getEnvAsInt("STEPUP_MAX_ATTEMPTS", 5),
		PasswordHistoryDepth: getEnvAsInt("PASSWORD_HISTORY_DEPTH", 5),
		BcryptCost:           getEnvAsInt("BCRYPT_COST", 0),
	}
	c.Email = EmailConfig{
		SMTPHost:       os.Getenv("SMTP_HOST"),
		SMTPPort:       getEnvAsInt("SMTP_PORT", 587),
		SMTPUsername:   os.Getenv("SMTP_USERNAME"),
		SMTPPassword:   os.Getenv("SMTP_PASSWORD"),
		FromAddress:    os.Getenv("SMTP_FROM"),
		CodeTTLMinutes: int(c.StepUp.CodeTTL / time.Minute),
	}

	// Per-class ceilings. The original product shipped these as fixed
	// constants; here each class is tunable per deployment.
	c.Limits = LimitsConfig{
		ChallengeIssuance: LimitClass{
			Ceiling: getEnvAsInt("LIMIT_CHALLENGE_CEILING", 5),
			Window:  getEnvAsDuration("LIMIT_CHALLENGE_WINDOW", 15*time.Minute),
		},
		CodeVerification: LimitClass{
			Ceiling: getEnvAsInt("LIMIT_VERIFY_CEILING", 10),
			Window:  getEnvAsDuration("LIMIT_VERIFY_WINDOW", 15*time.Minute),
		},
		PasswordUpdate: LimitClass{
			Ceiling: getEnvAsInt("LIMIT_PASSWORD_CEILING", 3),
			Window:  getEnvAsDuration("LIMIT_PASSWORD_WINDOW", 30*time.Minute),
		},
		AccountCreation: LimitClass{
			Ceiling: getEnvAsInt("LIMIT_SIGNUP_CEILING", 2),
			Window:  getEnvAsDuration("LIMIT_SIGNUP_WINDOW", time.Hour),
		},
	}

	c.Cleanup = CleanupConfig{
		Schedule:       getEnvOrDefault("CLEANUP_SCHEDULE", "*/5 * * * *"),
		AuditRetention: getEnvAsDuration("AUDIT_RETENTION", 90*24*time.Hour),
	}

	// Load edge rate limit configuration
	c.RateLimit.Requests = getEnvAsInt("RATE_LIMIT_REQUESTS", 1000)
	c.RateLimit.Window = getEnvAsInt("RATE_LIMIT_WINDOW", 60)
	c.RateLimit.Burst = getEnvAsInt("RATE_LIMIT_BURST", 50)

	// Validate required fields
	if c.StepUp.MaxAttempts < 1 {
		return fmt.Errorf("STEPUP_MAX_ATTEMPTS must be at least 1")
	}
	if c.StepUp.PasswordHistoryDepth < 1 {
		return fmt.Errorf("PASSWORD_HISTORY_DEPTH must be at least 1")
	}

	return nil
}

// getEnvAsInt retrieves an environment variable and converts it to an integer
func getEnvAsInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

// getEnvAsDuration retrieves an environment variable and parses it as a duration
func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}

func getEnvOrDefault(key string, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}
