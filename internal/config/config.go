package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the attendee sync backend.
type Config struct {
	Server       ServerConfig       `yaml:"server"`
	LegacyDB     LegacyDBConfig     `yaml:"legacy_db"`
	Store        StoreConfig        `yaml:"store"`
	Redis        RedisConfig        `yaml:"redis"`
	API          APIConfig          `yaml:"api"`
	Registration RegistrationConfig `yaml:"registration"`
	Migration    MigrationConfig    `yaml:"migration"`
	Mailer       MailerConfig       `yaml:"mailer"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port int    `yaml:"port"`
	Host string `yaml:"host"`
}

// GetHost returns the server host, honoring container and env overrides.
func (c ServerConfig) GetHost() string {
	if os.Getenv("ECS_CONTAINER_METADATA_URI") != "" || os.Getenv("AWS_EXECUTION_ENV") != "" {
		return "0.0.0.0"
	}
	if host := os.Getenv("SERVER_HOST"); host != "" {
		return host
	}
	return c.Host
}

// LegacyDBConfig holds the read-only legacy Postgres connection.
type LegacyDBConfig struct {
	URL string `yaml:"url"`
}

// StoreConfig holds the target document store (DynamoDB) plus the S3 bucket
// used for run-summary archival.
type StoreConfig struct {
	DynamoDBTable string `yaml:"dynamodb_table"`
	AWSRegion     string `yaml:"aws_region"`
	AWSProfile    string `yaml:"aws_profile"` // empty uses the default credential chain
	S3Bucket      string `yaml:"s3_bucket"`
}

// GetAWSProfile returns the AWS profile, with environment override.
func (c StoreConfig) GetAWSProfile() string {
	if envProfile := os.Getenv("AWS_PROFILE_OVERRIDE"); envProfile != "" {
		if envProfile == "none" || envProfile == "iam" {
			return ""
		}
		return envProfile
	}
	if os.Getenv("ECS_CONTAINER_METADATA_URI") != "" || os.Getenv("AWS_EXECUTION_ENV") != "" {
		return ""
	}
	return c.AWSProfile
}

// RedisConfig holds the Redis connection used by the API rate limiter and
// the migration run lock.
type RedisConfig struct {
	URL string `yaml:"url"`
}

// APIConfig holds the public creation-endpoint settings.
type APIConfig struct {
	// Tokens is the list of valid bearer/API-key tokens. Populated from the
	// comma-separated ATTENDEE_API_TOKENS environment variable.
	Tokens []string `yaml:"-"`

	SinglePerMinute int      `yaml:"single_per_minute"`
	BulkPerMinute   int      `yaml:"bulk_per_minute"`
	MaxBulkItems    int      `yaml:"max_bulk_items"`
	MaxBodyBytes    int64    `yaml:"max_body_bytes"`
	AllowedOrigins  []string `yaml:"allowed_origins"`
}

// RegistrationConfig holds settings for the via-endpoint migration path.
type RegistrationConfig struct {
	BaseURL        string `yaml:"base_url"`
	Token          string `yaml:"-"` // ATTENDEE_API_TOKEN env only
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Timeout returns the configured timeout as a duration.
func (c RegistrationConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// MigrationConfig holds the pipeline knobs. The delay values model respect
// for the registration API's rate limit and are correctness requirements,
// not performance tuning.
type MigrationConfig struct {
	PreferredPassTypeID string `yaml:"preferred_pass_type_id"`
	CreateBatchSize     int    `yaml:"create_batch_size"`
	DeleteBatchSize     int    `yaml:"delete_batch_size"`
	InterItemDelayMS    int    `yaml:"inter_item_delay_ms"`
	InterBatchDelayMS   int    `yaml:"inter_batch_delay_ms"`
	LockTTLMinutes      int    `yaml:"lock_ttl_minutes"`
}

// InterItemDelay returns the fixed delay between HTTP-path requests.
func (c MigrationConfig) InterItemDelay() time.Duration {
	return time.Duration(c.InterItemDelayMS) * time.Millisecond
}

// InterBatchDelay returns the fixed delay between batches.
func (c MigrationConfig) InterBatchDelay() time.Duration {
	return time.Duration(c.InterBatchDelayMS) * time.Millisecond
}

// LockTTL returns the run-lock TTL.
func (c MigrationConfig) LockTTL() time.Duration {
	return time.Duration(c.LockTTLMinutes) * time.Minute
}

// MailerConfig holds the operator summary-email settings.
type MailerConfig struct {
	Enabled    bool     `yaml:"enabled"`
	FromEmail  string   `yaml:"-"` // FROM_EMAIL env only
	Recipients []string `yaml:"recipients"`
}

// Load reads and parses the configuration file, applying defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (cfg *Config) applyDefaults() {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Store.AWSRegion == "" {
		cfg.Store.AWSRegion = "ap-south-1"
	}
	if cfg.API.SinglePerMinute == 0 {
		cfg.API.SinglePerMinute = 500
	}
	if cfg.API.BulkPerMinute == 0 {
		cfg.API.BulkPerMinute = 5
	}
	if cfg.API.MaxBulkItems == 0 {
		cfg.API.MaxBulkItems = 1000
	}
	if cfg.API.MaxBodyBytes == 0 {
		cfg.API.MaxBodyBytes = 10 << 20 // 10 MiB
	}
	if cfg.Registration.TimeoutSeconds == 0 {
		cfg.Registration.TimeoutSeconds = 10
	}
	if cfg.Migration.CreateBatchSize == 0 {
		cfg.Migration.CreateBatchSize = 50
	}
	if cfg.Migration.DeleteBatchSize == 0 {
		cfg.Migration.DeleteBatchSize = 100
	}
	if cfg.Migration.InterItemDelayMS == 0 {
		cfg.Migration.InterItemDelayMS = 300
	}
	if cfg.Migration.InterBatchDelayMS == 0 {
		cfg.Migration.InterBatchDelayMS = 5000
	}
	if cfg.Migration.LockTTLMinutes == 0 {
		cfg.Migration.LockTTLMinutes = 30
	}
}

// LoadFromEnv loads configuration with environment variable overrides.
// A .env file (if present) is loaded first, so secrets can live in .env
// locally and in real environment variables in deployment.
func LoadFromEnv(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg, err := Load(path)
	if err != nil {
		// A missing config file is tolerated: every secret can come from
		// the environment alone.
		if !os.IsNotExist(err) {
			return nil, err
		}
		cfg = &Config{}
		cfg.applyDefaults()
	}

	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		cfg.LegacyDB.URL = dbURL
	}
	if table := os.Getenv("ATTENDEE_TABLE"); table != "" {
		cfg.Store.DynamoDBTable = table
	}
	if region := os.Getenv("AWS_REGION"); region != "" {
		cfg.Store.AWSRegion = region
	}
	if bucket := os.Getenv("SUMMARY_S3_BUCKET"); bucket != "" {
		cfg.Store.S3Bucket = bucket
	}
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		cfg.Redis.URL = redisURL
	}
	if tokens := os.Getenv("ATTENDEE_API_TOKENS"); tokens != "" {
		for _, t := range strings.Split(tokens, ",") {
			if t = strings.TrimSpace(t); t != "" {
				cfg.API.Tokens = append(cfg.API.Tokens, t)
			}
		}
	}
	if base := os.Getenv("REGISTRATION_API_URL"); base != "" {
		cfg.Registration.BaseURL = base
	}
	if tok := os.Getenv("ATTENDEE_API_TOKEN"); tok != "" {
		cfg.Registration.Token = tok
	}
	if from := os.Getenv("FROM_EMAIL"); from != "" {
		cfg.Mailer.FromEmail = from
	}
	if pref := os.Getenv("PREFERRED_PASS_TYPE_ID"); pref != "" {
		cfg.Migration.PreferredPassTypeID = pref
	}

	return cfg, nil
}

// RequireLegacyDB fails fast when the legacy database secret is absent.
func (cfg *Config) RequireLegacyDB() error {
	if cfg.LegacyDB.URL == "" {
		return fmt.Errorf("DATABASE_URL is required (legacy Postgres connection string)")
	}
	return nil
}

// RequireStore fails fast when the target store is not configured.
func (cfg *Config) RequireStore() error {
	if cfg.Store.DynamoDBTable == "" {
		return fmt.Errorf("ATTENDEE_TABLE is required (target DynamoDB table name)")
	}
	return nil
}

// RequireAPITokens fails fast when no valid API tokens are configured.
func (cfg *Config) RequireAPITokens() error {
	if len(cfg.API.Tokens) == 0 {
		return fmt.Errorf("ATTENDEE_API_TOKENS is required (comma-separated bearer tokens)")
	}
	return nil
}

// RequireRegistrationAPI fails fast when the via-endpoint path is not
// configured.
func (cfg *Config) RequireRegistrationAPI() error {
	if cfg.Registration.BaseURL == "" {
		return fmt.Errorf("REGISTRATION_API_URL is required for the via-endpoint path")
	}
	if cfg.Registration.Token == "" {
		return fmt.Errorf("ATTENDEE_API_TOKEN is required for the via-endpoint path")
	}
	return nil
}

// RequireMailer fails fast when the summary mailer is enabled but unusable.
func (cfg *Config) RequireMailer() error {
	if !cfg.Mailer.Enabled {
		return nil
	}
	if cfg.Mailer.FromEmail == "" {
		return fmt.Errorf("FROM_EMAIL is required when the summary mailer is enabled")
	}
	if len(cfg.Mailer.Recipients) == 0 {
		return fmt.Errorf("mailer.recipients must list at least one operator address")
	}
	return nil
}
