// Package config provides configuration loading and validation for the service.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Defaults
const (
	DefaultPort               = 3000
	DefaultDocumentPath       = "uploads/Bhutan-Penal-Code.pdf"
	DefaultReferenceURL       = "https://en.wikipedia.org/wiki/Law_of_Bhutan"
	DefaultFetchTimeout       = 10 * time.Second
	DefaultUpstreamTimeout    = 60 * time.Second
	DefaultModel              = "gemini-2.0-flash"
	DefaultLogLevel           = "info"
	DefaultJWTExpirationHours = 24
	DefaultBcryptCost         = 12
)

// Config is the service configuration. Values are layered: defaults, then the
// optional YAML file, then environment variables. CLI flags are applied last
// by the caller.
type Config struct {
	APIKey          string        `yaml:"api_key"`
	Port            int           `yaml:"port" validate:"min=1,max=65535"`
	DocumentPath    string        `yaml:"document_path" validate:"required"`
	ReferenceURL    string        `yaml:"reference_url" validate:"required,url"`
	FetchTimeout    time.Duration `yaml:"fetch_timeout" validate:"gt=0"`
	UpstreamTimeout time.Duration `yaml:"upstream_timeout" validate:"gt=0"`
	Model           string        `yaml:"model" validate:"required"`
	UseBrowser      bool          `yaml:"use_browser"`
	LogLevel        string        `yaml:"log_level" validate:"oneof=debug info warn error"`
	DatabaseURL     string        `yaml:"database_url"`

	// Operator auth for /reload; disabled while JWTSecret is empty.
	JWTSecret            string `yaml:"jwt_secret"`
	JWTExpirationHours   int    `yaml:"jwt_expiration_hours" validate:"min=1"`
	OperatorPasswordHash string `yaml:"operator_password_hash"`
	BcryptCost           int    `yaml:"bcrypt_cost" validate:"min=10,max=14"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Port:               DefaultPort,
		DocumentPath:       DefaultDocumentPath,
		ReferenceURL:       DefaultReferenceURL,
		FetchTimeout:       DefaultFetchTimeout,
		UpstreamTimeout:    DefaultUpstreamTimeout,
		Model:              DefaultModel,
		LogLevel:           DefaultLogLevel,
		JWTExpirationHours: DefaultJWTExpirationHours,
		BcryptCost:         DefaultBcryptCost,
	}
}

// Load builds a Config from defaults, the YAML file at path (skipped when
// path is empty) and the environment, then validates it.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config YAML: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v := firstEnv("API_KEY", "GEMINI_API_KEY"); v != "" {
		c.APIKey = v
	}
	setString(&c.DocumentPath, "DOCUMENT_PATH")
	setString(&c.ReferenceURL, "REFERENCE_URL")
	setString(&c.Model, "GEMINI_MODEL")
	setString(&c.LogLevel, "LOG_LEVEL")
	setString(&c.DatabaseURL, "DATABASE_URL")
	setString(&c.JWTSecret, "JWT_SECRET")
	setString(&c.OperatorPasswordHash, "OPERATOR_PASSWORD_HASH")

	var errs []error
	errs = append(errs,
		setInt(&c.Port, "PORT"),
		setInt(&c.JWTExpirationHours, "JWT_EXPIRATION_HOURS"),
		setInt(&c.BcryptCost, "BCRYPT_COST"),
		setDuration(&c.FetchTimeout, "FETCH_TIMEOUT"),
		setDuration(&c.UpstreamTimeout, "UPSTREAM_TIMEOUT"),
		setBool(&c.UseBrowser, "USE_BROWSER"),
	)
	return errors.Join(errs...)
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	c.LogLevel = strings.ToLower(c.LogLevel)

	err := validator.New().Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("config error: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed '%s' (value: %v)", fe.Field(), fe.Tag(), fe.Value()))
	}
	return fmt.Errorf("config error: %s", strings.Join(msgs, "; "))
}

// Addr returns the listen address for Port.
func (c *Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}

// OperatorAuthEnabled reports whether /reload requires an operator token.
func (c *Config) OperatorAuthEnabled() bool {
	return c.JWTSecret != ""
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %v", key, err)
	}
	*dst = n
	return nil
}

func setDuration(dst *time.Duration, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %v", key, err)
	}
	*dst = d
	return nil
}

func setBool(dst *bool, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %v", key, err)
	}
	*dst = b
	return nil
}
