package goGuard

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/MrEthical07/goGuard/csrf"
	"github.com/MrEthical07/goGuard/permission"
	"github.com/MrEthical07/goGuard/rules"
	"github.com/MrEthical07/goGuard/token"
	"github.com/MrEthical07/goGuard/upload"
	"gopkg.in/yaml.v3"
)

// Config defines a public type used by goGuard APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable.
type Config struct {
	Token      TokenConfig      `yaml:"token"`
	Upload     UploadConfig     `yaml:"upload"`
	Roles      RoleConfig       `yaml:"roles"`
	Validation ValidationConfig `yaml:"validation"`
	Sanitize   SanitizeConfig   `yaml:"sanitize"`
	Audit      AuditConfig      `yaml:"audit"`
	Metrics    MetricsConfig    `yaml:"metrics"`
	Signals    SignalConfig     `yaml:"signals"`
	CSRF       CSRFConfig       `yaml:"csrf"`
}

/*
====================================
TOKEN CONFIG
====================================
*/

// TokenConfig controls the default size of generated tokens.
type TokenConfig struct {
	ByteLength int `yaml:"byte_length"`
}

/*
====================================
UPLOAD CONFIG
====================================
*/

// UploadConfig is the upload acceptance policy.
type UploadConfig struct {
	MaxSizeBytes int64    `yaml:"max_size_bytes"`
	AllowedTypes []string `yaml:"allowed_types"`
}

/*
====================================
ROLE CONFIG
====================================
*/

// RoleConfig maps role names to levels. Leave Levels empty to use the built-in
// viewer < editor < manager < admin order. A non-empty Levels replaces that
// order entirely, so list the built-in names too when extending it.
type RoleConfig struct {
	Levels map[string]int `yaml:"levels"`
}

/*
====================================
VALIDATION CONFIG
====================================
*/

// ValidationConfig controls Monitor.ValidateInput.
//
// Contexts maps caller-facing context names ("general", "search") to rule ids.
// Inputs with an unmapped context use DefaultRule.
type ValidationConfig struct {
	NormalizeUnicode bool              `yaml:"normalize_unicode"`
	DefaultRule      string            `yaml:"default_rule"`
	Contexts         map[string]string `yaml:"contexts"`
}

// SanitizeConfig selects the HTML escaping behavior of Monitor.SanitizeHTML.
// EscapeAmpersand switches to sanitize.HTMLStrict.
type SanitizeConfig struct {
	EscapeAmpersand bool `yaml:"escape_ampersand"`
}

// AuditConfig controls the asynchronous observation dispatcher. The dispatcher
// never blocks; events beyond BufferSize are dropped and counted.
type AuditConfig struct {
	Enabled    bool `yaml:"enabled"`
	BufferSize int  `yaml:"buffer_size"`
}

// MetricsConfig defines a public type used by goGuard APIs.
type MetricsConfig struct {
	Enabled                 bool `yaml:"enabled"`
	EnableLatencyHistograms bool `yaml:"enable_latency_histograms"`
}

// SignalConfig controls Redis-backed rejection counting. Threshold 0 counts
// without ever flagging a burst.
type SignalConfig struct {
	Enabled   bool          `yaml:"enabled"`
	Prefix    string        `yaml:"prefix"`
	Window    time.Duration `yaml:"window"`
	Threshold int           `yaml:"threshold"`
}

// CSRFConfig holds the non-secret settings for anti-forgery tokens. The
// signing key is passed to Monitor.NewCSRFIssuer and never read from files.
type CSRFConfig struct {
	TTL        time.Duration `yaml:"ttl"`
	Issuer     string        `yaml:"issuer"`
	NonceBytes int           `yaml:"nonce_bytes"`
}

/*
====================================
DEFAULT CONFIG
====================================
*/

// DefaultConfig returns the configuration used when none is supplied.
func DefaultConfig() Config {
	return Config{
		Token: TokenConfig{
			ByteLength: token.DefaultByteLength,
		},
		Upload: UploadConfig{
			MaxSizeBytes: upload.DefaultMaxSize,
			AllowedTypes: upload.DefaultTypes(),
		},
		Validation: ValidationConfig{
			NormalizeUnicode: false,
			DefaultRule:      rules.SearchInput,
			Contexts: map[string]string{
				"general":  rules.SearchInput,
				"search":   rules.SearchInput,
				"filename": rules.FileName,
				"email":    rules.Email,
				"url":      rules.URL,
				"phone":    rules.Phone,
				"password": rules.StrongPassword,
			},
		},
		Sanitize: SanitizeConfig{
			EscapeAmpersand: false,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 1024,
		},
		Metrics: MetricsConfig{
			Enabled:                 true,
			EnableLatencyHistograms: false,
		},
		Signals: SignalConfig{
			Enabled:   false,
			Prefix:    "gg:sig",
			Window:    time.Minute,
			Threshold: 50,
		},
		CSRF: CSRFConfig{
			TTL:        time.Hour,
			Issuer:     "goguard",
			NonceBytes: csrf.DefaultNonceBytes,
		},
	}
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.Upload.AllowedTypes = append([]string(nil), cfg.Upload.AllowedTypes...)
	out.Roles.Levels = cloneMap(cfg.Roles.Levels)
	out.Validation.Contexts = cloneMap(cfg.Validation.Contexts)
	return out
}

func cloneMap[V any](m map[string]V) map[string]V {
	if m == nil {
		return nil
	}
	out := make(map[string]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

/*
====================================
VALIDATION
====================================
*/

// Validate checks the configuration for values the Monitor cannot serve.
// Rule ids referenced by Validation are checked against the registry at Build.
func (c *Config) Validate() error {
	if c.Token.ByteLength <= 0 || c.Token.ByteLength > token.MaxByteLength {
		return fmt.Errorf("%w: Token ByteLength must be in 1..%d", ErrInvalidConfig, token.MaxByteLength)
	}

	if _, err := upload.NewPolicy(c.Upload.MaxSizeBytes, c.Upload.AllowedTypes); err != nil {
		return fmt.Errorf("%w: Upload: %v", ErrInvalidConfig, err)
	}

	if len(c.Roles.Levels) > 0 {
		if _, err := permission.HierarchyFromLevels(c.Roles.Levels); err != nil {
			return fmt.Errorf("%w: Roles: %v", ErrInvalidConfig, err)
		}
	}

	if strings.TrimSpace(c.Validation.DefaultRule) == "" {
		return fmt.Errorf("%w: Validation DefaultRule must be set", ErrInvalidConfig)
	}

	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return fmt.Errorf("%w: Audit BufferSize must be > 0", ErrInvalidConfig)
	}

	if c.Metrics.EnableLatencyHistograms && !c.Metrics.Enabled {
		return fmt.Errorf("%w: Metrics EnableLatencyHistograms requires Metrics Enabled", ErrInvalidConfig)
	}

	if c.Signals.Enabled {
		if !c.Audit.Enabled {
			return fmt.Errorf("%w: Signals require Audit Enabled", ErrInvalidConfig)
		}
		if c.Signals.Window <= 0 {
			return fmt.Errorf("%w: Signals Window must be > 0", ErrInvalidConfig)
		}
		if c.Signals.Threshold < 0 {
			return fmt.Errorf("%w: Signals Threshold must be >= 0", ErrInvalidConfig)
		}
		if strings.TrimSpace(c.Signals.Prefix) == "" {
			return fmt.Errorf("%w: Signals Prefix must be set", ErrInvalidConfig)
		}
	}

	if c.CSRF.TTL <= 0 {
		return fmt.Errorf("%w: CSRF TTL must be > 0", ErrInvalidConfig)
	}
	if c.CSRF.NonceBytes < 8 || c.CSRF.NonceBytes > 64 {
		return fmt.Errorf("%w: CSRF NonceBytes must be in 8..64", ErrInvalidConfig)
	}

	return nil
}

/*
====================================
LOADING
====================================
*/

// LoadConfig reads a YAML file and overlays it on DefaultConfig.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes YAML over DefaultConfig. Unknown keys are rejected so a
// misspelled option fails loudly instead of silently keeping a default.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
