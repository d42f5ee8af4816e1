package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultEnvFile         = ".env"
	defaultPort            = "8080"
	defaultReadTimeout     = 15 * time.Second
	defaultWriteTimeout    = 30 * time.Second
	defaultIdleTimeout     = 120 * time.Second
	defaultUpstreamURL     = "https://www.freetogame.com/api/games"
	defaultUpstreamTimeout = 20 * time.Second
	defaultUpstreamRetries = 3
	defaultUserAgent       = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	defaultLocalDataPath   = "data/games.json"
	defaultSnapshotTTL     = 24 * time.Hour
	defaultSearchDebounce  = 500 * time.Millisecond
	defaultSMTPPort        = 587
	defaultChatSessionTTL  = 30 * time.Minute
)

// Config captures all runtime configuration organised by concern.
type Config struct {
	Server   ServerConfig
	Upstream UpstreamConfig
	Catalog  CatalogConfig
	Mail     MailConfig
	Chat     ChatConfig
}

// ServerConfig configures HTTP server parameters.
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// UpstreamConfig describes the third-party games API reached through the proxy.
type UpstreamConfig struct {
	GamesAPIURL string
	UserAgent   string
	Timeout     time.Duration
	MaxRetries  int
}

// CatalogConfig controls catalog data loading and refresh behaviour.
type CatalogConfig struct {
	LocalDataPath  string
	SnapshotTTL    time.Duration
	SearchDebounce time.Duration
}

// MailConfig carries SMTP delivery settings for the form endpoints.
type MailConfig struct {
	SMTPHost string
	SMTPPort int
	Username string
	Password string
	From     string
	AdminTo  string
}

// ChatConfig controls the scripted chat widget backend.
type ChatConfig struct {
	SessionTTL time.Duration
}

// ValidationError is returned when required configuration fields are missing or invalid.
type ValidationError struct {
	fields []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed: missing or invalid fields [%s]", strings.Join(e.fields, ", "))
}

// Fields returns a copy of the missing/invalid field list.
func (e *ValidationError) Fields() []string {
	out := make([]string, len(e.fields))
	copy(out, e.fields)
	return out
}

// Option customises Load behaviour.
type Option func(*loaderOptions)

type loaderOptions struct {
	envFile      string
	envMap       map[string]string
	useSystemEnv bool
}

// WithEnvFile overrides the .env file path used for local overrides.
func WithEnvFile(path string) Option {
	return func(o *loaderOptions) {
		o.envFile = path
	}
}

// WithEnvMap injects an explicit key/value map for environment lookups. Values in the map
// take precedence over system environment variables.
func WithEnvMap(values map[string]string) Option {
	return func(o *loaderOptions) {
		o.envMap = values
	}
}

// WithoutSystemEnv disables reading from os.Getenv, relying only on provided maps and .env files.
func WithoutSystemEnv() Option {
	return func(o *loaderOptions) {
		o.useSystemEnv = false
	}
}

// Load assembles the application configuration by combining defaults, .env overrides,
// and environment variables.
func Load(opts ...Option) (Config, error) {
	options := loaderOptions{
		envFile:      defaultEnvFile,
		useSystemEnv: true,
	}

	for _, opt := range opts {
		opt(&options)
	}

	dotEnvValues, err := loadDotEnv(options.envFile)
	if err != nil {
		return Config{}, err
	}

	lookup := func(key string) (string, bool) {
		if options.envMap != nil {
			if value, ok := options.envMap[key]; ok {
				return value, true
			}
		}
		if options.useSystemEnv {
			if value, ok := os.LookupEnv(key); ok {
				return value, true
			}
		}
		if dotEnvValues != nil {
			if value, ok := dotEnvValues[key]; ok {
				return value, true
			}
		}
		return "", false
	}

	cfg := Config{
		Server: ServerConfig{
			Port:         stringWithDefault(lookup, "SITE_SERVER_PORT", defaultPort),
			ReadTimeout:  durationWithDefault(lookup, "SITE_SERVER_READ_TIMEOUT", defaultReadTimeout),
			WriteTimeout: durationWithDefault(lookup, "SITE_SERVER_WRITE_TIMEOUT", defaultWriteTimeout),
			IdleTimeout:  durationWithDefault(lookup, "SITE_SERVER_IDLE_TIMEOUT", defaultIdleTimeout),
		},
		Upstream: UpstreamConfig{
			GamesAPIURL: stringWithDefault(lookup, "SITE_UPSTREAM_GAMES_URL", defaultUpstreamURL),
			UserAgent:   stringWithDefault(lookup, "SITE_UPSTREAM_USER_AGENT", defaultUserAgent),
			Timeout:     durationWithDefault(lookup, "SITE_UPSTREAM_TIMEOUT", defaultUpstreamTimeout),
			MaxRetries:  intWithDefault(lookup, "SITE_UPSTREAM_MAX_RETRIES", defaultUpstreamRetries),
		},
		Catalog: CatalogConfig{
			LocalDataPath:  stringWithDefault(lookup, "SITE_CATALOG_LOCAL_DATA", defaultLocalDataPath),
			SnapshotTTL:    durationWithDefault(lookup, "SITE_CATALOG_SNAPSHOT_TTL", defaultSnapshotTTL),
			SearchDebounce: durationWithDefault(lookup, "SITE_CATALOG_SEARCH_DEBOUNCE", defaultSearchDebounce),
		},
		Mail: MailConfig{
			SMTPHost: stringWithDefault(lookup, "SITE_MAIL_SMTP_HOST", ""),
			SMTPPort: intWithDefault(lookup, "SITE_MAIL_SMTP_PORT", defaultSMTPPort),
			Username: stringWithDefault(lookup, "SITE_MAIL_USERNAME", ""),
			Password: stringWithDefault(lookup, "SITE_MAIL_PASSWORD", ""),
			From:     stringWithDefault(lookup, "SITE_MAIL_FROM", ""),
			AdminTo:  stringWithDefault(lookup, "SITE_MAIL_ADMIN_TO", ""),
		},
		Chat: ChatConfig{
			SessionTTL: durationWithDefault(lookup, "SITE_CHAT_SESSION_TTL", defaultChatSessionTTL),
		},
	}

	if err := validate(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func validate(cfg Config) error {
	var invalid []string

	if strings.TrimSpace(cfg.Server.Port) == "" {
		invalid = append(invalid, "Server.Port")
	}
	if strings.TrimSpace(cfg.Upstream.GamesAPIURL) == "" {
		invalid = append(invalid, "Upstream.GamesAPIURL")
	}
	if cfg.Upstream.Timeout <= 0 {
		invalid = append(invalid, "Upstream.Timeout")
	}
	if cfg.Upstream.MaxRetries < 0 {
		invalid = append(invalid, "Upstream.MaxRetries")
	}
	if strings.TrimSpace(cfg.Catalog.LocalDataPath) == "" {
		invalid = append(invalid, "Catalog.LocalDataPath")
	}
	if cfg.Catalog.SnapshotTTL <= 0 {
		invalid = append(invalid, "Catalog.SnapshotTTL")
	}
	if cfg.Catalog.SearchDebounce < 0 {
		invalid = append(invalid, "Catalog.SearchDebounce")
	}
	if cfg.Mail.SMTPPort <= 0 || cfg.Mail.SMTPPort > 65535 {
		invalid = append(invalid, "Mail.SMTPPort")
	}
	if cfg.Chat.SessionTTL <= 0 {
		invalid = append(invalid, "Chat.SessionTTL")
	}

	if len(invalid) > 0 {
		return &ValidationError{fields: invalid}
	}
	return nil
}

// MailEnabled reports whether enough SMTP settings are present to send email.
func (c MailConfig) MailEnabled() bool {
	return strings.TrimSpace(c.SMTPHost) != "" &&
		strings.TrimSpace(c.From) != "" &&
		strings.TrimSpace(c.AdminTo) != ""
}

func stringWithDefault(lookup func(string) (string, bool), key, fallback string) string {
	if value, ok := lookup(key); ok {
		trimmed := strings.TrimSpace(value)
		if trimmed != "" {
			return trimmed
		}
	}
	return fallback
}

func durationWithDefault(lookup func(string) (string, bool), key string, fallback time.Duration) time.Duration {
	if value, ok := lookup(key); ok {
		trimmed := strings.TrimSpace(value)
		if trimmed != "" {
			if parsed, err := time.ParseDuration(trimmed); err == nil {
				return parsed
			}
		}
	}
	return fallback
}

func intWithDefault(lookup func(string) (string, bool), key string, fallback int) int {
	if value, ok := lookup(key); ok {
		trimmed := strings.TrimSpace(value)
		if trimmed != "" {
			if parsed, err := strconv.Atoi(trimmed); err == nil {
				return parsed
			}
		}
	}
	return fallback
}

func loadDotEnv(path string) (map[string]string, error) {
	if strings.TrimSpace(path) == "" {
		return nil, nil
	}

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("config: reading env file %s: %w", path, err)
	}
	defer func() {
		_ = file.Close()
	}()

	values := make(map[string]string)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		if key == "" {
			continue
		}
		value := strings.TrimSpace(parts[1])
		value = strings.Trim(value, `"'`)
		values[key] = value
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("config: scanning env file %s: %w", path, err)
	}

	return values, nil
}
