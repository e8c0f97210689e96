// Package config provides application configuration management with support for environment variables, command-line flags, and .env files.
package config

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// File names inside the data directory.
const (
	DatabaseFileName = "pressroom.db"
	SearchIndexName  = "search.bleve"
)

// Config holds the application configuration.
type Config struct {
	App       AppConfig
	Logger    LoggerConfig
	Data      DataConfig
	Server    ServerConfig
	Site      SiteConfig
	Auth      AuthConfig
	Identity  IdentityConfig
	RateLimit RateLimitConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// IsProduction reports whether the app runs in production.
func (a AppConfig) IsProduction() bool {
	return a.Environment == "production"
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// DataConfig holds on-disk storage locations.
type DataConfig struct {
	Path string // database, search index and auth key live here
}

// DatabasePath returns the SQLite file path.
func (d DataConfig) DatabasePath() string {
	return filepath.Join(d.Path, DatabaseFileName)
}

// SearchPath returns the Bleve index directory.
func (d DataConfig) SearchPath() string {
	return filepath.Join(d.Path, SearchIndexName)
}

// ServerConfig holds server configuration.
type ServerConfig struct {
	Port               string        // Server port (default: 8080)
	ReadTimeout        time.Duration // HTTP read timeout (default: 15s)
	WriteTimeout       time.Duration // HTTP write timeout (default: 15s)
	IdleTimeout        time.Duration // HTTP idle timeout (default: 60s)
	CORSAllowedOrigins []string
}

// SiteConfig describes the public site feeds and sitemaps point at.
type SiteConfig struct {
	Name         string
	Description  string
	URL          string // no trailing slash
	PostsPerPage int
	FeedSize     int
}

// AuthConfig holds access token configuration.
type AuthConfig struct {
	// PASETO v4 symmetric key, hex encoded. Set by auth.LoadOrGenerateKey in main.
	AccessTokenKey      string
	AccessTokenDuration time.Duration
}

// IdentityConfig configures verification of identity provider tokens.
type IdentityConfig struct {
	JWTSecret       string
	Issuer          string
	Audience        string
	BootstrapAdmins []string // external ids promoted to admin on first sign-in
}

// RateLimitConfig holds per-IP request allowances per minute.
type RateLimitConfig struct {
	Public int
	Auth   int
}

// LoadConfig loads configuration from multiple sources with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func LoadConfig() (*Config, error) {
	return Load(os.Args[1:])
}

// Load is LoadConfig with explicit command-line arguments.
func Load(args []string) (*Config, error) {
	fs := flag.NewFlagSet("pressroom", flag.ContinueOnError)

	env := fs.String("env", "", "Environment (development, staging, production)")
	logLevel := fs.String("log-level", "", "Log level (debug, info, warn, error)")
	dataPath := fs.String("data-path", "", "Directory for the database, search index and keys")

	// Server flags
	serverPort := fs.String("port", "", "Server port (default: 8080)")
	readTimeout := fs.String("read-timeout", "", "HTTP read timeout (default: 15s)")
	writeTimeout := fs.String("write-timeout", "", "HTTP write timeout (default: 15s)")
	idleTimeout := fs.String("idle-timeout", "", "HTTP idle timeout (default: 60s)")
	corsOrigins := fs.String("cors-allowed-origins", "", "Comma separated list of allowed CORS origins")

	// Site flags
	siteName := fs.String("site-name", "", "Site name used in feeds")
	siteDescription := fs.String("site-description", "", "Site description used in feeds")
	siteURL := fs.String("site-url", "", "Public site URL (default: http://localhost:3000)")
	postsPerPage := fs.String("posts-per-page", "", "Default page size (default: 12)")
	feedSize := fs.String("feed-size", "", "Number of posts in the RSS feed (default: 20)")

	// Auth flags
	accessTokenDuration := fs.String("access-token-duration", "", "Access token lifetime (e.g., 15m)")
	identitySecret := fs.String("identity-jwt-secret", "", "Shared secret for identity provider tokens")
	identityIssuer := fs.String("identity-issuer", "", "Expected identity token issuer")
	identityAudience := fs.String("identity-audience", "", "Expected identity token audience")
	bootstrapAdmins := fs.String("bootstrap-admin-ids", "", "Comma separated external ids granted admin on first sign-in")

	rateLimitPublic := fs.String("rate-limit-public", "", "Public requests per minute per IP (default: 120)")
	rateLimitAuth := fs.String("rate-limit-auth", "", "Session exchanges per minute per IP (default: 10)")

	envFile := fs.String("env-file", ".env", "Path to .env file")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	// Load .env file if it exists (silently ignore if not found).
	_ = loadEnvFile(*envFile)

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(*logLevel, "LOG_LEVEL", "info"),
		},
		Data: DataConfig{
			Path: getConfigValue(*dataPath, "DATA_PATH", ""),
		},
		Server: ServerConfig{
			Port:               getConfigValue(*serverPort, "SERVER_PORT", "8080"),
			CORSAllowedOrigins: splitList(getConfigValue(*corsOrigins, "CORS_ALLOWED_ORIGINS", "")),
		},
		Site: SiteConfig{
			Name:         getConfigValue(*siteName, "SITE_NAME", "Blog Platform"),
			Description:  getConfigValue(*siteDescription, "SITE_DESCRIPTION", "A modern blog platform"),
			URL:          strings.TrimRight(getConfigValue(*siteURL, "SITE_URL", "http://localhost:3000"), "/"),
			PostsPerPage: getIntConfigValue(*postsPerPage, "POSTS_PER_PAGE", 12),
			FeedSize:     getIntConfigValue(*feedSize, "FEED_SIZE", 20),
		},
		Identity: IdentityConfig{
			JWTSecret:       getConfigValue(*identitySecret, "IDENTITY_JWT_SECRET", ""),
			Issuer:          getConfigValue(*identityIssuer, "IDENTITY_ISSUER", ""),
			Audience:        getConfigValue(*identityAudience, "IDENTITY_AUDIENCE", ""),
			BootstrapAdmins: splitList(getConfigValue(*bootstrapAdmins, "BOOTSTRAP_ADMIN_IDS", "")),
		},
		RateLimit: RateLimitConfig{
			Public: getIntConfigValue(*rateLimitPublic, "RATE_LIMIT_PUBLIC", 120),
			Auth:   getIntConfigValue(*rateLimitAuth, "RATE_LIMIT_AUTH", 10),
		},
	}

	var err error
	if cfg.Auth.AccessTokenDuration, err = parseDuration(*accessTokenDuration, "ACCESS_TOKEN_DURATION", "15m", "access token duration"); err != nil {
		return nil, err
	}
	if cfg.Server.ReadTimeout, err = parseDuration(*readTimeout, "SERVER_READ_TIMEOUT", "15s", "read timeout"); err != nil {
		return nil, err
	}
	if cfg.Server.WriteTimeout, err = parseDuration(*writeTimeout, "SERVER_WRITE_TIMEOUT", "15s", "write timeout"); err != nil {
		return nil, err
	}
	if cfg.Server.IdleTimeout, err = parseDuration(*idleTimeout, "SERVER_IDLE_TIMEOUT", "60s", "idle timeout"); err != nil {
		return nil, err
	}

	if err := cfg.expandDataPath(); err != nil {
		return nil, fmt.Errorf("invalid data path: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	if c.App.Environment == "" {
		return errors.New("ENV is required")
	}

	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %s (must be development, staging, or production)", c.App.Environment)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Data.Path == "" {
		return errors.New("data path cannot be empty after expansion")
	}

	if c.Identity.JWTSecret == "" {
		return errors.New("IDENTITY_JWT_SECRET is required")
	}

	if !strings.HasPrefix(c.Site.URL, "http://") && !strings.HasPrefix(c.Site.URL, "https://") {
		return fmt.Errorf("invalid site url: %q (must start with http:// or https://)", c.Site.URL)
	}

	if c.Site.PostsPerPage < 1 || c.Site.PostsPerPage > 100 {
		return fmt.Errorf("invalid posts per page: %d (must be between 1 and 100)", c.Site.PostsPerPage)
	}

	if c.Site.FeedSize < 1 {
		return fmt.Errorf("invalid feed size: %d", c.Site.FeedSize)
	}

	if c.RateLimit.Public < 1 || c.RateLimit.Auth < 1 {
		return errors.New("rate limits must be positive")
	}

	return nil
}

// expandPath expands ~ and makes the path absolute.
// If path is empty and defaultPath is provided, uses the default.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		return defaultPath, nil
	}

	// Expand tilde.
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	// Make absolute if needed.
	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

// expandDataPath expands ~ and makes the path absolute.
// Defaults to ~/Pressroom/data.
func (c *Config) expandDataPath() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}
	defaultPath := filepath.Join(homeDir, "Pressroom", "data")

	expanded, err := expandPath(c.Data.Path, defaultPath)
	if err != nil {
		return err
	}
	c.Data.Path = expanded
	return nil
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	if flagValue != "" {
		return flagValue
	}

	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}

	return defaultValue
}

// getIntConfigValue returns an int from flag, env var, or default.
func getIntConfigValue(flagValue, envKey string, defaultValue int) int {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	result, err := strconv.Atoi(strings.TrimSpace(strValue))
	if err != nil {
		return defaultValue
	}
	return result
}

func parseDuration(flagValue, envKey, defaultValue, what string) (time.Duration, error) {
	s := getConfigValue(flagValue, envKey, defaultValue)
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", what, s, err)
	}
	return d, nil
}

// splitList splits a comma separated value, dropping blanks.
func splitList(s string) []string {
	var out []string
	for part := range strings.SplitSeq(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// loadEnvFile loads environment variables from a .env file.
// Format: KEY=value (one per line, # for comments).
func loadEnvFile(path string) error {
	file, err := os.Open(path) //#nosec G304 -- Config file path from user input is expected
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return fmt.Errorf("invalid format at line %d: %s", lineNum, line)
		}

		key = strings.TrimSpace(key)
		value = strings.Trim(strings.TrimSpace(value), `"'`)

		// Env vars take precedence over the .env file.
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("failed to set env var %s: %w", key, err)
			}
		}
	}

	return scanner.Err()
}
