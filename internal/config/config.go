// Package config provides application configuration management with support for environment variables, command-line flags, and .env files.
package config

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config holds the application configuration.
type Config struct {
	App      AppConfig
	Logger   LoggerConfig
	Fonts    FontsConfig
	Jobs     JobsConfig
	External ExternalConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// FontsConfig holds font discovery configuration.
type FontsConfig struct {
	// Dir is an extra directory scanned for .ttf/.otf files in addition
	// to the system font locations (default: none).
	Dir string
}

// JobsConfig holds render job configuration.
type JobsConfig struct {
	// Dir is the root directory containing job directories (default: ~/PreviewStudio/jobs)
	Dir string
	// Job runs a single job directory instead of scanning Dir (optional)
	Job string
	// Workers is the number of concurrent item renders per job (default: 0 = auto)
	Workers int
	// Watch keeps the process running and picks up new job directories (default: false)
	Watch bool
	// WatchDebounce is how long a new job directory must sit quiet before it runs (default: 500ms)
	WatchDebounce time.Duration
}

// ExternalConfig holds external renderer tool configuration.
type ExternalConfig struct {
	// Enabled turns on external tool invocation with split configs (default: false)
	Enabled bool
	// ConfigPath is the library config file to split per library type
	ConfigPath string
	// Binary overrides auto-detection of the external tool location (default: auto-detect)
	Binary string
	// Timeout is the per-invocation time limit (default: 10m)
	Timeout time.Duration
}

// LoadConfig loads configuration from multiple sources with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func LoadConfig() (*Config, error) {
	// Define command-line flags.
	env := flag.String("env", "", "Environment (development, staging, production)")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error)")
	fontsDir := flag.String("fonts-dir", "", "Extra directory scanned for font files")

	// Job flags
	jobsDir := flag.String("jobs-dir", "", "Root directory containing job directories")
	jobDir := flag.String("job", "", "Run a single job directory")
	workers := flag.String("workers", "", "Concurrent item renders per job (default: auto)")
	watch := flag.String("watch", "", "Watch the jobs root for new jobs (default: false)")
	watchDebounce := flag.String("watch-debounce", "", "Quiet period before a new job runs (default: 500ms)")

	envFile := flag.String("env-file", ".env", "Path to .env file")

	// External tool flags
	externalEnabled := flag.String("external-enabled", "", "Invoke the external renderer with split configs (default: false)")
	externalConfig := flag.String("external-config", "", "Library config file to split per library type")
	externalBinary := flag.String("external-binary", "", "Path to the external renderer binary (default: auto-detect)")
	externalTimeout := flag.String("external-timeout", "", "Per-invocation time limit (default: 10m)")

	// Parse flags but don't exit on error - we want to handle it gracefully.
	flag.Parse()

	// Load .env file if it exists (silently ignore if not found).
	_ = loadEnvFile(*envFile)

	// Build config with proper precedence.
	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(*logLevel, "LOG_LEVEL", "info"),
		},
		Fonts: FontsConfig{
			Dir: getConfigValue(*fontsDir, "FONTS_DIR", ""),
		},

		Jobs: JobsConfig{
			Dir:     getConfigValue(*jobsDir, "JOBS_DIR", ""),
			Job:     getConfigValue(*jobDir, "JOB_DIR", ""),
			Workers: getIntConfigValue(*workers, "RENDER_WORKERS", 0),
			Watch:   getBoolConfigValue(*watch, "WATCH_JOBS", false),
		},

		External: ExternalConfig{
			Enabled:    getBoolConfigValue(*externalEnabled, "EXTERNAL_ENABLED", false),
			ConfigPath: getConfigValue(*externalConfig, "EXTERNAL_CONFIG", ""),
			Binary:     getConfigValue(*externalBinary, "EXTERNAL_BINARY", ""),
		},
	}

	// Parse watch debounce.
	watchDebounceStr := getConfigValue(*watchDebounce, "WATCH_DEBOUNCE", "500ms")
	watchDebounceDuration, err := time.ParseDuration(watchDebounceStr)
	if err != nil {
		return nil, fmt.Errorf("invalid watch debounce %q: %w", watchDebounceStr, err)
	}
	cfg.Jobs.WatchDebounce = watchDebounceDuration

	// Parse external tool timeout.
	externalTimeoutStr := getConfigValue(*externalTimeout, "EXTERNAL_TIMEOUT", "10m")
	externalTimeoutDuration, err := time.ParseDuration(externalTimeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid external timeout %q: %w", externalTimeoutStr, err)
	}
	cfg.External.Timeout = externalTimeoutDuration

	// Expand and validate the jobs root.
	if err := cfg.expandJobsDir(); err != nil {
		return nil, fmt.Errorf("invalid jobs dir: %w", err)
	}

	// Expand the single job directory.
	if err := cfg.expandJobDir(); err != nil {
		return nil, fmt.Errorf("invalid job dir: %w", err)
	}

	// Expand the extra fonts directory.
	if err := cfg.expandFontsDir(); err != nil {
		return nil, fmt.Errorf("invalid fonts dir: %w", err)
	}

	// Expand the external config path.
	if err := cfg.expandExternalConfigPath(); err != nil {
		return nil, fmt.Errorf("invalid external config path: %w", err)
	}

	// Validate configuration.
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

	if c.Jobs.Dir == "" {
		return errors.New("jobs dir cannot be empty after expansion")
	}

	if c.Jobs.Workers < 0 {
		return fmt.Errorf("invalid worker count: %d (must be 0 for auto or a positive number)", c.Jobs.Workers)
	}

	if c.External.Enabled && c.External.ConfigPath == "" {
		return errors.New("external config path is required when the external tool is enabled")
	}

	// Jobs.Job can be empty - the runner scans Jobs.Dir instead.

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

// expandJobsDir expands ~ and makes the path absolute.
func (c *Config) expandJobsDir() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}
	defaultPath := filepath.Join(homeDir, "PreviewStudio", "jobs")

	expanded, err := expandPath(c.Jobs.Dir, defaultPath)
	if err != nil {
		return err
	}
	c.Jobs.Dir = expanded
	return nil
}

// expandJobDir expands ~ and makes the path absolute.
// If empty, leaves it empty so the runner scans the jobs root.
func (c *Config) expandJobDir() error {
	if c.Jobs.Job == "" {
		return nil
	}

	expanded, err := expandPath(c.Jobs.Job, "")
	if err != nil {
		return err
	}
	c.Jobs.Job = expanded
	return nil
}

// expandFontsDir expands ~ and makes the path absolute.
// If empty, leaves it empty so only job-local fonts are scanned.
func (c *Config) expandFontsDir() error {
	if c.Fonts.Dir == "" {
		return nil
	}

	expanded, err := expandPath(c.Fonts.Dir, "")
	if err != nil {
		return err
	}
	c.Fonts.Dir = expanded
	return nil
}

// expandExternalConfigPath expands ~ and makes the path absolute.
func (c *Config) expandExternalConfigPath() error {
	if c.External.ConfigPath == "" {
		return nil
	}

	expanded, err := expandPath(c.External.ConfigPath, "")
	if err != nil {
		return err
	}
	c.External.ConfigPath = expanded
	return nil
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	// Priority 1: Command-line flag.
	if flagValue != "" {
		return flagValue
	}

	// Priority 2: Environment variable.
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}

	// Priority 3: Default value.
	return defaultValue
}

// getBoolConfigValue returns a bool from flag, env var, or default.
// Accepts: "true", "1", "yes" (case-insensitive) as true; anything else is false.
func getBoolConfigValue(flagValue, envKey string, defaultValue bool) bool {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	strValue = strings.ToLower(strValue)
	return strValue == "true" || strValue == "1" || strValue == "yes"
}

// getIntConfigValue returns an int from flag, env var, or default.
func getIntConfigValue(flagValue, envKey string, defaultValue int) int {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	var result int
	if _, err := fmt.Sscanf(strValue, "%d", &result); err != nil {
		return defaultValue
	}
	return result
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

		// Skip empty lines and comments.
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse KEY=value.
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid format at line %d: %s", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		// Remove quotes if present.
		value = strings.Trim(value, `"'`)

		// Only set if not already set (env vars take precedence over .env file).
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("failed to set env var %s: %w", key, err)
			}
		}
	}

	return scanner.Err()
}
