// Package config loads runtime settings from the environment, optionally
// seeded from a .env file in the working directory.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// EnvPrefix namespaces every variable read by Load.
const EnvPrefix = "WCAGTINT_"

// Config holds runtime settings shared by the CLI and the HTTP server.
type Config struct {
	HTTPAddr        string
	ShutdownTimeout time.Duration
	AllowedOrigins  []string
	EnabledPlugins  []string
	DisabledPlugins []string
	PluginLockPath  string
	DefaultOutputs  []string
	OutputDir       string
	GoogleAPIKey    string
	DevMode         bool
}

// Load reads .env (when present) and then the environment.
// Variables already set in the environment take precedence over .env.
func Load() Config {
	_ = godotenv.Load()
	return FromEnv()
}

// LoadFile is Load with an explicit env file. A missing file is an error.
func LoadFile(path string) (Config, error) {
	if err := godotenv.Load(path); err != nil {
		return Config{}, err
	}
	return FromEnv(), nil
}

// FromEnv builds a Config from the current environment only.
func FromEnv() Config {
	return Config{
		HTTPAddr:        getEnv("HTTP_ADDR", ":8080"),
		ShutdownTimeout: time.Duration(getEnvInt("SHUTDOWN_TIMEOUT", 5)) * time.Second,
		AllowedOrigins:  getEnvSlice("ALLOWED_ORIGINS", ""),
		EnabledPlugins:  getEnvSlice("ENABLED_PLUGINS", ""),
		DisabledPlugins: getEnvSlice("DISABLED_PLUGINS", ""),
		PluginLockPath:  getEnv("PLUGIN_LOCK", defaultLockPath()),
		DefaultOutputs:  getEnvSlice("DEFAULT_OUTPUTS", "text"),
		OutputDir:       getEnv("OUTPUT_DIR", "."),
		GoogleAPIKey:    googleAPIKey(),
		DevMode:         getEnvBool("DEV_MODE", false),
	}
}

// googleAPIKey prefers the namespaced variable, falling back to the one
// the genai SDK reads itself.
func googleAPIKey() string {
	if v := getEnv("GOOGLE_API_KEY", ""); v != "" {
		return v
	}
	return os.Getenv("GOOGLE_API_KEY")
}

func defaultLockPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".wcagtint", "plugins.json")
	}
	return filepath.Join(dir, "wcagtint", "plugins.json")
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(EnvPrefix + key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(EnvPrefix + key)
	if value == "" {
		return defaultValue
	}
	intVal, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return intVal
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(EnvPrefix + key)
	if value == "" {
		return defaultValue
	}
	boolVal, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return boolVal
}

// getEnvSlice splits a comma-separated value, dropping blanks.
func getEnvSlice(key, defaultValue string) []string {
	value := os.Getenv(EnvPrefix + key)
	if value == "" {
		value = defaultValue
	}

	var out []string
	for part := range strings.SplitSeq(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
