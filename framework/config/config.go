package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
)

// Config is the central typed configuration struct.
type Config struct {
	App       AppConfig
	Log       LogConfig
	Container ContainerConfig
}

type AppConfig struct {
	Name  string
	Env   string // local | production | testing
	Debug bool
	URL   string
	Port  string
	Key   string // bearer token for write access to the inspector
}

type LogConfig struct {
	Level      string // debug | info | warn | error
	Encoding   string // console | json
	File       string // empty = stdout only
	MaxSize    int    // MB
	MaxBackups int
	MaxAge     int // days
	Compress   bool
}

// ContainerConfig lists where container parameters and definitions come from.
// Sources are applied in this order, later ones overriding earlier ones:
// DotenvFiles, ParameterFiles, then environment variables under EnvPrefix.
type ContainerConfig struct {
	DotenvFiles     []string
	ParameterFiles  []string
	DefinitionFiles []string
	EnvPrefix       string
}

// Load reads .env (if present) and populates a Config from environment variables.
// Call once at bootstrap: cfg := config.Load()
func Load(envFiles ...string) *Config {
	files := envFiles
	if len(files) == 0 {
		files = []string{".env"}
	}
	// Non-fatal: .env may not exist in production
	_ = godotenv.Load(files...)

	return &Config{
		App: AppConfig{
			Name:  env("APP_NAME", "GoInjector"),
			Env:   env("APP_ENV", "local"),
			Debug: envBool("APP_DEBUG", true),
			URL:   env("APP_URL", "http://localhost"),
			Port:  env("APP_PORT", "8000"),
			Key:   env("APP_KEY", ""),
		},
		Log: LogConfig{
			Level:      env("LOG_LEVEL", "info"),
			Encoding:   env("LOG_ENCODING", "console"),
			File:       env("LOG_FILE", ""),
			MaxSize:    GetInt("LOG_MAX_SIZE", 100),
			MaxBackups: GetInt("LOG_MAX_BACKUPS", 3),
			MaxAge:     GetInt("LOG_MAX_AGE", 28),
			Compress:   envBool("LOG_COMPRESS", false),
		},
		Container: ContainerConfig{
			DotenvFiles:     envList("CONTAINER_DOTENV_FILES"),
			ParameterFiles:  envList("CONTAINER_PARAMETER_FILES"),
			DefinitionFiles: envList("CONTAINER_DEFINITION_FILES"),
			EnvPrefix:       env("CONTAINER_ENV_PREFIX", "PARAM"),
		},
	}
}

// ParameterSources returns the sources described by the container section,
// in the order they should be applied.
func (c ContainerConfig) ParameterSources() []ParameterSource {
	var sources []ParameterSource
	if len(c.DotenvFiles) > 0 {
		sources = append(sources, NewDotenvSource(c.DotenvFiles...))
	}
	for _, path := range c.ParameterFiles {
		sources = append(sources, NewFileSource(path))
	}
	if c.EnvPrefix != "" {
		sources = append(sources, NewEnvSource(c.EnvPrefix))
	}
	return sources
}

// Get returns a raw env value, falling back to defaultVal.
func Get(key, defaultVal string) string {
	return env(key, defaultVal)
}

// GetInt returns an int env value.
func GetInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := cast.ToIntE(v)
	if err != nil {
		return defaultVal
	}
	return i
}

// GetBool returns a bool env value.
func GetBool(key string, defaultVal bool) bool {
	return envBool(key, defaultVal)
}

// ── helpers ─────────────────────────────────────────────────────────────────

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := cast.ToBoolE(v)
	if err != nil {
		return fallback
	}
	return b
}

// envList splits a comma-separated value, dropping empty items.
func envList(key string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
