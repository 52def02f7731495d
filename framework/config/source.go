package config

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/km-arc/go-injector/framework/container"
)

// ParameterSource yields container parameters as a flat map with dotted keys.
type ParameterSource interface {
	Name() string
	Load() (map[string]any, error)
}

// Apply loads every source in order and sets its parameters on dst. Later
// sources override earlier ones.
func Apply(dst *container.Container, sources ...ParameterSource) error {
	for _, src := range sources {
		params, err := src.Load()
		if err != nil {
			return err
		}
		keys := make([]string, 0, len(params))
		for k := range params {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if err := dst.SetParameter(k, params[k]); err != nil {
				return fmt.Errorf("config: %s: %w", src.Name(), err)
			}
		}
	}
	return nil
}

// ── FileSource ───────────────────────────────────────────────────────────────

// FileSource reads a yaml, json or toml file through viper.
//
//	database:
//	  host: my.server.tld   →  "database.host"
//	  port: 5432            →  "database.port"
type FileSource struct {
	path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (s *FileSource) Name() string { return "file:" + s.path }

// Load returns an empty map when the file does not exist.
func (s *FileSource) Load() (map[string]any, error) {
	if _, err := os.Stat(s.path); err != nil {
		if os.IsNotExist(err) {
			return map[string]any{}, nil
		}
		return nil, fmt.Errorf("config: stat %s: %w", s.path, err)
	}

	v := viper.New()
	v.SetConfigFile(s.path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: read %s: %w", s.path, err)
	}
	return flattenMap("", v.AllSettings()), nil
}

// flattenMap turns {"db": {"port": 5432}} into {"db.port": 5432}. Lists are
// kept as values.
func flattenMap(prefix string, data map[string]any) map[string]any {
	result := make(map[string]any)
	for key, value := range data {
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}
		if nested, ok := value.(map[string]any); ok {
			for k, v := range flattenMap(fullKey, nested) {
				result[k] = v
			}
			continue
		}
		result[fullKey] = value
	}
	return result
}

// ── EnvSource ────────────────────────────────────────────────────────────────

// EnvSource maps prefixed environment variables to parameters:
// PARAM_DATABASE_HOST becomes "database.host".
type EnvSource struct {
	prefix string
}

func NewEnvSource(prefix string) *EnvSource {
	return &EnvSource{prefix: prefix}
}

func (s *EnvSource) Name() string { return "env:" + s.prefix }

func (s *EnvSource) Load() (map[string]any, error) {
	result := make(map[string]any)
	if s.prefix == "" {
		return result, nil
	}
	prefix := s.prefix + "_"
	for _, kv := range os.Environ() {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(key, prefix) {
			continue
		}
		result[envKeyToParameter(strings.TrimPrefix(key, prefix))] = value
	}
	return result, nil
}

// ── DotenvSource ─────────────────────────────────────────────────────────────

// DotenvSource reads .env files without touching the process environment.
// DATABASE_HOST becomes "database.host".
type DotenvSource struct {
	files []string
}

func NewDotenvSource(files ...string) *DotenvSource {
	return &DotenvSource{files: files}
}

func (s *DotenvSource) Name() string { return "dotenv:" + strings.Join(s.files, ",") }

func (s *DotenvSource) Load() (map[string]any, error) {
	values, err := godotenv.Read(s.files...)
	if err != nil {
		return nil, fmt.Errorf("config: read dotenv %v: %w", s.files, err)
	}
	result := make(map[string]any, len(values))
	for k, v := range values {
		result[envKeyToParameter(k)] = v
	}
	return result, nil
}

func envKeyToParameter(key string) string {
	return strings.ReplaceAll(strings.ToLower(key), "_", ".")
}
