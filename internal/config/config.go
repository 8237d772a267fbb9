package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jimezsa/jobadcheck/internal/models"
	"github.com/yosuke-furukawa/json5/encoding/json5"
)

const (
	DefaultFileName = "appsettings.json"
	DefaultLogPath  = "logs/jobadcheck.log"
	DefaultBaseURL  = "https://webapi.alza.cz"
)

// Settings mirrors appsettings.json.
type Settings struct {
	Logging  Logging         `json:"Logging"`
	API      API             `json:"Api"`
	Expected models.Expected `json:"Expected"`
	Proxies  []string        `json:"Proxies,omitempty"`
}

type Logging struct {
	LogPath string `json:"LogPath"`
	Level   string `json:"Level,omitempty"`
}

type API struct {
	BaseURL        string `json:"BaseUrl"`
	PositionSlug   string `json:"PositionSlug"`
	InvalidSlug    string `json:"InvalidSlug"`
	TimeoutSeconds int    `json:"TimeoutSeconds,omitempty"`
}

func DefaultSettings() Settings {
	return Settings{
		Logging: Logging{
			LogPath: envString("JOBADCHECK_LOG_PATH", DefaultLogPath),
			Level:   envString("JOBADCHECK_LOG_LEVEL", "info"),
		},
		API: API{
			BaseURL:        envString("JOBADCHECK_BASE_URL", DefaultBaseURL),
			PositionSlug:   envString("JOBADCHECK_POSITION_SLUG", "java-developer-"),
			InvalidSlug:    envString("JOBADCHECK_INVALID_SLUG", "invalid-position"),
			TimeoutSeconds: envInt("JOBADCHECK_TIMEOUT_SECONDS", 0),
		},
		Expected: models.DefaultExpected(),
	}
}

// ResolvePath returns flagValue, JOBADCHECK_CONFIG or appsettings.json in the
// working directory, in that order.
func ResolvePath(flagValue string) string {
	if strings.TrimSpace(flagValue) != "" {
		return flagValue
	}
	return envString("JOBADCHECK_CONFIG", DefaultFileName)
}

// Load reads settings from path over the defaults. A missing file yields the
// defaults. Environment overrides win over the file.
func Load(path string) (Settings, error) {
	cfg := DefaultSettings()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, err
	}

	if len(strings.TrimSpace(string(data))) == 0 {
		return cfg, nil
	}

	if err := json5.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}

	applyEnv(&cfg)
	return cfg, nil
}

// Init writes a default settings file at path unless one already exists.
func Init(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return false, err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return false, err
		}
	}
	if err := writeSettings(path, DefaultSettings()); err != nil {
		return false, err
	}
	return true, nil
}

func writeSettings(path string, cfg Settings) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// ResolveProxies prefers the flag value, then JOBADCHECK_PROXIES, then the
// settings file.
func ResolveProxies(flagValue string, cfg Settings) []string {
	if strings.TrimSpace(flagValue) != "" {
		return splitCSV(flagValue)
	}
	if env := strings.TrimSpace(os.Getenv("JOBADCHECK_PROXIES")); env != "" {
		return splitCSV(env)
	}

	var proxies []string
	for _, proxy := range cfg.Proxies {
		proxy = strings.TrimSpace(proxy)
		if proxy == "" || strings.HasPrefix(proxy, "#") {
			continue
		}
		proxies = append(proxies, proxy)
	}
	return proxies
}

func applyEnv(cfg *Settings) {
	overrides := []struct {
		key    string
		target *string
	}{
		{"JOBADCHECK_LOG_PATH", &cfg.Logging.LogPath},
		{"JOBADCHECK_LOG_LEVEL", &cfg.Logging.Level},
		{"JOBADCHECK_BASE_URL", &cfg.API.BaseURL},
		{"JOBADCHECK_POSITION_SLUG", &cfg.API.PositionSlug},
		{"JOBADCHECK_INVALID_SLUG", &cfg.API.InvalidSlug},
	}
	for _, o := range overrides {
		if val := strings.TrimSpace(os.Getenv(o.key)); val != "" {
			*o.target = val
		}
	}
	cfg.API.TimeoutSeconds = envInt("JOBADCHECK_TIMEOUT_SECONDS", cfg.API.TimeoutSeconds)
}

func envString(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func envInt(key string, fallback int) int {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}
