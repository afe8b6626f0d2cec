package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rohmanhakim/movie-info-server/internal/config"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestWithDefault(t *testing.T) {
	cfg := config.WithDefault()

	if cfg == nil {
		t.Fatal("WithDefault() returned nil")
	}

	builtCfg, err := cfg.Build()
	if err != nil {
		t.Fatalf("should not have any error, got %v", err)
	}

	if builtCfg.Port() != 35000 {
		t.Errorf("expected Port 35000, got %d", builtCfg.Port())
	}
	if builtCfg.Addr() != ":35000" {
		t.Errorf("expected Addr ':35000', got %q", builtCfg.Addr())
	}
	if builtCfg.ResponseMode() != config.ResponseModeHTTP {
		t.Errorf("expected ResponseMode http, got %q", builtCfg.ResponseMode())
	}
	if builtCfg.Provider() != config.ProviderOMDb {
		t.Errorf("expected Provider omdb, got %q", builtCfg.Provider())
	}
	if builtCfg.OMDbBaseURL() != "https://www.omdbapi.com/" {
		t.Errorf("unexpected OMDbBaseURL %q", builtCfg.OMDbBaseURL())
	}
	if builtCfg.HasAPIKey() {
		t.Error("expected no API key by default")
	}
	if builtCfg.FetchTimeout() != 10*time.Second {
		t.Errorf("expected FetchTimeout 10s, got %v", builtCfg.FetchTimeout())
	}
	if builtCfg.ReadTimeout() != 30*time.Second {
		t.Errorf("expected ReadTimeout 30s, got %v", builtCfg.ReadTimeout())
	}
	if builtCfg.BaseDelay() != 0 {
		t.Errorf("expected BaseDelay 0, got %v", builtCfg.BaseDelay())
	}
	if builtCfg.CacheShards() != 0 {
		t.Errorf("expected CacheShards 0, got %d", builtCfg.CacheShards())
	}
	if builtCfg.DefaultTitle() != "Guardians of the galaxy" {
		t.Errorf("unexpected DefaultTitle %q", builtCfg.DefaultTitle())
	}
	if builtCfg.LogLevel() != "info" || builtCfg.LogFormat() != "text" {
		t.Errorf("unexpected logging defaults %q/%q", builtCfg.LogLevel(), builtCfg.LogFormat())
	}
}

func TestBuilderChain(t *testing.T) {
	cfg, err := config.WithDefault().
		WithHost("127.0.0.1").
		WithPort(8080).
		WithReadTimeout(time.Second).
		WithResponseMode(config.ResponseModeLegacy).
		WithAPIKey("k").
		WithFetchTimeout(2 * time.Second).
		WithUserAgent("ua").
		WithBaseDelay(100 * time.Millisecond).
		WithJitter(10 * time.Millisecond).
		WithRandomSeed(7).
		WithCacheShards(16).
		WithDefaultTitle("Alien").
		WithLogLevel("debug").
		WithLogFormat("json").
		Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Addr() != "127.0.0.1:8080" {
		t.Errorf("expected Addr 127.0.0.1:8080, got %q", cfg.Addr())
	}
	if cfg.ResponseMode() != config.ResponseModeLegacy {
		t.Errorf("expected legacy, got %q", cfg.ResponseMode())
	}
	if cfg.APIKey() != "k" || cfg.UserAgent() != "ua" {
		t.Error("api key or user agent not applied")
	}
	if cfg.BaseDelay() != 100*time.Millisecond || cfg.Jitter() != 10*time.Millisecond || cfg.RandomSeed() != 7 {
		t.Error("politeness settings not applied")
	}
	if cfg.CacheShards() != 16 || cfg.DefaultTitle() != "Alien" {
		t.Error("cache or page settings not applied")
	}
	if cfg.LogLevel() != "debug" || cfg.LogFormat() != "json" {
		t.Error("logging settings not applied")
	}
}

func TestBuild_Invalid(t *testing.T) {
	tests := []struct {
		name string
		cfg  *config.Config
	}{
		{"port too large", config.WithDefault().WithPort(70000)},
		{"negative port", config.WithDefault().WithPort(-1)},
		{"unknown response mode", config.WithDefault().WithResponseMode("raw")},
		{"unknown provider", config.WithDefault().WithProvider("imdb")},
		{"relative base url", config.WithDefault().WithOMDbBaseURL("/omdb")},
		{"static without fixtures", config.WithDefault().WithProvider(config.ProviderStatic)},
		{"negative shards", config.WithDefault().WithCacheShards(-2)},
		{"negative timeout", config.WithDefault().WithFetchTimeout(-time.Second)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.cfg.Build()
			if !errors.Is(err, config.ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestBuild_StaticProviderWithFixtures(t *testing.T) {
	cfg, err := config.WithDefault().
		WithProvider(config.ProviderStatic).
		WithFixturesPath("fixtures.json").
		Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.FixturesPath() != "fixtures.json" {
		t.Errorf("unexpected FixturesPath %q", cfg.FixturesPath())
	}
}

func TestWithEnv(t *testing.T) {
	env := map[string]string{
		config.EnvOMDbAPIKey:  "env-key",
		config.EnvOMDbBaseURL: "http://localhost:9999/",
		config.EnvPort:        "4000",
		config.EnvLogLevel:    "warn",
	}

	cfg, err := config.WithDefault().WithEnv(config.MapLookup(env)).Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.APIKey() != "env-key" {
		t.Errorf("expected env API key, got %q", cfg.APIKey())
	}
	if cfg.OMDbBaseURL() != "http://localhost:9999/" {
		t.Errorf("unexpected base URL %q", cfg.OMDbBaseURL())
	}
	if cfg.Port() != 4000 {
		t.Errorf("expected port 4000, got %d", cfg.Port())
	}
	if cfg.LogLevel() != "warn" {
		t.Errorf("expected log level warn, got %q", cfg.LogLevel())
	}
}

func TestWithEnv_IgnoresBadPortAndNilLookup(t *testing.T) {
	cfg, err := config.WithDefault().
		WithEnv(nil).
		WithEnv(config.MapLookup(map[string]string{config.EnvPort: "not-a-port"})).
		Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port() != config.DefaultPort {
		t.Errorf("expected default port, got %d", cfg.Port())
	}
}

func TestLoadDotEnv_FeedsWithEnvWithoutOverriding(t *testing.T) {
	t.Setenv(config.EnvPort, "4200")
	// t.Setenv restores the original value; the .env file needs it unset
	t.Setenv(config.EnvOMDbAPIKey, "")
	os.Unsetenv(config.EnvOMDbAPIKey)
	path := writeFile(t, ".env", "OMDB_API_KEY=from-dotenv\nPORT=4100\n")

	if err := config.LoadDotEnv(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cfg, err := config.WithDefault().WithEnv(os.LookupEnv).Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.APIKey() != "from-dotenv" {
		t.Errorf("expected key from .env, got %q", cfg.APIKey())
	}
	if cfg.Port() != 4200 {
		t.Errorf("expected the preset PORT to win over .env, got %d", cfg.Port())
	}
}

func TestLoadDotEnv_MissingFileIsNotAnError(t *testing.T) {
	if err := config.LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Errorf("expected nil error for missing .env, got %v", err)
	}
}

func TestLoadDotEnv_SetsUnsetVariables(t *testing.T) {
	const key = "MOVIE_INFO_TEST_DOTENV_VALUE"
	path := writeFile(t, ".env", key+"=loaded\n")
	t.Cleanup(func() { os.Unsetenv(key) })

	if err := config.LoadDotEnv(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := os.Getenv(key); got != "loaded" {
		t.Errorf("expected loaded, got %q", got)
	}
}

func TestWithConfigFile_FileDoesNotExist(t *testing.T) {
	_, err := config.WithDefault().WithConfigFile(filepath.Join(t.TempDir(), "nope.json"))
	if !errors.Is(err, config.ErrFileDoesNotExist) {
		t.Errorf("expected ErrFileDoesNotExist, got %v", err)
	}
}

func TestWithConfigFile_UnsupportedFormat(t *testing.T) {
	path := writeFile(t, "config.toml", "port = 1")
	_, err := config.WithDefault().WithConfigFile(path)
	if !errors.Is(err, config.ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestWithConfigFile_InvalidJSON(t *testing.T) {
	path := writeFile(t, "config.json", "{not json")
	_, err := config.WithDefault().WithConfigFile(path)
	if !errors.Is(err, config.ErrConfigParsingFail) {
		t.Errorf("expected ErrConfigParsingFail, got %v", err)
	}
}

func TestWithConfigFile_InvalidDuration(t *testing.T) {
	path := writeFile(t, "config.json", `{"fetchTimeout": "soon"}`)
	_, err := config.WithDefault().WithConfigFile(path)
	if !errors.Is(err, config.ErrConfigParsingFail) {
		t.Errorf("expected ErrConfigParsingFail, got %v", err)
	}
}

func TestWithConfigFile_ValidJSON(t *testing.T) {
	path := writeFile(t, "config.json", `{
		"host": "127.0.0.1",
		"port": 36000,
		"readTimeout": "5s",
		"responseMode": "legacy",
		"apiKey": "json-key",
		"fetchTimeout": "3s",
		"baseDelay": "250ms",
		"cacheShards": 8,
		"defaultTitle": "Alien",
		"logFormat": "json"
	}`)

	builder, err := config.WithDefault().WithConfigFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cfg, err := builder.Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Addr() != "127.0.0.1:36000" {
		t.Errorf("unexpected Addr %q", cfg.Addr())
	}
	if cfg.ReadTimeout() != 5*time.Second || cfg.FetchTimeout() != 3*time.Second {
		t.Errorf("durations not applied: %v %v", cfg.ReadTimeout(), cfg.FetchTimeout())
	}
	if cfg.BaseDelay() != 250*time.Millisecond {
		t.Errorf("expected BaseDelay 250ms, got %v", cfg.BaseDelay())
	}
	if cfg.ResponseMode() != config.ResponseModeLegacy {
		t.Errorf("expected legacy, got %q", cfg.ResponseMode())
	}
	if cfg.APIKey() != "json-key" || cfg.CacheShards() != 8 || cfg.DefaultTitle() != "Alien" {
		t.Error("file values not applied")
	}
	// untouched fields keep defaults
	if cfg.LogLevel() != "info" {
		t.Errorf("expected default log level, got %q", cfg.LogLevel())
	}
}

func TestWithConfigFile_ValidYAML(t *testing.T) {
	path := writeFile(t, "config.yaml", `
port: 37000
provider: static
fixturesPath: movies.json
jitter: 50ms
logLevel: debug
`)

	builder, err := config.WithDefault().WithConfigFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cfg, err := builder.Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port() != 37000 {
		t.Errorf("expected port 37000, got %d", cfg.Port())
	}
	if cfg.Provider() != config.ProviderStatic || cfg.FixturesPath() != "movies.json" {
		t.Errorf("provider settings not applied: %q %q", cfg.Provider(), cfg.FixturesPath())
	}
	if cfg.Jitter() != 50*time.Millisecond {
		t.Errorf("expected jitter 50ms, got %v", cfg.Jitter())
	}
	if cfg.LogLevel() != "debug" {
		t.Errorf("expected debug, got %q", cfg.LogLevel())
	}
}

func TestWithConfigFile_EmptyJSONKeepsBase(t *testing.T) {
	path := writeFile(t, "config.json", `{}`)

	builder, err := config.WithDefault().WithAPIKey("kept").WithConfigFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cfg, err := builder.Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.APIKey() != "kept" || cfg.Port() != config.DefaultPort {
		t.Error("empty config file must not reset existing values")
	}
}
