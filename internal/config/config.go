package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rohmanhakim/movie-info-server/internal/build"
	"gopkg.in/yaml.v3"
)

type Config struct {
	//===============
	//  Listener
	//===============
	// Interface to bind. Empty means all interfaces.
	host string
	// TCP port of the listening socket. 0 lets the OS pick one.
	port int
	// Maximum time allowed for a client to send its request line
	readTimeout time.Duration
	// How replies are framed on the wire
	responseMode ResponseMode

	//===============
	//  Provider
	//===============
	// Which movie data provider backs the cache
	provider ProviderKind
	// Endpoint of the OMDb API
	omdbBaseURL string
	// OMDb API key, sent as the apikey query parameter
	apiKey string
	// JSON file mapping encoded titles to movie documents, for the static provider
	fixturesPath string
	// Maximum time of a single provider request
	fetchTimeout time.Duration
	// User agent sent to the provider
	userAgent string

	//===============
	// Politeness
	//===============
	// Minimum waiting time between two calls to the provider host. 0 disables throttling.
	baseDelay time.Duration
	// Randomized variation added on top of the base delay.
	jitter time.Duration
	// Controls the random number generator
	randomSeed int64

	//===============
	// Cache
	//===============
	// Number of shards of the title cache. 0 means a single map.
	cacheShards int

	//===============
	// Page
	//===============
	// Title pre-filled in the search form of the default page
	defaultTitle string

	//===============
	// Logging
	//===============
	logLevel  string
	logFormat string
}

// LookupFunc has the shape of os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// WithDefault creates a new Config with default values for all fields.
func WithDefault() *Config {
	defaultConfig := Config{
		host:         "",
		port:         DefaultPort,
		readTimeout:  30 * time.Second,
		responseMode: ResponseModeHTTP,
		provider:     ProviderOMDb,
		omdbBaseURL:  DefaultOMDbBaseURL,
		apiKey:       "",
		fixturesPath: "",
		fetchTimeout: 10 * time.Second,
		userAgent:    build.UserAgent(),
		baseDelay:    0,
		jitter:       0,
		randomSeed:   time.Now().UnixNano(),
		cacheShards:  0,
		defaultTitle: DefaultDefaultTitle,
		logLevel:     "info",
		logFormat:    "text",
	}
	return &defaultConfig
}

// LoadDotEnv loads variables from the given .env files (default ".env")
// into the process environment. Variables already set are not overridden.
// A missing file is not an error; containers usually set variables directly.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	var existing []string
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("%w: %s", ErrEnvFileFail, err.Error())
	}
	return nil
}

// MapLookup adapts a map to a LookupFunc.
func MapLookup(env map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

// WithEnv overrides fields from environment variables. Unparsable values
// are ignored here and left to flags or the config file.
func (c *Config) WithEnv(lookup LookupFunc) *Config {
	if lookup == nil {
		return c
	}
	if v, ok := lookup(EnvOMDbAPIKey); ok && v != "" {
		c.apiKey = v
	}
	if v, ok := lookup(EnvOMDbBaseURL); ok && v != "" {
		c.omdbBaseURL = v
	}
	if v, ok := lookup(EnvPort); ok && v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.port = port
		}
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.logLevel = v
	}
	return c
}

// WithConfigFile overlays the non-zero fields of a JSON or YAML config
// file onto c. The format is picked by file extension.
func (c *Config) WithConfigFile(path string) (*Config, error) {
	_, err := os.Stat(path)
	if err != nil {
		return c, fmt.Errorf("%w: %s", ErrFileDoesNotExist, err.Error())
	}
	configContent, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("%w: %s", ErrReadConfigFail, err.Error())
	}

	dto := configDTO{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(configContent, &dto)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(configContent, &dto)
	default:
		return c, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
	if err != nil {
		return c, fmt.Errorf("%w: %s", ErrConfigParsingFail, err.Error())
	}

	if err := c.applyDTO(dto); err != nil {
		return c, err
	}
	return c, nil
}

func (c *Config) applyDTO(dto configDTO) error {
	if dto.Host != "" {
		c.host = dto.Host
	}
	if dto.Port != 0 {
		c.port = dto.Port
	}
	if dto.ResponseMode != "" {
		c.responseMode = ResponseMode(dto.ResponseMode)
	}
	if dto.Provider != "" {
		c.provider = ProviderKind(dto.Provider)
	}
	if dto.OMDbBaseURL != "" {
		c.omdbBaseURL = dto.OMDbBaseURL
	}
	if dto.APIKey != "" {
		c.apiKey = dto.APIKey
	}
	if dto.FixturesPath != "" {
		c.fixturesPath = dto.FixturesPath
	}
	if dto.UserAgent != "" {
		c.userAgent = dto.UserAgent
	}
	if dto.RandomSeed != 0 {
		c.randomSeed = dto.RandomSeed
	}
	if dto.CacheShards != 0 {
		c.cacheShards = dto.CacheShards
	}
	if dto.DefaultTitle != "" {
		c.defaultTitle = dto.DefaultTitle
	}
	if dto.LogLevel != "" {
		c.logLevel = dto.LogLevel
	}
	if dto.LogFormat != "" {
		c.logFormat = dto.LogFormat
	}

	durations := []struct {
		field string
		raw   string
		dst   *time.Duration
	}{
		{"readTimeout", dto.ReadTimeout, &c.readTimeout},
		{"fetchTimeout", dto.FetchTimeout, &c.fetchTimeout},
		{"baseDelay", dto.BaseDelay, &c.baseDelay},
		{"jitter", dto.Jitter, &c.jitter},
	}
	for _, d := range durations {
		if d.raw == "" {
			continue
		}
		parsed, err := time.ParseDuration(d.raw)
		if err != nil {
			return fmt.Errorf("%w: %s: %s", ErrConfigParsingFail, d.field, err.Error())
		}
		*d.dst = parsed
	}
	return nil
}

func (c *Config) WithHost(host string) *Config {
	c.host = host
	return c
}

func (c *Config) WithPort(port int) *Config {
	c.port = port
	return c
}

func (c *Config) WithReadTimeout(timeout time.Duration) *Config {
	c.readTimeout = timeout
	return c
}

func (c *Config) WithResponseMode(mode ResponseMode) *Config {
	c.responseMode = mode
	return c
}

func (c *Config) WithProvider(kind ProviderKind) *Config {
	c.provider = kind
	return c
}

func (c *Config) WithOMDbBaseURL(baseURL string) *Config {
	c.omdbBaseURL = baseURL
	return c
}

func (c *Config) WithAPIKey(key string) *Config {
	c.apiKey = key
	return c
}

func (c *Config) WithFixturesPath(path string) *Config {
	c.fixturesPath = path
	return c
}

func (c *Config) WithFetchTimeout(timeout time.Duration) *Config {
	c.fetchTimeout = timeout
	return c
}

func (c *Config) WithUserAgent(agent string) *Config {
	c.userAgent = agent
	return c
}

func (c *Config) WithBaseDelay(delay time.Duration) *Config {
	c.baseDelay = delay
	return c
}

func (c *Config) WithJitter(jitter time.Duration) *Config {
	c.jitter = jitter
	return c
}

func (c *Config) WithRandomSeed(seed int64) *Config {
	c.randomSeed = seed
	return c
}

func (c *Config) WithCacheShards(shards int) *Config {
	c.cacheShards = shards
	return c
}

func (c *Config) WithDefaultTitle(title string) *Config {
	c.defaultTitle = title
	return c
}

func (c *Config) WithLogLevel(level string) *Config {
	c.logLevel = level
	return c
}

func (c *Config) WithLogFormat(format string) *Config {
	c.logFormat = format
	return c
}

func (c *Config) Build() (Config, error) {
	if c.port < 0 || c.port > 65535 {
		return Config{}, fmt.Errorf("%w: port %d out of range", ErrInvalidConfig, c.port)
	}

	switch c.responseMode {
	case ResponseModeHTTP, ResponseModeLegacy:
	default:
		return Config{}, fmt.Errorf("%w: unknown response mode %q (must be %q or %q)",
			ErrInvalidConfig, c.responseMode, ResponseModeHTTP, ResponseModeLegacy)
	}

	switch c.provider {
	case ProviderOMDb:
		u, err := url.Parse(c.omdbBaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return Config{}, fmt.Errorf("%w: invalid OMDb base URL %q", ErrInvalidConfig, c.omdbBaseURL)
		}
	case ProviderStatic:
		if c.fixturesPath == "" {
			return Config{}, fmt.Errorf("%w: static provider requires a fixtures path", ErrInvalidConfig)
		}
	default:
		return Config{}, fmt.Errorf("%w: unknown provider %q", ErrInvalidConfig, c.provider)
	}

	if c.cacheShards < 0 {
		return Config{}, fmt.Errorf("%w: cache shards cannot be negative", ErrInvalidConfig)
	}
	if c.readTimeout < 0 || c.fetchTimeout < 0 || c.baseDelay < 0 || c.jitter < 0 {
		return Config{}, fmt.Errorf("%w: durations cannot be negative", ErrInvalidConfig)
	}

	return *c, nil
}

func (c Config) Host() string {
	return c.host
}

func (c Config) Port() int {
	return c.port
}

// Addr is the host:port pair handed to net.Listen.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.host, c.port)
}

func (c Config) ReadTimeout() time.Duration {
	return c.readTimeout
}

func (c Config) ResponseMode() ResponseMode {
	return c.responseMode
}

func (c Config) Provider() ProviderKind {
	return c.provider
}

func (c Config) OMDbBaseURL() string {
	return c.omdbBaseURL
}

func (c Config) APIKey() string {
	return c.apiKey
}

func (c Config) HasAPIKey() bool {
	return c.apiKey != ""
}

func (c Config) FixturesPath() string {
	return c.fixturesPath
}

func (c Config) FetchTimeout() time.Duration {
	return c.fetchTimeout
}

func (c Config) UserAgent() string {
	return c.userAgent
}

func (c Config) BaseDelay() time.Duration {
	return c.baseDelay
}

func (c Config) Jitter() time.Duration {
	return c.jitter
}

func (c Config) RandomSeed() int64 {
	return c.randomSeed
}

func (c Config) CacheShards() int {
	return c.cacheShards
}

func (c Config) DefaultTitle() string {
	return c.defaultTitle
}

func (c Config) LogLevel() string {
	return c.logLevel
}

func (c Config) LogFormat() string {
	return c.logFormat
}
