package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rohmanhakim/movie-info-server/internal/cache"
	"github.com/rohmanhakim/movie-info-server/internal/config"
	"github.com/rohmanhakim/movie-info-server/internal/metadata"
	"github.com/rohmanhakim/movie-info-server/internal/page"
	"github.com/rohmanhakim/movie-info-server/internal/provider"
	"github.com/rohmanhakim/movie-info-server/internal/resolver"
	"github.com/rohmanhakim/movie-info-server/internal/server"
	"github.com/rohmanhakim/movie-info-server/pkg/limiter"
	"github.com/spf13/cobra"
)

var (
	cfgFile      string
	envFiles     []string
	host         string
	port         int
	readTimeout  time.Duration
	responseMode string
	providerKind string
	omdbBaseURL  string
	apiKey       string
	fixturesPath string
	fetchTimeout time.Duration
	userAgent    string
	baseDelay    time.Duration
	jitter       time.Duration
	randomSeed   int64
	cacheShards  int
	defaultTitle string
	logLevel     string
	logFormat    string
)

// rootCmd serves movie information when called without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "movie-info-server",
	Short: "A tiny movie information server backed by OMDb.",
	Long: `movie-info-server listens on a raw TCP socket, reads a single request
line per connection and answers with the OMDb document for its "title"
query parameter. Documents are memoized by title for the life of the
process. Requests without a title get a self-contained search page.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context(), cmd.ErrOrStderr())
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config-file", "", "config file path (.json, .yaml or .yml)")
	rootCmd.PersistentFlags().StringArrayVar(&envFiles, "env-file", []string{}, ".env file to load before reading the environment (default .env, can be repeated)")
	rootCmd.PersistentFlags().StringVar(&providerKind, "provider", "", "movie data provider: omdb or static")
	rootCmd.PersistentFlags().StringVar(&omdbBaseURL, "omdb-base-url", "", "OMDb endpoint")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "OMDb API key (prefer "+config.EnvOMDbAPIKey+")")
	rootCmd.PersistentFlags().StringVar(&fixturesPath, "fixtures", "", "JSON file of title -> document for the static provider")
	rootCmd.PersistentFlags().DurationVar(&fetchTimeout, "fetch-timeout", 0, "timeout for one provider call")
	rootCmd.PersistentFlags().StringVar(&userAgent, "user-agent", "", "user agent sent to the provider")
	rootCmd.PersistentFlags().DurationVar(&baseDelay, "base-delay", 0, "minimum delay between calls to the provider host")
	rootCmd.PersistentFlags().DurationVar(&jitter, "jitter", 0, "random jitter added to base delay")
	rootCmd.PersistentFlags().Int64Var(&randomSeed, "random-seed", 0, "seed for jitter (0 for current time)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "text or json")

	rootCmd.Flags().StringVar(&host, "host", "", "interface to listen on (empty for all)")
	rootCmd.Flags().IntVar(&port, "port", 0, fmt.Sprintf("TCP port to listen on (default %d)", config.DefaultPort))
	rootCmd.Flags().DurationVar(&readTimeout, "read-timeout", 0, "how long a client may take to send its request line")
	rootCmd.Flags().StringVar(&responseMode, "response-mode", "", "http (complete HTTP/1.1 replies) or legacy (raw movie lines)")
	rootCmd.Flags().IntVar(&cacheShards, "cache-shards", 0, "shard the title cache (0 for a single map)")
	rootCmd.Flags().StringVar(&defaultTitle, "default-title", "", "title pre-filled on the search page")

	rootCmd.AddCommand(lookupCmd)
	rootCmd.AddCommand(versionCmd)
}

// runServe wires the server and blocks until SIGINT or SIGTERM.
func runServe(ctx context.Context, stderr io.Writer) error {
	if err := config.LoadDotEnv(envFiles...); err != nil {
		return fmt.Errorf("load env file: %w", err)
	}
	cfg, err := InitConfigWithError(os.LookupEnv)
	if err != nil {
		return err
	}

	logger, err := metadata.NewLogger(stderr, cfg.LogLevel(), cfg.LogFormat())
	if err != nil {
		return fmt.Errorf("%w: %s", config.ErrInvalidConfig, err.Error())
	}
	recorder := metadata.NewRecorder(logger)

	if cfg.Provider() == config.ProviderOMDb && !cfg.HasAPIKey() {
		logger.Warn("no OMDb API key configured; set " + config.EnvOMDbAPIKey)
	}

	srv, err := NewServer(cfg, recorder)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.ListenAndServe(ctx)
}

// NewServer builds the full request pipeline described by cfg.
func NewServer(cfg config.Config, sink metadata.MetadataSink) (*server.Server, error) {
	movieProvider, err := NewProvider(cfg, sink)
	if err != nil {
		return nil, err
	}
	defaultPage, err := page.New(cfg.DefaultTitle())
	if err != nil {
		return nil, err
	}
	res := resolver.NewResolver(NewCache(cfg), movieProvider, sink, defaultPage)
	return server.NewServer(sink, res, server.ServerParamFromConfig(cfg)), nil
}

// NewProvider returns the movie data provider selected by cfg.
func NewProvider(cfg config.Config, sink metadata.MetadataSink) (provider.Provider, error) {
	switch cfg.Provider() {
	case config.ProviderStatic:
		return provider.LoadStaticProvider(cfg.FixturesPath())
	case config.ProviderOMDb:
		baseURL, err := url.Parse(cfg.OMDbBaseURL())
		if err != nil {
			return nil, fmt.Errorf("%w: omdb base url: %s", config.ErrInvalidConfig, err.Error())
		}
		rateLimiter := limiter.NewConcurrentRateLimiter()
		rateLimiter.SetBaseDelay(cfg.BaseDelay())
		rateLimiter.SetJitter(cfg.Jitter())
		rateLimiter.SetRandomSeed(cfg.RandomSeed())

		param := provider.NewOMDbParam(*baseURL, cfg.APIKey(), cfg.UserAgent(), cfg.FetchTimeout())
		return provider.NewOMDbProvider(sink, param, rateLimiter), nil
	default:
		return nil, fmt.Errorf("%w: unknown provider %q", config.ErrInvalidConfig, cfg.Provider())
	}
}

// NewCache returns a single-map cache, or a sharded one when cfg asks for shards.
func NewCache(cfg config.Config) cache.Cache {
	if cfg.CacheShards() > 0 {
		return cache.NewShardedCache(cfg.CacheShards())
	}
	return cache.NewMemoryCache()
}

// InitConfigWithError layers defaults, the environment, the config file
// and finally flags, in increasing order of precedence. Flags left at
// their zero value do not override anything.
func InitConfigWithError(lookup config.LookupFunc) (config.Config, error) {
	configBuilder := config.WithDefault().WithEnv(lookup)

	if cfgFile != "" {
		var err error
		configBuilder, err = configBuilder.WithConfigFile(cfgFile)
		if err != nil {
			return config.Config{}, fmt.Errorf("error initializing config from file: %w", err)
		}
	}

	if host != "" {
		configBuilder = configBuilder.WithHost(host)
	}
	if port != 0 {
		configBuilder = configBuilder.WithPort(port)
	}
	if readTimeout != 0 {
		configBuilder = configBuilder.WithReadTimeout(readTimeout)
	}
	if responseMode != "" {
		configBuilder = configBuilder.WithResponseMode(config.ResponseMode(responseMode))
	}
	if providerKind != "" {
		configBuilder = configBuilder.WithProvider(config.ProviderKind(providerKind))
	}
	if omdbBaseURL != "" {
		configBuilder = configBuilder.WithOMDbBaseURL(omdbBaseURL)
	}
	if apiKey != "" {
		configBuilder = configBuilder.WithAPIKey(apiKey)
	}
	if fixturesPath != "" {
		configBuilder = configBuilder.WithFixturesPath(fixturesPath)
	}
	if fetchTimeout != 0 {
		configBuilder = configBuilder.WithFetchTimeout(fetchTimeout)
	}
	if userAgent != "" {
		configBuilder = configBuilder.WithUserAgent(userAgent)
	}
	if baseDelay != 0 {
		configBuilder = configBuilder.WithBaseDelay(baseDelay)
	}
	if jitter != 0 {
		configBuilder = configBuilder.WithJitter(jitter)
	}
	if randomSeed != 0 {
		configBuilder = configBuilder.WithRandomSeed(randomSeed)
	}
	if cacheShards != 0 {
		configBuilder = configBuilder.WithCacheShards(cacheShards)
	}
	if defaultTitle != "" {
		configBuilder = configBuilder.WithDefaultTitle(defaultTitle)
	}
	if logLevel != "" {
		configBuilder = configBuilder.WithLogLevel(logLevel)
	}
	if logFormat != "" {
		configBuilder = configBuilder.WithLogFormat(logFormat)
	}

	cfg, err := configBuilder.Build()
	if err != nil {
		return config.Config{}, err
	}
	if _, err := metadata.LevelFromString(cfg.LogLevel()); err != nil {
		return config.Config{}, errors.Join(config.ErrInvalidConfig, err)
	}
	return cfg, nil
}

func ResetFlags() {
	cfgFile = ""
	envFiles = []string{}
	host = ""
	port = 0
	readTimeout = 0
	responseMode = ""
	providerKind = ""
	omdbBaseURL = ""
	apiKey = ""
	fixturesPath = ""
	fetchTimeout = 0
	userAgent = ""
	baseDelay = 0
	jitter = 0
	randomSeed = 0
	cacheShards = 0
	defaultTitle = ""
	logLevel = ""
	logFormat = ""
}

// Test helper functions to set flag values from tests
func SetConfigFileForTest(path string) {
	cfgFile = path
}

func SetPortForTest(p int) {
	port = p
}

func SetResponseModeForTest(mode string) {
	responseMode = mode
}

func SetProviderForTest(kind string) {
	providerKind = kind
}

func SetAPIKeyForTest(key string) {
	apiKey = key
}

func SetFixturesPathForTest(path string) {
	fixturesPath = path
}

func SetCacheShardsForTest(shards int) {
	cacheShards = shards
}

func SetLogLevelForTest(level string) {
	logLevel = level
}
