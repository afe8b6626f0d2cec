package config

type ResponseMode string

const (
	// Every reply is a complete HTTP/1.1 response.
	ResponseModeHTTP ResponseMode = "http"
	// Movie documents are written as a bare line; only the default page
	// carries a status line.
	ResponseModeLegacy ResponseMode = "legacy"
)

type ProviderKind string

const (
	ProviderOMDb   ProviderKind = "omdb"
	ProviderStatic ProviderKind = "static"
)

const (
	DefaultPort         = 35000
	DefaultOMDbBaseURL  = "https://www.omdbapi.com/"
	DefaultDefaultTitle = "Guardians of the galaxy"
)

// Environment variables consulted by WithEnv.
const (
	EnvOMDbAPIKey  = "OMDB_API_KEY"
	EnvOMDbBaseURL = "OMDB_BASE_URL"
	EnvPort        = "PORT"
	EnvLogLevel    = "MOVIE_INFO_LOG_LEVEL"
)

// configDTO is the on-disk shape of a config file. Durations are written
// as Go duration strings ("10s", "250ms").
type configDTO struct {
	Host         string `json:"host,omitempty" yaml:"host,omitempty"`
	Port         int    `json:"port,omitempty" yaml:"port,omitempty"`
	ReadTimeout  string `json:"readTimeout,omitempty" yaml:"readTimeout,omitempty"`
	ResponseMode string `json:"responseMode,omitempty" yaml:"responseMode,omitempty"`

	Provider     string `json:"provider,omitempty" yaml:"provider,omitempty"`
	OMDbBaseURL  string `json:"omdbBaseUrl,omitempty" yaml:"omdbBaseUrl,omitempty"`
	APIKey       string `json:"apiKey,omitempty" yaml:"apiKey,omitempty"`
	FixturesPath string `json:"fixturesPath,omitempty" yaml:"fixturesPath,omitempty"`
	FetchTimeout string `json:"fetchTimeout,omitempty" yaml:"fetchTimeout,omitempty"`
	UserAgent    string `json:"userAgent,omitempty" yaml:"userAgent,omitempty"`

	BaseDelay  string `json:"baseDelay,omitempty" yaml:"baseDelay,omitempty"`
	Jitter     string `json:"jitter,omitempty" yaml:"jitter,omitempty"`
	RandomSeed int64  `json:"randomSeed,omitempty" yaml:"randomSeed,omitempty"`

	CacheShards int `json:"cacheShards,omitempty" yaml:"cacheShards,omitempty"`

	DefaultTitle string `json:"defaultTitle,omitempty" yaml:"defaultTitle,omitempty"`

	LogLevel  string `json:"logLevel,omitempty" yaml:"logLevel,omitempty"`
	LogFormat string `json:"logFormat,omitempty" yaml:"logFormat,omitempty"`
}
