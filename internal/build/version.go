// Package build carries version metadata stamped in at link time, e.g.
//
//	go build -ldflags "-X github.com/rohmanhakim/movie-info-server/internal/build.Version=1.0.0"
package build

var (
	Version   = "dev"
	Commit    = "none"
	BuildTime = "unknown"
)

// FullVersion is Version and Commit joined by "+", e.g. "1.0.0+abc123".
func FullVersion() string {
	return Version + "+" + Commit
}

// UserAgent is the default User-Agent sent to movie data providers.
func UserAgent() string {
	return "movie-info-server/" + Version
}
