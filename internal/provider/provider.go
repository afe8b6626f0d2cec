package provider

import (
	"context"

	"github.com/rohmanhakim/movie-info-server/pkg/failure"
)

// Provider retrieves the serialized movie document for a title.
//
// encodedTitle is passed exactly as it arrived in the client's query
// string; implementations must not decode or re-encode it. The returned
// document is opaque to callers and relayed verbatim.
type Provider interface {
	FetchMovieData(ctx context.Context, encodedTitle string) (string, failure.ClassifiedError)
}
