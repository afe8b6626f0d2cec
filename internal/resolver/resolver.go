package resolver

import (
	"context"

	"github.com/rohmanhakim/movie-info-server/internal/cache"
	"github.com/rohmanhakim/movie-info-server/internal/metadata"
	"github.com/rohmanhakim/movie-info-server/internal/provider"
	"github.com/rohmanhakim/movie-info-server/pkg/failure"
	"golang.org/x/sync/singleflight"
)

/*
Resolver turns a parsed title into a response body.

  - no title: the default page
  - cached title: the stored document, provider untouched
  - uncached title: one provider call, result stored on success

Concurrent misses for the same title share a single provider call.
Failed fetches leave the cache untouched, so the next request tries again.
*/
type Resolver struct {
	cache        cache.Cache
	provider     provider.Provider
	metadataSink metadata.MetadataSink
	defaultPage  string
	inflight     singleflight.Group
}

func NewResolver(
	titleCache cache.Cache,
	movieProvider provider.Provider,
	metadataSink metadata.MetadataSink,
	defaultPage string,
) *Resolver {
	return &Resolver{
		cache:        titleCache,
		provider:     movieProvider,
		metadataSink: metadataSink,
		defaultPage:  defaultPage,
	}
}

func (r *Resolver) Resolve(ctx context.Context, title string, ok bool) (Resolution, failure.ClassifiedError) {
	if !ok {
		return Resolution{Kind: KindPage, Body: r.defaultPage}, nil
	}

	if doc, hit := r.cache.Get(title); hit {
		r.metadataSink.RecordCacheLookup(title, true)
		return Resolution{Kind: KindMovie, Body: doc, CacheHit: true}, nil
	}
	r.metadataSink.RecordCacheLookup(title, false)

	doc, err := r.fetchOnce(ctx, title)
	if err != nil {
		return Resolution{}, err
	}
	return Resolution{Kind: KindMovie, Body: doc}, nil
}

// fetchOnce collapses concurrent misses for title into one provider call.
// The shared call is detached from the caller's cancellation so one
// client hanging up does not fail the others waiting on it.
func (r *Resolver) fetchOnce(ctx context.Context, title string) (string, failure.ClassifiedError) {
	ch := r.inflight.DoChan(title, func() (interface{}, error) {
		if doc, hit := r.cache.Get(title); hit {
			return doc, nil
		}
		doc, err := r.provider.FetchMovieData(context.WithoutCancel(ctx), title)
		if err != nil {
			return nil, err
		}
		r.cache.Put(title, doc)
		return doc, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			if classified, ok := res.Err.(failure.ClassifiedError); ok {
				return "", classified
			}
			return "", &ResolveError{Message: res.Err.Error(), Cause: ErrCauseUnclassified}
		}
		return res.Val.(string), nil
	case <-ctx.Done():
		return "", &ResolveError{Message: ctx.Err().Error(), Cause: ErrCauseCancelled}
	}
}
