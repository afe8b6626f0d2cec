package provider_test

import (
	"context"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/rohmanhakim/movie-info-server/internal/metadata/metadatatest"
	"github.com/rohmanhakim/movie-info-server/internal/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockedProvider(t *testing.T) (*provider.OMDbProvider, *metadatatest.Sink) {
	t.Helper()
	client := &http.Client{}
	httpmock.ActivateNonDefault(client)
	t.Cleanup(httpmock.DeactivateAndReset)

	u, err := url.Parse("https://www.omdbapi.com/")
	require.NoError(t, err)
	sink := metadatatest.NewSink()
	param := provider.NewOMDbParam(*u, "mock-key", "movie-info-server/test", time.Second)
	return provider.NewOMDbProviderWithClient(sink, param, nil, client), sink
}

func TestOMDbProvider_HTTPMock_TitleSentVerbatim(t *testing.T) {
	p, _ := newMockedProvider(t)

	httpmock.RegisterResponderWithQuery(
		http.MethodGet,
		"https://www.omdbapi.com/",
		"apikey=mock-key&t=Guardians%20Of%20The%20Galaxy",
		httpmock.NewStringResponder(http.StatusOK, guardiansDocument),
	)

	doc, err := p.FetchMovieData(context.Background(), "Guardians%20Of%20The%20Galaxy")

	require.Nil(t, err)
	assert.Equal(t, guardiansDocument, doc)
	assert.Equal(t, 1, httpmock.GetTotalCallCount())
}

func TestOMDbProvider_HTTPMock_InvalidKey(t *testing.T) {
	p, sink := newMockedProvider(t)

	httpmock.RegisterResponder(
		http.MethodGet,
		"https://www.omdbapi.com/",
		httpmock.NewStringResponder(http.StatusUnauthorized, `{"Response":"False","Error":"Invalid API key!"}`),
	)

	_, err := p.FetchMovieData(context.Background(), "Alien")

	require.NotNil(t, err)
	providerErr := err.(*provider.ProviderError)
	assert.Equal(t, "upstream status 401: Invalid API key!", providerErr.Message)
	require.Len(t, sink.Fetches(), 1)
	assert.Equal(t, "https://www.omdbapi.com/?apikey=REDACTED&t=Alien", sink.Fetches()[0].FetchURL)
}

func TestOMDbProvider_HTTPMock_TransportError(t *testing.T) {
	p, _ := newMockedProvider(t)

	httpmock.RegisterResponder(
		http.MethodGet,
		"https://www.omdbapi.com/",
		httpmock.NewErrorResponder(assert.AnError),
	)

	_, err := p.FetchMovieData(context.Background(), "Alien")

	require.NotNil(t, err)
	providerErr := err.(*provider.ProviderError)
	assert.Equal(t, provider.ProviderErrorCause(provider.ErrCauseNetworkFailure), providerErr.Cause)
	assert.NotContains(t, providerErr.Message, "mock-key")
	assert.True(t, providerErr.IsRetryable())
}

func TestOMDbProvider_HTTPMock_HashInTitleReachesUpstream(t *testing.T) {
	p, _ := newMockedProvider(t)

	var gotQuery string
	httpmock.RegisterResponder(
		http.MethodGet,
		"https://www.omdbapi.com/",
		func(req *http.Request) (*http.Response, error) {
			gotQuery = req.URL.RawQuery
			return httpmock.NewStringResponse(http.StatusOK, guardiansDocument), nil
		},
	)

	_, err := p.FetchMovieData(context.Background(), "C#")

	require.Nil(t, err)
	assert.Equal(t, "apikey=mock-key&t=C%23", gotQuery)
	assert.Equal(t, 1, httpmock.GetTotalCallCount())
}
