package provider_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rohmanhakim/movie-info-server/internal/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticProvider_FetchMovieData(t *testing.T) {
	p := provider.NewStaticProvider(map[string]string{
		"Guardians of the Galaxy": guardiansDocument,
	})

	tests := []struct {
		name     string
		title    string
		expected string
	}{
		{"exact key", "Guardians of the Galaxy", guardiansDocument},
		{"percent encoded and differently cased", "Guardians%20Of%20The%20Galaxy", guardiansDocument},
		{"plus encoded", "guardians+of+the+galaxy", guardiansDocument},
		{"unknown title", "Nope", `{"Response":"False","Error":"Movie not found!"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := p.FetchMovieData(context.Background(), tt.title)
			require.Nil(t, err)
			assert.Equal(t, tt.expected, doc)
		})
	}
}

func TestStaticProvider_CancelledContext(t *testing.T) {
	p := provider.NewStaticProvider(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.FetchMovieData(ctx, "Alien")

	require.NotNil(t, err)
	assert.Equal(t, provider.ProviderErrorCause(provider.ErrCauseTimeout), err.(*provider.ProviderError).Cause)
}

func TestLoadStaticProvider(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixtures.json")
	content := `{
  "Alien": {
    "Title": "Alien",
    "Year": "1979",
    "Response": "True"
  }
}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	p, err := provider.LoadStaticProvider(path)
	require.NoError(t, err)

	doc, fetchErr := p.FetchMovieData(context.Background(), "Alien")
	require.Nil(t, fetchErr)
	assert.Equal(t, `{"Title":"Alien","Year":"1979","Response":"True"}`, doc)
}

func TestLoadStaticProvider_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := provider.LoadStaticProvider(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`["not","an","object"]`), 0o644))
	_, err = provider.LoadStaticProvider(bad)
	assert.Error(t, err)
}
