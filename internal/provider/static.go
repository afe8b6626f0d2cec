package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/rohmanhakim/movie-info-server/pkg/failure"
)

// notFoundDocument mirrors what OMDb answers for an unknown title.
const notFoundDocument = `{"Response":"False","Error":"Movie not found!"}`

// StaticProvider serves movie documents from an in-memory table.
// Titles are matched first as given, then percent-decoded and
// case-folded, so a fixture keyed "Guardians of the Galaxy" answers
// "Guardians%20Of%20The%20Galaxy".
type StaticProvider struct {
	documents map[string]string
}

func NewStaticProvider(documents map[string]string) *StaticProvider {
	table := make(map[string]string, len(documents)*2)
	for title, doc := range documents {
		table[title] = doc
	}
	for title, doc := range documents {
		folded := foldTitle(title)
		if _, exists := table[folded]; !exists {
			table[folded] = doc
		}
	}
	return &StaticProvider{documents: table}
}

// LoadStaticProvider reads a JSON object whose keys are titles and whose
// values are the documents to serve for them.
func LoadStaticProvider(path string) (*StaticProvider, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixtures %s: %w", path, err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(content, &raw); err != nil {
		return nil, fmt.Errorf("parse fixtures %s: %w", path, err)
	}

	documents := make(map[string]string, len(raw))
	for title, doc := range raw {
		var compact bytes.Buffer
		if err := json.Compact(&compact, doc); err != nil {
			return nil, fmt.Errorf("fixture %q: %w", title, err)
		}
		documents[title] = compact.String()
	}
	return NewStaticProvider(documents), nil
}

func (p *StaticProvider) FetchMovieData(ctx context.Context, encodedTitle string) (string, failure.ClassifiedError) {
	if err := ctx.Err(); err != nil {
		return "", &ProviderError{
			Message:   err.Error(),
			Retryable: true,
			Cause:     ErrCauseTimeout,
		}
	}
	if doc, ok := p.documents[encodedTitle]; ok {
		return doc, nil
	}
	if doc, ok := p.documents[foldTitle(encodedTitle)]; ok {
		return doc, nil
	}
	return notFoundDocument, nil
}

func foldTitle(title string) string {
	if decoded, err := url.QueryUnescape(title); err == nil {
		title = decoded
	}
	return strings.ToLower(strings.TrimSpace(title))
}
