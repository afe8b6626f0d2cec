package resolver

type Kind int

const (
	// KindPage is the default search page, served when no title was asked for.
	KindPage Kind = iota
	// KindMovie is a movie document, from the cache or the provider.
	KindMovie
)

func (k Kind) String() string {
	switch k {
	case KindPage:
		return "page"
	case KindMovie:
		return "movie"
	default:
		return "unknown"
	}
}

// Resolution is what a request resolves to, before it is framed for the wire.
type Resolution struct {
	Kind     Kind
	Body     string
	CacheHit bool
}
