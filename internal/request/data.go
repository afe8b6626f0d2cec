package request

// RequestLine is the first line of an HTTP/1.x request, split on spaces.
// Missing parts are left empty.
type RequestLine struct {
	Method  string
	Target  string
	Version string
}

// Query returns everything after the first '?' of the target and whether
// a '?' was present at all.
func (r RequestLine) Query() (string, bool) {
	for i := 0; i < len(r.Target); i++ {
		if r.Target[i] == '?' {
			return r.Target[i+1:], true
		}
	}
	return "", false
}

// AcceptsQuery reports whether the method is one the server reads a
// title from.
func (r RequestLine) AcceptsQuery() bool {
	return r.Method == MethodGet || r.Method == MethodPost
}

const (
	MethodGet  = "GET"
	MethodPost = "POST"

	TitleParam = "title"
)
