package request

import (
	"strings"
)

/*
Responsibilities

- Split a raw request line into method, target and version
- Split a query string into name/value pairs
- Extract the title parameter

Values are never percent-decoded: the title travels verbatim into the
cache key and the provider URL.
*/

// ParseRequestLine splits line on single spaces. Only an empty (or
// whitespace-only) line is an error; anything else is returned as-is for
// the caller to judge.
func ParseRequestLine(line string) (RequestLine, error) {
	line = strings.TrimRight(line, "\r\n")
	if strings.TrimSpace(line) == "" {
		return RequestLine{}, &ParseError{
			Message:   "request line is empty",
			Retryable: false,
			Cause:     ErrCauseEmptyLine,
		}
	}

	parts := strings.SplitN(line, " ", 3)
	rl := RequestLine{Method: parts[0]}
	if len(parts) > 1 {
		rl.Target = parts[1]
	}
	if len(parts) > 2 {
		rl.Version = parts[2]
	}
	return rl, nil
}

// ParseParams splits a query string on '&' and every pair on its first '='.
// Empty segments are skipped, so "" and "a=1&&b=2" are fine. A non-empty
// segment without '=' is a *ParseError. Later duplicates win.
func ParseParams(queryString string) (map[string]string, error) {
	params := make(map[string]string)
	if queryString == "" {
		return params, nil
	}

	for _, param := range strings.Split(queryString, "&") {
		if param == "" {
			continue
		}
		name, value, found := strings.Cut(param, "=")
		if !found {
			return nil, &ParseError{
				Message:   "query parameter " + quote(param) + " has no value",
				Retryable: false,
				Cause:     ErrCauseMalformedParam,
			}
		}
		params[name] = value
	}
	return params, nil
}

// ParseTitle returns the raw title parameter of a GET or POST request line.
// ok is false when the method is something else, the target carries no '?',
// or there is no title parameter. err is non-nil only for a malformed query.
func ParseTitle(line string) (title string, ok bool, err error) {
	rl, err := ParseRequestLine(line)
	if err != nil {
		return "", false, nil
	}
	return TitleFromRequestLine(rl)
}

// TitleFromRequestLine is ParseTitle for an already split request line.
func TitleFromRequestLine(rl RequestLine) (string, bool, error) {
	if !rl.AcceptsQuery() {
		return "", false, nil
	}
	query, hasQuery := rl.Query()
	if !hasQuery {
		return "", false, nil
	}

	params, err := ParseParams(query)
	if err != nil {
		return "", false, err
	}
	title, ok := params[TitleParam]
	return title, ok, nil
}

// quote bounds how much of a client-supplied pair ends up in messages.
func quote(s string) string {
	const max = 64
	if len(s) > max {
		s = s[:max] + "..."
	}
	return `"` + s + `"`
}

// Truncate shortens a client-supplied line for logs and messages.
func Truncate(line string) string {
	const max = 256
	if len(line) > max {
		return line[:max] + "..."
	}
	return line
}
