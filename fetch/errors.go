package fetch

import "fmt"

// Kind buckets non-2xx status codes into the failure taxonomy callers
// branch on. Unlisted statuses classify as KindServer.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindUnauthorized
	KindForbidden
	KindServer
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindServer:
		return "server"
	default:
		return "unknown"
	}
}

// StatusError is the classified form of a non-2xx response.
type StatusError struct {
	Kind       Kind
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	switch e.Kind {
	case KindNotFound:
		return fmt.Sprintf("fetch: %s: record not found (404)", e.URL)
	case KindUnauthorized:
		return fmt.Sprintf("fetch: %s: unauthorized (401); sign out and sign back in", e.URL)
	case KindForbidden:
		return fmt.Sprintf("fetch: %s: forbidden (403); insufficient permissions", e.URL)
	default:
		return fmt.Sprintf("fetch: %s: server error (%d)", e.URL, e.StatusCode)
	}
}

// Is matches any *StatusError of the same Kind, so callers can write
// errors.Is(err, &fetch.StatusError{Kind: fetch.KindNotFound}).
func (e *StatusError) Is(target error) bool {
	t, ok := target.(*StatusError)
	return ok && e.Kind == t.Kind
}

func classify(status int, url string) *StatusError {
	e := &StatusError{StatusCode: status, URL: url}
	switch status {
	case 404:
		e.Kind = KindNotFound
	case 401:
		e.Kind = KindUnauthorized
	case 403:
		e.Kind = KindForbidden
	case 500, 502:
		e.Kind = KindServer
	default:
		e.Kind = KindServer
	}
	return e
}
