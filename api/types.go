// Package api provides the HTTP client for reading a deployed mdsite site.
package api

import "time"

// PostSummary is one entry of the posts index.
type PostSummary struct {
	Slug     string   `json:"slug"`
	Title    string   `json:"title"`
	Date     Time     `json:"date,omitempty"`
	Summary  string   `json:"summary,omitempty"`
	Tags     []string `json:"tags,omitempty"`
	URL      string   `json:"url"`
	Draft    bool     `json:"draft,omitempty"`
	Warnings int      `json:"warnings,omitempty"`
}

// ErrorResponse represents an HTTP error returned by the site.
type ErrorResponse struct {
	StatusCode int      `json:"statusCode"`
	Message    string   `json:"message"`
	Errors     []string `json:"errors,omitempty"`
	URL        string   `json:"-"`
}

func (e *ErrorResponse) Error() string {
	msg := e.Message
	if len(e.Errors) > 0 {
		msg = e.Errors[0]
	}
	if e.URL == "" {
		return msg
	}
	return "GET " + e.URL + ": " + msg
}

// Time is a wrapper around time.Time that also accepts plain dates.
type Time struct {
	time.Time
}

// UnmarshalJSON parses RFC 3339 timestamps and YYYY-MM-DD dates.
func (t *Time) UnmarshalJSON(data []byte) error {
	s := string(data)

	// Handle null or empty
	if s == "null" || s == `""` || s == "" {
		return nil
	}

	// Remove quotes if present
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}

	if s == "" {
		return nil
	}

	parsed, err := time.Parse(time.RFC3339, s)
	if err != nil {
		parsed, err = time.Parse(time.DateOnly, s)
		if err != nil {
			return err
		}
	}

	t.Time = parsed
	return nil
}

// MarshalJSON formats time in RFC 3339 format.
func (t Time) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + t.Format(time.RFC3339) + `"`), nil
}
