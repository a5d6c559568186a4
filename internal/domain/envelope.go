package domain

import "net/http"

// Envelope is the only shape returned by the JSON API. Exactly one of
// URLs, Errors or Error is meaningful, depending on Status.
type Envelope struct {
	Status int
	URLs   []string
	Errors map[string]string
	Error  string
}

// OK wraps a successful result list.
func OK(urls []string) Envelope {
	if urls == nil {
		urls = []string{}
	}

	return Envelope{Status: http.StatusOK, URLs: urls}
}

// Invalid wraps field validation failures.
func Invalid(fields map[string]string) Envelope {
	return Envelope{Status: http.StatusBadRequest, Errors: fields}
}

// Failed wraps a server-side failure with a message safe to show callers.
func Failed(message string) Envelope {
	return Envelope{Status: http.StatusInternalServerError, Error: message}
}

// Succeeded reports whether the envelope carries results.
func (e Envelope) Succeeded() bool {
	return e.Status == http.StatusOK
}

// First returns the first URL, or "" when there is none.
func (e Envelope) First() string {
	if !e.Succeeded() || len(e.URLs) == 0 {
		return ""
	}

	return e.URLs[0]
}
