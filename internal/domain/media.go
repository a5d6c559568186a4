// Package domain contains the core entities and contracts of the service.
// This package has no external dependencies (only stdlib).
package domain

import (
	"strings"
)

// ProviderKind identifies the upstream a result came from.
type ProviderKind string

const (
	ProviderKindVideo ProviderKind = "video"
	ProviderKindPhoto ProviderKind = "photo"
)

const (
	// WatchURLPrefix is the canonical prefix of a video watch URL.
	WatchURLPrefix = "https://www.youtube.com/watch?v="

	// EmbedURLPrefix is the prefix of an embeddable video player URL.
	EmbedURLPrefix = "https://www.youtube.com/embed/"
)

// MediaResult is a single normalized search hit.
type MediaResult struct {
	URL string `json:"url"`
}

// URLs flattens results into their URLs, preserving order.
func URLs(results []MediaResult) []string {
	urls := make([]string, len(results))
	for i, r := range results {
		urls[i] = r.URL
	}

	return urls
}

// WatchURL formats a video identifier as a watch URL.
func WatchURL(videoID string) string {
	return WatchURLPrefix + videoID
}

// EmbedURL converts a watch URL into its embeddable form.
// Returns an empty string if watchURL carries no video identifier.
func EmbedURL(watchURL string) string {
	_, id, found := strings.Cut(watchURL, "watch?v=")
	if !found || id == "" {
		return ""
	}

	return EmbedURLPrefix + id
}
