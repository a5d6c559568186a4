package flickr

import (
	"bytes"
	"encoding/json"
	"fmt"

	"media-search-service/internal/domain"
)

// Feed represents the JSON public photos feed.
type Feed struct {
	Title       string `json:"title"`
	Link        string `json:"link"`
	Description string `json:"description"`
	Modified    string `json:"modified"`
	Items       []Item `json:"items"`
}

// Item represents a single photo in the feed.
type Item struct {
	Title       string `json:"title"`
	Link        string `json:"link"`
	Media       Media  `json:"media"`
	DateTaken   string `json:"date_taken"`
	Description string `json:"description"`
	Published   string `json:"published"`
	Author      string `json:"author"`
	AuthorID    string `json:"author_id"`
	Tags        string `json:"tags"`
}

// Media holds the image URLs of an item. M is the medium size.
type Media struct {
	M string `json:"m"`
}

// decodeFeed parses a feed body. The feed is known to escape single quotes
// as \' which is not valid JSON, so those are unescaped first.
func decodeFeed(body []byte) (*Feed, error) {
	body = bytes.ReplaceAll(body, []byte(`\'`), []byte(`'`))

	var feed Feed
	if err := json.Unmarshal(body, &feed); err != nil {
		return nil, fmt.Errorf("parsing flickr JSON: %w", err)
	}

	return &feed, nil
}

// mediaURLs returns the medium media URL of every item that has one.
func (f *Feed) mediaURLs() []domain.MediaResult {
	results := make([]domain.MediaResult, 0, len(f.Items))
	for _, item := range f.Items {
		if item.Media.M == "" {
			continue
		}
		results = append(results, domain.MediaResult{URL: item.Media.M})
	}

	return results
}
