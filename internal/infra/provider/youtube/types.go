package youtube

import (
	ytapi "google.golang.org/api/youtube/v3"

	"media-search-service/internal/domain"
)

const videoKind = "youtube#video"

// watchURLs maps search results to watch URLs, keeping upstream order.
// Items that are not videos or carry no video id are skipped.
func watchURLs(resp *ytapi.SearchListResponse) []domain.MediaResult {
	results := make([]domain.MediaResult, 0, len(resp.Items))

	for _, item := range resp.Items {
		if item == nil || item.Id == nil || item.Id.VideoId == "" {
			continue
		}
		if item.Id.Kind != "" && item.Id.Kind != videoKind {
			continue
		}

		results = append(results, domain.MediaResult{URL: domain.WatchURL(item.Id.VideoId)})
	}

	return results
}
