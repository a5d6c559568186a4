// Package dto provides Data Transfer Objects for HTTP requests and responses.
package dto

import "media-search-service/internal/domain"

// Query parameter and form field names.
const (
	ParamSearchTerm = "search_term"
	ParamMaxResults = "max_results"
)

// SearchQueryFromArgs builds a SearchQuery from raw query arguments,
// keeping track of which parameters were sent at all.
func SearchQueryFromArgs(args map[string]string) domain.SearchQuery {
	term, hasTerm := args[ParamSearchTerm]
	limit, hasLimit := args[ParamMaxResults]

	return domain.SearchQuery{
		SearchTerm:    term,
		HasSearchTerm: hasTerm,
		MaxResults:    limit,
		HasMaxResults: hasLimit && limit != "",
	}
}
