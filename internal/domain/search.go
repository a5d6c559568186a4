package domain

const (
	// SearchTermMaxLength is the upper bound on a trimmed search term, in characters.
	SearchTermMaxLength = 100

	// DefaultMaxResults is used when the caller does not ask for a result count.
	DefaultMaxResults = 5

	// MaxResultsLimit is the largest result count a caller may request.
	MaxResultsLimit = 50
)

// SearchQuery holds the raw, untrusted search input as received from a caller.
type SearchQuery struct {
	SearchTerm    string
	HasSearchTerm bool
	MaxResults    string
	HasMaxResults bool
}

// NewSearchQuery builds a query with every field present.
func NewSearchQuery(searchTerm, maxResults string) SearchQuery {
	return SearchQuery{
		SearchTerm:    searchTerm,
		HasSearchTerm: true,
		MaxResults:    maxResults,
		HasMaxResults: maxResults != "",
	}
}

// SearchRequest is a validated search. Only the validator builds these;
// nothing downstream checks the bounds again.
type SearchRequest struct {
	SearchTerm string // trimmed, 1..SearchTermMaxLength characters
	MaxResults int    // 1..MaxResultsLimit
}
