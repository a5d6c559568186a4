package dto

import (
	"media-search-service/internal/app/service"
	"media-search-service/internal/domain"
	"media-search-service/internal/infra/provider/registry"
)

// URLsResponse is the success body of the search endpoints.
type URLsResponse struct {
	URLs []string `json:"urls"`
}

// ValidationErrorResponse lists every invalid field with its message.
type ValidationErrorResponse struct {
	Errors map[string]string `json:"errors"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// FromEnvelope returns the JSON body for env.
func FromEnvelope(env domain.Envelope) interface{} {
	switch {
	case env.Succeeded():
		return URLsResponse{URLs: env.URLs}
	case env.Errors != nil:
		return ValidationErrorResponse{Errors: env.Errors}
	default:
		return ErrorResponse{Error: env.Error}
	}
}

// ProviderHealthResponse reports one provider's reachability.
type ProviderHealthResponse struct {
	Name    string `json:"name"`
	Kind    string `json:"kind"`
	Healthy bool   `json:"healthy"`
	Error   string `json:"error,omitempty"`
}

// ProvidersResponse wraps the health of every provider.
type ProvidersResponse struct {
	Providers []ProviderHealthResponse `json:"providers"`
}

// FromHealthStatuses converts registry health checks to a response.
func FromHealthStatuses(statuses []registry.HealthStatus) ProvidersResponse {
	resp := ProvidersResponse{Providers: make([]ProviderHealthResponse, len(statuses))}
	for i, s := range statuses {
		item := ProviderHealthResponse{
			Name:    s.Provider,
			Kind:    string(s.Kind),
			Healthy: s.Err == nil,
		}
		if s.Err != nil {
			item.Error = s.Err.Error()
		}
		resp.Providers[i] = item
	}

	return resp
}

// WarmupTermResponse represents the outcome of warming one term.
type WarmupTermResponse struct {
	SearchTerm string `json:"search_term"`
	Duration   string `json:"duration"`
	Error      string `json:"error,omitempty"`
}

// WarmupResponse represents the response for a manual warm-up.
type WarmupResponse struct {
	Executed bool                 `json:"executed"`
	Results  []WarmupTermResponse `json:"results"`
	Summary  WarmupSummary        `json:"summary"`
}

// WarmupSummary holds summary of a warm-up run.
type WarmupSummary struct {
	TermsOK   int `json:"terms_ok"`
	TermsFail int `json:"terms_fail"`
}

// FromWarmupResults converts service.WarmupResult slice to WarmupResponse.
func FromWarmupResults(executed bool, results []service.WarmupResult) WarmupResponse {
	resp := WarmupResponse{
		Executed: executed,
		Results:  make([]WarmupTermResponse, len(results)),
	}

	for i, r := range results {
		errMsg := ""
		if r.Error != nil {
			errMsg = r.Error.Error()
			resp.Summary.TermsFail++
		} else {
			resp.Summary.TermsOK++
		}

		resp.Results[i] = WarmupTermResponse{
			SearchTerm: r.SearchTerm,
			Duration:   r.Duration.String(),
			Error:      errMsg,
		}
	}

	return resp
}
