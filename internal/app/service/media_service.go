// Package service provides application use cases.
package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"media-search-service/internal/domain"
	"media-search-service/internal/validator"
	"media-search-service/pkg/sampler"
)

// Messages returned to callers in place of upstream details.
const (
	MsgVideoFailure    = "Failed to fetch data from YouTube"
	MsgPhotoFailure    = "Failed to fetch data from Flickr"
	MsgInternalFailure = "Internal server error"
)

// MediaService answers the shorts and images queries.
type MediaService struct {
	video     domain.VideoProvider
	photo     domain.PhotoProvider
	cache     *ResultCache
	sampler   *sampler.Sampler
	validator *validator.Validator
	logger    *zap.Logger
}

// NewMediaService creates a new MediaService.
func NewMediaService(
	video domain.VideoProvider,
	photo domain.PhotoProvider,
	cache *ResultCache,
	smp *sampler.Sampler,
	v *validator.Validator,
	logger *zap.Logger,
) *MediaService {
	return &MediaService{
		video:     video,
		photo:     photo,
		cache:     cache,
		sampler:   smp,
		validator: v,
		logger:    logger,
	}
}

// Shorts validates the query and returns up to max_results watch URLs.
func (s *MediaService) Shorts(ctx context.Context, query domain.SearchQuery) domain.Envelope {
	req, err := s.validator.SearchRequest(query)
	if err != nil {
		return s.failure("shorts", err)
	}

	s.logger.Debug("searching shorts",
		zap.String("search_term", req.SearchTerm),
		zap.Int("max_results", req.MaxResults),
	)

	results, err := s.cache.Videos(ctx, s.video, req.SearchTerm, req.MaxResults)
	if err != nil {
		return s.failure("shorts", err)
	}

	return domain.OK(domain.URLs(results))
}

// Images validates the query and returns at most sampler.DefaultMax
// distinct photo URLs picked at random from the feed. max_results is
// ignored.
func (s *MediaService) Images(ctx context.Context, query domain.SearchQuery) domain.Envelope {
	req, err := s.validator.SearchRequest(domain.SearchQuery{
		SearchTerm:    query.SearchTerm,
		HasSearchTerm: query.HasSearchTerm,
	})
	if err != nil {
		return s.failure("images", err)
	}

	s.logger.Debug("searching images", zap.String("search_term", req.SearchTerm))

	results, err := s.cache.Photos(ctx, s.photo, req.SearchTerm)
	if err != nil {
		return s.failure("images", err)
	}

	picked, err := s.sample(domain.URLs(results), sampler.DefaultMax)
	if err != nil {
		return s.failure("images", err)
	}

	return domain.OK(picked)
}

// Warm refetches searchTerm from both providers and stores the results,
// so later requests for it are served without an upstream call.
func (s *MediaService) Warm(ctx context.Context, searchTerm string) error {
	req, err := s.validator.SearchRequest(domain.NewSearchQuery(searchTerm, ""))
	if err != nil {
		return err
	}

	if _, err := s.cache.RefreshVideos(ctx, s.video, req.SearchTerm, req.MaxResults); err != nil {
		return err
	}
	if _, err := s.cache.RefreshPhotos(ctx, s.photo, req.SearchTerm); err != nil {
		return err
	}

	return nil
}

// ClearCache drops every memoized result.
func (s *MediaService) ClearCache(ctx context.Context) error {
	return s.cache.Clear(ctx)
}

// failure maps err to its envelope and logs it at the level its kind deserves.
// sample picks up to limit distinct URLs, reporting a bad limit as a
// *domain.InputError.
func (s *MediaService) sample(urls []string, limit int) ([]string, error) {
	picked, err := sampler.Sample(s.sampler, urls, limit)
	if err != nil {
		return nil, &domain.InputError{Op: "sample", Err: err}
	}

	return picked, nil
}

func (s *MediaService) failure(op string, err error) domain.Envelope {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		s.logger.Debug("invalid request",
			zap.String("op", op),
			zap.Any("errors", validationErr.Fields),
		)

		return domain.Invalid(validationErr.Fields)
	}

	var upstreamErr *domain.UpstreamError
	if errors.As(err, &upstreamErr) {
		s.logger.Error("upstream request failed",
			zap.String("op", op),
			zap.String("provider", string(upstreamErr.Provider)),
			zap.Error(err),
		)

		switch upstreamErr.Provider {
		case domain.ProviderKindVideo:
			return domain.Failed(MsgVideoFailure)
		case domain.ProviderKindPhoto:
			return domain.Failed(MsgPhotoFailure)
		}
	}

	s.logger.Error("request failed", zap.String("op", op), zap.Error(err))

	return domain.Failed(MsgInternalFailure)
}
