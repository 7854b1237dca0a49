package clientdata

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/factorlens/internal/domain"
)

// MetadataSource serves company metadata cache-first.
// If the upstream lookup fails, stale cached data is returned when available.
type MetadataSource struct {
	repo     *Repository
	upstream domain.MetadataSource
	ttl      time.Duration
	log      zerolog.Logger
}

// NewMetadataSource wraps upstream with the metadata cache.
// A non-positive ttl uses TTLCompanyMetadata.
func NewMetadataSource(repo *Repository, upstream domain.MetadataSource, ttl time.Duration, log zerolog.Logger) *MetadataSource {
	if ttl <= 0 {
		ttl = TTLCompanyMetadata
	}
	return &MetadataSource{
		repo:     repo,
		upstream: upstream,
		ttl:      ttl,
		log:      log.With().Str("component", "metadata_cache").Logger(),
	}
}

// GetMetadata implements domain.MetadataSource
func (s *MetadataSource) GetMetadata(ctx context.Context, ticker string) (*domain.CompanyMetadata, error) {
	ticker = domain.NormalizeTicker(ticker)

	var cached domain.CompanyMetadata
	ok, err := s.repo.GetIfFresh(TableCompanyMetadata, ticker, &cached)
	if err != nil {
		s.log.Warn().Err(err).Str("ticker", ticker).Msg("Failed to read metadata cache")
	} else if ok {
		s.log.Debug().Str("ticker", ticker).Msg("Cache hit")
		return &cached, nil
	}

	meta, err := s.upstream.GetMetadata(ctx, ticker)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		if stale, ok := s.getStale(ticker); ok {
			s.log.Warn().Err(err).Str("ticker", ticker).Msg("Lookup failed, using stale cached metadata")
			return stale, nil
		}
		return nil, err
	}

	if err := s.repo.Store(TableCompanyMetadata, ticker, meta, s.ttl); err != nil {
		s.log.Warn().Err(err).Str("ticker", ticker).Msg("Failed to cache metadata")
	}

	return meta, nil
}

func (s *MetadataSource) getStale(ticker string) (*domain.CompanyMetadata, bool) {
	var stale domain.CompanyMetadata
	ok, err := s.repo.Get(TableCompanyMetadata, ticker, &stale)
	if err != nil || !ok {
		return nil, false
	}
	return &stale, true
}
