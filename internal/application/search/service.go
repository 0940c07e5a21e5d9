// Package search orchestrates the extraction pipeline: build the
// upstream query, fetch, extract, normalize, group, paginate, assemble.
package search

import (
	"context"
	"sync/atomic"
	"time"

	domainfamily "github.com/praxisip/molscope/internal/domain/family"
	domainpatent "github.com/praxisip/molscope/internal/domain/patent"
	domainsearch "github.com/praxisip/molscope/internal/domain/search"
	"github.com/praxisip/molscope/internal/extraction"
	cacheredis "github.com/praxisip/molscope/internal/infrastructure/cache/redis"
	"github.com/praxisip/molscope/internal/infrastructure/monitoring/logging"
	"github.com/praxisip/molscope/internal/infrastructure/monitoring/prometheus"
	"github.com/praxisip/molscope/internal/infrastructure/portal"
	apperrors "github.com/praxisip/molscope/pkg/errors"
	"github.com/praxisip/molscope/pkg/types/common"
	patenttypes "github.com/praxisip/molscope/pkg/types/patent"
)

// Source labels every response with where the data came from.
const Source = "WIPO PatentScope"

// Fetcher is the slice of the portal fetcher the service needs.
type Fetcher interface {
	Fetch(ctx context.Context, query portal.UpstreamQuery) (*portal.RawDocument, error)
}

// Extractor runs the strategy chain over one fetched document.
type Extractor interface {
	Extract(ctx context.Context, doc extraction.Document) (*extraction.Result, error)
}

// Service is the pipeline orchestrator behind both the HTTP API and the
// CLI.
type Service struct {
	fetcher    Fetcher
	extractor  Extractor
	normalizer *domainpatent.Normalizer
	grouper    *domainfamily.Grouper
	cache      *cacheredis.SearchCache
	logger     logging.Logger
	metrics    *prometheus.Metrics

	startedAt      time.Time
	searchRequests atomic.Int64
	detailRequests atomic.Int64
	recordsServed  atomic.Int64
}

// NewService wires the pipeline. cache may be nil to disable caching.
func NewService(
	fetcher Fetcher,
	extractor Extractor,
	normalizer *domainpatent.Normalizer,
	cache *cacheredis.SearchCache,
	logger logging.Logger,
	metrics *prometheus.Metrics,
) *Service {
	return &Service{
		fetcher:    fetcher,
		extractor:  extractor,
		normalizer: normalizer,
		grouper:    domainfamily.NewGrouper(),
		cache:      cache,
		logger:     logger.Named("search"),
		metrics:    metrics,
		startedAt:  time.Now(),
	}
}

// Search runs the full pipeline for one query. An extraction failure is
// not an error: the portal answered, the page just yielded nothing, so
// the caller gets an empty result set with honest pagination.
func (s *Service) Search(ctx context.Context, q domainsearch.SearchQuery) (*patenttypes.SearchResponse, error) {
	s.searchRequests.Add(1)
	start := time.Now()

	if cached := s.cache.Get(ctx, q); cached != nil {
		s.logger.Debug("serving search from cache", logging.String("query", q.Identifier))
		return cached, nil
	}

	doc, err := s.fetcher.Fetch(ctx, portal.BuildSearchQuery(q))
	if err != nil {
		return nil, err
	}

	res, err := s.extractor.Extract(ctx, extraction.Document{
		HTML: doc.Body,
		Kind: extraction.KindSearchResults,
		URL:  doc.URL,
	})
	if err != nil {
		if !apperrors.IsCode(err, apperrors.ErrCodeExtractionFailed) {
			return nil, err
		}
		s.logger.Warn("extraction yielded nothing, returning empty result",
			logging.String("query", q.Identifier),
			logging.Err(err))
		res = &extraction.Result{}
	}

	records, dropped := s.normalizer.NormalizeAll(res.FieldSets)
	if dropped > 0 {
		s.metrics.RecordsDropped.Add(float64(dropped))
		s.logger.Warn("dropped malformed records",
			logging.String("query", q.Identifier),
			logging.Int("dropped", dropped))
	}

	total := res.TotalResults
	if total < len(records) {
		total = len(records)
	}
	if len(records) == 0 {
		total = 0
	}

	elapsed := time.Since(start)
	resp := &patenttypes.SearchResponse{
		Status:     "success",
		Query:      q.Identifier,
		Results:    records,
		Pagination: common.NewPaginationMetadata(total, q.Page, q.PageSize),
		Metadata:   s.metadata(string(q.Mode), elapsed),
	}

	s.recordsServed.Add(int64(len(records)))
	s.metrics.ObserveSearch("search", elapsed)
	s.cache.Set(ctx, q, resp)
	return resp, nil
}

// GetDetail fetches and extracts one patent detail page, then attaches
// the publication family.
func (s *Service) GetDetail(ctx context.Context, patentID string) (*patenttypes.DetailResponse, error) {
	s.detailRequests.Add(1)
	start := time.Now()

	if patentID == "" {
		return nil, apperrors.InvalidQuery("patent id must not be empty")
	}

	doc, err := s.fetcher.Fetch(ctx, portal.BuildDetailQuery(patentID))
	if err != nil {
		return nil, err
	}

	res, err := s.extractor.Extract(ctx, extraction.Document{
		HTML: doc.Body,
		Kind: extraction.KindDetail,
		URL:  doc.URL,
	})
	if err != nil || !res.Usable() {
		return nil, apperrors.NotFound("patent page yielded no data: " + patentID).WithCause(err)
	}

	raw := res.FieldSets[0]
	for _, set := range res.FieldSets {
		if set.Identified() {
			raw = set
			break
		}
	}
	if raw.DocID == "" {
		raw.DocID = patentID
	}
	record, err := s.normalizer.Normalize(raw)
	if err != nil {
		return nil, apperrors.NotFound("patent page yielded no usable record: " + patentID).WithCause(err)
	}

	family := s.lookupFamily(ctx, record)
	elapsed := time.Since(start)

	s.recordsServed.Add(1)
	s.metrics.ObserveSearch("detail", elapsed)
	return &patenttypes.DetailResponse{
		Status:   "success",
		Patent:   record,
		Family:   &family,
		Metadata: s.metadata("detail", elapsed),
	}, nil
}

// lookupFamily searches for sibling publications of the record and
// groups them. Any failure degrades to a single-member family: the
// detail response never fails because the family search did.
func (s *Service) lookupFamily(ctx context.Context, record patenttypes.Record) patenttypes.Family {
	if record.PublicationNumber == "" {
		return s.grouper.FamilyFor(record, nil)
	}

	q, err := domainsearch.NewSearchQuery(record.PublicationNumber, string(domainsearch.ModeExact), 1, domainsearch.DefaultPageSize)
	if err != nil {
		return s.grouper.FamilyFor(record, nil)
	}

	doc, err := s.fetcher.Fetch(ctx, portal.BuildSearchQuery(q))
	if err != nil {
		s.logger.Debug("family search fetch failed", logging.Err(err))
		return s.grouper.FamilyFor(record, nil)
	}

	res, err := s.extractor.Extract(ctx, extraction.Document{
		HTML: doc.Body,
		Kind: extraction.KindSearchResults,
		URL:  doc.URL,
	})
	if err != nil {
		return s.grouper.FamilyFor(record, nil)
	}

	candidates, _ := s.normalizer.NormalizeAll(res.FieldSets)
	return s.grouper.FamilyFor(record, candidates)
}

func (s *Service) metadata(searchType string, elapsed time.Duration) patenttypes.SearchMetadata {
	return patenttypes.SearchMetadata{
		SearchType: searchType,
		DurationMS: elapsed.Milliseconds(),
		ScrapedAt:  common.NewTimestamp(),
		Source:     Source,
	}
}

// StatsSnapshot is the payload behind GET /stats.
type StatsSnapshot struct {
	SearchRequests int64   `json:"search_requests"`
	DetailRequests int64   `json:"detail_requests"`
	RecordsServed  int64   `json:"records_served"`
	UptimeSeconds  float64 `json:"uptime_seconds"`
	Source         string  `json:"source"`
}

// Stats reports service counters since startup.
func (s *Service) Stats() StatsSnapshot {
	return StatsSnapshot{
		SearchRequests: s.searchRequests.Load(),
		DetailRequests: s.detailRequests.Load(),
		RecordsServed:  s.recordsServed.Load(),
		UptimeSeconds:  time.Since(s.startedAt).Seconds(),
		Source:         Source,
	}
}
