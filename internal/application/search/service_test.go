package search

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainpatent "github.com/praxisip/molscope/internal/domain/patent"
	domainsearch "github.com/praxisip/molscope/internal/domain/search"
	"github.com/praxisip/molscope/internal/extraction"
	"github.com/praxisip/molscope/internal/infrastructure/monitoring/logging"
	"github.com/praxisip/molscope/internal/infrastructure/monitoring/prometheus"
	"github.com/praxisip/molscope/internal/infrastructure/portal"
	apperrors "github.com/praxisip/molscope/pkg/errors"
)

type fetcherStub struct {
	docs map[string]*portal.RawDocument
	err  error
}

func (f *fetcherStub) Fetch(_ context.Context, q portal.UpstreamQuery) (*portal.RawDocument, error) {
	if f.err != nil {
		return nil, f.err
	}
	if doc, ok := f.docs[q.Path]; ok {
		return doc, nil
	}
	return &portal.RawDocument{Body: "<html></html>", StatusCode: 200, Attempts: 1}, nil
}

type extractorStub struct {
	results map[extraction.DocumentKind]*extraction.Result
	err     error
}

func (e *extractorStub) Extract(_ context.Context, doc extraction.Document) (*extraction.Result, error) {
	if e.err != nil {
		return nil, e.err
	}
	if res, ok := e.results[doc.Kind]; ok {
		return res, nil
	}
	return nil, apperrors.ExtractionFailed("no strategy produced a usable candidate")
}

func newService(fetcher Fetcher, extractor Extractor) *Service {
	return NewService(
		fetcher,
		extractor,
		domainpatent.NewNormalizer("https://patentscope.wipo.int"),
		nil,
		logging.NewNopLogger(),
		prometheus.NewMetrics(),
	)
}

func mustQuery(t *testing.T, identifier string, page, pageSize int) domainsearch.SearchQuery {
	t.Helper()
	q, err := domainsearch.NewSearchQuery(identifier, "exact", page, pageSize)
	require.NoError(t, err)
	return q
}

func aspirinFieldSets() []domainpatent.RawFieldSet {
	return []domainpatent.RawFieldSet{
		{PublicationNumber: "WO2023111111A1", Title: "Aspirin formulation", PublicationDate: "15.06.2023", DocID: "WO2023111111"},
		{PublicationNumber: "WO2023222222A1", Title: "Enteric coated tablet", DocID: "WO2023222222"},
		{PublicationNumber: "US20230333333A1", Title: "Salicylate synthesis"},
		{Abstract: "fragment without identity"},
	}
}

func TestSearchAssemblesResponse(t *testing.T) {
	svc := newService(&fetcherStub{}, &extractorStub{
		results: map[extraction.DocumentKind]*extraction.Result{
			extraction.KindSearchResults: {
				FieldSets:    aspirinFieldSets(),
				TotalResults: 156,
			},
		},
	})

	resp, err := svc.Search(context.Background(), mustQuery(t, "aspirin", 1, 5))
	require.NoError(t, err)

	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, "aspirin", resp.Query)
	require.Len(t, resp.Results, 3)

	assert.Equal(t, 156, resp.Pagination.TotalResults)
	assert.Equal(t, 32, resp.Pagination.TotalPages)
	assert.True(t, resp.Pagination.HasNext)
	assert.False(t, resp.Pagination.HasPrevious)

	assert.Equal(t, "exact", resp.Metadata.SearchType)
	assert.Equal(t, Source, resp.Metadata.Source)
	assert.GreaterOrEqual(t, resp.Metadata.DurationMS, int64(0))
}

func TestSearchExtractionFailureDegradesToEmptyResult(t *testing.T) {
	svc := newService(&fetcherStub{}, &extractorStub{})

	resp, err := svc.Search(context.Background(), mustQuery(t, "obscurium", 1, 10))
	require.NoError(t, err)

	assert.Equal(t, "success", resp.Status)
	assert.Empty(t, resp.Results)
	assert.Zero(t, resp.Pagination.TotalResults)
	assert.Zero(t, resp.Pagination.TotalPages)
	assert.False(t, resp.Pagination.HasNext)
}

func TestSearchPropagatesFetchErrors(t *testing.T) {
	svc := newService(&fetcherStub{err: apperrors.UpstreamUnavailable("down")}, &extractorStub{})

	_, err := svc.Search(context.Background(), mustQuery(t, "aspirin", 1, 10))
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeUpstreamUnavailable))
}

func TestSearchDeclaredTotalNeverBelowReturnedCount(t *testing.T) {
	svc := newService(&fetcherStub{}, &extractorStub{
		results: map[extraction.DocumentKind]*extraction.Result{
			extraction.KindSearchResults: {
				FieldSets: aspirinFieldSets()[:3],
				// Counter missing from the page.
				TotalResults: 0,
			},
		},
	})

	resp, err := svc.Search(context.Background(), mustQuery(t, "aspirin", 1, 10))
	require.NoError(t, err)
	assert.Equal(t, 3, resp.Pagination.TotalResults)
	assert.Equal(t, 1, resp.Pagination.TotalPages)
}

func TestGetDetailBuildsFamily(t *testing.T) {
	svc := newService(&fetcherStub{}, &extractorStub{
		results: map[extraction.DocumentKind]*extraction.Result{
			extraction.KindDetail: {
				FieldSets: []domainpatent.RawFieldSet{{
					PublicationNumber: "WO2023111111A1",
					Title:             "Aspirin formulation",
					PublicationDate:   "15.06.2023",
					Inventors:         []string{"Jane Roe"},
				}},
			},
			extraction.KindSearchResults: {
				FieldSets: []domainpatent.RawFieldSet{
					{PublicationNumber: "WO2023111111A1", Title: "Aspirin formulation", DocID: "WO2023111111"},
					{PublicationNumber: "EP2023111111B1", Title: "Aspirin formulation", DocID: "EP2023111111"},
					{PublicationNumber: "US2020999888A1", Title: "Unrelated"},
				},
			},
		},
	})

	resp, err := svc.GetDetail(context.Background(), "WO2023111111")
	require.NoError(t, err)

	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, "WO2023111111A1", resp.Patent.PublicationNumber)
	assert.Equal(t, "WO2023111111", resp.Patent.PatentID)

	require.NotNil(t, resp.Family)
	assert.ElementsMatch(t, []string{"WO2023111111A1", "EP2023111111B1"}, resp.Family.Members)
	assert.ElementsMatch(t, []string{"WO", "EP"}, resp.Family.Jurisdictions)
}

func TestGetDetailFamilySearchFailureDegrades(t *testing.T) {
	svc := newService(&fetcherStub{}, &extractorStub{
		results: map[extraction.DocumentKind]*extraction.Result{
			extraction.KindDetail: {
				FieldSets: []domainpatent.RawFieldSet{{
					PublicationNumber: "WO2023111111A1",
					Title:             "Aspirin formulation",
				}},
			},
		},
	})

	resp, err := svc.GetDetail(context.Background(), "WO2023111111")
	require.NoError(t, err)

	require.NotNil(t, resp.Family)
	assert.Equal(t, []string{"WO2023111111A1"}, resp.Family.Members)
}

func TestGetDetailNotFound(t *testing.T) {
	svc := newService(&fetcherStub{}, &extractorStub{})

	_, err := svc.GetDetail(context.Background(), "WO9999999999")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeNotFound))
}

func TestGetDetailRejectsEmptyID(t *testing.T) {
	svc := newService(&fetcherStub{}, &extractorStub{})

	_, err := svc.GetDetail(context.Background(), "")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeInvalidQuery))
}

func TestStatsCountsRequests(t *testing.T) {
	svc := newService(&fetcherStub{}, &extractorStub{})

	_, _ = svc.Search(context.Background(), mustQuery(t, "aspirin", 1, 10))
	_, _ = svc.GetDetail(context.Background(), "WO2023111111")

	stats := svc.Stats()
	assert.Equal(t, int64(1), stats.SearchRequests)
	assert.Equal(t, int64(1), stats.DetailRequests)
	assert.Equal(t, Source, stats.Source)
}
