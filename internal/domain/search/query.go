// Package search defines the validated search request that enters the
// extraction pipeline.
package search

import (
	"strings"

	apperrors "github.com/praxisip/molscope/pkg/errors"
)

// SearchMode selects how the molecule identifier is matched upstream.
type SearchMode string

const (
	ModeExact        SearchMode = "exact"
	ModeSimilarity   SearchMode = "similarity"
	ModeSubstructure SearchMode = "substructure"
)

// Page size bounds enforced on every query.
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// SearchQuery is a validated, normalized search request. Construct it
// through NewSearchQuery so invalid requests never reach the fetcher.
type SearchQuery struct {
	Identifier string     `json:"query"`
	Mode       SearchMode `json:"search_type"`
	Page       int        `json:"page"`
	PageSize   int        `json:"page_size"`
}

// NewSearchQuery validates and normalizes the raw request fields.
// The identifier is trimmed; mode defaults to exact; page defaults to 1;
// page size defaults to DefaultPageSize and is clamped to MaxPageSize.
func NewSearchQuery(identifier string, mode string, page, pageSize int) (SearchQuery, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return SearchQuery{}, apperrors.InvalidQuery("query must not be empty")
	}

	m := SearchMode(strings.ToLower(strings.TrimSpace(mode)))
	switch m {
	case "":
		m = ModeExact
	case ModeExact, ModeSimilarity, ModeSubstructure:
	default:
		return SearchQuery{}, apperrors.InvalidQuery("unsupported search_type: " + mode)
	}

	if page < 0 {
		return SearchQuery{}, apperrors.InvalidQuery("page must not be negative")
	}
	if page == 0 {
		page = 1
	}

	if pageSize < 0 {
		return SearchQuery{}, apperrors.InvalidQuery("page_size must not be negative")
	}
	if pageSize == 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	return SearchQuery{
		Identifier: identifier,
		Mode:       m,
		Page:       page,
		PageSize:   pageSize,
	}, nil
}

// StartRecord returns the 1-based index of the first record on this page,
// the offset convention the upstream portal uses.
func (q SearchQuery) StartRecord() int {
	return (q.Page-1)*q.PageSize + 1
}
