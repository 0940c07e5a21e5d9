// Package common holds wire-level types shared by every molscope interface:
// timestamps with fixed ISO 8601 serialization and the pagination metadata
// computed for every search response.
package common

import (
	"encoding/json"
	"time"
)

// Timestamp is a time.Time alias that always serializes as ISO 8601 UTC.
type Timestamp time.Time

// NewTimestamp returns the current UTC time as a Timestamp.
func NewTimestamp() Timestamp {
	return Timestamp(time.Now().UTC())
}

// MarshalJSON implements json.Marshaler using RFC 3339 format.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Time(t).UTC().Format(time.RFC3339))
}

// UnmarshalJSON implements json.Unmarshaler, accepting RFC 3339 with or
// without sub-second precision.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		parsed, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return err
		}
	}
	*t = Timestamp(parsed.UTC())
	return nil
}

// PaginationMetadata describes the position of one result page within the
// full upstream result set. TotalPages is always recomputed locally from
// TotalResults and PageSize; the upstream portal's own page arithmetic is
// never trusted.
//
// The declared total bounds the metadata only. Any page, not just the
// final one, may carry fewer records than PageSize without that being
// an error.
type PaginationMetadata struct {
	CurrentPage  int  `json:"current_page"`
	PageSize     int  `json:"page_size"`
	TotalResults int  `json:"total_results"`
	TotalPages   int  `json:"total_pages"`
	HasNext      bool `json:"has_next"`
	HasPrevious  bool `json:"has_previous"`
	NextPage     *int `json:"next_page"`
	PreviousPage *int `json:"previous_page"`
}

// NewPaginationMetadata computes pagination metadata from the declared
// upstream total, the requested page, and the page size. Pure arithmetic:
//
//	total_pages = ceil(total_results / page_size)
//	has_next    ⇔ current_page < total_pages
//
// Inputs are defensively clamped (page ≥ 1, page size ≥ 1, total ≥ 0) so
// the invariants hold even for degenerate values.
func NewPaginationMetadata(totalResults, currentPage, pageSize int) PaginationMetadata {
	if pageSize < 1 {
		pageSize = 1
	}
	if currentPage < 1 {
		currentPage = 1
	}
	if totalResults < 0 {
		totalResults = 0
	}

	totalPages := (totalResults + pageSize - 1) / pageSize

	meta := PaginationMetadata{
		CurrentPage:  currentPage,
		PageSize:     pageSize,
		TotalResults: totalResults,
		TotalPages:   totalPages,
		HasNext:      currentPage < totalPages,
		HasPrevious:  currentPage > 1,
	}
	if meta.HasNext {
		next := currentPage + 1
		meta.NextPage = &next
	}
	if meta.HasPrevious {
		prev := currentPage - 1
		meta.PreviousPage = &prev
	}
	return meta
}
