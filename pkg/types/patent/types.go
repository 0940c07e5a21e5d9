// Package patent holds the wire DTOs returned by the molscope API: the
// canonical patent record, the patent family, and the response envelopes
// assembled by the HTTP and CLI interfaces.
package patent

import (
	"time"

	"github.com/praxisip/molscope/pkg/types/common"
)

// Record is the canonical patent record shape. A record survives
// normalization only when it carries a publication number or a title;
// every other field may be empty.
type Record struct {
	PatentID          string     `json:"patent_id"`
	PublicationNumber string     `json:"publication_number"`
	Title             string     `json:"title"`
	Abstract          string     `json:"abstract,omitempty"`
	Applicants        []string   `json:"applicants"`
	Inventors         []string   `json:"inventors"`
	PublicationDate   *time.Time `json:"publication_date"`
	ApplicationDate   *time.Time `json:"application_date,omitempty"`
	IPCCodes          []string   `json:"ipc_codes"`
	CPCCodes          []string   `json:"cpc_codes,omitempty"`
	URL               string     `json:"url"`
}

// Family is a set of publications believed to share a common priority
// filing. Members and Jurisdictions carry set semantics: deduplicated and
// sorted for stable output.
type Family struct {
	FamilyID      string     `json:"family_id"`
	PriorityDate  *time.Time `json:"priority_date"`
	Members       []string   `json:"members"`
	Jurisdictions []string   `json:"jurisdictions_covered"`
}

// SearchMetadata describes how and when one response was produced.
type SearchMetadata struct {
	SearchType string           `json:"search_type"`
	DurationMS int64            `json:"duration_ms"`
	ScrapedAt  common.Timestamp `json:"scraped_at"`
	Source     string           `json:"source"`
}

// SearchResponse is the envelope returned by POST /search.
type SearchResponse struct {
	Status     string                    `json:"status"`
	Query      string                    `json:"query"`
	Results    []Record                  `json:"results"`
	Pagination common.PaginationMetadata `json:"pagination"`
	Metadata   SearchMetadata            `json:"metadata"`
}

// DetailResponse is the envelope returned by GET /patent/:patentID.
type DetailResponse struct {
	Status   string         `json:"status"`
	Patent   Record         `json:"patent"`
	Family   *Family        `json:"family,omitempty"`
	Metadata SearchMetadata `json:"metadata"`
}

// ErrorResponse is the envelope returned for any pipeline-wide failure.
type ErrorResponse struct {
	Status    string           `json:"status"`
	Error     string           `json:"error"`
	Message   string           `json:"message"`
	Timestamp common.Timestamp `json:"timestamp"`
}
