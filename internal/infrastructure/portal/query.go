// Package portal builds upstream queries and fetches portal pages with
// retry and backoff.
package portal

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/praxisip/molscope/internal/domain/search"
)

const (
	searchPath = "/search/en/result.jsf"
	detailPath = "/search/en/detail.jsf"
)

// formulaChars is the alphabet of molecular formulas. An identifier made
// only of these characters is treated as a formula, not a name.
const formulaChars = "0123456789CHONPS()[]+-="

// Upstream search field codes: abstract-only for structural identifiers,
// all fields for names.
const (
	fieldAbstract  = "EN_AB"
	fieldAllFields = "EN_ALL"
)

// UpstreamQuery is a fully built portal request: the path plus encoded
// query parameters.
type UpstreamQuery struct {
	Path   string
	Params url.Values
}

// URL joins the query onto baseURL.
func (q UpstreamQuery) URL(baseURL string) string {
	return strings.TrimRight(baseURL, "/") + q.Path + "?" + q.Params.Encode()
}

// BuildSearchQuery translates a validated search into portal parameters.
// The identifier kind picks the search field: formulas and SMILES strings
// match in abstracts, chemical names match everywhere.
func BuildSearchQuery(q search.SearchQuery) UpstreamQuery {
	params := url.Values{}
	params.Set("query", buildQueryExpression(q.Identifier))
	params.Set("office", "all")
	params.Set("sortOption", "Relevance")
	params.Set("maxRec", fmt.Sprintf("%d", q.PageSize))
	params.Set("startRec", fmt.Sprintf("%d", q.StartRecord()))

	return UpstreamQuery{Path: searchPath, Params: params}
}

// BuildDetailQuery builds the detail page request for one document id.
func BuildDetailQuery(docID string) UpstreamQuery {
	params := url.Values{}
	params.Set("docId", docID)
	return UpstreamQuery{Path: detailPath, Params: params}
}

func buildQueryExpression(identifier string) string {
	switch {
	case isFormula(identifier):
		return fmt.Sprintf(`%s:"%s"`, fieldAbstract, identifier)
	case isSMILES(identifier):
		return fmt.Sprintf(`%s:"%s"`, fieldAbstract, identifier)
	default:
		return fmt.Sprintf("%s:%s", fieldAllFields, identifier)
	}
}

// isFormula reports whether every character belongs to the molecular
// formula alphabet.
func isFormula(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !strings.ContainsRune(formulaChars, r) {
			return false
		}
	}
	return true
}

// isSMILES looks for stereochemistry markers that only appear in SMILES
// notation.
func isSMILES(s string) bool {
	return strings.ContainsAny(s, `@\/`)
}
