package patent

import (
	"fmt"
	"html"
	"regexp"
	"strings"
	"time"

	apperrors "github.com/praxisip/molscope/pkg/errors"
	patenttypes "github.com/praxisip/molscope/pkg/types/patent"
)

// dateLayouts covers the publication date formats the portal renders.
// Order matters: numeric layouts first, textual last.
var dateLayouts = []string{
	"2006-01-02",
	"02.01.2006",
	"02/01/2006",
	"02 January 2006",
	"January 2, 2006",
	"02 Jan 2006",
}

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	docIDRe      = regexp.MustCompile(`docId=([^&\s]+)`)
)

// Normalizer turns raw field sets into wire records. It is a pure value
// transformation: the same input always yields the same output.
type Normalizer struct {
	// BaseURL is prepended to derived detail links.
	BaseURL string
}

// NewNormalizer returns a normalizer deriving detail URLs from baseURL.
func NewNormalizer(baseURL string) *Normalizer {
	return &Normalizer{BaseURL: strings.TrimRight(baseURL, "/")}
}

// Normalize converts one raw field set into a clean record. A set that
// lacks both a publication number and a title identifies nothing and is
// rejected with a malformed-record error; the caller drops it.
//
// An unparseable publication date does not reject the record: the record
// is kept with a nil date.
func (n *Normalizer) Normalize(raw RawFieldSet) (patenttypes.Record, error) {
	pubNumber := CleanText(raw.PublicationNumber)
	title := CleanText(raw.Title)
	if pubNumber == "" && title == "" {
		return patenttypes.Record{}, apperrors.MalformedRecord(
			"record has neither publication number nor title")
	}

	docID := extractDocID(raw.DocID)
	rec := patenttypes.Record{
		PatentID:          firstNonEmpty(docID, pubNumber),
		PublicationNumber: pubNumber,
		Title:             title,
		Abstract:          CleanText(raw.Abstract),
		Applicants:        cleanList(raw.Applicants),
		Inventors:         cleanList(raw.Inventors),
		PublicationDate:   ParseDate(raw.PublicationDate),
		ApplicationDate:   ParseDate(raw.ApplicationDate),
		IPCCodes:          cleanList(raw.IPCCodes),
		CPCCodes:          cleanList(raw.CPCCodes),
	}
	if rec.PatentID != "" && n.BaseURL != "" {
		rec.URL = fmt.Sprintf("%s/search/en/detail.jsf?docId=%s", n.BaseURL, rec.PatentID)
	}
	return rec, nil
}

// NormalizeAll normalizes a batch, dropping malformed sets. It returns
// the clean records and the number of drops.
func (n *Normalizer) NormalizeAll(raws []RawFieldSet) ([]patenttypes.Record, int) {
	records := make([]patenttypes.Record, 0, len(raws))
	dropped := 0
	for _, raw := range raws {
		rec, err := n.Normalize(raw)
		if err != nil {
			dropped++
			continue
		}
		records = append(records, rec)
	}
	return records, dropped
}

// CleanText unescapes HTML entities and collapses runs of whitespace.
func CleanText(s string) string {
	s = html.UnescapeString(s)
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// ParseDate tries each known layout and returns nil when none matches.
func ParseDate(s string) *time.Time {
	s = CleanText(s)
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}

// extractDocID accepts either a bare document id or a full href carrying
// a docId query parameter.
func extractDocID(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if m := docIDRe.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	if strings.ContainsAny(s, "/?&") {
		return ""
	}
	return s
}

func cleanList(items []string) []string {
	out := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		// Portal pages sometimes join several names in one cell.
		for _, part := range strings.Split(item, ";") {
			v := CleanText(part)
			if v == "" {
				continue
			}
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
