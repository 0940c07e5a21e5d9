package extraction

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/praxisip/molscope/internal/domain/patent"
	apperrors "github.com/praxisip/molscope/pkg/errors"
)

var numberRunRe = regexp.MustCompile(`\d[\d,]*`)

// SelectorStrategy extracts field sets with CSS selector fallback lists.
// It is the first strategy in the chain and handles both page kinds.
type SelectorStrategy struct{}

// NewSelectorStrategy returns the selector-based strategy.
func NewSelectorStrategy() *SelectorStrategy {
	return &SelectorStrategy{}
}

func (s *SelectorStrategy) Name() string { return "selector" }

func (s *SelectorStrategy) Extract(_ context.Context, doc Document) (*Result, error) {
	root, err := goquery.NewDocumentFromReader(strings.NewReader(doc.HTML))
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeExtractionFailed, "parse html")
	}

	if doc.Kind == KindDetail {
		return s.extractDetail(root), nil
	}
	return s.extractSearchResults(root), nil
}

func (s *SelectorStrategy) extractSearchResults(root *goquery.Document) *Result {
	var blocks *goquery.Selection
	for _, sel := range resultBlockSelectors {
		found := root.Find(sel)
		if found.Length() > 0 {
			blocks = found
			break
		}
	}

	res := &Result{TotalResults: extractTotalResults(root)}
	if blocks == nil {
		return res
	}

	blocks.Each(func(_ int, block *goquery.Selection) {
		set := patent.RawFieldSet{
			PublicationNumber: firstText(block, resultFieldSelectors.PubNumber),
			Title:             firstText(block, resultFieldSelectors.Title),
			Abstract:          joinTexts(block, resultFieldSelectors.Abstract),
			Applicants:        allTexts(block, resultFieldSelectors.Applicant),
			Inventors:         allTexts(block, resultFieldSelectors.Inventor),
			PublicationDate:   firstText(block, resultFieldSelectors.Date),
			IPCCodes:          allTexts(block, resultFieldSelectors.IPC),
		}
		if href, ok := block.Find(`a[href*="docId"]`).First().Attr("href"); ok {
			set.DocID = href
		}
		if !set.Empty() {
			res.FieldSets = append(res.FieldSets, set)
		}
	})
	return res
}

func (s *SelectorStrategy) extractDetail(root *goquery.Document) *Result {
	set := patent.RawFieldSet{
		Title:             firstText(root.Selection, detailFieldSelectors.Title),
		Abstract:          joinTexts(root.Selection, detailFieldSelectors.Abstract),
		PublicationNumber: firstText(root.Selection, detailFieldSelectors.PubNumber),
		PublicationDate:   firstText(root.Selection, detailFieldSelectors.PubDate),
		ApplicationDate:   firstText(root.Selection, detailFieldSelectors.AppDate),
		Inventors:         extractPersons(root, detailFieldSelectors.InventorBlock, detailFieldSelectors.InventorSpan),
		Applicants:        extractPersons(root, detailFieldSelectors.ApplicantBlock, detailFieldSelectors.ApplicantSpan),
		IPCCodes:          allTexts(root.Selection, detailFieldSelectors.IPC),
		CPCCodes:          allTexts(root.Selection, detailFieldSelectors.CPC),
	}

	res := &Result{}
	if !set.Empty() {
		res.FieldSets = []patent.RawFieldSet{set}
	}
	return res
}

// extractPersons reads structured name blocks first and falls back to a
// flat span scan when the page uses the older layout.
func extractPersons(root *goquery.Document, blockSelectors []string, spanFallback string) []string {
	var names []string
	for _, sel := range blockSelectors {
		root.Find(sel).Each(func(_ int, block *goquery.Selection) {
			name := firstText(block, detailFieldSelectors.PersonName)
			if name == "" {
				name = strings.TrimSpace(block.Text())
			}
			if name != "" {
				names = append(names, name)
			}
		})
		if len(names) > 0 {
			return names
		}
	}
	root.Find(spanFallback).Each(func(_ int, span *goquery.Selection) {
		if name := strings.TrimSpace(span.Text()); name != "" {
			names = append(names, name)
		}
	})
	return names
}

// extractTotalResults reads the declared result count. Several numbers
// can appear in the counter text (page range plus total); the largest
// one is the total.
func extractTotalResults(root *goquery.Document) int {
	for _, sel := range totalResultSelectors {
		node := root.Find(sel).First()
		if node.Length() == 0 {
			continue
		}
		if n := maxNumberIn(node.Text()); n > 0 {
			return n
		}
	}

	total := 0
	root.Find("*").EachWithBreak(func(_ int, node *goquery.Selection) bool {
		if node.Children().Length() > 0 {
			return true
		}
		text := node.Text()
		lower := strings.ToLower(text)
		for _, kw := range totalResultKeywords {
			if strings.Contains(lower, kw) {
				if n := maxNumberIn(text); n > 0 {
					total = n
					return false
				}
			}
		}
		return true
	})
	return total
}

func maxNumberIn(text string) int {
	best := 0
	for _, m := range numberRunRe.FindAllString(text, -1) {
		n, err := strconv.Atoi(strings.ReplaceAll(m, ",", ""))
		if err == nil && n > best {
			best = n
		}
	}
	return best
}

func firstText(scope *goquery.Selection, selectors []string) string {
	for _, sel := range selectors {
		if text := strings.TrimSpace(scope.Find(sel).First().Text()); text != "" {
			return text
		}
	}
	return ""
}

func joinTexts(scope *goquery.Selection, selectors []string) string {
	for _, sel := range selectors {
		nodes := scope.Find(sel)
		if nodes.Length() == 0 {
			continue
		}
		var parts []string
		nodes.Each(func(_ int, node *goquery.Selection) {
			if text := strings.TrimSpace(node.Text()); text != "" {
				parts = append(parts, text)
			}
		})
		if len(parts) > 0 {
			return strings.Join(parts, " ")
		}
	}
	return ""
}

func allTexts(scope *goquery.Selection, selectors []string) []string {
	var out []string
	for _, sel := range selectors {
		var found []string
		scope.Find(sel).Each(func(_ int, node *goquery.Selection) {
			if text := strings.TrimSpace(node.Text()); text != "" {
				found = append(found, text)
			}
		})
		if len(found) > 0 {
			out = append(out, found...)
			return out
		}
	}
	return out
}
