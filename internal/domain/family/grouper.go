// Package family groups patent records that publish the same invention
// in different jurisdictions.
package family

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	patenttypes "github.com/praxisip/molscope/pkg/types/patent"
)

// familyNamespace seeds deterministic family identifiers, so the same
// grouping key always yields the same family id across processes.
var familyNamespace = uuid.MustParse("7b7c9f1e-30c1-4a9e-9a43-6f2f4a1d8e52")

var (
	pubNumberRe = regexp.MustCompile(`^([A-Z]{2})\s*(\d+)\s*([A-Z]\d?)?$`)
	yearRe      = regexp.MustCompile(`(19|20)\d{2}`)
)

// Grouper assigns records to patent families. Grouping is a pure
// function of the record fields: the same records in any order always
// produce the same families.
type Grouper struct{}

// NewGrouper returns a Grouper.
func NewGrouper() *Grouper {
	return &Grouper{}
}

// Key derives the grouping key for a record.
//
// The primary key is the numeric core of the publication number with the
// jurisdiction prefix and kind code stripped: WO2023123456A1,
// EP2023123456B1, and US2023123456A1 all share the key 2023123456. When
// the publication number does not parse, the fallback key is the first
// applicant plus the publication year. Records with neither are keyed by
// their own patent id and form singleton families.
func (g *Grouper) Key(rec patenttypes.Record) string {
	if m := pubNumberRe.FindStringSubmatch(normalizePubNumber(rec.PublicationNumber)); m != nil {
		return "num:" + strings.TrimLeft(m[2], "0")
	}
	if len(rec.Applicants) > 0 {
		if year := publicationYear(rec); year != "" {
			return "app:" + strings.ToUpper(rec.Applicants[0]) + ":" + year
		}
	}
	return "self:" + rec.PatentID
}

// Group partitions records into families. Families are sorted by id and
// members by publication number, so output order never depends on input
// order.
func (g *Grouper) Group(records []patenttypes.Record) []patenttypes.Family {
	byKey := make(map[string][]patenttypes.Record)
	for _, rec := range records {
		key := g.Key(rec)
		byKey[key] = append(byKey[key], rec)
	}

	families := make([]patenttypes.Family, 0, len(byKey))
	for key, members := range byKey {
		families = append(families, g.build(key, members))
	}
	sort.Slice(families, func(i, j int) bool {
		return families[i].FamilyID < families[j].FamilyID
	})
	return families
}

// FamilyFor returns the family containing primary, built from primary
// plus whichever candidates share its key.
func (g *Grouper) FamilyFor(primary patenttypes.Record, candidates []patenttypes.Record) patenttypes.Family {
	key := g.Key(primary)
	members := []patenttypes.Record{primary}
	for _, cand := range candidates {
		if cand.PatentID == primary.PatentID {
			continue
		}
		if g.Key(cand) == key {
			members = append(members, cand)
		}
	}
	return g.build(key, members)
}

func (g *Grouper) build(key string, members []patenttypes.Record) patenttypes.Family {
	sort.Slice(members, func(i, j int) bool {
		if members[i].PublicationNumber != members[j].PublicationNumber {
			return members[i].PublicationNumber < members[j].PublicationNumber
		}
		return members[i].PatentID < members[j].PatentID
	})

	var priority *time.Time
	jurisdictions := make([]string, 0, len(members))
	seen := make(map[string]struct{})
	seenNumbers := make(map[string]struct{})
	memberNumbers := make([]string, 0, len(members))
	for _, m := range members {
		// The same document can appear twice in sibling search results;
		// Members has set semantics so duplicates collapse.
		num := firstNonEmpty(m.PublicationNumber, m.PatentID)
		if _, ok := seenNumbers[num]; !ok {
			seenNumbers[num] = struct{}{}
			memberNumbers = append(memberNumbers, num)
		}
		if m.PublicationDate != nil && (priority == nil || m.PublicationDate.Before(*priority)) {
			d := *m.PublicationDate
			priority = &d
		}
		if j := jurisdiction(m.PublicationNumber); j != "" {
			if _, ok := seen[j]; !ok {
				seen[j] = struct{}{}
				jurisdictions = append(jurisdictions, j)
			}
		}
	}
	sort.Strings(jurisdictions)

	return patenttypes.Family{
		FamilyID:      fmt.Sprintf("FAM-%s", uuid.NewSHA1(familyNamespace, []byte(key))),
		PriorityDate:  priority,
		Members:       memberNumbers,
		Jurisdictions: jurisdictions,
	}
}

func jurisdiction(pubNumber string) string {
	if m := pubNumberRe.FindStringSubmatch(normalizePubNumber(pubNumber)); m != nil {
		return m[1]
	}
	return ""
}

func publicationYear(rec patenttypes.Record) string {
	if rec.PublicationDate != nil {
		return fmt.Sprintf("%d", rec.PublicationDate.Year())
	}
	if m := yearRe.FindString(rec.PublicationNumber); m != "" {
		return m
	}
	return ""
}

func normalizePubNumber(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
