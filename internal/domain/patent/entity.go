// Package patent normalizes raw extracted field sets into clean records.
package patent

// RawFieldSet carries the untyped field values one extraction strategy
// pulled from a single result block or detail page. Values are whatever
// the strategy found, before any cleanup.
type RawFieldSet struct {
	PublicationNumber string
	Title             string
	Abstract          string
	Applicants        []string
	Inventors         []string
	PublicationDate   string
	ApplicationDate   string
	IPCCodes          []string
	CPCCodes          []string
	DocID             string
}

// Identified reports whether the set carries an identifying field. Sets
// without one are dropped by the normalizer, so they never make a
// strategy run count as successful.
func (r RawFieldSet) Identified() bool {
	return r.PublicationNumber != "" || r.Title != ""
}

// Empty reports whether the set holds no field at all.
func (r RawFieldSet) Empty() bool {
	return r.PublicationNumber == "" && r.Title == "" && r.Abstract == "" &&
		len(r.Applicants) == 0 && len(r.Inventors) == 0 &&
		r.PublicationDate == "" && r.ApplicationDate == "" &&
		len(r.IPCCodes) == 0 && len(r.CPCCodes) == 0 && r.DocID == ""
}
