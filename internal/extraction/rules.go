package extraction

// The portal does not offer a stable DOM: class names shift between
// releases and between result layouts. Each field therefore carries an
// ordered list of selectors, tried until one matches. Keeping the lists
// as data lets them be extended without touching strategy code.

var resultBlockSelectors = []string{
	".result-item",
	".patent-result",
	"tr.data-row",
	`div[class*="result"]`,
	`tr[class*="row"]`,
	`div[id*="result"]`,
	".resultSet > div",
	"table.resultTable tr",
}

var resultFieldSelectors = struct {
	PubNumber []string
	Title     []string
	Abstract  []string
	Applicant []string
	Inventor  []string
	Date      []string
	IPC       []string
}{
	PubNumber: []string{
		".publication-number",
		".pub-number",
		`a[href*="docId"]`,
		".docId",
		"td.number",
		`span[class*="number"]`,
	},
	Title: []string{
		".title",
		"h3",
		".patent-title",
		`a[href*="docId"]`,
		"td.title",
		`div[class*="title"]`,
	},
	Abstract: []string{
		".abstract",
		".summary",
		`div[class*="abstract"]`,
		"td.abstract",
	},
	Applicant: []string{
		".applicant",
		".applicant-name",
		`div[class*="applicant"]`,
		"td.applicant",
	},
	Inventor: []string{
		".inventor",
		".inventor-name",
		`div[class*="inventor"]`,
	},
	Date: []string{
		".publication-date",
		".pub-date",
		"td.date",
		`span[class*="date"]`,
	},
	IPC: []string{
		".ipc-code",
		".ipc",
		`span[class*="ipc"]`,
	},
}

var totalResultSelectors = []string{
	".total-results",
	".result-count",
	"#totalResults",
	".results-info",
	`span[class*="total"]`,
	`div[class*="count"]`,
}

// totalResultKeywords guards the whole-page fallback scan for the
// declared total, so arbitrary numbers on the page are not mistaken
// for a result count.
var totalResultKeywords = []string{"total", "results", "found", "resultados"}

var detailFieldSelectors = struct {
	Title          []string
	Abstract       []string
	PubNumber      []string
	PubDate        []string
	AppDate        []string
	InventorBlock  []string
	ApplicantBlock []string
	PersonName     []string
	InventorSpan   string
	ApplicantSpan  string
	IPC            []string
	CPC            []string
}{
	Title: []string{
		"h1.patent-title",
		".title",
		"h1",
		`div[class*="title"]`,
	},
	Abstract: []string{
		"#abstract",
		".abstract",
		`div[name="abstract"]`,
		`p[class*="abstract"]`,
	},
	PubNumber:      []string{".publication-number", "#publicationNumber"},
	PubDate:        []string{".publication-date", "#publicationDate"},
	AppDate:        []string{".application-date", "#applicationDate"},
	InventorBlock:  []string{".inventor", `[itemprop="inventor"]`},
	ApplicantBlock: []string{".applicant", `[itemprop="applicant"]`},
	PersonName:     []string{".name", ".inventor-name", ".applicant-name"},
	InventorSpan:   `span[class*="inventor"]`,
	ApplicantSpan:  `span[class*="applicant"]`,
	IPC:            []string{".ipc-code", `[itemprop="ipcCode"]`},
	CPC:            []string{".cpc-code", `[itemprop="cpcCode"]`},
}
